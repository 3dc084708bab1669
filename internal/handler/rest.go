package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/altamash-faraz/itemcatalog/internal/catalog"
	"github.com/altamash-faraz/itemcatalog/internal/model"
	"github.com/altamash-faraz/itemcatalog/internal/store"
)

// Version is the application version.
const Version = "1.0.0"

// Broadcaster pushes item change events to connected change-feed clients.
type Broadcaster interface {
	Broadcast(event model.ItemEvent)
}

// RESTHandler handles REST API requests for items.
type RESTHandler struct {
	store  store.Store
	logger *zap.Logger
	feed   Broadcaster
}

// NewRESTHandler creates a new RESTHandler instance. feed may be nil when
// no change feed is attached.
func NewRESTHandler(s store.Store, logger *zap.Logger, feed Broadcaster) *RESTHandler {
	return &RESTHandler{
		store:  s,
		logger: logger,
		feed:   feed,
	}
}

// RegisterRoutes registers the REST API routes with the router.
func (h *RESTHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/api/items", h.ListItems).Methods(http.MethodGet)
	router.HandleFunc("/api/items", h.CreateItem).Methods(http.MethodPost)
	router.HandleFunc("/api/items/{id}", h.GetItem).Methods(http.MethodGet)
	router.HandleFunc("/api/items/{id}", h.UpdateItem).Methods(http.MethodPut)
	router.HandleFunc("/api/items/{id}", h.DeleteItem).Methods(http.MethodDelete)
	router.HandleFunc("/api/categories", h.Categories).Methods(http.MethodGet)
	router.HandleFunc("/api/stats", h.Stats).Methods(http.MethodGet)
	router.HandleFunc("/api/export/items", h.ExportItems).Methods(http.MethodGet)
}

// HealthCheck handles GET /health requests.
func (h *RESTHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: Version,
	})
}

// ListItems handles GET /api/items requests. The optional search and
// category query parameters filter the result server-side.
func (h *RESTHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.store.List(ctx)
	if err != nil {
		h.handleStoreError(w, err, "list items")
		return
	}

	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")

	if search != "" || category != "" {
		filtered := make([]model.Item, 0, len(items))
		for _, item := range items {
			if item.Matches(search, category) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	if items == nil {
		items = []model.Item{}
	}

	h.writeJSON(w, http.StatusOK, items)
}

// GetItem handles GET /api/items/{id} requests.
func (h *RESTHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	item, err := h.store.Get(ctx, id)
	if err != nil {
		h.handleStoreError(w, err, "get item")
		return
	}

	h.writeJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /api/items requests.
func (h *RESTHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input model.Item
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := input.Validate(); err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.store.Create(ctx, &input)
	if err != nil {
		h.handleStoreError(w, err, "create item")
		return
	}

	h.broadcast(model.NewItemCreatedEvent(item))
	h.writeJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/items/{id} requests.
func (h *RESTHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	var input model.Item
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := input.Validate(); err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.store.Update(ctx, id, &input)
	if err != nil {
		h.handleStoreError(w, err, "update item")
		return
	}

	h.broadcast(model.NewItemUpdatedEvent(item))
	h.writeJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/items/{id} requests.
func (h *RESTHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	if err := h.store.Delete(ctx, id); err != nil {
		h.handleStoreError(w, err, "delete item")
		return
	}

	h.broadcast(model.NewItemDeletedEvent(id))
	h.writeJSON(w, http.StatusOK, DeleteResponse{Message: "Item deleted successfully"})
}

// Categories handles GET /api/categories requests, returning the known
// categories with their item counts, sorted by name. Categories only present
// on stored items are included alongside the fixed set.
func (h *RESTHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.store.List(ctx)
	if err != nil {
		h.handleStoreError(w, err, "categories")
		return
	}

	counts := make(map[string]int, len(model.Categories))
	for _, name := range model.Categories {
		counts[name] = 0
	}
	for _, item := range items {
		counts[item.Category]++
	}

	categories := make([]CategoryResponse, 0, len(counts))
	for name, count := range counts {
		categories = append(categories, CategoryResponse{Name: name, ItemCount: count})
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})

	h.writeJSON(w, http.StatusOK, categories)
}

// Stats handles GET /api/stats requests with catalog summary figures.
func (h *RESTHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.store.List(ctx)
	if err != nil {
		h.handleStoreError(w, err, "stats")
		return
	}

	stats := StatsResponse{
		TotalItems: len(items),
		Categories: make(map[string]int),
	}

	for _, item := range items {
		stats.TotalValue += item.Price
		stats.Categories[item.Category]++
	}

	if len(items) > 0 {
		stats.AveragePrice = stats.TotalValue / float64(len(items))
	}

	h.writeJSON(w, http.StatusOK, stats)
}

// ExportItems handles GET /api/export/items requests, streaming the full
// catalog as a CSV download.
func (h *RESTHandler) ExportItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.store.List(ctx)
	if err != nil {
		h.handleStoreError(w, err, "export items")
		return
	}

	if len(items) == 0 {
		h.writeError(w, http.StatusNotFound, "no items to export")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+catalog.ExportFileName(time.Now()))

	if err := catalog.WriteCSV(w, items); err != nil {
		h.logger.Error("failed to write export", zap.Error(err))
	}
}

// broadcast pushes an item change event when a feed is attached.
func (h *RESTHandler) broadcast(event model.ItemEvent) {
	if h.feed != nil {
		h.feed.Broadcast(event)
	}
}

// handleStoreError handles store errors and writes appropriate HTTP responses.
func (h *RESTHandler) handleStoreError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "Item not found")
	case errors.Is(err, store.ErrInvalidID):
		h.writeError(w, http.StatusBadRequest, "invalid item ID")
	case errors.Is(err, store.ErrUnavailable):
		h.logger.Error("store unavailable", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusServiceUnavailable, "Database not connected")
	default:
		h.logger.Error("store operation failed", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *RESTHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError writes the API's uniform error body.
func (h *RESTHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, ErrorResponse{Error: message})
}
