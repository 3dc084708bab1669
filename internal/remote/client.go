// Package remote implements the item store backed by the catalog REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/altamash-faraz/itemcatalog/internal/model"
	"github.com/altamash-faraz/itemcatalog/internal/store"
)

// DefaultTimeout bounds a single API round-trip.
const DefaultTimeout = 10 * time.Second

// DomainError carries the human-readable message of a non-success API
// response, uniformly regardless of whether the server supplied one.
type DomainError struct {
	Message string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return e.Message
}

// errorBody is the failure shape the API responds with.
type errorBody struct {
	Error string `json:"error"`
}

// itemPayload is the request body for create and update: the four editable
// fields only.
type itemPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

// Client implements store.Store over the /api/items REST surface.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the API at baseURL. A zero timeout uses
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// itemsURL builds the collection or single-item URL.
func (c *Client) itemsURL(id string) string {
	if id == "" {
		return c.baseURL + "/api/items"
	}
	return c.baseURL + "/api/items/" + url.PathEscape(id)
}

// do executes the request and classifies failures. Transport-level errors
// and HTTP 503 both mean the API is unreachable and map to
// store.ErrUnavailable so the gateway can fail over.
func (c *Client) do(ctx context.Context, method, rawURL string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	return resp, nil
}

// decodeError turns a non-success response into the appropriate error.
// fallbackMsg is used when the server did not supply a message.
func decodeError(resp *http.Response, fallbackMsg string) error {
	defer func() {
		_ = resp.Body.Close()
	}()

	var body errorBody
	msg := fallbackMsg
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		msg = body.Error
	}

	switch resp.StatusCode {
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", store.ErrUnavailable, msg)
	case http.StatusNotFound:
		return store.ErrNotFound
	default:
		return &DomainError{Message: msg}
	}
}

// decodeItem decodes a single item from a success response body.
func decodeItem(resp *http.Response) (*model.Item, error) {
	defer func() {
		_ = resp.Body.Close()
	}()

	var item model.Item
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("decoding item: %w", err)
	}

	return &item, nil
}

// List returns all items from the API.
func (c *Client) List(ctx context.Context) ([]model.Item, error) {
	resp, err := c.do(ctx, http.MethodGet, c.itemsURL(""), nil)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list items: %w", decodeError(resp, "failed to load items"))
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	var items []model.Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("list items: decoding response: %w", err)
	}

	return items, nil
}

// Get retrieves an item by its ID.
func (c *Client) Get(ctx context.Context, id string) (*model.Item, error) {
	if id == "" {
		return nil, store.ErrInvalidID
	}

	resp, err := c.do(ctx, http.MethodGet, c.itemsURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get item: %w", decodeError(resp, "failed to load item"))
	}

	return decodeItem(resp)
}

// Create posts a new item to the API and returns the created record.
func (c *Client) Create(ctx context.Context, item *model.Item) (*model.Item, error) {
	if item == nil {
		return nil, fmt.Errorf("create item: %w", store.ErrNilItem)
	}

	payload := itemPayload{
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Price:       item.Price,
	}

	resp, err := c.do(ctx, http.MethodPost, c.itemsURL(""), payload)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create item: %w", decodeError(resp, "failed to create item"))
	}

	return decodeItem(resp)
}

// Update replaces the editable fields of the item with the given ID.
func (c *Client) Update(ctx context.Context, id string, item *model.Item) (*model.Item, error) {
	if id == "" {
		return nil, store.ErrInvalidID
	}

	if item == nil {
		return nil, fmt.Errorf("update item: %w", store.ErrNilItem)
	}

	payload := itemPayload{
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Price:       item.Price,
	}

	resp, err := c.do(ctx, http.MethodPut, c.itemsURL(id), payload)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("update item: %w", decodeError(resp, "failed to update item"))
	}

	return decodeItem(resp)
}

// Delete removes the item with the given ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return store.ErrInvalidID
	}

	resp, err := c.do(ctx, http.MethodDelete, c.itemsURL(id), nil)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete item: %w", decodeError(resp, "failed to delete item"))
	}

	_ = resp.Body.Close()

	return nil
}
