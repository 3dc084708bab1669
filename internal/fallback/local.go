// Package fallback provides the client-local item store used when the
// catalog API is unreachable. The whole collection is serialized as a
// single JSON array in one well-known file, mirroring how a browser client
// would keep it under one localStorage key.
package fallback

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/altamash-faraz/itemcatalog/internal/model"
	"github.com/altamash-faraz/itemcatalog/internal/store"
)

// DefaultFileName is the well-known file the collection is stored under.
const DefaultFileName = "catalog_items.json"

// FileStore implements store.Store over a single JSON file. Every mutation
// is a whole-collection read-modify-write guarded by the mutex.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore persisting to path. The parent directory
// is created if it does not exist; the file itself is created lazily on the
// first write.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating fallback directory: %w", err)
		}
	}

	return &FileStore{path: path}, nil
}

// Path returns the file the collection is persisted to.
func (s *FileStore) Path() string {
	return s.path
}

// load reads the full collection. A missing or malformed file reads as an
// empty collection rather than an error, so a corrupted fallback never
// blocks the client.
func (s *FileStore) load() []model.Item {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var items []model.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}

	return items
}

// save writes the full collection back to the file. The write goes to a
// temp file in the same directory first and is renamed over the target, so
// a crash mid-write leaves the previous collection intact instead of a
// truncated file the tolerant loader would read as empty.
func (s *FileStore) save(items []model.Item) error {
	if items == nil {
		items = []model.Item{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding fallback collection: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating fallback temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing fallback collection: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("closing fallback temp file: %w", err)
	}

	// CreateTemp uses 0600; keep the collection world-readable like a
	// plain WriteFile would.
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("setting fallback file mode: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replacing fallback collection: %w", err)
	}

	return nil
}

// List returns all items from the file, newest first as persisted.
func (s *FileStore) List(ctx context.Context) ([]model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list items: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(), nil
}

// Get linear-scans the collection for the item with the given ID.
func (s *FileStore) Get(ctx context.Context, id string) (*model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("get item: %w", ctx.Err())
	default:
	}

	if id == "" {
		return nil, store.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.load() {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}

	return nil, store.ErrNotFound
}

// Create assigns a local ID and the client clock's creation time, prepends
// the item so the newest comes first, and re-persists the collection.
func (s *FileStore) Create(ctx context.Context, item *model.Item) (*model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("create item: %w", ctx.Err())
	default:
	}

	if item == nil {
		return nil, fmt.Errorf("create item: %w", store.ErrNilItem)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	newItem := model.Item{
		ID:          model.NewLocalID(),
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Price:       item.Price,
		CreatedAt:   time.Now(),
	}

	items := append([]model.Item{newItem}, s.load()...)
	if err := s.save(items); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	return &newItem, nil
}

// Update locates the item by ID, replaces the four editable fields in
// place, and re-persists the full collection.
func (s *FileStore) Update(ctx context.Context, id string, item *model.Item) (*model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("update item: %w", ctx.Err())
	default:
	}

	if id == "" {
		return nil, store.ErrInvalidID
	}

	if item == nil {
		return nil, fmt.Errorf("update item: %w", store.ErrNilItem)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	for i := range items {
		if items[i].ID != id {
			continue
		}

		items[i].Name = item.Name
		items[i].Description = item.Description
		items[i].Category = item.Category
		items[i].Price = item.Price

		if err := s.save(items); err != nil {
			return nil, fmt.Errorf("update item: %w", err)
		}

		updated := items[i]
		return &updated, nil
	}

	return nil, store.ErrNotFound
}

// Delete filters the item out of the collection and re-persists it.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("delete item: %w", ctx.Err())
	default:
	}

	if id == "" {
		return store.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	remaining := make([]model.Item, 0, len(items))
	found := false

	for _, item := range items {
		if item.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, item)
	}

	if !found {
		return store.ErrNotFound
	}

	if err := s.save(remaining); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	return nil
}
