// Package store provides data storage interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/altamash-faraz/itemcatalog/internal/model"
)

// Store errors.
var (
	ErrNotFound    = errors.New("item not found")
	ErrInvalidID   = errors.New("invalid item ID")
	ErrNilItem     = errors.New("item cannot be nil")
	ErrUnavailable = errors.New("store unavailable")
)

// Store defines the interface for item storage operations.
type Store interface {
	// List returns all items from the store, newest first.
	List(ctx context.Context) ([]model.Item, error)

	// Get retrieves an item by its ID.
	Get(ctx context.Context, id string) (*model.Item, error)

	// Create adds a new item to the store and returns the created item with generated ID.
	Create(ctx context.Context, item *model.Item) (*model.Item, error)

	// Update replaces the editable fields of an existing item, preserving
	// its ID and creation time.
	Update(ctx context.Context, id string, item *model.Item) (*model.Item, error)

	// Delete removes an item from the store by its ID.
	Delete(ctx context.Context, id string) error
}
