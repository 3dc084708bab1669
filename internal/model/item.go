// Package model defines data structures used throughout the application.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors for Item.
var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrEmptyCategory    = errors.New("category cannot be empty")
	ErrNameTooLong      = errors.New("name cannot exceed 255 characters")
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrDescriptionLimit = errors.New("description cannot exceed 1000 characters")
)

// Validation constants.
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
)

// LocalIDPrefix marks identifiers synthesized by the local fallback store,
// keeping them distinguishable from database-assigned IDs.
const LocalIDPrefix = "local_"

// Categories is the fixed set of item categories presented to the user.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Books",
	"Home & Garden",
	"Sports",
	"Toys",
	"Other",
}

// ValidCategory reports whether category is one of the known Categories.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Item represents a catalog entry.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate checks if the Item has valid field values.
func (i *Item) Validate() error {
	if i.Name == "" {
		return ErrEmptyName
	}

	if len(i.Name) > MaxNameLength {
		return ErrNameTooLong
	}

	if i.Description == "" {
		return ErrEmptyDescription
	}

	if len(i.Description) > MaxDescriptionLength {
		return ErrDescriptionLimit
	}

	if i.Category == "" {
		return ErrEmptyCategory
	}

	if i.Price < 0 {
		return ErrNegativePrice
	}

	return nil
}

// ValidationError describes a form input rejected before any I/O is attempted.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ItemInput carries the four editable fields as captured from the form,
// with price still in its raw string form.
type ItemInput struct {
	Name        string
	Description string
	Category    string
	Price       string
}

// Validate checks the input the way the form does: all four fields required,
// price numeric and non-negative. It returns a *ValidationError describing
// the first offending field.
func (in *ItemInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}

	if strings.TrimSpace(in.Description) == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}

	if strings.TrimSpace(in.Category) == "" {
		return &ValidationError{Field: "category", Message: "category is required"}
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	if err != nil {
		return &ValidationError{Field: "price", Message: "price must be a number"}
	}

	if price < 0 {
		return &ValidationError{Field: "price", Message: "price cannot be negative"}
	}

	return nil
}

// Item materializes the validated input as an Item with the editable fields
// populated. Validate must have been called first; a parse failure here
// yields a zero price.
func (in *ItemInput) Item() Item {
	price, _ := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)

	return Item{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Price:       price,
	}
}

// NewLocalID synthesizes an identifier for a locally-created item: a
// recognizable prefix, a nanosecond timestamp, and a random suffix so two
// IDs minted in the same instant still differ.
func NewLocalID() string {
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("%s%d_%s", LocalIDPrefix, time.Now().UnixNano(), suffix)
}

// ItemEvent is a change-feed message broadcast over the WebSocket endpoint.
type ItemEvent struct {
	Type      string    `json:"type"`
	Item      *Item     `json:"item,omitempty"`
	ID        string    `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Change-feed event types.
const (
	EventItemCreated = "item_created"
	EventItemUpdated = "item_updated"
	EventItemDeleted = "item_deleted"
)

// NewItemCreatedEvent builds a change-feed event for a created item.
func NewItemCreatedEvent(item *Item) ItemEvent {
	return ItemEvent{Type: EventItemCreated, Item: item, ID: item.ID, Timestamp: time.Now().UTC()}
}

// NewItemUpdatedEvent builds a change-feed event for an updated item.
func NewItemUpdatedEvent(item *Item) ItemEvent {
	return ItemEvent{Type: EventItemUpdated, Item: item, ID: item.ID, Timestamp: time.Now().UTC()}
}

// NewItemDeletedEvent builds a change-feed event for a deleted item.
func NewItemDeletedEvent(id string) ItemEvent {
	return ItemEvent{Type: EventItemDeleted, ID: id, Timestamp: time.Now().UTC()}
}

// Matches reports whether the item passes the given filter: search matches
// case-insensitively against name or description, category matches exactly,
// and both predicates are ANDed. An empty predicate is skipped.
func (i *Item) Matches(search, category string) bool {
	if search != "" {
		s := strings.ToLower(search)
		if !strings.Contains(strings.ToLower(i.Name), s) &&
			!strings.Contains(strings.ToLower(i.Description), s) {
			return false
		}
	}

	if category != "" && i.Category != category {
		return false
	}

	return true
}
