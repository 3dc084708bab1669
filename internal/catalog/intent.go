package catalog

import (
	"io"

	"github.com/altamash-faraz/itemcatalog/internal/model"
)

// Intent is a typed user command emitted by the view and consumed by the
// controller.
type Intent interface {
	isIntent()
}

// CreateIntent submits a new item from form input.
type CreateIntent struct {
	Input model.ItemInput
}

// EditIntent replaces the editable fields of an existing item.
type EditIntent struct {
	ID    string
	Input model.ItemInput
}

// DeleteIntent removes an item.
type DeleteIntent struct {
	ID string
}

// FilterIntent changes the search text and category selection.
type FilterIntent struct {
	Search   string
	Category string
}

// ReloadIntent refreshes the working set from the active store.
type ReloadIntent struct{}

// ExportIntent serializes the working set as CSV into Writer.
type ExportIntent struct {
	Writer io.Writer
}

func (CreateIntent) isIntent() {}
func (EditIntent) isIntent()   {}
func (DeleteIntent) isIntent() {}
func (FilterIntent) isIntent() {}
func (ReloadIntent) isIntent() {}
func (ExportIntent) isIntent() {}
