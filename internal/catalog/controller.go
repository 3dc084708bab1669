// Package catalog maintains the in-memory working set of items and derives
// the filtered view shown to the user.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/altamash-faraz/itemcatalog/internal/gateway"
	"github.com/altamash-faraz/itemcatalog/internal/model"
)

// Controller holds the working set loaded from the gateway and applies
// search and category filtering without re-querying the store on every
// filter change. The working set is a disposable cache, never a source of
// truth across sessions.
type Controller struct {
	gw     *gateway.Gateway
	view   View
	logger *zap.Logger

	mu       sync.Mutex
	all      []model.Item
	filtered []model.Item
	search   string
	category string
}

// NewController creates a Controller rendering into view. A nil view is
// allowed; rendering is then skipped, which tests use.
func NewController(gw *gateway.Gateway, view View, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{
		gw:     gw,
		view:   view,
		logger: logger,
	}
}

// Items returns a copy of the full working set.
func (c *Controller) Items() []model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]model.Item, len(c.all))
	copy(items, c.all)
	return items
}

// Filtered returns a copy of the currently filtered view.
func (c *Controller) Filtered() []model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]model.Item, len(c.filtered))
	copy(items, c.filtered)
	return items
}

// Reload replaces the working set wholesale from the gateway and
// recomputes the filtered view. On failure the working set is left
// unchanged and the error is returned for display; there is no automatic
// retry.
func (c *Controller) Reload(ctx context.Context) error {
	items, err := c.gw.FetchAll(ctx)
	if err != nil {
		c.logger.Error("failed to load items", zap.Error(err))
		return fmt.Errorf("loading items: %w", err)
	}

	c.mu.Lock()
	c.all = items
	c.applyFilterLocked()
	filtered := make([]model.Item, len(c.filtered))
	copy(filtered, c.filtered)
	c.mu.Unlock()

	c.render(filtered)
	return nil
}

// SetFilter recomputes the filtered view from the working set. The
// recomputation is synchronous and never touches the store.
func (c *Controller) SetFilter(search, category string) {
	c.mu.Lock()
	c.search = search
	c.category = category
	c.applyFilterLocked()
	filtered := make([]model.Item, len(c.filtered))
	copy(filtered, c.filtered)
	c.mu.Unlock()

	c.render(filtered)
}

// applyFilterLocked recomputes filtered from all under the held lock.
// Search matches case-insensitively against name or description; category
// matches exactly; both predicates are ANDed, and an empty predicate is
// skipped.
func (c *Controller) applyFilterLocked() {
	search := strings.TrimSpace(c.search)

	filtered := make([]model.Item, 0, len(c.all))
	for _, item := range c.all {
		if item.Matches(search, c.category) {
			filtered = append(filtered, item)
		}
	}

	c.filtered = filtered
}

// render pushes the filtered view to the display sink.
func (c *Controller) render(items []model.Item) {
	if c.view != nil {
		c.view.RenderItems(items)
	}
}

// CreateItem validates the form input and persists a new item through the
// gateway. Validation failures abort before any I/O. The reload is
// sequenced strictly after the write completes, so the displayed list
// reflects the new item.
func (c *Controller) CreateItem(ctx context.Context, input model.ItemInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	item := input.Item()
	if _, err := c.gw.Create(ctx, &item); err != nil {
		return fmt.Errorf("creating item: %w", err)
	}

	return c.Reload(ctx)
}

// UpdateItem validates the form input and replaces the editable fields of
// the item with the given ID.
func (c *Controller) UpdateItem(ctx context.Context, id string, input model.ItemInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	item := input.Item()
	if _, err := c.gw.Update(ctx, id, &item); err != nil {
		return fmt.Errorf("updating item: %w", err)
	}

	return c.Reload(ctx)
}

// DeleteItem removes the item with the given ID and reloads the working
// set.
func (c *Controller) DeleteItem(ctx context.Context, id string) error {
	if err := c.gw.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	return c.Reload(ctx)
}

// FetchItem retrieves a single item, used to populate the edit form.
func (c *Controller) FetchItem(ctx context.Context, id string) (*model.Item, error) {
	item, err := c.gw.FetchOne(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading item: %w", err)
	}

	return item, nil
}

// Handle dispatches a typed intent from the view. Success messages are
// shown through the view; the error is returned to the initiating action
// for display.
func (c *Controller) Handle(ctx context.Context, intent Intent) error {
	switch in := intent.(type) {
	case CreateIntent:
		if err := c.CreateItem(ctx, in.Input); err != nil {
			return err
		}
		c.message(MessageSuccess, "Item created successfully!")
		return nil

	case EditIntent:
		if err := c.UpdateItem(ctx, in.ID, in.Input); err != nil {
			return err
		}
		c.message(MessageSuccess, "Item updated successfully!")
		return nil

	case DeleteIntent:
		if err := c.DeleteItem(ctx, in.ID); err != nil {
			return err
		}
		c.message(MessageSuccess, "Item deleted successfully!")
		return nil

	case FilterIntent:
		c.SetFilter(in.Search, in.Category)
		return nil

	case ReloadIntent:
		return c.Reload(ctx)

	case ExportIntent:
		return c.ExportCSV(in.Writer)

	default:
		return fmt.Errorf("unknown intent type %T", intent)
	}
}

// message shows a user-facing message when a view is attached.
func (c *Controller) message(kind MessageKind, text string) {
	if c.view != nil {
		c.view.ShowMessage(kind, text)
	}
}
