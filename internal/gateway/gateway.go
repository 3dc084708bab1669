// Package gateway routes item operations to the remote API store or the
// local fallback store, failing over transparently when the API is
// unreachable.
package gateway

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/altamash-faraz/itemcatalog/internal/model"
	"github.com/altamash-faraz/itemcatalog/internal/store"
)

// Mode is the gateway's routing state. The transition is one-way: once a
// session degrades to the fallback store it stays there, even if the remote
// store recovers, to avoid oscillation and a split dataset mid-session.
type Mode int

// Gateway modes.
const (
	ModeRemote Mode = iota
	ModeFallback
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeRemote:
		return "remote"
	case ModeFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Prometheus metrics.
var (
	failoversTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_gateway_failovers_total",
			Help: "Total number of remote-to-fallback failover transitions",
		},
	)

	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_gateway_operations_total",
			Help: "Total number of gateway operations by operation and serving mode",
		},
		[]string{"operation", "mode"},
	)
)

// Gateway presents a single CRUD interface indifferent to which backing
// store serves it. It is session-scoped: each Gateway carries its own mode
// state, so independent sessions never interfere.
type Gateway struct {
	mu         sync.Mutex
	mode       Mode
	remote     store.Store
	local      store.Store
	logger     *zap.Logger
	onFailover func()
	notified   bool
}

// New creates a Gateway starting in remote mode. onFailover, if non-nil,
// is invoked exactly once when the session degrades to the fallback store;
// it is the hook for the one-time user-visible warning.
func New(remote, local store.Store, logger *zap.Logger, onFailover func()) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Gateway{
		mode:       ModeRemote,
		remote:     remote,
		local:      local,
		logger:     logger,
		onFailover: onFailover,
	}
}

// Mode returns the current routing mode.
func (g *Gateway) Mode() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

// failover flips the gateway into fallback mode. Flipping more than once is
// harmless; the notification hook fires only on the first transition.
func (g *Gateway) failover(operation string, cause error) {
	g.mu.Lock()
	alreadyDegraded := g.mode == ModeFallback
	g.mode = ModeFallback
	notify := !g.notified
	g.notified = true
	g.mu.Unlock()

	if alreadyDegraded {
		return
	}

	failoversTotal.Inc()
	g.logger.Warn("remote store unavailable, failing over to local fallback",
		zap.String("operation", operation),
		zap.Error(cause),
	)

	if notify && g.onFailover != nil {
		g.onFailover()
	}
}

// FetchAll returns all items from whichever store is active.
func (g *Gateway) FetchAll(ctx context.Context) ([]model.Item, error) {
	if g.Mode() == ModeFallback {
		operationsTotal.WithLabelValues("fetch_all", ModeFallback.String()).Inc()
		return g.local.List(ctx)
	}

	items, err := g.remote.List(ctx)
	if err == nil {
		operationsTotal.WithLabelValues("fetch_all", ModeRemote.String()).Inc()
		return items, nil
	}

	if !errors.Is(err, store.ErrUnavailable) {
		return nil, err
	}

	g.failover("fetch_all", err)
	operationsTotal.WithLabelValues("fetch_all", ModeFallback.String()).Inc()
	return g.local.List(ctx)
}

// FetchOne returns the item with the given ID from whichever store is
// active. A missing item is store.ErrNotFound in either mode.
func (g *Gateway) FetchOne(ctx context.Context, id string) (*model.Item, error) {
	if g.Mode() == ModeFallback {
		operationsTotal.WithLabelValues("fetch_one", ModeFallback.String()).Inc()
		return g.local.Get(ctx, id)
	}

	item, err := g.remote.Get(ctx, id)
	if err == nil {
		operationsTotal.WithLabelValues("fetch_one", ModeRemote.String()).Inc()
		return item, nil
	}

	if !errors.Is(err, store.ErrUnavailable) {
		return nil, err
	}

	g.failover("fetch_one", err)
	operationsTotal.WithLabelValues("fetch_one", ModeFallback.String()).Inc()
	return g.local.Get(ctx, id)
}

// Create persists a new item. If the remote attempt observes
// unavailability, the same logical operation completes against the
// fallback store within the same call; the user's intent never errors out
// on a failed remote round-trip alone.
func (g *Gateway) Create(ctx context.Context, item *model.Item) (*model.Item, error) {
	if g.Mode() == ModeFallback {
		operationsTotal.WithLabelValues("create", ModeFallback.String()).Inc()
		return g.local.Create(ctx, item)
	}

	created, err := g.remote.Create(ctx, item)
	if err == nil {
		operationsTotal.WithLabelValues("create", ModeRemote.String()).Inc()
		return created, nil
	}

	if !errors.Is(err, store.ErrUnavailable) {
		return nil, err
	}

	g.failover("create", err)
	operationsTotal.WithLabelValues("create", ModeFallback.String()).Inc()
	return g.local.Create(ctx, item)
}

// Update replaces the editable fields of the item with the given ID, with
// the same failover behavior as Create.
func (g *Gateway) Update(ctx context.Context, id string, item *model.Item) (*model.Item, error) {
	if g.Mode() == ModeFallback {
		operationsTotal.WithLabelValues("update", ModeFallback.String()).Inc()
		return g.local.Update(ctx, id, item)
	}

	updated, err := g.remote.Update(ctx, id, item)
	if err == nil {
		operationsTotal.WithLabelValues("update", ModeRemote.String()).Inc()
		return updated, nil
	}

	if !errors.Is(err, store.ErrUnavailable) {
		return nil, err
	}

	g.failover("update", err)
	operationsTotal.WithLabelValues("update", ModeFallback.String()).Inc()
	return g.local.Update(ctx, id, item)
}

// Delete removes the item with the given ID, with the same failover
// behavior as Create.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	if g.Mode() == ModeFallback {
		operationsTotal.WithLabelValues("delete", ModeFallback.String()).Inc()
		return g.local.Delete(ctx, id)
	}

	err := g.remote.Delete(ctx, id)
	if err == nil {
		operationsTotal.WithLabelValues("delete", ModeRemote.String()).Inc()
		return nil
	}

	if !errors.Is(err, store.ErrUnavailable) {
		return err
	}

	g.failover("delete", err)
	operationsTotal.WithLabelValues("delete", ModeFallback.String()).Inc()
	return g.local.Delete(ctx, id)
}
