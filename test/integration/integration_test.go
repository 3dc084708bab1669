//go:build integration

package integration_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/altamash-faraz/itemcatalog/internal/gateway"
	"github.com/altamash-faraz/itemcatalog/internal/model"
	"github.com/altamash-faraz/itemcatalog/internal/remote"
	"github.com/altamash-faraz/itemcatalog/internal/store"
)

func TestFullCRUDAgainstServer(t *testing.T) {
	// Arrange
	ts := startServer(t)
	gw, _ := newClientStack(t, ts.URL, nil)
	ctx := context.Background()

	// Act - Create
	created, err := gw.Create(ctx, &model.Item{
		Name:        "Integration Widget",
		Description: "Created through the full stack",
		Category:    "Tools",
		Price:       12.50,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Assert - Server assigned a real ID
	if created.ID == "" {
		t.Fatal("created item should carry an id")
	}
	if strings.HasPrefix(created.ID, model.LocalIDPrefix) {
		t.Errorf("id %s should not carry the local prefix when the server is up", created.ID)
	}
	if gw.Mode() != gateway.ModeRemote {
		t.Errorf("mode = %v, want ModeRemote", gw.Mode())
	}

	// Fetch it back
	fetched, err := gw.FetchOne(ctx, created.ID)
	if err != nil {
		t.Fatalf("FetchOne() error: %v", err)
	}
	if fetched.Name != "Integration Widget" {
		t.Errorf("name = %s, want Integration Widget", fetched.Name)
	}

	// Update
	fetched.Price = 15.00
	updated, err := gw.Update(ctx, fetched.ID, fetched)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Price != 15.00 {
		t.Errorf("price = %f, want 15.00", updated.Price)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("createdAt = %v, want %v (unchanged)", updated.CreatedAt, created.CreatedAt)
	}

	// List
	items, err := gw.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	// Delete
	if err := gw.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	items, err = gw.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll() after delete error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items after delete, want 0", len(items))
	}
}

func TestValidationErrorsSurfaceAsDomainErrors(t *testing.T) {
	// Arrange
	ts := startServer(t)
	gw, _ := newClientStack(t, ts.URL, nil)
	ctx := context.Background()

	// Act - The server rejects the item; the gateway must not fail over
	_, err := gw.Create(ctx, &model.Item{
		Name:     "",
		Category: "Tools",
		Price:    1,
	})

	// Assert
	if err == nil {
		t.Fatal("Create() should fail for an invalid item")
	}
	var domainErr *remote.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("error = %v, want a DomainError", err)
	}
	if gw.Mode() != gateway.ModeRemote {
		t.Errorf("mode = %v, want ModeRemote after a rejected request", gw.Mode())
	}
}

func TestNotFoundAgainstServer(t *testing.T) {
	// Arrange
	ts := startServer(t)
	gw, _ := newClientStack(t, ts.URL, nil)

	// Act
	_, err := gw.FetchOne(context.Background(), "does-not-exist")

	// Assert
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestFailoverToLocalStore(t *testing.T) {
	// Arrange - Point the client at a server that is already gone
	ts := startServer(t)
	serverURL := ts.URL
	ts.Close()

	notified := 0
	gw, local := newClientStack(t, serverURL, func() { notified++ })
	ctx := context.Background()

	// Act - The first write fails over and completes locally
	created, err := gw.Create(ctx, &model.Item{
		Name:        "Offline Widget",
		Description: "Created while the server is down",
		Category:    "Tools",
		Price:       3.25,
	})

	// Assert
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !strings.HasPrefix(created.ID, model.LocalIDPrefix) {
		t.Errorf("id = %s, want the local prefix", created.ID)
	}
	if gw.Mode() != gateway.ModeFallback {
		t.Errorf("mode = %v, want ModeFallback", gw.Mode())
	}
	if notified != 1 {
		t.Errorf("failover notified %d times, want 1", notified)
	}

	// Subsequent operations stay local without another notification
	items, err := gw.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if notified != 1 {
		t.Errorf("failover notified %d times after reads, want 1", notified)
	}

	// The item survives a fresh handle on the same file
	persisted, err := local.List(ctx)
	if err != nil {
		t.Fatalf("local List() error: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ID != created.ID {
		t.Errorf("local store holds %+v, want the created item", persisted)
	}

	// Delete locally and the store empties
	if err := gw.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	persisted, err = local.List(ctx)
	if err != nil {
		t.Fatalf("local List() after delete error: %v", err)
	}
	if len(persisted) != 0 {
		t.Errorf("local store holds %d items after delete, want 0", len(persisted))
	}
}

func TestFailoverMidSession(t *testing.T) {
	// Arrange - Start healthy, then lose the server between operations
	ts := startServer(t)
	gw, _ := newClientStack(t, ts.URL, nil)
	ctx := context.Background()

	if _, err := gw.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll() with server up error: %v", err)
	}
	if gw.Mode() != gateway.ModeRemote {
		t.Fatalf("mode = %v, want ModeRemote before the outage", gw.Mode())
	}

	ts.Close()

	// Act - The next operation fails over transparently
	created, err := gw.Create(ctx, &model.Item{
		Name:        "Mid-session Widget",
		Description: "Server died between requests",
		Category:    "Other",
		Price:       1.00,
	})

	// Assert
	if err != nil {
		t.Fatalf("Create() after outage error: %v", err)
	}
	if gw.Mode() != gateway.ModeFallback {
		t.Errorf("mode = %v, want ModeFallback", gw.Mode())
	}
	if !strings.HasPrefix(created.ID, model.LocalIDPrefix) {
		t.Errorf("id = %s, want the local prefix", created.ID)
	}
}
