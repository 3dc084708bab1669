//go:build integration

package integration_test

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/altamash-faraz/itemcatalog/internal/config"
	"github.com/altamash-faraz/itemcatalog/internal/fallback"
	"github.com/altamash-faraz/itemcatalog/internal/gateway"
	"github.com/altamash-faraz/itemcatalog/internal/remote"
	"github.com/altamash-faraz/itemcatalog/internal/server"
	"github.com/altamash-faraz/itemcatalog/internal/store"
)

// DefaultTimeout bounds individual client requests in the suite.
const DefaultTimeout = 10 * time.Second

// startServer runs the full HTTP server, middleware chain included, on an
// in-process listener backed by a memory store.
func startServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:      8080,
		LogLevel:        "info",
		ShutdownTimeout: 30 * time.Second,
		MetricsEnabled:  false,
		StoreBackend:    "memory",
		APIBaseURL:      "http://localhost:8080",
		FallbackPath:    "catalog_items.json",
		RequestTimeout:  DefaultTimeout,
	}

	srv := server.New(cfg, zap.NewNop(), store.NewMemoryStore())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// newClientStack wires a remote client against baseURL, a file-backed
// fallback store in a temp dir, and the gateway joining the two.
func newClientStack(t *testing.T, baseURL string, onFailover func()) (*gateway.Gateway, *fallback.FileStore) {
	t.Helper()

	apiClient := remote.NewClient(baseURL, DefaultTimeout)

	local, err := fallback.NewFileStore(filepath.Join(t.TempDir(), fallback.DefaultFileName))
	if err != nil {
		t.Fatalf("creating fallback store: %v", err)
	}

	return gateway.New(apiClient, local, zap.NewNop(), onFailover), local
}
