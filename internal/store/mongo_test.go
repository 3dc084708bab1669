package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/altamash-faraz/itemcatalog/internal/model"
)

// EnvMongoTestURI points the suite at a throwaway MongoDB instance.
// The MongoDB-backed tests are skipped when it is not set.
const EnvMongoTestURI = "CATALOG_TEST_MONGO_URI"

func newTestMongoStore(t *testing.T) *MongoStore {
	t.Helper()

	uri := os.Getenv(EnvMongoTestURI)
	if uri == "" {
		t.Skipf("%s not set, skipping MongoDB tests", EnvMongoTestURI)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, uri, "catalog_test")
	if err != nil {
		t.Fatalf("NewMongoStore() error: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = s.collection.DeleteMany(ctx, bson.M{})
		_ = s.Close(ctx)
	})

	return s
}

func TestMongoStore_CRUD(t *testing.T) {
	// Arrange
	s := newTestMongoStore(t)
	ctx := context.Background()

	// Act - Create
	created, err := s.Create(ctx, &model.Item{
		Name:        "Mongo Widget",
		Description: "Stored in mongodb",
		Category:    "Tools",
		Price:       4.20,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Assert
	if created.ID == "" {
		t.Fatal("created item should carry an id")
	}
	if created.CreatedAt.IsZero() {
		t.Error("created item should carry createdAt")
	}

	// Get
	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Name != "Mongo Widget" {
		t.Errorf("name = %s, want Mongo Widget", got.Name)
	}

	// Update preserves identity and creation time
	updated, err := s.Update(ctx, created.ID, &model.Item{
		Name:        "Renamed Widget",
		Description: "Still in mongodb",
		Category:    "Electronics",
		Price:       5.00,
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("id = %s, want %s", updated.ID, created.ID)
	}
	if updated.Name != "Renamed Widget" {
		t.Errorf("name = %s, want Renamed Widget", updated.Name)
	}
	// Mongo stores times at millisecond precision.
	if updated.CreatedAt.Sub(created.CreatedAt).Abs() > time.Second {
		t.Errorf("createdAt = %v, want about %v", updated.CreatedAt, created.CreatedAt)
	}

	// List
	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	// Delete
	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestMongoStore_List_NewestFirst(t *testing.T) {
	// Arrange
	s := newTestMongoStore(t)
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		if _, err := s.Create(ctx, &model.Item{
			Name: name, Description: "d", Category: "Other", Price: 1,
		}); err != nil {
			t.Fatalf("Create(%s) error: %v", name, err)
		}
		// Creation times must differ for the sort to be observable.
		time.Sleep(5 * time.Millisecond)
	}

	// Act
	items, err := s.List(ctx)

	// Assert
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].Name != "Third" || items[2].Name != "First" {
		t.Errorf("order = [%s %s %s], want newest first", items[0].Name, items[1].Name, items[2].Name)
	}
}

func TestMongoStore_NotFound(t *testing.T) {
	// Arrange
	s := newTestMongoStore(t)
	ctx := context.Background()

	// Act / Assert - A well-formed but absent ObjectID
	if _, err := s.Get(ctx, "665f1f77bcf86cd799439011"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "665f1f77bcf86cd799439011"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestParseObjectID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "valid hex", id: "665f1f77bcf86cd799439011", wantErr: nil},
		{name: "empty", id: "", wantErr: ErrInvalidID},
		{name: "not hex", id: "local_123_abcd1234", wantErr: ErrInvalidID},
		{name: "too short", id: "abc", wantErr: ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, err := parseObjectID(tt.id)

			// Assert
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("parseObjectID(%q) error = %v, want nil", tt.id, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("parseObjectID(%q) error = %v, want %v", tt.id, err, tt.wantErr)
			}
		})
	}
}
