package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/altamash-faraz/itemcatalog/internal/model"
)

// Collection name for catalog items.
const itemsCollection = "items"

// MongoStore implements Store interface backed by a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// itemDocument is the persisted shape of an item. The ObjectID is converted
// to its hex form at the model boundary.
type itemDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	Price       float64            `bson:"price"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

// toModel converts a persisted document to the wire model.
func (d *itemDocument) toModel() model.Item {
	return model.Item{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Price:       d.Price,
		CreatedAt:   d.CreatedAt,
	}
}

// NewMongoStore connects to MongoDB at uri and returns a store over the
// items collection of the given database. The connection is verified with a
// ping before the store is returned.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", mapMongoError(err))
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(itemsCollection),
	}, nil
}

// Close disconnects the underlying MongoDB client.
func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnecting from mongodb: %w", err)
	}
	return nil
}

// List returns all items from the collection, newest first.
func (s *MongoStore) List(ctx context.Context) ([]model.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", mapMongoError(err))
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []itemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list items: %w", mapMongoError(err))
	}

	items := make([]model.Item, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toModel())
	}

	return items, nil
}

// Get retrieves an item by its ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*model.Item, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc itemDocument
	if err := s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("get item: %w", mapMongoError(err))
	}

	item := doc.toModel()
	return &item, nil
}

// Create inserts a new item and returns it with the generated ID.
func (s *MongoStore) Create(ctx context.Context, item *model.Item) (*model.Item, error) {
	if item == nil {
		return nil, fmt.Errorf("create item: %w", ErrNilItem)
	}

	doc := itemDocument{
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Price:       item.Price,
		CreatedAt:   time.Now().UTC(),
	}

	result, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", mapMongoError(err))
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("create item: unexpected inserted ID type %T", result.InsertedID)
	}

	doc.ID = oid
	created := doc.toModel()
	return &created, nil
}

// Update replaces the editable fields of an existing item, preserving its
// ID and creation time, and returns the updated record.
func (s *MongoStore) Update(ctx context.Context, id string, item *model.Item) (*model.Item, error) {
	if item == nil {
		return nil, fmt.Errorf("update item: %w", ErrNilItem)
	}

	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"name":        item.Name,
		"description": item.Description,
		"category":    item.Category,
		"price":       item.Price,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc itemDocument
	if err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("update item: %w", mapMongoError(err))
	}

	updated := doc.toModel()
	return &updated, nil
}

// Delete removes an item from the collection by its ID.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete item: %w", mapMongoError(err))
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// parseObjectID converts a hex item ID to an ObjectID.
func parseObjectID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, ErrInvalidID
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	return oid, nil
}

// mapMongoError translates driver errors into store sentinel errors.
// Network and timeout failures mean the database is unreachable, which
// callers surface as 503 so clients can fail over.
func mapMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsNetworkError(err), mongo.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return err
	}
}
