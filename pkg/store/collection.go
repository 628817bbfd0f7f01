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

	"github.com/devhubhq/devhub/pkg/observability"
	"github.com/devhubhq/devhub/pkg/resource"
)

// CollectionOptions customize a Collection.
type CollectionOptions struct {
	// Timestamps enables store-managed createdAt/updatedAt stamping.
	Timestamps bool

	// Metrics, when set, records per-operation store metrics.
	Metrics *observability.Metrics
}

// Collection is the Mongo-backed implementation of resource.Store for one
// entity collection.
type Collection[T any, PT resource.Entity[T]] struct {
	store *Store
	name  string
	opts  CollectionOptions
}

// NewCollection creates a Collection named name on s.
func NewCollection[T any, PT resource.Entity[T]](s *Store, name string, opts CollectionOptions) *Collection[T, PT] {
	return &Collection[T, PT]{store: s, name: name, opts: opts}
}

// Name returns the collection name.
func (c *Collection[T, PT]) Name() string {
	return c.name
}

func (c *Collection[T, PT]) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := c.store.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(c.name), nil
}

func (c *Collection[T, PT]) observe(op string, start time.Time, err error) {
	if c.opts.Metrics != nil {
		c.opts.Metrics.ObserveStoreOperation(c.name, op, time.Since(start), err)
	}
}

// Insert persists doc, assigning a fresh ObjectID and, for timestamped
// collections, the creation timestamps.
func (c *Collection[T, PT]) Insert(ctx context.Context, doc PT) (err error) {
	start := time.Now()
	defer func() { c.observe("insert", start, err) }()

	coll, err := c.collection(ctx)
	if err != nil {
		return err
	}

	if doc.DocumentID().IsZero() {
		doc.SetDocumentID(primitive.NewObjectID())
	}
	if c.opts.Timestamps {
		doc.Touch(time.Now().UTC(), true)
	}

	if _, err = coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("inserting into %s: %w", c.name, err)
	}
	return nil
}

// Get returns the document for id.
func (c *Collection[T, PT]) Get(ctx context.Context, id string) (doc PT, err error) {
	start := time.Now()
	defer func() { c.observe("get", start, err) }()

	oid, err := resource.ParseID(id)
	if err != nil {
		return nil, err
	}
	coll, err := c.collection(ctx)
	if err != nil {
		return nil, err
	}

	doc = PT(new(T))
	err = coll.FindOne(ctx, bson.M{"_id": oid}).Decode(doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, resource.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading from %s: %w", c.name, err)
	}
	return doc, nil
}

// Find returns the documents matching q.
func (c *Collection[T, PT]) Find(ctx context.Context, q resource.Query) (docs []PT, err error) {
	start := time.Now()
	defer func() { c.observe("find", start, err) }()

	coll, err := c.collection(ctx)
	if err != nil {
		return nil, err
	}

	findOpts := options.Find()
	if sort := BuildSort(q); sort != nil {
		findOpts.SetSort(sort)
	}
	if q.Skip > 0 {
		findOpts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		findOpts.SetLimit(q.Limit)
	}

	cursor, err := coll.Find(ctx, BuildFilter(q), findOpts)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", c.name, err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding %s documents: %w", c.name, err)
	}
	return docs, nil
}

// Count returns the number of documents matching q, ignoring pagination.
func (c *Collection[T, PT]) Count(ctx context.Context, q resource.Query) (count int64, err error) {
	start := time.Now()
	defer func() { c.observe("count", start, err) }()

	coll, err := c.collection(ctx)
	if err != nil {
		return 0, err
	}
	count, err = coll.CountDocuments(ctx, BuildFilter(q))
	if err != nil {
		return 0, fmt.Errorf("counting %s documents: %w", c.name, err)
	}
	return count, nil
}

// UpdateFields applies a partial update and returns the updated document.
func (c *Collection[T, PT]) UpdateFields(ctx context.Context, id string, fields map[string]any) (doc PT, err error) {
	start := time.Now()
	defer func() { c.observe("update", start, err) }()

	oid, err := resource.ParseID(id)
	if err != nil {
		return nil, err
	}
	coll, err := c.collection(ctx)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	for field, value := range fields {
		set[field] = value
	}
	if c.opts.Timestamps {
		set["updatedAt"] = time.Now().UTC()
	}

	doc = PT(new(T))
	err = coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, resource.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating %s: %w", c.name, err)
	}
	return doc, nil
}

// Delete removes the document for id.
func (c *Collection[T, PT]) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { c.observe("delete", start, err) }()

	oid, err := resource.ParseID(id)
	if err != nil {
		return err
	}
	coll, err := c.collection(ctx)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", c.name, err)
	}
	if result.DeletedCount == 0 {
		return resource.ErrNotFound
	}
	return nil
}
