package resource

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageSize is the fixed page size for paginated listings.
const PageSize = 10

var (
	// ErrNotFound is returned when a document identifier does not resolve.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidID is returned for identifiers that are not valid store keys.
	// Stores must return it before performing any I/O.
	ErrInvalidID = errors.New("invalid document id")
)

// Document is implemented by every entity type persisted through the
// resource layer. Touch is called with create=true on insert and
// create=false on update; entities without store-managed timestamps
// implement it as a no-op.
type Document interface {
	DocumentID() primitive.ObjectID
	SetDocumentID(id primitive.ObjectID)
	Touch(now time.Time, create bool)
}

// Entity constrains a pointer-to-struct entity type.
type Entity[T any] interface {
	*T
	Document
}

// Query describes a filtered, sorted, paginated read against a collection.
// Field names refer to the stored (bson) field names.
type Query struct {
	// Search is a case-insensitive substring matched against any of
	// SearchFields. Empty means no search clause.
	Search       string
	SearchFields []string

	// Equals holds exact-match clauses, e.g. assignedTo=<userId>.
	Equals map[string]string

	Skip  int64
	Limit int64

	SortField string
	SortDesc  bool
}

// Store is the uniform persistence contract for a single entity collection.
// All operations are atomic at the single-document level; there are no
// cross-document transactions and concurrent updates apply last-write-wins.
type Store[T any, PT Entity[T]] interface {
	// Insert persists doc, assigning its identifier and timestamps.
	Insert(ctx context.Context, doc PT) error

	// Get returns the document for id, ErrInvalidID for malformed ids and
	// ErrNotFound when the id does not resolve.
	Get(ctx context.Context, id string) (PT, error)

	// Find returns the documents matching q.
	Find(ctx context.Context, q Query) ([]PT, error)

	// Count returns the number of documents matching q, ignoring Skip/Limit.
	Count(ctx context.Context, q Query) (int64, error)

	// UpdateFields applies a partial $set-style update and returns the
	// updated document.
	UpdateFields(ctx context.Context, id string, fields map[string]any) (PT, error)

	// Delete removes the document for id.
	Delete(ctx context.Context, id string) error
}

// ParseID validates an identifier syntactically, before any store access.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// TotalPages computes the page count for a collection of count documents.
func TotalPages(count int64) int {
	return int((count + PageSize - 1) / PageSize)
}
