// Package snippets stores user code snippets, listed newest-first.
package snippets

import (
	"fmt"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devhubhq/devhub/pkg/observability"
	"github.com/devhubhq/devhub/pkg/resource"
)

// CollectionName is the store collection backing snippets.
const CollectionName = "snippets"

// Snippet is one stored code snippet. Description is the only optional
// field.
type Snippet struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Language    string             `bson:"language" json:"language"`
	Code        string             `bson:"code" json:"code"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

var _ resource.Document = (*Snippet)(nil)

func (s *Snippet) DocumentID() primitive.ObjectID      { return s.ID }
func (s *Snippet) SetDocumentID(id primitive.ObjectID) { s.ID = id }

func (s *Snippet) Touch(now time.Time, create bool) {
	if create && s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}

// Validate checks the required fields.
func (s *Snippet) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("title is required")
	}
	if s.Language == "" {
		return fmt.Errorf("language is required")
	}
	if s.Code == "" {
		return fmt.Errorf("code is required")
	}
	return nil
}

// Store is the persistence contract for snippets.
type Store = resource.Store[Snippet, *Snippet]

// Handlers serves the snippet CRUD surface.
type Handlers struct {
	inner *resource.Handler[Snippet, *Snippet]
}

// NewHandlers creates snippet handlers backed by store.
func NewHandlers(store Store, logger *observability.Logger) *Handlers {
	return &Handlers{
		inner: resource.NewHandler(store, resource.Config[Snippet, *Snippet]{
			Name:            "Snippet",
			SortField:       "createdAt",
			SortDesc:        true,
			Validate:        (*Snippet).Validate,
			UpdatableFields: []string{"title", "language", "code", "description"},
		}, logger),
	}
}

// RegisterRoutes mounts the snippet routes.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	h.inner.RegisterRoutes(r, "/api/snippets")
}
