// Package apikeys stores the API keys users keep for external services.
// Keys are opaque strings; the service never calls the services they belong
// to.
package apikeys

import (
	"fmt"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devhubhq/devhub/pkg/observability"
	"github.com/devhubhq/devhub/pkg/resource"
)

// CollectionName is the store collection backing API keys.
const CollectionName = "apikeys"

// ApiKey is one stored key.
type ApiKey struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name string             `bson:"name" json:"name"`
	Key  string             `bson:"key" json:"key"`
	Type string             `bson:"type" json:"type"`
}

var _ resource.Document = (*ApiKey)(nil)

func (k *ApiKey) DocumentID() primitive.ObjectID      { return k.ID }
func (k *ApiKey) SetDocumentID(id primitive.ObjectID) { k.ID = id }
func (k *ApiKey) Touch(time.Time, bool)               {}

// Validate checks the required fields.
func (k *ApiKey) Validate() error {
	if k.Name == "" {
		return fmt.Errorf("name is required")
	}
	if k.Key == "" {
		return fmt.Errorf("key is required")
	}
	if k.Type == "" {
		return fmt.Errorf("type is required")
	}
	return nil
}

// Store is the persistence contract for API keys.
type Store = resource.Store[ApiKey, *ApiKey]

// Handlers serves the API key surface: list, create, delete. Keys are never
// updated in place.
type Handlers struct {
	inner *resource.Handler[ApiKey, *ApiKey]
}

// NewHandlers creates API key handlers backed by store.
func NewHandlers(store Store, logger *observability.Logger) *Handlers {
	return &Handlers{
		inner: resource.NewHandler(store, resource.Config[ApiKey, *ApiKey]{
			Name:     "API key",
			Validate: (*ApiKey).Validate,
		}, logger),
	}
}

// RegisterRoutes mounts the API key routes.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	h.inner.RegisterRoutes(r, "/api/apikeys")
}
