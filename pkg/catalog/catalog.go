// Package catalog holds the API catalog: named REST endpoints users track,
// with a closed set of HTTP methods. Listings are paginated and searchable.
package catalog

import (
	"fmt"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devhubhq/devhub/pkg/observability"
	"github.com/devhubhq/devhub/pkg/resource"
)

// CollectionName is the store collection backing the catalog.
const CollectionName = "apis"

// Methods is the closed set of allowed HTTP methods for a catalog entry.
var Methods = []string{"GET", "POST", "PUT", "DELETE"}

// Api is one catalog entry.
type Api struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Endpoint    string             `bson:"endpoint" json:"endpoint"`
	Method      string             `bson:"method" json:"method"`
	Description string             `bson:"description" json:"description"`
}

var _ resource.Document = (*Api)(nil)

func (a *Api) DocumentID() primitive.ObjectID      { return a.ID }
func (a *Api) SetDocumentID(id primitive.ObjectID) { a.ID = id }
func (a *Api) Touch(time.Time, bool)               {}

// Validate checks required fields and the method enum.
func (a *Api) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("name is required")
	}
	if a.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if a.Description == "" {
		return fmt.Errorf("description is required")
	}
	return validateMethod(a.Method)
}

func validateMethod(method string) error {
	for _, m := range Methods {
		if method == m {
			return nil
		}
	}
	return fmt.Errorf("invalid method: %q", method)
}

// Store is the persistence contract for catalog entries.
type Store = resource.Store[Api, *Api]

// Handlers serves the catalog CRUD surface.
type Handlers struct {
	inner *resource.Handler[Api, *Api]
}

// NewHandlers creates catalog handlers backed by store.
func NewHandlers(store Store, logger *observability.Logger) *Handlers {
	return &Handlers{
		inner: resource.NewHandler(store, resource.Config[Api, *Api]{
			Name:            "API",
			ListKey:         "apis",
			SearchFields:    []string{"name", "description"},
			SortField:       "createdAt",
			SortDesc:        true,
			Validate:        (*Api).Validate,
			UpdatableFields: []string{"name", "endpoint", "method", "description"},
			ValidateUpdate: func(fields map[string]any) error {
				if v, ok := fields["method"]; ok {
					method, _ := v.(string)
					return validateMethod(method)
				}
				return nil
			},
		}, logger),
	}
}

// RegisterRoutes mounts the catalog routes.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	h.inner.RegisterRoutes(r, "/api/apis")
}
