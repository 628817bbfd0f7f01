package resource

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/devhubhq/devhub/pkg/httputil"
	"github.com/devhubhq/devhub/pkg/observability"
)

// Config customizes a Handler for one entity type.
type Config[T any, PT Entity[T]] struct {
	// Name is the human-readable singular name used in messages ("API key").
	Name string

	// ListKey, when set, switches the listing to the paginated envelope
	// {<ListKey>: [...], "totalPages": n} with search support. When empty
	// the listing returns the full collection as a bare array.
	ListKey string

	// SearchFields are the stored field names matched by ?search=.
	SearchFields []string

	SortField string
	SortDesc  bool

	// Validate runs presence and enum checks before a create.
	Validate func(doc PT) error

	// UpdatableFields whitelists the fields a body-addressed PUT may set.
	// Empty disables the PUT route entirely.
	UpdatableFields []string

	// ValidateUpdate runs enum checks on the filtered update fields.
	ValidateUpdate func(fields map[string]any) error
}

// Handler serves the uniform CRUD surface for one entity collection.
type Handler[T any, PT Entity[T]] struct {
	store  Store[T, PT]
	cfg    Config[T, PT]
	logger *observability.Logger
}

// NewHandler creates a Handler backed by store.
func NewHandler[T any, PT Entity[T]](store Store[T, PT], cfg Config[T, PT], logger *observability.Logger) *Handler[T, PT] {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Handler[T, PT]{
		store:  store,
		cfg:    cfg,
		logger: logger.WithField("resource", cfg.Name),
	}
}

// RegisterRoutes mounts the CRUD routes for this entity at path.
func (h *Handler[T, PT]) RegisterRoutes(r *mux.Router, path string) {
	r.HandleFunc(path, h.List).Methods("GET")
	r.HandleFunc(path, h.Create).Methods("POST")
	if len(h.cfg.UpdatableFields) > 0 {
		r.HandleFunc(path, h.Update).Methods("PUT")
	}
	r.HandleFunc(path, h.Delete).Methods("DELETE")
	r.HandleFunc(path+"/{id}", h.Delete).Methods("DELETE")
}

// List handles GET requests. Pages beyond the last return an empty slice,
// not an error.
func (h *Handler[T, PT]) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := Query{
		SortField: h.cfg.SortField,
		SortDesc:  h.cfg.SortDesc,
	}

	if h.cfg.ListKey == "" {
		docs, err := h.store.Find(ctx, q)
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		httputil.WriteSuccess(w, nonNil(docs))
		return
	}

	page, err := httputil.ParseQueryInt(r, "page", 1)
	if err != nil || page < 1 {
		httputil.WriteBadRequest(w, "invalid page number")
		return
	}
	q.Search = r.URL.Query().Get("search")
	q.SearchFields = h.cfg.SearchFields
	q.Skip = int64(page-1) * PageSize
	q.Limit = PageSize

	count, err := h.store.Count(ctx, q)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	docs, err := h.store.Find(ctx, q)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]any{
		h.cfg.ListKey: nonNil(docs),
		"totalPages":  TotalPages(count),
	})
}

// Create handles POST requests, persisting the full document payload.
func (h *Handler[T, PT]) Create(w http.ResponseWriter, r *http.Request) {
	doc := PT(new(T))
	if !httputil.ParseJSONOrError(w, r, doc) {
		return
	}
	if h.cfg.Validate != nil {
		if err := h.cfg.Validate(doc); err != nil {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
	}
	if err := h.store.Insert(r.Context(), doc); err != nil {
		h.writeStoreError(w, err)
		return
	}
	httputil.WriteCreated(w, doc)
}

// Update handles body-addressed PUT requests: the payload carries the
// document id plus the fields to change. Fields outside the whitelist are
// ignored.
func (h *Handler[T, PT]) Update(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if !httputil.ParseJSONOrError(w, r, &payload) {
		return
	}

	id := stringField(payload, "_id")
	if id == "" {
		id = stringField(payload, "id")
	}
	if id == "" {
		httputil.WriteBadRequest(w, "document id is required")
		return
	}
	if _, err := ParseID(id); err != nil {
		httputil.WriteBadRequest(w, fmt.Sprintf("invalid %s id", h.cfg.Name))
		return
	}

	fields := make(map[string]any)
	for _, name := range h.cfg.UpdatableFields {
		if v, ok := payload[name]; ok {
			fields[name] = v
		}
	}
	if len(fields) == 0 {
		httputil.WriteBadRequest(w, "no updatable fields in payload")
		return
	}
	if h.cfg.ValidateUpdate != nil {
		if err := h.cfg.ValidateUpdate(fields); err != nil {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
	}

	doc, err := h.store.UpdateFields(r.Context(), id, fields)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, doc)
}

// Delete handles DELETE requests addressed by path id or ?id= query.
func (h *Handler[T, PT]) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		id = r.URL.Query().Get("id")
	}
	if id == "" {
		httputil.WriteBadRequest(w, "document id is required")
		return
	}
	if _, err := ParseID(id); err != nil {
		httputil.WriteBadRequest(w, fmt.Sprintf("invalid %s id", h.cfg.Name))
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]string{
		"message": fmt.Sprintf("%s deleted successfully", h.cfg.Name),
	})
}

func (h *Handler[T, PT]) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidID):
		httputil.WriteBadRequest(w, fmt.Sprintf("invalid %s id", h.cfg.Name))
	case errors.Is(err, ErrNotFound):
		httputil.WriteNotFound(w, fmt.Sprintf("%s not found", h.cfg.Name))
	default:
		h.logger.WithError(err).Error("store operation failed")
		httputil.WriteInternalError(w, err)
	}
}

func stringField(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

// nonNil keeps empty listings serializing as [] rather than null.
func nonNil[PT any](docs []PT) []PT {
	if docs == nil {
		return []PT{}
	}
	return docs
}
