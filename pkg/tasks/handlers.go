package tasks

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/devhubhq/devhub/pkg/httputil"
	"github.com/devhubhq/devhub/pkg/observability"
	"github.com/devhubhq/devhub/pkg/resource"
)

// Store is the persistence contract for tasks.
type Store = resource.Store[Task, *Task]

// Handlers serves the task REST surface.
type Handlers struct {
	store  Store
	logger *observability.Logger
}

// NewHandlers creates task handlers backed by store.
func NewHandlers(store Store, logger *observability.Logger) *Handlers {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Handlers{store: store, logger: logger.WithField("component", "tasks")}
}

// RegisterRoutes mounts the task routes.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/tasks", h.List).Methods("GET")
	r.HandleFunc("/api/tasks", h.Create).Methods("POST")
	r.HandleFunc("/api/tasks/{id}", h.Get).Methods("GET")
	r.HandleFunc("/api/tasks/{id}", h.UpdateStatus).Methods("PUT")
	r.HandleFunc("/api/tasks/{id}", h.Delete).Methods("DELETE")
}

// List handles GET /api/tasks?userId=, returning the tasks assigned to one
// user. The userId filter is mandatory.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.RequireQuery(w, r, "userId")
	if !ok {
		return
	}

	found, err := h.store.Find(r.Context(), resource.Query{
		Equals: map[string]string{"assignedTo": userID},
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if found == nil {
		found = []*Task{}
	}
	httputil.WriteSuccess(w, found)
}

// Create handles POST /api/tasks. Creation is the admin-assignment action:
// whatever status the payload carries, the stored task starts Pending.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var task Task
	if !httputil.ParseJSONOrError(w, r, &task) {
		return
	}
	if err := task.Validate(); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	task.Status = StatusPending

	if err := h.store.Insert(r.Context(), &task); err != nil {
		h.writeStoreError(w, err)
		return
	}
	httputil.WriteCreated(w, &task)
}

// Get handles GET /api/tasks/{id}.
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := resource.ParseID(id); err != nil {
		httputil.WriteBadRequest(w, "invalid task id")
		return
	}

	task, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, task)
}

// statusUpdate is the only payload a task PUT accepts; any other field is
// ignored.
type statusUpdate struct {
	Status Status `json:"status"`
}

// UpdateStatus handles PUT /api/tasks/{id}. The new status must be a member
// of the enum and a legal transition from the task's current status.
func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := resource.ParseID(id); err != nil {
		httputil.WriteBadRequest(w, "invalid task id")
		return
	}

	var update statusUpdate
	if !httputil.ParseJSONOrError(w, r, &update) {
		return
	}
	if !update.Status.Valid() {
		httputil.WriteBadRequest(w, "invalid status")
		return
	}

	current, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if !CanTransition(current.Status, update.Status) {
		httputil.WriteBadRequest(w, "illegal status transition")
		return
	}

	task, err := h.store.UpdateFields(r.Context(), id, map[string]any{
		"status": update.Status,
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, task)
}

// Delete handles DELETE /api/tasks/{id}. Deletion is independent of status.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := resource.ParseID(id); err != nil {
		httputil.WriteBadRequest(w, "invalid task id")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]string{"message": "Task deleted successfully"})
}

func (h *Handlers) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, resource.ErrInvalidID):
		httputil.WriteBadRequest(w, "invalid task id")
	case errors.Is(err, resource.ErrNotFound):
		httputil.WriteNotFound(w, "Task not found")
	default:
		h.logger.WithError(err).Error("store operation failed")
		httputil.WriteInternalError(w, err)
	}
}
