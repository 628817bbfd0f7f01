package identity

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/devhubhq/devhub/pkg/httputil"
	"github.com/devhubhq/devhub/pkg/observability"
)

// Handlers serves the identity-gated endpoints.
type Handlers struct {
	provider   Provider
	authorizer Authorizer
	logger     *observability.Logger
}

// NewHandlers creates identity handlers. When authorizer is nil, an admin
// role check against provider is used.
func NewHandlers(provider Provider, authorizer Authorizer, logger *observability.Logger) *Handlers {
	if authorizer == nil {
		authorizer = NewRoleAuthorizer(provider, RoleAdmin)
	}
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Handlers{
		provider:   provider,
		authorizer: authorizer,
		logger:     logger.WithField("component", "identity"),
	}
}

// RegisterRoutes mounts the identity routes.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/users", h.ListUsers).Methods("GET")
}

// ListUsers handles GET /api/users: 401 without a resolvable identity, 403
// without the admin role, otherwise the full user list projected to
// {id, name, email}.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := h.provider.Authenticate(r)
	if err != nil {
		httputil.WriteUnauthorized(w, "Unauthorized: No user ID found")
		return
	}

	if err := h.authorizer.Authorize(ctx, userID); err != nil {
		if errors.Is(err, ErrForbidden) {
			httputil.WriteForbidden(w, "Forbidden: User does not have admin rights")
			return
		}
		h.logger.WithError(err).Error("authorization check failed")
		httputil.WriteInternalError(w, err)
		return
	}

	profiles, err := h.provider.ListUsers(ctx)
	if err != nil {
		h.logger.WithError(err).Error("user listing failed")
		httputil.WriteInternalError(w, err)
		return
	}

	users := make([]User, 0, len(profiles))
	for _, p := range profiles {
		users = append(users, User{
			ID:    p.ID,
			Name:  p.DisplayName(),
			Email: p.PrimaryEmail(),
		})
	}
	httputil.WriteSuccess(w, users)
}
