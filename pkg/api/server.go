package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/devhubhq/devhub/pkg/httputil"
	"github.com/devhubhq/devhub/pkg/observability"
)

// RouteRegistrar is implemented by every feature handler group.
type RouteRegistrar interface {
	RegisterRoutes(r *mux.Router)
}

// Deps carries everything the server composes.
type Deps struct {
	Logger  *observability.Logger
	Metrics *observability.Metrics

	// Features are the handler groups to mount, in registration order.
	Features []RouteRegistrar

	AllowedOrigins []string
	TracingEnabled bool
}

// Server is the composed HTTP handler for the REST surface.
type Server struct {
	router  *mux.Router
	handler http.Handler
}

// NewServer builds the router and middleware chain and registers every
// feature's routes.
func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}

	router := mux.NewRouter()
	router.Use(httputil.RequestIDMiddleware(logger))
	router.Use(httputil.LoggingMiddleware(logger))
	router.Use(httputil.RecoveryMiddleware(logger))
	if deps.Metrics != nil {
		router.Use(httputil.MetricsMiddleware(deps.Metrics))
	}
	if len(deps.AllowedOrigins) > 0 {
		router.Use(httputil.CORSMiddleware(deps.AllowedOrigins))
	}

	for _, feature := range deps.Features {
		feature.RegisterRoutes(router)
	}

	var handler http.Handler = router
	if deps.TracingEnabled {
		handler = otelhttp.NewHandler(router, "devhub")
	}

	return &Server{router: router, handler: handler}
}

// Router exposes the underlying router for additional registrations.
func (s *Server) Router() *mux.Router {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
