package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/slidecast/slidecast/pkg/analytics"
	"github.com/slidecast/slidecast/pkg/auth"
	"github.com/slidecast/slidecast/pkg/httputil"
	"github.com/slidecast/slidecast/pkg/middleware"
	"github.com/slidecast/slidecast/pkg/observability"
	"github.com/slidecast/slidecast/pkg/presentations"
)

// Deps carries everything the server needs. Metrics may be nil when
// metrics are disabled.
type Deps struct {
	Accounts      *auth.Service
	Presentations *presentations.Service
	Tracker       *analytics.Tracker
	Reports       *analytics.Service
	Issuer        *auth.TokenIssuer
	Logger        *observability.Logger
	Metrics       *observability.Metrics
	Health        *observability.HealthChecker
	CORSOrigins   []string
}

// Server represents our API server
type Server struct {
	router *mux.Router
	logger *observability.Logger

	authHandlers         *AuthHandlers
	presentationHandlers *PresentationHandlers
	analyticsHandlers    *AnalyticsHandlers
}

// NewServer creates a new API server
func NewServer(deps Deps) *Server {
	authmw := middleware.NewAuthMiddleware(deps.Issuer)

	s := &Server{
		router:               mux.NewRouter(),
		logger:               deps.Logger,
		authHandlers:         NewAuthHandlers(deps.Accounts, authmw),
		presentationHandlers: NewPresentationHandlers(deps.Presentations, authmw),
		analyticsHandlers:    NewAnalyticsHandlers(deps.Tracker, deps.Reports, deps.Presentations, deps.Metrics, authmw),
	}

	s.router.Use(httputil.RecoveryMiddleware(deps.Logger))
	s.router.Use(httputil.LoggingMiddleware(deps.Logger))
	s.router.Use(httputil.CORSMiddleware(deps.CORSOrigins))
	if deps.Metrics != nil {
		s.router.Use(deps.Metrics.HTTPMiddleware)
	}

	if deps.Health != nil {
		s.router.HandleFunc("/health", deps.Health.Liveness).Methods("GET")
	}

	s.authHandlers.RegisterRoutes(s.router)
	s.presentationHandlers.RegisterRoutes(s.router)
	s.analyticsHandlers.RegisterRoutes(s.router)

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// RouteRegistrar is an interface for types that can register routes
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// RegisterRoutes registers routes from a RouteRegistrar
func (s *Server) RegisterRoutes(registrar RouteRegistrar) {
	registrar.RegisterRoutes(s.router)
}
