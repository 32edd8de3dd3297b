package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/slidecast/slidecast/pkg/analytics"
	"github.com/slidecast/slidecast/pkg/auth"
	"github.com/slidecast/slidecast/pkg/httputil"
	"github.com/slidecast/slidecast/pkg/middleware"
	"github.com/slidecast/slidecast/pkg/observability"
	"github.com/slidecast/slidecast/pkg/presentations"
	"github.com/slidecast/slidecast/pkg/store"
)

// AnalyticsHandlers handles event tracking and aggregation HTTP requests
type AnalyticsHandlers struct {
	tracker       *analytics.Tracker
	reports       *analytics.Service
	presentations *presentations.Service
	metrics       *observability.Metrics
	authmw        *middleware.AuthMiddleware
}

// NewAnalyticsHandlers creates a new analytics handlers instance.
// metrics may be nil when metrics are disabled.
func NewAnalyticsHandlers(tracker *analytics.Tracker, reports *analytics.Service, pres *presentations.Service, metrics *observability.Metrics, authmw *middleware.AuthMiddleware) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		tracker:       tracker,
		reports:       reports,
		presentations: pres,
		metrics:       metrics,
		authmw:        authmw,
	}
}

// RegisterRoutes registers analytics routes
func (h *AnalyticsHandlers) RegisterRoutes(router *mux.Router) {
	// Tracking is open to anonymous viewers; the public player posts
	// events without a login.
	router.HandleFunc("/api/analytics/track", h.track).Methods("POST")

	router.Handle("/api/analytics/summary",
		h.authmw.Require(middleware.RequireAdmin(http.HandlerFunc(h.summary)))).Methods("GET")
	router.Handle("/api/analytics/presentations/{id}",
		h.authmw.Require(http.HandlerFunc(h.presentationStats))).Methods("GET")
}

// track handles POST /api/analytics/track
func (h *AnalyticsHandlers) track(w http.ResponseWriter, r *http.Request) {
	var req analytics.TrackRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	req.UserAgent = analytics.UserAgent(r)
	req.IPAddress = analytics.ClientIP(r)

	eventID, err := h.tracker.Track(req)
	if err != nil {
		switch {
		case errors.Is(err, analytics.ErrMissingField),
			errors.Is(err, analytics.ErrUnknownEventType):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, store.ErrNotFound):
			httputil.WriteNotFound(w, "presentation not found")
		default:
			httputil.WriteInternalError(w, err)
		}
		return
	}

	if h.metrics != nil {
		h.metrics.EventsTracked.WithLabelValues(string(req.EventType)).Inc()
	}

	httputil.WriteCreated(w, map[string]string{"eventId": eventID})
}

// presentationStats handles GET /api/analytics/presentations/{id}.
// Only the presentation owner or an admin may read its stats.
func (h *AnalyticsHandlers) presentationStats(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}

	claims := middleware.GetClaims(r)
	presentation, err := h.presentations.Collection().FindByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteNotFound(w, "presentation not found")
			return
		}
		httputil.WriteInternalError(w, err)
		return
	}
	if claims.Role != auth.RoleAdmin && presentation.AuthorID != claims.UserID {
		httputil.WriteForbidden(w, "access denied")
		return
	}

	stats, err := h.reports.PresentationStats(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteNotFound(w, "presentation not found")
			return
		}
		httputil.WriteInternalError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.AggregationRuns.WithLabelValues("presentation").Inc()
	}

	httputil.WriteSuccess(w, stats)
}

// summary handles GET /api/analytics/summary (admin only)
func (h *AnalyticsHandlers) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.Summary()
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.AggregationRuns.WithLabelValues("summary").Inc()
	}

	httputil.WriteSuccess(w, summary)
}
