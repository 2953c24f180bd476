// Package httptransport is the thin HTTP layer over the auth service and the
// Teamdeck relay. Handlers decode, delegate and encode; business rules live
// in the services.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"tracker-gateway/internal/auth/guard"
	"tracker-gateway/internal/auth/token"
	"tracker-gateway/internal/platform/health"
	"tracker-gateway/internal/platform/metrics"
	"tracker-gateway/internal/platform/middleware"
	"tracker-gateway/internal/teamdeck"
	"tracker-gateway/pkg/domain"
)

// AuthService drives the login and refresh flows.
type AuthService interface {
	LoginURL() string
	LoginWithGoogle(ctx context.Context, code string) (*token.Response, error)
	Refresh(ctx context.Context, refreshToken string) (*token.Response, error)
}

// TimeTracker is the slice of the Teamdeck client the handlers relay to.
type TimeTracker interface {
	GetResourceByID(ctx context.Context, id domain.ResourceID) (*teamdeck.Resource, error)
	GetProjects(ctx context.Context) ([]teamdeck.Project, error)
	GetTimeEntryTags(ctx context.Context) ([]teamdeck.TimeEntryTag, error)
	GetTimeEntries(ctx context.Context, resourceID domain.ResourceID, date *teamdeck.Date) ([]teamdeck.TimeEntry, error)
	GetTimeEntryByID(ctx context.Context, id domain.TimeEntryID) (*teamdeck.TimeEntry, error)
	CreateTimeEntry(ctx context.Context, body *teamdeck.CreateTimeEntryRequest) (*teamdeck.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, id domain.TimeEntryID, body *teamdeck.UpdateTimeEntryRequest) (*teamdeck.TimeEntry, error)
	UpdateTimeEntryTags(ctx context.Context, id domain.TimeEntryID, tagIDs []domain.TagID) (*teamdeck.TimeEntry, error)
	GetCurrentTimer(ctx context.Context, resourceID domain.ResourceID) (*teamdeck.Timer, error)
}

type Handler struct {
	auth    AuthService
	tracker TimeTracker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewHandler(auth AuthService, tracker TimeTracker, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		auth:    auth,
		tracker: tracker,
		logger:  logger,
		metrics: m,
	}
}

// NewRouter wires middleware, observability endpoints and the API surface.
// The guard middleware runs on every route; it attaches a session when the
// bearer token verifies and lets the request through either way. Handlers
// that require a session call guard.Check themselves.
func NewRouter(h *Handler, verifier guard.AccessVerifier, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)
	r.Use(middleware.ContentTypeJSON)
	r.Use(endpointLatency(m))
	r.Use(guard.Authenticate(verifier, logger))

	health.New().Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/auth/google/url", h.handleLoginURL)
	r.Post("/auth/google/login", h.handleLogin)
	r.Post("/auth/token/refresh", h.handleRefresh)

	r.Get("/resources/{id}", h.handleGetResource)
	r.Get("/projects", h.handleListProjects)
	r.Get("/time-entry-tags", h.handleListTags)

	r.Get("/me", h.handleMe)
	r.Get("/time-entries", h.handleListTimeEntries)
	r.Post("/time-entries", h.handleCreateTimeEntry)
	r.Patch("/time-entries/{id}", h.handleUpdateTimeEntry)
	r.Get("/timers/current", h.handleCurrentTimer)

	return r
}

// endpointLatency records per-route latency once chi has resolved the
// route pattern.
func endpointLatency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			next.ServeHTTP(w, r)
			if pattern := chi.RouteContext(r.Context()).RoutePattern(); pattern != "" {
				m.EndpointLatency.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
			}
		})
	}
}
