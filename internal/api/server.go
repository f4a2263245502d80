// Package api serves the planner over JSON HTTP: the fleet dashboard, the
// ranked induction plan, what-if scenarios and the confirmation ledger.
package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roach88/induction/internal/engine"
	"github.com/roach88/induction/internal/fleet"
	"github.com/roach88/induction/internal/store"
)

// Ledger is the subset of the plan ledger the API uses.
type Ledger interface {
	RecordPlan(ctx context.Context, rec store.PlanRecord) error
	GetPlan(ctx context.Context, id string) (store.PlanRecord, error)
	ListPlans(ctx context.Context, limit int) ([]store.PlanRecord, error)
}

// Deps are the collaborators of a Server. Fleet is required; the rest
// have usable defaults.
type Deps struct {
	Fleet *fleet.Store

	// Ledger records plan decisions. Nil disables the decision endpoints.
	Ledger Ledger

	// IDs generates scenario and plan IDs. Nil means UUIDv7.
	IDs engine.IDGenerator

	Metrics  *Metrics
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// Server is the HTTP server for the planner API.
type Server struct {
	httpServer *http.Server
	handlers   *handlers
}

// New creates a server listening on addr. When deps.Metrics is nil a fresh
// set is created and registered on deps.Registry (or a new registry).
func New(addr string, deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.IDs == nil {
		deps.IDs = engine.UUIDv7Generator{}
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
		if err := deps.Metrics.Register(deps.Registry); err != nil {
			return nil, err
		}
	}

	h := &handlers{
		fleet:   deps.Fleet,
		ledger:  deps.Ledger,
		ids:     deps.IDs,
		book:    NewScenarioBook(),
		metrics: deps.Metrics,
		logger:  deps.Logger,
	}

	mux := http.NewServeMux()
	route := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, h.instrument(pattern, fn))
	}

	route("GET /healthz", h.Health)

	route("GET /api/trains", h.ListTrains)
	route("GET /api/trains/{id}", h.GetTrain)
	route("PATCH /api/trains/{id}", h.PatchTrain)

	route("GET /api/plan", h.GetPlan)
	route("GET /api/plan/export", h.ExportPlan)
	route("POST /api/plan/decision", h.DecidePlan)
	route("GET /api/plan/history", h.PlanHistory)
	route("GET /api/plan/history/{id}", h.GetPlanRecord)

	route("GET /api/conflicts", h.ListConflicts)
	route("POST /api/conflicts/{id}/handled", h.HandleConflict)

	route("POST /api/scenarios", h.CreateScenario)
	route("GET /api/scenarios", h.ListScenarios)
	route("GET /api/scenarios/{id}", h.GetScenario)
	route("DELETE /api/scenarios", h.ClearScenarios)

	mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	return &Server{
		handlers: h,
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}, nil
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the HTTP server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		s.handlers.logger.Info("listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutDownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return s.Shutdown(shutDownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// statusRecorder captures the response code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *handlers) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.metrics.IncHTTPRequests(route, strconv.Itoa(rec.code))
		h.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "code", rec.code)
	})
}
