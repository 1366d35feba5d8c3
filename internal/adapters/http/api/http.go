// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/okian/tonight/internal/adapters/repository"
	"github.com/okian/tonight/internal/domain/model"
	"github.com/okian/tonight/internal/domain/types"
)

// Default request limits.
const (
	defaultMaxLimit     = 500
	defaultRunsLimit    = 10
	maxScoreRequestSize = 10 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RunReader

	// ScoreEvents ranks caller supplied events without recording the run.
	ScoreEvents(ctx context.Context, events []model.Event) (*types.RunResult, error)

	// Refresh re-runs the pipeline from its configured sources.
	Refresh(ctx context.Context) (*types.RunResult, error)
}

// RunReader exposes completed runs. Lookups of unknown runs return an error
// wrapping repository.ErrNotFound.
type RunReader interface {
	Latest(ctx context.Context) (*types.RunResult, error)
	RunByID(ctx context.Context, runID string) (*types.RunResult, error)
	Runs(ctx context.Context, n int) ([]types.RunResult, error)
}

// Entry mirrors the read shape of a ranked event.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	eventsHandler  *EventsHandler
	runsHandler    *RunsHandler
	scoreHandler   *ScoreHandler
	refreshHandler *RefreshHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps
// GET /events?limit; a non-positive value uses the default.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	if maxLimit < 1 {
		maxLimit = defaultMaxLimit
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		eventsHandler:  NewEventsHandler(deps, maxLimit),
		runsHandler:    NewRunsHandler(deps),
		scoreHandler:   NewScoreHandler(deps),
		refreshHandler: NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandleGetEvents, "events"))
	mux.HandleFunc("/runs", MetricsMiddleware(s.runsHandler.HandleListRuns, "runs"))
	mux.HandleFunc("/runs/", MetricsMiddleware(s.runsHandler.HandleGetRun, "run"))
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandlePostScore, "score"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandlePostRefresh, "refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate store misses to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
