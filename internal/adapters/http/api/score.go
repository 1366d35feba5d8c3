package api

import (
	"context"
	"io"
	"net/http"

	"github.com/okian/tonight/internal/adapters/eventfile"
	"github.com/okian/tonight/internal/domain/model"
	"github.com/okian/tonight/internal/domain/ranking"
	"github.com/okian/tonight/internal/domain/types"
)

// ScoreDependencies defines what ad hoc scoring needs.
type ScoreDependencies interface {
	ScoreEvents(ctx context.Context, events []model.Event) (*types.RunResult, error)
}

// RefreshDependencies defines what a refresh needs.
type RefreshDependencies interface {
	Refresh(ctx context.Context) (*types.RunResult, error)
}

type scoreResponse struct {
	Run     types.RunResult `json:"run"`
	Skipped int             `json:"skipped"`
	Events  []Entry         `json:"events"`
}

// ScoreHandler handles ad hoc scoring requests.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// HandlePostScore handles POST /score requests. The body is a JSON array of
// raw events, decoded as tolerantly as scraper output files.
func (h *ScoreHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxScoreRequestSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	events, skipped, err := eventfile.Decode(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	run, err := h.deps.ScoreEvents(r.Context(), events)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{
		Run:     run.Summary(),
		Skipped: skipped,
		Events:  ranking.Entries(run.Events),
	})
}

// RefreshHandler handles refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandlePostRefresh handles POST /refresh requests and returns the new run's summary.
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	run, err := h.deps.Refresh(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, run.Summary())
}
