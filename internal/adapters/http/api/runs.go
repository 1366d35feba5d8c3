package api

import (
	"net/http"
	"strconv"
	"strings"
)

// latestRun is the path segment that selects the most recent run.
const latestRun = "latest"

// RunsHandler serves run summaries.
type RunsHandler struct {
	runs RunReader
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(runs RunReader) *RunsHandler {
	return &RunsHandler{runs: runs}
}

// HandleListRuns handles GET /runs?limit=N requests, newest first.
func (h *RunsHandler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_runs"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := defaultRunsLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = v
	}
	runs, err := h.runs.Runs(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// HandleGetRun handles GET /runs/latest and GET /runs/{run_id}. The latest
// run is returned as a summary; a run fetched by id includes its events.
func (h *RunsHandler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_run"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /runs/
	id := strings.TrimPrefix(r.URL.Path, "/runs/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	if id == latestRun {
		run, err := h.runs.Latest(r.Context())
		if err != nil {
			if isNotFound(err) {
				writeError(w, http.StatusNotFound, "not_ready", WrapKind(op, ErrNotReady, err))
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, run.Summary())
		return
	}

	run, err := h.runs.RunByID(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, run)
}
