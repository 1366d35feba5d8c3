package api

import (
	"net/http"
	"strconv"

	"github.com/okian/tonight/internal/domain/model"
	"github.com/okian/tonight/internal/domain/ranking"
)

// EventsHandler serves the ranked events of the latest run.
type EventsHandler struct {
	runs     RunReader
	maxLimit int
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(runs RunReader, maxLimit int) *EventsHandler {
	return &EventsHandler{runs: runs, maxLimit: maxLimit}
}

// HandleGetEvents handles GET /events?limit=N&tier=T requests. Ranks are
// those of the full list, so a tier filter keeps the original numbering.
func (h *EventsHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_events"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	limit := h.maxLimit
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	var tier model.Tier
	if s := q.Get("tier"); s != "" {
		t, ok := model.ParseTier(s)
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		tier = t
	}

	run, err := h.runs.Latest(r.Context())
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_ready", WrapKind(op, ErrNotReady, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	entries := ranking.Entries(run.Events)
	out := make([]Entry, 0, min(limit, len(entries)))
	for _, e := range entries {
		if len(out) == limit {
			break
		}
		if tier != "" && e.Tier != tier {
			continue
		}
		out = append(out, e)
	}
	writeJSON(w, http.StatusOK, out)
}
