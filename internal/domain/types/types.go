// Package types contains result shapes shared by the service, the run store
// and the HTTP API.
package types

import (
	"time"

	"github.com/okian/tonight/internal/domain/model"
)

// Entry is a ranked event. Events with equal scores share a rank.
type Entry struct {
	Rank int `json:"rank"`
	model.ScoredEvent
}

// RunResult describes one pass of the pipeline and its ranked output.
type RunResult struct {
	RunID            string              `json:"runId"`
	StartedAt        time.Time           `json:"startedAt"`
	FinishedAt       time.Time           `json:"finishedAt"`
	RawCount         int                 `json:"rawCount"`
	DedupedCount     int                 `json:"dedupedCount"`
	ScoredCount      int                 `json:"scoredCount"`
	FailedCount      int                 `json:"failedCount"`
	FilteredCount    int                 `json:"filteredCount"`
	Tiers            map[model.Tier]int  `json:"tiers"`
	AffinityProvider string              `json:"affinityProvider"`
	Events           []model.ScoredEvent `json:"events,omitempty"`
}

// Duration returns how long the run took.
func (r *RunResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary returns a copy of r without its events.
func (r *RunResult) Summary() RunResult {
	s := *r
	s.Events = nil
	s.Tiers = make(map[model.Tier]int, len(r.Tiers))
	for k, v := range r.Tiers {
		s.Tiers[k] = v
	}
	return s
}
