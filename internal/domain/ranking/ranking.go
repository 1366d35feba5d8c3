// Package ranking orders scored events for display. It is the only stage that
// reorders or drops events after scoring, and it never recomputes a score.
package ranking

import (
	"sort"

	"github.com/okian/tonight/internal/domain/model"
	"github.com/okian/tonight/internal/domain/types"
)

// Option applies a configuration option to Rank.
type Option func(*options)

type options struct {
	minScore float64
	limit    int
	tier     model.Tier
}

// WithMinScore drops events scoring below min.
func WithMinScore(minScore float64) Option {
	return func(o *options) {
		o.minScore = minScore
	}
}

// WithLimit keeps at most n events. Zero or negative means no limit.
func WithLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithTier keeps only events in tier t.
func WithTier(t model.Tier) Option {
	return func(o *options) {
		o.tier = t
	}
}

// Rank returns a new slice sorted by descending score. The sort is stable:
// equal scores keep their input order. The input slice is not modified.
func Rank(events []model.ScoredEvent, opts ...Option) []model.ScoredEvent {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	out := make([]model.ScoredEvent, 0, len(events))
	for i := range events {
		if events[i].Score < o.minScore {
			continue
		}
		if o.tier != "" && events[i].Tier != o.tier {
			continue
		}
		out = append(out, events[i])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if o.limit > 0 && len(out) > o.limit {
		out = out[:o.limit]
	}
	return out
}

// Entries numbers already-ranked events. Equal scores share a rank and the
// next distinct score takes the following rank.
func Entries(ranked []model.ScoredEvent) []types.Entry {
	out := make([]types.Entry, len(ranked))
	rank := 0
	for i := range ranked {
		if i == 0 || ranked[i].Score != ranked[i-1].Score {
			rank++
		}
		out[i] = types.Entry{Rank: rank, ScoredEvent: ranked[i]}
	}
	return out
}

// CountTiers tallies events per tier. Every tier is present in the result.
func CountTiers(events []model.ScoredEvent) map[model.Tier]int {
	counts := make(map[model.Tier]int, len(model.Tiers))
	for _, t := range model.Tiers {
		counts[t] = 0
	}
	for i := range events {
		counts[events[i].Tier]++
	}
	return counts
}
