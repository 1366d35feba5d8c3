// Package scoring turns an event into a ScoredEvent by folding an ordered list
// of independent rules over a shared breakdown.
package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/tonight/internal/domain/affinity"
	"github.com/okian/tonight/internal/domain/model"
	"github.com/okian/tonight/internal/domain/taste"
	"github.com/okian/tonight/pkg/metrics"
)

// Score computes the score, breakdown and tier of e. It performs no I/O and
// reads profile and src only, so calls for different events may run in any
// order or concurrently.
func Score(e model.Event, profile *taste.Profile, src affinity.Source) model.ScoredEvent {
	return fold(Rules(), e, profile, src)
}

func fold(rules []Rule, e model.Event, profile *taste.Profile, src affinity.Source) model.ScoredEvent {
	in := newInput(&e, profile, src)
	b := model.Breakdown{MatchedArtists: []string{}}

	var total float64
	for _, r := range rules {
		total += r.Apply(in, &b)
	}
	total = round1(math.Max(0, math.Min(maxScore, total)))

	return model.ScoredEvent{
		Event:     e,
		Score:     total,
		Breakdown: b,
		Tier:      model.TierFor(total),
	}
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithRules replaces the rule list. Used to isolate categories in tests.
func WithRules(rules []Rule) Option {
	return func(s *Scorer) {
		if len(rules) > 0 {
			s.rules = rules
		}
	}
}

// Scorer binds a profile and affinity source for a whole run.
type Scorer struct {
	profile *taste.Profile
	source  affinity.Source
	rules   []Rule
}

// New creates a Scorer. A nil source falls back to the built-in tables.
func New(profile *taste.Profile, source affinity.Source, opts ...Option) *Scorer {
	if source == nil {
		source = affinity.Builtin()
	}
	s := &Scorer{
		profile: profile,
		source:  source,
		rules:   Rules(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provider names the affinity source in use.
func (s *Scorer) Provider() string { return s.source.Provider() }

// Score scores one event. A panicking rule is reported as ErrScoreFailed so
// one bad record cannot abort the batch.
func (s *Scorer) Score(ctx context.Context, e model.Event) (out model.ScoredEvent, err error) {
	if err := ctx.Err(); err != nil {
		return model.ScoredEvent{}, fmt.Errorf("context cancelled: %w", err)
	}
	if s.profile == nil {
		return model.ScoredEvent{}, fmt.Errorf("%w: no taste profile", ErrScoreFailed)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = model.ScoredEvent{}
			err = fmt.Errorf("%w: %q: %v", ErrScoreFailed, e.Name, r)
		}
		if err != nil {
			metrics.RecordScoringError()
			return
		}
		metrics.RecordEventScored()
		metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	return fold(s.rules, e, s.profile, s.source), nil
}
