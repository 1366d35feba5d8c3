package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/tonight/internal/adapters/mq/queue"
	"github.com/okian/tonight/internal/adapters/mq/worker"
	"github.com/okian/tonight/internal/domain/dedupe"
	"github.com/okian/tonight/internal/domain/model"
	"github.com/okian/tonight/internal/domain/ranking"
	"github.com/okian/tonight/internal/domain/types"
	"github.com/okian/tonight/pkg/logger"
	"github.com/okian/tonight/pkg/metrics"
)

// Process runs dedup, scoring and ranking over events. It neither reads nor
// writes files and does not touch the run history.
func (s *Service) Process(ctx context.Context, events []model.Event) (*types.RunResult, error) {
	res := &types.RunResult{
		RunID:            uuid.NewString(),
		StartedAt:        time.Now().UTC(),
		RawCount:         len(events),
		AffinityProvider: s.scorer.Provider(),
	}
	if err := ctx.Err(); err != nil {
		s.recordFailure(ctx, res.StartedAt, err)
		return nil, fmt.Errorf("%w: %w", ErrRunFailed, err)
	}

	deduped := dedupe.Collapse(ctx, events)
	res.DedupedCount = len(deduped)

	scored, failed, err := s.score(ctx, deduped)
	if err != nil {
		s.recordFailure(ctx, res.StartedAt, err)
		return nil, fmt.Errorf("%w: %w", ErrRunFailed, err)
	}
	res.ScoredCount = len(scored)
	res.FailedCount = failed

	ranked := ranking.Rank(scored, ranking.WithMinScore(s.minScore))
	res.FilteredCount = len(scored) - len(ranked)
	res.Tiers = ranking.CountTiers(ranked)
	res.Events = ranked
	res.FinishedAt = time.Now().UTC()

	return res, nil
}

// ScoreEvents runs the pipeline over events supplied by a caller. The result
// is not recorded as the latest run.
func (s *Service) ScoreEvents(ctx context.Context, events []model.Event) (*types.RunResult, error) {
	res, err := s.Process(ctx, events)
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "scored ad hoc events",
		logger.String("runId", res.RunID),
		logger.Int("raw", res.RawCount),
		logger.Int("ranked", len(res.Events)),
	)
	return res, nil
}

// score fans events out over a worker pool and collects the results in
// input order. Events whose scoring failed are counted and left out.
func (s *Service) score(ctx context.Context, events []model.Event) ([]model.ScoredEvent, int, error) {
	if len(events) == 0 {
		return []model.ScoredEvent{}, 0, nil
	}

	workers := s.workerCount
	if workers > len(events) {
		workers = len(events)
	}

	q := queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	sink := worker.NewCollector(len(events))
	pool := worker.NewPool(workers, q, s.scorer, sink)
	pool.Start(ctx)

	for i := range events {
		if err := q.EnqueueWait(ctx, queue.Job{Seq: i, Event: events[i]}); err != nil {
			_ = pool.Shutdown(context.WithoutCancel(ctx))
			return nil, 0, err
		}
	}
	if err := q.Close(); err != nil {
		return nil, 0, fmt.Errorf("close queue: %w", err)
	}
	if err := pool.Wait(ctx); err != nil {
		return nil, 0, err
	}

	scored, failed := sink.Scored()
	return scored, failed, nil
}

func (s *Service) recordSuccess(ctx context.Context, res *types.RunResult) {
	tiers := make(map[string]int, len(res.Tiers))
	for t, n := range res.Tiers {
		tiers[string(t)] = n
	}
	metrics.UpdateTierCounts(tiers)
	metrics.RecordRun("ok", res.Duration(), len(res.Events))

	s.logger.Info(ctx, "run complete",
		logger.String("runId", res.RunID),
		logger.Int("raw", res.RawCount),
		logger.Int("duplicatesRemoved", res.RawCount-res.DedupedCount),
		logger.Int("scored", res.ScoredCount),
		logger.Int("failed", res.FailedCount),
		logger.Int("filtered", res.FilteredCount),
		logger.Int("gold", res.Tiers[model.TierGold]),
		logger.Int("silver", res.Tiers[model.TierSilver]),
		logger.Int("bronze", res.Tiers[model.TierBronze]),
		logger.Int("dim", res.Tiers[model.TierDim]),
		logger.String("affinityProvider", res.AffinityProvider),
		logger.String("duration", res.Duration().String()),
	)

	entries := ranking.Entries(res.Events)
	if len(entries) > s.topPicks {
		entries = entries[:s.topPicks]
	}
	for _, e := range entries {
		s.logger.Info(ctx, "top pick",
			logger.Int("rank", e.Rank),
			logger.String("name", e.Name),
			logger.Float64("score", e.Score),
			logger.String("tier", string(e.Tier)),
			logger.String("venue", e.Venue),
			logger.String("date", e.Date),
		)
	}
}

func (s *Service) recordFailure(ctx context.Context, started time.Time, err error) {
	metrics.RecordRun("error", time.Since(started), 0)
	metrics.RecordErrorByComponent("service", "run_failed")
	s.logger.Error(ctx, "run failed", logger.Error(err))
}
