// Package service orchestrates the event pipeline and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/okian/tonight/internal/adapters/eventfile"
	"github.com/okian/tonight/internal/adapters/repository"
	"github.com/okian/tonight/internal/config"
	"github.com/okian/tonight/internal/domain/affinity"
	"github.com/okian/tonight/internal/domain/scoring"
	"github.com/okian/tonight/internal/domain/taste"
	"github.com/okian/tonight/internal/domain/types"
	"github.com/okian/tonight/pkg/logger"
)

const (
	defaultQueueSize = 1024
	defaultTopPicks  = 5
)

// Service runs the pipeline over the configured event files and keeps the
// history of completed runs.
type Service struct {
	mu    sync.RWMutex // guards lifecycle state
	runMu sync.Mutex   // serializes Run

	// Core components
	profile *taste.Profile
	scorer  *scoring.Scorer
	rules   []scoring.Rule
	store   repository.Store

	// Configuration
	rootDir     string
	eventFiles  []string
	outputFile  string
	workerCount int
	queueSize   int
	minScore    float64
	topPicks    int
	schedule    string

	// State
	started bool
	cron    *cron.Cron
	runs    atomic.Int64

	// Logging
	logger logger.Logger
}

// New constructs a Service scoring against profile. A nil source selects
// the built-in affinity tables.
func New(profile *taste.Profile, source affinity.Source, opts ...Option) (*Service, error) {
	if profile == nil {
		return nil, ErrNoProfile
	}
	if source == nil {
		source = affinity.Builtin()
	}

	s := &Service{
		profile:     profile,
		rootDir:     ".",
		eventFiles:  append([]string(nil), config.DefaultEventFiles...),
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		topPicks:    defaultTopPicks,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.scorer = scoring.New(profile, source, scoring.WithRules(s.rules))
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	return s, nil
}

// Start begins scheduled refreshes when a schedule is configured. Scheduled
// runs use ctx and stop once it is done.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(s.schedule, func() { s.scheduledRun(ctx) }); err != nil {
			return fmt.Errorf("schedule %q: %w", s.schedule, err)
		}
		c.Start()
		s.cron = c
	}

	s.started = true
	s.logger.Info(ctx, "tonight service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("affinityProvider", s.scorer.Provider()),
		logger.String("schedule", s.schedule),
	)

	return nil
}

// Stop halts scheduled refreshes and waits for a scheduled run in flight.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.cron = nil
	}

	s.started = false
	s.logger.Info(context.Background(), "tonight service stopped")
}

func (s *Service) scheduledRun(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.Run(ctx); err != nil {
		s.logger.Error(ctx, "scheduled refresh failed", logger.Error(err))
	}
}

// Run reads the configured event files, runs the pipeline, writes the
// ranked events to the output file and records the run as the latest.
// Concurrent calls are serialized.
func (s *Service) Run(ctx context.Context) (*types.RunResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	paths := eventfile.Expand(s.rootDir, s.eventFiles)
	events, report := eventfile.ReadAll(ctx, paths)
	s.logger.Info(ctx, "read event files",
		logger.Int("files", report.Files),
		logger.Int("failed", report.Failed),
		logger.Int("skipped", report.Skipped),
		logger.Int("events", report.Events),
	)

	res, err := s.Process(ctx, events)
	if err != nil {
		return nil, err
	}

	if s.outputFile != "" {
		out := s.resolve(s.outputFile)
		if err := eventfile.WriteScored(out, res.Events); err != nil {
			s.recordFailure(ctx, res.StartedAt, err)
			return nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		s.logger.Debug(ctx, "wrote scored events", logger.String("path", out))
	}

	if err := s.store.Put(ctx, res); err != nil {
		s.recordFailure(ctx, res.StartedAt, err)
		return nil, fmt.Errorf("%w: %w", ErrRunFailed, err)
	}
	s.runs.Add(1)
	s.recordSuccess(ctx, res)

	return res, nil
}

// Refresh re-runs the pipeline from the configured files.
func (s *Service) Refresh(ctx context.Context) (*types.RunResult, error) {
	return s.Run(ctx)
}

// Latest returns the most recent completed run.
func (s *Service) Latest(ctx context.Context) (*types.RunResult, error) {
	run, err := s.store.Latest(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotReady
	}
	return run, err
}

// RunByID returns a retained run.
func (s *Service) RunByID(ctx context.Context, runID string) (*types.RunResult, error) {
	return s.store.Get(ctx, runID)
}

// Runs returns up to n run summaries, newest first.
func (s *Service) Runs(ctx context.Context, n int) ([]types.RunResult, error) {
	return s.store.List(ctx, n)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":          s.started,
		"workerCount":      s.workerCount,
		"queueSize":        s.queueSize,
		"minScore":         s.minScore,
		"schedule":         s.schedule,
		"affinityProvider": s.scorer.Provider(),
		"profileArtists":   s.profile.ArtistCount(),
		"genreKeywords":    s.profile.KeywordCount(),
		"runs":             s.runs.Load(),
		"retainedRuns":     s.store.Count(ctx),
	}

	if latest, err := s.store.Latest(ctx); err == nil {
		stats["lastRunId"] = latest.RunID
		stats["lastRunAt"] = latest.FinishedAt
		stats["lastRanked"] = len(latest.Events)
	}

	return stats
}

func (s *Service) resolve(path string) string {
	if filepath.IsAbs(path) || s.rootDir == "" {
		return path
	}
	return filepath.Join(s.rootDir, path)
}
