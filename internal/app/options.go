package service

import (
	"github.com/okian/tonight/internal/adapters/repository"
	"github.com/okian/tonight/internal/domain/scoring"
	"github.com/okian/tonight/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the scoring job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRootDir sets the directory relative event and output paths resolve against.
func WithRootDir(dir string) Option {
	return func(s *Service) {
		s.rootDir = dir
	}
}

// WithEventFiles sets the scraper output files read by Run. Glob patterns
// are expanded on every run.
func WithEventFiles(patterns ...string) Option {
	return func(s *Service) {
		s.eventFiles = append([]string(nil), patterns...)
	}
}

// WithOutputFile sets where Run writes the ranked events. Empty disables
// the write.
func WithOutputFile(path string) Option {
	return func(s *Service) {
		s.outputFile = path
	}
}

// WithMinScore drops ranked events scoring below minScore.
func WithMinScore(minScore float64) Option {
	return func(s *Service) {
		if minScore >= 0 {
			s.minScore = minScore
		}
	}
}

// WithTopPicks sets how many leading events a run logs.
func WithTopPicks(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.topPicks = n
		}
	}
}

// WithSchedule sets a cron spec for periodic refresh once started.
func WithSchedule(spec string) Option {
	return func(s *Service) {
		s.schedule = spec
	}
}

// WithStore replaces the run history store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithScoringRules replaces the scorer's rule list. Empty keeps the default rules.
func WithScoringRules(rules []scoring.Rule) Option {
	return func(s *Service) {
		s.rules = rules
	}
}
