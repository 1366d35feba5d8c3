package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/okian/tonight/internal/domain/types"
)

const defaultHistory = 16

// MemoryStore is a bounded in-memory Store. Reads of the latest run never
// take the lock.
type MemoryStore struct {
	mu      sync.RWMutex
	runs    []*types.RunResult // oldest first
	byID    map[string]*types.RunResult
	history int

	latest atomic.Pointer[types.RunResult]
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{history: defaultHistory}
	for _, opt := range opts {
		opt(s)
	}
	s.runs = make([]*types.RunResult, 0, s.history)
	s.byID = make(map[string]*types.RunResult, s.history)
	return s
}

// Put records run, evicting the oldest retained run when full. The store
// keeps the pointer; callers must not modify run afterwards.
func (s *MemoryStore) Put(_ context.Context, run *types.RunResult) error {
	if run == nil {
		return fmt.Errorf("%w: nil run", ErrInvalidRun)
	}
	if run.RunID == "" {
		return fmt.Errorf("%w: missing run id", ErrInvalidRun)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[run.RunID]; exists {
		return fmt.Errorf("%w: duplicate run id %s", ErrInvalidRun, run.RunID)
	}
	if len(s.runs) == s.history {
		delete(s.byID, s.runs[0].RunID)
		s.runs[0] = nil
		s.runs = s.runs[1:]
	}
	s.runs = append(s.runs, run)
	s.byID[run.RunID] = run
	s.latest.Store(run)
	return nil
}

// Latest returns the most recent run.
func (s *MemoryStore) Latest(_ context.Context) (*types.RunResult, error) {
	run := s.latest.Load()
	if run == nil {
		return nil, ErrNotFound
	}
	return run, nil
}

// Get returns a retained run by id.
func (s *MemoryStore) Get(_ context.Context, runID string) (*types.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.byID[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return run, nil
}

// List returns up to n run summaries, newest first.
func (s *MemoryStore) List(_ context.Context, n int) ([]types.RunResult, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.runs) {
		n = len(s.runs)
	}
	out := make([]types.RunResult, 0, n)
	for i := len(s.runs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.runs[i].Summary())
	}
	return out, nil
}

// Count returns the number of retained runs.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
