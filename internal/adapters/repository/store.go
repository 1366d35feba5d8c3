// Package repository keeps the results of recent pipeline runs.
package repository

import (
	"context"

	"github.com/okian/tonight/internal/domain/types"
)

// Store provides read/write access to run history.
type Store interface {
	// Put records a finished run and makes it the latest one.
	Put(ctx context.Context, run *types.RunResult) error

	// Latest returns the most recent run.
	// Returns ErrNotFound if no run was recorded yet.
	Latest(ctx context.Context) (*types.RunResult, error)

	// Get returns a retained run by id.
	// Returns ErrNotFound if the run is unknown or was evicted.
	Get(ctx context.Context, runID string) (*types.RunResult, error)

	// List returns up to n run summaries, newest first.
	List(ctx context.Context, n int) ([]types.RunResult, error)

	// Count returns the number of retained runs.
	Count(ctx context.Context) int
}
