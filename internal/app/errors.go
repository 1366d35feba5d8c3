package service

import (
	"errors"
	"fmt"

	"github.com/okian/tonight/internal/adapters/repository"
)

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrNoProfile   = errors.New("taste profile required")
	ErrNotReady    = fmt.Errorf("no completed run: %w", repository.ErrNotFound)
	ErrRunFailed   = errors.New("pipeline run failed")
	ErrWriteOutput = errors.New("write scored events")
)
