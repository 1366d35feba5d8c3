// Package config defines process configuration and its loading.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers defaults, an optional YAML file and the environment.
// - Errors returned to callers wrap this package's sentinel kinds.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogJSON switches log records from text to JSON.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// RootDir anchors every relative path below.
	RootDir string `koanf:"root_dir"`

	// ProfileFile is the mandatory taste profile.
	ProfileFile string `koanf:"profile_file" validate:"required"`

	// DNAFile is the optional extended taste configuration.
	DNAFile string `koanf:"dna_file"`

	// EventFiles lists scraper output files; glob patterns are allowed.
	EventFiles []string `koanf:"event_files"`

	// OutputFile receives the ranked events as JSON.
	OutputFile string `koanf:"output_file" validate:"required"`

	// MinScore drops ranked events scoring below it.
	MinScore float64 `koanf:"min_score" validate:"gte=0,lte=100"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count" validate:"gte=1"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size" validate:"gte=1"`

	// TopPicks is how many leading events a run logs.
	TopPicks int `koanf:"top_picks" validate:"gte=0"`

	// MaxEventsLimit caps GET /events?limit.
	MaxEventsLimit int `koanf:"max_events_limit" validate:"gte=1"`

	// Schedule is a cron spec for periodic refresh in serve mode; empty disables it.
	Schedule string `koanf:"schedule"`
}

// DefaultEventFiles is used when no event files are configured.
var DefaultEventFiles = []string{"events/*.json"} //nolint:gochecknoglobals // default value

// New creates a Config with defaults. Context is accepted first to satisfy the
// project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		RootDir:        ".",
		ProfileFile:    "taste-profile.json",
		DNAFile:        "taste-dna.json",
		OutputFile:     ".cache/scored-events.json",
		MinScore:       0,
		WorkerCount:    runtime.NumCPU(),
		QueueSize:      1024,
		TopPicks:       5,
		MaxEventsLimit: 500,
	}
}
