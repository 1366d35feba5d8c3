// Package eventfile reads scraper output and writes scored results as JSON
// files on disk.
package eventfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/okian/tonight/internal/domain/model"
	"github.com/okian/tonight/pkg/logger"
	"github.com/okian/tonight/pkg/metrics"
)

// DefaultOutputFile is where scored events are cached, relative to the root.
const DefaultOutputFile = ".cache/scored-events.json"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Report summarizes one ReadAll call.
type Report struct {
	Files   int // files decoded
	Failed  int // files that could not be read or were not a JSON array
	Skipped int // individual records that failed to decode
	Events  int
}

// Decode parses a JSON array of events. Records that are not objects or do
// not decode are skipped and counted; a document that is not an array is an
// error. Missing fields take their zero value and a missing artist list
// becomes empty.
func Decode(data []byte) ([]model.Event, int, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, errors.Wrap(ErrNotArray, err.Error())
	}

	events := make([]model.Event, 0, len(raw))
	skipped := 0
	for _, rec := range raw {
		rec = bytes.TrimSpace(rec)
		if len(rec) == 0 || rec[0] != '{' {
			skipped++
			continue
		}
		var e model.Event
		if err := json.Unmarshal(rec, &e); err != nil {
			skipped++
			continue
		}
		if e.Artists == nil {
			e.Artists = []string{}
		}
		events = append(events, e)
	}
	return events, skipped, nil
}

// ReadFile reads and decodes one scraper output file.
func ReadFile(path string) ([]model.Event, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, errors.Wrapf(ErrReadEvents, "read %s: %v", path, err)
	}
	events, skipped, err := Decode(data)
	if err != nil {
		return nil, 0, errors.Wrapf(ErrReadEvents, "decode %s: %v", path, err)
	}
	return events, skipped, nil
}

// Expand resolves glob patterns against root. Patterns matching nothing are
// kept as literal paths so ReadAll can report them as missing.
func Expand(root string, patterns []string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) && root != "" {
			p = filepath.Join(root, p)
		}
		matches, err := filepath.Glob(p)
		if err != nil || len(matches) == 0 {
			add(p)
			continue
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out
}

// ReadAll reads every file in order and concatenates their events. A file
// that cannot be read is logged and skipped; the rest of the batch proceeds.
func ReadAll(ctx context.Context, paths []string) ([]model.Event, Report) {
	log := logger.Get().Named("eventfile")

	var (
		all    []model.Event
		report Report
	)
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		source := filepath.Base(path)
		events, skipped, err := ReadFile(path)
		if err != nil {
			report.Failed++
			metrics.RecordErrorByComponent("eventfile", "read_failed")
			log.Warn(ctx, "event source failed; skipping", logger.String("path", path), logger.Error(err))
			continue
		}
		if skipped > 0 {
			for i := 0; i < skipped; i++ {
				metrics.RecordEventDecodeError(source)
			}
			log.Warn(ctx, "skipped malformed records", logger.String("source", source), logger.Int("skipped", skipped))
		}
		metrics.RecordEventsIngested(source, len(events))
		log.Info(ctx, "read events", logger.String("source", source), logger.Int("events", len(events)))

		report.Files++
		report.Skipped += skipped
		all = append(all, events...)
	}
	report.Events = len(all)
	if all == nil {
		all = []model.Event{}
	}
	return all, report
}

// WriteScored writes events as an indented JSON array, creating parent
// directories as needed. The file is replaced atomically.
func WriteScored(path string, events []model.ScoredEvent) error {
	if events == nil {
		events = []model.ScoredEvent{}
	}
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode scored events")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".scored-*.json")
	if err != nil {
		return errors.Wrapf(err, "create temp file in %s", dir)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp.Name())
	}
	if err := os.Chmod(tmp.Name(), filePerm); err != nil {
		return errors.Wrapf(err, "chmod %s", tmp.Name())
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "rename to %s", path)
}
