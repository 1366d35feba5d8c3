// Package dedupe collapses listings that describe the same event.
package dedupe

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/okian/tonight/internal/domain/model"
	"github.com/okian/tonight/pkg/metrics"
)

// keySeparator joins the identity key components.
const keySeparator = "|"

// Deduper records seen identity keys.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	Size() int64
}

// inMemoryDeduper implements Deduper with a set guarded by a mutex.
type inMemoryDeduper struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	sizeHint int
	size     atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{}, d.sizeHint)
	return d
}

// SeenAndRecord atomically checks if key was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}
	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false
}

// Size returns the current number of recorded keys.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

// Key builds the identity key of an event: primary artist (or name), venue
// and date. Artist and venue compare case-insensitively; empty components are
// valid.
func Key(e *model.Event) string {
	return strings.Join([]string{
		strings.ToLower(e.PrimaryArtist()),
		strings.ToLower(e.Venue),
		e.Date,
	}, keySeparator)
}

// Collapse drops every event whose identity key was already seen earlier in
// events. Order of the survivors is preserved and the input is not modified.
func Collapse(ctx context.Context, events []model.Event) []model.Event {
	out := make([]model.Event, 0, len(events))
	if len(events) == 0 {
		return out
	}

	d := NewInMemoryDeduper(WithSizeHint(len(events)))
	for i := range events {
		if d.SeenAndRecord(ctx, Key(&events[i])) {
			metrics.RecordEventDuplicate()
			continue
		}
		out = append(out, events[i])
	}
	return out
}
