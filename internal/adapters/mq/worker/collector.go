package worker

import (
	"sort"
	"sync"

	"github.com/okian/tonight/internal/domain/model"
)

// Collector is a Sink that gathers one batch of results.
type Collector struct {
	mu      sync.Mutex
	results []Result
}

// NewCollector creates a collector sized for n results.
func NewCollector(n int) *Collector {
	if n < 0 {
		n = 0
	}
	return &Collector{results: make([]Result, 0, n)}
}

// Put records a result.
func (c *Collector) Put(r Result) {
	c.mu.Lock()
	c.results = append(c.results, r)
	c.mu.Unlock()
}

// Scored returns successfully scored events in job sequence order and the
// number of failed jobs.
func (c *Collector) Scored() ([]model.ScoredEvent, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sort.Slice(c.results, func(i, j int) bool { return c.results[i].Seq < c.results[j].Seq })

	out := make([]model.ScoredEvent, 0, len(c.results))
	failed := 0
	for _, r := range c.results {
		if r.Err != nil {
			failed++
			continue
		}
		out = append(out, r.Scored)
	}
	return out, failed
}
