package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithHistory sets how many runs are retained.
func WithHistory(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.history = n
		}
	}
}
