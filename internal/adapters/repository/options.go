package repository

import "time"

// Option applies a configuration option to the BoardStore.
type Option func(*BoardStore)

// WithMaxLimit caps TopN requests.
func WithMaxLimit(n int) Option {
	return func(s *BoardStore) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithClock sets the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *BoardStore) {
		if now != nil {
			s.now = now
		}
	}
}
