// Package cache memoizes an expensive dataset load for the life of a process.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/swiss-weather-today/internal/observability"
)

// flightKey is the only key in the group; a Slot holds one value.
const flightKey = "load"

// LoadFunc produces the value on a cache miss.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Slot holds one lazily loaded value. Concurrent first calls share a single
// load through singleflight. Failed loads are never stored, so the next call
// tries again.
type Slot[T any] struct {
	dataset string
	metrics *observability.Metrics
	group   singleflight.Group

	mu     sync.Mutex
	value  T
	loaded bool
}

// NewSlot creates an empty slot. dataset labels cache metrics.
func NewSlot[T any](dataset string, metrics *observability.Metrics) *Slot[T] {
	return &Slot[T]{dataset: dataset, metrics: metrics}
}

// Get returns the stored value, or runs load once and stores its successful
// result. The context of the caller that starts the load drives it.
func (s *Slot[T]) Get(ctx context.Context, load LoadFunc[T]) (T, error) {
	if v, ok := s.peek(); ok {
		s.metrics.CacheLookups.WithLabelValues(s.dataset, observability.CacheHit).Inc()
		return v, nil
	}
	s.metrics.CacheLookups.WithLabelValues(s.dataset, observability.CacheMiss).Inc()

	res, err, _ := s.group.Do(flightKey, func() (any, error) {
		// A caller that lost the race to the previous flight finds the value here.
		if v, ok := s.peek(); ok {
			return v, nil
		}
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		s.mu.Lock()
		s.value, s.loaded = v, true
		s.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

func (s *Slot[T]) peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.loaded
}
