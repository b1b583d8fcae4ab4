// Package cache provides the read-through store for per-period extraction
// results. Entries are populated lazily, never invalidated within a run,
// and cleared only by process restart.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"visatrack/pkg/contracts/domain"
)

// ComputeFunc produces the record list for one period on a cache miss.
type ComputeFunc func(ctx context.Context) ([]domain.Record, error)

// Store caches immutable record lists keyed by period. Concurrent misses
// for the same period are collapsed to a single computation; recomputing
// and overwriting with an identical result would be harmless, collapsing is
// purely a performance optimization.
type Store struct {
	mu      sync.RWMutex
	entries map[string][]domain.Record
	group   singleflight.Group

	hits   func()
	misses func()
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[string][]domain.Record)}
}

// OnHit and OnMiss register optional observation hooks, used for metrics.
func (s *Store) OnHit(fn func())  { s.hits = fn }
func (s *Store) OnMiss(fn func()) { s.misses = fn }

// GetOrCompute returns the cached record list for the period, computing and
// storing it on first access. Errors are returned to the caller and not
// cached, so an unpublished month is retried on the next request.
func (s *Store) GetOrCompute(ctx context.Context, p domain.Period, compute ComputeFunc) ([]domain.Record, error) {
	key := p.Key()

	s.mu.RLock()
	records, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		if s.hits != nil {
			s.hits()
		}
		return records, nil
	}
	if s.misses != nil {
		s.misses()
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		records, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.entries[key] = records
		s.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Record), nil
}

// Len reports the number of cached periods.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
