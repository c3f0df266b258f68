package monitor

import (
	"context"
	"sync"
	"time"
)

// FetchFunc loads a fresh value and names where it came from
type FetchFunc[T any] func(ctx context.Context) (T, string, error)

// Snapshot holds the last good value of a remote collection.
// A failed refresh keeps serving the previous value.
type Snapshot[T any] struct {
	fetch FetchFunc[T]

	mu        sync.RWMutex
	value     T
	source    string
	fetchedAt time.Time
	valid     bool
	lastErr   error
}

func NewSnapshot[T any](fetch FetchFunc[T]) *Snapshot[T] {
	return &Snapshot[T]{fetch: fetch}
}

// Refresh fetches a new value. On failure the last good value is returned
// together with the error, and ok reports whether any value is held.
func (s *Snapshot[T]) Refresh(ctx context.Context) (value T, ok bool, err error) {
	fresh, source, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = err
	if err == nil {
		s.value = fresh
		s.source = source
		s.fetchedAt = time.Now()
		s.valid = true
	}
	return s.value, s.valid, err
}

// Get returns the held value without fetching
func (s *Snapshot[T]) Get() (value T, fetchedAt time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.fetchedAt, s.valid
}

// Source names the provider of the held value
func (s *Snapshot[T]) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Err is the error of the most recent refresh, nil if it succeeded
func (s *Snapshot[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Invalidate drops the held value so the next reader has to refresh
func (s *Snapshot[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	s.value = zero
	s.source = ""
	s.fetchedAt = time.Time{}
	s.valid = false
}
