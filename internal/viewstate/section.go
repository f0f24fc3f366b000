// Package viewstate keeps per-section UI data consistent with server state.
// Each section owns its loading flag, error and cached list; sections load
// independently so a slow or failing one never blocks the others.
package viewstate

import (
	"context"
	"sync"
)

// Section is one independently loaded data block (companies, recent posts,
// branches). All access goes through the mutex; a generation counter
// discards results that resolve after a newer load or after Close, so a
// stale fetch never overwrites fresher state.
type Section[T any] struct {
	name string

	mu      sync.Mutex
	loading bool
	err     error
	items   []T
	gen     uint64
	closed  bool
}

func NewSection[T any](name string) *Section[T] {
	return &Section[T]{name: name}
}

func (s *Section[T]) Name() string { return s.name }

// Load runs fetch and applies the outcome unless the section was closed or
// reloaded while the fetch was in flight.
func (s *Section[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	items, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return
	}
	s.loading = false
	if err != nil {
		s.err = err
		return
	}
	s.items = items
}

// Snapshot returns a copy of the current items plus the loading/error flags.
func (s *Section[T]) Snapshot() ([]T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]T, len(s.items))
	copy(items, s.items)
	return items, s.loading, s.err
}

func (s *Section[T]) Items() []T {
	items, _, _ := s.Snapshot()
	return items
}

func (s *Section[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Section[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Update applies a read-modify-write against the latest cached list under
// the lock. Mutation results must go through here rather than a captured
// snapshot, so two quickly resolving operations cannot lose each other's
// updates.
func (s *Section[T]) Update(fn func(items []T) []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.items = fn(s.items)
}

// Close marks the owning view as gone; in-flight fetches resolve into the
// void instead of mutating state for a view nobody is looking at.
func (s *Section[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.loading = false
}
