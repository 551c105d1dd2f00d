// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package selq

import (
	"context"
	"iter"
	"slices"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Select blocks a consumer until any of a dynamic set of sources becomes
// readable.
//
// Select registers itself as a Waker with each source it holds. When a
// producer writes to one of them, the source wakes the Select, and a
// goroutine blocked in Join or Read rescans the sources in registration
// order. A wake is a hint only; Join always re-verifies readiness.
//
// Lock order (never reversed anywhere in the package):
//
//	Select.regMu → source registry lock → Select.mu → source data lock
//
// Join holds Select.mu while CanRead takes a source's data lock. Sources
// notify only after releasing their data lock, so no goroutine holds a
// data lock while waiting for Select.mu.
//
// Concurrency contract: Add, Remove and Close are safe to call
// concurrently with each other, but must not be called concurrently with
// Join or Read from a different goroutine. The consumer that owns the
// Select is expected to wire it up, then loop on Read.
//
// No fairness is provided: when several sources are ready, the first in
// registration order wins.
type Select[T any] struct {
	regMu   sync.Mutex // Serializes Add/Remove/Close
	mu      sync.Mutex // Guards targets and ready
	ready   cond
	targets []Source[T]
	wakes   atomix.Uint64
}

// NewSelect creates a Select and adds sources in order.
func NewSelect[T any](sources ...Source[T]) *Select[T] {
	s := &Select[T]{}
	s.ready.L = &s.mu
	for _, src := range sources {
		s.Add(src)
	}
	return s
}

// Add registers with src and appends it to the target set.
// Adding a source that is already present is a no-op.
func (s *Select[T]) Add(src Source[T]) {
	s.regMu.Lock()
	defer s.regMu.Unlock()
	s.mu.Lock()
	present := slices.Contains(s.targets, src)
	s.mu.Unlock()
	if present {
		return
	}

	src.Register(s)

	s.mu.Lock()
	s.targets = append(s.targets, src)
	s.mu.Unlock()
}

// Remove drops src from the target set and unregisters from it.
// Removing an absent source is a no-op.
func (s *Select[T]) Remove(src Source[T]) {
	s.regMu.Lock()
	defer s.regMu.Unlock()
	s.mu.Lock()
	i := slices.Index(s.targets, src)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.targets = slices.Delete(s.targets, i, i+1)
	s.mu.Unlock()

	src.Unregister(s)
}

// Close unregisters from every source and empties the target set.
// Goroutines blocked in Join are woken and observe ErrNoTargets.
// A closed Select can be reused by adding sources again.
func (s *Select[T]) Close() {
	s.regMu.Lock()
	defer s.regMu.Unlock()
	s.mu.Lock()
	targets := s.targets
	s.targets = nil
	s.ready.Broadcast()
	s.mu.Unlock()

	for _, src := range targets {
		src.Unregister(s)
	}
}

// Join returns a readable source, blocking until one exists.
//
// Sources are checked in registration order and the first readable one
// is returned. Returns ErrNoTargets if no source is registered, or an
// error wrapping ErrInterrupted if ctx ends first.
//
// The returned source was readable at the time of the check. With more
// than one consumer it may be drained before the caller reads it; use
// TryRead on the result, or Read, which does both.
func (s *Select[T]) Join(ctx context.Context) (Source[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if len(s.targets) == 0 {
			return nil, ErrNoTargets
		}
		for _, src := range s.targets {
			if src.CanRead() {
				return src, nil
			}
		}
		if err := s.ready.Wait(ctx); err != nil {
			return nil, err
		}
	}
}

// Read reads from whichever source becomes readable next.
//
// Read joins, then reads the chosen source with TryRead so that the
// readiness check and the read are atomic. If another consumer drained
// the source in between, Read spins once with a CPU pause and joins
// again. The retry is bounded by the other consumers' reads: once no
// source is readable, Join parks.
func (s *Select[T]) Read(ctx context.Context) (T, error) {
	sw := spin.Wait{}
	for {
		src, err := s.Join(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		if v, ok := src.TryRead(); ok {
			return v, nil
		}
		sw.Once()
	}
}

// Wake implements Waker. Sources call it after becoming possibly readable.
func (s *Select[T]) Wake() {
	s.mu.Lock()
	s.wakes.Add(1)
	s.ready.Broadcast()
	s.mu.Unlock()
}

// All returns an iterator over a snapshot of the registered sources,
// in registration order.
func (s *Select[T]) All() iter.Seq[Source[T]] {
	s.mu.Lock()
	targets := slices.Clone(s.targets)
	s.mu.Unlock()
	return slices.Values(targets)
}

// Len returns the number of registered sources.
func (s *Select[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.targets)
}

// Wakeups returns the number of wake hints received so far.
func (s *Select[T]) Wakeups() uint64 {
	return s.wakes.Load()
}
