// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package selq

import (
	"context"
	"iter"
	"slices"
	"sync"
)

// List is a mutable ordered collection that can be multiplexed by Select.
//
// A List is readable while it is non-empty, and Read returns the most
// recently appended (last) element without removing it. Every mutation
// wakes goroutines blocked in Read and notifies registered wakers, which
// makes List suitable for live result sets that a monitor observes while
// operators keep updating them.
//
// Example:
//
//	results := selq.NewList[Row]()
//
//	// Operator side
//	results.Append(row)
//
//	// Monitor side: blocks until at least one row exists
//	latest, err := results.Read(ctx)
type List[T any] struct {
	mu      sync.Mutex
	changed cond
	items   []T
	readers readers
}

// NewList creates a list holding a copy of items.
func NewList[T any](items ...T) *List[T] {
	l := &List[T]{items: slices.Clone(items)}
	l.changed.L = &l.mu
	return l
}

// Read blocks while the list is empty, then returns its last element.
// The element is not removed.
func (l *List[T]) Read(ctx context.Context) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for len(l.items) == 0 {
		if err := l.changed.Wait(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
	return l.items[len(l.items)-1], nil
}

// TryRead returns the last element, or false if the list is empty.
func (l *List[T]) TryRead() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.items) == 0 {
		var zero T
		return zero, false
	}
	return l.items[len(l.items)-1], true
}

// CanRead reports whether the list is non-empty.
func (l *List[T]) CanRead() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items) > 0
}

// Register adds w to the wakers notified on every mutation.
func (l *List[T]) Register(w Waker) {
	l.readers.register(w)
}

// Unregister removes w.
func (l *List[T]) Unregister(w Waker) {
	l.readers.unregister(w)
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Get returns the element at index i.
func (l *List[T]) Get(i int) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, ErrIndexOutOfRange
	}
	return l.items[i], nil
}

// Set replaces the element at index i and returns the previous one.
func (l *List[T]) Set(i int, v T) (T, error) {
	var old T
	err := l.mutate(func() (bool, error) {
		if i < 0 || i >= len(l.items) {
			return false, ErrIndexOutOfRange
		}
		old, l.items[i] = l.items[i], v
		return true, nil
	})
	return old, err
}

// Append adds vs at the end of the list.
func (l *List[T]) Append(vs ...T) {
	_ = l.mutate(func() (bool, error) {
		l.items = append(l.items, vs...)
		return len(vs) > 0, nil
	})
}

// Insert inserts vs at index i, shifting later elements up.
// i may equal Len, which appends.
func (l *List[T]) Insert(i int, vs ...T) error {
	return l.mutate(func() (bool, error) {
		if i < 0 || i > len(l.items) {
			return false, ErrIndexOutOfRange
		}
		l.items = slices.Insert(l.items, i, vs...)
		return len(vs) > 0, nil
	})
}

// RemoveAt removes and returns the element at index i.
func (l *List[T]) RemoveAt(i int) (T, error) {
	var old T
	err := l.mutate(func() (bool, error) {
		if i < 0 || i >= len(l.items) {
			return false, ErrIndexOutOfRange
		}
		old = l.items[i]
		l.items = slices.Delete(l.items, i, i+1)
		return true, nil
	})
	return old, err
}

// DeleteFunc removes every element satisfying del and returns how many
// were removed.
func (l *List[T]) DeleteFunc(del func(T) bool) int {
	var n int
	_ = l.mutate(func() (bool, error) {
		before := len(l.items)
		l.items = slices.DeleteFunc(l.items, del)
		n = before - len(l.items)
		return n > 0, nil
	})
	return n
}

// RetainFunc keeps only the elements satisfying keep and returns how many
// were removed.
func (l *List[T]) RetainFunc(keep func(T) bool) int {
	return l.DeleteFunc(func(v T) bool { return !keep(v) })
}

// Clear removes all elements.
func (l *List[T]) Clear() {
	_ = l.mutate(func() (bool, error) {
		clear(l.items)
		l.items = l.items[:0]
		return true, nil
	})
}

// IndexFunc returns the index of the first element satisfying match,
// or -1 if none does.
func (l *List[T]) IndexFunc(match func(T) bool) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.IndexFunc(l.items, match)
}

// ContainsFunc reports whether an element satisfies match.
func (l *List[T]) ContainsFunc(match func(T) bool) bool {
	return l.IndexFunc(match) >= 0
}

// Snapshot returns a copy of the elements.
func (l *List[T]) Snapshot() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// All returns an iterator over index/element pairs.
//
// The list lock is held for the whole range loop, so the loop observes a
// consistent list. The loop body must not call any method of the same
// List; doing so deadlocks. Use Snapshot to iterate while mutating.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, v := range l.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// mutate runs fn under the list lock. When fn reports a change, blocked
// readers are woken and, after the lock is released, registered wakers
// are notified.
func (l *List[T]) mutate(fn func() (bool, error)) error {
	l.mu.Lock()
	changed, err := fn()
	if !changed {
		l.mu.Unlock()
		return err
	}
	l.changed.Broadcast()
	l.mu.Unlock()
	l.readers.notify()
	return err
}

// Index returns the index of the first element of l equal to v,
// or -1 if there is none.
func Index[T comparable](l *List[T], v T) int {
	return l.IndexFunc(func(e T) bool { return e == v })
}
