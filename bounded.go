// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package selq

import (
	"context"
	"sync"
)

// Bounded is a fixed-capacity blocking FIFO queue.
//
// Elements live in a ring buffer of exactly the requested capacity.
// Put blocks while the queue is full, which propagates backpressure to
// upstream operators; Take blocks while it is empty.
//
// Memory: O(capacity), allocated once at construction
type Bounded[T any] struct {
	mu       sync.Mutex
	notEmpty cond // Takers wait here
	notFull  cond // Putters wait here
	buffer   []T
	head     int          // Dequeue offset
	tail     int          // Enqueue offset
	count    int
	readers  readers
}

// NewBounded creates a bounded queue holding at most capacity elements.
// Returns ErrInvalidCapacity if capacity <= 0.
//
// Unlike the ring sizes of lock-free queues, capacity is used as given
// and is not rounded.
func NewBounded[T any](capacity int) (*Bounded[T], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	q := &Bounded[T]{buffer: make([]T, capacity)}
	q.notEmpty.L = &q.mu
	q.notFull.L = &q.mu
	return q, nil
}

// Put adds an element at the tail, blocking while the queue is full.
func (q *Bounded[T]) Put(ctx context.Context, elem T) error {
	q.mu.Lock()
	for q.full() {
		if err := q.notFull.Wait(ctx); err != nil {
			q.mu.Unlock()
			return err
		}
	}
	q.enqueue(elem)
	q.mu.Unlock()
	q.readers.notify()
	return nil
}

// Offer adds an element if the queue is not full.
// Returns false, leaving the queue unchanged, if it is.
func (q *Bounded[T]) Offer(elem T) bool {
	q.mu.Lock()
	if q.full() {
		q.mu.Unlock()
		return false
	}
	q.enqueue(elem)
	q.mu.Unlock()
	q.readers.notify()
	return true
}

// Take removes and returns the head element, blocking while the queue is
// empty.
func (q *Bounded[T]) Take(ctx context.Context) (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.count == 0 {
		if err := q.notEmpty.Wait(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
	return q.dequeue(), nil
}

// Poll removes and returns the head element.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *Bounded[T]) Poll() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == 0 {
		var zero T
		return zero, ErrWouldBlock
	}
	return q.dequeue(), nil
}

// Read is Take; it makes Bounded a Source.
func (q *Bounded[T]) Read(ctx context.Context) (T, error) {
	return q.Take(ctx)
}

// TryRead is Poll reporting success as a bool.
func (q *Bounded[T]) TryRead() (T, bool) {
	elem, err := q.Poll()
	return elem, err == nil
}

// CanRead reports whether the queue is non-empty.
func (q *Bounded[T]) CanRead() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count > 0
}

// ContainsFunc reports whether a queued element satisfies match.
// Elements are visited from head to tail.
func (q *Bounded[T]) ContainsFunc(match func(T) bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	off := q.head
	for range q.count {
		if match(q.buffer[off]) {
			return true
		}
		if off++; off == len(q.buffer) {
			off = 0
		}
	}
	return false
}

// Size returns the number of queued elements.
func (q *Bounded[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the queue capacity.
func (q *Bounded[T]) Cap() int {
	return len(q.buffer)
}

// Register adds w to the wakers notified when an element is added.
func (q *Bounded[T]) Register(w Waker) {
	q.readers.register(w)
}

// Unregister removes w.
func (q *Bounded[T]) Unregister(w Waker) {
	q.readers.unregister(w)
}

func (q *Bounded[T]) full() bool {
	return q.count == len(q.buffer)
}

// enqueue stores elem at tail and wakes one taker. Requires mu and room.
func (q *Bounded[T]) enqueue(elem T) {
	q.buffer[q.tail] = elem
	if q.tail++; q.tail == len(q.buffer) {
		q.tail = 0
	}
	q.count++
	q.notEmpty.Signal()
}

// dequeue removes the head element and wakes one putter.
// Requires mu and a non-empty queue.
func (q *Bounded[T]) dequeue() T {
	elem := q.buffer[q.head]
	var zero T
	q.buffer[q.head] = zero
	if q.head++; q.head == len(q.buffer) {
		q.head = 0
	}
	q.count--
	q.notFull.Signal()
	return elem
}
