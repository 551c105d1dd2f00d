// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package selq

import (
	"context"
	"sync"
)

// Unbounded is a blocking FIFO queue without a capacity limit.
//
// Elements are kept in a singly linked list of nodes owned by the queue.
// Put never blocks, so an Unbounded edge applies no backpressure; Take
// blocks while the queue is empty.
//
// Memory: one node per queued element
type Unbounded[T any] struct {
	mu       sync.Mutex
	notEmpty cond
	head     *item[T] // Dequeue end
	tail     *item[T] // Enqueue end
	length   int
	readers  readers
}

type item[T any] struct {
	value T
	next  *item[T]
}

// NewUnbounded creates an empty unbounded queue.
func NewUnbounded[T any]() *Unbounded[T] {
	q := &Unbounded[T]{}
	q.notEmpty.L = &q.mu
	return q
}

// Put appends an element. It never blocks and always returns nil;
// ctx is accepted so that Unbounded satisfies Queue.
func (q *Unbounded[T]) Put(_ context.Context, elem T) error {
	q.Offer(elem)
	return nil
}

// Offer appends an element and returns true.
func (q *Unbounded[T]) Offer(elem T) bool {
	node := &item[T]{value: elem}
	q.mu.Lock()
	if q.tail == nil {
		q.head = node
	} else {
		q.tail.next = node
	}
	q.tail = node
	q.length++
	q.notEmpty.Signal()
	q.mu.Unlock()
	q.readers.notify()
	return true
}

// Take removes and returns the head element, blocking while the queue is
// empty.
func (q *Unbounded[T]) Take(ctx context.Context) (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.head == nil {
		if err := q.notEmpty.Wait(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
	return q.unlink(), nil
}

// Poll removes and returns the head element.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *Unbounded[T]) Poll() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == nil {
		var zero T
		return zero, ErrWouldBlock
	}
	return q.unlink(), nil
}

// Read is Take; it makes Unbounded a Source.
func (q *Unbounded[T]) Read(ctx context.Context) (T, error) {
	return q.Take(ctx)
}

// TryRead is Poll reporting success as a bool.
func (q *Unbounded[T]) TryRead() (T, bool) {
	elem, err := q.Poll()
	return elem, err == nil
}

// CanRead reports whether the queue is non-empty.
func (q *Unbounded[T]) CanRead() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.head != nil
}

// ContainsFunc reports whether a queued element satisfies match.
func (q *Unbounded[T]) ContainsFunc(match func(T) bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for n := q.head; n != nil; n = n.next {
		if match(n.value) {
			return true
		}
	}
	return false
}

// Size returns the number of queued elements.
func (q *Unbounded[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.length
}

// Cap returns -1: the queue has no capacity limit.
func (q *Unbounded[T]) Cap() int {
	return -1
}

// Register adds w to the wakers notified when an element is added.
func (q *Unbounded[T]) Register(w Waker) {
	q.readers.register(w)
}

// Unregister removes w.
func (q *Unbounded[T]) Unregister(w Waker) {
	q.readers.unregister(w)
}

// unlink detaches the head node. Requires mu and a non-empty queue.
func (q *Unbounded[T]) unlink() T {
	node := q.head
	q.head = node.next
	if q.head == nil {
		q.tail = nil
	}
	node.next = nil
	q.length--
	return node.value
}
