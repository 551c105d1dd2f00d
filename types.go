// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package selq

import "context"

// Waker receives readiness hints from the sources it is registered with.
//
// Wake is called after a source mutation that may have made the source
// readable. It is a hint, not a proof: the receiver must re-check
// readiness. Wake runs outside the source's data lock but while the
// source's registry lock is held, so it must not register or unregister
// wakers on any source.
//
// Implementations are used as map keys and must be comparable (pointer
// receivers are the norm).
type Waker interface {
	Wake()
}

// Readable is the non-generic half of the source capability.
type Readable interface {
	// CanRead reports whether a read would currently succeed without
	// blocking. It never blocks and has no side effects.
	//
	// Select calls CanRead while holding its own lock. Implementations
	// may take their data lock, but must not hold it while waking
	// registered wakers.
	CanRead() bool

	// Register adds w to the set of wakers notified on state change.
	// Registering the same waker twice is a no-op.
	Register(w Waker)

	// Unregister removes w. Removing an unknown waker is a no-op.
	Unregister(w Waker)
}

// Source is a readable data source that Select can multiplex.
//
// Bounded, Unbounded and List implement Source. Queues consume on read;
// List peeks its most recently appended element.
type Source[T any] interface {
	Readable

	// Read blocks until the source is readable, then reads from it.
	// Returns an error wrapping ErrInterrupted if ctx ends first.
	Read(ctx context.Context) (T, error)

	// TryRead performs the readiness check and the read atomically under
	// the source's own lock. Returns false, with no side effect, if the
	// source is not readable.
	TryRead() (T, bool)
}

// Producer is the interface for putting elements into a queue.
type Producer[T any] interface {
	// Put adds an element, blocking while the queue is full.
	// Returns an error wrapping ErrInterrupted if ctx ends first;
	// the queue is then unchanged.
	Put(ctx context.Context, elem T) error

	// Offer adds an element if there is room and reports whether it did.
	// Offer never blocks.
	Offer(elem T) bool
}

// Consumer is the interface for taking elements out of a queue.
type Consumer[T any] interface {
	// Take removes and returns the head element, blocking while the queue
	// is empty. Returns an error wrapping ErrInterrupted if ctx ends first.
	Take(ctx context.Context) (T, error)

	// Poll removes and returns the head element.
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Poll() (T, error)
}

// Queue is the combined blocking FIFO interface used to connect pipeline
// stages. Both *Bounded[T] and *Unbounded[T] implement it, so operators
// can be wired with either without code changes.
//
// Example:
//
//	q, _ := selq.NewBounded[Event](1024)
//
//	// Upstream operator: blocks when the downstream falls behind
//	if err := q.Put(ctx, ev); err != nil {
//	    return err
//	}
//
//	// Downstream operator
//	ev, err := q.Take(ctx)
type Queue[T any] interface {
	Source[T]
	Producer[T]
	Consumer[T]
	Container[T]

	// Size returns the number of queued elements.
	Size() int

	// Cap returns the fixed capacity, or -1 for an unbounded queue.
	Cap() int
}

// Container is implemented by every collection in this package.
type Container[T any] interface {
	// ContainsFunc reports whether at least one element satisfies match.
	ContainsFunc(match func(T) bool) bool
}

// Contains reports whether c holds an element equal to v.
func Contains[T comparable](c Container[T], v T) bool {
	return c.ContainsFunc(func(e T) bool { return e == v })
}
