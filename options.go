// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package selq

// Options configures queue creation.
type Options struct {
	// Capacity (used as given, no rounding)
	capacity int

	// No capacity limit; capacity is ignored
	unbounded bool
}

// Builder creates queues with fluent configuration.
//
// Builder lets wiring code decide between bounded and unbounded edges at
// runtime while the operators only see Queue[T].
//
// Example:
//
//	// Bounded edge with backpressure
//	q, err := selq.Build[Event](selq.New(1024))
//
//	// Unbounded edge, producers never block
//	q, err := selq.Build[Event](selq.New(0).Unbounded())
type Builder struct {
	opts Options
}

// New creates a queue builder with the given capacity.
//
// The capacity is validated when a bounded queue is built, so New itself
// never fails.
func New(capacity int) *Builder {
	return &Builder{opts: Options{capacity: capacity}}
}

// Unbounded declares that the queue has no capacity limit.
func (b *Builder) Unbounded() *Builder {
	b.opts.unbounded = true
	return b
}

// Capacity returns the configured capacity, or -1 if unbounded.
func (b *Builder) Capacity() int {
	if b.opts.unbounded {
		return -1
	}
	return b.opts.capacity
}

// Build creates a Queue[T] from the builder configuration.
//
// Selection:
//
//	Unbounded()  → *Unbounded[T]
//	otherwise    → *Bounded[T] (ErrInvalidCapacity if capacity <= 0)
func Build[T any](b *Builder) (Queue[T], error) {
	if b.opts.unbounded {
		return NewUnbounded[T](), nil
	}
	q, err := NewBounded[T](b.opts.capacity)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// BuildBounded creates a bounded queue with compile-time type safety.
// Panics if the builder is configured with Unbounded().
func BuildBounded[T any](b *Builder) (*Bounded[T], error) {
	if b.opts.unbounded {
		panic("selq: BuildBounded requires a builder without Unbounded()")
	}
	return NewBounded[T](b.opts.capacity)
}

// BuildUnbounded creates an unbounded queue with compile-time type safety.
// Panics if the builder is not configured with Unbounded().
func BuildUnbounded[T any](b *Builder) *Unbounded[T] {
	if !b.opts.unbounded {
		panic("selq: BuildUnbounded requires Unbounded()")
	}
	return NewUnbounded[T]()
}
