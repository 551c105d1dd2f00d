// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dataflow

import (
	"context"

	"code.hybscloud.com/selq"
)

// message is what travels on an edge: a value, or end-of-stream.
type message[T any] struct {
	value T
	eos   bool
}

// Stream is an edge between two operators.
//
// A Stream has exactly one producing operator, which calls Close once
// after its last Send. Recv reports end-of-stream with ok == false.
type Stream[T any] struct {
	name string
	q    selq.Queue[message[T]]
}

// Name returns the edge name.
func (s *Stream[T]) Name() string {
	return s.name
}

// Send puts v on the stream, blocking while a bounded edge is full.
func (s *Stream[T]) Send(ctx context.Context, v T) error {
	return s.q.Put(ctx, message[T]{value: v})
}

// offer puts v without blocking and reports whether it was queued.
func (s *Stream[T]) offer(v T) bool {
	return s.q.Offer(message[T]{value: v})
}

// Close marks the end of the stream.
func (s *Stream[T]) Close(ctx context.Context) error {
	return s.q.Put(ctx, message[T]{eos: true})
}

// Recv takes the next value. ok is false at end-of-stream; Recv must not
// be called again after that.
func (s *Stream[T]) Recv(ctx context.Context) (v T, ok bool, err error) {
	m, err := s.q.Take(ctx)
	if err != nil || m.eos {
		return v, false, err
	}
	return m.value, true, nil
}

// Size returns the number of queued messages, including end-of-stream.
func (s *Stream[T]) Size() int {
	return s.q.Size()
}

// Cap returns the edge capacity, or -1 if unbounded.
func (s *Stream[T]) Cap() int {
	return s.q.Cap()
}
