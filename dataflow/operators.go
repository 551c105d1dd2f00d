// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dataflow

import (
	"context"
	"fmt"
	"slices"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/selq"
)

// Source declares an operator that produces records by calling emit.
// The output stream is closed when fn returns nil.
func (g *Graph[T]) Source(name string, fn func(ctx context.Context, emit func(T) error) error) *Stream[T] {
	out := g.edge(name)
	g.add(name, "source", func(ctx context.Context, op *operator) error {
		err := fn(ctx, func(v T) error {
			if err := out.Send(ctx, v); err != nil {
				return err
			}
			op.emitted()
			return nil
		})
		if err != nil {
			return err
		}
		return out.Close(ctx)
	})
	return out
}

// Map declares an operator applying fn to every record of in.
func (g *Graph[T]) Map(name string, in *Stream[T], fn func(T) (T, error)) *Stream[T] {
	g.consume(name, in)
	out := g.edge(name)
	g.add(name, "map", func(ctx context.Context, op *operator) error {
		err := drain(ctx, in, func(v T) error {
			r, err := fn(v)
			if err != nil {
				return err
			}
			if err := out.Send(ctx, r); err != nil {
				return err
			}
			op.emitted()
			return nil
		})
		if err != nil {
			return err
		}
		return out.Close(ctx)
	})
	return out
}

// Filter declares an operator passing on the records of in that satisfy
// keep.
func (g *Graph[T]) Filter(name string, in *Stream[T], keep func(T) bool) *Stream[T] {
	g.consume(name, in)
	out := g.edge(name)
	g.add(name, "filter", func(ctx context.Context, op *operator) error {
		err := drain(ctx, in, func(v T) error {
			if !keep(v) {
				return nil
			}
			if err := out.Send(ctx, v); err != nil {
				return err
			}
			op.emitted()
			return nil
		})
		if err != nil {
			return err
		}
		return out.Close(ctx)
	})
	return out
}

// Union declares an operator merging ins into one stream.
//
// All inputs are multiplexed by a single selq.Select. Each input is
// removed from the Select when it ends, and the output ends after the
// last input. No order is kept across inputs; each input's own order is.
func (g *Graph[T]) Union(name string, ins ...*Stream[T]) *Stream[T] {
	for _, in := range ins {
		g.consume(name, in)
	}
	out := g.edge(name)
	g.add(name, "union", func(ctx context.Context, op *operator) error {
		sel := selq.NewSelect[message[T]]()
		defer sel.Close()
		for _, in := range ins {
			sel.Add(in.q)
		}

		for sel.Len() > 0 {
			src, err := sel.Join(ctx)
			if err != nil {
				return err
			}
			m, ok := src.TryRead()
			if !ok {
				continue
			}
			if m.eos {
				sel.Remove(src)
				continue
			}
			if err := out.Send(ctx, m.value); err != nil {
				return err
			}
			op.emitted()
		}
		return out.Close(ctx)
	})
	return out
}

// Tee declares an operator copying every record of in to n streams.
//
// Each record is offered to every output that has room, backing off while
// all remaining outputs are full. The next record is read only after every
// output took the current one.
func (g *Graph[T]) Tee(name string, in *Stream[T], n int) []*Stream[T] {
	g.consume(name, in)
	if n < 1 {
		g.fail(fmt.Errorf("%w: %q has %d", ErrInvalidFanOut, name, n))
		return nil
	}
	outs := make([]*Stream[T], n)
	for i := range outs {
		outs[i] = g.edge(fmt.Sprintf("%s.%d", name, i))
	}
	g.add(name, "tee", func(ctx context.Context, op *operator) error {
		pending := make([]*Stream[T], 0, n)
		err := drain(ctx, in, func(v T) error {
			pending = append(pending[:0], outs...)
			var backoff iox.Backoff
			for {
				before := len(pending)
				pending = slices.DeleteFunc(pending, func(out *Stream[T]) bool {
					return out.offer(v)
				})
				if len(pending) == 0 {
					break
				}
				if len(pending) < before {
					backoff.Reset()
					continue
				}
				if err := ctx.Err(); err != nil {
					return fmt.Errorf("%w: %w", selq.ErrInterrupted, err)
				}
				backoff.Wait()
			}
			op.emitted()
			return nil
		})
		if err != nil {
			return err
		}
		for _, out := range outs {
			if err := out.Close(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	return outs
}

// Sink declares an operator calling fn for every record of in.
func (g *Graph[T]) Sink(name string, in *Stream[T], fn func(T) error) {
	g.consume(name, in)
	g.add(name, "sink", func(ctx context.Context, op *operator) error {
		return drain(ctx, in, func(v T) error {
			if err := fn(v); err != nil {
				return err
			}
			op.emitted()
			return nil
		})
	})
}

// Collect declares a sink appending every record of in to a live list.
// The list can be observed, and multiplexed, while the graph runs.
func (g *Graph[T]) Collect(name string, in *Stream[T]) *selq.List[T] {
	results := selq.NewList[T]()
	g.Sink(name, in, func(v T) error {
		results.Append(v)
		return nil
	})
	return results
}

// drain calls fn for every record of in until end-of-stream.
func drain[T any](ctx context.Context, in *Stream[T], fn func(T) error) error {
	for {
		v, ok, err := in.Recv(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}
