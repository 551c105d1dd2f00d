// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dataflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/selq"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrDuplicateName is reported by Run when two operators share a name.
	ErrDuplicateName = errors.New("dataflow: duplicate operator name")

	// ErrStreamReused is reported by Run when a stream feeds more than one
	// operator. Use Tee to fan a stream out.
	ErrStreamReused = errors.New("dataflow: stream consumed twice")

	// ErrInvalidFanOut is reported by Run when a Tee asks for fewer than
	// one output.
	ErrInvalidFanOut = errors.New("dataflow: tee needs at least one output")

	// ErrAlreadyRun is returned by Run on a graph that has been run.
	ErrAlreadyRun = errors.New("dataflow: graph already run")
)

// operator is one goroutine of a running graph.
type operator struct {
	name      string
	kind      string
	processed atomix.Uint64
	records   prometheus.Counter
	run       func(ctx context.Context, op *operator) error
}

// emitted counts one record produced by op.
func (op *operator) emitted() {
	op.processed.Add(1)
	op.records.Inc()
}

// Graph is a set of operators connected by streams.
//
// Operators are declared with the Graph methods (Source, Map, Union, ...)
// and start when Run is called. Wiring mistakes are recorded as they are
// made and reported by Run, so declarations can be chained.
type Graph[T any] struct {
	cfg      Config
	log      *slog.Logger
	queues   *selq.Collector
	records  *prometheus.CounterVec
	names    map[string]bool
	consumed map[*Stream[T]]bool
	ops      []*operator
	err      error

	mu  sync.Mutex
	ran bool
}

// New creates an empty graph.
func New[T any](opts ...Option) (*Graph[T], error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.Unbounded && cfg.Capacity <= 0 {
		return nil, fmt.Errorf("dataflow: edge capacity %d: %w", cfg.Capacity, selq.ErrInvalidCapacity)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	g := &Graph[T]{
		cfg:      cfg,
		log:      cfg.Logger,
		queues:   selq.NewCollector(cfg.Namespace),
		names:    make(map[string]bool),
		consumed: make(map[*Stream[T]]bool),
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "operator_records_total",
				Help:      "Records emitted by each operator.",
			},
			[]string{"operator"},
		),
	}

	if r := cfg.Registerer; r != nil {
		if err := r.Register(g.queues); err != nil {
			return nil, fmt.Errorf("dataflow: register queue metrics: %w", err)
		}
		if err := r.Register(g.records); err != nil {
			r.Unregister(g.queues)
			return nil, fmt.Errorf("dataflow: register operator metrics: %w", err)
		}
	}
	return g, nil
}

// Run starts every operator and waits for all of them to finish.
//
// Run returns the first operator error. The other operators are then
// interrupted through the shared context. A graph runs once.
func (g *Graph[T]) Run(ctx context.Context) error {
	g.mu.Lock()
	if g.ran {
		g.mu.Unlock()
		return ErrAlreadyRun
	}
	g.ran = true
	g.mu.Unlock()

	if g.err != nil {
		return g.err
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, op := range g.ops {
		eg.Go(func() error {
			g.log.Debug("dataflow: operator started", "operator", op.name, "kind", op.kind)
			if err := op.run(ctx, op); err != nil {
				if selq.IsInterrupted(err) {
					g.log.Debug("dataflow: operator interrupted", "operator", op.name)
				} else {
					g.log.Error("dataflow: operator failed", "operator", op.name, "error", err)
				}
				return fmt.Errorf("dataflow: operator %q: %w", op.name, err)
			}
			g.log.Info("dataflow: operator finished",
				"operator", op.name,
				"kind", op.kind,
				"records", op.processed.Load())
			return nil
		})
	}
	return eg.Wait()
}

// Stats returns the number of records each operator has emitted.
// During Run the counts are a live sample; after Run they are final.
func (g *Graph[T]) Stats() map[string]uint64 {
	stats := make(map[string]uint64, len(g.ops))
	for _, op := range g.ops {
		stats[op.name] = op.processed.Load()
	}
	return stats
}

// Queues returns the collector exporting this graph's edge depths.
func (g *Graph[T]) Queues() *selq.Collector {
	return g.queues
}

// fail records the first wiring error.
func (g *Graph[T]) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}

// add declares an operator.
func (g *Graph[T]) add(name, kind string, run func(ctx context.Context, op *operator) error) {
	if g.names[name] {
		g.fail(fmt.Errorf("%w: %q", ErrDuplicateName, name))
		return
	}
	g.names[name] = true
	g.ops = append(g.ops, &operator{
		name:    name,
		kind:    kind,
		records: g.records.WithLabelValues(name),
		run:     run,
	})
}

// edge creates a stream and exports its depth.
func (g *Graph[T]) edge(name string) *Stream[T] {
	b := selq.New(g.cfg.Capacity)
	if g.cfg.Unbounded {
		b.Unbounded()
	}
	q, err := selq.Build[message[T]](b)
	if err != nil {
		// Capacity was validated by New
		panic(err)
	}
	s := &Stream[T]{name: name, q: q}
	g.queues.Watch(name, s)
	return s
}

// consume marks in as read by an operator.
func (g *Graph[T]) consume(name string, in *Stream[T]) {
	if g.consumed[in] {
		g.fail(fmt.Errorf("%w: %q read by %q", ErrStreamReused, in.name, name))
		return
	}
	g.consumed[in] = true
}
