// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package selq provides blocking queues that can be multiplexed.
//
// The package is the glue between operators of a streaming dataflow:
// upstream stages put into queues, downstream stages take from them, and
// a stage with several inputs blocks on all of them at once through a
// [Select], much like select(2) over in-process typed channels whose set
// can change at runtime.
//
// Three source types implement [Source]:
//
//   - Bounded:   fixed-capacity ring buffer, Put blocks while full
//   - Unbounded: linked queue, Put never blocks
//   - List:      ordered collection, Read peeks the last element
//
// # Quick Start
//
// Direct constructors:
//
//	q, err := selq.NewBounded[Event](1024)
//	u := selq.NewUnbounded[Event]()
//	l := selq.NewList[Row]()
//
// Builder API picks the queue type at runtime:
//
//	q, err := selq.Build[Event](selq.New(1024))             // → *Bounded
//	q, err := selq.Build[Event](selq.New(0).Unbounded())    // → *Unbounded
//
// # Basic Usage
//
// Blocking operations take a context and return an error wrapping
// [ErrInterrupted] when it ends:
//
//	// Producer: blocks while the queue is full (backpressure)
//	if err := q.Put(ctx, ev); err != nil {
//	    return err
//	}
//
//	// Consumer: blocks while the queue is empty
//	ev, err := q.Take(ctx)
//
// Non-blocking variants never park:
//
//	if !q.Offer(ev) {
//	    // Queue is full
//	}
//
//	ev, err := q.Poll()
//	if selq.IsWouldBlock(err) {
//	    // Queue is empty
//	}
//
// # Fan-in
//
// A union operator merges several inputs into one processing loop:
//
//	sel := selq.NewSelect[Event](left, right)
//	defer sel.Close()
//
//	for {
//	    ev, err := sel.Read(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    process(ev)
//	}
//
// Inputs can be added and removed while the loop runs, as long as the
// looping goroutine does it:
//
//	src, err := sel.Join(ctx)      // some readable input
//	ev, ok := src.TryRead()
//	if ok && ev.EOS {
//	    sel.Remove(src)
//	}
//
// When several sources are ready, Join and Read pick the first in
// registration order. There is no fairness guarantee.
//
// # Lock Order
//
// Each source owns a data lock and a separate registry lock; each Select
// owns a registration lock and a state lock. The package-wide order is:
//
//	Select registration → source registry → Select state → source data
//
// Select checks readiness under its state lock by taking each source's
// data lock. Sources wake their registered Selects only after releasing
// that data lock, so a producer and a multiplexing consumer can never
// deadlock each other.
//
// # Race Detection
//
// Queue state is guarded by mutexes only, so the package is clean under
// the race detector. [code.hybscloud.com/atomix] counters are used for
// statistics that are written with atomic read-modify-write operations.
//
// # Cancellation
//
// Every blocking wait can be abandoned through its context. An abandoned
// operation leaves the queue unchanged. If the operation can complete
// without waiting, it completes even when the context is already done.
// Timeouts are expressed with [context.WithTimeout].
//
// # Error Handling
//
// Poll returns [ErrWouldBlock] when the queue is empty. This error is
// sourced from [code.hybscloud.com/iox] for ecosystem consistency:
//
//	selq.IsWouldBlock(err)  // true if queue empty
//	selq.IsSemantic(err)    // true if control flow signal
//	selq.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// Failures are [ErrInvalidCapacity], [ErrInterrupted], [ErrNoTargets]
// and [ErrIndexOutOfRange].
//
// # Metrics
//
// [Collector] exports queue depth and capacity as Prometheus gauges:
//
//	c := selq.NewCollector("engine")
//	c.Watch("scan->filter", q)
//	prometheus.MustRegister(c)
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for statistics counters, and
// [code.hybscloud.com/spin] for CPU pause instructions. [Collector] is
// built on [github.com/prometheus/client_golang/prometheus].
package selq
