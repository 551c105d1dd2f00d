// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package dataflow runs small streaming operator graphs on selq queues.
//
// Every edge is a selq queue carrying values and a final end-of-stream
// marker. Bounded edges give backpressure; Union multiplexes its inputs
// with one selq.Select. Operators run in an errgroup, so the first
// failure cancels the rest of the graph.
//
//	g, _ := dataflow.New[int](dataflow.WithCapacity(16))
//	a := g.Source("a", produceA)
//	b := g.Source("b", produceB)
//	all := g.Union("all", a, b)
//	rows := g.Collect("rows", g.Filter("positive", all, isPositive))
//	err := g.Run(ctx)
package dataflow
