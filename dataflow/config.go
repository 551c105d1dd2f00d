// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dataflow

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Config configures a Graph.
type Config struct {
	// Capacity of every edge. Must be > 0 unless Unbounded is set.
	Capacity int

	// Unbounded makes every edge an unbounded queue (no backpressure).
	Unbounded bool

	// Logger receives operator lifecycle events.
	Logger *slog.Logger

	// Registerer, if set, receives the graph's queue and operator metrics.
	Registerer prometheus.Registerer

	// Namespace prefixes metric names.
	Namespace string
}

// DefaultConfig returns bounded edges of capacity 64, the default slog
// logger and no metrics registration.
func DefaultConfig() Config {
	return Config{
		Capacity:  64,
		Logger:    slog.Default(),
		Namespace: "dataflow",
	}
}

// Option modifies a Config.
type Option func(*Config)

// WithCapacity sets the edge capacity.
func WithCapacity(n int) Option {
	return func(c *Config) { c.Capacity = n }
}

// WithUnboundedEdges makes every edge unbounded.
func WithUnboundedEdges() Option {
	return func(c *Config) { c.Unbounded = true }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithRegisterer registers the graph's metrics with r.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(c *Config) { c.Registerer = r }
}

// WithNamespace sets the metric namespace.
func WithNamespace(ns string) Option {
	return func(c *Config) { c.Namespace = ns }
}
