// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package selq

import (
	"maps"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Sizer is implemented by queues that report their occupancy.
type Sizer interface {
	Size() int
	Cap() int // -1 if unbounded
}

// Collector exports queue occupancy as Prometheus gauges.
//
// Queues are watched under a name that becomes the "queue" label:
//
//	<namespace>_queue_depth{queue}     current Size
//	<namespace>_queue_capacity{queue}  Cap, bounded queues only
//
// Values are read at scrape time; watching a queue adds no cost to its
// hot path.
type Collector struct {
	mu       sync.RWMutex
	queues   map[string]Sizer
	depth    *prometheus.Desc
	capacity *prometheus.Desc
}

// NewCollector creates a Collector whose metric names use namespace.
func NewCollector(namespace string) *Collector {
	return &Collector{
		queues: make(map[string]Sizer),
		depth: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "queue", "depth"),
			"Number of elements currently queued.",
			[]string{"queue"}, nil,
		),
		capacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "queue", "capacity"),
			"Fixed capacity of a bounded queue.",
			[]string{"queue"}, nil,
		),
	}
}

// Watch starts exporting s under name, replacing any queue already
// watched under that name.
func (c *Collector) Watch(name string, s Sizer) {
	c.mu.Lock()
	c.queues[name] = s
	c.mu.Unlock()
}

// Unwatch stops exporting the queue watched under name.
func (c *Collector) Unwatch(name string) {
	c.mu.Lock()
	delete(c.queues, name)
	c.mu.Unlock()
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.depth
	ch <- c.capacity
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, name := range slices.Sorted(maps.Keys(c.queues)) {
		s := c.queues[name]
		ch <- prometheus.MustNewConstMetric(c.depth, prometheus.GaugeValue, float64(s.Size()), name)
		if n := s.Cap(); n >= 0 {
			ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(n), name)
		}
	}
}
