// Package metrics exposes session activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/vesselbatch/internal/session"
)

const namespace = "vesselbatch"

// Collector is a session.Sink that records metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	items        *prometheus.CounterVec
	itemDuration prometheus.Histogram
	sessions     *prometheus.CounterVec
	diskWarnings prometheus.Counter
	locked       prometheus.Gauge
	selectedRow  prometheus.Gauge

	mu      sync.Mutex
	started map[string]time.Time
	runtime prometheus.Histogram
}

// NewCollector registers the batch metrics on a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		items: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "items",
			Name:      "total",
			Help:      "Analyzed items by outcome",
		}, []string{"outcome"}),
		itemDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "items",
			Name:      "duration_seconds",
			Help:      "Time spent analyzing one item",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 900, 1800},
		}),
		sessions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "total",
			Help:      "Finished analysis sessions by final state",
		}, []string{"state"}),
		runtime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "duration_seconds",
			Help:      "Wall time of finished analysis sessions",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		diskWarnings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disk_space_warnings_total",
			Help:      "Sessions that reported insufficient disk space",
		}),
		locked: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "locked",
			Help:      "1 while a session holds the batch controls",
		}),
		selectedRow: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selected_row",
			Help:      "Row currently being analyzed",
		}),
		started: make(map[string]time.Time),
	}
}

// Registry returns the registry the collector writes to.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector's metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) Lock(locked bool) {
	if locked {
		c.locked.Set(1)
		return
	}
	c.locked.Set(0)
}

func (c *Collector) Select(row int) {
	c.selectedRow.Set(float64(row))
}

func (c *Collector) Status(ev session.StatusEvent) {
	if !ev.Final {
		return
	}
	c.items.WithLabelValues(string(ev.Outcome)).Inc()
	c.itemDuration.Observe(ev.Elapsed.Seconds())
}

func (c *Collector) DiskSpace(float64) {
	c.diskWarnings.Inc()
}

func (c *Collector) State(id string, s session.State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case s == session.Running:
		c.started[id] = time.Now()
	case s.Terminal():
		c.sessions.WithLabelValues(s.String()).Inc()
		if t, ok := c.started[id]; ok {
			c.runtime.Observe(time.Since(t).Seconds())
			delete(c.started, id)
		}
	}
}
