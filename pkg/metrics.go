package shardmesh

// metrics.go is a thin abstraction over Prometheus so a Mesh can be used
// with or without metrics, following the same noop/real-sink split as the
// teacher's pkg/metrics.go: when the caller passes a registry via
// WithMeshMetrics, labeled collectors are created and registered; otherwise
// a no-op sink is used and the tick hot path does not pay for metric
// updates.
//
// ┌──────────────────────────────┬──────┐
// │ Metric                       │ Type │
// ├───────────────────────────────┼──────┤
// │ shardmesh_wires_scheduled_total│ Ctr  │
// │ shardmesh_wires_finished_total │ Ctr  │ (labeled ok|failed)
// │ shardmesh_wires_active        │ Gge  │
// └──────────────────────────────┴──────┘
//
// © 2025 shardmesh authors. MIT License.

import (
	"github.com/prometheus/client_golang/prometheus"
)

// promRegistry is the subset of *prometheus.Registry this package needs,
// named so callers can pass either the real type or a test double.
type promRegistry interface {
	MustRegister(...prometheus.Collector)
}

// meshMetrics is the internal sink interface; Mesh only ever talks to this,
// never to the concrete Prometheus types directly.
type meshMetrics interface {
	incScheduled()
	incFinished(failed bool)
	setActive(n int)
}

type noopMeshMetrics struct{}

func (noopMeshMetrics) incScheduled()        {}
func (noopMeshMetrics) incFinished(bool)     {}
func (noopMeshMetrics) setActive(int)        {}

type promMeshMetrics struct {
	scheduled prometheus.Counter
	finished  *prometheus.CounterVec
	active    prometheus.Gauge
}

func newPromMeshMetrics(reg promRegistry) *promMeshMetrics {
	pm := &promMeshMetrics{
		scheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shardmesh",
			Name:      "wires_scheduled_total",
			Help:      "Number of wires scheduled onto this mesh.",
		}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shardmesh",
			Name:      "wires_finished_total",
			Help:      "Number of wires that reached a terminal state.",
		}, []string{"outcome"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shardmesh",
			Name:      "wires_active",
			Help:      "Number of wires currently in the active set.",
		}),
	}
	reg.MustRegister(pm.scheduled, pm.finished, pm.active)
	return pm
}

func (m *promMeshMetrics) incScheduled() { m.scheduled.Inc() }
func (m *promMeshMetrics) incFinished(failed bool) {
	if failed {
		m.finished.WithLabelValues("failed").Inc()
	} else {
		m.finished.WithLabelValues("ok").Inc()
	}
}
func (m *promMeshMetrics) setActive(n int) { m.active.Set(float64(n)) }

// newMeshMetrics decides which implementation to use based on whether a
// registry was supplied via WithMeshMetrics.
func newMeshMetrics(reg promRegistry) meshMetrics {
	if reg == nil {
		return noopMeshMetrics{}
	}
	return newPromMeshMetrics(reg)
}
