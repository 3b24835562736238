package shardmesh

// mesh.go implements §4.I: the host that schedules and ticks a set of wires
// cooperatively, single-threaded within a mesh, with an opt-in worker pool
// for asyncActivate side-effectful tasks (§5).
//
// © 2025 shardmesh authors. MIT License.

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shardmesh/shardmesh/internal/deadline"
	"github.com/shardmesh/shardmesh/internal/meshring"
	"github.com/shardmesh/shardmesh/internal/value"
)

// Mesh hosts many concurrent wires and drives them cooperatively.
type Mesh struct {
	active *meshring.Ring[*Wire]
	nodes  map[*Wire]*meshring.Node[*Wire]
	wheel  *deadline.Wheel[*Wire]

	variables map[string]*Cell // mesh-owned variables (§4.E step 3)
	refs      map[string]*Cell // borrowed globals, never refcounted

	metrics meshMetrics
	logger  *zap.Logger

	pool *workerPool

	readyMu sync.Mutex
	ready   []*Wire // wires whose asyncActivate task completed off-thread
}

// MeshOption configures a Mesh at construction, mirroring the teacher's
// Option[K,V] functional-options idiom.
type MeshOption func(*meshConfig)

type meshConfig struct {
	registry   promRegistry
	logger     *zap.Logger
	resolution time.Duration
	workers    int
}

// WithMeshMetrics enables Prometheus metrics for tick/wire counters. Passing
// nil disables metrics (default), matching the teacher's WithMetrics.
func WithMeshMetrics(reg promRegistry) MeshOption {
	return func(c *meshConfig) { c.registry = reg }
}

// WithMeshLogger plugs an external zap.Logger; the mesh never logs on the
// per-tick hot path, only from Terminate. Wire warmup/activation failures are
// logged by each wire's own logger (WithWireLogger).
func WithMeshLogger(l *zap.Logger) MeshOption {
	return func(c *meshConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTickResolution sets the deadline wheel's bucket granularity.
func WithTickResolution(d time.Duration) MeshOption {
	return func(c *meshConfig) {
		if d > 0 {
			c.resolution = d
		}
	}
}

// WithWorkerPoolSize sets the worker pool size backing asyncActivate.
func WithWorkerPoolSize(n int) MeshOption {
	return func(c *meshConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// NewMesh constructs an empty Mesh anchored at the given start time (pass
// time.Now() in production; tests may pass a fixed time for determinism).
func NewMesh(start time.Time, opts ...MeshOption) *Mesh {
	cfg := &meshConfig{
		logger:     zap.NewNop(),
		resolution: 10 * time.Millisecond,
		workers:    4,
	}
	for _, o := range opts {
		o(cfg)
	}

	return &Mesh{
		active:    &meshring.Ring[*Wire]{},
		nodes:     make(map[*Wire]*meshring.Node[*Wire]),
		wheel:     deadline.New[*Wire](cfg.resolution, start),
		variables: make(map[string]*Cell),
		refs:      make(map[string]*Cell),
		metrics:   newMeshMetrics(cfg.registry),
		logger:    cfg.logger,
		pool:      newWorkerPool(cfg.workers),
	}
}

// BindGlobal exposes a borrowed (never refcounted) global cell under name,
// consulted by referenceVariable via mesh.refs (§4.E step 3).
func (m *Mesh) BindGlobal(name string, v value.Value) {
	m.refs[name] = &Cell{Name: name, Val: v, External: true}
}

// Schedule inserts wire into the ordered active set and starts its
// coroutine, due on the next Tick; first-warmup occurs lazily inside the
// wire runner on its first Resume. Schedule does not compose the wire:
// callers run ComposeWire on it beforehand.
func (m *Mesh) Schedule(wire *Wire, input value.Value) {
	wire.mesh = m
	wire.run(m, input)
	node := m.active.Append(wire)
	m.nodes[wire] = node
	m.wheel.Schedule(wire, time.Time{}) // due immediately
	m.metrics.incScheduled()
}

// Remove deactivates wire without running its cleanup -- used when the
// caller already knows the wire is finished via other means.
func (m *Mesh) Remove(wire *Wire) {
	if node, ok := m.nodes[wire]; ok {
		m.active.Remove(node)
		delete(m.nodes, wire)
	}
}

// detach is called by Wire.cleanup once its own teardown has run.
func (m *Mesh) detach(wire *Wire) { m.Remove(wire) }

// Tick advances every active wire whose coroutine has reached its `next`
// deadline, in schedule order (§4.I). Wires not yet due are left alone.
// A wire whose Resume call reaches a terminal state is removed from the
// active set. Returns the number of wires remaining active afterward.
func (m *Mesh) Tick(now time.Time) int {
	due := m.wheel.Advance(now)
	dueSet := make(map[*Wire]bool, len(due))
	for _, w := range due {
		dueSet[w] = true
	}
	for _, w := range m.drainReady() {
		if _, stillActive := m.nodes[w]; stillActive {
			dueSet[w] = true
		}
	}

	var finished []*Wire
	m.active.Each(func(n *meshring.Node[*Wire]) bool {
		w := n.Value
		if !dueSet[w] {
			return true
		}
		finishedNow := w.Resume()
		if finishedNow {
			finished = append(finished, w)
		} else if w.ctx != nil {
			m.wheel.Schedule(w, w.ctx.next)
		}
		return true
	})

	for _, w := range finished {
		m.Remove(w)
		m.metrics.incFinished(w.state == WireFailed)
	}
	m.metrics.setActive(m.active.Len())
	return m.active.Len()
}

// Terminate force-stops every active wire: cancels its Flow, resumes it
// until it exits, and drains the active set (§4.I).
func (m *Mesh) Terminate() {
	var all []*Wire
	m.active.Each(func(n *meshring.Node[*Wire]) bool {
		all = append(all, n.Value)
		return true
	})

	for _, w := range all {
		if w.ctx != nil {
			w.ctx.cancelFlow("mesh terminated")
		}
		for !w.Resume() {
			// drive the coroutine through its forced unwind
		}
		if w.ctx != nil && w.ctx.wireStack != nil {
			// a weak WireRef left dangling past mesh teardown is a caller
			// bug (the Value still tags the wire by pointer identity); we
			// only log it, since the core holds no authority to rewrite
			// Values other code may still be holding.
			m.logger.Debug("wire had non-empty wire-stack at terminate",
				zap.String("wire", w.name))
		}
		m.Remove(w)
	}
	m.pool.close()
}

// Len reports how many wires are currently active.
func (m *Mesh) Len() int { return m.active.Len() }
