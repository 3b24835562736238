package shardmesh

// dispatcher.go implements the small per-wire event dispatcher used for
// OnStop, OnCleanup and OnExposedVarSet notifications (§4.E, §4.G). §5 calls
// for "shared-exclusive locking with a shared fast path" on the event
// dispatcher name->dispatcher map; since each Wire owns exactly one
// dispatcher instance (accessed only during that wire's own tick per §5),
// the RWMutex here guards against a handler being registered concurrently
// with an emit from a different goroutine driving the same wire's
// asyncActivate worker-pool callback, which is the one case that crosses a
// single-owner boundary.
//
// © 2025 shardmesh authors. MIT License.

import "sync"

// dispatcher fans named events out to subscriber funcs.
type dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]func(args ...any)
}

func newDispatcher() *dispatcher {
	return &dispatcher{listeners: make(map[string][]func(args ...any))}
}

// On subscribes fn to event.
func (d *dispatcher) On(event string, fn func(args ...any)) {
	d.mu.Lock()
	d.listeners[event] = append(d.listeners[event], fn)
	d.mu.Unlock()
}

// emit fans event out to every subscriber, passing args through.
func (d *dispatcher) emit(event string, args ...any) {
	d.mu.RLock()
	fns := d.listeners[event]
	d.mu.RUnlock()
	for _, fn := range fns {
		fn(args...)
	}
}
