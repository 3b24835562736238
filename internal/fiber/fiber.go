// Package fiber emulates the stackful coroutine primitive §9 Design Notes
// calls for ("the wire driver needs a suspend-resume primitive with a
// user-controlled stack and deterministic yield... implement with stackful
// coroutines"). Go has no portable stackful-fiber API, so this package
// keeps the teacher's own concurrency idiom (goroutines + channels +
// sync/atomic, no third-party actor framework) and builds the same
// suspend/resume contract on top of a parked goroutine handed off through
// two unbuffered channels -- one real OS stack per Fiber, sized implicitly
// by the Go scheduler rather than a fixed arena, which is the stdlib-only
// substitution DESIGN.md documents for §9's "platform fibers" line.
//
// © 2025 shardmesh authors. MIT License.
package fiber

import "fmt"

// unwind is the forced-unwind sentinel a Stop() propagates through a
// running Fiber body via panic/recover, mirroring the coroutine-library
// sentinel §4.H and §7 require shard error handlers to rethrow.
type unwind struct{}

func (unwind) String() string { return "fiber: forced unwind" }

// Yielder is handed to a Fiber's body so it can cooperatively give control
// back to whoever is driving Resume().
type Yielder struct {
	f *Fiber
}

// Suspend blocks the running goroutine until the next Resume() call. It
// panics with the unwind sentinel if the fiber has been asked to Stop.
func (y *Yielder) Suspend() {
	f := y.f
	f.yield <- struct{}{}
	<-f.resume
	if f.stopRequested {
		panic(unwind{})
	}
}

// Fiber is a single-shot coroutine: once its body function returns (or
// panics), it cannot be restarted -- a fresh Fiber must be created, matching
// a Wire's own warmup-before-rerun requirement (§4.G).
type Fiber struct {
	resume        chan struct{}
	yield         chan struct{}
	done          bool
	failed        bool
	panicValue    any
	stopRequested bool
	started       bool
}

// New constructs a Fiber whose body is `body`. The body receives a Yielder
// it must call at every suspension point.
func New(body func(*Yielder)) *Fiber {
	f := &Fiber{
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
	}
	go f.run(body)
	return f
}

func (f *Fiber) run(body func(*Yielder)) {
	<-f.resume // wait for the first Resume() -- "first suspend" semantics
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(unwind); !ok {
				f.failed = true
				f.panicValue = r
			}
		}
		f.done = true
		f.yield <- struct{}{}
	}()
	body(&Yielder{f: f})
}

// Resume hands control to the fiber and blocks until it suspends or
// finishes. It returns true once the fiber's body has returned (or
// panicked/was stopped).
func (f *Fiber) Resume() (finished bool) {
	if f.done {
		return true
	}
	f.resume <- struct{}{}
	<-f.yield
	return f.done
}

// Stop requests a forced unwind: the next Suspend() call inside the fiber
// panics with the unwind sentinel, which this package's own recover treats
// as a clean stop rather than a failure. Stop blocks until the fiber has
// fully unwound.
func (f *Fiber) Stop() {
	if f.done {
		return
	}
	f.stopRequested = true
	f.Resume()
}

// Done reports whether the fiber's body has returned.
func (f *Fiber) Done() bool { return f.done }

// Failed reports whether the fiber's body panicked with something other
// than the forced-unwind sentinel; Err renders that panic value.
func (f *Fiber) Failed() bool { return f.failed }

func (f *Fiber) Err() error {
	if !f.failed {
		return nil
	}
	return fmt.Errorf("fiber: panic: %v", f.panicValue)
}
