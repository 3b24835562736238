package shardmesh

// wire.go implements §4.G: a Wire's lifecycle from Prepared through warmup,
// Iterating/IterationEnded cycles, to a terminal Ended or Failed state, all
// driven on an internal/fiber coroutine.
//
// © 2025 shardmesh authors. MIT License.

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shardmesh/shardmesh/internal/fiber"
	"github.com/shardmesh/shardmesh/internal/value"
	"github.com/shardmesh/shardmesh/internal/xtype"
)

// WireState is the lifecycle state machine described in §4.G.
type WireState int

const (
	WirePrepared WireState = iota
	WireIterating
	WireIterationEnded
	WireEnded
	WireFailed
)

func (s WireState) String() string {
	switch s {
	case WirePrepared:
		return "prepared"
	case WireIterating:
		return "iterating"
	case WireIterationEnded:
		return "iteration_ended"
	case WireEnded:
		return "ended"
	case WireFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// iterationOutcome is the per-iterate() result run() maps state transitions
// from, per §4.G's "(Failed|Stopped|Restarted|Running)".
type iterationOutcome int

const (
	outcomeRunning iterationOutcome = iota
	outcomeStopped
	outcomeRestarted
	outcomeFailed
)

// Wire is an ordered, owned sequence of Shards run as a pipeline on a
// coroutine.
type Wire struct {
	name      string
	looped    bool
	unsafe    bool
	pure      bool
	stackSize int

	shards []Shard

	localVariables    map[string]*Cell
	externalVariables map[string]*Cell

	dispatcher *dispatcher

	state    WireState
	warmedUp bool

	inputType            xtype.Type
	ignoreInputTypeCheck bool
	flowStopping         bool

	finishedOutput value.Value
	finishedError  error

	mesh *Mesh
	ctx  *Context
	fb   *fiber.Fiber

	users int // external references keeping this wire alive past its run

	logger *zap.Logger
}

// WireOption configures a Wire at construction time, mirroring the teacher's
// functional-options idiom (pkg/config.go's Option[K,V]).
type WireOption func(*Wire)

// WithWireName sets the wire's diagnostic name.
func WithWireName(name string) WireOption { return func(w *Wire) { w.name = name } }

// WithLooped marks the wire as looped: after IterationEnded it re-enters
// Iterating rather than finishing, subject to the cooperative-fairness yield
// guarantee (§8 property 8).
func WithLooped(looped bool) WireOption { return func(w *Wire) { w.looped = looped } }

// WithUnsafe opts a looped wire out of the per-iteration forced yield --
// named "unsafe" because an unsafe looped wire that never suspends can
// starve its mesh (§5 "no preemption").
func WithUnsafe(unsafe bool) WireOption { return func(w *Wire) { w.unsafe = unsafe } }

// WithPure marks the wire as pure: referenceVariable never falls through to
// outer wires or mesh variables for names not found locally (§8 property 9).
func WithPure(pure bool) WireOption { return func(w *Wire) { w.pure = pure } }

// WithStackSize sets the coroutine's notional stack size -- retained for ABI
// parity (§6 setStackSize) though internal/fiber's goroutine-backed
// coroutines size their own stack via the Go runtime.
func WithStackSize(n int) WireOption { return func(w *Wire) { w.stackSize = n } }

// WithWireLogger plugs an external zap.Logger; defaults to a no-op logger,
// matching the teacher's WithLogger option.
func WithWireLogger(l *zap.Logger) WireOption {
	return func(w *Wire) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWire constructs a Wire with the given ordered shard list.
func NewWire(shards []Shard, opts ...WireOption) *Wire {
	w := &Wire{
		shards:            shards,
		localVariables:    make(map[string]*Cell),
		externalVariables: make(map[string]*Cell),
		dispatcher:        newDispatcher(),
		logger:            zap.NewNop(),
		finishedOutput:    value.None(),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// WireName satisfies internal/value.WireHandle.
func (w *Wire) WireName() string { return w.name }

// State returns the wire's current lifecycle state.
func (w *Wire) State() WireState { return w.state }

// FlowStopping reports whether the wire's last shard is a flow-stopper
// (Stop/Restart/Return/Fail), as detected by the Composer (§4.F).
func (w *Wire) FlowStopping() bool { return w.flowStopping }

// FinishedOutput/FinishedError expose the terminal outcome of a run.
func (w *Wire) FinishedOutput() value.Value { return w.finishedOutput }
func (w *Wire) FinishedError() error        { return w.finishedError }

// AddShard appends a shard; ComposeWire must be re-run before the next warmup.
func (w *Wire) AddShard(s Shard) {
	w.shards = append(w.shards, s)
	w.warmedUp = false
}

// RemoveShard removes the shard at idx.
func (w *Wire) RemoveShard(idx int) {
	if idx < 0 || idx >= len(w.shards) {
		return
	}
	w.shards = append(w.shards[:idx], w.shards[idx+1:]...)
	w.warmedUp = false
}

// AddUser/RemoveUser track external references for cleanup's
// "no wire users remain" check.
func (w *Wire) AddUser()    { w.users++ }
func (w *Wire) RemoveUser() { w.users-- }

// warmup is idempotent on warmedUp. It pushes the wire onto ctx's
// wire-stack, runs each shard's optional Warmer hook, and on success marks
// warmedUp. On failure it records a diagnostic, cancels the Flow, and
// propagates the WarmupError.
func (w *Wire) warmup(ctx *Context) error {
	if w.warmedUp {
		return nil
	}
	ctx.pushWire(w)
	w.state = WirePrepared

	for _, s := range w.shards {
		if warmer, ok := s.(Warmer); ok {
			if err := warmer.Warmup(ctx); err != nil {
				we := &WarmupError{Shard: s.ShardName(), Err: err}
				w.logger.Error("shard warmup failed",
					zap.String("wire", w.name), zap.String("shard", s.ShardName()), zap.Error(err))
				ctx.cancelFlow(we.Error())
				return we
			}
		}
	}
	w.warmedUp = true
	return nil
}

// iterate runs the shard chain once against wireInput, implementing §4.G's
// per-shard activate/inspect loop.
func (w *Wire) iterate(ctx *Context, wireInput value.Value) iterationOutcome {
	input := wireInput
	ctx.wireInput = wireInput
	w.state = WireIterating

	for _, s := range w.shards {
		output := w.activateShard(ctx, s, input)

		switch ctx.Flow() {
		case FlowContinue:
			input = output
		case FlowReturn:
			// A Return from an inner shard is consumed here and treated
			// as Continue for the remainder of this (outer) wire's run,
			// carrying forward the returned value.
			input = ctx.FlowValue()
			ctx.resetFlow()
		case FlowStop:
			w.state = WireIterationEnded
			w.finishedOutput = ctx.FlowValue()
			return outcomeStopped
		case FlowRestart:
			w.state = WireIterationEnded
			return outcomeRestarted
		case FlowError:
			w.logger.Error("wire iteration failed",
				zap.String("wire", w.name), zap.String("shard", s.ShardName()),
				zap.String("message", ctx.ErrMessage()))
			w.state = WireFailed
			w.finishedError = fmt.Errorf("%s", ctx.ErrMessage())
			return outcomeFailed
		case FlowRebase:
			input = wireInput
			ctx.resetFlow()
		}
	}

	w.state = WireIterationEnded
	w.finishedOutput = input
	return outcomeRunning
}

// activateShard runs one shard's Activate, converting a panic into an
// ActivationError surfaced through cancelFlow, matching §7's "runtime
// failure inside activate (caught per-shard, logs name+line+column, sets
// Flow to Error, stops the wire)". Shards in this runtime have no source
// positions of their own; line/column default to the shard's index within
// the wire, which is the closest stable analogue available at this layer.
func (w *Wire) activateShard(ctx *Context, s Shard, input value.Value) (output value.Value) {
	defer func() {
		if r := recover(); r != nil {
			idx := w.indexOf(s)
			ae := &ActivationError{Shard: s.ShardName(), Line: idx, Column: 0, Err: fmt.Errorf("%v", r)}
			ctx.cancelFlow(ae.Error())
			output = value.None()
		}
	}()
	return s.Activate(ctx, input)
}

func (w *Wire) indexOf(s Shard) int {
	for i, sh := range w.shards {
		if sh == s {
			return i
		}
	}
	return -1
}

// run is the full coroutine driver described in §4.G. It resets state, sets
// up a Context, performs warmup, suspends once to let the caller finish
// allocating/deferring start, then loops iterate() until a terminal
// outcome, finally publishing finishedOutput/finishedError and running
// cleanup(force=true).
func (w *Wire) run(mesh *Mesh, wireInput value.Value) {
	ctx := newContext(mesh)
	w.ctx = ctx
	w.finishedOutput = value.None()
	w.finishedError = nil

	w.fb = fiber.New(func(y *fiber.Yielder) {
		ctx.yielder = y
		warmErr := w.warmup(ctx)
		y.Suspend() // first suspend: let the caller allocate stack/defer start

		currentInput := wireInput
		for {
			if warmErr != nil {
				w.state = WireFailed
				w.finishedError = warmErr
				break
			}
			if ctx.cancelled {
				// An external cancelFlow (Mesh.Terminate) landed while this
				// wire was parked at the fairness yield below. resetFlow
				// would otherwise erase it before iterate ever saw it,
				// leaving a looped wire re-suspending forever.
				w.state = WireFailed
				w.finishedError = fmt.Errorf("%s", ctx.ErrMessage())
				goto done
			}
			ctx.resetFlow()
			if err := w.warmup(ctx); err != nil {
				w.state = WireFailed
				w.finishedError = err
				break
			}

			outcome := w.iterate(ctx, currentInput)
			switch outcome {
			case outcomeFailed:
				w.state = WireFailed
				goto done
			case outcomeStopped:
				w.state = WireEnded
				goto done
			case outcomeRestarted:
				currentInput = ctx.FlowValue()
			case outcomeRunning:
				if !w.looped {
					w.state = WireEnded
					goto done
				}
			}

			if w.looped && !w.unsafe {
				// cooperative-fairness guarantee (§8 property 8): yield at
				// least once per iteration even with no internal suspension.
				y.Suspend()
			}
		}

	done:
		w.cleanup(true)
		w.dispatcher.emit("OnStop", w)
		ctx.onCleanup = false
	})
	ctx.coroutine = w.fb
}

// Resume drives the wire's coroutine one step, returning true once the
// coroutine has finished (terminal state) and false when it suspended.
func (w *Wire) Resume() (finished bool) {
	if w.fb == nil {
		return true
	}
	return w.fb.Resume()
}

// cleanup is idempotent. If force or no external users remain, it fires
// OnCleanup, runs each shard's optional Cleaner hook in reverse order, logs
// (but does not destroy) dangling local variables, clears the variable
// maps, and detaches from the mesh.
func (w *Wire) cleanup(force bool) {
	if w.ctx != nil {
		w.ctx.onCleanup = true
	}
	if !force && w.users > 0 {
		return
	}

	w.dispatcher.emit("OnCleanup", w)

	for i := len(w.shards) - 1; i >= 0; i-- {
		if cl, ok := w.shards[i].(Cleaner); ok {
			cl.Cleanup()
		}
	}

	for name, c := range w.localVariables {
		if c.RefCount > 0 {
			w.logger.Warn("dangling variable at wire cleanup",
				zap.String("wire", w.name), zap.String("variable", name),
				zap.Int("refcount", c.RefCount))
		}
	}
	w.localVariables = make(map[string]*Cell)
	w.externalVariables = make(map[string]*Cell)

	if w.mesh != nil {
		w.mesh.detach(w)
	}
}
