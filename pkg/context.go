package shardmesh

// context.go implements §4.H: the per-activation Context (wire-stack,
// flow-control state, cancellation, next-resume deadline) and the Flow
// sum-type a shard's Activate call may set to redirect iteration.
//
// © 2025 shardmesh authors. MIT License.

import (
	"time"

	"github.com/shardmesh/shardmesh/internal/fiber"
	"github.com/shardmesh/shardmesh/internal/value"
)

// FlowState is the sum type {Continue, Return, Restart, Stop, Rebase, Error}
// a shard's Activate call may set on its Context to redirect iteration.
type FlowState int

const (
	FlowContinue FlowState = iota
	FlowReturn
	FlowRestart
	FlowStop
	FlowRebase
	FlowError
)

func (s FlowState) String() string {
	switch s {
	case FlowContinue:
		return "continue"
	case FlowReturn:
		return "return"
	case FlowRestart:
		return "restart"
	case FlowStop:
		return "stop"
	case FlowRebase:
		return "rebase"
	case FlowError:
		return "error"
	default:
		return "unknown"
	}
}

// Context carries the state of one wire run across its coroutine's
// suspend/resume boundary: the live coroutine, the wire-stack (innermost
// last), flow-control state, cancellation, and the next monotonic resume
// deadline.
type Context struct {
	mesh      *Mesh
	wireStack []*Wire

	flow        FlowState
	flowStorage value.Value
	errMessage  string

	cancelled bool
	onCleanup bool

	coroutine *fiber.Fiber
	yielder   *fiber.Yielder

	next time.Time // zero value means "runnable now"

	wireInput value.Value // the current iterate() call's original wireInput
}

// newContext constructs a Context bound to mesh, empty wire-stack.
func newContext(mesh *Mesh) *Context {
	return &Context{mesh: mesh}
}

// pushWire pushes w onto the wire-stack (innermost = last), as warmup does
// on entry to a wire (§4.G).
func (c *Context) pushWire(w *Wire) { c.wireStack = append(c.wireStack, w) }

// popWire pops the innermost wire off the stack.
func (c *Context) popWire() {
	if len(c.wireStack) == 0 {
		return
	}
	c.wireStack = c.wireStack[:len(c.wireStack)-1]
}

// currentWire returns the innermost wire on the stack, or nil if empty.
func (c *Context) currentWire() *Wire {
	if len(c.wireStack) == 0 {
		return nil
	}
	return c.wireStack[len(c.wireStack)-1]
}

// Flow returns the current flow-control state.
func (c *Context) Flow() FlowState { return c.flow }

// FlowValue returns the Value stashed by stopFlow/a Return, valid only after
// FlowStop/FlowReturn/FlowRestart.
func (c *Context) FlowValue() value.Value { return c.flowStorage }

// resetFlow returns the state to Continue, clearing any stashed value --
// the "Continue on Rebase" transition the iterate loop performs.
func (c *Context) resetFlow() {
	c.flow = FlowContinue
	c.flowStorage = value.None()
	c.errMessage = ""
}

// cancelFlow sets Error + message (§4.H). Called from any shard via its
// Context, or by Mesh.terminate against every active wire.
func (c *Context) cancelFlow(message string) {
	c.flow = FlowError
	c.errMessage = message
	c.cancelled = true
}

// stopFlow sets Stop and stashes v in flowStorage.
func (c *Context) stopFlow(v value.Value) {
	c.flow = FlowStop
	c.flowStorage = v
}

// returnFlow sets Return and stashes v, used by the Return shard.
func (c *Context) returnFlow(v value.Value) {
	c.flow = FlowReturn
	c.flowStorage = v
}

// restartFlow sets Restart and stashes v (the next iteration's input,
// overwriting currentInput per §4.G's run driver).
func (c *Context) restartFlow(v value.Value) {
	c.flow = FlowRestart
	c.flowStorage = v
}

// rebaseFlow sets Rebase; the iterate loop resets `input` back to wireInput
// and clears flow state, then continues.
func (c *Context) rebaseFlow() { c.flow = FlowRebase }

// Suspend is the exported entry point shards call from Activate to yield
// control cooperatively (§4.H). See suspend for the full contract.
func (c *Context) Suspend(seconds float64) (FlowState, error) { return c.suspend(seconds) }

// CancelFlow is the exported entry point a shard uses to report an
// activation failure (§4.H/§7 ActivationError path).
func (c *Context) CancelFlow(message string) { c.cancelFlow(message) }

// StopFlow is the exported entry point the Stop shard uses to end a wire's
// run with a final value.
func (c *Context) StopFlow(v value.Value) { c.stopFlow(v) }

// ReturnFlow is the exported entry point the Return shard uses.
func (c *Context) ReturnFlow(v value.Value) { c.returnFlow(v) }

// RestartFlow is the exported entry point the Restart shard uses.
func (c *Context) RestartFlow(v value.Value) { c.restartFlow(v) }

// RebaseFlow is the exported entry point a shard uses to reset the wire's
// running input back to its original wireInput.
func (c *Context) RebaseFlow() { c.rebaseFlow() }

// ErrMessage returns the message attached by the most recent cancelFlow.
func (c *Context) ErrMessage() string { return c.errMessage }

// Cancelled reports whether cancelFlow has been called on this Context.
func (c *Context) Cancelled() bool { return c.cancelled }

// suspend is valid only when the context is not already cancelled, not
// inside onCleanup, and a coroutine is attached (§4.H). It records the next
// resume deadline (now+seconds, or immediately runnable if seconds<=0), then
// yields control back to the driving sink coroutine. On resume it returns
// whatever flow-control state was current at that point, letting the caller
// react to an incoming Stop/Restart set from outside while it was parked.
func (c *Context) suspend(seconds float64) (FlowState, error) {
	if c.cancelled {
		return c.flow, ErrContextCancelled
	}
	if c.onCleanup {
		return c.flow, ErrContextCancelled
	}
	if c.coroutine == nil || c.yielder == nil {
		return c.flow, ErrNoCoroutineAttached
	}
	if seconds > 0 {
		c.next = time.Now().Add(time.Duration(seconds * float64(time.Second)))
	} else {
		c.next = time.Time{}
	}
	c.yielder.Suspend()
	return c.flow, nil
}

// CurrentWire returns the innermost wire on the context's wire-stack.
func (c *Context) CurrentWire() *Wire { return c.currentWire() }

// WireInput returns the Value the innermost wire's current iterate() call
// started from -- the substitution an Input shard reads per §4.F's wire
// input typing rule.
func (c *Context) WireInput() value.Value { return c.wireInput }

// due reports whether now has reached or passed the context's recorded next
// resume deadline.
func (c *Context) due(now time.Time) bool {
	return c.next.IsZero() || !now.Before(c.next)
}
