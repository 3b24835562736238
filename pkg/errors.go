package shardmesh

// errors.go collects the error taxonomy described in §7: static compose-time
// failures, warmup/activation failures propagated out of a running wire, and
// the handful of sentinel conditions (TypeNotOrderable, UnresolvedContextVar,
// InvalidParameterIndex, AbiMismatch) that core operations can report.
//
// © 2025 shardmesh authors. MIT License.

import (
	"errors"
	"fmt"
)

// ComposeError is reported by Composer.ComposeWire (through the validation
// callback and the ComposeResult message) when static validation fails.
// Fatal distinguishes a hard failure (the wire cannot run) from a non-fatal
// warning surfaced to the validation callback but not blocking compose.
type ComposeError struct {
	Shard   string
	Message string
	Fatal   bool
}

func (e *ComposeError) Error() string {
	return fmt.Sprintf("compose: shard %q: %s", e.Shard, e.Message)
}

// WarmupError wraps a failure returned by a shard's Warmup hook. It always
// cancels the wire's Flow and propagates out of Wire.warmup.
type WarmupError struct {
	Shard string
	Err   error
}

func (e *WarmupError) Error() string {
	return fmt.Sprintf("warmup: shard %q: %v", e.Shard, e.Err)
}

func (e *WarmupError) Unwrap() error { return e.Err }

// ActivationError wraps a panic or error surfaced from inside a shard's
// Activate call. name+line+column identify the failing shard within its wire
// for diagnostics; the wire's Flow is set to Error and the wire stops.
type ActivationError struct {
	Shard  string
	Line   int
	Column int
	Err    error
}

func (e *ActivationError) Error() string {
	return fmt.Sprintf("activate: shard %q (%d:%d): %v", e.Shard, e.Line, e.Column, e.Err)
}

func (e *ActivationError) Unwrap() error { return e.Err }

var (
	// ErrInvalidParameterIndex is returned by SetParam/GetParam when the
	// requested index is out of range for the shard's parameter schema.
	ErrInvalidParameterIndex = errors.New("shardmesh: parameter index out of range")

	// ErrAbiMismatch is returned when a plugin requests an ABI version the
	// host does not support (§6).
	ErrAbiMismatch = errors.New("shardmesh: plugin requested unsupported ABI version")

	// ErrWireNotWarmedUp reports a wire driven before warmup. Wire.run
	// warms the wire up itself and does not return it.
	ErrWireNotWarmedUp = errors.New("shardmesh: wire has not been warmed up")

	// ErrContextCancelled is surfaced by suspend when called against an
	// already-cancelled Context.
	ErrContextCancelled = errors.New("shardmesh: context already cancelled")

	// ErrNoCoroutineAttached guards suspend against being called before a
	// wire's driving coroutine exists.
	ErrNoCoroutineAttached = errors.New("shardmesh: no coroutine attached to context")
)
