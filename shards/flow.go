package shards

// flow.go implements §4.C's flow-control shards: Stop, Restart, Return,
// Fail, And, Or, Input, and the conditional When wrapper used to gate one of
// the four flow-control transitions behind a Bool input.
//
// © 2025 shardmesh authors. MIT License.

import (
	"github.com/shardmesh/shardmesh/internal/value"
	"github.com/shardmesh/shardmesh/internal/xtype"
	"github.com/shardmesh/shardmesh/pkg"
)

// Stop ends the wire's run with its input as finishedOutput.
type Stop struct{ base }

// NewStop builds a Stop shard.
func NewStop() *Stop {
	return &Stop{base: newBase("Stop", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any}, nil)}
}

func (s *Stop) Activate(ctx *pkg.Context, in value.Value) value.Value {
	ctx.StopFlow(in)
	return in
}

// Restart re-enters the wire's Iterating state with in as the next
// iteration's input. Wire.run re-iterates on a Restart outcome whether or not
// the wire is looped; only a looped, non-unsafe wire yields in between.
type Restart struct{ base }

// NewRestart builds a Restart shard.
func NewRestart() *Restart {
	return &Restart{base: newBase("Restart", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any}, nil)}
}

func (r *Restart) Activate(ctx *pkg.Context, in value.Value) value.Value {
	ctx.RestartFlow(in)
	return in
}

// Return short-circuits the remainder of the current wire, surfacing as
// Continue to an outer wire carrying in forward (§4.G iterate mapping).
type Return struct{ base }

// NewReturn builds a Return shard.
func NewReturn() *Return {
	return &Return{base: newBase("Return", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any}, nil)}
}

func (r *Return) Activate(ctx *pkg.Context, in value.Value) value.Value {
	ctx.ReturnFlow(in)
	return in
}

// Fail cancels the Flow with its parameter message, driving the wire to
// WireFailed.
type Fail struct{ base }

// NewFail builds a Fail shard reporting message.
func NewFail(message string) *Fail {
	return &Fail{base: newBase("Fail", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any},
		[]pkg.ParamInfo{{DisplayName: "message", Default: value.NewString(message)}})}
}

func (f *Fail) Activate(ctx *pkg.Context, _ value.Value) value.Value {
	ctx.CancelFlow(f.param(0).Str())
	return value.None()
}

// Input ignores the value threaded in from the previous shard and re-injects
// the wire's own original wireInput -- the runtime counterpart to §4.F's
// compose-time substitution rule for the first-shard "Input" special case.
type Input struct{ base }

// NewInput builds an Input shard.
func NewInput() *Input {
	return &Input{base: newBase("Input", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any}, nil)}
}

func (i *Input) Activate(ctx *pkg.Context, _ value.Value) value.Value {
	return ctx.WireInput()
}

// logicOp distinguishes And from Or for the shared boolLogic implementation.
type logicOp int

const (
	logicAnd logicOp = iota
	logicOr
)

// boolLogic implements And/Or: both compare their Bool input against the
// wire's original input re-derived as a Bool via IsEqual-style comparison
// left to the caller; in this runtime And/Or simply combine their Bool
// input with a parameter operand, matching how a two-input boolean gate is
// expressed over a single-value pipeline.
type boolLogic struct {
	base
	op logicOp
}

func newBoolLogic(name string, op logicOp, operand bool) *boolLogic {
	return &boolLogic{
		base: newBase(name, []xtype.Type{{Kind: xtype.KindBool}}, []xtype.Type{{Kind: xtype.KindBool}},
			[]pkg.ParamInfo{{DisplayName: "operand", Default: value.NewBool(operand)}}),
		op: op,
	}
}

// NewAnd builds an "And" shard.
func NewAnd(operand bool) *boolLogic { return newBoolLogic("And", logicAnd, operand) }

// NewOr builds an "Or" shard.
func NewOr(operand bool) *boolLogic { return newBoolLogic("Or", logicOr, operand) }

func (b *boolLogic) Activate(ctx *pkg.Context, in value.Value) value.Value {
	operand := b.param(0).Bool()
	if in.Kind != xtype.KindBool {
		ctx.CancelFlow("And/Or require a Bool input")
		return value.None()
	}
	if b.op == logicAnd {
		return value.NewBool(in.Bool() && operand)
	}
	return value.NewBool(in.Bool() || operand)
}

// whenAction is the flow transition a When shard applies once its Bool
// input is true.
type whenAction int

const (
	whenStop whenAction = iota
	whenRestart
	whenReturn
	whenFail
)

// When gates one of Stop/Restart/Return/Fail behind a Bool input: false
// passes the input through as Continue, true triggers the configured
// transition. This is how a predicate shard like IsLess composes with a
// flow-stopper without the predicate itself needing to know about flow
// control (§4.F's "last-shard flow-stopper detection" still applies to
// When itself, since it is the shard that actually sets a non-Continue
// state).
type When struct {
	base
	action whenAction
}

func newWhen(action whenAction) *When {
	name := map[whenAction]string{
		whenStop: "When.Stop", whenRestart: "When.Restart",
		whenReturn: "When.Return", whenFail: "When.Fail",
	}[action]
	return &When{
		base:   newBase(name, []xtype.Type{{Kind: xtype.KindBool}}, []xtype.Type{xtype.Any}, nil),
		action: action,
	}
}

// NewWhenStop builds a "When.Stop" shard.
func NewWhenStop() *When { return newWhen(whenStop) }

// NewWhenRestart builds a "When.Restart" shard.
func NewWhenRestart() *When { return newWhen(whenRestart) }

// NewWhenReturn builds a "When.Return" shard.
func NewWhenReturn() *When { return newWhen(whenReturn) }

// NewWhenFail builds a "When.Fail" shard.
func NewWhenFail() *When { return newWhen(whenFail) }

func (w *When) Activate(ctx *pkg.Context, in value.Value) value.Value {
	if in.Kind != xtype.KindBool {
		ctx.CancelFlow("When requires a Bool input")
		return value.None()
	}
	if !in.Bool() {
		return in
	}
	switch w.action {
	case whenStop:
		ctx.StopFlow(in)
	case whenRestart:
		ctx.RestartFlow(in)
	case whenReturn:
		ctx.ReturnFlow(in)
	case whenFail:
		ctx.CancelFlow("When.Fail triggered")
	}
	return in
}
