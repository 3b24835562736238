package shards

// primitives.go implements the primitive operators from §4.C's vocabulary:
// Const, Log, Sleep, and the arithmetic/comparison family (Math.*, Is*).
//
// © 2025 shardmesh authors. MIT License.

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shardmesh/shardmesh/internal/value"
	"github.com/shardmesh/shardmesh/internal/xtype"
	"github.com/shardmesh/shardmesh/pkg"
)

// Const ignores its input and always activates to a fixed Value, deep-cloned
// at construction time into parameter slot 0.
type Const struct {
	base
}

// NewConst builds a Const shard carrying v.
func NewConst(v value.Value) *Const {
	outType, err := value.DeriveTypeInfo(v, nil)
	if err != nil {
		outType = xtype.Type{Kind: v.Kind}
	}
	return &Const{base: newBase("Const", []xtype.Type{xtype.Any}, []xtype.Type{outType},
		[]pkg.ParamInfo{{DisplayName: "value", Default: v}})}
}

func (c *Const) Activate(ctx *pkg.Context, _ value.Value) value.Value {
	return value.Clone(c.param(0))
}

// Log writes its input to the logger given to NewLog at Info level and passes it
// through unchanged -- the hot-path-never-logs discipline from the teacher's
// metrics/logging style means Log is itself the explicit opt-in to logging,
// never implicit.
type Log struct {
	base
	logger *zap.Logger
}

// NewLog builds a Log shard with an optional label parameter and logger.
func NewLog(label string, logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{
		base: newBase("Log", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any},
			[]pkg.ParamInfo{{DisplayName: "label", Default: value.NewString(label)}}),
		logger: logger,
	}
}

func (l *Log) Activate(ctx *pkg.Context, in value.Value) value.Value {
	l.logger.Info("wire log", zap.String("label", l.param(0).Str()), zap.String("kind", in.Kind.String()))
	return in
}

// Sleep suspends the wire for its parameter's duration in seconds, passing
// its input through unchanged on resume.
type Sleep struct {
	base
}

// NewSleep builds a Sleep shard pausing for seconds.
func NewSleep(seconds float64) *Sleep {
	return &Sleep{base: newBase("Sleep", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any},
		[]pkg.ParamInfo{{DisplayName: "seconds", Default: value.NewFloat(seconds)}})}
}

func (s *Sleep) Activate(ctx *pkg.Context, in value.Value) value.Value {
	if _, err := ctx.Suspend(s.param(0).Float()); err != nil {
		ctx.CancelFlow(err.Error())
		return value.None()
	}
	return in
}

// mathOp is the small closed set of arithmetic operators Math.* shards
// specialise to -- a tagged variant rather than a string switch per call,
// matching §9's "model each shard as a tagged variant when the set is
// closed".
type mathOp int

const (
	mathAdd mathOp = iota
	mathSubtract
	mathMultiply
	mathDivide
)

// Math applies a fixed binary arithmetic operator between its Int or Float
// input and a parameter operand, preserving the input's own Kind.
type Math struct {
	base
	op mathOp
}

func newMath(name string, op mathOp, operand value.Value) *Math {
	return &Math{
		base: newBase(name, []xtype.Type{{Kind: xtype.KindInt}, {Kind: xtype.KindFloat}},
			[]xtype.Type{xtype.Any}, []pkg.ParamInfo{{DisplayName: "operand", Default: operand}}),
		op: op,
	}
}

// NewMathAdd builds a "Math.Add" shard.
func NewMathAdd(operand value.Value) *Math { return newMath("Math.Add", mathAdd, operand) }

// NewMathSubtract builds a "Math.Subtract" shard.
func NewMathSubtract(operand value.Value) *Math { return newMath("Math.Subtract", mathSubtract, operand) }

// NewMathMultiply builds a "Math.Multiply" shard.
func NewMathMultiply(operand value.Value) *Math { return newMath("Math.Multiply", mathMultiply, operand) }

// NewMathDivide builds a "Math.Divide" shard.
func NewMathDivide(operand value.Value) *Math { return newMath("Math.Divide", mathDivide, operand) }

func (m *Math) Activate(ctx *pkg.Context, in value.Value) value.Value {
	operand := m.param(0)
	switch in.Kind {
	case xtype.KindInt:
		a, b := in.Int(), asInt(operand)
		return value.NewInt(applyMathInt(m.op, a, b))
	case xtype.KindFloat:
		a, b := in.Float(), asFloat(operand)
		return value.NewFloat(applyMathFloat(m.op, a, b))
	default:
		ctx.CancelFlow(fmt.Sprintf("Math shard requires Int or Float input, got %s", in.Kind))
		return value.None()
	}
}

func asInt(v value.Value) int64 {
	if v.Kind == xtype.KindFloat {
		return int64(v.Float())
	}
	return v.Int()
}

func asFloat(v value.Value) float64 {
	if v.Kind == xtype.KindInt {
		return float64(v.Int())
	}
	return v.Float()
}

func applyMathInt(op mathOp, a, b int64) int64 {
	switch op {
	case mathAdd:
		return a + b
	case mathSubtract:
		return a - b
	case mathMultiply:
		return a * b
	case mathDivide:
		if b == 0 {
			return 0
		}
		return a / b
	default:
		return a
	}
}

func applyMathFloat(op mathOp, a, b float64) float64 {
	switch op {
	case mathAdd:
		return a + b
	case mathSubtract:
		return a - b
	case mathMultiply:
		return a * b
	case mathDivide:
		if b == 0 {
			return 0
		}
		return a / b
	default:
		return a
	}
}

// cmpOp mirrors mathOp for the comparison family.
type cmpOp int

const (
	cmpLess cmpOp = iota
	cmpGreater
	cmpEqual
)

// Compare applies IsLess/IsGreater/IsEqual against a parameter threshold,
// using internal/value's total order where one exists and surfacing
// TypeNotOrderable as a runtime ActivationError otherwise (the core itself
// never panics on unordered kinds at compose time, since Sort and friends
// are expected to have already rejected them there; Compare's own rejection
// here is the "never at runtime within core value ops" guard applied to a
// shard built on top of the core).
type Compare struct {
	base
	op cmpOp
}

func newCompare(name string, op cmpOp, threshold value.Value) *Compare {
	return &Compare{
		base: newBase(name, []xtype.Type{xtype.Any}, []xtype.Type{{Kind: xtype.KindBool}},
			[]pkg.ParamInfo{{DisplayName: "threshold", Default: threshold}}),
		op: op,
	}
}

// NewIsLess builds an "IsLess" shard.
func NewIsLess(threshold value.Value) *Compare { return newCompare("IsLess", cmpLess, threshold) }

// NewIsGreater builds an "IsGreater" shard.
func NewIsGreater(threshold value.Value) *Compare { return newCompare("IsGreater", cmpGreater, threshold) }

// NewIsEqual builds an "IsEqual" shard.
func NewIsEqual(threshold value.Value) *Compare { return newCompare("IsEqual", cmpEqual, threshold) }

func (c *Compare) Activate(ctx *pkg.Context, in value.Value) value.Value {
	threshold := c.param(0)
	switch c.op {
	case cmpEqual:
		return value.NewBool(value.Equal(in, threshold))
	default:
		less, err := value.Less(in, threshold)
		if err != nil {
			ctx.CancelFlow(err.Error())
			return value.None()
		}
		if c.op == cmpGreater {
			return value.NewBool(!less && !value.Equal(in, threshold))
		}
		return value.NewBool(less)
	}
}
