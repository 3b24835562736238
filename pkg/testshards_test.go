package shardmesh

// testshards_test.go provides a minimal, self-contained shard vocabulary for
// this package's own tests. The full vocabulary lives in package shards,
// which imports this package and so cannot be imported back here without a
// cycle -- these stand-ins implement just enough of the Shard interface to
// exercise compose/wire/mesh semantics directly.

import (
	"github.com/shardmesh/shardmesh/internal/value"
	"github.com/shardmesh/shardmesh/internal/xtype"
)

type testShard struct {
	name string
	ins  []xtype.Type
	outs []xtype.Type
	fn   func(ctx *Context, in value.Value) value.Value

	exposed  []string
	required []string
}

func (t *testShard) ShardName() string         { return t.name }
func (t *testShard) InputTypes() []xtype.Type  { return t.ins }
func (t *testShard) OutputTypes() []xtype.Type { return t.outs }
func (t *testShard) Parameters() []ParamInfo   { return nil }
func (t *testShard) SetParam(int, value.Value) error {
	return nil
}
func (t *testShard) GetParam(int) (value.Value, error) { return value.None(), nil }
func (t *testShard) Activate(ctx *Context, in value.Value) value.Value {
	return t.fn(ctx, in)
}
func (t *testShard) ExposedVariables() []string {
	if t.exposed == nil {
		return nil
	}
	return t.exposed
}
func (t *testShard) RequiredVariables() []string {
	if t.required == nil {
		return nil
	}
	return t.required
}

func constShard(v value.Value) *testShard {
	return &testShard{
		name: "Const", ins: []xtype.Type{xtype.Any}, outs: []xtype.Type{{Kind: v.Kind}},
		fn: func(ctx *Context, in value.Value) value.Value { return value.Clone(v) },
	}
}

func mathMultiplyShard(operand int64) *testShard {
	return &testShard{
		name: "Math.Multiply", ins: []xtype.Type{{Kind: xtype.KindInt}}, outs: []xtype.Type{{Kind: xtype.KindInt}},
		fn: func(ctx *Context, in value.Value) value.Value { return value.NewInt(in.Int() * operand) },
	}
}

func stopShard() *testShard {
	return &testShard{
		name: "Stop", ins: []xtype.Type{xtype.Any}, outs: []xtype.Type{xtype.Any},
		fn: func(ctx *Context, in value.Value) value.Value { ctx.StopFlow(in); return in },
	}
}

func setShard(name string) *testShard {
	return &testShard{
		name: "Set", ins: []xtype.Type{xtype.Any}, outs: []xtype.Type{xtype.Any},
		exposed: []string{name},
		fn: func(ctx *Context, in value.Value) value.Value {
			c := ReferenceVariable(ctx, name)
			SetCellValue(ctx.CurrentWire(), c, value.Clone(in))
			ReleaseVariable(c)
			return in
		},
	}
}

func getShard(name string) *testShard {
	return &testShard{
		name: "Get", ins: []xtype.Type{xtype.Any}, outs: []xtype.Type{xtype.Any},
		required: []string{name},
		fn: func(ctx *Context, in value.Value) value.Value {
			c := ReferenceVariable(ctx, name)
			out := value.Clone(c.Val)
			ReleaseVariable(c)
			return out
		},
	}
}

func pushShard(name string) *testShard {
	return &testShard{
		name: "Push", ins: []xtype.Type{xtype.Any}, outs: []xtype.Type{xtype.Any},
		exposed: []string{name},
		fn: func(ctx *Context, in value.Value) value.Value {
			c := ReferenceVariable(ctx, name)
			if c.Val.Kind != xtype.KindSequence {
				SetCellValue(ctx.CurrentWire(), c, value.NewSequence())
			}
			seq := c.Val.Sequence()
			seq.Elems = append(seq.Elems, value.Clone(in))
			ReleaseVariable(c)
			return in
		},
	}
}

func popShard(name string) *testShard {
	return &testShard{
		name: "Pop", ins: []xtype.Type{xtype.Any}, outs: []xtype.Type{xtype.Any},
		required: []string{name},
		fn: func(ctx *Context, in value.Value) value.Value {
			c := ReferenceVariable(ctx, name)
			defer ReleaseVariable(c)
			if c.Val.Kind != xtype.KindSequence {
				return value.None()
			}
			seq := c.Val.Sequence()
			if len(seq.Elems) == 0 {
				return value.None()
			}
			out := seq.Elems[len(seq.Elems)-1]
			seq.Elems = seq.Elems[:len(seq.Elems)-1]
			return out
		},
	}
}

// incrementShard adds 1 to the named Int variable, creating it at 0 first.
func incrementShard(name string) *testShard {
	return &testShard{
		name: "Increment", ins: []xtype.Type{xtype.Any}, outs: []xtype.Type{{Kind: xtype.KindInt}},
		exposed: []string{name},
		fn: func(ctx *Context, in value.Value) value.Value {
			c := ReferenceVariable(ctx, name)
			defer ReleaseVariable(c)
			n := int64(0)
			if c.Val.Kind == xtype.KindInt {
				n = c.Val.Int()
			}
			out := value.NewInt(n + 1)
			SetCellValue(ctx.CurrentWire(), c, out)
			return out
		},
	}
}

func isLessShard(threshold int64) *testShard {
	return &testShard{
		name: "IsLess", ins: []xtype.Type{{Kind: xtype.KindInt}}, outs: []xtype.Type{{Kind: xtype.KindBool}},
		fn: func(ctx *Context, in value.Value) value.Value {
			return value.NewBool(in.Int() < threshold)
		},
	}
}

func whenRestartShard() *testShard {
	return &testShard{
		name: "When.Restart", ins: []xtype.Type{{Kind: xtype.KindBool}}, outs: []xtype.Type{xtype.Any},
		fn: func(ctx *Context, in value.Value) value.Value {
			if in.Bool() {
				ctx.RestartFlow(in)
			}
			return in
		},
	}
}

func refShard(name string) *testShard {
	return &testShard{
		name: "Ref", ins: []xtype.Type{xtype.Any}, outs: []xtype.Type{xtype.Any},
		exposed: []string{name},
		fn: func(ctx *Context, in value.Value) value.Value {
			c := ReferenceVariable(ctx, name)
			SetCellValue(ctx.CurrentWire(), c, in)
			ReleaseVariable(c)
			return in
		},
	}
}

// lifecycleShard exercises the optional Warmer/Cleaner capability
// interfaces: its log records, in order, every hook the Composer/Wire
// invoke on it.
type lifecycleShard struct {
	testShard
	log *[]string
}

func newLifecycleShard(log *[]string) *lifecycleShard {
	ls := &lifecycleShard{log: log}
	ls.testShard = testShard{
		name: "Lifecycle", ins: []xtype.Type{xtype.Any}, outs: []xtype.Type{xtype.Any},
		fn: func(ctx *Context, in value.Value) value.Value {
			*log = append(*log, "activate")
			return in
		},
	}
	return ls
}

func (l *lifecycleShard) Warmup(ctx *Context) error {
	*l.log = append(*l.log, "warmup")
	return nil
}

func (l *lifecycleShard) Cleanup() {
	*l.log = append(*l.log, "cleanup")
}
