package shards

// register.go binds each built-in shard's zero-arg constructor into a
// *registry.Registry, per §4.D's "name -> shard constructor" contract. A
// registered constructor always returns a blank, default-parameterized
// instance; a composer configures it afterward via Shard.SetParam, so the
// same shard type works whether it was built directly with a New* function
// or resolved by name out of the registry.
//
// DiskLoad/DiskSave are intentionally not registered here: both close over
// a *DiskStore supplied by the hosting program, so they are wired by the
// host directly rather than resolved by name (see DESIGN.md).
//
// © 2025 shardmesh authors. MIT License.

import (
	"github.com/shardmesh/shardmesh/internal/registry"
	"github.com/shardmesh/shardmesh/internal/value"
)

// RegisterBuiltins registers every built-in shard constructor under its
// ShardName() with reg.
func RegisterBuiltins(reg *registry.Registry) {
	reg.RegisterShard("Const", func() any { return NewConst(value.None()) })
	reg.RegisterShard("Log", func() any { return NewLog("", nil) })
	reg.RegisterShard("Sleep", func() any { return NewSleep(0) })
	reg.RegisterShard("Math.Add", func() any { return NewMathAdd(value.NewInt(0)) })
	reg.RegisterShard("Math.Subtract", func() any { return NewMathSubtract(value.NewInt(0)) })
	reg.RegisterShard("Math.Multiply", func() any { return NewMathMultiply(value.NewInt(1)) })
	reg.RegisterShard("Math.Divide", func() any { return NewMathDivide(value.NewInt(1)) })
	reg.RegisterShard("IsLess", func() any { return NewIsLess(value.NewInt(0)) })
	reg.RegisterShard("IsGreater", func() any { return NewIsGreater(value.NewInt(0)) })
	reg.RegisterShard("IsEqual", func() any { return NewIsEqual(value.NewInt(0)) })

	reg.RegisterShard("Stop", func() any { return NewStop() })
	reg.RegisterShard("Restart", func() any { return NewRestart() })
	reg.RegisterShard("Return", func() any { return NewReturn() })
	reg.RegisterShard("Fail", func() any { return NewFail("") })
	reg.RegisterShard("Input", func() any { return NewInput() })
	reg.RegisterShard("And", func() any { return NewAnd(true) })
	reg.RegisterShard("Or", func() any { return NewOr(false) })
	reg.RegisterShard("When.Stop", func() any { return NewWhenStop() })
	reg.RegisterShard("When.Restart", func() any { return NewWhenRestart() })
	reg.RegisterShard("When.Return", func() any { return NewWhenReturn() })
	reg.RegisterShard("When.Fail", func() any { return NewWhenFail() })

	reg.RegisterShard("Set", func() any { return NewSet("") })
	reg.RegisterShard("Ref", func() any { return NewRef("") })
	reg.RegisterShard("Update", func() any { return NewUpdate("") })
	reg.RegisterShard("Push", func() any { return NewPush("") })
	reg.RegisterShard("Pop", func() any { return NewPop("") })
	reg.RegisterShard("Get", func() any { return NewGet("") })
	reg.RegisterShard("Clear", func() any { return NewClear("") })
	reg.RegisterShard("Count", func() any { return NewCount("") })
	reg.RegisterShard("Swap", func() any { return NewSwap("", "") })
	reg.RegisterShard("Take", func() any { return NewTake("") })
	reg.RegisterShard("Increment", func() any { return NewIncrement("") })

	reg.RegisterShard("Repeat", func() any { return NewRepeat(0) })
	reg.RegisterShard("Sort", func() any { return NewSort() })
}
