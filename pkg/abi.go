package shardmesh

// abi.go renders §6's "C-callable interface (a struct of function pointers,
// ABI-versioned; a plugin requesting a mismatched ABI is rejected)" in
// idiomatic Go: a struct of function values rather than raw C function
// pointers, since this runtime has no cgo boundary to cross -- plugins are
// expected to be other Go packages built against the same module, not
// dynamically loaded shared objects. The shape mirrors what the original
// ABI table covers so the surface is still recognizable to a reader of §6.
//
// © 2025 shardmesh authors. MIT License.

import (
	"time"

	"github.com/shardmesh/shardmesh/internal/registry"
	"github.com/shardmesh/shardmesh/internal/value"
	"github.com/shardmesh/shardmesh/internal/xtype"
)

// AbiVersion is bumped whenever a breaking change is made to the ABI struct
// below. A plugin built against a different version is rejected at load
// time by RequireAbi.
const AbiVersion = 1

// Abi is the struct-of-functions surface core exposes to plugin code,
// grouped the way §6 enumerates it: allocation, registration, value
// operations, variable reference/release, wire/mesh construction,
// composition, enum/object lookup, and string-table interning.
type Abi struct {
	Version int

	// Registration
	RegisterShard      func(name string, ctor registry.ShardConstructor)
	RegisterObjectType func(info registry.ObjectTypeInfo)
	RegisterEnumType   func(info registry.EnumTypeInfo)
	RegisterRunLoop    func(fn func())
	RegisterExit       func(fn func())
	RegisterGlobalWire func(name string, wire any)

	// Value operations
	CloneValue   func(dst *value.Value, src value.Value) error
	DestroyValue func(v *value.Value)
	EqualValues  func(a, b value.Value) bool
	HashValue    func(v value.Value) uint64

	// Variable reference/release
	ReferenceVariable func(ctx *Context, name string) *Cell
	ReleaseVariable   func(c *Cell)

	// Wire construction
	NewWire     func(shards []Shard, opts ...WireOption) *Wire
	AddShard    func(w *Wire, s Shard)
	RemoveShard func(w *Wire, idx int)

	// Mesh construction
	ScheduleWire func(m *Mesh, w *Wire, input value.Value)
	UnscheduleWire func(m *Mesh, w *Wire)
	TickMesh     func(m *Mesh) int
	TerminateMesh func(m *Mesh)

	// Composition
	ComposeWire func(c *Composer, w *Wire, dataInputType xtype.Type) ComposeResult

	// Enum/object lookup
	ObjectTypeByName func(reg *registry.Registry, name string) (registry.ObjectTypeInfo, bool)
	EnumTypeByName   func(reg *registry.Registry, name string) (registry.EnumTypeInfo, bool)

	// String-table interning
	InternString func(reg *registry.Registry, raw []byte, decompressed string) uint32
	LookupString func(reg *registry.Registry, crc uint32) string
}

// NewAbi constructs the default ABI table bound to reg.
func NewAbi(reg *registry.Registry) *Abi {
	return &Abi{
		Version: AbiVersion,

		RegisterShard:      reg.RegisterShard,
		RegisterObjectType: reg.RegisterObjectType,
		RegisterEnumType:   reg.RegisterEnumType,
		RegisterRunLoop:    reg.RegisterRunLoopCallback,
		RegisterExit:       reg.RegisterExitCallback,
		RegisterGlobalWire: reg.RegisterGlobalWire,

		CloneValue:   value.CloneInto,
		DestroyValue: value.Destroy,
		EqualValues:  value.Equal,
		HashValue:    value.Hash,

		ReferenceVariable: referenceVariable,
		ReleaseVariable:   releaseVariable,

		NewWire:     NewWire,
		AddShard:    func(w *Wire, s Shard) { w.AddShard(s) },
		RemoveShard: func(w *Wire, idx int) { w.RemoveShard(idx) },

		ScheduleWire:   func(m *Mesh, w *Wire, input value.Value) { m.Schedule(w, input) },
		UnscheduleWire: func(m *Mesh, w *Wire) { m.Remove(w) },
		TickMesh:       func(m *Mesh) int { return m.Tick(time.Now()) },
		TerminateMesh:  func(m *Mesh) { m.Terminate() },

		ComposeWire: func(c *Composer, w *Wire, dataInputType xtype.Type) ComposeResult {
			return c.ComposeWire(w, dataInputType)
		},

		ObjectTypeByName: func(reg *registry.Registry, name string) (registry.ObjectTypeInfo, bool) {
			return reg.ObjectTypeByName(name)
		},
		EnumTypeByName: func(reg *registry.Registry, name string) (registry.EnumTypeInfo, bool) {
			return reg.EnumTypeByName(name)
		},

		InternString: func(reg *registry.Registry, raw []byte, decompressed string) uint32 {
			return reg.Strings().Intern(raw, decompressed)
		},
		LookupString: func(reg *registry.Registry, crc uint32) string {
			return reg.Strings().Lookup(crc)
		},
	}
}

// RequireAbi rejects a plugin that was built against a different ABI
// version, per §6/§7's AbiMismatch error.
func RequireAbi(requested int) error {
	if requested != AbiVersion {
		return ErrAbiMismatch
	}
	return nil
}
