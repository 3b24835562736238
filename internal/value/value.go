// Package value implements the runtime's tagged-variant Value model: the
// scalar/vector/container kinds described in spec §3-§4.A, their equality,
// total order (where one exists), 128-bit hash and deep-clone/destroy
// semantics.
//
// Value is a flat struct rather than an interface, matching the teacher
// repo's preference (arena-cache's `entry[K,V]`) for a single allocation
// per logical item over one allocation per kind. Kind determines which
// field is valid; reading the wrong field is a programming error the same
// way reading the wrong union arm would be in the original engine.
//
// © 2025 shardmesh authors. MIT License.
package value

import (
	"math"

	"github.com/shardmesh/shardmesh/internal/xtype"
)

// Kind re-exports xtype.Kind so callers of this package do not need to
// import internal/xtype just to spell a tag.
type Kind = xtype.Kind

const (
	KindNone       = xtype.KindNone
	KindAny        = xtype.KindAny
	KindBool       = xtype.KindBool
	KindInt        = xtype.KindInt
	KindInt2       = xtype.KindInt2
	KindInt3       = xtype.KindInt3
	KindInt4       = xtype.KindInt4
	KindInt8       = xtype.KindInt8
	KindInt16      = xtype.KindInt16
	KindFloat      = xtype.KindFloat
	KindFloat2     = xtype.KindFloat2
	KindFloat3     = xtype.KindFloat3
	KindFloat4     = xtype.KindFloat4
	KindColor      = xtype.KindColor
	KindBytes      = xtype.KindBytes
	KindString     = xtype.KindString
	KindPath       = xtype.KindPath
	KindContextVar = xtype.KindContextVar
	KindEnum       = xtype.KindEnum
	KindObject     = xtype.KindObject
	KindImage      = xtype.KindImage
	KindAudio      = xtype.KindAudio
	KindSequence   = xtype.KindSequence
	KindTable      = xtype.KindTable
	KindSet        = xtype.KindSet
	KindWireRef    = xtype.KindWireRef
	KindShardRef   = xtype.KindShardRef
	KindTypeRef    = xtype.KindTypeRef
	KindArray      = xtype.KindArray
)

// Flags are the bit flags carried by every Value (§3).
type Flags uint8

const (
	// FlagRefCounted marks a Value whose container payload participates
	// in the refcount discipline (incremented on share, destroyed at 0).
	FlagRefCounted Flags = 1 << iota
	// FlagExternal marks a Value the holder merely borrows; cloning into
	// such a slot is forbidden and destroy is a no-op.
	FlagExternal
	// FlagForeign marks a destination Value owned by foreign code; clone
	// reuse must not write into it (CloneInto asserts against this).
	FlagForeign
	// FlagExposed marks a Value stored in a variable cell that other
	// wires/scopes may observe; setting it triggers OnExposedVarSet.
	FlagExposed
	// FlagUsesObjectInfo marks an Object Value whose vtable should be
	// consulted for clone/destroy/hash rather than the defaults.
	FlagUsesObjectInfo
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// WireHandle is the minimal identity a pkg.Wire exposes so that a Value can
// hold a weak WireRef without this package depending on pkg (which depends
// on this package). Equality on WireRef is by pointer identity; WireRef has
// no order.
type WireHandle interface {
	WireName() string
}

// ShardHandle is the analogous minimal identity for a ShardRef.
type ShardHandle interface {
	ShardName() string
}

// Value is the tagged-variant runtime value.
type Value struct {
	Kind    Kind
	Flags   Flags
	Version uint64 // bumped on every in-place mutation of a container

	b   bool
	i   int64
	f   float64
	vi  []int64   // Int2..Int16, length fixed by Kind
	vf  []float64 // Float2..Float4, length fixed by Kind
	rgba [4]uint8 // Color

	str string // String, Path, ContextVar (variable name)
	byt []byte // Bytes

	enumVendor int32
	enumType   int32
	enumValue  int64

	obj *ObjectValue
	img *ImageValue
	aud *AudioValue
	seq *SequenceValue
	tbl *TableValue
	set *SetValue
	arr *ArrayValue

	wireRef  WireHandle
	shardRef ShardHandle
	typeRef  *xtype.Type
}

// None constructs the canonical None value.
func None() Value { return Value{Kind: KindNone} }

// NewBool, NewInt, ... are the scalar constructors. Vector/container
// constructors live in containers.go next to the types they build.
func NewBool(b bool) Value   { return Value{Kind: KindBool, b: b} }
func NewInt(i int64) Value   { return Value{Kind: KindInt, i: i} }
func NewFloat(f float64) Value { return Value{Kind: KindFloat, f: f} }
func NewString(s string) Value { return Value{Kind: KindString, str: s} }
func NewPath(p string) Value   { return Value{Kind: KindPath, str: p} }
func NewContextVar(name string) Value { return Value{Kind: KindContextVar, str: name} }
func NewBytes(b []byte) Value  { return Value{Kind: KindBytes, byt: append([]byte(nil), b...)} }
func NewColor(r, g, bl, a uint8) Value {
	return Value{Kind: KindColor, rgba: [4]uint8{r, g, bl, a}}
}
func NewEnum(vendor, typ int32, v int64) Value {
	return Value{Kind: KindEnum, enumVendor: vendor, enumType: typ, enumValue: v}
}
func NewTypeRef(t xtype.Type) Value { return Value{Kind: KindTypeRef, typeRef: &t} }
func NewWireRef(w WireHandle) Value { return Value{Kind: KindWireRef, wireRef: w} }
func NewShardRef(s ShardHandle) Value { return Value{Kind: KindShardRef, shardRef: s} }

func newVecInt(k Kind, lanes []int64) Value {
	return Value{Kind: k, vi: append([]int64(nil), lanes...)}
}
func newVecFloat(k Kind, lanes []float64) Value {
	return Value{Kind: k, vf: append([]float64(nil), lanes...)}
}

func NewInt2(a, b int64) Value       { return newVecInt(KindInt2, []int64{a, b}) }
func NewInt3(a, b, c int64) Value    { return newVecInt(KindInt3, []int64{a, b, c}) }
func NewInt4(a, b, c, d int64) Value { return newVecInt(KindInt4, []int64{a, b, c, d}) }
func NewInt8(lanes [8]int64) Value   { return newVecInt(KindInt8, lanes[:]) }
func NewInt16(lanes [16]int64) Value { return newVecInt(KindInt16, lanes[:]) }

func NewFloat2(a, b float64) Value       { return newVecFloat(KindFloat2, []float64{a, b}) }
func NewFloat3(a, b, c float64) Value    { return newVecFloat(KindFloat3, []float64{a, b, c}) }
func NewFloat4(a, b, c, d float64) Value { return newVecFloat(KindFloat4, []float64{a, b, c, d}) }

// Bool, Int, Float, Str, Bytes, Color, Enum are narrow accessors. Each
// panics if called against the wrong Kind, matching the "reading the wrong
// union arm is a bug" contract documented on the type.
func (v Value) Bool() bool     { v.mustKind(KindBool); return v.b }
func (v Value) Int() int64     { v.mustKind(KindInt); return v.i }
func (v Value) Float() float64 { v.mustKind(KindFloat); return v.f }
func (v Value) Str() string {
	switch v.Kind {
	case KindString, KindPath, KindContextVar:
		return v.str
	default:
		panic("value: Str() called on kind " + v.Kind.String())
	}
}
func (v Value) Bytes() []byte { v.mustKind(KindBytes); return v.byt }
func (v Value) Color() (r, g, b, a uint8) {
	v.mustKind(KindColor)
	return v.rgba[0], v.rgba[1], v.rgba[2], v.rgba[3]
}
func (v Value) Enum() (vendor, typ int32, val int64) {
	v.mustKind(KindEnum)
	return v.enumVendor, v.enumType, v.enumValue
}
func (v Value) IntLanes() []int64 {
	switch v.Kind {
	case KindInt2, KindInt3, KindInt4, KindInt8, KindInt16:
		return v.vi
	default:
		panic("value: IntLanes() called on kind " + v.Kind.String())
	}
}
func (v Value) FloatLanes() []float64 {
	switch v.Kind {
	case KindFloat2, KindFloat3, KindFloat4:
		return v.vf
	default:
		panic("value: FloatLanes() called on kind " + v.Kind.String())
	}
}
func (v Value) TypeRef() xtype.Type { v.mustKind(KindTypeRef); return *v.typeRef }
func (v Value) WireRef() WireHandle { v.mustKind(KindWireRef); return v.wireRef }
func (v Value) ShardRef() ShardHandle { v.mustKind(KindShardRef); return v.shardRef }

func (v Value) mustKind(k Kind) {
	if v.Kind != k {
		panic("value: accessor for " + k.String() + " called on kind " + v.Kind.String())
	}
}

// floatEqual implements the epsilon-tolerant comparison §4.A mandates for
// Float and per-lane Float vectors: a difference no larger than one
// machine-epsilon scaled by the larger operand's magnitude is "equal",
// absorbing the rounding error a single arithmetic op can introduce without
// masking any difference a caller actually computed.
func floatEqual(a, b float64) bool {
	diff := math.Abs(a - b)
	if diff == 0 {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return diff <= epsilon*scale
}

// epsilon is float64 machine epsilon: the smallest e such that 1+e != 1.
var epsilon = math.Nextafter(1, 2) - 1
