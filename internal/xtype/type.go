// Package xtype implements the structural type descriptors used at
// compose-time to validate a wire's shard sequence: Type matching,
// derivation from a concrete Value's shape, and a hash stable under
// element-order permutations of Sequence/Set.
//
// The package deliberately has no dependency on the Value model: Type is a
// pure description, and callers (internal/value) derive one from a value
// rather than the other way around. Keeping the dependency one-directional
// avoids an import cycle between the two packages.
//
// © 2025 shardmesh authors. MIT License.
package xtype

import "fmt"

// Kind mirrors the tag set a Value can carry (see internal/value.Kind) --
// the two enums are kept separate so that the type system can evolve
// (e.g. gain a refinement) without forcing a matching Value change.
type Kind uint8

const (
	KindNone Kind = iota
	KindAny
	KindBool
	KindInt
	KindInt2
	KindInt3
	KindInt4
	KindInt8
	KindInt16
	KindFloat
	KindFloat2
	KindFloat3
	KindFloat4
	KindColor
	KindBytes
	KindString
	KindPath
	KindContextVar
	KindEnum
	KindObject
	KindImage
	KindAudio
	KindSequence
	KindTable
	KindSet
	KindWireRef
	KindShardRef
	KindTypeRef
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindAny:
		return "Any"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindInt2:
		return "Int2"
	case KindInt3:
		return "Int3"
	case KindInt4:
		return "Int4"
	case KindInt8:
		return "Int8"
	case KindInt16:
		return "Int16"
	case KindFloat:
		return "Float"
	case KindFloat2:
		return "Float2"
	case KindFloat3:
		return "Float3"
	case KindFloat4:
		return "Float4"
	case KindColor:
		return "Color"
	case KindBytes:
		return "Bytes"
	case KindString:
		return "String"
	case KindPath:
		return "Path"
	case KindContextVar:
		return "ContextVar"
	case KindEnum:
		return "Enum"
	case KindObject:
		return "Object"
	case KindImage:
		return "Image"
	case KindAudio:
		return "Audio"
	case KindSequence:
		return "Sequence"
	case KindTable:
		return "Table"
	case KindSet:
		return "Set"
	case KindWireRef:
		return "WireRef"
	case KindShardRef:
		return "ShardRef"
	case KindTypeRef:
		return "TypeRef"
	case KindArray:
		return "Array"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Type is a structural descriptor. Only the refinement fields relevant to
// Kind are populated; callers must not rely on the zero value of an
// irrelevant field.
type Type struct {
	Kind Kind

	// Object / Enum refinement: a (vendor, type) pair identifies the
	// concrete registered descriptor. Vendor/TypeID (0,0) on an Enum
	// receiver is the wildcard documented in §4.B rule 3.
	Vendor int32
	TypeID int32

	// Sequence refinement.
	Elements []Type // allowed element types; empty means "any" element
	Fixed    int    // fixedSize; 0 means unconstrained

	// Table refinement: parallel arrays. A trailing entry whose Key.Kind
	// == KindNone is the "any extra keys allowed" sentinel, matched
	// against TableTypes at the same index.
	TableKeys  []Key
	TableTypes []Type

	// Set refinement.
	SetElements []Type

	// Self marks a recursive-type placeholder: this Type refers back to
	// an enclosing Type definition. Gathering/hashing code must treat it
	// as a leaf rather than recurse.
	Self bool
}

// Key is a Value-shaped discriminator used only as a Table key marker; we
// keep it minimal (kind + scalar identity) to avoid importing the Value
// package. Table composition only needs to compare keys structurally, which
// KeyEqual below does without needing the full Value type.
type Key struct {
	Kind Kind
	// Scalar holds a comparable identity for scalar keys (string content,
	// integer bit pattern, …); empty-key Kind==KindNone is the sentinel.
	Scalar string
}

// Any is the canonical wildcard type.
var Any = Type{Kind: KindAny}

// None is the canonical "accepts nothing" type used by shards whose
// inputTypes list is empty or [None].
var None = Type{Kind: KindNone}

func KeyEqual(a, b Key) bool {
	return a.Kind == b.Kind && a.Scalar == b.Scalar
}

// IsSentinel reports whether k is the Table "extra keys allowed" marker.
func (k Key) IsSentinel() bool { return k.Kind == KindNone }
