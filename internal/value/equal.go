package value

import "github.com/shardmesh/shardmesh/internal/xtype"

// Equal implements §4.A value equality: tag must match, None compares equal
// only to None, Any is never equal at the value level, then per-kind rules.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNone:
		return true
	case KindAny:
		return false // Any is a wildcard at type level, never at value level
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return floatEqual(a.f, b.f)
	case KindInt2, KindInt3, KindInt4, KindInt8, KindInt16:
		return intLanesEqual(a.vi, b.vi)
	case KindFloat2, KindFloat3, KindFloat4:
		return floatLanesEqual(a.vf, b.vf)
	case KindColor:
		return a.rgba == b.rgba
	case KindBytes:
		return bytesEqual(a.byt, b.byt)
	case KindString, KindPath, KindContextVar:
		return a.str == b.str
	case KindEnum:
		return a.enumVendor == b.enumVendor && a.enumType == b.enumType && a.enumValue == b.enumValue
	case KindObject:
		return a.obj == b.obj
	case KindImage:
		return imageEqual(a.img, b.img)
	case KindAudio:
		return audioEqual(a.aud, b.aud)
	case KindSequence:
		return sequenceEqual(a.seq, b.seq)
	case KindTable:
		return tableEqual(a.tbl, b.tbl)
	case KindSet:
		return setEqual(a.set, b.set)
	case KindWireRef:
		return a.wireRef == b.wireRef
	case KindShardRef:
		return a.shardRef == b.shardRef
	case KindTypeRef:
		if a.typeRef == nil || b.typeRef == nil {
			return a.typeRef == b.typeRef
		}
		return typeRefEqual(*a.typeRef, *b.typeRef)
	case KindArray:
		return arrayEqual(a.arr, b.arr)
	default:
		return false
	}
}

func intLanesEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func floatLanesEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !floatEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func imageEqual(a, b *ImageValue) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.W != b.W || a.H != b.H || a.Channels != b.Channels {
		return false
	}
	return bytesEqual(a.Data, b.Data)
}

func audioEqual(a, b *AudioValue) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Rate != b.Rate || a.NSamples != b.NSamples || a.Channels != b.Channels {
		return false
	}
	if len(a.Data) != len(b.Data) {
		return false
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			return false
		}
	}
	return true
}

func sequenceEqual(a, b *SequenceValue) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if len(a.Elems) != len(b.Elems) {
		return false
	}
	for i := range a.Elems {
		if !Equal(a.Elems[i], b.Elems[i]) {
			return false
		}
	}
	return true
}

// tableEqual compares size then entries in stored (insertion) order, §4.A.
func tableEqual(a, b *TableValue) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if len(a.Keys) != len(b.Keys) {
		return false
	}
	for i := range a.Keys {
		if !Equal(a.Keys[i], b.Keys[i]) || !Equal(a.Vals[i], b.Vals[i]) {
			return false
		}
	}
	return true
}

// setEqual compares by sorted multiset of element hashes, §4.A.
func setEqual(a, b *SetValue) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if len(a.Elems) != len(b.Elems) {
		return false
	}
	ah := hashesOf(a.Elems)
	bh := hashesOf(b.Elems)
	sortU64(ah)
	sortU64(bh)
	for i := range ah {
		if ah[i] != bh[i] {
			return false
		}
	}
	return true
}

func hashesOf(elems []Value) []uint64 {
	out := make([]uint64, len(elems))
	for i, e := range elems {
		out[i] = Hash(e)
	}
	return out
}

func sortU64(s []uint64) {
	// insertion sort: Sets in this runtime are small (shard parameter /
	// variable payloads), so an O(n^2) sort avoids pulling in sort for a
	// handful of elements while staying simple to audit.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func arrayEqual(a, b *ArrayValue) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.InnerKind == b.InnerKind && a.Stride == b.Stride && bytesEqual(a.Raw, b.Raw)
}

func typeRefEqual(a, b xtype.Type) bool { return xtype.Equal(a, b) }
