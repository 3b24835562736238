package value

import (
	"encoding/binary"
	"math"
	"sort"
	"unsafe"

	"github.com/shardmesh/shardmesh/internal/unsafehelpers"
	"github.com/shardmesh/shardmesh/internal/xtype"
	"github.com/zeebo/xxh3"
)

// Hash returns the deterministic XXH3-128 digest mandated by §4.A, folded to
// the low 64 bits for convenience (container index keys, singleflight keys,
// …). Hash128 exposes the full 128-bit digest for callers that need it.
func Hash(v Value) uint64 {
	lo, _ := Hash128(v)
	return lo
}

// Hash128 computes XXH3-128 over the kind byte then the kind-specific body,
// per §4.A.
func Hash128(v Value) (lo, hi uint64) {
	h := xxh3.New()
	_, _ = h.Write([]byte{byte(v.Kind)})
	writeBody(h, v)
	sum := h.Sum128()
	return sum.Lo, sum.Hi
}

func writeBody(h *xxh3.Hasher, v Value) {
	switch v.Kind {
	case KindNone, KindAny:
		// no body
	case KindBool:
		if v.b {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{0})
		}
	case KindInt:
		writeU64(h, uint64(v.i))
	case KindFloat:
		writeU64(h, math.Float64bits(v.f))
	case KindInt2, KindInt3, KindInt4, KindInt8, KindInt16:
		for _, lane := range v.vi {
			writeU64(h, uint64(lane))
		}
	case KindFloat2, KindFloat3, KindFloat4:
		for _, lane := range v.vf {
			writeU64(h, math.Float64bits(lane))
		}
	case KindColor:
		_, _ = h.Write(v.rgba[:])
	case KindBytes:
		_, _ = h.Write(v.byt)
	case KindString, KindPath, KindContextVar:
		_, _ = h.Write(unsafehelpers.StringToBytes(v.str))
	case KindEnum:
		writeU64(h, uint64(uint32(v.enumVendor))<<32|uint64(uint32(v.enumType)))
		writeU64(h, uint64(v.enumValue))
	case KindObject:
		writeObjectHash(h, v.obj)
	case KindImage:
		writeU64(h, uint64(uint32(v.img.W))<<32|uint64(uint32(v.img.H)))
		_, _ = h.Write([]byte{byte(v.img.Channels), v.img.Flags})
		_, _ = h.Write(v.img.Data)
	case KindAudio:
		writeU64(h, uint64(v.aud.Rate))
		_, _ = h.Write([]byte{v.aud.Channels})
		writeU64(h, uint64(v.aud.NSamples))
		for _, s := range v.aud.Data {
			var buf [4]byte
			binary.LittleEndian.PutUint32(buf[:], uint32FromFloat(s))
			_, _ = h.Write(buf[:])
		}
	case KindSequence:
		for _, e := range v.seq.Elems {
			lo, hi := Hash128(e)
			writeU64(h, lo)
			writeU64(h, hi)
		}
	case KindTable:
		// §4.A: "Table sorts by (key-hash,value-hash) is NOT performed --
		// iteration order is used" -- we hash entries in stored order.
		for i := range v.tbl.Keys {
			klo, khi := Hash128(v.tbl.Keys[i])
			vlo, vhi := Hash128(v.tbl.Vals[i])
			writeU64(h, klo)
			writeU64(h, khi)
			writeU64(h, vlo)
			writeU64(h, vhi)
		}
	case KindSet:
		// order-insensitive: sort element hashes before feeding the
		// digest, §4.A.
		type pair struct{ lo, hi uint64 }
		pairs := make([]pair, len(v.set.Elems))
		for i, e := range v.set.Elems {
			lo, hi := Hash128(e)
			pairs[i] = pair{lo, hi}
		}
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i].lo != pairs[j].lo {
				return pairs[i].lo < pairs[j].lo
			}
			return pairs[i].hi < pairs[j].hi
		})
		for _, p := range pairs {
			writeU64(h, p.lo)
			writeU64(h, p.hi)
		}
	case KindWireRef:
		if v.wireRef != nil {
			_, _ = h.Write(unsafehelpers.StringToBytes(v.wireRef.WireName()))
		}
	case KindShardRef:
		if v.shardRef != nil {
			_, _ = h.Write(unsafehelpers.StringToBytes(v.shardRef.ShardName()))
		}
	case KindTypeRef:
		if v.typeRef != nil {
			writeU64(h, xtype.DeriveTypeHash(*v.typeRef))
		}
	case KindArray:
		_, _ = h.Write([]byte{byte(v.arr.InnerKind)})
		writeU64(h, uint64(v.arr.Stride))
		_, _ = h.Write(v.arr.Raw)
	}
}

func writeObjectHash(h *xxh3.Hasher, o *ObjectValue) {
	writeU64(h, uint64(uint32(o.Vendor))<<32|uint64(uint32(o.TypeID)))
	if o.VTable != nil && o.VTable.Hash != nil {
		writeU64(h, o.VTable.Hash(o.Data))
		return
	}
	// default: pointer identity, per §4.A ("Object compares pointer
	// identity").
	writeU64(h, uint64(uintptr(unsafe.Pointer(o))))
}

func uint32FromFloat(f float32) uint32 {
	return math.Float32bits(f)
}

// writeU64 big-endianness doesn't matter for a hash digest; little-endian is
// cheapest on the platforms this runtime targets.
func writeU64(h *xxh3.Hasher, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}
