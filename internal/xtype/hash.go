package xtype

import (
	"sort"

	"github.com/zeebo/xxh3"
)

// DeriveTypeHash computes a digest stable under element-order permutations
// of Sequence/Set and respects recursive-self markers by encoding a single
// "recursive" bit instead of recursing into the referenced Type (§4.B).
func DeriveTypeHash(t Type) uint64 {
	h := xxh3.New()
	writeTypeHash(h, t)
	return h.Sum64()
}

func writeTypeHash(h *xxh3.Hasher, t Type) {
	_, _ = h.Write([]byte{byte(t.Kind)})
	if t.Self {
		_, _ = h.Write([]byte{1})
		return
	}
	_, _ = h.Write([]byte{0})

	switch t.Kind {
	case KindObject, KindEnum:
		writeI32(h, t.Vendor)
		writeI32(h, t.TypeID)
	case KindSequence:
		writeI32(h, int32(t.Fixed))
		writeTypeSetHash(h, t.Elements)
	case KindTable:
		writeTableHash(h, t)
	case KindSet:
		writeTypeSetHash(h, t.SetElements)
	}
}

// writeTypeSetHash hashes element types order-insensitively by hashing each
// element individually, sorting the resulting digests, then feeding them in
// sorted order -- identical in spirit to the Value.Hash treatment of Set.
func writeTypeSetHash(h *xxh3.Hasher, elems []Type) {
	digests := make([]uint64, len(elems))
	for i, e := range elems {
		digests[i] = DeriveTypeHash(e)
	}
	sort.Slice(digests, func(i, j int) bool { return digests[i] < digests[j] })
	for _, d := range digests {
		writeU64(h, d)
	}
}

func writeTableHash(h *xxh3.Hasher, t Type) {
	type pair struct {
		keyHash uint64
		valHash uint64
	}
	pairs := make([]pair, len(t.TableKeys))
	for i := range t.TableKeys {
		kh := xxh3.HashString(t.TableKeys[i].Kind.String() + "\x00" + t.TableKeys[i].Scalar)
		vh := DeriveTypeHash(t.TableTypes[i])
		pairs[i] = pair{kh, vh}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].keyHash != pairs[j].keyHash {
			return pairs[i].keyHash < pairs[j].keyHash
		}
		return pairs[i].valHash < pairs[j].valHash
	})
	for _, p := range pairs {
		writeU64(h, p.keyHash)
		writeU64(h, p.valHash)
	}
}

func writeI32(h *xxh3.Hasher, v int32) {
	b := [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	_, _ = h.Write(b[:])
}

func writeU64(h *xxh3.Hasher, v uint64) {
	b := [8]byte{
		byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24),
		byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56),
	}
	_, _ = h.Write(b[:])
}
