package value

// SequenceValue is the owned backing store for a Sequence Value. Elements
// are owned unless the Sequence itself is flagged external.
type SequenceValue struct {
	Elems []Value
}

// TableValue is the ordered keyed map described in §3: entries are visited
// in insertion order for equality, hashing and ordering, per the Open
// Question resolved in §9 ("preserve insertion-order semantics"). idx
// accelerates lookup by key hash; it is not part of the value's observable
// state.
type TableValue struct {
	Keys []Value
	Vals []Value
	idx  map[uint64][]int
}

// SetValue stores elements with a hash-multiset accelerator for membership
// and equality (§4.A: "Set equality is by multiset of element hashes").
type SetValue struct {
	Elems []Value
	idx   map[uint64][]int
}

// ImageValue is the pixel-buffer payload.
type ImageValue struct {
	W, H, Channels int32
	Flags          uint8
	Data           []byte
}

// AudioValue is the PCM sample payload.
type AudioValue struct {
	Rate      uint32
	Channels  uint8
	NSamples  uint32
	Data      []float32
}

// ObjectVTable lets a plugin override the default (pointer-identity, no-op
// destroy) behaviour for an opaque Object Value -- §3, §9 Design Notes
// ("Dynamic polymorphism of shards ... capability-table (vtable)").
type ObjectVTable struct {
	Clone   func(data any) any
	Destroy func(data any)
	Hash    func(data any) uint64
}

// ObjectValue is the opaque, vendor/type-tagged payload described in §3.
type ObjectValue struct {
	Vendor int32
	TypeID int32
	Data   any
	VTable *ObjectVTable
}

// ArrayValue is a packed payload sharing a single inner Kind, distinct from
// Sequence (whose elements may individually vary in shape via their own
// Type refinement, though in this runtime all Sequence elements still carry
// a full Value header). Array is the tight, homogeneous alternative used by
// image/audio-adjacent shards that want SoA storage without per-element
// Value overhead.
type ArrayValue struct {
	InnerKind Kind
	Raw       []byte // packed little-endian payload, InnerKind-sized elements
	Stride    int
}

func NewSequence(elems ...Value) Value {
	cp := append([]Value(nil), elems...)
	return Value{Kind: KindSequence, Flags: FlagRefCounted, seq: &SequenceValue{Elems: cp}}
}

func NewSequenceExternal(elems []Value) Value {
	return Value{Kind: KindSequence, Flags: FlagExternal, seq: &SequenceValue{Elems: elems}}
}

func NewSet(elems ...Value) Value {
	sv := &SetValue{}
	for _, e := range elems {
		setInsert(sv, e)
	}
	return Value{Kind: KindSet, Flags: FlagRefCounted, set: sv}
}

func setInsert(sv *SetValue, v Value) {
	h := Hash(v)
	if sv.idx == nil {
		sv.idx = make(map[uint64][]int)
	}
	for _, i := range sv.idx[h] {
		if Equal(sv.Elems[i], v) {
			return // set semantics: duplicates collapse
		}
	}
	sv.idx[h] = append(sv.idx[h], len(sv.Elems))
	sv.Elems = append(sv.Elems, v)
}

func NewTable() Value {
	return Value{Kind: KindTable, Flags: FlagRefCounted, tbl: &TableValue{idx: make(map[uint64][]int)}}
}

// TableSet inserts or overwrites a key, preserving insertion order for
// pre-existing keys and appending new ones, per §3's insertion-order
// contract.
func TableSet(t *Value, key, val Value) {
	t.mustKind(KindTable)
	tv := t.tbl
	if tv.idx == nil {
		tv.idx = make(map[uint64][]int)
	}
	h := Hash(key)
	for _, i := range tv.idx[h] {
		if Equal(tv.Keys[i], key) {
			tv.Vals[i] = val
			t.Version++
			return
		}
	}
	idx := len(tv.Keys)
	tv.Keys = append(tv.Keys, key)
	tv.Vals = append(tv.Vals, val)
	tv.idx[h] = append(tv.idx[h], idx)
	t.Version++
}

// TableGet looks up a key; ok is false when absent.
func TableGet(t Value, key Value) (Value, bool) {
	t.mustKind(KindTable)
	h := Hash(key)
	for _, i := range t.tbl.idx[h] {
		if Equal(t.tbl.Keys[i], key) {
			return t.tbl.Vals[i], true
		}
	}
	return Value{}, false
}

// TableDelete removes a key if present, compacting the ordered slices and
// rebuilding the hash index (tables are not expected to be hot-path-mutated
// at the sizes this runtime targets).
func TableDelete(t *Value, key Value) bool {
	t.mustKind(KindTable)
	tv := t.tbl
	h := Hash(key)
	for pos, i := range tv.idx[h] {
		if Equal(tv.Keys[i], key) {
			tv.Keys = append(tv.Keys[:i], tv.Keys[i+1:]...)
			tv.Vals = append(tv.Vals[:i], tv.Vals[i+1:]...)
			tv.idx[h] = append(tv.idx[h][:pos], tv.idx[h][pos+1:]...)
			rebuildTableIndex(tv)
			t.Version++
			return true
		}
	}
	return false
}

func rebuildTableIndex(tv *TableValue) {
	tv.idx = make(map[uint64][]int, len(tv.Keys))
	for i, k := range tv.Keys {
		h := Hash(k)
		tv.idx[h] = append(tv.idx[h], i)
	}
}

func NewImage(w, h, channels int32, flags uint8, data []byte) Value {
	return Value{Kind: KindImage, Flags: FlagRefCounted, img: &ImageValue{W: w, H: h, Channels: channels, Flags: flags, Data: append([]byte(nil), data...)}}
}

func NewAudio(rate uint32, channels uint8, nsamples uint32, data []float32) Value {
	return Value{Kind: KindAudio, Flags: FlagRefCounted, aud: &AudioValue{Rate: rate, Channels: channels, NSamples: nsamples, Data: append([]float32(nil), data...)}}
}

func NewObject(vendor, typ int32, data any, vtable *ObjectVTable) Value {
	f := Flags(0)
	if vtable != nil {
		f = FlagUsesObjectInfo
	}
	return Value{Kind: KindObject, Flags: f, obj: &ObjectValue{Vendor: vendor, TypeID: typ, Data: data, VTable: vtable}}
}

func (v Value) Sequence() *SequenceValue { v.mustKind(KindSequence); return v.seq }
func (v Value) Table() *TableValue       { v.mustKind(KindTable); return v.tbl }
func (v Value) Set() *SetValue           { v.mustKind(KindSet); return v.set }
func (v Value) Image() *ImageValue       { v.mustKind(KindImage); return v.img }
func (v Value) Audio() *AudioValue       { v.mustKind(KindAudio); return v.aud }
func (v Value) Object() *ObjectValue     { v.mustKind(KindObject); return v.obj }
func (v Value) Array() *ArrayValue       { v.mustKind(KindArray); return v.arr }
