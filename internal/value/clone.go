package value

// CloneInto implements §4.A clone: "if kinds differ or destination capacity
// is insufficient, destroy destination then allocate... the same underlying
// container instance is reused when destination already points to one...
// elements are cloned recursively via the same reuse discipline." dst must
// not be flagged foreign.
func CloneInto(dst *Value, src Value) error {
	if dst.Flags.Has(FlagForeign) {
		return ErrForeignDestination
	}
	if dst.Flags.Has(FlagExternal) {
		// An external slot is only borrowed by its holder; cloning into
		// it is forbidden.
		return ErrForeignDestination
	}

	switch src.Kind {
	case KindSequence:
		cloneSequenceInto(dst, src)
	case KindTable:
		cloneTableInto(dst, src)
	case KindSet:
		cloneSetInto(dst, src)
	case KindImage:
		cloneImageInto(dst, src)
	case KindAudio:
		cloneAudioInto(dst, src)
	case KindArray:
		cloneArrayInto(dst, src)
	case KindObject:
		cloneObjectInto(dst, src)
	default:
		Destroy(dst)
		*dst = shallowCopy(src)
	}
	dst.Version++
	return nil
}

// Clone returns an independent deep copy of v.
func Clone(v Value) Value {
	var out Value
	_ = CloneInto(&out, v)
	return out
}

func shallowCopy(v Value) Value {
	cp := v
	cp.byt = append([]byte(nil), v.byt...)
	cp.vi = append([]int64(nil), v.vi...)
	cp.vf = append([]float64(nil), v.vf...)
	if v.typeRef != nil {
		t := *v.typeRef
		cp.typeRef = &t
	}
	cp.Version = 0
	return cp
}

func cloneSequenceInto(dst *Value, src Value) {
	if dst.Kind == KindSequence && dst.seq != nil {
		// reuse destination capacity
		sv := dst.seq
		sv.Elems = growValueSlice(sv.Elems, len(src.seq.Elems))
		for i, e := range src.seq.Elems {
			CloneInto(&sv.Elems[i], e)
		}
		dst.Kind = KindSequence
		dst.Flags = FlagRefCounted
		return
	}
	Destroy(dst)
	out := make([]Value, len(src.seq.Elems))
	for i, e := range src.seq.Elems {
		out[i] = Clone(e)
	}
	*dst = Value{Kind: KindSequence, Flags: FlagRefCounted, seq: &SequenceValue{Elems: out}}
}

func growValueSlice(s []Value, n int) []Value {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]Value, n)
}

func cloneTableInto(dst *Value, src Value) {
	if dst.Kind == KindTable && dst.tbl != nil {
		tv := dst.tbl
		tv.Keys = tv.Keys[:0]
		tv.Vals = tv.Vals[:0]
		tv.idx = make(map[uint64][]int, len(src.tbl.Keys))
		for i := range src.tbl.Keys {
			tv.Keys = append(tv.Keys, Clone(src.tbl.Keys[i]))
			tv.Vals = append(tv.Vals, Clone(src.tbl.Vals[i]))
			tv.idx[Hash(tv.Keys[i])] = append(tv.idx[Hash(tv.Keys[i])], i)
		}
		dst.Kind = KindTable
		dst.Flags = FlagRefCounted
		return
	}
	Destroy(dst)
	nt := NewTable()
	for i := range src.tbl.Keys {
		TableSet(&nt, Clone(src.tbl.Keys[i]), Clone(src.tbl.Vals[i]))
	}
	*dst = nt
}

func cloneSetInto(dst *Value, src Value) {
	if dst.Kind == KindSet && dst.set != nil {
		// reuse the destination's container instance
		sv := dst.set
		sv.Elems = sv.Elems[:0]
		sv.idx = make(map[uint64][]int, len(src.set.Elems))
		for _, e := range src.set.Elems {
			setInsert(sv, Clone(e))
		}
		dst.Flags = FlagRefCounted
		return
	}
	Destroy(dst)
	out := &SetValue{idx: make(map[uint64][]int, len(src.set.Elems))}
	for _, e := range src.set.Elems {
		setInsert(out, Clone(e))
	}
	*dst = Value{Kind: KindSet, Flags: FlagRefCounted, set: out}
}

func cloneImageInto(dst *Value, src Value) {
	if dst.Kind == KindImage && dst.img != nil && cap(dst.img.Data) >= len(src.img.Data) {
		iv := dst.img
		iv.W, iv.H, iv.Channels, iv.Flags = src.img.W, src.img.H, src.img.Channels, src.img.Flags
		iv.Data = iv.Data[:len(src.img.Data)]
		copy(iv.Data, src.img.Data)
		dst.Flags = FlagRefCounted
		return
	}
	Destroy(dst)
	*dst = NewImage(src.img.W, src.img.H, src.img.Channels, src.img.Flags, src.img.Data)
}

func cloneAudioInto(dst *Value, src Value) {
	if dst.Kind == KindAudio && dst.aud != nil && cap(dst.aud.Data) >= len(src.aud.Data) {
		av := dst.aud
		av.Rate, av.Channels, av.NSamples = src.aud.Rate, src.aud.Channels, src.aud.NSamples
		av.Data = av.Data[:len(src.aud.Data)]
		copy(av.Data, src.aud.Data)
		dst.Flags = FlagRefCounted
		return
	}
	Destroy(dst)
	*dst = NewAudio(src.aud.Rate, src.aud.Channels, src.aud.NSamples, src.aud.Data)
}

func cloneArrayInto(dst *Value, src Value) {
	Destroy(dst)
	*dst = Value{Kind: KindArray, Flags: FlagRefCounted, arr: &ArrayValue{
		InnerKind: src.arr.InnerKind,
		Stride:    src.arr.Stride,
		Raw:       append([]byte(nil), src.arr.Raw...),
	}}
}

// cloneObjectInto follows the vtable's Clone hook when present; otherwise an
// Object is shared by pointer (matching §4.A "Object compares pointer
// identity" -- there is no generic deep-copy for an opaque payload).
func cloneObjectInto(dst *Value, src Value) {
	Destroy(dst)
	if src.obj.VTable != nil && src.obj.VTable.Clone != nil {
		*dst = Value{Kind: KindObject, Flags: src.Flags, obj: &ObjectValue{
			Vendor: src.obj.Vendor,
			TypeID: src.obj.TypeID,
			Data:   src.obj.VTable.Clone(src.obj.Data),
			VTable: src.obj.VTable,
		}}
		return
	}
	*dst = src
}

// Destroy is idempotent on an already-destroyed Value, per §4.A. External
// Values are never destroyed by the runtime, per §3.
func Destroy(v *Value) {
	if v == nil {
		return
	}
	if v.Flags.Has(FlagExternal) {
		*v = Value{}
		return
	}
	if v.Kind == KindObject && v.obj != nil && v.obj.VTable != nil && v.obj.VTable.Destroy != nil {
		v.obj.VTable.Destroy(v.obj.Data)
	}
	*v = Value{}
}
