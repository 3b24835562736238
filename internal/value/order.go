package value

// Less implements §4.A ordering. It returns (less, nil) for ordered kinds and
// (false, ErrTypeNotOrderable) for kinds without an order (Object,
// Shard/ShardRef, Wire/WireRef, Any, and the others listed below) per §7.
func Less(a, b Value) (bool, error) {
	if a.Kind != b.Kind {
		return false, nil // tag mismatch: defined as "not less", no error
	}
	switch a.Kind {
	case KindBool:
		return !a.b && b.b, nil
	case KindInt:
		return a.i < b.i, nil
	case KindFloat:
		return a.f < b.f, nil
	case KindInt2, KindInt3, KindInt4, KindInt8, KindInt16:
		return allLanesLessInt(a.vi, b.vi), nil
	case KindFloat2, KindFloat3, KindFloat4:
		return allLanesLessFloat(a.vf, b.vf), nil
	case KindString, KindPath, KindContextVar:
		return a.str < b.str, nil
	case KindBytes:
		return lessBytes(a.byt, b.byt)
	case KindSequence:
		return lessSequence(a.seq, b.seq)
	case KindTable:
		return lessTable(a.tbl, b.tbl)
	case KindArray:
		return lessBytes(a.arr.Raw, b.arr.Raw)
	case KindObject, KindShardRef, KindWireRef, KindAny, KindEnum, KindSet, KindImage, KindAudio, KindTypeRef, KindNone:
		return false, ErrTypeNotOrderable
	default:
		return false, ErrTypeNotOrderable
	}
}

// allLanesLessInt implements the "all-lanes strictly less" normalisation
// documented in §9 Open Questions for vector ordering.
func allLanesLessInt(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !(a[i] < b[i]) {
			return false
		}
	}
	return len(a) > 0
}

func allLanesLessFloat(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !(a[i] < b[i]) {
			return false
		}
	}
	return len(a) > 0
}

// lessBytes requires equal size, per §4.B ("Bytes must be same size else
// not comparable").
func lessBytes(a, b []byte) (bool, error) {
	if len(a) != len(b) {
		return false, ErrTypeNotOrderable
	}
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i], nil
		}
	}
	return false, nil
}

// lessSequence is lexicographic on elements.
func lessSequence(a, b *SequenceValue) (bool, error) {
	n := len(a.Elems)
	if len(b.Elems) < n {
		n = len(b.Elems)
	}
	for i := 0; i < n; i++ {
		if Equal(a.Elems[i], b.Elems[i]) {
			continue
		}
		less, err := Less(a.Elems[i], b.Elems[i])
		if err != nil {
			return false, err
		}
		return less, nil
	}
	return len(a.Elems) < len(b.Elems), nil
}

// lessTable is lexicographic on (key,value) pairs visited in insertion
// order, per §4.A.
func lessTable(a, b *TableValue) (bool, error) {
	n := len(a.Keys)
	if len(b.Keys) < n {
		n = len(b.Keys)
	}
	for i := 0; i < n; i++ {
		if !Equal(a.Keys[i], b.Keys[i]) {
			return Less(a.Keys[i], b.Keys[i])
		}
		if !Equal(a.Vals[i], b.Vals[i]) {
			return Less(a.Vals[i], b.Vals[i])
		}
	}
	return len(a.Keys) < len(b.Keys), nil
}
