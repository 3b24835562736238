package value

import "testing"

func TestCloneDeepCopiesSequence(t *testing.T) {
	orig := NewSequence(NewInt(1), NewInt(2), NewInt(3))
	clone := Clone(orig)

	clone.Sequence().Elems[0] = NewInt(99)

	if orig.Sequence().Elems[0].Int() != 1 {
		t.Fatalf("mutating the clone mutated the original: got %d", orig.Sequence().Elems[0].Int())
	}
	if !Equal(orig, NewSequence(NewInt(1), NewInt(2), NewInt(3))) {
		t.Fatalf("original sequence changed unexpectedly")
	}
}

func TestEqualScalarKinds(t *testing.T) {
	cases := []struct {
		a, b Value
		want bool
	}{
		{NewInt(1), NewInt(1), true},
		{NewInt(1), NewInt(2), false},
		{NewString("a"), NewString("a"), true},
		{NewString("a"), NewString("b"), false},
		{NewBool(true), NewBool(true), true},
		{NewInt(1), NewFloat(1), false}, // distinct Kind, never equal
	}
	for _, c := range cases {
		if got := Equal(c.a, c.b); got != c.want {
			t.Errorf("Equal(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestSetEqualityIsByMultisetOfHashes(t *testing.T) {
	a := NewSet(NewInt(1), NewInt(2), NewInt(2))
	b := NewSet(NewInt(2), NewInt(1), NewInt(2))
	if !Equal(a, b) {
		t.Fatalf("sets with the same multiset of elements in different order must be equal")
	}
	c := NewSet(NewInt(1), NewInt(2))
	if !Equal(a, c) {
		t.Fatalf("duplicates collapse on insert, so {1,2,2} and {1,2} must be equal")
	}
}

func TestLessRejectsUnorderableKinds(t *testing.T) {
	_, err := Less(NewObject(1, 1, nil, nil), NewObject(1, 1, nil, nil))
	if err != ErrTypeNotOrderable {
		t.Fatalf("expected ErrTypeNotOrderable, got %v", err)
	}
}

func TestLessOrdersInts(t *testing.T) {
	less, err := Less(NewInt(1), NewInt(2))
	if err != nil || !less {
		t.Fatalf("Less(1,2) = %v, %v; want true, nil", less, err)
	}
	less, err = Less(NewInt(2), NewInt(1))
	if err != nil || less {
		t.Fatalf("Less(2,1) = %v, %v; want false, nil", less, err)
	}
}

func TestDestroyResetsContainerToNone(t *testing.T) {
	v := NewSequence(NewInt(1))
	Destroy(&v)
	if v.Kind != KindNone {
		t.Fatalf("Destroy should reset Kind to None, got %v", v.Kind)
	}
}

func TestHashStableAcrossClone(t *testing.T) {
	v := NewSequence(NewInt(1), NewString("x"))
	if Hash(v) != Hash(Clone(v)) {
		t.Fatalf("hash must be stable across a deep clone")
	}
}
