package xtype

import "testing"

func TestMatchAnyAcceptsEverything(t *testing.T) {
	if !Match(Type{Kind: KindInt}, Any, false, true) {
		t.Fatalf("Any receiver must accept any input kind")
	}
}

func TestMatchKindMismatchFails(t *testing.T) {
	if Match(Type{Kind: KindInt}, Type{Kind: KindString}, false, true) {
		t.Fatalf("mismatched kinds must not match")
	}
}

func TestMatchObjectRequiresVendorTypeCoincidence(t *testing.T) {
	a := Type{Kind: KindObject, Vendor: 1, TypeID: 2}
	b := Type{Kind: KindObject, Vendor: 1, TypeID: 2}
	c := Type{Kind: KindObject, Vendor: 1, TypeID: 3}
	if !Match(a, b, false, true) {
		t.Fatalf("identical (vendor,type) Object types must match")
	}
	if Match(a, c, false, true) {
		t.Fatalf("differing TypeID must not match")
	}
}

func TestMatchEnumWildcard(t *testing.T) {
	input := Type{Kind: KindEnum, Vendor: 5, TypeID: 9}
	wildcard := Type{Kind: KindEnum}
	if !Match(input, wildcard, false, true) {
		t.Fatalf("Enum(0,0) receiver must act as a wildcard")
	}
}

func TestDeriveTypeHashStableUnderSetPermutation(t *testing.T) {
	a := Type{Kind: KindSet, SetElements: []Type{{Kind: KindInt}, {Kind: KindString}}}
	b := Type{Kind: KindSet, SetElements: []Type{{Kind: KindString}, {Kind: KindInt}}}
	if DeriveTypeHash(a) != DeriveTypeHash(b) {
		t.Fatalf("Set element order must not affect the derived hash")
	}
}

func TestDeriveTypeHashDistinguishesSelf(t *testing.T) {
	a := Type{Kind: KindSequence, Elements: []Type{{Kind: KindInt}}}
	b := Type{Kind: KindSequence, Self: true}
	if DeriveTypeHash(a) == DeriveTypeHash(b) {
		t.Fatalf("a Self placeholder must hash differently from a concrete type of the same Kind")
	}
}
