package value

import (
	"strconv"

	"github.com/shardmesh/shardmesh/internal/xtype"
)

// SharedTypes resolves an exposed variable name to its Type, used by
// DeriveTypeInfo to settle a ContextVar Value -- §4.B.
type SharedTypes interface {
	Lookup(name string) (xtype.Type, bool)
}

// DeriveTypeInfo walks v and produces the narrowest valid Type shape
// (§4.B). For KindContextVar it looks up the referenced name in shared and
// returns that exposed Type, failing with ErrUnresolvedContextVar otherwise.
func DeriveTypeInfo(v Value, shared SharedTypes) (xtype.Type, error) {
	switch v.Kind {
	case KindContextVar:
		if shared == nil {
			return xtype.Type{}, ErrUnresolvedContextVar
		}
		t, ok := shared.Lookup(v.str)
		if !ok {
			return xtype.Type{}, ErrUnresolvedContextVar
		}
		return t, nil

	case KindSequence:
		elems := make([]xtype.Type, 0, len(v.seq.Elems))
		for _, e := range v.seq.Elems {
			et, err := DeriveTypeInfo(e, shared)
			if err != nil {
				return xtype.Type{}, err
			}
			elems = appendUniqueType(elems, et)
		}
		return xtype.Type{Kind: xtype.KindSequence, Elements: elems, Fixed: len(v.seq.Elems)}, nil

	case KindSet:
		elems := make([]xtype.Type, 0, len(v.set.Elems))
		for _, e := range v.set.Elems {
			et, err := DeriveTypeInfo(e, shared)
			if err != nil {
				return xtype.Type{}, err
			}
			elems = appendUniqueType(elems, et)
		}
		return xtype.Type{Kind: xtype.KindSet, SetElements: elems}, nil

	case KindTable:
		keys := make([]xtype.Key, len(v.tbl.Keys))
		types := make([]xtype.Type, len(v.tbl.Keys))
		for i := range v.tbl.Keys {
			keys[i] = keyOf(v.tbl.Keys[i])
			t, err := DeriveTypeInfo(v.tbl.Vals[i], shared)
			if err != nil {
				return xtype.Type{}, err
			}
			types[i] = t
		}
		return xtype.Type{Kind: xtype.KindTable, TableKeys: keys, TableTypes: types}, nil

	case KindObject:
		return xtype.Type{Kind: xtype.KindObject, Vendor: v.obj.Vendor, TypeID: v.obj.TypeID}, nil

	case KindEnum:
		return xtype.Type{Kind: xtype.KindEnum, Vendor: v.enumVendor, TypeID: v.enumType}, nil

	default:
		return xtype.Type{Kind: v.Kind}, nil
	}
}

func keyOf(k Value) xtype.Key {
	switch k.Kind {
	case KindString, KindPath, KindContextVar:
		return xtype.Key{Kind: k.Kind, Scalar: k.str}
	case KindInt:
		return xtype.Key{Kind: k.Kind, Scalar: strconv.FormatInt(k.i, 10)}
	default:
		return xtype.Key{Kind: k.Kind}
	}
}

func appendUniqueType(set []xtype.Type, t xtype.Type) []xtype.Type {
	for _, existing := range set {
		if xtype.Equal(existing, t) {
			return set
		}
	}
	return append(set, t)
}
