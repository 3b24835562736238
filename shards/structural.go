package shards

// structural.go implements §4.C's structural operators: Repeat and Sort.
// Sort rejects unordered element kinds at compose time via its Compose
// hook, per §9's "operators that need ordering ... must reject unordered
// kinds at compose time using the Type system" design note.
//
// © 2025 shardmesh authors. MIT License.

import (
	"fmt"
	"sort"

	"github.com/shardmesh/shardmesh/internal/value"
	"github.com/shardmesh/shardmesh/internal/xtype"
	"github.com/shardmesh/shardmesh/pkg"
)

// Repeat produces a Sequence of n clones of its input.
type Repeat struct {
	base
}

// NewRepeat builds a Repeat shard producing n copies.
func NewRepeat(n int64) *Repeat {
	return &Repeat{base: newBase("Repeat", []xtype.Type{xtype.Any}, []xtype.Type{{Kind: xtype.KindSequence}},
		[]pkg.ParamInfo{{DisplayName: "count", Default: value.NewInt(n)}})}
}

func (r *Repeat) Activate(ctx *pkg.Context, in value.Value) value.Value {
	n := r.param(0).Int()
	if n < 0 {
		n = 0
	}
	elems := make([]value.Value, n)
	for i := range elems {
		elems[i] = value.Clone(in)
	}
	return value.NewSequence(elems...)
}

// unorderableKinds mirrors internal/value/order.go's ErrTypeNotOrderable
// cases -- kept as a small set here since Sort needs to reject them at
// compose time, before any Value ever reaches Less.
var unorderableKinds = map[xtype.Kind]bool{
	xtype.KindNone:     true,
	xtype.KindAny:      true,
	xtype.KindEnum:     true,
	xtype.KindSet:      true,
	xtype.KindImage:    true,
	xtype.KindAudio:    true,
	xtype.KindObject:   true,
	xtype.KindWireRef:  true,
	xtype.KindShardRef: true,
	xtype.KindTypeRef:  true,
}

// Sort sorts a Sequence's elements ascending by internal/value.Less.
type Sort struct {
	base
	elementKind xtype.Kind
}

// NewSort builds a Sort shard.
func NewSort() *Sort {
	return &Sort{base: newBase("Sort", []xtype.Type{{Kind: xtype.KindSequence}}, []xtype.Type{{Kind: xtype.KindSequence}}, nil)}
}

// Compose rejects a Sequence whose element Type set contains an unorderable
// kind, surfacing a ComposeError-worthy message before the wire ever runs.
func (s *Sort) Compose(id *pkg.InstanceData) (xtype.Type, error) {
	for _, el := range id.InputType.Elements {
		if unorderableKinds[el.Kind] {
			return xtype.Type{}, fmt.Errorf("Sort: element kind %s has no total order", el.Kind)
		}
		s.elementKind = el.Kind
	}
	return id.InputType, nil
}

func (s *Sort) Activate(ctx *pkg.Context, in value.Value) value.Value {
	if in.Kind != xtype.KindSequence {
		ctx.CancelFlow("Sort requires a Sequence input")
		return value.None()
	}
	src := in.Sequence().Elems
	out := make([]value.Value, len(src))
	copy(out, src)

	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		less, err := value.Less(out[i], out[j])
		if err != nil {
			sortErr = err
			return false
		}
		return less
	})
	if sortErr != nil {
		ctx.CancelFlow(sortErr.Error())
		return value.None()
	}
	return value.NewSequence(out...)
}
