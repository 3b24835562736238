// Package shards collects the built-in shard vocabulary from §4.C:
// primitive operators, flow-control, variable operators, structural
// operators, and a disk-backed Object descriptor plugin.
//
// © 2025 shardmesh authors. MIT License.
package shards

import (
	"github.com/shardmesh/shardmesh/internal/value"
	"github.com/shardmesh/shardmesh/internal/xtype"
	"github.com/shardmesh/shardmesh/pkg"
)

// base implements the parameter-schema bookkeeping common to every shard:
// a fixed ParamInfo list plus one owned Value slot per parameter, assigned
// by deep clone and read back by borrow (§4.C "Parameter schema").
// Concrete shards embed base and only add Activate plus whatever optional
// capability interfaces they need.
type base struct {
	name   string
	ins    []xtype.Type
	outs   []xtype.Type
	params []pkg.ParamInfo
	slots  []value.Value
}

func newBase(name string, ins, outs []xtype.Type, params []pkg.ParamInfo) base {
	slots := make([]value.Value, len(params))
	for i, p := range params {
		slots[i] = value.Clone(p.Default)
	}
	return base{name: name, ins: ins, outs: outs, params: params, slots: slots}
}

func (b *base) ShardName() string          { return b.name }
func (b *base) InputTypes() []xtype.Type   { return b.ins }
func (b *base) OutputTypes() []xtype.Type  { return b.outs }
func (b *base) Parameters() []pkg.ParamInfo { return b.params }

func (b *base) SetParam(idx int, v value.Value) error {
	if idx < 0 || idx >= len(b.slots) {
		return pkg.ErrInvalidParameterIndex
	}
	return value.CloneInto(&b.slots[idx], v)
}

func (b *base) GetParam(idx int) (value.Value, error) {
	if idx < 0 || idx >= len(b.slots) {
		return value.None(), pkg.ErrInvalidParameterIndex
	}
	return b.slots[idx], nil
}

func (b *base) param(idx int) value.Value { return b.slots[idx] }
