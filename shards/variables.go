package shards

// variables.go implements §4.C's variable operators: Set, Ref, Update,
// Push, Pop, Get, Clear, Count, Swap, Take. Set/Ref/Update/Push are the
// ExposedVariablesProvider family the Composer's exclusion table in §4.F
// governs; Get/Pop/Clear/Count/Swap/Take are RequiredVariablesProvider
// readers that expect the name to already be in scope.
//
// Every targeted variable name is carried in a ParamInfo slot rather than a
// private struct field, so a registry-constructed blank instance (built via
// its zero-arg constructor, then configured with SetParam) behaves
// identically to one built directly with its New* convenience function.
//
// © 2025 shardmesh authors. MIT License.

import (
	"github.com/shardmesh/shardmesh/internal/value"
	"github.com/shardmesh/shardmesh/internal/xtype"
	"github.com/shardmesh/shardmesh/pkg"
)

// withVariable references name for the duration of fn and releases it
// afterward, matching the refcount-conservation contract in §4.E/§8
// property 5: exactly one release per reference.
func withVariable(ctx *pkg.Context, name string, fn func(cell *pkg.Cell)) {
	cell := pkg.ReferenceVariable(ctx, name)
	defer pkg.ReleaseVariable(cell)
	fn(cell)
}

func nameParam(name string) []pkg.ParamInfo {
	return []pkg.ParamInfo{{DisplayName: "name", Default: value.NewString(name)}}
}

// Set assigns a deep clone of its input into the named variable, creating
// the cell if absent. Valid after a prior Set/Update/Push on the same name;
// an error if the name was last declared by Ref.
type Set struct{ base }

// NewSet builds a Set shard targeting name.
func NewSet(name string) *Set {
	return &Set{base: newBase("Set", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any}, nameParam(name))}
}

func (s *Set) ExposedVariables() []string { return []string{s.param(0).Str()} }

func (s *Set) Activate(ctx *pkg.Context, in value.Value) value.Value {
	withVariable(ctx, s.param(0).Str(), func(c *pkg.Cell) {
		pkg.SetCellValue(ctx.CurrentWire(), c, value.Clone(in))
	})
	return in
}

// Ref binds the named variable to its input by reference (no clone) --
// "a Ref binds to a potentially transient buffer" per §4.F's rationale for
// why Ref conflicts with Set/Update/Push on the same name.
type Ref struct{ base }

// NewRef builds a Ref shard targeting name.
func NewRef(name string) *Ref {
	return &Ref{base: newBase("Ref", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any}, nameParam(name))}
}

func (r *Ref) ExposedVariables() []string { return []string{r.param(0).Str()} }

func (r *Ref) Activate(ctx *pkg.Context, in value.Value) value.Value {
	withVariable(ctx, r.param(0).Str(), func(c *pkg.Cell) {
		pkg.SetCellValue(ctx.CurrentWire(), c, in)
	})
	return in
}

// Update overwrites an already-declared variable's value by deep clone,
// same runtime behavior as Set but kept distinct so compose-time exclusion
// diagnostics name the actual shard the wire author used.
type Update struct{ base }

// NewUpdate builds an Update shard targeting name.
func NewUpdate(name string) *Update {
	return &Update{base: newBase("Update", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any}, nameParam(name))}
}

func (u *Update) ExposedVariables() []string { return []string{u.param(0).Str()} }

func (u *Update) Activate(ctx *pkg.Context, in value.Value) value.Value {
	withVariable(ctx, u.param(0).Str(), func(c *pkg.Cell) {
		pkg.SetCellValue(ctx.CurrentWire(), c, value.Clone(in))
	})
	return in
}

// Push appends its input onto the named Sequence variable, creating an
// empty Sequence first if the cell was still None.
type Push struct{ base }

// NewPush builds a Push shard targeting name.
func NewPush(name string) *Push {
	return &Push{base: newBase("Push", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any}, nameParam(name))}
}

func (p *Push) ExposedVariables() []string { return []string{p.param(0).Str()} }

func (p *Push) Activate(ctx *pkg.Context, in value.Value) value.Value {
	withVariable(ctx, p.param(0).Str(), func(c *pkg.Cell) {
		if c.Val.Kind != xtype.KindSequence {
			pkg.SetCellValue(ctx.CurrentWire(), c, value.NewSequence())
		}
		seq := c.Val.Sequence()
		seq.Elems = append(seq.Elems, value.Clone(in))
	})
	return in
}

// Pop removes and returns the last element of the named Sequence variable,
// or None if it is empty. Pop reads an already-exposed name (§4.F step 6),
// it does not declare one.
type Pop struct{ base }

// NewPop builds a Pop shard targeting name.
func NewPop(name string) *Pop {
	return &Pop{base: newBase("Pop", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any}, nameParam(name))}
}

func (p *Pop) RequiredVariables() []string { return []string{p.param(0).Str()} }

func (p *Pop) Activate(ctx *pkg.Context, _ value.Value) value.Value {
	var out value.Value = value.None()
	withVariable(ctx, p.param(0).Str(), func(c *pkg.Cell) {
		if c.Val.Kind != xtype.KindSequence {
			return
		}
		seq := c.Val.Sequence()
		if len(seq.Elems) == 0 {
			return
		}
		out = seq.Elems[len(seq.Elems)-1]
		seq.Elems = seq.Elems[:len(seq.Elems)-1]
	})
	return out
}

// Get returns a clone of the named variable's current value.
type Get struct{ base }

// NewGet builds a Get shard targeting name.
func NewGet(name string) *Get {
	return &Get{base: newBase("Get", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any}, nameParam(name))}
}

func (g *Get) RequiredVariables() []string { return []string{g.param(0).Str()} }

func (g *Get) Activate(ctx *pkg.Context, _ value.Value) value.Value {
	var out value.Value
	withVariable(ctx, g.param(0).Str(), func(c *pkg.Cell) { out = value.Clone(c.Val) })
	return out
}

// Clear resets the named variable to None, destroying any container payload
// it held.
type Clear struct{ base }

// NewClear builds a Clear shard targeting name.
func NewClear(name string) *Clear {
	return &Clear{base: newBase("Clear", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any}, nameParam(name))}
}

func (c *Clear) RequiredVariables() []string { return []string{c.param(0).Str()} }

func (c *Clear) Activate(ctx *pkg.Context, in value.Value) value.Value {
	withVariable(ctx, c.param(0).Str(), func(cell *pkg.Cell) {
		value.Destroy(&cell.Val)
		pkg.SetCellValue(ctx.CurrentWire(), cell, value.None())
	})
	return in
}

// Count returns the element count of the named Sequence/Set/Table variable
// as an Int, or 0 for any other kind.
type Count struct{ base }

// NewCount builds a Count shard targeting name.
func NewCount(name string) *Count {
	return &Count{base: newBase("Count", []xtype.Type{xtype.Any}, []xtype.Type{{Kind: xtype.KindInt}}, nameParam(name))}
}

func (c *Count) RequiredVariables() []string { return []string{c.param(0).Str()} }

func (c *Count) Activate(ctx *pkg.Context, _ value.Value) value.Value {
	var n int
	withVariable(ctx, c.param(0).Str(), func(cell *pkg.Cell) {
		switch cell.Val.Kind {
		case xtype.KindSequence:
			n = len(cell.Val.Sequence().Elems)
		case xtype.KindSet:
			n = len(cell.Val.Set().Elems)
		case xtype.KindTable:
			n = len(cell.Val.Table().Keys)
		}
	})
	return value.NewInt(int64(n))
}

// Increment adds 1 to the named Int variable, creating it at 0 first if it
// was still None, and returns the new value. This is the loop-counter
// combinator a looped-restart wire uses to bound its own iteration count
// (paired with IsLess and When.Restart).
type Increment struct{ base }

// NewIncrement builds an Increment shard targeting name.
func NewIncrement(name string) *Increment {
	return &Increment{base: newBase("Increment", []xtype.Type{xtype.Any}, []xtype.Type{{Kind: xtype.KindInt}}, nameParam(name))}
}

func (i *Increment) ExposedVariables() []string { return []string{i.param(0).Str()} }

func (i *Increment) Activate(ctx *pkg.Context, _ value.Value) value.Value {
	var out value.Value
	withVariable(ctx, i.param(0).Str(), func(c *pkg.Cell) {
		n := int64(0)
		if c.Val.Kind == xtype.KindInt {
			n = c.Val.Int()
		}
		out = value.NewInt(n + 1)
		pkg.SetCellValue(ctx.CurrentWire(), c, out)
	})
	return out
}

// Swap exchanges the values held by two named variables, carried as params
// "a" and "b".
type Swap struct{ base }

// NewSwap builds a Swap shard exchanging nameA and nameB.
func NewSwap(nameA, nameB string) *Swap {
	return &Swap{base: newBase("Swap", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any}, []pkg.ParamInfo{
		{DisplayName: "a", Default: value.NewString(nameA)},
		{DisplayName: "b", Default: value.NewString(nameB)},
	})}
}

func (s *Swap) RequiredVariables() []string { return []string{s.param(0).Str(), s.param(1).Str()} }

func (s *Swap) Activate(ctx *pkg.Context, in value.Value) value.Value {
	ca := pkg.ReferenceVariable(ctx, s.param(0).Str())
	cb := pkg.ReferenceVariable(ctx, s.param(1).Str())
	ca.Val, cb.Val = cb.Val, ca.Val
	pkg.ReleaseVariable(ca)
	pkg.ReleaseVariable(cb)
	return in
}

// Take returns the named variable's current value and resets it to None in
// one step -- a move rather than Get's borrow-by-clone.
type Take struct{ base }

// NewTake builds a Take shard targeting name.
func NewTake(name string) *Take {
	return &Take{base: newBase("Take", []xtype.Type{xtype.Any}, []xtype.Type{xtype.Any}, nameParam(name))}
}

func (t *Take) RequiredVariables() []string { return []string{t.param(0).Str()} }

func (t *Take) Activate(ctx *pkg.Context, _ value.Value) value.Value {
	var out value.Value
	withVariable(ctx, t.param(0).Str(), func(c *pkg.Cell) {
		out = c.Val
		pkg.SetCellValue(ctx.CurrentWire(), c, value.None())
	})
	return out
}
