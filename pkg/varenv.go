package shardmesh

// varenv.go implements the scoped variable environment described in §4.E:
// lookup across the Context's wire-stack, the mesh's own variable and
// borrowed-ref tables, refcounted ownership, and the External/Exposed flag
// contract.
//
// © 2025 shardmesh authors. MIT License.

import (
	"github.com/shardmesh/shardmesh/internal/value"
)

// Cell is one named variable slot. A Cell is either owned (refcounted; its
// value is kept when the count returns to zero, see releaseVariable) or
// External (lifetime managed by
// whoever created it -- never refcounted or destroyed by the core, per the
// glossary's "External variable" entry).
type Cell struct {
	Name     string
	Val      value.Value
	RefCount int
	External bool
	Exposed  bool
}

// newLocalCell creates an owned cell initialised to None with refcount 0,
// per §4.E step 4 ("create in the innermost wire, initialise to None with
// refcount 0").
func newLocalCell(name string) *Cell {
	return &Cell{Name: name, Val: value.None()}
}

// referenceVariable implements §4.E's lookup algorithm. It walks ctx's
// wire-stack from innermost outward, consulting each wire's local variables
// then its externalVariables; a pure wire stops the outward walk and creates
// locally instead of falling through to the mesh. On a miss that reaches the
// bottom of a non-pure stack, mesh.variables then mesh.refs are consulted
// before finally creating a fresh local cell on the innermost wire.
//
// The returned cell's refcount is incremented and RefCounted recorded on the
// caller's side by the caller (releaseVariable is its mirror); External
// cells are returned without incrementing, matching "external cells return
// without incrementing".
func referenceVariable(ctx *Context, name string) *Cell {
	innermost := ctx.currentWire()

	for i := len(ctx.wireStack) - 1; i >= 0; i-- {
		w := ctx.wireStack[i]
		if c, ok := w.localVariables[name]; ok {
			if !c.External {
				c.RefCount++
			}
			return c
		}
		if c, ok := w.externalVariables[name]; ok {
			return c // external: never refcounted
		}
		if w.pure {
			break // stop the outward walk; create locally below
		}
	}

	if innermost != nil && !innermost.pure && ctx.mesh != nil {
		if c, ok := ctx.mesh.variables[name]; ok {
			c.RefCount++
			return c
		}
		if c, ok := ctx.mesh.refs[name]; ok {
			return c // borrowed global: never refcounted
		}
	}

	c := newLocalCell(name)
	c.RefCount = 1
	if innermost != nil {
		innermost.localVariables[name] = c
	}
	return c
}

// ReferenceVariable is the exported entry point to referenceVariable, used
// by variable-operator shards (Set/Ref/Update/Push/...).
func ReferenceVariable(ctx *Context, name string) *Cell { return referenceVariable(ctx, name) }

// ReleaseVariable is the exported entry point to releaseVariable.
func ReleaseVariable(c *Cell) { releaseVariable(c) }

// SetCellValue is the exported entry point to setCellValue.
func SetCellValue(owner *Wire, c *Cell, v value.Value) { setCellValue(owner, c, v) }

// setCellValue overwrites c's Value and, when c is marked Exposed, emits
// OnExposedVarSet on owner's dispatcher (§4.E: "an exposed variable change
// triggers an OnExposedVarSet event on the owning wire's dispatcher iff the
// EXPOSED flag is set").
func setCellValue(owner *Wire, c *Cell, v value.Value) {
	c.Val = v
	if c.Exposed && owner != nil {
		owner.dispatcher.emit("OnExposedVarSet", c.Name, v)
	}
}

// releaseVariable is referenceVariable's mirror: a no-op on a nil or
// External cell; otherwise decrements refcount.
//
// RefCount tracks outstanding borrows made through referenceVariable/
// releaseVariable pairs across a single Activate call, not the variable's
// own lifetime -- a Cell sitting at refcount 0 between accesses is the
// expected steady state (it is what Wire.cleanup's dangling-variable check
// treats as healthy), not an abandoned value. The Cell's payload is only
// ever destroyed explicitly, by Clear or by a wire's own teardown, so a
// Set followed later by a Get in the same wire still observes the value.
func releaseVariable(c *Cell) {
	if c == nil || c.External {
		return
	}
	c.RefCount--
}
