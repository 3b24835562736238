package shardmesh

import (
	"testing"

	"github.com/shardmesh/shardmesh/internal/value"
	"github.com/shardmesh/shardmesh/internal/xtype"
)

// TestRefThenSetExclusionFails enforces the Set/Ref/Update/Push exclusion
// table: once a name has been bound by Ref, a later Set on the same name is
// a compose-time error (a Ref binds to a potentially transient buffer, so
// overwriting it via Set would silently diverge from what the Ref call saw).
func TestRefThenSetExclusionFails(t *testing.T) {
	w := NewWire([]Shard{
		constShard(value.NewBool(true)), refShard("x"),
		constShard(value.NewBool(true)), setShard("x"),
	})
	res := NewComposer(nil).ComposeWire(w, xtype.None)
	if !res.Failed {
		t.Fatalf("expected Set-after-Ref on the same name to fail compose")
	}
}

// TestSetThenSetIsAllowed confirms repeated Set calls on the same name
// within one wire compose cleanly (the exclusion table only forbids mixing
// in a Ref).
func TestSetThenSetIsAllowed(t *testing.T) {
	w := NewWire([]Shard{
		constShard(value.NewBool(true)), setShard("x"),
		constShard(value.NewBool(true)), setShard("x"),
	})
	res := NewComposer(nil).ComposeWire(w, xtype.None)
	if res.Failed {
		t.Fatalf("Set followed by Set on the same name should compose: %s", res.Message)
	}
}

// TestComposeHashStableAcrossIdenticalShape confirms two structurally
// identical wires hash to the same digest, and a differently-shaped wire
// does not, so a caller can use the digest to memoise compose results.
func TestComposeHashStableAcrossIdenticalShape(t *testing.T) {
	build := func() *Wire {
		return NewWire([]Shard{constShard(value.NewInt(21)), mathMultiplyShard(2)})
	}

	_, h1 := NewComposer(nil).ComposeHash(build(), xtype.None)
	_, h2 := NewComposer(nil).ComposeHash(build(), xtype.None)
	if h1 != h2 {
		t.Fatalf("ComposeHash should be stable across identically-shaped wires: %d != %d", h1, h2)
	}

	differentShape := NewWire([]Shard{constShard(value.NewString("x")), setShard("x")})
	_, h3 := NewComposer(nil).ComposeHash(differentShape, xtype.None)
	if h3 == h1 {
		t.Fatalf("ComposeHash should differ for a structurally different wire")
	}
}

// TestRequiredVariableMissingFails ensures a Get/Pop-style reader of a name
// never exposed anywhere earlier in scope is rejected at compose time rather
// than surfacing as a nil-cell panic at runtime.
func TestRequiredVariableMissingFails(t *testing.T) {
	w := NewWire([]Shard{getShard("never-declared")})
	res := NewComposer(nil).ComposeWire(w, xtype.None)
	if !res.Failed {
		t.Fatalf("expected a read of an undeclared variable to fail compose")
	}
}
