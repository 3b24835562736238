package meshring

import "testing"

func collect(r *Ring[string]) []string {
	var out []string
	r.Each(func(n *Node[string]) bool {
		out = append(out, n.Value)
		return true
	})
	return out
}

func TestAppendPreservesInsertionOrder(t *testing.T) {
	r := &Ring[string]{}
	r.Append("a")
	r.Append("b")
	r.Append("c")
	got := collect(r)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
}

func TestRemoveMiddleNodePreservesRemainingOrder(t *testing.T) {
	r := &Ring[string]{}
	r.Append("a")
	nb := r.Append("b")
	r.Append("c")
	r.Remove(nb)
	got := collect(r)
	want := []string{"a", "c"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
}

func TestRemoveHeadRetargetsHead(t *testing.T) {
	r := &Ring[string]{}
	na := r.Append("a")
	r.Append("b")
	r.Remove(na)
	got := collect(r)
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("got %v, want [b]", got)
	}
}

func TestRemoveLastNodeEmptiesRing(t *testing.T) {
	r := &Ring[string]{}
	na := r.Append("solo")
	r.Remove(na)
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
	if got := collect(r); len(got) != 0 {
		t.Fatalf("expected an empty ring, got %v", got)
	}
}

func TestRemoveTwiceIsANoop(t *testing.T) {
	r := &Ring[string]{}
	na := r.Append("a")
	r.Append("b")
	r.Remove(na)
	r.Remove(na) // must not panic or double-decrement Len
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after removing the same node twice", r.Len())
	}
}

func TestEachAllowsRemovingCurrentNodeDuringWalk(t *testing.T) {
	r := &Ring[string]{}
	na := r.Append("a")
	r.Append("b")
	r.Append("c")

	var seen []string
	r.Each(func(n *Node[string]) bool {
		seen = append(seen, n.Value)
		if n.Value == "a" {
			r.Remove(na)
		}
		return true
	})
	if len(seen) != 3 {
		t.Fatalf("walk should still visit every node present at snapshot time, got %v", seen)
	}
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 after removing one node mid-walk", r.Len())
	}
}

func TestEachStopsEarlyWhenFnReturnsFalse(t *testing.T) {
	r := &Ring[string]{}
	r.Append("a")
	r.Append("b")
	r.Append("c")

	var seen []string
	r.Each(func(n *Node[string]) bool {
		seen = append(seen, n.Value)
		return n.Value != "b"
	})
	if len(seen) != 2 {
		t.Fatalf("Each should stop after the second node, got %v", seen)
	}
}

func TestEachOnEmptyRingDoesNothing(t *testing.T) {
	r := &Ring[string]{}
	called := false
	r.Each(func(n *Node[string]) bool {
		called = true
		return true
	})
	if called {
		t.Fatalf("Each on an empty ring should never invoke fn")
	}
}
