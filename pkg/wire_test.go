package shardmesh

import (
	"testing"
	"time"

	"github.com/shardmesh/shardmesh/internal/value"
	"github.com/shardmesh/shardmesh/internal/xtype"
)

// TestWireLifecycleHookOrder confirms Warmup runs once before any Activate,
// and Cleanup runs in reverse shard order once the wire reaches a terminal
// state.
func TestWireLifecycleHookOrder(t *testing.T) {
	var log []string
	first := newLifecycleShard(&log)
	second := newLifecycleShard(&log)

	w := NewWire([]Shard{first, second, stopShard()}, WithWireName("lifecycle"))
	res := NewComposer(nil).ComposeWire(w, xtype.None)
	if res.Failed {
		t.Fatalf("compose failed: %s", res.Message)
	}

	mesh := NewMesh(time.Unix(0, 0))
	mesh.Schedule(w, value.None())

	now := time.Unix(0, 0)
	for i := 0; i < 4; i++ {
		mesh.Tick(now)
		if _, active := mesh.nodes[w]; !active {
			break
		}
		now = now.Add(10 * time.Millisecond)
	}
	if _, active := mesh.nodes[w]; active {
		t.Fatalf("wire did not finish")
	}

	want := []string{"warmup", "warmup", "activate", "activate", "cleanup", "cleanup"}
	if len(log) != len(want) {
		t.Fatalf("hook log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("hook log = %v, want %v", log, want)
		}
	}
	mesh.Terminate()
}

// TestSetThenGetSurvivesReleaseBetweenShards guards against a regression
// where releasing a variable's reference count back to zero between shard
// activations destroyed its value: Set must leave the value intact for a
// later Get in the same wire.
func TestSetThenGetSurvivesReleaseBetweenShards(t *testing.T) {
	w := NewWire([]Shard{
		constShard(value.NewInt(7)), setShard("n"), getShard("n"),
	}, WithWireName("set-then-get"))
	res := NewComposer(nil).ComposeWire(w, xtype.None)
	if res.Failed {
		t.Fatalf("compose failed: %s", res.Message)
	}

	mesh := NewMesh(time.Unix(0, 0))
	mesh.Schedule(w, value.None())

	now := time.Unix(0, 0)
	for i := 0; i < 4; i++ {
		mesh.Tick(now)
		if _, active := mesh.nodes[w]; !active {
			break
		}
		now = now.Add(10 * time.Millisecond)
	}

	if got := w.FinishedOutput().Int(); got != 7 {
		t.Fatalf("FinishedOutput = %d, want 7 (value must survive the Set call's own release)", got)
	}
	mesh.Terminate()
}
