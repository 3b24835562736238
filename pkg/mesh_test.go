package shardmesh

// mesh_test.go exercises the compose/schedule/tick path end-to-end against
// the scenarios laid out informally in the design notes: a pure arithmetic
// pipeline, a variable roundtrip, an explicit Stop, a Restart-driven loop,
// a compose-time type mismatch, and two wires trading data through a global
// queue.

import (
	"testing"
	"time"

	"github.com/shardmesh/shardmesh/internal/value"
	"github.com/shardmesh/shardmesh/internal/xtype"
)

func composeOrFail(t *testing.T, w *Wire) ComposeResult {
	t.Helper()
	res := NewComposer(nil).ComposeWire(w, xtype.None)
	if res.Failed {
		t.Fatalf("wire %q failed to compose: %s", w.WireName(), res.Message)
	}
	return res
}

// runToCompletion resumes mesh ticks until wire leaves the active set or the
// guard is exhausted, whichever comes first.
func runToCompletion(t *testing.T, mesh *Mesh, w *Wire, guard int) {
	t.Helper()
	now := time.Unix(0, 0)
	for i := 0; i < guard; i++ {
		mesh.Tick(now)
		if _, active := mesh.nodes[w]; !active {
			return
		}
		now = now.Add(10 * time.Millisecond)
	}
	t.Fatalf("wire %q did not finish within %d ticks", w.WireName(), guard)
}

// S1: a pure arithmetic pipeline, [Const 21, Math.Multiply 2].
func TestArithmeticPipeline(t *testing.T) {
	w := NewWire([]Shard{constShard(value.NewInt(21)), mathMultiplyShard(2)}, WithWireName("s1-arithmetic"))
	composeOrFail(t, w)

	mesh := NewMesh(time.Unix(0, 0))
	mesh.Schedule(w, value.None())
	runToCompletion(t, mesh, w, 8)

	if w.State() != WireEnded {
		t.Fatalf("expected WireEnded, got %v", w.State())
	}
	if got := w.FinishedOutput().Int(); got != 42 {
		t.Fatalf("FinishedOutput = %d, want 42", got)
	}
	mesh.Terminate()
}

// S2: a Set/Get variable roundtrip within a single wire.
func TestVariableRoundtrip(t *testing.T) {
	w := NewWire([]Shard{constShard(value.NewString("hi")), setShard("x"), getShard("x")}, WithWireName("s2-roundtrip"))
	composeOrFail(t, w)

	mesh := NewMesh(time.Unix(0, 0))
	mesh.Schedule(w, value.None())
	runToCompletion(t, mesh, w, 8)

	if got := w.FinishedOutput().Str(); got != "hi" {
		t.Fatalf("FinishedOutput = %q, want %q", got, "hi")
	}
	mesh.Terminate()
}

// S3: an explicit Stop shard ends the wire's single iteration early, with the
// stopped value surfacing as FinishedOutput.
func TestFlowStop(t *testing.T) {
	w := NewWire([]Shard{constShard(value.NewInt(1)), stopShard()}, WithWireName("s3-stop"))
	composeOrFail(t, w)
	if !w.FlowStopping() {
		t.Fatalf("expected FlowStopping, a Stop shard ends the shard list")
	}

	mesh := NewMesh(time.Unix(0, 0))
	mesh.Schedule(w, value.None())
	runToCompletion(t, mesh, w, 8)

	if w.State() != WireEnded {
		t.Fatalf("expected WireEnded, got %v", w.State())
	}
	if got := w.FinishedOutput().Int(); got != 1 {
		t.Fatalf("FinishedOutput = %d, want 1", got)
	}
	mesh.Terminate()
}

// S4: a looped wire restarts on its own exposed counter until the counter
// reaches the threshold, then settles into running without restarting.
func TestRestartLoop(t *testing.T) {
	w := NewWire(
		[]Shard{incrementShard("i"), isLessShard(3), whenRestartShard()},
		WithWireName("s4-restart-loop"), WithLooped(true),
	)
	composeOrFail(t, w)

	mesh := NewMesh(time.Unix(0, 0))
	mesh.Schedule(w, value.None())

	now := time.Unix(0, 0)
	mesh.Tick(now) // consumes the pre-loop suspend; no iteration runs yet
	for i := 0; i < 3; i++ {
		now = now.Add(10 * time.Millisecond)
		mesh.Tick(now)
	}

	if w.FinishedOutput().Bool() {
		t.Fatalf("after the counter clears the threshold, the wire should stop restarting")
	}
	if _, active := mesh.nodes[w]; !active {
		t.Fatalf("a looped wire with no Stop shard should remain active")
	}
	mesh.Terminate()
}

// S5: a compose-time type mismatch (String feeding a shard declared over Int)
// fails ComposeWire rather than panicking at runtime.
func TestComposeTypeMismatchFails(t *testing.T) {
	w := NewWire([]Shard{constShard(value.NewString("nope")), mathMultiplyShard(2)}, WithWireName("s5-mismatch"))
	res := NewComposer(nil).ComposeWire(w, xtype.None)
	if !res.Failed {
		t.Fatalf("expected compose to fail on a String->Int mismatch")
	}
}

// S6: two independently-scheduled wires trade data through a mesh-global
// queue: a producer pushes three ints and stops, a looped consumer pops one
// per tick.
func TestCrossWireQueue(t *testing.T) {
	mesh := NewMesh(time.Unix(0, 0))
	mesh.BindGlobal("q", value.NewSequence())

	globalScope := NewScope(nil)
	globalScope.Declare("q", xtype.Type{Kind: xtype.KindSequence}, "global")

	producer := NewWire([]Shard{
		constShard(value.NewInt(1)), pushShard("q"),
		constShard(value.NewInt(2)), pushShard("q"),
		constShard(value.NewInt(3)), pushShard("q"),
		stopShard(),
	}, WithWireName("s6-producer"))
	res := NewComposer(globalScope).ComposeWire(producer, xtype.None)
	if res.Failed {
		t.Fatalf("producer failed to compose: %s", res.Message)
	}

	consumer := NewWire([]Shard{popShard("q")}, WithWireName("s6-consumer"), WithLooped(true))
	res = NewComposer(globalScope).ComposeWire(consumer, xtype.None)
	if res.Failed {
		t.Fatalf("consumer failed to compose: %s", res.Message)
	}

	mesh.Schedule(producer, value.None())
	mesh.Schedule(consumer, value.None())

	now := time.Unix(0, 0)
	for i := 0; i < 8; i++ {
		mesh.Tick(now)
		now = now.Add(10 * time.Millisecond)
	}
	if _, active := mesh.nodes[producer]; active {
		t.Fatalf("producer should have stopped after pushing its three items")
	}

	q := mesh.refs["q"]
	if got := len(q.Val.Sequence().Elems); got != 0 {
		t.Fatalf("producer finished with %d items still queued, want 0 consumed by the looping consumer", got)
	}
	mesh.Terminate()
}
