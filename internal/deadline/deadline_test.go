package deadline

import (
	"testing"
	"time"
)

func TestAdvanceReturnsOnlyDueTokens(t *testing.T) {
	start := time.Unix(0, 0)
	w := New[string](100*time.Millisecond, start)

	w.Schedule("soon", start.Add(50*time.Millisecond))
	w.Schedule("later", start.Add(500*time.Millisecond))

	due := w.Advance(start.Add(60 * time.Millisecond))
	if len(due) != 1 || due[0] != "soon" {
		t.Fatalf("Advance(60ms) = %v, want [soon]", due)
	}
}

func TestAdvanceNotYetDueReturnsNothing(t *testing.T) {
	start := time.Unix(0, 0)
	w := New[string](100*time.Millisecond, start)
	w.Schedule("far", start.Add(time.Second))

	due := w.Advance(start.Add(10 * time.Millisecond))
	if len(due) != 0 {
		t.Fatalf("Advance before any deadline = %v, want none due", due)
	}
	if w.Len() != 1 {
		t.Fatalf("token should remain scheduled, Len() = %d, want 1", w.Len())
	}
}

func TestAdvancePastMultipleDeadlinesReturnsAllDue(t *testing.T) {
	start := time.Unix(0, 0)
	w := New[string](50*time.Millisecond, start)
	w.Schedule("a", start.Add(10*time.Millisecond))
	w.Schedule("b", start.Add(80*time.Millisecond))
	w.Schedule("c", start.Add(140*time.Millisecond))

	due := w.Advance(start.Add(200 * time.Millisecond))
	if len(due) != 3 {
		t.Fatalf("Advance far past every deadline should return all 3 tokens, got %v", due)
	}
	if w.Len() != 0 {
		t.Fatalf("Len() = %d after draining every token, want 0", w.Len())
	}
}

func TestNotYetDueEntrySharingABucketSurvivesRotation(t *testing.T) {
	// "near" and "far" round into the same bucket (both floor to the same
	// unit under a 1s resolution) but have different actual deadlines:
	// draining the bucket for "near" must not also report "far", and must
	// not lose it either.
	start := time.Unix(0, 0)
	w := New[string](time.Second, start)
	w.Schedule("near", start.Add(100*time.Millisecond))
	w.Schedule("far", start.Add(900*time.Millisecond))

	due := w.Advance(start.Add(200 * time.Millisecond))
	if len(due) != 1 || due[0] != "near" {
		t.Fatalf("Advance(200ms) = %v, want only [near] due ('far' deadline is 900ms)", due)
	}
	if w.Len() != 1 {
		t.Fatalf("'far' should remain scheduled, Len() = %d, want 1", w.Len())
	}

	due = w.Advance(start.Add(950 * time.Millisecond))
	if len(due) != 1 || due[0] != "far" {
		t.Fatalf("Advance(950ms) = %v, want [far] now due", due)
	}
}

func TestAdvanceBeforeEpochIsANoop(t *testing.T) {
	start := time.Unix(100, 0)
	w := New[string](time.Second, start)
	w.Schedule("x", start.Add(time.Second))
	due := w.Advance(start.Add(-time.Second))
	if len(due) != 0 {
		t.Fatalf("Advance with a time before epoch should report nothing due, got %v", due)
	}
}

func TestLenCountsAcrossAllBuckets(t *testing.T) {
	start := time.Unix(0, 0)
	w := New[int](time.Millisecond, start)
	for i := 0; i < 10; i++ {
		w.Schedule(i, start.Add(time.Duration(i)*time.Millisecond))
	}
	if w.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", w.Len())
	}
}

func TestNewPanicsOnNonPositiveResolution(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected New to panic on a non-positive resolution")
		}
	}()
	New[string](0, time.Unix(0, 0))
}
