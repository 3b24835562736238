package fiber

import (
	"errors"
	"testing"
)

func TestResumeDrivesBodyToFirstSuspend(t *testing.T) {
	var ran bool
	f := New(func(y *Yielder) {
		ran = true
		y.Suspend()
	})
	if f.Resume() {
		t.Fatalf("first Resume should suspend at the body's first Suspend call, not finish")
	}
	if !ran {
		t.Fatalf("body should have run up to its first Suspend")
	}
	if f.Done() {
		t.Fatalf("fiber should not be Done after a single suspend")
	}
}

func TestResumeRunsToCompletionWithNoSuspend(t *testing.T) {
	f := New(func(y *Yielder) {})
	if !f.Resume() {
		t.Fatalf("a body with no Suspend call should finish on the first Resume")
	}
	if !f.Done() {
		t.Fatalf("expected Done after body returned")
	}
}

func TestMultipleSuspendsRequireMatchingResumes(t *testing.T) {
	steps := 0
	f := New(func(y *Yielder) {
		steps++
		y.Suspend()
		steps++
		y.Suspend()
		steps++
	})
	if f.Resume() {
		t.Fatalf("expected first Resume to suspend before completion")
	}
	if steps != 1 {
		t.Fatalf("steps = %d after first Resume, want 1", steps)
	}
	if f.Resume() {
		t.Fatalf("expected second Resume to suspend before completion")
	}
	if steps != 2 {
		t.Fatalf("steps = %d after second Resume, want 2", steps)
	}
	if !f.Resume() {
		t.Fatalf("expected third Resume to finish the body")
	}
	if steps != 3 {
		t.Fatalf("steps = %d after third Resume, want 3", steps)
	}
}

func TestResumeAfterDoneIsANoop(t *testing.T) {
	f := New(func(y *Yielder) {})
	f.Resume()
	if !f.Resume() {
		t.Fatalf("Resume on an already-done fiber should report finished immediately")
	}
}

func TestStopUnwindsAPendingSuspend(t *testing.T) {
	cleanedUp := false
	f := New(func(y *Yielder) {
		defer func() { cleanedUp = true }()
		y.Suspend()
		t.Fatalf("body should never resume normally after Stop")
	})
	f.Resume() // parks at Suspend
	f.Stop()
	if !f.Done() {
		t.Fatalf("expected Done after Stop")
	}
	if f.Failed() {
		t.Fatalf("a Stop-induced unwind is a clean stop, not a Failed fiber: %v", f.Err())
	}
	if !cleanedUp {
		t.Fatalf("deferred cleanup inside the body should still run during a forced unwind")
	}
}

func TestStopOnAnAlreadyDoneFiberIsANoop(t *testing.T) {
	f := New(func(y *Yielder) {})
	f.Resume()
	f.Stop() // must not block or panic
	if !f.Done() {
		t.Fatalf("expected Done")
	}
}

func TestPanicInBodyMarksFailed(t *testing.T) {
	f := New(func(y *Yielder) {
		panic(errors.New("boom"))
	})
	if !f.Resume() {
		t.Fatalf("a panicking body should finish (unwind to Done) on Resume")
	}
	if !f.Failed() {
		t.Fatalf("expected Failed after a non-unwind panic")
	}
	if f.Err() == nil {
		t.Fatalf("expected a non-nil Err describing the panic")
	}
}
