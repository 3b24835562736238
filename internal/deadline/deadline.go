// Package deadline provides the bucketed timer wheel that Mesh.tick uses to
// cheaply decide which scheduled wires have reached their `next` resume
// deadline (§4.I: "if it has not yet reached its next deadline (monotonic
// clock), skip; else resume its coroutine"). Walking every scheduled wire on
// every tick to compare timestamps is the obvious approach but scales
// linearly with mesh size for what is usually a tiny "due" subset; a wheel
// turns that into an O(buckets-advanced) scan instead.
//
// The structure is adapted from the teacher repo's generation ring
// (genring.Ring's Rotate): the same "rotate past the slots whose
// window has elapsed, hand back what fell out" idiom used there for arena
// TTL rotation is reused here for wire deadlines, with the per-generation
// arena accounting dropped (a Mesh has no byte budget to track, only time).
//
// © 2025 shardmesh authors. MIT License.
package deadline

import (
	"time"
)

// entry pairs a scheduled token with the absolute deadline it was registered
// under. Because many deadlines can round into the same bucket, Advance
// re-checks each entry's real deadline before reporting it due.
type entry[T any] struct {
	token    T
	deadline time.Time
}

// Wheel buckets tokens by their deadline's position within a fixed-size ring
// of time slices, each spanning `resolution`. It is not safe for concurrent
// use; Mesh already serializes access to it under its own tick loop.
type Wheel[T any] struct {
	buckets    [][]entry[T]
	resolution time.Duration
	epoch      time.Time // time.Time that bucket 0 last started at
	cursor     int       // bucket index corresponding to epoch
}

const defaultBuckets = 64

// New constructs a wheel with the given tick resolution (the granularity at
// which Advance can distinguish due vs. not-yet-due), anchored at `start`
// (typically time.Now() from the caller -- this package never calls
// time.Now() itself so behavior stays deterministic under test).
func New[T any](resolution time.Duration, start time.Time) *Wheel[T] {
	if resolution <= 0 {
		panic("deadline: resolution must be positive")
	}
	return &Wheel[T]{
		buckets:    make([][]entry[T], defaultBuckets),
		resolution: resolution,
		epoch:      start,
	}
}

// indexFor returns the bucket slot a deadline falls into, measured in whole
// resolution units from the wheel's epoch, wrapped into the ring. Deadlines
// further out than defaultBuckets*resolution still land in a slot -- they
// just share it with nearer ones and get re-validated on Advance.
func (w *Wheel[T]) indexFor(d time.Time) int {
	if d.Before(w.epoch) {
		return w.cursor
	}
	units := int64(d.Sub(w.epoch) / w.resolution)
	return (w.cursor + int(units)) % len(w.buckets)
}

// Schedule registers token as due at deadline.
func (w *Wheel[T]) Schedule(token T, deadline time.Time) {
	idx := w.indexFor(deadline)
	w.buckets[idx] = append(w.buckets[idx], entry[T]{token: token, deadline: deadline})
}

// Advance moves the wheel's notion of "now" forward to `now`, returning every
// token whose registered deadline has passed. Tokens still not due that were
// swept out of a rotated bucket are re-inserted at their real deadline's
// slot so they are not lost.
func (w *Wheel[T]) Advance(now time.Time) []T {
	if now.Before(w.epoch) {
		return nil
	}
	elapsed := int64(now.Sub(w.epoch) / w.resolution)
	if elapsed <= 0 {
		return w.drainDueInPlace(now)
	}

	var due []T
	var pending []entry[T]
	steps := elapsed
	if steps > int64(len(w.buckets)) {
		steps = int64(len(w.buckets)) // never walk further than one full lap
	}
	for i := int64(0); i < steps; i++ {
		bucket := w.buckets[w.cursor]
		w.buckets[w.cursor] = nil
		for _, e := range bucket {
			if !e.deadline.After(now) {
				due = append(due, e.token)
			} else {
				// not actually due yet (shared a bucket with a nearer
				// deadline); keep it scheduled at its real slot once the
				// epoch has moved forward.
				pending = append(pending, e)
			}
		}
		w.cursor = (w.cursor + 1) % len(w.buckets)
	}
	w.epoch = w.epoch.Add(time.Duration(elapsed) * w.resolution)
	for _, e := range pending {
		idx := w.indexFor(e.deadline)
		w.buckets[idx] = append(w.buckets[idx], e)
	}
	due = append(due, w.drainDueInPlace(now)...)
	return due
}

// drainDueInPlace scans the current bucket (and only the current bucket)
// for entries already due without rotating -- used when `now` has not yet
// crossed a full resolution unit since the last Advance, which is the
// common case on a fast tick loop.
func (w *Wheel[T]) drainDueInPlace(now time.Time) []T {
	bucket := w.buckets[w.cursor]
	if len(bucket) == 0 {
		return nil
	}
	var due []T
	kept := bucket[:0]
	for _, e := range bucket {
		if !e.deadline.After(now) {
			due = append(due, e.token)
		} else {
			kept = append(kept, e)
		}
	}
	w.buckets[w.cursor] = kept
	return due
}

// Len reports the total number of tokens currently held across all buckets.
func (w *Wheel[T]) Len() int {
	n := 0
	for _, b := range w.buckets {
		n += len(b)
	}
	return n
}
