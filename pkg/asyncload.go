package shardmesh

// asyncload.go implements §5's asyncActivate primitive: a shard posts a
// side-effectful task to the mesh's shared worker pool and suspends its
// wire; the task's completion resumes the coroutine. From the core's
// perspective this remains a single suspension point, same as any other
// shard activate that cooperatively yields.
//
// The worker pool itself is adapted from the teacher's singleflight-backed
// loaderGroup (pkg/loader.go): where the teacher de-duplicates concurrent
// loads of the same cache key, here there is no de-duplication concern (each
// asyncActivate call is already a single logical task), so only the
// worker-pool shape is kept, built on golang.org/x/sync/errgroup to manage a
// fixed set of long-lived worker goroutines and drain them cleanly on
// Mesh.Terminate.
//
// © 2025 shardmesh authors. MIT License.

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shardmesh/shardmesh/internal/value"
)

// asyncPendingHorizon is how far out AsyncActivate parks a wire's wheel
// deadline while its task runs: comfortably past any real tick interval, so
// Tick's wheel sweep never re-marks the wire due on its own. Only markReady
// (the task's completion callback) puts it back in a tick's due set.
const asyncPendingHorizon = 24 * time.Hour

// workerPool runs submitted jobs on a fixed number of goroutines.
type workerPool struct {
	jobs chan func()
	g    *errgroup.Group
	once sync.Once
}

func newWorkerPool(n int) *workerPool {
	if n <= 0 {
		n = 1
	}
	p := &workerPool{jobs: make(chan func(), n*4)}
	var g errgroup.Group
	p.g = &g
	for i := 0; i < n; i++ {
		g.Go(func() error {
			for job := range p.jobs {
				job()
			}
			return nil
		})
	}
	return p
}

func (p *workerPool) submit(job func()) { p.jobs <- job }

func (p *workerPool) close() {
	p.once.Do(func() {
		close(p.jobs)
		_ = p.g.Wait()
	})
}

// AsyncTask is the side-effectful unit of work a shard hands to
// AsyncActivate. Cancel, when set, is invoked instead of Run when the
// wire's Context is already cancelled at submission time.
type AsyncTask struct {
	Run    func() (value.Value, error)
	Cancel func()
}

// NewAsyncTask builds an AsyncTask around run, with no cancellation hook.
// Shards that only need the common case call this instead of constructing
// an AsyncTask literal.
func NewAsyncTask(run func() (value.Value, error)) AsyncTask {
	return AsyncTask{Run: run}
}

// AsyncActivate posts task.Run to the mesh's worker pool and suspends the
// calling wire until it completes, then resumes with the task's result (or
// cancels the Flow with its error). Shards that need bounded side-effectful
// work (file I/O, network calls) call this from within Activate instead of
// performing the work inline on the mesh's single tick goroutine.
func AsyncActivate(ctx *Context, task AsyncTask) value.Value {
	if ctx.cancelled {
		if task.Cancel != nil {
			task.Cancel()
		}
		return value.None()
	}
	if ctx.coroutine == nil || ctx.yielder == nil {
		ctx.cancelFlow(ErrNoCoroutineAttached.Error())
		return value.None()
	}

	w := ctx.currentWire()
	mesh := ctx.mesh

	var result value.Value
	var taskErr error
	mesh.pool.submit(func() {
		result, taskErr = task.Run()
		mesh.markReady(w)
	})

	// Park well past the wheel's natural sweep: otherwise Tick's next
	// Advance call re-marks this wire due before task.Run has necessarily
	// completed, and the coroutine resumes reading a data race on
	// result/taskErr instead of waiting for markReady.
	ctx.next = time.Now().Add(asyncPendingHorizon)
	ctx.yielder.Suspend()

	if taskErr != nil {
		ctx.cancelFlow(taskErr.Error())
		return value.None()
	}
	return result
}

// markReady records that w's pending asyncActivate has completed and should
// be considered due on the next Tick, regardless of its prior deadline-wheel
// entry. Called from worker-pool goroutines, so it only ever touches the
// mutex-protected ready queue -- never the wheel or ring directly, both of
// which are single-mesh-thread-owned per §5.
func (m *Mesh) markReady(w *Wire) {
	m.readyMu.Lock()
	m.ready = append(m.ready, w)
	m.readyMu.Unlock()
}

// drainReady returns and clears the set of wires marked ready since the last
// drain, for Tick to fold into this call's due set.
func (m *Mesh) drainReady() []*Wire {
	m.readyMu.Lock()
	out := m.ready
	m.ready = nil
	m.readyMu.Unlock()
	return out
}
