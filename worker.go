package swr

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/swr/prim"
	"github.com/gogpu/swr/wide"
)

// poolWork is one unit of front-end work. It runs with the scratch of
// whichever worker picks it up.
type poolWork func(wc *workerContext)

// workerContext is the per-worker scratch a draw executes with. Buffers
// grow to the high-water mark of the draws a worker has seen and are
// reused across draws; nothing here is shared between workers.
type workerContext struct {
	id int

	// vin receives fetched vertices; the vertex shader reads it and
	// writes into the assembler's store.
	vin prim.VertexBatch

	// prims is the assembly gather target, sized for the largest
	// footprint any topology requests.
	prims [prim.MaxVertsPerPrim]wide.Vec4x8

	// soVerts is the scalar gather target for stream-out records.
	soVerts [prim.MaxVertsPerPrim]wide.Vec4f

	// vertexStore backs the draw assembler's batch ring.
	vertexStore []prim.VertexBatch

	fetch FetchContext

	// Geometry-shader scratch.
	gsIn     []prim.VertexBatch
	gsCounts [][wide.Width]uint32
	gsPa     *prim.CutAssembler
	gsPaTopo prim.Topology

	// tess is allocated on first use; most draws never tessellate.
	tess *tessWorkerData
}

// ensureVertexStore returns a batch ring of at least n batches.
func (wc *workerContext) ensureVertexStore(n int) []prim.VertexBatch {
	if len(wc.vertexStore) < n {
		wc.vertexStore = make([]prim.VertexBatch, n)
	}
	return wc.vertexStore[:n]
}

// ensureGSIn returns the geometry-shader input window for n corners.
func (wc *workerContext) ensureGSIn(n int) []prim.VertexBatch {
	if len(wc.gsIn) < n {
		wc.gsIn = make([]prim.VertexBatch, n)
	}
	return wc.gsIn[:n]
}

// ensureGSCounts returns the per-instance emit count table for n
// instances.
func (wc *workerContext) ensureGSCounts(n int) [][wide.Width]uint32 {
	if len(wc.gsCounts) < n {
		wc.gsCounts = make([][wide.Width]uint32, n)
	}
	return wc.gsCounts[:n]
}

// workerPool runs front-end work across a set of goroutines.
//
// The pool distributes work items across multiple workers, each with
// their own queue. Workers can steal work from other workers when their
// own queue is empty, which balances load when some draws are slower
// than others. Each worker owns one workerContext; stolen work simply
// runs with the thief's scratch.
//
// Thread safety: workerPool is safe for concurrent use.
type workerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// workQueues holds per-worker work queues.
	workQueues []chan poolWork

	// contexts holds each worker's scratch, indexed by worker ID.
	contexts []*workerContext

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool
}

// newWorkerPool creates a worker pool with the specified number of
// workers. If workers is 0 or negative, GOMAXPROCS is used. The pool
// starts immediately and workers begin waiting for work.
func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Queue buffer of a few items per worker hides submission latency.
	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &workerPool{
		workers:    workers,
		workQueues: make([]chan poolWork, workers),
		contexts:   make([]*workerContext, workers),
		done:       make(chan struct{}),
	}

	for i := range workers {
		p.workQueues[i] = make(chan poolWork, queueSize)
		p.contexts[i] = &workerContext{id: i}
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}

	return p
}

// worker is the main loop for each worker goroutine.
func (p *workerPool) worker(id int) {
	defer p.wg.Done()

	wc := p.contexts[id]
	myQueue := p.workQueues[id]

	for {
		select {
		case <-p.done:
			// Drain remaining work before exiting
			p.drainQueue(myQueue, wc)
			return

		case work := <-myQueue:
			if work != nil {
				work(wc)
			}

		default:
			// Try to steal work from another worker
			if stolen := p.steal(id); stolen != nil {
				stolen(wc)
			} else {
				// No work available anywhere, block on own queue
				select {
				case <-p.done:
					p.drainQueue(myQueue, wc)
					return
				case work := <-myQueue:
					if work != nil {
						work(wc)
					}
				}
			}
		}
	}
}

// drainQueue executes all remaining work in a queue.
func (p *workerPool) drainQueue(queue chan poolWork, wc *workerContext) {
	for {
		select {
		case work := <-queue:
			if work != nil {
				work(wc)
			}
		default:
			return
		}
	}
}

// steal attempts to take work from another worker's queue.
// Returns nil if no work is available.
func (p *workerPool) steal(myID int) poolWork {
	for i := range p.workers {
		if i == myID {
			continue
		}

		select {
		case work := <-p.workQueues[i]:
			return work
		default:
			// Queue is empty, try next
		}
	}
	return nil
}

// submit sends a single work item to the pool, targeting the worker with
// the shortest queue. It reports false if the pool is closed.
func (p *workerPool) submit(fn poolWork) bool {
	if fn == nil || !p.running.Load() {
		return false
	}

	minLen := len(p.workQueues[0])
	minIdx := 0
	for i := 1; i < p.workers; i++ {
		qLen := len(p.workQueues[i])
		if qLen < minLen {
			minLen = qLen
			minIdx = i
		}
	}

	select {
	case p.workQueues[minIdx] <- fn:
		return true
	case <-p.done:
		return false
	}
}

// close gracefully shuts down the pool.
// It stops accepting new work, waits for all queued work to complete,
// and then stops all workers.
// close is safe to call multiple times.
func (p *workerPool) close() {
	if !p.running.CompareAndSwap(true, false) {
		// Already closed
		return
	}

	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *workerPool) Workers() int {
	return p.workers
}
