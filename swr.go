package swr

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/gogpu/swr/internal/arena"
)

// ErrContextClosed is returned by submissions after Close.
var ErrContextClosed = errors.New("swr: context closed")

// defaultMaxDrawsInFlight bounds how many draws may be in flight before
// submission blocks. Each in-flight draw holds a pooled DrawContext and
// its arena.
const defaultMaxDrawsInFlight = 256

// Context is a geometry front end bound to a render-target size. Draws
// snapshot the pipeline state at submission and execute asynchronously
// on the worker pool; Flush waits for everything submitted so far.
//
// Context methods must be called from a single goroutine. The injected
// TileManager and Binner run on worker goroutines and must be safe for
// concurrent use.
type Context struct {
	width  int
	height int

	pool    *workerPool
	tileMgr TileManager
	binner  Binner

	// state is the current pipeline state; each draw captures a copy.
	state State

	drawPool sync.Pool
	drawSem  chan struct{}
	inFlight sync.WaitGroup
	drawID   atomic.Uint64
	closed   atomic.Bool

	stats          contextStats
	soWriteOffsets [MaxStreams]atomic.Uint32
}

// NewContext creates a front end for a width×height render target.
func NewContext(width, height int, opts ...ContextOption) *Context {
	if width <= 0 || height <= 0 {
		panic("swr: render target size must be positive")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Context{
		width:   width,
		height:  height,
		tileMgr: o.tileMgr,
		binner:  o.binner,
	}
	if c.tileMgr == nil {
		c.tileMgr = nopTileManager{}
	}
	if c.binner == nil {
		c.binner = nopBinner{}
	}
	c.pool = newWorkerPool(o.workers)
	c.drawSem = make(chan struct{}, o.maxDrawsInFlight)
	c.drawPool.New = func() any {
		return &DrawContext{arena: arena.New()}
	}

	Logger().Info("swr: context started",
		"width", width, "height", height, "workers", c.pool.Workers())
	return c
}

// Width returns the render-target width in pixels.
func (c *Context) Width() int { return c.width }

// Height returns the render-target height in pixels.
func (c *Context) Height() int { return c.height }

// SetState replaces the pipeline state for subsequent draws. In-flight
// draws keep the snapshot they were submitted with.
func (c *Context) SetState(s State) {
	c.state = s
}

// Flush blocks until every draw and work item submitted so far has
// retired.
func (c *Context) Flush() {
	c.inFlight.Wait()
}

// Sync enqueues a barrier behind everything submitted so far. The tile
// manager invokes fn on a worker once macrotile (0, 0) drains to it; the
// default no-op manager discards work items, so fn never fires without
// an injected manager.
func (c *Context) Sync(fn func()) error {
	if fn == nil {
		panic("swr: nil sync callback")
	}
	return c.submitWork(drawWork{}, func(dc *DrawContext, wc *workerContext) {
		processSync(dc, fn)
	})
}

// ClearRenderTarget queues a clear of the attachments in desc to every
// macrotile its rect covers. The rect is clamped to the render target.
func (c *Context) ClearRenderTarget(desc ClearDesc) error {
	return c.submitWork(drawWork{}, func(dc *DrawContext, wc *workerContext) {
		processClear(dc, &desc)
	})
}

// StoreTiles queues a flush of hot-tile contents to the attachments in
// desc, leaving the tiles in desc.PostState.
func (c *Context) StoreTiles(desc StoreTilesDesc) error {
	return c.submitWork(drawWork{}, func(dc *DrawContext, wc *workerContext) {
		processStoreTiles(dc, &desc)
	})
}

// DiscardInvalidateTiles queues an invalidate of the covered hot tiles
// without storing them.
func (c *Context) DiscardInvalidateTiles(desc DiscardInvalidateDesc) error {
	return c.submitWork(drawWork{}, func(dc *DrawContext, wc *workerContext) {
		processDiscardInvalidateTiles(dc, &desc)
	})
}

// StreamOutWriteOffset returns the byte write offset of stream-out
// buffer i as of the last retired draw that advanced it.
func (c *Context) StreamOutWriteOffset(i int) uint32 {
	return c.soWriteOffsets[i].Load()
}

// Stats returns a snapshot of the accumulated pipeline statistics.
// Draws contribute when they retire, so call Flush first for totals that
// cover everything submitted.
func (c *Context) Stats() Stats {
	return c.stats.snapshot()
}

// Close flushes outstanding work, fans a shutdown item out to the back
// end and stops the workers. Subsequent submissions return
// ErrContextClosed. Close is idempotent.
func (c *Context) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.inFlight.Wait()

	// Shutdown bypasses submitWork: the context is already marked closed
	// so user submissions are refused, while the pool still accepts this
	// final item and drains it before stopping.
	dc := c.drawPool.Get().(*DrawContext)
	dc.id = c.drawID.Add(1)
	dc.ctx = c
	dc.tileMgr = c.tileMgr
	dc.binner = c.binner
	c.pool.submit(func(wc *workerContext) {
		processShutdown(dc)
	})
	c.pool.close()
	c.drawPool.Put(dc)

	Logger().Info("swr: context closed", "draws", c.drawID.Load())
	return nil
}

func (c *Context) bounds() Rect {
	return Rect{XMax: c.width, YMax: c.height}
}

// clampTile clamps a macrotile coordinate to the hot-tile grid.
func (c *Context) clampTile(x, y int) (int, int) {
	if mx := (c.width - 1) / MacroTileWidth; x > mx {
		x = mx
	}
	if my := (c.height - 1) / MacroTileHeight; y > my {
		y = my
	}
	return x, y
}

// submitWork pairs a pooled DrawContext with fe and hands it to the
// worker pool. The draw semaphore caps contexts in flight; submission
// blocks once the cap is reached.
func (c *Context) submitWork(work drawWork, fe drawFunc) error {
	if c.closed.Load() {
		return ErrContextClosed
	}
	c.drawSem <- struct{}{}

	dc := c.drawPool.Get().(*DrawContext)
	dc.id = c.drawID.Add(1)
	dc.ctx = c
	dc.state = c.state
	dc.work = work
	dc.fe = fe
	dc.binner = c.binner
	dc.tileMgr = c.tileMgr

	c.inFlight.Add(1)
	if !c.pool.submit(dc.run) {
		id := dc.id
		c.inFlight.Done()
		<-c.drawSem
		dc.recycle()
		Logger().Debug("swr: work rejected after shutdown", "draw", id)
		return ErrContextClosed
	}
	return nil
}

// DrawContext carries one submitted work item through the front end:
// the state snapshot, the draw arguments, a per-draw arena and the
// draw's statistics. Binner and tile-manager implementations receive it
// with every piece of work a draw produces.
type DrawContext struct {
	id    uint64
	ctx   *Context
	state State
	work  drawWork
	fe    drawFunc

	arena *arena.Arena
	stats Stats
	dyn   dynState

	binner  Binner
	tileMgr TileManager
}

// dynState is draw-produced state published to the context when the
// draw retires.
type dynState struct {
	soWriteOffset      [MaxStreams]uint32
	soWriteOffsetDirty [MaxStreams]bool
}

// ID returns the draw's monotonically increasing submission ID.
func (dc *DrawContext) ID() uint64 { return dc.id }

// State returns the pipeline state snapshot the draw runs under. It is
// read-only.
func (dc *DrawContext) State() *State { return &dc.state }

// Arena returns the draw's arena. Allocations live until the draw
// retires.
func (dc *DrawContext) Arena() *arena.Arena { return dc.arena }

func (dc *DrawContext) run(wc *workerContext) {
	dc.fe(dc, wc)
	dc.retire()
}

// retire publishes the draw's results and recycles its context.
func (dc *DrawContext) retire() {
	c := dc.ctx
	c.stats.add(&dc.stats)
	for i := range dc.dyn.soWriteOffsetDirty {
		if dc.dyn.soWriteOffsetDirty[i] {
			c.soWriteOffsets[i].Store(dc.dyn.soWriteOffset[i])
		}
	}
	for s := 0; s < MaxStreams; s++ {
		if dc.stats.SoPrimStorageNeeded[s] > dc.stats.SoNumPrimsWritten[s] {
			Logger().Warn("swr: stream-out buffer overflow",
				"draw", dc.id, "stream", s,
				"needed", dc.stats.SoPrimStorageNeeded[s],
				"written", dc.stats.SoNumPrimsWritten[s])
		}
	}
	Logger().Debug("swr: draw retired", "draw", dc.id)

	dc.recycle()
	<-c.drawSem
	c.inFlight.Done()
}

// recycle clears per-draw data, drops the state snapshot's references
// and returns the context to the pool.
func (dc *DrawContext) recycle() {
	c := dc.ctx
	dc.arena.Reset()
	dc.state = State{}
	dc.work = drawWork{}
	dc.fe = nil
	dc.stats = Stats{}
	dc.dyn = dynState{}
	c.drawPool.Put(dc)
}
