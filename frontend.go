package swr

import (
	"github.com/gogpu/swr/internal/arena"
	"github.com/gogpu/swr/prim"
	"github.com/gogpu/swr/wide"
)

// processDraw runs one draw through the geometry front end on a worker
// goroutine: fetch, vertex shade, primitive assembly, then whichever
// downstream stages the draw enables. Instances run outermost so
// stream-out output stays in API order.
func processDraw(dc *DrawContext, wc *workerContext, f drawFeatures) {
	state := &dc.state
	work := &dc.work
	topo := state.Topology

	// Non-indexed draws drop trailing vertices that cannot form a whole
	// primitive. Indexed draws keep every slot; the index window below
	// masks fetches past the bound buffer instead.
	endVertex := int(work.numVerts)
	if !f.indexed {
		endVertex = int(topo.VertexCount(topo.PrimitiveCount(work.numVerts)))
	}

	var gsb gsBuffers
	if f.gs {
		gsb = allocGSBuffers(dc.arena, &state.GS)
	}
	var primData []uint32
	if f.streamOut {
		primData = arena.Alloc[uint32](dc.arena, soRecordBytes/4)
	}

	store := wc.ensureVertexStore(prim.StoreBatches(topo, f.gs))
	pa := prim.NewDrawAssembler(prim.Config{
		Topology:         topo,
		TotalVerts:       uint32(endVertex),
		Store:            store,
		IncludeAdjacency: f.gs,
	}, f.indexed, f.cutIndex)
	corners := pa.Corners()

	var clipFn clipFunc
	if f.rast && !f.tess && !f.gs {
		clipFn = clipFuncForVerts(corners)
	}

	fc := &wc.fetch
	*fc = FetchContext{
		Layout:           state.Fetch.Layout,
		Buffers:          state.Fetch.Buffers,
		PrimitiveRestart: f.cutIndex,
		BaseVertex:       work.baseVertex,
		StartVertex:      work.startVertex,
		StartInstance:    work.startInstance,
		NumSlots:         endVertex,
	}
	if f.indexed {
		ib := &state.Fetch.Index
		fc.IndexFormat = ib.Format
		w := ib.Format.Bytes()
		start := int(work.startIndex) * w
		if start > len(ib.Data) {
			start = len(ib.Data)
		}
		fc.IndexData = ib.Data[start:]
		if avail := len(fc.IndexData) / w; avail < fc.NumSlots {
			fc.NumSlots = avail
		}
	}

	vc := VertexContext{In: &wc.vin}

	for inst := uint32(0); inst < work.numInstances; inst++ {
		fc.Instance = inst
		vc.InstanceID = inst

		i := 0
		for pa.HasWork() {
			// The batch slot and its cut mask advance together even past
			// endVertex; late iterations only drain assembled groups.
			vout := pa.NextVertexBatch()
			cutDst := pa.NextCutMask()

			if i < endVertex {
				fc.Base = i
				state.FetchFunc(fc, &wc.vin)
				if cutDst != nil {
					*cutDst = fc.CutMask
				}

				n := endVertex - i
				if n > wide.Width {
					n = wide.Width
				}
				vc.Out = vout
				vc.VertexID = fc.VertexID
				vc.Mask = wide.MaskN(n)
				state.VertexFunc(&vc)

				dc.stats.IaVertices += uint64(n)
				dc.stats.VsInvocations += uint64(n)
			}

			for {
				if pa.Assemble(prim.SlotPosition, wc.prims[:corners]) {
					dc.stats.IaPrimitives += uint64(pa.NumPrims())
					primID := pa.PrimID(work.startPrim)
					switch {
					case f.tess:
						tessellationStage(dc, wc, pa, &gsb, primData, primID, f)
					case f.gs:
						geometryStage(dc, wc, pa, &gsb, primData, primID, f)
					default:
						if f.streamOut {
							streamOut(dc, wc, pa, primData, 0)
						}
						if f.rast {
							clipFn(dc.binner, dc, pa, wc.id, wc.prims[:corners],
								wide.MaskN(pa.NumPrims()), primID, wide.I32x8{})
						}
					}
				}
				if !pa.NextPrim() {
					break
				}
			}

			i += wide.Width
		}

		pa.Reset()
	}
}

// processSync forwards a sync barrier to macrotile (0, 0); the tile
// manager runs Done once every earlier item on that tile has drained.
func processSync(dc *DrawContext, done func()) {
	dc.tileMgr.Enqueue(0, 0, &TileWork{Kind: TileWorkSync, Draw: dc, Done: done})
}

// processShutdown fans one shutdown item out per worker so every
// back-end consumer observes the stop.
func processShutdown(dc *DrawContext) {
	w := &TileWork{Kind: TileWorkShutdown, Draw: dc}
	for i := 0; i < dc.ctx.pool.Workers(); i++ {
		dc.tileMgr.Enqueue(i, 0, w)
	}
}

// processClear clamps the clear to the render target and enqueues it to
// every covered macrotile.
func processClear(dc *DrawContext, desc *ClearDesc) {
	d := *desc
	d.Rect = d.Rect.Intersect(dc.ctx.bounds())
	if d.Rect.Empty() {
		return
	}
	w := &TileWork{Kind: TileWorkClear, Draw: dc, Clear: d}
	x0, y0, x1, y1 := macroTileSpan(d.Rect)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dc.tileMgr.Enqueue(x, y, w)
		}
	}
}

// processStoreTiles enqueues a store to every macrotile the rect
// touches.
func processStoreTiles(dc *DrawContext, desc *StoreTilesDesc) {
	if desc.Rect.Empty() {
		return
	}
	w := &TileWork{Kind: TileWorkStore, Draw: dc, Store: *desc}
	x0, y0, x1, y1 := macroTileSpan(desc.Rect)
	x1, y1 = dc.ctx.clampTile(x1, y1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dc.tileMgr.Enqueue(x, y, w)
		}
	}
}

// processDiscardInvalidateTiles enqueues an invalidate to the covered
// macrotiles. With FullTilesOnly the bounds round inward so partially
// covered tiles survive; the span can then be empty.
func processDiscardInvalidateTiles(dc *DrawContext, desc *DiscardInvalidateDesc) {
	if desc.Rect.Empty() {
		return
	}
	var x0, y0, x1, y1 int
	if desc.FullTilesOnly {
		x0 = (desc.Rect.XMin + MacroTileWidth - 1) / MacroTileWidth
		y0 = (desc.Rect.YMin + MacroTileHeight - 1) / MacroTileHeight
		x1 = desc.Rect.XMax/MacroTileWidth - 1
		y1 = desc.Rect.YMax/MacroTileHeight - 1
	} else {
		x0, y0, x1, y1 = macroTileSpan(desc.Rect)
	}
	x1, y1 = dc.ctx.clampTile(x1, y1)
	if x1 < x0 || y1 < y0 {
		return
	}
	w := &TileWork{Kind: TileWorkDiscard, Draw: dc, Discard: *desc}
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			dc.tileMgr.Enqueue(x, y, w)
		}
	}
}
