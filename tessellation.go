package swr

import (
	"github.com/gogpu/swr/internal/arena"
	"github.com/gogpu/swr/prim"
	"github.com/gogpu/swr/wide"
)

// tessWorkerData is the tessellation scratch of one worker, allocated on
// the first tessellated draw the worker sees and reused afterwards. All
// buffers grow to high-water marks and never shrink.
type tessWorkerData struct {
	// hullIn holds the assembled control points, one batch per point.
	hullIn []prim.VertexBatch

	// patches receives hull-shader output, one patch per lane.
	patches [wide.Width]HullPatch

	// scratch backs tessellator contexts.
	scratch []byte

	// dsOut is the slot-major domain-shader output buffer.
	dsOut []wide.Vec4x8

	// pa assembles tessellated connectivity over dsOut.
	pa prim.TessAssembler
}

func (wc *workerContext) ensureTess() *tessWorkerData {
	if wc.tess == nil {
		wc.tess = &tessWorkerData{}
	}
	return wc.tess
}

func (td *tessWorkerData) ensureHullIn(n int) []prim.VertexBatch {
	if len(td.hullIn) < n {
		td.hullIn = make([]prim.VertexBatch, n)
	}
	return td.hullIn[:n]
}

func (td *tessWorkerData) ensureDSOut(n int) []wide.Vec4x8 {
	if len(td.dsOut) < n {
		td.dsOut = make([]wide.Vec4x8, n)
	}
	return td.dsOut[:n]
}

// tessellationStage shades the assembler's current group of patches,
// tessellates each one, evaluates the domain shader over the resulting
// points and drives the connectivity downstream: into the geometry
// shader when enabled, otherwise to stream-out and the clip/bin stage.
func tessellationStage(dc *DrawContext, wc *workerContext, pa prim.Assembler, gsb *gsBuffers, primData []uint32, primID wide.I32x8, f drawFeatures) {
	state := &dc.state
	ts := &state.Tess
	td := wc.ensureTess()

	numPatches := pa.NumPrims()
	if numPatches == 0 {
		return
	}
	cp := pa.Corners()

	// Build a tessellator context on worker scratch. An undersized
	// scratch is grown to the stated requirement and retried once.
	tsctx, need := state.Tessellator.Init(ts.Domain, ts.Partitioning, ts.OutputTopology, td.scratch)
	if tsctx == nil {
		td.scratch = make([]byte, need)
		Logger().Debug("swr: tessellator scratch grown", "bytes", need)
		tsctx, _ = state.Tessellator.Init(ts.Domain, ts.Partitioning, ts.OutputTopology, td.scratch)
		if tsctx == nil {
			panic("swr: tessellator rejected its stated scratch size")
		}
	}
	defer tsctx.Destroy()

	hullIn := td.ensureHullIn(cp)
	var tmp [prim.MaxVertsPerPrim]wide.Vec4x8
	for s := 0; s < ts.NumHsInputAttribs; s++ {
		slot := prim.SlotAttribStart + s
		pa.Assemble(slot, tmp[:cp])
		for k := 0; k < cp; k++ {
			hullIn[k].Attrib[slot] = tmp[k]
		}
	}

	hc := HullContext{
		InputVerts: hullIn,
		PrimID:     primID,
		Mask:       wide.MaskN(numPatches),
		Patches:    td.patches[:],
	}
	state.HullFunc(&hc)
	dc.stats.HsInvocations += uint64(numPatches)

	var clipFn clipFunc
	if f.rast && !f.gs {
		clipFn = clipFuncForTopology(ts.PostTessTopology)
	}
	postCorners := ts.PostTessTopology.AssembledVerts()

	for p := 0; p < numPatches; p++ {
		var tsData TessellatedData
		tsctx.Tessellate(&td.patches[p].Factors, &tsData)
		if tsData.NumPrimitives == 0 {
			continue
		}
		dc.stats.DsInvocations += uint64(tsData.NumDomainPoints)

		batches := arena.CeilDiv(int(tsData.NumDomainPoints), wide.Width)
		out := td.ensureDSOut(batches * ts.NumDsOutputAttribs)

		dcx := DomainContext{
			PrimID: uint32(primID[p]),
			Patch:  &td.patches[p],
			Out:    out,
			Stride: batches,
		}
		for b := 0; b < batches; b++ {
			dcx.BatchIndex = b
			dcx.U, _ = wide.LoadF32(tsData.U, b*wide.Width)
			dcx.V, _ = wide.LoadF32(tsData.V, b*wide.Width)
			dcx.Mask = wide.MaskN(int(tsData.NumDomainPoints) - b*wide.Width)
			state.DomainFunc(&dcx)
		}

		td.pa.Bind(prim.TessStream{
			Topology:    ts.PostTessTopology,
			Indices:     tsData.Indices[:tsData.NumPrimitives*uint32(postCorners)],
			Verts:       out,
			Stride:      batches,
			PrimitiveID: uint32(primID[p]),
		})
		tessPa := &td.pa
		for {
			if tessPa.Assemble(prim.SlotPosition, wc.prims[:postCorners]) {
				n := tessPa.NumPrims()
				if f.gs {
					geometryStage(dc, wc, tessPa, gsb, primData, tessPa.PrimID(0), f)
				} else {
					if f.streamOut {
						streamOut(dc, wc, tessPa, primData, 0)
					}
					if f.rast {
						clipFn(dc.binner, dc, tessPa, wc.id, wc.prims[:postCorners],
							wide.MaskN(n), tessPa.PrimID(0), wide.I32x8{})
					}
				}
			}
			if !tessPa.NextPrim() {
				break
			}
		}
	}
}
