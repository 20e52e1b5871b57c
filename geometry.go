package swr

import (
	"math"

	"github.com/gogpu/swr/internal/arena"
	"github.com/gogpu/swr/prim"
	"github.com/gogpu/swr/wide"
)

// gsBufferLayout fixes the geometry of one draw's geometry-shader output
// buffers. Every (input primitive, instance) pair owns an independent
// window; vertex strides count whole batches so each window starts
// batch-aligned, control strides count bytes.
type gsBufferLayout struct {
	// vertBatchesPerPrim is the vertex window length in batches.
	vertBatchesPerPrim int
	// vertInstanceStride is the distance between instance blocks in
	// batches; each block holds wide.Width primitive windows.
	vertInstanceStride int

	// ctrlPrimStride is the control window length in bytes: one cut bit
	// per vertex in single-stream mode, a two-bit stream ID per vertex
	// otherwise.
	ctrlPrimStride     int
	ctrlInstanceStride int

	// cutStride sizes the unpacked per-stream cut scratch used in
	// multi-stream mode.
	cutStride int
}

func newGSBufferLayout(gs *GeometryShaderState) gsBufferLayout {
	l := gsBufferLayout{
		vertBatchesPerPrim: arena.CeilDiv(gs.MaxOutputVerts, wide.Width),
		cutStride:          arena.AlignUp(arena.CeilDiv(gs.MaxOutputVerts, 8), 4),
	}
	l.vertInstanceStride = l.vertBatchesPerPrim * wide.Width
	if gs.SingleStream {
		l.ctrlPrimStride = arena.CeilDiv(gs.MaxOutputVerts, 8)
	} else {
		l.ctrlPrimStride = arena.AlignUp(arena.CeilDiv(gs.MaxOutputVerts*2, 8), 4)
	}
	l.ctrlInstanceStride = l.ctrlPrimStride * wide.Width
	return l
}

// gsBuffers is the arena-backed output storage of one draw's
// geometry-shader stage.
type gsBuffers struct {
	layout gsBufferLayout

	// verts holds every (primitive, instance) vertex window.
	verts []prim.VertexBatch
	// ctrl holds the matching control windows.
	ctrl []byte
	// streamCut is the unpacked cut scratch for multi-stream output. One
	// window suffices: streams drain fully before the next is unpacked.
	streamCut []byte
}

func allocGSBuffers(a *arena.Arena, gs *GeometryShaderState) gsBuffers {
	l := newGSBufferLayout(gs)
	b := gsBuffers{
		layout: l,
		verts:  arena.Alloc[prim.VertexBatch](a, l.vertInstanceStride*gs.instances()),
		ctrl:   arena.Alloc[byte](a, l.ctrlInstanceStride*gs.instances()),
	}
	if !gs.SingleStream {
		b.streamCut = arena.Alloc[byte](a, l.cutStride)
	}
	return b
}

// vertWindow returns the vertex window of input primitive p, instance i.
func (b *gsBuffers) vertWindow(p, i int) []prim.VertexBatch {
	off := p*b.layout.vertBatchesPerPrim + i*b.layout.vertInstanceStride
	return b.verts[off : off+b.layout.vertBatchesPerPrim]
}

// ctrlWindow returns the control window of input primitive p, instance i.
func (b *gsBuffers) ctrlWindow(p, i int) []byte {
	off := p*b.layout.ctrlPrimStride + i*b.layout.ctrlInstanceStride
	return b.ctrl[off : off+b.layout.ctrlPrimStride]
}

// processStreamIDBuffer unpacks a two-bit stream-ID window into one-bit
// cut form for a single stream: vertices belonging to other streams
// become dead slots. Two input bytes collapse into one output byte.
func processStreamIDBuffer(stream int, streamID []byte, numEmitted int, cut []byte) {
	numInputBytes := (numEmitted*2 + 7) / 8
	numOutputBytes := (numInputBytes + 1) / 2
	if numOutputBytes < 1 {
		numOutputBytes = 1
	}
	for b := 0; b < numOutputBytes; b++ {
		in := streamID[2*b]
		var out byte
		for i := 0; i < 4; i++ {
			if int(in&0x3) != stream {
				out |= 1 << i
			}
			in >>= 2
		}
		in = streamID[2*b+1]
		for i := 4; i < 8; i++ {
			if int(in&0x3) != stream {
				out |= 1 << i
			}
			in >>= 2
		}
		cut[b] = out
	}
}

// gsPaFor returns the worker's reusable geometry-shader output
// assembler, rebound to the given window.
func (wc *workerContext) gsPaFor(topo prim.Topology, store []prim.VertexBatch, cutBytes []byte, totalVerts uint32) *prim.CutAssembler {
	if wc.gsPa == nil || wc.gsPaTopo != topo {
		wc.gsPa = prim.NewCutAssembler(prim.Config{
			Topology:   topo,
			TotalVerts: totalVerts,
			Store:      store,
		}, cutBytes)
		wc.gsPaTopo = topo
		return wc.gsPa
	}
	wc.gsPa.Rebind(store, cutBytes, totalVerts)
	return wc.gsPa
}

// geometryStage runs the geometry shader over the assembler's current
// group and drives each (primitive, instance, stream) output window
// through assembly into stream-out and the clip/bin stage.
func geometryStage(dc *DrawContext, wc *workerContext, pa prim.Assembler, gsb *gsBuffers, primData []uint32, primID wide.I32x8, f drawFeatures) {
	state := &dc.state
	gs := &state.GS

	numInput := pa.NumPrims()
	if numInput == 0 {
		return
	}
	corners := pa.Corners()
	instances := gs.instances()

	// Transpose the assembled group into the shader's per-corner view:
	// position first, then the user attributes the shader declares.
	gsIn := wc.ensureGSIn(corners)
	var tmp [prim.MaxVertsPerPrim]wide.Vec4x8
	pa.Assemble(prim.SlotPosition, tmp[:corners])
	for k := 0; k < corners; k++ {
		gsIn[k].Attrib[prim.SlotPosition] = tmp[k]
	}
	for s := 0; s < gs.NumInputAttribs; s++ {
		slot := prim.SlotAttribStart + s
		pa.Assemble(slot, tmp[:corners])
		for k := 0; k < corners; k++ {
			gsIn[k].Attrib[slot] = tmp[k]
		}
	}

	counts := wc.ensureGSCounts(instances)
	gc := GeometryContext{
		InputVerts: gsIn,
		PrimID:     primID,
		Mask:       wide.MaskN(numInput),
	}
	for inst := 0; inst < instances; inst++ {
		gc.InstanceID = inst
		for l := 0; l < numInput; l++ {
			ctrl := gsb.ctrlWindow(l, inst)
			clear(ctrl)
			gc.Streams[l] = gsb.vertWindow(l, inst)
			gc.Control[l] = ctrl
			gc.VertexCount[l] = 0
		}
		state.GeometryFunc(&gc)
		counts[inst] = gc.VertexCount
	}
	dc.stats.GsInvocations += uint64(numInput) * uint64(instances)

	var clipFn clipFunc
	if f.rast {
		clipFn = clipFuncForTopology(gs.OutputTopology)
	}
	outCorners := gs.OutputTopology.AssembledVerts()
	pv := state.ProvokingVertex
	if pv < 0 || pv >= outCorners {
		pv = 0
	}
	numViewports := int32(state.Raster.numViewports())

	numStreams := MaxStreams
	if gs.SingleStream {
		numStreams = 1
	}

	totalPrims := 0
	var aux [4]wide.Vec4x8
	for l := 0; l < numInput; l++ {
		inputID := primID[l]
		for inst := 0; inst < instances; inst++ {
			numEmitted := int(counts[inst][l])
			if numEmitted == 0 {
				continue
			}
			window := gsb.vertWindow(l, inst)
			ctrl := gsb.ctrlWindow(l, inst)

			for s := 0; s < numStreams; s++ {
				streamIndex := s
				if gs.SingleStream {
					streamIndex = gs.SingleStreamID
				}
				soOn := f.streamOut && state.StreamOut.StreamEnable[streamIndex]
				rastOn := f.rast && state.StreamOut.RasterizedStream == streamIndex

				cutBytes := ctrl
				if !gs.SingleStream {
					if !soOn && !rastOn {
						continue
					}
					processStreamIDBuffer(streamIndex, ctrl, numEmitted, gsb.streamCut)
					cutBytes = gsb.streamCut
				}

				gsPa := wc.gsPaFor(gs.OutputTopology, window, cutBytes, uint32(numEmitted))
				for {
					if gsPa.Assemble(prim.SlotPosition, wc.prims[:outCorners]) {
						n := gsPa.NumPrims()
						totalPrims += n
						if soOn {
							streamOut(dc, wc, gsPa, primData, streamIndex)
						}
						if rastOn {
							ids := wide.SplatI32(inputID)
							if gs.EmitsPrimitiveID {
								gsPa.Assemble(prim.SlotPrimID, aux[:outCorners])
								for lane := 0; lane < n; lane++ {
									ids[lane] = int32(math.Float32bits(aux[pv].X[lane]))
								}
							}
							var vpi wide.I32x8
							if gs.EmitsViewportIndex {
								gsPa.Assemble(prim.SlotViewportIndex, aux[:outCorners])
								for lane := 0; lane < n; lane++ {
									v := int32(math.Float32bits(aux[pv].X[lane]))
									if v < 0 || v >= numViewports {
										v = 0
									}
									vpi[lane] = v
								}
							}
							clipFn(dc.binner, dc, gsPa, wc.id, wc.prims[:outCorners], wide.MaskN(n), ids, vpi)
						}
					}
					if !gsPa.NextPrim() {
						break
					}
				}
			}
		}
	}
	dc.stats.GsPrimitives += uint64(totalPrims)
}
