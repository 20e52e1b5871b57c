package swr

import (
	"math"

	"github.com/gogpu/swr/prim"
	"github.com/gogpu/swr/wide"
)

// Shader stages are plain Go functions operating on eight-lane batches.
// The pipeline owns every context it passes in; a shader must not retain
// one past its return. Lanes outside the context's Mask carry undefined
// data and their outputs are never observed.

// FetchContext describes one batch of vertices to read. The pipeline
// fills the binding and cursor fields; the fetch function fills the
// output fields alongside the destination batch it is handed.
type FetchContext struct {
	// Layout and Buffers are the bindings from State.Fetch.
	Layout  []VertexElement
	Buffers []VertexBuffer

	// IndexData is the raw index window beginning at the draw's first
	// index. Empty for non-indexed draws.
	IndexData        []byte
	IndexFormat      IndexFormat
	PrimitiveRestart bool

	// BaseVertex is added to each decoded index.
	BaseVertex int32
	// StartVertex offsets non-indexed vertex IDs.
	StartVertex uint32
	// Instance is the zero-based instance being fetched and StartInstance
	// the draw's instance offset, for per-instance stepped buffers.
	Instance      uint32
	StartInstance uint32

	// Base is the stream slot of lane 0 for this batch; lane i reads slot
	// Base+i. Slots at or beyond NumSlots are out of range and must be
	// left untouched in the destination batch.
	Base     int
	NumSlots int

	// VertexID receives the generated per-lane vertex IDs.
	VertexID wide.I32x8
	// CutMask receives a set bit for each lane that decoded the restart
	// sentinel. Such lanes carry no vertex data.
	CutMask wide.Mask
}

// FetchFunc reads one batch of vertices into out per the context's
// bindings and cursor, populating fc.VertexID and fc.CutMask.
type FetchFunc func(fc *FetchContext, out *prim.VertexBatch)

// VertexContext carries one batch of fetched vertices through the vertex
// shader. In and Out are distinct batches; the shader reads attribute
// slots from In and writes shaded slots, position included, to Out.
type VertexContext struct {
	In  *prim.VertexBatch
	Out *prim.VertexBatch

	// VertexID are the fetch-generated IDs for the batch.
	VertexID wide.I32x8
	// InstanceID is the zero-based instance being shaded.
	InstanceID uint32
	// Mask covers the lanes holding real vertices.
	Mask wide.Mask
}

// VertexFunc shades one batch of vertices.
type VertexFunc func(vc *VertexContext)

// ScalarVertex holds every attribute slot of a single vertex.
type ScalarVertex [prim.NumSlots]wide.Vec4f

// TessFactors are the hull shader's tessellation factors for one patch.
// Unused entries for the bound domain are ignored.
type TessFactors struct {
	Outer [4]float32
	Inner [2]float32
}

// HullPatch is one patch written by the hull shader: the factors the
// tessellator consumes plus the control points and patch constants the
// domain shader reads back.
type HullPatch struct {
	Factors       TessFactors
	ControlPoints [prim.MaxVertsPerPrim]ScalarVertex
	Constants     ScalarVertex
}

// HullContext carries one batch of assembled patches through the hull
// shader.
type HullContext struct {
	// InputVerts[k] holds control point k of each patch across lanes.
	// Its length is the patch size; populated slots start at
	// prim.SlotAttribStart per State.Tess.NumHsInputAttribs.
	InputVerts []prim.VertexBatch

	// PrimID are the per-lane patch primitive IDs.
	PrimID wide.I32x8
	// Mask covers the lanes holding real patches.
	Mask wide.Mask

	// Patches receives one HullPatch per lane.
	Patches []HullPatch
}

// HullFunc shades one batch of patches.
type HullFunc func(hc *HullContext)

// DomainContext carries one batch of tessellated domain points through
// the domain shader. Output is slot-major: the value for attribute slot s
// of this batch goes to Out[s*Stride+BatchIndex], most conveniently via
// OutSlot.
type DomainContext struct {
	// PrimID is the patch's primitive ID.
	PrimID uint32
	// Patch is the hull output being evaluated.
	Patch *HullPatch

	// U and V are the domain coordinates of the batch's points. V is
	// unused for the isoline domain's second coordinate only when the
	// tessellator says so.
	U, V wide.F32x8
	// Mask covers the lanes holding real domain points.
	Mask wide.Mask

	Out        []wide.Vec4x8
	BatchIndex int
	Stride     int
}

// OutSlot returns the output batch for attribute slot s. Slot 0 is the
// clip-space position.
func (dcx *DomainContext) OutSlot(s int) *wide.Vec4x8 {
	return &dcx.Out[s*dcx.Stride+dcx.BatchIndex]
}

// DomainFunc shades one batch of domain points.
type DomainFunc func(dcx *DomainContext)

// GeometryContext carries one batch of input primitives through the
// geometry shader. Each input primitive occupies a lane and owns an
// independent output window; emitted vertex v of lane l lands in
// Streams[l][v/wide.Width] at lane v%wide.Width, most conveniently via
// the Set helpers.
type GeometryContext struct {
	// InputVerts[k] holds corner k of each input primitive across lanes.
	// For adjacency topologies the footprint includes adjacent vertices.
	InputVerts []prim.VertexBatch

	// PrimID are the per-lane input primitive IDs.
	PrimID wide.I32x8
	// InstanceID is the zero-based shader invocation instance.
	InstanceID int
	// Mask covers the lanes holding real primitives.
	Mask wide.Mask

	// Streams[l] is lane l's output vertex window, sized to
	// State.GS.MaxOutputVerts.
	Streams [wide.Width][]prim.VertexBatch

	// Control[l] is lane l's packed control stream: one cut bit per
	// vertex in single-stream mode, a two-bit stream ID per vertex
	// otherwise. It arrives zeroed.
	Control [wide.Width][]byte

	// VertexCount[l] must be set to the number of vertices lane l
	// emitted.
	VertexCount [wide.Width]uint32
}

// SetVertexAttrib writes attribute slot of emitted vertex v on lane l.
func (gc *GeometryContext) SetVertexAttrib(l, v, slot int, val wide.Vec4f) {
	gc.Streams[l][v/wide.Width].Attrib[slot].SetLane(v%wide.Width, val)
}

// MarkCut ends the output strip before emitted vertex v on lane l.
// Single-stream mode only; the marked slot is dead and carries no vertex.
func (gc *GeometryContext) MarkCut(l, v int) {
	gc.Control[l][v>>3] |= 1 << (v & 7)
}

// SetStreamID assigns emitted vertex v on lane l to an output stream.
// Multi-stream mode only.
func (gc *GeometryContext) SetStreamID(l, v, stream int) {
	shift := (v & 3) * 2
	b := &gc.Control[l][v>>2]
	*b = *b&^(3<<shift) | byte(stream)<<shift
}

// SetVertexPrimID stores a primitive ID on emitted vertex v of lane l.
// Requires State.GS.EmitsPrimitiveID; the ID rides attribute slot
// prim.SlotPrimID as a bit pattern.
func (gc *GeometryContext) SetVertexPrimID(l, v int, id uint32) {
	gc.SetVertexAttrib(l, v, prim.SlotPrimID, wide.Vec4f{math.Float32frombits(id)})
}

// SetVertexViewport stores a viewport array index on emitted vertex v of
// lane l. Requires State.GS.EmitsViewportIndex.
func (gc *GeometryContext) SetVertexViewport(l, v int, viewport uint32) {
	gc.SetVertexAttrib(l, v, prim.SlotViewportIndex, wide.Vec4f{math.Float32frombits(viewport)})
}

// GeometryFunc expands one batch of input primitives.
type GeometryFunc func(gc *GeometryContext)
