package swr

import (
	"github.com/gogpu/swr/prim"
)

// MaxStreams is the number of independent geometry-shader output streams,
// which is also the number of stream-out buffer bindings.
const MaxStreams = 4

// MaxViewports is the size of the viewport array. Shader-emitted viewport
// indices outside [0, State.Raster.NumViewports) collapse to viewport 0.
const MaxViewports = 16

// State is the pipeline configuration a draw executes under. Draw calls
// capture a snapshot of the bound state, so mutating a State after
// submission does not affect draws already queued. Slices referenced by a
// State (vertex data, index data, stream-out memory) are borrowed for the
// duration of the draw and must not be written to until the draw retires.
//
// The zero State is not drawable: at minimum Topology, Fetch layout and
// the vertex function must be set.
type State struct {
	// Topology is the input primitive topology.
	Topology prim.Topology

	// PrimitiveRestart enables cut semantics for indexed draws: an index
	// equal to the format's restart sentinel ends the current strip, fan
	// or loop instead of addressing a vertex.
	PrimitiveRestart bool

	// ProvokingVertex selects which corner of a primitive supplies
	// flat-shaded attributes, as a corner index into the assembled
	// footprint.
	ProvokingVertex int

	// NumAttributes is how many user attribute slots the draw carries
	// through assembly into the geometry shader and stream-out gathers.
	NumAttributes int

	// Fetch describes vertex and index buffer bindings for FetchFunc.
	Fetch FetchState

	// FetchFunc reads one batch of vertices. See NewVertexFetcher for the
	// reference implementation driven by Fetch.
	FetchFunc FetchFunc

	// VertexFunc shades one batch of fetched vertices. Required.
	VertexFunc VertexFunc

	// HullFunc shades one batch of patches. Required when Tess.Enable.
	HullFunc HullFunc

	// DomainFunc shades batches of tessellated domain points. Required
	// when Tess.Enable.
	DomainFunc DomainFunc

	// GeometryFunc expands primitives. Required when GS.Enable.
	GeometryFunc GeometryFunc

	// StreamOutFuncs write gathered primitive records, one per stream.
	// Stream s must be set when stream-out runs for s. See
	// NewStreamOutWriter for the reference implementation.
	StreamOutFuncs [MaxStreams]StreamOutFunc

	// Tessellator supplies tessellator contexts when Tess.Enable.
	Tessellator Tessellator

	// Tess configures the tessellation stage.
	Tess TessellationState

	// GS configures the geometry-shader stage.
	GS GeometryShaderState

	// StreamOut configures the stream-out stage.
	StreamOut StreamOutState

	// Raster configures what little of the rasterizer the front end needs
	// to know.
	Raster RasterState
}

// FetchState binds the buffers the reference vertex fetcher reads.
// A custom FetchFunc may ignore it entirely.
type FetchState struct {
	// Layout maps buffer bytes to vertex attribute slots.
	Layout []VertexElement
	// Buffers are the bound vertex streams, indexed by
	// VertexElement.Buffer.
	Buffers []VertexBuffer
	// Index is the bound index buffer. Ignored by non-indexed draws.
	Index IndexBuffer
}

// TessellationState configures the hull -> tessellate -> domain stage.
type TessellationState struct {
	// Enable turns the stage on. The input topology must then be a patch
	// list.
	Enable bool

	// Domain selects the tessellation domain.
	Domain TessDomain

	// Partitioning selects how edge factors split into segments.
	Partitioning TessPartitioning

	// OutputTopology is the tessellator's native output and is handed to
	// Tessellator.Init.
	OutputTopology prim.Topology

	// PostTessTopology is the topology of the primitives the domain
	// shader emits downstream: TopologyTriangleList, TopologyLineList or
	// TopologyPointList.
	PostTessTopology prim.Topology

	// NumHsInputAttribs is how many user attribute slots each control
	// point carries into the hull shader.
	NumHsInputAttribs int

	// NumDsOutputAttribs is how many output slots, position included, the
	// domain shader writes per vertex.
	NumDsOutputAttribs int
}

// GeometryShaderState configures the geometry-shader stage.
type GeometryShaderState struct {
	// Enable turns the stage on.
	Enable bool

	// InstanceCount invokes the shader that many times per input
	// primitive. Zero behaves as one.
	InstanceCount int

	// OutputTopology is what the shader emits: TopologyTriangleStrip,
	// TopologyLineStrip or TopologyPointList.
	OutputTopology prim.Topology

	// MaxOutputVerts bounds how many vertices one invocation may emit and
	// sizes the output buffers.
	MaxOutputVerts int

	// NumInputAttribs is how many user attribute slots each input vertex
	// carries into the shader.
	NumInputAttribs int

	// SingleStream declares that every emitted vertex belongs to
	// SingleStreamID, letting the stage skip stream-ID unpacking.
	SingleStream bool

	// SingleStreamID is the stream all output belongs to when
	// SingleStream is set.
	SingleStreamID int

	// EmitsPrimitiveID declares the shader writes per-vertex primitive
	// IDs to prim.SlotPrimID (see GeometryContext.SetVertexPrimID).
	EmitsPrimitiveID bool

	// EmitsViewportIndex declares the shader writes per-vertex viewport
	// indices to prim.SlotViewportIndex.
	EmitsViewportIndex bool
}

// instances returns the effective invocation count.
func (gs *GeometryShaderState) instances() int {
	if gs.InstanceCount < 1 {
		return 1
	}
	return gs.InstanceCount
}

// StreamOutState configures the stream-out stage.
type StreamOutState struct {
	// Enable turns the stage on.
	Enable bool

	// RasterizedStream selects which geometry-shader stream continues to
	// the clip/bin stage.
	RasterizedStream int

	// StreamEnable marks which streams are captured.
	StreamEnable [MaxStreams]bool

	// StreamMasks selects, per stream, which user attribute slots are
	// gathered into the primitive record. Bit i covers slot
	// prim.SlotAttribStart+i.
	StreamMasks [MaxStreams]uint32

	// Buffers are the stream-out buffer bindings. A draw mutates its
	// snapshot's write cursors as primitives land.
	Buffers [MaxStreams]StreamOutBuffer
}

// RasterState is the slice of rasterizer state the front end consults.
type RasterState struct {
	// Enable routes surviving primitives to the binner. Without it the
	// front end runs fetch, shading, stream-out and statistics only.
	Enable bool

	// NumViewports is the number of valid viewport array entries. Values
	// below one behave as one.
	NumViewports int
}

// numViewports returns the effective viewport count.
func (rs *RasterState) numViewports() int {
	if rs.NumViewports < 1 {
		return 1
	}
	if rs.NumViewports > MaxViewports {
		return MaxViewports
	}
	return rs.NumViewports
}
