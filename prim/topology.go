// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package prim

import (
	"strconv"

	"github.com/gogpu/gputypes"
)

// Topology identifies how a vertex stream groups into primitives.
//
// Topology values cover the full fixed-function set: lists, strips, fans,
// loops, the four adjacency variants, quads, rects and tessellation patch
// lists with 1 to 32 control points. A handful of legacy values exist only
// to be rejected: the count methods panic on them rather than silently
// returning zero.
type Topology uint8

const (
	// TopologyUnknown is the zero value; every count method rejects it.
	TopologyUnknown Topology = iota
	// TopologyPointList draws one point per vertex.
	TopologyPointList
	// TopologyLineList draws a line per vertex pair.
	TopologyLineList
	// TopologyLineStrip draws a connected polyline; each vertex after the
	// first extends the strip by one line.
	TopologyLineStrip
	// TopologyLineLoop is a line strip whose last vertex connects back to
	// the first.
	TopologyLineLoop
	// TopologyLineListAdj is a line list with one adjacent vertex on each
	// side, visible only to the geometry shader.
	TopologyLineListAdj
	// TopologyLineStripAdj is a line strip with adjacency vertices.
	TopologyLineStripAdj
	// TopologyTriangleList draws a triangle per vertex triple.
	TopologyTriangleList
	// TopologyTriangleStrip draws a triangle per vertex after the first
	// two, alternating winding.
	TopologyTriangleStrip
	// TopologyTriangleFan draws triangles sharing the first vertex.
	TopologyTriangleFan
	// TopologyTriangleListAdj is a triangle list with adjacency vertices
	// interleaved at the odd positions.
	TopologyTriangleListAdj
	// TopologyTriangleStripAdj is a triangle strip on the even-position
	// vertices with neighbors at the odd positions.
	TopologyTriangleStripAdj
	// TopologyTriangleDisc is a legacy fan variant. Counts are defined for
	// it, but it cannot be assembled.
	TopologyTriangleDisc
	// TopologyQuadList draws a quad per vertex quadruple, assembled as two
	// triangles.
	TopologyQuadList
	// TopologyQuadStrip draws a quad per vertex pair after the first pair,
	// assembled as triangles.
	TopologyQuadStrip
	// TopologyRectList draws axis-aligned rectangles from three corners per
	// rect; the fourth corner is derived downstream.
	TopologyRectList

	// Legacy values carried for completeness. All count methods reject
	// them.

	// TopologyPolygon is an unsupported legacy GL topology.
	TopologyPolygon
	// TopologyPointListBF is an unsupported backface variant.
	TopologyPointListBF
	// TopologyLineStripCont is an unsupported continuation variant.
	TopologyLineStripCont
	// TopologyLineStripBF is an unsupported backface variant.
	TopologyLineStripBF
	// TopologyLineStripContBF is an unsupported continuation variant.
	TopologyLineStripContBF
	// TopologyTriangleFanNoStipple is an unsupported stipple variant.
	TopologyTriangleFanNoStipple
	// TopologyTriangleStripReverse is an unsupported winding variant.
	TopologyTriangleStripReverse

	// patchListBase anchors the dense patch-list range; PatchList(n) is
	// patchListBase + n.
	patchListBase

	topologyCount = patchListBase + Topology(MaxPatchSize) + 1
)

// MaxPatchSize is the largest patch-list control point count.
const MaxPatchSize = 32

// PatchList returns the patch-list topology with n control points.
// It panics unless 1 <= n <= MaxPatchSize.
func PatchList(n int) Topology {
	if n < 1 || n > MaxPatchSize {
		panic("prim: patch size out of range: " + strconv.Itoa(n))
	}
	return patchListBase + Topology(n)
}

// IsPatchList reports whether t is a patch-list topology.
func (t Topology) IsPatchList() bool {
	return t > patchListBase && t < topologyCount
}

// PatchSize returns the control point count of a patch-list topology, or 0
// for any other topology.
func (t Topology) PatchSize() int {
	if !t.IsPatchList() {
		return 0
	}
	return int(t - patchListBase)
}

// IsAdjacency reports whether t carries adjacency vertices.
func (t Topology) IsAdjacency() bool {
	switch t {
	case TopologyLineListAdj, TopologyLineStripAdj,
		TopologyTriangleListAdj, TopologyTriangleStripAdj:
		return true
	}
	return false
}

// Supported reports whether the pipeline can draw t. TriangleDisc counts
// are defined but it is not drawable, so it reports false here.
func (t Topology) Supported() bool {
	switch t {
	case TopologyUnknown, TopologyTriangleDisc, TopologyPolygon,
		TopologyPointListBF, TopologyLineStripCont, TopologyLineStripBF,
		TopologyLineStripContBF, TopologyTriangleFanNoStipple,
		TopologyTriangleStripReverse, patchListBase:
		return false
	}
	return t < topologyCount
}

// String returns the topology name.
func (t Topology) String() string {
	switch t {
	case TopologyUnknown:
		return "Unknown"
	case TopologyPointList:
		return "PointList"
	case TopologyLineList:
		return "LineList"
	case TopologyLineStrip:
		return "LineStrip"
	case TopologyLineLoop:
		return "LineLoop"
	case TopologyLineListAdj:
		return "LineListAdj"
	case TopologyLineStripAdj:
		return "LineStripAdj"
	case TopologyTriangleList:
		return "TriangleList"
	case TopologyTriangleStrip:
		return "TriangleStrip"
	case TopologyTriangleFan:
		return "TriangleFan"
	case TopologyTriangleListAdj:
		return "TriangleListAdj"
	case TopologyTriangleStripAdj:
		return "TriangleStripAdj"
	case TopologyTriangleDisc:
		return "TriangleDisc"
	case TopologyQuadList:
		return "QuadList"
	case TopologyQuadStrip:
		return "QuadStrip"
	case TopologyRectList:
		return "RectList"
	case TopologyPolygon:
		return "Polygon"
	case TopologyPointListBF:
		return "PointListBF"
	case TopologyLineStripCont:
		return "LineStripCont"
	case TopologyLineStripBF:
		return "LineStripBF"
	case TopologyLineStripContBF:
		return "LineStripContBF"
	case TopologyTriangleFanNoStipple:
		return "TriangleFanNoStipple"
	case TopologyTriangleStripReverse:
		return "TriangleStripReverse"
	}
	if t.IsPatchList() {
		return "PatchList(" + strconv.Itoa(t.PatchSize()) + ")"
	}
	return "Topology(" + strconv.Itoa(int(t)) + ")"
}

func (t Topology) unsupported() string {
	return "prim: unsupported topology " + t.String()
}

// PrimitiveCount returns how many whole primitives a stream of verts
// vertices yields. Trailing vertices that cannot complete a primitive are
// ignored. It panics on unsupported topologies.
func (t Topology) PrimitiveCount(verts uint32) uint32 {
	switch t {
	case TopologyPointList:
		return verts
	case TopologyLineList:
		return verts / 2
	case TopologyLineStrip:
		if verts < 2 {
			return 0
		}
		return verts - 1
	case TopologyLineLoop:
		return verts
	case TopologyLineListAdj:
		return verts / 4
	case TopologyLineStripAdj:
		if verts < 3 {
			return 0
		}
		return verts - 3
	case TopologyTriangleList, TopologyRectList:
		return verts / 3
	case TopologyTriangleStrip, TopologyTriangleFan:
		if verts < 3 {
			return 0
		}
		return verts - 2
	case TopologyTriangleListAdj:
		return verts / 6
	case TopologyTriangleStripAdj:
		if verts < 4 {
			return 0
		}
		return verts/2 - 2
	case TopologyTriangleDisc:
		if verts < 2 {
			return 0
		}
		return verts - 1
	case TopologyQuadList:
		return verts / 4
	case TopologyQuadStrip:
		if verts < 4 {
			return 0
		}
		return (verts - 2) / 2
	}
	if t.IsPatchList() {
		return verts / uint32(t.PatchSize())
	}
	panic(t.unsupported())
}

// VertexCount returns the number of vertices needed to draw prims whole
// primitives. It is the inverse of PrimitiveCount for exact primitive
// counts. It panics on unsupported topologies.
func (t Topology) VertexCount(prims uint32) uint32 {
	switch t {
	case TopologyPointList, TopologyLineLoop:
		return prims
	case TopologyLineList:
		return prims * 2
	case TopologyLineStrip:
		if prims == 0 {
			return 0
		}
		return prims + 1
	case TopologyLineListAdj:
		return prims * 4
	case TopologyLineStripAdj:
		if prims == 0 {
			return 0
		}
		return prims + 3
	case TopologyTriangleList, TopologyRectList:
		return prims * 3
	case TopologyTriangleStrip, TopologyTriangleFan:
		if prims == 0 {
			return 0
		}
		return prims + 2
	case TopologyTriangleListAdj:
		return prims * 6
	case TopologyTriangleStripAdj:
		if prims == 0 {
			return 0
		}
		return (prims + 2) * 2
	case TopologyTriangleDisc:
		if prims == 0 {
			return 0
		}
		return prims + 1
	case TopologyQuadList:
		return prims * 4
	case TopologyQuadStrip:
		if prims == 0 {
			return 0
		}
		return prims*2 + 2
	}
	if t.IsPatchList() {
		return prims * uint32(t.PatchSize())
	}
	panic(t.unsupported())
}

// VertsPerPrim returns the vertex footprint of one primitive. With
// includeAdjacency, the adjacency topologies report their full geometry
// shader footprint: 4 for lines, 6 for triangles. It panics on unsupported
// topologies, including TriangleDisc.
func (t Topology) VertsPerPrim(includeAdjacency bool) uint32 {
	var n uint32
	switch t {
	case TopologyPointList:
		n = 1
	case TopologyLineList, TopologyLineStrip, TopologyLineLoop,
		TopologyLineListAdj, TopologyLineStripAdj:
		n = 2
	case TopologyTriangleList, TopologyTriangleStrip, TopologyTriangleFan,
		TopologyTriangleListAdj, TopologyTriangleStripAdj, TopologyRectList:
		n = 3
	case TopologyQuadList, TopologyQuadStrip:
		n = 4
	default:
		if t.IsPatchList() {
			return uint32(t.PatchSize())
		}
		panic(t.unsupported())
	}
	if includeAdjacency {
		switch t {
		case TopologyLineListAdj, TopologyLineStripAdj:
			n = 4
		case TopologyTriangleListAdj, TopologyTriangleStripAdj:
			n = 6
		}
	}
	return n
}

// AssembledVerts returns the vertex count of primitives as they leave the
// assembler: 1 for points, 2 for lines, 3 for triangles (quads and rects
// decompose into triangles), or the control point count for patches.
func (t Topology) AssembledVerts() int {
	switch t {
	case TopologyPointList:
		return 1
	case TopologyLineList, TopologyLineStrip, TopologyLineLoop,
		TopologyLineListAdj, TopologyLineStripAdj:
		return 2
	case TopologyTriangleList, TopologyTriangleStrip, TopologyTriangleFan,
		TopologyTriangleListAdj, TopologyTriangleStripAdj,
		TopologyQuadList, TopologyQuadStrip, TopologyRectList:
		return 3
	}
	if t.IsPatchList() {
		return t.PatchSize()
	}
	panic(t.unsupported())
}

// FromGPUTopology maps a WebGPU-style topology into the richer front-end
// set.
func FromGPUTopology(t gputypes.PrimitiveTopology) Topology {
	switch t {
	case gputypes.PrimitiveTopologyPointList:
		return TopologyPointList
	case gputypes.PrimitiveTopologyLineList:
		return TopologyLineList
	case gputypes.PrimitiveTopologyLineStrip:
		return TopologyLineStrip
	case gputypes.PrimitiveTopologyTriangleList:
		return TopologyTriangleList
	case gputypes.PrimitiveTopologyTriangleStrip:
		return TopologyTriangleStrip
	}
	return TopologyUnknown
}
