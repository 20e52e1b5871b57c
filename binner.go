package swr

import (
	"strconv"

	"github.com/gogpu/swr/prim"
	"github.com/gogpu/swr/wide"
)

// Binner is the clip/bin stage the front end hands surviving primitives
// to. Implementations receive the positions of one assembled group at a
// time and may gather further attribute slots through the assembler,
// which stays valid for the duration of the call. Calls arrive on worker
// goroutines; a Binner must be safe for concurrent use across draws.
type Binner interface {
	// ClipTriangles receives a group of triangles. prims[k] holds corner
	// k's positions across the group's lanes, mask covers the live lanes,
	// primID carries per-lane primitive IDs and viewportIdx per-lane
	// viewport array indices.
	ClipTriangles(dc *DrawContext, pa prim.Assembler, workerID int, prims []wide.Vec4x8, mask wide.Mask, primID, viewportIdx wide.I32x8)

	// ClipLines receives a group of lines.
	ClipLines(dc *DrawContext, pa prim.Assembler, workerID int, prims []wide.Vec4x8, mask wide.Mask, primID, viewportIdx wide.I32x8)

	// ClipPoints receives a group of points.
	ClipPoints(dc *DrawContext, pa prim.Assembler, workerID int, prims []wide.Vec4x8, mask wide.Mask, primID, viewportIdx wide.I32x8)
}

// clipFunc routes one assembled group to the binner entry matching its
// primitive class.
type clipFunc func(b Binner, dc *DrawContext, pa prim.Assembler, workerID int, prims []wide.Vec4x8, mask wide.Mask, primID, viewportIdx wide.I32x8)

func clipTriangles(b Binner, dc *DrawContext, pa prim.Assembler, workerID int, prims []wide.Vec4x8, mask wide.Mask, primID, viewportIdx wide.I32x8) {
	b.ClipTriangles(dc, pa, workerID, prims, mask, primID, viewportIdx)
}

func clipLines(b Binner, dc *DrawContext, pa prim.Assembler, workerID int, prims []wide.Vec4x8, mask wide.Mask, primID, viewportIdx wide.I32x8) {
	b.ClipLines(dc, pa, workerID, prims, mask, primID, viewportIdx)
}

func clipPoints(b Binner, dc *DrawContext, pa prim.Assembler, workerID int, prims []wide.Vec4x8, mask wide.Mask, primID, viewportIdx wide.I32x8) {
	b.ClipPoints(dc, pa, workerID, prims, mask, primID, viewportIdx)
}

// clipFuncForVerts selects the clip path for directly assembled
// primitives by their corner count.
func clipFuncForVerts(n int) clipFunc {
	switch n {
	case 3:
		return clipTriangles
	case 2:
		return clipLines
	case 1:
		return clipPoints
	}
	panic("swr: no clip path for " + strconv.Itoa(n) + "-vertex primitives")
}

// clipFuncForTopology selects the clip path for tessellator and
// geometry-shader output by the stage's output topology.
func clipFuncForTopology(t prim.Topology) clipFunc {
	switch t {
	case prim.TopologyTriangleList, prim.TopologyTriangleStrip:
		return clipTriangles
	case prim.TopologyLineList, prim.TopologyLineStrip:
		return clipLines
	case prim.TopologyPointList:
		return clipPoints
	}
	panic("swr: no clip path for topology " + t.String())
}

// nopBinner discards primitives. It stands in when no binner is
// injected, letting state-only and stream-out pipelines run.
type nopBinner struct{}

func (nopBinner) ClipTriangles(*DrawContext, prim.Assembler, int, []wide.Vec4x8, wide.Mask, wide.I32x8, wide.I32x8) {
}

func (nopBinner) ClipLines(*DrawContext, prim.Assembler, int, []wide.Vec4x8, wide.Mask, wide.I32x8, wide.I32x8) {
}

func (nopBinner) ClipPoints(*DrawContext, prim.Assembler, int, []wide.Vec4x8, wide.Mask, wide.I32x8, wide.I32x8) {
}
