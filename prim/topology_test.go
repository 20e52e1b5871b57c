// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package prim

import (
	"testing"

	"github.com/gogpu/gputypes"
)

// ===== Counts =====

func TestTopology_RoundTripCounts(t *testing.T) {
	topos := []Topology{
		TopologyPointList, TopologyLineList, TopologyLineStrip,
		TopologyLineLoop, TopologyLineListAdj, TopologyLineStripAdj,
		TopologyTriangleList, TopologyTriangleStrip, TopologyTriangleFan,
		TopologyTriangleListAdj, TopologyTriangleStripAdj,
		TopologyQuadList, TopologyQuadStrip, TopologyRectList,
		PatchList(1), PatchList(3), PatchList(16), PatchList(32),
	}
	for _, topo := range topos {
		for _, prims := range []uint32{0, 1, 2, 5, 9} {
			verts := topo.VertexCount(prims)
			if got := topo.PrimitiveCount(verts); got != prims {
				t.Errorf("%v: PrimitiveCount(VertexCount(%d)) = %d, want %d",
					topo, prims, got, prims)
			}
		}
	}
}

func TestTopology_PrimitiveCountPartial(t *testing.T) {
	tests := []struct {
		topo  Topology
		verts uint32
		want  uint32
	}{
		{TopologyTriangleList, 8, 2},
		{TopologyTriangleStrip, 2, 0},
		{TopologyTriangleStrip, 4, 2},
		{TopologyTriangleFan, 3, 1},
		{TopologyLineStrip, 1, 0},
		{TopologyLineList, 7, 3},
		{TopologyLineStripAdj, 3, 0},
		{TopologyLineStripAdj, 4, 1},
		{TopologyTriangleStripAdj, 5, 0},
		{TopologyTriangleStripAdj, 6, 1},
		{TopologyQuadStrip, 5, 1},
		{TopologyRectList, 7, 2},
		{PatchList(5), 9, 1},
	}
	for _, tt := range tests {
		if got := tt.topo.PrimitiveCount(tt.verts); got != tt.want {
			t.Errorf("%v.PrimitiveCount(%d) = %d, want %d",
				tt.topo, tt.verts, got, tt.want)
		}
	}
}

func TestTopology_VertsPerPrimAdjacency(t *testing.T) {
	if got := TopologyLineListAdj.VertsPerPrim(false); got != 2 {
		t.Errorf("LineListAdj.VertsPerPrim(false) = %d, want 2", got)
	}
	if got := TopologyLineListAdj.VertsPerPrim(true); got != 4 {
		t.Errorf("LineListAdj.VertsPerPrim(true) = %d, want 4", got)
	}
	if got := TopologyTriangleStripAdj.VertsPerPrim(false); got != 3 {
		t.Errorf("TriangleStripAdj.VertsPerPrim(false) = %d, want 3", got)
	}
	if got := TopologyTriangleStripAdj.VertsPerPrim(true); got != 6 {
		t.Errorf("TriangleStripAdj.VertsPerPrim(true) = %d, want 6", got)
	}
}

func TestTopology_AssembledVerts(t *testing.T) {
	tests := []struct {
		topo Topology
		want int
	}{
		{TopologyPointList, 1},
		{TopologyLineStrip, 2},
		{TopologyLineStripAdj, 2},
		{TopologyTriangleFan, 3},
		{TopologyTriangleListAdj, 3},
		{TopologyQuadList, 3},
		{TopologyQuadStrip, 3},
		{TopologyRectList, 3},
		{PatchList(17), 17},
	}
	for _, tt := range tests {
		if got := tt.topo.AssembledVerts(); got != tt.want {
			t.Errorf("%v.AssembledVerts() = %d, want %d", tt.topo, got, tt.want)
		}
	}
}

// ===== Patch lists =====

func TestPatchList_Range(t *testing.T) {
	for n := 1; n <= MaxPatchSize; n++ {
		topo := PatchList(n)
		if !topo.IsPatchList() {
			t.Fatalf("PatchList(%d).IsPatchList() = false", n)
		}
		if got := topo.PatchSize(); got != n {
			t.Errorf("PatchList(%d).PatchSize() = %d, want %d", n, got, n)
		}
	}
	if TopologyTriangleList.IsPatchList() {
		t.Error("TriangleList.IsPatchList() = true")
	}
	if got := TopologyTriangleList.PatchSize(); got != 0 {
		t.Errorf("TriangleList.PatchSize() = %d, want 0", got)
	}
}

func TestPatchList_OutOfRangePanics(t *testing.T) {
	for _, n := range []int{0, -1, MaxPatchSize + 1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("PatchList(%d) did not panic", n)
				}
			}()
			PatchList(n)
		}()
	}
}

// ===== Classification =====

func TestTopology_Supported(t *testing.T) {
	unsupported := []Topology{
		TopologyUnknown, TopologyTriangleDisc, TopologyPolygon,
		TopologyPointListBF, TopologyLineStripCont, TopologyLineStripBF,
		TopologyLineStripContBF, TopologyTriangleFanNoStipple,
		TopologyTriangleStripReverse, patchListBase, topologyCount,
	}
	for _, topo := range unsupported {
		if topo.Supported() {
			t.Errorf("%v.Supported() = true, want false", topo)
		}
	}
	supported := []Topology{
		TopologyPointList, TopologyLineLoop, TopologyTriangleStripAdj,
		TopologyQuadStrip, TopologyRectList, PatchList(1), PatchList(32),
	}
	for _, topo := range supported {
		if !topo.Supported() {
			t.Errorf("%v.Supported() = false, want true", topo)
		}
	}
}

func TestTopology_IsAdjacency(t *testing.T) {
	adj := []Topology{
		TopologyLineListAdj, TopologyLineStripAdj,
		TopologyTriangleListAdj, TopologyTriangleStripAdj,
	}
	for _, topo := range adj {
		if !topo.IsAdjacency() {
			t.Errorf("%v.IsAdjacency() = false, want true", topo)
		}
	}
	if TopologyTriangleStrip.IsAdjacency() {
		t.Error("TriangleStrip.IsAdjacency() = true, want false")
	}
}

func TestTopology_CountPanicsUnsupported(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Polygon.PrimitiveCount did not panic")
		}
	}()
	TopologyPolygon.PrimitiveCount(3)
}

// ===== Strings and bridges =====

func TestTopology_String(t *testing.T) {
	tests := []struct {
		topo Topology
		want string
	}{
		{TopologyTriangleList, "TriangleList"},
		{TopologyLineStripAdj, "LineStripAdj"},
		{TopologyQuadStrip, "QuadStrip"},
		{PatchList(7), "PatchList(7)"},
		{TopologyUnknown, "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.topo.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFromGPUTopology(t *testing.T) {
	tests := []struct {
		in   gputypes.PrimitiveTopology
		want Topology
	}{
		{gputypes.PrimitiveTopologyPointList, TopologyPointList},
		{gputypes.PrimitiveTopologyLineList, TopologyLineList},
		{gputypes.PrimitiveTopologyLineStrip, TopologyLineStrip},
		{gputypes.PrimitiveTopologyTriangleList, TopologyTriangleList},
		{gputypes.PrimitiveTopologyTriangleStrip, TopologyTriangleStrip},
	}
	for _, tt := range tests {
		if got := FromGPUTopology(tt.in); got != tt.want {
			t.Errorf("FromGPUTopology(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
