// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package prim

import (
	"testing"

	"github.com/gogpu/swr/wide"
)

// drainPrefed collects every group of a fully bound assembler without
// feeding, the way the geometry-shader stage drains its output windows.
func drainPrefed(pa Assembler) []asmGroup {
	corners := pa.Corners()
	out := make([]wide.Vec4x8, corners)
	var groups []asmGroup
	for {
		if pa.Assemble(SlotPosition, out) {
			g := asmGroup{n: pa.NumPrims()}
			ids := pa.PrimID(0)
			g.ids = append(g.ids, ids[:g.n]...)
			for k := 0; k < corners; k++ {
				lanes := make([]float32, g.n)
				for lane := 0; lane < g.n; lane++ {
					lanes[lane] = out[k].X[lane]
				}
				g.corners = append(g.corners, lanes)
			}
			groups = append(groups, g)
		}
		if !pa.NextPrim() {
			break
		}
	}
	return groups
}

// ===== Streaming cuts =====

func TestCutAssembler_StripRestart(t *testing.T) {
	// Eight index slots with a restart at slot 4: runs of 4 and 3
	// vertices, so two triangles then one, and nothing spans the cut.
	pa := NewCutAssembler(Config{Topology: TopologyTriangleStrip, TotalVerts: 8}, nil)
	groups := drive(pa, 8, map[int]bool{4: true})

	if len(groups) != 2 || groups[0].n != 2 || groups[1].n != 1 {
		t.Fatalf("groups = %+v, want sizes [2 1]", groups)
	}
	if !eqF32(groups[0].corners[0], []float32{0, 1}) {
		t.Errorf("run 1 corner 0 = %v, want [0 1]", groups[0].corners[0])
	}
	// Second triangle of the first run swaps winding: (1, 3, 2).
	if groups[0].corners[1][1] != 3 || groups[0].corners[2][1] != 2 {
		t.Errorf("run 1 prim 1 = (%g, %g, %g), want (1, 3, 2)",
			groups[0].corners[0][1], groups[0].corners[1][1], groups[0].corners[2][1])
	}
	if !eqF32(groups[1].corners[0], []float32{5}) {
		t.Errorf("run 2 corner 0 = %v, want [5]", groups[1].corners[0])
	}
	if groups[1].ids[0] != 2 {
		t.Errorf("run 2 primID = %d, want 2 (IDs continue across cuts)", groups[1].ids[0])
	}
}

func TestCutAssembler_NoCutsMatchesLinear(t *testing.T) {
	cut := NewCutAssembler(Config{Topology: TopologyTriangleList, TotalVerts: 30}, nil)
	lin := NewAssembler(Config{Topology: TopologyTriangleList, TotalVerts: 30})

	cutGroups := drive(cut, 30, nil)
	linGroups := drive(lin, 30, nil)

	if totalPrims(cutGroups) != totalPrims(linGroups) {
		t.Fatalf("cut prims = %d, linear prims = %d",
			totalPrims(cutGroups), totalPrims(linGroups))
	}
	for k := 0; k < 3; k++ {
		if !eqF32(flatCorner(cutGroups, k), flatCorner(linGroups, k)) {
			t.Errorf("corner %d differs from linear assembly", k)
		}
	}
}

func TestCutAssembler_MultipleRuns(t *testing.T) {
	pa := NewCutAssembler(Config{Topology: TopologyLineStrip, TotalVerts: 12}, nil)
	groups := drive(pa, 12, map[int]bool{3: true, 7: true})

	if got := totalPrims(groups); got != 7 {
		t.Fatalf("prims = %d, want 7 (2+2+3)", got)
	}
	want0 := []float32{0, 1, 4, 5, 8, 9, 10}
	want1 := []float32{1, 2, 5, 6, 9, 10, 11}
	if got := flatCorner(groups, 0); !eqF32(got, want0) {
		t.Errorf("corner 0 = %v, want %v", got, want0)
	}
	if got := flatCorner(groups, 1); !eqF32(got, want1) {
		t.Errorf("corner 1 = %v, want %v", got, want1)
	}
}

func TestCutAssembler_EdgeCuts(t *testing.T) {
	// Cuts at the stream edges just shrink the runs.
	pa := NewCutAssembler(Config{Topology: TopologyPointList, TotalVerts: 4}, nil)
	groups := drive(pa, 4, map[int]bool{0: true, 3: true})

	if got := totalPrims(groups); got != 2 {
		t.Fatalf("prims = %d, want 2", got)
	}
	if got := flatCorner(groups, 0); !eqF32(got, []float32{1, 2}) {
		t.Errorf("points = %v, want [1 2]", got)
	}
}

func TestCutAssembler_AllCuts(t *testing.T) {
	pa := NewCutAssembler(Config{Topology: TopologyTriangleStrip, TotalVerts: 8}, nil)
	cuts := make(map[int]bool)
	for i := 0; i < 8; i++ {
		cuts[i] = true
	}
	if groups := drive(pa, 8, cuts); totalPrims(groups) != 0 {
		t.Errorf("prims = %d, want 0 for a fully cut stream", totalPrims(groups))
	}
}

func TestCutAssembler_FanLeadAfterCut(t *testing.T) {
	// The fan's shared vertex is the first alive slot of its run, not
	// stream slot 0.
	pa := NewCutAssembler(Config{Topology: TopologyTriangleFan, TotalVerts: 8}, nil)
	groups := drive(pa, 8, map[int]bool{0: true})

	if got := totalPrims(groups); got != 5 {
		t.Fatalf("prims = %d, want 5", got)
	}
	c0 := flatCorner(groups, 0)
	for p := range c0 {
		if c0[p] != 1 {
			t.Fatalf("prim %d corner 0 = %g, want shared vertex 1", p, c0[p])
		}
	}
	if got := flatCorner(groups, 2); !eqF32(got, []float32{3, 4, 5, 6, 7}) {
		t.Errorf("corner 2 = %v", got)
	}
}

func TestCutAssembler_RingStreaming(t *testing.T) {
	// 100 slots with every tenth slot cut: ten runs of nine vertices,
	// exercising the store ring across several wraps.
	const slots = 100
	cuts := make(map[int]bool)
	for i := 9; i < slots; i += 10 {
		cuts[i] = true
	}
	pa := NewCutAssembler(Config{Topology: TopologyLineStrip, TotalVerts: slots}, nil)
	groups := drive(pa, slots, cuts)

	if got := totalPrims(groups); got != 80 {
		t.Fatalf("prims = %d, want 80", got)
	}
	c0 := flatCorner(groups, 0)
	c1 := flatCorner(groups, 1)
	if c0[79] != 97 || c1[79] != 98 {
		t.Errorf("last line = (%g, %g), want (97, 98)", c0[79], c1[79])
	}
}

// ===== Prefed windows =====

// prefedStore builds a vertex window of batches tagged vertices.
func prefedStore(batches, slots int) []VertexBatch {
	store := make([]VertexBatch, batches)
	for i := 0; i < slots; i++ {
		store[i/wide.Width].Attrib[SlotPosition].SetLane(i%wide.Width, tagVertex(i))
	}
	return store
}

func TestCutAssembler_Prefed(t *testing.T) {
	store := prefedStore(2, 10)
	cutBytes := []byte{1 << 4, 0} // cut at slot 4
	pa := NewCutAssembler(Config{
		Topology:   TopologyTriangleStrip,
		TotalVerts: 10,
		Store:      store,
	}, cutBytes)

	groups := drainPrefed(pa)
	if len(groups) != 2 || groups[0].n != 2 || groups[1].n != 3 {
		t.Fatalf("groups = %+v, want sizes [2 3]", groups)
	}
	if !eqF32(groups[1].corners[0], []float32{5, 6, 7}) {
		t.Errorf("run 2 corner 0 = %v, want [5 6 7]", groups[1].corners[0])
	}
	if got := groups[1].ids; got[0] != 2 || got[2] != 4 {
		t.Errorf("run 2 ids = %v, want [2 3 4]", got)
	}
}

func TestCutAssembler_Rebind(t *testing.T) {
	pa := NewCutAssembler(Config{
		Topology:   TopologyLineStrip,
		TotalVerts: 8,
		Store:      prefedStore(1, 8),
	}, []byte{0})
	if got := totalPrims(drainPrefed(pa)); got != 7 {
		t.Fatalf("first window prims = %d, want 7", got)
	}

	pa.Rebind(prefedStore(1, 8), []byte{1 << 3}, 8)
	groups := drainPrefed(pa)
	if got := totalPrims(groups); got != 5 {
		t.Fatalf("rebound window prims = %d, want 5 (2+3 lines)", got)
	}
	if groups[0].ids[0] != 0 {
		t.Errorf("primID after Rebind = %d, want 0", groups[0].ids[0])
	}
}

func TestCutAssembler_WindowTooSmall(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("undersized prefed window did not panic")
		}
	}()
	NewCutAssembler(Config{
		Topology:   TopologyTriangleStrip,
		TotalVerts: 9,
		Store:      make([]VertexBatch, 1),
	}, []byte{0, 0})
}

// ===== Benchmarks =====

func BenchmarkCutAssembler_StripRestart(b *testing.B) {
	const slots = 1024
	store := make([]VertexBatch, StoreBatches(TopologyTriangleStrip, false))
	out := make([]wide.Vec4x8, 3)
	b.ReportAllocs()
	for b.Loop() {
		pa := NewCutAssembler(Config{
			Topology:   TopologyTriangleStrip,
			TotalVerts: slots,
			Store:      store,
		}, nil)
		for pa.HasWork() {
			pa.NextVertexBatch()
			if m := pa.NextCutMask(); m != nil {
				*m = wide.Mask(1 << 5)
			}
			for {
				if !pa.Assemble(SlotPosition, out) {
					break
				}
				if !pa.NextPrim() {
					break
				}
			}
		}
	}
}
