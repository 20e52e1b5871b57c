// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package prim

import "github.com/gogpu/swr/wide"

// TessStream binds a TessAssembler to one tessellated patch: the domain
// shader's output vertices plus the tessellator's connectivity list.
type TessStream struct {
	// Topology is the post-tessellation topology: TriangleList, LineList
	// or PointList.
	Topology Topology
	// Indices is the flat connectivity list, Topology.AssembledVerts()
	// entries per primitive.
	Indices []uint32
	// Verts holds the domain shader output in slot-major form: attribute
	// slot s of vertex batch b lives at Verts[s*Stride+b].
	Verts []wide.Vec4x8
	// Stride is the batch count per attribute slot.
	Stride int
	// PrimitiveID is the patch's primitive ID, propagated to every group.
	PrimitiveID uint32
}

// TessAssembler assembles tessellator output by explicit index list. The
// whole stream is present up front, so groups drain without feeding;
// NextVertexBatch and NextCutMask return nil.
type TessAssembler struct {
	s          TessStream
	corners    int
	totalPrims int
	emitted    int
}

var _ Assembler = (*TessAssembler)(nil)

// NewTessAssembler returns an assembler over one tessellated patch.
func NewTessAssembler(s TessStream) *TessAssembler {
	pa := new(TessAssembler)
	pa.Bind(s)
	return pa
}

// Bind rebinds the assembler to a new patch stream. The tessellation
// stage reuses one assembler across all patches of a draw.
func (pa *TessAssembler) Bind(s TessStream) {
	switch s.Topology {
	case TopologyTriangleList, TopologyLineList, TopologyPointList:
	default:
		panic("prim: invalid post-tessellation topology " + s.Topology.String())
	}
	pa.s = s
	pa.corners = s.Topology.AssembledVerts()
	pa.totalPrims = len(s.Indices) / pa.corners
	pa.emitted = 0
}

func (pa *TessAssembler) Topology() Topology { return pa.s.Topology }
func (pa *TessAssembler) Corners() int       { return pa.corners }

func (pa *TessAssembler) HasWork() bool {
	return pa.emitted < pa.totalPrims
}

func (pa *TessAssembler) NextVertexBatch() *VertexBatch { return nil }
func (pa *TessAssembler) NextCutMask() *wide.Mask       { return nil }

func (pa *TessAssembler) group() int {
	g := pa.totalPrims - pa.emitted
	if g > wide.Width {
		g = wide.Width
	}
	if g < 0 {
		g = 0
	}
	return g
}

func (pa *TessAssembler) gather(slot int, idx uint32) wide.Vec4f {
	b := &pa.s.Verts[slot*pa.s.Stride+int(idx)/wide.Width]
	return b.Lane(int(idx) % wide.Width)
}

func (pa *TessAssembler) Assemble(slot int, out []wide.Vec4x8) bool {
	g := pa.group()
	if g == 0 {
		return false
	}
	for k := 0; k < pa.corners; k++ {
		var v wide.Vec4x8
		for lane := 0; lane < g; lane++ {
			idx := pa.s.Indices[(pa.emitted+lane)*pa.corners+k]
			v.SetLane(lane, pa.gather(slot, idx))
		}
		out[k] = v
	}
	return true
}

func (pa *TessAssembler) AssembleVertex(slot, prim int, out []wide.Vec4f) {
	for k := 0; k < pa.corners; k++ {
		idx := pa.s.Indices[(pa.emitted+prim)*pa.corners+k]
		out[k] = pa.gather(slot, idx)
	}
}

func (pa *TessAssembler) NextPrim() bool {
	if g := pa.group(); g > 0 {
		pa.emitted += g
	}
	return pa.group() > 0
}

func (pa *TessAssembler) NumPrims() int {
	return pa.group()
}

func (pa *TessAssembler) PrimID(base uint32) wide.I32x8 {
	return wide.SplatI32(int32(base + pa.s.PrimitiveID))
}

func (pa *TessAssembler) Reset() {
	pa.emitted = 0
}
