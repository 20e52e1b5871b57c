// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package prim

import "github.com/gogpu/swr/wide"

// Attribute slot layout of a shaded vertex. Slot 0 is the clip-space
// position; user attributes occupy SlotAttribStart onward; the last two
// slots are reserved for values a geometry shader may emit per vertex.
const (
	// NumSlots is the attribute slot count of a shaded vertex.
	NumSlots = 32
	// SlotPosition holds the clip-space position.
	SlotPosition = 0
	// SlotAttribStart is the first user attribute slot.
	SlotAttribStart = 1
	// SlotPrimID is the reserved slot for shader-emitted primitive IDs.
	SlotPrimID = 30
	// SlotViewportIndex is the reserved slot for viewport array indices.
	SlotViewportIndex = 31
)

// MaxVertsPerPrim is the largest per-primitive vertex footprint any
// topology can request: a full patch of MaxPatchSize control points.
// Adjacency footprints (up to 6) and assembled primitives (up to 3) are
// always within it.
const MaxVertsPerPrim = MaxPatchSize

// VertexBatch holds every attribute slot for wide.Width shaded vertices in
// structure-of-arrays form. It is the unit of exchange between fetch,
// vertex shading, assembly and the downstream stages.
type VertexBatch struct {
	Attrib [NumSlots]wide.Vec4x8
}

// Position returns the clip-space position slot.
func (vb *VertexBatch) Position() *wide.Vec4x8 {
	return &vb.Attrib[SlotPosition]
}

// CopyLane copies every attribute slot of lane srcLane in src into lane
// dstLane of vb.
func (vb *VertexBatch) CopyLane(dstLane int, src *VertexBatch, srcLane int) {
	for s := range vb.Attrib {
		vb.Attrib[s].SetLane(dstLane, src.Attrib[s].Lane(srcLane))
	}
}
