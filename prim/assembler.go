// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package prim

import "github.com/gogpu/swr/wide"

// Assembler turns a stream of shaded vertex batches into groups of whole
// primitives. A group holds up to wide.Width primitives in
// structure-of-arrays form: Assemble(slot) gathers one attribute slot for
// every corner of every primitive in the group.
//
// The driving loop is always the same:
//
//	for pa.HasWork() {
//		vout := pa.NextVertexBatch()
//		// fetch + shade into vout, store any cut mask via NextCutMask
//		for {
//			if pa.Assemble(prim.SlotPosition, corners) {
//				// dispatch pa.NumPrims() primitives
//			}
//			if !pa.NextPrim() {
//				break
//			}
//		}
//	}
//
// Assemble returning false means the assembler is still awaiting vertices,
// a normal condition mid-stream. Group boundaries are deliberate: a full
// group forms as soon as wide.Width primitives are available, a partial
// group only when its input can no longer grow (stream end, or a cut
// terminating a strip).
type Assembler interface {
	// HasWork reports whether more input remains: vertices still to feed
	// or primitives not yet delivered.
	HasWork() bool

	// NextVertexBatch returns the store slot for the next shaded batch and
	// advances the feed cursor by wide.Width. Prefed assemblers (geometry
	// shader output, tessellator output) return nil.
	NextVertexBatch() *VertexBatch

	// NextCutMask returns the cut mask slot paired with the batch most
	// recently handed out by NextVertexBatch, or nil when the assembler
	// does not consume cuts.
	NextCutMask() *wide.Mask

	// Assemble gathers attribute slot for the current primitive group.
	// out[k] receives corner k across the group's lanes; len(out) must be
	// at least Corners(). It reports false while awaiting vertices.
	Assemble(slot int, out []wide.Vec4x8) bool

	// AssembleVertex gathers the corners of one primitive of the current
	// group as scalar values. prim is group-relative.
	AssembleVertex(slot, prim int, out []wide.Vec4f)

	// NextPrim consumes the current group and reports whether another
	// group can be assembled without feeding more vertices.
	NextPrim() bool

	// NumPrims returns the primitive count of the current group, at most
	// wide.Width. It is 0 while awaiting vertices.
	NumPrims() int

	// PrimID returns the per-lane API primitive IDs of the current group,
	// offset by base.
	PrimID(base uint32) wide.I32x8

	// Reset rewinds the assembler for the next instance without
	// reallocating.
	Reset()

	// Topology returns the input topology.
	Topology() Topology

	// Corners returns how many vertices Assemble gathers per primitive:
	// the assembled footprint, or the full adjacency footprint when the
	// assembler feeds a geometry shader.
	Corners() int
}

// Config configures an assembler over one instance's vertex stream.
type Config struct {
	// Topology is the input topology.
	Topology Topology
	// TotalVerts is the stream length in slots. For cut assemblers this
	// includes dead slots.
	TotalVerts uint32
	// Store is the vertex batch window. When nil a store of
	// StoreBatches(Topology, IncludeAdjacency) batches is allocated. The
	// pipeline passes the per-worker store here so draws reuse it.
	Store []VertexBatch
	// IncludeAdjacency selects the full geometry-shader footprint for
	// adjacency topologies. Without it, adjacency topologies assemble
	// interior vertices only.
	IncludeAdjacency bool
}

// StoreBatches returns the vertex store size, in batches, an assembler
// needs for topology t: enough for a full primitive group plus feed
// overlap, in grow chunks of 8 batches.
func StoreBatches(t Topology, includeAdjacency bool) int {
	n := int(t.VertsPerPrim(includeAdjacency))
	if n < 8 {
		n = 8
	}
	return (n + 7) &^ 7
}

// NewDrawAssembler picks the assembler variant for a draw: cut-indexed
// when the draw is indexed with primitive restart enabled, linear
// otherwise.
func NewDrawAssembler(cfg Config, indexed, cutIndexEnabled bool) Assembler {
	if indexed && cutIndexEnabled {
		return NewCutAssembler(cfg, nil)
	}
	return NewAssembler(cfg)
}

// topoVertIndex returns the stream index of corner k of assembled
// primitive p for topology t over a stream of n vertices. With adjacency,
// corners follow the geometry-shader interleave (v0, a01, v1, a12, v2,
// a20 for triangles; a0, v0, v1, a1 for lines).
func topoVertIndex(t Topology, adjacency bool, p, k, n int) int {
	switch t {
	case TopologyPointList:
		return p
	case TopologyLineList:
		return 2*p + k
	case TopologyLineStrip:
		return p + k
	case TopologyLineLoop:
		if k == 0 {
			return p
		}
		return (p + 1) % n
	case TopologyLineListAdj:
		if adjacency {
			return 4*p + k
		}
		return 4*p + 1 + k
	case TopologyLineStripAdj:
		if adjacency {
			return p + k
		}
		return p + 1 + k
	case TopologyTriangleList, TopologyRectList:
		return 3*p + k
	case TopologyTriangleStrip:
		return p + stripCorner(p, k)
	case TopologyTriangleFan:
		if k == 0 {
			return 0
		}
		return p + k
	case TopologyTriangleListAdj:
		if adjacency {
			return 6*p + k
		}
		return 6*p + 2*k
	case TopologyTriangleStripAdj:
		if adjacency {
			return stripAdjVert(p, k, n)
		}
		return 2*p + 2*stripCorner(p, k)
	case TopologyQuadList:
		return 4*(p/2) + quadCorner(p%2, k)
	case TopologyQuadStrip:
		return 2*(p/2) + quadStripOrder[quadCorner(p%2, k)]
	}
	if t.IsPatchList() {
		return t.PatchSize()*p + k
	}
	panic(t.unsupported())
}

// stripCorner applies the alternating strip winding: odd primitives swap
// their last two corners.
func stripCorner(p, k int) int {
	if p&1 == 1 && k > 0 {
		return 3 - k
	}
	return k
}

// quadCorner maps the two triangles of a quad onto logical quad corners
// 0..3 using the 0-2 diagonal.
func quadCorner(tri, k int) int {
	if tri == 0 {
		return k
	}
	if k == 0 {
		return 0
	}
	return k + 1
}

// quadStripOrder maps logical quad corners to quad-strip stream offsets:
// each vertex pair arrives flipped relative to winding order.
var quadStripOrder = [4]int{0, 1, 3, 2}

// stripAdjVert lays out the six geometry-shader vertices of triangle p in
// a strip with adjacency. Interior vertices sit at even stream positions;
// odd primitives swap winding. Neighbor slots clamp at the stream bounds.
func stripAdjVert(p, k, n int) int {
	var off int
	if p&1 == 0 {
		off = [6]int{0, 1, 2, 6, 4, 3}[k]
	} else {
		off = [6]int{0, 3, 4, 6, 2, 1}[k]
	}
	idx := 2*p + off
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// assembledPrims returns how many primitives the assembler delivers for a
// stream of verts vertices: quads decompose into two triangles each.
func assembledPrims(t Topology, verts uint32) int {
	n := t.PrimitiveCount(verts)
	switch t {
	case TopologyQuadList, TopologyQuadStrip:
		return int(n) * 2
	}
	return int(n)
}

// apiPrimOf maps an assembled primitive index back to its API primitive:
// both triangles of a quad share the quad's ID.
func apiPrimOf(t Topology, p int) int {
	switch t {
	case TopologyQuadList, TopologyQuadStrip:
		return p / 2
	}
	return p
}

// linearAssembler assembles an uncut vertex stream by topology pattern.
// It windows the stream in a ring of whole batches and defers partial
// groups until the stream is fully fed, so mid-stream groups are always
// wide.Width primitives.
type linearAssembler struct {
	topo       Topology
	adjacency  bool
	corners    int
	totalVerts int
	totalPrims int

	store        []VertexBatch
	storeBatches int

	fed     int
	emitted int
	group   int // current group size; -1 when not yet computed

	// Fans and loops reference vertex 0 beyond its ring lifetime; its
	// lanes are captured here before the ring wraps.
	needsLead bool
	leadSaved bool
	lead      [NumSlots]wide.Vec4f
}

var _ Assembler = (*linearAssembler)(nil)

// NewAssembler returns a linear assembler over an uncut stream.
func NewAssembler(cfg Config) Assembler {
	pa := &linearAssembler{
		topo:       cfg.Topology,
		adjacency:  cfg.IncludeAdjacency && cfg.Topology.IsAdjacency(),
		totalVerts: int(cfg.TotalVerts),
		totalPrims: assembledPrims(cfg.Topology, cfg.TotalVerts),
		store:      cfg.Store,
		group:      -1,
	}
	if pa.adjacency {
		pa.corners = int(cfg.Topology.VertsPerPrim(true))
	} else {
		pa.corners = cfg.Topology.AssembledVerts()
	}
	need := StoreBatches(cfg.Topology, cfg.IncludeAdjacency)
	if pa.store == nil {
		pa.store = make([]VertexBatch, need)
	} else if len(pa.store) < need {
		panic("prim: vertex store too small")
	}
	pa.storeBatches = len(pa.store)
	switch cfg.Topology {
	case TopologyTriangleFan, TopologyLineLoop:
		pa.needsLead = true
	}
	return pa
}

func (pa *linearAssembler) Topology() Topology { return pa.topo }
func (pa *linearAssembler) Corners() int       { return pa.corners }

func (pa *linearAssembler) HasWork() bool {
	return pa.fed < pa.totalVerts || pa.emitted < pa.totalPrims
}

func (pa *linearAssembler) NextVertexBatch() *VertexBatch {
	slot := (pa.fed / wide.Width) % pa.storeBatches
	if pa.needsLead && pa.fed > 0 && !pa.leadSaved {
		// Batch 0 is still intact here; the ring cannot have wrapped yet.
		for s := range pa.lead {
			pa.lead[s] = pa.store[0].Attrib[s].Lane(0)
		}
		pa.leadSaved = true
	}
	pa.fed += wide.Width
	return &pa.store[slot]
}

func (pa *linearAssembler) NextCutMask() *wide.Mask { return nil }

// maxVert returns the highest stream index primitive p touches.
func (pa *linearAssembler) maxVert(p int) int {
	mv := 0
	for k := 0; k < pa.corners; k++ {
		if idx := topoVertIndex(pa.topo, pa.adjacency, p, k, pa.totalVerts); idx > mv {
			mv = idx
		}
	}
	return mv
}

// ensureGroup computes the current group size. Mid-stream only full
// groups form; once the stream is fully fed the tail group drains the
// remainder.
func (pa *linearAssembler) ensureGroup() int {
	if pa.group >= 0 {
		return pa.group
	}
	remaining := pa.totalPrims - pa.emitted
	if remaining <= 0 {
		return 0
	}
	g := remaining
	if g > wide.Width {
		g = wide.Width
	}
	if pa.fed < pa.totalVerts {
		if g < wide.Width {
			return 0
		}
		if pa.maxVert(pa.emitted+g-1) >= pa.fed {
			return 0
		}
	}
	pa.group = g
	return g
}

func (pa *linearAssembler) gather(slot, idx int) wide.Vec4f {
	if idx == 0 && pa.leadSaved {
		return pa.lead[slot]
	}
	b := &pa.store[(idx/wide.Width)%pa.storeBatches]
	return b.Attrib[slot].Lane(idx % wide.Width)
}

func (pa *linearAssembler) Assemble(slot int, out []wide.Vec4x8) bool {
	g := pa.ensureGroup()
	if g == 0 {
		return false
	}
	for k := 0; k < pa.corners; k++ {
		var v wide.Vec4x8
		for lane := 0; lane < g; lane++ {
			idx := topoVertIndex(pa.topo, pa.adjacency, pa.emitted+lane, k, pa.totalVerts)
			v.SetLane(lane, pa.gather(slot, idx))
		}
		out[k] = v
	}
	return true
}

func (pa *linearAssembler) AssembleVertex(slot, prim int, out []wide.Vec4f) {
	for k := 0; k < pa.corners; k++ {
		idx := topoVertIndex(pa.topo, pa.adjacency, pa.emitted+prim, k, pa.totalVerts)
		out[k] = pa.gather(slot, idx)
	}
}

func (pa *linearAssembler) NextPrim() bool {
	if g := pa.ensureGroup(); g > 0 {
		pa.emitted += g
		pa.group = -1
	}
	return pa.ensureGroup() > 0
}

func (pa *linearAssembler) NumPrims() int {
	return pa.ensureGroup()
}

func (pa *linearAssembler) PrimID(base uint32) wide.I32x8 {
	var ids wide.I32x8
	for lane := range ids {
		ids[lane] = int32(base) + int32(apiPrimOf(pa.topo, pa.emitted+lane))
	}
	return ids
}

func (pa *linearAssembler) Reset() {
	pa.fed = 0
	pa.emitted = 0
	pa.group = -1
	pa.leadSaved = false
}
