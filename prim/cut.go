// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package prim

import "github.com/gogpu/swr/wide"

// cutRun is a contiguous range of alive slots between cuts. Each run
// assembles independently: no primitive ever spans a cut.
type cutRun struct {
	start    int
	length   int
	complete bool
	consumed int

	// Fans and loops read their first vertex for every primitive; it is
	// captured when the run opens so the ring may move on.
	leadSaved bool
	lead      [NumSlots]wide.Vec4f
}

// CutAssembler assembles a vertex stream with a parallel cut bitstream. A
// set cut bit marks a dead slot: it carries no vertex, the current run
// ends before it and the next run starts after it. Dead slots appear for
// primitive-restart index sentinels, geometry-shader strip boundaries and
// foreign-stream vertices in multi-stream output.
//
// Two feeding modes exist. Streaming mode pairs each NextVertexBatch with
// a cut mask written through NextCutMask; this serves restart-indexed
// draws. Prefed mode binds a complete vertex window plus a packed cut
// bitstream, as produced by a geometry shader, and only the drain half of
// the contract is used.
type CutAssembler struct {
	topo       Topology
	adjacency  bool
	corners    int
	totalSlots int
	needsLead  bool
	prefed     bool

	store        []VertexBatch
	storeBatches int
	cutBytes     []byte
	cutMasks     []wide.Mask
	lastMask     *wide.Mask

	fed        int
	scan       int
	runs       []cutRun
	head       int
	apiEmitted int
	group      int
}

var _ Assembler = (*CutAssembler)(nil)

// NewCutAssembler returns a cut assembler. With cutBytes nil it feeds in
// streaming mode through NextVertexBatch/NextCutMask; otherwise cfg.Store
// must hold the complete vertex window and cutBytes the packed per-slot
// cut bits.
func NewCutAssembler(cfg Config, cutBytes []byte) *CutAssembler {
	pa := &CutAssembler{group: -1}
	pa.init(cfg, cutBytes)
	return pa
}

func (pa *CutAssembler) init(cfg Config, cutBytes []byte) {
	pa.topo = cfg.Topology
	pa.adjacency = cfg.IncludeAdjacency && cfg.Topology.IsAdjacency()
	if pa.adjacency {
		pa.corners = int(cfg.Topology.VertsPerPrim(true))
	} else {
		pa.corners = cfg.Topology.AssembledVerts()
	}
	pa.totalSlots = int(cfg.TotalVerts)
	pa.cutBytes = cutBytes
	pa.prefed = cutBytes != nil
	pa.store = cfg.Store
	if pa.prefed {
		if len(pa.store)*wide.Width < pa.totalSlots {
			panic("prim: cut assembler window smaller than its stream")
		}
		pa.fed = pa.totalSlots
	} else {
		need := StoreBatches(cfg.Topology, cfg.IncludeAdjacency)
		if pa.store == nil {
			pa.store = make([]VertexBatch, need)
		} else if len(pa.store) < need {
			panic("prim: vertex store too small")
		}
		pa.cutMasks = make([]wide.Mask, len(pa.store))
	}
	pa.storeBatches = len(pa.store)
	switch cfg.Topology {
	case TopologyTriangleFan, TopologyLineLoop:
		pa.needsLead = true
	}
}

// Rebind points a prefed assembler at a new window without reallocating
// its run bookkeeping. The geometry-shader stage reuses one assembler
// across every (primitive, instance) output window.
func (pa *CutAssembler) Rebind(store []VertexBatch, cutBytes []byte, totalSlots uint32) {
	pa.store = store
	pa.storeBatches = len(store)
	pa.cutBytes = cutBytes
	pa.prefed = true
	pa.totalSlots = int(totalSlots)
	if len(store)*wide.Width < pa.totalSlots {
		panic("prim: cut assembler window smaller than its stream")
	}
	pa.Reset()
}

func (pa *CutAssembler) Topology() Topology { return pa.topo }
func (pa *CutAssembler) Corners() int       { return pa.corners }

func (pa *CutAssembler) HasWork() bool {
	return pa.fed < pa.totalSlots || pa.ensureGroup() > 0
}

func (pa *CutAssembler) NextVertexBatch() *VertexBatch {
	slot := (pa.fed / wide.Width) % pa.storeBatches
	if !pa.prefed {
		pa.cutMasks[slot] = 0
		pa.lastMask = &pa.cutMasks[slot]
	}
	pa.fed += wide.Width
	return &pa.store[slot]
}

func (pa *CutAssembler) NextCutMask() *wide.Mask {
	return pa.lastMask
}

func (pa *CutAssembler) cutAt(s int) bool {
	if pa.prefed {
		return pa.cutBytes[s>>3]&(1<<(s&7)) != 0
	}
	return pa.cutMasks[(s/wide.Width)%pa.storeBatches].Has(s % wide.Width)
}

// scanTo consumes fed slots into runs. The final run completes when the
// scan reaches the end of the stream.
func (pa *CutAssembler) scanTo() {
	limit := pa.fed
	if limit > pa.totalSlots {
		limit = pa.totalSlots
	}
	for ; pa.scan < limit; pa.scan++ {
		if pa.cutAt(pa.scan) {
			pa.closeRun()
			continue
		}
		pa.aliveSlot(pa.scan)
	}
	if pa.scan >= pa.totalSlots {
		pa.closeRun()
	}
}

func (pa *CutAssembler) aliveSlot(s int) {
	n := len(pa.runs)
	if n == pa.head || pa.runs[n-1].complete {
		pa.runs = append(pa.runs, cutRun{start: s})
		n = len(pa.runs)
		if pa.needsLead {
			r := &pa.runs[n-1]
			b := &pa.store[(s/wide.Width)%pa.storeBatches]
			for slot := range r.lead {
				r.lead[slot] = b.Attrib[slot].Lane(s % wide.Width)
			}
			r.leadSaved = true
		}
	}
	pa.runs[n-1].length++
}

func (pa *CutAssembler) closeRun() {
	if n := len(pa.runs); n > pa.head {
		pa.runs[n-1].complete = true
	}
}

// availPrims returns how many primitives of run r can be assembled now.
// Open runs count only primitives whose full footprint is already inside
// the run; the closing segment of a loop waits for completion.
func (pa *CutAssembler) availPrims(r *cutRun) int {
	if r.complete {
		return assembledPrims(pa.topo, uint32(r.length))
	}
	var n int
	if pa.topo == TopologyLineLoop {
		if r.length < 2 {
			return 0
		}
		n = r.length - 1
	} else {
		n = assembledPrims(pa.topo, uint32(r.length))
	}
	for n > 0 && pa.maxLocalVert(n-1) >= r.length {
		n--
	}
	return n
}

// maxLocalVert is the unclamped footprint bound of run-local primitive p.
func (pa *CutAssembler) maxLocalVert(p int) int {
	const far = 1 << 30
	mv := 0
	for k := 0; k < pa.corners; k++ {
		if idx := topoVertIndex(pa.topo, pa.adjacency, p, k, far); idx > mv {
			mv = idx
		}
	}
	return mv
}

// ensureGroup computes the current group from the oldest run. Runs emit
// in stream order; a complete run drains immediately, an open run only
// in full groups.
func (pa *CutAssembler) ensureGroup() int {
	if pa.group >= 0 {
		return pa.group
	}
	pa.scanTo()
	for pa.head < len(pa.runs) {
		r := &pa.runs[pa.head]
		avail := pa.availPrims(r) - r.consumed
		if avail > 0 {
			if !r.complete && avail < wide.Width {
				return 0
			}
			if avail > wide.Width {
				avail = wide.Width
			}
			pa.group = avail
			return avail
		}
		if !r.complete {
			return 0
		}
		pa.head++
	}
	if pa.head > 0 {
		pa.runs = pa.runs[:0]
		pa.head = 0
	}
	return 0
}

func (pa *CutAssembler) gatherRun(r *cutRun, slot, p, k int) wide.Vec4f {
	local := topoVertIndex(pa.topo, pa.adjacency, p, k, r.length)
	if local == 0 && r.leadSaved {
		return r.lead[slot]
	}
	idx := r.start + local
	b := &pa.store[(idx/wide.Width)%pa.storeBatches]
	return b.Attrib[slot].Lane(idx % wide.Width)
}

func (pa *CutAssembler) Assemble(slot int, out []wide.Vec4x8) bool {
	g := pa.ensureGroup()
	if g == 0 {
		return false
	}
	r := &pa.runs[pa.head]
	for k := 0; k < pa.corners; k++ {
		var v wide.Vec4x8
		for lane := 0; lane < g; lane++ {
			v.SetLane(lane, pa.gatherRun(r, slot, r.consumed+lane, k))
		}
		out[k] = v
	}
	return true
}

func (pa *CutAssembler) AssembleVertex(slot, prim int, out []wide.Vec4f) {
	r := &pa.runs[pa.head]
	for k := 0; k < pa.corners; k++ {
		out[k] = pa.gatherRun(r, slot, r.consumed+prim, k)
	}
}

func (pa *CutAssembler) NextPrim() bool {
	if g := pa.ensureGroup(); g > 0 {
		pa.runs[pa.head].consumed += g
		pa.apiEmitted += g
		pa.group = -1
	}
	return pa.ensureGroup() > 0
}

func (pa *CutAssembler) NumPrims() int {
	return pa.ensureGroup()
}

func (pa *CutAssembler) PrimID(base uint32) wide.I32x8 {
	var ids wide.I32x8
	for lane := range ids {
		ids[lane] = int32(base) + int32(apiPrimOf(pa.topo, pa.apiEmitted+lane))
	}
	return ids
}

func (pa *CutAssembler) Reset() {
	pa.fed = 0
	if pa.prefed {
		pa.fed = pa.totalSlots
	}
	pa.scan = 0
	pa.runs = pa.runs[:0]
	pa.head = 0
	pa.apiEmitted = 0
	pa.group = -1
	pa.lastMask = nil
}
