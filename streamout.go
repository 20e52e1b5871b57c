package swr

import (
	"math"
	"math/bits"
	"strconv"

	"honnef.co/go/safeish"

	"github.com/gogpu/swr/prim"
)

// Stream-out gathers each surviving primitive's enabled attributes into
// a dword record, then hands the record to the stream's write function.
// Record layout: vertex v of the primitive starts at dword
// v*soVertexStrideDwords; within a vertex, enabled attributes are packed
// in ascending mask-bit order at four dwords apiece.
const (
	// soVertexStrideDwords is the per-vertex stride of the gathered
	// record: room for every attribute slot at four dwords each.
	soVertexStrideDwords = prim.NumSlots * 4

	// soRecordBytes sizes the per-draw record buffer. Large enough for
	// the widest primitive class stream-out can see.
	soRecordBytes = 4096
)

// StreamOutBuffer binds one stream-out capture buffer. Pitch, size and
// offsets count dwords.
type StreamOutBuffer struct {
	// Data is the capture memory.
	Data []byte

	// Pitch is the dword stride between consecutive captured vertices.
	Pitch uint32

	// BufferSize is the writable capacity in dwords.
	BufferSize uint32

	// StreamOffset is the write cursor in dwords. The draw's snapshot
	// advances it as primitives land.
	StreamOffset uint32

	// Enable gates writes to this buffer.
	Enable bool

	// WriteOffsetOut, when non-nil, receives the byte write offset after
	// every stream-out flush, making the cursor visible to the caller
	// while the draw is still in flight.
	WriteOffsetOut *uint32
}

// StreamOutContext carries one primitive record into a stream's write
// function. The function must bump PrimStorageNeeded for every primitive
// and PrimsWritten plus the target cursors for primitives that fit.
type StreamOutContext struct {
	// PrimData is the gathered record; see the package layout note.
	PrimData []uint32

	// NumVerts is the vertex count of the primitive class being written.
	NumVerts int

	// Buffers are the draw's stream-out bindings.
	Buffers [MaxStreams]*StreamOutBuffer

	// PrimStorageNeeded and PrimsWritten accumulate across the group.
	PrimStorageNeeded uint32
	PrimsWritten      uint32
}

// StreamOutFunc writes one gathered primitive record.
type StreamOutFunc func(sc *StreamOutContext)

// StreamOutDecl routes one gathered attribute to a capture buffer.
type StreamOutDecl struct {
	// Buffer indexes the stream-out buffer bindings.
	Buffer int

	// Attrib is the source attribute slot relative to
	// prim.SlotAttribStart. It must be enabled in the stream's mask.
	Attrib int

	// Offset is the destination dword offset within a captured vertex.
	Offset int

	// ComponentCount is how many components, 1 through 4, are captured.
	ComponentCount int
}

// NewStreamOutWriter returns the reference stream-out function for one
// stream. mask must equal the stream's attribute mask so source offsets
// match the gathered record; decls route attributes to buffers. A
// primitive is written only if every target buffer is enabled and has
// room; otherwise only the needed-storage statistic moves.
func NewStreamOutWriter(mask uint32, decls ...StreamOutDecl) StreamOutFunc {
	// Precompute each decl's packed source offset within a record vertex.
	src := make([]int, len(decls))
	var targets uint32
	for i, d := range decls {
		if mask&(1<<d.Attrib) == 0 {
			panic("swr: stream-out decl attribute " + strconv.Itoa(d.Attrib) + " not in stream mask")
		}
		src[i] = 4 * bits.OnesCount32(mask&(1<<d.Attrib-1))
		targets |= 1 << d.Buffer
	}

	return func(sc *StreamOutContext) {
		sc.PrimStorageNeeded++

		for m := targets; m != 0; m &= m - 1 {
			b := sc.Buffers[bits.TrailingZeros32(m)]
			if !b.Enable || b.StreamOffset+uint32(sc.NumVerts)*b.Pitch > b.BufferSize {
				return
			}
		}

		for v := 0; v < sc.NumVerts; v++ {
			rec := sc.PrimData[v*soVertexStrideDwords:]
			for i, d := range decls {
				b := sc.Buffers[d.Buffer]
				words := safeish.SliceCast[[]uint32](b.Data)
				off := int(b.StreamOffset) + d.Offset
				copy(words[off:off+d.ComponentCount], rec[src[i]:src[i]+d.ComponentCount])
			}
			for m := targets; m != 0; m &= m - 1 {
				b := sc.Buffers[bits.TrailingZeros32(m)]
				b.StreamOffset += b.Pitch
			}
		}
		sc.PrimsWritten++
	}
}

// streamOut gathers each primitive of the assembler's current group into
// the record buffer, invokes the stream's write function per primitive,
// then publishes updated write cursors to the caller-visible slots and
// the draw's dynamic state.
func streamOut(dc *DrawContext, wc *workerContext, pa prim.Assembler, primData []uint32, stream int) {
	state := &dc.state
	soFunc := state.StreamOutFuncs[stream]
	if soFunc == nil {
		panic("swr: stream-out function not set for stream " + strconv.Itoa(stream))
	}

	numVerts := pa.Corners()
	sc := StreamOutContext{
		PrimData: primData,
		NumVerts: numVerts,
	}
	for i := range sc.Buffers {
		sc.Buffers[i] = &state.StreamOut.Buffers[i]
	}

	soMask := state.StreamOut.StreamMasks[stream]
	for p := 0; p < pa.NumPrims(); p++ {
		off := 0
		for m := soMask; m != 0; m &= m - 1 {
			slot := bits.TrailingZeros32(m)
			pa.AssembleVertex(prim.SlotAttribStart+slot, p, wc.soVerts[:numVerts])
			for v := 0; v < numVerts; v++ {
				d := v*soVertexStrideDwords + off
				vert := &wc.soVerts[v]
				primData[d+0] = math.Float32bits(vert[0])
				primData[d+1] = math.Float32bits(vert[1])
				primData[d+2] = math.Float32bits(vert[2])
				primData[d+3] = math.Float32bits(vert[3])
			}
			off += 4
		}
		soFunc(&sc)
	}

	dc.stats.SoPrimStorageNeeded[stream] += uint64(sc.PrimStorageNeeded)
	dc.stats.SoNumPrimsWritten[stream] += uint64(sc.PrimsWritten)

	for i := range state.StreamOut.Buffers {
		buf := &state.StreamOut.Buffers[i]
		if buf.WriteOffsetOut != nil {
			*buf.WriteOffsetOut = buf.StreamOffset * 4
		}
		if buf.Enable {
			dc.dyn.soWriteOffset[i] = buf.StreamOffset * 4
			dc.dyn.soWriteOffsetDirty[i] = true
		}
	}
}
