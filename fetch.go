package swr

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/swr/prim"
	"github.com/gogpu/swr/wide"
)

// IndexFormat selects the width of index buffer entries. It carries an
// 8-bit variant on top of the 16- and 32-bit formats the GPU types expose.
type IndexFormat uint8

const (
	IndexFormatNone IndexFormat = iota
	IndexFormatUint8
	IndexFormatUint16
	IndexFormatUint32
)

// Bytes returns the entry width in bytes.
func (f IndexFormat) Bytes() int {
	switch f {
	case IndexFormatUint8:
		return 1
	case IndexFormatUint16:
		return 2
	case IndexFormatUint32:
		return 4
	}
	panic("swr: invalid index format " + strconv.Itoa(int(f)))
}

// RestartSentinel returns the all-ones index value that, with primitive
// restart enabled, ends the current strip instead of addressing a vertex.
func (f IndexFormat) RestartSentinel() uint32 {
	switch f {
	case IndexFormatUint8:
		return 0xff
	case IndexFormatUint16:
		return 0xffff
	case IndexFormatUint32:
		return 0xffffffff
	}
	panic("swr: invalid index format " + strconv.Itoa(int(f)))
}

func (f IndexFormat) String() string {
	switch f {
	case IndexFormatNone:
		return "None"
	case IndexFormatUint8:
		return "Uint8"
	case IndexFormatUint16:
		return "Uint16"
	case IndexFormatUint32:
		return "Uint32"
	}
	return "IndexFormat(" + strconv.Itoa(int(f)) + ")"
}

// FromGPUIndexFormat converts a gputypes index format.
func FromGPUIndexFormat(f gputypes.IndexFormat) IndexFormat {
	switch f {
	case gputypes.IndexFormatUint16:
		return IndexFormatUint16
	case gputypes.IndexFormatUint32:
		return IndexFormatUint32
	}
	return IndexFormatNone
}

// VertexBuffer binds one vertex stream.
type VertexBuffer struct {
	Data []byte
	// Stride is the byte distance between consecutive elements.
	Stride uint32
	// StepMode selects per-vertex or per-instance addressing.
	StepMode gputypes.VertexStepMode
}

// VertexElement maps bytes of one bound buffer to a vertex attribute
// slot.
type VertexElement struct {
	// Buffer indexes FetchState.Buffers.
	Buffer int
	// Format is the source encoding. The reference fetcher decodes the
	// float32 family; missing components default to (0, 0, 0, 1).
	Format gputypes.VertexFormat
	// Offset is the byte offset within the element.
	Offset uint32
	// Slot is the destination attribute slot; slot 0 feeds the vertex
	// shader's position input.
	Slot int
}

// IndexBuffer binds the index stream for indexed draws.
type IndexBuffer struct {
	Data   []byte
	Format IndexFormat
}

// NewVertexFetcher returns the reference fetch function. It decodes
// indices per the bound IndexFormat, honors primitive restart, and
// gathers attributes per the bound layout. Lanes whose buffer reads would
// run past the end of a binding are left untouched rather than read out
// of range.
func NewVertexFetcher() FetchFunc {
	return fetchVertices
}

func fetchVertices(fc *FetchContext, out *prim.VertexBatch) {
	fc.CutMask = 0
	fc.VertexID = wide.I32x8{}

	indexed := len(fc.IndexData) > 0
	for lane := 0; lane < wide.Width; lane++ {
		slot := fc.Base + lane
		if slot >= fc.NumSlots {
			continue
		}

		var vid int32
		if indexed {
			idx, ok := fc.indexAt(slot)
			if !ok {
				continue
			}
			if fc.PrimitiveRestart && idx == fc.IndexFormat.RestartSentinel() {
				fc.CutMask = fc.CutMask.Set(lane)
				continue
			}
			vid = fc.BaseVertex + int32(idx)
		} else {
			vid = int32(fc.StartVertex) + int32(slot)
		}
		fc.VertexID[lane] = vid

		for _, e := range fc.Layout {
			buf := &fc.Buffers[e.Buffer]
			elem := vid
			if buf.StepMode == gputypes.VertexStepModeInstance {
				elem = int32(fc.StartInstance + fc.Instance)
			}
			off := int(elem)*int(buf.Stride) + int(e.Offset)
			size := vertexFormatSize(e.Format)
			if off < 0 || off+size > len(buf.Data) {
				continue
			}
			out.Attrib[e.Slot].SetLane(lane, decodeVertexFormat(buf.Data[off:], e.Format))
		}
	}
}

// indexAt decodes the index at stream slot s, reporting false when the
// slot lies beyond the bound index data.
func (fc *FetchContext) indexAt(s int) (uint32, bool) {
	w := fc.IndexFormat.Bytes()
	off := s * w
	if off+w > len(fc.IndexData) {
		return 0, false
	}
	switch fc.IndexFormat {
	case IndexFormatUint8:
		return uint32(fc.IndexData[off]), true
	case IndexFormatUint16:
		return uint32(binary.LittleEndian.Uint16(fc.IndexData[off:])), true
	default:
		return binary.LittleEndian.Uint32(fc.IndexData[off:]), true
	}
}

// vertexFormatSize returns the byte size of one element of f.
func vertexFormatSize(f gputypes.VertexFormat) int {
	switch f {
	case gputypes.VertexFormatFloat32:
		return 4
	case gputypes.VertexFormatFloat32x2:
		return 8
	case gputypes.VertexFormatFloat32x3:
		return 12
	case gputypes.VertexFormatFloat32x4:
		return 16
	}
	panic("swr: unsupported vertex format " + strconv.Itoa(int(f)))
}

// decodeVertexFormat reads one element, defaulting missing components to
// (0, 0, 0, 1).
func decodeVertexFormat(data []byte, f gputypes.VertexFormat) wide.Vec4f {
	v := wide.Vec4f{0, 0, 0, 1}
	n := vertexFormatSize(f) / 4
	for c := 0; c < n; c++ {
		v[c] = math.Float32frombits(binary.LittleEndian.Uint32(data[c*4:]))
	}
	return v
}
