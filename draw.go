package swr

import "github.com/gogpu/swr/prim"

// drawWork is the argument block of one draw call.
type drawWork struct {
	numVerts      uint32
	startVertex   uint32
	startIndex    uint32
	baseVertex    int32
	numInstances  uint32
	startInstance uint32
	startPrim     uint32
	indexed       bool
}

// Draw submits a non-indexed draw of numVerts vertices starting at
// startVertex under the current state. Empty draws are dropped. It
// returns ErrContextClosed after Close; misconfigured state panics.
func (c *Context) Draw(numVerts, startVertex int) error {
	return c.DrawInstanced(numVerts, startVertex, 1, 0)
}

// DrawInstanced submits numInstances instances of a non-indexed draw.
// Instances execute in order, so instance N's stream-out lands after
// instance N-1's.
func (c *Context) DrawInstanced(numVerts, startVertex, numInstances, startInstance int) error {
	if numVerts <= 0 || numInstances <= 0 {
		return nil
	}
	return c.draw(drawWork{
		numVerts:      uint32(numVerts),
		startVertex:   uint32(startVertex),
		numInstances:  uint32(numInstances),
		startInstance: uint32(startInstance),
	})
}

// DrawIndexed submits an indexed draw of numIndices index slots starting
// at startIndex. baseVertex is added to every decoded index.
func (c *Context) DrawIndexed(numIndices, startIndex int, baseVertex int32) error {
	return c.DrawIndexedInstanced(numIndices, startIndex, baseVertex, 1, 0)
}

// DrawIndexedInstanced submits numInstances instances of an indexed
// draw.
func (c *Context) DrawIndexedInstanced(numIndices, startIndex int, baseVertex int32, numInstances, startInstance int) error {
	if numIndices <= 0 || numInstances <= 0 {
		return nil
	}
	return c.draw(drawWork{
		numVerts:      uint32(numIndices),
		startIndex:    uint32(startIndex),
		baseVertex:    baseVertex,
		numInstances:  uint32(numInstances),
		startInstance: uint32(startInstance),
		indexed:       true,
	})
}

func (c *Context) draw(work drawWork) error {
	s := &c.state
	f := drawFeatures{
		indexed:   work.indexed,
		cutIndex:  work.indexed && s.PrimitiveRestart,
		tess:      s.Tess.Enable,
		gs:        s.GS.Enable,
		streamOut: s.StreamOut.Enable,
		rast:      s.Raster.Enable,
	}
	validateDraw(s, f)
	return c.submitWork(work, drawDispatch[f.bits()])
}

// validateDraw panics on state no dispatch variant can execute.
// Misconfiguration is a programming error, not a runtime condition.
func validateDraw(s *State, f drawFeatures) {
	if !s.Topology.Supported() {
		panic("swr: unsupported topology " + s.Topology.String())
	}
	if s.FetchFunc == nil {
		panic("swr: draw without a fetch function")
	}
	if s.VertexFunc == nil {
		panic("swr: draw without a vertex shader")
	}
	if f.indexed && s.Fetch.Index.Format == IndexFormatNone {
		panic("swr: indexed draw without an index buffer")
	}
	if s.Topology.IsPatchList() && !f.tess {
		panic("swr: patch-list topology requires tessellation")
	}
	if f.tess {
		if !s.Topology.IsPatchList() {
			panic("swr: tessellation requires a patch-list topology")
		}
		if s.HullFunc == nil || s.DomainFunc == nil || s.Tessellator == nil {
			panic("swr: tessellation requires hull, domain and tessellator")
		}
		if s.Tess.NumDsOutputAttribs < 1 {
			panic("swr: domain shader must write at least the position slot")
		}
		switch s.Tess.PostTessTopology {
		case prim.TopologyTriangleList, prim.TopologyLineList, prim.TopologyPointList:
		default:
			panic("swr: post-tessellation topology must be TriangleList, LineList or PointList")
		}
	}
	if f.gs {
		if s.GeometryFunc == nil {
			panic("swr: geometry stage without a geometry shader")
		}
		switch s.GS.OutputTopology {
		case prim.TopologyTriangleStrip, prim.TopologyLineStrip, prim.TopologyPointList:
		default:
			panic("swr: geometry shader output topology must be TriangleStrip, LineStrip or PointList")
		}
		if s.GS.MaxOutputVerts < 1 {
			panic("swr: geometry shader declares no output vertices")
		}
	}
}
