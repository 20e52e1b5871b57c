package swr

import (
	"testing"

	"github.com/gogpu/swr/prim"
)

// validDrawState returns the minimal drawable state.
func validDrawState() State {
	return State{
		Topology:   prim.TopologyTriangleList,
		FetchFunc:  syntheticFetch,
		VertexFunc: idVertexShader,
	}
}

// validTessState returns a drawable tessellation state.
func validTessState() State {
	st := validDrawState()
	st.Topology = prim.PatchList(3)
	st.HullFunc = func(*HullContext) {}
	st.DomainFunc = func(*DomainContext) {}
	st.Tessellator = &fakeTessellator{}
	st.Tess = TessellationState{
		Enable:             true,
		PostTessTopology:   prim.TopologyTriangleList,
		NumDsOutputAttribs: 1,
	}
	return st
}

func TestDraw_EmptyDrawsDropped(t *testing.T) {
	ctx := NewContext(64, 64, WithWorkers(1))
	defer ctx.Close()

	// Empty draws return before validation, so even a zero state passes.
	if err := ctx.Draw(0, 0); err != nil {
		t.Errorf("Draw(0, 0) = %v", err)
	}
	if err := ctx.DrawInstanced(3, 0, 0, 0); err != nil {
		t.Errorf("zero-instance draw = %v", err)
	}
	if err := ctx.DrawIndexed(-1, 0, 0); err != nil {
		t.Errorf("negative-count draw = %v", err)
	}
	if got := ctx.Stats().IaVertices; got != 0 {
		t.Errorf("IaVertices = %d after empty draws", got)
	}
}

func TestDraw_ValidationPanics(t *testing.T) {
	tests := []struct {
		name    string
		state   func() State
		indexed bool
	}{
		{"unsupported topology", func() State {
			st := validDrawState()
			st.Topology = prim.TopologyUnknown
			return st
		}, false},
		{"no fetch function", func() State {
			st := validDrawState()
			st.FetchFunc = nil
			return st
		}, false},
		{"no vertex shader", func() State {
			st := validDrawState()
			st.VertexFunc = nil
			return st
		}, false},
		{"indexed without index buffer", func() State {
			return validDrawState()
		}, true},
		{"patch list without tessellation", func() State {
			st := validDrawState()
			st.Topology = prim.PatchList(3)
			return st
		}, false},
		{"tessellation without patch list", func() State {
			st := validTessState()
			st.Topology = prim.TopologyTriangleList
			return st
		}, false},
		{"tessellation without hull shader", func() State {
			st := validTessState()
			st.HullFunc = nil
			return st
		}, false},
		{"tessellation without tessellator", func() State {
			st := validTessState()
			st.Tessellator = nil
			return st
		}, false},
		{"domain shader with no outputs", func() State {
			st := validTessState()
			st.Tess.NumDsOutputAttribs = 0
			return st
		}, false},
		{"bad post-tessellation topology", func() State {
			st := validTessState()
			st.Tess.PostTessTopology = prim.TopologyTriangleStrip
			return st
		}, false},
		{"geometry stage without shader", func() State {
			st := validDrawState()
			st.GS = GeometryShaderState{
				Enable:         true,
				OutputTopology: prim.TopologyTriangleStrip,
				MaxOutputVerts: 4,
			}
			return st
		}, false},
		{"bad geometry output topology", func() State {
			st := validDrawState()
			st.GeometryFunc = func(*GeometryContext) {}
			st.GS = GeometryShaderState{
				Enable:         true,
				OutputTopology: prim.TopologyTriangleList,
				MaxOutputVerts: 4,
			}
			return st
		}, false},
		{"geometry shader with no output verts", func() State {
			st := validDrawState()
			st.GeometryFunc = func(*GeometryContext) {}
			st.GS = GeometryShaderState{
				Enable:         true,
				OutputTopology: prim.TopologyTriangleStrip,
			}
			return st
		}, false},
	}

	ctx := NewContext(64, 64, WithWorkers(1))
	defer ctx.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("draw did not panic")
				}
			}()
			ctx.SetState(tt.state())
			if tt.indexed {
				ctx.DrawIndexed(3, 0, 0)
			} else {
				ctx.Draw(3, 0)
			}
		})
	}
}
