// Command swrdemo runs the swr geometry front end over a synthetic scene
// and prints pipeline statistics.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/swr"
	"github.com/gogpu/swr/prim"
	"github.com/gogpu/swr/wide"
)

func main() {
	var (
		width     = flag.Int("width", 1920, "render target width")
		height    = flag.Int("height", 1080, "render target height")
		triangles = flag.Int("triangles", 100000, "triangles per instance")
		instances = flag.Int("instances", 4, "instances to draw")
		workers   = flag.Int("workers", 0, "front-end workers (0 = one per CPU)")
		verbose   = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		swr.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	clips := &countingBinner{}
	tiles := &countingTileManager{}
	ctx := swr.NewContext(*width, *height,
		swr.WithWorkers(*workers),
		swr.WithBinner(clips),
		swr.WithTileManager(tiles),
	)
	defer ctx.Close()

	clearTarget(ctx, *width, *height)
	drawRing(ctx, *triangles, *instances)
	captureStreamOut(ctx)
	storeTarget(ctx, *width, *height)

	// Barrier: the counting manager runs sync callbacks inline, so the
	// channel is closed once every front-end item before it has drained.
	synced := make(chan struct{})
	if err := ctx.Sync(func() { close(synced) }); err != nil {
		log.Fatalf("Sync: %v", err)
	}
	ctx.Flush()
	<-synced

	report(ctx, clips, tiles)
}

// drawRing submits an instanced draw of a triangle fan ring. The vertex
// buffer holds clip-space positions; the vertex shader shrinks each
// instance toward the center.
func drawRing(ctx *swr.Context, triangles, instances int) {
	verts := make([]byte, 0, triangles*3*8)
	for i := 0; i < triangles; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(triangles)
		a1 := 2 * math.Pi * float64(i+1) / float64(triangles)
		verts = appendF32(verts, 0, 0)
		verts = appendF32(verts, 0.9*float32(math.Cos(a0)), 0.9*float32(math.Sin(a0)))
		verts = appendF32(verts, 0.9*float32(math.Cos(a1)), 0.9*float32(math.Sin(a1)))
	}

	ctx.SetState(swr.State{
		Topology:  prim.TopologyTriangleList,
		FetchFunc: swr.NewVertexFetcher(),
		Fetch: swr.FetchState{
			Layout: []swr.VertexElement{
				{Buffer: 0, Format: gputypes.VertexFormatFloat32x2, Slot: prim.SlotPosition},
			},
			Buffers: []swr.VertexBuffer{{Data: verts, Stride: 8}},
		},
		VertexFunc: func(vc *swr.VertexContext) {
			s := wide.SplatF32(1 / float32(1+vc.InstanceID))
			pos := vc.In.Attrib[prim.SlotPosition]
			vc.Out.Attrib[prim.SlotPosition] = wide.Vec4x8{
				X: pos.X.Mul(s),
				Y: pos.Y.Mul(s),
				Z: pos.Z,
				W: pos.W,
			}
		},
		Raster: swr.RasterState{Enable: true},
	})
	if err := ctx.DrawInstanced(triangles*3, 0, instances, 0); err != nil {
		log.Fatalf("DrawInstanced: %v", err)
	}
}

// captureStreamOut draws a small strip and records the shaded positions
// through stream-out, then prints the captured vertices. Each primitive
// captures all three corners, so shared strip vertices repeat.
func captureStreamOut(ctx *swr.Context) {
	const numVerts = 12
	const capturedVerts = (numVerts - 2) * 3
	capture := make([]byte, capturedVerts*4*4)

	st := swr.State{
		Topology: prim.TopologyTriangleStrip,
		FetchFunc: func(fc *swr.FetchContext, out *prim.VertexBatch) {
			fc.CutMask = 0
			fc.VertexID = wide.IotaI32(int32(fc.Base))
		},
		VertexFunc: func(vc *swr.VertexContext) {
			for lane := 0; lane < wide.Width; lane++ {
				id := float32(vc.VertexID[lane])
				p := wide.Vec4f{id / numVerts, float32(int(id) % 2), 0, 1}
				vc.Out.Attrib[prim.SlotPosition].SetLane(lane, p)
				vc.Out.Attrib[prim.SlotAttribStart].SetLane(lane, p)
			}
		},
		NumAttributes: 1,
	}
	st.StreamOut = swr.StreamOutState{
		Enable:       true,
		StreamEnable: [swr.MaxStreams]bool{true},
		StreamMasks:  [swr.MaxStreams]uint32{0b1},
	}
	st.StreamOut.Buffers[0] = swr.StreamOutBuffer{
		Data:       capture,
		Pitch:      4,
		BufferSize: capturedVerts * 4,
		Enable:     true,
	}
	st.StreamOutFuncs[0] = swr.NewStreamOutWriter(0b1,
		swr.StreamOutDecl{Buffer: 0, Attrib: 0, Offset: 0, ComponentCount: 4})

	ctx.SetState(st)
	if err := ctx.Draw(numVerts, 0); err != nil {
		log.Fatalf("Draw: %v", err)
	}
	ctx.Flush()

	fmt.Printf("stream-out capture (%d bytes):\n", ctx.StreamOutWriteOffset(0))
	words := int(ctx.StreamOutWriteOffset(0)) / 4
	for v := 0; v+4 <= words && v < 24; v += 4 {
		fmt.Printf("  vertex %2d: (%.3f, %.3f, %.3f, %.3f)\n", v/4,
			f32At(capture, v), f32At(capture, v+1), f32At(capture, v+2), f32At(capture, v+3))
	}
}

// clearTarget queues a full-target clear of color 0 and depth.
func clearTarget(ctx *swr.Context, width, height int) {
	err := ctx.ClearRenderTarget(swr.ClearDesc{
		Rect:        swr.Rect{XMax: width, YMax: height},
		Attachments: swr.AttachmentColor0.Mask() | swr.AttachmentDepth.Mask(),
		Color:       gputypes.Color{R: 0.1, G: 0.2, B: 0.4, A: 1},
		Depth:       1,
	})
	if err != nil {
		log.Fatalf("ClearRenderTarget: %v", err)
	}
}

// storeTarget queues a resolve of color 0 to attachment memory.
func storeTarget(ctx *swr.Context, width, height int) {
	err := ctx.StoreTiles(swr.StoreTilesDesc{
		Rect:        swr.Rect{XMax: width, YMax: height},
		Attachments: swr.AttachmentColor0.Mask(),
		PostState:   swr.TileStateResolved,
	})
	if err != nil {
		log.Fatalf("StoreTiles: %v", err)
	}
}

func report(ctx *swr.Context, clips *countingBinner, tiles *countingTileManager) {
	st := ctx.Stats()
	fmt.Printf("vertices fetched:  %d\n", st.IaVertices)
	fmt.Printf("primitives in:     %d\n", st.IaPrimitives)
	fmt.Printf("vs invocations:    %d\n", st.VsInvocations)
	fmt.Printf("clipped:           %d triangles, %d lines, %d points\n",
		clips.tris.Load(), clips.lines.Load(), clips.points.Load())
	fmt.Printf("stream-out:        %d primitives written\n", st.SoNumPrimsWritten[0])
	fmt.Printf("tile work:         %s\n", tiles.summary())
}

func appendF32(b []byte, vals ...float32) []byte {
	for _, v := range vals {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

func f32At(b []byte, word int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[word*4:]))
}

// countingBinner tallies the primitives handed to the clip stage.
type countingBinner struct {
	tris, lines, points atomic.Uint64
}

func (b *countingBinner) ClipTriangles(_ *swr.DrawContext, _ prim.Assembler, _ int, _ []wide.Vec4x8, mask wide.Mask, _, _ wide.I32x8) {
	b.tris.Add(uint64(mask.Count()))
}

func (b *countingBinner) ClipLines(_ *swr.DrawContext, _ prim.Assembler, _ int, _ []wide.Vec4x8, mask wide.Mask, _, _ wide.I32x8) {
	b.lines.Add(uint64(mask.Count()))
}

func (b *countingBinner) ClipPoints(_ *swr.DrawContext, _ prim.Assembler, _ int, _ []wide.Vec4x8, mask wide.Mask, _, _ wide.I32x8) {
	b.points.Add(uint64(mask.Count()))
}

// countingTileManager tallies back-end work per kind and runs sync
// callbacks inline.
type countingTileManager struct {
	mu     sync.Mutex
	counts map[swr.TileWorkKind]int
}

func (m *countingTileManager) Enqueue(x, y int, w *swr.TileWork) {
	m.mu.Lock()
	if m.counts == nil {
		m.counts = make(map[swr.TileWorkKind]int)
	}
	m.counts[w.Kind]++
	m.mu.Unlock()

	if w.Kind == swr.TileWorkSync && w.Done != nil {
		w.Done()
	}
}

func (m *countingTileManager) summary() string {
	names := []struct {
		kind swr.TileWorkKind
		name string
	}{
		{swr.TileWorkClear, "clear"},
		{swr.TileWorkStore, "store"},
		{swr.TileWorkDiscard, "discard"},
		{swr.TileWorkSync, "sync"},
		{swr.TileWorkShutdown, "shutdown"},
		{swr.TileWorkPrims, "prims"},
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := ""
	for _, n := range names {
		if c := m.counts[n.kind]; c > 0 {
			if s != "" {
				s += ", "
			}
			s += fmt.Sprintf("%d %s", c, n.name)
		}
	}
	if s == "" {
		return "none"
	}
	return s
}
