package swr

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/swr/prim"
)

func TestNewContext_PanicsOnSize(t *testing.T) {
	for _, dim := range [][2]int{{0, 64}, {64, 0}, {-1, 64}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewContext(%d, %d) did not panic", dim[0], dim[1])
				}
			}()
			NewContext(dim[0], dim[1])
		}()
	}
}

func TestContext_Dimensions(t *testing.T) {
	ctx := NewContext(320, 240, WithWorkers(1))
	defer ctx.Close()

	if ctx.Width() != 320 || ctx.Height() != 240 {
		t.Errorf("dimensions = %dx%d, want 320x240", ctx.Width(), ctx.Height())
	}
}

func TestContext_ClearFanOut(t *testing.T) {
	mgr := &recordingTileMgr{}
	ctx := NewContext(200, 150, WithWorkers(1), WithTileManager(mgr))
	defer ctx.Close()

	err := ctx.ClearRenderTarget(ClearDesc{
		Rect:        Rect{0, 0, 500, 500},
		Attachments: AttachmentColor0.Mask(),
		Color:       gputypes.Color{R: 1, A: 1},
	})
	if err != nil {
		t.Fatalf("ClearRenderTarget: %v", err)
	}
	ctx.Flush()

	recs := mgr.ofKind(TileWorkClear)
	if len(recs) != 12 {
		t.Fatalf("got %d clear items, want 4x3 tiles", len(recs))
	}
	seen := make(map[[2]int]bool)
	for _, r := range recs {
		if r.work != recs[0].work {
			t.Error("clear items do not share one work descriptor")
		}
		seen[[2]int{r.x, r.y}] = true
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if !seen[[2]int{x, y}] {
				t.Errorf("tile (%d,%d) missing", x, y)
			}
		}
	}

	// The rect arrives clamped to the render target.
	if got := recs[0].work.Clear.Rect; got != (Rect{0, 0, 200, 150}) {
		t.Errorf("clear rect = %+v, want clamped to target", got)
	}
	if recs[0].work.Clear.Attachments != AttachmentColor0.Mask() {
		t.Errorf("attachments = %#x", recs[0].work.Clear.Attachments)
	}
}

func TestContext_ClearOutsideTargetDropped(t *testing.T) {
	mgr := &recordingTileMgr{}
	ctx := NewContext(200, 150, WithWorkers(1), WithTileManager(mgr))
	defer ctx.Close()

	ctx.ClearRenderTarget(ClearDesc{Rect: Rect{300, 300, 400, 400}})
	ctx.Flush()

	if recs := mgr.ofKind(TileWorkClear); len(recs) != 0 {
		t.Errorf("got %d clear items for an off-target rect, want 0", len(recs))
	}
}

func TestContext_StoreTilesFanOut(t *testing.T) {
	mgr := &recordingTileMgr{}
	ctx := NewContext(256, 256, WithWorkers(1), WithTileManager(mgr))
	defer ctx.Close()

	err := ctx.StoreTiles(StoreTilesDesc{
		Rect:        Rect{0, 0, 10000, 64},
		Attachments: AttachmentColor0.Mask() | AttachmentDepth.Mask(),
		PostState:   TileStateResolved,
	})
	if err != nil {
		t.Fatalf("StoreTiles: %v", err)
	}
	ctx.Flush()

	// The oversized rect clamps to the target's 4-tile row.
	recs := mgr.ofKind(TileWorkStore)
	if len(recs) != 4 {
		t.Fatalf("got %d store items, want 4", len(recs))
	}
	for i, r := range recs {
		if r.y != 0 {
			t.Errorf("item %d at row %d, want 0", i, r.y)
		}
		if r.work.Store.PostState != TileStateResolved {
			t.Errorf("item %d post state = %v", i, r.work.Store.PostState)
		}
	}
}

func TestContext_DiscardFullTilesOnly(t *testing.T) {
	mgr := &recordingTileMgr{}
	ctx := NewContext(256, 256, WithWorkers(1), WithTileManager(mgr))
	defer ctx.Close()

	// Only tiles fully inside the rect are invalidated.
	ctx.DiscardInvalidateTiles(DiscardInvalidateDesc{
		Rect:          Rect{10, 0, 250, 128},
		FullTilesOnly: true,
		NewState:      TileStateInvalid,
	})
	ctx.Flush()

	recs := mgr.ofKind(TileWorkDiscard)
	if len(recs) != 4 {
		t.Fatalf("got %d discard items, want 2x2 interior tiles", len(recs))
	}
	for _, r := range recs {
		if r.x < 1 || r.x > 2 || r.y < 0 || r.y > 1 {
			t.Errorf("partially covered tile (%d,%d) was invalidated", r.x, r.y)
		}
	}
}

func TestContext_DiscardSubTileRect(t *testing.T) {
	mgr := &recordingTileMgr{}
	ctx := NewContext(256, 256, WithWorkers(1), WithTileManager(mgr))
	defer ctx.Close()

	// A rect inside one tile invalidates nothing in full-tiles mode and
	// exactly that tile otherwise.
	desc := DiscardInvalidateDesc{Rect: Rect{10, 10, 60, 60}, FullTilesOnly: true}
	ctx.DiscardInvalidateTiles(desc)
	ctx.Flush()
	if recs := mgr.ofKind(TileWorkDiscard); len(recs) != 0 {
		t.Errorf("full-tiles discard of a sub-tile rect produced %d items", len(recs))
	}

	desc.FullTilesOnly = false
	ctx.DiscardInvalidateTiles(desc)
	ctx.Flush()
	recs := mgr.ofKind(TileWorkDiscard)
	if len(recs) != 1 || recs[0].x != 0 || recs[0].y != 0 {
		t.Errorf("got %d items, want one at (0,0)", len(recs))
	}
}

func TestContext_SyncBarrier(t *testing.T) {
	mgr := &recordingTileMgr{}
	ctx := NewContext(64, 64, WithWorkers(1), WithTileManager(mgr))
	defer ctx.Close()

	if err := ctx.Sync(func() {}); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	ctx.Flush()

	recs := mgr.ofKind(TileWorkSync)
	if len(recs) != 1 {
		t.Fatalf("got %d sync items, want 1", len(recs))
	}
	if recs[0].x != 0 || recs[0].y != 0 {
		t.Errorf("sync at (%d,%d), want (0,0)", recs[0].x, recs[0].y)
	}
	if recs[0].work.Done == nil {
		t.Error("sync item has no completion callback")
	}
}

func TestContext_SyncNilCallbackPanics(t *testing.T) {
	ctx := NewContext(64, 64, WithWorkers(1))
	defer ctx.Close()

	defer func() {
		if recover() == nil {
			t.Error("Sync(nil) did not panic")
		}
	}()
	ctx.Sync(nil)
}

func TestContext_CloseShutdownFanOut(t *testing.T) {
	mgr := &recordingTileMgr{}
	ctx := NewContext(64, 64, WithWorkers(2), WithTileManager(mgr))

	if err := ctx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	recs := mgr.ofKind(TileWorkShutdown)
	if len(recs) != 2 {
		t.Fatalf("got %d shutdown items, want one per worker", len(recs))
	}
	for i, r := range recs {
		if r.work != recs[0].work {
			t.Error("shutdown items do not share one work descriptor")
		}
		if r.y != 0 {
			t.Errorf("item %d at row %d", i, r.y)
		}
	}
	if recs[0].x == recs[1].x {
		t.Error("shutdown items target the same worker queue")
	}
}

func TestContext_SubmitAfterClose(t *testing.T) {
	ctx := NewContext(64, 64, WithWorkers(1))
	ctx.SetState(State{
		Topology:   prim.TopologyTriangleList,
		FetchFunc:  syntheticFetch,
		VertexFunc: idVertexShader,
	})
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := ctx.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if err := ctx.Draw(3, 0); !errors.Is(err, ErrContextClosed) {
		t.Errorf("Draw after close: %v, want ErrContextClosed", err)
	}
	if err := ctx.Sync(func() {}); !errors.Is(err, ErrContextClosed) {
		t.Errorf("Sync after close: %v, want ErrContextClosed", err)
	}
	if err := ctx.ClearRenderTarget(ClearDesc{Rect: Rect{0, 0, 64, 64}}); !errors.Is(err, ErrContextClosed) {
		t.Errorf("ClearRenderTarget after close: %v, want ErrContextClosed", err)
	}
}

func TestContext_MaxDrawsInFlight(t *testing.T) {
	ctx := NewContext(64, 64, WithWorkers(1), WithMaxDrawsInFlight(1))
	defer ctx.Close()

	ctx.SetState(State{
		Topology:   prim.TopologyTriangleList,
		FetchFunc:  syntheticFetch,
		VertexFunc: idVertexShader,
	})
	// Submission blocks on the single slot rather than failing.
	for range 8 {
		if err := ctx.Draw(3, 0); err != nil {
			t.Fatalf("Draw: %v", err)
		}
	}
	ctx.Flush()

	if got := ctx.Stats().IaPrimitives; got != 8 {
		t.Errorf("IaPrimitives = %d, want 8", got)
	}
}
