package swr

import "github.com/gogpu/gputypes"

// Macrotile dimensions in pixels. Back-end work is partitioned into
// macrotiles; the front end fans render-target operations out to every
// macrotile they touch.
const (
	MacroTileWidth  = 64
	MacroTileHeight = 64
)

// Rect is a pixel rectangle with exclusive maxima.
type Rect struct {
	XMin, YMin, XMax, YMax int
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.XMax <= r.XMin || r.YMax <= r.YMin
}

// Intersect returns the overlap of r and o.
func (r Rect) Intersect(o Rect) Rect {
	if o.XMin > r.XMin {
		r.XMin = o.XMin
	}
	if o.YMin > r.YMin {
		r.YMin = o.YMin
	}
	if o.XMax < r.XMax {
		r.XMax = o.XMax
	}
	if o.YMax < r.YMax {
		r.YMax = o.YMax
	}
	return r
}

// Attachment names one render-target binding of a tile.
type Attachment uint8

const (
	AttachmentColor0 Attachment = iota
	AttachmentColor1
	AttachmentColor2
	AttachmentColor3
	AttachmentColor4
	AttachmentColor5
	AttachmentColor6
	AttachmentColor7
	AttachmentDepth
	AttachmentStencil
	NumAttachments
)

// Mask returns the attachment's bit for descriptor masks.
func (a Attachment) Mask() uint32 {
	return 1 << a
}

// TileState is the residency state a store or invalidate leaves a hot
// tile in.
type TileState uint8

const (
	TileStateInvalid TileState = iota
	TileStateClear
	TileStateDirty
	TileStateResolved
)

// TileWorkKind discriminates TileWork payloads.
type TileWorkKind uint8

const (
	// TileWorkSync runs its Done callback once all earlier work on the
	// tile has drained.
	TileWorkSync TileWorkKind = iota
	// TileWorkShutdown tells a back-end worker to stop. One is issued per
	// worker at context close.
	TileWorkShutdown
	// TileWorkClear fills the attachment intersection of tile and rect.
	TileWorkClear
	// TileWorkStore flushes hot-tile contents to attachment memory.
	TileWorkStore
	// TileWorkDiscard drops hot-tile contents without storing them.
	TileWorkDiscard
	// TileWorkPrims carries binner-defined primitive work.
	TileWorkPrims
)

// ClearDesc fills attachments within a rect.
type ClearDesc struct {
	Rect Rect
	// Attachments is a bit mask of Attachment values to clear.
	Attachments uint32
	Color       gputypes.Color
	Depth       float32
	Stencil     uint8
}

// StoreTilesDesc flushes hot tiles to attachment memory, leaving them in
// PostState.
type StoreTilesDesc struct {
	Rect        Rect
	Attachments uint32
	PostState   TileState
}

// DiscardInvalidateDesc invalidates hot tiles without a store. With
// FullTilesOnly set, tiles only partially covered by Rect are kept.
type DiscardInvalidateDesc struct {
	Rect          Rect
	Attachments   uint32
	FullTilesOnly bool
	NewState      TileState
}

// TileWork is one unit of back-end work targeted at a macrotile. The
// field matching Kind is populated; Draw is the owning draw context for
// primitive work and nil for context-level items.
type TileWork struct {
	Kind TileWorkKind
	Draw *DrawContext

	Clear   ClearDesc
	Store   StoreTilesDesc
	Discard DiscardInvalidateDesc

	// Done is the completion callback of TileWorkSync.
	Done func()

	// Payload carries binner-defined data for TileWorkPrims.
	Payload any
}

// TileManager queues back-end work per macrotile. Implementations are
// injected through WithTileManager and must be safe for concurrent use:
// front-end workers enqueue from multiple goroutines. Tile coordinates
// are in macrotile units.
type TileManager interface {
	Enqueue(x, y int, w *TileWork)
}

// nopTileManager drops back-end work. It stands in when no tile manager
// is injected, letting the geometry front end run alone.
type nopTileManager struct{}

func (nopTileManager) Enqueue(int, int, *TileWork) {}

// macroTileSpan returns the inclusive macrotile range covering r. r must
// be non-empty.
func macroTileSpan(r Rect) (x0, y0, x1, y1 int) {
	return r.XMin / MacroTileWidth, r.YMin / MacroTileHeight,
		(r.XMax - 1) / MacroTileWidth, (r.YMax - 1) / MacroTileHeight
}
