package swr

// drawFeatures names the stage combination one draw runs with. The
// combination is resolved once at submission; workers execute the
// matching table entry without re-deriving it.
type drawFeatures struct {
	indexed   bool
	cutIndex  bool
	tess      bool
	gs        bool
	streamOut bool
	rast      bool
}

const (
	drawBitIndexed = 1 << iota
	drawBitCutIndex
	drawBitTess
	drawBitGS
	drawBitStreamOut
	drawBitRast

	numDrawVariants = 1 << 6
)

// bits packs the feature set into a dispatch table index.
func (f drawFeatures) bits() uint8 {
	var b uint8
	if f.indexed {
		b |= drawBitIndexed
	}
	if f.cutIndex {
		b |= drawBitCutIndex
	}
	if f.tess {
		b |= drawBitTess
	}
	if f.gs {
		b |= drawBitGS
	}
	if f.streamOut {
		b |= drawBitStreamOut
	}
	if f.rast {
		b |= drawBitRast
	}
	return b
}

func featuresFromBits(b uint8) drawFeatures {
	return drawFeatures{
		indexed:   b&drawBitIndexed != 0,
		cutIndex:  b&drawBitCutIndex != 0,
		tess:      b&drawBitTess != 0,
		gs:        b&drawBitGS != 0,
		streamOut: b&drawBitStreamOut != 0,
		rast:      b&drawBitRast != 0,
	}
}

// drawFunc executes one queued draw on a worker.
type drawFunc func(dc *DrawContext, wc *workerContext)

// drawDispatch holds one executor per feature combination, built once at
// package init.
var drawDispatch [numDrawVariants]drawFunc

func init() {
	for b := range drawDispatch {
		f := featuresFromBits(uint8(b))
		drawDispatch[b] = func(dc *DrawContext, wc *workerContext) {
			processDraw(dc, wc, f)
		}
	}
}
