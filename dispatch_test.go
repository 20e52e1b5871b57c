package swr

import "testing"

func TestDrawFeatures_BitsRoundTrip(t *testing.T) {
	for b := 0; b < numDrawVariants; b++ {
		f := featuresFromBits(uint8(b))
		if got := f.bits(); got != uint8(b) {
			t.Errorf("bits round trip: %06b -> %+v -> %06b", b, f, got)
		}
	}
}

func TestDrawFeatures_Bits(t *testing.T) {
	tests := []struct {
		f    drawFeatures
		want uint8
	}{
		{drawFeatures{}, 0},
		{drawFeatures{indexed: true}, drawBitIndexed},
		{drawFeatures{indexed: true, cutIndex: true}, drawBitIndexed | drawBitCutIndex},
		{drawFeatures{tess: true, rast: true}, drawBitTess | drawBitRast},
		{drawFeatures{gs: true, streamOut: true}, drawBitGS | drawBitStreamOut},
		{
			drawFeatures{indexed: true, cutIndex: true, tess: true, gs: true, streamOut: true, rast: true},
			numDrawVariants - 1,
		},
	}
	for _, tt := range tests {
		if got := tt.f.bits(); got != tt.want {
			t.Errorf("%+v.bits() = %06b, want %06b", tt.f, got, tt.want)
		}
	}
}

func TestDrawDispatch_AllVariantsBound(t *testing.T) {
	for b, fn := range drawDispatch {
		if fn == nil {
			t.Errorf("variant %06b has no executor", b)
		}
	}
}
