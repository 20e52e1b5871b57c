package wide

import "math/bits"

// Mask is an 8-bit lane mask. Bit i selects lane i of a batch.
// Lane iteration order is always ascending.
type Mask uint8

// MaskAll selects every lane of a batch.
const MaskAll Mask = 1<<Width - 1

// MaskN returns a mask with the low min(n, Width) bits set.
// MaskN(0) and negative n return the empty mask. This is the active-lane
// mask for the tail batch of a stream with n elements remaining.
func MaskN(n int) Mask {
	if n <= 0 {
		return 0
	}
	if n >= Width {
		return MaskAll
	}
	return Mask(1<<n - 1)
}

// Has reports whether lane i is selected.
func (m Mask) Has(i int) bool {
	return m&(1<<i) != 0
}

// Set returns m with lane i selected.
func (m Mask) Set(i int) Mask {
	return m | 1<<i
}

// Count returns the number of selected lanes.
func (m Mask) Count() int {
	return bits.OnesCount8(uint8(m))
}

// None reports whether no lane is selected.
func (m Mask) None() bool {
	return m == 0
}
