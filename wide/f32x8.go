package wide

// Width is the number of lanes processed per batch. Every vertex batch,
// every primitive group and every lane mask in the pipeline is Width wide.
const Width = 8

// F32x8 represents 8 float32 values for SIMD-style operations.
// Designed for Go compiler auto-vectorization with fixed-size arrays.
// One F32x8 holds a single attribute component across a full vertex batch.
type F32x8 [Width]float32

// SplatF32 creates F32x8 with all lanes set to n.
func SplatF32(n float32) F32x8 {
	var result F32x8
	for i := range result {
		result[i] = n
	}
	return result
}

// LoadF32 loads up to Width values from s starting at offset.
// Lanes beyond the end of s are left zero. It reports the loaded lane count.
func LoadF32(s []float32, offset int) (F32x8, int) {
	var result F32x8
	n := len(s) - offset
	if n <= 0 {
		return result, 0
	}
	if n > Width {
		n = Width
	}
	for i := 0; i < n; i++ {
		result[i] = s[offset+i]
	}
	return result, n
}

// Add performs element-wise addition.
func (v F32x8) Add(other F32x8) F32x8 {
	var result F32x8
	for i := range v {
		result[i] = v[i] + other[i]
	}
	return result
}

// Sub performs element-wise subtraction.
func (v F32x8) Sub(other F32x8) F32x8 {
	var result F32x8
	for i := range v {
		result[i] = v[i] - other[i]
	}
	return result
}

// Mul performs element-wise multiplication.
func (v F32x8) Mul(other F32x8) F32x8 {
	var result F32x8
	for i := range v {
		result[i] = v[i] * other[i]
	}
	return result
}

// Min performs element-wise minimum.
func (v F32x8) Min(other F32x8) F32x8 {
	var result F32x8
	for i := range v {
		if v[i] < other[i] {
			result[i] = v[i]
		} else {
			result[i] = other[i]
		}
	}
	return result
}

// Max performs element-wise maximum.
func (v F32x8) Max(other F32x8) F32x8 {
	var result F32x8
	for i := range v {
		if v[i] > other[i] {
			result[i] = v[i]
		} else {
			result[i] = other[i]
		}
	}
	return result
}

// Lerp performs linear interpolation: v + (other - v) * t.
// When t=0, returns v; when t=1, returns other.
// t is a per-lane interpolation factor.
func (v F32x8) Lerp(other F32x8, t F32x8) F32x8 {
	var result F32x8
	for i := range v {
		result[i] = v[i] + (other[i]-v[i])*t[i]
	}
	return result
}

// Blend selects lanes from other where the mask bit is set, from v otherwise.
func (v F32x8) Blend(m Mask, other F32x8) F32x8 {
	result := v
	for i := range result {
		if m.Has(i) {
			result[i] = other[i]
		}
	}
	return result
}
