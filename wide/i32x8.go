package wide

// I32x8 represents 8 int32 values for SIMD-style operations.
// The pipeline uses it for vertex IDs, primitive IDs and viewport indices.
type I32x8 [Width]int32

// SplatI32 creates I32x8 with all lanes set to n.
func SplatI32(n int32) I32x8 {
	var result I32x8
	for i := range result {
		result[i] = n
	}
	return result
}

// IotaI32 creates I32x8 with lanes base, base+1, ..., base+7.
// This is the per-batch vertex ID sequence for non-indexed draws.
func IotaI32(base int32) I32x8 {
	var result I32x8
	for i := range result {
		result[i] = base + int32(i)
	}
	return result
}

// Add performs element-wise addition.
func (v I32x8) Add(other I32x8) I32x8 {
	var result I32x8
	for i := range v {
		result[i] = v[i] + other[i]
	}
	return result
}

// AddScalar adds n to every lane.
func (v I32x8) AddScalar(n int32) I32x8 {
	var result I32x8
	for i := range v {
		result[i] = v[i] + n
	}
	return result
}

// Blend selects lanes from other where the mask bit is set, from v otherwise.
func (v I32x8) Blend(m Mask, other I32x8) I32x8 {
	result := v
	for i := range result {
		if m.Has(i) {
			result[i] = other[i]
		}
	}
	return result
}
