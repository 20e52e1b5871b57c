package wide

// Vec4f is a single 4-component attribute value: one lane of a Vec4x8.
type Vec4f [4]float32

// Vec4x8 is a 4-component attribute batch in Structure-of-Arrays layout.
// Component c of lane i lives in one of the four F32x8 fields, which keeps
// per-component arithmetic on whole batches auto-vectorizable.
type Vec4x8 struct {
	X F32x8
	Y F32x8
	Z F32x8
	W F32x8
}

// SplatVec4 creates Vec4x8 with every lane set to v.
func SplatVec4(v Vec4f) Vec4x8 {
	return Vec4x8{
		X: SplatF32(v[0]),
		Y: SplatF32(v[1]),
		Z: SplatF32(v[2]),
		W: SplatF32(v[3]),
	}
}

// Lane extracts lane i as a scalar 4-vector.
func (v *Vec4x8) Lane(i int) Vec4f {
	return Vec4f{v.X[i], v.Y[i], v.Z[i], v.W[i]}
}

// SetLane stores the scalar 4-vector val into lane i.
func (v *Vec4x8) SetLane(i int, val Vec4f) {
	v.X[i] = val[0]
	v.Y[i] = val[1]
	v.Z[i] = val[2]
	v.W[i] = val[3]
}

// Add performs component-wise addition across all lanes.
func (v Vec4x8) Add(other Vec4x8) Vec4x8 {
	return Vec4x8{
		X: v.X.Add(other.X),
		Y: v.Y.Add(other.Y),
		Z: v.Z.Add(other.Z),
		W: v.W.Add(other.W),
	}
}

// Scale multiplies every component by the per-lane factor t.
func (v Vec4x8) Scale(t F32x8) Vec4x8 {
	return Vec4x8{
		X: v.X.Mul(t),
		Y: v.Y.Mul(t),
		Z: v.Z.Mul(t),
		W: v.W.Mul(t),
	}
}

// Lerp interpolates toward other by the per-lane factor t.
func (v Vec4x8) Lerp(other Vec4x8, t F32x8) Vec4x8 {
	return Vec4x8{
		X: v.X.Lerp(other.X, t),
		Y: v.Y.Lerp(other.Y, t),
		Z: v.Z.Lerp(other.Z, t),
		W: v.W.Lerp(other.W, t),
	}
}
