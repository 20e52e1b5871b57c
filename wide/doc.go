// Package wide provides SIMD-friendly wide types for batch vertex processing.
//
// This package implements wide types (F32x8, I32x8, Vec4x8) that are designed
// to enable Go compiler auto-vectorization. By using fixed-size arrays and
// simple loops, these types allow the compiler to generate SIMD instructions
// on supported architectures (SSE, AVX, NEON).
//
// # Wide Types
//
// F32x8: 8 float32 lanes, one attribute component across a vertex batch.
// I32x8: 8 int32 lanes for vertex IDs, primitive IDs and viewport indices.
// Vec4x8: Structure-of-Arrays layout for a 4-component attribute batch.
// Mask: an 8-bit lane mask selecting the active lanes of a batch.
//
// # Batches
//
// The front-end advances through vertex and primitive streams in groups of
// Width lanes. The canonical loop is:
//
//	for i := 0; i < total; i += wide.Width {
//		m := wide.MaskN(total - i)
//		// process lanes selected by m
//	}
//
// # Design Philosophy
//
//   - Use simple loops over fixed-size arrays for auto-vectorization
//   - Avoid unsafe and assembly - rely on compiler optimization
//   - Keep functions small and inlineable
package wide
