// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package prim provides primitive topology arithmetic and primitive
// assembly for the swr front-end.
//
// A Topology maps between vertex counts and primitive counts and describes
// the per-primitive vertex footprint, including adjacency. The Assembler
// implementations turn shaded vertex batches into groups of whole
// primitives:
//
//   - the linear assembler walks an uncut stream by topology pattern,
//   - the cut assembler additionally honors a cut bitstream that splits
//     strips and fans at dead slots (primitive restart, geometry-shader
//     stream boundaries),
//   - the tess assembler follows an explicit index list produced by the
//     tessellator.
//
// Assemblers deliver up to wide.Width primitives per group in
// structure-of-arrays form, ready for clip dispatch.
package prim
