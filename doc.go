// Package swr provides the geometry front end of a software rasterizer.
//
// # Overview
//
// swr is a Pure Go, SIMD-style batched geometry pipeline designed to
// integrate with the GoGPU ecosystem. It consumes draw calls and runs them
// through vertex fetch, vertex shading, primitive assembly and the optional
// tessellation, geometry-shader and stream-out stages, then hands surviving
// primitives to an injected clip/bin stage. Vertices travel in batches of
// eight lanes laid out structure-of-arrays; see the wide sub-package.
//
// # Quick Start
//
//	import "github.com/gogpu/swr"
//
//	// Create a pipeline context sized to the render target.
//	ctx := swr.NewContext(1920, 1080, swr.WithBinner(myBinner))
//	defer ctx.Close()
//
//	// Bind pipeline state, then draw.
//	ctx.SetState(state)
//	ctx.Draw(3, 0)
//	ctx.Flush()
//
// # Architecture
//
// The library is organized into:
//   - Public API: Context, State, shader function contracts, TileManager,
//     Binner and Tessellator injection points
//   - prim: topology arithmetic and the primitive assemblers
//   - wide: eight-lane batch types and lane masks
//   - internal/arena: per-draw bump-allocated scratch
//
// Draws execute asynchronously on a worker pool. Each draw captures an
// immutable snapshot of the bound state, so the caller may rebind state
// for the next draw immediately. Flush waits for every queued draw to
// retire; Close shuts the pool down.
//
// # Stage Order
//
// Fetch -> vertex shader -> primitive assembly -> hull/tessellate/domain ->
// geometry shader -> stream-out -> clip/bin. Tessellation and the geometry
// shader are enabled per draw by the bound state; when both are on, the
// geometry shader consumes tessellated primitives.
//
// # Performance
//
// The front end favors predictable batching over adaptive heuristics:
// every stage advances eight lanes at a time and partial batches carry an
// explicit lane mask. Per-draw scratch comes from a bump arena that is
// recycled when the draw retires.
package swr

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
