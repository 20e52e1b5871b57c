// Package arena provides a slab-based bump allocator for per-draw scratch
// memory. Allocations live until the owning draw retires, then the whole
// arena is reset at once; nothing is freed individually.
package arena

import (
	"reflect"

	"golang.org/x/exp/constraints"
	"honnef.co/go/safeish"
)

const slabSize = 1 << 20

// Arena is a bump allocator over fixed-size slabs. Memory returned by
// AllocAligned is zeroed. An Arena is not safe for concurrent use; the
// pipeline gives each draw its own.
type Arena struct {
	slabs [][]byte
	cur   int
	off   int
}

// New returns an empty arena. Slabs are allocated on demand and retained
// across Reset, so a long-lived arena settles at its high-water mark.
func New() *Arena {
	return &Arena{}
}

// AllocAligned returns a zeroed slice of size bytes whose backing offset is
// aligned to align, which must be a power of two. Requests larger than the
// slab size get a dedicated slab that rejoins the regular rotation after the
// next Reset.
func (a *Arena) AllocAligned(size, align int) []byte {
	if size < 0 || align <= 0 || align&(align-1) != 0 {
		panic("arena: bad alloc size or alignment")
	}
	if size == 0 {
		return nil
	}
	off := AlignUp(a.off, align)
	if a.cur >= len(a.slabs) || off+size > len(a.slabs[a.cur]) {
		a.nextSlab(size)
		off = 0
	}
	a.off = off + size
	return a.slabs[a.cur][off : off+size : off+size]
}

// nextSlab advances to the first existing slab that can hold size bytes,
// appending a new one when none fits.
func (a *Arena) nextSlab(size int) {
	if len(a.slabs) > 0 {
		a.cur++
	}
	for a.cur < len(a.slabs) && size > len(a.slabs[a.cur]) {
		a.cur++
	}
	if a.cur >= len(a.slabs) {
		n := slabSize
		if size > n {
			n = size
		}
		a.slabs = append(a.slabs, make([]byte, n))
		a.cur = len(a.slabs) - 1
	}
	a.off = 0
}

// Reset rewinds the arena, zeroing every byte handed out since the previous
// Reset. Slabs are kept for reuse.
func (a *Arena) Reset() {
	for i := 0; i < a.cur && i < len(a.slabs); i++ {
		clear(a.slabs[i])
	}
	if a.cur < len(a.slabs) {
		clear(a.slabs[a.cur][:a.off])
	}
	a.cur = 0
	a.off = 0
}

// Alloc returns a zeroed []T of length n backed by the arena. T must be a
// plain-data type: no pointers, maps, slices or interfaces, since the arena
// reuses raw bytes across draws.
func Alloc[T any](a *Arena, n int) []T {
	if n == 0 {
		return nil
	}
	rt := reflect.TypeFor[T]()
	raw := a.AllocAligned(n*int(rt.Size()), rt.Align())
	return safeish.SliceCast[[]T](raw)
}

// AlignUp rounds v up to the next multiple of to, which must be a power of
// two.
func AlignUp[T constraints.Integer](v, to T) T {
	return v + (-v & (to - 1))
}

// CeilDiv returns the number of whole groups of size needed to cover n.
func CeilDiv[T constraints.Integer](n, size T) T {
	return (n + size - 1) / size
}
