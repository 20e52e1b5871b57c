package swr

import (
	"strconv"

	"github.com/gogpu/swr/prim"
)

// TessDomain selects the coordinate space a patch is tessellated over.
type TessDomain uint8

const (
	TessDomainIsoline TessDomain = iota
	TessDomainTri
	TessDomainQuad
)

func (d TessDomain) String() string {
	switch d {
	case TessDomainIsoline:
		return "Isoline"
	case TessDomainTri:
		return "Tri"
	case TessDomainQuad:
		return "Quad"
	}
	return "TessDomain(" + strconv.Itoa(int(d)) + ")"
}

// TessPartitioning selects how edge tessellation factors are split into
// segments.
type TessPartitioning uint8

const (
	TessPartitionInteger TessPartitioning = iota
	TessPartitionPow2
	TessPartitionFractionalOdd
	TessPartitionFractionalEven
)

func (p TessPartitioning) String() string {
	switch p {
	case TessPartitionInteger:
		return "Integer"
	case TessPartitionPow2:
		return "Pow2"
	case TessPartitionFractionalOdd:
		return "FractionalOdd"
	case TessPartitionFractionalEven:
		return "FractionalEven"
	}
	return "TessPartitioning(" + strconv.Itoa(int(p)) + ")"
}

// TessellatedData is one patch's tessellator output: the domain points to
// evaluate and the connectivity linking them into primitives.
type TessellatedData struct {
	// NumPrimitives is how many primitives Indices describes.
	NumPrimitives uint32
	// NumDomainPoints is the length of U and V.
	NumDomainPoints uint32

	// Indices holds NumPrimitives groups of domain point indices, sized
	// by the post-tessellation topology.
	Indices []uint32

	// U and V are the domain coordinates of each point.
	U, V []float32
}

// TessContext tessellates patches for one fixed domain, partitioning and
// output topology. Output slices are owned by the context and valid until
// the next Tessellate or Destroy call.
type TessContext interface {
	Tessellate(factors *TessFactors, out *TessellatedData)
	Destroy()
}

// Tessellator creates tessellation contexts. Implementations are
// injected through State.Tessellator; the pipeline calls Init once per
// patch group on worker-local scratch.
type Tessellator interface {
	// Init returns a context operating in scratch. When scratch is too
	// small it returns a nil context and the required byte size; the
	// caller grows scratch and retries once.
	Init(domain TessDomain, partitioning TessPartitioning, topology prim.Topology, scratch []byte) (TessContext, int)
}
