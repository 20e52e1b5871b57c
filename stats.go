package swr

import "sync/atomic"

// Stats counts front-end work. Each draw gathers its own copy, published
// into the context totals when the draw retires; Context.Stats returns
// the running totals.
type Stats struct {
	// IaVertices counts vertices fetched by the input assembler.
	IaVertices uint64
	// IaPrimitives counts primitives assembled from the input stream.
	IaPrimitives uint64
	// VsInvocations counts vertex-shader lane invocations.
	VsInvocations uint64
	// HsInvocations counts hull-shader patch invocations.
	HsInvocations uint64
	// DsInvocations counts domain-shader point invocations.
	DsInvocations uint64
	// GsInvocations counts geometry-shader invocations across instances.
	GsInvocations uint64
	// GsPrimitives counts primitives assembled from geometry-shader
	// output across all streams.
	GsPrimitives uint64
	// SoPrimStorageNeeded counts, per stream, primitives that requested
	// stream-out storage whether or not space remained.
	SoPrimStorageNeeded [MaxStreams]uint64
	// SoNumPrimsWritten counts, per stream, primitives stream-out wrote.
	SoNumPrimsWritten [MaxStreams]uint64
}

// contextStats holds the lifetime totals. Draws retire on worker
// goroutines, so accumulation is atomic.
type contextStats struct {
	iaVertices    atomic.Uint64
	iaPrimitives  atomic.Uint64
	vsInvocations atomic.Uint64
	hsInvocations atomic.Uint64
	dsInvocations atomic.Uint64
	gsInvocations atomic.Uint64
	gsPrimitives  atomic.Uint64

	soPrimStorageNeeded [MaxStreams]atomic.Uint64
	soNumPrimsWritten   [MaxStreams]atomic.Uint64
}

func (cs *contextStats) add(s *Stats) {
	cs.iaVertices.Add(s.IaVertices)
	cs.iaPrimitives.Add(s.IaPrimitives)
	cs.vsInvocations.Add(s.VsInvocations)
	cs.hsInvocations.Add(s.HsInvocations)
	cs.dsInvocations.Add(s.DsInvocations)
	cs.gsInvocations.Add(s.GsInvocations)
	cs.gsPrimitives.Add(s.GsPrimitives)
	for i := range s.SoPrimStorageNeeded {
		cs.soPrimStorageNeeded[i].Add(s.SoPrimStorageNeeded[i])
		cs.soNumPrimsWritten[i].Add(s.SoNumPrimsWritten[i])
	}
}

func (cs *contextStats) snapshot() Stats {
	s := Stats{
		IaVertices:    cs.iaVertices.Load(),
		IaPrimitives:  cs.iaPrimitives.Load(),
		VsInvocations: cs.vsInvocations.Load(),
		HsInvocations: cs.hsInvocations.Load(),
		DsInvocations: cs.dsInvocations.Load(),
		GsInvocations: cs.gsInvocations.Load(),
		GsPrimitives:  cs.gsPrimitives.Load(),
	}
	for i := range s.SoPrimStorageNeeded {
		s.SoPrimStorageNeeded[i] = cs.soPrimStorageNeeded[i].Load()
		s.SoNumPrimsWritten[i] = cs.soNumPrimsWritten[i].Load()
	}
	return s
}
