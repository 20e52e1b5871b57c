package swr

import (
	"sync"
	"testing"
)

func TestContextStats_AddSnapshot(t *testing.T) {
	var cs contextStats

	a := Stats{
		IaVertices:    8,
		IaPrimitives:  2,
		VsInvocations: 8,
		HsInvocations: 1,
		DsInvocations: 12,
		GsInvocations: 3,
		GsPrimitives:  5,
	}
	a.SoPrimStorageNeeded[0] = 4
	a.SoNumPrimsWritten[0] = 3
	a.SoPrimStorageNeeded[2] = 7
	a.SoNumPrimsWritten[2] = 7

	b := Stats{IaVertices: 2, IaPrimitives: 1, VsInvocations: 2}
	b.SoPrimStorageNeeded[0] = 1

	cs.add(&a)
	cs.add(&b)

	got := cs.snapshot()
	want := Stats{
		IaVertices:    10,
		IaPrimitives:  3,
		VsInvocations: 10,
		HsInvocations: 1,
		DsInvocations: 12,
		GsInvocations: 3,
		GsPrimitives:  5,
	}
	want.SoPrimStorageNeeded[0] = 5
	want.SoNumPrimsWritten[0] = 3
	want.SoPrimStorageNeeded[2] = 7
	want.SoNumPrimsWritten[2] = 7

	if got != want {
		t.Errorf("snapshot = %+v, want %+v", got, want)
	}
}

func TestContextStats_ConcurrentAdd(t *testing.T) {
	var cs contextStats

	const goroutines = 8
	const perGoroutine = 1000

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := Stats{IaVertices: 3, VsInvocations: 3, IaPrimitives: 1}
			s.SoNumPrimsWritten[1] = 1
			for range perGoroutine {
				cs.add(&s)
			}
		}()
	}
	wg.Wait()

	got := cs.snapshot()
	const n = goroutines * perGoroutine
	if got.IaVertices != 3*n || got.VsInvocations != 3*n || got.IaPrimitives != n {
		t.Errorf("totals = %d/%d/%d, want %d/%d/%d",
			got.IaVertices, got.VsInvocations, got.IaPrimitives, 3*n, 3*n, n)
	}
	if got.SoNumPrimsWritten[1] != n {
		t.Errorf("SoNumPrimsWritten[1] = %d, want %d", got.SoNumPrimsWritten[1], n)
	}
}
