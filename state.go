// FILE: state.go
package dlog

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// State encapsulates the runtime state of a facility.
// Producer-side and consumer-side counters sit on separate cache lines.
type State struct {
	ShutdownCalled atomic.Bool

	_         cpu.CacheLinePad
	Emitted   atomic.Uint64 // Records accepted past the level gate
	Truncated atomic.Uint64 // Records cut to the message capacity
	Dropped   atomic.Uint64 // Records lost to exhaustion, I/O failure or shutdown

	_               cpu.CacheLinePad
	Written         atomic.Uint64 // Records that reached their destination
	TotalRotations  atomic.Uint64 // Successful file rotations
	TotalDeletions  atomic.Uint64 // Archives removed by retention
	DiagnosticCount atomic.Uint64 // Internal diagnostics raised
	_               cpu.CacheLinePad
}

// Stats returns a snapshot of the facility counters
func (f *Facility) Stats() Stats {
	s := Stats{
		Emitted:         f.state.Emitted.Load(),
		Written:         f.state.Written.Load(),
		Dropped:         f.state.Dropped.Load(),
		Truncated:       f.state.Truncated.Load(),
		Diagnostics:     f.state.DiagnosticCount.Load(),
		Rotations:       f.state.TotalRotations.Load(),
		ArchivesDeleted: f.state.TotalDeletions.Load(),
		Pool:            f.pool.stats(),
	}
	if f.queue != nil {
		s.Queued = f.queue.depth.Load()
	}
	return s
}
