// FILE: lixenwraith/dlog/pool.go
package dlog

import (
	"io"
	"sync"

	"github.com/davecgh/go-spew/spew"
)

// recordBuffer is one reusable pool slot. Its contents belong to whoever
// holds the handle returned by acquire.
type recordBuffer struct {
	logger   *Logger
	severity Severity
	timeText []byte
	message  []byte

	// Metadata, guarded by bufferPool.mu. Stats read only these; the fields
	// above are written by the handle owner without the mutex.
	initialized bool
	inUse       bool
	acquires    uint64
	releases    uint64
}

// handle identifies an acquired slot. gen rejects a second release of the
// same acquisition.
type handle struct {
	idx int
	gen uint64
}

// bufferPool is a fixed-capacity set of record buffers handed out round-robin
type bufferPool struct {
	mu     sync.Mutex
	slots  []recordBuffer
	cursor int
	inUse  int
	msgCap int
}

func newBufferPool(size, msgCap int) *bufferPool {
	return &bufferPool{
		slots:  make([]recordBuffer, size),
		msgCap: msgCap,
	}
}

// acquire returns the first free slot at or after the cursor, wrapping once.
// Storage is allocated on a slot's first use and kept afterwards.
func (p *bufferPool) acquire() (handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.slots)
	for i := 0; i < n; i++ {
		idx := (p.cursor + i) % n
		rb := &p.slots[idx]
		if rb.inUse {
			continue
		}
		if !rb.initialized {
			rb.message = make([]byte, 0, p.msgCap)
			rb.timeText = make([]byte, 0, timeCapacity)
			rb.initialized = true
		}
		rb.inUse = true
		rb.acquires++
		p.inUse++
		p.cursor = (idx + 1) % n
		return handle{idx: idx, gen: rb.acquires}, nil
	}
	return handle{}, ErrPoolExhausted
}

// slot returns the buffer behind h. Only the handle holder may touch it.
func (p *bufferPool) slot(h handle) *recordBuffer {
	return &p.slots[h.idx]
}

// release returns a slot to the pool. Releasing a handle that is not the
// current acquisition of its slot is rejected and changes nothing.
func (p *bufferPool) release(h handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if h.idx < 0 || h.idx >= len(p.slots) {
		return errStaleHandle
	}
	rb := &p.slots[h.idx]
	if !rb.inUse || rb.acquires != h.gen {
		return errStaleHandle
	}
	rb.logger = nil
	rb.severity = SeverityUnknown
	rb.timeText = rb.timeText[:0]
	rb.message = rb.message[:0]
	rb.inUse = false
	rb.releases++
	p.inUse--
	return nil
}

func (p *bufferPool) stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	ps := PoolStats{Capacity: len(p.slots), InUse: p.inUse}
	for i := range p.slots {
		ps.Acquires += p.slots[i].acquires
		ps.Releases += p.slots[i].releases
	}
	return ps
}

func (p *bufferPool) slotStats() []SlotStat {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]SlotStat, len(p.slots))
	for i := range p.slots {
		rb := &p.slots[i]
		out[i] = SlotStat{
			Index:       i,
			Initialized: rb.initialized,
			InUse:       rb.inUse,
			Acquires:    rb.acquires,
			Releases:    rb.releases,
		}
	}
	return out
}

// PoolStats returns a summary of the record buffer pool
func (f *Facility) PoolStats() PoolStats {
	return f.pool.stats()
}

// SlotStats returns per-slot metadata of the record buffer pool
func (f *Facility) SlotStats() []SlotStat {
	return f.pool.slotStats()
}

// DumpPool writes a human-readable dump of the pool slot metadata to w.
// Slot contents are not included.
func (f *Facility) DumpPool(w io.Writer) {
	cs := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	cs.Fdump(w, f.pool.stats(), f.pool.slotStats())
}
