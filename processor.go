// FILE: lixenwraith/dlog/processor.go
package dlog

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// queueItem is either a record handle or a flush barrier
type queueItem struct {
	h       handle
	barrier chan struct{}
}

// dispatchQueue hands filled records from producers to a single consumer
// goroutine. Every queued record holds a pool slot and the channel holds
// PoolSize+flushSlack items, so a record send waits for room only while more
// than flushSlack flush barriers are pending at once.
type dispatchQueue struct {
	f  *Facility
	ch chan queueItem

	mu     sync.RWMutex // senders hold R, close holds W
	initMu sync.Mutex   // consumer start vs stop

	started atomic.Bool
	stopped atomic.Bool
	exited  atomic.Bool // Tracks if the consumer goroutine is running or has exited
	depth   atomic.Int64
}

func newDispatchQueue(f *Facility, capacity int) *dispatchQueue {
	q := &dispatchQueue{
		f:  f,
		ch: make(chan queueItem, capacity),
	}
	q.exited.Store(true)
	return q
}

// ensureStarted launches the consumer on first use, exactly once
func (q *dispatchQueue) ensureStarted() {
	if q.started.Load() {
		return
	}

	q.initMu.Lock()
	defer q.initMu.Unlock()

	if q.started.Load() || q.stopped.Load() {
		return
	}
	q.exited.Store(false)
	q.started.Store(true)
	go q.consume()
}

// enqueue appends a record handle to the FIFO. Returns false once the queue
// is stopped; the caller still owns the handle then.
func (q *dispatchQueue) enqueue(h handle) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.stopped.Load() {
		return false
	}
	q.depth.Add(1)
	q.ch <- queueItem{h: h}
	return true
}

// flush sends a barrier behind everything already queued and waits for the
// consumer to reach it
func (q *dispatchQueue) flush(timeout time.Duration) error {
	if !q.started.Load() {
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	done := make(chan struct{})

	q.mu.RLock()
	if q.stopped.Load() {
		q.mu.RUnlock()
		return ErrShutdown
	}
	select {
	case q.ch <- queueItem{barrier: done}:
		// Barrier queued
	case <-timer.C:
		q.mu.RUnlock()
		return fmtErrorf("failed to send flush request to consumer within %v", timeout)
	}
	q.mu.RUnlock()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// consume is the consumer loop: idle on receive, drain one record at a time,
// exit once the channel is closed and empty
func (q *dispatchQueue) consume() {
	defer q.exited.Store(true)

	runtime.LockOSThread()

	restore := func() error { return nil }
	if cpu := q.f.cfg.ConsumerCPU; cpu >= 0 {
		if r, err := pinThread(int(cpu)); err != nil {
			q.f.internalLog("failed to pin dispatch consumer to cpu %d: %v\n", cpu, err)
		} else {
			restore = r
		}
	}

	// The thread goes back to the scheduler only with its original mask.
	// If that fails it stays locked and exits together with the goroutine.
	defer func() {
		if err := restore(); err != nil {
			q.f.internalLog("failed to restore consumer thread affinity: %v\n", err)
			return
		}
		runtime.UnlockOSThread()
	}()

	for item := range q.ch {
		if item.barrier != nil {
			close(item.barrier)
			continue
		}
		q.depth.Add(-1)
		q.f.deliver(item.h)
	}
}

// drainAndStop closes the queue and waits for the consumer to drain it
func (q *dispatchQueue) drainAndStop(timeout time.Duration) error {
	q.initMu.Lock()
	defer q.initMu.Unlock()

	q.mu.Lock()
	if q.stopped.Swap(true) {
		q.mu.Unlock()
		return nil
	}
	close(q.ch)
	q.mu.Unlock()

	deadline := time.Now().Add(timeout)
	for !q.exited.Load() {
		if time.Now().After(deadline) {
			return fmtErrorf("dispatch consumer did not drain within timeout (%v)", timeout)
		}
		time.Sleep(minWaitTime)
	}
	return nil
}
