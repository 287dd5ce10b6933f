// FILE: lixenwraith/dlog/record.go
package dlog

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"
)

// Emit hands one message to the logger. It never returns an error and never
// panics; failures are counted and reported as diagnostics.
func (f *Facility) Emit(l *Logger, sev Severity, msg string) {
	if !f.accept(l, sev) {
		return
	}
	f.dispatch(l, sev, msg)
}

// Emitf formats and emits a message, skipping the formatting when the level
// gate rejects the record
func (f *Facility) Emitf(l *Logger, sev Severity, format string, args ...any) {
	if !f.accept(l, sev) {
		return
	}
	f.dispatch(l, sev, fmt.Sprintf(format, args...))
}

// accept validates the call site and applies the level gate
func (f *Facility) accept(l *Logger, sev Severity) bool {
	if f == nil {
		fmt.Fprintf(os.Stderr, "dlog: emit on nil facility, record dropped\n")
		return false
	}
	if l == nil {
		f.internalLog("invalid logger handle, record dropped\n")
		return false
	}
	if l.facility != f {
		f.internalLog("logger '%s' belongs to another facility, record dropped\n", l.name)
		return false
	}
	if !sev.valid() {
		f.internalLog("invalid severity %d for logger '%s', record dropped\n", sev, l.name)
		return false
	}
	return l.Enabled(sev)
}

// dispatch fills a pool slot and either writes it now or queues it
func (f *Facility) dispatch(l *Logger, sev Severity, msg string) {
	if f.state.ShutdownCalled.Load() {
		f.state.Dropped.Add(1)
		return
	}
	f.state.Emitted.Add(1)

	h, err := f.acquireWithRetry()
	if err != nil {
		f.state.Dropped.Add(1)
		f.internalLog("buffer pool exhausted after %d attempts, record for '%s' dropped\n", f.cfg.AcquireRetries, l.name)
		return
	}

	rb := f.pool.slot(h)
	rb.logger = l
	rb.severity = sev
	rb.timeText = time.Now().AppendFormat(rb.timeText[:0], TimeLayout)
	f.fillMessage(rb, msg)

	if f.queue == nil {
		f.deliver(h)
		return
	}

	f.queue.ensureStarted()
	if !f.queue.enqueue(h) {
		f.state.Dropped.Add(1)
		f.releaseSlot(h)
	}
}

// acquireWithRetry tries the pool up to AcquireRetries times, sleeping
// AcquireRetryIntervalMs between attempts
func (f *Facility) acquireWithRetry() (handle, error) {
	interval := time.Duration(f.cfg.AcquireRetryIntervalMs) * time.Millisecond

	var err error
	for attempt := int64(1); attempt <= f.cfg.AcquireRetries; attempt++ {
		var h handle
		if h, err = f.pool.acquire(); err == nil {
			return h, nil
		}
		if attempt < f.cfg.AcquireRetries {
			time.Sleep(interval)
		}
	}
	return handle{}, err
}

// fillMessage copies msg into the slot, cutting it to capacity-1 bytes on a
// rune boundary when it does not fit
func (f *Facility) fillMessage(rb *recordBuffer, msg string) {
	limit := cap(rb.message) - 1
	if len(msg) <= limit {
		rb.message = append(rb.message[:0], msg...)
		return
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	rb.message = append(rb.message[:0], msg[:cut]...)
	f.state.Truncated.Add(1)
	f.internalLog("log truncated (needed %d bytes)\n", len(msg)+1)
}

// deliver writes a filled slot and returns it to the pool. A panic in the
// write path drops the record instead of reaching the caller.
func (f *Facility) deliver(h handle) {
	defer f.releaseSlot(h)
	defer func() {
		if r := recover(); r != nil {
			f.state.Dropped.Add(1)
			f.internalLog("recovered from panic while writing record: %v\n", r)
		}
	}()

	rb := f.pool.slot(h)
	rb.logger.write(rb.severity, rb.timeText, rb.message)
}

func (f *Facility) releaseSlot(h handle) {
	if err := f.pool.release(h); err != nil {
		f.internalLog("release of slot %d rejected: %v\n", h.idx, err)
	}
}

// internalLog counts a diagnostic and writes it to the diagnostic sink, if enabled.
func (f *Facility) internalLog(format string, args ...any) {
	f.state.DiagnosticCount.Add(1)

	if !f.cfg.InternalErrorsToStderr {
		return
	}

	// Ensure consistent "dlog: " prefix
	if !strings.HasPrefix(format, "dlog: ") {
		format = "dlog: " + format
	}

	s := f.diag.Load().(*sink)
	f.diagMu.Lock()
	fmt.Fprintf(s.w, format, args...)
	f.diagMu.Unlock()
}
