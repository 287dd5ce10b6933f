// FILE: lixenwraith/dlog/facility.go
package dlog

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Facility owns the module registry, the record buffer pool and, in async
// mode, the dispatch queue. Create one with New or NewFacility and stop it
// with Shutdown.
type Facility struct {
	cfg    *Config
	source ModuleSource
	pool   *bufferPool
	queue  *dispatchQueue // nil in sync mode
	state  State

	mu      sync.RWMutex
	loggers map[string]*Logger

	screen atomic.Value // stores *sink
	diag   atomic.Value // stores *sink
	diagMu sync.Mutex
}

// New creates a facility from a configuration and a module source.
// A nil cfg uses DefaultConfig, a nil src resolves every module to defaults.
func New(cfg *Config, src ModuleSource) (*Facility, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.Clone()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = StaticModules{}
	}

	f := &Facility{
		cfg:     cfg,
		source:  src,
		pool:    newBufferPool(int(cfg.PoolSize), int(cfg.MessageCapacity)),
		loggers: make(map[string]*Logger),
	}
	if cfg.Async {
		f.queue = newDispatchQueue(f, int(cfg.PoolSize)+flushSlack)
	}

	var screen io.Writer = os.Stdout
	if cfg.ScreenTarget == "stderr" {
		screen = os.Stderr
	}
	f.screen.Store(&sink{w: screen})
	f.diag.Store(&sink{w: os.Stderr})

	return f, nil
}

// NewFacility creates a synchronous facility with default settings and no
// module configuration
func NewFacility() *Facility {
	f, _ := New(DefaultConfig(), nil)
	return f
}

// Config returns a copy of the facility configuration
func (f *Facility) Config() *Config {
	return f.cfg.Clone()
}

// Register returns the logger for a module, creating it on first use.
// Repeated calls with the same name return the same logger. Creation fails if
// the logger's file cannot be opened, in which case nothing is registered.
func (f *Facility) Register(name string) (*Logger, error) {
	if name == "" {
		return nil, fmtErrorf("module name cannot be empty")
	}
	if f.state.ShutdownCalled.Load() {
		return nil, ErrShutdown
	}

	f.mu.RLock()
	l, ok := f.loggers[name]
	f.mu.RUnlock()
	if ok {
		return l, nil
	}

	mc := f.resolveModule(name)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.ShutdownCalled.Load() {
		return nil, ErrShutdown
	}
	if l, ok := f.loggers[name]; ok {
		return l, nil
	}

	l, err := f.newLogger(name, mc)
	if err != nil {
		return nil, err
	}
	f.loggers[name] = l
	return l, nil
}

// resolveModule looks a module up in the source. Lookup errors and absent
// entries both resolve to (INFO, SCREEN, "").
func (f *Facility) resolveModule(name string) ModuleConfig {
	fallback := ModuleConfig{Level: SeverityInfo, Output: OutputScreen}

	mc, found, err := f.source.Lookup(name)
	if err != nil {
		f.internalLog("configuration for module '%s' is invalid, using defaults: %v\n", name, err)
		return fallback
	}
	if !found {
		return fallback
	}
	if !mc.Level.valid() || !mc.Output.valid() {
		f.internalLog("configuration for module '%s' has level %d output %d, using defaults\n", name, mc.Level, mc.Output)
		return fallback
	}
	return mc
}

// Modules returns the names of all registered modules
func (f *Facility) Modules() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.loggers))
	for name := range f.loggers {
		names = append(names, name)
	}
	return names
}

// Flush blocks until every record enqueued before the call has been written,
// or the timeout expires. It is a no-op in sync mode.
func (f *Facility) Flush(timeout time.Duration) error {
	if f.state.ShutdownCalled.Load() {
		return ErrShutdown
	}
	if f.queue == nil {
		return nil
	}
	return f.queue.flush(timeout)
}

// Shutdown drains the dispatch queue and closes every logger file.
// If no timeout is provided, Config.ShutdownTimeoutMs is used. Safe to call
// more than once; later calls return nil.
func (f *Facility) Shutdown(timeout ...time.Duration) error {
	if !f.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	effectiveTimeout := time.Duration(f.cfg.ShutdownTimeoutMs) * time.Millisecond
	if len(timeout) > 0 {
		effectiveTimeout = timeout[0]
	}

	var finalErr error
	if f.queue != nil {
		if err := f.queue.drainAndStop(effectiveTimeout); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, l := range f.loggers {
		if err := l.close(); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
	}

	return finalErr
}

// setScreenWriter replaces the screen sink
func (f *Facility) setScreenWriter(w io.Writer) {
	f.screen.Store(&sink{w: w})
}

// setDiagWriter replaces the diagnostic sink
func (f *Facility) setDiagWriter(w io.Writer) {
	f.diag.Store(&sink{w: w})
}
