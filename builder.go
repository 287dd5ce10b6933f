// FILE: lixenwraith/dlog/builder.go
package dlog

// Builder provides a fluent API for building a facility.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg     *Config
	source  ModuleSource
	modules StaticModules
	err     error // Accumulate errors for deferred handling
}

// NewBuilder creates a new builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Facility with the specified configuration.
func (b *Builder) Build() (*Facility, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.source != nil && b.modules != nil {
		return nil, fmtErrorf("builder has both a module source and inline modules")
	}

	src := b.source
	if b.modules != nil {
		src = b.modules
	}
	return New(b.cfg, src)
}

// Async enables delivery through the dispatch queue.
func (b *Builder) Async(async bool) *Builder {
	b.cfg.Async = async
	return b
}

// PoolSize sets the number of record buffers.
func (b *Builder) PoolSize(size int64) *Builder {
	b.cfg.PoolSize = size
	return b
}

// MessageCapacity sets the byte capacity of each record message.
func (b *Builder) MessageCapacity(capacity int64) *Builder {
	b.cfg.MessageCapacity = capacity
	return b
}

// AcquireRetries sets the number of pool acquire attempts and the pause between them.
func (b *Builder) AcquireRetries(attempts, intervalMs int64) *Builder {
	b.cfg.AcquireRetries = attempts
	b.cfg.AcquireRetryIntervalMs = intervalMs
	return b
}

// Directory sets the base directory for relative log file paths.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// MaxSizeKB sets the rotation threshold.
func (b *Builder) MaxSizeKB(size int64) *Builder {
	b.cfg.MaxSizeKB = size
	return b
}

// MaxArchives sets how many rotated files are kept per logger.
func (b *Builder) MaxArchives(n int64) *Builder {
	b.cfg.MaxArchives = n
	return b
}

// SyncOnWrite enables fsync after every file record.
func (b *Builder) SyncOnWrite(sync bool) *Builder {
	b.cfg.SyncOnWrite = sync
	return b
}

// ScreenTarget sets the screen stream, "stdout" or "stderr".
func (b *Builder) ScreenTarget(target string) *Builder {
	b.cfg.ScreenTarget = target
	return b
}

// ConsumerCPU sets the CPU the async consumer is pinned to, -1 disables pinning.
func (b *Builder) ConsumerCPU(cpu int64) *Builder {
	b.cfg.ConsumerCPU = cpu
	return b
}

// ShutdownTimeoutMs sets the default Shutdown drain timeout.
func (b *Builder) ShutdownTimeoutMs(ms int64) *Builder {
	b.cfg.ShutdownTimeoutMs = ms
	return b
}

// InternalErrorsToStderr toggles diagnostic output.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Modules sets the module configuration source.
func (b *Builder) Modules(src ModuleSource) *Builder {
	b.source = src
	return b
}

// Module adds an inline module entry from its string form.
func (b *Builder) Module(name, level, output, file string) *Builder {
	if b.err != nil {
		return b
	}
	mc, _, err := moduleKeys{Level: level, Output: output, File: file}.resolve()
	if err != nil {
		b.err = fmtErrorf("module '%s': %w", name, err)
		return b
	}
	if b.modules == nil {
		b.modules = make(StaticModules)
	}
	b.modules[name] = mc
	return b
}

// Override applies "key=value" overrides to the configuration.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.cfg.ApplyOverride(overrides...); err != nil {
		b.err = err
	}
	return b
}
