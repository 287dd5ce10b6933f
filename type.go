// FILE: lixenwraith/dlog/type.go
package dlog

import (
	"io"
)

// Severity is the ordered importance of a record
type Severity uint8

// OutputKind selects where a module logger writes
type OutputKind uint8

// ModuleConfig is the resolved (level, output, file) triple for one module
type ModuleConfig struct {
	Level  Severity
	Output OutputKind
	File   string
}

// Stats is a point-in-time snapshot of facility counters
type Stats struct {
	Emitted         uint64 // records accepted past the level gate
	Written         uint64 // records that reached a file or the screen
	Dropped         uint64 // records lost to exhaustion, I/O failure or shutdown
	Truncated       uint64 // records cut to the message capacity
	Diagnostics     uint64 // internal diagnostics raised
	Rotations       uint64 // successful file rotations
	ArchivesDeleted uint64 // rotated files removed by archive retention
	Queued          int64  // records waiting for the async consumer
	Pool            PoolStats
}

// PoolStats summarizes the record buffer pool
type PoolStats struct {
	Capacity int
	InUse    int
	Acquires uint64
	Releases uint64
}

// SlotStat is the metadata block of a single pool slot
type SlotStat struct {
	Index       int
	Initialized bool
	InUse       bool
	Acquires    uint64
	Releases    uint64
}

// sink is a wrapper around an io.Writer, atomic value type change workaround
type sink struct {
	w io.Writer
}

// String returns the upper-case level name
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarn:
		return "WARN"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	default:
		return "NONE"
	}
}

func (s Severity) valid() bool {
	return s >= SeverityDebug && s <= SeverityFatal
}

// String returns the lower-case output kind name
func (o OutputKind) String() string {
	switch o {
	case OutputScreen:
		return "screen"
	case OutputFile:
		return "file"
	case OutputNone:
		return "none"
	default:
		return "unknown"
	}
}

func (o OutputKind) valid() bool {
	return o <= OutputNone
}
