// FILE: lixenwraith/dlog/constant.go
package dlog

import (
	"time"
)

// Severity levels, ordered. SeverityUnknown is the zero value and is never written.
const (
	SeverityUnknown Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarn
	SeverityError
	SeverityFatal
)

// Output kinds for a module logger. The zero value is screen output.
const (
	OutputScreen OutputKind = iota
	OutputFile
	OutputNone
)

// Record layout
const (
	// TimeLayout is the timestamp written at the start of every line
	TimeLayout = "2006-01-02 15:04:05.000"
	// ArchiveLayout is the suffix appended to a rotated file
	ArchiveLayout = "20060102_150405"
	// Capacity of the per-slot time text
	timeCapacity = 32
	// Smallest accepted message capacity
	minMessageCapacity = 16
)

// Storage
const (
	// Size multiplier for KB
	sizeMultiplier = 1024
	// Upper bound on collision suffixes tried for one archive name
	maxArchiveSuffix = 1000
)

// Queue and timers
const (
	// Extra channel capacity for flush barriers. Beyond this many concurrent
	// flushes, record sends can wait on the consumer.
	flushSlack = 16
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
)
