// FILE: lixenwraith/dlog/compat/zerolog.go
package compat

import (
	"bytes"

	"github.com/lixenwraith/dlog"
	"github.com/rs/zerolog"
)

var _ zerolog.LevelWriter = (*ZerologWriter)(nil)

// ZerologWriter routes zerolog events into a dlog module logger.
// Each event is written as one record carrying zerolog's encoded output.
type ZerologWriter struct {
	logger *dlog.Logger
}

// NewZerologWriter creates a writer for zerolog.New
func NewZerologWriter(logger *dlog.Logger) *ZerologWriter {
	return &ZerologWriter{logger: logger}
}

// Write emits an event with no known level at info severity
func (w *ZerologWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel emits an event at the dlog severity matching its zerolog level.
// The event is always reported as fully written so zerolog never retries.
func (w *ZerologWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	sev, ok := zerologSeverity(level)
	if !ok || !w.logger.Enabled(sev) {
		return len(p), nil
	}
	w.logger.Facility().Emit(w.logger, sev, string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}

// zerologSeverity maps a zerolog level, ok is false for disabled events
func zerologSeverity(level zerolog.Level) (dlog.Severity, bool) {
	switch level {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return dlog.SeverityDebug, true
	case zerolog.InfoLevel, zerolog.NoLevel:
		return dlog.SeverityInfo, true
	case zerolog.WarnLevel:
		return dlog.SeverityWarn, true
	case zerolog.ErrorLevel:
		return dlog.SeverityError, true
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return dlog.SeverityFatal, true
	default:
		return dlog.SeverityUnknown, false
	}
}
