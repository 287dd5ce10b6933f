// FILE: lixenwraith/dlog/logger.go
package dlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Logger is the per-module sink. Severity, output and path are fixed at
// registration; the file handle and size counter change only under mu.
type Logger struct {
	facility *Facility
	name     string
	severity Severity
	output   OutputKind
	path     string
	maxSize  int64

	mu     sync.Mutex
	file   *os.File
	size   int64
	line   []byte
	closed bool
}

// newLogger builds a logger for a resolved module configuration, opening its
// file for FILE output
func (f *Facility) newLogger(name string, mc ModuleConfig) (*Logger, error) {
	l := &Logger{
		facility: f,
		name:     name,
		severity: mc.Level,
		output:   mc.Output,
		maxSize:  f.cfg.MaxSizeKB * sizeMultiplier,
		line:     make([]byte, 0, timeCapacity+f.cfg.MessageCapacity+16),
	}

	if mc.Output != OutputFile {
		return l, nil
	}

	path := mc.File
	if path == "" {
		path = name + "_default.log"
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.cfg.Directory, path)
	}
	l.path = path

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmtErrorf("failed to create log directory for module '%s': %w", name, err)
	}

	file, size, err := openLogFile(path)
	if err != nil {
		return nil, fmtErrorf("failed to register module '%s': %w", name, err)
	}
	l.file = file
	l.size = size

	return l, nil
}

// Name returns the module name
func (l *Logger) Name() string { return l.name }

// Severity returns the minimum severity written by the logger
func (l *Logger) Severity() Severity { return l.severity }

// Output returns the output kind
func (l *Logger) Output() OutputKind { return l.output }

// Path returns the active file path, empty unless output is file
func (l *Logger) Path() string { return l.path }

// Facility returns the facility the logger was registered with
func (l *Logger) Facility() *Facility { return l.facility }

// Enabled reports whether a record of severity sev passes the level gate
func (l *Logger) Enabled(sev Severity) bool {
	return l != nil && sev >= l.severity
}

// write gates and routes one filled record
func (l *Logger) write(sev Severity, timeText, msg []byte) {
	if !l.Enabled(sev) {
		return
	}

	switch l.output {
	case OutputFile:
		l.writeToFile(sev, timeText, msg)
	case OutputScreen:
		l.writeToScreen(sev, timeText, msg)
	case OutputNone:
	}
}

func (l *Logger) writeToScreen(sev Severity, timeText, msg []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.line = appendLine(l.line[:0], sev, timeText, msg)
	s := l.facility.screen.Load().(*sink)
	if _, err := s.w.Write(l.line); err != nil {
		l.facility.state.Dropped.Add(1)
		return
	}
	l.facility.state.Written.Add(1)
}

// writeToFile appends one line and rotates when the file grows past maxSize.
// Write, size check and rotation all happen under the logger mutex.
func (l *Logger) writeToFile(sev Severity, timeText, msg []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f := l.facility
	if l.closed {
		f.state.Dropped.Add(1)
		return
	}

	// A failed reopen leaves no handle, try again before giving up on the record
	if l.file == nil {
		file, size, err := openLogFile(l.path)
		if err != nil {
			f.state.Dropped.Add(1)
			return
		}
		l.file = file
		l.size = size
	}

	l.line = appendLine(l.line[:0], sev, timeText, msg)
	n, err := l.file.Write(l.line)
	l.size += int64(n)
	if err != nil {
		f.state.Dropped.Add(1)
		f.internalLog("failed to write to log file '%s': %v\n", l.path, err)
		return
	}
	if f.cfg.SyncOnWrite {
		if err := l.file.Sync(); err != nil {
			f.internalLog("failed to sync log file '%s': %v\n", l.path, err)
		}
	}
	f.state.Written.Add(1)

	if l.maxSize > 0 && l.size > l.maxSize {
		l.rotate()
	}
}

// close syncs and closes the logger file. Later writes are dropped.
func (l *Logger) close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if l.file == nil {
		return nil
	}

	var err error
	if syncErr := l.file.Sync(); syncErr != nil {
		err = fmtErrorf("failed to sync log file '%s' during shutdown: %w", l.path, syncErr)
	}
	if closeErr := l.file.Close(); closeErr != nil {
		err = combineErrors(err, fmtErrorf("failed to close log file '%s' during shutdown: %w", l.path, closeErr))
	}
	l.file = nil
	return err
}

// appendLine appends "<time> [<LEVEL>] <message>\n"
func appendLine(dst []byte, sev Severity, timeText, msg []byte) []byte {
	dst = append(dst, timeText...)
	dst = append(dst, " ["...)
	dst = append(dst, sev.String()...)
	dst = append(dst, "] "...)
	dst = append(dst, msg...)
	return append(dst, '\n')
}

// Debug logs a message at debug level
func (l *Logger) Debug(args ...any) {
	l.emitArgs(SeverityDebug, args)
}

// Info logs a message at info level
func (l *Logger) Info(args ...any) {
	l.emitArgs(SeverityInfo, args)
}

// Warn logs a message at warning level
func (l *Logger) Warn(args ...any) {
	l.emitArgs(SeverityWarn, args)
}

// Error logs a message at error level
func (l *Logger) Error(args ...any) {
	l.emitArgs(SeverityError, args)
}

// Fatal logs a message at fatal level. The process is not terminated.
func (l *Logger) Fatal(args ...any) {
	l.emitArgs(SeverityFatal, args)
}

// Debugf logs a formatted message at debug level
func (l *Logger) Debugf(format string, args ...any) {
	l.emitFormat(SeverityDebug, format, args)
}

// Infof logs a formatted message at info level
func (l *Logger) Infof(format string, args ...any) {
	l.emitFormat(SeverityInfo, format, args)
}

// Warnf logs a formatted message at warning level
func (l *Logger) Warnf(format string, args ...any) {
	l.emitFormat(SeverityWarn, format, args)
}

// Errorf logs a formatted message at error level
func (l *Logger) Errorf(format string, args ...any) {
	l.emitFormat(SeverityError, format, args)
}

// Fatalf logs a formatted message at fatal level. The process is not terminated.
func (l *Logger) Fatalf(format string, args ...any) {
	l.emitFormat(SeverityFatal, format, args)
}

func (l *Logger) emitArgs(sev Severity, args []any) {
	if l == nil {
		fmt.Fprintf(os.Stderr, "dlog: invalid logger handle, record dropped\n")
		return
	}
	if !l.Enabled(sev) {
		return
	}
	l.facility.Emit(l, sev, formatArgs(args))
}

func (l *Logger) emitFormat(sev Severity, format string, args []any) {
	if l == nil {
		fmt.Fprintf(os.Stderr, "dlog: invalid logger handle, record dropped\n")
		return
	}
	if !l.Enabled(sev) {
		return
	}
	l.facility.Emit(l, sev, fmt.Sprintf(format, args...))
}
