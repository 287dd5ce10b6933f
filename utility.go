// FILE: utility.go
package dlog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPoolExhausted is returned by the pool when every slot is in use
	ErrPoolExhausted = errors.New("dlog: record buffer pool exhausted")
	// ErrShutdown is returned by operations on a facility that has been shut down
	ErrShutdown = errors.New("dlog: facility already shut down")

	errStaleHandle = errors.New("dlog: stale or foreign record handle")
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "dlog: ") {
		format = "dlog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// ParseSeverity converts a level string to its Severity.
func ParseSeverity(levelStr string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return SeverityDebug, nil
	case "info":
		return SeverityInfo, nil
	case "warn", "warning":
		return SeverityWarn, nil
	case "error":
		return SeverityError, nil
	case "fatal":
		return SeverityFatal, nil
	default:
		return SeverityUnknown, fmtErrorf("invalid level string: '%s' (use debug, info, warn, error, fatal)", levelStr)
	}
}

// ParseOutput converts an output string to its OutputKind.
func ParseOutput(outputStr string) (OutputKind, error) {
	switch strings.ToLower(strings.TrimSpace(outputStr)) {
	case "screen":
		return OutputScreen, nil
	case "file":
		return OutputFile, nil
	case "none":
		return OutputNone, nil
	default:
		return OutputScreen, fmtErrorf("invalid output string: '%s' (use file, screen, none)", outputStr)
	}
}
