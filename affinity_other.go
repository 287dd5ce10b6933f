//go:build !linux

package dlog

// pinThread is a no-op where thread affinity is not supported
func pinThread(cpu int) (func() error, error) {
	return func() error { return nil }, nil
}
