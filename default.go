// --- File: default.go ---
package dlog

import (
	"time"
)

// DefaultConfigFile holds the module table read by the default facility
const DefaultConfigFile = "dlog.toml"

// Global instance for package-level functions
var defaultFacility = mustDefault()

func mustDefault() *Facility {
	f, err := New(DefaultConfig(), NewFileModuleSource(DefaultConfigFile))
	if err != nil {
		panic(err)
	}
	return f
}

// Default returns the package-level facility
func Default() *Facility {
	return defaultFacility
}

// Register returns the logger for a module on the default facility
func Register(name string) (*Logger, error) {
	return defaultFacility.Register(name)
}

// Flush waits for queued records of the default facility to be written
func Flush(timeout time.Duration) error {
	return defaultFacility.Flush(timeout)
}

// Shutdown drains and closes the default facility
func Shutdown(timeout ...time.Duration) error {
	return defaultFacility.Shutdown(timeout...)
}
