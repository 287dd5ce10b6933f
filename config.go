// FILE: config.go
package dlog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
)

// Config holds all facility configuration values
type Config struct {
	// Delivery
	Async       bool  `toml:"async"`        // Hand records to a dedicated consumer goroutine
	ConsumerCPU int64 `toml:"consumer_cpu"` // CPU the consumer is pinned to, -1 disables pinning

	// Buffer pool
	PoolSize               int64 `toml:"pool_size"`                 // Number of record slots
	MessageCapacity        int64 `toml:"message_capacity"`          // Bytes per slot message, including terminator
	AcquireRetries         int64 `toml:"acquire_retries"`           // Total acquire attempts before a record is dropped
	AcquireRetryIntervalMs int64 `toml:"acquire_retry_interval_ms"` // Sleep between acquire attempts

	// Files
	Directory   string `toml:"directory"`     // Base for relative module file paths
	MaxSizeKB   int64  `toml:"max_size_kb"`   // Rotation threshold per file, 0 disables rotation
	MaxArchives int64  `toml:"max_archives"`  // Rotated files kept per logger, 0 keeps all
	SyncOnWrite bool   `toml:"sync_on_write"` // fsync after every record

	// Screen output
	ScreenTarget string `toml:"screen_target"` // "stdout" or "stderr"

	// Lifecycle
	ShutdownTimeoutMs int64 `toml:"shutdown_timeout_ms"` // Default drain timeout for Shutdown

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write internal diagnostics to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Delivery
	Async:       false,
	ConsumerCPU: 0,

	// Buffer pool
	PoolSize:               500,
	MessageCapacity:        4096,
	AcquireRetries:         3,
	AcquireRetryIntervalMs: 100,

	// Files
	Directory:   ".",
	MaxSizeKB:   10 * 1024,
	MaxArchives: 0,
	SyncOnWrite: false,

	// Screen output
	ScreenTarget: "stdout",

	// Lifecycle
	ShutdownTimeoutMs: 2000,

	// Internal error handling
	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	// Create a copy to prevent modifications to the original
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("dlog.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	// Extract values into our Config struct
	if err := extractConfig(loader, "dlog.", cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	// Validate the loaded configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	// Values go through the same key switch as string overrides
	var errs []error
	for key, value := range overrides {
		if err := applyConfigField(cfg, key, fmt.Sprint(value)); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, combineConfigErrors(errs)
	}

	// Validate the configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig copies registered values from a lixenwraith/config loader into
// the toml-tagged fields of target, which must be a pointer to a struct
func extractConfig(loader *config.Config, prefix string, target any) error {
	v := reflect.ValueOf(target).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		// Get the toml tag to determine the config key
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		key := prefix + tomlTag

		// Get value from loader
		val, found := loader.Get(key)
		if !found {
			continue // Use default value
		}

		// Set the field value with type conversion
		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if strings.TrimSpace(c.Directory) == "" {
		return fmtErrorf("directory cannot be empty")
	}

	if c.ScreenTarget != "stdout" && c.ScreenTarget != "stderr" {
		return fmtErrorf("invalid screen_target: '%s' (use stdout or stderr)", c.ScreenTarget)
	}

	if c.PoolSize <= 0 {
		return fmtErrorf("pool_size must be positive: %d", c.PoolSize)
	}

	if c.MessageCapacity < minMessageCapacity {
		return fmtErrorf("message_capacity must be at least %d: %d", minMessageCapacity, c.MessageCapacity)
	}

	if c.AcquireRetries < 1 {
		return fmtErrorf("acquire_retries must be at least 1: %d", c.AcquireRetries)
	}

	if c.AcquireRetryIntervalMs < 0 {
		return fmtErrorf("acquire_retry_interval_ms cannot be negative: %d", c.AcquireRetryIntervalMs)
	}

	if c.MaxSizeKB < 0 || c.MaxArchives < 0 {
		return fmtErrorf("size and archive limits cannot be negative")
	}

	if c.ShutdownTimeoutMs <= 0 {
		return fmtErrorf("shutdown_timeout_ms must be positive: %d", c.ShutdownTimeoutMs)
	}

	if c.ConsumerCPU < -1 {
		return fmtErrorf("consumer_cpu must be -1 (disabled) or a cpu index: %d", c.ConsumerCPU)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}
