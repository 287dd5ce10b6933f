// FILE: override.go
package dlog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to the configuration.
// Each override should be in the format "key=value". Nothing is changed
// unless every override parses and the result validates.
//
// Example:
//
//	cfg := dlog.DefaultConfig()
//	err := cfg.ApplyOverride(
//	    "directory=/var/log/app",
//	    "async=true",
//	    "max_size_kb=512",
//	)
func (c *Config) ApplyOverride(overrides ...string) error {
	cfg := c.Clone()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return combineConfigErrors(errors)
	}

	if err := cfg.validate(); err != nil {
		return err
	}

	*c = *cfg
	return nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("dlog: multiple configuration errors:")
	for i, err := range errors {
		// Strip the package prefix from individual errors
		errMsg := strings.TrimPrefix(err.Error(), "dlog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Delivery
	case "async":
		return setBool(&cfg.Async, key, value)
	case "consumer_cpu":
		return setInt(&cfg.ConsumerCPU, key, value)

	// Buffer pool
	case "pool_size":
		return setInt(&cfg.PoolSize, key, value)
	case "message_capacity":
		return setInt(&cfg.MessageCapacity, key, value)
	case "acquire_retries":
		return setInt(&cfg.AcquireRetries, key, value)
	case "acquire_retry_interval_ms":
		return setInt(&cfg.AcquireRetryIntervalMs, key, value)

	// Files
	case "directory":
		cfg.Directory = value
	case "max_size_kb":
		return setInt(&cfg.MaxSizeKB, key, value)
	case "max_archives":
		return setInt(&cfg.MaxArchives, key, value)
	case "sync_on_write":
		return setBool(&cfg.SyncOnWrite, key, value)

	// Screen output
	case "screen_target":
		cfg.ScreenTarget = value

	// Lifecycle
	case "shutdown_timeout_ms":
		return setInt(&cfg.ShutdownTimeoutMs, key, value)

	// Internal error handling
	case "internal_errors_to_stderr":
		return setBool(&cfg.InternalErrorsToStderr, key, value)

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}

func setInt(dst *int64, key, value string) error {
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
	}
	*dst = intVal
	return nil
}

func setBool(dst *bool, key, value string) error {
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
	}
	*dst = boolVal
	return nil
}
