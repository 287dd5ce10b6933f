// FILE: lixenwraith/dlog/source.go
package dlog

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/config"
)

// ModuleSource resolves a module name to its configuration. found is false
// when the source has no entry for the module.
type ModuleSource interface {
	Lookup(name string) (mc ModuleConfig, found bool, err error)
}

// StaticModules is a ModuleSource backed by a map
type StaticModules map[string]ModuleConfig

// Lookup implements ModuleSource
func (s StaticModules) Lookup(name string) (ModuleConfig, bool, error) {
	mc, ok := s[name]
	return mc, ok, nil
}

// moduleKeys is the TOML shape of one module entry. Empty strings mean the
// key is absent from the file.
type moduleKeys struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	File   string `toml:"file"`
}

// fileModuleSource reads module entries from a TOML file:
//
//	[dlog.modules.mod1]
//	level = "info"
//	output = "file"
//	file = "mod1.log"
type fileModuleSource struct {
	path string
}

// NewFileModuleSource returns a ModuleSource reading "dlog.modules.<name>"
// tables from the TOML file at path. A missing file has no entries.
func NewFileModuleSource(path string) ModuleSource {
	return &fileModuleSource{path: path}
}

// Lookup implements ModuleSource. The file is read on every call; modules are
// looked up once, at registration.
func (s *fileModuleSource) Lookup(name string) (ModuleConfig, bool, error) {
	prefix := "dlog.modules." + name + "."

	loader := config.New()
	if err := loader.RegisterStruct(prefix, moduleKeys{}); err != nil {
		return ModuleConfig{}, false, fmt.Errorf("failed to register module keys: %w", err)
	}

	if err := loader.Load(s.path, nil); err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return ModuleConfig{}, false, nil
		}
		return ModuleConfig{}, false, fmt.Errorf("failed to load module config from %s: %w", s.path, err)
	}

	var keys moduleKeys
	if err := extractConfig(loader, prefix, &keys); err != nil {
		return ModuleConfig{}, false, fmt.Errorf("failed to extract module config: %w", err)
	}
	if keys == (moduleKeys{}) {
		return ModuleConfig{}, false, nil
	}

	return keys.resolve()
}

// resolve parses the string form; missing level and output fall back to
// info and screen
func (k moduleKeys) resolve() (ModuleConfig, bool, error) {
	mc := ModuleConfig{Level: SeverityInfo, Output: OutputScreen, File: k.File}

	if k.Level != "" {
		sev, err := ParseSeverity(k.Level)
		if err != nil {
			return ModuleConfig{}, false, err
		}
		mc.Level = sev
	}

	if k.Output != "" {
		out, err := ParseOutput(k.Output)
		if err != nil {
			return ModuleConfig{}, false, err
		}
		mc.Output = out
	}

	return mc, true, nil
}
