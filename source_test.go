// FILE: lixenwraith/dlog/source_test.go
package dlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modulesTOML = `
[dlog.modules.mod1]
level = "info"
output = "file"
file = "mod1.log"

[dlog.modules.net]
level = "debug"

[dlog.modules.broken]
level = "loud"
`

func writeModulesFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "modules.toml")
	require.NoError(t, os.WriteFile(path, []byte(modulesTOML), 0644))
	return path
}

func TestFileModuleSource(t *testing.T) {
	src := NewFileModuleSource(writeModulesFile(t))

	mc, found, err := src.Lookup("mod1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, ModuleConfig{Level: SeverityInfo, Output: OutputFile, File: "mod1.log"}, mc)

	// Missing keys fall back to screen output
	mc, found, err = src.Lookup("net")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, ModuleConfig{Level: SeverityDebug, Output: OutputScreen}, mc)

	_, found, err = src.Lookup("absent")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = src.Lookup("broken")
	assert.Error(t, err)
}

func TestFileModuleSourceMissingFile(t *testing.T) {
	src := NewFileModuleSource(filepath.Join(t.TempDir(), "nothing.toml"))

	_, found, err := src.Lookup("mod1")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestFacilityWithFileSource(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Directory = tmpDir

	f, err := New(cfg, NewFileModuleSource(writeModulesFile(t)))
	require.NoError(t, err)
	defer f.Shutdown()

	var diag recordingWriter
	f.setDiagWriter(&diag)

	mod1, err := f.Register("mod1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "mod1.log"), mod1.Path())

	// An invalid entry resolves to defaults with a diagnostic
	broken, err := f.Register("broken")
	require.NoError(t, err)
	assert.Equal(t, SeverityInfo, broken.Severity())
	assert.Equal(t, OutputScreen, broken.Output())
	assert.Contains(t, diag.String(), "configuration for module 'broken' is invalid")
}

func TestStaticModulesInvalidValues(t *testing.T) {
	f, _, diag := createTestFacility(t, false, StaticModules{
		"odd": {Level: Severity(9), Output: OutputFile},
	})
	defer f.Shutdown()

	l, err := f.Register("odd")
	require.NoError(t, err)
	assert.Equal(t, SeverityInfo, l.Severity())
	assert.Equal(t, OutputScreen, l.Output())
	assert.Contains(t, diag.String(), "using defaults")
}

// recordingWriter collects writes
type recordingWriter struct {
	buf []byte
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func (w *recordingWriter) String() string { return string(w.buf) }
