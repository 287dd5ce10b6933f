// FILE: lixenwraith/dlog/storage_test.go
package dlog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createRotatingLogger registers a FILE logger rotating at 1 KB
func createRotatingLogger(t *testing.T, maxArchives int64) (*Facility, *Logger, string) {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	cfg.MaxSizeKB = 1
	cfg.MaxArchives = maxArchives
	cfg.ConsumerCPU = -1

	f, err := New(cfg, StaticModules{
		"rot": {Level: SeverityDebug, Output: OutputFile, File: "rot.log"},
	})
	require.NoError(t, err)

	l, err := f.Register("rot")
	require.NoError(t, err)
	return f, l, tmpDir
}

// archivesOf lists rotated siblings of path
func archivesOf(t *testing.T, path string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		if isArchiveOf(filepath.Base(path), e.Name()) {
			names = append(names, filepath.Join(filepath.Dir(path), e.Name()))
		}
	}
	return names
}

func TestRotationSingleRename(t *testing.T) {
	f, l, _ := createRotatingLogger(t, 0)
	defer f.Shutdown()

	// 23 (time) + 8 (" [INFO] ") + 100 + 1 = 132 bytes per line, the 8th line crosses 1024
	msg := strings.Repeat("a", 100)
	for i := 0; i < 8; i++ {
		l.Info(msg)
	}

	archives := archivesOf(t, l.Path())
	require.Len(t, archives, 1, "crossing the threshold must rename exactly once")
	assert.Equal(t, uint64(1), f.Stats().Rotations)

	// Archive holds every pre-rotation line, the active file is fresh
	assert.Len(t, readLines(t, archives[0]), 8)
	info, err := os.Stat(l.Path())
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	l.Info("after")
	l.Info("rotation")
	lines := readLines(t, l.Path())
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "[INFO] after"))
	assert.Len(t, archivesOf(t, l.Path()), 1)
}

func TestRotationRenameFailure(t *testing.T) {
	renameFile = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: errors.New("read-only file system")}
	}
	defer func() { renameFile = os.Rename }()

	f, l, _ := createRotatingLogger(t, 0)
	defer f.Shutdown()

	msg := strings.Repeat("c", 100)
	for i := 0; i < 10; i++ {
		l.Info(msg)
	}

	// Writing continues on the original path, nothing was archived
	assert.Empty(t, archivesOf(t, l.Path()))
	assert.Len(t, readLines(t, l.Path()), 10)

	stats := f.Stats()
	assert.Zero(t, stats.Rotations)
	assert.Equal(t, uint64(10), stats.Written)
	assert.Zero(t, stats.Dropped)
	assert.GreaterOrEqual(t, stats.Diagnostics, uint64(1), "failed rename must raise a diagnostic")

	// Rotation resumes once renames work again
	renameFile = os.Rename
	l.Info("rotates")
	assert.Len(t, archivesOf(t, l.Path()), 1)
	assert.Equal(t, uint64(1), f.Stats().Rotations)
}

func TestRotationArchiveName(t *testing.T) {
	f, l, _ := createRotatingLogger(t, 0)
	defer f.Shutdown()

	before := time.Now()
	msg := strings.Repeat("b", 1100)
	l.Info(msg)

	archives := archivesOf(t, l.Path())
	require.Len(t, archives, 1)

	suffix := strings.TrimPrefix(archives[0], l.Path()+".")
	stamp, err := time.ParseInLocation(ArchiveLayout, suffix[:len(ArchiveLayout)], time.Local)
	require.NoError(t, err)
	assert.WithinDuration(t, before, stamp, 2*time.Second)
}

func TestRotationDisabled(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	cfg.MaxSizeKB = 0

	f, err := New(cfg, StaticModules{"big": {Level: SeverityInfo, Output: OutputFile, File: "big.log"}})
	require.NoError(t, err)
	defer f.Shutdown()

	l, err := f.Register("big")
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		l.Info(strings.Repeat("c", 200))
	}

	assert.Empty(t, archivesOf(t, l.Path()))
	assert.Len(t, readLines(t, l.Path()), 20)
}

func TestRotationKeepsExistingSize(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "rot.log")
	require.NoError(t, os.WriteFile(logPath, []byte(strings.Repeat("x", 1000)+"\n"), 0644))

	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	cfg.MaxSizeKB = 1
	f, err := New(cfg, StaticModules{"rot": {Level: SeverityInfo, Output: OutputFile, File: "rot.log"}})
	require.NoError(t, err)
	defer f.Shutdown()

	l, err := f.Register("rot")
	require.NoError(t, err)

	// Existing bytes count towards the threshold
	l.Info("push over")
	assert.Len(t, archivesOf(t, logPath), 1)
}

func TestArchiveRetention(t *testing.T) {
	f, l, _ := createRotatingLogger(t, 2)
	defer f.Shutdown()

	msg := strings.Repeat("d", 1100)
	for i := 0; i < 5; i++ {
		l.Info(msg)
	}

	stats := f.Stats()
	assert.Equal(t, uint64(5), stats.Rotations)
	assert.Equal(t, uint64(3), stats.ArchivesDeleted)
	assert.Len(t, archivesOf(t, l.Path()), 2)
}

func TestArchiveNameCollision(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "app.log")
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)

	name, err := archiveName(path, now)
	require.NoError(t, err)
	assert.Equal(t, path+".20260102_030405", name)

	require.NoError(t, os.WriteFile(name, nil, 0644))
	name, err = archiveName(path, now)
	require.NoError(t, err)
	assert.Equal(t, path+".20260102_030405.1", name)

	require.NoError(t, os.WriteFile(name, nil, 0644))
	name, err = archiveName(path, now)
	require.NoError(t, err)
	assert.Equal(t, path+".20260102_030405.2", name)
}

func TestIsArchiveOf(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"app.log.20260102_030405", true},
		{"app.log.20260102_030405.3", true},
		{"app.log", false},
		{"app.log.old", false},
		{"app.log.20260102_030405.x", false},
		{"app.log.20260102_030405x", false},
		{"other.log.20260102_030405", false},
		{"app.log.2026", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isArchiveOf("app.log", tt.name))
		})
	}
}

func TestArchiveOrder(t *testing.T) {
	assert.Less(t, archiveOrder("app.log.20260102_030405"), archiveOrder("app.log.20260102_030405.1"))
	assert.Less(t, archiveOrder("app.log.20260102_030405.2"), archiveOrder("app.log.20260102_030405.10"))
	assert.Less(t, archiveOrder("app.log.20260102_030405.9"), archiveOrder("app.log.20260102_030406"))
}

func TestWriteAfterLostHandle(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	f, err := New(cfg, StaticModules{"lost": {Level: SeverityInfo, Output: OutputFile, File: "sub/lost.log"}})
	require.NoError(t, err)
	defer f.Shutdown()

	l, err := f.Register("lost")
	require.NoError(t, err)

	// Simulate a failed reopen after rotation
	l.mu.Lock()
	require.NoError(t, l.file.Close())
	l.file = nil
	l.mu.Unlock()
	require.NoError(t, os.RemoveAll(filepath.Join(tmpDir, "sub")))

	l.Info("dropped")
	assert.Equal(t, uint64(1), f.Stats().Dropped)

	// The next write reopens once the path is usable again
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "sub"), 0755))
	l.Info("recovered")
	lines := readLines(t, l.Path())
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], "[INFO] recovered"))
}

func TestWriteAfterClose(t *testing.T) {
	f, l, _ := createRotatingLogger(t, 0)
	require.NoError(t, l.close())

	f.Emit(l, SeverityInfo, "late")
	assert.Equal(t, uint64(1), f.Stats().Dropped)
	assert.NoError(t, f.Shutdown())
}
