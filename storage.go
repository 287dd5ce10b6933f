// FILE: storage.go
package dlog

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// renameFile moves a full log file aside, replaced in tests
var renameFile = os.Rename

// openLogFile opens path for appending and returns the handle with its current size
func openLogFile(path string) (*os.File, int64, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, 0, fmtErrorf("failed to open/create log file '%s': %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, fmtErrorf("failed to stat log file '%s': %w", path, err)
	}
	return file, info.Size(), nil
}

// rotate implements the rename-on-rotate strategy, caller holds l.mu.
// Closes the current file, renames it with a timestamp suffix and reopens the
// original path. A failed rename keeps writing to the original path; a failed
// reopen leaves no handle and writeToFile retries on the next record.
func (l *Logger) rotate() {
	f := l.facility

	if l.file != nil {
		if err := l.file.Close(); err != nil {
			f.internalLog("failed to close log file '%s' before rotation: %v\n", l.path, err)
		}
		l.file = nil
	}

	renamed := false
	archivePath, err := archiveName(l.path, time.Now())
	if err != nil {
		f.internalLog("failed to rotate log file '%s': %v\n", l.path, err)
	} else if err := renameFile(l.path, archivePath); err != nil {
		f.internalLog("failed to rename log file from '%s' to '%s': %v\n", l.path, archivePath, err)
	} else {
		renamed = true
		f.state.TotalRotations.Add(1)
	}

	file, size, err := openLogFile(l.path)
	if err != nil {
		f.internalLog("failed to reopen log file after rotation: %v\n", err)
		l.size = 0
		return
	}
	l.file = file
	l.size = size

	if renamed && f.cfg.MaxArchives > 0 {
		l.pruneArchives(int(f.cfg.MaxArchives))
	}
}

// archiveName returns "<path>.<YYYYMMDD_HHMMSS>", or the first free
// "<path>.<YYYYMMDD_HHMMSS>.<n>" when rotations share a second
func archiveName(path string, now time.Time) (string, error) {
	base := path + "." + now.Format(ArchiveLayout)
	if _, err := os.Lstat(base); os.IsNotExist(err) {
		return base, nil
	}
	for n := 1; n < maxArchiveSuffix; n++ {
		candidate := base + "." + strconv.Itoa(n)
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmtErrorf("no free archive name for '%s'", base)
}

// isArchiveOf reports whether name is a rotated sibling of the file base
func isArchiveOf(base, name string) bool {
	rest, ok := strings.CutPrefix(name, base+".")
	if !ok || len(rest) < len(ArchiveLayout) {
		return false
	}
	if _, err := time.Parse(ArchiveLayout, rest[:len(ArchiveLayout)]); err != nil {
		return false
	}
	rest = rest[len(ArchiveLayout):]
	if rest == "" {
		return true
	}
	suffix, ok := strings.CutPrefix(rest, ".")
	if !ok {
		return false
	}
	_, err := strconv.Atoi(suffix)
	return err == nil
}

// pruneArchives removes the oldest rotated siblings beyond keep
func (l *Logger) pruneArchives(keep int) {
	f := l.facility
	dir := filepath.Dir(l.path)
	base := filepath.Base(l.path)

	entries, err := os.ReadDir(dir)
	if err != nil {
		f.internalLog("failed to read log directory '%s' for archive cleanup: %v\n", dir, err)
		return
	}

	type archiveMeta struct {
		name    string
		modTime time.Time
	}
	var archives []archiveMeta
	for _, entry := range entries {
		if entry.IsDir() || !isArchiveOf(base, entry.Name()) {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil {
			continue
		}
		archives = append(archives, archiveMeta{name: entry.Name(), modTime: info.ModTime()})
	}

	if len(archives) <= keep {
		return
	}

	sort.Slice(archives, func(i, j int) bool {
		if archives[i].modTime.Equal(archives[j].modTime) {
			return archiveOrder(archives[i].name) < archiveOrder(archives[j].name)
		}
		return archives[i].modTime.Before(archives[j].modTime)
	})

	for _, a := range archives[:len(archives)-keep] {
		filePath := filepath.Join(dir, a.name)
		if err := os.Remove(filePath); err != nil {
			f.internalLog("failed to remove old log file '%s': %v\n", filePath, err)
			continue
		}
		f.state.TotalDeletions.Add(1)
	}
}

// archiveOrder is a sort key for archive names that share a modification
// time: timestamp first, then the numeric collision suffix
func archiveOrder(name string) string {
	idx := strings.LastIndexByte(name, '.')
	suffix := name[idx+1:]
	if n, err := strconv.Atoi(suffix); err == nil && len(suffix) < len(ArchiveLayout) {
		stamp := name[:idx]
		return stamp[len(stamp)-len(ArchiveLayout):] + "." + padSuffix(n)
	}
	return suffix + ".0000"
}

func padSuffix(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}
