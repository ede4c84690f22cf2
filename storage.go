// FILE: lixenwraith/asynclog/storage.go
package asynclog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/lixenwraith/asynclog/formatter"
)

// File system seams, replaced in tests
var (
	renameFile = os.Rename
	removeFile = os.Remove
)

// openLogFile resolves the next file name in dir, opens it for appending and writes the session banner.
// With rotate set an existing file is moved out of the way first.
func (s *Sink) openLogFile(dir, prefix string, rotate bool) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmtErrorf("failed to create log directory '%s': %w", dir, err)
	}

	name, archived, err := s.nextFileName(dir, prefix, rotate)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if err := s.openPath(path); err != nil {
		return "", err
	}

	s.writeBanner(archived)
	return path, nil
}

// openPath opens path in append mode. A file that cannot be appended to is
// recreated empty and opened once more before giving up.
func (s *Sink) openPath(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		s.internalLog("cannot open log file '%s' for appending, recreating it: %v\n", path, err)
		var created *os.File
		created, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err == nil {
			_ = created.Close()
			f, err = os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
		}
		if err != nil {
			return fmtErrorf("failed to open log file '%s': %w", path, err)
		}
	}

	var size int64
	if info, statErr := f.Stat(); statErr == nil {
		size = info.Size()
	}

	s.file = f
	s.dirty = false
	s.state.CurrentPath.Store(path)
	s.state.CurrentSize.Store(size)
	return nil
}

// closeFile syncs and closes the active file
func (s *Sink) closeFile() error {
	if s.file == nil {
		return nil
	}
	var err error
	if syncErr := s.file.Sync(); syncErr != nil {
		err = combineErrors(err, fmtErrorf("failed to sync log file '%s': %w", s.file.Name(), syncErr))
	}
	if closeErr := s.file.Close(); closeErr != nil {
		err = combineErrors(err, fmtErrorf("failed to close log file '%s': %w", s.file.Name(), closeErr))
	}
	s.file = nil
	s.dirty = false
	return err
}

// nextFileName picks the file to open. archived is where the previous file was moved, if anywhere.
func (s *Sink) nextFileName(dir, prefix string, rotate bool) (name, archived string, err error) {
	if s.cfg.TimeBasedNames {
		name = s.baseFileName(prefix)
		if rotate {
			if name, err = uniqueFileName(dir, name); err != nil {
				return "", "", err
			}
			s.state.TotalRotations.Add(1)
		}
		return name, "", nil
	}

	name = s.baseFileName(prefix)
	if !rotate {
		return name, "", nil
	}
	archived, err = s.shiftRotatedFiles(dir, prefix)
	return name, archived, err
}

// baseFileName is the name a file for prefix gets before any collision suffix
func (s *Sink) baseFileName(prefix string) string {
	if s.cfg.TimeBasedNames {
		return prefix + s.clock.CachedTime().Format(s.cfg.FileNameTimeFormat)
	}
	return prefix + logFileExtension
}

// shiftRotatedFiles renumbers "<prefix>.N.log" to N+1, dropping the one past the
// retention limit, then moves "<prefix>.log" to "<prefix>.1.log".
func (s *Sink) shiftRotatedFiles(dir, prefix string) (string, error) {
	current := filepath.Join(dir, prefix+logFileExtension)
	if !fileExists(current) {
		return "", nil
	}

	limit := int(s.cfg.MaxRotatedFiles)
	oldest := numberedPath(dir, prefix, limit)
	if fileExists(oldest) {
		if err := removeFile(oldest); err != nil {
			return "", fmtErrorf("failed to remove oldest rotated file '%s': %w", oldest, err)
		}
		s.state.TotalDeletions.Add(1)
	}

	for i := limit - 1; i >= 1; i-- {
		src := numberedPath(dir, prefix, i)
		if !fileExists(src) {
			continue
		}
		if err := renameFile(src, numberedPath(dir, prefix, i+1)); err != nil {
			return "", fmtErrorf("failed to shift rotated file '%s': %w", src, err)
		}
	}

	archived := numberedPath(dir, prefix, 1)
	if err := renameFile(current, archived); err != nil {
		return "", fmtErrorf("failed to rotate '%s' to '%s': %w", current, archived, err)
	}
	s.state.TotalRotations.Add(1)
	return archived, nil
}

// writeBanner starts a session in the freshly opened file
func (s *Sink) writeBanner(previous string) {
	if s.file == nil {
		return
	}
	now := s.clock.CachedTime()

	var b strings.Builder
	b.WriteString("\n\t\tasynclog created log file at: ")
	b.WriteString(now.Format(s.cfg.DateFormat + " " + s.cfg.TimeFormat))
	if s.cfg.ProductName != "" {
		b.WriteString("\n\t\tProduct: ")
		b.WriteString(s.cfg.ProductName)
		if s.cfg.ProductVersion != "" {
			b.WriteString(" ")
			b.WriteString(s.cfg.ProductVersion)
		}
	}
	if exe, err := os.Executable(); err == nil {
		fmt.Fprintf(&b, "\n\t\tExecutable: %s (pid %d, %s/%s)", exe, s.pid, runtime.GOOS, runtime.GOARCH)
	}
	fmt.Fprintf(&b, "\n\t\tLine format: [%s %s microseconds_since_start pid  message]", s.cfg.DateFormat, s.cfg.TimeFormat)
	b.WriteString("\n\t\tLevels:")
	for lvl := LevelFatal; lvl <= LevelAll; lvl++ {
		fmt.Fprintf(&b, " %s(%d)", LevelName(lvl), lvl)
	}
	fmt.Fprintf(&b, ", threshold %s", LevelName(LogLevel()))
	b.WriteString("\n")

	n, err := formatter.WriteRaw(s.file, b.String())
	s.state.CurrentSize.Add(int64(n))
	if err != nil {
		s.state.TotalWriteErrors.Add(1)
		s.internalLog("failed to write banner to '%s': %v\n", s.state.path(), err)
		return
	}
	s.dirty = true

	if previous != "" {
		s.appendEntry(NewEntry(LevelInfo, previousFileText+previous))
	}
}

func numberedPath(dir, prefix string, n int) string {
	return filepath.Join(dir, prefix+"."+strconv.Itoa(n)+logFileExtension)
}

// uniqueFileName appends ".N" to name until it does not collide in dir.
// A stat failure other than a missing file ends the search with an error.
func uniqueFileName(dir, name string) (string, error) {
	candidate := name
	for i := 1; i <= maxUniqueSuffix; i++ {
		exists, err := statExists(filepath.Join(dir, candidate))
		if err != nil {
			return "", fmtErrorf("cannot check log file name '%s': %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = name + "." + strconv.Itoa(i)
	}
	return "", fmtErrorf("no free log file name for '%s' after %d attempts", name, maxUniqueSuffix)
}

// statExists reports whether path exists, with any stat error besides "not exist"
func statExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// fileExists treats an unreadable path as present so it is never overwritten
func fileExists(path string) bool {
	exists, err := statExists(path)
	return exists || err != nil
}

// logDirStats sums size and count of the files belonging to prefix in dir
func logDirStats(dir, prefix string) (size int64, count int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, fmtErrorf("failed to read log directory '%s': %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil {
			continue
		}
		size += info.Size()
		count++
	}
	return size, count, nil
}
