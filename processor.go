// FILE: lixenwraith/asynclog/processor.go
package asynclog

import (
	"fmt"

	"github.com/lixenwraith/asynclog/formatter"
	"github.com/lixenwraith/asynclog/sanitizer"
)

// Handlers in this file run only on the sink's executor goroutine.

// backgroundWrite appends one entry and rotates when the file has grown past the threshold
func (s *Sink) backgroundWrite(entry LogEntry) {
	if s.file == nil {
		return
	}
	s.appendEntry(entry)
	s.checkRotation()
}

// appendEntry formats and writes one line without any rotation check
func (s *Sink) appendEntry(entry LogEntry) {
	if s.file == nil {
		return
	}

	// Entries captured before the sink started report offset zero
	micros := entry.TimeStamp.Sub(s.start).Microseconds()
	if micros < 0 {
		micros = 0
	}

	n, err := s.lines.WriteLine(s.file, entry.TimeStamp, micros, s.pid, entry.Message)
	s.state.CurrentSize.Add(int64(n))
	if err != nil {
		s.state.TotalWriteErrors.Add(1)
		s.internalLog("failed to write to log file '%s': %v\n", s.state.path(), err)
		return
	}
	s.dirty = true
	s.state.TotalLogsProcessed.Add(1)
}

// checkRotation rotates once the active file exceeds RotateSizeKB.
// At most MaxRotateRetries attempts are made until a rotation leaves a file below the threshold.
func (s *Sink) checkRotation() {
	if !s.cfg.RotateLogs {
		return
	}
	if s.state.CurrentSize.Load()/1024 <= s.cfg.RotateSizeKB {
		return
	}
	if s.rotateRetries >= s.cfg.MaxRotateRetries {
		return
	}

	s.rotateRetries++
	s.state.CurrentSize.Store(0)

	if _, err := s.backgroundChangeFile(s.dir, s.prefix, true); err != nil {
		s.internalLog("log rotation failed (attempt %d of %d): %v\n", s.rotateRetries, s.cfg.MaxRotateRetries, err)
		return
	}
	if s.state.CurrentSize.Load()/1024 <= s.cfg.RotateSizeKB {
		s.rotateRetries = 0
	}
}

// backgroundChangeFile closes the active file and opens one at the new location.
// On failure the previous file is reopened and its path returned along with the error.
func (s *Sink) backgroundChangeFile(directory, prefix string, rotate bool) (string, error) {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()

	if s.file == nil {
		return "", ErrSinkClosed
	}

	dir := sanitizer.FixDirectory(directory)
	fixed := sanitizer.FixPrefix(prefix)
	if !sanitizer.ValidPrefix(fixed) {
		err := fmt.Errorf("%w: '%s'", ErrInvalidPrefix, sanitizer.Display(prefix))
		s.internalLog("%v, keeping '%s'\n", err, s.state.path())
		return s.state.path(), err
	}

	oldPath := s.state.path()
	if err := s.closeFile(); err != nil {
		s.internalLog("%v\n", err)
	}

	newPath, err := s.openLogFile(dir, fixed, rotate)
	if err != nil {
		s.internalLog("cannot change log file to '%s': %v, reopening '%s'\n", dir, err, oldPath)
		if reopenErr := s.openPath(oldPath); reopenErr != nil {
			s.internalLog("failed to reopen previous log file '%s': %v\n", oldPath, reopenErr)
			return "", combineErrors(err, reopenErr)
		}
		return oldPath, err
	}

	if !rotate && newPath != oldPath {
		s.appendEntry(NewEntry(LevelInfo, previousFileText+oldPath))
	}

	s.dir = dir
	s.prefix = fixed
	if !rotate {
		s.rotateRetries = 0
	}
	return newPath, nil
}

// backgroundSync flushes written data to stable storage when the queue has been idle
func (s *Sink) backgroundSync() {
	if s.file == nil || !s.dirty {
		return
	}
	if err := s.file.Sync(); err != nil {
		s.internalLog("failed to sync log file '%s': %v\n", s.state.path(), err)
		return
	}
	s.dirty = false
}

// backgroundClose writes the shutdown trailer and closes the file
func (s *Sink) backgroundClose() {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()

	if s.file == nil {
		return
	}

	now := s.clock.CachedTime()
	trailer := shutdownTrailer + now.Format(s.cfg.DateFormat+" "+s.cfg.TimeFormat) + "\n"
	if n, err := formatter.WriteRaw(s.file, trailer); err != nil {
		s.state.TotalWriteErrors.Add(1)
		s.closeErr = combineErrors(s.closeErr, fmtErrorf("failed to write shutdown trailer: %w", err))
	} else {
		s.state.CurrentSize.Add(int64(n))
	}

	if err := s.closeFile(); err != nil {
		s.closeErr = combineErrors(s.closeErr, err)
	}
	s.state.LoggerClosed.Store(true)
}
