// FILE: lixenwraith/asynclog/sink.go
package asynclog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/agilira/go-timecache"

	"github.com/lixenwraith/asynclog/active"
	"github.com/lixenwraith/asynclog/formatter"
	"github.com/lixenwraith/asynclog/sanitizer"
)

// Sink owns one log file and a single background goroutine that performs
// every write, rotation and file change in submission order.
type Sink struct {
	cfg   *Config
	exec  *active.Executor
	lines *formatter.Formatter
	clock *timecache.TimeCache
	state *State
	fatal *fatalProtocol
	diag  io.Writer
	pid   int
	start time.Time

	// Owned by the executor goroutine. fileMu serializes file transitions.
	fileMu        sync.Mutex
	file          *os.File
	dir           string
	prefix        string
	rotateRetries int64
	dirty         bool
	closeErr      error

	heartbeatStop chan struct{}
	heartbeatDone chan struct{}
}

// SinkOption customizes a Sink at construction
type SinkOption func(*Sink)

// WithTerminator sets how the process ends after a fatal event has been flushed.
// The default raises the fatal signal against the process.
func WithTerminator(t Terminator) SinkOption {
	return func(s *Sink) {
		if t != nil {
			s.fatal = newFatalProtocol(t)
		}
	}
}

// WithDiagnostics sends this sink's internal errors to w instead of the package diagnostic writer
func WithDiagnostics(w io.Writer) SinkOption {
	return func(s *Sink) {
		s.diag = w
	}
}

// NewSink validates cfg, opens the log file and starts the background goroutine.
// An invalid prefix fails construction, as does a destination that cannot be opened
// in either the configured or the current directory.
// The process-wide level threshold is set to cfg.Level.
func NewSink(cfg *Config, opts ...SinkOption) (*Sink, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.Clone()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Sink{
		cfg:    cfg,
		lines:  formatter.New().DateFormat(cfg.DateFormat).TimeFormat(cfg.TimeFormat),
		state:  newState(),
		pid:    os.Getpid(),
		start:  time.Now(),
		dir:    sanitizer.FixDirectory(cfg.Directory),
		prefix: sanitizer.FixPrefix(cfg.Prefix),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fatal == nil {
		s.fatal = newFatalProtocol(OSTerminator())
	}
	s.clock = timecache.NewWithResolution(clockResolution)

	SetLogLevel(cfg.Level)

	// The file is opened before the executor exists, handing ownership to it on start.
	// An unusable directory falls back to the current one.
	if _, err := s.openLogFile(s.dir, s.prefix, cfg.RotateOnStart); err != nil {
		if s.dir == "." {
			s.clock.Stop()
			return nil, err
		}
		s.internalLog("%v, attempting current directory\n", err)
		if _, cwdErr := s.openLogFile(".", s.prefix, cfg.RotateOnStart); cwdErr != nil {
			s.clock.Stop()
			return nil, combineErrors(err, cwdErr)
		}
		s.dir = "."
	}
	s.state.StartTime.Store(s.start)

	execOpts := []active.Option{
		active.WithPanicHandler(func(err error) {
			s.internalLog("background task failed: %v\n", err)
		}),
	}
	if cfg.PeriodicSyncMs > 0 {
		execOpts = append(execOpts, active.WithIdle(time.Duration(cfg.PeriodicSyncMs)*time.Millisecond, s.backgroundSync))
	}
	s.exec = active.New(execOpts...)

	s.state.Started.Store(true)
	s.startHeartbeat()
	return s, nil
}

// Write queues an entry for appending. It never blocks on file I/O.
// Entries written after Close or a fatal event are dropped.
func (s *Sink) Write(entry LogEntry) {
	if !s.state.Started.Load() {
		return
	}
	_ = s.exec.Submit(func() { s.backgroundWrite(entry) })
}

// ChangeFile moves logging to "<directory>/<prefix>.log" ("<directory>/<prefix><timestamp>" with
// time-based names), or rotates in place when rotate is set.
// The future carries the active path afterwards; when the new location cannot be
// opened the previous file is reopened and its path is returned with the error.
func (s *Sink) ChangeFile(directory, prefix string, rotate bool) *active.Future[string] {
	if !s.state.Started.Load() {
		return active.Failed[string](ErrSinkClosed)
	}

	f, err := active.Spawn(s.exec, func() (string, error) {
		if fixed := sanitizer.FixPrefix(prefix); s.file != nil && sanitizer.ValidPrefix(fixed) {
			target := filepath.Join(sanitizer.FixDirectory(directory), s.baseFileName(fixed))
			s.appendEntry(NewEntry(LevelInfo, changingFileText+target))
		}
		return s.backgroundChangeFile(directory, prefix, rotate)
	})
	if err != nil {
		return active.Failed[string](err)
	}
	return f
}

// FileName resolves to the active file path once every earlier task has run
func (s *Sink) FileName() *active.Future[string] {
	f, err := active.Spawn(s.exec, func() (string, error) {
		if s.file == nil {
			return "", ErrSinkClosed
		}
		return s.state.path(), nil
	})
	if err != nil {
		return active.Failed[string](err)
	}
	return f
}

// GenericCall runs fn on the background goroutine in queue order
func (s *Sink) GenericCall(fn func() int) *active.Future[int] {
	return Invoke(s, func() (int, error) { return fn(), nil })
}

// Invoke runs fn on the sink's background goroutine in queue order.
// fn must not block on the sink itself.
func Invoke[T any](s *Sink, fn func() (T, error)) *active.Future[T] {
	f, err := active.Spawn(s.exec, fn)
	if err != nil {
		return active.Failed[T](err)
	}
	return f
}

// Sync blocks until every entry queued before it is written and flushed to stable storage
func (s *Sink) Sync() error {
	_, err := Invoke(s, func() (struct{}, error) {
		if s.file == nil {
			return struct{}{}, ErrSinkClosed
		}
		if err := s.file.Sync(); err != nil {
			return struct{}{}, fmtErrorf("failed to sync log file '%s': %w", s.state.path(), err)
		}
		s.dirty = false
		return struct{}{}, nil
	}).Get()
	return err
}

// SetLogLevel changes the process-wide threshold immediately, bypassing the queue
func (s *Sink) SetLogLevel(level int64) {
	SetLogLevel(level)
}

// Config returns a copy of the sink's configuration
func (s *Sink) Config() *Config {
	return s.cfg.Clone()
}

// Close drains queued work, writes the shutdown trailer, closes the file and
// stops the background goroutine. If the sink is installed it is uninstalled first.
// Subsequent calls return nil. Close must not be called from a task running on the sink.
func (s *Sink) Close() error {
	if !s.state.CloseCalled.CompareAndSwap(false, true) {
		return nil
	}

	global.uninstallIf(s)
	s.stopHeartbeat()
	s.state.Started.Store(false)

	_ = s.exec.Submit(s.backgroundClose)
	s.exec.Stop()
	s.clock.Stop()

	return s.closeErr
}

// internalLog writes an engine diagnostic, never to the log file itself
func (s *Sink) internalLog(format string, args ...any) {
	if !s.cfg.InternalErrorsToStderr {
		return
	}

	if !strings.HasPrefix(format, "asynclog: ") {
		format = "asynclog: " + format
	}

	w := s.diag
	if w == nil {
		w = diagnosticWriter()
	}
	fmt.Fprintf(w, format, args...)
}
