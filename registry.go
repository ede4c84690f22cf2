// FILE: lixenwraith/asynclog/registry.go
package asynclog

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// registry is the process-wide slot for the active sink plus the
// first message produced while no sink was installed.
type registry struct {
	mu      sync.Mutex // guards install, uninstall and pre-init capture
	sink    atomic.Pointer[Sink]
	preInit *LogEntry
}

var global = &registry{}

// Install makes s the active sink for the package-level logging calls.
// A message captured before any sink was installed is written first.
// When the sink's config asks for it, fatal OS signals are routed through it from now on.
func Install(s *Sink) error {
	if s == nil {
		return fmtErrorf("sink cannot be nil")
	}
	if !s.state.Started.Load() {
		return ErrSinkClosed
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if cur := global.sink.Load(); cur != nil {
		if cur == s {
			return nil
		}
		return ErrAlreadyInstalled
	}

	if global.preInit != nil {
		s.Write(*global.preInit)
		global.preInit = nil
	}
	global.sink.Store(s)

	if s.cfg.CatchSignals {
		InstallSignalHandler()
	}
	return nil
}

// Current returns the installed sink or nil
func Current() *Sink {
	return global.sink.Load()
}

// Initialized reports whether a sink is installed
func Initialized() bool {
	return global.sink.Load() != nil
}

// Uninstall empties the slot and returns the sink that was installed, if any.
// The sink keeps running.
func Uninstall() *Sink {
	global.mu.Lock()
	defer global.mu.Unlock()
	return global.sink.Swap(nil)
}

func (r *registry) uninstallIf(s *Sink) bool {
	if s == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sink.CompareAndSwap(s, nil)
}

// Shutdown uninstalls and closes the active sink.
// It reports false when no sink was installed.
func Shutdown() bool {
	s := Uninstall()
	if s == nil {
		return false
	}
	if err := s.Close(); err != nil {
		fmt.Fprintf(diagnosticWriter(), "asynclog: shutdown: %v\n", err)
	}
	return true
}

// ShutdownActiveOnly shuts s down only if it is the installed sink.
// Any other sink is left untouched and false is returned.
func ShutdownActiveOnly(s *Sink) bool {
	if !global.uninstallIf(s) {
		fmt.Fprintf(diagnosticWriter(), "asynclog: shutdown ignored, sink is not the active one\n")
		return false
	}
	if err := s.Close(); err != nil {
		fmt.Fprintf(diagnosticWriter(), "asynclog: shutdown: %v\n", err)
	}
	return true
}

// dispatch hands an entry to the active sink. Without one the entry is mirrored
// to diagnostics and, if it is the first such entry, kept for the next Install.
func dispatch(entry LogEntry) {
	if s := global.sink.Load(); s != nil {
		s.Write(entry)
		return
	}

	global.mu.Lock()
	if s := global.sink.Load(); s != nil {
		global.mu.Unlock()
		s.Write(entry)
		return
	}
	if global.preInit == nil {
		e := entry
		global.preInit = &e
	}
	global.mu.Unlock()

	fmt.Fprintf(diagnosticWriter(), "%s%s\n", notInitializedText, entry.Message)
}
