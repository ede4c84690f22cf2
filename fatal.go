// FILE: lixenwraith/asynclog/fatal.go
package asynclog

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// Fatal protocol states
const (
	FatalArmed int32 = iota
	FatalFlushing
	FatalTerminating
)

// Terminator ends the process once a fatal event has been persisted.
// It may be invoked twice for one event: by the background goroutine after
// flushing and again by the goroutine that triggered the event.
type Terminator interface {
	Terminate(msg FatalMessage)
}

// TerminatorFunc adapts a function to Terminator
type TerminatorFunc func(msg FatalMessage)

// Terminate calls f(msg)
func (f TerminatorFunc) Terminate(msg FatalMessage) {
	f(msg)
}

type osTerminator struct{}

// OSTerminator restores the default disposition of the fatal signal and raises it
// against the process, exiting with 128+signal if the process survives.
func OSTerminator() Terminator {
	return osTerminator{}
}

func (osTerminator) Terminate(msg FatalMessage) {
	sig := msg.Signal
	if sig == 0 {
		sig = syscall.SIGABRT
	}
	signal.Reset(sig)
	if err := raise(sig); err == nil {
		time.Sleep(terminateGrace)
	}
	os.Exit(128 + int(sig))
}

// defaultTerminator handles fatal events raised while no sink is installed
var defaultTerminator Terminator = osTerminator{}

// fatalProtocol moves Armed -> Flushing -> Terminating exactly once per sink
type fatalProtocol struct {
	terminator Terminator
	state      atomic.Int32
	done       chan struct{}
	finishOnce sync.Once
}

func newFatalProtocol(t Terminator) *fatalProtocol {
	return &fatalProtocol{
		terminator: t,
		done:       make(chan struct{}),
	}
}

// begin claims the protocol. Only the first caller gets true.
func (p *fatalProtocol) begin() bool {
	return p.state.CompareAndSwap(FatalArmed, FatalFlushing)
}

// finish signals that flushing is over
func (p *fatalProtocol) finish() {
	p.finishOnce.Do(func() {
		p.state.Store(FatalTerminating)
		close(p.done)
	})
}

// TriggerFatal persists msg after every entry queued before it, closes the file,
// uninstalls the sink and terminates through the sink's Terminator.
// The calling goroutine waits for the flush and does not return unless the
// Terminator itself returns. Must not be called from a task running on the sink.
func (s *Sink) TriggerFatal(msg FatalMessage) {
	p := s.fatal
	if p.begin() {
		fmt.Fprintf(diagnosticWriter(), "%s\n", msg.Entry.Message)
		if err := s.exec.Submit(func() { s.backgroundFatal(msg) }); err != nil {
			s.internalLog("fatal event could not reach the background writer: %v\n", err)
			s.state.Started.Store(false)
			global.uninstallIf(s)
			p.finish()
		}
	}

	<-p.done
	p.terminator.Terminate(msg)
}

// FatalState returns FatalArmed, FatalFlushing or FatalTerminating
func (s *Sink) FatalState() int32 {
	return s.fatal.state.Load()
}

// backgroundFatal runs on the executor goroutine. Everything queued earlier has been written.
func (s *Sink) backgroundFatal(msg FatalMessage) {
	s.state.Started.Store(false)

	s.fileMu.Lock()
	s.appendEntry(msg.Entry)
	s.appendEntry(NewEntry(LevelFatal, fmt.Sprintf("%s: %s, %s", fatalFlushedText, SignalName(msg.Signal), msg.Reason)))
	if err := s.closeFile(); err != nil {
		s.internalLog("%v\n", err)
	}
	s.fileMu.Unlock()

	s.state.LoggerClosed.Store(true)
	global.uninstallIf(s)
	s.fatal.finish()
	s.fatal.terminator.Terminate(msg)
}

// fatalCall routes a fatal event to the installed sink, or straight to
// termination when logging was never initialized.
func fatalCall(msg FatalMessage) {
	if s := Current(); s != nil {
		s.TriggerFatal(msg)
		return
	}
	fmt.Fprintf(diagnosticWriter(), "%s%s\n", notInitializedText, msg.Entry.Message)
	defaultTerminator.Terminate(msg)
}
