// FILE: lixenwraith/asynclog/signal.go
package asynclog

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// fatalSignals are routed through the fatal protocol once the handler is installed
var fatalSignals = []os.Signal{
	syscall.SIGABRT,
	syscall.SIGFPE,
	syscall.SIGILL,
	syscall.SIGSEGV,
	syscall.SIGTERM,
}

var signalNames = map[syscall.Signal]string{
	syscall.SIGABRT: "SIGABRT",
	syscall.SIGFPE:  "SIGFPE",
	syscall.SIGILL:  "SIGILL",
	syscall.SIGSEGV: "SIGSEGV",
	syscall.SIGTERM: "SIGTERM",
}

var signalOnce sync.Once

// SignalName returns a readable name for sig
func SignalName(sig syscall.Signal) string {
	if name, ok := signalNames[sig]; ok {
		return name
	}
	if name := platformSignalName(sig); name != "" {
		return name
	}
	return fmt.Sprintf("UNKNOWN SIGNAL(%d)", int(sig))
}

// InstallSignalHandler routes abort, floating point, illegal instruction,
// segmentation and termination signals into the fatal protocol.
// Only the first call has an effect. Faults raised by Go code itself are
// turned into panics by the runtime and never reach this handler.
func InstallSignalHandler() {
	signalOnce.Do(func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, fatalSignals...)
		go func() {
			for sig := range ch {
				handleFatalSignal(sig)
			}
		}()
	})
}

func handleFatalSignal(sig os.Signal) {
	ss, ok := sig.(syscall.Signal)
	if !ok {
		ss = syscall.SIGABRT
	}
	fatalCall(signalFatalMessage(ss))
}

func signalFatalMessage(sig syscall.Signal) FatalMessage {
	text := fmt.Sprintf("\n\n***** FATAL SIGNAL RECEIVED *****\n\tEXIT trigger caused by signal %s(%d)", SignalName(sig), int(sig))
	return FatalMessage{
		Entry:  NewEntry(LevelFatal, text),
		Reason: OSFatalSignal,
		Signal: sig,
	}
}
