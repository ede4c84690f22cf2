//go:build unix

package asynclog

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func raise(sig syscall.Signal) error {
	return unix.Kill(os.Getpid(), sig)
}

func platformSignalName(sig syscall.Signal) string {
	return unix.SignalName(sig)
}
