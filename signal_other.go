//go:build !unix

package asynclog

import (
	"errors"
	"syscall"
)

func raise(sig syscall.Signal) error {
	return errors.New("asynclog: raising signals is not supported on this platform")
}

func platformSignalName(sig syscall.Signal) string {
	return ""
}
