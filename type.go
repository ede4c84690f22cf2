// FILE: lixenwraith/asynclog/type.go
package asynclog

import (
	"fmt"
	"syscall"
	"time"
)

// LogEntry is one message headed for the log file.
// The timestamp is taken where the message is produced, not where it is written.
type LogEntry struct {
	Level     int64
	TimeStamp time.Time
	Message   string
}

// NewEntry stamps a message with the current time
func NewEntry(level int64, msg string) LogEntry {
	return LogEntry{
		Level:     level,
		TimeStamp: time.Now(),
		Message:   msg,
	}
}

// FatalReason distinguishes application fatals from OS signals
type FatalReason int

const (
	ApplicationFatal FatalReason = iota
	OSFatalSignal
)

func (r FatalReason) String() string {
	switch r {
	case ApplicationFatal:
		return "application fatal"
	case OSFatalSignal:
		return "os fatal signal"
	default:
		return fmt.Sprintf("FatalReason(%d)", int(r))
	}
}

// FatalMessage is a terminal event: the entry to persist, why, and which
// signal the process should die with.
type FatalMessage struct {
	Entry  LogEntry
	Reason FatalReason
	Signal syscall.Signal
}

// NewFatalMessage builds an application fatal that terminates with SIGABRT
func NewFatalMessage(msg string) FatalMessage {
	return FatalMessage{
		Entry:  NewEntry(LevelFatal, msg),
		Reason: ApplicationFatal,
		Signal: syscall.SIGABRT,
	}
}

// Stats is a point-in-time snapshot of a sink's counters
type Stats struct {
	EntriesWritten uint64
	Rotations      uint64
	Deletions      uint64
	WriteErrors    uint64
	CurrentSize    int64
	QueueDepth     int
	FilePath       string
	Uptime         time.Duration
}
