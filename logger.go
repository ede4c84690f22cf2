// FILE: lixenwraith/asynclog/logger.go
package asynclog

import (
	"fmt"
	"sync/atomic"

	"github.com/lixenwraith/asynclog/formatter"
)

// logLevel is the process-wide threshold shared by every sink
var logLevel atomic.Int64

func init() {
	logLevel.Store(LevelInfo)
}

// SetLogLevel changes the process-wide threshold. Calls racing with it may use either value.
func SetLogLevel(level int64) {
	logLevel.Store(level)
}

// LogLevel returns the process-wide threshold
func LogLevel() int64 {
	return logLevel.Load()
}

// Enabled reports whether a message at level passes the threshold
func Enabled(level int64) bool {
	return level <= logLevel.Load()
}

// EntryText renders the message part of a persisted line, " [LEVEL] [where]\tmsg"
func EntryText(level int64, where, msg string) string {
	return fmt.Sprintf(" [%s] [%s]\t%s", LevelName(level), where, msg)
}

// Log emits a stream-style message at level
func Log(level int64, args ...any) {
	if level != LevelFatal && !Enabled(level) {
		return
	}
	logAt(1, level, formatter.Sprint(args...))
}

// Logf emits a printf-style message at level
func Logf(level int64, format string, args ...any) {
	if level != LevelFatal && !Enabled(level) {
		return
	}
	logAt(1, level, formatter.Sprintf(format, args...))
}

// Output emits msg at level, attributing it to the caller calldepth frames up.
// calldepth 1 is the caller of Output.
func Output(calldepth int, level int64, msg string) {
	logAt(calldepth, level, msg)
}

// Debug logs at DEBUG
func Debug(args ...any) {
	if Enabled(LevelDebug) {
		logAt(1, LevelDebug, formatter.Sprint(args...))
	}
}

// Info logs at INFO
func Info(args ...any) {
	if Enabled(LevelInfo) {
		logAt(1, LevelInfo, formatter.Sprint(args...))
	}
}

// Normal logs at NORMAL
func Normal(args ...any) {
	if Enabled(LevelNormal) {
		logAt(1, LevelNormal, formatter.Sprint(args...))
	}
}

// Warning logs at WARNING
func Warning(args ...any) {
	if Enabled(LevelWarning) {
		logAt(1, LevelWarning, formatter.Sprint(args...))
	}
}

// Critical logs at CRITICAL
func Critical(args ...any) {
	if Enabled(LevelCritical) {
		logAt(1, LevelCritical, formatter.Sprint(args...))
	}
}

// Fatal persists the message, then terminates the process once everything
// queued before it has been written.
func Fatal(args ...any) {
	fatalAt(1, "LOG(FATAL)", formatter.Sprint(args...))
}

// Fatalf is the printf-style Fatal
func Fatalf(format string, args ...any) {
	fatalAt(1, "LOG(FATAL)", formatter.Sprintf(format, args...))
}

// Check is a contract: a false condition is a fatal event
func Check(ok bool, args ...any) {
	if ok {
		return
	}
	fatalAt(1, "broken Contract: CHECK", formatter.Sprint(args...))
}

// Checkf is the printf-style Check
func Checkf(ok bool, format string, args ...any) {
	if ok {
		return
	}
	fatalAt(1, "broken Contract: CHECK", formatter.Sprintf(format, args...))
}

func logAt(skip int, level int64, msg string) {
	if level == LevelFatal {
		fatalAt(skip+1, "LOG(FATAL)", msg)
		return
	}
	if !Enabled(level) {
		return
	}
	file, line, _ := callerInfo(skip + 1)
	dispatch(NewEntry(level, EntryText(level, fmt.Sprintf("%s L: %d", file, line), msg)))
}

func fatalAt(skip int, cause, msg string) {
	file, line, function := callerInfo(skip + 1)
	text := fmt.Sprintf("Fatal error at: %s%s\n\n[  *******\tEXIT trigger caused by %s entry: \n\t\"%s\"",
		function, EntryText(LevelFatal, fmt.Sprintf("%s L: %d", file, line), msg), cause, msg)
	fatalCall(NewFatalMessage(text))
}
