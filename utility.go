// FILE: lixenwraith/asynclog/utility.go
package asynclog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"

	"go.uber.org/multierr"
)

// Sentinel errors
var (
	ErrNotInitialized   = errors.New("asynclog: logging is not initialized")
	ErrInvalidPrefix    = errors.New("asynclog: invalid log file prefix")
	ErrAlreadyInstalled = errors.New("asynclog: another sink is already installed")
	ErrSinkClosed       = errors.New("asynclog: sink is closed")
)

// diagnostics receives internal errors, pre-init mirrors and fatal echoes
var diagnostics atomic.Value // stores writerBox

type writerBox struct {
	w io.Writer
}

func init() {
	diagnostics.Store(writerBox{w: os.Stderr})
}

// SetDiagnosticWriter redirects the engine's own diagnostics. Nil restores stderr.
func SetDiagnosticWriter(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	diagnostics.Store(writerBox{w: w})
}

func diagnosticWriter() io.Writer {
	return diagnostics.Load().(writerBox).w
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "asynclog: ") {
		format = "asynclog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	return multierr.Append(err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// Level converts a level name or number to its numeric constant.
func Level(levelStr string) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(levelStr))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < LevelFatal || n > LevelAll {
			return 0, fmtErrorf("level out of range: %d (use %d..%d)", n, LevelFatal, LevelAll)
		}
		return n, nil
	}
	switch s {
	case "fatal":
		return LevelFatal, nil
	case "silent":
		return LevelSilent, nil
	case "critical":
		return LevelCritical, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "info":
		return LevelInfo, nil
	case "normal":
		return LevelNormal, nil
	case "debug":
		return LevelDebug, nil
	case "all":
		return LevelAll, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use fatal, silent, critical, warning, info, normal, debug, all)", levelStr)
	}
}

// LevelName returns the upper-case name of a level
func LevelName(level int64) string {
	switch level {
	case LevelFatal:
		return "FATAL"
	case LevelSilent:
		return "SILENT"
	case LevelCritical:
		return "CRITICAL"
	case LevelWarning:
		return "WARNING"
	case LevelInfo:
		return "INFO"
	case LevelNormal:
		return "NORMAL"
	case LevelDebug:
		return "DEBUG"
	case LevelAll:
		return "ALL"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}

// callerInfo returns base file name, line and short function name of the frame skip levels up
func callerInfo(skip int) (file string, line int, function string) {
	pc, path, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "???", 0, "(unknown)"
	}
	function = "(unknown)"
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = filepath.Base(fn.Name())
	}
	return filepath.Base(path), line, function
}
