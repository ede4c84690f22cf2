// FILE: lixenwraith/asynclog/constant.go
package asynclog

import (
	"time"
)

// Severity levels. A message is emitted only if its level is numerically
// less than or equal to the current threshold.
const (
	LevelFatal    int64 = 1
	LevelSilent   int64 = 2
	LevelCritical int64 = 3
	LevelWarning  int64 = 4
	LevelInfo     int64 = 5
	LevelNormal   int64 = 6
	LevelDebug    int64 = 7
	LevelAll      int64 = 8
)

// Rotation
const (
	defaultRotateSizeKB     int64 = 1024
	defaultMaxRotateRetries int64 = 5
	defaultMaxRotatedFiles  int64 = 10
	logFileExtension              = ".log"
	maxUniqueSuffix               = 1000 // ".N" suffixes tried for a time-based name
)

// Persisted text fragments
const (
	fatalFlushedText   = "Log file flushed successfully, exiting after fatal trigger"
	changingFileText   = "\n\tChanging log file to new location: "
	previousFileText   = "New log file. The previous log file was at: "
	shutdownTrailer    = "\n\t\tLogger file shutdown at: "
	notInitializedText = "LOGGER NOT INITIALIZED: "
)

// Timers
const (
	// Fallback exit delay when a self-raised signal does not terminate the process
	terminateGrace = time.Second
	// Resolution of the sink's cached clock
	clockResolution = time.Millisecond
)
