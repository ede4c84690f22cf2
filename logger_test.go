// FILE: lixenwraith/asynclog/logger_test.go
package asynclog

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/asynclog/formatter"
)

// lineRe matches the header of a persisted entry: date, time, micros, pid
var lineRe = regexp.MustCompile(`^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} \d+ \d+  `)

// recorder is a Terminator that remembers every call instead of exiting
type recorder struct {
	mu    sync.Mutex
	calls []FatalMessage
}

func (r *recorder) Terminate(msg FatalMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, msg)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// syncBuffer is a bytes.Buffer safe for concurrent writers
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testConfig returns a config writing to a temp directory with signal handling off
func testConfig(t *testing.T) *Config {
	cfg := DefaultConfig()
	cfg.Directory = t.TempDir()
	cfg.Prefix = "svc"
	cfg.CatchSignals = false
	cfg.PeriodicSyncMs = 10
	return cfg
}

// createTestSink creates a started, uninstalled sink in a temp directory
func createTestSink(t *testing.T, mutate ...func(*Config)) (*Sink, *recorder) {
	t.Helper()
	cfg := testConfig(t)
	for _, m := range mutate {
		m(cfg)
	}

	rec := &recorder{}
	s, err := NewSink(cfg, WithTerminator(rec), WithDiagnostics(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, rec
}

// installTestSink creates a sink and makes it the active one for the test
func installTestSink(t *testing.T, mutate ...func(*Config)) (*Sink, *recorder) {
	t.Helper()
	resetRegistry(t)
	s, rec := createTestSink(t, mutate...)
	require.NoError(t, Install(s))
	return s, rec
}

// resetRegistry empties the global slot and pre-init capture, restoring the threshold afterwards
func resetRegistry(t *testing.T) {
	t.Helper()
	empty := func() {
		global.mu.Lock()
		global.sink.Store(nil)
		global.preInit = nil
		global.mu.Unlock()
	}
	empty()
	level := LogLevel()
	t.Cleanup(func() {
		empty()
		SetLogLevel(level)
	})
}

// activePath waits for every queued task and returns the active file
func activePath(t *testing.T, s *Sink) string {
	t.Helper()
	path, err := s.FileName().Get()
	require.NoError(t, err)
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// entryMessages returns the message part of every persisted entry, skipping banner lines
func entryMessages(t *testing.T, path string) []string {
	t.Helper()
	var msgs []string
	for _, line := range strings.Split(readFile(t, path), "\n") {
		if loc := lineRe.FindStringIndex(line); loc != nil {
			msgs = append(msgs, line[loc[1]:])
		}
	}
	return msgs
}

func TestSinkWriteSingleEntry(t *testing.T) {
	s, _ := createTestSink(t)

	s.Write(NewEntry(LevelInfo, "hello"))
	path := activePath(t, s)

	assert.Equal(t, "svc.log", filepath.Base(path))
	msgs := entryMessages(t, path)
	require.Len(t, msgs, 1)
	assert.True(t, strings.HasSuffix(msgs[0], "hello"))
}

func TestSinkLineFormat(t *testing.T) {
	s, _ := createTestSink(t)

	s.Write(NewEntry(LevelInfo, "formatted"))
	content := readFile(t, activePath(t, s))

	pid := os.Getpid()
	re := regexp.MustCompile(`\n\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} (\d+) ` + strconv.Itoa(pid) + `  formatted`)
	assert.Regexp(t, re, content)
	assert.Contains(t, content, "asynclog created log file at: ")
	assert.Contains(t, content, "Levels: FATAL(1) SILENT(2) CRITICAL(3) WARNING(4) INFO(5) NORMAL(6) DEBUG(7) ALL(8)")
}

func TestFrontEndCalls(t *testing.T) {
	s, _ := installTestSink(t)

	Info("stream", 42, true)
	Logf(LevelWarning, "printf %d", 7)
	Critical("critical entry")
	Debug("dropped at info threshold")

	msgs := entryMessages(t, activePath(t, s))
	require.Len(t, msgs, 3)

	assert.Regexp(t, `^ \[INFO\] \[logger_test\.go L: \d+\]\tstream 42 true$`, msgs[0])
	assert.Regexp(t, `^ \[WARNING\] \[logger_test\.go L: \d+\]\tprintf 7$`, msgs[1])
	assert.Contains(t, msgs[2], "[CRITICAL]")
}

func TestLevelThreshold(t *testing.T) {
	s, _ := installTestSink(t)

	s.SetLogLevel(LevelWarning)
	assert.Equal(t, LevelWarning, LogLevel())
	assert.True(t, Enabled(LevelCritical))
	assert.False(t, Enabled(LevelInfo))

	Info("hidden")
	Normal("hidden too")
	Warning("shown")

	SetLogLevel(LevelAll)
	Debug("debug shown")

	msgs := entryMessages(t, activePath(t, s))
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "shown")
	assert.Contains(t, msgs[1], "debug shown")
}

func TestNewSinkAppliesLevel(t *testing.T) {
	resetRegistry(t)
	createTestSink(t, func(c *Config) { c.Level = LevelDebug })
	assert.Equal(t, LevelDebug, LogLevel())
}

func TestLogfTruncatesLongMessages(t *testing.T) {
	s, _ := installTestSink(t)

	Logf(LevelInfo, "%s", strings.Repeat("x", formatter.MaxMessageSize+100))
	badFormat := "%d"
	Logf(LevelInfo, badFormat, "not a number")

	msgs := entryMessages(t, activePath(t, s))
	require.Len(t, msgs, 2)
	assert.True(t, strings.HasSuffix(msgs[0], formatter.TruncatedSuffix))
	assert.Contains(t, msgs[1], formatter.ParseFailure)
}

func TestEntryText(t *testing.T) {
	assert.Equal(t, " [INFO] [main.go L: 3]\tstarted", EntryText(LevelInfo, "main.go L: 3", "started"))
	assert.Equal(t, " [LEVEL(42)] [x]\ty", EntryText(42, "x", "y"))
}

func TestOutputCallDepth(t *testing.T) {
	s, _ := installTestSink(t)

	helper := func() { Output(2, LevelInfo, "from helper") }
	helper()

	msgs := entryMessages(t, activePath(t, s))
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "[logger_test.go L:")
	assert.Contains(t, msgs[0], "from helper")
}
