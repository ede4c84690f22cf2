// FILE: lixenwraith/asynclog/storage_test.go
package asynclog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bigEntry is large enough that two of them cross a 1 KB threshold
func bigEntry(tag string) LogEntry {
	return NewEntry(LevelInfo, tag+" "+strings.Repeat("r", 1500))
}

func listLogFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRotationRenumbersFiles(t *testing.T) {
	s, _ := createTestSink(t, func(c *Config) {
		c.RotateSizeKB = 1
		c.MaxRotatedFiles = 3
	})

	for i := 0; i < 10; i++ {
		s.Write(bigEntry("entry"))
	}
	path := activePath(t, s)
	dir := filepath.Dir(path)

	assert.Equal(t, "svc.log", filepath.Base(path))
	assert.FileExists(t, filepath.Join(dir, "svc.1.log"))
	assert.NoFileExists(t, filepath.Join(dir, "svc.4.log"), "Files past the retention limit must be removed")

	stats := s.Stats()
	assert.GreaterOrEqual(t, stats.Rotations, uint64(4))
	assert.GreaterOrEqual(t, stats.Deletions, uint64(1))
	assert.Equal(t, uint64(0), stats.WriteErrors)

	// Every rotated file points back at the one it replaced
	assert.Contains(t, readFile(t, path), previousFileText+filepath.Join(dir, "svc.1.log"))

	// Nothing is lost below the retention limit: the active file plus three numbered files
	assert.Len(t, listLogFiles(t, dir), 4)
}

func TestRotationDisabled(t *testing.T) {
	s, _ := createTestSink(t, func(c *Config) {
		c.RotateSizeKB = 1
		c.RotateLogs = false
	})

	for i := 0; i < 5; i++ {
		s.Write(bigEntry("entry"))
	}
	path := activePath(t, s)

	assert.Equal(t, []string{"svc.log"}, listLogFiles(t, filepath.Dir(path)))
	assert.Len(t, entryMessages(t, path), 5)
}

func TestRotationRetryLimit(t *testing.T) {
	var attempts atomic.Int32
	renameFile = func(string, string) error {
		attempts.Add(1)
		return errors.New("rename refused")
	}
	t.Cleanup(func() { renameFile = os.Rename })

	s, _ := createTestSink(t, func(c *Config) {
		c.RotateSizeKB = 1
		c.MaxRotateRetries = 3
	})

	for i := 0; i < 10; i++ {
		s.Write(bigEntry("entry"))
	}
	path := activePath(t, s)
	require.NoError(t, s.Close())

	assert.Equal(t, int32(3), attempts.Load(), "Rotation must stop after the retry limit")
	assert.Equal(t, uint64(0), s.Stats().Rotations)

	// Failed rotations fall back to the same file and keep every entry
	assert.Equal(t, "svc.log", filepath.Base(path))
	assert.Len(t, entryMessages(t, path), 10)
}

func TestRotationRetriesResetOnChangeFile(t *testing.T) {
	var refuse atomic.Bool
	refuse.Store(true)
	renameFile = func(from, to string) error {
		if refuse.Load() {
			return errors.New("rename refused")
		}
		return os.Rename(from, to)
	}
	t.Cleanup(func() { renameFile = os.Rename })

	s, _ := createTestSink(t, func(c *Config) {
		c.RotateSizeKB = 1
		c.MaxRotateRetries = 1
	})

	for i := 0; i < 4; i++ {
		s.Write(bigEntry("stuck"))
	}
	activePath(t, s)
	assert.Equal(t, uint64(0), s.Stats().Rotations)

	// An explicit change clears the exhausted counter
	refuse.Store(false)
	other := t.TempDir()
	_, err := s.ChangeFile(other, "svc", false).Get()
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		s.Write(bigEntry("moving"))
	}
	activePath(t, s)
	assert.FileExists(t, filepath.Join(other, "svc.1.log"))
	assert.GreaterOrEqual(t, s.Stats().Rotations, uint64(1))
}

func TestRotateOnStart(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "svc.log")
	require.NoError(t, os.WriteFile(existing, []byte("previous session\n"), 0644))

	s, _ := createTestSink(t, func(c *Config) {
		c.Directory = dir
		c.RotateOnStart = true
	})
	path := activePath(t, s)

	assert.Equal(t, existing, path)
	assert.Contains(t, readFile(t, filepath.Join(dir, "svc.1.log")), "previous session")
	assert.NotContains(t, readFile(t, path), "previous session")
	assert.Contains(t, readFile(t, path), previousFileText+filepath.Join(dir, "svc.1.log"))
}

func TestAppendToExistingFile(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "svc.log")
	require.NoError(t, os.WriteFile(existing, []byte("previous session\n"), 0644))

	s, _ := createTestSink(t, func(c *Config) { c.Directory = dir })
	s.Write(NewEntry(LevelInfo, "appended"))
	path := activePath(t, s)

	content := readFile(t, path)
	assert.True(t, strings.HasPrefix(content, "previous session\n"))
	assert.Contains(t, content, "appended")
	assert.GreaterOrEqual(t, s.Stats().CurrentSize, int64(len(content)))
}

func TestTimeBasedNames(t *testing.T) {
	s, _ := createTestSink(t, func(c *Config) {
		c.TimeBasedNames = true
		c.RotateSizeKB = 1
	})

	first := activePath(t, s)
	assert.Regexp(t, regexp.MustCompile(`svc\d{8}-\d{6}$`), first)

	s.Write(bigEntry("a"))
	s.Write(bigEntry("b"))
	second := activePath(t, s)

	assert.NotEqual(t, first, second)
	assert.Regexp(t, regexp.MustCompile(`svc\d{8}-\d{6}(\.\d+)?$`), second)
	assert.Len(t, listLogFiles(t, filepath.Dir(first)), 2)
	assert.Equal(t, uint64(1), s.Stats().Rotations)
}

func TestUniqueFileName(t *testing.T) {
	dir := t.TempDir()
	name, err := uniqueFileName(dir, "svc1")
	require.NoError(t, err)
	assert.Equal(t, "svc1", name)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "svc1"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "svc1.1"), nil, 0644))
	name, err = uniqueFileName(dir, "svc1")
	require.NoError(t, err)
	assert.Equal(t, "svc1.2", name)

	t.Run("stat failure ends the search", func(t *testing.T) {
		notDir := filepath.Join(dir, "svc1")
		_, err := uniqueFileName(notDir, "svc1")
		assert.Error(t, err)

		_, err = uniqueFileName(dir, strings.Repeat("n", 300))
		assert.Error(t, err)
	})
}

func TestTimeBasedRotationWithOverlongName(t *testing.T) {
	// The first name fits NAME_MAX exactly, every ".N" variant does not.
	// A year-only layout keeps the base name stable for the whole test.
	prefix := strings.Repeat("p", 251)
	s, _ := createTestSink(t, func(c *Config) {
		c.TimeBasedNames = true
		c.FileNameTimeFormat = "2006"
		c.RotateSizeKB = 1
		c.MaxRotateRetries = 2
		c.Prefix = prefix
	})
	first := activePath(t, s)
	require.Len(t, filepath.Base(first), 255)

	s.Write(bigEntry("a"))
	s.Write(bigEntry("b"))
	s.Write(bigEntry("c"))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	path, err := s.FileName().Wait(ctx)
	require.NoError(t, err, "The background goroutine must keep serving after a failed rotation")
	assert.Equal(t, first, path)

	assert.Len(t, entryMessages(t, path), 3)
	assert.Equal(t, uint64(0), s.Stats().Rotations)
	assert.NoError(t, s.Close())
}

func TestLogDirStats(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "svc.log"), make([]byte, 100), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "svc.1.log"), make([]byte, 50), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.log"), make([]byte, 10), 0644))

	size, count, err := logDirStats(dir, "svc")
	require.NoError(t, err)
	assert.Equal(t, int64(150), size)
	assert.Equal(t, 2, count)

	size, count, err = logDirStats(filepath.Join(dir, "missing"), "svc")
	require.NoError(t, err)
	assert.Zero(t, size)
	assert.Zero(t, count)
}
