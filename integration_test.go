// FILE: lixenwraith/asynclog/integration_test.go
package asynclog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestFullLifecycle(t *testing.T) {
	resetRegistry(t)
	tmpDir := t.TempDir()

	sink, err := NewBuilder().
		Directory(tmpDir).
		Prefix("life").
		LevelString("debug").
		RotateSizeKB(4).
		CatchSignals(false).
		WithOptions(WithTerminator(&recorder{})).
		Build()
	require.NoError(t, err, "Sink creation with builder should succeed")
	require.NoError(t, Install(sink))

	Debug("debug message")
	Info("info message")
	Warning("warning message")
	Critical("critical message")

	moved := filepath.Join(tmpDir, "moved")
	path, err := sink.ChangeFile(moved, "life", false).Get()
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		Logf(LevelInfo, "bulk entry %03d", i)
	}

	assert.True(t, Shutdown(), "Shutdown of the installed sink should succeed")
	assert.False(t, Shutdown())

	first := readFile(t, filepath.Join(tmpDir, "life.log"))
	assert.Contains(t, first, "debug message")
	assert.Contains(t, first, "critical message")
	assert.Contains(t, first, changingFileText+path)

	// Bulk entries are spread over the moved file and its rotations, in order
	var bulk []string
	var names []string
	for i := 10; i >= 1; i-- {
		names = append(names, fmt.Sprintf("life.%d.log", i))
	}
	names = append(names, "life.log")
	re := regexp.MustCompile(`bulk entry (\d{3})$`)
	for _, name := range names {
		p := filepath.Join(moved, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		for _, msg := range entryMessages(t, p) {
			if m := re.FindStringSubmatch(msg); m != nil {
				bulk = append(bulk, m[1])
			}
		}
	}
	require.Len(t, bulk, 50)
	for i, n := range bulk {
		assert.Equal(t, fmt.Sprintf("%03d", i), n)
	}
}

func TestConcurrentProducers(t *testing.T) {
	s, _ := installTestSink(t)

	const producers = 8
	const perProducer = 200

	var g errgroup.Group
	for p := 0; p < producers; p++ {
		g.Go(func() error {
			for i := 0; i < perProducer; i++ {
				Logf(LevelInfo, "producer=%d seq=%d", p, i)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	msgs := entryMessages(t, activePath(t, s))
	require.Len(t, msgs, producers*perProducer)

	// Entries of one producer keep their submission order
	re := regexp.MustCompile(`producer=(\d+) seq=(\d+)$`)
	next := make(map[int]int)
	for _, msg := range msgs {
		m := re.FindStringSubmatch(msg)
		require.NotNil(t, m, msg)
		p, _ := strconv.Atoi(m[1])
		seq, _ := strconv.Atoi(m[2])
		assert.Equal(t, next[p], seq, "producer %d out of order", p)
		next[p] = seq + 1
	}
	assert.Len(t, next, producers)
}

func TestProducersDuringChangeFile(t *testing.T) {
	s, _ := installTestSink(t)
	oldPath := activePath(t, s)
	newDir := t.TempDir()

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < 500; i++ {
			Info("racing entry")
		}
		return nil
	})
	g.Go(func() error {
		_, err := s.ChangeFile(newDir, "svc", false).Get()
		return err
	})
	require.NoError(t, g.Wait())

	newPath := activePath(t, s)
	racing := regexp.MustCompile(`racing entry$`)
	count := 0
	for _, p := range []string{oldPath, newPath} {
		for _, msg := range entryMessages(t, p) {
			if racing.MatchString(msg) {
				count++
			}
		}
	}
	assert.Equal(t, 500, count, "No entry is lost or duplicated across a file change")
}
