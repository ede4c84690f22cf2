// FILE: lixenwraith/asynclog/builder_test.go
package asynclog

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	t.Run("successful build returns configured sink", func(t *testing.T) {
		resetRegistry(t)
		tmpDir := t.TempDir()
		rec := &recorder{}

		sink, err := NewBuilder().
			Directory(tmpDir).
			Prefix("built").
			LevelString("debug").
			RotateSizeKB(2048).
			MaxRotatedFiles(4).
			Product("builder-test", "1.2.3").
			CatchSignals(false).
			WithOptions(WithTerminator(rec), WithDiagnostics(io.Discard)).
			Build()
		require.NoError(t, err, "Builder.Build() should not return an error on valid config")
		require.NotNil(t, sink)
		defer sink.Close()

		cfg := sink.Config()
		assert.Equal(t, tmpDir, cfg.Directory)
		assert.Equal(t, LevelDebug, cfg.Level)
		assert.Equal(t, int64(2048), cfg.RotateSizeKB)
		assert.Equal(t, int64(4), cfg.MaxRotatedFiles)
		assert.False(t, cfg.CatchSignals)

		path := activePath(t, sink)
		assert.Equal(t, filepath.Join(tmpDir, "built.log"), path)
		assert.Contains(t, readFile(t, path), "Product: builder-test 1.2.3")
		assert.False(t, Initialized(), "Build does not install the sink")
	})

	t.Run("builder error accumulation", func(t *testing.T) {
		sink, err := NewBuilder().
			LevelString("invalid-level-string").
			Directory("/some/dir").
			Build()

		require.Error(t, err, "Build should fail with an invalid level string")
		assert.Contains(t, err.Error(), "invalid level string")
		assert.Nil(t, sink)
	})

	t.Run("override errors surface on build", func(t *testing.T) {
		_, err := NewBuilder().
			Override("rotate_size_kb=huge").
			Build()
		assert.Error(t, err)
	})

	t.Run("invalid prefix", func(t *testing.T) {
		sink, err := NewBuilder().
			Directory(t.TempDir()).
			Prefix("a?b").
			Build()
		assert.ErrorIs(t, err, ErrInvalidPrefix)
		assert.Nil(t, sink)
	})
}

func TestBuilder_Config(t *testing.T) {
	cfg, err := NewBuilder().
		Level(LevelWarning).
		DateFormat("02.01.2006").
		TimeFormat("15:04:05.000").
		TimeBasedNames(true).
		RotateLogs(false).
		HeartbeatIntervalS(60).
		Override("max_rotate_retries=2").
		Config()
	require.NoError(t, err)

	assert.Equal(t, LevelWarning, cfg.Level)
	assert.Equal(t, "02.01.2006", cfg.DateFormat)
	assert.Equal(t, "15:04:05.000", cfg.TimeFormat)
	assert.True(t, cfg.TimeBasedNames)
	assert.False(t, cfg.RotateLogs)
	assert.Equal(t, int64(60), cfg.HeartbeatIntervalS)
	assert.Equal(t, int64(2), cfg.MaxRotateRetries)
}
