// FILE: lixenwraith/asynclog/utility_test.go
package asynclog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"fatal", LevelFatal, false},
		{"silent", LevelSilent, false},
		{"CRITICAL", LevelCritical, false},
		{"warn", LevelWarning, false},
		{"warning", LevelWarning, false},
		{" info ", LevelInfo, false},
		{"normal", LevelNormal, false},
		{"debug", LevelDebug, false},
		{"all", LevelAll, false},
		{"7", LevelDebug, false},
		{"0", 0, true},
		{"9", 0, true},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := Level(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, level)
			}
		})
	}
}

func TestLevelName(t *testing.T) {
	for lvl := LevelFatal; lvl <= LevelAll; lvl++ {
		name := LevelName(lvl)
		back, err := Level(name)
		require.NoError(t, err, name)
		assert.Equal(t, lvl, back)
		assert.Equal(t, strings.ToUpper(name), name)
	}
	assert.Equal(t, "LEVEL(0)", LevelName(0))
}

func TestParseKeyValue(t *testing.T) {
	key, value, err := parseKeyValue(" prefix = svc ")
	require.NoError(t, err)
	assert.Equal(t, "prefix", key)
	assert.Equal(t, "svc", value)

	key, value, err = parseKeyValue("date_format=2006-01-02=x")
	require.NoError(t, err)
	assert.Equal(t, "date_format", key)
	assert.Equal(t, "2006-01-02=x", value)

	_, _, err = parseKeyValue("novalue")
	assert.Error(t, err)

	_, _, err = parseKeyValue("=value")
	assert.Error(t, err)
}

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("failed: %w", ErrSinkClosed)
	assert.True(t, strings.HasPrefix(err.Error(), "asynclog: failed"))
	assert.ErrorIs(t, err, ErrSinkClosed)

	err = fmtErrorf("asynclog: already prefixed")
	assert.Equal(t, "asynclog: already prefixed", err.Error())
}

func TestCombineErrors(t *testing.T) {
	assert.NoError(t, combineErrors(nil, nil))

	a := errors.New("a")
	b := errors.New("b")
	combined := combineErrors(a, b)
	assert.ErrorIs(t, combined, a)
	assert.ErrorIs(t, combined, b)
}

func TestCombineConfigErrors(t *testing.T) {
	assert.NoError(t, combineConfigErrors(nil))

	single := errors.New("only")
	assert.Equal(t, single, combineConfigErrors([]error{single}))

	err := combineConfigErrors([]error{fmtErrorf("first"), fmtErrorf("second")})
	assert.Contains(t, err.Error(), "1. first")
	assert.Contains(t, err.Error(), "2. second")
}

func TestCallerInfo(t *testing.T) {
	file, line, function := callerInfo(0)
	assert.Equal(t, "utility_test.go", file)
	assert.Positive(t, line)
	assert.Contains(t, function, "TestCallerInfo")
}

func TestDiagnosticWriter(t *testing.T) {
	buf := &syncBuffer{}
	SetDiagnosticWriter(buf)
	t.Cleanup(func() { SetDiagnosticWriter(nil) })

	s, _ := createTestSink(t)
	s.diag = nil
	s.internalLog("disk on fire: %d\n", 7)
	assert.Equal(t, "asynclog: disk on fire: 7\n", buf.String())

	s.cfg.InternalErrorsToStderr = false
	s.internalLog("suppressed\n")
	assert.NotContains(t, buf.String(), "suppressed")
}
