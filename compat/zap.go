// FILE: lixenwraith/asynclog/compat/zap.go
package compat

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/asynclog"
)

// zapCore is a zapcore.Core writing each zap entry as one sink entry.
// Time, pid and level come from the sink's own line layout.
type zapCore struct {
	zapcore.LevelEnabler
	sink *asynclog.Sink
	enc  zapcore.Encoder
}

// zapEncoderConfig keeps only the logger name, message and fields
var zapEncoderConfig = zapcore.EncoderConfig{
	NameKey:          "logger",
	MessageKey:       "msg",
	StacktraceKey:    "stacktrace",
	LineEnding:       zapcore.DefaultLineEnding,
	EncodeDuration:   zapcore.StringDurationEncoder,
	EncodeName:       zapcore.FullNameEncoder,
	ConsoleSeparator: " ",
}

// NewZapCore creates a core that feeds sink. enab filters before the process-wide threshold does.
func NewZapCore(sink *asynclog.Sink, enab zapcore.LevelEnabler) zapcore.Core {
	return &zapCore{
		LevelEnabler: enab,
		sink:         sink,
		enc:          zapcore.NewConsoleEncoder(zapEncoderConfig),
	}
}

// NewZapLogger wraps NewZapCore in a logger that records callers
func NewZapLogger(sink *asynclog.Sink, opts ...zap.Option) *zap.Logger {
	opts = append([]zap.Option{zap.AddCaller()}, opts...)
	return zap.New(NewZapCore(sink, zapcore.DebugLevel), opts...)
}

func (c *zapCore) With(fields []zapcore.Field) zapcore.Core {
	enc := c.enc.Clone()
	for _, f := range fields {
		f.AddTo(enc)
	}
	return &zapCore{LevelEnabler: c.LevelEnabler, sink: c.sink, enc: enc}
}

func (c *zapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}
	if level := ZapLevel(ent.Level); level != asynclog.LevelFatal && !asynclog.Enabled(level) {
		return ce
	}
	return ce.AddCore(ent, c)
}

// Write encodes the entry. A fatal entry runs the sink's fatal protocol.
func (c *zapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	msg := strings.TrimSuffix(buf.String(), zapcore.DefaultLineEnding)
	buf.Free()

	where := sourceZap
	if ent.Caller.Defined {
		where = ent.Caller.TrimmedPath()
	}

	level := ZapLevel(ent.Level)
	if level == asynclog.LevelFatal {
		c.sink.TriggerFatal(asynclog.NewFatalMessage(asynclog.EntryText(level, where, msg)))
		return nil
	}
	emit(c.sink, level, where, msg)
	return nil
}

// Sync waits until everything queued so far is on stable storage
func (c *zapCore) Sync() error {
	return c.sink.Sync()
}

// ZapLevel maps a zap level onto the sink's severity scale
func ZapLevel(l zapcore.Level) int64 {
	switch {
	case l <= zapcore.DebugLevel:
		return asynclog.LevelDebug
	case l == zapcore.InfoLevel:
		return asynclog.LevelInfo
	case l == zapcore.WarnLevel:
		return asynclog.LevelWarning
	case l < zapcore.FatalLevel:
		return asynclog.LevelCritical
	default:
		return asynclog.LevelFatal
	}
}
