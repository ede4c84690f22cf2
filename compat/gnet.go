// FILE: lixenwraith/asynclog/compat/gnet.go
package compat

import (
	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/asynclog"
	"github.com/lixenwraith/asynclog/formatter"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter routes gnet's engine logs into an asynclog sink
type GnetAdapter struct {
	sink         *asynclog.Sink
	fatalHandler func(msg string) // Replaces the sink's fatal protocol when set
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(sink *asynclog.Sink, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		sink: sink,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler.
// Without one, Fatalf runs the sink's fatal protocol and does not return.
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logf(asynclog.LevelDebug, format, args...)
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logf(asynclog.LevelInfo, format, args...)
}

// Warnf logs at warning level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.logf(asynclog.LevelWarning, format, args...)
}

// Errorf logs at critical level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.logf(asynclog.LevelCritical, format, args...)
}

// Fatalf persists the message and terminates through the sink's fatal protocol
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := formatter.Sprintf(format, args...)
	if a.fatalHandler != nil {
		emit(a.sink, asynclog.LevelCritical, sourceGnet, msg)
		_ = a.sink.Sync()
		a.fatalHandler(msg)
		return
	}
	a.sink.TriggerFatal(asynclog.NewFatalMessage(asynclog.EntryText(asynclog.LevelFatal, sourceGnet, msg)))
}

func (a *GnetAdapter) logf(level int64, format string, args ...any) {
	if !asynclog.Enabled(level) {
		return
	}
	emit(a.sink, level, sourceGnet, formatter.Sprintf(format, args...))
}
