// FILE: lixenwraith/asynclog/compat/compat.go
// Package compat adapts asynclog sinks to the logger interfaces of gnet, fasthttp and zap.
package compat

import (
	"github.com/lixenwraith/asynclog"
)

// Source tags placed where front-end calls put the caller location
const (
	sourceGnet     = "gnet"
	sourceFastHTTP = "fasthttp"
	sourceZap      = "zap"
)

// emit queues one entry in the layout of the package-level front-end calls
func emit(s *asynclog.Sink, level int64, source, msg string) {
	s.Write(asynclog.NewEntry(level, asynclog.EntryText(level, source, msg)))
}
