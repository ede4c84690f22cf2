// FILE: lixenwraith/asynclog/compat/structured_gnet.go
package compat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lixenwraith/asynclog"
	"github.com/lixenwraith/asynclog/formatter"
)

// keyValuePattern detects "key=%v" or "key: %v" pairs in a format string
var keyValuePattern = regexp.MustCompile(`(\w+)\s*[:=]\s*%[vsdqxXeEfFgGpbcU]`)

// field is one key/value pair extracted from a printf-style call
type field struct {
	key   string
	value any
}

// parseFormat splits a printf-style call into a leading text and structured fields.
// Calls that do not follow the key=%v pattern come back as plain text.
func parseFormat(format string, args []any) (string, []field) {
	matches := keyValuePattern.FindAllStringSubmatchIndex(format, -1)
	if len(matches) == 0 || len(matches) > len(args) || strings.Count(format, "%")-strings.Count(format, "%%")*2 != len(args) {
		return formatter.Sprintf(format, args...), nil
	}

	var text string
	if prefix := strings.TrimSpace(format[:matches[0][0]]); prefix != "" {
		text = prefix
	}

	fields := make([]field, 0, len(matches))
	for i, match := range matches {
		fields = append(fields, field{key: format[match[2]:match[3]], value: args[i]})
	}

	// Verbs after the last pair are folded into the text
	if rest := format[matches[len(matches)-1][1]:]; len(args) > len(matches) {
		tail := strings.TrimSpace(fmt.Sprintf(rest, args[len(matches):]...))
		if tail != "" {
			text = strings.TrimSpace(text + " " + tail)
		}
	}

	return text, fields
}

// renderFields lays out text followed by key=value pairs in call order
func renderFields(text string, fields []field) string {
	buf := make([]byte, 0, len(text)+16*len(fields))
	buf = append(buf, text...)
	for _, f := range fields {
		if len(buf) > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, f.key...)
		buf = append(buf, '=')
		buf = formatter.AppendValue(buf, f.value)
	}
	return formatter.Truncate(string(buf), formatter.MaxMessageSize)
}

// StructuredGnetAdapter normalizes gnet messages to "text key=value ..." entries
type StructuredGnetAdapter struct {
	*GnetAdapter
	extractFields bool
}

// NewStructuredGnetAdapter creates a gnet adapter with structured field extraction
func NewStructuredGnetAdapter(sink *asynclog.Sink, opts ...GnetOption) *StructuredGnetAdapter {
	return &StructuredGnetAdapter{
		GnetAdapter:   NewGnetAdapter(sink, opts...),
		extractFields: true,
	}
}

// Debugf logs with structured field extraction
func (a *StructuredGnetAdapter) Debugf(format string, args ...any) {
	a.structuredf(asynclog.LevelDebug, format, args...)
}

// Infof logs with structured field extraction
func (a *StructuredGnetAdapter) Infof(format string, args ...any) {
	a.structuredf(asynclog.LevelInfo, format, args...)
}

// Warnf logs with structured field extraction
func (a *StructuredGnetAdapter) Warnf(format string, args ...any) {
	a.structuredf(asynclog.LevelWarning, format, args...)
}

// Errorf logs with structured field extraction
func (a *StructuredGnetAdapter) Errorf(format string, args ...any) {
	a.structuredf(asynclog.LevelCritical, format, args...)
}

func (a *StructuredGnetAdapter) structuredf(level int64, format string, args ...any) {
	if !a.extractFields {
		a.GnetAdapter.logf(level, format, args...)
		return
	}
	if !asynclog.Enabled(level) {
		return
	}
	text, fields := parseFormat(format, args)
	emit(a.sink, level, sourceGnet, renderFields(text, fields))
}
