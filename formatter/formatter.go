// FILE: lixenwraith/asynclog/formatter/formatter.go
// Package formatter composes log messages and lays out persisted lines.
package formatter

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
	"github.com/valyala/bytebufferpool"
)

// Message composition limits
const (
	MaxMessageSize  = 4096
	TruncatedSuffix = "[...truncated...]"
	ParseFailure    = "ERROR LOG MSG NOTIFICATION: Failure to parse the message"
)

// Default layouts for the date and time columns
const (
	DefaultDateFormat = "2006/01/02"
	DefaultTimeFormat = "15:04:05"
)

var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Formatter lays out persisted lines.
// It holds no mutable state and is safe for concurrent use.
type Formatter struct {
	dateFormat string
	timeFormat string
}

// New creates a formatter with the default date and time layouts
func New() *Formatter {
	return &Formatter{
		dateFormat: DefaultDateFormat,
		timeFormat: DefaultTimeFormat,
	}
}

// DateFormat sets the layout of the date column
func (f *Formatter) DateFormat(layout string) *Formatter {
	if layout != "" {
		f.dateFormat = layout
	}
	return f
}

// TimeFormat sets the layout of the time column
func (f *Formatter) TimeFormat(layout string) *Formatter {
	if layout != "" {
		f.timeFormat = layout
	}
	return f
}

// AppendLine appends one persisted line to buf:
// "\n<date> <time> <micros> <pid>  <message>"
func (f *Formatter) AppendLine(buf []byte, ts time.Time, micros int64, pid int, msg string) []byte {
	buf = append(buf, '\n')
	buf = ts.AppendFormat(buf, f.dateFormat)
	buf = append(buf, ' ')
	buf = ts.AppendFormat(buf, f.timeFormat)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, micros, 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(pid), 10)
	buf = append(buf, ' ', ' ')
	buf = append(buf, msg...)
	return buf
}

// WriteLine formats one line into a pooled buffer and writes it to w in a single call
func (f *Formatter) WriteLine(w io.Writer, ts time.Time, micros int64, pid int, msg string) (int, error) {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	bb.B = f.AppendLine(bb.B, ts, micros, pid, msg)
	return w.Write(bb.B)
}

// WriteRaw writes text unchanged through a pooled buffer
func WriteRaw(w io.Writer, text string) (int, error) {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	_, _ = bb.WriteString(text)
	return w.Write(bb.B)
}

// Sprintf composes a printf-style message.
// Output longer than MaxMessageSize is cut and suffixed with TruncatedSuffix.
// Verb and argument mismatches are reported with ParseFailure in front of fmt's own diagnostics.
func Sprintf(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if strings.Contains(msg, "%!") && !strings.Contains(format, "%!") {
		msg = ParseFailure + ": " + msg
	}
	return Truncate(msg, MaxMessageSize)
}

// Truncate cuts msg to at most limit bytes on a rune boundary and appends TruncatedSuffix
func Truncate(msg string, limit int) string {
	if len(msg) <= limit {
		return msg
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut] + TruncatedSuffix
}

// Sprint composes a stream-style message from its operands, separated by single spaces.
// Non-primitive operands are dumped.
func Sprint(args ...any) string {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	for i, arg := range args {
		if i > 0 {
			bb.B = append(bb.B, ' ')
		}
		bb.B = AppendValue(bb.B, arg)
	}
	return string(bb.B)
}

// AppendValue appends the textual form of a single value
func AppendValue(buf []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return append(buf, val...)
	case []byte:
		return append(buf, val...)
	case rune:
		return utf8.AppendRune(buf, val)
	case int:
		return strconv.AppendInt(buf, int64(val), 10)
	case int64:
		return strconv.AppendInt(buf, val, 10)
	case uint:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(buf, val, 10)
	case float32:
		return strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(buf, val)
	case nil:
		return append(buf, "nil"...)
	case time.Time:
		return val.AppendFormat(buf, time.RFC3339Nano)
	case time.Duration:
		return append(buf, val.String()...)
	case error:
		return append(buf, val.Error()...)
	case fmt.Stringer:
		return append(buf, val.String()...)
	default:
		return append(buf, Dump(val)...)
	}
}

// Dump renders a composite value on one line
func Dump(v any) string {
	var b bytes.Buffer
	dumper.Fdump(&b, v)
	fields := strings.Fields(b.String())
	return strings.Join(fields, " ")
}
