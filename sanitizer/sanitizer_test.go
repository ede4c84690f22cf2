// FILE: lixenwraith/asynclog/sanitizer/sanitizer_test.go
package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizerPolicies(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		policy   PolicyPreset
		expected string
	}{
		{
			name:     "raw passes through",
			input:    "a b/c\x00",
			policy:   PolicyRaw,
			expected: "a b/c\x00",
		},
		{
			name:     "prefix strips whitespace and path punctuation",
			input:    " my app/v1.2:\\x\t",
			policy:   PolicyPrefix,
			expected: "myappv12x",
		},
		{
			name:     "prefix keeps other punctuation",
			input:    "svc|name",
			policy:   PolicyPrefix,
			expected: "svc|name",
		},
		{
			name:     "filename strips illegal set",
			input:    "a,b|c<d>e#f$g%h{i}j(k)l[m]n'o\"p^q!r?s+t*u v",
			policy:   PolicyFilename,
			expected: "abcdefghijklmnopqrstuv",
		},
		{
			name:     "display hex encodes non-printable",
			input:    "bell\x07end",
			policy:   PolicyDisplay,
			expected: "bell<07>end",
		},
		{
			name:     "display preserves UTF-8",
			input:    "日志 ✓",
			policy:   PolicyDisplay,
			expected: "日志 ✓",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := New().Policy(tc.policy)
			assert.Equal(t, tc.expected, s.Sanitize(tc.input))
		})
	}
}

func TestSanitizerRuleOrder(t *testing.T) {
	// Earlier rule wins when both match
	s := New().
		Rule(FilterControl, TransformHexEncode).
		Rule(FilterControl|FilterWhitespace, TransformStrip)
	assert.Equal(t, "a<0a>b", s.Sanitize("a\n b"))
}

func TestSanitizerBufferReuse(t *testing.T) {
	s := New().Policy(PolicyPrefix)
	first := s.Sanitize("one two")
	second := s.Sanitize("x")
	assert.Equal(t, "onetwo", first)
	assert.Equal(t, "x", second)
}

func TestValidPrefix(t *testing.T) {
	testCases := []struct {
		prefix string
		valid  bool
	}{
		{"svc", true},
		{"my_app-01", true},
		{"日志", true},
		{"", false},
		{"bad|name", false},
		{"bad name", false},
		{"a/b", false},
		{"what?", false},
		{"x*y", false},
		{"tab\there", false},
	}

	for _, tc := range testCases {
		t.Run(tc.prefix, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidPrefix(tc.prefix))
		})
	}
}

func TestFixPrefixThenValidate(t *testing.T) {
	assert.True(t, ValidPrefix(FixPrefix(" svc.log ")))
	assert.False(t, ValidPrefix(FixPrefix("...")))
	assert.False(t, ValidPrefix(FixPrefix("bad|name")))
}

func TestFixDirectory(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"/var/log/", "/var/log"},
		{"C:\\logs\\app\\", "C:/logs/app"},
		{"logs / ", "logs"},
		{"", "."},
		{"/", "/"},
		{"./logs", "./logs"},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, FixDirectory(tc.input))
		})
	}
}
