// FILE: lixenwraith/asynclog/sanitizer/sanitizer.go
// Package sanitizer provides a fluent, composable way to clean strings that
// become part of log file names and paths, using bitwise filter flags and transforms.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Filter flags for character matching
const (
	FilterNonPrintable    uint64 = 1 << iota // Matches runes not classified as printable by strconv.IsPrint
	FilterControl                            // Matches control characters (unicode.IsControl)
	FilterWhitespace                         // Matches whitespace characters (unicode.IsSpace)
	FilterPathSpecial                        // Matches '/', '\\', '.', ':'
	FilterFilenameIllegal                    // Matches the characters a log file prefix may not contain
)

// Transform flags for character transformation
const (
	TransformStrip     uint64 = 1 << iota // Removes the character
	TransformHexEncode                    // Encodes the character's UTF-8 bytes as "<XXYY>"
)

// illegalPrefixChars may never appear in a log file prefix
const illegalPrefixChars = "/,|<>:#$%{}()[]'\"^!?+* "

// PolicyPreset defines pre-configured sanitization policies
type PolicyPreset string

const (
	PolicyRaw      PolicyPreset = "raw"      // Passthrough
	PolicyPrefix   PolicyPreset = "prefix"   // Strips whitespace and path punctuation from a file prefix
	PolicyFilename PolicyPreset = "filename" // Strips anything a file prefix may not contain
	PolicyDisplay  PolicyPreset = "display"  // Hex-encodes non-printable runes for diagnostics
)

type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:      {},
	PolicyPrefix:   {{filter: FilterWhitespace | FilterPathSpecial, transform: TransformStrip}},
	PolicyFilename: {{filter: FilterFilenameIllegal | FilterControl, transform: TransformStrip}},
	PolicyDisplay:  {{filter: FilterNonPrintable, transform: TransformHexEncode}},
}

// filterCheckers maps individual filter flags to their check functions
var filterCheckers = map[uint64]func(rune) bool{
	FilterNonPrintable: func(r rune) bool { return !strconv.IsPrint(r) },
	FilterControl:      unicode.IsControl,
	FilterWhitespace:   unicode.IsSpace,
	FilterPathSpecial: func(r rune) bool {
		switch r {
		case '/', '\\', '.', ':':
			return true
		}
		return false
	},
	FilterFilenameIllegal: func(r rune) bool {
		return strings.ContainsRune(illegalPrefixChars, r)
	},
}

// Sanitizer provides chainable text sanitization.
// A Sanitizer reuses an internal buffer and is not safe for concurrent use.
type Sanitizer struct {
	rules []rule
	buf   []byte
}

// New creates a new Sanitizer instance
func New() *Sanitizer {
	return &Sanitizer{
		rules: []rule{},
		buf:   make([]byte, 0, 64),
	}
}

// Rule adds a custom rule (appended, earliest rule applies first)
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy appends the rules of a pre-configured policy
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	if rules, ok := policyRules[preset]; ok {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// Sanitize applies all configured rules to the input string
func (s *Sanitizer) Sanitize(data string) string {
	s.buf = s.buf[:0]

	for _, r := range data {
		matched := false
		// First matching rule wins
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				applyTransform(&s.buf, r, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			s.buf = utf8.AppendRune(s.buf, r)
		}
	}

	return string(s.buf)
}

// Matches reports whether any rune of data is caught by a configured filter
func (s *Sanitizer) Matches(data string) bool {
	for _, r := range data {
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				return true
			}
		}
	}
	return false
}

func matchesFilter(r rune, filterMask uint64) bool {
	for flag, checker := range filterCheckers {
		if (filterMask&flag) != 0 && checker(r) {
			return true
		}
	}
	return false
}

func applyTransform(buf *[]byte, r rune, transformMask uint64) {
	switch {
	case (transformMask & TransformStrip) != 0:
		// strip

	case (transformMask & TransformHexEncode) != 0:
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		*buf = append(*buf, '<')
		*buf = append(*buf, hex.EncodeToString(runeBytes[:n])...)
		*buf = append(*buf, '>')
	}
}

// FixPrefix removes whitespace and path punctuation from a log file prefix
func FixPrefix(prefix string) string {
	return New().Policy(PolicyPrefix).Sanitize(prefix)
}

// ValidPrefix reports whether prefix is non-empty and free of illegal characters
func ValidPrefix(prefix string) bool {
	if prefix == "" {
		return false
	}
	return !New().Rule(FilterFilenameIllegal|FilterControl, TransformStrip).Matches(prefix)
}

// FixDirectory unifies separators to '/' and trims trailing separators and spaces.
// An empty result becomes "." so the current directory is used.
func FixDirectory(dir string) string {
	unified := strings.ReplaceAll(dir, "\\", "/")
	dir = strings.TrimRight(unified, "/ ")
	if dir == "" {
		if strings.HasPrefix(unified, "/") {
			return "/"
		}
		return "."
	}
	return dir
}

// Display renders s safe for diagnostic output
func Display(s string) string {
	return New().Policy(PolicyDisplay).Sanitize(s)
}
