package format

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizer_EscapesQuotesAndBackslashes(t *testing.T) {
	s := newSanitizer()
	assert.Equal(t, `say \"hi\"`, s.clean(`say "hi"`))
	assert.Equal(t, `a\\b`, s.clean(`a\b`))
	// A pre-escaped quote must not double up.
	assert.Equal(t, `a\\\"b`, s.clean(`a\"b`))
}

func TestSanitizer_ReplacesNonPrintable(t *testing.T) {
	s := newSanitizer()
	assert.Equal(t, "ab_cd", s.clean("ab\x00cd"))
	assert.Equal(t, "x_y", s.clean("x\ty"))
	assert.Equal(t, "new_line", s.clean("new\nline"))
}

func TestSanitizer_TruncatesToCharacterCount(t *testing.T) {
	s := newSanitizer()

	long := strings.Repeat("a", 40)
	assert.Len(t, s.clean(long), maxNameLen)

	// The limit counts characters, not bytes: a name of 40 two-byte runes
	// keeps its first 31 runes whole, even though that is more than 31
	// bytes on the wire.
	wide := strings.Repeat("é", 40)
	out := s.clean(wide)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, maxNameLen, utf8.RuneCountInString(out))
	assert.Equal(t, strings.Repeat("é", maxNameLen), out)

	// A name at the limit passes through untouched.
	exact := strings.Repeat("é", maxNameLen)
	assert.Equal(t, exact, s.clean(exact))
}

func TestSanitizer_NormalizesNFC(t *testing.T) {
	s := newSanitizer()
	// "e" + combining acute composes to the single precomposed rune.
	assert.Equal(t, "caf\u00e9", s.clean("cafe\u0301"))
}

func TestSanitizer_CacheIsStable(t *testing.T) {
	s := newSanitizer()
	first := s.clean(`weird"name`)
	second := s.clean(`weird"name`)
	assert.Equal(t, first, second)
	assert.Len(t, s.cache, 1)
}
