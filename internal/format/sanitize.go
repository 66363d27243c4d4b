package format

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// maxNameLen is the longest sanitized display name the log embeds,
// counted in characters, not bytes.
const maxNameLen = 31

// sanitizer cleans player display names for text output and caches the
// result so repeated references to the same player are stable within one
// formatter instance.
type sanitizer struct {
	cache map[string]string
}

func newSanitizer() *sanitizer {
	return &sanitizer{cache: make(map[string]string)}
}

// clean NFC-normalizes the name, escapes backslashes before quotes (so
// escaping never doubles up), replaces non-printable runes with '_', and
// truncates to maxNameLen.
func (s *sanitizer) clean(name string) string {
	if out, ok := s.cache[name]; ok {
		return out
	}

	out := norm.NFC.String(name)
	out = strings.ReplaceAll(out, `\`, `\\`)
	out = strings.ReplaceAll(out, `"`, `\"`)

	var b strings.Builder
	b.Grow(len(out))
	for _, r := range out {
		if !unicode.IsPrint(r) {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	out = b.String()

	out = truncate(out, maxNameLen)

	s.cache[name] = out
	return out
}

// truncate keeps the first max runes.
func truncate(s string, max int) string {
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
