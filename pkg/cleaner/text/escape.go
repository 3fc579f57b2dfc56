package text

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var unicodeEscape = regexp.MustCompile(`\\u([0-9a-fA-F]{4})`)

// UnescapeUnicode decodes literal "\uXXXX" sequences left behind by a JSON encode
// that was never decoded. Code points that cannot live in a Go string (lone
// surrogates) become U+FFFD.
func UnescapeUnicode(s string) string {
	if !strings.Contains(s, `\u`) {
		return s
	}
	return unicodeEscape.ReplaceAllStringFunc(s, func(m string) string {
		cp, err := strconv.ParseUint(m[2:], 16, 32)
		if err != nil {
			return m
		}
		r := rune(cp)
		if !utf8.ValidRune(r) {
			return string(utf8.RuneError)
		}
		return string(r)
	})
}

// DropSpuriousBackslashes removes every backslash that does not start a JSON
// escape (", \, /, b, f, n, r, t, u). The check looks at the next byte without
// consuming it, so in `\\x` the first backslash stays and the second one goes.
// A trailing backslash is always dropped.
func DropSpuriousBackslashes(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && (i+1 == len(s) || !escapeIntroducers[s[i+1]]) {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
