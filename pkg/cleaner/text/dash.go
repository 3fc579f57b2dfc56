package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeDashes folds dash glyphs to "-" and then spaces out every hyphen that
// sits between two non-space characters, so "state-of-the-art" becomes
// "state - of - the - art". Neighbours are judged on the folded string before any
// spacing is inserted, which means "a--b" turns into "a -  - b".
//
// This is deliberately lossy: compound words and tokens like "x-men" are split too.
func NormalizeDashes(s string) string {
	s = strings.Map(func(r rune) rune {
		if dashRunes[r] {
			return '-'
		}
		return r
	}, s)

	if strings.IndexByte(s, '-') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for i := 0; i < len(s); i++ {
		if s[i] == '-' && tightHyphen(s, i) {
			b.WriteString(" - ")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// tightHyphen reports whether the hyphen at byte offset i has a non-space rune on
// both sides.
func tightHyphen(s string, i int) bool {
	if i == 0 || i == len(s)-1 {
		return false
	}
	before, _ := utf8.DecodeLastRuneInString(s[:i])
	after, _ := utf8.DecodeRuneInString(s[i+1:])
	return !unicode.IsSpace(before) && !unicode.IsSpace(after)
}
