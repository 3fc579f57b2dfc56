package text

import "strings"

// StripControl deletes ASCII control characters and DEL. Tab, line feed and
// carriage return are kept.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if isStrippedControl(r) {
			return -1
		}
		return r
	}, s)
}

func isStrippedControl(r rune) bool {
	switch {
	case r <= 0x08:
		return true
	case r == 0x0B, r == 0x0C:
		return true
	case r >= 0x0E && r <= 0x1F:
		return true
	case r == 0x7F:
		return true
	}
	return false
}

// StripInvisible deletes the enumerated invisible characters. Nothing is put in
// their place: "a\u200bb" becomes "ab".
func StripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		if invisibleRunes[r] {
			return -1
		}
		return r
	}, s)
}
