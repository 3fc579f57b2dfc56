package text

import (
	"regexp"
	"strings"
)

// tagPattern matches the start of an opening or closing tag such as "<p" or "</div".
var tagPattern = regexp.MustCompile(`</?[\p{L}\p{N}_]`)

// IsMarkup reports whether s looks like HTML. It is a cheap heuristic, not a
// grammar: a false positive only sends plain text through the markup parser,
// which hands the text back unchanged when there are no tags in it.
func IsMarkup(s string) bool {
	return strings.Contains(s, "<") &&
		strings.Contains(s, ">") &&
		tagPattern.MatchString(s)
}
