package text

import (
	"regexp"
	"strings"
)

var (
	nbspReplacer = strings.NewReplacer("\u00a0", " ", "\u202f", " ")

	horizontalRun  = regexp.MustCompile(`[ \t]{2,}`)
	newlineMargins = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	blankLines     = regexp.MustCompile(`\n{3,}`)
)

// CollapseWhitespace is the last pass of the pipeline. A single tab between two
// words is not a run and survives; everything else collapses to one space.
func CollapseWhitespace(s string) string {
	s = nbspReplacer.Replace(s)
	s = horizontalRun.ReplaceAllString(s, " ")
	s = newlineMargins.ReplaceAllString(s, "\n")
	s = collapseBlankLines(s)
	return strings.TrimSpace(s)
}

// collapseBlankLines leaves at most one empty line between paragraphs.
func collapseBlankLines(s string) string {
	return blankLines.ReplaceAllString(s, "\n\n")
}
