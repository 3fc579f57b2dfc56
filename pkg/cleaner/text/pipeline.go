// Package text implements the content cleaning pipeline: it turns raw text or an
// HTML fragment into normalized plain text.
//
// The pipeline is a fixed sequence of pure passes and the order is load-bearing:
//
//  1. markup detection, and for markup, stripping to text (<br> becomes "\n")
//  2. decoding literal \uXXXX escapes, then dropping stray backslashes
//  3. deleting control characters, then the enumerated invisible characters
//  4. folding dash glyphs and spacing out tight hyphens
//  5. collapsing whitespace and blank lines
//
// Every function in this package is safe for concurrent use. The only state is
// read-only package data.
package text

import (
	"strings"
	"time"
)

// InputError reports input the pipeline refuses to clean.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Reason
}

// ErrInputMissing is returned by Clean when there is no input at all. An empty
// string is valid input and cleans to "".
var ErrInputMissing = &InputError{Reason: "no text provided"}

type stage struct {
	name string
	fn   func(string) string
}

// passes run on every input after the markup branch.
var passes = []stage{
	{"unescape", UnescapeUnicode},
	{"backslashes", DropSpuriousBackslashes},
	{"control", StripControl},
	{"invisible", StripInvisible},
	{"dashes", NormalizeDashes},
	{"whitespace", CollapseWhitespace},
}

// Clean runs the pipeline on raw. A nil raw means the caller had no text at all
// and fails with ErrInputMissing.
func Clean(raw *string) (string, error) {
	if raw == nil {
		return "", ErrInputMissing
	}
	return Normalize(*raw), nil
}

// Normalize runs the full pipeline on s. Identical input always yields identical
// output.
func Normalize(s string) string {
	return run(s, nil)
}

// run is the pipeline. result is optional and only collects metrics; it never
// changes the output.
func run(s string, result *Result) string {
	s = strings.ToValidUTF8(s, "\uFFFD")

	markup := IsMarkup(s)
	if result != nil {
		result.Stats.Markup = markup
	}
	if markup {
		start := time.Now()
		s = stripMarkup(s, result)
		if result != nil {
			result.Stats.recordStage("markup", time.Since(start))
		}
	}

	for _, p := range passes {
		start := time.Now()
		s = p.fn(s)
		if result != nil {
			result.Stats.recordStage(p.name, time.Since(start))
		}
	}
	return s
}

// Cleaner exposes the pipeline through the cleaner.Cleaner interface.
type Cleaner struct{}

// New creates a new pipeline cleaner.
func New() *Cleaner {
	return &Cleaner{}
}

// Name returns the cleaner name for logging.
func (c *Cleaner) Name() string {
	return "text"
}

// Clean runs the pipeline. It never fails for a string input.
func (c *Cleaner) Clean(content string) (string, error) {
	return Normalize(content), nil
}

// CleanWithStats runs the pipeline and returns the output with detailed stats.
func (c *Cleaner) CleanWithStats(content string) *Result {
	startTime := time.Now()
	result := &Result{
		Stats: NewStats(),
	}
	result.Stats.InputBytes = len(content)

	result.Content = run(content, result)

	result.Stats.OutputBytes = len(result.Content)
	result.Stats.TotalDuration = time.Since(startTime)
	return result
}
