package text

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats captures metrics about a single pipeline run.
type Stats struct {
	// Size metrics
	InputBytes  int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int `json:"output_bytes" yaml:"output_bytes"`

	// Markup is true when the input was routed through the markup stripper.
	Markup bool `json:"markup" yaml:"markup"`

	// Markup stripper counters
	ElementsRemoved   map[string]int `json:"elements_removed" yaml:"elements_removed"` // tag -> count
	ElementsUnwrapped int            `json:"elements_unwrapped" yaml:"elements_unwrapped"`
	AttributesRemoved int            `json:"attributes_removed" yaml:"attributes_removed"`
	EmptyParagraphs   int            `json:"empty_paragraphs" yaml:"empty_paragraphs"`
	LineBreaks        int            `json:"line_breaks" yaml:"line_breaks"`

	// Timing, in pipeline order
	Stages        []StageTiming `json:"stages" yaml:"stages"`
	TotalDuration time.Duration `json:"total_duration_ns" yaml:"total_duration_ns"`
}

// StageTiming records how long one pipeline stage took.
type StageTiming struct {
	Stage    string        `json:"stage" yaml:"stage"`
	Duration time.Duration `json:"duration_ns" yaml:"duration_ns"`
}

// NewStats creates a new Stats instance with initialized maps.
func NewStats() *Stats {
	return &Stats{
		ElementsRemoved: make(map[string]int),
	}
}

// ReductionPercent returns the percentage reduction in size.
func (s *Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// TotalElementsRemoved returns the sum of all removed elements.
func (s *Stats) TotalElementsRemoved() int {
	total := 0
	for _, count := range s.ElementsRemoved {
		total += count
	}
	return total
}

// RecordRemoval records that an element was removed.
func (s *Stats) RecordRemoval(tag string) {
	s.ElementsRemoved[strings.ToLower(tag)]++
}

func (s *Stats) recordStage(stage string, d time.Duration) {
	s.Stages = append(s.Stages, StageTiming{Stage: stage, Duration: d})
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Size: %s -> %s (%.1f%% reduction)\n",
		humanize.Bytes(uint64(s.InputBytes)), humanize.Bytes(uint64(s.OutputBytes)), s.ReductionPercent()))

	if s.Markup {
		sb.WriteString(fmt.Sprintf("Markup: %d elements removed, %d unwrapped, %d empty paragraphs, %d line breaks\n",
			s.TotalElementsRemoved(), s.ElementsUnwrapped, s.EmptyParagraphs, s.LineBreaks))

		if len(s.ElementsRemoved) > 0 {
			tags := make([]string, 0, len(s.ElementsRemoved))
			for tag := range s.ElementsRemoved {
				tags = append(tags, tag)
			}
			sort.Strings(tags)

			parts := make([]string, 0, len(tags))
			for _, tag := range tags {
				parts = append(parts, fmt.Sprintf("%s=%d", tag, s.ElementsRemoved[tag]))
			}
			sb.WriteString("Removed by tag: ")
			sb.WriteString(strings.Join(parts, ", "))
			sb.WriteString("\n")
		}

		if s.AttributesRemoved > 0 {
			sb.WriteString(fmt.Sprintf("Attributes removed: %d\n", s.AttributesRemoved))
		}
	} else {
		sb.WriteString("Markup: none detected\n")
	}

	timings := make([]string, 0, len(s.Stages))
	for _, st := range s.Stages {
		timings = append(timings, fmt.Sprintf("%s=%v", st.Stage, st.Duration))
	}
	sb.WriteString(fmt.Sprintf("Timing: %s, total=%v\n", strings.Join(timings, ", "), s.TotalDuration))

	return sb.String()
}

// Warning represents a non-fatal issue encountered during cleaning.
type Warning struct {
	Phase   string `json:"phase" yaml:"phase"`
	Message string `json:"message" yaml:"message"`
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}

// String returns a formatted warning message.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Phase, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Phase, w.Message)
}

// Result contains the output of a cleaning run.
type Result struct {
	// Content is the cleaned text.
	Content string `json:"content" yaml:"content"`

	// Stats contains metrics about what was done.
	Stats *Stats `json:"stats" yaml:"stats"`

	// Warnings contains non-fatal issues encountered.
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// AddWarning adds a warning to the result.
func (r *Result) AddWarning(phase, message, context string) {
	r.Warnings = append(r.Warnings, Warning{
		Phase:   phase,
		Message: message,
		Context: context,
	})
}

// HasWarnings returns true if any warnings were recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
