package text

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func ptr(s string) *string { return &s }

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"html paragraph", "<p>Hello&nbsp;&nbsp;world<br><br>end</p>", "Hello world\n\nend"},
		{"dashes", "state-of-the-art \u2014 really", "state - of - the - art - really"},
		{"literal escape decoded then deleted", `a\u200bb`, "ab"},
		{"invisible deleted", "a\u200bb", "ab"},
		{"tab and newline preserved", "a\tb\nc", "a\tb\nc"},
		{"control characters deleted", "a\x00b\x1bc", "abc"},
		{"stray backslash", `set \width to 3`, "set width to 3"},
		{"escape after markup", `<p>caf\u00e9</p>`, "caf\u00e9"},
		{"double hyphen collapses", "a--b", "a - - b"},
		{"blank lines capped", "one\n\n\n\n\ntwo", "one\n\ntwo"},
		{"word paste", `<p class="MsoNormal">Hi<o:p></o:p></p><p class="MsoNormal"><o:p>&nbsp;</o:p></p>`, "Hi"},
		{"invalid utf8 replaced", "a\xffb", "a\uFFFDb"},
		{"crlf kept in plain text", "a\r\nb", "a\r\nb"},
		{"crlf in markup becomes lf", "<p>a\r\nb</p>", "a\nb"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Clean(ptr(tt.input))
			if err != nil {
				t.Fatalf("Clean() error = %v, want nil", err)
			}
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClean_MissingInput(t *testing.T) {
	got, err := Clean(nil)
	if !errors.Is(err, ErrInputMissing) {
		t.Fatalf("Clean(nil) error = %v, want ErrInputMissing", err)
	}
	if got != "" {
		t.Errorf("Clean(nil) = %q, want empty", got)
	}

	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected *InputError, got %T", err)
	}
	if !strings.Contains(inputErr.Error(), "no text provided") {
		t.Errorf("unexpected error message: %q", inputErr.Error())
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	corpus := []string{
		"<p>Hello&nbsp;&nbsp;world<br><br>end</p>",
		"state-of-the-art \u2014 really",
		"  messy \t\t text \n\n\n\n more  ",
		"zero\u200bwidth and \ufeffBOM",
		`literal \u200b escape and \width`,
		"<div><span>a</span> <b>b</b></div>",
		"<ul><li>one</li><li>two</li></ul>",
		"2020\u20132021 season",
		"a--b",
		"plain sentence.",
	}

	for _, input := range corpus {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	input := `<div style="x"><p>Déjà vu \u2014 again&nbsp;<br>and <span>again</span></p></div>`
	want := Normalize(input)
	for i := 0; i < 10; i++ {
		if got := Normalize(input); got != want {
			t.Fatalf("run %d: got %q, want %q", i, got, want)
		}
	}
}

func TestNormalize_Concurrent(t *testing.T) {
	inputs := []string{
		"<p>one<br>two</p>",
		"tight-hyphen",
		"a\u200bb",
		"plain",
	}
	want := make([]string, len(inputs))
	for i, in := range inputs {
		want[i] = Normalize(in)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, in := range inputs {
				if got := Normalize(in); got != want[i] {
					t.Errorf("concurrent Normalize(%q) = %q, want %q", in, got, want[i])
				}
			}
		}()
	}
	wg.Wait()
}

func TestCleaner(t *testing.T) {
	c := New()
	if c.Name() != "text" {
		t.Errorf("expected name 'text', got '%s'", c.Name())
	}

	got, err := c.Clean("a\u200bb")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != "ab" {
		t.Errorf("Clean() = %q, want %q", got, "ab")
	}
}

func TestCleanWithStats(t *testing.T) {
	t.Run("markup input", func(t *testing.T) {
		input := "<p>Hello<br>world</p><script>x()</script>"
		result := New().CleanWithStats(input)

		if result.Content != "Hello\n\nworld" {
			t.Errorf("Content = %q, want %q", result.Content, "Hello\n\nworld")
		}
		if !result.Stats.Markup {
			t.Error("expected markup to be detected")
		}
		if result.Stats.InputBytes != len(input) {
			t.Errorf("InputBytes = %d, want %d", result.Stats.InputBytes, len(input))
		}
		if result.Stats.OutputBytes != len(result.Content) {
			t.Errorf("OutputBytes = %d, want %d", result.Stats.OutputBytes, len(result.Content))
		}
		if len(result.Stats.Stages) != 7 {
			t.Errorf("expected 7 stage timings, got %d", len(result.Stats.Stages))
		}
		if result.Stats.Stages[0].Stage != "markup" {
			t.Errorf("first stage = %q, want markup", result.Stats.Stages[0].Stage)
		}
		if result.HasWarnings() {
			t.Errorf("unexpected warnings: %v", result.Warnings)
		}
	})

	t.Run("plain input", func(t *testing.T) {
		result := New().CleanWithStats("plain  text")

		if result.Content != "plain text" {
			t.Errorf("Content = %q, want %q", result.Content, "plain text")
		}
		if result.Stats.Markup {
			t.Error("expected no markup")
		}
		if len(result.Stats.Stages) != 6 {
			t.Errorf("expected 6 stage timings, got %d", len(result.Stats.Stages))
		}
		if !strings.Contains(result.Stats.String(), "Markup: none detected") {
			t.Errorf("unexpected stats summary: %s", result.Stats.String())
		}
	})

	t.Run("stats agree with plain output", func(t *testing.T) {
		input := `<div class="a">x<br>y</div>`
		if got := New().CleanWithStats(input).Content; got != Normalize(input) {
			t.Errorf("CleanWithStats content %q differs from Normalize %q", got, Normalize(input))
		}
	})
}
