package text

import "testing"

func TestIsMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"paragraph", "<p>hi</p>", true},
		{"closing tag only", "text</div>", true},
		{"unclosed tag", "<br", false},
		{"comparison operators", "a < b > c", false},
		{"no closing bracket", "x <y", false},
		{"digit after bracket", "<3 you >", true},
		{"non-latin tag name", "<título>x", true},
		{"empty", "", false},
		{"plain text", "hello world", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMarkup(tt.input); got != tt.want {
				t.Errorf("IsMarkup(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestUnescapeUnicode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"zero width space", `a\u200bb`, "a\u200bb"},
		{"uppercase hex", `caf\u00E9`, "café"},
		{"mixed case hex", `\u00e9\u00C9`, "éÉ"},
		{"too few digits", `\u12 x`, `\u12 x`},
		{"surrogate", `\uD800`, "\uFFFD"},
		{"escaped backslash before u", `\\u0041`, `\A`},
		{"no escapes", "plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnescapeUnicode(tt.input); got != tt.want {
				t.Errorf("UnescapeUnicode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDropSpuriousBackslashes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"latex command", `\width`, "width"},
		{"newline escape kept", `a\nb`, `a\nb`},
		{"quote escape kept", `say \"hi\"`, `say \"hi\"`},
		{"slash escape kept", `a\/b`, `a\/b`},
		{"unicode escape kept", `\u12`, `\u12`},
		{"trailing backslash", `end\`, "end"},
		{"lone backslash", `\`, ""},
		{"double backslash keeps the first", `\\`, `\`},
		{"lookahead does not consume", `\\x`, `\x`},
		{"uppercase is not an escape", `C:\Users\x`, "C:Usersx"},
		{"multibyte follower", `\é`, "é"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DropSpuriousBackslashes(tt.input); got != tt.want {
				t.Errorf("DropSpuriousBackslashes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripControl(t *testing.T) {
	input := "a\x00b\x08c\x0bd\x0ce\x1ff\x7fg\th\ni\rj"
	want := "abcdefg\th\ni\rj"
	if got := StripControl(input); got != want {
		t.Errorf("StripControl() = %q, want %q", got, want)
	}
}

func TestStripInvisible(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"zero width space is deleted not replaced", "a\u200bb", "ab"},
		{"byte order mark", "\ufeffhello", "hello"},
		{"soft hyphen", "co\u00adoperate", "cooperate"},
		{"directional marks", "\u200eleft\u200f", "left"},
		{"curly quotes", "\u201cquoted\u201d", "quoted"},
		{"typographic spaces", "a\u2009b\u2003c", "abc"},
		{"nbsp is kept", "a\u00a0b", "a\u00a0b"},
		{"narrow nbsp is kept", "a\u202fb", "a\u202fb"},
		{"ascii untouched", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripInvisible(tt.input); got != tt.want {
				t.Errorf("StripInvisible(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDashes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"compound word", "state-of-the-art", "state - of - the - art"},
		{"em dash with spaces", "wait \u2014 what", "wait - what"},
		{"tight em dash", "a\u2014b", "a - b"},
		{"en dash range", "2020\u20132021", "2020 - 2021"},
		{"minus sign", "\u22125", "-5"},
		{"all dash glyphs", "\u2012\u2015\u2e3b\u2010", "- -  - -"},
		{"spaced hyphen untouched", "a - b", "a - b"},
		{"one sided space untouched", "a -b", "a -b"},
		{"leading hyphen", "-5", "-5"},
		{"trailing hyphen", "end-", "end-"},
		{"double hyphen", "a--b", "a -  - b"},
		{"multibyte neighbours", "é-ü", "é - ü"},
		{"newline is whitespace", "a\n-b", "a\n-b"},
		{"no dashes", "plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDashes(tt.input); got != tt.want {
				t.Errorf("NormalizeDashes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"nbsp run", "a\u00a0\u00a0b", "a b"},
		{"narrow nbsp", "a\u202fb", "a b"},
		{"mixed run", "a \t b", "a b"},
		{"single tab survives", "a\tb", "a\tb"},
		{"single space survives", "a b", "a b"},
		{"line edges", "a  \n  b", "a\nb"},
		{"tab line edges", "a\t\n\tb", "a\nb"},
		{"blank line cap", "a\n\n\n\nb", "a\n\nb"},
		{"one blank line kept", "a\n\nb", "a\n\nb"},
		{"spaced blank lines", "a \n \n \n b", "a\n\nb"},
		{"trim", "  \n x \n  ", "x"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CollapseWhitespace(tt.input); got != tt.want {
				t.Errorf("CollapseWhitespace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
