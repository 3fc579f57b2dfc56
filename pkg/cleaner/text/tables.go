package text

// junkTags are dropped together with everything inside them.
// "o:p" is the empty paragraph marker Word puts into pasted HTML.
var junkTags = map[string]bool{
	"script": true,
	"style":  true,
	"meta":   true,
	"link":   true,
	"iframe": true,
	"o:p":    true,
}

// unwrapTags lose their markup but keep their children in place.
var unwrapTags = map[string]bool{
	"div":  true,
	"span": true,
}

// strippedAttrs are removed from every element that survives unwrapping.
var strippedAttrs = []string{"style", "class"}

// invisibleRunes are deleted outright. The list is literal on purpose: it mixes
// zero-width characters, a few typographic spaces and some quote look-alikes that
// tend to arrive from word processors. NBSP (U+00A0) and narrow NBSP (U+202F) are
// not here; CollapseWhitespace turns them into plain spaces.
var invisibleRunes = map[rune]bool{
	'\u2003': true, // em space
	'\u2018': true, // left single quotation mark
	'\u2019': true, // right single quotation mark
	'\u201c': true, // left double quotation mark
	'\u201d': true, // right double quotation mark
	'\u200b': true, // zero width space
	'\u2002': true, // en space
	'\u2060': true, // word joiner
	'\u200c': true, // zero width non-joiner
	'\u200d': true, // zero width joiner
	'\u200e': true, // left-to-right mark
	'\u200f': true, // right-to-left mark
	'\ufeff': true, // byte order mark
	'\u2061': true, // function application
	'\u2062': true, // invisible times
	'\u2063': true, // invisible separator
	'\u2064': true, // invisible plus
	'\u180e': true, // mongolian vowel separator
	'\u2001': true, // em quad
	'\u2008': true, // punctuation space
	'\u2009': true, // thin space
	'\u200a': true, // hair space
	'\u3164': true, // hangul filler
	'\u00ad': true, // soft hyphen
	'\u202e': true, // right-to-left override
	'\u2800': true, // braille pattern blank
	'\u02bc': true, // modifier letter apostrophe
}

// dashRunes fold to an ASCII hyphen-minus.
var dashRunes = map[rune]bool{
	'\u2014': true, // em dash
	'\u2013': true, // en dash
	'\u2212': true, // minus sign
	'\u2012': true, // figure dash
	'\u2015': true, // horizontal bar
	'\u2e3b': true, // three-em dash
	'\u2010': true, // hyphen
}

// escapeIntroducers are the bytes that may follow a backslash in a JSON string escape.
var escapeIntroducers = [256]bool{
	'"': true, '\\': true, '/': true,
	'b': true, 'f': true, 'n': true, 'r': true, 't': true, 'u': true,
}
