package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StripMarkup reduces an HTML fragment to plain text. Line breaks written as <br>
// survive as newlines. It never fails: input the parser cannot handle comes back
// unchanged and is cleaned as plain text by the later passes.
func StripMarkup(s string) string {
	return stripMarkup(s, nil)
}

// stripMarkup does the work of StripMarkup and records what it removed in result
// when result is non-nil.
func stripMarkup(s string, result *Result) string {
	root, err := parseFragment(s)
	if err != nil {
		if result != nil {
			result.AddWarning("markup", "parse failed, treating input as plain text", err.Error())
		}
		return s
	}
	doc := goquery.NewDocumentFromNode(root)

	// Order matters: junk subtrees go first so their text never reaches the
	// empty-paragraph check, and <br> is replaced last so it cannot keep an
	// otherwise empty paragraph alive.
	removeJunk(doc, root, result)
	unwrapAndStrip(doc, result)
	removeEmptyParagraphs(doc, result)
	replaceLineBreaks(doc, result)

	return collapseBlankLines(flatten(root, "\n"))
}

// parseFragment parses s the way it would be parsed inside <body>, so no
// html/head/body wrappers are synthesized and head-only tags stay where they were
// written. Scripting is disabled so <noscript> content is parsed as markup.
// The HTML5 tokenizer folds CRLF to LF and moves text found directly inside a
// <table> in front of it.
func parseFragment(s string) (*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragmentWithOptions(strings.NewReader(s), context, html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, err
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// removeJunk drops every junk element together with its subtree.
func removeJunk(doc *goquery.Document, root *html.Node, result *Result) {
	doc.Find("*").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return junkTags[goquery.NodeName(sel)]
	}).Each(func(_ int, sel *goquery.Selection) {
		// Nested junk has already left the tree with its ancestor.
		if !attached(sel.Nodes[0], root) {
			return
		}
		if result != nil {
			result.Stats.RecordRemoval(goquery.NodeName(sel))
		}
		sel.Remove()
	})
}

// unwrapAndStrip splices unwrap-tag children into their parent and strips
// styling attributes from everything else.
func unwrapAndStrip(doc *goquery.Document, result *Result) {
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		n := sel.Nodes[0]
		if unwrapTags[n.Data] {
			unwrap(n)
			if result != nil {
				result.Stats.ElementsUnwrapped++
			}
			return
		}

		for _, attr := range strippedAttrs {
			if _, ok := sel.Attr(attr); ok {
				sel.RemoveAttr(attr)
				if result != nil {
					result.Stats.AttributesRemoved++
				}
			}
		}
	})
}

// removeEmptyParagraphs drops <p> elements with no visible text.
func removeEmptyParagraphs(doc *goquery.Document, result *Result) {
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if strings.TrimSpace(sel.Text()) != "" {
			return
		}
		if result != nil {
			result.Stats.EmptyParagraphs++
			result.Stats.RecordRemoval("p")
		}
		sel.Remove()
	})
}

// replaceLineBreaks turns every <br> into a literal newline text node.
func replaceLineBreaks(doc *goquery.Document, result *Result) {
	doc.Find("br").Each(func(_ int, sel *goquery.Selection) {
		sel.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: "\n"})
		if result != nil {
			result.Stats.LineBreaks++
		}
	})
}

// unwrap replaces n with its children.
func unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}

// attached reports whether n is still reachable from root.
func attached(n, root *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}

// flatten joins the text nodes under root in document order. The separator goes
// between text nodes only, never at the ends. Comments and doctypes carry no text.
func flatten(root *html.Node, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, sep)
}
