package markdown

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lowerCaser = cases.Lower(language.Und)

// AnchorSet holds the fragment identifiers a Markdown file can be linked to:
// slugs derived from headings plus explicit HTML anchors. All entries are
// stored lower-cased; lookups are case-insensitive to match common renderers.
type AnchorSet map[string]struct{}

// Contains reports whether the set holds the given fragment (case-insensitive).
func (a AnchorSet) Contains(fragment string) bool {
	_, ok := a[lowerCaser.String(fragment)]
	return ok
}

// ExtractAnchors builds the anchor inventory for a Markdown file: one entry
// per heading (GitHub-style slug) and one per HTML "name"/"id" attribute
// embedded in the document.
func ExtractAnchors(content []byte, opts Options) (AnchorSet, error) {
	_, body, _ := SplitFrontmatter(content)

	anchors := make(AnchorSet)

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			slug := Slug(headingText(h, body))
			if slug != "" {
				anchors[slug] = struct{}{}
			}
		}
		return gmast.WalkContinue, nil
	})

	for _, name := range htmlAnchorNames(content) {
		anchors[lowerCaser.String(name)] = struct{}{}
	}

	return anchors, nil
}

// headingText concatenates the literal text of a heading's inline children.
func headingText(h *gmast.Heading, source []byte) string {
	var buf bytes.Buffer
	var walk func(n gmast.Node)
	walk = func(n gmast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *gmast.Text:
				buf.Write(t.Segment.Value(source))
			case *gmast.String:
				buf.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(h)
	return buf.String()
}

// Slug converts a heading text into a GitHub-style fragment identifier:
// Unicode-aware lower-casing, whitespace replaced with hyphens, punctuation
// dropped. The input is NFC-normalized first so composed and decomposed
// spellings of the same heading produce the same slug.
func Slug(heading string) string {
	s := lowerCaser.String(norm.NFC.String(strings.TrimSpace(heading)))

	var out strings.Builder
	out.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			out.WriteRune('-')
		case r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			out.WriteRune(r)
		}
	}
	return out.String()
}

// htmlAnchorNames tokenizes the raw file content and collects anchor targets
// from embedded HTML: <a name="..."> and any element's id attribute.
func htmlAnchorNames(content []byte) []string {
	names := make([]string, 0)

	tok := html.NewTokenizer(bytes.NewReader(content))
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			return names
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		name, hasAttr := tok.TagName()
		isAnchor := len(name) == 1 && name[0] == 'a'
		for hasAttr {
			var key, val []byte
			key, val, hasAttr = tok.TagAttr()
			switch {
			case string(key) == "id" && len(val) > 0:
				names = append(names, string(val))
			case isAnchor && string(key) == "name" && len(val) > 0:
				names = append(names, string(val))
			}
		}
	}
}
