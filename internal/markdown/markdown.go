package markdown

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// ExtractLinks parses a Markdown body (frontmatter already removed) and
// extracts link-like constructs.
//
// This is an analysis API; it does not attempt to re-render Markdown.
func ExtractLinks(body []byte, _ Options) ([]Link, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination), Line: nodeLine(node, body)})
		case *gmast.Link:
			// Goldmark resolves reference-style links to a Link node with a Destination.
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination), Line: nodeLine(node, body)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions are stored in the parse context (not represented as AST nodes).
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}

	// Goldmark follows CommonMark strictly, which rejects destinations that
	// contain unescaped spaces. Real documentation trees carry such links
	// (e.g. "./User Manual.md"), so run a permissive per-line pass to pick
	// them up as well. Destinations the strict pass already produced are
	// skipped so valid links are never reported twice.
	seen := make(map[string]struct{}, len(links))
	for _, l := range links {
		seen[l.Destination] = struct{}{}
	}
	links = append(links, extractPermissiveLinks(body, seen)...)

	return links, nil
}

// nodeLine derives the 1-based body line of an inline node from its first
// text segment, 0 when the node carries no literal text.
func nodeLine(n gmast.Node, body []byte) int {
	seg, ok := firstTextSegment(n)
	if !ok || seg.Start > len(body) {
		return 0
	}
	return bytes.Count(body[:seg.Start], []byte("\n")) + 1
}

func firstTextSegment(n gmast.Node) (text.Segment, bool) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			return t.Segment, true
		}
		if seg, ok := firstTextSegment(c); ok {
			return seg, true
		}
	}
	return text.Segment{}, false
}
