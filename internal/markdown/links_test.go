package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLinks_InlineLink(t *testing.T) {
	links, err := ExtractLinks([]byte("See [API](api.md) for details."), Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.md", links[0].Destination)
}

func TestExtractLinks_ImageLink(t *testing.T) {
	links, err := ExtractLinks([]byte("![Diagram](diagram.png)"), Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindImage, links[0].Kind)
	require.Equal(t, "diagram.png", links[0].Destination)
}

func TestExtractLinks_AutoLink(t *testing.T) {
	links, err := ExtractLinks([]byte("<https://example.com/path>"), Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindAuto, links[0].Kind)
	require.Equal(t, "https://example.com/path", links[0].Destination)
}

func TestExtractLinks_ReferenceLinkUsageAndDefinition(t *testing.T) {
	src := []byte("See [API][ref].\n\n[ref]: api.md\n")
	links, err := ExtractLinks(src, Options{})
	require.NoError(t, err)

	// Expect one resolved link (goldmark represents reference links as Link
	// nodes with a Destination) and one reference definition.
	require.Len(t, links, 2)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.md", links[0].Destination)
	require.Equal(t, LinkKindReferenceDefinition, links[1].Kind)
	require.Equal(t, "api.md", links[1].Destination)
}

func TestExtractLinks_SkipsInlineCodeAndCodeBlocks(t *testing.T) {
	src := []byte("" +
		"Inline code: `[Link](./ignored-inline.md)`\n" +
		"\n" +
		"```\n" +
		"[Link](./ignored-fence.md)\n" +
		"```\n" +
		"\n" +
		"Real: [OK](./real.md)\n")

	links, err := ExtractLinks(src, Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, "./real.md", links[0].Destination)
}

func TestExtractLinks_TildeFencesAreSkipped(t *testing.T) {
	src := []byte("~~~\n[Link](./ignored.md)\n~~~\n")
	links, err := ExtractLinks(src, Options{})
	require.NoError(t, err)
	require.Empty(t, links)
}

func TestExtractLinks_PermissiveDestinationWithSpaces(t *testing.T) {
	links, err := ExtractLinks([]byte("See [the manual](./User Manual.md) here."), Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "./User Manual.md", links[0].Destination)
}

func TestExtractLinks_PermissiveImageWithSpaces(t *testing.T) {
	links, err := ExtractLinks([]byte("![shot](./Screen Shot.png)"), Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindImage, links[0].Kind)
	require.Equal(t, "./Screen Shot.png", links[0].Destination)
}

func TestExtractLinks_AngleBracketedDestinationReportedOnce(t *testing.T) {
	// CommonMark allows spaces inside <...> destinations; goldmark parses
	// these, so the permissive pass must not re-capture them.
	links, err := ExtractLinks([]byte("See [manual](<./User Manual.md>) here."), Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "./User Manual.md", links[0].Destination)
}

func TestExtractLinks_AngleBracketedReferenceDefinition(t *testing.T) {
	links, err := ExtractLinks([]byte("[m][ref]\n\n[ref]: <./User Manual.md>\n"), Options{})
	require.NoError(t, err)
	require.Len(t, links, 2)
	for _, l := range links {
		require.Equal(t, "./User Manual.md", l.Destination)
	}
}

func TestExtractLinks_LinePositions(t *testing.T) {
	src := []byte("intro\n\nSee [API][ref] here.\n\n[ref]: api.md\n")
	links, err := ExtractLinks(src, Options{})
	require.NoError(t, err)
	require.Len(t, links, 2)

	// The use site carries its own position; the definition is found by the
	// caller's text search (Line 0 here).
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, 3, links[0].Line)
	require.Equal(t, LinkKindReferenceDefinition, links[1].Kind)
	require.Equal(t, 0, links[1].Line)
}

func TestExtractLinks_PermissiveLinkCarriesLine(t *testing.T) {
	links, err := ExtractLinks([]byte("first\n\nSee [m](./User Manual.md).\n"), Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, 3, links[0].Line)
}

func TestExtractLinks_AnchorOnly(t *testing.T) {
	links, err := ExtractLinks([]byte("Jump to [setup](#initial-setup)."), Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, "#initial-setup", links[0].Destination)
}

func TestExtractLinks_NoLinks(t *testing.T) {
	links, err := ExtractLinks([]byte("Just text.\n\nAnd a paragraph.\n"), Options{})
	require.NoError(t, err)
	require.Empty(t, links)
}

func TestScanReferenceDefinition_FootnoteIgnored(t *testing.T) {
	_, ok := scanReferenceDefinition("[^1]: a footnote with spaces")
	require.False(t, ok)
}
