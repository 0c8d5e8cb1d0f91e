package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrontmatter_Present(t *testing.T) {
	content := []byte("---\ntitle: Test\nweight: 10\n---\n# Body\n")
	raw, body, had := SplitFrontmatter(content)
	require.True(t, had)
	assert.Equal(t, "title: Test\nweight: 10", string(raw))
	assert.Equal(t, "# Body\n", string(body))
}

func TestSplitFrontmatter_Absent(t *testing.T) {
	content := []byte("# Body\nNo frontmatter here.\n")
	raw, body, had := SplitFrontmatter(content)
	require.False(t, had)
	assert.Nil(t, raw)
	assert.Equal(t, content, body)
}

func TestSplitFrontmatter_UnclosedBlockIsBody(t *testing.T) {
	content := []byte("---\ntitle: Test\n# Body\n")
	_, body, had := SplitFrontmatter(content)
	require.False(t, had)
	assert.Equal(t, content, body)
}

func TestSplitFrontmatter_HorizontalRuleIsNotFrontmatter(t *testing.T) {
	content := []byte("----\ntext\n")
	_, body, had := SplitFrontmatter(content)
	require.False(t, had)
	assert.Equal(t, content, body)
}

func TestFrontmatterLineOffset(t *testing.T) {
	content := []byte("---\ntitle: Test\nweight: 10\n---\nfirst body line\n")
	raw, _, had := SplitFrontmatter(content)
	require.True(t, had)

	// Body line 1 ("first body line") is file line 5.
	assert.Equal(t, 4, FrontmatterLineOffset(raw, had))
	assert.Equal(t, 0, FrontmatterLineOffset(nil, false))
}

func TestFrontmatterLineOffset_EmptyBlock(t *testing.T) {
	raw, body, had := SplitFrontmatter([]byte("---\n---\nfirst body line\n"))
	require.True(t, had)
	assert.Empty(t, raw)
	assert.Equal(t, "first body line\n", string(body))

	// Only the two delimiter lines precede the body.
	assert.Equal(t, 2, FrontmatterLineOffset(raw, had))
}
