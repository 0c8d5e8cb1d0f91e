package markdown

import (
	"bytes"
	"strings"
)

var fmDelimiter = []byte("---")

// SplitFrontmatter separates a YAML frontmatter block from the Markdown body.
// It returns the raw frontmatter (without delimiters), the body, and whether
// a frontmatter block was present. Content without a leading "---" line is
// returned unchanged as the body.
func SplitFrontmatter(content []byte) (raw []byte, body []byte, had bool) {
	rest, ok := bytes.CutPrefix(content, fmDelimiter)
	if !ok || (len(rest) > 0 && rest[0] != '\n' && rest[0] != '\r') {
		return nil, content, false
	}

	// Find the closing delimiter on its own line.
	idx := bytes.Index(rest, []byte("\n---"))
	if idx == -1 {
		return nil, content, false
	}
	after := rest[idx+len("\n---"):]
	after, _ = bytes.CutPrefix(after, []byte("\r"))
	if len(after) > 0 {
		if after[0] != '\n' {
			return nil, content, false
		}
		after = after[1:]
	}

	raw = bytes.TrimPrefix(rest[:idx], []byte("\n"))
	return raw, after, true
}

// FrontmatterLineOffset returns how many file lines precede the body when the
// given frontmatter block (as returned by SplitFrontmatter) was removed. Link
// line numbers computed against the body must be shifted by this amount so
// they refer to the original file.
func FrontmatterLineOffset(raw []byte, had bool) int {
	if !had {
		return 0
	}
	// Just the two delimiter lines when the block is empty.
	if len(raw) == 0 {
		return 2
	}
	// Opening delimiter line + frontmatter lines + closing delimiter line.
	// raw holds N lines as N-1 newlines, so the total is newlines + 3.
	return 3 + strings.Count(string(raw), "\n")
}
