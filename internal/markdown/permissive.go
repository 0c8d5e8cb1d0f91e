package markdown

import "strings"

// extractPermissiveLinks scans line by line for inline links, image links and
// reference definitions whose destination contains whitespace. CommonMark
// rejects those destinations, so the goldmark pass never reports them; only
// whitespace-bearing targets are collected here to avoid duplicates. seen
// holds destinations the strict pass already produced, so constructs goldmark
// parsed successfully (e.g. angle-bracketed destinations) are not re-reported.
func extractPermissiveLinks(body []byte, seen map[string]struct{}) []Link {
	inFence := false
	fence := ""

	out := make([]Link, 0)
	for lineNo, line := range strings.Split(string(body), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			marker := trimmed[:3]
			switch {
			case !inFence:
				inFence, fence = true, marker
			case fence == marker:
				inFence, fence = false, ""
			}
			continue
		}
		if inFence || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}

		clean := stripInlineCodeSpans(line)

		for _, l := range scanBracketLinks(clean) {
			if wanted(l.Destination, seen) {
				l.Line = lineNo + 1
				out = append(out, l)
			}
		}
		if l, ok := scanReferenceDefinition(clean); ok && wanted(l.Destination, seen) {
			l.Line = lineNo + 1
			out = append(out, l)
		}
	}

	return out
}

// wanted filters permissive captures down to whitespace-bearing destinations
// the strict pass missed.
func wanted(dest string, seen map[string]struct{}) bool {
	if !strings.ContainsAny(dest, " \t") {
		return false
	}
	_, dup := seen[dest]
	return !dup
}

// stripAngleBrackets unwraps a CommonMark angle-bracketed destination.
func stripAngleBrackets(dest string) string {
	if len(dest) >= 2 && dest[0] == '<' && dest[len(dest)-1] == '>' {
		return dest[1 : len(dest)-1]
	}
	return dest
}

// scanBracketLinks finds "](dest)" constructs on a single line, classifying
// each as an image or inline link depending on a leading '!'.
func scanBracketLinks(line string) []Link {
	links := make([]Link, 0)

	for i := 0; i+1 < len(line); i++ {
		if line[i] != ']' || line[i+1] != '(' {
			continue
		}

		open := strings.LastIndex(line[:i], "[")
		if open == -1 {
			continue
		}
		end := strings.Index(line[i+2:], ")")
		if end == -1 {
			continue
		}

		kind := LinkKindInline
		if open > 0 && line[open-1] == '!' {
			kind = LinkKindImage
		}
		links = append(links, Link{Kind: kind, Destination: stripAngleBrackets(line[i+2 : i+2+end])})
	}

	return links
}

// scanReferenceDefinition matches "[label]: dest" lines. Footnote definitions
// ("[^1]: ...") are not reference link definitions and are ignored.
func scanReferenceDefinition(line string) (Link, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "[^") {
		return Link{}, false
	}

	_, after, ok := strings.Cut(trimmed, "]:")
	if !ok {
		return Link{}, false
	}

	dest := strings.TrimSpace(after)
	if before, _, ok := strings.Cut(dest, " \""); ok {
		dest = before
	} else if before, _, ok := strings.Cut(dest, " '"); ok {
		dest = before
	}
	dest = strings.TrimSpace(stripAngleBrackets(strings.TrimSpace(dest)))
	if dest == "" {
		return Link{}, false
	}
	return Link{Kind: LinkKindReferenceDefinition, Destination: dest}, true
}

// stripInlineCodeSpans removes backtick code spans so their contents never
// produce links. Unclosed spans keep their backticks and the scan continues.
func stripInlineCodeSpans(s string) string {
	if !strings.Contains(s, "`") {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '`' {
			out.WriteByte(s[i])
			i++
			continue
		}

		run := 1
		for i+run < len(s) && s[i+run] == '`' {
			run++
		}

		marker := strings.Repeat("`", run)
		closeRel := strings.Index(s[i+run:], marker)
		if closeRel == -1 {
			out.WriteString(marker)
			i += run
			continue
		}

		// Skip the entire code span, including delimiters.
		i = i + run + closeRel + run
	}

	return out.String()
}
