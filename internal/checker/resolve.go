package checker

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/mdlinkcheck/internal/markdown"
)

// checkLink classifies and resolves a single link destination, producing the
// finding for it.
func (s *scanState) checkLink(root, path string, content []byte, target string, line int) Finding {
	f := Finding{
		File:   path,
		Line:   line,
		Target: target,
	}

	if isExternal(target) {
		f.Kind = KindExternal
		f.Verdict = VerdictSkipped
		f.Detail = fmt.Sprintf("not checking external link: %s", target)
		return f
	}

	pathPart, fragment, _ := strings.Cut(target, "#")
	pathPart = unescape(pathPart)
	fragment = unescape(fragment)

	// A bare "#fragment" (or an entirely empty target) refers to the
	// current file.
	if pathPart == "" {
		f.Kind = KindAnchor
		f.Resolved = path
		if fragment != "" && !s.fileAnchors(path, content).Contains(fragment) {
			f.Verdict = VerdictBroken
			f.Detail = fmt.Sprintf("anchor not found: '%s'", fragment)
			return f
		}
		f.Verdict = VerdictOK
		return f
	}

	f.Kind = KindInternal

	resolved, ok := s.resolveInternal(root, path, pathPart)
	f.Resolved = resolved
	if !ok {
		f.Verdict = VerdictBroken
		f.Detail = fmt.Sprintf("target file not found: '%s'", resolved)
		return f
	}

	if fragment != "" {
		if !s.fileAnchors(resolved, nil).Contains(fragment) {
			f.Verdict = VerdictBroken
			f.Detail = fmt.Sprintf("anchor not found in target file '%s': '%s'", resolved, fragment)
			return f
		}
	}

	f.Verdict = VerdictOK
	return f
}

// isExternal reports whether the target carries a URI scheme.
func isExternal(target string) bool {
	u, err := url.Parse(target)
	return err == nil && u.Scheme != ""
}

func unescape(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}

// resolveInternal joins the link target against the referencing file's
// directory and checks existence. In asymmetric mode a miss from a file under
// a language directory is retried with the language segment stripped from the
// resolved path, modeling English output at the tree root.
func (s *scanState) resolveInternal(root, path, target string) (string, bool) {
	resolved := filepath.Clean(filepath.Join(filepath.Dir(path), target))
	if pathExists(resolved) {
		return resolved, true
	}

	if !s.opts.AsymmetricLayout {
		return resolved, false
	}

	lang := s.languageOf(root, path)
	if lang == "" {
		return resolved, false
	}

	alt, ok := stripSegment(root, resolved, lang)
	if !ok {
		return resolved, false
	}
	if pathExists(alt) {
		return alt, true
	}
	return resolved, false
}

// languageOf returns the language directory the file lives under, relative to
// the scan root, or "" when the file is not inside a recognized language tree.
func (s *scanState) languageOf(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	for _, lang := range s.opts.LanguageDirs {
		if first == lang {
			return lang
		}
	}
	return ""
}

// stripSegment removes a leading language segment from resolved's path
// relative to root. It returns false when resolved is outside root or does
// not start with the segment.
func stripSegment(root, resolved, segment string) (string, bool) {
	rel, err := filepath.Rel(root, resolved)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 || parts[0] != segment {
		return "", false
	}
	return filepath.Join(append([]string{root}, parts[1:]...)...), true
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// fileAnchors returns the anchor inventory for a file, caching per scan.
// content may be passed when the caller already holds the file's bytes.
func (s *scanState) fileAnchors(path string, content []byte) markdown.AnchorSet {
	key := filepath.Clean(path)
	if anchors, ok := s.anchors[key]; ok {
		return anchors
	}

	if content == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			s.warn(path, fmt.Sprintf("cannot read anchor target: %v", err))
			s.anchors[key] = markdown.AnchorSet{}
			return s.anchors[key]
		}
		content = data
	}

	anchors, err := markdown.ExtractAnchors(content, markdown.Options{})
	if err != nil {
		anchors = markdown.AnchorSet{}
	}
	s.anchors[key] = anchors
	return anchors
}
