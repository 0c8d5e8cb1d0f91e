package checker

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/mdlinkcheck/internal/logfields"
	"git.home.luguber.info/inful/mdlinkcheck/internal/markdown"
)

// Options controls a scan.
type Options struct {
	// AsymmetricLayout enables the raspiBackup documentation convention:
	// non-English sources live under a language subdirectory while English
	// output sits at the tree root. A reference from a file under a language
	// directory that misses on the direct join is retried with the language
	// segment stripped.
	AsymmetricLayout bool

	// LanguageDirs names the per-language subdirectories recognized in
	// asymmetric mode. Defaults to ["de"].
	LanguageDirs []string
}

var mdExtensions = map[string]struct{}{
	".md":       {},
	".mkd":      {},
	".markdown": {},
}

// IsMarkdownFile reports whether the path has a recognized Markdown suffix.
func IsMarkdownFile(path string) bool {
	_, ok := mdExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Checker scans directory trees of Markdown files and validates
// project-internal links. A Checker is single-use per scan semantics but safe
// to reuse sequentially; the anchor cache persists only for one Run.
type Checker struct {
	opts Options
}

// New creates a checker with defaults applied.
func New(opts Options) *Checker {
	if len(opts.LanguageDirs) == 0 {
		opts.LanguageDirs = []string{"de"}
	}
	return &Checker{opts: opts}
}

// Run scans all Markdown files under the given roots. Roots may be
// directories or individual Markdown files; an empty root set means the
// current directory. A root that does not exist is a fatal argument error.
func (c *Checker) Run(roots []string) (*Report, error) {
	if len(roots) == 0 {
		roots = []string{"."}
	}

	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			return nil, fmt.Errorf("root does not exist: %s", root)
		}
	}

	rep := &Report{
		RunID: uuid.NewString(),
		Roots: roots,
	}

	scan := &scanState{
		opts:    c.opts,
		report:  rep,
		anchors: make(map[string]markdown.AnchorSet),
	}

	for _, root := range roots {
		slog.Debug("Scanning root", logfields.Root(root))
		if err := scan.walkRoot(root); err != nil {
			return nil, err
		}
	}

	slog.Debug("Scan completed",
		logfields.RunID(rep.RunID),
		logfields.Count(rep.FilesScanned),
		slog.Int("broken", rep.BrokenCount()))

	return rep, nil
}

// scanState carries per-run mutable state, most notably the anchor cache so
// each target file is parsed at most once per scan.
type scanState struct {
	opts    Options
	report  *Report
	anchors map[string]markdown.AnchorSet
}

func (s *scanState) walkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		s.report.FilesScanned++
		s.checkFile(root, root)
		return nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.warn(path, fmt.Sprintf("cannot traverse: %v", err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		// Skip hidden directories and files.
		if strings.HasPrefix(d.Name(), ".") && d.Name() != "." {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() || !IsMarkdownFile(path) {
			return nil
		}

		s.report.FilesScanned++
		s.checkFile(root, path)
		return nil
	})
}

// checkFile extracts all link references from one Markdown file and records
// one finding per reference.
func (s *scanState) checkFile(root, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		s.warn(path, fmt.Sprintf("cannot read file: %v", err))
		return
	}

	raw, body, had := markdown.SplitFrontmatter(content)
	offset := markdown.FrontmatterLineOffset(raw, had)

	links, err := markdown.ExtractLinks(body, markdown.Options{})
	if err != nil {
		s.warn(path, fmt.Sprintf("cannot parse markdown: %v", err))
		return
	}

	lines := strings.Split(string(body), "\n")
	nextSearchLine := make(map[string]int)

	for _, link := range links {
		line := link.Line
		if line == 0 {
			line = locateLine(lines, link.Destination, nextSearchLine)
		}
		if line > 0 {
			line += offset
		}
		finding := s.checkLink(root, path, content, link.Destination, line)
		if finding.Verdict == VerdictBroken {
			slog.Debug("Broken link",
				logfields.Path(path),
				logfields.Target(finding.Target),
				logfields.Line(finding.Line),
				logfields.Verdict(string(finding.Verdict)))
		}
		s.report.Findings = append(s.report.Findings, finding)
	}
}

// locateLine finds the 1-based body line of the next occurrence of dest,
// tracking repeated destinations so each occurrence maps to its own line.
func locateLine(lines []string, dest string, next map[string]int) int {
	for i := next[dest]; i < len(lines); i++ {
		if strings.Contains(lines[i], dest) {
			next[dest] = i + 1
			return i + 1
		}
	}
	return 0
}

func (s *scanState) warn(path, msg string) {
	slog.Warn("Skipping file", logfields.Path(path), slog.String("reason", msg))
	s.report.Warnings = append(s.report.Warnings, Warning{File: path, Message: msg})
}
