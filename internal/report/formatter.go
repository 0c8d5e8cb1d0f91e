package report

import (
	"encoding/json"
	"fmt"
	"io"

	"git.home.luguber.info/inful/mdlinkcheck/internal/checker"
)

// Options controls what the formatters emit.
type Options struct {
	// ShowExternal lists external link references instead of silently
	// omitting them. External references are never reported as broken.
	ShowExternal bool

	// Quiet suppresses the trailing summary; findings are still printed.
	Quiet bool
}

// Formatter renders a scan report for output.
type Formatter interface {
	Format(w io.Writer, rep *checker.Report, opts Options) error
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string) Formatter {
	switch format {
	case "json":
		return &JSONFormatter{}
	default:
		return &TextFormatter{}
	}
}

// TextFormatter emits one "file:line: message" line per reportable finding,
// matching the classic checker output.
type TextFormatter struct{}

func (f *TextFormatter) Format(w io.Writer, rep *checker.Report, opts Options) error {
	for _, warn := range rep.Warnings {
		if _, err := fmt.Fprintf(w, "%s: warning: %s\n", warn.File, warn.Message); err != nil {
			return err
		}
	}

	for _, finding := range rep.Findings {
		switch finding.Verdict {
		case checker.VerdictBroken:
			if err := f.printFinding(w, finding); err != nil {
				return err
			}
		case checker.VerdictSkipped:
			if opts.ShowExternal && finding.Kind == checker.KindExternal {
				if err := f.printFinding(w, finding); err != nil {
					return err
				}
			}
		}
	}

	if opts.Quiet {
		return nil
	}

	broken := rep.BrokenCount()
	if broken == 0 {
		_, err := fmt.Fprintf(w, "%d files scanned, no broken links\n", rep.FilesScanned)
		return err
	}
	_, err := fmt.Fprintf(w, "%d files scanned, %d broken link%s\n", rep.FilesScanned, broken, pluralize(broken))
	return err
}

func (f *TextFormatter) printFinding(w io.Writer, finding checker.Finding) error {
	_, err := fmt.Fprintf(w, "%s:%d: %s\n", finding.File, finding.Line, finding.Detail)
	return err
}

// JSONFormatter emits the whole report, including OK verdicts, for machine
// consumption.
type JSONFormatter struct{}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	RunID        string        `json:"run_id"`
	Roots        []string      `json:"roots"`
	FilesScanned int           `json:"files_scanned"`
	BrokenCount  int           `json:"broken_count"`
	Findings     []JSONFinding `json:"findings"`
	Warnings     []JSONWarning `json:"warnings,omitempty"`
}

// JSONFinding represents a single finding in JSON format.
type JSONFinding struct {
	File     string `json:"file"`
	Line     int    `json:"line,omitempty"`
	Target   string `json:"target"`
	Resolved string `json:"resolved,omitempty"`
	Kind     string `json:"kind"`
	Verdict  string `json:"verdict"`
	Detail   string `json:"detail,omitempty"`
}

// JSONWarning represents a skipped file in JSON format.
type JSONWarning struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

func (f *JSONFormatter) Format(w io.Writer, rep *checker.Report, opts Options) error {
	out := JSONOutput{
		RunID:        rep.RunID,
		Roots:        rep.Roots,
		FilesScanned: rep.FilesScanned,
		BrokenCount:  rep.BrokenCount(),
		Findings:     make([]JSONFinding, 0, len(rep.Findings)),
	}

	for _, finding := range rep.Findings {
		if finding.Kind == checker.KindExternal && !opts.ShowExternal {
			continue
		}
		out.Findings = append(out.Findings, JSONFinding{
			File:     finding.File,
			Line:     finding.Line,
			Target:   finding.Target,
			Resolved: finding.Resolved,
			Kind:     string(finding.Kind),
			Verdict:  string(finding.Verdict),
			Detail:   finding.Detail,
		})
	}

	for _, warn := range rep.Warnings {
		out.Warnings = append(out.Warnings, JSONWarning{File: warn.File, Message: warn.Message})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// ExitCode maps a report to the process exit code: 0 when no broken internal
// links were found, 1 otherwise.
func ExitCode(rep *checker.Report) int {
	if rep.HasBroken() {
		return 1
	}
	return 0
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
