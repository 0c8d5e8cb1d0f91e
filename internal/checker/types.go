package checker

// Kind classifies a link reference by its target.
type Kind string

const (
	// KindInternal is a path reference within the scanned tree, optionally
	// carrying a trailing "#anchor".
	KindInternal Kind = "internal"
	// KindExternal is a target with a URI scheme (http, https, mailto, ...).
	KindExternal Kind = "external"
	// KindAnchor is a bare "#fragment" referring to the same file.
	KindAnchor Kind = "anchor"
)

// Verdict is the per-reference check outcome.
type Verdict string

const (
	VerdictOK      Verdict = "ok"
	VerdictBroken  Verdict = "broken"
	VerdictSkipped Verdict = "skipped"
)

// Finding is one result record for one link reference. Findings are never
// mutated after creation; each scan produces a fresh report.
type Finding struct {
	File     string  // Path of the referencing file, as walked
	Line     int     // 1-based line number in the file (0 if not located)
	Target   string  // Raw link destination as written
	Resolved string  // Resolved filesystem path (internal links only)
	Kind     Kind    // Link classification
	Verdict  Verdict // Check outcome
	Detail   string  // Human-readable explanation for non-OK verdicts
}

// Warning records a file that could not be processed. Warnings do not affect
// the exit code.
type Warning struct {
	File    string
	Message string
}

// Report is the immutable outcome of one scan.
type Report struct {
	RunID        string
	Roots        []string
	FilesScanned int
	Findings     []Finding
	Warnings     []Warning
}

// HasBroken reports whether any finding is BROKEN.
func (r *Report) HasBroken() bool {
	for _, f := range r.Findings {
		if f.Verdict == VerdictBroken {
			return true
		}
	}
	return false
}

// BrokenCount returns the number of BROKEN findings.
func (r *Report) BrokenCount() int {
	n := 0
	for _, f := range r.Findings {
		if f.Verdict == VerdictBroken {
			n++
		}
	}
	return n
}

// External returns the findings for external link references.
func (r *Report) External() []Finding {
	out := make([]Finding, 0)
	for _, f := range r.Findings {
		if f.Kind == KindExternal {
			out = append(out, f)
		}
	}
	return out
}
