package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath    = "path"
	KeyRoot    = "root"
	KeyTarget  = "target"
	KeyLine    = "line"
	KeyVerdict = "verdict"
	KeyRunID   = "run_id"
	KeyURL     = "url"
	KeyCount   = "count"
	KeyError   = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr     { return slog.String(KeyPath, p) }
func Root(r string) slog.Attr     { return slog.String(KeyRoot, r) }
func Target(t string) slog.Attr   { return slog.String(KeyTarget, t) }
func Line(n int) slog.Attr        { return slog.Int(KeyLine, n) }
func Verdict(v string) slog.Attr  { return slog.String(KeyVerdict, v) }
func RunID(id string) slog.Attr   { return slog.String(KeyRunID, id) }
func URL(u string) slog.Attr      { return slog.String(KeyURL, u) }
func Count(n int) slog.Attr       { return slog.Int(KeyCount, n) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
