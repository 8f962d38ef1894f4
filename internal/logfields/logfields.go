package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyDomain     = "domain"
	KeyDay        = "day"
	KeyVisitors   = "visitors"
	KeyCumulative = "cumulative"
	KeyPath       = "path"
	KeyPage       = "page"
	KeyMode       = "mode"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Domain(d string) slog.Attr       { return slog.String(KeyDomain, d) }
func Day(d string) slog.Attr          { return slog.String(KeyDay, d) }
func Visitors(n int) slog.Attr        { return slog.Int(KeyVisitors, n) }
func Cumulative(n int) slog.Attr      { return slog.Int(KeyCumulative, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Mode(m string) slog.Attr         { return slog.String(KeyMode, m) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
