package metrics

import "time"

// FetchKind distinguishes analytics fetches for finalized days from the live today fetch.
type FetchKind string

const (
	FetchGapDay FetchKind = "gap_day"
	FetchToday  FetchKind = "today"
)

// PageKind enumerates how the site assembler handled a source page.
type PageKind string

const (
	PageProcessed PageKind = "processed"
	PageCopied    PageKind = "copied"
)

// Recorder defines observability hooks for the visitor counter and the site assembler.
// Implementations may forward to Prometheus; NoopRecorder is the default.
type Recorder interface {
	IncDaysFinalized(n int)
	IncFetchFailure(kind FetchKind)
	SetVisitorTotals(cumulative, today int)
	ObserveRunDuration(component string, d time.Duration)
	IncPages(kind PageKind, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncDaysFinalized(int) {}
func (NoopRecorder) IncFetchFailure(FetchKind) {}
func (NoopRecorder) SetVisitorTotals(int, int) {}
func (NoopRecorder) ObserveRunDuration(string, time.Duration) {}
func (NoopRecorder) IncPages(PageKind, int) {}
