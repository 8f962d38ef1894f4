package metrics

import (
	"testing"
	"time"
)

type testRecorder struct {
	finalized int
	failures  map[FetchKind]int
	totals    [2]int
	runs      map[string]int
	pages     map[PageKind]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{failures: map[FetchKind]int{}, runs: map[string]int{}, pages: map[PageKind]int{}}
}

func (t *testRecorder) IncDaysFinalized(n int) { t.finalized += n }
func (t *testRecorder) IncFetchFailure(kind FetchKind) { t.failures[kind]++ }
func (t *testRecorder) SetVisitorTotals(cumulative, today int) { t.totals = [2]int{cumulative, today} }
func (t *testRecorder) ObserveRunDuration(c string, _ time.Duration) { t.runs[c]++ }
func (t *testRecorder) IncPages(kind PageKind, n int) { t.pages[kind] += n }

func TestRecorderInterfaceCompliance(t *testing.T) {
	var _ Recorder = NoopRecorder{}
	var _ Recorder = (*PrometheusRecorder)(nil)

	tr := newTestRecorder()
	var r Recorder = tr
	r.IncDaysFinalized(3)
	r.IncFetchFailure(FetchToday)
	r.SetVisitorTotals(23914, 5)
	r.ObserveRunDuration("visitorcount", 10*time.Millisecond)
	r.IncPages(PageProcessed, 4)

	if tr.finalized != 3 || tr.failures[FetchToday] != 1 || tr.totals != [2]int{23914, 5} {
		t.Fatalf("unexpected recorder state: %+v", tr)
	}
	if tr.runs["visitorcount"] != 1 || tr.pages[PageProcessed] != 4 {
		t.Fatalf("unexpected recorder state: %+v", tr)
	}
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var p *PrometheusRecorder
	p.IncDaysFinalized(1)
	p.IncFetchFailure(FetchGapDay)
	p.SetVisitorTotals(1, 2)
	p.ObserveRunDuration("sitebuild", time.Second)
	p.IncPages(PageCopied, 1)
}
