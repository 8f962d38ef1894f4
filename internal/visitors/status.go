package visitors

import (
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RenderStatus prints the current totals and, when history exists, the daily statistics.
func RenderStatus(w io.Writer, st State, today time.Time) error {
	p := message.NewPrinter(language.English)

	lastCounted := st.LastCountedDate
	if lastCounted == "" {
		lastCounted = "None"
	}
	lastUpdated := st.LastUpdated
	if lastUpdated == "" {
		lastUpdated = "Never"
	}

	if _, err := p.Fprintf(w, "Total visitor count: %d\n", st.Count); err != nil {
		return err
	}
	p.Fprintf(w, "  Cumulative:        %d\n", st.Cumulative)
	p.Fprintf(w, "  Today (live):      %d\n", st.TodayVisitors)
	p.Fprintf(w, "  Last counted date: %s\n", lastCounted)
	p.Fprintf(w, "  Last updated:      %s\n", lastUpdated)

	stats := ComputeStats(st.DailyHistory, today)
	if stats.IsNone() {
		return nil
	}
	s := stats.Unwrap()

	p.Fprintf(w, "\nDaily statistics (%d days tracked):\n", s.TotalDaysTracked)
	s.Avg7d.Match(func(v float64) { p.Fprintf(w, "  Avg last 7 days:   %.1f\n", v) }, func() {})
	s.Avg30d.Match(func(v float64) { p.Fprintf(w, "  Avg last 30 days:  %.1f\n", v) }, func() {})
	p.Fprintf(w, "  Avg all time:      %.1f\n", s.AvgAllTime)
	p.Fprintf(w, "  Best day:          %d\n", s.MaxDay)
	p.Fprintf(w, "  Lowest day:        %d\n", s.MinDay)
	_, err := p.Fprintf(w, "  Tracking since:    %s\n", s.FirstDate)
	return err
}
