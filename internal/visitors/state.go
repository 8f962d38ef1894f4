package visitors

import (
	"maps"
	"time"
)

// State is the persisted counter record.
type State struct {
	Count           int            `json:"count"`
	Cumulative      int            `json:"cumulative"`
	TodayVisitors   int            `json:"today_visitors"`
	LastCountedDate string         `json:"last_counted_date,omitempty"`
	Domain          string         `json:"domain,omitempty"`
	LastUpdated     string         `json:"last_updated,omitempty"`
	DailyHistory    map[string]int `json:"daily_history"`
}

// Total returns the displayed count: finalized visitors plus today's live count.
func (s State) Total() int {
	return s.Cumulative + s.TodayVisitors
}

func (s State) clone() State {
	out := s
	out.DailyHistory = make(map[string]int, len(s.DailyHistory))
	maps.Copy(out.DailyHistory, s.DailyHistory)
	return out
}

// civilDate truncates t to its calendar day, expressed as UTC midnight so that day arithmetic
// is never affected by daylight saving transitions.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatDay(t time.Time) string {
	return t.Format(time.DateOnly)
}

func parseDay(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}
