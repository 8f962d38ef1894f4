package visitors

import (
	"math"
	"slices"
	"time"

	"git.home.luguber.info/inful/stmartin/internal/foundation"
)

// Stats summarizes the finalized daily history.
type Stats struct {
	Avg7d            foundation.Option[float64] `json:"avg_7d"`
	Avg30d           foundation.Option[float64] `json:"avg_30d"`
	AvgAllTime       float64                    `json:"avg_all_time"`
	MinDay           int                        `json:"min_day"`
	MaxDay           int                        `json:"max_day"`
	FirstDate        string                     `json:"first_date"`
	LastDate         string                     `json:"last_date"`
	TotalDaysTracked int                        `json:"total_days_tracked"`
}

// ComputeStats returns None for an empty history. Windowed averages only consider days in
// [today-N, today); a window without days yields None rather than zero.
func ComputeStats(history map[string]int, today time.Time) foundation.Option[Stats] {
	if len(history) == 0 {
		return foundation.None[Stats]()
	}

	days := sortedDays(history)
	st := Stats{
		Avg7d:            windowAverage(history, today, 7),
		Avg30d:           windowAverage(history, today, 30),
		FirstDate:        days[0],
		LastDate:         days[len(days)-1],
		TotalDaysTracked: len(days),
		MinDay:           history[days[0]],
		MaxDay:           history[days[0]],
	}

	sum := 0
	for _, day := range days {
		v := history[day]
		sum += v
		st.MinDay = min(st.MinDay, v)
		st.MaxDay = max(st.MaxDay, v)
	}
	st.AvgAllTime = round1(float64(sum) / float64(len(days)))
	return foundation.Some(st)
}

func windowAverage(history map[string]int, today time.Time, daysBack int) foundation.Option[float64] {
	end := formatDay(civilDate(today))
	cutoff := formatDay(civilDate(today).AddDate(0, 0, -daysBack))

	sum, n := 0, 0
	for day, v := range history {
		if day >= cutoff && day < end {
			sum += v
			n++
		}
	}
	if n == 0 {
		return foundation.None[float64]()
	}
	return foundation.Some(round1(float64(sum) / float64(n)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func sortedDays(history map[string]int) []string {
	days := make([]string, 0, len(history))
	for day := range history {
		days = append(days, day)
	}
	slices.Sort(days)
	return days
}
