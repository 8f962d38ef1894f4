package visitors

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/stmartin/internal/config"
	"git.home.luguber.info/inful/stmartin/internal/foundation"
	"git.home.luguber.info/inful/stmartin/internal/foundation/errors"
	"git.home.luguber.info/inful/stmartin/internal/logfields"
	"git.home.luguber.info/inful/stmartin/internal/metrics"
)

// Source reports the visitor count of one calendar day (YYYY-MM-DD). An Err result means the
// count is unknown, which is different from a day with zero visitors.
type Source interface {
	DailyVisitors(ctx context.Context, domain, day string) foundation.Result[int, error]
}

// FinalizedDay is a day folded into the cumulative total during a run.
type FinalizedDay struct {
	Day      string
	Visitors int
}

// UpdateReport describes what a single Update did.
// InitialCumulative is the starting total chosen when Initialized is set.
type UpdateReport struct {
	RunID             string
	Initialized       bool
	InitialCumulative int
	Finalized         []FinalizedDay
	FailedDay         foundation.Option[string]
	FailedErr         error
	TodayFailed       bool
	TodayErr          error
	State             State
}

// Counter folds daily analytics totals into the persisted cumulative count.
type Counter struct {
	baseline   int
	deployDate string
	source     Source
	store      Store
	now        func() time.Time
	recorder   metrics.Recorder
	logger     *slog.Logger
}

// NewCounter creates a counter using the baseline and deploy date of cfg.
func NewCounter(cfg *config.CounterConfig, source Source, store Store) *Counter {
	return &Counter{
		baseline:   cfg.Baseline,
		deployDate: cfg.DeployDate,
		source:     source,
		store:      store,
		now:        time.Now,
		recorder:   metrics.NoopRecorder{},
		logger:     slog.Default(),
	}
}

// WithClock replaces the time source.
func (c *Counter) WithClock(now func() time.Time) *Counter {
	c.now = now
	return c
}

// WithRecorder attaches a metrics recorder.
func (c *Counter) WithRecorder(r metrics.Recorder) *Counter {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	c.recorder = r
	return c
}

// WithLogger replaces the logger.
func (c *Counter) WithLogger(l *slog.Logger) *Counter {
	c.logger = l
	return c
}

// Update finalizes every completed day since the last finalized one, refreshes today's live
// count and persists the result once.
//
// The first failing day stops finalization for the run and leaves last_counted_date where it
// was, so the gap is retried by the next run. A failed today fetch keeps the previous value.
func (c *Counter) Update(ctx context.Context, domain string) (*UpdateReport, error) {
	if strings.TrimSpace(domain) == "" {
		return nil, errors.ConfigError("no domain specified").
			WithContext("hint", "Use --domain, SA_DOMAIN, or DOMAIN env var.").
			Build()
	}

	started := c.now()
	today := civilDate(started)
	report := &UpdateReport{RunID: uuid.NewString()}
	logger := c.logger.With(logfields.RunID(report.RunID), logfields.Domain(domain))

	prev, found, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	next := prev.clone()

	if next.LastCountedDate == "" {
		start, err := c.initialLastCounted(today, found)
		if err != nil {
			return nil, err
		}
		next.Cumulative = max(c.baseline, prev.Count)
		next.LastCountedDate = formatDay(start)
		report.Initialized = true
		report.InitialCumulative = next.Cumulative
		logger.Info("Initialized cumulative count",
			logfields.Cumulative(next.Cumulative),
			slog.String("last_counted_date", next.LastCountedDate),
			slog.Bool("prior_state", found))
	}

	lastCounted, err := parseDay(next.LastCountedDate)
	if err != nil {
		return nil, errors.StateError("last_counted_date is not a YYYY-MM-DD date").
			WithCause(err).
			WithContext("last_counted_date", next.LastCountedDate).
			Build()
	}

	complete := c.finalizeGapDays(ctx, logger, domain, lastCounted, today, &next, report)
	if complete && lastCounted.Before(today) {
		next.LastCountedDate = formatDay(today.AddDate(0, 0, -1))
	}
	if len(report.Finalized) > 0 {
		logger.Info("Finalized days",
			slog.Int("days", len(report.Finalized)),
			logfields.Cumulative(next.Cumulative))
	}

	todayKey := formatDay(today)
	visitors, err := c.source.DailyVisitors(ctx, domain, todayKey).ToTuple()
	if err != nil {
		report.TodayFailed = true
		report.TodayErr = err
		c.recorder.IncFetchFailure(metrics.FetchToday)
		logger.Warn("Today fetch failed, keeping previous value",
			logfields.Day(todayKey),
			logfields.Visitors(prev.TodayVisitors),
			logfields.Error(err))
		visitors = prev.TodayVisitors
	}

	next.TodayVisitors = visitors
	next.Count = next.Total()
	next.Domain = domain
	next.LastUpdated = started.Format(time.RFC3339)

	if err := c.store.Save(next); err != nil {
		return nil, err
	}
	report.State = next

	c.recorder.IncDaysFinalized(len(report.Finalized))
	c.recorder.SetVisitorTotals(next.Cumulative, next.TodayVisitors)
	c.recorder.ObserveRunDuration("visitorcount", c.now().Sub(started))
	logger.Info("Visitor count updated",
		slog.Int("count", next.Count),
		logfields.Cumulative(next.Cumulative),
		logfields.Visitors(next.TodayVisitors))
	return report, nil
}

// finalizeGapDays fetches every day in (lastCounted, today) that is not yet in the history,
// in ascending order. It returns false when a fetch failed and the loop was cut short.
func (c *Counter) finalizeGapDays(ctx context.Context, logger *slog.Logger, domain string, lastCounted, today time.Time, st *State, report *UpdateReport) bool {
	for d := lastCounted.AddDate(0, 0, 1); d.Before(today); d = d.AddDate(0, 0, 1) {
		day := formatDay(d)
		if _, done := st.DailyHistory[day]; done {
			logger.Debug("Day already finalized", logfields.Day(day))
			continue
		}

		visitors, err := c.source.DailyVisitors(ctx, domain, day).ToTuple()
		if err != nil {
			report.FailedDay = foundation.Some(day)
			report.FailedErr = err
			c.recorder.IncFetchFailure(metrics.FetchGapDay)
			logger.Warn("Fetch failed, will retry next run", logfields.Day(day), logfields.Error(err))
			return false
		}

		st.Cumulative += visitors
		st.DailyHistory[day] = visitors
		report.Finalized = append(report.Finalized, FinalizedDay{Day: day, Visitors: visitors})
		logger.Info("Day finalized", logfields.Day(day), logfields.Visitors(visitors))
	}
	return true
}

// initialLastCounted picks the starting point of a counter with no last_counted_date. A
// brand-new counter starts the day before deployment so that every day since is finalized.
// A record from an older format already displays a total covering past days, so it starts
// from today.
func (c *Counter) initialLastCounted(today time.Time, found bool) (time.Time, error) {
	if found || c.deployDate == "" {
		return today, nil
	}
	deploy, err := parseDay(c.deployDate)
	if err != nil {
		return time.Time{}, errors.ConfigError("deploy date is not a YYYY-MM-DD date").
			WithCause(err).
			WithContext("deploy_date", c.deployDate).
			Build()
	}
	start := deploy.AddDate(0, 0, -1)
	if start.After(today) {
		return today, nil
	}
	return start, nil
}
