package commands

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"git.home.luguber.info/inful/stmartin/internal/config"
	"git.home.luguber.info/inful/stmartin/internal/visitors"
)

func runStatus(g *Global, cfg *config.CounterConfig, store *visitors.JSONStore) error {
	st, found, err := store.Load()
	if err != nil {
		return err
	}
	if !found {
		st.Count = cfg.Baseline
	}
	return visitors.RenderStatus(g.Stdout, st, g.Now())
}

func runExport(g *Global, store *visitors.JSONStore, dir string) error {
	st, _, err := store.Load()
	if err != nil {
		return err
	}
	path, err := visitors.Export(st, dir, g.Now())
	if err != nil {
		return err
	}
	p := message.NewPrinter(language.English)
	_, err = p.Fprintf(g.Stdout, "Exported %d days to %s\n", len(st.DailyHistory), path)
	return err
}

func runUpdate(ctx context.Context, g *Global, counter *visitors.Counter, domain string) error {
	report, err := counter.Update(ctx, domain)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	w := g.Stdout
	st := report.State

	if report.Initialized {
		_, _ = p.Fprintf(w, "Initialized cumulative to %d\n", report.InitialCumulative)
	}
	for _, d := range report.Finalized {
		_, _ = p.Fprintf(w, "  %s: +%d visitors\n", d.Day, d.Visitors)
	}
	report.FailedDay.Match(func(day string) {
		_, _ = p.Fprintf(w, "API error on %s, will retry next run\n", day)
	}, func() {})
	if len(report.Finalized) > 0 {
		_, _ = p.Fprintf(w, "Finalized %d day(s), cumulative now: %d\n", len(report.Finalized), st.Cumulative)
	}
	if report.TodayFailed {
		_, _ = p.Fprintf(w, "API error for today, keeping previous: %d\n", st.TodayVisitors)
	}
	_, err = p.Fprintf(w, "Total: %d visitors (cumul:%d + today:%d)\n", st.Count, st.Cumulative, st.TodayVisitors)
	return err
}

