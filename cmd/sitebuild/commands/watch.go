package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/stmartin/internal/metrics"
	"git.home.luguber.info/inful/stmartin/internal/site"
)

// WatchCmd builds once, then rebuilds on every source change until interrupted.
type WatchCmd struct {
	Production bool          `short:"p" help:"Build for production (allows search engine crawlers)"`
	Debounce   time.Duration `name:"debounce" default:"300ms" help:"Delay letting bursts of changes settle before rebuilding"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return w.run(ctx, g, root)
}

func (w *WatchCmd) run(ctx context.Context, g *Global, root *CLI) error {
	rec := metrics.NoopRecorder{}
	if err := runBuild(ctx, g, root, w.Production, rec); err != nil {
		return err
	}

	out := g.stdout()
	_, _ = fmt.Fprintln(out, "Watching for changes... (Ctrl+C to stop)")
	watcher := site.NewWatcher(root.Src, func(ctx context.Context) error {
		_, _ = fmt.Fprintf(out, "\n[%s] Changes detected\n", time.Now().Format(time.TimeOnly))
		return runBuild(ctx, g, root, w.Production, rec)
	}).
		WithDebounce(w.Debounce).
		WithLogger(g.logger())
	return watcher.Run(ctx)
}
