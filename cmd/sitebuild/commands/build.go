package commands

import (
	"context"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/stmartin/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Production  bool   `short:"p" help:"Build for production (allows search engine crawlers)"`
	MetricsFile string `name:"metrics-file" help:"Write build metrics to this node_exporter textfile"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	rec, flush := textfileRecorder(g.logger(), b.MetricsFile)
	defer flush()
	return runBuild(context.Background(), g, root, b.Production, rec)
}

func runBuild(ctx context.Context, g *Global, root *CLI, production bool, rec metrics.Recorder) error {
	a, vars, err := newAssembler(g, root, production, rec)
	if err != nil {
		return err
	}

	out := g.stdout()
	_, _ = fmt.Fprintf(out, "Building site... (%s mode)\n", strings.ToUpper(a.Mode()))
	_, _ = fmt.Fprintf(out, "Domain: %s\n", vars.Domain)

	report, err := a.Build(ctx)
	if err != nil {
		return err
	}
	printReport(out, report)
	return nil
}
