package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/stmartin/internal/config"
	"git.home.luguber.info/inful/stmartin/internal/foundation/errors"
	"git.home.luguber.info/inful/stmartin/internal/logfields"
	"git.home.luguber.info/inful/stmartin/internal/metrics"
	"git.home.luguber.info/inful/stmartin/internal/site"
)

// Global is shared with every subcommand.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`
	Src     string           `name:"src" default:"src" type:"path" help:"Source directory"`
	Output  string           `short:"o" name:"output" default:"dist" type:"path" help:"Output directory"`
	EnvDir  string           `name:"env-dir" default:"." type:"path" help:"Directory holding .env and .env.local"`

	Build BuildCmd `cmd:"" default:"withargs" help:"Build the site (default)"`
	Clean CleanCmd `cmd:"" help:"Remove the output directory"`
	Watch WatchCmd `cmd:"" help:"Build, then rebuild whenever HTML or CSS sources change"`
}

// AfterApply runs after flag parsing; setup logging and load dotenv files once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if _, err := config.LoadDotEnv(c.EnvDir); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to load environment file").
			Fatal().
			WithContext("dir", c.EnvDir).
			Build()
	}
	return nil
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// newAssembler loads the site variables and prepares an assembler for root's directories.
func newAssembler(g *Global, root *CLI, production bool, rec metrics.Recorder) (*site.Assembler, *config.SiteVars, error) {
	vars, err := config.LoadSiteVars(production)
	if err != nil {
		return nil, nil, err
	}
	a := site.NewAssembler(site.Options{
		SrcDir:     root.Src,
		OutDir:     root.Output,
		Production: production,
	}, vars).
		WithLogger(g.logger()).
		WithRecorder(rec)
	return a, vars, nil
}

// textfileRecorder returns a Prometheus recorder when path is set, and a flush func writing it.
func textfileRecorder(logger *slog.Logger, path string) (metrics.Recorder, func()) {
	if path == "" {
		return metrics.NoopRecorder{}, func() {}
	}
	rec := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
	return rec, func() {
		if err := rec.WriteTextfile(path); err != nil {
			logger.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
		}
	}
}

func printReport(w io.Writer, r *site.BuildReport) {
	for _, p := range r.Processed {
		_, _ = fmt.Fprintf(w, "  Processed: %s\n", p)
	}
	for _, p := range r.Copied {
		_, _ = fmt.Fprintf(w, "  Copied: %s\n", p)
	}
	for _, f := range r.CopiedFolders {
		_, _ = fmt.Fprintf(w, "  Copied folder: %s/\n", f)
	}
	for _, f := range r.SEOFiles {
		if f == "robots.txt" {
			_, _ = fmt.Fprintf(w, "  Processed: %s (%s)\n", f, r.Mode)
			continue
		}
		_, _ = fmt.Fprintf(w, "  Processed: %s\n", f)
	}

	_, _ = fmt.Fprintf(w, "\nBuild complete!\n")
	_, _ = fmt.Fprintf(w, "  - Processed %d HTML files\n", len(r.Processed))
	_, _ = fmt.Fprintf(w, "  - Output: %s/\n", r.OutDir)
	if r.Mode != config.BuildModeProduction {
		_, _ = fmt.Fprintf(w, "\nNote: Staging mode - search engines blocked via robots.txt\n")
	}
}
