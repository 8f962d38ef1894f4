package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/stmartin/internal/analytics"
	"git.home.luguber.info/inful/stmartin/internal/config"
	"git.home.luguber.info/inful/stmartin/internal/foundation/errors"
	"git.home.luguber.info/inful/stmartin/internal/logfields"
	"git.home.luguber.info/inful/stmartin/internal/metrics"
	"git.home.luguber.info/inful/stmartin/internal/visitors"
)

// Global is shared state injected into Run.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
	Now    func() time.Time
}

// CLI is the visitorcount command line. Without --status or --export it updates the count.
type CLI struct {
	Status bool   `xor:"action" help:"Show current count and recent stats"`
	Export bool   `xor:"action" help:"Export monthly CSV snapshot"`
	Domain string `help:"Simple Analytics domain (falls back to SA_DOMAIN, then DOMAIN)"`

	Config      string           `short:"c" name:"config" type:"path" help:"Optional YAML counter configuration"`
	DataDir     string           `name:"data-dir" type:"path" help:"Directory holding visitor_count.json (overrides VISITOR_DATA_DIR)"`
	ProjectRoot string           `name:"project-root" default:"." type:"path" help:"Project root; <root>/docker is used when no data volume is mounted"`
	MountDir    string           `name:"mount-dir" default:"/data" hidden:"" help:"Mounted data volume"`
	EnvDir      string           `name:"env-dir" default:"." type:"path" help:"Directory holding .env and .env.local"`
	MetricsFile string           `name:"metrics-file" help:"Write run metrics to this node_exporter textfile"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`
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

// Run dispatches to status, export or update.
func (c *CLI) Run(g *Global) error {
	g = g.withDefaults()

	cfg, err := config.LoadCounter(c.Config)
	if err != nil {
		return err
	}
	c.applyOverrides(cfg)

	paths := config.NewCounterPaths(config.ResolveDataDir(cfg.DataDir, c.MountDir, c.ProjectRoot))
	g.Logger.Debug("Resolved counter paths", logfields.Path(paths.StateFile), slog.String("exports", paths.ExportsDir))
	store := visitors.NewJSONStore(paths.StateFile)

	switch {
	case c.Status:
		return runStatus(g, cfg, store)
	case c.Export:
		return runExport(g, store, paths.ExportsDir)
	}

	rec, flush := textfileRecorder(g.Logger, cfg.MetricsFile)
	defer flush()

	counter := visitors.NewCounter(cfg, analytics.NewClient(cfg.APIURL, cfg.Timeout), store).
		WithClock(g.Now).
		WithLogger(g.Logger).
		WithRecorder(rec)
	return runUpdate(context.Background(), g, counter, cfg.Domain)
}

// applyOverrides layers command-line flags over file and environment values.
func (c *CLI) applyOverrides(cfg *config.CounterConfig) {
	if c.Domain != "" {
		cfg.Domain = c.Domain
	}
	if c.DataDir != "" {
		cfg.DataDir = c.DataDir
	}
	if c.MetricsFile != "" {
		cfg.MetricsFile = c.MetricsFile
	}
}

func (g *Global) withDefaults() *Global {
	out := Global{}
	if g != nil {
		out = *g
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	if out.Stdout == nil {
		out.Stdout = os.Stdout
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	return &out
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
