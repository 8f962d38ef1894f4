package site

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/stmartin/internal/config"
	"git.home.luguber.info/inful/stmartin/internal/foundation/errors"
	"git.home.luguber.info/inful/stmartin/internal/logfields"
	"git.home.luguber.info/inful/stmartin/internal/metrics"
)

// Markers replaced by the shared components.
const (
	HeaderMarker = `<div id="header"></div>`
	FooterMarker = `<div id="footer"></div>`
)

const (
	componentsDir    = "components"
	robotsStaging    = "robots.txt.staging"
	robotsProduction = "robots.txt.production"
	sitemapFile      = "sitemap.xml"
)

// copyAsIs lists top-level source folders copied without processing.
var copyAsIs = []string{"assets", componentsDir}

// Options configures an Assembler.
type Options struct {
	SrcDir     string
	OutDir     string
	Production bool
}

// BuildReport summarizes a build.
type BuildReport struct {
	Mode          string
	OutDir        string
	Processed     []string
	Copied        []string
	CopiedFolders []string
	SEOFiles      []string
	Duration      time.Duration
}

// Assembler builds the site from SrcDir into OutDir.
type Assembler struct {
	opts     Options
	vars     map[string]string
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewAssembler creates an assembler substituting the given site variables. vars may be nil
// for operations that do not render pages, such as Clean.
func NewAssembler(opts Options, vars *config.SiteVars) *Assembler {
	placeholders := map[string]string{}
	if vars != nil {
		placeholders = vars.Placeholders()
	}
	return &Assembler{
		opts:     opts,
		vars:     placeholders,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
}

// WithRecorder attaches a metrics recorder.
func (a *Assembler) WithRecorder(r metrics.Recorder) *Assembler {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	a.recorder = r
	return a
}

// WithLogger replaces the logger.
func (a *Assembler) WithLogger(l *slog.Logger) *Assembler {
	a.logger = l
	return a
}

// Mode returns "production" or "staging".
func (a *Assembler) Mode() string {
	if a.opts.Production {
		return config.BuildModeProduction
	}
	return config.BuildModeStaging
}

// Clean removes the output directory. It reports whether anything was removed.
func (a *Assembler) Clean() (bool, error) {
	if _, err := os.Stat(a.opts.OutDir); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.RemoveAll(a.opts.OutDir); err != nil {
		return false, errors.FileSystemError("failed to remove output directory").
			WithCause(err).
			WithContext("path", a.opts.OutDir).
			Build()
	}
	a.logger.Debug("Cleaned output directory", logfields.Path(a.opts.OutDir))
	return true, nil
}

// Build regenerates the whole output directory.
func (a *Assembler) Build(ctx context.Context) (*BuildReport, error) {
	started := time.Now()
	report := &BuildReport{Mode: a.Mode(), OutDir: a.opts.OutDir}
	logger := a.logger.With(logfields.Mode(report.Mode))

	if st, err := os.Stat(a.opts.SrcDir); err != nil || !st.IsDir() {
		return nil, errors.BuildError("source directory not found").
			WithContext("path", a.opts.SrcDir).
			Build()
	}
	if _, err := a.Clean(); err != nil {
		return nil, err
	}

	header, footer, err := a.loadComponents()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(a.opts.OutDir, 0o755); err != nil {
		return nil, errors.FileSystemError("failed to create output directory").
			WithCause(err).
			WithContext("path", a.opts.OutDir).
			Build()
	}

	pages, err := a.sourcePages()
	if err != nil {
		return nil, err
	}
	fp := newFingerprinter(a.opts.SrcDir)
	for _, rel := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := a.readSource(rel)
		if err != nil {
			return nil, err
		}

		if strings.Contains(content, HeaderMarker) || strings.Contains(content, FooterMarker) {
			content = a.processPage(content, header, footer, rel, fp)
			report.Processed = append(report.Processed, rel)
			logger.Debug("Processed page", logfields.Path(rel))
		} else {
			content = ReplacePlaceholders(content, a.vars)
			report.Copied = append(report.Copied, rel)
			logger.Debug("Copied page", logfields.Path(rel))
		}
		if err := a.writeOutput(rel, content); err != nil {
			return nil, err
		}
	}

	for _, folder := range copyAsIs {
		copied, err := a.copyFolder(folder)
		if err != nil {
			return nil, err
		}
		if copied {
			report.CopiedFolders = append(report.CopiedFolders, folder)
		}
	}

	seo, err := a.writeSEOFiles()
	if err != nil {
		return nil, err
	}
	report.SEOFiles = seo

	report.Duration = time.Since(started)
	a.recorder.IncPages(metrics.PageProcessed, len(report.Processed))
	a.recorder.IncPages(metrics.PageCopied, len(report.Copied))
	a.recorder.ObserveRunDuration("sitebuild", report.Duration)
	logger.Info("Site built",
		logfields.Path(a.opts.OutDir),
		slog.Int("processed", len(report.Processed)),
		slog.Int("copied", len(report.Copied)),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

// processPage applies placeholders, injects the components, marks the active navigation link
// and fingerprints asset references, in that order.
func (a *Assembler) processPage(content, header, footer, rel string, fp *fingerprinter) string {
	out := ReplacePlaceholders(content, a.vars)
	out = strings.ReplaceAll(out, HeaderMarker, "<!-- HEADER -->\n"+header+"\n<!-- /HEADER -->")
	out = strings.ReplaceAll(out, FooterMarker, "<!-- FOOTER -->\n"+footer+"\n<!-- /FOOTER -->")

	base := filepath.Base(rel)
	out = MarkActive(out, strings.TrimSuffix(base, filepath.Ext(base)))
	return fp.apply(out)
}

func (a *Assembler) loadComponents() (string, string, error) {
	var parts [2]string
	for i, name := range []string{"header.html", "footer.html"} {
		rel := filepath.Join(componentsDir, name)
		data, err := os.ReadFile(filepath.Join(a.opts.SrcDir, rel))
		if err != nil {
			return "", "", errors.BuildError("component not found").
				WithCause(err).
				WithContext("path", filepath.Join(a.opts.SrcDir, rel)).
				Build()
		}
		parts[i] = ReplacePlaceholders(string(data), a.vars)
	}
	return parts[0], parts[1], nil
}

// sourcePages lists every .html file below SrcDir, relative and sorted, skipping the
// folders that are copied as-is.
func (a *Assembler) sourcePages() ([]string, error) {
	var pages []string
	err := filepath.WalkDir(a.opts.SrcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(a.opts.SrcDir, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if filepath.Dir(rel) == "." && slices.Contains(copyAsIs, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".html") {
			pages = append(pages, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.FileSystemError("failed to scan source directory").
			WithCause(err).
			WithContext("path", a.opts.SrcDir).
			Build()
	}
	slices.Sort(pages)
	return pages, nil
}

func (a *Assembler) readSource(rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(a.opts.SrcDir, rel))
	if err != nil {
		return "", errors.FileSystemError("failed to read source file").
			WithCause(err).
			WithContext("path", rel).
			Build()
	}
	return string(data), nil
}

func (a *Assembler) writeOutput(rel, content string) error {
	dst := filepath.Join(a.opts.OutDir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.FileSystemError("failed to create output directory").
			WithCause(err).
			WithContext("path", filepath.Dir(dst)).
			Build()
	}
	if err := os.WriteFile(dst, []byte(content), 0o644); err != nil {
		return errors.FileSystemError("failed to write output file").
			WithCause(err).
			WithContext("path", dst).
			Build()
	}
	return nil
}

// copyFolder copies a top-level source entry into the output unchanged. It reports false when
// the entry does not exist.
func (a *Assembler) copyFolder(name string) (bool, error) {
	src := filepath.Join(a.opts.SrcDir, name)
	st, err := os.Stat(src)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.FileSystemError("failed to stat source folder").WithCause(err).WithContext("path", src).Build()
	}

	dst := filepath.Join(a.opts.OutDir, name)
	if st.IsDir() {
		err = os.CopyFS(dst, os.DirFS(src))
	} else {
		var data []byte
		if data, err = os.ReadFile(src); err == nil {
			err = os.WriteFile(dst, data, st.Mode().Perm())
		}
	}
	if err != nil {
		return false, errors.FileSystemError("failed to copy folder").
			WithCause(err).
			WithContext("path", src).
			Build()
	}
	return true, nil
}

// writeSEOFiles writes robots.txt for the current mode and sitemap.xml, both with placeholders
// applied. Missing sources are skipped.
func (a *Assembler) writeSEOFiles() ([]string, error) {
	robotsSrc := robotsStaging
	if a.opts.Production {
		robotsSrc = robotsProduction
	}

	var written []string
	for _, f := range []struct{ src, dst string }{
		{robotsSrc, "robots.txt"},
		{sitemapFile, "sitemap.xml"},
	} {
		data, err := os.ReadFile(filepath.Join(a.opts.SrcDir, f.src))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.FileSystemError("failed to read SEO file").WithCause(err).WithContext("path", f.src).Build()
		}
		if err := a.writeOutput(f.dst, ReplacePlaceholders(string(data), a.vars)); err != nil {
			return nil, err
		}
		written = append(written, f.dst)
	}
	return written, nil
}
