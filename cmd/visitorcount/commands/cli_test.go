package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/stmartin/internal/foundation/errors"
)

var counterEnv = []string{
	"SA_DOMAIN", "DOMAIN", "VISITOR_DATA_DIR", "SA_API_URL", "VISITOR_BASELINE",
	"VISITOR_DEPLOY_DATE", "SA_TIMEOUT", "VISITOR_METRICS_FILE",
}

func clearCounterEnv(t *testing.T) {
	t.Helper()
	for _, key := range counterEnv {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

// statsServer answers per-day visitor counts; days listed in failing get a 502.
func statsServer(t *testing.T, counts map[string]int, failing ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		day := r.URL.Query().Get("start")
		for _, f := range failing {
			if f == day {
				http.Error(w, "upstream", http.StatusBadGateway)
				return
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]int{"visitors": counts[day]})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testGlobal(out io.Writer, today string) *Global {
	now, err := time.Parse(time.DateOnly, today)
	if err != nil {
		panic(err)
	}
	now = now.Add(9 * time.Hour)
	return &Global{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stdout: out,
		Now:    func() time.Time { return now },
	}
}

func TestRun_UpdateThenStatusThenExport(t *testing.T) {
	clearCounterEnv(t)
	srv := statsServer(t, map[string]int{"2026-02-08": 10, "2026-02-09": 15, "2026-02-10": 20, "2026-02-11": 5})
	t.Setenv("SA_API_URL", srv.URL)
	dataDir := t.TempDir()
	metricsFile := filepath.Join(t.TempDir(), "visitorcount.prom")

	var out bytes.Buffer
	cli := &CLI{Domain: "example.org", DataDir: dataDir, MetricsFile: metricsFile}
	require.NoError(t, cli.Run(testGlobal(&out, "2026-02-11")))

	assert.Contains(t, out.String(), "Initialized cumulative to 23,869\n")
	assert.Contains(t, out.String(), "  2026-02-09: +15 visitors\n")
	assert.Contains(t, out.String(), "Finalized 3 day(s), cumulative now: 23,914\n")
	assert.Contains(t, out.String(), "Total: 23,919 visitors (cumul:23,914 + today:5)\n")
	assert.FileExists(t, filepath.Join(dataDir, "visitor_count.json"))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "stmartin_visitor_count 23919")

	out.Reset()
	require.NoError(t, (&CLI{Status: true, DataDir: dataDir}).Run(testGlobal(&out, "2026-02-11")))
	assert.Contains(t, out.String(), "Total visitor count: 23,919")
	assert.Contains(t, out.String(), "Daily statistics (3 days tracked):")

	out.Reset()
	require.NoError(t, (&CLI{Export: true, DataDir: dataDir}).Run(testGlobal(&out, "2026-02-11")))
	exported := filepath.Join(dataDir, "exports", "visitors-2026-02.csv")
	assert.Equal(t, "Exported 3 days to "+exported+"\n", out.String())
	assert.FileExists(t, exported)
}

func TestRun_UpdateReportsFailures(t *testing.T) {
	clearCounterEnv(t)
	srv := statsServer(t, map[string]int{"2026-02-08": 10}, "2026-02-09", "2026-02-11")
	t.Setenv("SA_API_URL", srv.URL)
	t.Setenv("SA_DOMAIN", "example.org")

	var out bytes.Buffer
	require.NoError(t, (&CLI{DataDir: t.TempDir()}).Run(testGlobal(&out, "2026-02-11")))

	assert.Contains(t, out.String(), "API error on 2026-02-09, will retry next run\n")
	assert.Contains(t, out.String(), "API error for today, keeping previous: 0\n")
	assert.Contains(t, out.String(), "Total: 23,879 visitors (cumul:23,879 + today:0)\n")
	assert.NotContains(t, out.String(), "2026-02-10")
}

func TestRun_UpdateWithoutDomain(t *testing.T) {
	clearCounterEnv(t)
	dataDir := t.TempDir()

	err := (&CLI{DataDir: dataDir}).Run(testGlobal(io.Discard, "2026-02-11"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	assert.NoFileExists(t, filepath.Join(dataDir, "visitor_count.json"))
}

func TestRun_StatusWithoutStateShowsBaseline(t *testing.T) {
	clearCounterEnv(t)

	var out bytes.Buffer
	require.NoError(t, (&CLI{Status: true, DataDir: t.TempDir()}).Run(testGlobal(&out, "2026-02-11")))
	assert.Contains(t, out.String(), "Total visitor count: 23,869\n")
	assert.Contains(t, out.String(), "Last updated:      Never")
}

func TestRun_ConfigFile(t *testing.T) {
	clearCounterEnv(t)
	srv := statsServer(t, map[string]int{"2026-02-11": 3})
	t.Setenv("STATS_URL", srv.URL)
	dataDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "visitorcount.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("domain: example.org\napi_url: ${STATS_URL}\nbaseline: 100\ndeploy_date: \"2026-02-11\"\n"), 0o600))

	var out bytes.Buffer
	require.NoError(t, (&CLI{Config: cfgPath, DataDir: dataDir}).Run(testGlobal(&out, "2026-02-11")))
	assert.Contains(t, out.String(), "Total: 103 visitors (cumul:100 + today:3)\n")
}

func TestRun_DataDirFallsBackToProjectDocker(t *testing.T) {
	clearCounterEnv(t)
	root := t.TempDir()

	cli := &CLI{Export: true, ProjectRoot: root, MountDir: filepath.Join(root, "no-volume")}
	require.NoError(t, cli.Run(testGlobal(io.Discard, "2026-02-11")))
	assert.FileExists(t, filepath.Join(root, "docker", "exports", "visitors-2026-02.csv"))
}

func TestCLIParsing(t *testing.T) {
	t.Run("status and export are exclusive", func(t *testing.T) {
		var cli CLI
		parser, err := kong.New(&cli, kong.Vars{"version": "test"})
		require.NoError(t, err)
		_, err = parser.Parse([]string{"--env-dir", t.TempDir(), "--status", "--export"})
		require.Error(t, err)
	})

	t.Run("domain flag", func(t *testing.T) {
		var cli CLI
		parser, err := kong.New(&cli, kong.Vars{"version": "test"})
		require.NoError(t, err)
		_, err = parser.Parse([]string{"--env-dir", t.TempDir(), "--domain", "example.org"})
		require.NoError(t, err)
		assert.Equal(t, "example.org", cli.Domain)
		assert.False(t, cli.Status)
		assert.Equal(t, "/data", cli.MountDir)
	})
}
