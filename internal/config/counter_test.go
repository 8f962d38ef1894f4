package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/stmartin/internal/foundation/errors"
)

func clearCounterEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SA_DOMAIN", "DOMAIN", "VISITOR_DATA_DIR", "SA_API_URL", "VISITOR_BASELINE", "VISITOR_DEPLOY_DATE", "SA_TIMEOUT", "VISITOR_METRICS_FILE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadCounter_Defaults(t *testing.T) {
	clearCounterEnv(t)

	cfg, err := LoadCounter(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCounterConfig(), *cfg)
	assert.Equal(t, 23869, cfg.Baseline)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoadCounter_FileThenEnvironment(t *testing.T) {
	clearCounterEnv(t)
	t.Setenv("STMARTIN_DATA", "/srv/counter")
	path := filepath.Join(t.TempDir(), "counter.yaml")
	writeFile(t, path, `
domain: from-file.example.org
data_dir: ${STMARTIN_DATA}
baseline: 100
timeout: 3s
`)

	cfg, err := LoadCounter(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file.example.org", cfg.Domain)
	assert.Equal(t, "/srv/counter", cfg.DataDir)
	assert.Equal(t, 100, cfg.Baseline)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, DefaultDeployDate, cfg.DeployDate)

	t.Setenv("SA_DOMAIN", "from-env.example.org")
	t.Setenv("VISITOR_BASELINE", "0")
	cfg, err = LoadCounter(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.example.org", cfg.Domain)
	assert.Equal(t, 0, cfg.Baseline)
}

func TestLoadCounter_DomainFallback(t *testing.T) {
	clearCounterEnv(t)
	t.Setenv("DOMAIN", "site.example.org")

	cfg, err := LoadCounter("")
	require.NoError(t, err)
	assert.Equal(t, "site.example.org", cfg.Domain)

	t.Setenv("SA_DOMAIN", "analytics.example.org")
	cfg, err = LoadCounter("")
	require.NoError(t, err)
	assert.Equal(t, "analytics.example.org", cfg.Domain)
}

func TestLoadCounter_Invalid(t *testing.T) {
	clearCounterEnv(t)

	t.Run("bad deploy date", func(t *testing.T) {
		t.Setenv("VISITOR_DEPLOY_DATE", "08/02/2026")
		_, err := LoadCounter("")
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "counter.yaml")
		writeFile(t, path, "domain: [unterminated")
		_, err := LoadCounter(path)
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	})
}

func TestResolveDataDir(t *testing.T) {
	mount := t.TempDir()

	assert.Equal(t, "/explicit", ResolveDataDir("/explicit", mount, "/project"))
	assert.Equal(t, mount, ResolveDataDir("", mount, "/project"))
	assert.Equal(t, filepath.Join("/project", "docker"), ResolveDataDir("", filepath.Join(mount, "absent"), "/project"))

	paths := NewCounterPaths("/data")
	assert.Equal(t, filepath.Join("/data", "visitor_count.json"), paths.StateFile)
	assert.Equal(t, filepath.Join("/data", "exports"), paths.ExportsDir)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "STMARTIN_TEST_A=from-env\nSTMARTIN_TEST_B=from-env\n")
	writeFile(t, filepath.Join(dir, ".env.local"), "STMARTIN_TEST_A=from-local\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("STMARTIN_TEST_A")
		_ = os.Unsetenv("STMARTIN_TEST_B")
	})

	loaded, err := LoadDotEnv(dir)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.Equal(t, "from-local", os.Getenv("STMARTIN_TEST_A"))
	assert.Equal(t, "from-env", os.Getenv("STMARTIN_TEST_B"))

	loaded, err = LoadDotEnv(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
