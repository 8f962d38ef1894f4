package site

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/stmartin/internal/config"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func testVars() *config.SiteVars {
	return &config.SiteVars{
		Domain:          "eglise.example.org",
		ContactEmail:    "contact@example.org",
		ContactPhone:    "06 12 34 56 78",
		ContactPhoneTel: "+33612345678",
		FacebookURL:     "https://facebook.com/eglise",
		GithubURL:       "https://github.com/eglise/site",
		Version:         "1.2.3",
		BuildMode:       config.BuildModeStaging,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
