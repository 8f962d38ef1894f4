package site

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWatchedSource(t *testing.T) {
	assert.True(t, isWatchedSource("/src/index.html"))
	assert.True(t, isWatchedSource("/src/assets/css/site.CSS"))
	assert.False(t, isWatchedSource("/src/assets/images/logo.png"))
	assert.False(t, isWatchedSource("/src/.index.html.swp"))
	assert.False(t, isWatchedSource("/src/index.html~"))
	assert.False(t, isWatchedSource("/src/#index.html#"))
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	req, trigger := newDebouncer(20 * time.Millisecond)
	for range 5 {
		trigger()
	}

	select {
	case <-req:
	case <-time.After(time.Second):
		t.Fatal("expected a rebuild request")
	}
	select {
	case <-req:
		t.Fatal("burst must produce a single request")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestWatcherRebuildsOnChange(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string]string{"index.html": "<p>v1</p>"})

	rebuilt := make(chan struct{}, 4)
	w := NewWatcher(src, func(context.Context) error {
		rebuilt <- struct{}{}
		return nil
	}).WithDebounce(20 * time.Millisecond).WithLogger(discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Keep touching the file until the watcher has registered and picked up a change.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(src, "index.html"), []byte("<p>v2</p>"), 0o644)
		select {
		case <-rebuilt:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing"), func(context.Context) error { return nil })
	require.Error(t, w.Run(context.Background()))
}
