package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/probe/internal/logging"
)

func TestWatchDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "checkout", "mobile"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cache"), 0755))
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("a: b"), 0644))

	dirs, err := watchDirs([]string{root, cfg, root})
	require.NoError(t, err)
	assert.Equal(t, []string{
		root,
		filepath.Join(root, "checkout"),
		filepath.Join(root, "checkout", "mobile"),
		filepath.Dir(cfg),
	}, dirs)
}

func TestWaitForChange(t *testing.T) {
	dir := t.TempDir()
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()
	require.NoError(t, watcher.Add(dir))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)
		_ = os.WriteFile(filepath.Join(dir, "shop.yaml"), []byte("name: shop"), 0644)
	}()

	changed, err := waitForChange(ctx, watcher, isScenarioFile, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shop.yaml"), changed)
}

func TestWaitForChange_Cancelled(t *testing.T) {
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = waitForChange(ctx, watcher, isScenarioFile, logging.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}
