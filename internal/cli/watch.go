package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/probe"
	"github.com/aretw0/probe/internal/presentation/tui"
	"github.com/aretw0/probe/pkg/report"
)

// settleDelay lets editors finish writing before a rerun.
const settleDelay = 100 * time.Millisecond

// RunWatch runs the scenarios, then again whenever a scenario or the config
// file changes, until ctx is done. Failing scenarios do not stop the loop.
func RunWatch(ctx context.Context, opts RunOptions, env *engineEnv, format report.Format, logger *slog.Logger) error {
	if !opts.Quiet {
		tui.PrintBanner(opts.Stderr, probe.Version)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	paths := append([]string(nil), opts.Paths...)
	if opts.ConfigFile != "" {
		paths = append(paths, opts.ConfigFile)
	}
	dirs, err := watchDirs(paths)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	logger.Info("Starting Watcher", "dirs", dirs)

	relevant := func(name string) bool {
		return isScenarioFile(name) || (opts.ConfigFile != "" && filepath.Clean(name) == filepath.Clean(opts.ConfigFile))
	}

	for {
		err := runOnce(ctx, opts, env, format, logger)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil && !errors.Is(err, ErrScenarioFailed) {
			logger.Error("Run failed", "err", err)
			printSystemMessage(opts.Stderr, "Run failed: %v", err)
		}

		printSystemMessage(opts.Stderr, "Waiting for changes...")
		changed, err := waitForChange(ctx, watcher, relevant, logger)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		logger.Info("Change detected, triggering rerun", "file", changed)
		printSystemMessage(opts.Stderr, "Change detected in '%s'.", changed)
	}
}

// waitForChange blocks until a relevant file is written, created, renamed or
// removed, then drains the burst of events that usually follows.
func waitForChange(ctx context.Context, watcher *fsnotify.Watcher, relevant func(string) bool, logger *slog.Logger) (string, error) {
	const ops = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

	var changed string
	for changed == "" {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return "", errors.New("watcher closed")
			}
			if event.Op&ops != 0 && relevant(event.Name) {
				changed = event.Name
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return "", errors.New("watcher closed")
			}
			logger.Warn("Watcher error", "err", err)
		}
	}

	settle := time.NewTimer(settleDelay)
	defer settle.Stop()
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-settle.C:
			return changed, nil
		case _, ok := <-watcher.Events:
			if !ok {
				return changed, nil
			}
		}
	}
}

// watchDirs lists the directories to watch for paths: every directory under
// a directory path, hidden ones excepted, and the parent of a file path.
func watchDirs(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to open watch path: %w", err)
		}
		if !info.IsDir() {
			add(filepath.Dir(p))
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != p && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", p, err)
		}
	}
	return dirs, nil
}
