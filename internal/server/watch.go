package server

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long the watcher waits after the last event before
// rebuilding, so an editor save (write + rename + chmod) triggers one build.
const debounce = 250 * time.Millisecond

// Watch watches the given directories recursively and calls rebuild after
// each settled burst of changes. It returns when the context is cancelled.
func Watch(ctx context.Context, dirs []string, rebuild func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := addRecursive(watcher, dir); err != nil {
			return err
		}
	}

	var timer *time.Timer
	fired := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			// New directories need their own watch.
			if event.Has(fsnotify.Create) {
				_ = addRecursive(watcher, event.Name)
			}
			slog.Debug("Change detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.AfterFunc(debounce, func() {
					select {
					case fired <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		case <-fired:
			timer = nil
			rebuild()
		}
	}
}

// addRecursive registers dir and every subdirectory. A plain file is watched
// directly; missing paths are ignored so callers can pass candidates blindly.
func addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			if path == dir {
				return watcher.Add(path)
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
