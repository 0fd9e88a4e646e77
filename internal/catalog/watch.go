package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lamchakchan/fastmac/internal/logging"
)

// WatchDebounce is how long Watch waits after the last change before
// calling onChange. Editors often write a file in several steps.
var WatchDebounce = 300 * time.Millisecond

// Watch calls onChange whenever the catalog file at path is written,
// created, or replaced. It watches the parent directory so atomic
// rename-style saves are seen. Watching stops when ctx is done.
func Watch(ctx context.Context, path string, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	logging.Info("Watch", "Watching %s for changes", abs)

	go func() {
		defer w.Close()

		var (
			mu    sync.Mutex
			timer *time.Timer
		)
		defer func() {
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				logging.Debug("Watch", "Catalog file changed: %s (%s)", event.Name, event.Op)

				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(WatchDebounce, func() {
					if ctx.Err() == nil {
						onChange()
					}
				})
				mu.Unlock()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logging.Error("Watch", err, "fsnotify error")
			}
		}
	}()
	return nil
}
