package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors path for changes and calls onChange with the newly loaded
// Config each time the file is written or replaced. It runs until ctx is
// cancelled.
//
// The parent directory is watched rather than the file itself, so editors
// that save by writing a temp file and renaming it over path keep
// triggering reloads. If a reload fails (e.g., invalid YAML), the error is
// logged and onChange is not called.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(target)
			if err != nil {
				slog.Error("config: reload failed, keeping previous config",
					"path", target, "err", err)
				continue
			}

			slog.Info("config: reloaded", "path", target)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
