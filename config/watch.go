package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchOption configures Watch.
type WatchOption func(*watchOptions)

type watchOptions struct {
	logger *slog.Logger
}

// WithWatchLogger sets the logger reload events are written to. The default
// is slog.Default().
func WithWatchLogger(l *slog.Logger) WatchOption {
	return func(o *watchOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Watch reloads the configuration at path whenever the file changes and
// passes the result to onChange. Parse failures are reported through
// onChange as well so the caller can keep its previous configuration.
//
// The parent directory is watched so that editors replacing the file are
// noticed. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config, error), opts ...WatchOption) error {
	o := watchOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			o.logger.Debug("config: reloading", "path", abs, "op", ev.Op.String())
			cfg, err := Load(abs)
			onChange(cfg, err)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			o.logger.Warn("config: watcher error", "path", abs, "error", err)
		}
	}
}
