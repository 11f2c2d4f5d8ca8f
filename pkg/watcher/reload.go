package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/philipparndt/geodraw/pkg/feature"
)

// Loader replaces its features with the content of an exchange document
type Loader interface {
	Replace(data []byte) ([]*feature.Feature, []error)
}

// Scheduler runs fn on the host event loop
type Scheduler func(fn func())

// Inline runs fn on the calling goroutine. It is only safe for loaders
// that are not touched by anything else.
func Inline(fn func()) { fn() }

// ReloadFunc is called on the host loop after every reload
type ReloadFunc func(path string, loaded []*feature.Feature, errs []error)

// Reloader keeps a loader in sync with a file
type Reloader struct {
	loader   Loader
	schedule Scheduler
	logger   *slog.Logger
	onReload ReloadFunc
	watcher  *FileWatcher
}

// ReloaderOptions configures a Reloader
type ReloaderOptions struct {
	Debounce time.Duration
	Schedule Scheduler
	Logger   *slog.Logger
	OnReload ReloadFunc
}

// NewReloader creates a reloader feeding loader
func NewReloader(loader Loader, opts ReloaderOptions) (*Reloader, error) {
	if opts.Schedule == nil {
		opts.Schedule = Inline
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 200 * time.Millisecond
	}

	fw, err := NewFileWatcher(opts.Debounce, opts.Logger)
	if err != nil {
		return nil, err
	}
	return &Reloader{
		loader:   loader,
		schedule: opts.Schedule,
		logger:   opts.Logger,
		onReload: opts.OnReload,
		watcher:  fw,
	}, nil
}

// Watch loads path once and then again on every change
func (r *Reloader) Watch(path string) error {
	if err := r.Reload(path); err != nil {
		return err
	}
	if err := r.watcher.Watch([]string{path}, func(changed string) {
		if err := r.Reload(changed); err != nil {
			r.logger.Warn("reload failed", "path", changed, "error", err)
		}
	}); err != nil {
		return err
	}
	r.watcher.Start()
	return nil
}

// Reload reads path and hands its content to the loader on the host loop
func (r *Reloader) Reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	r.schedule(func() {
		loaded, errs := r.loader.Replace(data)
		r.logger.Info("reloaded", "path", path, "features", len(loaded), "errors", len(errs))
		if r.onReload != nil {
			r.onReload(path, loaded, errs)
		}
	})
	return nil
}

// Close stops watching
func (r *Reloader) Close() error {
	return r.watcher.Close()
}
