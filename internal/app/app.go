// Package app is the raylib viewport of geodraw. It hosts a plotter on an
// orbiting 3D view of the local tangent plane.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/geodraw/internal/config"
	"github.com/philipparndt/geodraw/internal/document"
	"github.com/philipparndt/geodraw/pkg/plotter"
	"github.com/philipparndt/geodraw/pkg/scene"
	"github.com/philipparndt/geodraw/pkg/style"
	"github.com/philipparndt/geodraw/pkg/watcher"
)

// Options configure the viewport application
type Options struct {
	// Path is the GeoJSON file to author; empty starts a scratch scene
	Path   string
	Config *config.Config
	Logger *slog.Logger
	// Watch reloads Path when it changes on disk
	Watch bool
}

type App struct {
	Camera      *orbitCamera
	Host        *scene.Viewport
	Plotter     *plotter.Plotter
	View        ViewSettings
	Interaction InteractionState
	Document    DocumentState
	UI          UIState

	kinds  []style.Kind
	config *config.Config
	logger *slog.Logger
	queue  taskQueue
}

// New creates the application state without opening a window
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	camera := newOrbitCamera(1000)
	a := &App{
		Camera: camera,
		Host:   scene.NewViewport(cfg.Center(), camera),
		View:   ViewSettings{showGrid: true, showHelp: true},
		config: cfg,
		logger: logger,
	}
	a.Host.Schedule = a.queue.Post

	popts, err := cfg.PlotterOptions(logger)
	if err != nil {
		return nil, err
	}
	a.Plotter, err = plotter.New(a.Host, popts)
	if err != nil {
		return nil, fmt.Errorf("failed to create plotter: %w", err)
	}
	a.kinds = a.Plotter.Registry().Kinds()
	a.Plotter.Events().OnAny(a.onEvent)

	if opts.Path != "" {
		a.Document.doc = document.New(opts.Path, a.Plotter, cfg.Snapshot.Enabled, logger)
		loaded, errs := a.Document.doc.Open()
		a.Document.loadErrors = len(errs)
		a.logger.Info("opened", "path", opts.Path, "features", len(loaded), "errors", len(errs))
		a.fit()
	}
	return a, nil
}

// Run opens the window and runs the render loop until it is closed
func Run(opts Options) error {
	a, err := New(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.Watch {
		if err := a.watch(); err != nil {
			a.logger.Warn("auto-reload will not be available", "error", err)
		}
	}

	title := "geodraw"
	if a.Document.doc != nil {
		title = fmt.Sprintf("geodraw - %s", filepath.Base(a.Document.doc.Path))
	}
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(1400, 900, title)
	rl.SetTargetFPS(60)
	defer rl.CloseWindow()

	a.UI.font = rl.GetFontDefault()

	for {
		// ESC belongs to the sessions
		if rl.WindowShouldClose() && !rl.IsKeyPressed(rl.KeyEscape) {
			break
		}

		a.queue.Drain()
		a.handleInput()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(15, 18, 25, 255))
		a.drawScene()
		a.drawUI()
		rl.EndDrawing()
	}
	return nil
}

// Close stops watching and releases the plotter
func (a *App) Close() {
	if a.Document.reloader != nil {
		a.Document.reloader.Close()
		a.Document.reloader = nil
	}
	a.Plotter.Close()
}

func (a *App) watch() error {
	doc := a.Document.doc
	if doc == nil {
		return nil
	}
	if _, err := os.Stat(doc.Path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s does not exist yet", doc.Path)
	}
	debounce, err := a.config.Debounce()
	if err != nil {
		return err
	}
	r, err := doc.Watch(watcher.ReloaderOptions{
		Debounce: debounce,
		Schedule: a.queue.Post,
		Logger:   a.logger,
		OnReload: a.onReload,
	})
	if err != nil {
		return err
	}
	a.Document.reloader = r
	return nil
}
