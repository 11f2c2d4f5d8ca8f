package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/geodraw/internal/config"
	"github.com/philipparndt/geodraw/internal/document"
	"github.com/philipparndt/geodraw/pkg/events"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/measure"
	"github.com/philipparndt/geodraw/pkg/plotter"
	"github.com/philipparndt/geodraw/pkg/style"
	"github.com/philipparndt/geodraw/pkg/viewer"
	"github.com/philipparndt/geodraw/pkg/watcher"
)

type App struct {
	window   fyne.Window
	view     *viewer.View
	plotter  *plotter.Plotter
	doc      *document.Document
	reloader *watcher.Reloader
	config   *config.Config
	logger   *slog.Logger

	kindSelect  *widget.Select
	autoReload  *widget.Check
	featureInfo *FeatureInfo
}

type FeatureInfo struct {
	fileLabel    *widget.Label
	countLabel   *widget.Label
	kindLabel    *widget.Label
	lengthLabel  *widget.Label
	areaLabel    *widget.Label
	heightLabel  *widget.Label
	skippedLabel *widget.Label
}

func main() {
	logger := slog.Default()
	cfg, err := config.Load("")
	if err != nil {
		logger.Warn("using built-in configuration", "error", err)
		cfg = config.Default()
	}

	a := app.New()
	gui, err := newGUI(a, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Check if file was provided as argument
	if len(os.Args) > 1 {
		gui.openFile(os.Args[1])
	}

	gui.window.Resize(fyne.NewSize(1200, 800))
	gui.window.ShowAndRun()
}

func newGUI(fa fyne.App, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		window: fa.NewWindow("geodraw"),
		view:   viewer.NewView(cfg.Center()),
		config: cfg,
		logger: logger,
	}

	opts, err := cfg.PlotterOptions(logger)
	if err != nil {
		return nil, err
	}
	a.plotter, err = plotter.New(a.view.Host(), opts)
	if err != nil {
		return nil, err
	}
	a.plotter.Events().OnAny(func(events.Event) { a.updateInfo() })

	a.setupMainUI()
	a.window.SetOnClosed(a.close)
	return a, nil
}

func (a *App) setupMainUI() {
	a.featureInfo = &FeatureInfo{
		fileLabel:    widget.NewLabel("File: none"),
		countLabel:   widget.NewLabel("Features: 0"),
		kindLabel:    widget.NewLabel("Selected: none"),
		lengthLabel:  widget.NewLabel("Length: -"),
		areaLabel:    widget.NewLabel("Area: -"),
		heightLabel:  widget.NewLabel("Height: -"),
		skippedLabel: widget.NewLabel(""),
	}
	a.featureInfo.lengthLabel.TextStyle = fyne.TextStyle{Bold: true}

	kinds := a.plotter.Registry().Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}
	a.kindSelect = widget.NewSelect(names, nil)
	a.kindSelect.SetSelected(style.KindPolygon.String())

	drawButton := widget.NewButton("Draw", func() {
		a.startDraw()
	})
	cancelButton := widget.NewButton("Cancel", func() {
		a.plotter.StopDraw(true)
		a.plotter.StopEdit()
	})
	deleteButton := widget.NewButton("Delete Selected", func() {
		if id, ok := a.plotter.Editing(); ok {
			a.plotter.Delete(id)
		}
	})
	clearButton := widget.NewButton("Delete All", func() {
		dialog.ShowConfirm("Delete All", "Remove every feature?", func(ok bool) {
			if ok {
				a.plotter.DeleteAll()
			}
		}, a.window)
	})
	fitButton := widget.NewButton("Fit View", func() {
		a.view.FitEntities()
	})

	openButton := widget.NewButton("Open File", func() {
		a.showFileDialog()
	})
	saveButton := widget.NewButton("Save", func() {
		a.save()
	})
	saveAsButton := widget.NewButton("Save As", func() {
		a.showSaveDialog()
	})

	a.autoReload = widget.NewCheck("Reload on change", func(checked bool) {
		a.setWatching(checked)
	})

	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• Pick a kind and press Draw\n" +
			"• Click to add points, double click to finish\n" +
			"• Right click removes the last point\n" +
			"• Click a feature to edit it, drag its handles\n" +
			"• Shift+Drag rotates, Ctrl+Drag pans, scroll zooms",
	)
	instructions.Wrapping = fyne.TextWrapWord

	infoPanel := container.NewVBox(
		widget.NewLabel("Document:"),
		widget.NewSeparator(),
		a.featureInfo.fileLabel,
		a.featureInfo.countLabel,
		a.featureInfo.skippedLabel,
		openButton,
		container.NewGridWithColumns(2, saveButton, saveAsButton),
		a.autoReload,
		widget.NewSeparator(),
		widget.NewLabel("Draw:"),
		widget.NewSeparator(),
		a.kindSelect,
		container.NewGridWithColumns(2, drawButton, cancelButton),
		deleteButton,
		clearButton,
		fitButton,
		widget.NewSeparator(),
		widget.NewLabel("Measurements:"),
		widget.NewSeparator(),
		a.featureInfo.kindLabel,
		a.featureInfo.lengthLabel,
		a.featureInfo.areaLabel,
		a.featureInfo.heightLabel,
		widget.NewSeparator(),
		instructions,
	)

	infoScroll := container.NewVScroll(infoPanel)
	infoScroll.SetMinSize(fyne.NewSize(300, 0))

	content := container.NewBorder(
		nil,        // top
		nil,        // bottom
		nil,        // left
		infoScroll, // right
		a.view,     // center
	)

	a.window.SetContent(content)
}

func (a *App) selectedKind() style.Kind {
	return style.Kind(a.kindSelect.Selected)
}

func (a *App) startDraw() {
	if _, err := a.plotter.StartDraw(a.selectedKind(), nil, nil); err != nil {
		dialog.ShowError(err, a.window)
	}
}

func (a *App) showFileDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		a.openFile(reader.URI().Path())
	}, a.window)
}

func (a *App) showSaveDialog() {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		a.saveAs(path)
	}, a.window)
}

// openFile replaces the scene with the content of filename
func (a *App) openFile(filename string) {
	a.setWatching(false)
	a.plotter.DeleteAll()

	a.doc = document.New(filename, a.plotter, a.config.Snapshot.Enabled, a.logger)
	_, errs := a.doc.Open()
	a.showSkipped(errs)
	a.view.FitEntities()
	a.updateInfo()

	if a.autoReload.Checked {
		a.setWatching(true)
	}
}

func (a *App) save() {
	if a.doc == nil {
		a.showSaveDialog()
		return
	}
	if errs := a.doc.Save(); len(errs) > 0 {
		dialog.ShowError(fmt.Errorf("saved with errors: %w", errors.Join(errs...)), a.window)
	}
}

func (a *App) saveAs(path string) {
	if a.doc == nil {
		a.doc = document.New(path, a.plotter, a.config.Snapshot.Enabled, a.logger)
	}
	watching := a.reloader != nil
	a.setWatching(false)
	if errs := a.doc.SaveAs(path); len(errs) > 0 {
		dialog.ShowError(fmt.Errorf("saved with errors: %w", errors.Join(errs...)), a.window)
	}
	if watching {
		a.setWatching(true)
	}
	a.updateInfo()
}

// setWatching starts or stops reloading the document on change
func (a *App) setWatching(enabled bool) {
	if a.reloader != nil {
		a.reloader.Close()
		a.reloader = nil
	}
	if !enabled || a.doc == nil {
		return
	}
	if _, err := os.Stat(a.doc.Path); err != nil {
		return
	}

	debounce, err := a.config.Debounce()
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	r, err := a.doc.Watch(watcher.ReloaderOptions{
		Debounce: debounce,
		Schedule: fyne.Do,
		Logger:   a.logger,
		OnReload: func(path string, loaded []*feature.Feature, errs []error) {
			if loaded != nil || errs != nil {
				a.showSkipped(errs)
			}
			a.updateInfo()
		},
	})
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to watch %s: %w", a.doc.Path, err), a.window)
		return
	}
	a.reloader = r
}

func (a *App) showSkipped(errs []error) {
	if len(errs) == 0 {
		a.featureInfo.skippedLabel.SetText("")
		return
	}
	a.featureInfo.skippedLabel.SetText(fmt.Sprintf("Skipped: %d", len(errs)))
	for _, err := range errs {
		a.logger.Warn("feature skipped", "error", err)
	}
}

// updateInfo shows the document and the measurements of the feature being
// drawn or edited
func (a *App) updateInfo() {
	if a.doc != nil {
		a.featureInfo.fileLabel.SetText(fmt.Sprintf("File: %s", a.doc.Path))
	}
	a.featureInfo.countLabel.SetText(fmt.Sprintf("Features: %d", a.plotter.Store().Len()))

	f := a.plotter.Drawing()
	if f == nil {
		if id, ok := a.plotter.Editing(); ok {
			f, _ = a.plotter.Store().Get(id)
		}
	}
	if f == nil {
		a.featureInfo.kindLabel.SetText("Selected: none")
		a.featureInfo.lengthLabel.SetText("Length: -")
		a.featureInfo.areaLabel.SetText("Area: -")
		a.featureInfo.heightLabel.SetText("Height: -")
		return
	}

	r := measure.Measure(f, a.plotter.Ellipsoid())
	a.featureInfo.kindLabel.SetText(fmt.Sprintf("Selected: %s (%d points)", r.Kind, r.Points))
	label := "Length"
	if r.Closed() {
		label = "Perimeter"
	}
	a.featureInfo.lengthLabel.SetText(fmt.Sprintf("%s: %s", label, measure.FormatLength(r.Length)))
	if r.Area > 0 {
		a.featureInfo.areaLabel.SetText(fmt.Sprintf("Area: %s", measure.FormatArea(r.Area)))
	} else {
		a.featureInfo.areaLabel.SetText("Area: -")
	}
	if r.Height != 0 {
		a.featureInfo.heightLabel.SetText(fmt.Sprintf("Height: %s", measure.FormatLength(r.Height)))
	} else {
		a.featureInfo.heightLabel.SetText("Height: -")
	}
}

func (a *App) close() {
	a.setWatching(false)
	a.plotter.Close()
}
