package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/philipparndt/geodraw/pkg/events"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/style"
)

var errNoDocument = errors.New("no document open")

func (a *App) setStatus(format string, args ...any) {
	a.UI.status = fmt.Sprintf(format, args...)
	a.UI.statusAt = time.Now()
}

func (a *App) onEvent(e events.Event) {
	switch e.Type {
	case events.DrawStart:
		a.setStatus("drawing %s", e.Kind)
	case events.DrawCreated:
		a.setStatus("created %s", e.Kind)
	case events.EditStart:
		a.setStatus("editing %s", e.Kind)
	case events.EditStop:
		a.setStatus("")
	case events.Delete:
		a.setStatus("deleted %s", e.Kind)
	}
}

func (a *App) onReload(path string, loaded []*feature.Feature, errs []error) {
	a.Document.lastReload = time.Now()
	if loaded == nil && errs == nil {
		return
	}
	a.Document.loadErrors = len(errs)
	a.setStatus("reloaded %d features", len(loaded))
}

// selectedKind returns the kind drawn by startDraw
func (a *App) selectedKind() style.Kind {
	if len(a.kinds) == 0 {
		return ""
	}
	return a.kinds[a.Interaction.kindIndex]
}

// cycleKind moves the kind selection by step, wrapping around
func (a *App) cycleKind(step int) {
	n := len(a.kinds)
	if n == 0 {
		return
	}
	a.Interaction.kindIndex = ((a.Interaction.kindIndex+step)%n + n) % n
}

func (a *App) selectKind(index int) {
	if index >= 0 && index < len(a.kinds) {
		a.Interaction.kindIndex = index
	}
}

// startDraw begins drawing the selected kind with its default style
func (a *App) startDraw() error {
	kind := a.selectedKind()
	if _, err := a.Plotter.StartDraw(kind, nil, nil); err != nil {
		a.setStatus("cannot draw %s: %v", kind, err)
		return err
	}
	return nil
}

// cancel discards the running drawing or ends editing
func (a *App) cancel() {
	if a.Plotter.HasDrawing() {
		a.Plotter.StopDraw(true)
		a.setStatus("drawing discarded")
		return
	}
	a.Plotter.StopEdit()
}

// deleteEdited removes the feature being edited
func (a *App) deleteEdited() bool {
	id, ok := a.Plotter.Editing()
	if !ok {
		return false
	}
	if err := a.Plotter.Delete(id); err != nil {
		a.logger.Warn("delete failed", "id", id, "error", err)
		return false
	}
	return true
}

// save writes the document and its side-car
func (a *App) save() error {
	if a.Document.doc == nil {
		a.setStatus("nothing to save to")
		return errNoDocument
	}
	errs := a.Document.doc.Save()
	for _, err := range errs {
		a.logger.Warn("save", "error", err)
	}
	if len(errs) > 0 {
		a.setStatus("saved with %d errors", len(errs))
		return errors.Join(errs...)
	}
	a.setStatus("saved %s", a.Document.doc.Path)
	return nil
}

// fit points the camera at every entity
func (a *App) fit() {
	frame := a.Host.Frame()
	bbox := geometry.NewBoundingBox()
	for _, e := range a.Host.Entities() {
		for _, p := range e.Positions {
			bbox.Extend(frame.ToLocal(p))
		}
	}
	a.Camera.fit(bbox)
}
