// Package document binds a plotter to an exchange file on disk and the
// snapshot side-car next to it.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/plotter"
	"github.com/philipparndt/geodraw/pkg/watcher"
)

// Document is one GeoJSON file being authored
type Document struct {
	Path string
	// Snapshot enables the side-car, which keeps feature state across
	// sessions
	Snapshot bool

	plotter *plotter.Plotter
	logger  *slog.Logger
	current []byte
}

// New creates a document for path. Nothing is read until Open.
func New(path string, p *plotter.Plotter, snapshot bool, logger *slog.Logger) *Document {
	if logger == nil {
		logger = slog.Default()
	}
	return &Document{Path: path, Snapshot: snapshot, plotter: p, logger: logger}
}

// SnapshotPath returns the side-car path
func (d *Document) SnapshotPath() string {
	return feature.SnapshotPath(d.Path)
}

// Open loads the document into the plotter. A side-car takes precedence
// over the GeoJSON file; a missing file opens an empty document.
func (d *Document) Open() ([]*feature.Feature, []error) {
	data, err := os.ReadFile(d.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, []error{fmt.Errorf("failed to read %s: %w", d.Path, err)}
	}
	d.current = data

	if d.Snapshot {
		if _, err := os.Stat(d.SnapshotPath()); err == nil {
			d.logger.Debug("opening snapshot", "path", d.SnapshotPath())
			return d.plotter.LoadSnapshot(d.SnapshotPath())
		}
	}
	if len(data) == 0 {
		return nil, nil
	}
	return d.plotter.Load(data)
}

// Replace loads changed file content. Content the plotter already shows,
// such as the document's own last save, is ignored.
func (d *Document) Replace(data []byte) ([]*feature.Feature, []error) {
	if bytes.Equal(data, d.current) {
		d.logger.Debug("document unchanged", "path", d.Path)
		return nil, nil
	}
	d.current = data
	return d.plotter.Replace(data)
}

// Save writes every finished feature to the file and the side-car. Features
// that fail to encode are reported and left out.
func (d *Document) Save() []error {
	data, errs := d.plotter.Export()
	if err := os.WriteFile(d.Path, data, 0644); err != nil {
		return append(errs, fmt.Errorf("failed to write %s: %w", d.Path, err))
	}
	d.current = data

	if d.Snapshot {
		if err := d.plotter.SaveSnapshot(d.SnapshotPath()); err != nil {
			errs = append(errs, err)
		}
	}
	d.logger.Info("saved", "path", d.Path, "features", d.plotter.Store().Len(), "errors", len(errs))
	return errs
}

// SaveAs moves the document to path and saves it there
func (d *Document) SaveAs(path string) []error {
	d.Path = path
	return d.Save()
}

// Watch reloads the document whenever its file changes on disk
func (d *Document) Watch(opts watcher.ReloaderOptions) (*watcher.Reloader, error) {
	if opts.Logger == nil {
		opts.Logger = d.logger
	}
	r, err := watcher.NewReloader(d, opts)
	if err != nil {
		return nil, err
	}
	if err := r.Watch(d.Path); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}
