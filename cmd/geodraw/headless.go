package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/plotter"
	"github.com/philipparndt/geodraw/pkg/scene"
)

const snapshotExt = ".geodraw"

// newPlotter creates a plotter on a headless host at the configured origin
func newPlotter() (*plotter.Plotter, error) {
	opts, err := cfg.PlotterOptions(logger)
	if err != nil {
		return nil, err
	}
	return plotter.New(scene.NewMemory(cfg.Center()), opts)
}

func isSnapshot(path string) bool {
	return strings.EqualFold(filepath.Ext(path), snapshotExt)
}

// loadInto adds the features of a GeoJSON file or a snapshot side-car.
// The error is set when the file itself cannot be read; errs lists the
// skipped features.
func loadInto(p *plotter.Plotter, path string) (loaded []*feature.Feature, errs []error, err error) {
	if isSnapshot(path) {
		if _, err := os.Stat(path); err != nil {
			return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		loaded, errs = p.LoadSnapshot(path)
		return loaded, errs, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("%s does not exist", path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	loaded, errs = p.Load(data)
	return loaded, errs, nil
}

// writeFrom writes every finished feature of p to path, as a snapshot
// side-car or as GeoJSON depending on the extension
func writeFrom(p *plotter.Plotter, path string) []error {
	if isSnapshot(path) {
		if err := p.SaveSnapshot(path); err != nil {
			return []error{err}
		}
		return nil
	}

	data, errs := p.Export()
	if err := os.WriteFile(path, data, 0644); err != nil {
		return append(errs, fmt.Errorf("failed to write %s: %w", path, err))
	}
	return errs
}
