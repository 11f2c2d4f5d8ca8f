package feature

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/style"
	"github.com/vmihailenco/msgpack/v5"
)

const snapshotVersion = "1.0"

// SnapshotData is the msgpack side-car written next to an exchange file
type SnapshotData struct {
	Version  string           `msgpack:"version"`
	Features []SnapshotRecord `msgpack:"features"`
}

// SnapshotRecord is one saved feature including its lifecycle state
type SnapshotRecord struct {
	ID            string         `msgpack:"id"`
	Kind          string         `msgpack:"kind"`
	Style         map[string]any `msgpack:"style"`
	Positions     [][3]float64   `msgpack:"positions"`
	DrawAttribute map[string]any `msgpack:"drawAttribute,omitempty"`
	Visible       bool           `msgpack:"visible"`
	State         int            `msgpack:"state"`
}

// SnapshotPath returns the side-car path of an exchange file
func SnapshotPath(source string) string {
	return source + ".geodraw"
}

// Snapshot encodes every feature of the store
func (s *Store) Snapshot() ([]byte, error) {
	data := SnapshotData{Version: snapshotVersion}
	for _, f := range s.All() {
		record := SnapshotRecord{
			ID:            f.ID,
			Kind:          string(f.Kind),
			Style:         f.Style,
			Positions:     make([][3]float64, 0, len(f.Positions)),
			DrawAttribute: f.DrawAttribute,
			Visible:       f.Visible,
			State:         int(f.State),
		}
		for _, p := range f.Positions {
			record.Positions = append(record.Positions, [3]float64{p.X, p.Y, p.Z})
		}
		data.Features = append(data.Features, record)
	}

	encoded, err := msgpack.Marshal(&data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return encoded, nil
}

// Restore decodes a snapshot into features. Records with an unknown kind
// are skipped and reported.
func Restore(encoded []byte) ([]*Feature, []error) {
	var data SnapshotData
	if err := msgpack.Unmarshal(encoded, &data); err != nil {
		return nil, []error{fmt.Errorf("failed to decode snapshot: %w", err)}
	}

	var (
		out  []*Feature
		errs []error
	)
	for i, record := range data.Features {
		kind, err := style.ParseKind(record.Kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("snapshot feature %d: %w", i, err))
			continue
		}
		f := &Feature{
			ID:            record.ID,
			Kind:          kind,
			Style:         style.Config(record.Style),
			Positions:     make([]geometry.Vector3, 0, len(record.Positions)),
			DrawAttribute: record.DrawAttribute,
			Visible:       record.Visible,
			State:         State(record.State),
		}
		if f.ID == "" {
			f.ID = NewID()
		}
		if f.Style == nil {
			f.Style = style.Config{}
		}
		if f.DrawAttribute == nil {
			f.DrawAttribute = map[string]any{}
		}
		for _, p := range record.Positions {
			f.Positions = append(f.Positions, geometry.NewVector3(p[0], p[1], p[2]))
		}
		out = append(out, f)
	}
	return out, errs
}

// SaveSnapshot writes the store to path. An empty store removes an
// existing side-car instead.
func (s *Store) SaveSnapshot(path string) error {
	if s.Len() == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove snapshot: %w", err)
		}
		return nil
	}

	encoded, err := s.Snapshot()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the side-car at path. A missing file yields no
// features and no error.
func LoadSnapshot(path string) ([]*Feature, []error) {
	encoded, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read snapshot: %w", err)}
	}
	return Restore(encoded)
}
