package accessor

import (
	"encoding/json"
	"fmt"

	geojson "github.com/paulmach/go.geojson"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/geometry"
)

// ToCollection encodes features as a feature collection. Features that
// cannot be encoded are left out and reported.
func ToCollection(features []*feature.Feature, e *geometry.Ellipsoid) (*geojson.FeatureCollection, []error) {
	fc := geojson.NewFeatureCollection()
	var errs []error
	for _, f := range features {
		gf, err := ToFeature(f, e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fc.AddFeature(gf)
	}
	return fc, errs
}

// envelope is decoded first so one malformed feature does not fail the
// whole collection
type envelope struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

// ParseCollection decodes a FeatureCollection or a single Feature. Every
// feature is decoded on its own; bad ones are skipped and reported with
// their index. Features whose style had invalid keys are kept and their
// style problems reported as well.
func ParseCollection(data []byte, e *geometry.Ellipsoid) ([]*feature.Feature, []error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, []error{fmt.Errorf("failed to parse GeoJSON: %w", err)}
	}

	raw := env.Features
	switch env.Type {
	case "FeatureCollection":
	case "Feature":
		raw = []json.RawMessage{data}
	default:
		return nil, []error{fmt.Errorf("unsupported GeoJSON type %q", env.Type)}
	}

	var (
		out  []*feature.Feature
		errs []error
	)
	for i, item := range raw {
		gf, err := geojson.UnmarshalFeature(item)
		if err != nil {
			errs = append(errs, fmt.Errorf("feature %d: %w", i, err))
			continue
		}
		f, err := FromFeature(gf, e)
		if err != nil {
			errs = append(errs, fmt.Errorf("feature %d: %w", i, err))
		}
		if f != nil {
			out = append(out, f)
		}
	}
	return out, errs
}

// MarshalCollection encodes features as GeoJSON bytes
func MarshalCollection(features []*feature.Feature, e *geometry.Ellipsoid) ([]byte, []error) {
	fc, errs := ToCollection(features, e)
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, append(errs, fmt.Errorf("failed to encode GeoJSON: %w", err))
	}
	return data, errs
}
