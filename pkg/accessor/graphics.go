package accessor

import (
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/scene"
	"github.com/philipparndt/geodraw/pkg/style"
)

// Entity renders f as a host entity: the translated style plus the
// attributes derived from its control points
func Entity(f *feature.Feature, e *geometry.Ellipsoid, target style.Attr) scene.Entity {
	attr := style.Translate(f.Kind, f.Style, target)
	Graphics(f, e, attr)
	return scene.Entity{
		ID:        f.ID,
		Kind:      f.Kind,
		Positions: Positions(f),
		Attr:      attr,
		Visible:   f.Visible && visibleWhileDrawing(f),
		Dynamic:   f.State != feature.StateIdle,
		Owner:     f.ID,
	}
}

// single-point kinds stay hidden until their one point is placed
func visibleWhileDrawing(f *feature.Feature) bool {
	return f.State != feature.StateDrawing || f.Kind.Family() != style.FamilySinglePoint
}

// Graphics writes the geometry-derived attributes of f into attr
func Graphics(f *feature.Feature, e *geometry.Ellipsoid, attr style.Attr) {
	points := f.Positions
	if len(points) > 0 {
		attr.Set("position", points[0])
	} else {
		attr.Unset("position")
	}

	switch f.Kind {
	case style.KindPolyline, style.KindCorridor:
		attr.Set("positions", geometry.ClonePoints(points))

	case style.KindPolygon:
		attr.Set("hierarchy", geometry.ClonePoints(points))
		extrude(f, e, attr)

	case style.KindRectangle:
		if rect, ok := RectangleExtent(f, e); ok {
			attr.Set("coordinates", rect)
		} else {
			attr.Unset("coordinates")
		}
		if !attr.Has("height") && !clamped(attr) && len(points) > 0 {
			attr.Set("height", e.MaxHeight(points))
		}
		extrude(f, e, attr)

	case style.KindCircle, style.KindEllipse:
		shape := EllipseOf(f, e)
		major, minor, rotation := shape.SemiMajorAxis, shape.SemiMinorAxis, shape.Rotation
		if minor > major {
			major, minor = minor, major
			rotation += 90 * degreesToRadians
		}
		attr.Set("semiMajorAxis", major)
		attr.Set("semiMinorAxis", minor)
		if f.Kind == style.KindEllipse {
			attr.Set("rotation", rotation)
		}
		if !attr.Has("height") && !clamped(attr) && len(points) > 0 {
			attr.Set("height", e.HeightAbove(points[0]))
		}
		extrude(f, e, attr)

	case style.KindWall:
		mins := make([]float64, 0, len(points))
		maxs := make([]float64, 0, len(points))
		diff := f.Style.Float("diffHeight", style.Defaults(style.KindWall).Float("diffHeight", 0))
		for _, p := range points {
			h := e.HeightAbove(p)
			mins = append(mins, h)
			maxs = append(maxs, h+diff)
		}
		attr.Set("positions", geometry.ClonePoints(points))
		attr.Set("minimumHeights", mins)
		attr.Set("maximumHeights", maxs)

	case style.KindVolume:
		diff := f.Style.Float("diffHeight", style.Defaults(style.KindVolume).Float("diffHeight", 0))
		attr.Set("positions", geometry.ClonePoints(points))
		if len(points) > 0 {
			attr.Set("height", e.MinHeight(points))
			attr.Set("extrudedHeight", e.MaxHeight(points)+diff)
		}
	}
}

func clamped(attr style.Attr) bool {
	ref, _ := attr["heightReference"].(style.HeightReference)
	return ref != style.HeightNone
}

// extrude sets extrudedHeight from diffHeight on top of the highest
// control point
func extrude(f *feature.Feature, e *geometry.Ellipsoid, attr style.Attr) {
	if !f.Style.Has("diffHeight") || len(f.Positions) == 0 {
		return
	}
	attr.Set("extrudedHeight", e.MaxHeight(f.Positions)+f.Style.Float("diffHeight", 0))
}

// ExtrusionHeight returns the top of an extruded feature and whether f is
// extruded
func ExtrusionHeight(f *feature.Feature, e *geometry.Ellipsoid) (float64, bool) {
	if len(f.Positions) == 0 {
		return 0, false
	}
	switch f.Kind {
	case style.KindWall, style.KindVolume:
		diff := f.Style.Float("diffHeight", style.Defaults(f.Kind).Float("diffHeight", 0))
		return e.MaxHeight(f.Positions) + diff, true
	}
	if f.Kind.Extrudable() && f.Style.Has("diffHeight") {
		return e.MaxHeight(f.Positions) + f.Style.Float("diffHeight", 0), true
	}
	return 0, false
}
