package edit

import (
	"math"

	"github.com/philipparndt/geodraw/pkg/accessor"
	"github.com/philipparndt/geodraw/pkg/dragger"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/style"
)

// defaultModelSize is the handle distance of models without a known size
const defaultModelSize = 10.0

// moveAllOffset is the share of an edge length by which the move-all
// handle steps aside when it would sit on that edge's mid point
const moveAllOffset = 0.2

type dragContext struct {
	ellipsoid *geometry.Ellipsoid
	modelSize func(url string) float64
	rules     feature.Rules
}

// strategy is the per-kind part of an edit session
type strategy interface {
	// draggers lists the dragger set of the current geometry, always in
	// the same order for the same point count
	draggers(ctx *dragContext, f *feature.Feature) []dragger.Options
	// drag applies a drag of d to pos and returns where the marker goes
	drag(ctx *dragContext, f *feature.Feature, d *dragger.Dragger, pos geometry.Vector3, ray geometry.Ray) (geometry.Vector3, bool)
	// removable reports whether control points can be deleted
	removable() bool
}

var strategies = map[style.Kind]strategy{
	style.KindPolyline:  multiPoint{midPoints: true},
	style.KindCorridor:  multiPoint{midPoints: true},
	style.KindPolygon:   multiPoint{midPoints: true, closed: true},
	style.KindWall:      multiPoint{midPoints: true, perVertexHeight: true},
	style.KindVolume:    multiPoint{midPoints: true},
	style.KindRectangle: rectangle{},
	style.KindCircle:    ellipse{},
	style.KindEllipse:   ellipse{},
	style.KindPoint:     anchor{},
	style.KindBillboard: anchor{},
	style.KindLabel:     anchor{},
	style.KindBox:       anchor{handles: boxHandles},
	style.KindCylinder:  anchor{handles: cylinderHandles},
	style.KindEllipsoid: anchor{handles: ellipsoidHandles},
	style.KindPlane:     anchor{handles: planeHandles},
	style.KindModel:     anchor{handles: modelHandles},
}

// multiPoint edits polylines, polygons and their extruded relatives
type multiPoint struct {
	midPoints bool
	closed    bool
	// perVertexHeight puts the height handles on every vertex top instead
	// of the highest one
	perVertexHeight bool
}

func (m multiPoint) draggers(ctx *dragContext, f *feature.Feature) []dragger.Options {
	points := f.Positions
	out := make([]dragger.Options, 0, len(points)*3+1)
	for i, p := range points {
		out = append(out, dragger.Options{Type: dragger.Control, Position: p, Index: i})
	}
	if len(points) < 2 {
		return out
	}

	var mids []dragger.Options
	if m.midPoints && len(points) < ctx.rules.MaxPoints {
		edges := len(points) - 1
		if m.closed && len(points) > 2 {
			edges = len(points)
		}
		for i := 0; i < edges; i++ {
			next := points[(i+1)%len(points)]
			mids = append(mids, dragger.Options{Type: dragger.AddMidPoint, Position: points[i].Midpoint(next), Index: i})
		}
	}

	center := geometry.Centroid(points)
	for _, mid := range mids {
		if mid.Position.Equals(center, 1e-6) {
			center = besideEdge(ctx.ellipsoid, center, points[mid.Index], points[(mid.Index+1)%len(points)])
			break
		}
	}
	out = append(out, dragger.Options{Type: dragger.MoveAll, Position: center, Index: -1})
	out = append(out, mids...)

	if top, ok := accessor.ExtrusionHeight(f, ctx.ellipsoid); ok {
		for i, p := range points {
			h := top
			if m.perVertexHeight {
				h = ctx.ellipsoid.HeightAbove(p) + diffHeight(f)
			}
			out = append(out, dragger.Options{Type: dragger.MoveHeight, Position: ctx.ellipsoid.WithHeight(p, h), Index: i})
		}
	}
	return out
}

func (m multiPoint) drag(ctx *dragContext, f *feature.Feature, d *dragger.Dragger, pos geometry.Vector3, ray geometry.Ray) (geometry.Vector3, bool) {
	switch d.Type {
	case dragger.Control:
		if d.Index < 0 || d.Index >= len(f.Positions) {
			return pos, false
		}
		f.Positions[d.Index] = pos
		return pos, true

	case dragger.MoveAll:
		translate(ctx.ellipsoid, f.Positions, pos.Sub(d.Position))
		return pos, true

	case dragger.MoveHeight:
		if d.Index < 0 || d.Index >= len(f.Positions) {
			return pos, false
		}
		base := f.Positions[d.Index]
		if !m.perVertexHeight {
			base = ctx.ellipsoid.WithHeight(base, ctx.ellipsoid.MaxHeight(f.Positions))
		}
		return dragHeight(ctx, f, base, ray)
	}
	return pos, false
}

func (multiPoint) removable() bool {
	return true
}

// rectangle edits the two opposite corners of a rectangle
type rectangle struct{}

func (rectangle) draggers(ctx *dragContext, f *feature.Feature) []dragger.Options {
	out := make([]dragger.Options, 0, 4)
	for i, p := range f.Positions {
		out = append(out, dragger.Options{Type: dragger.Control, Position: p, Index: i})
	}
	if len(f.Positions) < 2 {
		return out
	}
	center := f.Positions[0].Midpoint(f.Positions[1])
	out = append(out, dragger.Options{Type: dragger.MoveAll, Position: center, Index: -1})
	if top, ok := accessor.ExtrusionHeight(f, ctx.ellipsoid); ok {
		out = append(out, dragger.Options{Type: dragger.MoveHeight, Position: ctx.ellipsoid.WithHeight(center, top), Index: 0})
	}
	return out
}

func (rectangle) drag(ctx *dragContext, f *feature.Feature, d *dragger.Dragger, pos geometry.Vector3, ray geometry.Ray) (geometry.Vector3, bool) {
	switch d.Type {
	case dragger.Control:
		if d.Index < 0 || d.Index >= len(f.Positions) {
			return pos, false
		}
		f.Positions[d.Index] = pos
		return pos, true
	case dragger.MoveAll:
		translate(ctx.ellipsoid, f.Positions, pos.Sub(d.Position))
		return pos, true
	case dragger.MoveHeight:
		center := f.Positions[0].Midpoint(f.Positions[1])
		return dragHeight(ctx, f, ctx.ellipsoid.WithHeight(center, ctx.ellipsoid.MaxHeight(f.Positions)), ray)
	}
	return pos, false
}

func (rectangle) removable() bool {
	return false
}

// ellipse edits circles and ellipses: the center moves the shape, the
// boundary handles set the radii
type ellipse struct{}

func (ellipse) draggers(ctx *dragContext, f *feature.Feature) []dragger.Options {
	if len(f.Positions) == 0 {
		return nil
	}
	center := f.Positions[0]
	out := []dragger.Options{{Type: dragger.Control, Position: center, Index: 0}}

	shape := accessor.EllipseOf(f, ctx.ellipsoid)
	if f.Kind == style.KindCircle {
		out = append(out, dragger.Options{Type: dragger.EditAttribute, Position: boundary(f, 1, shape.MajorAxisPoint(ctx.ellipsoid)), Index: 1, Attribute: "radius"})
	} else {
		out = append(out,
			dragger.Options{Type: dragger.EditAttribute, Position: boundary(f, 1, shape.MajorAxisPoint(ctx.ellipsoid)), Index: 1, Attribute: "semiMajorAxis"},
			dragger.Options{Type: dragger.EditAttribute, Position: boundary(f, 2, shape.MinorAxisPoint(ctx.ellipsoid)), Index: 2, Attribute: "semiMinorAxis"},
		)
	}

	if top, ok := accessor.ExtrusionHeight(f, ctx.ellipsoid); ok {
		out = append(out, dragger.Options{Type: dragger.MoveHeight, Position: ctx.ellipsoid.WithHeight(center, top), Index: 0})
	}
	return out
}

func boundary(f *feature.Feature, index int, fallback geometry.Vector3) geometry.Vector3 {
	if index < len(f.Positions) {
		return f.Positions[index]
	}
	return fallback
}

func (ellipse) drag(ctx *dragContext, f *feature.Feature, d *dragger.Dragger, pos geometry.Vector3, ray geometry.Ray) (geometry.Vector3, bool) {
	switch d.Type {
	case dragger.Control:
		translate(ctx.ellipsoid, f.Positions, pos.Sub(f.Positions[0]))
		return pos, true

	case dragger.EditAttribute:
		if d.Index <= 0 || d.Index > len(f.Positions) {
			return pos, false
		}
		if d.Index == len(f.Positions) {
			f.Positions = append(f.Positions, pos)
		} else {
			f.Positions[d.Index] = pos
		}
		return pos, true

	case dragger.MoveHeight:
		return dragHeight(ctx, f, f.Positions[0], ray)
	}
	return pos, false
}

func (ellipse) removable() bool {
	return false
}

// handle is a dimension handle of a single point kind, placed in the
// local frame of the anchor
type handle struct {
	typ       dragger.PointType
	attribute string
	// at returns the handle offset in east, north, up meters
	at func(ctx *dragContext, cfg style.Config) geometry.Vector3
	// apply writes the style for a handle dragged to local offset
	apply func(ctx *dragContext, cfg style.Config, local geometry.Vector3)
}

// anchor edits single point kinds: the feature entity itself is the
// position dragger
type anchor struct {
	handles []handle
}

func (a anchor) draggers(ctx *dragContext, f *feature.Feature) []dragger.Options {
	if len(f.Positions) == 0 {
		return nil
	}
	origin := f.Positions[0]
	out := []dragger.Options{{Type: dragger.Control, Position: origin, Index: 0, ReuseEntity: f.ID}}

	cfg := style.WithDefaults(f.Kind, f.Style)
	frame := ctx.ellipsoid.EastNorthUp(origin)
	for i, h := range a.handles {
		local := h.at(ctx, cfg)
		out = append(out, dragger.Options{
			Type:      h.typ,
			Position:  frame.ToWorld(local.X, local.Y, local.Z),
			Index:     i,
			Attribute: h.attribute,
		})
	}
	return out
}

func (a anchor) drag(ctx *dragContext, f *feature.Feature, d *dragger.Dragger, pos geometry.Vector3, ray geometry.Ray) (geometry.Vector3, bool) {
	if len(f.Positions) == 0 {
		return pos, false
	}
	if d.Type == dragger.Control {
		f.Positions[0] = pos
		return pos, true
	}
	if d.Index < 0 || d.Index >= len(a.handles) {
		return pos, false
	}

	h := a.handles[d.Index]
	origin := f.Positions[0]
	frame := ctx.ellipsoid.EastNorthUp(origin)
	cfg := style.WithDefaults(f.Kind, f.Style)

	if h.typ == dragger.MoveHeight {
		if ray.IsZero() {
			return pos, false
		}
		p, ok := ray.ClosestPointOnLine(origin, frame.Up)
		if !ok {
			return pos, false
		}
		pos = p
	}

	local := frame.ToLocal(pos)
	h.apply(ctx, cfg, local)
	for _, key := range dimensionKeys(h) {
		f.Style[key] = cfg[key]
	}
	return pos, true
}

func (anchor) removable() bool {
	return false
}

// dimensionKeys lists the style keys a handle writes
func dimensionKeys(h handle) []string {
	switch h.attribute {
	case "dimensions":
		return []string{"dimensions_x", "dimensions_y"}
	case "radius":
		return []string{"topRadius", "bottomRadius"}
	}
	return []string{h.attribute}
}

var boxHandles = []handle{
	{
		typ:       dragger.EditAttribute,
		attribute: "dimensions",
		at: func(_ *dragContext, cfg style.Config) geometry.Vector3 {
			return geometry.NewVector3(cfg.Float("dimensions_x", 0)/2, cfg.Float("dimensions_y", 0)/2, 0)
		},
		apply: func(_ *dragContext, cfg style.Config, local geometry.Vector3) {
			cfg["dimensions_x"] = 2 * math.Abs(local.X)
			cfg["dimensions_y"] = 2 * math.Abs(local.Y)
		},
	},
	{
		typ:       dragger.MoveHeight,
		attribute: "dimensions_z",
		at: func(_ *dragContext, cfg style.Config) geometry.Vector3 {
			return geometry.NewVector3(0, 0, cfg.Float("dimensions_z", 0)/2)
		},
		apply: func(_ *dragContext, cfg style.Config, local geometry.Vector3) {
			cfg["dimensions_z"] = 2 * math.Abs(local.Z)
		},
	},
}

var planeHandles = []handle{
	{
		typ:       dragger.EditAttribute,
		attribute: "dimensions",
		at: func(_ *dragContext, cfg style.Config) geometry.Vector3 {
			return geometry.NewVector3(cfg.Float("dimensions_x", 0)/2, cfg.Float("dimensions_y", 0)/2, 0)
		},
		apply: func(_ *dragContext, cfg style.Config, local geometry.Vector3) {
			cfg["dimensions_x"] = 2 * math.Abs(local.X)
			cfg["dimensions_y"] = 2 * math.Abs(local.Y)
		},
	},
}

var cylinderHandles = []handle{
	{
		typ:       dragger.EditAttribute,
		attribute: "radius",
		at: func(_ *dragContext, cfg style.Config) geometry.Vector3 {
			return geometry.NewVector3(cylinderRadius(cfg), 0, 0)
		},
		apply: func(_ *dragContext, cfg style.Config, local geometry.Vector3) {
			old := cylinderRadius(cfg)
			r := math.Hypot(local.X, local.Y)
			if old <= 0 {
				cfg["topRadius"], cfg["bottomRadius"] = r, r
				return
			}
			// keep the taper
			scale := r / old
			cfg["topRadius"] = cfg.Float("topRadius", 0) * scale
			cfg["bottomRadius"] = cfg.Float("bottomRadius", 0) * scale
		},
	},
	{
		typ:       dragger.MoveHeight,
		attribute: "length",
		at: func(_ *dragContext, cfg style.Config) geometry.Vector3 {
			return geometry.NewVector3(0, 0, cfg.Float("length", 0)/2)
		},
		apply: func(_ *dragContext, cfg style.Config, local geometry.Vector3) {
			cfg["length"] = 2 * math.Abs(local.Z)
		},
	},
}

func cylinderRadius(cfg style.Config) float64 {
	return math.Max(cfg.Float("topRadius", 0), cfg.Float("bottomRadius", 0))
}

var ellipsoidHandles = []handle{
	{
		typ:       dragger.EditAttribute,
		attribute: "radii_x",
		at: func(_ *dragContext, cfg style.Config) geometry.Vector3 {
			return geometry.NewVector3(cfg.Float("radii_x", 0), 0, 0)
		},
		apply: func(_ *dragContext, cfg style.Config, local geometry.Vector3) {
			cfg["radii_x"] = math.Hypot(local.X, local.Y)
		},
	},
	{
		typ:       dragger.EditAttribute,
		attribute: "radii_y",
		at: func(_ *dragContext, cfg style.Config) geometry.Vector3 {
			return geometry.NewVector3(0, cfg.Float("radii_y", 0), 0)
		},
		apply: func(_ *dragContext, cfg style.Config, local geometry.Vector3) {
			cfg["radii_y"] = math.Hypot(local.X, local.Y)
		},
	},
	{
		typ:       dragger.MoveHeight,
		attribute: "radii_z",
		at: func(_ *dragContext, cfg style.Config) geometry.Vector3 {
			return geometry.NewVector3(0, 0, cfg.Float("radii_z", 0))
		},
		apply: func(_ *dragContext, cfg style.Config, local geometry.Vector3) {
			cfg["radii_z"] = math.Abs(local.Z)
		},
	},
}

var modelHandles = []handle{
	{
		typ:       dragger.EditAttribute,
		attribute: "scale",
		at: func(ctx *dragContext, cfg style.Config) geometry.Vector3 {
			return geometry.NewVector3(cfg.Float("scale", 1)*ctx.sizeOf(cfg), 0, 0)
		},
		apply: func(ctx *dragContext, cfg style.Config, local geometry.Vector3) {
			cfg["scale"] = math.Hypot(local.X, local.Y) / ctx.sizeOf(cfg)
		},
	},
}

func (ctx *dragContext) sizeOf(cfg style.Config) float64 {
	if ctx.modelSize != nil {
		if size := ctx.modelSize(cfg.String("url", "")); size > 0 {
			return size
		}
	}
	return defaultModelSize
}

// translate moves points by delta and keeps each point's height
func translate(e *geometry.Ellipsoid, points []geometry.Vector3, delta geometry.Vector3) {
	for i, p := range points {
		points[i] = e.WithHeight(p.Add(delta), e.HeightAbove(p))
	}
}

// dragHeight constrains a drag to the up axis through base and stores the
// new extrusion as diffHeight above base
func dragHeight(ctx *dragContext, f *feature.Feature, base geometry.Vector3, ray geometry.Ray) (geometry.Vector3, bool) {
	if ray.IsZero() {
		return base, false
	}
	up := ctx.ellipsoid.GeodeticSurfaceNormal(base)
	p, ok := ray.ClosestPointOnLine(base, up)
	if !ok {
		return base, false
	}
	diff := p.Sub(base).Dot(up)
	if diff < 0 {
		diff = 0
		p = base
	}
	f.Style["diffHeight"] = diff
	return p, true
}

func diffHeight(f *feature.Feature) float64 {
	return f.Style.Float("diffHeight", style.Defaults(f.Kind).Float("diffHeight", 0))
}

// besideEdge steps p away from the edge a-b within the tangent plane
func besideEdge(e *geometry.Ellipsoid, p, a, b geometry.Vector3) geometry.Vector3 {
	edge := b.Sub(a)
	side := e.GeodeticSurfaceNormal(p).Cross(edge).Normalize()
	return p.Add(side.Mul(edge.Length() * moveAllOffset))
}
