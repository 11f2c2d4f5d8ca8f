package scene

import (
	"math"

	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/style"
)

// ShapeKind selects how a flattened shape is drawn
type ShapeKind int

const (
	ShapeMarker ShapeKind = iota
	ShapeLine
	ShapeArea
	ShapeText
)

// ellipseSegments is the outline resolution of circles and ellipses
const ellipseSegments = 72

// Shape is an entity flattened to points, colors and a line width, for
// hosts that draw with simple primitives instead of a globe renderer
type Shape struct {
	Kind   ShapeKind
	Points []geometry.Vector3
	Fill   style.Color
	Stroke style.Color
	Width  float64
	// Size is the marker diameter in pixels
	Size float64
	Text string
}

// ShapeOf flattens e. ok is false for entities without drawable geometry.
func ShapeOf(e Entity, ellipsoid *geometry.Ellipsoid) (Shape, bool) {
	if len(e.Positions) == 0 {
		return Shape{}, false
	}
	attr := e.Attr
	if attr == nil {
		attr = style.Attr{}
	}

	switch e.Kind {
	case style.KindPolyline, style.KindCorridor, style.KindWall, style.KindVolume:
		s := Shape{Kind: ShapeLine, Points: e.Positions, Stroke: materialColor(attr), Width: width(attr, "width", 2)}
		return s, len(e.Positions) > 1

	case style.KindPolygon:
		return area(attr, e.Positions), len(e.Positions) > 1

	case style.KindRectangle:
		rect, ok := attr["coordinates"].(style.Rectangle)
		if !ok {
			return Shape{}, false
		}
		height, _ := attr.Float("height")
		corners := []geometry.Vector3{
			ellipsoid.ToCartesian(geometry.NewCartographic(rect.West, rect.South, height)),
			ellipsoid.ToCartesian(geometry.NewCartographic(rect.East, rect.South, height)),
			ellipsoid.ToCartesian(geometry.NewCartographic(rect.East, rect.North, height)),
			ellipsoid.ToCartesian(geometry.NewCartographic(rect.West, rect.North, height)),
		}
		return area(attr, corners), true

	case style.KindCircle, style.KindEllipse:
		major, _ := attr.Float("semiMajorAxis")
		minor, ok := attr.Float("semiMinorAxis")
		if !ok {
			minor = major
		}
		rotation, _ := attr.Float("rotation")
		if major <= 0 {
			return Shape{Kind: ShapeMarker, Points: e.Positions[:1], Fill: materialColor(attr), Size: 6}, true
		}
		shape := geometry.EllipseShape{Center: e.Positions[0], SemiMajorAxis: major, SemiMinorAxis: minor, Rotation: rotation}
		return area(attr, shape.Outline(ellipsoid, ellipseSegments)), true

	case style.KindLabel:
		fill, ok := attr.Color("fillColor")
		if !ok {
			fill = style.White
		}
		text, _ := attr["text"].(string)
		return Shape{Kind: ShapeText, Points: e.Positions[:1], Fill: fill, Text: text}, true
	}

	fill, ok := attr.Color("color")
	if !ok {
		fill = materialColor(attr)
	}
	stroke, ok := attr.Color("outlineColor")
	if !ok {
		stroke = fill
	}
	return Shape{
		Kind:   ShapeMarker,
		Points: e.Positions[:1],
		Fill:   fill,
		Stroke: stroke,
		Width:  width(attr, "outlineWidth", 0),
		Size:   width(attr, "pixelSize", 10),
	}, true
}

func area(attr style.Attr, points []geometry.Vector3) Shape {
	s := Shape{Kind: ShapeArea, Points: points, Width: width(attr, "outlineWidth", 1)}
	if fill, ok := attr["fill"].(bool); !ok || fill {
		s.Fill = materialColor(attr)
	}
	if stroke, ok := attr.Color("outlineColor"); ok {
		s.Stroke = stroke
	} else {
		s.Stroke = s.Fill.WithAlpha(1)
	}
	return s
}

func materialColor(attr style.Attr) style.Color {
	if m, ok := attr.Material("material"); ok {
		return m.Color
	}
	if c, ok := attr.Color("color"); ok {
		return c
	}
	return style.White
}

func width(attr style.Attr, key string, def float64) float64 {
	if w, ok := attr.Float(key); ok && w > 0 {
		return w
	}
	return def
}

// Hit reports whether screen point p touches s. project maps world
// positions to the screen; points it rejects are skipped.
func (s Shape) Hit(p Point, tolerance float64, project func(geometry.Vector3) (Point, bool)) bool {
	screen := make([]Point, 0, len(s.Points))
	for _, w := range s.Points {
		if sp, ok := project(w); ok {
			screen = append(screen, sp)
		}
	}
	if len(screen) == 0 {
		return false
	}

	switch s.Kind {
	case ShapeLine:
		for i := 1; i < len(screen); i++ {
			if segmentDistance(p, screen[i-1], screen[i]) <= tolerance+s.Width/2 {
				return true
			}
		}
		return false
	case ShapeArea:
		if len(screen) > 2 && inside(p, screen) {
			return true
		}
		for i := range screen {
			if segmentDistance(p, screen[i], screen[(i+1)%len(screen)]) <= tolerance {
				return true
			}
		}
		return false
	}
	return distance(p, screen[0]) <= tolerance+s.Size/2
}

func distance(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Hypot(dx, dy)
}

func segmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return distance(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lengthSq
	t = max(0, min(1, t))
	return distance(p, Point{X: a.X + t*dx, Y: a.Y + t*dy})
}

// even-odd rule
func inside(p Point, ring []Point) bool {
	in := false
	j := len(ring) - 1
	for i := range ring {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
		j = i
	}
	return in
}
