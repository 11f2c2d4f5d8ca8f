package viewer

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/philipparndt/geodraw/pkg/scene"
	"golang.org/x/image/vector"
)

// area is a filled polygon in screen space
type area struct {
	points []scene.Point
	fill   color.NRGBA
}

// paintAreas rasterizes filled polygons back to front into an image of
// the given size
func paintAreas(width, height int, areas []area) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	if width <= 0 || height <= 0 {
		return img
	}

	for _, a := range areas {
		if len(a.points) < 3 || a.fill.A == 0 {
			continue
		}
		r := vector.NewRasterizer(width, height)
		r.DrawOp = draw.Over
		r.MoveTo(float32(a.points[0].X), float32(a.points[0].Y))
		for _, p := range a.points[1:] {
			r.LineTo(float32(p.X), float32(p.Y))
		}
		r.ClosePath()
		r.Draw(img, img.Bounds(), image.NewUniform(a.fill), image.Point{})
	}
	return img
}
