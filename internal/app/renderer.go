package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/scene"
	"github.com/philipparndt/geodraw/pkg/style"
)

var gridColor = rl.NewColor(60, 66, 78, 255)

// drawScene draws the ground grid and every visible entity. Everything is
// projected and drawn in screen space, which keeps kilometer-sized scenes
// clear of the depth clipping of raylib's 3D mode.
func (a *App) drawScene() {
	if a.View.showGrid {
		a.drawGrid()
	}
	for _, s := range a.Host.Shapes() {
		a.drawShape(s)
	}
}

func (a *App) project(points []geometry.Vector3) []rl.Vector2 {
	out := make([]rl.Vector2, 0, len(points))
	for _, p := range points {
		if sp, ok := a.Host.ScreenOf(p); ok {
			out = append(out, rl.Vector2{X: float32(sp.X), Y: float32(sp.Y)})
		}
	}
	return out
}

func (a *App) drawShape(s scene.Shape) {
	screen := a.project(s.Points)
	if len(screen) == 0 {
		return
	}

	switch s.Kind {
	case scene.ShapeLine:
		drawPolyline(screen, toColor(s.Stroke), float32(s.Width), false)
	case scene.ShapeArea:
		fill := toColor(s.Fill)
		for _, t := range fanTriangles(screen) {
			rl.DrawTriangle(t[0], t[1], t[2], fill)
		}
		drawPolyline(screen, toColor(s.Stroke), float32(s.Width), true)
	case scene.ShapeText:
		a.drawText(s.Text, screen[0], toColor(s.Fill))
	default:
		radius := float32(s.Size / 2)
		rl.DrawCircleV(screen[0], radius, toColor(s.Fill))
		if s.Width > 0 {
			rl.DrawCircleLines(int32(screen[0].X), int32(screen[0].Y), radius, toColor(s.Stroke))
		}
	}
}

func (a *App) drawText(text string, at rl.Vector2, c rl.Color) {
	const fontSize = 16
	size := rl.MeasureTextEx(a.UI.font, text, fontSize, 1)
	pos := rl.Vector2{X: at.X - size.X/2, Y: at.Y - size.Y}
	rl.DrawTextEx(a.UI.font, text, pos, fontSize, 1, c)
}

func drawPolyline(points []rl.Vector2, c rl.Color, width float32, closed bool) {
	if width <= 0 {
		width = 1
	}
	n := len(points)
	segments := n - 1
	if closed && n > 2 {
		segments = n
	}
	for i := 0; i < segments; i++ {
		rl.DrawLineEx(points[i], points[(i+1)%n], width, c)
	}
}

// fanTriangles splits a screen polygon into triangles around its centroid,
// each ordered counter-clockwise on screen as raylib expects. Shapes that
// are not star-shaped around the centroid fill approximately.
func fanTriangles(points []rl.Vector2) [][3]rl.Vector2 {
	n := len(points)
	if n < 3 {
		return nil
	}
	var center rl.Vector2
	for _, p := range points {
		center.X += p.X
		center.Y += p.Y
	}
	center.X /= float32(n)
	center.Y /= float32(n)

	out := make([][3]rl.Vector2, 0, n)
	for i := 0; i < n; i++ {
		b, c := points[i], points[(i+1)%n]
		cross := (b.X-center.X)*(c.Y-center.Y) - (b.Y-center.Y)*(c.X-center.X)
		switch {
		case cross < 0:
			out = append(out, [3]rl.Vector2{center, b, c})
		case cross > 0:
			out = append(out, [3]rl.Vector2{center, c, b})
		}
	}
	return out
}

// drawGrid draws ground lines around the camera target at a spacing that
// follows the zoom level
func (a *App) drawGrid() {
	target := fromRaylib(a.Camera.target)
	spacing := math.Pow(10, math.Floor(math.Log10(float64(a.Camera.distance)/2)))
	const cells = 10
	cx := math.Round(target.X/spacing) * spacing
	cy := math.Round(target.Y/spacing) * spacing
	extent := spacing * cells

	for i := -cells; i <= cells; i++ {
		offset := float64(i) * spacing
		lines := [][2]geometry.Vector3{
			{geometry.NewVector3(cx+offset, cy-extent, 0), geometry.NewVector3(cx+offset, cy+extent, 0)},
			{geometry.NewVector3(cx-extent, cy+offset, 0), geometry.NewVector3(cx+extent, cy+offset, 0)},
		}
		for _, l := range lines {
			start, okStart := a.Camera.Project(l[0])
			end, okEnd := a.Camera.Project(l[1])
			if !okStart || !okEnd {
				continue
			}
			rl.DrawLineV(
				rl.Vector2{X: float32(start.X), Y: float32(start.Y)},
				rl.Vector2{X: float32(end.X), Y: float32(end.Y)},
				gridColor,
			)
		}
	}
}

func toColor(c style.Color) rl.Color {
	r, g, b, alpha := c.RGBA8()
	return rl.NewColor(r, g, b, alpha)
}
