// Package viewer provides a fyne widget that hosts drawing sessions on a
// tilted map view.
package viewer

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/scene"
	"github.com/philipparndt/geodraw/pkg/style"
)

var (
	backgroundColor = color.NRGBA{R: 32, G: 36, B: 40, A: 255}
	gridColor       = color.NRGBA{R: 70, G: 76, B: 84, A: 255}
	tooltipColor    = color.NRGBA{R: 0, G: 0, B: 0, A: 200}
)

type dragMode int

const (
	dragPointer dragMode = iota
	dragOrbit
	dragPan
)

// View renders the entities of its host and turns fyne input into pointer
// events. Shift-drag orbits the camera, Ctrl-drag pans and scrolling zooms.
type View struct {
	widget.BaseWidget

	host   *scene.Viewport
	camera *Camera
	mode   dragMode
}

// NewView creates a view centered on origin
func NewView(origin geometry.Cartographic) *View {
	v := &View{camera: NewCamera(1000)}
	v.host = scene.NewViewport(origin, v.camera)
	v.host.Schedule = fyne.Do
	v.host.OnChange = v.Refresh
	v.ExtendBaseWidget(v)
	return v
}

// Host returns the scene host sessions are attached to
func (v *View) Host() *scene.Viewport {
	return v.host
}

// Camera returns the view camera
func (v *View) Camera() *Camera {
	return v.camera
}

// SetTerrain sets the terrain provider of the host
func (v *View) SetTerrain(fn scene.TerrainFunc) {
	v.host.Terrain = fn
}

// FitEntities points the camera at everything in the scene
func (v *View) FitEntities() {
	frame := v.host.Frame()
	bbox := geometry.NewBoundingBox()
	for _, e := range v.host.Entities() {
		for _, p := range e.Positions {
			bbox.Extend(frame.ToLocal(p))
		}
	}
	v.camera.Fit(bbox)
	v.Refresh()
}

// CreateRenderer creates the renderer for the widget
func (v *View) CreateRenderer() fyne.WidgetRenderer {
	r := &viewRenderer{view: v, background: canvas.NewRectangle(backgroundColor)}
	r.Refresh()
	return r
}

func point(p fyne.Position) scene.Point {
	return scene.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (v *View) dispatch(kind scene.PointerKind, p fyne.Position) {
	v.host.Dispatch(scene.PointerEvent{Kind: kind, Position: point(p)})
}

// MouseDown starts a pointer drag or a camera drag
func (v *View) MouseDown(e *desktop.MouseEvent) {
	switch {
	case e.Modifier&fyne.KeyModifierShift != 0:
		v.mode = dragOrbit
	case e.Modifier&fyne.KeyModifierControl != 0:
		v.mode = dragPan
	default:
		v.mode = dragPointer
		if e.Button == desktop.MouseButtonPrimary {
			v.dispatch(scene.PointerDown, e.Position)
		}
	}
}

// MouseUp ends a pointer drag
func (v *View) MouseUp(e *desktop.MouseEvent) {
	if v.mode == dragPointer && e.Button == desktop.MouseButtonPrimary {
		v.dispatch(scene.PointerUp, e.Position)
	}
	v.mode = dragPointer
}

func (v *View) MouseIn(*desktop.MouseEvent) {}

func (v *View) MouseOut() {}

// MouseMoved forwards hover moves
func (v *View) MouseMoved(e *desktop.MouseEvent) {
	v.dispatch(scene.PointerMove, e.Position)
}

// Dragged moves the camera or forwards the move to the sessions
func (v *View) Dragged(e *fyne.DragEvent) {
	switch v.mode {
	case dragOrbit:
		v.camera.Rotate(float64(-e.Dragged.DY)*0.01, float64(e.Dragged.DX)*0.01)
		v.Refresh()
	case dragPan:
		v.camera.Pan(float64(e.Dragged.DX), float64(e.Dragged.DY))
		v.Refresh()
	default:
		v.dispatch(scene.PointerMove, e.Position)
	}
}

func (v *View) DragEnd() {}

// Tapped is a click
func (v *View) Tapped(e *fyne.PointEvent) {
	v.dispatch(scene.PointerClick, e.Position)
}

// TappedSecondary is a right click
func (v *View) TappedSecondary(e *fyne.PointEvent) {
	v.dispatch(scene.PointerRightClick, e.Position)
}

// DoubleTapped replaces the second click of a double click, so the click
// is delivered before the double click
func (v *View) DoubleTapped(e *fyne.PointEvent) {
	v.dispatch(scene.PointerClick, e.Position)
	v.dispatch(scene.PointerDoubleClick, e.Position)
}

// Scrolled zooms the camera
func (v *View) Scrolled(e *fyne.ScrollEvent) {
	v.camera.Zoom(-float64(e.Scrolled.DY) * 0.001)
	v.Refresh()
}

// Cursor maps the host cursor onto a desktop cursor
func (v *View) Cursor() desktop.Cursor {
	switch v.host.Cursor {
	case scene.CursorCrosshair:
		return desktop.CrosshairCursor
	case scene.CursorPointer, scene.CursorMove:
		return desktop.PointerCursor
	}
	return desktop.DefaultCursor
}

// viewRenderer implements fyne.WidgetRenderer
type viewRenderer struct {
	view       *View
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
	size       fyne.Size
}

func (r *viewRenderer) Layout(size fyne.Size) {
	r.size = size
	r.view.camera.Width = float64(size.Width)
	r.view.camera.Height = float64(size.Height)
	r.Refresh()
}

func (r *viewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (r *viewRenderer) Refresh() {
	host := r.view.host
	r.background.Resize(r.size)
	objects := []fyne.CanvasObject{r.background}
	objects = append(objects, r.grid()...)

	shapes := host.Shapes()
	var areas []area
	for _, s := range shapes {
		if s.Kind == scene.ShapeArea {
			areas = append(areas, area{points: r.project(s.Points), fill: nrgba(s.Fill)})
		}
	}
	fills := canvas.NewImageFromImage(paintAreas(int(r.size.Width), int(r.size.Height), areas))
	fills.Resize(r.size)
	objects = append(objects, fills)

	for _, s := range shapes {
		objects = append(objects, r.draw(s)...)
	}

	if host.TooltipVisible && host.Tooltip != "" {
		objects = append(objects, tooltip(host.Tooltip, host.TooltipAt)...)
	}

	r.objects = objects
	canvas.Refresh(r.view)
}

func (r *viewRenderer) project(points []geometry.Vector3) []scene.Point {
	out := make([]scene.Point, 0, len(points))
	for _, p := range points {
		if sp, ok := r.view.host.ScreenOf(p); ok {
			out = append(out, sp)
		}
	}
	return out
}

func (r *viewRenderer) draw(s scene.Shape) []fyne.CanvasObject {
	screen := r.project(s.Points)
	if len(screen) == 0 {
		return nil
	}

	switch s.Kind {
	case scene.ShapeLine:
		return polyline(screen, nrgba(s.Stroke), s.Width, false)
	case scene.ShapeArea:
		return polyline(screen, nrgba(s.Stroke), s.Width, true)
	case scene.ShapeText:
		text := canvas.NewText(s.Text, nrgba(s.Fill))
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(float32(screen[0].X)-text.MinSize().Width/2, float32(screen[0].Y)-text.MinSize().Height))
		return []fyne.CanvasObject{text}
	}

	marker := canvas.NewCircle(nrgba(s.Fill))
	marker.StrokeColor = nrgba(s.Stroke)
	marker.StrokeWidth = float32(s.Width)
	size := float32(s.Size)
	marker.Resize(fyne.NewSize(size, size))
	marker.Move(fyne.NewPos(float32(screen[0].X)-size/2, float32(screen[0].Y)-size/2))
	return []fyne.CanvasObject{marker}
}

func polyline(points []scene.Point, c color.Color, width float64, closed bool) []fyne.CanvasObject {
	var out []fyne.CanvasObject
	n := len(points)
	segments := n - 1
	if closed && n > 2 {
		segments = n
	}
	for i := 0; i < segments; i++ {
		a, b := points[i], points[(i+1)%n]
		line := canvas.NewLine(c)
		line.StrokeWidth = float32(width)
		line.Position1 = fyne.NewPos(float32(a.X), float32(a.Y))
		line.Position2 = fyne.NewPos(float32(b.X), float32(b.Y))
		out = append(out, line)
	}
	return out
}

// grid draws ground lines around the camera target at a spacing that
// follows the zoom level
func (r *viewRenderer) grid() []fyne.CanvasObject {
	camera := r.view.camera
	spacing := math.Pow(10, math.Floor(math.Log10(camera.Distance/2)))
	const cells = 10
	cx := math.Round(camera.Target.X/spacing) * spacing
	cy := math.Round(camera.Target.Y/spacing) * spacing
	extent := spacing * cells

	var out []fyne.CanvasObject
	for i := -cells; i <= cells; i++ {
		offset := float64(i) * spacing
		lines := [][2]geometry.Vector3{
			{geometry.NewVector3(cx+offset, cy-extent, 0), geometry.NewVector3(cx+offset, cy+extent, 0)},
			{geometry.NewVector3(cx-extent, cy+offset, 0), geometry.NewVector3(cx+extent, cy+offset, 0)},
		}
		for _, l := range lines {
			a, okA := camera.Project(l[0])
			b, okB := camera.Project(l[1])
			if !okA || !okB {
				continue
			}
			out = append(out, polyline([]scene.Point{a, b}, gridColor, 1, false)...)
		}
	}
	return out
}

func tooltip(text string, at scene.Point) []fyne.CanvasObject {
	label := canvas.NewText(text, color.White)
	label.TextSize = 12
	size := label.MinSize()
	pos := fyne.NewPos(float32(at.X)+14, float32(at.Y)+14)

	bg := canvas.NewRectangle(tooltipColor)
	bg.CornerRadius = 4
	bg.Resize(fyne.NewSize(size.Width+12, size.Height+6))
	bg.Move(pos)
	label.Move(pos.Add(fyne.NewPos(6, 3)))
	return []fyne.CanvasObject{bg, label}
}

func nrgba(c style.Color) color.NRGBA {
	r, g, b, a := c.RGBA8()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

func (r *viewRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *viewRenderer) Destroy() {}
