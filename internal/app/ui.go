package app

import (
	"fmt"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/measure"
	"github.com/philipparndt/geodraw/version"
)

const statusTimeout = 4 * time.Second

var (
	headingColor = rl.Yellow
	textColor    = rl.White
	helpColor    = rl.LightGray
	activeColor  = rl.NewColor(144, 238, 144, 255)
	errorColor   = rl.NewColor(255, 100, 100, 255)
)

// panelWriter writes lines top down
type panelWriter struct {
	font rl.Font
	x, y float32
}

func (w *panelWriter) line(text string, size float32, c rl.Color) {
	rl.DrawTextEx(w.font, text, rl.Vector2{X: w.x, Y: w.y}, size, 1, c)
	w.y += 20
}

func (w *panelWriter) gap() {
	w.y += 20
}

// drawUI draws the user interface
func (a *App) drawUI() {
	w := &panelWriter{font: a.UI.font, x: 10, y: 10}
	screenWidth := float32(rl.GetScreenWidth())
	screenHeight := float32(rl.GetScreenHeight())

	// === DOCUMENT ===
	w.line("Document:", 16, headingColor)
	if doc := a.Document.doc; doc != nil {
		w.line(fmt.Sprintf("  File: %s", filepath.Base(doc.Path)), 14, textColor)
	} else {
		w.line("  Scratch scene", 14, textColor)
	}
	w.line(fmt.Sprintf("  Features: %d", a.Plotter.Store().Len()), 14, textColor)
	if a.Document.loadErrors > 0 {
		w.line(fmt.Sprintf("  Skipped: %d", a.Document.loadErrors), 14, errorColor)
	}
	if !a.Document.lastReload.IsZero() {
		w.line(fmt.Sprintf("  Reloaded %s ago", time.Since(a.Document.lastReload).Round(time.Second)), 14, helpColor)
	}
	w.gap()

	// === DRAW ===
	w.line("Draw:", 16, headingColor)
	for i, kind := range a.kinds {
		marker := "  "
		c := helpColor
		if i == a.Interaction.kindIndex {
			marker = "> "
			c = activeColor
		}
		key := " "
		if i < len(kindKeys) {
			key = fmt.Sprint(i + 1)
		}
		w.line(fmt.Sprintf("  %s%s %s", marker, key, kind), 14, c)
	}
	w.gap()

	// === MEASURE ===
	if f := a.measured(); f != nil {
		r := measure.Measure(f, a.Host.Ellipsoid())
		w.line("Measure:", 16, headingColor)
		w.line(fmt.Sprintf("  %s, %d points", r.Kind, r.Points), 14, textColor)
		if r.Length > 0 {
			label := "Length"
			if r.Closed() {
				label = "Perimeter"
			}
			w.line(fmt.Sprintf("  %s: %s", label, measure.FormatLength(r.Length)), 14, activeColor)
		}
		if r.Area > 0 {
			w.line(fmt.Sprintf("  Area: %s", measure.FormatArea(r.Area)), 14, activeColor)
		}
		if r.Height != 0 {
			w.line(fmt.Sprintf("  Height: %s", measure.FormatLength(r.Height)), 14, activeColor)
		}
		w.gap()
	}

	// === HELP ===
	if a.View.showHelp {
		w.line("Keys:", 16, headingColor)
		w.line("  1-9/Tab: Kind | D/Enter: Draw", 14, helpColor)
		w.line("  Esc: Cancel | Del: Delete edited", 14, helpColor)
		w.line("  Ctrl+S: Save | H: Help | G: Grid", 14, helpColor)
		w.gap()
		w.line("Navigate:", 16, headingColor)
		w.line("  Shift+Drag: Rotate | Ctrl+Drag: Pan", 14, helpColor)
		w.line("  Mouse Wheel: Zoom | Middle: Pan", 14, helpColor)
		w.line("  Home: Reset | T: Top | F: Fit", 14, helpColor)
	}

	// Tooltip next to the pointer
	if a.Host.TooltipVisible && a.Host.Tooltip != "" {
		a.drawBox(a.Host.Tooltip, float32(a.Host.TooltipAt.X)+14, float32(a.Host.TooltipAt.Y)+14, rl.White)
	}

	// Status in the bottom-right corner
	if a.UI.status != "" && time.Since(a.UI.statusAt) < statusTimeout {
		size := rl.MeasureTextEx(a.UI.font, a.UI.status, 16, 1)
		a.drawBox(a.UI.status, screenWidth-size.X-40, screenHeight-size.Y-40, rl.Yellow)
	}

	// Version and FPS in bottom-left corner
	bottomY := screenHeight - 30
	versionText := fmt.Sprintf("v%s", version.GetVersion())
	rl.DrawTextEx(a.UI.font, versionText, rl.Vector2{X: 10, Y: bottomY}, 12, 1, rl.Gray)

	fpsText := fmt.Sprintf("FPS: %d", rl.GetFPS())
	versionWidth := rl.MeasureTextEx(a.UI.font, versionText, 12, 1).X
	rl.DrawTextEx(a.UI.font, fpsText, rl.Vector2{X: 10 + versionWidth + 15, Y: bottomY}, 12, 1, rl.Lime)
}

func (a *App) drawBox(text string, x, y float32, c rl.Color) {
	const padding = 8
	size := rl.MeasureTextEx(a.UI.font, text, 16, 1)
	width := size.X + padding*2
	height := size.Y + padding*2

	rl.DrawRectangle(int32(x), int32(y), int32(width), int32(height), rl.NewColor(0, 0, 0, 200))
	rl.DrawRectangleLines(int32(x), int32(y), int32(width), int32(height), c)
	rl.DrawTextEx(a.UI.font, text, rl.Vector2{X: x + padding, Y: y + padding}, 16, 1, c)
}

// measured returns the feature whose measurements are shown: the one being
// drawn, else the one being edited
func (a *App) measured() *feature.Feature {
	if f := a.Plotter.Drawing(); f != nil {
		return f
	}
	if id, ok := a.Plotter.Editing(); ok {
		if f, found := a.Plotter.Store().Get(id); found {
			return f
		}
	}
	return nil
}
