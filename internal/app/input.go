package app

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/geodraw/pkg/scene"
)

var kindKeys = []int32{
	rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive,
	rl.KeySix, rl.KeySeven, rl.KeyEight, rl.KeyNine,
}

// handleInput processes user input
func (a *App) handleInput() {
	ctrlPressed := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
	shiftPressed := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)

	a.handleKeys(ctrlPressed, shiftPressed)

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.Camera.zoom(wheel)
	}

	// Shift orbits and Ctrl pans with the left button, the middle button
	// always pans
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		a.Interaction.orbiting = shiftPressed
		a.Interaction.panning = ctrlPressed && !shiftPressed
	}
	cameraDrag := a.Interaction.orbiting || a.Interaction.panning
	if cameraDrag && rl.IsMouseButtonDown(rl.MouseLeftButton) || rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			if a.Interaction.orbiting {
				a.Camera.rotate(delta)
			} else {
				a.Camera.pan(delta)
			}
		}
	}
	if cameraDrag {
		if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
			a.Interaction.orbiting = false
			a.Interaction.panning = false
			a.Interaction.pointer.Cancel()
		}
		return
	}

	mouse := rl.GetMousePosition()
	sample := mouseSample{
		Position:      scene.Point{X: float64(mouse.X), Y: float64(mouse.Y)},
		Time:          time.Now(),
		LeftPressed:   rl.IsMouseButtonPressed(rl.MouseLeftButton),
		LeftReleased:  rl.IsMouseButtonReleased(rl.MouseLeftButton),
		RightReleased: rl.IsMouseButtonReleased(rl.MouseRightButton),
	}
	for _, e := range a.Interaction.pointer.Update(sample) {
		a.Host.Dispatch(e)
	}
}

func (a *App) handleKeys(ctrlPressed, shiftPressed bool) {
	if ctrlPressed && rl.IsKeyPressed(rl.KeyS) {
		a.save()
		return
	}

	// Camera view shortcuts
	if rl.IsKeyPressed(rl.KeyHome) {
		a.Camera.reset()
	}
	if rl.IsKeyPressed(rl.KeyT) {
		a.Camera.top()
	}
	if rl.IsKeyPressed(rl.KeyF) {
		a.fit()
	}
	if rl.IsKeyPressed(rl.KeyG) {
		a.View.showGrid = !a.View.showGrid
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.View.showHelp = !a.View.showHelp
	}

	// Kind selection and drawing
	if rl.IsKeyPressed(rl.KeyTab) {
		if shiftPressed {
			a.cycleKind(-1)
		} else {
			a.cycleKind(1)
		}
	}
	for i, key := range kindKeys {
		if rl.IsKeyPressed(key) {
			a.selectKind(i)
		}
	}
	if rl.IsKeyPressed(rl.KeyD) || rl.IsKeyPressed(rl.KeyEnter) {
		a.startDraw()
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.cancel()
	}
	if rl.IsKeyPressed(rl.KeyDelete) || rl.IsKeyPressed(rl.KeyBackspace) {
		a.deleteEdited()
	}
}
