package app

import (
	"math"
	"time"

	"github.com/philipparndt/geodraw/pkg/scene"
)

const (
	// clickDistance is how far the mouse may travel between press and
	// release for the release to count as a click
	clickDistance = 5.0
	// doubleClickTime is the longest gap between two clicks of a double click
	doubleClickTime = 400 * time.Millisecond
)

// mouseSample is the state of the mouse in one frame
type mouseSample struct {
	Position scene.Point
	Time     time.Time

	LeftPressed   bool
	LeftReleased  bool
	RightReleased bool
}

// pointerTracker turns polled mouse state into pointer events. raylib only
// reports button state per frame, so clicks and double clicks are derived
// here.
type pointerTracker struct {
	last      scene.Point
	hasLast   bool
	downAt    scene.Point
	down      bool
	moved     bool
	lastClick time.Time
	clickAt   scene.Point
}

// Update returns the pointer events of one frame in dispatch order
func (t *pointerTracker) Update(s mouseSample) []scene.PointerEvent {
	var out []scene.PointerEvent
	emit := func(kind scene.PointerKind) {
		out = append(out, scene.PointerEvent{Kind: kind, Position: s.Position})
	}

	if !t.hasLast || s.Position != t.last {
		emit(scene.PointerMove)
		if t.down && distance(t.downAt, s.Position) >= clickDistance {
			t.moved = true
		}
	}
	t.last = s.Position
	t.hasLast = true

	if s.LeftPressed {
		t.down = true
		t.moved = false
		t.downAt = s.Position
		emit(scene.PointerDown)
	}

	if s.LeftReleased && t.down {
		t.down = false
		emit(scene.PointerUp)
		if !t.moved {
			emit(scene.PointerClick)
			if !t.lastClick.IsZero() && s.Time.Sub(t.lastClick) <= doubleClickTime &&
				distance(t.clickAt, s.Position) < clickDistance {
				emit(scene.PointerDoubleClick)
				t.lastClick = time.Time{}
			} else {
				t.lastClick = s.Time
				t.clickAt = s.Position
			}
		}
	}

	if s.RightReleased {
		emit(scene.PointerRightClick)
	}
	return out
}

// Cancel forgets a press, used when a camera drag took over the mouse
func (t *pointerTracker) Cancel() {
	t.down = false
	t.moved = false
}

func distance(a, b scene.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
