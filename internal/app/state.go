package app

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/geodraw/internal/document"
	"github.com/philipparndt/geodraw/pkg/watcher"
)

// ViewSettings holds display settings
type ViewSettings struct {
	showGrid bool
	showHelp bool
}

// InteractionState holds mouse and kind selection state
type InteractionState struct {
	pointer   pointerTracker
	orbiting  bool
	panning   bool
	kindIndex int
}

// DocumentState holds the open file and its reload state
type DocumentState struct {
	doc        *document.Document
	reloader   *watcher.Reloader
	lastReload time.Time
	loadErrors int
}

// UIState holds UI-related state
type UIState struct {
	font     rl.Font
	status   string
	statusAt time.Time
}
