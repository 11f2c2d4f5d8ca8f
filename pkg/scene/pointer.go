package scene

// PointerKind classifies pointer input
type PointerKind int

const (
	PointerMove PointerKind = iota
	PointerDown
	PointerUp
	PointerClick
	PointerRightClick
	PointerDoubleClick
)

func (k PointerKind) String() string {
	switch k {
	case PointerMove:
		return "move"
	case PointerDown:
		return "down"
	case PointerUp:
		return "up"
	case PointerClick:
		return "click"
	case PointerRightClick:
		return "rightClick"
	case PointerDoubleClick:
		return "doubleClick"
	}
	return "unknown"
}

// PointerEvent is one pointer input at a screen position
type PointerEvent struct {
	Kind     PointerKind
	Position Point
}

// PointerHandler receives pointer input
type PointerHandler func(PointerEvent)

// Dispatcher fans pointer events out to bound handlers. Hosts embed it to
// implement Input.
type Dispatcher struct {
	next     int
	handlers []binding
}

type binding struct {
	id int
	h  PointerHandler
}

// Bind registers h and returns a function that unbinds it
func (d *Dispatcher) Bind(h PointerHandler) func() {
	d.next++
	id := d.next
	d.handlers = append(d.handlers, binding{id: id, h: h})
	return func() {
		for i, b := range d.handlers {
			if b.id == id {
				d.handlers = append(d.handlers[:i:i], d.handlers[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers e to every bound handler in binding order. Handlers
// bound while dispatching see the next event; handlers unbound while
// dispatching are skipped.
func (d *Dispatcher) Dispatch(e PointerEvent) {
	for _, b := range append([]binding(nil), d.handlers...) {
		if d.bound(b.id) {
			b.h(e)
		}
	}
}

func (d *Dispatcher) bound(id int) bool {
	for _, b := range d.handlers {
		if b.id == id {
			return true
		}
	}
	return false
}

// Bound returns the number of bound handlers
func (d *Dispatcher) Bound() int {
	return len(d.handlers)
}
