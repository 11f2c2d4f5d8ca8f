package events

// Bus delivers events synchronously in subscription order. It is not safe
// for concurrent use; events are emitted from the host's event loop.
type Bus struct {
	next     int
	handlers map[Type][]subscription
	all      []subscription
}

type subscription struct {
	id      int
	handler Handler
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[Type][]subscription)}
}

// On subscribes to one event type and returns a function that removes
// the subscription
func (b *Bus) On(t Type, h Handler) func() {
	b.next++
	id := b.next
	b.handlers[t] = append(b.handlers[t], subscription{id: id, handler: h})
	return func() {
		b.handlers[t] = without(b.handlers[t], id)
	}
}

// OnAny subscribes to every event
func (b *Bus) OnAny(h Handler) func() {
	b.next++
	id := b.next
	b.all = append(b.all, subscription{id: id, handler: h})
	return func() {
		b.all = without(b.all, id)
	}
}

// Emit delivers e to the handlers of its type, then to catch-all handlers
func (b *Bus) Emit(e Event) {
	for _, s := range append([]subscription(nil), b.handlers[e.Type]...) {
		s.handler(e)
	}
	for _, s := range append([]subscription(nil), b.all...) {
		s.handler(e)
	}
}

func without(subs []subscription, id int) []subscription {
	out := subs[:0:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}

// Recorder collects events, mostly for tests and the CLI
type Recorder struct {
	Events []Event
}

// Emit records e
func (r *Recorder) Emit(e Event) {
	r.Events = append(r.Events, e)
}

// Types returns the recorded event types in order
func (r *Recorder) Types() []Type {
	out := make([]Type, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}

// Count returns how many events of type t were recorded
func (r *Recorder) Count(t Type) int {
	n := 0
	for _, e := range r.Events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Reset forgets recorded events
func (r *Recorder) Reset() {
	r.Events = nil
}
