package grid

// EventType identifies a user interaction delivered to the surface.
type EventType int

const (
	Click EventType = iota
	DblClick
	Input
	Blur
	Change
	Cancel
)

func (t EventType) String() string {
	switch t {
	case Click:
		return "click"
	case DblClick:
		return "dblclick"
	case Input:
		return "input"
	case Blur:
		return "blur"
	case Change:
		return "change"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Event is one activation or input delivered to a target. At most one of
// Header, Cell, Control and Editor is the origin of the event.
type Event struct {
	Type    EventType
	Header  *Header
	Cell    *Cell
	Control *Control
	Editor  *TextInput

	defaultPrevented bool
}

// PreventDefault suppresses the environment's default action.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// Handler reacts to an event. Handlers run synchronously, in registration
// order, on the goroutine that dispatched the event.
type Handler func(ev *Event)

// Target holds event listeners.
type Target struct {
	handlers map[EventType][]Handler
}

// On registers a listener for typ.
func (t *Target) On(typ EventType, h Handler) {
	if t.handlers == nil {
		t.handlers = make(map[EventType][]Handler)
	}
	t.handlers[typ] = append(t.handlers[typ], h)
}

// Off removes every listener for typ.
func (t *Target) Off(typ EventType) {
	delete(t.handlers, typ)
}

// ListenerCount returns the number of registered listeners.
func (t *Target) ListenerCount() int {
	n := 0
	for _, hs := range t.handlers {
		n += len(hs)
	}
	return n
}

func (t *Target) dispatch(ev *Event) {
	// copy so a handler may call Off while we iterate
	hs := append([]Handler(nil), t.handlers[ev.Type]...)
	for _, h := range hs {
		h(ev)
	}
}
