package camera

// Event is emitted by navigators. The concrete type is one of Change, Start, End or Debug.
type Event interface {
	isEvent()
}

// Change reports that the camera moved; Looking is the pose after the move.
type Change struct {
	Looking Looking
}

// Start marks the beginning of a user interaction.
type Start struct{}

// End marks the end of a user interaction.
type End struct{}

// Debug carries a free-text trace of navigator internals.
type Debug struct {
	Message string
}

func (Change) isEvent() {}
func (Start) isEvent()  {}
func (End) isEvent()    {}
func (Debug) isEvent()  {}

// Listener receives navigator events synchronously on the caller's goroutine.
type Listener func(Event)

type dispatcher struct {
	listeners []Listener
}

// AddListener registers l. Listeners run in registration order.
func (d *dispatcher) AddListener(l Listener) {
	if l != nil {
		d.listeners = append(d.listeners, l)
	}
}

func (d *dispatcher) emit(e Event) {
	for _, l := range d.listeners {
		l(e)
	}
}

func (d *dispatcher) clearListeners() {
	d.listeners = nil
}
