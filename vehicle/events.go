package vehicle

const (
	PROBE EventType = iota
	GRIP
	GROUND_ENTER
	GROUND_EXIT
	AIR_CONTROL
)

type EventType uint8

func (t EventType) String() string {
	switch t {
	case PROBE:
		return "probe"
	case GRIP:
		return "grip"
	case GROUND_ENTER:
		return "ground_enter"
	case GROUND_EXIT:
		return "ground_exit"
	case AIR_CONTROL:
		return "air_control"
	}
	return "unknown"
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// ProbeEvent reports one suspension probe of the physics pass
type ProbeEvent struct {
	Wheel       WheelPosition
	Grounded    bool
	Distance    float64
	Compression float64
	Impulse     float64
}

func (e ProbeEvent) Type() EventType { return PROBE }

type GripEvent struct {
	Grip  float64
	Angle float64
	Speed float64
}

func (e GripEvent) Type() EventType { return GRIP }

// GroundEnterEvent is sent on the tick an airborne vehicle lands
type GroundEnterEvent struct {
	Speed float64
}

func (e GroundEnterEvent) Type() EventType { return GROUND_ENTER }

// GroundExitEvent is sent on the tick the last wheel leaves the ground
type GroundExitEvent struct {
	Speed float64
}

func (e GroundExitEvent) Type() EventType { return GROUND_EXIT }

type AirControlEvent struct {
	Roll       float64
	Tilt       float64
	NearGround bool
}

func (e AirControlEvent) Type() EventType { return AIR_CONTROL }

// EventListener - callback for events
type EventListener func(event Event)

// Events collects the diagnostics of a controller and hands them to listeners after each tick.
// Nothing is buffered for an event type without listeners.
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event
}

func NewEvents() *Events {
	return &Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 16),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// SubscribeAll adds a listener for every event type
func (e *Events) SubscribeAll(listener EventListener) {
	for t := PROBE; t <= AIR_CONTROL; t++ {
		e.Subscribe(t, listener)
	}
}

func (e *Events) wants(eventType EventType) bool {
	return e != nil && len(e.listeners[eventType]) > 0
}

func (e *Events) emit(event Event) {
	if !e.wants(event.Type()) {
		return
	}
	e.buffer = append(e.buffer, event)
}

// discard drops the buffer of an aborted tick
func (e *Events) discard() {
	if e == nil {
		return
	}
	e.buffer = e.buffer[:0]
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	if e == nil {
		return
	}

	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}
