package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func TestEvents_OnlyBufferedWithListeners(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(GRIP, capture.capture)

	events.emit(ProbeEvent{Wheel: FrontLeft})
	events.emit(GripEvent{Grip: 0.5})

	require.Len(t, events.buffer, 1)

	events.flush()

	require.Len(t, capture.events, 1)
	assert.Equal(t, GRIP, capture.events[0].Type())
	assert.Empty(t, events.buffer)
}

func TestEvents_SubscribeAll(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.SubscribeAll(capture.capture)

	events.emit(ProbeEvent{})
	events.emit(GripEvent{})
	events.emit(GroundEnterEvent{})
	events.emit(GroundExitEvent{})
	events.emit(AirControlEvent{})
	events.flush()

	assert.Len(t, capture.events, 5)
}

func TestEvents_Discard(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.SubscribeAll(capture.capture)

	events.emit(GripEvent{})
	events.discard()
	events.flush()

	assert.Empty(t, capture.events)
}

func TestEvents_NilIsSilent(t *testing.T) {
	var events *Events

	assert.NotPanics(t, func() {
		events.emit(GripEvent{})
		events.flush()
		events.discard()
	})
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "probe", PROBE.String())
	assert.Equal(t, "air_control", AIR_CONTROL.String())
	assert.Equal(t, "unknown", EventType(99).String())
}
