package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"
)

// State holds the smoothed values the controller carries from tick to tick.
type State struct {
	TurnDirection    float64
	AccelerationTilt float64
	TurnLean         float64
	// Grip estimates how well the velocity follows the heading, in [0, 1]
	Grip    float64
	AirRoll float64
	AirTilt float64

	// MovementSpeed is the signed forward velocity after the tick
	MovementSpeed float64
	// WheelSpeed is the forward velocity last seen on the ground, drives wheel spin
	WheelSpeed float64

	Grounded      bool
	FrontGrounded bool
	BackGrounded  bool
	FullyGrounded bool
	CanAirControl bool
}

// View is a read-only snapshot of the vehicle for render-side consumers.
type View struct {
	Valid      bool
	Position   mgl64.Vec3
	Rotation   mgl64.Quat
	MassCenter mgl64.Vec3
	Scale      float64
	State      State
	// Ignore lists the bodies a camera trace must not hit: the vehicle and its driver
	Ignore []uint64
}
