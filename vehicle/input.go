package vehicle

import "github.com/akmonengine/drivetrain/mathutil"

// Input is the driver command of one tick.
type Input struct {
	Throttle float64
	Turning  float64
	Braking  float64
	Tilt     float64
	Roll     float64
}

// Clamped restricts every axis to [-1, 1], braking to [0, 1].
func (in Input) Clamped() Input {
	return Input{
		Throttle: mathutil.Clamp(in.Throttle, -1, 1),
		Turning:  mathutil.Clamp(in.Turning, -1, 1),
		Braking:  mathutil.Clamp01(in.Braking),
		Tilt:     mathutil.Clamp(in.Tilt, -1, 1),
		Roll:     mathutil.Clamp(in.Roll, -1, 1),
	}
}

// Buttons is the held state of the driving buttons.
type Buttons struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Jump    bool
	Run     bool
	Duck    bool
}

func axis(positive, negative bool) float64 {
	v := 0.0
	if positive {
		v++
	}
	if negative {
		v--
	}
	return v
}

// InputFromButtons maps held buttons to a command. Left and right steer on the ground and roll in the air.
func InputFromButtons(b Buttons) Input {
	return Input{
		Throttle: axis(b.Forward, b.Back),
		Turning:  axis(b.Left, b.Right),
		Braking:  axis(b.Jump, false),
		Tilt:     axis(b.Run, b.Duck),
		Roll:     axis(b.Left, b.Right),
	}
}
