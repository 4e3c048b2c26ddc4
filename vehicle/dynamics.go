package vehicle

import (
	"math"

	"github.com/akmonengine/drivetrain/mathutil"
	"github.com/go-gl/mathgl/mgl64"
)

// turnFactor scales steering authority: it ramps in with speed, then tapers at high speed.
func turnFactor(direction, speed float64, cfg SteeringConfig) float64 {
	ramp := math.Min(speed/cfg.TurnRampSpeed, 1)
	taper := 1 - mathutil.Clamp(speed/cfg.TaperSpeed, 0, cfg.TaperMax)
	return direction * ramp * taper
}

// driveFactor fades the drive out linearly as the forward speed reaches the cap.
func driveFactor(forwardSpeed float64, cfg DriveConfig) float64 {
	return 1 - mathutil.Clamp01(math.Abs(forwardSpeed)/cfg.MaxSpeed)
}

// gripTarget measures how well the horizontal velocity follows the heading.
// localVelocity is in vehicle space. At low speed the heading is barely trusted and the result leans toward 1.
func gripTarget(localVelocity mgl64.Vec3, cfg GripConfig) float64 {
	horizontal := mgl64.Vec3{localVelocity.X(), localVelocity.Y(), 0}

	trust := mathutil.Clamp01(math.Pow(mathutil.Clamp01(horizontal.Len()/cfg.Speed), cfg.Exponent))
	if trust < cfg.Deadzone {
		trust = 0
	}

	heading := mathutil.SafeNormalize(mathutil.AxisForward.Mul(mathutil.Sign(localVelocity.X())))
	angle := mathutil.Clamp01(heading.Dot(mathutil.SafeNormalize(horizontal)))

	return mathutil.Lerp(angle, 1, 1-trust)
}

// velocityDamping damps each vehicle-space component of velocity by (1-damping)^dt.
func velocityDamping(velocity mgl64.Vec3, rotation mgl64.Quat, damping mgl64.Vec3, dt float64) mgl64.Vec3 {
	local := rotation.Inverse().Rotate(velocity)
	factors := mgl64.Vec3{
		math.Pow(1-damping.X(), dt),
		math.Pow(1-damping.Y(), dt),
		math.Pow(1-damping.Z(), dt),
	}
	return rotation.Rotate(mathutil.ScaleComponents(local, factors))
}

// suspensionLength returns the probe length of a wheel: acceleration tilt lengthens the front
// and shortens the back, lean lengthens the left side.
func suspensionLength(position WheelPosition, state State, cfg Config) float64 {
	tilt := state.AccelerationTilt * cfg.Layout.TiltTravel
	lean := state.TurnLean * cfg.Layout.LeanTravel

	length := cfg.Suspension.Length
	if position.Front() {
		length += tilt
	} else {
		length -= tilt
	}
	if position.Right() {
		length -= lean
	} else {
		length += lean
	}
	return length
}
