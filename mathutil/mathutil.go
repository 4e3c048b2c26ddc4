// Package mathutil holds the scalar, vector and orientation helpers shared by the
// vehicle and camera controllers.
//
// World convention: Z is up, X is forward, Y is left. Angles are expressed in degrees,
// a positive pitch points the nose down and a positive yaw turns toward +Y.
package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	AxisForward = mgl64.Vec3{1, 0, 0}
	AxisLeft    = mgl64.Vec3{0, 1, 0}
	AxisUp      = mgl64.Vec3{0, 0, 1}
)

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 restricts v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Lerp interpolates from a to b, t is clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	t = Clamp01(t)
	return a + (b-a)*t
}

// LerpVec3 interpolates two vectors, t is clamped to [0, 1].
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	t = Clamp01(t)
	return a.Add(b.Sub(a).Mul(t))
}

// DecayFactor returns the interpolation weight 1 - decay^dt.
// Feeding it to Lerp every step gives the same half-life whatever the step length.
func DecayFactor(decay, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	return 1 - math.Pow(decay, dt)
}

// Smooth moves value toward target with a frame-rate independent exponential decay.
func Smooth(value, target, decay, dt float64) float64 {
	return Lerp(value, target, DecayFactor(decay, dt))
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// SafeNormalize returns the unit vector of v, or the zero vector when v has no length.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// ClampLength scales v down so that its length does not exceed max.
func ClampLength(v mgl64.Vec3, max float64) mgl64.Vec3 {
	l := v.Len()
	if l <= max || l < 1e-12 {
		return v
	}
	return v.Mul(max / l)
}

// ScaleComponents multiplies a and b component-wise.
func ScaleComponents(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
