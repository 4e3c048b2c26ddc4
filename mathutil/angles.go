package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Angles is a pitch/yaw/roll triplet in degrees.
type Angles struct {
	Pitch float64
	Yaw   float64
	Roll  float64
}

// Normal wraps every component into (-180, 180].
func (a Angles) Normal() Angles {
	return Angles{
		Pitch: NormalizeAngle(a.Pitch),
		Yaw:   NormalizeAngle(a.Yaw),
		Roll:  NormalizeAngle(a.Roll),
	}
}

// Quat builds the orientation yaw(Z) * pitch(Y) * roll(X).
func (a Angles) Quat() mgl64.Quat {
	return FromAngles(a.Pitch, a.Yaw, a.Roll)
}

// NormalizeAngle wraps deg into (-180, 180].
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// FromAngles builds an orientation from pitch, yaw and roll in degrees.
func FromAngles(pitch, yaw, roll float64) mgl64.Quat {
	return FromYaw(yaw).Mul(FromPitch(pitch)).Mul(FromRoll(roll))
}

// FromYaw rotates about the up axis.
func FromYaw(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), AxisUp)
}

// FromPitch rotates about the left axis, positive values point the nose down.
func FromPitch(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), AxisLeft)
}

// FromRoll rotates about the forward axis.
func FromRoll(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), AxisForward)
}

// FromAxis rotates deg degrees about an arbitrary axis.
func FromAxis(axis mgl64.Vec3, deg float64) mgl64.Quat {
	axis = SafeNormalize(axis)
	if axis.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(mgl64.DegToRad(deg), axis)
}

// ToAngles extracts pitch, yaw and roll from q.
func ToAngles(q mgl64.Quat) Angles {
	f := q.Rotate(AxisForward)
	l := q.Rotate(AxisLeft)
	u := q.Rotate(AxisUp)

	return Angles{
		Pitch: mgl64.RadToDeg(math.Asin(Clamp(-f.Z(), -1, 1))),
		Yaw:   mgl64.RadToDeg(math.Atan2(f.Y(), f.X())),
		Roll:  mgl64.RadToDeg(math.Atan2(l.Z(), u.Z())),
	}
}

// Yaw returns the heading of q in degrees.
func Yaw(q mgl64.Quat) float64 {
	f := q.Rotate(AxisForward)
	return mgl64.RadToDeg(math.Atan2(f.Y(), f.X()))
}

// Pitch returns the nose-down angle of q in degrees.
func Pitch(q mgl64.Quat) float64 {
	f := q.Rotate(AxisForward)
	return mgl64.RadToDeg(math.Asin(Clamp(-f.Z(), -1, 1)))
}

func Forward(q mgl64.Quat) mgl64.Vec3  { return q.Rotate(AxisForward) }
func Backward(q mgl64.Quat) mgl64.Vec3 { return q.Rotate(AxisForward).Mul(-1) }
func Left(q mgl64.Quat) mgl64.Vec3     { return q.Rotate(AxisLeft) }
func Right(q mgl64.Quat) mgl64.Vec3    { return q.Rotate(AxisLeft).Mul(-1) }
func Up(q mgl64.Quat) mgl64.Vec3       { return q.Rotate(AxisUp) }
func Down(q mgl64.Quat) mgl64.Vec3     { return q.Rotate(AxisUp).Mul(-1) }

// Slerp interpolates along the shortest arc, t is clamped to [0, 1].
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	t = Clamp01(t)
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	if t == 0 {
		return a
	}
	if t == 1 {
		return b.Normalize()
	}
	return mgl64.QuatSlerp(a, b, t).Normalize()
}
