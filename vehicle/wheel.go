package vehicle

import (
	"math"

	"github.com/akmonengine/drivetrain/mathutil"
	"github.com/akmonengine/drivetrain/physics"
	"github.com/go-gl/mathgl/mgl64"
)

type WheelPosition uint8

const (
	FrontRight WheelPosition = iota
	FrontLeft
	BackRight
	BackLeft
)

func (p WheelPosition) String() string {
	switch p {
	case FrontRight:
		return "front_right"
	case FrontLeft:
		return "front_left"
	case BackRight:
		return "back_right"
	case BackLeft:
		return "back_left"
	}
	return "unknown"
}

func (p WheelPosition) Front() bool { return p == FrontRight || p == FrontLeft }

// Right side wheels sit on -Y
func (p WheelPosition) Right() bool { return p == FrontRight || p == BackRight }

// Wheel is a raycast suspension probe. Its compression history spans one tick,
// enough to estimate the spring velocity.
type Wheel struct {
	Position WheelPosition
	// AttachOffset is the attach point in vehicle space, before scaling
	AttachOffset mgl64.Vec3

	PreviousCompression float64
	CurrentCompression  float64
	LastGroundDistance  float64
	Grounded            bool
}

// NewWheel places a wheel according to the layout.
func NewWheel(position WheelPosition, layout LayoutConfig) Wheel {
	forward := layout.Forward
	if !position.Front() {
		forward = -forward
	}
	side := layout.Side
	if position.Right() {
		side = -side
	}

	return Wheel{
		Position:     position,
		AttachOffset: mgl64.Vec3{forward, side, layout.Height},
	}
}

// probeContext is what a probe reads from the vehicle for one pass
type probeContext struct {
	tracer     physics.Tracer
	body       physics.Body
	position   mgl64.Vec3
	rotation   mgl64.Quat
	scale      float64
	ignore     []uint64
	suspension SuspensionConfig
	events     *Events
}

// WorldAttachOffset rotates and scales the attach offset into world space.
func (w *Wheel) WorldAttachOffset(rotation mgl64.Quat, scale float64) mgl64.Vec3 {
	return rotation.Rotate(w.AttachOffset).Mul(scale)
}

// Probe casts from the attach point along the vehicle down axis over length*scale.
// It returns whether solid ground was found and the ground distance, length*fraction.
// With applyForces the spring-damper impulse is applied at the attach point;
// without it the probe only measures, for cosmetic posing.
func (w *Wheel) Probe(ctx probeContext, length float64, applyForces bool, worldOffset mgl64.Vec3, dt float64) (bool, float64) {
	attach := ctx.position.Add(worldOffset)
	up := mathutil.Up(ctx.rotation)
	reach := length * ctx.scale

	tr := ctx.tracer.Trace(physics.Ray{
		Start:  attach,
		End:    attach.Sub(up.Mul(reach)),
		Tags:   []string{physics.TagSolid},
		Ignore: ctx.ignore,
	})

	distance := length * tr.Fraction
	if !applyForces {
		return tr.Hit, distance
	}

	w.Grounded = tr.Hit
	w.LastGroundDistance = distance

	if !tr.Hit || dt <= 0 {
		ctx.events.emit(ProbeEvent{Wheel: w.Position, Grounded: tr.Hit, Distance: distance})
		return tr.Hit, distance
	}

	mass := ctx.body.Mass()
	s := ctx.suspension

	w.PreviousCompression = w.CurrentCompression
	w.CurrentCompression = reach - tr.Distance

	springVelocity := (w.CurrentCompression - w.PreviousCompression) / dt
	springForce := mass * s.Spring * w.CurrentCompression
	damperForce := mass * (s.DamperBase + (1-tr.Fraction)*s.DamperSlope) * springVelocity

	// Only the part of the attach point velocity heading into the ground is corrected
	velocity := ctx.body.VelocityAtPoint(attach)
	speed := velocity.Len()
	speedDot := 0.0
	if speed > 0 {
		speedDot = math.Abs(math.Min(velocity.Dot(up)/speed, 0))
	}
	speedAlongNormal := speedDot * speed
	correctionForce := (1 - tr.Fraction) * (speedAlongNormal / s.CorrectionSpeed) * s.Correction * speedAlongNormal / dt

	force := springForce + damperForce + correctionForce
	ctx.body.ApplyImpulseAt(attach, tr.Normal.Mul(force*dt))

	ctx.events.emit(ProbeEvent{
		Wheel:       w.Position,
		Grounded:    true,
		Distance:    distance,
		Compression: w.CurrentCompression,
		Impulse:     force * dt,
	})

	return true, distance
}
