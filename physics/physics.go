// Package physics describes the services the vehicle and camera controllers expect
// from the simulation they run inside: traces against the world and a rigid-body handle.
package physics

import "github.com/go-gl/mathgl/mgl64"

// TagSolid marks surfaces wheels can rest on.
const TagSolid = "solid"

// Ray describes a trace from Start to End. A positive Radius sweeps a sphere along the segment.
type Ray struct {
	Start  mgl64.Vec3
	End    mgl64.Vec3
	Radius float64
	// Tags restricts hits to bodies carrying every listed tag.
	Tags []string
	// Ignore lists body ids excluded from the trace.
	Ignore []uint64
}

// Hit is the result of a trace.
type Hit struct {
	Hit bool
	// Fraction of the segment travelled before the hit, 1 when nothing was hit.
	Fraction float64
	// Distance travelled before the hit.
	Distance float64
	// StartPosition and EndPosition delimit the travelled part of the segment.
	StartPosition mgl64.Vec3
	EndPosition   mgl64.Vec3
	// Point is the contact point on the surface.
	Point  mgl64.Vec3
	Normal mgl64.Vec3
	BodyID uint64
}

// Miss builds the result of a trace that hit nothing.
func Miss(ray Ray) Hit {
	return Hit{
		Fraction:      1,
		Distance:      ray.End.Sub(ray.Start).Len(),
		StartPosition: ray.Start,
		EndPosition:   ray.End,
	}
}

// Tracer resolves traces against the world.
type Tracer interface {
	Trace(ray Ray) Hit
}

// Service is the part of the world the vehicle controller talks to.
type Service interface {
	Tracer
	// GetGravity returns the world gravity acceleration.
	GetGravity() mgl64.Vec3
}

// Body is a handle to a rigid body owned by the physics service.
// Every accessor must tolerate a destroyed body; callers check Valid first.
type Body interface {
	ID() uint64
	Valid() bool

	Position() mgl64.Vec3
	Rotation() mgl64.Quat
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	AngularVelocity() mgl64.Vec3
	SetAngularVelocity(w mgl64.Vec3)

	Mass() float64
	LocalMassCenter() mgl64.Vec3
	// MassCenter is the world position of the centre of mass.
	MassCenter() mgl64.Vec3

	GravityScale() float64
	SetGravityScale(scale float64)
	LinearDamping() float64
	SetLinearDamping(d float64)
	AngularDamping() float64
	SetAngularDamping(d float64)

	ApplyImpulseAt(point, impulse mgl64.Vec3)
	ApplyForceAt(point, force mgl64.Vec3)
	VelocityAtPoint(point mgl64.Vec3) mgl64.Vec3
}
