package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and contacts
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, ramps)
	BodyTypeStatic
)

type Material struct {
	Density     float64
	mass        float64
	Restitution float64 // 0= no rebound, 1= perfect restitution

	StaticFriction  float64
	DynamicFriction float64
	LinearDamping   float64 // exponential, per second
	AngularDamping  float64 // exponential, per second
}

func (material Material) GetMass() float64 {
	return material.mass
}

// RigidBody represents a rigid body in the simulation.
// Transform.Position is the body origin; Velocity is the velocity of the centre of mass.
type RigidBody struct {
	// Assigned by the world, zero until the body is added
	ID   uint64
	Tags []string

	Transform Transform

	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3 // rad/s, world space

	InertiaLocal        mgl64.Mat3
	InverseInertiaLocal mgl64.Mat3
	// Centre of mass in body space, taken from the shape
	LocalMassCenter mgl64.Vec3

	// Multiplier applied to the world gravity, 1 by default
	GravityScale float64

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3

	Material Material
	BodyType BodyType

	Shape ShapeInterface

	destroyed bool
}

// NewRigidBody creates a new rigid body with the given properties
// density is used to calculate mass for dynamic bodies (ignored for static)
func NewRigidBody(transform Transform, shape ShapeInterface, bodyType BodyType, density float64) *RigidBody {
	if transform.Rotation == (mgl64.Quat{}) {
		transform.Rotation = mgl64.QuatIdent()
	}
	transform.InverseRotation = transform.Rotation.Inverse()

	rb := &RigidBody{
		Transform:       transform,
		Shape:           shape,
		BodyType:        bodyType,
		GravityScale:    1,
		LocalMassCenter: shape.LocalCenter(),
	}

	if bodyType == BodyTypeStatic {
		rb.Material = Material{
			mass:            math.Inf(1),
			StaticFriction:  0.6,
			DynamicFriction: 0.4,
		}
		rb.InertiaLocal = mgl64.Mat3{}
		rb.InverseInertiaLocal = mgl64.Mat3{}
	} else {
		rb.Material = Material{
			Density:         density,
			mass:            shape.ComputeMass(density),
			StaticFriction:  0.6,
			DynamicFriction: 0.4,
		}
		rb.InertiaLocal = shape.ComputeInertia(rb.Material.mass)
		rb.InverseInertiaLocal = rb.InertiaLocal.Inv()
	}

	rb.Shape.ComputeAABB(rb.Transform)

	return rb
}

// Valid reports whether the body is still part of a simulation.
func (rb *RigidBody) Valid() bool {
	return rb != nil && !rb.destroyed
}

// Destroy invalidates the body; every handle pointing to it becomes invalid.
func (rb *RigidBody) Destroy() {
	rb.destroyed = true
	rb.ClearForces()
}

// HasTags reports whether the body carries every tag in tags.
func (rb *RigidBody) HasTags(tags []string) bool {
	for _, want := range tags {
		found := false
		for _, tag := range rb.Tags {
			if tag == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// InverseMass returns 0 for static or infinitely heavy bodies.
func (rb *RigidBody) InverseMass() float64 {
	if rb.BodyType == BodyTypeStatic {
		return 0
	}
	m := rb.Material.GetMass()
	if m <= 0 || math.IsInf(m, 1) {
		return 0
	}
	return 1 / m
}

// MassCenter returns the centre of mass in world space.
func (rb *RigidBody) MassCenter() mgl64.Vec3 {
	return rb.Transform.Position.Add(rb.Transform.Rotation.Rotate(rb.LocalMassCenter))
}

// VelocityAtPoint returns the velocity of a world point rigidly attached to the body.
func (rb *RigidBody) VelocityAtPoint(point mgl64.Vec3) mgl64.Vec3 {
	r := point.Sub(rb.MassCenter())
	return rb.Velocity.Add(rb.AngularVelocity.Cross(r))
}

// ApplyImpulse changes the linear velocity immediately.
func (rb *RigidBody) ApplyImpulse(impulse mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic || rb.destroyed {
		return
	}
	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.InverseMass()))
}

// ApplyImpulseAt changes linear and angular velocity immediately as if impulse hit point.
func (rb *RigidBody) ApplyImpulseAt(point, impulse mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic || rb.destroyed {
		return
	}
	r := point.Sub(rb.MassCenter())
	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.InverseMass()))
	rb.AngularVelocity = rb.AngularVelocity.Add(rb.GetInverseInertiaWorld().Mul3x1(r.Cross(impulse)))
}

// AddForce accumulates a force applied at the centre of mass until the next Integrate.
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic && !rb.destroyed {
		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

// AddTorque accumulates a torque until the next Integrate.
func (rb *RigidBody) AddTorque(torque mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic && !rb.destroyed {
		rb.accumulatedTorque = rb.accumulatedTorque.Add(torque)
	}
}

// ApplyForceAt accumulates a force applied at a world point, with the torque it induces.
func (rb *RigidBody) ApplyForceAt(point, force mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic || rb.destroyed {
		return
	}
	r := point.Sub(rb.MassCenter())
	rb.accumulatedForce = rb.accumulatedForce.Add(force)
	rb.accumulatedTorque = rb.accumulatedTorque.Add(r.Cross(force))
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
	rb.accumulatedTorque = mgl64.Vec3{0, 0, 0}
}

// Integrate advances the body by dt: forces and scaled gravity into velocity, damping, then
// the centre of mass and orientation. The body origin follows the rotated centre of mass.
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic || rb.destroyed || dt <= 0 {
		return
	}

	// ========== LINEAR ==========
	acceleration := gravity.Mul(rb.GravityScale).Add(rb.accumulatedForce.Mul(rb.InverseMass()))
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))
	rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.Material.LinearDamping * dt))

	// ========== ANGULAR ==========
	angularAccel := rb.GetInverseInertiaWorld().Mul3x1(rb.accumulatedTorque)
	rb.AngularVelocity = rb.AngularVelocity.Add(angularAccel.Mul(dt))
	rb.AngularVelocity = rb.AngularVelocity.Mul(math.Exp(-rb.Material.AngularDamping * dt))

	// ========== POSE ==========
	massCenter := rb.MassCenter().Add(rb.Velocity.Mul(dt))

	omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
	qDot := omegaQuat.Mul(rb.Transform.Rotation).Scale(0.5)
	rb.Transform.Rotation = rb.Transform.Rotation.Add(qDot.Scale(dt)).Normalize()
	rb.Transform.InverseRotation = rb.Transform.Rotation.Inverse()

	rb.Transform.Position = massCenter.Sub(rb.Transform.Rotation.Rotate(rb.LocalMassCenter))

	rb.Shape.ComputeAABB(rb.Transform)
	rb.ClearForces()
}

// Translate moves the body without changing its velocity.
func (rb *RigidBody) Translate(offset mgl64.Vec3) {
	rb.Transform.Position = rb.Transform.Position.Add(offset)
	rb.Shape.ComputeAABB(rb.Transform)
}

// Inertie en espace monde
func (rb *RigidBody) GetInertiaWorld() mgl64.Mat3 {
	// I_world = R * I_local * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InertiaLocal).Mul3(R.Transpose())
}

// Inverse de l'inertie en espace monde
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType == BodyTypeStatic {
		return mgl64.Mat3{0, 0, 0, 0, 0, 0, 0, 0, 0}
	}

	// I_world^(-1) = R * I_local^(-1) * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}
