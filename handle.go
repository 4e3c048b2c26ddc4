package drivetrain

import (
	"github.com/akmonengine/drivetrain/actor"
	"github.com/akmonengine/drivetrain/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// Handle exposes a rigid body of the world to controllers.
// Once the body is removed every accessor returns zero values and Valid reports false.
type Handle struct {
	body *actor.RigidBody
}

var _ physics.Body = (*Handle)(nil)

func NewHandle(body *actor.RigidBody) *Handle {
	return &Handle{body: body}
}

// Handle wraps a body of the world
func (w *World) Handle(body *actor.RigidBody) *Handle {
	return NewHandle(body)
}

func (h *Handle) Body() *actor.RigidBody { return h.body }

func (h *Handle) Valid() bool {
	return h != nil && h.body.Valid()
}

func (h *Handle) ID() uint64 {
	if !h.Valid() {
		return 0
	}
	return h.body.ID
}

func (h *Handle) Position() mgl64.Vec3 {
	if !h.Valid() {
		return mgl64.Vec3{}
	}
	return h.body.Transform.Position
}

func (h *Handle) Rotation() mgl64.Quat {
	if !h.Valid() {
		return mgl64.QuatIdent()
	}
	return h.body.Transform.Rotation
}

func (h *Handle) Velocity() mgl64.Vec3 {
	if !h.Valid() {
		return mgl64.Vec3{}
	}
	return h.body.Velocity
}

func (h *Handle) SetVelocity(v mgl64.Vec3) {
	if h.Valid() {
		h.body.Velocity = v
	}
}

func (h *Handle) AngularVelocity() mgl64.Vec3 {
	if !h.Valid() {
		return mgl64.Vec3{}
	}
	return h.body.AngularVelocity
}

func (h *Handle) SetAngularVelocity(w mgl64.Vec3) {
	if h.Valid() {
		h.body.AngularVelocity = w
	}
}

func (h *Handle) Mass() float64 {
	if !h.Valid() {
		return 0
	}
	return h.body.Material.GetMass()
}

func (h *Handle) LocalMassCenter() mgl64.Vec3 {
	if !h.Valid() {
		return mgl64.Vec3{}
	}
	return h.body.LocalMassCenter
}

func (h *Handle) MassCenter() mgl64.Vec3 {
	if !h.Valid() {
		return mgl64.Vec3{}
	}
	return h.body.MassCenter()
}

func (h *Handle) GravityScale() float64 {
	if !h.Valid() {
		return 0
	}
	return h.body.GravityScale
}

func (h *Handle) SetGravityScale(scale float64) {
	if h.Valid() {
		h.body.GravityScale = scale
	}
}

func (h *Handle) LinearDamping() float64 {
	if !h.Valid() {
		return 0
	}
	return h.body.Material.LinearDamping
}

func (h *Handle) SetLinearDamping(d float64) {
	if h.Valid() {
		h.body.Material.LinearDamping = d
	}
}

func (h *Handle) AngularDamping() float64 {
	if !h.Valid() {
		return 0
	}
	return h.body.Material.AngularDamping
}

func (h *Handle) SetAngularDamping(d float64) {
	if h.Valid() {
		h.body.Material.AngularDamping = d
	}
}

func (h *Handle) ApplyImpulseAt(point, impulse mgl64.Vec3) {
	if h.Valid() {
		h.body.ApplyImpulseAt(point, impulse)
	}
}

func (h *Handle) ApplyForceAt(point, force mgl64.Vec3) {
	if h.Valid() {
		h.body.ApplyForceAt(point, force)
	}
}

func (h *Handle) VelocityAtPoint(point mgl64.Vec3) mgl64.Vec3 {
	if !h.Valid() {
		return mgl64.Vec3{}
	}
	return h.body.VelocityAtPoint(point)
}
