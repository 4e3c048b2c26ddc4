// Package vehicle drives a four-wheeled rigid body: raycast suspension, drive, steering,
// traction and air control, run once per fixed simulation tick.
package vehicle

import (
	"math"

	"github.com/akmonengine/drivetrain/mathutil"
	"github.com/akmonengine/drivetrain/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// Controller owns the wheels and the smoothed state of one vehicle.
// It is the only writer of the body handle it is given.
type Controller struct {
	config Config
	world  physics.Service
	body   physics.Body
	driver uint64

	input  Input
	state  State
	wheels [4]Wheel
	pose   Pose

	events *Events
}

func NewController(world physics.Service, body physics.Body, config Config) *Controller {
	c := &Controller{
		world: world,
		body:  body,
		pose:  newPose(),
	}
	c.SetConfig(config)

	return c
}

// SetConfig swaps the tuning. Wheels are laid out again, their compression history is kept
// unless the scale changes, since it is measured in scaled units.
func (c *Controller) SetConfig(config Config) {
	rescaled := config.Scale != c.config.Scale
	c.config = config
	for i := range c.wheels {
		w := NewWheel(WheelPosition(i), config.Layout)
		w.Grounded = c.wheels[i].Grounded
		if !rescaled {
			w.PreviousCompression = c.wheels[i].PreviousCompression
			w.CurrentCompression = c.wheels[i].CurrentCompression
			w.LastGroundDistance = c.wheels[i].LastGroundDistance
		}
		c.wheels[i] = w
	}
}

func (c *Controller) Config() Config { return c.config }

// SetInput stores the command used by the next ticks.
func (c *Controller) SetInput(input Input) { c.input = input }

func (c *Controller) Input() Input { return c.input }

func (c *Controller) ResetInput() { c.input = Input{} }

// SetDriver sets the body id of the driver, 0 when the seat is empty. The driver is ignored by every trace.
func (c *Controller) SetDriver(id uint64) { c.driver = id }

func (c *Controller) Driver() uint64 { return c.driver }

// SetEvents injects a diagnostics sink, nil disables it.
func (c *Controller) SetEvents(events *Events) { c.events = events }

func (c *Controller) State() State { return c.state }

func (c *Controller) Wheels() [4]Wheel { return c.wheels }

func (c *Controller) Body() physics.Body { return c.body }

func (c *Controller) valid() bool {
	return c.body != nil && c.body.Valid()
}

// ignore lists the vehicle and its driver
func (c *Controller) ignore() []uint64 {
	ids := []uint64{c.body.ID()}
	if c.driver != 0 {
		ids = append(ids, c.driver)
	}
	return ids
}

// View snapshots the vehicle for the camera and other readers.
func (c *Controller) View() View {
	if !c.valid() {
		return View{}
	}

	return View{
		Valid:      true,
		Position:   c.body.Position(),
		Rotation:   c.body.Rotation(),
		MassCenter: c.body.MassCenter(),
		Scale:      c.config.Scale,
		State:      c.state,
		Ignore:     c.ignore(),
	}
}

func (c *Controller) probeContext(rotation mgl64.Quat) probeContext {
	return probeContext{
		tracer:     c.world,
		body:       c.body,
		position:   c.body.Position(),
		rotation:   rotation,
		scale:      c.config.Scale,
		ignore:     c.ignore(),
		suspension: c.config.Suspension,
		events:     c.events,
	}
}

// probeWheels runs the four probes and reports which axles touch the ground.
// distances receives length*fraction of every wheel.
func (c *Controller) probeWheels(rotation mgl64.Quat, applyForces bool, dt float64, distances *[4]float64) (front, back bool) {
	ctx := c.probeContext(rotation)

	for i := range c.wheels {
		w := &c.wheels[i]
		length := suspensionLength(w.Position, c.state, c.config)
		hit, distance := w.Probe(ctx, length, applyForces, w.WorldAttachOffset(rotation, c.config.Scale), dt)

		if distances != nil {
			distances[i] = distance
		}
		if w.Position.Front() {
			front = front || hit
		} else {
			back = back || hit
		}
	}

	return front, back
}

// Tick advances the vehicle by one fixed step. It must run before the physics step of the same tick.
// It returns false, without touching anything, when the body is gone or dt is not positive.
func (c *Controller) Tick(dt float64) bool {
	if !c.valid() || dt <= 0 {
		c.events.discard()
		return false
	}

	cfg := c.config
	body := c.body
	s := &c.state
	in := c.input.Clamped()
	wasGrounded := s.Grounded

	rotation := body.Rotation()
	inverse := rotation.Inverse()

	body.SetLinearDamping(0)

	accelerate := in.Throttle * (1 - in.Braking)
	s.TurnDirection = mathutil.Smooth(s.TurnDirection, in.Turning, cfg.Smoothing.Turn, dt)
	s.AirRoll = mathutil.Smooth(s.AirRoll, in.Roll, cfg.Smoothing.Air, dt)
	s.AirTilt = mathutil.Smooth(s.AirTilt, in.Tilt, cfg.Smoothing.Air, dt)

	local := inverse.Rotate(body.Velocity())

	// Stance follows the previous tick's contacts
	targetTilt, targetLean := 0.0, 0.0
	if s.FrontGrounded || s.BackGrounded {
		targetTilt = accelerate
		targetLean = math.Min(math.Abs(local.X())/cfg.Steering.LeanSpeed, 1) * s.TurnDirection
	}
	s.AccelerationTilt = mathutil.Smooth(s.AccelerationTilt, targetTilt, cfg.Smoothing.Stance, dt)
	s.TurnLean = mathutil.Smooth(s.TurnLean, targetLean, cfg.Smoothing.Stance, dt)

	if s.BackGrounded {
		acceleration := cfg.Drive.Acceleration
		if accelerate < 0 {
			acceleration *= cfg.Drive.ReverseFactor
		}
		dv := driveFactor(local.X(), cfg.Drive) * acceleration * accelerate * dt
		body.SetVelocity(body.Velocity().Add(rotation.Rotate(mgl64.Vec3{dv, 0, 0})))
	}

	s.FrontGrounded, s.BackGrounded = c.probeWheels(rotation, true, dt, nil)
	s.Grounded = s.FrontGrounded || s.BackGrounded
	s.FullyGrounded = s.FrontGrounded && s.BackGrounded

	// Suspension holds the stance, gravity is added here instead of by the integrator
	if s.FullyGrounded {
		body.SetVelocity(body.Velocity().Add(c.world.GetGravity().Mul(dt)))
		body.SetGravityScale(0)
	} else {
		body.SetGravityScale(1)
	}

	angle := gripTarget(local, cfg.Grip)
	s.Grip = mathutil.Smooth(s.Grip, angle, cfg.Smoothing.Grip, dt)
	c.events.emit(GripEvent{Grip: s.Grip, Angle: angle, Speed: local.X()})

	if s.FullyGrounded {
		body.SetAngularDamping(mathutil.Lerp(0, cfg.Grip.MaxAngularDamping, s.Grip))
	} else {
		body.SetAngularDamping(cfg.Grip.AirAngularDamping)
	}

	s.CanAirControl = false
	if s.Grounded {
		local = inverse.Rotate(body.Velocity())
		s.WheelSpeed = local.X()

		if s.FrontGrounded {
			speed := math.Abs(local.X())
			turn := mathutil.Sign(local.X()) * cfg.Steering.TurnSpeed * turnFactor(s.TurnDirection, speed, cfg.Steering) * dt
			body.SetAngularVelocity(body.AngularVelocity().Add(rotation.Rotate(mgl64.Vec3{0, 0, turn})))
		}

		s.AirRoll = 0
		s.AirTilt = 0

		forwardDamping := mathutil.Lerp(cfg.Grip.ForwardDamping, cfg.Grip.BrakeDamping, in.Braking)
		body.SetVelocity(velocityDamping(body.Velocity(), rotation, mgl64.Vec3{forwardDamping, s.Grip, 0}, dt))
	} else {
		com := body.MassCenter()
		tr := c.world.Trace(physics.Ray{
			Start:  com,
			End:    com.Add(mathutil.Down(rotation).Mul(cfg.AirControl.ClearanceProbe)),
			Ignore: c.ignore(),
		})
		s.CanAirControl = !tr.Hit
	}

	if s.CanAirControl && (s.AirRoll != 0 || s.AirTilt != 0) {
		c.airControl(in, rotation, dt)
	}

	s.MovementSpeed = inverse.Rotate(body.Velocity()).X()

	if s.Grounded && !wasGrounded {
		c.events.emit(GroundEnterEvent{Speed: s.MovementSpeed})
	} else if !s.Grounded && wasGrounded {
		c.events.emit(GroundExitEvent{Speed: s.MovementSpeed})
	}
	c.events.flush()

	return true
}

// airControl rolls and pitches an airborne vehicle by pushing down one side of it.
// Rolling gets more authority when ground lies just beneath the pushed side.
func (c *Controller) airControl(in Input, rotation mgl64.Quat, dt float64) {
	cfg := c.config.AirControl
	body := c.body
	s := &c.state

	scale := c.config.Scale
	offset := cfg.Offset * scale
	com := body.MassCenter()
	mass := body.Mass()
	down := mathutil.Down(rotation)

	start := com.Add(mathutil.Right(rotation).Mul(s.AirRoll * offset)).Add(down.Mul(cfg.ProbeDrop * scale))
	tr := c.world.Trace(physics.Ray{
		Start:  start,
		End:    start.Add(mathutil.Up(rotation).Mul(cfg.ProbeReach * scale)),
		Ignore: c.ignore(),
	})

	dampen := false
	if in.Roll != 0 {
		force, roll := cfg.RollForce, s.AirRoll
		if tr.Hit {
			force, roll = cfg.NearRollForce, in.Roll
		}
		point := com.Add(mathutil.Left(rotation).Mul(offset * roll))
		body.ApplyForceAt(point, down.Mul(roll*roll*mass*force))
		dampen = true
	}

	if !tr.Hit && in.Tilt != 0 {
		point := com.Add(mathutil.Forward(rotation).Mul(offset * s.AirTilt))
		body.ApplyForceAt(point, down.Mul(s.AirTilt*s.AirTilt*mass*cfg.TiltForce))
		dampen = true
	}

	if dampen {
		d := cfg.SpinDamping
		body.SetAngularVelocity(velocityDamping(body.AngularVelocity(), rotation, mgl64.Vec3{d, d, d}, dt))
		c.events.emit(AirControlEvent{Roll: s.AirRoll, Tilt: s.AirTilt, NearGround: tr.Hit})
	}
}
