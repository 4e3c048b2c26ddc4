// Package camera implements the chase camera of a vehicle: automatic framing behind the
// vehicle, free-look orbiting, occlusion aware distance, speed driven field of view and shake.
//
// The camera runs once per render frame and only reads a vehicle.View snapshot.
package camera

import (
	"math"

	"github.com/akmonengine/drivetrain/mathutil"
	"github.com/akmonengine/drivetrain/physics"
	"github.com/akmonengine/drivetrain/vehicle"
	"github.com/go-gl/mathgl/mgl64"
)

// Frame is the camera output of one render frame.
type Frame struct {
	Position    mgl64.Vec3
	Rotation    mgl64.Quat
	FieldOfView float64
}

// Sink receives every frame the camera resolves.
type Sink interface {
	Present(frame Frame)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(frame Frame)

func (f SinkFunc) Present(frame Frame) { f(frame) }

// State is what the camera carries between frames.
// OrbitAngles.Pitch always lies within the configured orbit pitch range.
type State struct {
	OrbitEnabled        bool
	TimeSinceOrbitInput float64
	OrbitAngles         mathutil.Angles
	OrbitYawRotation    mgl64.Quat
	OrbitPitchRotation  mgl64.Quat
	CurrentFieldOfView  float64
	ChassisPitch        float64

	ResolvedCameraPosition mgl64.Vec3
	LastChassisPosition    mgl64.Vec3
}

// Rotation is the orbit orientation, before shake.
func (s State) Rotation() mgl64.Quat {
	return s.OrbitYawRotation.Mul(s.OrbitPitchRotation)
}

type Controller struct {
	config Config
	tracer physics.Tracer
	sink   Sink
	noise  *Noise

	state  State
	active bool
	clock  float64
	frame  Frame
}

// NewController builds an inactive camera. sink may be nil.
func NewController(tracer physics.Tracer, config Config, sink Sink) *Controller {
	return &Controller{
		config: config,
		tracer: tracer,
		sink:   sink,
		noise:  NewNoise(config.NoiseSeed),
		state: State{
			OrbitYawRotation:   mgl64.QuatIdent(),
			OrbitPitchRotation: mgl64.QuatIdent(),
			CurrentFieldOfView: config.MinFieldOfView,
		},
		frame: Frame{Rotation: mgl64.QuatIdent(), FieldOfView: config.MinFieldOfView},
	}
}

func (c *Controller) Config() Config { return c.config }

func (c *Controller) SetConfig(config Config) {
	if config.NoiseSeed != c.config.NoiseSeed {
		c.noise = NewNoise(config.NoiseSeed)
	}
	c.config = config
	c.state.OrbitAngles.Pitch = c.clampPitch(c.state.OrbitAngles.Pitch)
	c.state.OrbitPitchRotation = mathutil.FromPitch(c.clampPitch(mathutil.Pitch(c.state.OrbitPitchRotation)))
}

func (c *Controller) SetSoftFollow(enabled bool) { c.config.SoftFollow = enabled }

func (c *Controller) State() State { return c.state }

// Frame returns the last presented frame.
func (c *Controller) Frame() Frame { return c.frame }

func (c *Controller) Active() bool { return c.active }

// Activate resets the camera behind the vehicle, level, at the narrowest field of view.
func (c *Controller) Activate(view vehicle.View) {
	c.active = true
	c.state = State{
		OrbitYawRotation:   mathutil.FromYaw(mathutil.Yaw(view.Rotation)),
		OrbitPitchRotation: mgl64.QuatIdent(),
		CurrentFieldOfView: c.config.MinFieldOfView,
	}
	c.state.OrbitAngles = mathutil.ToAngles(c.state.Rotation()).Normal()

	if view.Valid {
		c.state.ResolvedCameraPosition = c.framePosition(view, c.state.Rotation())
		c.state.LastChassisPosition = view.MassCenter
	}
}

// Deactivate stops the camera, it keeps its last frame.
func (c *Controller) Deactivate() {
	c.active = false
}

// BuildInput feeds a look delta in degrees. Any input switches to free look; the first one
// after a return re-seeds the orbit from the current orientation so the view does not jump.
func (c *Controller) BuildInput(pitch, yaw float64) {
	if math.Abs(pitch)+math.Abs(yaw) <= 0 {
		return
	}

	s := &c.state
	if !s.OrbitEnabled {
		s.OrbitAngles = mathutil.ToAngles(s.Rotation()).Normal()
		s.OrbitYawRotation = mathutil.FromYaw(s.OrbitAngles.Yaw)
		s.OrbitPitchRotation = mathutil.FromPitch(s.OrbitAngles.Pitch)
	}

	s.OrbitEnabled = true
	s.TimeSinceOrbitInput = 0

	s.OrbitAngles.Yaw += yaw
	s.OrbitAngles.Pitch += pitch
	s.OrbitAngles = s.OrbitAngles.Normal()
	s.OrbitAngles.Pitch = mathutil.Clamp(s.OrbitAngles.Pitch, c.config.MinOrbitPitch, c.config.MaxOrbitPitch)
}

// ViewAngles is the aim of the driver: the orbit while looking around, the vehicle heading otherwise.
func (c *Controller) ViewAngles(view vehicle.View) mathutil.Angles {
	if c.state.OrbitEnabled {
		return c.state.OrbitAngles.Normal()
	}
	return mathutil.ToAngles(view.Rotation).Normal()
}

// Update resolves and presents one frame. Orbit smoothing runs first, then framing, position
// smoothing, field of view and finally shake on a copy of the result.
// It returns false, holding the last frame, when the camera is inactive or the vehicle is gone.
func (c *Controller) Update(dt float64, view vehicle.View) bool {
	if !c.active || !view.Valid {
		return false
	}

	cfg := c.config
	s := &c.state
	speed := view.State.MovementSpeed
	speedAbs := math.Abs(speed)

	s.TimeSinceOrbitInput += dt
	if s.OrbitEnabled && s.TimeSinceOrbitInput > cfg.OrbitCooldown {
		s.OrbitEnabled = false
	}

	chassisPitch := 0.0
	if view.State.Grounded {
		chassisPitch = mathutil.Clamp(mathutil.Pitch(view.Rotation), cfg.MinChassisPitch, cfg.MaxChassisPitch)
		if speed < 0 {
			chassisPitch = -chassisPitch
		}
	}
	s.ChassisPitch = mathutil.Lerp(s.ChassisPitch, chassisPitch, dt*cfg.ChassisPitchSmoothing)

	if s.OrbitEnabled {
		amount := dt * cfg.OrbitSmoothing
		targetPitch := c.clampPitch(s.OrbitAngles.Pitch + s.ChassisPitch)

		s.OrbitYawRotation = mathutil.Slerp(s.OrbitYawRotation, mathutil.FromYaw(s.OrbitAngles.Yaw), amount)
		s.OrbitPitchRotation = mathutil.Slerp(s.OrbitPitchRotation, mathutil.FromPitch(targetPitch), amount)
	} else {
		targetYaw := c.ReturnYaw(view)
		targetPitch := c.clampPitch(c.clampPitch(cfg.FixedOrbitPitch) + s.ChassisPitch)

		amount := 1.0
		if cfg.MaxReturnSpeed > 0 {
			amount = dt * mathutil.Clamp(speedAbs/cfg.MaxReturnSpeed, 0, cfg.ReturnSmoothing)
		}

		s.OrbitYawRotation = mathutil.Slerp(s.OrbitYawRotation, mathutil.FromYaw(targetYaw), amount)
		s.OrbitPitchRotation = mathutil.Slerp(s.OrbitPitchRotation, mathutil.FromPitch(targetPitch), amount)

		s.OrbitAngles.Pitch = mathutil.Pitch(s.OrbitPitchRotation)
		s.OrbitAngles.Yaw = mathutil.Yaw(s.OrbitYawRotation)
		s.OrbitAngles = s.OrbitAngles.Normal()
		s.OrbitAngles.Pitch = c.clampPitch(s.OrbitAngles.Pitch)
	}

	rotation := s.Rotation()
	desired := c.framePosition(view, rotation)

	if cfg.SoftFollow {
		correction := mathutil.ClampLength(view.MassCenter.Sub(s.LastChassisPosition).Mul(cfg.SoftFollowGain), cfg.SoftFollowMaxCorrection)
		s.ResolvedCameraPosition = mathutil.LerpVec3(s.ResolvedCameraPosition, desired, dt*cfg.SoftFollowRate).Add(correction)
	} else {
		s.ResolvedCameraPosition = desired
	}
	s.LastChassisPosition = view.MassCenter

	if cfg.MaxFieldOfViewSpeed > 0 {
		target := mathutil.Lerp(cfg.MinFieldOfView, cfg.MaxFieldOfView, speedAbs/cfg.MaxFieldOfViewSpeed)
		s.CurrentFieldOfView = mathutil.Lerp(s.CurrentFieldOfView, target, dt*cfg.FieldOfViewSmoothing)
	} else {
		s.CurrentFieldOfView = cfg.MaxFieldOfView
	}

	c.clock += dt
	frame := Frame{
		Position:    s.ResolvedCameraPosition,
		Rotation:    rotation,
		FieldOfView: s.CurrentFieldOfView,
	}
	c.applyShake(&frame, speedAbs)

	c.frame = frame
	if c.sink != nil {
		c.sink.Present(frame)
	}

	return true
}

// ReturnYaw is the heading the camera returns to: behind the vehicle in its direction of travel.
func (c *Controller) ReturnYaw(view vehicle.View) float64 {
	yaw := mathutil.Yaw(view.Rotation)
	if view.State.MovementSpeed < 0 {
		yaw += 180
	}
	return mathutil.NormalizeAngle(yaw)
}

func (c *Controller) clampPitch(pitch float64) float64 {
	return mathutil.Clamp(pitch, c.config.MinOrbitPitch, c.config.MaxOrbitPitch)
}

// framePosition sweeps a sphere from the mass center to the orbit position and stops at the first obstacle.
func (c *Controller) framePosition(view vehicle.View, rotation mgl64.Quat) mgl64.Vec3 {
	cfg := c.config
	start := view.MassCenter
	target := start.
		Add(mathutil.Backward(rotation).Mul(cfg.OrbitDistance * view.Scale)).
		Add(mathutil.AxisUp.Mul(cfg.OrbitHeight * view.Scale))

	if c.tracer == nil {
		return target
	}

	tr := c.tracer.Trace(physics.Ray{
		Start:  start,
		End:    target,
		Radius: mathutil.Clamp(cfg.CollisionRadius*view.Scale, cfg.MinCollisionRadius, cfg.MaxCollisionRadius),
		Ignore: view.Ignore,
	})

	return tr.EndPosition
}

// applyShake jitters the frame above the shake threshold. The orbit state is left untouched.
func (c *Controller) applyShake(frame *Frame, speed float64) {
	cfg := c.config
	if speed < cfg.ShakeThreshold {
		return
	}

	phase := c.clock * cfg.ShakeSpeed
	length := mathutil.Clamp((speed-cfg.ShakeThreshold)/(cfg.ShakeMaxSpeed-cfg.ShakeThreshold), 0, cfg.ShakeMaxLength)

	x := (0.5 - c.noise.Simplex(phase)) * 2 * length
	y := (0.5 - c.noise.Perlin(phase, 5)) * 2 * length

	frame.Position = frame.Position.
		Add(mathutil.Right(frame.Rotation).Mul(x)).
		Add(mathutil.Up(frame.Rotation).Mul(y))
	frame.Rotation = frame.Rotation.
		Mul(mathutil.FromAxis(mathutil.AxisUp, x)).
		Mul(mathutil.FromAxis(mathutil.AxisLeft.Mul(-1), y)).
		Normalize()
}
