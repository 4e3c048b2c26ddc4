package vehicle

import (
	"math"
	"testing"

	"github.com/akmonengine/drivetrain"
	"github.com/akmonengine/drivetrain/actor"
	"github.com/akmonengine/drivetrain/physics"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tickRate = 1.0 / 60.0

type testRig struct {
	world      *drivetrain.World
	chassis    *actor.RigidBody
	controller *Controller
}

// newTestRig drops the default chassis at height z, over a solid ground when ground is set
func newTestRig(t *testing.T, z float64, ground bool) *testRig {
	t.Helper()

	world := drivetrain.NewWorld()
	if ground {
		plane := actor.NewRigidBody(actor.NewTransform(), &actor.Plane{Normal: mgl64.Vec3{0, 0, 1}}, actor.BodyTypeStatic, 0)
		plane.Tags = []string{physics.TagSolid}
		world.AddBody(plane)
	}

	chassis := actor.NewRigidBody(
		actor.NewTransformAt(mgl64.Vec3{0, 0, z}, mgl64.QuatIdent()),
		&actor.Box{HalfExtents: mgl64.Vec3{60, 32, 10}, Center: mgl64.Vec3{0, 0, 18}},
		actor.BodyTypeDynamic,
		0.01,
	)
	world.AddBody(chassis)

	return &testRig{
		world:      world,
		chassis:    chassis,
		controller: NewController(world, world.Handle(chassis), DefaultConfig()),
	}
}

func (r *testRig) run(ticks int) {
	for range ticks {
		r.controller.Tick(tickRate)
		r.world.Step(tickRate)
	}
}

func TestController_SuspensionConverges(t *testing.T) {
	rig := newTestRig(t, 2, true)

	rig.run(300)

	lo, hi := math.Inf(1), math.Inf(-1)
	for range 60 {
		rig.run(1)
		for _, w := range rig.controller.Wheels() {
			require.True(t, w.Grounded)
			lo = math.Min(lo, w.CurrentCompression)
			hi = math.Max(hi, w.CurrentCompression)
		}
	}

	assert.Less(t, hi-lo, 0.05, "compression still oscillates")
	// 4 wheels * 50 * compression balance a gravity of 800
	assert.InDelta(t, 4, (hi+lo)/2, 0.1)
	assert.InDelta(t, 0.5, rig.chassis.Transform.Position.Z(), 0.1)
}

func TestController_IdleTickIsNoOp(t *testing.T) {
	rig := newTestRig(t, 1, true)
	rig.run(300)

	before := rig.controller.State()
	rig.run(10)
	after := rig.controller.State()

	assert.InDelta(t, before.MovementSpeed, after.MovementSpeed, 1e-3)
	assert.InDelta(t, before.Grip, after.Grip, 1e-6)
	assert.InDelta(t, before.TurnDirection, after.TurnDirection, 1e-9)
	assert.InDelta(t, before.AccelerationTilt, after.AccelerationTilt, 1e-9)
	assert.InDelta(t, before.TurnLean, after.TurnLean, 1e-9)
	assert.InDelta(t, before.AirRoll, after.AirRoll, 1e-9)
	assert.InDelta(t, before.AirTilt, after.AirTilt, 1e-9)
	assert.True(t, after.FullyGrounded)
	assert.InDelta(t, 1, after.Grip, 1e-6)
	assert.Zero(t, rig.chassis.GravityScale, "suspension carries the vehicle while fully grounded")
}

func TestController_FullThrottle(t *testing.T) {
	rig := newTestRig(t, 1, true)
	rig.run(120)

	rig.controller.SetInput(Input{Throttle: 1})
	for i := range 120 {
		rig.run(1)
		require.True(t, rig.controller.State().Grounded, "tick %d left the ground", i)
	}

	state := rig.controller.State()
	assert.Greater(t, state.AccelerationTilt, 0.95)
	assert.Greater(t, state.MovementSpeed, 500.0)
	assert.Less(t, state.MovementSpeed, 5000.0)
	assert.InDelta(t, state.MovementSpeed, state.WheelSpeed, 50)
}

func TestController_BrakingStopsTheVehicle(t *testing.T) {
	rig := newTestRig(t, 1, true)
	rig.run(120)
	rig.controller.SetInput(Input{Throttle: 1})
	rig.run(60)
	cruising := rig.controller.State().MovementSpeed

	rig.controller.SetInput(Input{Throttle: 1, Braking: 1})
	rig.run(60)

	assert.Less(t, rig.controller.State().MovementSpeed, cruising*0.2)
}

func TestController_SteeringYaws(t *testing.T) {
	rig := newTestRig(t, 1, true)
	rig.run(120)
	rig.controller.SetInput(Input{Throttle: 1})
	rig.run(60)

	rig.controller.SetInput(Input{Throttle: 1, Turning: 1})
	rig.run(30)

	assert.Greater(t, rig.chassis.AngularVelocity.Z(), 0.0, "turning left yaws toward +Y")
	assert.Greater(t, rig.controller.State().TurnLean, 0.0)
}

func TestController_AirRoll(t *testing.T) {
	rig := newTestRig(t, 10000, false)

	rig.controller.SetInput(Input{Roll: 1})
	rig.run(60)

	state := rig.controller.State()
	require.False(t, state.Grounded)
	require.True(t, state.CanAirControl)
	rolling := rig.chassis.AngularVelocity.X()
	require.Less(t, rolling, 0.0, "left side is pushed down")

	rig.controller.SetInput(Input{})
	rig.run(60)

	settled := rig.chassis.AngularVelocity.X()
	assert.LessOrEqual(t, settled, 0.0)
	assert.Less(t, math.Abs(settled), math.Abs(rolling)*0.8)
}

func TestController_NoAirControlNearGround(t *testing.T) {
	// Wheels reach down to 15.5, the clearance probe down to -12
	rig := newTestRig(t, 20, true)

	rig.controller.SetInput(Input{Roll: 1})
	require.True(t, rig.controller.Tick(tickRate))

	state := rig.controller.State()
	assert.False(t, state.Grounded)
	assert.False(t, state.CanAirControl)
}

func TestController_InvalidBodyAbortsTick(t *testing.T) {
	rig := newTestRig(t, 1, true)
	rig.run(60)
	rig.controller.SetInput(Input{Throttle: 1, Turning: 1})

	before := rig.controller.State()
	wheels := rig.controller.Wheels()
	rig.world.RemoveBody(rig.chassis)

	assert.False(t, rig.controller.Tick(tickRate))
	assert.Equal(t, before, rig.controller.State())
	assert.Equal(t, wheels, rig.controller.Wheels())
	assert.False(t, rig.controller.View().Valid)
	assert.False(t, rig.controller.UpdatePose(tickRate))
}

func TestController_ZeroDtIsSkipped(t *testing.T) {
	rig := newTestRig(t, 1, true)
	rig.controller.SetInput(Input{Turning: 1})

	assert.False(t, rig.controller.Tick(0))
	assert.Zero(t, rig.controller.State().TurnDirection)
}

func TestController_DriverIsIgnoredByTraces(t *testing.T) {
	body := newStubBody()
	tracer := &stubTracer{}
	c := NewController(tracer, body, DefaultConfig())
	c.SetDriver(42)

	c.Tick(tickRate)

	require.NotEmpty(t, tracer.rays)
	for _, ray := range tracer.rays {
		assert.ElementsMatch(t, []uint64{7, 42}, ray.Ignore)
	}
	assert.ElementsMatch(t, []uint64{7, 42}, c.View().Ignore)
}

func TestController_GroundEvents(t *testing.T) {
	rig := newTestRig(t, 6, true)
	events := NewEvents()
	var landed, grip int
	events.Subscribe(GROUND_ENTER, func(Event) { landed++ })
	events.Subscribe(GRIP, func(Event) { grip++ })
	rig.controller.SetEvents(events)

	rig.run(120)

	assert.Equal(t, 1, landed)
	assert.Equal(t, 120, grip)
}

func TestController_SetConfigKeepsHistory(t *testing.T) {
	rig := newTestRig(t, 1, true)
	rig.run(30)
	before := rig.controller.Wheels()

	cfg := DefaultConfig()
	cfg.Layout.Forward = 50
	rig.controller.SetConfig(cfg)

	after := rig.controller.Wheels()
	for i := range after {
		assert.InDelta(t, 50, math.Abs(after[i].AttachOffset.X()), 1e-9)
		assert.Equal(t, before[i].CurrentCompression, after[i].CurrentCompression)
	}
}

func TestController_SetConfigRescaleDropsHistory(t *testing.T) {
	rig := newTestRig(t, 2, true)
	rig.run(300)
	before := rig.controller.Wheels()
	require.NotZero(t, before[0].CurrentCompression)

	cfg := DefaultConfig()
	cfg.Scale = 2
	rig.controller.SetConfig(cfg)

	for i, w := range rig.controller.Wheels() {
		assert.Zero(t, w.CurrentCompression)
		assert.Zero(t, w.PreviousCompression)
		assert.Zero(t, w.LastGroundDistance)
		assert.Equal(t, before[i].Grounded, w.Grounded)
	}
}
