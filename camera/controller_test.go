package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/akmonengine/drivetrain"
	"github.com/akmonengine/drivetrain/actor"
	"github.com/akmonengine/drivetrain/mathutil"
	"github.com/akmonengine/drivetrain/vehicle"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameRate = 1.0 / 60.0

type frameRecorder struct {
	frames []Frame
}

func (r *frameRecorder) Present(frame Frame) {
	r.frames = append(r.frames, frame)
}

func newView(yaw, speed float64) vehicle.View {
	return vehicle.View{
		Valid:      true,
		Rotation:   mathutil.FromYaw(yaw),
		MassCenter: mgl64.Vec3{0, 0, 50},
		Scale:      1,
		State:      vehicle.State{MovementSpeed: speed, Grounded: true},
		Ignore:     []uint64{1},
	}
}

func newActiveCamera(view vehicle.View) (*Controller, *frameRecorder) {
	recorder := &frameRecorder{}
	c := NewController(nil, DefaultConfig(), recorder)
	c.Activate(view)
	return c, recorder
}

func angleDelta(a, b float64) float64 {
	return math.Abs(mathutil.NormalizeAngle(a - b))
}

func TestActivate_BehindVehicle(t *testing.T) {
	c, _ := newActiveCamera(newView(30, 0))
	s := c.State()

	assert.True(t, c.Active())
	assert.False(t, s.OrbitEnabled)
	assert.InDelta(t, 30, s.OrbitAngles.Yaw, 1e-9)
	assert.InDelta(t, 0, s.OrbitAngles.Pitch, 1e-9)
	assert.Equal(t, DefaultConfig().MinFieldOfView, s.CurrentFieldOfView)
	assert.InDelta(t, 30, mathutil.Yaw(s.Rotation()), 1e-9)
}

func TestUpdate_PresentsOnce(t *testing.T) {
	c, recorder := newActiveCamera(newView(0, 0))

	require.True(t, c.Update(frameRate, newView(0, 0)))

	require.Len(t, recorder.frames, 1)
	assert.Equal(t, c.Frame(), recorder.frames[0])
}

func TestUpdate_InactiveOrInvalidHoldsFrame(t *testing.T) {
	recorder := &frameRecorder{}
	c := NewController(nil, DefaultConfig(), recorder)

	assert.False(t, c.Update(frameRate, newView(0, 0)), "not activated")

	c.Activate(newView(0, 0))
	require.True(t, c.Update(frameRate, newView(0, 0)))
	held := c.Frame()

	assert.False(t, c.Update(frameRate, vehicle.View{}))
	assert.Equal(t, held, c.Frame())
	assert.Len(t, recorder.frames, 1)

	c.Deactivate()
	assert.False(t, c.Update(frameRate, newView(0, 0)))
}

func TestPitchClampInvariant(t *testing.T) {
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(7))

	views := []vehicle.View{newView(0, 300), newView(120, -800)}
	// Nose-down chassis adds to the pitch target
	steep := newView(0, 1500)
	steep.Rotation = mathutil.FromAngles(55, 0, 0)
	views = append(views, steep)

	for _, view := range views {
		c, _ := newActiveCamera(view)

		for i := range 2000 {
			if rng.Float64() < 0.6 {
				c.BuildInput(rng.NormFloat64()*40, rng.NormFloat64()*40)
			}
			c.Update(rng.Float64()*0.1, view)

			s := c.State()
			require.GreaterOrEqual(t, s.OrbitAngles.Pitch, cfg.MinOrbitPitch, "step %d", i)
			require.LessOrEqual(t, s.OrbitAngles.Pitch, cfg.MaxOrbitPitch, "step %d", i)

			effective := mathutil.Pitch(s.Rotation())
			require.GreaterOrEqual(t, effective, cfg.MinOrbitPitch-1e-6, "step %d", i)
			require.LessOrEqual(t, effective, cfg.MaxOrbitPitch+1e-6, "step %d", i)
		}
	}
}

func TestSetConfig_ReclampsPitch(t *testing.T) {
	view := newView(0, 0)
	c, _ := newActiveCamera(view)

	c.BuildInput(60, 0)
	for range 60 {
		c.Update(frameRate, view)
	}
	require.InDelta(t, 60, mathutil.Pitch(c.State().Rotation()), 0.5)

	cfg := DefaultConfig()
	cfg.MaxOrbitPitch = 20
	c.SetConfig(cfg)

	s := c.State()
	assert.InDelta(t, 20, s.OrbitAngles.Pitch, 1e-9)
	assert.InDelta(t, 20, mathutil.Pitch(s.Rotation()), 1e-6)

	// a stationary vehicle does not pull the camera back on its own
	for i := range 600 {
		c.Update(frameRate, view)
		require.LessOrEqual(t, mathutil.Pitch(c.State().Rotation()), cfg.MaxOrbitPitch+1e-6, "frame %d", i)
	}
}

func TestOrbit_ReturnsAfterCooldown(t *testing.T) {
	tests := []struct {
		name    string
		speed   float64
		wantYaw float64
	}{
		{"forward", 500, 40},
		{"reverse", -500, -140},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newView(40, tt.speed)
			c, _ := newActiveCamera(view)

			c.BuildInput(0, 90)
			require.True(t, c.State().OrbitEnabled)

			for range 5 {
				c.Update(0.1, view)
			}
			require.True(t, c.State().OrbitEnabled, "still within the cooldown")

			c.Update(0.2, view)
			require.False(t, c.State().OrbitEnabled)
			assert.InDelta(t, 0, angleDelta(tt.wantYaw, c.ReturnYaw(view)), 1e-9)

			for range 120 {
				c.Update(0.05, view)
			}
			assert.InDelta(t, 0, angleDelta(tt.wantYaw, mathutil.Yaw(c.State().OrbitYawRotation)), 0.5)
			assert.InDelta(t, 0, angleDelta(tt.wantYaw, c.State().OrbitAngles.Yaw), 0.5)
		})
	}
}

func TestOrbit_FollowsLookInput(t *testing.T) {
	view := newView(0, 0)
	c, _ := newActiveCamera(view)

	c.BuildInput(20, 45)
	for range 30 {
		c.BuildInput(0, 0)
		c.Update(frameRate, view)
	}

	s := c.State()
	require.True(t, s.OrbitEnabled)
	assert.InDelta(t, 45, s.OrbitAngles.Yaw, 1e-9)
	assert.InDelta(t, 45, mathutil.Yaw(s.Rotation()), 0.5)
	assert.InDelta(t, 20, mathutil.Pitch(s.Rotation()), 0.5)
}

func TestBuildInput_ReseedsWithoutJump(t *testing.T) {
	view := newView(0, 400)
	c, _ := newActiveCamera(view)
	// Let the return rotate the camera toward a new heading
	turned := newView(70, 400)
	for range 20 {
		c.Update(frameRate, turned)
	}
	before := c.State().Rotation()

	c.BuildInput(0.001, 0)

	s := c.State()
	assert.InDelta(t, mathutil.Yaw(before), s.OrbitAngles.Yaw, 1e-6)
	assert.InDelta(t, mathutil.Pitch(before)+0.001, s.OrbitAngles.Pitch, 1e-6)
	assert.InDelta(t, 1, math.Abs(before.Dot(s.Rotation())), 1e-9)
}

func TestBuildInput_ZeroIsIgnored(t *testing.T) {
	c, _ := newActiveCamera(newView(0, 0))

	c.BuildInput(0, 0)

	assert.False(t, c.State().OrbitEnabled)
}

func TestViewAngles(t *testing.T) {
	view := newView(25, 0)
	c, _ := newActiveCamera(view)

	assert.InDelta(t, 25, c.ViewAngles(view).Yaw, 1e-9)

	c.BuildInput(5, 10)
	assert.InDelta(t, 35, c.ViewAngles(view).Yaw, 1e-9)
	assert.InDelta(t, 5, c.ViewAngles(view).Pitch, 1e-9)
}

func TestFraming_Unobstructed(t *testing.T) {
	view := newView(0, 0)
	c, _ := newActiveCamera(view)

	c.Update(frameRate, view)

	// Level and facing +X: 260 behind and 35 above the mass center
	assert.True(t, c.State().ResolvedCameraPosition.ApproxEqualThreshold(mgl64.Vec3{-260, 0, 85}, 1e-6))
}

func TestFraming_StopsAtObstacle(t *testing.T) {
	world := drivetrain.NewWorld()
	wall := actor.NewRigidBody(
		actor.NewTransformAt(mgl64.Vec3{-150, 0, 50}, mgl64.QuatIdent()),
		&actor.Box{HalfExtents: mgl64.Vec3{10, 200, 200}},
		actor.BodyTypeStatic,
		1,
	)
	world.AddBody(wall)

	view := newView(0, 0)
	view.Ignore = nil
	c := NewController(world, DefaultConfig(), nil)
	c.Activate(view)
	c.Update(frameRate, view)

	// The sphere of radius 8 stops against the face at x = -140
	position := c.State().ResolvedCameraPosition
	assert.InDelta(t, -132, position.X(), 1e-6)
	assert.Less(t, position.Sub(view.MassCenter).Len(), 260.0)
}

func TestFraming_IgnoresVehicle(t *testing.T) {
	world := drivetrain.NewWorld()
	chassis := actor.NewRigidBody(
		actor.NewTransformAt(mgl64.Vec3{0, 0, 40}, mgl64.QuatIdent()),
		&actor.Box{HalfExtents: mgl64.Vec3{60, 32, 10}, Center: mgl64.Vec3{0, 0, 18}},
		actor.BodyTypeDynamic,
		0.01,
	)
	id := world.AddBody(chassis)

	view := newView(0, 0)
	view.MassCenter = chassis.MassCenter()
	view.Ignore = []uint64{id}
	c := NewController(world, DefaultConfig(), nil)
	c.Activate(view)
	c.Update(frameRate, view)

	want := view.MassCenter.Add(mgl64.Vec3{-260, 0, 35})
	assert.True(t, c.State().ResolvedCameraPosition.ApproxEqualThreshold(want, 1e-6))
}

func TestSoftFollow(t *testing.T) {
	view := newView(0, 0)
	c, _ := newActiveCamera(view)
	c.SetSoftFollow(true)

	// The vehicle jumps 100 forward in one frame
	moved := view
	moved.MassCenter = view.MassCenter.Add(mgl64.Vec3{100, 0, 0})
	start := c.State().ResolvedCameraPosition
	c.Update(frameRate, moved)

	s := c.State()
	desired := mgl64.Vec3{-160, 0, 85}
	lag := s.ResolvedCameraPosition.Sub(start).X()
	// eased by 5*dt toward the target, plus a correction clamped to 2
	assert.InDelta(t, 100*5*frameRate+2, lag, 1e-6)
	assert.Less(t, s.ResolvedCameraPosition.X(), desired.X())
	assert.Equal(t, moved.MassCenter, s.LastChassisPosition)

	for range 600 {
		c.Update(frameRate, moved)
	}
	assert.True(t, c.State().ResolvedCameraPosition.ApproxEqualThreshold(desired, 1e-3))
}

func TestFieldOfView_WidensWithSpeed(t *testing.T) {
	tests := []struct {
		speed float64
		want  float64
	}{
		{0, 80},
		{500, 90},
		{-1000, 100},
		{3000, 100},
	}

	for _, tt := range tests {
		view := newView(0, tt.speed)
		c, _ := newActiveCamera(view)

		for range 600 {
			c.Update(frameRate, view)
		}

		assert.InDelta(t, tt.want, c.Frame().FieldOfView, 1e-3, "speed %v", tt.speed)
	}
}

func TestShake(t *testing.T) {
	t.Run("below threshold", func(t *testing.T) {
		view := newView(0, 900)
		c, _ := newActiveCamera(view)

		for range 30 {
			c.Update(0.0123, view)
			assert.Equal(t, c.State().ResolvedCameraPosition, c.Frame().Position)
			assert.Equal(t, c.State().Rotation(), c.Frame().Rotation)
		}
	})

	t.Run("above threshold", func(t *testing.T) {
		view := newView(0, 2000)
		c, _ := newActiveCamera(view)
		// (2000-1000)/(2500-1000)
		length := 2.0 / 3.0

		shaken := 0
		for range 30 {
			c.Update(0.0123, view)
			offset := c.Frame().Position.Sub(c.State().ResolvedCameraPosition)
			require.LessOrEqual(t, offset.Len(), 2*length*math.Sqrt2+1e-9)
			if offset.Len() > 1e-6 {
				shaken++
			}
		}
		assert.Greater(t, shaken, 20)
		s := c.State()
		assert.Equal(t, c.framePosition(view, s.Rotation()), s.ResolvedCameraPosition, "shake never moves the orbit")
	})
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"inverted pitch", func(c *Config) { c.MinOrbitPitch, c.MaxOrbitPitch = 10, -10 }},
		{"pitch beyond vertical", func(c *Config) { c.MaxOrbitPitch = 95 }},
		{"inverted fov", func(c *Config) { c.MinFieldOfView = 120 }},
		{"shake range", func(c *Config) { c.ShakeMaxSpeed = c.ShakeThreshold }},
		{"no distance", func(c *Config) { c.OrbitDistance = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
