package vehicle

import (
	"math"

	"github.com/akmonengine/drivetrain/mathutil"
	"github.com/go-gl/mathgl/mgl64"
)

// Pose is the cosmetic placement of the wheels, in vehicle space.
type Pose struct {
	// SteerAngle of the front wheels, degrees
	SteerAngle float64
	// Spin is the accumulated wheel revolution, degrees
	Spin float64
	// FrontAxle and BackAxle offsets along the vehicle up axis
	FrontAxle float64
	BackAxle  float64
	// Distances measured by the last visual probe pass
	Distances [4]float64
	Wheels    [4]mgl64.Quat
}

func newPose() Pose {
	p := Pose{}
	for i := range p.Wheels {
		p.Wheels[i] = mgl64.QuatIdent()
	}
	return p
}

func (c *Controller) Pose() Pose { return c.pose }

// UpdatePose advances the wheel posing by one render frame. The probes run without forces,
// so posing never disturbs the simulation. It returns false when the body is gone.
func (c *Controller) UpdatePose(dt float64) bool {
	if !c.valid() {
		return false
	}

	layout := c.config.Layout
	p := &c.pose

	p.SteerAngle = mathutil.Smooth(p.SteerAngle, c.state.TurnDirection*layout.MaxSteerAngle, c.config.Smoothing.Turn, dt)
	p.Spin = mathutil.NormalizeAngle(p.Spin + mgl64.RadToDeg(c.state.WheelSpeed/(layout.WheelRadius*c.config.Scale))*dt)

	c.probeWheels(c.body.Rotation(), false, dt, &p.Distances)

	p.FrontAxle = layout.Height - math.Min(p.Distances[FrontRight], p.Distances[FrontLeft])
	p.BackAxle = layout.Height - math.Min(p.Distances[BackRight], p.Distances[BackLeft])

	for i := range p.Wheels {
		steer := 0.0
		if WheelPosition(i).Front() {
			steer = p.SteerAngle
		}
		p.Wheels[i] = mathutil.FromAngles(p.Spin, steer, 0)
	}

	return true
}
