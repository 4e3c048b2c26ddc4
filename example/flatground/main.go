package main

import (
	"fmt"

	"github.com/akmonengine/drivetrain"
	"github.com/akmonengine/drivetrain/actor"
	"github.com/akmonengine/drivetrain/camera"
	"github.com/akmonengine/drivetrain/mathutil"
	"github.com/akmonengine/drivetrain/physics"
	"github.com/akmonengine/drivetrain/sim"
	"github.com/akmonengine/drivetrain/vehicle"
	"github.com/go-gl/mathgl/mgl64"
)

const dt float64 = 1.0 / 60.0

// driver is a scripted driver, always present
type driver struct{}

func (driver) ID() uint64  { return 1000 }
func (driver) Valid() bool { return true }

// phase holds buttons for a number of simulated seconds
type phase struct {
	name     string
	seconds  int
	controls sim.Controls
}

// SetupScene creates a flat ground and drops the car slightly above it
func SetupScene() (*drivetrain.World, *sim.Host) {
	world := drivetrain.NewWorld()

	ground := actor.NewRigidBody(actor.NewTransform(), &actor.Plane{Normal: mgl64.Vec3{0, 0, 1}}, actor.BodyTypeStatic, 0)
	ground.Tags = []string{physics.TagSolid}
	world.AddBody(ground)

	chassis := actor.NewRigidBody(
		actor.NewTransformAt(mgl64.Vec3{0, 0, 10}, mgl64.QuatIdent()),
		&actor.Box{HalfExtents: mgl64.Vec3{60, 32, 10}, Center: mgl64.Vec3{0, 0, 18}},
		actor.BodyTypeDynamic,
		0.01,
	)
	world.AddBody(chassis)

	car := vehicle.NewController(world, world.Handle(chassis), vehicle.DefaultConfig())
	cam := camera.NewController(world, camera.DefaultConfig(), nil)

	return world, sim.NewHost(world, car, cam, dt)
}

func main() {
	fmt.Println("Flat ground scenario")
	fmt.Println("====================")

	world, host := SetupScene()
	fmt.Printf("  Gravity: %v\n", world.GetGravity())
	fmt.Printf("  Tick: %.4fs\n\n", dt)

	host.Enter(driver{})

	phases := []phase{
		{"settle", 2, sim.Controls{}},
		{"throttle", 3, sim.Controls{Buttons: vehicle.Buttons{Forward: true}}},
		{"turn left", 2, sim.Controls{Buttons: vehicle.Buttons{Forward: true, Left: true}}},
		{"brake", 2, sim.Controls{Buttons: vehicle.Buttons{Jump: true}}},
		{"reverse", 2, sim.Controls{Buttons: vehicle.Buttons{Back: true}}},
	}

	for _, p := range phases {
		fmt.Printf("--- %s ---\n", p.name)
		for range p.seconds {
			for range int(1 / dt) {
				host.SetControls(p.controls)
				host.Tick()
				host.Frame(dt, 0, 0)
			}
			printState(host)
		}
		fmt.Println()
	}

	fmt.Println("Done!")
}

func printState(host *sim.Host) {
	car := host.Vehicle()
	view := car.View()
	s := view.State
	frame := host.Camera().Frame()

	fmt.Printf("t=%4.1fs speed=%8.2f grip=%.3f tilt=%+.3f lean=%+.3f grounded=%v/%v\n",
		host.Clock(), s.MovementSpeed, s.Grip, s.AccelerationTilt, s.TurnLean, s.FrontGrounded, s.BackGrounded)
	fmt.Printf("       position=%v yaw=%.1f steer=%.1f\n",
		view.Position, mathutil.Yaw(view.Rotation), car.Pose().SteerAngle)
	fmt.Printf("       camera=%v fov=%.1f\n", frame.Position, frame.FieldOfView)
}
