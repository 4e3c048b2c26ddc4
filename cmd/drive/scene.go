package main

import (
	"github.com/akmonengine/drivetrain"
	"github.com/akmonengine/drivetrain/actor"
	"github.com/akmonengine/drivetrain/mathutil"
	"github.com/akmonengine/drivetrain/physics"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

type obstacle struct {
	body   *actor.RigidBody
	extent mgl64.Vec3
}

type scene struct {
	world     *drivetrain.World
	chassis   *actor.RigidBody
	player    *player
	obstacles []obstacle
}

// newScene lays out a flat ground with a few ramps, the car and a player standing next to it.
func newScene(scale float64) *scene {
	world := drivetrain.NewWorld()
	s := &scene{world: world}

	ground := actor.NewRigidBody(actor.NewTransform(), &actor.Plane{Normal: mgl64.Vec3{0, 0, 1}}, actor.BodyTypeStatic, 0)
	ground.Tags = []string{physics.TagSolid}
	world.AddBody(ground)

	ramps := []struct {
		position mgl64.Vec3
		extent   mgl64.Vec3
		pitch    float64
	}{
		{mgl64.Vec3{1200, 0, 0}, mgl64.Vec3{300, 200, 40}, -12},
		{mgl64.Vec3{-900, 900, 0}, mgl64.Vec3{250, 250, 60}, -18},
		{mgl64.Vec3{0, -1500, 0}, mgl64.Vec3{500, 150, 30}, 0},
	}
	for _, r := range ramps {
		body := actor.NewRigidBody(
			actor.NewTransformAt(r.position, mathutil.FromPitch(r.pitch)),
			&actor.Box{HalfExtents: r.extent},
			actor.BodyTypeStatic,
			0,
		)
		body.Tags = []string{physics.TagSolid}
		world.AddBody(body)
		s.obstacles = append(s.obstacles, obstacle{body: body, extent: r.extent})
	}

	s.chassis = actor.NewRigidBody(
		actor.NewTransformAt(mgl64.Vec3{0, 0, 40 * scale}, mgl64.QuatIdent()),
		&actor.Box{
			HalfExtents: mgl64.Vec3{60, 32, 10}.Mul(scale),
			Center:      mgl64.Vec3{0, 0, 18}.Mul(scale),
		},
		actor.BodyTypeDynamic,
		0.01,
	)
	world.AddBody(s.chassis)

	body := actor.NewRigidBody(
		actor.NewTransformAt(mgl64.Vec3{0, 120 * scale, 36}, mgl64.QuatIdent()),
		&actor.Sphere{Radius: 16},
		actor.BodyTypeStatic,
		0,
	)
	world.AddBody(body)
	s.player = &player{Handle: world.Handle(body), armed: true}

	return s
}

// player is the agent driving the car. It holds a weapon while on foot.
type player struct {
	*drivetrain.Handle
	armed  bool
	logger *zap.Logger
}

func (p *player) Disarm() {
	p.armed = false
	if p.logger != nil {
		p.logger.Debug("weapon holstered", zap.Uint64("player", p.ID()))
	}
}

func (p *player) Rearm() {
	p.armed = true
	if p.logger != nil {
		p.logger.Debug("weapon drawn", zap.Uint64("player", p.ID()))
	}
}
