package drivetrain

import (
	"math"

	"github.com/akmonengine/drivetrain/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Below this approach speed contacts do not bounce
const restitutionVelocityThreshold = 50.0

// planeContact holds the points of a dynamic body lying behind a static plane
type planeContact struct {
	Body   *actor.RigidBody
	Plane  *actor.RigidBody
	Normal mgl64.Vec3
	Points []actor.ContactPoint
}

func computeRestitution(matA, matB actor.Material) float64 {
	return (matA.Restitution + matB.Restitution) / 2.0
}

func computeStaticFriction(matA, matB actor.Material) float64 {
	return math.Sqrt(matA.StaticFriction * matB.StaticFriction)
}

func computeDynamicFriction(matA, matB actor.Material) float64 {
	return math.Sqrt(matA.DynamicFriction * matB.DynamicFriction)
}

// bodyContacts gathers every plane a body touches, so one worker owns the body
type bodyContacts struct {
	Body     *actor.RigidBody
	Contacts []*planeContact
}

// detectContacts pairs every dynamic body with every plane. Planes are few, so no broad phase.
func (w *World) detectContacts() []*bodyContacts {
	var result []*bodyContacts

	for _, body := range w.Bodies {
		if body.BodyType == actor.BodyTypeStatic || !body.Valid() {
			continue
		}

		var touching *bodyContacts
		for _, plane := range w.Bodies {
			shape, ok := plane.Shape.(*actor.Plane)
			if !ok || !plane.Valid() {
				continue
			}

			points := body.Shape.PlaneContacts(body.Transform, shape.Normal, shape.WorldDistance(plane.Transform))
			if len(points) == 0 {
				continue
			}

			if touching == nil {
				touching = &bodyContacts{Body: body}
				result = append(result, touching)
			}
			touching.Contacts = append(touching.Contacts, &planeContact{
				Body:   body,
				Plane:  plane,
				Normal: shape.Normal,
				Points: points,
			})
		}
	}

	return result
}

// SolvePosition moves the body out of the plane along its normal
func (c *planeContact) SolvePosition() {
	deepest := 0.0
	for _, point := range c.Points {
		deepest = math.Max(deepest, point.Penetration)
	}
	if deepest <= 1e-8 {
		return
	}

	c.Body.Translate(c.Normal.Mul(deepest))
	for i := range c.Points {
		c.Points[i].Position = c.Points[i].Position.Add(c.Normal.Mul(deepest))
	}
}

// SolveVelocity cancels the approaching velocity of every point and applies Coulomb friction
func (c *planeContact) SolveVelocity() {
	body := c.Body
	invMass := body.InverseMass()
	invInertia := body.GetInverseInertiaWorld()

	restitution := computeRestitution(body.Material, c.Plane.Material)
	staticFriction := computeStaticFriction(body.Material, c.Plane.Material)
	dynamicFriction := computeDynamicFriction(body.Material, c.Plane.Material)

	for _, point := range c.Points {
		r := point.Position.Sub(body.MassCenter())

		// ========== NORMAL IMPULSE ==========
		velocity := body.VelocityAtPoint(point.Position)
		normalVel := velocity.Dot(c.Normal)
		if normalVel >= 0 {
			continue
		}

		rCrossN := r.Cross(c.Normal)
		effectiveMassNormal := invMass + invInertia.Mul3x1(rCrossN).Dot(rCrossN)
		if effectiveMassNormal < 1e-10 {
			continue
		}

		bounce := 0.0
		if -normalVel > restitutionVelocityThreshold {
			bounce = restitution
		}
		lambdaNormal := -(1 + bounce) * normalVel / effectiveMassNormal
		body.ApplyImpulseAt(point.Position, c.Normal.Mul(lambdaNormal))

		// ========== TANGENTIAL IMPULSE (friction) ==========
		velocity = body.VelocityAtPoint(point.Position)
		tangentVel := velocity.Sub(c.Normal.Mul(velocity.Dot(c.Normal)))
		tangentSpeed := tangentVel.Len()
		if tangentSpeed < 1e-6 {
			continue
		}

		tangentDir := tangentVel.Mul(1.0 / tangentSpeed)
		rCrossT := r.Cross(tangentDir)
		effectiveMassTangent := invMass + invInertia.Mul3x1(rCrossT).Dot(rCrossT)
		if effectiveMassTangent < 1e-10 {
			continue
		}

		// Coulomb's law: |F_friction| ≤ μ * |F_normal|
		lambdaTangent := -tangentSpeed / effectiveMassTangent
		if math.Abs(lambdaTangent) > staticFriction*lambdaNormal {
			lambdaTangent = -dynamicFriction * lambdaNormal
		}
		body.ApplyImpulseAt(point.Position, tangentDir.Mul(lambdaTangent))
	}
}
