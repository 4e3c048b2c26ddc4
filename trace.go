package drivetrain

import (
	"slices"

	"github.com/akmonengine/drivetrain/actor"
	"github.com/akmonengine/drivetrain/physics"
)

// Trace returns the closest hit along ray among bodies carrying every tag of ray.Tags
// and not listed in ray.Ignore. A positive ray.Radius sweeps a sphere.
func (w *World) Trace(ray physics.Ray) physics.Hit {
	w.refreshGrid()

	result := physics.Miss(ray)
	delta := ray.End.Sub(ray.Start)
	length := delta.Len()

	consider := func(body *actor.RigidBody) {
		if !body.Valid() || slices.Contains(ray.Ignore, body.ID) || !body.HasTags(ray.Tags) {
			return
		}

		hit, ok := body.Shape.Raycast(body.Transform, ray.Start, ray.End, ray.Radius)
		if !ok || (result.Hit && hit.Fraction >= result.Fraction) {
			return
		}

		result = physics.Hit{
			Hit:           true,
			Fraction:      hit.Fraction,
			Distance:      length * hit.Fraction,
			StartPosition: ray.Start,
			EndPosition:   ray.Start.Add(delta.Mul(hit.Fraction)),
			Point:         hit.Point,
			Normal:        hit.Normal,
			BodyID:        body.ID,
		}
	}

	for _, idx := range w.planes {
		consider(w.Bodies[idx])
	}

	if w.SpatialGrid == nil {
		for _, body := range w.Bodies {
			if body.Shape.Type() != actor.ShapeTypePlane {
				consider(body)
			}
		}
		return result
	}

	bounds := actor.SegmentAABB(ray.Start, ray.End, ray.Radius)
	for _, idx := range w.SpatialGrid.Query(bounds) {
		body := w.Bodies[idx]
		if body.Shape.GetAABB().Overlaps(bounds) {
			consider(body)
		}
	}

	return result
}
