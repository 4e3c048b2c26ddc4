package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and orientation in 3D space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// NewTransformAt creates a transform at position with the given rotation
func NewTransformAt(position mgl64.Vec3, rotation mgl64.Quat) Transform {
	return Transform{
		Position:        position,
		Rotation:        rotation,
		InverseRotation: rotation.Inverse(),
	}
}

// PointToWorld maps a body-space point to world space
func (t Transform) PointToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(local))
}

// PointToLocal maps a world point to body space
func (t Transform) PointToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Inverse().Rotate(world.Sub(t.Position))
}
