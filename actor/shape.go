package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypePlane
)

// RayHit is the closest intersection of a (possibly swept) segment with a shape.
type RayHit struct {
	// Fraction of the segment travelled before touching the shape
	Fraction float64
	// Point on the shape surface
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

// ContactPoint is a point of a shape lying below a plane.
type ContactPoint struct {
	Position    mgl64.Vec3
	Penetration float64
}

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	Type() ShapeType
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// ComputeMass calculates mass data for the shape given a density
	ComputeMass(density float64) float64
	// ComputeInertia returns the inertia tensor about LocalCenter
	ComputeInertia(mass float64) mgl64.Mat3
	// LocalCenter is the centre of mass in body space
	LocalCenter() mgl64.Vec3
	// Raycast sweeps a sphere of radius from start to end against the shape
	Raycast(transform Transform, start, end mgl64.Vec3, radius float64) (RayHit, bool)
	// PlaneContacts returns the points lying behind the plane n·p + d = 0
	PlaneContacts(transform Transform, normal mgl64.Vec3, distance float64) []ContactPoint
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents around Center, expressed in body space
type Box struct {
	HalfExtents mgl64.Vec3
	Center      mgl64.Vec3
	aabb        AABB
}

func (b *Box) Type() ShapeType { return ShapeTypeBox }

func (b *Box) corners() [8]mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()
	c := b.Center
	return [8]mgl64.Vec3{
		c.Add(mgl64.Vec3{-hx, -hy, -hz}),
		c.Add(mgl64.Vec3{+hx, -hy, -hz}),
		c.Add(mgl64.Vec3{-hx, +hy, -hz}),
		c.Add(mgl64.Vec3{+hx, +hy, -hz}),
		c.Add(mgl64.Vec3{-hx, -hy, +hz}),
		c.Add(mgl64.Vec3{+hx, -hy, +hz}),
		c.Add(mgl64.Vec3{-hx, +hy, +hz}),
		c.Add(mgl64.Vec3{+hx, +hy, +hz}),
	}
}

func (b *Box) ComputeAABB(transform Transform) {
	corners := b.corners()

	// Transformer le premier coin pour initialiser min/max
	worldCorner := transform.PointToWorld(corners[0])
	min := worldCorner
	max := worldCorner

	for i := 1; i < 8; i++ {
		worldCorner = transform.PointToWorld(corners[i])

		min[0] = math.Min(min[0], worldCorner[0])
		min[1] = math.Min(min[1], worldCorner[1])
		min[2] = math.Min(min[2], worldCorner[2])

		max[0] = math.Max(max[0], worldCorner[0])
		max[1] = math.Max(max[1], worldCorner[1])
		max[2] = math.Max(max[2], worldCorner[2])
	}

	b.aabb = AABB{Min: min, Max: max}
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

// ComputeMass calculates mass data for the box
func (b *Box) ComputeMass(density float64) float64 {
	// Volume = 8 * hx * hy * hz (full dimensions are 2*halfExtents)
	volume := 8.0 * b.HalfExtents.X() * b.HalfExtents.Y() * b.HalfExtents.Z()

	return density * volume
}

func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	// I = (m/12) * (dimension1² + dimension2²)
	factor := mass / 12.0
	ix := factor * (y*y + z*z)
	iy := factor * (x*x + z*z)
	iz := factor * (x*x + y*y)

	return mgl64.Mat3{
		ix, 0, 0,
		0, iy, 0,
		0, 0, iz,
	}
}

func (b *Box) LocalCenter() mgl64.Vec3 {
	return b.Center
}

// Raycast runs a slab test against the box inflated by radius, in box space.
// Rounded edges of the swept volume are approximated by the inflated corners.
func (b *Box) Raycast(transform Transform, start, end mgl64.Vec3, radius float64) (RayHit, bool) {
	inverse := transform.Rotation.Inverse()
	s := inverse.Rotate(start.Sub(transform.Position)).Sub(b.Center)
	e := inverse.Rotate(end.Sub(transform.Position)).Sub(b.Center)
	d := e.Sub(s)
	half := b.HalfExtents.Add(mgl64.Vec3{radius, radius, radius})

	tEnter := 0.0
	tExit := 1.0
	enterAxis := -1
	enterSign := 0.0

	for axis := 0; axis < 3; axis++ {
		if math.Abs(d[axis]) < 1e-12 {
			if s[axis] < -half[axis] || s[axis] > half[axis] {
				return RayHit{}, false
			}
			continue
		}

		t1 := (-half[axis] - s[axis]) / d[axis]
		t2 := (half[axis] - s[axis]) / d[axis]
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}
		if t1 > tEnter {
			tEnter = t1
			enterAxis = axis
			enterSign = sign
		}
		tExit = math.Min(tExit, t2)
		if tEnter > tExit {
			return RayHit{}, false
		}
	}

	var localNormal mgl64.Vec3
	if enterAxis == -1 {
		// Start inside the inflated box: push out through the closest face
		best := math.MaxFloat64
		for axis := 0; axis < 3; axis++ {
			if depth := half[axis] - math.Abs(s[axis]); depth < best {
				best = depth
				localNormal = mgl64.Vec3{}
				localNormal[axis] = 1
				if s[axis] < 0 {
					localNormal[axis] = -1
				}
			}
		}
		tEnter = 0
	} else {
		localNormal[enterAxis] = enterSign
	}

	normal := transform.Rotation.Rotate(localNormal)
	center := start.Add(end.Sub(start).Mul(tEnter))

	return RayHit{
		Fraction: tEnter,
		Point:    center.Sub(normal.Mul(radius)),
		Normal:   normal,
	}, true
}

func (b *Box) PlaneContacts(transform Transform, normal mgl64.Vec3, distance float64) []ContactPoint {
	var contacts []ContactPoint
	for _, corner := range b.corners() {
		p := transform.PointToWorld(corner)
		if depth := -(normal.Dot(p) + distance); depth > 0 {
			contacts = append(contacts, ContactPoint{Position: p, Penetration: depth})
		}
	}
	return contacts
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
	aabb   AABB
}

func (s *Sphere) Type() ShapeType { return ShapeTypeSphere }

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	s.aabb = AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

// ComputeMass calculates mass data for the sphere
func (s *Sphere) ComputeMass(density float64) float64 {
	// Volume of sphere = (4/3) * π * r³
	volume := (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)

	return density * volume
}

func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	// I = (2/5) * m * r²
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return mgl64.Mat3{
		i, 0, 0,
		0, i, 0,
		0, 0, i,
	}
}

func (s *Sphere) LocalCenter() mgl64.Vec3 {
	return mgl64.Vec3{}
}

func (s *Sphere) Raycast(transform Transform, start, end mgl64.Vec3, radius float64) (RayHit, bool) {
	center := transform.Position
	r := s.Radius + radius
	d := end.Sub(start)
	m := start.Sub(center)

	c := m.Dot(m) - r*r
	if c <= 0 {
		normal := m.Normalize()
		if m.Len() < 1e-12 {
			normal = d.Mul(-1).Normalize()
		}
		return RayHit{Fraction: 0, Point: center.Add(normal.Mul(s.Radius)), Normal: normal}, true
	}

	a := d.Dot(d)
	if a < 1e-12 {
		return RayHit{}, false
	}
	bHalf := m.Dot(d)
	disc := bHalf*bHalf - a*c
	if bHalf > 0 || disc < 0 {
		return RayHit{}, false
	}

	t := (-bHalf - math.Sqrt(disc)) / a
	if t > 1 {
		return RayHit{}, false
	}

	hitCenter := start.Add(d.Mul(t))
	normal := hitCenter.Sub(center).Normalize()
	return RayHit{Fraction: t, Point: center.Add(normal.Mul(s.Radius)), Normal: normal}, true
}

func (s *Sphere) PlaneContacts(transform Transform, normal mgl64.Vec3, distance float64) []ContactPoint {
	depth := s.Radius - (normal.Dot(transform.Position) + distance)
	if depth <= 0 {
		return nil
	}
	return []ContactPoint{{
		Position:    transform.Position.Sub(normal.Mul(s.Radius)),
		Penetration: depth,
	}}
}

// Plane represents an infinite plane collision shape
// The plane is defined by the equation: Normal · p + Distance = 0
// where Normal is the plane's normal vector (must be normalized)
// and Distance is the signed distance from the origin along the normal.
// Everything behind the plane is solid.
type Plane struct {
	Normal   mgl64.Vec3 // Plane normal (must be normalized)
	Distance float64    // Plane constant (signed distance from origin)
	aabb     AABB
}

func (p *Plane) Type() ShapeType { return ShapeTypePlane }

// WorldDistance returns the plane constant once the plane is moved by transform
func (p *Plane) WorldDistance(transform Transform) float64 {
	return p.Distance - p.Normal.Dot(transform.Position)
}

func (p *Plane) ComputeAABB(transform Transform) {
	const infinity = 1e10

	p.aabb = AABB{
		Min: mgl64.Vec3{-infinity, -infinity, -infinity},
		Max: mgl64.Vec3{infinity, infinity, infinity},
	}
}

func (p *Plane) GetAABB() AABB {
	return p.aabb
}

// ComputeMass calculates mass data for the plane
// Planes are always static with infinite mass
func (p *Plane) ComputeMass(density float64) float64 {
	return math.Inf(1)
}

func (p *Plane) ComputeInertia(mass float64) mgl64.Mat3 {
	return mgl64.Mat3{}
}

func (p *Plane) LocalCenter() mgl64.Vec3 {
	return mgl64.Vec3{}
}

func (p *Plane) Raycast(transform Transform, start, end mgl64.Vec3, radius float64) (RayHit, bool) {
	d := p.WorldDistance(transform)
	d0 := p.Normal.Dot(start) + d - radius
	d1 := p.Normal.Dot(end) + d - radius

	if d0 <= 0 {
		// Start already inside the solid half-space
		return RayHit{
			Fraction: 0,
			Point:    start.Sub(p.Normal.Mul(d0 + radius)),
			Normal:   p.Normal,
		}, true
	}
	if d1 >= 0 {
		return RayHit{}, false
	}

	t := d0 / (d0 - d1)
	center := start.Add(end.Sub(start).Mul(t))
	return RayHit{
		Fraction: t,
		Point:    center.Sub(p.Normal.Mul(radius)),
		Normal:   p.Normal,
	}, true
}

func (p *Plane) PlaneContacts(transform Transform, normal mgl64.Vec3, distance float64) []ContactPoint {
	return nil
}
