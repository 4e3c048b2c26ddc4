package drivetrain

import (
	"github.com/akmonengine/drivetrain/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

// Sequential impulse passes over the contact points of a body
const VELOCITY_ITERATIONS = 4

// Grid defaults sized for vehicle-scale scenes (units are roughly centimetres)
const (
	DEFAULT_CELL_SIZE = 256.0
	DEFAULT_CELLS     = 1024
)

// DefaultGravity pulls toward -Z
var DefaultGravity = mgl64.Vec3{0, 0, -800}

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Gravity acceleration (units/s²)
	Gravity     mgl64.Vec3
	Substeps    int
	SpatialGrid *SpatialGrid
	Workers     int

	nextID    uint64
	gridDirty bool
	// indices of plane bodies, kept out of the grid
	planes []int
}

// NewWorld creates a world with default gravity and a spatial grid for traces
func NewWorld() *World {
	return &World{
		Gravity:     DefaultGravity,
		Substeps:    1,
		SpatialGrid: NewSpatialGrid(DEFAULT_CELL_SIZE, DEFAULT_CELLS),
		Workers:     DEFAULT_WORKERS,
		gridDirty:   true,
	}
}

// AddBody adds a rigid body to the world and assigns its id
func (w *World) AddBody(body *actor.RigidBody) uint64 {
	w.nextID++
	body.ID = w.nextID
	w.Bodies = append(w.Bodies, body)
	w.gridDirty = true

	return body.ID
}

// RemoveBody removes a rigid body from the world and invalidates it
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	body.Destroy()
	w.gridDirty = true
}

// Body returns the body with the given id, nil when it is unknown
func (w *World) Body(id uint64) *actor.RigidBody {
	for _, b := range w.Bodies {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// GetGravity returns the world gravity acceleration
func (w *World) GetGravity() mgl64.Vec3 {
	return w.Gravity
}

// Invalidate must be called after moving bodies outside of Step, so traces see the new poses
func (w *World) Invalidate() {
	w.gridDirty = true
}

func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	w.Substeps = max(1, w.Substeps)
	h := dt / float64(w.Substeps)

	for range w.Substeps {
		// Phase 1: forces, gravity and damping into velocities, then poses
		w.integrate(h)

		// Phase 2: dynamic bodies against static planes
		contacts := w.detectContacts()

		// Phase 3: push out, then remove approaching velocity and apply friction
		w.solvePosition(contacts)
		w.solveVelocity(contacts)
	}

	w.gridDirty = true
}

func (w *World) integrate(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Integrate(h, w.Gravity)
	})
}

func (w *World) solvePosition(contacts []*bodyContacts) {
	task(w.Workers, contacts, func(c *bodyContacts) {
		for _, contact := range c.Contacts {
			contact.SolvePosition()
		}
	})
}

func (w *World) solveVelocity(contacts []*bodyContacts) {
	task(w.Workers, contacts, func(c *bodyContacts) {
		for range VELOCITY_ITERATIONS {
			for _, contact := range c.Contacts {
				contact.SolveVelocity()
			}
		}
	})
}

// refreshGrid rebuilds the broad phase used by traces
func (w *World) refreshGrid() {
	if !w.gridDirty {
		return
	}

	w.planes = w.planes[:0]
	if w.SpatialGrid != nil {
		w.SpatialGrid.Clear()
	}

	for i, body := range w.Bodies {
		if body.Shape.Type() == actor.ShapeTypePlane {
			w.planes = append(w.planes, i)
			continue
		}
		if w.SpatialGrid != nil {
			body.Shape.ComputeAABB(body.Transform)
			w.SpatialGrid.Insert(i, body)
		}
	}

	w.gridDirty = false
}
