package drivetrain

import (
	"sort"
	"testing"

	"github.com/akmonengine/drivetrain/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func TestWorldToCell(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	tests := []struct {
		name     string
		position mgl64.Vec3
		expected CellKey
	}{
		{"origin", mgl64.Vec3{0, 0, 0}, CellKey{0, 0, 0}},
		{"positive", mgl64.Vec3{1.5, 2.3, 3.7}, CellKey{1, 2, 3}},
		{"negative", mgl64.Vec3{-1.5, -2.3, -3.7}, CellKey{-2, -3, -4}},
		{"large", mgl64.Vec3{100.7, -200.3, 50.1}, CellKey{100, -201, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := grid.worldToCell(tt.position)
			if result != tt.expected {
				t.Errorf("worldToCell(%v) = %v, want %v", tt.position, result, tt.expected)
			}
		})
	}
}

func TestHashCell_InRange(t *testing.T) {
	grid := NewSpatialGrid(1.0, 10) // rounded up to 16

	if len(grid.cells) != 16 {
		t.Fatalf("len(cells) = %d, want 16", len(grid.cells))
	}

	for _, key := range []CellKey{{0, 0, 0}, {-1, -2, -3}, {100, 200, 300}, {-500, 7, 1}} {
		if idx := grid.hashCell(key); idx < 0 || idx >= len(grid.cells) {
			t.Errorf("hashCell(%v) = %d, out of range", key, idx)
		}
	}
}

func createTestBox(position mgl64.Vec3, halfExtents mgl64.Vec3) *actor.RigidBody {
	return actor.NewRigidBody(
		actor.Transform{Position: position, Rotation: mgl64.QuatIdent()},
		&actor.Box{HalfExtents: halfExtents},
		actor.BodyTypeStatic,
		1.0,
	)
}

func TestQuery_FindsOverlappingCells(t *testing.T) {
	grid := NewSpatialGrid(10.0, 256)
	near := createTestBox(mgl64.Vec3{5, 5, 5}, mgl64.Vec3{2, 2, 2})
	far := createTestBox(mgl64.Vec3{500, 500, 5}, mgl64.Vec3{2, 2, 2})

	grid.Insert(0, near)
	grid.Insert(1, far)

	got := grid.Query(actor.AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{9, 9, 9}})
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("Query() = %v, want [0]", got)
	}
}

func TestQuery_NoDuplicates(t *testing.T) {
	grid := NewSpatialGrid(1.0, 1024)
	// Spans 27 cells
	big := createTestBox(mgl64.Vec3{1.5, 1.5, 1.5}, mgl64.Vec3{1.4, 1.4, 1.4})
	grid.Insert(0, big)

	got := grid.Query(actor.AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{3, 3, 3}})
	if len(got) != 1 {
		t.Errorf("Query() = %v, want a single entry", got)
	}

	// Marks are reset between queries
	got = grid.Query(actor.AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}})
	if len(got) != 1 {
		t.Errorf("second Query() = %v, want a single entry", got)
	}
}

func TestQuery_OversizedBodiesAlwaysReturned(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	huge := createTestBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{100, 100, 1})
	small := createTestBox(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0.1, 0.1, 0.1})

	grid.Insert(0, huge)
	grid.Insert(1, small)

	if len(grid.oversized) != 1 {
		t.Fatalf("oversized = %v, want one body", grid.oversized)
	}

	got := grid.Query(actor.AABB{Min: mgl64.Vec3{0.4, 0.4, 0.4}, Max: mgl64.Vec3{0.6, 0.6, 0.6}})
	sort.Ints(got)
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("Query() = %v, want [0 1]", got)
	}
}

func TestClear(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	grid.Insert(0, createTestBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.4, 0.4, 0.4}))
	grid.Insert(1, createTestBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{100, 100, 100}))

	grid.Clear()

	for i, cell := range grid.cells {
		if len(cell.bodyIndices) != 0 {
			t.Errorf("cell %d not empty after Clear()", i)
		}
	}
	if len(grid.oversized) != 0 {
		t.Error("oversized not empty after Clear()")
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 1}, {1, 1}, {3, 4}, {16, 16}, {1000, 1024},
	}
	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
