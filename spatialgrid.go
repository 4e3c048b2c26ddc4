package drivetrain

import (
	"math"

	"github.com/akmonengine/drivetrain/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================================
// Types
// ============================================================================

// CellKey - coordinates of a cell in 3D space
type CellKey struct {
	X, Y, Z int
}

// Cell - body indices stored in a cell
type Cell struct {
	bodyIndices []int
}

// SpatialGrid - uniform hashed grid, used as the broad phase of traces
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int

	// bodies spanning more cells than the grid holds, tested by every query
	oversized []int
	// dedupe marks for Query, indexed by body index
	seen []bool
}

// ============================================================================
// Constructor
// ============================================================================

// NewSpatialGrid - creates a new spatial grid
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo - rounds up to the next power of two
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// cellSpan returns the number of cells covered by aabb, saturating above the grid size
func (sg *SpatialGrid) cellSpan(minCell, maxCell CellKey) int {
	span := 1
	for _, d := range [3]int{maxCell.X - minCell.X + 1, maxCell.Y - minCell.Y + 1, maxCell.Z - minCell.Z + 1} {
		span *= d
		if span > len(sg.cells) || span <= 0 {
			return len(sg.cells) + 1
		}
	}
	return span
}

// Insert - inserts a body in every cell its AABB covers
func (sg *SpatialGrid) Insert(bodyIndex int, body *actor.RigidBody) {
	aabb := body.Shape.GetAABB()
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	if bodyIndex >= len(sg.seen) {
		sg.seen = append(sg.seen, make([]bool, bodyIndex+1-len(sg.seen))...)
	}

	if sg.cellSpan(minCell, maxCell) > len(sg.cells) {
		sg.oversized = append(sg.oversized, bodyIndex)
		return
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})

				sg.cells[cellIdx].bodyIndices = append(
					sg.cells[cellIdx].bodyIndices,
					bodyIndex,
				)
			}
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
	sg.oversized = sg.oversized[:0]
}

// Query - returns the indices of bodies whose cells intersect aabb, without duplicates.
// Hash collisions can return extra bodies; callers run the exact test.
func (sg *SpatialGrid) Query(aabb actor.AABB) []int {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	result := make([]int, 0, 8)
	mark := func(idx int) {
		if !sg.seen[idx] {
			sg.seen[idx] = true
			result = append(result, idx)
		}
	}

	for _, idx := range sg.oversized {
		mark(idx)
	}

	if sg.cellSpan(minCell, maxCell) > len(sg.cells) {
		// The query covers the whole table: every stored body is a candidate
		for i := range sg.cells {
			for _, idx := range sg.cells[i].bodyIndices {
				mark(idx)
			}
		}
	} else {
		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				for z := minCell.Z; z <= maxCell.Z; z++ {
					cellIdx := sg.hashCell(CellKey{x, y, z})
					for _, idx := range sg.cells[cellIdx].bodyIndices {
						mark(idx)
					}
				}
			}
		}
	}

	for _, idx := range result {
		sg.seen[idx] = false
	}

	return result
}

// worldToCell - converts a world position to cell coordinates
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell - hashes a cell into an index of the table
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
