package collision

import (
	"cmp"
	"math"
	"slices"

	"github.com/lixenwraith/verlet/vmath"
)

// CellKey addresses one cubic cell: floor(pos / cellSize) per axis
type CellKey [3]int64

// MaxBodyCells caps how many cells one id may occupy. Bounds spanning more
// cells are kept on a side list and tested by bounds overlap instead
const MaxBodyCells = 512

// SpatialGrid is a sparse uniform-cell broad phase over ids of type K
// An id occupies every cell its bounds overlap, so any two overlapping
// bounds share at least one cell. Empty cells are dropped on removal
// Query results are sorted to keep iteration order deterministic
// Ids wider than MaxBodyCells (level floors, walls) skip the cells and are
// matched by overlap, so registration cost does not grow with their area
type SpatialGrid[K cmp.Ordered] struct {
	cellSize float64
	inv      float64

	cells     map[CellKey][]K
	occupied  map[K][]CellKey
	bounds    map[K]AABB
	oversized map[K]AABB
}

// NewSpatialGrid creates a grid; non-positive cell sizes fall back to 1
func NewSpatialGrid[K cmp.Ordered](cellSize float64) *SpatialGrid[K] {
	if !(cellSize > 0) {
		cellSize = 1
	}
	return &SpatialGrid[K]{
		cellSize: cellSize,
		inv:      1 / cellSize,
		cells:     make(map[CellKey][]K),
		occupied:  make(map[K][]CellKey),
		bounds:    make(map[K]AABB),
		oversized: make(map[K]AABB),
	}
}

// CellSize returns the cell edge length
func (g *SpatialGrid[K]) CellSize() float64 {
	return g.cellSize
}

// CellOf returns the key of the cell containing p
func (g *SpatialGrid[K]) CellOf(p vmath.Vec3) CellKey {
	return CellKey{
		int64(math.Floor(p[0] * g.inv)),
		int64(math.Floor(p[1] * g.inv)),
		int64(math.Floor(p[2] * g.inv)),
	}
}

func (g *SpatialGrid[K]) span(b AABB, fn func(k CellKey)) {
	lo, hi := g.CellOf(b.Min), g.CellOf(b.Max)
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				fn(CellKey{x, y, z})
			}
		}
	}
}

// spanCells returns the number of cells b covers, saturating above MaxBodyCells
func (g *SpatialGrid[K]) spanCells(b AABB) int64 {
	lo, hi := g.CellOf(b.Min), g.CellOf(b.Max)
	n := int64(1)
	for i := 0; i < 3; i++ {
		n *= hi[i] - lo[i] + 1
		if n > MaxBodyCells || n <= 0 {
			return MaxBodyCells + 1
		}
	}
	return n
}

// Insert places id over bounds, replacing any previous placement
func (g *SpatialGrid[K]) Insert(id K, bounds AABB) {
	g.Remove(id)
	g.bounds[id] = bounds

	if g.spanCells(bounds) > MaxBodyCells {
		g.oversized[id] = bounds
		g.occupied[id] = nil
		return
	}

	var keys []CellKey
	g.span(bounds, func(k CellKey) {
		g.cells[k] = append(g.cells[k], id)
		keys = append(keys, k)
	})
	g.occupied[id] = keys
}

// Add places id over the cube of half-extent radius around pos
func (g *SpatialGrid[K]) Add(id K, pos vmath.Vec3, radius float64) {
	g.Insert(id, BoxAround(pos, math.Abs(radius)))
}

// Update moves id to a new position; identical to Add
func (g *SpatialGrid[K]) Update(id K, pos vmath.Vec3, radius float64) {
	g.Add(id, pos, radius)
}

// Remove drops id from every cell it occupies; false if absent
func (g *SpatialGrid[K]) Remove(id K) bool {
	keys, ok := g.occupied[id]
	if !ok {
		return false
	}
	for _, k := range keys {
		members := g.cells[k]
		for i, m := range members {
			if m == id {
				last := len(members) - 1
				members[i] = members[last]
				members = members[:last]
				break
			}
		}
		if len(members) == 0 {
			delete(g.cells, k)
		} else {
			g.cells[k] = members
		}
	}
	delete(g.occupied, id)
	delete(g.bounds, id)
	delete(g.oversized, id)
	return true
}

// Oversized reports whether id is kept off the cells
func (g *SpatialGrid[K]) Oversized(id K) bool {
	_, ok := g.oversized[id]
	return ok
}

// Bounds returns the bounds id was placed with
func (g *SpatialGrid[K]) Bounds(id K) (AABB, bool) {
	b, ok := g.bounds[id]
	return b, ok
}

// Contains reports whether id is placed
func (g *SpatialGrid[K]) Contains(id K) bool {
	_, ok := g.occupied[id]
	return ok
}

// Cells returns the keys id occupies; nil for oversized ids
func (g *SpatialGrid[K]) Cells(id K) []CellKey {
	return g.occupied[id]
}

// PotentialCollisions returns every other id sharing a cell with id
// Oversized ids are matched against every placed id by bounds overlap
func (g *SpatialGrid[K]) PotentialCollisions(id K) []K {
	var out []K
	if b, ok := g.oversized[id]; ok {
		for other, ob := range g.bounds {
			if other != id && b.Overlaps(ob) {
				out = append(out, other)
			}
		}
		return sortUnique(out)
	}

	if b, ok := g.bounds[id]; ok {
		out = g.appendOversized(out, b)
	}
	for _, k := range g.occupied[id] {
		for _, m := range g.cells[k] {
			if m != id {
				out = append(out, m)
			}
		}
	}
	return sortUnique(out)
}

// Query returns every id in cells overlapping bounds, plus oversized ids
// whose bounds overlap it. Queries wider than MaxBodyCells scan placed bounds
func (g *SpatialGrid[K]) Query(bounds AABB) []K {
	if g.spanCells(bounds) > MaxBodyCells {
		var out []K
		for id, b := range g.bounds {
			if bounds.Overlaps(b) {
				out = append(out, id)
			}
		}
		return sortUnique(out)
	}

	out := g.appendOversized(nil, bounds)
	g.span(bounds, func(k CellKey) {
		out = append(out, g.cells[k]...)
	})
	return sortUnique(out)
}

// Nearby returns every id in cells within radius of pos
func (g *SpatialGrid[K]) Nearby(pos vmath.Vec3, radius float64) []K {
	return g.Query(BoxAround(pos, math.Abs(radius)))
}

func (g *SpatialGrid[K]) appendOversized(out []K, b AABB) []K {
	for id, ob := range g.oversized {
		if b.Overlaps(ob) {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of placed ids
func (g *SpatialGrid[K]) Len() int {
	return len(g.occupied)
}

// CellCount returns the number of non-empty cells
func (g *SpatialGrid[K]) CellCount() int {
	return len(g.cells)
}

// Clear removes all ids
func (g *SpatialGrid[K]) Clear() {
	clear(g.cells)
	clear(g.occupied)
	clear(g.bounds)
	clear(g.oversized)
}

func sortUnique[K cmp.Ordered](s []K) []K {
	if len(s) < 2 {
		return s
	}
	slices.Sort(s)
	return slices.Compact(s)
}
