package physics

import (
	"math"
	"sort"
)

// Spatial grid cell size - colliders sharing a cell are tested against each other
const CellSize = 5.0

// maxCellsPerCollider bounds how many cells a single collider is inserted
// into. Larger colliders go to the oversized list and meet everything.
const maxCellsPerCollider = 64

// Cell key for spatial hashing
type CellKey struct {
	X, Y, Z int
}

func posToCell(x, y, z float32) CellKey {
	return CellKey{
		X: int(math.Floor(float64(x / CellSize))),
		Y: int(math.Floor(float64(y / CellSize))),
		Z: int(math.Floor(float64(z / CellSize))),
	}
}

type broadPhase struct {
	grid      map[CellKey][]int
	oversized []int
	seen      map[pairKey]struct{}
}

func newBroadPhase() *broadPhase {
	return &broadPhase{
		grid: make(map[CellKey][]int),
		seen: make(map[pairKey]struct{}),
	}
}

// candidates returns index pairs into placements whose bounds overlap, in a
// deterministic order.
func (bp *broadPhase) candidates(placements []placement) [][2]int {
	for k := range bp.grid {
		delete(bp.grid, k)
	}
	for k := range bp.seen {
		delete(bp.seen, k)
	}
	bp.oversized = bp.oversized[:0]

	for i, p := range placements {
		lo := posToCell(p.bounds.Min.X(), p.bounds.Min.Y(), p.bounds.Min.Z())
		hi := posToCell(p.bounds.Max.X(), p.bounds.Max.Y(), p.bounds.Max.Z())
		cells := (hi.X - lo.X + 1) * (hi.Y - lo.Y + 1) * (hi.Z - lo.Z + 1)
		if cells > maxCellsPerCollider {
			bp.oversized = append(bp.oversized, i)
			continue
		}
		for x := lo.X; x <= hi.X; x++ {
			for y := lo.Y; y <= hi.Y; y++ {
				for z := lo.Z; z <= hi.Z; z++ {
					k := CellKey{x, y, z}
					bp.grid[k] = append(bp.grid[k], i)
				}
			}
		}
	}

	var out [][2]int
	consider := func(i, j int) {
		if i == j {
			return
		}
		a, b := placements[i], placements[j]
		key := makePair(a.collider.ID, b.collider.ID)
		if _, dup := bp.seen[key]; dup {
			return
		}
		bp.seen[key] = struct{}{}
		if !shouldCollide(a.body, b.body) || !a.bounds.Intersects(b.bounds) {
			return
		}
		if a.collider.ID > b.collider.ID {
			i, j = j, i
		}
		out = append(out, [2]int{i, j})
	}

	for _, members := range bp.grid {
		for x := 0; x < len(members); x++ {
			for y := x + 1; y < len(members); y++ {
				consider(members[x], members[y])
			}
		}
	}
	for _, i := range bp.oversized {
		for j := range placements {
			consider(i, j)
		}
	}

	sort.Slice(out, func(x, y int) bool {
		ax, ay := placements[out[x][0]].collider.ID, placements[out[y][0]].collider.ID
		if ax != ay {
			return ax < ay
		}
		return placements[out[x][1]].collider.ID < placements[out[y][1]].collider.ID
	})
	return out
}

// shouldCollide skips pairs on the same body, pairs with no dynamic body,
// and sleeping bodies resting on statics.
func shouldCollide(a, b *Body) bool {
	if a.ID == b.ID {
		return false
	}
	if a.Kind != BodyDynamic && b.Kind != BodyDynamic {
		return false
	}
	awakeA := a.Kind == BodyDynamic && !a.IsSleeping
	awakeB := b.Kind == BodyDynamic && !b.IsSleeping
	return awakeA || awakeB || a.Kind == BodyKinematic || b.Kind == BodyKinematic
}
