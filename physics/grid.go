package physics

import (
	"math"
	"slices"

	"github.com/lixenwraith/bauview/vmath"
)

// maxBodyCells caps how many buckets one body may occupy; larger bodies are registered under a clipped span
const maxBodyCells = 4096

// spatialHash is a sparse bucket grid keyed by vmath.PackCell
type spatialHash struct {
	cellSize float64
	buckets  map[uint64][]BodyID
}

func newSpatialHash(cellSize float64) *spatialHash {
	return &spatialHash{
		cellSize: cellSize,
		buckets:  make(map[uint64][]BodyID),
	}
}

// cellOf floors into grid space so that cell 0 is not double width
func (g *spatialHash) cellOf(p vmath.Vector2) (int64, int64) {
	return floorCell(p.X / g.cellSize), floorCell(p.Y / g.cellSize)
}

func floorCell(v float64) int64 {
	f := math.Floor(v)
	if f > vmath.MaxCellCoord {
		return vmath.MaxCellCoord
	}
	if f < -vmath.MaxCellCoord {
		return -vmath.MaxCellCoord
	}
	return int64(f)
}

// insert registers b under every cell its bounds touch
func (g *spatialHash) insert(b *body) {
	minX, minY := g.cellOf(b.bounds.Min)
	maxX, maxY := g.cellOf(b.bounds.Max)

	// Clip oversized spans from the minimum corner
	w, h := clipSpan(maxX-minX+1, maxY-minY+1)
	maxX, maxY = minX+w-1, minY+h-1

	b.cells = b.cells[:0]
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			key := vmath.PackCell(x, y)
			g.buckets[key] = append(g.buckets[key], b.id)
			b.cells = append(b.cells, key)
		}
	}
}

// clipSpan fits a w by h cell span under maxBodyCells by shrinking the longer axis
// A span wider than the square root of the cap on both axes falls back to a square
func clipSpan(w, h int64) (int64, int64) {
	if w*h <= maxBodyCells {
		return w, h
	}
	side := int64(math.Sqrt(maxBodyCells))
	switch {
	case h <= side:
		return maxBodyCells / h, h
	case w <= side:
		return w, maxBodyCells / w
	default:
		return side, side
	}
}

// remove swap-deletes b from its buckets and drops buckets that become empty
func (g *spatialHash) remove(b *body) {
	for _, key := range b.cells {
		bucket := g.buckets[key]
		for i, id := range bucket {
			if id != b.id {
				continue
			}
			last := len(bucket) - 1
			bucket[i] = bucket[last]
			bucket = bucket[:last]
			break
		}
		if len(bucket) == 0 {
			delete(g.buckets, key)
		} else {
			g.buckets[key] = bucket
		}
	}
	b.cells = b.cells[:0]
}

func (g *spatialHash) update(b *body) {
	g.remove(b)
	g.insert(b)
}

// candidates returns every unordered pair sharing at least one bucket, as sorted vmath.Pair ids
func (g *spatialHash) candidates() []uint64 {
	seen := make(map[uint64]struct{})
	for _, bucket := range g.buckets {
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				a, b := bucket[i], bucket[j]
				if a > b {
					a, b = b, a
				}
				seen[vmath.Pair(uint64(a), uint64(b))] = struct{}{}
			}
		}
	}
	out := make([]uint64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// snapshot copies occupancy counts per bucket
func (g *spatialHash) snapshot() GridSnapshot {
	cells := make(map[uint64]int, len(g.buckets))
	for key, bucket := range g.buckets {
		cells[key] = len(bucket)
	}
	return GridSnapshot{CellSize: g.cellSize, Cells: cells}
}
