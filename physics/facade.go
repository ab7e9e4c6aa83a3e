package physics

import (
	"errors"

	"github.com/lixenwraith/bauview/vmath"
)

// BodyID identifies a body for the lifetime of an engine; zero is never issued
type BodyID uint32

// Bounds is an axis-aligned bounding box
type Bounds struct {
	Min vmath.Vector2
	Max vmath.Vector2
}

// BoundsOf returns the box enclosing vs, zero for an empty slice
func BoundsOf(vs []vmath.Vector2) Bounds {
	if len(vs) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vs[0], Max: vs[0]}
	for _, v := range vs[1:] {
		b.Min.X = min(b.Min.X, v.X)
		b.Min.Y = min(b.Min.Y, v.Y)
		b.Max.X = max(b.Max.X, v.X)
		b.Max.Y = max(b.Max.Y, v.Y)
	}
	return b
}

// Overlaps reports whether the boxes intersect, touching edges included
func (b Bounds) Overlaps(o Bounds) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y
}

// Size returns the box extents
func (b Bounds) Size() vmath.Vector2 {
	return b.Max.Sub(b.Min)
}

// Contact is one vertex of the incident body found inside the reference body
type Contact struct {
	Vertex    vmath.Vector2
	Incident  BodyID
	Reference BodyID
}

// Pair is the manifold of two colliding bodies
// A is the reference body, B the incident body; Normal points from B's edge toward A
type Pair struct {
	A, B        BodyID
	Contacts    []Contact
	Depth       float64
	Normal      vmath.Vector2
	Tangent     vmath.Vector2
	NormalPoint vmath.Vector2 // midpoint of the minimum-penetration edge
}

// Involves reports whether id is either side of the pair
func (p *Pair) Involves(id BodyID) bool {
	return p.A == id || p.B == id
}

// GridSnapshot is the broadphase occupancy at query time
// Cells maps vmath.PackCell keys to the number of bodies in the cell
type GridSnapshot struct {
	CellSize float64
	Cells    map[uint64]int
}

// View is the read-only query surface the renderer consumes
type View interface {
	QueryBodies() []BodyID
	QueryVertices(id BodyID) []vmath.Vector2
	QueryBounds(id BodyID) Bounds
	QueryPairs() []Pair
	QueryGrid() GridSnapshot
}

// Engine is the full capability set driven by the harness
type Engine interface {
	View
	AddBody(vertices []vmath.Vector2, position vmath.Vector2, opts BodyOptions) (BodyID, error)
	RemoveBody(id BodyID) bool
	SetVelocity(id BodyID, v vmath.Vector2) bool
	Step()
	Release()
}

var (
	// ErrTooFewVertices rejects bodies with fewer than three vertices
	ErrTooFewVertices = errors.New("body needs at least 3 vertices")
	// ErrSelfIntersecting rejects polygons whose non-adjacent edges cross
	ErrSelfIntersecting = errors.New("body polygon is self-intersecting")
	// ErrDegenerate rejects zero-area or non-finite polygons
	ErrDegenerate = errors.New("body polygon is degenerate")
	// ErrInvalidMass rejects a non-positive mass on a dynamic body
	ErrInvalidMass = errors.New("dynamic body mass must be positive")
	// ErrBodyLimit is returned once the world holds its configured maximum
	ErrBodyLimit = errors.New("body limit reached")
	// ErrReleased is the panic value for any use of a released engine
	ErrReleased = errors.New("physics engine used after release")
)

// Compile-time check
var _ Engine = (*World)(nil)
