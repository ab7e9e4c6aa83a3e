package physics

import (
	"fmt"
	"math"

	"github.com/lixenwraith/bauview/vmath"
)

// body is a convex-ish polygon with world-space vertices
// Vertices are kept counter-clockwise in a y-up frame (positive signed area)
type body struct {
	id       BodyID
	vertices []vmath.Vector2
	axes     []vmath.Vector2 // unit outward edge normals, axes[i] belongs to edge i -> i+1
	position vmath.Vector2
	velocity vmath.Vector2
	opts     BodyOptions
	invMass  float64
	bounds   Bounds
	cells    []uint64 // grid keys the body is registered under
}

func newBody(id BodyID, vertices []vmath.Vector2, position vmath.Vector2, opts BodyOptions) (*body, error) {
	vs, err := normalizePolygon(vertices)
	if err != nil {
		return nil, err
	}
	if !opts.Static && !(opts.Mass > 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidMass, opts.Mass)
	}

	// Vertices are given relative to position
	for i := range vs {
		vs[i] = vs[i].Add(position)
	}

	b := &body{
		id:       id,
		vertices: vs,
		position: position,
		opts:     opts,
		invMass:  opts.inverseMass(),
	}
	b.refresh()
	return b, nil
}

// refresh recomputes axes and bounds after the vertices moved
func (b *body) refresh() {
	n := len(b.vertices)
	if cap(b.axes) < n {
		b.axes = make([]vmath.Vector2, n)
	}
	b.axes = b.axes[:n]
	for i := range b.vertices {
		edge := b.vertices[(i+1)%n].Sub(b.vertices[i])
		b.axes[i] = outwardNormal(edge)
	}
	b.bounds = BoundsOf(b.vertices)
}

// translate moves the body rigidly; axes are unchanged by translation
func (b *body) translate(d vmath.Vector2) {
	b.position = b.position.Add(d)
	for i := range b.vertices {
		b.vertices[i] = b.vertices[i].Add(d)
	}
	b.bounds.Min = b.bounds.Min.Add(d)
	b.bounds.Max = b.bounds.Max.Add(d)
}

// containsPoint is strict: points on an edge are outside
func (b *body) containsPoint(p vmath.Vector2) bool {
	n := len(b.vertices)
	for i := range b.vertices {
		cur := b.vertices[i]
		next := b.vertices[(i+1)%n]
		if next.Sub(cur).Cross(p.Sub(cur)) <= 0 {
			return false
		}
	}
	return true
}

// support returns the index of the vertex farthest along dir
func (b *body) support(dir vmath.Vector2) int {
	best := math.Inf(-1)
	idx := 0
	for i, v := range b.vertices {
		if d := dir.Dot(v); d > best {
			best = d
			idx = i
		}
	}
	return idx
}

// project returns the min and max of the vertices projected onto axis
func (b *body) project(axis vmath.Vector2) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range b.vertices {
		p := v.Dot(axis)
		lo = min(lo, p)
		hi = max(hi, p)
	}
	return lo, hi
}

// snapshotVertices returns a copy safe to hand to callers
func (b *body) snapshotVertices() []vmath.Vector2 {
	out := make([]vmath.Vector2, len(b.vertices))
	copy(out, b.vertices)
	return out
}

// outwardNormal is the unit normal on the right of edge, outward for a counter-clockwise polygon
func outwardNormal(edge vmath.Vector2) vmath.Vector2 {
	return vmath.Vector2{X: edge.Y, Y: -edge.X}.Normalize()
}

// signedArea is positive for counter-clockwise winding in a y-up frame
func signedArea(vs []vmath.Vector2) float64 {
	var sum float64
	n := len(vs)
	for i := range vs {
		sum += vs[i].Cross(vs[(i+1)%n])
	}
	return sum / 2
}

// normalizePolygon validates vs and returns a counter-clockwise copy
func normalizePolygon(vs []vmath.Vector2) ([]vmath.Vector2, error) {
	if len(vs) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewVertices, len(vs))
	}
	for i, v := range vs {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
			return nil, fmt.Errorf("%w: vertex %d is not finite", ErrDegenerate, i)
		}
	}
	if selfIntersecting(vs) {
		return nil, ErrSelfIntersecting
	}

	area := signedArea(vs)
	if math.Abs(area) < 1e-9 {
		return nil, fmt.Errorf("%w: zero area", ErrDegenerate)
	}

	out := make([]vmath.Vector2, len(vs))
	copy(out, vs)
	if area < 0 {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

// selfIntersecting checks every pair of non-adjacent edges
func selfIntersecting(vs []vmath.Vector2) bool {
	n := len(vs)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := vs[i], vs[(i+1)%n]
		for j := i + 2; j < n; j++ {
			// First and last edges share vertex 0
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsIntersect(a1, a2, vs[j], vs[(j+1)%n]) {
				return true
			}
		}
	}
	return false
}

func segmentsIntersect(p1, p2, q1, q2 vmath.Vector2) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

func orientation(a, b, c vmath.Vector2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// onSegment assumes c is collinear with a-b
func onSegment(a, b, c vmath.Vector2) bool {
	return min(a.X, b.X) <= c.X && c.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= c.Y && c.Y <= max(a.Y, b.Y)
}

// RectVertices returns a width x height rectangle centered on the origin
func RectVertices(width, height float64) []vmath.Vector2 {
	hw, hh := width/2, height/2
	return []vmath.Vector2{
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
	}
}

// CircleVertexCount is the polygon resolution used for a circle of the given radius
func CircleVertexCount(radius float64) int {
	return max(3, int(math.Round(math.Pow(radius, 0.333)*8)))
}

// CircleVertices approximates a circle centered on the origin
func CircleVertices(radius float64) []vmath.Vector2 {
	return RegularPolygon(CircleVertexCount(radius), radius)
}

// RegularPolygon returns n vertices on a circle, offset half a step so a flat edge faces down
func RegularPolygon(n int, radius float64) []vmath.Vector2 {
	if n < 3 {
		n = 3
	}
	step := 2 * math.Pi / float64(n)
	out := make([]vmath.Vector2, n)
	for i := range out {
		a := step*float64(i) + step/2
		out[i] = vmath.Vector2{X: math.Cos(a) * radius, Y: math.Sin(a) * radius}
	}
	return out
}
