package render

import (
	"math"

	"go.uber.org/zap"

	"github.com/lixenwraith/bauview/vmath"
)

// ShapeRenderer emits path geometry onto a Surface
// It holds no drawing state; callers open the path and choose Fill or Stroke
type ShapeRenderer struct {
	log *zap.Logger
}

// NewShapeRenderer creates a ShapeRenderer, nil logger allowed
func NewShapeRenderer(log *zap.Logger) *ShapeRenderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &ShapeRenderer{log: log}
}

// Polygon adds a closed subpath through vs; empty input adds nothing
func (r *ShapeRenderer) Polygon(vs []vmath.Vector2, s Surface) {
	if len(vs) == 0 {
		return
	}
	s.MoveTo(vs[0].X, vs[0].Y)
	for _, v := range vs[1:] {
		s.LineTo(v.X, v.Y)
	}
	s.ClosePath()
}

// Corner is one fillet: Enter on the incoming edge, Ctrl at the vertex, Exit on the outgoing edge
type Corner struct {
	Enter, Ctrl, Exit vmath.Vector2
}

// cornerAt clamps the radius to half of each adjacent edge so neighbouring fillets never overlap
func cornerAt(vs []vmath.Vector2, i int, radius float64) Corner {
	n := len(vs)
	cur := vs[i]
	prev := vs[(i+n-1)%n]
	next := vs[(i+1)%n]

	toPrev := prev.Sub(cur)
	toNext := next.Sub(cur)
	r := min(radius, toPrev.Length()/2, toNext.Length()/2)

	return Corner{
		Enter: cur.Add(toPrev.Normalize().Scale(r)),
		Ctrl:  cur,
		Exit:  cur.Add(toNext.Normalize().Scale(r)),
	}
}

// RoundedCorners computes the fillet points for every vertex of vs
func RoundedCorners(vs []vmath.Vector2, radius float64) []Corner {
	out := make([]Corner, len(vs))
	for i := range vs {
		out[i] = cornerAt(vs, i, radius)
	}
	return out
}

// RoundedPolygon adds a closed subpath with every corner replaced by a quadratic fillet
// Returns false, drawing nothing, for fewer than 3 vertices; radius <= 0 draws the plain polygon
func (r *ShapeRenderer) RoundedPolygon(vs []vmath.Vector2, radius float64, s Surface) bool {
	if len(vs) < 3 {
		r.log.Warn("rounded polygon needs at least 3 vertices", zap.Int("vertices", len(vs)))
		return false
	}
	if radius <= 0 {
		r.Polygon(vs, s)
		return true
	}

	corners := RoundedCorners(vs, radius)
	first := corners[0]
	s.MoveTo(first.Enter.X, first.Enter.Y)
	s.QuadTo(first.Ctrl.X, first.Ctrl.Y, first.Exit.X, first.Exit.Y)
	for _, c := range corners[1:] {
		s.LineTo(c.Enter.X, c.Enter.Y)
		s.QuadTo(c.Ctrl.X, c.Ctrl.Y, c.Exit.X, c.Exit.Y)
	}
	s.ClosePath()
	return true
}

// RoundedRect adds a w x h rounded rectangle centered on center
func (r *ShapeRenderer) RoundedRect(w, h float64, center vmath.Vector2, radius float64, s Surface) bool {
	hw, hh := w/2, h/2
	return r.RoundedPolygon([]vmath.Vector2{
		center.Add(vmath.V(-hw, -hh)),
		center.Add(vmath.V(hw, -hh)),
		center.Add(vmath.V(hw, hh)),
		center.Add(vmath.V(-hw, hh)),
	}, radius, s)
}

// arrowHeadAngle opens each barb 45° from the reversed shaft
const arrowHeadAngle = 3 * math.Pi / 4

// ArrowHead returns the two barb offsets for a shaft along dir
func ArrowHead(dir vmath.Vector2, headSize float64) (vmath.Vector2, vmath.Vector2) {
	unit := dir.Normalize()
	a := unit.Rotate(arrowHeadAngle).Scale(headSize)
	return a, a.Reflect(unit)
}

// Arrow adds a shaft from origin to origin+dir and two barbs at the tip as open subpaths
func (r *ShapeRenderer) Arrow(origin, dir vmath.Vector2, headSize float64, s Surface) {
	tip := origin.Add(dir)
	a, b := ArrowHead(dir, headSize)

	s.MoveTo(origin.X, origin.Y)
	s.LineTo(tip.X, tip.Y)
	s.LineTo(tip.X+a.X, tip.Y+a.Y)
	s.MoveTo(tip.X, tip.Y)
	s.LineTo(tip.X+b.X, tip.Y+b.Y)
}

// Segment adds an open line from a to b
func (r *ShapeRenderer) Segment(a, b vmath.Vector2, s Surface) {
	s.MoveTo(a.X, a.Y)
	s.LineTo(b.X, b.Y)
}

// Circle adds a full circle subpath
func (r *ShapeRenderer) Circle(center vmath.Vector2, radius float64, s Surface) {
	s.MoveTo(center.X+radius, center.Y)
	s.Arc(center.X, center.Y, radius, 0, 2*math.Pi)
}
