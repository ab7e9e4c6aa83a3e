package render

import (
	"math"

	"github.com/lixenwraith/bauview/vmath"
)

// Transform is an axis-aligned affine map: device = user*S + T
// Rotation is never needed by the scene renderer so it is not represented
type Transform struct {
	SX, SY float64
	TX, TY float64
}

// Identity is the unit transform
var Identity = Transform{SX: 1, SY: 1}

// Scale post-multiplies a scale, matching canvas semantics
func (t Transform) Scale(sx, sy float64) Transform {
	t.SX *= sx
	t.SY *= sy
	return t
}

// Translate post-multiplies a translation expressed in the current (scaled) space
func (t Transform) Translate(dx, dy float64) Transform {
	t.TX += t.SX * dx
	t.TY += t.SY * dy
	return t
}

// Apply maps a user-space point to device space
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.SX + t.TX, y*t.SY + t.TY
}

// ApplyVec is Apply for vectors
func (t Transform) ApplyVec(v vmath.Vector2) vmath.Vector2 {
	x, y := t.Apply(v.X, v.Y)
	return vmath.Vector2{X: x, Y: y}
}

// Invert maps a device-space point back to user space
func (t Transform) Invert(x, y float64) (float64, float64) {
	return (x - t.TX) / t.SX, (y - t.TY) / t.SY
}

// LineScale is the factor applied to stroke widths and radii
func (t Transform) LineScale() float64 {
	return (math.Abs(t.SX) + math.Abs(t.SY)) / 2
}

// TransformStack tracks the current transform with Save/Restore nesting
// Backends embed it; an unbalanced Restore is ignored
type TransformStack struct {
	cur   Transform
	saved []Transform
}

// NewTransformStack starts at identity
func NewTransformStack() TransformStack {
	return TransformStack{cur: Identity}
}

// Current returns the active transform
func (s *TransformStack) Current() Transform {
	return s.cur
}

// Save pushes the active transform
func (s *TransformStack) Save() {
	s.saved = append(s.saved, s.cur)
}

// Restore pops the last saved transform
func (s *TransformStack) Restore() {
	if n := len(s.saved); n > 0 {
		s.cur = s.saved[n-1]
		s.saved = s.saved[:n-1]
	}
}

// Scale composes a scale into the active transform
func (s *TransformStack) Scale(sx, sy float64) {
	s.cur = s.cur.Scale(sx, sy)
}

// Translate composes a translation into the active transform
func (s *TransformStack) Translate(dx, dy float64) {
	s.cur = s.cur.Translate(dx, dy)
}

// Reset returns to identity with an empty stack
func (s *TransformStack) Reset() {
	s.cur = Identity
	s.saved = s.saved[:0]
}

// Depth returns the number of unmatched Saves
func (s *TransformStack) Depth() int {
	return len(s.saved)
}
