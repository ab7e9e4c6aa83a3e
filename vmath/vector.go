package vmath

import "math"

// Vector2 is an immutable 2D vector, every operation returns a new value
type Vector2 struct {
	X, Y float64
}

// Zero is the zero vector
var Zero = Vector2{}

// V is shorthand for Vector2{x, y}
func V(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by s
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

// Mul multiplies component-wise
func (v Vector2) Mul(o Vector2) Vector2 {
	return Vector2{X: v.X * o.X, Y: v.Y * o.Y}
}

func (v Vector2) Neg() Vector2 {
	return Vector2{X: -v.X, Y: -v.Y}
}

func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product
func (v Vector2) Cross(o Vector2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// LengthSq returns squared length without sqrt
func (v Vector2) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the unit vector, zero-safe: a zero vector stays zero
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l == 0 {
		return Vector2{}
	}
	return Vector2{X: v.X / l, Y: v.Y / l}
}

// Rotate rotates counter-clockwise by angle radians (y-down screens appear clockwise)
func (v Vector2) Rotate(angle float64) Vector2 {
	sin, cos := math.Sincos(angle)
	return Vector2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Reflect mirrors v across the line spanned by axis
// axis is normalized internally; a zero axis returns v negated
func (v Vector2) Reflect(axis Vector2) Vector2 {
	a := axis.Normalize()
	return a.Scale(2 * v.Dot(a)).Sub(v)
}

// Perp returns the vector rotated 90° counter-clockwise
func (v Vector2) Perp() Vector2 {
	return Vector2{X: -v.Y, Y: v.X}
}

// Lerp interpolates linearly toward o by t
func (v Vector2) Lerp(o Vector2, t float64) Vector2 {
	return Vector2{X: v.X + (o.X-v.X)*t, Y: v.Y + (o.Y-v.Y)*t}
}

// Distance returns the euclidean distance to o
func (v Vector2) Distance(o Vector2) float64 {
	return v.Sub(o).Length()
}

// ApproxEqual compares components within eps
func (v Vector2) ApproxEqual(o Vector2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

// Centroid returns the arithmetic mean of the points, zero for an empty slice
func Centroid(points []Vector2) Vector2 {
	if len(points) == 0 {
		return Vector2{}
	}
	var sum Vector2
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(points)))
}
