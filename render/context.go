package render

import (
	"github.com/lixenwraith/bauview/physics"
	"github.com/lixenwraith/bauview/vmath"
)

// FrameContext carries one frame's query results to the layers
// Fields for disabled toggles are left empty and never queried
type FrameContext struct {
	Opts   *Options
	Shapes *ShapeRenderer

	// Always present
	Bodies   []physics.BodyID
	Vertices [][]vmath.Vector2 // aligned with Bodies

	// Collisions || Pairs
	Pairs     []physics.Pair
	Colliding map[physics.BodyID]struct{}

	// Bounds
	Bounds []physics.Bounds // aligned with Bodies

	// Grid
	Grid *physics.GridSnapshot

	// Device size of the target surface
	Width, Height float64
}

// reset clears per-frame data, keeping slice capacity
func (c *FrameContext) reset() {
	c.Bodies = c.Bodies[:0]
	clear(c.Vertices)
	c.Vertices = c.Vertices[:0]
	c.Pairs = nil
	clear(c.Colliding)
	c.Bounds = c.Bounds[:0]
	c.Grid = nil
}

// IsColliding reports whether id is a member of any reported pair
func (c *FrameContext) IsColliding(id physics.BodyID) bool {
	_, ok := c.Colliding[id]
	return ok
}
