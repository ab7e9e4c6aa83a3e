package render

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/bauview/vmath"
)

// ErrInvalidScale rejects a non-positive camera scale
var ErrInvalidScale = errors.New("camera scale must be positive")

// Toggles selects the optional debug layers
type Toggles struct {
	Bounds       bool `toml:"bounds"`
	Collisions   bool `toml:"collisions"`    // colliding silhouettes
	Pairs        bool `toml:"pairs"`         // contact markers and normals
	Grid         bool `toml:"grid"`          // broadphase occupancy
	BodyIDs      bool `toml:"body_ids"`      // id label per body
	NormalArrows bool `toml:"normal_arrows"` // arrow heads on normal and tangent segments
}

// Options is the per-frame render input; the renderer keeps nothing else between frames
type Options struct {
	CameraPosition vmath.Vector2
	CameraScale    float64
	CornerRadius   float64 // > 0 rounds body outlines
	Toggles        Toggles
	Palette        Palette
}

// DefaultOptions returns a unit camera with the debug layers off
func DefaultOptions() Options {
	return Options{
		CameraScale: 1,
		Palette:     DefaultPalette(),
	}
}

// Validate checks the camera
func (o Options) Validate() error {
	if !(o.CameraScale > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidScale, o.CameraScale)
	}
	return nil
}

// Camera is scale then translate, the order panning depends on
func (o Options) Camera() Transform {
	return Identity.Scale(o.CameraScale, o.CameraScale).Translate(o.CameraPosition.X, o.CameraPosition.Y)
}

// ScreenToWorld maps a device-space point back through the camera
func (o Options) ScreenToWorld(x, y float64) vmath.Vector2 {
	wx, wy := o.Camera().Invert(x, y)
	return vmath.Vector2{X: wx, Y: wy}
}

// ZoomAround sets the camera scale keeping the world point under device (x, y) in place
func (o *Options) ZoomAround(scale, x, y float64) {
	anchor := o.ScreenToWorld(x, y)
	o.CameraScale = scale
	o.CameraPosition = vmath.Vector2{X: x/scale - anchor.X, Y: y/scale - anchor.Y}
}

// needsPairs reports whether any layer consumes collision pairs
func (o Options) needsPairs() bool {
	return o.Toggles.Collisions || o.Toggles.Pairs
}
