package scene

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/bauview/physics"
	"github.com/lixenwraith/bauview/vmath"
)

var (
	ErrUnknownShape   = errors.New("unknown shape")
	ErrShapeSize      = errors.New("shape size must be positive")
	ErrUnknownProfile = errors.New("unknown material profile")
	ErrUnknownFormat  = errors.New("unknown scene format")
	ErrEmpty          = errors.New("scene has no bodies")
)

// Shape names
const (
	ShapeRect    = "rect"
	ShapeCircle  = "circle"
	ShapePolygon = "polygon"
)

// Spec is a parsed scene, bodies are added in order
type Spec struct {
	Name   string     `yaml:"name"`
	Bodies []BodySpec `yaml:"bodies"`
}

// BodySpec describes one body; nil material fields fall back to the profile
type BodySpec struct {
	Shape    string  `yaml:"shape"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Radius   float64 `yaml:"radius"`
	Vertices []Point `yaml:"vertices"`

	Position Point `yaml:"position"`
	Velocity Point `yaml:"velocity"`

	Profile     string   `yaml:"profile"`
	Static      *bool    `yaml:"static"`
	Mass        *float64 `yaml:"mass"`
	Restitution *float64 `yaml:"restitution"`
	Friction    *float64 `yaml:"friction"`
}

// Point decodes from either [x, y] or {x: .., y: ..}
type Point vmath.Vector2

func (p Point) Vec() vmath.Vector2 { return vmath.Vector2(p) }

func (p *Point) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.SequenceNode:
		var xy []float64
		if err := n.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("line %d: point needs 2 coordinates, got %d", n.Line, len(xy))
		}
		*p = Point{X: xy[0], Y: xy[1]}
	case yaml.MappingNode:
		var v struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
		}
		if err := n.Decode(&v); err != nil {
			return err
		}
		*p = Point{X: v.X, Y: v.Y}
	default:
		return fmt.Errorf("line %d: point must be [x, y] or {x, y}", n.Line)
	}
	return nil
}

// Polygon builds the body-local polygon for the shape
func (b *BodySpec) Polygon() ([]vmath.Vector2, error) {
	switch strings.ToLower(b.Shape) {
	case ShapeRect, "box":
		if !(b.Width > 0 && b.Height > 0) {
			return nil, fmt.Errorf("%w: rect %vx%v", ErrShapeSize, b.Width, b.Height)
		}
		return physics.RectVertices(b.Width, b.Height), nil
	case ShapeCircle:
		if !(b.Radius > 0) {
			return nil, fmt.Errorf("%w: circle radius %v", ErrShapeSize, b.Radius)
		}
		return physics.CircleVertices(b.Radius), nil
	case ShapePolygon:
		vs := make([]vmath.Vector2, len(b.Vertices))
		for i, p := range b.Vertices {
			vs[i] = p.Vec()
		}
		return vs, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, b.Shape)
	}
}

// Options resolves the profile and applies per-body overrides
func (b *BodySpec) Options() (physics.BodyOptions, error) {
	opts := physics.DefaultBody
	if b.Profile != "" {
		p, ok := physics.Profile(b.Profile)
		if !ok {
			return opts, fmt.Errorf("%w: %q", ErrUnknownProfile, b.Profile)
		}
		opts = p
	}
	if b.Static != nil {
		opts.Static = *b.Static
	}
	if b.Mass != nil {
		opts.Mass = *b.Mass
	}
	if b.Restitution != nil {
		opts.Restitution = *b.Restitution
	}
	if b.Friction != nil {
		opts.Friction = *b.Friction
	}
	return opts, nil
}

// Validate checks every body's shape and profile without touching an engine
func (s *Spec) Validate() error {
	if len(s.Bodies) == 0 {
		return ErrEmpty
	}
	for i := range s.Bodies {
		if _, err := s.Bodies[i].Polygon(); err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
		if _, err := s.Bodies[i].Options(); err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
	}
	return nil
}
