package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/lixenwraith/bauview/physics"
)

// LoadFile reads a scene by extension: .yaml and .yml documents, .lua scripts
func LoadFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var spec *Spec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		spec, err = ParseYAML(data)
	case ".lua":
		spec, err = RunLua(string(data), stem)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	if spec.Name == "" {
		spec.Name = stem
	}
	return spec, nil
}

// Default is the demo scene in screen units: floor, side walls and a ramp, a box stack, falling circles
func Default() *Spec {
	static := true

	s := &Spec{Name: "demo"}
	s.Bodies = append(s.Bodies,
		BodySpec{Shape: ShapeRect, Width: 1100, Height: 40, Position: Point{X: 640, Y: 680}, Profile: "static"},
		BodySpec{Shape: ShapeRect, Width: 40, Height: 400, Position: Point{X: 110, Y: 460}, Static: &static},
		BodySpec{Shape: ShapeRect, Width: 40, Height: 400, Position: Point{X: 1170, Y: 460}, Static: &static},
		BodySpec{
			Shape:    ShapePolygon,
			Vertices: []Point{{X: -150, Y: 20}, {X: 150, Y: -20}, {X: 150, Y: 20}},
			Position: Point{X: 900, Y: 560},
			Profile:  "static",
		},
	)

	// Box stack, bottom row widest
	for row := 0; row < 4; row++ {
		for col := 0; col <= 3-row; col++ {
			x := 400 + float64(col)*62 + float64(row)*31
			y := 630 - float64(row)*62
			s.Bodies = append(s.Bodies, BodySpec{
				Shape: ShapeRect, Width: 60, Height: 60,
				Position: Point{X: x, Y: y},
			})
		}
	}

	for i := 0; i < 5; i++ {
		s.Bodies = append(s.Bodies, BodySpec{
			Shape:    ShapeCircle,
			Radius:   14 + float64(i)*4,
			Position: Point{X: 760 + float64(i)*70, Y: 120 - float64(i)*30},
			Velocity: Point{X: -40, Y: 0},
			Profile:  "bouncy",
		})
	}

	s.Bodies = append(s.Bodies, BodySpec{
		Shape: ShapeRect, Width: 90, Height: 50,
		Position: Point{X: 300, Y: 80},
		Profile:  "heavy",
	})
	return s
}

// Populate adds every body to the engine in order, stopping at the first failure
func Populate(eng physics.Engine, spec *Spec, log *zap.Logger) ([]physics.BodyID, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ids := make([]physics.BodyID, 0, len(spec.Bodies))
	for i := range spec.Bodies {
		b := &spec.Bodies[i]
		vs, err := b.Polygon()
		if err != nil {
			return ids, fmt.Errorf("body %d: %w", i, err)
		}
		opts, err := b.Options()
		if err != nil {
			return ids, fmt.Errorf("body %d: %w", i, err)
		}
		id, err := eng.AddBody(vs, b.Position.Vec(), opts)
		if err != nil {
			return ids, fmt.Errorf("body %d: %w", i, err)
		}
		if v := b.Velocity.Vec(); v.X != 0 || v.Y != 0 {
			eng.SetVelocity(id, v)
		}
		ids = append(ids, id)
	}
	log.Info("scene populated",
		zap.String("scene", spec.Name),
		zap.Int("bodies", len(ids)),
	)
	return ids, nil
}
