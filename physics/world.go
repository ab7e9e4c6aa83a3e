package physics

import (
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/bauview/status"
	"github.com/lixenwraith/bauview/vmath"
)

// WorldConfig tunes the software world; zero fields take DefaultWorldConfig values
type WorldConfig struct {
	Gravity    vmath.Vector2 `toml:"gravity"`
	CellSize   float64       `toml:"cell_size"`  // broadphase bucket edge
	TimeStep   float64       `toml:"time_step"`  // seconds advanced per Step
	Iterations int           `toml:"iterations"` // velocity solver passes
	MaxBodies  int           `toml:"max_bodies"`
	MaxSpeed   float64       `toml:"max_speed"`  // 0 disables the cap
	Correction float64       `toml:"correction"` // fraction of penetration removed per step
	Slop       float64       `toml:"slop"`       // penetration left uncorrected
}

// DefaultWorldConfig returns the stock world settings, screen units with y pointing down
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Gravity:    vmath.Vector2{X: 0, Y: 400},
		CellSize:   100,
		TimeStep:   1.0 / 60,
		Iterations: 8,
		MaxBodies:  4096,
		MaxSpeed:   3000,
		Correction: 0.6,
		Slop:       0.05,
	}
}

// Validate reports the first invalid field
func (c WorldConfig) Validate() error {
	switch {
	case !(c.CellSize > 0):
		return fmt.Errorf("physics: cell_size must be positive, got %v", c.CellSize)
	case !(c.TimeStep > 0):
		return fmt.Errorf("physics: time_step must be positive, got %v", c.TimeStep)
	case c.Iterations < 1:
		return fmt.Errorf("physics: iterations must be at least 1, got %d", c.Iterations)
	case c.MaxBodies < 1:
		return fmt.Errorf("physics: max_bodies must be at least 1, got %d", c.MaxBodies)
	case c.MaxSpeed < 0:
		return fmt.Errorf("physics: max_speed must not be negative, got %v", c.MaxSpeed)
	case c.Correction < 0 || c.Correction > 1:
		return fmt.Errorf("physics: correction must be in [0, 1], got %v", c.Correction)
	case c.Slop < 0:
		return fmt.Errorf("physics: slop must not be negative, got %v", c.Slop)
	}
	return nil
}

func (c WorldConfig) withDefaults() WorldConfig {
	d := DefaultWorldConfig()
	if !(c.CellSize > 0) {
		c.CellSize = d.CellSize
	}
	if !(c.TimeStep > 0) {
		c.TimeStep = d.TimeStep
	}
	if c.Iterations < 1 {
		c.Iterations = d.Iterations
	}
	if c.MaxBodies < 1 {
		c.MaxBodies = d.MaxBodies
	}
	if c.MaxSpeed < 0 {
		c.MaxSpeed = 0
	}
	if c.Correction <= 0 || c.Correction > 1 {
		c.Correction = d.Correction
	}
	if c.Slop < 0 {
		c.Slop = d.Slop
	}
	return c
}

// WorldOption customizes a World
type WorldOption func(*World)

// WithLogger sets the world's logger
func WithLogger(log *zap.Logger) WorldOption {
	return func(w *World) { w.log = log }
}

// WithStatus publishes body, pair and step timing counters into reg
func WithStatus(reg *status.Registry) WorldOption {
	return func(w *World) { w.statusReg = reg }
}

// World is the software implementation of Engine
// Not safe for concurrent use; driven from the scheduler's loop
type World struct {
	cfg WorldConfig
	log *zap.Logger

	bodies map[BodyID]*body
	order  []BodyID // ascending insertion order
	nextID BodyID
	grid   *spatialHash
	pairs  []Pair
	frame  uint64

	released bool

	statusReg   *status.Registry
	statBodies  *atomic.Int64
	statPairs   *atomic.Int64
	statFrame   *atomic.Int64
	statStepUs  *status.AtomicFloat
	statClamped *atomic.Int64
}

// NewWorld creates an empty world
func NewWorld(cfg WorldConfig, opts ...WorldOption) *World {
	cfg = cfg.withDefaults()
	w := &World{
		cfg:    cfg,
		bodies: make(map[BodyID]*body),
		grid:   newSpatialHash(cfg.CellSize),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}
	if w.statusReg == nil {
		w.statusReg = status.NewRegistry()
	}
	w.statBodies = w.statusReg.Ints.Get("physics.bodies")
	w.statPairs = w.statusReg.Ints.Get("physics.pairs")
	w.statFrame = w.statusReg.Ints.Get("physics.frame")
	w.statStepUs = w.statusReg.Floats.Get("physics.step_us")
	w.statClamped = w.statusReg.Ints.Get("physics.speed_clamped")
	return w
}

// Config returns the effective configuration
func (w *World) Config() WorldConfig {
	return w.cfg
}

// Frame returns the number of completed steps
func (w *World) Frame() uint64 {
	w.mustLive()
	return w.frame
}

func (w *World) mustLive() {
	if w.released {
		panic(ErrReleased)
	}
}

// AddBody validates the polygon, places it relative to position and registers it in the broadphase
func (w *World) AddBody(vertices []vmath.Vector2, position vmath.Vector2, opts BodyOptions) (BodyID, error) {
	w.mustLive()
	if len(w.bodies) >= w.cfg.MaxBodies {
		return 0, fmt.Errorf("%w: %d", ErrBodyLimit, w.cfg.MaxBodies)
	}

	id := w.nextID + 1
	b, err := newBody(id, vertices, position, opts)
	if err != nil {
		return 0, err
	}
	w.nextID = id
	w.bodies[id] = b
	w.order = append(w.order, id)
	w.grid.insert(b)
	w.statBodies.Store(int64(len(w.bodies)))

	w.log.Debug("body added",
		zap.Uint32("id", uint32(id)),
		zap.Int("vertices", len(b.vertices)),
		zap.Bool("static", opts.Static),
	)
	return id, nil
}

// RemoveBody drops the body and any pair that references it, returns false for unknown ids
func (w *World) RemoveBody(id BodyID) bool {
	w.mustLive()
	b, ok := w.bodies[id]
	if !ok {
		return false
	}
	w.grid.remove(b)
	delete(w.bodies, id)
	if i := slices.Index(w.order, id); i >= 0 {
		w.order = slices.Delete(w.order, i, i+1)
	}
	w.pairs = slices.DeleteFunc(w.pairs, func(p Pair) bool { return p.Involves(id) })
	w.statBodies.Store(int64(len(w.bodies)))
	w.statPairs.Store(int64(len(w.pairs)))
	return true
}

// SetVelocity replaces a dynamic body's velocity; static and unknown bodies return false
func (w *World) SetVelocity(id BodyID, v vmath.Vector2) bool {
	w.mustLive()
	b, ok := w.bodies[id]
	if !ok || b.opts.Static {
		return false
	}
	b.velocity = v
	return true
}

// Velocity returns a body's current velocity
func (w *World) Velocity(id BodyID) (vmath.Vector2, bool) {
	w.mustLive()
	b, ok := w.bodies[id]
	if !ok {
		return vmath.Zero, false
	}
	return b.velocity, true
}

// Step advances the world by one fixed time step
// Order: detect pairs, apply gravity, solve velocities, correct positions, integrate, rebuild grid
func (w *World) Step() {
	w.mustLive()
	start := time.Now()
	dt := w.cfg.TimeStep

	w.pairs = w.detect()

	for _, id := range w.order {
		accelerate(w.bodies[id], w.cfg.Gravity, dt)
	}

	for range w.cfg.Iterations {
		for i := range w.pairs {
			p := &w.pairs[i]
			resolveVelocity(w.bodies[p.A], w.bodies[p.B], p)
		}
	}
	for i := range w.pairs {
		p := &w.pairs[i]
		correctPosition(w.bodies[p.A], w.bodies[p.B], p, w.cfg.Correction, w.cfg.Slop)
	}

	for _, id := range w.order {
		b := w.bodies[id]
		if v, clamped := capSpeed(b.velocity, w.cfg.MaxSpeed); clamped {
			b.velocity = v
			w.statClamped.Add(1)
		}
		integrate(b, dt)
		if !b.opts.Static {
			w.grid.update(b)
		}
	}

	w.frame++
	w.statFrame.Store(int64(w.frame))
	w.statPairs.Store(int64(len(w.pairs)))
	w.statStepUs.Store(float64(time.Since(start).Microseconds()))
}

// detect runs the broadphase candidates through bounds, SAT and manifold generation
func (w *World) detect() []Pair {
	var pairs []Pair
	for _, pid := range w.grid.candidates() {
		x, y := vmath.Unpair(pid)
		a, b := w.bodies[BodyID(x)], w.bodies[BodyID(y)]
		if a == nil || b == nil {
			continue
		}
		if a.opts.Static && b.opts.Static {
			continue
		}
		if !a.bounds.Overlaps(b.bounds) || !collides(a, b) {
			continue
		}
		pairs = append(pairs, manifold(a, b))
	}
	return pairs
}

// Release invalidates the world; any later call panics with ErrReleased
func (w *World) Release() {
	w.mustLive()
	w.released = true
	w.bodies = nil
	w.order = nil
	w.pairs = nil
	w.grid = nil
	w.log.Debug("world released", zap.Uint64("frames", w.frame))
}

// QueryBodies returns body ids in ascending order
func (w *World) QueryBodies() []BodyID {
	w.mustLive()
	return slices.Clone(w.order)
}

// QueryVertices returns a copy of a body's world-space vertices, nil for unknown ids
func (w *World) QueryVertices(id BodyID) []vmath.Vector2 {
	w.mustLive()
	b, ok := w.bodies[id]
	if !ok {
		return nil
	}
	return b.snapshotVertices()
}

// QueryBounds returns a body's bounding box, zero for unknown ids
func (w *World) QueryBounds(id BodyID) Bounds {
	w.mustLive()
	b, ok := w.bodies[id]
	if !ok {
		return Bounds{}
	}
	return b.bounds
}

// QueryPairs returns the pairs found by the last step in broadphase key order
func (w *World) QueryPairs() []Pair {
	w.mustLive()
	out := make([]Pair, len(w.pairs))
	for i, p := range w.pairs {
		p.Contacts = slices.Clone(p.Contacts)
		out[i] = p
	}
	return out
}

// QueryGrid returns a copy of the broadphase occupancy
func (w *World) QueryGrid() GridSnapshot {
	w.mustLive()
	return w.grid.snapshot()
}
