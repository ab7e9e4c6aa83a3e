package render

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/lixenwraith/bauview/physics"
	"github.com/lixenwraith/bauview/status"
	"github.com/lixenwraith/bauview/vmath"
)

// countingView serves fixed data and counts every query
type countingView struct {
	bodies map[physics.BodyID][]vmath.Vector2
	pairs  []physics.Pair
	grid   physics.GridSnapshot
	calls  map[string]int
}

func newCountingView() *countingView {
	sq := func(x, y float64) []vmath.Vector2 {
		return []vmath.Vector2{vmath.V(x, y), vmath.V(x+10, y), vmath.V(x+10, y+10), vmath.V(x, y+10)}
	}
	return &countingView{
		bodies: map[physics.BodyID][]vmath.Vector2{
			1: sq(0, 0),
			2: sq(8, 0),
			3: sq(100, 100),
		},
		pairs: []physics.Pair{{
			A: 1, B: 2,
			Contacts:    []physics.Contact{{Vertex: vmath.V(8, 5), Incident: 2, Reference: 1}},
			Depth:       2,
			Normal:      vmath.V(-1, 0),
			Tangent:     vmath.V(0, -1),
			NormalPoint: vmath.V(8, 5),
		}},
		grid: physics.GridSnapshot{
			CellSize: 50,
			Cells: map[uint64]int{
				vmath.PackCell(0, 0):  2,
				vmath.PackCell(2, 2):  1,
				vmath.PackCell(2, 0):  4,
				vmath.PackCell(-1, 3): 25,
				vmath.PackCell(5, -4): 5,
			},
		},
		calls: make(map[string]int),
	}
}

func (v *countingView) QueryBodies() []physics.BodyID {
	v.calls["bodies"]++
	return []physics.BodyID{1, 2, 3}
}

func (v *countingView) QueryVertices(id physics.BodyID) []vmath.Vector2 {
	v.calls["vertices"]++
	return v.bodies[id]
}

func (v *countingView) QueryBounds(id physics.BodyID) physics.Bounds {
	v.calls["bounds"]++
	return physics.BoundsOf(v.bodies[id])
}

func (v *countingView) QueryPairs() []physics.Pair {
	v.calls["pairs"]++
	return v.pairs
}

func (v *countingView) QueryGrid() physics.GridSnapshot {
	v.calls["grid"]++
	return v.grid
}

func allToggles() Options {
	opts := DefaultOptions()
	opts.Toggles = Toggles{Bounds: true, Collisions: true, Pairs: true, Grid: true, BodyIDs: true}
	return opts
}

func TestRenderQueriesGatedByToggles(t *testing.T) {
	tests := []struct {
		name    string
		toggles Toggles
		want    map[string]int
	}{
		{"none", Toggles{}, map[string]int{"bodies": 1, "vertices": 3}},
		{"collisions", Toggles{Collisions: true}, map[string]int{"bodies": 1, "vertices": 3, "pairs": 1}},
		{"pairs", Toggles{Pairs: true}, map[string]int{"bodies": 1, "vertices": 3, "pairs": 1}},
		{"both pair consumers", Toggles{Pairs: true, Collisions: true}, map[string]int{"bodies": 1, "vertices": 3, "pairs": 1}},
		{"bounds", Toggles{Bounds: true}, map[string]int{"bodies": 1, "vertices": 3, "bounds": 3}},
		{"grid", Toggles{Grid: true}, map[string]int{"bodies": 1, "vertices": 3, "grid": 1}},
		{"labels only", Toggles{BodyIDs: true}, map[string]int{"bodies": 1, "vertices": 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newCountingView()
			r := NewSceneRenderer(NewDisplayList(800, 600), nil)
			opts := DefaultOptions()
			opts.Toggles = tt.toggles
			if err := r.Render(view, opts); err != nil {
				t.Fatalf("Render: %v", err)
			}
			for _, k := range []string{"bodies", "vertices", "pairs", "bounds", "grid"} {
				if view.calls[k] != tt.want[k] {
					t.Errorf("%s queries = %d, want %d", k, view.calls[k], tt.want[k])
				}
			}
		})
	}
}

func TestRenderDeterministic(t *testing.T) {
	view := newCountingView()
	opts := allToggles()
	opts.CameraScale = 1.5
	opts.CameraPosition = vmath.V(-20, 30)

	a := NewDisplayList(800, 600)
	b := NewDisplayList(800, 600)
	if err := NewSceneRenderer(a, nil).Render(view, opts); err != nil {
		t.Fatal(err)
	}
	r := NewSceneRenderer(b, nil)
	// Second renderer draws a throwaway frame first to prove no state carries over
	if err := r.Render(view, DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	b.Reset()
	if err := r.Render(view, opts); err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(a.Commands(), b.Commands()) {
		t.Fatal("identical input produced different command streams")
	}
}

func TestRenderCameraSetup(t *testing.T) {
	d := NewDisplayList(800, 600)
	opts := DefaultOptions()
	opts.CameraScale = 2
	opts.CameraPosition = vmath.V(5, -3)
	if err := NewSceneRenderer(d, nil).Render(newCountingView(), opts); err != nil {
		t.Fatal(err)
	}
	cmds := d.Commands()
	want := []Command{
		{Op: OpClear},
		{Op: OpSave},
		{Op: OpScale, Args: [5]float64{2, 2}},
		{Op: OpTranslate, Args: [5]float64{5, -3}},
	}
	for i, w := range want {
		if cmds[i] != w {
			t.Errorf("command %d = %+v, want %+v", i, cmds[i], w)
		}
	}
	if last := cmds[len(cmds)-1]; last.Op != OpRestore {
		t.Errorf("last command = %v, want restore", last.Op)
	}
}

func TestRenderLayerOrder(t *testing.T) {
	d := NewDisplayList(800, 600)
	opts := allToggles()
	pal := opts.Palette
	if err := NewSceneRenderer(d, nil).Render(newCountingView(), opts); err != nil {
		t.Fatal(err)
	}

	first := func(match func(Command) bool) int {
		for i, c := range d.Commands() {
			if match(c) {
				return i
			}
		}
		return -1
	}
	grid := first(func(c Command) bool { return c.Op == OpFillRect })
	bounds := first(func(c Command) bool { return c.Op == OpStroke && c.Color == pal.Bounds })
	fill := first(func(c Command) bool { return c.Op == OpFill && c.Color == pal.Fill })
	outline := first(func(c Command) bool { return c.Op == OpStroke && c.Color == pal.Outline })
	label := first(func(c Command) bool { return c.Op == OpFillText })
	contact := first(func(c Command) bool { return c.Op == OpArc })
	normal := first(func(c Command) bool { return c.Op == OpStroke && c.Color == pal.Normal })

	order := []int{grid, bounds, fill, outline, label, contact, normal}
	for i, idx := range order {
		if idx < 0 {
			t.Fatalf("layer %d missing from output", i)
		}
		if i > 0 && idx <= order[i-1] {
			t.Errorf("layer %d at %d not after layer %d at %d", i, idx, i-1, order[i-1])
		}
	}
}

func TestRenderGridCells(t *testing.T) {
	d := NewDisplayList(800, 600)
	opts := DefaultOptions()
	opts.Toggles.Grid = true
	if err := NewSceneRenderer(d, nil).Render(newCountingView(), opts); err != nil {
		t.Fatal(err)
	}

	type cell struct {
		x, y  float64
		alpha uint8
	}
	var got []cell
	for _, c := range d.Commands() {
		if c.Op == OpFillRect {
			if c.Args[2] != 50 || c.Args[3] != 50 {
				t.Errorf("cell size = %vx%v", c.Args[2], c.Args[3])
			}
			got = append(got, cell{c.Args[0], c.Args[1], c.Color.A})
		}
	}
	want := map[cell]bool{
		{0, 0, 51}:       true, // 2/10
		{100, 100, 26}:   true, // 1/10, diagonal cell
		{100, 0, 102}:    true, // 4/10, same column on the axis
		{-50, 150, 255}:  true, // saturated
		{250, -200, 128}: true, // 5/10
	}
	if len(got) != len(want) {
		t.Fatalf("cells = %v", got)
	}
	for _, c := range got {
		if !want[c] {
			t.Errorf("unexpected cell %+v", c)
		}
	}
}

func TestRenderCollidingOnlyPairMembers(t *testing.T) {
	d := NewDisplayList(800, 600)
	opts := DefaultOptions()
	opts.Toggles.Collisions = true
	if err := NewSceneRenderer(d, nil).Render(newCountingView(), opts); err != nil {
		t.Fatal(err)
	}

	// Bodies 1 and 2 collide, body 3 does not: two subpaths in the fill
	cmds := d.Commands()
	fill := slices.IndexFunc(cmds, func(c Command) bool { return c.Op == OpFill })
	if fill < 0 {
		t.Fatal("no fill")
	}
	begin := fill
	for begin >= 0 && cmds[begin].Op != OpBeginPath {
		begin--
	}
	moves := 0
	for _, c := range cmds[begin:fill] {
		if c.Op == OpMoveTo {
			moves++
		}
	}
	if moves != 2 {
		t.Errorf("colliding subpaths = %d, want 2", moves)
	}
	if d.Count(OpArc) != 0 {
		t.Error("contacts drawn without the pairs toggle")
	}
}

func TestRenderRoundedOutlines(t *testing.T) {
	d := NewDisplayList(800, 600)
	opts := DefaultOptions()
	opts.CornerRadius = 3
	if err := NewSceneRenderer(d, nil).Render(newCountingView(), opts); err != nil {
		t.Fatal(err)
	}
	if got := d.Count(OpQuadTo); got != 12 {
		t.Errorf("quads = %d, want 12", got)
	}
}

func TestRenderNormalArrows(t *testing.T) {
	plain := NewDisplayList(800, 600)
	arrows := NewDisplayList(800, 600)
	opts := DefaultOptions()
	opts.Toggles.Pairs = true
	if err := NewSceneRenderer(plain, nil).Render(newCountingView(), opts); err != nil {
		t.Fatal(err)
	}
	opts.Toggles.NormalArrows = true
	if err := NewSceneRenderer(arrows, nil).Render(newCountingView(), opts); err != nil {
		t.Fatal(err)
	}
	// Each arrow adds two barb segments to its shaft
	if diff := arrows.Count(OpLineTo) - plain.Count(OpLineTo); diff != 4 {
		t.Errorf("arrow line delta = %d, want 4", diff)
	}
}

func TestRenderRejectsBadScale(t *testing.T) {
	for _, s := range []float64{0, -1} {
		d := NewDisplayList(10, 10)
		view := newCountingView()
		opts := DefaultOptions()
		opts.CameraScale = s
		err := NewSceneRenderer(d, nil).Render(view, opts)
		if !errors.Is(err, ErrInvalidScale) {
			t.Errorf("scale %v: err = %v", s, err)
		}
		if d.Len() != 0 || len(view.calls) != 0 {
			t.Errorf("scale %v: drew %d commands, %d queries", s, d.Len(), len(view.calls))
		}
	}
}

func TestStatsOverlay(t *testing.T) {
	reg := status.NewRegistry()
	reg.Floats.Get("perf.fps").Store(59.94)
	reg.Ints.Get("scheduler.ticks").Store(12)
	reg.Ints.Get("physics.bodies").Store(3)

	o := NewStatsOverlay(reg, true, "perf.", "scheduler.")
	lines := o.Lines()
	want := []string{"perf.fps 59.94", "scheduler.ticks 12"}
	if !slices.Equal(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}

	d := NewDisplayList(800, 600)
	r := NewSceneRenderer(d, nil)
	r.Register(o, PriorityOverlay)
	if err := r.Render(newCountingView(), DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	// Panel is drawn after the camera restore
	cmds := d.Commands()
	restore := slices.IndexFunc(cmds, func(c Command) bool { return c.Op == OpRestore })
	text := slices.IndexFunc(cmds, func(c Command) bool { return c.Op == OpFillText })
	if restore < 0 || text < restore {
		t.Errorf("overlay text at %d, restore at %d", text, restore)
	}
	if d.Count(OpFillText) != 2 {
		t.Errorf("texts = %d, want 2", d.Count(OpFillText))
	}

	o.SetVisible(false)
	d.Reset()
	if err := r.Render(newCountingView(), DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	if d.Count(OpFillText) != 0 {
		t.Error("hidden overlay drew text")
	}
}

func TestCameraScreenToWorld(t *testing.T) {
	opts := DefaultOptions()
	opts.CameraScale = 2
	opts.CameraPosition = vmath.V(10, -5)

	// device = scale * (world + camera)
	world := vmath.V(30, 40)
	dx, dy := opts.Camera().Apply(world.X, world.Y)
	if dx != 80 || dy != 70 {
		t.Fatalf("Camera().Apply = (%v, %v), want (80, 70)", dx, dy)
	}
	if got := opts.ScreenToWorld(dx, dy); got != world {
		t.Errorf("ScreenToWorld = %v, want %v", got, world)
	}
}

func TestZoomAroundKeepsAnchor(t *testing.T) {
	tests := []struct {
		name   string
		scale  float64
		anchor vmath.Vector2
	}{
		{"zoom in at centre", 2.5, vmath.V(400, 300)},
		{"zoom out at origin", 0.4, vmath.V(0, 0)},
		{"zoom in off centre", 1.25, vmath.V(120, 560)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.CameraPosition = vmath.V(-35, 12)
			before := opts.ScreenToWorld(tt.anchor.X, tt.anchor.Y)

			opts.ZoomAround(tt.scale, tt.anchor.X, tt.anchor.Y)
			if opts.CameraScale != tt.scale {
				t.Fatalf("scale = %v, want %v", opts.CameraScale, tt.scale)
			}
			after := opts.ScreenToWorld(tt.anchor.X, tt.anchor.Y)
			if math.Abs(after.X-before.X) > 1e-9 || math.Abs(after.Y-before.Y) > 1e-9 {
				t.Errorf("anchor moved from %v to %v", before, after)
			}
		})
	}
}
