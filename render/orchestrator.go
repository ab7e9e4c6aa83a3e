package render

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lixenwraith/bauview/physics"
)

type rendererEntry struct {
	renderer LayerRenderer
	priority RenderPriority
	index    int // registration order for stable sort
	screen   bool
}

// SceneRenderer draws one frame of an engine view onto its surface in fixed layer order
// Not safe for concurrent use; called from the scheduler's AfterTick
type SceneRenderer struct {
	surface   Surface
	shapes    *ShapeRenderer
	log       *zap.Logger
	renderers []rendererEntry
	regCount  int

	ctx FrameContext // reused between frames, holds no state the next frame reads
}

// NewSceneRenderer creates a renderer bound to surface with the built-in scene layers registered
func NewSceneRenderer(surface Surface, log *zap.Logger) *SceneRenderer {
	if log == nil {
		log = zap.NewNop()
	}
	r := &SceneRenderer{
		surface:   surface,
		shapes:    NewShapeRenderer(log.Named("shapes")),
		log:       log,
		renderers: make([]rendererEntry, 0, 8),
	}
	r.Register(gridLayer{}, PriorityGrid)
	r.Register(boundsLayer{}, PriorityBounds)
	r.Register(collidingLayer{}, PriorityColliding)
	r.Register(outlineLayer{}, PriorityOutline)
	r.Register(contactLayer{}, PriorityContacts)
	return r
}

// Register adds a layer at the specified priority. Maintains sorted order via insertion sort
func (r *SceneRenderer) Register(l LayerRenderer, priority RenderPriority) {
	entry := rendererEntry{
		renderer: l,
		priority: priority,
		index:    r.regCount,
	}
	if ss, ok := l.(ScreenSpace); ok {
		entry.screen = ss.ScreenSpace()
	}
	r.regCount++

	// Insertion sort: find position and insert
	pos := len(r.renderers)
	for i, e := range r.renderers {
		if priority < e.priority || (priority == e.priority && entry.index < e.index) {
			pos = i
			break
		}
	}

	r.renderers = append(r.renderers, rendererEntry{})
	copy(r.renderers[pos+1:], r.renderers[pos:])
	r.renderers[pos] = entry
}

// Render clears the surface and draws view under the camera in opts
// Pairs, bounds and grid are queried only when a toggle consumes them
func (r *SceneRenderer) Render(view physics.View, opts Options) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	s := r.surface
	ctx := r.prepare(view, &opts)

	s.Clear()
	s.Save()
	s.Scale(opts.CameraScale, opts.CameraScale)
	s.Translate(opts.CameraPosition.X, opts.CameraPosition.Y)
	r.run(ctx, s, false)
	s.Restore()

	r.run(ctx, s, true)
	return nil
}

// prepare runs the toggle-gated queries into the reused frame context
func (r *SceneRenderer) prepare(view physics.View, opts *Options) *FrameContext {
	ctx := &r.ctx
	ctx.reset()
	ctx.Opts = opts
	ctx.Shapes = r.shapes
	ctx.Width, ctx.Height = r.surface.Size()

	ctx.Bodies = append(ctx.Bodies, view.QueryBodies()...)
	for _, id := range ctx.Bodies {
		ctx.Vertices = append(ctx.Vertices, view.QueryVertices(id))
	}

	if opts.needsPairs() {
		ctx.Pairs = view.QueryPairs()
		if ctx.Colliding == nil {
			ctx.Colliding = make(map[physics.BodyID]struct{}, len(ctx.Pairs)*2)
		}
		for i := range ctx.Pairs {
			ctx.Colliding[ctx.Pairs[i].A] = struct{}{}
			ctx.Colliding[ctx.Pairs[i].B] = struct{}{}
		}
	}

	if opts.Toggles.Bounds {
		for _, id := range ctx.Bodies {
			ctx.Bounds = append(ctx.Bounds, view.QueryBounds(id))
		}
	}

	if opts.Toggles.Grid {
		g := view.QueryGrid()
		ctx.Grid = &g
	}
	return ctx
}

func (r *SceneRenderer) run(ctx *FrameContext, s Surface, screen bool) {
	for _, entry := range r.renderers {
		if entry.screen != screen {
			continue
		}
		// Skip if renderer implements VisibilityToggle and is not visible
		if vt, ok := entry.renderer.(VisibilityToggle); ok && !vt.IsVisible(ctx.Opts) {
			continue
		}
		entry.renderer.Render(ctx, s)
	}
}
