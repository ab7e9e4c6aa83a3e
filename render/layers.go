package render

import (
	"slices"
	"strconv"

	"github.com/lixenwraith/bauview/vmath"
)

const (
	outlineWidth  = 1.5
	boundsWidth   = 1.0
	contactRadius = 3.0
	normalLength  = 10.0
	normalWidth   = 3.0
	arrowHead     = 4.0
	gridSaturate  = 10.0 // occupancy at which a grid cell is fully opaque
)

// gridLayer fills every occupied broadphase cell, denser cells more opaque
type gridLayer struct{}

func (gridLayer) IsVisible(opts *Options) bool { return opts.Toggles.Grid }

func (gridLayer) Render(ctx *FrameContext, s Surface) {
	g := ctx.Grid
	if g == nil || len(g.Cells) == 0 {
		return
	}
	keys := make([]uint64, 0, len(g.Cells))
	for k := range g.Cells {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	size := g.CellSize
	for _, k := range keys {
		x, y := vmath.UnpackCell(k)
		alpha := min(1, float64(g.Cells[k])/gridSaturate)
		s.FillRect(float64(x)*size, float64(y)*size, size, size, ctx.Opts.Palette.Grid.WithAlpha(alpha))
	}
}

// boundsLayer strokes each body's bounding box
type boundsLayer struct{}

func (boundsLayer) IsVisible(opts *Options) bool { return opts.Toggles.Bounds }

func (boundsLayer) Render(ctx *FrameContext, s Surface) {
	if len(ctx.Bounds) == 0 {
		return
	}
	s.BeginPath()
	for _, b := range ctx.Bounds {
		ctx.Shapes.Polygon([]vmath.Vector2{
			b.Min,
			{X: b.Max.X, Y: b.Min.Y},
			b.Max,
			{X: b.Min.X, Y: b.Max.Y},
		}, s)
	}
	s.Stroke(ctx.Opts.Palette.Bounds, boundsWidth)
}

// collidingLayer fills the silhouettes of bodies that are members of any pair, as one path
type collidingLayer struct{}

func (collidingLayer) IsVisible(opts *Options) bool { return opts.Toggles.Collisions }

func (collidingLayer) Render(ctx *FrameContext, s Surface) {
	if len(ctx.Colliding) == 0 {
		return
	}
	s.BeginPath()
	for i, id := range ctx.Bodies {
		if ctx.IsColliding(id) {
			bodyPath(ctx, ctx.Vertices[i], s)
		}
	}
	s.Fill(ctx.Opts.Palette.Fill)
}

// outlineLayer strokes every body and optionally labels it at its vertex centroid
type outlineLayer struct{}

func (outlineLayer) Render(ctx *FrameContext, s Surface) {
	if len(ctx.Bodies) == 0 {
		return
	}
	s.BeginPath()
	for _, vs := range ctx.Vertices {
		bodyPath(ctx, vs, s)
	}
	s.Stroke(ctx.Opts.Palette.Outline, outlineWidth)

	if !ctx.Opts.Toggles.BodyIDs {
		return
	}
	for i, id := range ctx.Bodies {
		if len(ctx.Vertices[i]) == 0 {
			continue
		}
		c := vmath.Centroid(ctx.Vertices[i])
		s.FillText(strconv.FormatUint(uint64(id), 10), c.X, c.Y, AlignCenter, ctx.Opts.Palette.Label)
	}
}

// bodyPath adds one body outline, rounded when a corner radius is set
func bodyPath(ctx *FrameContext, vs []vmath.Vector2, s Surface) {
	if ctx.Opts.CornerRadius > 0 {
		ctx.Shapes.RoundedPolygon(vs, ctx.Opts.CornerRadius, s)
		return
	}
	ctx.Shapes.Polygon(vs, s)
}

// contactLayer marks contact vertices and draws the normal and tangent from each pair's anchor
type contactLayer struct{}

func (contactLayer) IsVisible(opts *Options) bool { return opts.Toggles.Pairs }

func (contactLayer) Render(ctx *FrameContext, s Surface) {
	pal := &ctx.Opts.Palette
	for i := range ctx.Pairs {
		p := &ctx.Pairs[i]
		if len(p.Contacts) == 0 {
			continue
		}

		for _, c := range p.Contacts {
			s.BeginPath()
			ctx.Shapes.Circle(c.Vertex, contactRadius, s)
			s.Fill(pal.Contact)
		}

		normal := p.Normal.Scale(normalLength)
		tangent := p.Tangent.Scale(normalLength)
		s.BeginPath()
		if ctx.Opts.Toggles.NormalArrows {
			ctx.Shapes.Arrow(p.NormalPoint, normal, arrowHead, s)
			ctx.Shapes.Arrow(p.NormalPoint, tangent, arrowHead, s)
		} else {
			ctx.Shapes.Segment(p.NormalPoint, p.NormalPoint.Add(normal), s)
			ctx.Shapes.Segment(p.NormalPoint, p.NormalPoint.Add(tangent), s)
		}
		s.Stroke(pal.Normal, normalWidth)
	}
}
