package window

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/lixenwraith/bauview/render"
)

// labelSize is the glyph height in device pixels for FillText
const labelSize = 12

var (
	whiteImage = ebiten.NewImage(3, 3)

	// whiteSubImage is the triangle source; sampling its center avoids edge bleeding
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Canvas implements render.Surface on an ebiten image
// Path points are transformed on entry so the vector path is always in device space
type Canvas struct {
	render.TransformStack

	target     *ebiten.Image
	background render.RGBA
	face       *text.GoTextFace

	path    vector.Path
	vs      []ebiten.Vertex
	is      []uint16
	hasPath bool
}

// NewCanvas loads the label font; Bind must be called before drawing
func NewCanvas(background render.RGBA) (*Canvas, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, err
	}
	return &Canvas{
		TransformStack: render.NewTransformStack(),
		background:     background,
		face:           &text.GoTextFace{Source: src, Size: labelSize},
	}, nil
}

// Bind targets the next frame's image and resets the transform
func (c *Canvas) Bind(target *ebiten.Image) {
	c.target = target
	c.Reset()
	c.BeginPath()
}

func (c *Canvas) Size() (float64, float64) {
	if c.target == nil {
		return 0, 0
	}
	b := c.target.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (c *Canvas) Clear() {
	c.target.Fill(c.background)
	c.BeginPath()
}

func (c *Canvas) device(x, y float64) (float32, float32) {
	dx, dy := c.Current().Apply(x, y)
	return float32(dx), float32(dy)
}

func (c *Canvas) BeginPath() {
	c.path = vector.Path{}
	c.hasPath = false
}

func (c *Canvas) MoveTo(x, y float64) {
	c.path.MoveTo(c.device(x, y))
	c.hasPath = true
}

func (c *Canvas) LineTo(x, y float64) {
	c.path.LineTo(c.device(x, y))
	c.hasPath = true
}

func (c *Canvas) QuadTo(cx, cy, x, y float64) {
	x1, y1 := c.device(cx, cy)
	x2, y2 := c.device(x, y)
	c.path.QuadTo(x1, y1, x2, y2)
	c.hasPath = true
}

func (c *Canvas) Arc(cx, cy, radius, start, end float64) {
	x, y := c.device(cx, cy)
	r := float32(radius * c.Current().LineScale())
	dir := vector.Clockwise
	if end < start {
		dir = vector.CounterClockwise
	}
	c.path.Arc(x, y, r, float32(start), float32(end), dir)
	c.hasPath = true
}

func (c *Canvas) ClosePath() {
	c.path.Close()
}

func (c *Canvas) Fill(col render.RGBA) {
	if !c.hasPath || col.A == 0 {
		return
	}
	c.vs, c.is = c.path.AppendVerticesAndIndicesForFilling(c.vs[:0], c.is[:0])
	c.draw(col, ebiten.FillRuleNonZero)
}

func (c *Canvas) Stroke(col render.RGBA, width float64) {
	if !c.hasPath || col.A == 0 {
		return
	}
	op := &vector.StrokeOptions{
		Width:    float32(width * c.Current().LineScale()),
		LineJoin: vector.LineJoinRound,
		LineCap:  vector.LineCapRound,
	}
	c.vs, c.is = c.path.AppendVerticesAndIndicesForStroke(c.vs[:0], c.is[:0], op)
	c.draw(col, ebiten.FillRuleFillAll)
}

func (c *Canvas) draw(col render.RGBA, rule ebiten.FillRule) {
	r, g, b, a := col.Floats(false)
	for i := range c.vs {
		v := &c.vs[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = r, g, b, a
	}
	c.target.DrawTriangles(c.vs, c.is, whiteSubImage, &ebiten.DrawTrianglesOptions{
		FillRule:  rule,
		AntiAlias: true,
	})
}

func (c *Canvas) FillRect(x, y, w, h float64, col render.RGBA) {
	x0, y0 := c.device(x, y)
	x1, y1 := c.device(x+w, y+h)
	vector.DrawFilledRect(c.target,
		min(x0, x1), min(y0, y1),
		float32(math.Abs(float64(x1-x0))), float32(math.Abs(float64(y1-y0))),
		col, false)
}

// FillText draws at a fixed glyph size regardless of the camera scale
func (c *Canvas) FillText(s string, x, y float64, align render.TextAlign, col render.RGBA) {
	dx, dy := c.Current().Apply(x, y)
	op := &text.DrawOptions{}
	op.GeoM.Translate(dx, dy)
	op.ColorScale.ScaleWithColor(col)
	if align == render.AlignCenter {
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignCenter
	}
	text.Draw(c.target, s, c.face, op)
}

var _ render.Surface = (*Canvas)(nil)
