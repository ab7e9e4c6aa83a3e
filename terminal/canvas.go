package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/bauview/render"
	"github.com/lixenwraith/bauview/vmath"
)

// Virtual pixel geometry: a cell reports as 8x16 device pixels and holds a 2x4 braille dot grid,
// so one dot covers 4x4 pixels and scenes sized for a window keep their proportions
const (
	CellWidth  = 8
	CellHeight = 16
	dotSize    = 4
	dotsX      = CellWidth / dotSize
	dotsY      = CellHeight / dotSize

	brailleBase = 0x2800
)

// brailleBits maps dot (column, row) within a cell to its braille bit
var brailleBits = [dotsX][dotsY]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Canvas rasterizes render.Surface calls into braille cells and presents them on a tcell screen
// Opaque fills and strokes set dots in the cell foreground; translucent fills tint the cell background
type Canvas struct {
	render.TransformStack

	screen     tcell.Screen
	background render.RGBA
	cols, rows int

	dots   []uint8
	ink    []render.RGBA
	tint   []render.RGBA
	text   []rune
	textFg []render.RGBA

	path pathBuilder
	poly [][]vmath.Vector2
}

// NewCanvas sizes the canvas to the screen
func NewCanvas(screen tcell.Screen, background render.RGBA) *Canvas {
	background.A = 255
	c := &Canvas{
		TransformStack: render.NewTransformStack(),
		screen:         screen,
		background:     background,
	}
	c.Resize(screen.Size())
	return c
}

// Resize reallocates the cell buffers, contents are cleared
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 0), max(rows, 0)
	n := cols * rows
	c.cols, c.rows = cols, rows
	c.dots = make([]uint8, n)
	c.ink = make([]render.RGBA, n)
	c.tint = make([]render.RGBA, n)
	c.text = make([]rune, n)
	c.textFg = make([]render.RGBA, n)
	c.Clear()
}

// Cells returns the grid size in terminal cells
func (c *Canvas) Cells() (cols, rows int) { return c.cols, c.rows }

func (c *Canvas) Size() (float64, float64) {
	return float64(c.cols * CellWidth), float64(c.rows * CellHeight)
}

func (c *Canvas) Clear() {
	clear(c.dots)
	clear(c.text)
	for i := range c.tint {
		c.tint[i] = c.background
	}
	c.path.reset()
}

// toDots maps a user-space point through the transform into dot space
func (c *Canvas) toDots(x, y float64) vmath.Vector2 {
	dx, dy := c.Current().Apply(x, y)
	return vmath.Vector2{X: dx / dotSize, Y: dy / dotSize}
}

func (c *Canvas) BeginPath()          { c.path.reset() }
func (c *Canvas) MoveTo(x, y float64) { c.path.moveTo(c.toDots(x, y)) }
func (c *Canvas) LineTo(x, y float64) { c.path.lineTo(c.toDots(x, y)) }
func (c *Canvas) ClosePath()          { c.path.close() }

func (c *Canvas) QuadTo(cx, cy, x, y float64) {
	c.path.quadTo(c.toDots(cx, cy), c.toDots(x, y))
}

func (c *Canvas) Arc(cx, cy, radius, start, end float64) {
	r := radius * c.Current().LineScale() / dotSize
	c.path.arc(start, end, r, func(a float64) vmath.Vector2 {
		return c.toDots(cx+radius*math.Cos(a), cy+radius*math.Sin(a))
	})
}

func (c *Canvas) Fill(col render.RGBA) {
	c.poly = c.poly[:0]
	for i := range c.path.subs {
		c.poly = append(c.poly, c.path.subs[i].pts)
	}
	c.fillPolys(c.poly, col)
}

func (c *Canvas) Stroke(col render.RGBA, width float64) {
	if col.A == 0 {
		return
	}
	// Stroke width in dots, one dot minimum
	w := max(1, int(math.Round(width*c.Current().LineScale()/dotSize)))
	plot := func(x, y int) {
		for oy := 0; oy < w; oy++ {
			for ox := 0; ox < w; ox++ {
				c.setDot(x+ox-w/2, y+oy-w/2, col)
			}
		}
	}
	for i := range c.path.subs {
		sp := &c.path.subs[i]
		for j := 1; j < len(sp.pts); j++ {
			line(sp.pts[j-1], sp.pts[j], plot)
		}
		if sp.closed && len(sp.pts) > 2 {
			line(sp.pts[len(sp.pts)-1], sp.pts[0], plot)
		}
		if len(sp.pts) == 1 {
			line(sp.pts[0], sp.pts[0], plot)
		}
	}
}

func (c *Canvas) FillRect(x, y, w, h float64, col render.RGBA) {
	rect := []vmath.Vector2{c.toDots(x, y), c.toDots(x+w, y), c.toDots(x+w, y+h), c.toDots(x, y+h)}
	c.fillPolys([][]vmath.Vector2{rect}, col)
}

// FillText writes whole cells; glyphs ignore the transform scale
func (c *Canvas) FillText(s string, x, y float64, align render.TextAlign, col render.RGBA) {
	runes := []rune(s)
	px, py := c.Current().Apply(x, y)
	cx := int(math.Floor(px / CellWidth))
	cy := int(math.Floor(py / CellHeight))
	if align == render.AlignCenter {
		cx -= len(runes) / 2
	}
	if cy < 0 || cy >= c.rows {
		return
	}
	for i, r := range runes {
		tx := cx + i
		if tx < 0 || tx >= c.cols {
			continue
		}
		idx := cy*c.cols + tx
		c.text[idx] = r
		c.textFg[idx] = col
	}
}

func (c *Canvas) fillPolys(polys [][]vmath.Vector2, col render.RGBA) {
	if col.A == 0 {
		return
	}
	if col.Opaque() {
		scanFill(polys, c.rows*dotsY, func(y, x0, x1 int) {
			for x := x0; x <= x1; x++ {
				c.setDot(x, y, col)
			}
		})
		return
	}

	// Translucent: tint each cell once, however many of its dots are covered
	touched := make(map[int]struct{})
	scanFill(polys, c.rows*dotsY, func(y, x0, x1 int) {
		x0, x1 = max(x0, 0), min(x1, c.cols*dotsX-1)
		for x := x0; x <= x1; x++ {
			touched[(y/dotsY)*c.cols+x/dotsX] = struct{}{}
		}
	})
	for idx := range touched {
		c.tint[idx] = col.Over(c.tint[idx])
	}
}

func (c *Canvas) setDot(x, y int, col render.RGBA) {
	if x < 0 || y < 0 || x >= c.cols*dotsX || y >= c.rows*dotsY {
		return
	}
	idx := (y/dotsY)*c.cols + x/dotsX
	c.dots[idx] |= brailleBits[x%dotsX][y%dotsY]
	c.ink[idx] = col.Over(c.tint[idx])
}

// Cell reports the rune and colors Present would draw at (x, y)
func (c *Canvas) Cell(x, y int) (r rune, fg, bg render.RGBA) {
	idx := y*c.cols + x
	bg = c.tint[idx]
	switch {
	case c.text[idx] != 0:
		return c.text[idx], c.textFg[idx].Over(bg), bg
	case c.dots[idx] != 0:
		return rune(brailleBase + int(c.dots[idx])), c.ink[idx], bg
	default:
		return ' ', bg, bg
	}
}

// Present copies the cells to the screen and shows them
func (c *Canvas) Present() {
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			r, fg, bg := c.Cell(x, y)
			style := tcell.StyleDefault.Foreground(tcellColor(fg)).Background(tcellColor(bg))
			c.screen.SetContent(x, y, r, nil, style)
		}
	}
	c.screen.Show()
}

func tcellColor(c render.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

var _ render.Surface = (*Canvas)(nil)
