package render

// Surface is a canvas-like 2D drawing target
// Path commands accumulate until Fill or Stroke; Save and Restore bracket transform changes
// Coordinates pass through the current transform; stroke widths are in the same user space
type Surface interface {
	// Size returns the drawable area in device units
	Size() (width, height float64)
	// Clear resets every pixel to the background and drops the current path
	Clear()

	Save()
	Restore()
	Scale(sx, sy float64)
	Translate(dx, dy float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	// Arc adds a circular arc from angle start to end, radians, clockwise in screen space
	Arc(cx, cy, radius, start, end float64)
	ClosePath()

	Fill(c RGBA)
	Stroke(c RGBA, width float64)

	FillRect(x, y, w, h float64, c RGBA)
	// FillText draws s anchored at (x, y); glyph size is in device pixels and ignores scale
	FillText(s string, x, y float64, align TextAlign, c RGBA)
}

// TextAlign selects the FillText anchor
type TextAlign uint8

const (
	AlignTopLeft TextAlign = iota // (x, y) is the top-left of the text box
	AlignCenter                   // (x, y) is the center of the text box
)
