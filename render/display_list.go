package render

import "fmt"

// Op identifies a recorded Surface call
type Op uint8

const (
	OpClear Op = iota
	OpSave
	OpRestore
	OpScale
	OpTranslate
	OpBeginPath
	OpMoveTo
	OpLineTo
	OpQuadTo
	OpArc
	OpClosePath
	OpFill
	OpStroke
	OpFillRect
	OpFillText
)

var opNames = [...]string{
	OpClear:     "clear",
	OpSave:      "save",
	OpRestore:   "restore",
	OpScale:     "scale",
	OpTranslate: "translate",
	OpBeginPath: "beginPath",
	OpMoveTo:    "moveTo",
	OpLineTo:    "lineTo",
	OpQuadTo:    "quadTo",
	OpArc:       "arc",
	OpClosePath: "closePath",
	OpFill:      "fill",
	OpStroke:    "stroke",
	OpFillRect:  "fillRect",
	OpFillText:  "fillText",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Command is one recorded call; unused Args are zero
type Command struct {
	Op    Op
	Args  [5]float64
	Color RGBA
	Text  string
}

// DisplayList is a Surface that records calls for later replay
// The host renders into it from the tick loop and replays it onto the native surface when drawing
type DisplayList struct {
	width, height float64
	cmds          []Command
}

// NewDisplayList creates an empty list reporting the given size
func NewDisplayList(width, height float64) *DisplayList {
	return &DisplayList{width: width, height: height, cmds: make([]Command, 0, 256)}
}

// SetSize updates the size reported to renderers
func (d *DisplayList) SetSize(width, height float64) {
	d.width, d.height = width, height
}

// Commands returns the recorded calls; the slice is owned by the list until the next Reset
func (d *DisplayList) Commands() []Command {
	return d.cmds
}

// Len returns the number of recorded calls
func (d *DisplayList) Len() int {
	return len(d.cmds)
}

// Reset drops all recorded calls, keeping capacity
func (d *DisplayList) Reset() {
	d.cmds = d.cmds[:0]
}

// Replay issues every recorded call on dst in order
func (d *DisplayList) Replay(dst Surface) {
	for i := range d.cmds {
		c := &d.cmds[i]
		a := &c.Args
		switch c.Op {
		case OpClear:
			dst.Clear()
		case OpSave:
			dst.Save()
		case OpRestore:
			dst.Restore()
		case OpScale:
			dst.Scale(a[0], a[1])
		case OpTranslate:
			dst.Translate(a[0], a[1])
		case OpBeginPath:
			dst.BeginPath()
		case OpMoveTo:
			dst.MoveTo(a[0], a[1])
		case OpLineTo:
			dst.LineTo(a[0], a[1])
		case OpQuadTo:
			dst.QuadTo(a[0], a[1], a[2], a[3])
		case OpArc:
			dst.Arc(a[0], a[1], a[2], a[3], a[4])
		case OpClosePath:
			dst.ClosePath()
		case OpFill:
			dst.Fill(c.Color)
		case OpStroke:
			dst.Stroke(c.Color, a[0])
		case OpFillRect:
			dst.FillRect(a[0], a[1], a[2], a[3], c.Color)
		case OpFillText:
			dst.FillText(c.Text, a[0], a[1], TextAlign(a[2]), c.Color)
		}
	}
}

// Count returns how many recorded calls have op
func (d *DisplayList) Count(op Op) int {
	n := 0
	for i := range d.cmds {
		if d.cmds[i].Op == op {
			n++
		}
	}
	return n
}

func (d *DisplayList) push(op Op, args ...float64) {
	c := Command{Op: op}
	copy(c.Args[:], args)
	d.cmds = append(d.cmds, c)
}

// Surface implementation

func (d *DisplayList) Size() (float64, float64) { return d.width, d.height }
func (d *DisplayList) Clear()                    { d.push(OpClear) }
func (d *DisplayList) Save()                     { d.push(OpSave) }
func (d *DisplayList) Restore()                  { d.push(OpRestore) }
func (d *DisplayList) Scale(sx, sy float64)      { d.push(OpScale, sx, sy) }
func (d *DisplayList) Translate(dx, dy float64)  { d.push(OpTranslate, dx, dy) }
func (d *DisplayList) BeginPath()                { d.push(OpBeginPath) }
func (d *DisplayList) MoveTo(x, y float64)       { d.push(OpMoveTo, x, y) }
func (d *DisplayList) LineTo(x, y float64)       { d.push(OpLineTo, x, y) }
func (d *DisplayList) ClosePath()                { d.push(OpClosePath) }

func (d *DisplayList) QuadTo(cx, cy, x, y float64) {
	d.push(OpQuadTo, cx, cy, x, y)
}

func (d *DisplayList) Arc(cx, cy, radius, start, end float64) {
	d.push(OpArc, cx, cy, radius, start, end)
}

func (d *DisplayList) Fill(c RGBA) {
	d.cmds = append(d.cmds, Command{Op: OpFill, Color: c})
}

func (d *DisplayList) Stroke(c RGBA, width float64) {
	d.cmds = append(d.cmds, Command{Op: OpStroke, Args: [5]float64{width}, Color: c})
}

func (d *DisplayList) FillRect(x, y, w, h float64, c RGBA) {
	d.cmds = append(d.cmds, Command{Op: OpFillRect, Args: [5]float64{x, y, w, h}, Color: c})
}

func (d *DisplayList) FillText(s string, x, y float64, align TextAlign, c RGBA) {
	d.cmds = append(d.cmds, Command{Op: OpFillText, Args: [5]float64{x, y, float64(align)}, Color: c, Text: s})
}

var _ Surface = (*DisplayList)(nil)
