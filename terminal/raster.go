package terminal

import (
	"cmp"
	"math"
	"slices"

	"github.com/lixenwraith/bauview/vmath"
)

// Path flattening limits in dots
const (
	flattenStep = 1.5
	maxSegments = 256
)

// subpath is a flattened polyline in dot space
type subpath struct {
	pts    []vmath.Vector2
	closed bool
}

// pathBuilder accumulates flattened device geometry between BeginPath and Fill/Stroke
type pathBuilder struct {
	subs []subpath
}

func (p *pathBuilder) reset() {
	p.subs = p.subs[:0]
}

func (p *pathBuilder) current() *subpath {
	if len(p.subs) == 0 {
		return nil
	}
	return &p.subs[len(p.subs)-1]
}

func (p *pathBuilder) moveTo(pt vmath.Vector2) {
	p.subs = append(p.subs, subpath{pts: []vmath.Vector2{pt}})
}

// lineTo without a current point starts a subpath
func (p *pathBuilder) lineTo(pt vmath.Vector2) {
	cur := p.current()
	if cur == nil || cur.closed {
		p.moveTo(pt)
		return
	}
	cur.pts = append(cur.pts, pt)
}

func (p *pathBuilder) pen() (vmath.Vector2, bool) {
	cur := p.current()
	if cur == nil {
		return vmath.Zero, false
	}
	if cur.closed {
		return cur.pts[0], true
	}
	return cur.pts[len(cur.pts)-1], true
}

// quadTo flattens a quadratic Bezier from the pen, all points already in dot space
func (p *pathBuilder) quadTo(ctrl, end vmath.Vector2) {
	start, ok := p.pen()
	if !ok {
		p.moveTo(ctrl)
		start = ctrl
	}
	n := segments(start.Distance(ctrl) + ctrl.Distance(end))
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		a := start.Lerp(ctrl, t)
		b := ctrl.Lerp(end, t)
		p.lineTo(a.Lerp(b, t))
	}
}

// arc appends points along a circle from start to end; at maps an angle to dot space
// radius is the device radius in dots, used only for the segment count
func (p *pathBuilder) arc(start, end, radius float64, at func(angle float64) vmath.Vector2) {
	sweep := end - start
	n := segments(math.Abs(sweep) * radius)
	for i := 0; i <= n; i++ {
		p.lineTo(at(start + sweep*float64(i)/float64(n)))
	}
}

func (p *pathBuilder) close() {
	if cur := p.current(); cur != nil {
		cur.closed = true
	}
}

func segments(length float64) int {
	n := int(math.Ceil(length / flattenStep))
	return min(max(n, 2), maxSegments)
}

// crossing is one edge intersection on a scanline, dir is the winding contribution
type crossing struct {
	x   float64
	dir int
}

// scanFill calls span for each run of dots inside the polygons under the nonzero winding rule
// Every subpath is treated as closed; dot (x, y) is sampled at its center
func scanFill(polys [][]vmath.Vector2, rows int, span func(y, x0, x1 int)) {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, poly := range polys {
		for _, pt := range poly {
			minY = math.Min(minY, pt.Y)
			maxY = math.Max(maxY, pt.Y)
		}
	}
	if math.IsInf(minY, 1) {
		return
	}
	y0 := max(0, int(math.Floor(minY)))
	y1 := min(rows-1, int(math.Ceil(maxY)))

	var xs []crossing
	for y := y0; y <= y1; y++ {
		sy := float64(y) + 0.5
		xs = xs[:0]
		for _, poly := range polys {
			n := len(poly)
			if n < 3 {
				continue
			}
			for i := 0; i < n; i++ {
				a, b := poly[i], poly[(i+1)%n]
				if a.Y == b.Y {
					continue
				}
				dir := 1
				if a.Y > b.Y {
					a, b = b, a
					dir = -1
				}
				// Half-open so shared vertices count once
				if sy < a.Y || sy >= b.Y {
					continue
				}
				x := a.X + (sy-a.Y)*(b.X-a.X)/(b.Y-a.Y)
				xs = append(xs, crossing{x: x, dir: dir})
			}
		}
		slices.SortFunc(xs, func(a, b crossing) int { return cmp.Compare(a.x, b.x) })

		winding := 0
		for i := 0; i+1 < len(xs); i++ {
			winding += xs[i].dir
			if winding == 0 {
				continue
			}
			// Dots whose centers fall in [xs[i], xs[i+1])
			x0 := int(math.Ceil(xs[i].x - 0.5))
			x1 := int(math.Ceil(xs[i+1].x-0.5)) - 1
			if x1 >= x0 {
				span(y, x0, x1)
			}
		}
	}
}

// line walks the dots between a and b, inclusive
func line(a, b vmath.Vector2, plot func(x, y int)) {
	d := b.Sub(a)
	steps := int(math.Ceil(math.Max(math.Abs(d.X), math.Abs(d.Y))))
	if steps == 0 {
		plot(int(math.Floor(a.X)), int(math.Floor(a.Y)))
		return
	}
	for i := 0; i <= steps; i++ {
		p := a.Lerp(b, float64(i)/float64(steps))
		plot(int(math.Floor(p.X)), int(math.Floor(p.Y)))
	}
}
