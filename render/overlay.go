package render

import (
	"strings"

	"github.com/lixenwraith/bauview/status"
	"github.com/lixenwraith/bauview/vmath"
)

// Overlay panel metrics in device pixels
const (
	overlayMargin     = 8.0
	overlayPadding    = 6.0
	overlayLineHeight = 14.0
	overlayCharWidth  = 7.0
	overlayRadius     = 6.0
)

// StatsOverlay draws diagnostics registry values in a rounded panel, in screen space
type StatsOverlay struct {
	reg      *status.Registry
	prefixes []string
	visible  bool
}

// NewStatsOverlay shows metrics whose key starts with one of prefixes, all metrics when none given
func NewStatsOverlay(reg *status.Registry, visible bool, prefixes ...string) *StatsOverlay {
	return &StatsOverlay{reg: reg, prefixes: prefixes, visible: visible}
}

// SetVisible toggles the panel
func (o *StatsOverlay) SetVisible(v bool) {
	o.visible = v
}

// Toggle flips visibility and returns the new state
func (o *StatsOverlay) Toggle() bool {
	o.visible = !o.visible
	return o.visible
}

func (o *StatsOverlay) IsVisible(*Options) bool { return o.visible && o.reg != nil }

func (o *StatsOverlay) ScreenSpace() bool { return true }

// Lines returns the formatted rows the panel would show
func (o *StatsOverlay) Lines() []string {
	metrics := o.reg.Snapshot()
	lines := make([]string, 0, len(metrics))
	for _, m := range metrics {
		if !o.match(m.Key) {
			continue
		}
		lines = append(lines, m.Key+" "+m.Value)
	}
	return lines
}

func (o *StatsOverlay) match(key string) bool {
	if len(o.prefixes) == 0 {
		return true
	}
	for _, p := range o.prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func (o *StatsOverlay) Render(ctx *FrameContext, s Surface) {
	lines := o.Lines()
	if len(lines) == 0 {
		return
	}
	longest := 0
	for _, l := range lines {
		longest = max(longest, len(l))
	}

	w := float64(longest)*overlayCharWidth + 2*overlayPadding
	h := float64(len(lines))*overlayLineHeight + 2*overlayPadding
	center := vmath.V(overlayMargin+w/2, overlayMargin+h/2)

	pal := &ctx.Opts.Palette
	s.BeginPath()
	if ctx.Shapes.RoundedRect(w, h, center, overlayRadius, s) {
		s.Fill(pal.Panel)
	}
	for i, l := range lines {
		y := overlayMargin + overlayPadding + float64(i)*overlayLineHeight
		s.FillText(l, overlayMargin+overlayPadding, y, AlignTopLeft, pal.PanelText)
	}
}
