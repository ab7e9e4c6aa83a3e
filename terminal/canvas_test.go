package terminal

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/bauview/render"
)

func newTestCanvas(t *testing.T, cols, rows int) (*Canvas, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)
	return NewCanvas(screen, render.Black), screen
}

func TestCanvasSize(t *testing.T) {
	c, _ := newTestCanvas(t, 20, 10)
	w, h := c.Size()
	if w != 160 || h != 160 {
		t.Errorf("Size() = %vx%v, want 160x160", w, h)
	}
	if cols, rows := c.Cells(); cols != 20 || rows != 10 {
		t.Errorf("Cells() = %dx%d", cols, rows)
	}
}

func TestCanvasStrokeLine(t *testing.T) {
	c, _ := newTestCanvas(t, 20, 10)

	// 15px along the top dot row spans dots 0..3, two cells
	c.BeginPath()
	c.MoveTo(0, 2)
	c.LineTo(15, 2)
	c.Stroke(render.White, 1)

	tests := []struct {
		x, y int
		want rune
	}{
		{0, 0, 0x2809},
		{1, 0, 0x2809},
		{2, 0, ' '},
		{0, 1, ' '},
	}
	for _, tt := range tests {
		if r, _, _ := c.Cell(tt.x, tt.y); r != tt.want {
			t.Errorf("cell (%d,%d) = %U, want %U", tt.x, tt.y, r, tt.want)
		}
	}
	if _, fg, _ := c.Cell(0, 0); fg != render.White {
		t.Errorf("ink = %+v, want white", fg)
	}
}

func TestCanvasOpaqueFill(t *testing.T) {
	c, _ := newTestCanvas(t, 20, 10)

	c.BeginPath()
	c.MoveTo(0, 0)
	c.LineTo(16, 0)
	c.LineTo(16, 16)
	c.LineTo(0, 16)
	c.ClosePath()
	c.Fill(render.White)

	for x := 0; x < 2; x++ {
		if r, _, _ := c.Cell(x, 0); r != 0x28FF {
			t.Errorf("cell (%d,0) = %U, want full braille", x, r)
		}
	}
	if r, _, _ := c.Cell(2, 0); r != ' ' {
		t.Errorf("cell (2,0) = %U, want blank", r)
	}
}

func TestCanvasTranslucentFillTints(t *testing.T) {
	c, _ := newTestCanvas(t, 20, 10)
	red := render.RGBA{R: 255, A: 128}

	c.FillRect(0, 0, 8, 16, red)

	r, _, bg := c.Cell(0, 0)
	if r != ' ' {
		t.Errorf("tinted cell rune = %U, want blank", r)
	}
	if want := red.Over(render.Black); bg != want {
		t.Errorf("bg = %+v, want %+v", bg, want)
	}
	if _, _, bg := c.Cell(1, 0); bg != render.Black {
		t.Errorf("neighbour bg = %+v, want background", bg)
	}
}

func TestCanvasTransform(t *testing.T) {
	c, _ := newTestCanvas(t, 20, 10)

	c.Save()
	c.Scale(2, 2)
	c.Translate(8, 0)
	// User (0,1) maps to device (16,2), dot (4,0), cell 2
	c.BeginPath()
	c.MoveTo(0, 1)
	c.LineTo(0, 1)
	c.Stroke(render.White, 0.5)
	c.Restore()

	if r, _, _ := c.Cell(2, 0); r != 0x2801 {
		t.Errorf("cell (2,0) = %U, want %U", r, rune(0x2801))
	}
	if c.Depth() != 0 {
		t.Errorf("depth = %d after Restore", c.Depth())
	}
}

func TestCanvasFillText(t *testing.T) {
	c, _ := newTestCanvas(t, 20, 10)

	c.FillText("abc", 40, 20, render.AlignCenter, render.White)
	c.FillText("zz", 0, 0, render.AlignTopLeft, render.White)

	want := map[[2]int]rune{{4, 1}: 'a', {5, 1}: 'b', {6, 1}: 'c', {0, 0}: 'z', {1, 0}: 'z'}
	for pos, r := range want {
		if got, _, _ := c.Cell(pos[0], pos[1]); got != r {
			t.Errorf("cell %v = %q, want %q", pos, got, r)
		}
	}

	// Off-screen text is clipped without panicking
	c.FillText("clipped", -100, 500, render.AlignTopLeft, render.White)
}

func TestCanvasClear(t *testing.T) {
	c, _ := newTestCanvas(t, 4, 2)
	c.FillRect(0, 0, 32, 32, render.White)
	c.FillText("x", 0, 0, render.AlignTopLeft, render.White)
	c.Clear()

	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if r, _, bg := c.Cell(x, y); r != ' ' || bg != render.Black {
				t.Errorf("cell (%d,%d) = %q on %+v after Clear", x, y, r, bg)
			}
		}
	}
}

func TestCanvasPresent(t *testing.T) {
	c, screen := newTestCanvas(t, 6, 3)

	c.BeginPath()
	c.MoveTo(0, 0)
	c.LineTo(16, 0)
	c.LineTo(16, 16)
	c.LineTo(0, 16)
	c.Fill(render.White)
	c.Present()

	r, _, _, _ := screen.GetContent(0, 0)
	if r != 0x28FF {
		t.Errorf("screen (0,0) = %U, want full braille", r)
	}
	r, _, _, _ = screen.GetContent(3, 0)
	if r != ' ' {
		t.Errorf("screen (3,0) = %U, want blank", r)
	}
}

func TestCanvasReplaysDisplayList(t *testing.T) {
	c, _ := newTestCanvas(t, 20, 10)

	d := render.NewDisplayList(c.Size())
	d.Clear()
	d.BeginPath()
	d.MoveTo(8, 8)
	d.Arc(8, 8, 6, 0, 6.283185307179586)
	d.Fill(render.White)
	d.Replay(c)

	if r, _, _ := c.Cell(1, 0); r == ' ' {
		t.Error("arc fill left its center cell blank")
	}
	if r, _, _ := c.Cell(5, 5); r != ' ' {
		t.Errorf("far cell = %U, want blank", r)
	}
}
