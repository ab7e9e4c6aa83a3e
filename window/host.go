package window

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/lixenwraith/bauview/render"
)

// Painter replays the latest frame onto the canvas
type Painter func(s render.Surface)

// KeyHandler receives every typed character that is not a quit key
type KeyHandler func(r rune)

// ResizeHandler receives the new drawable size in device pixels
type ResizeHandler func(width, height float64)

// Host is an ebiten.Game that delivers refresh callbacks from Update
// RequestFrame must only be called from the game goroutine, which is where scheduler ticks run
type Host struct {
	canvas *Canvas
	log    *zap.Logger
	title  string
	width  int
	height int
	tps    int

	pending []func()
	running []func()
	chars   []rune

	paint    Painter
	onKey    KeyHandler
	onResize ResizeHandler

	lastW, lastH int
	quit         bool
}

type HostOption func(*Host)

// WithPainter sets the frame source drawn on every Draw
func WithPainter(p Painter) HostOption {
	return func(h *Host) { h.paint = p }
}

func WithKeyHandler(k KeyHandler) HostOption {
	return func(h *Host) { h.onKey = k }
}

func WithResizeHandler(r ResizeHandler) HostOption {
	return func(h *Host) { h.onResize = r }
}

func WithLogger(log *zap.Logger) HostOption {
	return func(h *Host) { h.log = log }
}

// WithTitle sets the window caption
func WithTitle(title string) HostOption {
	return func(h *Host) { h.title = title }
}

// NewHost creates a window host of the given size; fps sets the update rate and so the refresh callback rate
func NewHost(width, height, fps int, background render.RGBA, opts ...HostOption) (*Host, error) {
	canvas, err := NewCanvas(background)
	if err != nil {
		return nil, err
	}
	h := &Host{
		canvas: canvas,
		log:    zap.NewNop(),
		title:  "bauview",
		width:  max(width, 1),
		height: max(height, 1),
		tps:    max(fps, 1),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// RequestFrame queues fn for the next update
func (h *Host) RequestFrame(fn func()) {
	h.pending = append(h.pending, fn)
}

// Size returns the last laid out size in device pixels
func (h *Host) Size() (float64, float64) {
	if h.lastW == 0 {
		return float64(h.width), float64(h.height)
	}
	return float64(h.lastW), float64(h.lastH)
}

// Update polls the keyboard then runs the queued callbacks
func (h *Host) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		h.quit = true
	}
	h.chars = ebiten.AppendInputChars(h.chars[:0])
	for _, r := range h.chars {
		h.key(r)
	}
	if h.quit {
		h.log.Info("quit requested")
		return ebiten.Termination
	}
	h.flush()
	return nil
}

// key dispatches one typed character
func (h *Host) key(r rune) {
	if r == 'q' {
		h.quit = true
		return
	}
	if h.onKey != nil {
		h.onKey(r)
	}
}

// flush runs the callbacks queued before this update; those they queue run on the next one
func (h *Host) flush() {
	h.running, h.pending = h.pending, h.running[:0]
	for i, fn := range h.running {
		fn()
		h.running[i] = nil
	}
}

func (h *Host) Draw(screen *ebiten.Image) {
	h.canvas.Bind(screen)
	if h.paint != nil {
		h.paint(h.canvas)
		return
	}
	h.canvas.Clear()
}

// Layout keeps one device pixel per screen pixel and reports size changes
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, ht := max(outsideWidth, 1), max(outsideHeight, 1)
	if w != h.lastW || ht != h.lastH {
		h.lastW, h.lastH = w, ht
		h.log.Debug("window resized", zap.Int("width", w), zap.Int("height", ht))
		if h.onResize != nil {
			h.onResize(float64(w), float64(ht))
		}
	}
	return w, ht
}

// Run opens the window and blocks until it is closed or a quit key is pressed
func (h *Host) Run() error {
	ebiten.SetWindowSize(h.width, h.height)
	ebiten.SetWindowTitle(h.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(h.tps)

	err := ebiten.RunGame(h)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

var _ ebiten.Game = (*Host)(nil)
