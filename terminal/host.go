package terminal

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/bauview/render"
)

var ErrNoScreen = errors.New("terminal host needs a screen")

// Painter replays the latest frame onto the canvas
type Painter func(s render.Surface)

// KeyHandler receives every printable key that is not a quit key
type KeyHandler func(r rune)

// ResizeHandler receives the new drawable size in device pixels
type ResizeHandler func(width, height float64)

// Host drives refresh callbacks from a ticker on its loop goroutine and owns the screen
// RequestFrame must only be called from that goroutine, which is where scheduler ticks run
type Host struct {
	screen  tcell.Screen
	canvas  *Canvas
	log     *zap.Logger
	period  time.Duration
	pending []func()
	running []func()

	paint    Painter
	onKey    KeyHandler
	onResize ResizeHandler
	closed   bool
}

type HostOption func(*Host)

// WithPainter sets the frame source drawn after each refresh
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

// NewHost initializes the screen; fps sets the refresh callback rate
func NewHost(screen tcell.Screen, fps int, background render.RGBA, opts ...HostOption) (*Host, error) {
	if screen == nil {
		return nil, ErrNoScreen
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	screen.Clear()

	h := &Host{
		screen: screen,
		canvas: NewCanvas(screen, background),
		log:    zap.NewNop(),
		period: time.Second / time.Duration(max(fps, 1)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// RequestFrame queues fn for the next refresh
func (h *Host) RequestFrame(fn func()) {
	h.pending = append(h.pending, fn)
}

// Canvas returns the braille canvas frames are painted on
func (h *Host) Canvas() *Canvas { return h.canvas }

// Size returns the drawable size in device pixels
func (h *Host) Size() (float64, float64) { return h.canvas.Size() }

// Refresh runs the queued callbacks, then paints and presents the frame
// Callbacks queued during this refresh run on the next one
func (h *Host) Refresh() {
	h.running, h.pending = h.pending, h.running[:0]
	for i, fn := range h.running {
		fn()
		h.running[i] = nil
	}
	if h.paint != nil {
		h.paint(h.canvas)
	}
	h.canvas.Present()
}

// HandleEvent applies one screen event, returning false on a quit request
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			if ev.Rune() == 'q' {
				return false
			}
			if h.onKey != nil {
				h.onKey(ev.Rune())
			}
		}
	case *tcell.EventResize:
		h.screen.Sync()
		h.canvas.Resize(h.screen.Size())
		w, ht := h.canvas.Size()
		h.log.Debug("terminal resized", zap.Float64("width", w), zap.Float64("height", ht))
		if h.onResize != nil {
			h.onResize(w, ht)
		}
	}
	return true
}

// Run refreshes at the configured rate until a quit key or ctx is done
func (h *Host) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.period)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !h.HandleEvent(ev) {
				h.log.Info("quit requested")
				return nil
			}
		case <-ticker.C:
			h.Refresh()
		}
	}
}

// Close restores the terminal; safe to call more than once
func (h *Host) Close() {
	if h.closed {
		return
	}
	h.closed = true
	h.screen.Fini()
}
