package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/bauview/audio"
	"github.com/lixenwraith/bauview/config"
	"github.com/lixenwraith/bauview/engine"
	"github.com/lixenwraith/bauview/physics"
	"github.com/lixenwraith/bauview/render"
	"github.com/lixenwraith/bauview/scene"
	"github.com/lixenwraith/bauview/status"
)

// Camera steps for the zoom keys
const (
	zoomStep = 1.25
	minZoom  = 0.1
	maxZoom  = 10
)

// harness owns one world and the per-frame pipeline: step, render into a display list, cue contacts
// All methods run on the host loop goroutine
type harness struct {
	log     *zap.Logger
	reg     *status.Registry
	world   *physics.World
	sched   *engine.FrameScheduler
	clock   *engine.PausableClock
	scene   *render.SceneRenderer
	frame   *render.DisplayList
	overlay *render.StatsOverlay
	cues    *audio.ContactCues
	opts    render.Options
	subs    []engine.Subscription

	statScene   *status.AtomicString
	statRenders *status.AtomicFloat
}

// newHarness builds the world from spec and subscribes the pipeline to a scheduler on host
// width and height are the host's initial drawable size in device pixels
func newHarness(cfg *config.Config, spec *scene.Spec, host engine.RefreshHost, width, height float64, log *zap.Logger, reg *status.Registry) (*harness, error) {
	h := &harness{
		log:   log,
		reg:   reg,
		opts:  cfg.Render.Options(),
		frame: render.NewDisplayList(width, height),
		clock: engine.NewPausableClock(nil),
	}

	h.world = physics.NewWorld(cfg.Physics,
		physics.WithLogger(log.Named("physics")),
		physics.WithStatus(reg),
	)
	if _, err := scene.Populate(h.world, spec, log.Named("scene")); err != nil {
		h.world.Release()
		return nil, fmt.Errorf("populate scene %q: %w", spec.Name, err)
	}

	h.scene = render.NewSceneRenderer(h.frame, log.Named("render"))
	h.overlay = render.NewStatsOverlay(reg, cfg.Render.Overlay, cfg.Render.OverlayKeys...)
	h.scene.Register(h.overlay, render.PriorityOverlay)

	if cfg.Audio.Enabled {
		h.cues = audio.NewContactCues(audio.CueConfig{
			SampleRate: cfg.Audio.SampleRate,
			Volume:     cfg.Audio.Volume,
			ToneHz:     cfg.Audio.ToneHz,
			Cue:        time.Duration(cfg.Audio.CueMs) * time.Millisecond,
			MaxVoices:  cfg.Audio.MaxVoices,
		}, log.Named("audio"), reg)
		if err := h.cues.Initialize(); err != nil {
			// Continue silently, the cues still count pairs
			log.Warn("audio unavailable", zap.Error(err))
		}
	}

	h.statScene = reg.Strings.Get("harness.scene")
	h.statScene.Store(spec.Name)
	h.statRenders = reg.Floats.Get("harness.render_ms")

	sched, err := engine.NewFrameScheduler(host, cfg.Ticker,
		engine.WithTimeProvider(h.clock),
		engine.WithLogger(log.Named("scheduler")),
		engine.WithStatus(reg),
	)
	if err != nil {
		h.close()
		return nil, err
	}
	h.sched = sched
	h.subs = append(h.subs,
		sched.On(engine.PhysicsTick, h.world.Step),
		sched.On(engine.AfterTick, h.renderFrame),
		sched.On(engine.AfterTick, h.cueContacts),
	)

	log.Info("harness ready",
		zap.String("scene", spec.Name),
		zap.Int("bodies", len(spec.Bodies)),
		zap.Bool("running", sched.Running()),
	)
	return h, nil
}

// renderFrame records the current world state into the display list
func (h *harness) renderFrame() {
	start := time.Now()
	h.frame.Reset()
	if err := h.scene.Render(h.world, h.opts); err != nil {
		h.log.Error("render failed", zap.Error(err))
		return
	}
	h.statRenders.Store(float64(time.Since(start).Microseconds()) / 1000)
}

func (h *harness) cueContacts() {
	if h.cues == nil {
		return
	}
	h.cues.Observe(h.world.QueryPairs())
}

// paint replays the latest frame onto a host surface
func (h *harness) paint(s render.Surface) {
	h.frame.Replay(s)
}

// resize updates the size the next frame is rendered for
func (h *harness) resize(width, height float64) {
	h.frame.SetSize(width, height)
	if !h.sched.Running() {
		h.renderFrame()
	}
}

// handleKey applies one keyboard command, returning false for unbound keys
// While paused the frame is re-rendered so toggles show immediately
func (h *harness) handleKey(r rune) bool {
	t := &h.opts.Toggles
	switch r {
	case 'g':
		t.Grid = !t.Grid
	case 'b':
		t.Bounds = !t.Bounds
	case 'p':
		t.Pairs = !t.Pairs
	case 'c':
		t.Collisions = !t.Collisions
	case 'i':
		t.BodyIDs = !t.BodyIDs
	case 'a':
		t.NormalArrows = !t.NormalArrows
	case 'o':
		h.overlay.Toggle()
	case '+', '=':
		h.zoom(min(h.opts.CameraScale*zoomStep, maxZoom))
	case '-':
		h.zoom(max(h.opts.CameraScale/zoomStep, minZoom))
	case ' ':
		if h.sched.Running() {
			h.sched.Stop()
			h.clock.Pause()
		} else {
			h.clock.Resume()
			h.sched.Start()
		}
		h.log.Info("pause toggled", zap.Bool("running", h.sched.Running()))
		return true
	case 'n':
		// Single step while paused
		if h.sched.Running() {
			return true
		}
		h.world.Step()
		h.cueContacts()
	default:
		return false
	}
	if !h.sched.Running() {
		h.renderFrame()
	}
	return true
}

// zoom rescales the camera about the centre of the frame
func (h *harness) zoom(scale float64) {
	w, ht := h.frame.Size()
	h.opts.ZoomAround(scale, w/2, ht/2)
}

// close stops ticking and releases the world; safe to call more than once
func (h *harness) close() {
	if h.sched != nil {
		for _, sub := range h.subs {
			h.sched.Off(sub)
		}
		h.subs = nil
		h.sched.Stop()
	}
	if h.cues != nil {
		h.cues.Cleanup()
		h.cues = nil
	}
	if h.world != nil {
		h.world.Release()
		h.world = nil
	}
}
