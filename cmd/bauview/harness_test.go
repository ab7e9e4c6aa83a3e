package main

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/bauview/config"
	"github.com/lixenwraith/bauview/physics"
	"github.com/lixenwraith/bauview/render"
	"github.com/lixenwraith/bauview/scene"
	"github.com/lixenwraith/bauview/status"
)

type fakeHost struct {
	queue []func()
}

func (h *fakeHost) RequestFrame(fn func()) {
	h.queue = append(h.queue, fn)
}

func (h *fakeHost) fire() bool {
	if len(h.queue) == 0 {
		return false
	}
	fn := h.queue[0]
	h.queue = h.queue[1:]
	fn()
	return true
}

func newTestHarness(t *testing.T) (*harness, *fakeHost, *status.Registry) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Ticker.PauseOnFreeze = false
	host := &fakeHost{}
	reg := status.NewRegistry()
	h, err := newHarness(cfg, scene.Default(), host, 1280, 720, zap.NewNop(), reg)
	if err != nil {
		t.Fatalf("newHarness: %v", err)
	}
	t.Cleanup(h.close)
	return h, host, reg
}

func TestHarnessTickStepsAndRenders(t *testing.T) {
	h, host, reg := newTestHarness(t)

	if len(host.queue) != 1 {
		t.Fatalf("queued requests = %d, want 1 from an enabled ticker", len(host.queue))
	}
	for i := 0; i < 3; i++ {
		if !host.fire() {
			t.Fatalf("tick %d: nothing queued", i)
		}
	}

	if got := h.world.Frame(); got != 3 {
		t.Errorf("world frame = %d, want 3", got)
	}
	if got := reg.Ints.Get("scheduler.ticks").Load(); got != 3 {
		t.Errorf("scheduler.ticks = %d, want 3", got)
	}
	if got := reg.Strings.Get("harness.scene").Load(); got != "demo" {
		t.Errorf("harness.scene = %q, want demo", got)
	}
	if h.frame.Count(render.OpClear) != 1 {
		t.Errorf("frame holds %d clears, want exactly one frame", h.frame.Count(render.OpClear))
	}
	if h.frame.Count(render.OpFillText) == 0 {
		t.Error("overlay text missing from frame")
	}
}

func TestHarnessPausedKeysRerender(t *testing.T) {
	h, host, _ := newTestHarness(t)
	host.fire()

	if !h.handleKey(' ') {
		t.Fatal("space not handled")
	}
	if h.sched.Running() || !h.clock.IsPaused() {
		t.Fatal("space did not pause the scheduler and its clock")
	}
	// The queued tick drains as a no-op
	host.fire()
	frame := h.world.Frame()

	h.frame.Reset()
	h.handleKey('g')
	if !h.opts.Toggles.Grid {
		t.Error("g did not enable the grid")
	}
	if h.frame.Len() == 0 {
		t.Error("toggle while paused did not re-render")
	}

	h.handleKey('n')
	if got := h.world.Frame(); got != frame+1 {
		t.Errorf("single step frame = %d, want %d", got, frame+1)
	}

	h.handleKey(' ')
	if !h.sched.Running() || h.clock.IsPaused() || len(host.queue) != 1 {
		t.Errorf("resume: running=%v queued=%d", h.sched.Running(), len(host.queue))
	}
}

func TestHarnessKeys(t *testing.T) {
	h, _, _ := newTestHarness(t)

	tests := []struct {
		key   rune
		check func() bool
	}{
		{'b', func() bool { return h.opts.Toggles.Bounds }},
		{'p', func() bool { return !h.opts.Toggles.Pairs }},
		{'c', func() bool { return !h.opts.Toggles.Collisions }},
		{'i', func() bool { return h.opts.Toggles.BodyIDs }},
		{'a', func() bool { return h.opts.Toggles.NormalArrows }},
		{'o', func() bool { return !h.overlay.IsVisible(nil) }},
		{'+', func() bool { return h.opts.CameraScale == zoomStep }},
		{'-', func() bool { return h.opts.CameraScale == 1 }},
	}
	for _, tt := range tests {
		if !h.handleKey(tt.key) {
			t.Errorf("key %q not handled", tt.key)
			continue
		}
		if !tt.check() {
			t.Errorf("key %q had no effect", tt.key)
		}
	}

	if h.handleKey('z') {
		t.Error("unbound key reported handled")
	}

	for i := 0; i < 50; i++ {
		h.handleKey('-')
	}
	if h.opts.CameraScale != minZoom {
		t.Errorf("zoom out clamps at %v, got %v", minZoom, h.opts.CameraScale)
	}
}

func TestHarnessZoomKeepsCentre(t *testing.T) {
	h, _, _ := newTestHarness(t)
	centre := h.opts.ScreenToWorld(640, 360)

	for _, key := range []rune{'+', '+', '-', '='} {
		h.handleKey(key)
		got := h.opts.ScreenToWorld(640, 360)
		if math.Abs(got.X-centre.X) > 1e-9 || math.Abs(got.Y-centre.Y) > 1e-9 {
			t.Fatalf("after %q centre maps to %v, want %v", key, got, centre)
		}
	}
	if want := zoomStep * zoomStep; math.Abs(h.opts.CameraScale-want) > 1e-12 {
		t.Errorf("scale = %v, want %v", h.opts.CameraScale, want)
	}
}

func TestHarnessPopulateFailure(t *testing.T) {
	cfg := config.Defaults()
	cfg.Physics.MaxBodies = 1
	host := &fakeHost{}

	_, err := newHarness(cfg, scene.Default(), host, 1280, 720, zap.NewNop(), status.NewRegistry())
	if !errors.Is(err, physics.ErrBodyLimit) {
		t.Fatalf("err = %v, want ErrBodyLimit", err)
	}
	if len(host.queue) != 0 {
		t.Errorf("failed harness queued %d frames", len(host.queue))
	}
}

func TestHarnessCloseTwice(t *testing.T) {
	h, host, _ := newTestHarness(t)
	h.close()
	h.close()
	// A tick queued before close is a no-op
	host.fire()
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig("", config.BackendTerminal, "scenes/stack.yaml")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Host.Backend != config.BackendTerminal || cfg.Scene.File != "scenes/stack.yaml" {
		t.Errorf("overrides not applied: %+v %+v", cfg.Host, cfg.Scene)
	}

	if _, err := loadConfig("", "svga", ""); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("bad backend err = %v, want ErrInvalid", err)
	}
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger(config.LoggingConfig{Level: "debug", Format: "console"}, true)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("terminal backend without a file should discard logs")
	}

	path := filepath.Join(t.TempDir(), "bauview.log")
	log, err = newLogger(config.LoggingConfig{Level: "warn", Format: "json", File: path}, true)
	if err != nil {
		t.Fatalf("newLogger with file: %v", err)
	}
	log.Info("hidden")
	log.Warn("visible")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "visible") || strings.Contains(string(data), "hidden") {
		t.Errorf("log file = %q", data)
	}
}
