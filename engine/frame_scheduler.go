package engine

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/bauview/status"
)

// ErrFreezeThreshold is returned for a threshold outside (0, 1]
var ErrFreezeThreshold = errors.New("freeze threshold must be in (0, 1]")

// RefreshHost delivers refresh callbacks, one per display refresh
// The scheduler keeps at most one request outstanding
type RefreshHost interface {
	RequestFrame(fn func())
}

// TickerConfig configures a FrameScheduler
type TickerConfig struct {
	Enabled         bool    `toml:"enabled"`          // start running at construction
	PauseOnFreeze   bool    `toml:"pause_on_freeze"`  // skip the physics step on frozen frames
	FreezeThreshold float64 `toml:"freeze_threshold"` // fps/avgFps ratio under which a frame counts as frozen
}

// DefaultTickerConfig returns the stock configuration
func DefaultTickerConfig() TickerConfig {
	return TickerConfig{
		Enabled:         true,
		PauseOnFreeze:   true,
		FreezeThreshold: 0.3,
	}
}

// Validate checks the threshold range
func (c TickerConfig) Validate() error {
	if !(c.FreezeThreshold > 0 && c.FreezeThreshold <= 1) {
		return fmt.Errorf("%w: got %v", ErrFreezeThreshold, c.FreezeThreshold)
	}
	return nil
}

// SchedulerOption customizes a FrameScheduler
type SchedulerOption func(*FrameScheduler)

// WithTimeProvider replaces the monitor's clock
func WithTimeProvider(tp TimeProvider) SchedulerOption {
	return func(fs *FrameScheduler) { fs.clock = tp }
}

// WithLogger sets the diagnostics logger
func WithLogger(log *zap.Logger) SchedulerOption {
	return func(fs *FrameScheduler) { fs.log = log }
}

// WithStatus publishes tick diagnostics into reg
func WithStatus(reg *status.Registry) SchedulerOption {
	return func(fs *FrameScheduler) { fs.statusReg = reg }
}

// FrameScheduler runs a cooperative tick loop on a host's refresh callback
// Single goroutine: Start, Stop, Tick, On and Off must all be called from the host loop
type FrameScheduler struct {
	host    RefreshHost
	cfg     TickerConfig
	clock   TimeProvider
	log     *zap.Logger
	monitor *PerformanceMonitor
	events  eventRegistry

	running bool
	pending bool // a requested callback has not fired yet

	// Cached metric pointers
	statusReg       *status.Registry
	statFPS         *status.AtomicFloat
	statAvgFPS      *status.AtomicFloat
	statDeltaMs     *status.AtomicFloat
	statFreezeRatio *status.AtomicFloat
	statTicks       *atomic.Int64
	statPhysics     *atomic.Int64
	statFrozen      *atomic.Int64
	statRunning     *atomic.Bool
}

// NewFrameScheduler builds a scheduler; an enabled config requests the first frame immediately
func NewFrameScheduler(host RefreshHost, cfg TickerConfig, opts ...SchedulerOption) (*FrameScheduler, error) {
	if host == nil {
		return nil, errors.New("frame scheduler: nil refresh host")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("frame scheduler: %w", err)
	}

	fs := &FrameScheduler{
		host: host,
		cfg:  cfg,
	}
	for _, opt := range opts {
		opt(fs)
	}
	if fs.log == nil {
		fs.log = zap.NewNop()
	}
	if fs.statusReg == nil {
		fs.statusReg = status.NewRegistry()
	}
	fs.monitor = NewPerformanceMonitor(fs.clock, fs.log.Named("perf"))

	fs.statFPS = fs.statusReg.Floats.Get("perf.fps")
	fs.statAvgFPS = fs.statusReg.Floats.Get("perf.avg_fps")
	fs.statDeltaMs = fs.statusReg.Floats.Get("perf.delta_ms")
	fs.statFreezeRatio = fs.statusReg.Floats.Get("perf.freeze_ratio")
	fs.statTicks = fs.statusReg.Ints.Get("scheduler.ticks")
	fs.statPhysics = fs.statusReg.Ints.Get("scheduler.physics_ticks")
	fs.statFrozen = fs.statusReg.Ints.Get("scheduler.frozen")
	fs.statRunning = fs.statusReg.Bools.Get("scheduler.running")

	if cfg.Enabled {
		fs.running = true
		fs.statRunning.Store(true)
		fs.request()
	}
	return fs, nil
}

// Start resumes ticking, no-op while running
func (fs *FrameScheduler) Start() {
	if fs.running {
		return
	}
	fs.running = true
	fs.statRunning.Store(true)
	// A callback requested before Stop may still be queued; it becomes the next live tick
	if !fs.pending {
		fs.request()
	}
	fs.log.Debug("scheduler started")
}

// Stop halts ticking; an already queued callback drains as a no-op
func (fs *FrameScheduler) Stop() {
	if !fs.running {
		return
	}
	fs.running = false
	fs.statRunning.Store(false)
	fs.log.Debug("scheduler stopped")
}

// Running reports the scheduler state
func (fs *FrameScheduler) Running() bool {
	return fs.running
}

// Config returns the configuration with Enabled reflecting the current state
func (fs *FrameScheduler) Config() TickerConfig {
	cfg := fs.cfg
	cfg.Enabled = fs.running
	return cfg
}

// Monitor exposes the performance monitor for read access
func (fs *FrameScheduler) Monitor() *PerformanceMonitor {
	return fs.monitor
}

// Status returns the diagnostics registry the scheduler publishes into
func (fs *FrameScheduler) Status() *status.Registry {
	return fs.statusReg
}

// On subscribes fn to kind; subscribers run in registration order
func (fs *FrameScheduler) On(kind EventKind, fn func()) Subscription {
	if !kind.Valid() {
		fs.log.Warn("subscription to unknown event ignored", zap.Stringer("event", kind))
		return Subscription{}
	}
	if fn == nil {
		fs.log.Warn("nil subscriber ignored", zap.Stringer("event", kind))
		return Subscription{}
	}
	return fs.events.add(kind, fn)
}

// Off removes the subscription, returns false if it was not registered
func (fs *FrameScheduler) Off(sub Subscription) bool {
	return fs.events.remove(sub)
}

// Subscribers returns the number of subscribers for kind
func (fs *FrameScheduler) Subscribers(kind EventKind) int {
	if !kind.Valid() {
		return 0
	}
	return fs.events.count(kind)
}

// Tick runs one frame; it is the callback handed to the host
func (fs *FrameScheduler) Tick() {
	fs.pending = false
	if !fs.running {
		return
	}

	fs.trigger(BeforeTick)

	fs.monitor.Update()
	stats := fs.monitor.Stats()
	ratio := stats.FPS / math.Max(1, stats.AvgFPS)

	if fs.cfg.PauseOnFreeze && ratio < fs.cfg.FreezeThreshold {
		fs.statFrozen.Add(1)
		fs.log.Debug("frame frozen, physics step skipped",
			zap.Float64("fps", stats.FPS),
			zap.Float64("avg_fps", stats.AvgFPS),
			zap.Float64("ratio", ratio),
		)
	} else {
		fs.trigger(PhysicsTick)
		fs.statPhysics.Add(1)
	}

	fs.trigger(AfterTick)

	fs.statTicks.Add(1)
	fs.statFPS.Store(stats.FPS)
	fs.statAvgFPS.Store(stats.AvgFPS)
	fs.statDeltaMs.Store(stats.Delta * 1000)
	fs.statFreezeRatio.Store(ratio)

	// A subscriber may have stopped the scheduler, or restarted it and already requested
	if fs.running && !fs.pending {
		fs.request()
	}
}

func (fs *FrameScheduler) trigger(kind EventKind) {
	for _, s := range fs.events.snapshot(kind) {
		s.fn()
	}
}

func (fs *FrameScheduler) request() {
	fs.pending = true
	fs.host.RequestFrame(fs.Tick)
}
