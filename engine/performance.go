package engine

import (
	"time"

	"go.uber.org/zap"
)

const (
	// HistoryCapacity is the number of samples averaged by the monitor
	HistoryCapacity = 200
	// MaxDelta caps a single frame delta, in seconds
	MaxDelta = 5.0

	initialFPS   = 60.0
	initialDelta = 1.0
)

// PerformanceSample is one recorded frame
type PerformanceSample struct {
	FPS   float64
	Delta float64 // seconds
}

// RollingStats is the monitor's current reading plus the window means
type RollingStats struct {
	FPS      float64
	Delta    float64
	AvgFPS   float64
	AvgDelta float64
	Samples  int
}

// PerformanceMonitor tracks frame timing over a bounded window
// Not safe for concurrent use; owned by the scheduler's loop
type PerformanceMonitor struct {
	clock      TimeProvider
	log        *zap.Logger
	lastUpdate time.Time

	stats RollingStats

	// Ring buffer, head is the next write slot
	ring  [HistoryCapacity]PerformanceSample
	head  int
	count int

	frame uint64
}

// NewPerformanceMonitor starts measuring from the clock's current reading
func NewPerformanceMonitor(clock TimeProvider, log *zap.Logger) *PerformanceMonitor {
	if clock == nil {
		clock = NewMonotonicTimeProvider()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PerformanceMonitor{
		clock:      clock,
		log:        log,
		lastUpdate: clock.Now(),
		stats: RollingStats{
			FPS:      initialFPS,
			Delta:    initialDelta,
			AvgFPS:   initialFPS,
			AvgDelta: initialDelta,
		},
	}
}

// Update records the time since the previous non-degenerate update
// A zero or backwards reading leaves every field untouched
func (p *PerformanceMonitor) Update() {
	now := p.clock.Now()
	elapsed := now.Sub(p.lastUpdate)
	if elapsed <= 0 {
		p.log.Debug("performance sample rejected",
			zap.Duration("elapsed", elapsed),
			zap.Uint64("frame", p.frame),
		)
		return
	}

	delta := min(elapsed.Seconds(), MaxDelta)
	fps := 1 / delta

	p.push(PerformanceSample{FPS: fps, Delta: delta})

	var sumFPS, sumDelta float64
	p.each(func(s PerformanceSample) {
		sumFPS += s.FPS
		sumDelta += s.Delta
	})

	p.stats = RollingStats{
		FPS:      fps,
		Delta:    delta,
		AvgFPS:   sumFPS / float64(p.count),
		AvgDelta: sumDelta / float64(p.count),
		Samples:  p.count,
	}
	p.lastUpdate = now
	p.frame++
}

// push appends s, overwriting the oldest sample once full
func (p *PerformanceMonitor) push(s PerformanceSample) {
	p.ring[p.head] = s
	p.head = (p.head + 1) % HistoryCapacity
	if p.count < HistoryCapacity {
		p.count++
	}
}

// each visits retained samples oldest first
func (p *PerformanceMonitor) each(fn func(PerformanceSample)) {
	start := (p.head - p.count + HistoryCapacity) % HistoryCapacity
	for i := 0; i < p.count; i++ {
		fn(p.ring[(start+i)%HistoryCapacity])
	}
}

// Stats returns the latest reading
func (p *PerformanceMonitor) Stats() RollingStats {
	return p.stats
}

// History returns a copy of the retained samples, oldest first
func (p *PerformanceMonitor) History() []PerformanceSample {
	out := make([]PerformanceSample, 0, p.count)
	p.each(func(s PerformanceSample) {
		out = append(out, s)
	})
	return out
}

// Frame returns the number of recorded samples since construction
func (p *PerformanceMonitor) Frame() uint64 {
	return p.frame
}
