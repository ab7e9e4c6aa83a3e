package engine

import (
	"sync"
	"time"
)

// PausableClock is a TimeProvider whose time stands still while paused
// Handing it to a FrameScheduler keeps a pause out of the performance window,
// so the first frame after resume is not measured as a stall
type PausableClock struct {
	mu sync.RWMutex

	base TimeProvider

	paused      bool
	pauseStart  time.Time     // base time when the current pause began
	totalPaused time.Duration // completed pauses
}

// NewPausableClock wraps base, the system clock when nil
func NewPausableClock(base TimeProvider) *PausableClock {
	if base == nil {
		base = NewMonotonicTimeProvider()
	}
	return &PausableClock{base: base}
}

// Now returns base time minus all time spent paused
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.paused {
		return pc.pauseStart.Add(-pc.totalPaused)
	}
	return pc.base.Now().Add(-pc.totalPaused)
}

// Pause freezes time, no-op while paused
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.paused {
		return
	}
	pc.paused = true
	pc.pauseStart = pc.base.Now()
}

// Resume continues from the frozen instant, no-op while running
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if !pc.paused {
		return
	}
	pc.paused = false
	pc.totalPaused += pc.base.Now().Sub(pc.pauseStart)
	pc.pauseStart = time.Time{}
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.paused
}

// TotalPauseDuration returns cumulative pause time, the current pause included
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.totalPaused
	if pc.paused {
		total += pc.base.Now().Sub(pc.pauseStart)
	}
	return total
}
