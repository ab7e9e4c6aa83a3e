package audio

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/bauview/physics"
	"github.com/lixenwraith/bauview/status"
	"github.com/lixenwraith/bauview/vmath"
)

// depthOctave is the penetration depth that raises a cue by one octave
const depthOctave = 20.0

// CueConfig tunes contact cues
type CueConfig struct {
	SampleRate int
	Volume     float64 // 0..1
	ToneHz     float64
	Cue        time.Duration
	MaxVoices  int // new pairs beyond this many per tick are silent
}

// DefaultCueConfig returns the stock cue settings
func DefaultCueConfig() CueConfig {
	return CueConfig{
		SampleRate: 44100,
		Volume:     0.3,
		ToneHz:     440,
		Cue:        40 * time.Millisecond,
		MaxVoices:  8,
	}
}

// ContactCues plays a short tone whenever a collision pair first appears
// Pairs that persist across ticks stay silent until they separate and touch again
type ContactCues struct {
	mu          sync.Mutex
	cfg         CueConfig
	sr          beep.SampleRate
	mixer       *beep.Mixer
	log         *zap.Logger
	initialized bool

	active map[uint64]struct{}
	next   map[uint64]struct{}

	statCues    *atomic.Int64
	statDropped *atomic.Int64
}

// NewContactCues creates an uninitialized cue player; Observe is a no-op for playback until Initialize
func NewContactCues(cfg CueConfig, log *zap.Logger, reg *status.Registry) *ContactCues {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	d := DefaultCueConfig()
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = d.SampleRate
	}
	if cfg.Cue <= 0 {
		cfg.Cue = d.Cue
	}
	if cfg.MaxVoices <= 0 {
		cfg.MaxVoices = d.MaxVoices
	}
	if cfg.ToneHz <= 0 {
		cfg.ToneHz = d.ToneHz
	}

	return &ContactCues{
		cfg:         cfg,
		sr:          beep.SampleRate(cfg.SampleRate),
		mixer:       &beep.Mixer{},
		log:         log,
		active:      make(map[uint64]struct{}),
		next:        make(map[uint64]struct{}),
		statCues:    reg.Ints.Get("audio.cues"),
		statDropped: reg.Ints.Get("audio.dropped"),
	}
}

// Initialize opens the speaker; safe to call twice
func (c *ContactCues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(c.sr, c.sr.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	c.log.Info("audio initialized", zap.Int("sample_rate", c.cfg.SampleRate))
	return nil
}

// Cleanup silences pending cues
func (c *ContactCues) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// Observe diffs this tick's pairs against the previous tick and cues the new ones, returns the cue count
func (c *ContactCues) Observe(pairs []physics.Pair) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.next)
	var fresh []int
	for i := range pairs {
		key := pairKey(pairs[i].A, pairs[i].B)
		c.next[key] = struct{}{}
		if _, ok := c.active[key]; !ok {
			fresh = append(fresh, i)
		}
	}
	c.active, c.next = c.next, c.active

	played := 0
	for _, i := range fresh {
		if played >= c.cfg.MaxVoices {
			c.statDropped.Add(int64(len(fresh) - played))
			break
		}
		c.play(pairs[i].Depth)
		played++
	}
	if played > 0 {
		c.statCues.Add(int64(played))
	}
	return played
}

// Tone returns the cue pitch for a penetration depth
func (c *ContactCues) Tone(depth float64) float64 {
	return c.cfg.ToneHz * math.Pow(2, math.Min(math.Max(depth, 0)/depthOctave, 1))
}

func (c *ContactCues) play(depth float64) {
	if !c.initialized {
		return
	}
	gen := NewClickGenerator(c.sr, c.Tone(depth), c.cfg.Volume, c.sr.N(c.cfg.Cue))
	speaker.Lock()
	c.mixer.Add(gen)
	speaker.Unlock()
}

// pairKey is order independent
func pairKey(a, b physics.BodyID) uint64 {
	if a > b {
		a, b = b, a
	}
	return vmath.Pair(uint64(a), uint64(b))
}
