package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/bauview/physics"
	"github.com/lixenwraith/bauview/status"
)

func pairs(ids ...physics.BodyID) []physics.Pair {
	out := make([]physics.Pair, 0, len(ids)/2)
	for i := 0; i+1 < len(ids); i += 2 {
		out = append(out, physics.Pair{A: ids[i], B: ids[i+1], Depth: 1})
	}
	return out
}

func TestObserveCuesNewPairsOnly(t *testing.T) {
	c := NewContactCues(DefaultCueConfig(), nil, nil)

	steps := []struct {
		name  string
		pairs []physics.Pair
		want  int
	}{
		{"first contact", pairs(1, 2), 1},
		{"persisting", pairs(1, 2), 0},
		{"swapped roles same pair", pairs(2, 1), 0},
		{"one new", pairs(1, 2, 3, 4), 1},
		{"separated", nil, 0},
		{"touch again", pairs(3, 4), 1},
	}

	for _, s := range steps {
		if got := c.Observe(s.pairs); got != s.want {
			t.Errorf("%s: cues = %d, want %d", s.name, got, s.want)
		}
	}
}

func TestObserveVoiceLimit(t *testing.T) {
	reg := status.NewRegistry()
	cfg := DefaultCueConfig()
	cfg.MaxVoices = 2
	c := NewContactCues(cfg, nil, reg)

	if got := c.Observe(pairs(1, 2, 3, 4, 5, 6, 7, 8)); got != 2 {
		t.Errorf("cues = %d, want 2", got)
	}
	if got := reg.Ints.Get("audio.dropped").Load(); got != 2 {
		t.Errorf("dropped = %d, want 2", got)
	}
	if got := reg.Ints.Get("audio.cues").Load(); got != 2 {
		t.Errorf("cues metric = %d, want 2", got)
	}
	// Dropped pairs were still recorded as active
	if got := c.Observe(pairs(1, 2, 3, 4, 5, 6, 7, 8)); got != 0 {
		t.Errorf("repeat cues = %d, want 0", got)
	}
}

func TestObserveQueuesOnMixer(t *testing.T) {
	c := NewContactCues(DefaultCueConfig(), nil, nil)
	// Drive the mixer directly; no speaker is opened
	c.initialized = true

	c.Observe(pairs(1, 2, 3, 4))
	if got := c.mixer.Len(); got != 2 {
		t.Fatalf("mixer streamers = %d, want 2", got)
	}

	// Drain past the cue length; finished generators leave the mixer
	buf := make([][2]float64, 512)
	total := c.sr.N(DefaultCueConfig().Cue) + len(buf)
	for n := 0; n < total; n += len(buf) {
		c.mixer.Stream(buf)
	}
	if got := c.mixer.Len(); got != 0 {
		t.Errorf("mixer streamers after drain = %d, want 0", got)
	}
}

func TestUninitializedIsSilent(t *testing.T) {
	c := NewContactCues(DefaultCueConfig(), nil, nil)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("panicked without initialization: %v", r)
		}
	}()
	c.Observe(pairs(1, 2))
	c.Cleanup()
	if c.mixer.Len() != 0 {
		t.Error("queued a cue without a speaker")
	}
}

func TestToneRisesWithDepth(t *testing.T) {
	c := NewContactCues(CueConfig{ToneHz: 200}, nil, nil)
	tests := []struct {
		depth float64
		want  float64
	}{
		{-5, 200},
		{0, 200},
		{depthOctave / 2, 200 * math.Sqrt2},
		{depthOctave, 400},
		{depthOctave * 10, 400},
	}
	for _, tt := range tests {
		if got := c.Tone(tt.depth); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Tone(%v) = %v, want %v", tt.depth, got, tt.want)
		}
	}
}

func TestClickGenerator(t *testing.T) {
	sr := beep.SampleRate(8000)
	length := sr.N(50 * time.Millisecond)
	g := NewClickGenerator(sr, 440, 0.5, length)

	buf := make([][2]float64, 100)
	streamed, peak, tail := 0, 0.0, 0.0
	for {
		n, ok := g.Stream(buf)
		if !ok {
			break
		}
		for i := 0; i < n; i++ {
			v := math.Abs(buf[i][0])
			if buf[i][0] != buf[i][1] {
				t.Fatalf("sample %d not mono", streamed+i)
			}
			peak = math.Max(peak, v)
			if streamed+i >= length-20 {
				tail = math.Max(tail, v)
			}
		}
		streamed += n
	}

	if streamed != length {
		t.Errorf("streamed %d samples, want %d", streamed, length)
	}
	if peak > 0.5 || peak < 0.1 {
		t.Errorf("peak = %v, want within gain 0.5", peak)
	}
	if tail > peak*0.05 {
		t.Errorf("tail %v not decayed from peak %v", tail, peak)
	}
	if g.Err() != nil {
		t.Errorf("Err() = %v", g.Err())
	}
}
