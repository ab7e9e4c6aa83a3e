package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// ClickGenerator is a decaying sine with a faint overtone, one contact cue
// It ends on its own once the envelope is inaudible
type ClickGenerator struct {
	sr     beep.SampleRate
	freq   float64
	gain   float64
	decay  float64 // envelope rate, per second
	pos    int
	length int
}

// NewClickGenerator creates a cue of the given pitch, peak gain and length in samples
func NewClickGenerator(sr beep.SampleRate, freq, gain float64, length int) *ClickGenerator {
	// Envelope reaches 1% of peak at the last sample
	decay := 0.0
	if length > 0 {
		decay = math.Log(100) / (float64(length) / float64(sr))
	}
	return &ClickGenerator{
		sr:     sr,
		freq:   freq,
		gain:   gain,
		decay:  decay,
		length: length,
	}
}

func (g *ClickGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.length {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.length {
			return i, true
		}
		t := float64(g.pos) / float64(g.sr)

		// Short linear attack avoids a pop at onset
		attack := math.Min(t/0.002, 1.0)
		envelope := attack * math.Exp(-t*g.decay)

		sample := 0.8*math.Sin(2*math.Pi*g.freq*t) + 0.2*math.Sin(2*math.Pi*g.freq*2.01*t)
		sample *= envelope * g.gain

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ClickGenerator) Err() error {
	return nil
}
