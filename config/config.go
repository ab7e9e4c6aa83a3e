package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/bauview/engine"
	"github.com/lixenwraith/bauview/physics"
	"github.com/lixenwraith/bauview/render"
	"github.com/lixenwraith/bauview/vmath"
)

var (
	ErrInvalid    = errors.New("invalid config")
	ErrUnknownKey = errors.New("unknown config key")
)

// Backend names accepted by host.backend
const (
	BackendWindow   = "window"
	BackendTerminal = "terminal"
)

type Config struct {
	Logging LoggingConfig       `toml:"logging"`
	Ticker  engine.TickerConfig `toml:"ticker"`
	Render  RenderConfig        `toml:"render"`
	Physics physics.WorldConfig `toml:"physics"`
	Scene   SceneConfig         `toml:"scene"`
	Host    HostConfig          `toml:"host"`
	Audio   AudioConfig         `toml:"audio"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty logs to stderr
}

type RenderConfig struct {
	Camera       vmath.Vector2  `toml:"camera"`
	Scale        float64        `toml:"scale"`
	CornerRadius float64        `toml:"corner_radius"`
	Overlay      bool           `toml:"overlay"`
	OverlayKeys  []string       `toml:"overlay_keys"` // metric key prefixes, empty shows all
	Toggles      render.Toggles `toml:"toggles"`
	Palette      render.Palette `toml:"palette"`
}

// Options converts the section into per-frame render options
func (r RenderConfig) Options() render.Options {
	return render.Options{
		CameraPosition: r.Camera,
		CameraScale:    r.Scale,
		CornerRadius:   r.CornerRadius,
		Toggles:        r.Toggles,
		Palette:        r.Palette,
	}
}

type SceneConfig struct {
	File string `toml:"file"` // .yaml, .yml or .lua; empty loads the demo scene
}

type HostConfig struct {
	Backend string `toml:"backend"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Title   string `toml:"title"`
	FPS     int    `toml:"fps"` // refresh callback rate
}

type AudioConfig struct {
	Enabled    bool    `toml:"enabled"`
	SampleRate int     `toml:"sample_rate"`
	Volume     float64 `toml:"volume"`     // 0..1
	ToneHz     float64 `toml:"tone_hz"`    // base pitch, raised by penetration depth
	CueMs      int     `toml:"cue_ms"`     // length of one cue
	MaxVoices  int     `toml:"max_voices"` // concurrent cues, extra pairs are dropped
}

// Defaults returns the stock configuration
func Defaults() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Ticker:  engine.DefaultTickerConfig(),
		Physics: physics.DefaultWorldConfig(),
		Render: RenderConfig{
			Camera:  vmath.V(0, 0),
			Scale:   1,
			Overlay: true,
			OverlayKeys: []string{
				"perf.", "scheduler.", "physics.",
			},
			Toggles: render.Toggles{
				Collisions: true,
				Pairs:      true,
			},
			Palette: render.DefaultPalette(),
		},
		Host: HostConfig{
			Backend: BackendWindow,
			Width:   1280,
			Height:  720,
			Title:   "bauview",
			FPS:     30,
		},
		Audio: AudioConfig{
			Enabled:    false,
			SampleRate: 44100,
			Volume:     0.3,
			ToneHz:     440,
			CueMs:      40,
			MaxVoices:  8,
		},
	}
}

// Load reads path over Defaults and validates the result, an empty path returns the defaults
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.decode(string(data)); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML text over Defaults and validates it
func Parse(text string) (*Config, error) {
	cfg := Defaults()
	if err := cfg.decode(text); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(text string) error {
	md, err := toml.Decode(text, c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks every section, returning the first failure
func (c *Config) Validate() error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("%w: logging.format %q", ErrInvalid, c.Logging.Format)
	}
	if err := c.Ticker.Validate(); err != nil {
		return fmt.Errorf("ticker: %w", err)
	}
	if err := c.Physics.Validate(); err != nil {
		return err
	}
	if err := c.Render.Options().Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if c.Render.CornerRadius < 0 {
		return fmt.Errorf("%w: render.corner_radius %v", ErrInvalid, c.Render.CornerRadius)
	}

	switch c.Host.Backend {
	case BackendWindow, BackendTerminal:
	default:
		return fmt.Errorf("%w: host.backend %q", ErrInvalid, c.Host.Backend)
	}
	if c.Host.Width <= 0 || c.Host.Height <= 0 {
		return fmt.Errorf("%w: host size %dx%d", ErrInvalid, c.Host.Width, c.Host.Height)
	}
	if c.Host.FPS <= 0 {
		return fmt.Errorf("%w: host.fps %d", ErrInvalid, c.Host.FPS)
	}

	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: audio.sample_rate %d", ErrInvalid, c.Audio.SampleRate)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio.volume %v", ErrInvalid, c.Audio.Volume)
	}
	if c.Audio.ToneHz <= 0 || c.Audio.CueMs <= 0 || c.Audio.MaxVoices <= 0 {
		return fmt.Errorf("%w: audio tone %v Hz, %d ms, %d voices", ErrInvalid, c.Audio.ToneHz, c.Audio.CueMs, c.Audio.MaxVoices)
	}
	return nil
}
