package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadHex is returned for colors not in #RRGGBB or #RRGGBBAA form
var ErrBadHex = errors.New("color must be #RRGGBB or #RRGGBBAA")

// RGBA stores explicit 8-bit channels, straight (non-premultiplied) alpha
type RGBA struct {
	R, G, B, A uint8
}

// Predefined colors
var (
	Black       = RGBA{0, 0, 0, 255}
	White       = RGBA{255, 255, 255, 255}
	Transparent = RGBA{}
)

// ParseHex parses #RRGGBB or #RRGGBBAA; the leading # is optional
func ParseHex(s string) (RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return RGBA{}, fmt.Errorf("%w: %q", ErrBadHex, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("%w: %q", ErrBadHex, s)
	}
	if len(h) == 6 {
		return RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustHex is ParseHex for package-level constants, panics on malformed input
func MustHex(s string) RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// UnmarshalText lets config files carry colors as hex strings
func (c *RGBA) UnmarshalText(text []byte) error {
	v, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Hex formats the color as #RRGGBBAA, or #RRGGBB when opaque
func (c RGBA) Hex() string {
	if c.Opaque() {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// WithAlpha returns c with alpha scaled by f in [0, 1]
func (c RGBA) WithAlpha(f float64) RGBA {
	c.A = clamp(float64(c.A) * max(0, min(1, f)))
	return c
}

// Opaque reports whether the color fully covers what is below it
func (c RGBA) Opaque() bool {
	return c.A == 255
}

// Over composites c onto an opaque dst: result = c*alpha + dst*(1-alpha)
func (c RGBA) Over(dst RGBA) RGBA {
	if c.A == 0 {
		return dst
	}
	if c.Opaque() {
		return c
	}
	alpha := float64(c.A) / 255
	inv := 1 - alpha
	return RGBA{
		R: clamp(float64(c.R)*alpha + float64(dst.R)*inv),
		G: clamp(float64(c.G)*alpha + float64(dst.G)*inv),
		B: clamp(float64(c.B)*alpha + float64(dst.B)*inv),
		A: 255,
	}
}

// RGBA implements image/color.Color with premultiplied 16-bit channels
func (c RGBA) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A)
	a |= a << 8
	r = uint32(c.R) * a / 255
	g = uint32(c.G) * a / 255
	b = uint32(c.B) * a / 255
	return r, g, b, a
}

// Floats returns channels in [0, 1] for GPU-style vertex colors, premultiplied when premul is set
func (c RGBA) Floats(premul bool) (r, g, b, a float32) {
	a = float32(c.A) / 255
	r, g, b = float32(c.R)/255, float32(c.G)/255, float32(c.B)/255
	if premul {
		r, g, b = r*a, g*a, b*a
	}
	return r, g, b, a
}

// clamp converts float to uint8 with rounding
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v + 0.5)
}

// Palette names every color the scene renderer draws with
type Palette struct {
	Background RGBA `toml:"background"`
	Grid       RGBA `toml:"grid"` // alpha is scaled by occupancy
	Bounds     RGBA `toml:"bounds"`
	Fill       RGBA `toml:"fill"` // colliding silhouettes
	Outline    RGBA `toml:"outline"`
	Label      RGBA `toml:"label"`
	Contact    RGBA `toml:"contact"`
	Normal     RGBA `toml:"normal"`
	Panel      RGBA `toml:"panel"`
	PanelText  RGBA `toml:"panel_text"`
}

// DefaultPalette returns the stock scene colors
func DefaultPalette() Palette {
	return Palette{
		Background: MustHex("#14161A"),
		Grid:       MustHex("#3A5A8C"),
		Bounds:     MustHex("#8C8C8C80"),
		Fill:       MustHex("#4FC2B580"),
		Outline:    MustHex("#4FC2B5"),
		Label:      MustHex("#E6E6E6"),
		Contact:    White,
		Normal:     MustHex("#DF7157"),
		Panel:      MustHex("#000000B0"),
		PanelText:  MustHex("#D0D0D0"),
	}
}
