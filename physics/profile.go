package physics

import "strings"

// BodyOptions are the per-body material and mass settings
type BodyOptions struct {
	Static      bool
	Mass        float64
	Restitution float64 // 0 inelastic, 1 perfectly elastic
	Friction    float64
}

// Material profiles, pre-defined for scene files and scripts

// DefaultBody is a plain dynamic body
var DefaultBody = BodyOptions{
	Mass:        1,
	Restitution: 0.2,
	Friction:    0.2,
}

// BouncyBody keeps most of its speed on impact
var BouncyBody = BodyOptions{
	Mass:        1,
	Restitution: 0.8,
	Friction:    0.1,
}

// HeavyBody is dense and sticky
var HeavyBody = BodyOptions{
	Mass:        10,
	Restitution: 0.05,
	Friction:    0.6,
}

// StaticBody never moves and has no mass
var StaticBody = BodyOptions{
	Static:      true,
	Restitution: 0.2,
	Friction:    0.4,
}

var profiles = map[string]BodyOptions{
	"default": DefaultBody,
	"bouncy":  BouncyBody,
	"heavy":   HeavyBody,
	"static":  StaticBody,
}

// Profile looks up a material profile by name, case-insensitive
func Profile(name string) (BodyOptions, bool) {
	opts, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	return opts, ok
}

// inverseMass returns 0 for static bodies
func (o BodyOptions) inverseMass() float64 {
	if o.Static || o.Mass <= 0 {
		return 0
	}
	return 1 / o.Mass
}
