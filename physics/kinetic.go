package physics

import (
	"math"

	"github.com/lixenwraith/bauview/vmath"
)

// applyImpulse adds an impulse scaled by the body's inverse mass
func applyImpulse(b *body, impulse vmath.Vector2) {
	b.velocity = b.velocity.Add(impulse.Scale(b.invMass))
}

// accelerate adds a*dt to a dynamic body's velocity
func accelerate(b *body, accel vmath.Vector2, dt float64) {
	if b.opts.Static {
		return
	}
	b.velocity = b.velocity.Add(accel.Scale(dt))
}

// integrate moves a dynamic body by v*dt
func integrate(b *body, dt float64) {
	if b.opts.Static {
		return
	}
	b.translate(b.velocity.Scale(dt))
}

// capSpeed limits the velocity magnitude to maxSpeed, returns true if clamped
// A non-positive maxSpeed disables the cap
func capSpeed(v vmath.Vector2, maxSpeed float64) (vmath.Vector2, bool) {
	if maxSpeed <= 0 {
		return v, false
	}
	if lsq := v.LengthSq(); lsq > maxSpeed*maxSpeed {
		return v.Scale(maxSpeed / math.Sqrt(lsq)), true
	}
	return v, false
}

// resolveVelocity applies restitution and Coulomb friction impulses along the pair normal
// Normal points from the incident edge toward the reference body
func resolveVelocity(ref, inc *body, p *Pair) {
	invSum := ref.invMass + inc.invMass
	if invSum == 0 {
		return
	}

	rel := ref.velocity.Sub(inc.velocity)
	vn := rel.Dot(p.Normal)
	if vn >= 0 {
		return
	}

	e := max(ref.opts.Restitution, inc.opts.Restitution)
	j := -(1 + e) * vn / invSum
	impulse := p.Normal.Scale(j)
	applyImpulse(ref, impulse)
	applyImpulse(inc, impulse.Neg())

	// Friction against the post-bounce tangential slide
	rel = ref.velocity.Sub(inc.velocity)
	vt := rel.Dot(p.Tangent)
	mu := math.Hypot(ref.opts.Friction, inc.opts.Friction)
	limit := mu * j
	jt := max(-limit, min(limit, -vt/invSum))
	friction := p.Tangent.Scale(jt)
	applyImpulse(ref, friction)
	applyImpulse(inc, friction.Neg())
}

// correctPosition pushes the bodies apart by a fraction of the penetration beyond slop
func correctPosition(ref, inc *body, p *Pair, fraction, slop float64) {
	invSum := ref.invMass + inc.invMass
	if invSum == 0 {
		return
	}
	push := max(p.Depth-slop, 0) * fraction / invSum
	if push <= 0 {
		return
	}
	shift := p.Normal.Scale(push)
	if ref.invMass > 0 {
		ref.translate(shift.Scale(ref.invMass))
	}
	if inc.invMass > 0 {
		inc.translate(shift.Scale(-inc.invMass))
	}
}
