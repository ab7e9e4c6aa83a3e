package physics

import (
	"math"

	"github.com/lixenwraith/bauview/vmath"
)

// collides runs the separating axis test over both bodies' edge normals
func collides(a, b *body) bool {
	return overlapsOnAxes(a, b, a.axes) && overlapsOnAxes(a, b, b.axes)
}

func overlapsOnAxes(a, b *body, axes []vmath.Vector2) bool {
	for _, axis := range axes {
		aMin, aMax := a.project(axis)
		bMin, bMax := b.project(axis)
		if aMax < bMin || aMin > bMax {
			return false
		}
	}
	return true
}

// manifold builds the contact description for two colliding bodies
// Every edge of either body is tried as the reference face; the shallowest penetration wins
// Contacts are the vertices of each body lying strictly inside the other
func manifold(a, b *body) Pair {
	p := Pair{
		A:     a.id,
		B:     b.id,
		Depth: math.Inf(1),
	}

	for _, side := range [2][2]*body{{b, a}, {a, b}} {
		incident, reference := side[0], side[1]
		n := len(incident.vertices)

		for i, cur := range incident.vertices {
			next := incident.vertices[(i+1)%n]
			edge := next.Sub(cur)
			outward := incident.axes[i]

			// Deepest reference vertex behind this edge
			inward := outward.Neg()
			s := reference.vertices[reference.support(inward)]
			depth := inward.Dot(s.Sub(cur))

			if depth < p.Depth {
				p.Depth = depth
				p.Normal = outward
				p.NormalPoint = cur.Add(edge.Scale(0.5))
				p.A = reference.id
				p.B = incident.id
			}

			if reference.containsPoint(cur) {
				p.Contacts = append(p.Contacts, Contact{
					Vertex:    cur,
					Incident:  incident.id,
					Reference: reference.id,
				})
			}
		}
	}

	p.Tangent = p.Normal.Perp()
	return p
}
