package rigid

import (
	"math"

	"bot-brawl/server/internal/geom"
)

// Manifold describes one contact between two bodies. Normal points from A
// toward B.
type Manifold struct {
	A           *Body
	B           *Body
	Normal      geom.Vec2
	Penetration float64
}

// detect returns the contact manifold for a pair, or false when the bodies do
// not overlap.
func detect(a, b *Body) (Manifold, bool) {
	if a.static && b.static {
		return Manifold{}, false
	}
	if !a.AABB().Overlaps(b.AABB()) {
		return Manifold{}, false
	}

	switch sa := a.shape.(type) {
	case Circle:
		switch sb := b.shape.(type) {
		case Circle:
			return circleCircle(a, b, sa, sb)
		case Box:
			return circleBox(a, b, sa, sb)
		}
	case Box:
		switch sb := b.shape.(type) {
		case Circle:
			m, ok := circleBox(b, a, sb, sa)
			if ok {
				m.A, m.B = a, b
				m.Normal = m.Normal.Scale(-1)
			}
			return m, ok
		case Box:
			return boxBox(a, b)
		}
	}
	return Manifold{}, false
}

func circleCircle(a, b *Body, ca, cb Circle) (Manifold, bool) {
	delta := b.position.Sub(a.position)
	distSq := delta.LengthSquared()
	total := ca.Radius + cb.Radius
	if distSq >= total*total {
		return Manifold{}, false
	}
	dist := math.Sqrt(distSq)
	normal := geom.Vec2{X: 1}
	if dist > 0 {
		normal = delta.Scale(1 / dist)
	}
	return Manifold{A: a, B: b, Normal: normal, Penetration: total - dist}, true
}

func circleBox(circle, box *Body, c Circle, bx Box) (Manifold, bool) {
	// Closest point on the box to the circle center.
	closest := geom.Vec2{
		X: clamp(circle.position.X, box.position.X-bx.HalfWidth, box.position.X+bx.HalfWidth),
		Y: clamp(circle.position.Y, box.position.Y-bx.HalfHeight, box.position.Y+bx.HalfHeight),
	}
	delta := closest.Sub(circle.position)
	distSq := delta.LengthSquared()
	if distSq >= c.Radius*c.Radius {
		return Manifold{}, false
	}
	dist := math.Sqrt(distSq)
	var normal geom.Vec2
	if dist > 0 {
		normal = delta.Scale(1 / dist)
	} else {
		// Center inside the box: push out along the thinnest axis.
		dx := bx.HalfWidth - math.Abs(circle.position.X-box.position.X)
		dy := bx.HalfHeight - math.Abs(circle.position.Y-box.position.Y)
		if dx < dy {
			normal = geom.Vec2{X: math.Copysign(1, box.position.X-circle.position.X)}
		} else {
			normal = geom.Vec2{Y: math.Copysign(1, box.position.Y-circle.position.Y)}
		}
	}
	return Manifold{A: circle, B: box, Normal: normal, Penetration: c.Radius - dist}, true
}

func boxBox(a, b *Body) (Manifold, bool) {
	aabbA, aabbB := a.AABB(), b.AABB()
	overlapX := math.Min(aabbA.Max.X, aabbB.Max.X) - math.Max(aabbA.Min.X, aabbB.Min.X)
	overlapY := math.Min(aabbA.Max.Y, aabbB.Max.Y) - math.Max(aabbA.Min.Y, aabbB.Min.Y)
	if overlapX <= 0 || overlapY <= 0 {
		return Manifold{}, false
	}
	m := Manifold{A: a, B: b}
	if overlapX < overlapY {
		m.Penetration = overlapX
		m.Normal = geom.Vec2{X: math.Copysign(1, b.position.X-a.position.X)}
	} else {
		m.Penetration = overlapY
		m.Normal = geom.Vec2{Y: math.Copysign(1, b.position.Y-a.position.Y)}
	}
	return m, true
}

// resolve applies positional correction and an impulse along the contact
// normal so the bodies separate.
func resolve(m Manifold) {
	a, b := m.A, m.B
	invMassSum := a.invMass + b.invMass
	if invMassSum == 0 {
		return
	}

	// Positional correction splits the penetration by inverse mass.
	const correctionFactor = 0.8
	correction := m.Normal.Scale(m.Penetration * correctionFactor / invMassSum)
	a.position = a.position.Sub(correction.Scale(a.invMass))
	b.position = b.position.Add(correction.Scale(b.invMass))

	relative := b.velocity.Sub(a.velocity)
	alongNormal := relative.Dot(m.Normal)
	if alongNormal > 0 {
		// Already separating.
		return
	}

	restitution := math.Min(a.restitution, b.restitution)
	j := -(1 + restitution) * alongNormal / invMassSum
	impulse := m.Normal.Scale(j)
	a.velocity = a.velocity.Sub(impulse.Scale(a.invMass))
	b.velocity = b.velocity.Add(impulse.Scale(b.invMass))

	// Coulomb friction against the tangential component.
	relative = b.velocity.Sub(a.velocity)
	tangent := relative.Sub(m.Normal.Scale(relative.Dot(m.Normal)))
	tLen := tangent.Length()
	if tLen == 0 {
		return
	}
	tangent = tangent.Scale(1 / tLen)
	jt := -relative.Dot(tangent) / invMassSum
	mu := math.Sqrt(a.friction * b.friction)
	if math.Abs(jt) > j*mu {
		jt = math.Copysign(j*mu, jt)
	}
	frictionImpulse := tangent.Scale(jt)
	a.velocity = a.velocity.Sub(frictionImpulse.Scale(a.invMass))
	b.velocity = b.velocity.Add(frictionImpulse.Scale(b.invMass))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
