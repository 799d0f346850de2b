// Package rigid is a small top-down 2D rigid-body backend: semi-implicit Euler
// integration, circle and axis-aligned box primitives, impulse-based contact
// resolution, and collision-begin listeners. Rotation is kinematic only (the
// match engine steers facing directly), so bodies carry no angular dynamics.
package rigid

import "bot-brawl/server/internal/geom"

// Shape is a collision primitive attached to a body.
type Shape interface {
	// AABB returns the axis-aligned bounds for a shape centered at pos.
	AABB(pos geom.Vec2) AABB
	// Area returns the shape's surface area, used to derive mass from density.
	Area() float64
}

// Circle is a circular primitive.
type Circle struct {
	Radius float64
}

func (c Circle) AABB(pos geom.Vec2) AABB {
	return AABB{
		Min: geom.Vec2{X: pos.X - c.Radius, Y: pos.Y - c.Radius},
		Max: geom.Vec2{X: pos.X + c.Radius, Y: pos.Y + c.Radius},
	}
}

func (c Circle) Area() float64 { return 3.141592653589793 * c.Radius * c.Radius }

// Box is an axis-aligned rectangle primitive described by half extents.
type Box struct {
	HalfWidth  float64
	HalfHeight float64
}

func (b Box) AABB(pos geom.Vec2) AABB {
	return AABB{
		Min: geom.Vec2{X: pos.X - b.HalfWidth, Y: pos.Y - b.HalfHeight},
		Max: geom.Vec2{X: pos.X + b.HalfWidth, Y: pos.Y + b.HalfHeight},
	}
}

func (b Box) Area() float64 { return 4 * b.HalfWidth * b.HalfHeight }

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min geom.Vec2
	Max geom.Vec2
}

func (a AABB) Overlaps(o AABB) bool {
	return a.Min.X <= o.Max.X && a.Max.X >= o.Min.X &&
		a.Min.Y <= o.Max.Y && a.Max.Y >= o.Min.Y
}

// Body is one rigid body. Static bodies have zero inverse mass and never move.
type Body struct {
	shape       Shape
	position    geom.Vec2
	velocity    geom.Vec2
	force       geom.Vec2
	angle       float64
	mass        float64
	invMass     float64
	friction    float64
	damping     float64
	restitution float64
	static      bool
}

// NewBody constructs a dynamic body; mass <= 0 produces a static body.
func NewBody(shape Shape, position geom.Vec2, mass float64) *Body {
	b := &Body{
		shape:       shape,
		position:    position,
		mass:        mass,
		friction:    0.3,
		damping:     1,
		restitution: 0.2,
	}
	if mass > 0 {
		b.invMass = 1.0 / mass
	} else {
		b.static = true
	}
	return b
}

func (b *Body) Shape() Shape         { return b.shape }
func (b *Body) Position() geom.Vec2  { return b.position }
func (b *Body) Velocity() geom.Vec2  { return b.velocity }
func (b *Body) Angle() float64       { return b.angle }
func (b *Body) Mass() float64        { return b.mass }
func (b *Body) Static() bool         { return b.static }
func (b *Body) Friction() float64    { return b.friction }
func (b *Body) Restitution() float64 { return b.restitution }
func (b *Body) AABB() AABB           { return b.shape.AABB(b.position) }

func (b *Body) SetPosition(p geom.Vec2) { b.position = p }
func (b *Body) SetAngle(a float64)      { b.angle = a }

func (b *Body) SetVelocity(v geom.Vec2) {
	if b.static {
		return
	}
	b.velocity = v
}

// SetFriction sets the contact friction coefficient.
func (b *Body) SetFriction(f float64) { b.friction = f }

// SetDamping sets the per-second velocity retention factor (air friction).
// 1 means no damping; 0 stops the body within one second.
func (b *Body) SetDamping(d float64) {
	if d < 0 {
		d = 0
	}
	if d > 1 {
		d = 1
	}
	b.damping = d
}

func (b *Body) SetRestitution(r float64) { b.restitution = r }

// ApplyForce accumulates a force for the next integration step.
func (b *Body) ApplyForce(f geom.Vec2) {
	if b.static {
		return
	}
	b.force = b.force.Add(f)
}

// ApplyImpulse changes velocity instantaneously by impulse / mass.
func (b *Body) ApplyImpulse(impulse geom.Vec2) {
	if b.static {
		return
	}
	b.velocity = b.velocity.Add(impulse.Scale(b.invMass))
}

// integrate advances position and velocity by dt seconds.
func (b *Body) integrate(dt float64, gravity geom.Vec2) {
	if b.static {
		return
	}
	accel := b.force.Scale(b.invMass).Add(gravity)
	b.velocity = b.velocity.Add(accel.Scale(dt))
	if b.damping < 1 {
		// Exponential damping applied linearly per step; stable for the small
		// fixed dt the match loop uses.
		retain := 1 - (1-b.damping)*dt
		if retain < 0 {
			retain = 0
		}
		b.velocity = b.velocity.Scale(retain)
	}
	b.position = b.position.Add(b.velocity.Scale(dt))
	b.force = geom.Vec2{}
}
