// Package rigidworld adapts the rigid backend to the phys.World contract. It
// owns the handle arena: handles are generational keys into a slot table, so a
// stale handle can never silently alias a recycled slot.
package rigidworld

import (
	"fmt"

	"bot-brawl/server/internal/geom"
	"bot-brawl/server/internal/phys"
	"bot-brawl/server/internal/rigid"
)

const defaultDensity = 0.001

type slot struct {
	body       *rigid.Body
	generation uint32
	live       bool
}

// Adapter implements phys.World over a rigid.World instance.
type Adapter struct {
	world     *rigid.World
	slots     []slot
	free      []uint32
	reverse   map[*rigid.Body]phys.Handle
	callbacks []phys.CollisionFunc
	contactID int
	destroyed bool
}

var _ phys.World = (*Adapter)(nil)

// New constructs an adapter around a fresh backend world. Gravity is zeroed:
// the simulation is top-down, so nothing falls.
func New() *Adapter {
	a := &Adapter{
		world:   rigid.NewWorld(geom.Vec2{}),
		reverse: make(map[*rigid.Body]phys.Handle),
	}
	a.contactID = a.world.OnBeginContact(a.translateContact)
	return a
}

// translateContact maps a backend manifold onto contract handles and fans it
// out to every registered callback.
func (a *Adapter) translateContact(m rigid.Manifold) {
	ha, okA := a.reverse[m.A]
	hb, okB := a.reverse[m.B]
	if !okA || !okB {
		return
	}
	collision := phys.Collision{A: ha, B: hb, Normal: m.Normal, Penetration: m.Penetration}
	for _, fn := range a.callbacks {
		fn(collision)
	}
}

// CreateBody builds a backend body for the config and returns its handle.
// Triangle, pentagon and hexagon shapes collide as their bounding circle;
// unrecognized shape kinds fall back to a circle as well.
func (a *Adapter) CreateBody(cfg phys.BodyConfig) phys.Handle {
	var shape rigid.Shape
	switch cfg.Shape {
	case phys.ShapeRect:
		shape = rigid.Box{HalfWidth: cfg.Size, HalfHeight: cfg.Size}
	case phys.ShapeCircle, phys.ShapeTriangle, phys.ShapePentagon, phys.ShapeHexagon:
		shape = rigid.Circle{Radius: cfg.Size}
	default:
		shape = rigid.Circle{Radius: cfg.Size}
	}

	mass := 0.0
	if !cfg.Static {
		density := cfg.Density
		if density <= 0 {
			density = defaultDensity
		}
		mass = density * shape.Area()
		if mass <= 0 {
			mass = density
		}
	}

	body := rigid.NewBody(shape, cfg.Position, mass)
	body.SetFriction(cfg.Friction)
	body.SetRestitution(cfg.Restitution)
	// AirFriction is expressed as drag per second; the backend wants the
	// retention factor.
	body.SetDamping(1 - cfg.AirFriction)

	a.world.AddBody(body)
	handle := a.allocate(body)
	a.reverse[body] = handle
	return handle
}

// CreateStaticRect builds an immovable rectangle centered on (x, y).
func (a *Adapter) CreateStaticRect(x, y, width, height float64) phys.Handle {
	body := rigid.NewBody(
		rigid.Box{HalfWidth: width / 2, HalfHeight: height / 2},
		geom.Vec2{X: x, Y: y},
		0,
	)
	a.world.AddBody(body)
	handle := a.allocate(body)
	a.reverse[body] = handle
	return handle
}

// RemoveBody destroys the body and invalidates its handle.
func (a *Adapter) RemoveBody(h phys.Handle) {
	body := a.lookup(h)
	a.world.RemoveBody(body)
	delete(a.reverse, body)
	s := &a.slots[h.Index]
	s.body = nil
	s.live = false
	s.generation++
	a.free = append(a.free, h.Index)
}

func (a *Adapter) Position(h phys.Handle) geom.Vec2 { return a.lookup(h).Position() }

func (a *Adapter) SetPosition(h phys.Handle, p geom.Vec2) { a.lookup(h).SetPosition(p) }

func (a *Adapter) Angle(h phys.Handle) float64 { return a.lookup(h).Angle() }

func (a *Adapter) SetAngle(h phys.Handle, radians float64) { a.lookup(h).SetAngle(radians) }

func (a *Adapter) Velocity(h phys.Handle) geom.Vec2 { return a.lookup(h).Velocity() }

func (a *Adapter) SetVelocity(h phys.Handle, v geom.Vec2) { a.lookup(h).SetVelocity(v) }

func (a *Adapter) ApplyForce(h phys.Handle, force geom.Vec2) { a.lookup(h).ApplyForce(force) }

// ApplyImpulse approximates an impulse as an instantaneous velocity change
// (dv = impulse / mass); the backend has no momentum-integrated impulse
// primitive.
func (a *Adapter) ApplyImpulse(h phys.Handle, impulse geom.Vec2) {
	a.lookup(h).ApplyImpulse(impulse)
}

func (a *Adapter) Mass(h phys.Handle) float64 { return a.lookup(h).Mass() }

// OnCollisionStart registers a callback for normalized collision-start events.
func (a *Adapter) OnCollisionStart(fn phys.CollisionFunc) {
	if fn == nil {
		return
	}
	a.callbacks = append(a.callbacks, fn)
}

// Step advances the backend by dt seconds.
func (a *Adapter) Step(dt float64) { a.world.Step(dt) }

// Destroy unsubscribes the contact listener and drops every body. The adapter
// must not be used afterwards.
func (a *Adapter) Destroy() {
	if a.destroyed {
		return
	}
	a.destroyed = true
	a.world.Unsubscribe(a.contactID)
	a.world.Clear()
	a.slots = nil
	a.free = nil
	a.reverse = make(map[*rigid.Body]phys.Handle)
	a.callbacks = nil
}

func (a *Adapter) allocate(body *rigid.Body) phys.Handle {
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[index]
		s.body = body
		s.live = true
		return phys.Handle{Index: index, Generation: s.generation}
	}
	a.slots = append(a.slots, slot{body: body, live: true})
	return phys.Handle{Index: uint32(len(a.slots) - 1)}
}

// lookup resolves a handle or panics. An unknown or stale handle means match
// and adapter state have diverged, which is an engine bug, not bad input.
func (a *Adapter) lookup(h phys.Handle) *rigid.Body {
	if int(h.Index) >= len(a.slots) {
		panic(fmt.Sprintf("rigidworld: body not found: index %d out of range", h.Index))
	}
	s := &a.slots[h.Index]
	if !s.live || s.generation != h.Generation {
		panic(fmt.Sprintf("rigidworld: body not found: stale handle %d/%d", h.Index, h.Generation))
	}
	return s.body
}
