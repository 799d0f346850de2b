// Package phys defines the engine-agnostic rigid-body world contract. Match
// logic and behavior sandboxing depend only on this package, never on a
// concrete backend, so the backend can be swapped without touching either.
package phys

import "bot-brawl/server/internal/geom"

// ShapeKind selects the collision primitive used for a body.
type ShapeKind string

const (
	ShapeCircle   ShapeKind = "circle"
	ShapeRect     ShapeKind = "rect"
	ShapeTriangle ShapeKind = "triangle"
	ShapePentagon ShapeKind = "pentagon"
	ShapeHexagon  ShapeKind = "hexagon"
)

// Handle identifies one body for the lifetime of a match. It is a generational
// key: only the adapter that minted it may interpret the fields. Passing an
// unknown or stale handle to any accessor is an integration bug and panics.
type Handle struct {
	Index      uint32
	Generation uint32
}

// BodyConfig describes a body at creation time. Size is the radius for circles
// and polygon shapes and the half-extent for rectangles.
type BodyConfig struct {
	Shape       ShapeKind
	Position    geom.Vec2
	Size        float64
	Density     float64
	Friction    float64
	AirFriction float64
	Restitution float64
	Static      bool
}

// Collision is the normalized form of a backend collision-start event. Normal
// points from body A toward body B.
type Collision struct {
	A           Handle
	B           Handle
	Normal      geom.Vec2
	Penetration float64
}

// CollisionFunc receives normalized collision-start notifications.
type CollisionFunc func(Collision)

// World is the rigid-body backend seam. Implementations own the mapping from
// handles to backend bodies and are single-owner values: one match engine per
// world, no sharing across matches.
type World interface {
	// Step advances the simulation by dt seconds.
	Step(dt float64)
	// Destroy releases every body and unsubscribes backend events. The world
	// must not be used afterwards.
	Destroy()

	CreateBody(cfg BodyConfig) Handle
	RemoveBody(h Handle)

	Position(h Handle) geom.Vec2
	SetPosition(h Handle, p geom.Vec2)
	Angle(h Handle) float64
	SetAngle(h Handle, radians float64)
	Velocity(h Handle) geom.Vec2
	SetVelocity(h Handle, v geom.Vec2)

	ApplyForce(h Handle, force geom.Vec2)
	// ApplyImpulse applies an instantaneous momentum change. Backends without a
	// native impulse primitive may approximate it as dv = impulse / mass.
	ApplyImpulse(h Handle, impulse geom.Vec2)
	Mass(h Handle) float64

	OnCollisionStart(fn CollisionFunc)

	// CreateStaticRect is a convenience for immovable boundaries. Width and
	// height are full extents centered on (x, y).
	CreateStaticRect(x, y, width, height float64) Handle
}
