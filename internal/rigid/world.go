package rigid

import "bot-brawl/server/internal/geom"

// BeginContactFunc observes contacts the instant a pair starts overlapping.
type BeginContactFunc func(Manifold)

// World owns a set of bodies and steps them with a fixed timestep. It is not
// safe for concurrent use; one goroutine owns a world.
type World struct {
	gravity   geom.Vec2
	bodies    []*Body
	listeners map[int]BeginContactFunc
	nextSub   int
	touching  map[pairKey]bool
}

type pairKey struct {
	a, b *Body
}

// NewWorld constructs an empty world with the given gravity vector.
func NewWorld(gravity geom.Vec2) *World {
	return &World{
		gravity:   gravity,
		listeners: make(map[int]BeginContactFunc),
		touching:  make(map[pairKey]bool),
	}
}

func (w *World) SetGravity(g geom.Vec2) { w.gravity = g }

// AddBody registers a body with the world.
func (w *World) AddBody(b *Body) {
	if b == nil {
		return
	}
	w.bodies = append(w.bodies, b)
}

// RemoveBody unregisters a body; contacts involving it are forgotten.
func (w *World) RemoveBody(b *Body) {
	for i, candidate := range w.bodies {
		if candidate == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	for key := range w.touching {
		if key.a == b || key.b == b {
			delete(w.touching, key)
		}
	}
}

// OnBeginContact subscribes to contact-start events and returns a subscription
// id for Unsubscribe.
func (w *World) OnBeginContact(fn BeginContactFunc) int {
	id := w.nextSub
	w.nextSub++
	w.listeners[id] = fn
	return id
}

// Unsubscribe removes a contact listener.
func (w *World) Unsubscribe(id int) {
	delete(w.listeners, id)
}

// Clear removes every body and forgets all contact state. Listeners survive.
func (w *World) Clear() {
	w.bodies = nil
	w.touching = make(map[pairKey]bool)
}

// Step integrates all bodies, then detects and resolves contacts. Pairs that
// were separated last step and overlap now are reported to begin-contact
// listeners before resolution, so listeners observe the raw manifold.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		b.integrate(dt, w.gravity)
	}

	seen := make(map[pairKey]bool, len(w.touching))
	// The body count per match is tiny (two bots plus walls); the naive pair
	// scan beats any broad phase at this scale.
	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			a, b := w.bodies[i], w.bodies[j]
			m, ok := detect(a, b)
			if !ok {
				continue
			}
			key := pairKey{a: a, b: b}
			seen[key] = true
			if !w.touching[key] {
				for _, fn := range w.listeners {
					fn(m)
				}
			}
			resolve(m)
		}
	}
	w.touching = seen
}
