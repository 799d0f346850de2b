package rigid

import (
	"math"
	"testing"

	"bot-brawl/server/internal/geom"
)

func TestIntegrateMovesBody(t *testing.T) {
	w := NewWorld(geom.Vec2{})
	b := NewBody(Circle{Radius: 1}, geom.Vec2{}, 1)
	b.SetVelocity(geom.Vec2{X: 10})
	w.AddBody(b)

	w.Step(0.5)

	if got := b.Position().X; math.Abs(got-5) > 1e-9 {
		t.Fatalf("x after step: got %v want 5", got)
	}
}

func TestStaticBodyNeverMoves(t *testing.T) {
	w := NewWorld(geom.Vec2{Y: 100})
	b := NewBody(Box{HalfWidth: 5, HalfHeight: 5}, geom.Vec2{X: 3, Y: 4}, 0)
	b.SetVelocity(geom.Vec2{X: 50})
	b.ApplyForce(geom.Vec2{X: 1000})
	b.ApplyImpulse(geom.Vec2{Y: 1000})
	w.AddBody(b)

	w.Step(1)

	if got := b.Position(); got != (geom.Vec2{X: 3, Y: 4}) {
		t.Fatalf("static body moved to %+v", got)
	}
}

func TestDampingSlowsBody(t *testing.T) {
	w := NewWorld(geom.Vec2{})
	b := NewBody(Circle{Radius: 1}, geom.Vec2{}, 1)
	b.SetDamping(0.5)
	b.SetVelocity(geom.Vec2{X: 10})
	w.AddBody(b)

	w.Step(0.1)

	if got := b.Velocity().X; got >= 10 {
		t.Fatalf("expected damping to slow body, velocity=%v", got)
	}
}

func TestApplyImpulseScalesByMass(t *testing.T) {
	heavy := NewBody(Circle{Radius: 1}, geom.Vec2{}, 4)
	heavy.ApplyImpulse(geom.Vec2{X: 8})
	if got := heavy.Velocity().X; math.Abs(got-2) > 1e-9 {
		t.Fatalf("dv: got %v want 2", got)
	}
}

func TestCircleCircleContactReported(t *testing.T) {
	w := NewWorld(geom.Vec2{})
	a := NewBody(Circle{Radius: 5}, geom.Vec2{}, 1)
	b := NewBody(Circle{Radius: 5}, geom.Vec2{X: 8}, 1)
	w.AddBody(a)
	w.AddBody(b)

	var contacts []Manifold
	w.OnBeginContact(func(m Manifold) { contacts = append(contacts, m) })

	w.Step(1.0 / 30)

	if len(contacts) != 1 {
		t.Fatalf("expected 1 begin-contact, got %d", len(contacts))
	}
	m := contacts[0]
	if m.Normal.X <= 0 {
		t.Fatalf("normal should point from a toward b, got %+v", m.Normal)
	}
	if m.Penetration <= 0 {
		t.Fatalf("expected positive penetration, got %v", m.Penetration)
	}

	// Same overlap next step must not fire again.
	contacts = contacts[:0]
	w.Step(1.0 / 30)
	if len(contacts) != 0 {
		t.Fatalf("persistent contact re-reported %d times", len(contacts))
	}
}

func TestResolutionSeparatesBodies(t *testing.T) {
	w := NewWorld(geom.Vec2{})
	a := NewBody(Circle{Radius: 5}, geom.Vec2{}, 1)
	b := NewBody(Circle{Radius: 5}, geom.Vec2{X: 6}, 1)
	w.AddBody(a)
	w.AddBody(b)

	for i := 0; i < 20; i++ {
		w.Step(1.0 / 30)
	}

	dist := a.Position().DistanceTo(b.Position())
	if dist < 9.5 {
		t.Fatalf("bodies still overlapping after resolution, dist=%v", dist)
	}
}

func TestCircleBoxCollision(t *testing.T) {
	w := NewWorld(geom.Vec2{})
	wall := NewBody(Box{HalfWidth: 2, HalfHeight: 50}, geom.Vec2{X: 20}, 0)
	ball := NewBody(Circle{Radius: 3}, geom.Vec2{X: 10}, 1)
	ball.SetVelocity(geom.Vec2{X: 100})
	w.AddBody(wall)
	w.AddBody(ball)

	for i := 0; i < 30; i++ {
		w.Step(1.0 / 30)
	}

	if got := ball.Position().X; got > 17.5 {
		t.Fatalf("ball penetrated static wall, x=%v", got)
	}
}

func TestRemoveBodyForgetsContacts(t *testing.T) {
	w := NewWorld(geom.Vec2{})
	a := NewBody(Circle{Radius: 5}, geom.Vec2{}, 1)
	b := NewBody(Circle{Radius: 5}, geom.Vec2{X: 8}, 1)
	w.AddBody(a)
	w.AddBody(b)
	w.Step(1.0 / 30)

	w.RemoveBody(b)

	fired := 0
	w.OnBeginContact(func(Manifold) { fired++ })
	w.Step(1.0 / 30)
	if fired != 0 {
		t.Fatalf("removed body still collides, fired=%d", fired)
	}
}
