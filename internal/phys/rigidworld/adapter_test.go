package rigidworld

import (
	"math"
	"testing"

	"bot-brawl/server/internal/geom"
	"bot-brawl/server/internal/phys"
)

func circleConfig(x, y, radius float64) phys.BodyConfig {
	return phys.BodyConfig{
		Shape:    phys.ShapeCircle,
		Position: geom.Vec2{X: x, Y: y},
		Size:     radius,
		Density:  0.001,
	}
}

func TestCreateBodyRoundTrip(t *testing.T) {
	a := New()
	h := a.CreateBody(circleConfig(10, 20, 5))

	if got := a.Position(h); got != (geom.Vec2{X: 10, Y: 20}) {
		t.Fatalf("position: got %+v", got)
	}
	a.SetPosition(h, geom.Vec2{X: 1, Y: 2})
	a.SetAngle(h, math.Pi/4)
	a.SetVelocity(h, geom.Vec2{X: 3})

	if got := a.Position(h); got != (geom.Vec2{X: 1, Y: 2}) {
		t.Fatalf("set position: got %+v", got)
	}
	if got := a.Angle(h); got != math.Pi/4 {
		t.Fatalf("angle: got %v", got)
	}
	if got := a.Velocity(h); got != (geom.Vec2{X: 3}) {
		t.Fatalf("velocity: got %+v", got)
	}
}

func TestMassDerivedFromDensity(t *testing.T) {
	a := New()
	h := a.CreateBody(circleConfig(0, 0, 10))
	want := 0.001 * math.Pi * 100
	if got := a.Mass(h); math.Abs(got-want) > 1e-9 {
		t.Fatalf("mass: got %v want %v", got, want)
	}
}

func TestApplyImpulseIsVelocityChange(t *testing.T) {
	a := New()
	h := a.CreateBody(circleConfig(0, 0, 10))
	mass := a.Mass(h)

	a.ApplyImpulse(h, geom.Vec2{X: mass * 7})

	if got := a.Velocity(h).X; math.Abs(got-7) > 1e-9 {
		t.Fatalf("dv: got %v want 7", got)
	}
}

func TestUnknownShapeFallsBackToCircle(t *testing.T) {
	a := New()
	cfg := circleConfig(0, 0, 5)
	cfg.Shape = phys.ShapeKind("rhombus")
	h := a.CreateBody(cfg)
	want := 0.001 * math.Pi * 25
	if got := a.Mass(h); math.Abs(got-want) > 1e-9 {
		t.Fatalf("fallback mass: got %v want %v", got, want)
	}
}

func TestStaleHandlePanics(t *testing.T) {
	a := New()
	h := a.CreateBody(circleConfig(0, 0, 5))
	a.RemoveBody(h)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on stale handle")
		}
	}()
	a.Position(h)
}

func TestRecycledSlotGetsNewGeneration(t *testing.T) {
	a := New()
	first := a.CreateBody(circleConfig(0, 0, 5))
	a.RemoveBody(first)
	second := a.CreateBody(circleConfig(9, 9, 5))

	if first.Index != second.Index {
		t.Fatalf("expected slot reuse, got %d then %d", first.Index, second.Index)
	}
	if first.Generation == second.Generation {
		t.Fatal("recycled slot kept its generation")
	}
	if got := a.Position(second); got != (geom.Vec2{X: 9, Y: 9}) {
		t.Fatalf("new handle resolves wrong body: %+v", got)
	}
}

func TestCollisionStartTranslatesHandles(t *testing.T) {
	a := New()
	left := a.CreateBody(circleConfig(0, 0, 5))
	right := a.CreateBody(circleConfig(8, 0, 5))

	var got []phys.Collision
	a.OnCollisionStart(func(c phys.Collision) { got = append(got, c) })

	a.Step(1.0 / 30)

	if len(got) != 1 {
		t.Fatalf("expected 1 collision, got %d", len(got))
	}
	c := got[0]
	if c.A != left || c.B != right {
		t.Fatalf("handles not translated: %+v", c)
	}
	if c.Normal.X <= 0 || c.Penetration <= 0 {
		t.Fatalf("manifold not carried over: %+v", c)
	}
}

func TestStaticRectDoesNotMove(t *testing.T) {
	a := New()
	wall := a.CreateStaticRect(100, 0, 10, 200)
	ball := a.CreateBody(circleConfig(80, 0, 5))
	a.SetVelocity(ball, geom.Vec2{X: 300})

	for i := 0; i < 30; i++ {
		a.Step(1.0 / 30)
	}

	if got := a.Position(wall); got != (geom.Vec2{X: 100}) {
		t.Fatalf("wall moved: %+v", got)
	}
	if got := a.Position(ball).X; got > 95 {
		t.Fatalf("ball passed through wall: x=%v", got)
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	a := New()
	a.CreateBody(circleConfig(0, 0, 5))
	a.Destroy()
	a.Destroy()
}
