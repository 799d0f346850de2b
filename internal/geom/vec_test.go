package geom

import (
	"math"
	"testing"
)

func TestNormalized(t *testing.T) {
	cases := []struct {
		name string
		in   Vec2
		want Vec2
	}{
		{"unit x", Vec2{X: 5}, Vec2{X: 1}},
		{"unit y", Vec2{Y: -3}, Vec2{Y: -1}},
		{"zero stays zero", Vec2{}, Vec2{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalized()
			if math.Abs(got.X-tc.want.X) > 1e-9 || math.Abs(got.Y-tc.want.Y) > 1e-9 {
				t.Fatalf("got %+v want %+v", got, tc.want)
			}
		})
	}
}

func TestPerpIsOrthogonal(t *testing.T) {
	v := Vec2{X: 3, Y: -2}
	if dot := v.Dot(v.Perp()); dot != 0 {
		t.Fatalf("expected orthogonal perp, dot=%v", dot)
	}
}

func TestAngleTo(t *testing.T) {
	origin := Vec2{}
	if got := origin.AngleTo(Vec2{X: 1}); math.Abs(got) > 1e-9 {
		t.Fatalf("east bearing: got %v want 0", got)
	}
	if got := origin.AngleTo(Vec2{Y: 1}); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Fatalf("south bearing: got %v want pi/2", got)
	}
}

func TestNormalizeAngle(t *testing.T) {
	if got := NormalizeAngle(3 * math.Pi); math.Abs(got-math.Pi) > 1e-9 {
		t.Fatalf("got %v want pi", got)
	}
	if got := NormalizeAngle(-3 * math.Pi); math.Abs(got-math.Pi) > 1e-9 {
		t.Fatalf("got %v want pi", got)
	}
}

func TestNormalizeAngleHugeMagnitudes(t *testing.T) {
	// Behavior arithmetic can hand in arbitrarily large finite angles; wrapping
	// must stay constant time and land inside (-pi, pi].
	for _, in := range []float64{1e18, -1e18, 1e144, -1e144, math.MaxFloat64, -math.MaxFloat64} {
		got := NormalizeAngle(in)
		if got <= -math.Pi || got > math.Pi {
			t.Fatalf("NormalizeAngle(%g) = %v, outside (-pi, pi]", in, got)
		}
	}
}
