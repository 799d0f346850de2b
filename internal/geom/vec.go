package geom

import "math"

// Vec2 is a 2D vector in arena coordinates (x grows right, y grows down).
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y }

// Normalized returns the unit vector, or the zero vector when the length is 0.
func (v Vec2) Normalized() Vec2 {
	length := v.Length()
	if length == 0 {
		return Vec2{}
	}
	inv := 1.0 / length
	return Vec2{X: v.X * inv, Y: v.Y * inv}
}

// Perp returns the vector rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 { return Vec2{X: -v.Y, Y: v.X} }

func (v Vec2) DistanceTo(o Vec2) float64 { return o.Sub(v).Length() }

// AngleTo returns the bearing from v to o in radians.
func (v Vec2) AngleTo(o Vec2) float64 { return math.Atan2(o.Y-v.Y, o.X-v.X) }

// NormalizeAngle wraps an angle into (-pi, pi]. Constant time for any finite
// input; callers must screen out NaN and infinities themselves.
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
