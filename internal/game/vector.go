package game

import "math"

// Vec2 is an immutable 2D vector in table coordinates. All operations return
// new values; bodies own their vectors outright so there is no aliasing.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromAngle returns the unit vector at the given angle in radians.
func FromAngle(angle float64) Vec2 {
	return Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// PlusScaled returns v + o*s. This is the workhorse of the collision code:
// position corrections and velocity responses are all "add this direction,
// scaled" operations.
func (v Vec2) PlusScaled(o Vec2, s float64) Vec2 {
	return Vec2{X: v.X + o.X*s, Y: v.Y + o.Y*s}
}

func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Times(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Normalize() Vec2 {
	m := v.Length()
	if m == 0 {
		return Vec2{}
	}
	return v.Times(1.0 / m)
}

// Perp returns the counter-clockwise perpendicular (-y, x). Contact normals
// and rigid-body surface velocities are both built from it.
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
