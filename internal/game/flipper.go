package game

import "math"

// Flipper is a kinematically driven paddle: a capsule from a fixed pivot to a
// rotating tip. It is not force-driven — rotation ramps toward maxRotation
// while pressed and back to zero when released, and the ball response uses
// the discrete angular rate actually achieved this tick.
type Flipper struct {
	Radius          float64 `json:"radius"`
	Pos             Vec2    `json:"pos"` // pivot
	Length          float64 `json:"length"`
	RestAngle       float64 `json:"rest_angle"`
	MaxRotation     float64 `json:"max_rotation"`
	Sign            float64 `json:"sign"` // +1 left flipper, -1 right (mirrored)
	AngularVelocity float64 `json:"angular_velocity"`
	DrawSize        int     `json:"draw_size"`
	Color           Color   `json:"color"`

	Rotation               float64 `json:"rotation"`
	PrevRotation           float64 `json:"prev_rotation"`
	CurrentAngularVelocity float64 `json:"current_angular_velocity"`
	Pressed                bool    `json:"pressed"`
}

// NewFlipper creates a flipper. The sign of maxRotation encodes left/right
// mirroring; the stored MaxRotation is its absolute value.
func NewFlipper(radius float64, pos Vec2, length, restAngle, maxRotation, angularVelocity float64, color Color) *Flipper {
	return &Flipper{
		Radius:          radius,
		Pos:             pos,
		Length:          length,
		RestAngle:       restAngle,
		MaxRotation:     math.Abs(maxRotation),
		Sign:            math.Copysign(1, maxRotation),
		AngularVelocity: angularVelocity,
		DrawSize:        int(math.Round(radius * ScaleRadius)),
		Color:           color,
	}
}

// Simulate advances the flipper by dt seconds. CurrentAngularVelocity is the
// discrete derivative of rotation, so it is zero both at rest and when held
// at full extension.
func (f *Flipper) Simulate(dt float64) {
	f.PrevRotation = f.Rotation
	if f.Pressed {
		f.Rotation = math.Min(f.Rotation+dt*f.AngularVelocity, f.MaxRotation)
	} else {
		f.Rotation = math.Max(f.Rotation-dt*f.AngularVelocity, 0.0)
	}
	f.CurrentAngularVelocity = f.Sign * (f.Rotation - f.PrevRotation) / dt
}

// Tip returns the tip position at the given rotation.
func (f *Flipper) Tip(rotation float64) Vec2 {
	angle := f.RestAngle + f.Sign*rotation
	return f.Pos.PlusScaled(FromAngle(angle), f.Length)
}

// CurrentTip returns the tip position at the current rotation.
func (f *Flipper) CurrentTip() Vec2 {
	return f.Tip(f.Rotation)
}

// Select is a coarse hit test: true if pos lies within Length of the pivot.
func (f *Flipper) Select(pos Vec2) bool {
	return f.Pos.Minus(pos).Length() < f.Length
}
