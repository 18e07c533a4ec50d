package game

import "math"

// Ball is a dynamic circular body.
type Ball struct {
	Radius      float64 `json:"radius"`
	Mass        float64 `json:"mass"`
	Restitution float64 `json:"restitution"`
	Pos         Vec2    `json:"pos"`
	// LastPos is the position at the start of the current tick. The renderer
	// erases the previous frame's circle there before drawing the new one.
	LastPos  Vec2  `json:"last_pos"`
	Vel      Vec2  `json:"vel"`
	DrawSize int   `json:"draw_size"`
	Color    Color `json:"color"`
}

// NewBall creates a ball. DrawSize is fixed at construction.
func NewBall(radius, mass float64, pos, vel Vec2, restitution float64, color Color) *Ball {
	return &Ball{
		Radius:      radius,
		Mass:        mass,
		Restitution: restitution,
		Pos:         pos,
		LastPos:     pos,
		Vel:         vel,
		DrawSize:    int(math.Round(radius * ScaleRadius)),
		Color:       color,
	}
}

// Simulate advances the ball by dt seconds under the given gravity.
// Semi-implicit Euler: velocity first, then position from the updated
// velocity. The order matters for energy behavior.
func (b *Ball) Simulate(dt float64, gravity Vec2) {
	b.LastPos = b.Pos
	b.Vel = b.Vel.PlusScaled(gravity, dt)
	b.Pos = b.Pos.PlusScaled(b.Vel, dt)
}
