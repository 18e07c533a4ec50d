package game

import "math"

// Obstacle is a static round bumper. It never moves; on contact the ball's
// normal velocity is set to PushVel, a scripted kick rather than a bounce.
type Obstacle struct {
	Radius   float64 `json:"radius"`
	Pos      Vec2    `json:"pos"`
	PushVel  float64 `json:"push_vel"`
	DrawSize int     `json:"draw_size"`
	Color    Color   `json:"color"`
}

func NewObstacle(radius float64, pos Vec2, pushVel float64, color Color) *Obstacle {
	return &Obstacle{
		Radius:   radius,
		Pos:      pos,
		PushVel:  pushVel,
		DrawSize: int(math.Round(radius * ScaleRadius)),
		Color:    color,
	}
}
