package game

import (
	"fmt"
	"math"
	"math/rand"
)

// Button identifies a flipper button.
type Button string

const (
	ButtonLeft  Button = "left"
	ButtonRight Button = "right"
)

// Table owns every body on the playfield plus the score/life bookkeeping,
// and advances them one fixed tick at a time. All state is mutated by a
// single goroutine; the table itself is not locked.
type Table struct {
	Gravity Vec2
	FPS     int
	Dt      float64

	// Border is the closed polygon of the playfield walls, wrapping
	// last->first. GutterIndex is the segment representing the drain floor
	// between the flippers.
	Border      []Vec2
	GutterIndex int

	Obstacles []*Obstacle
	Flippers  []*Flipper
	Balls     []*Ball

	Score          int
	Multiball      int // bumper hits toward the next multiball
	BallsRemaining int
	GameOver       bool

	// serveTicks counts down the pause before the next ball is served;
	// the ball enters play when it reaches zero.
	serveTicks int

	// Events holds the collisions resolved during the most recent tick.
	Events []CollisionEvent

	rng *rand.Rand
}

// NewStandardTable builds the standard machine layout: a 16-segment border
// with an 11-segment top arc, nine bumpers, and two mirrored flippers.
// Malformed parameters are rejected here, never mid-simulation.
func NewStandardTable(fps int, seed int64) (*Table, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %d", fps)
	}

	t := &Table{
		Gravity: NewVec2(0.0, Gravity),
		FPS:     fps,
		Dt:      1.0 / float64(fps),
		rng:     rand.New(rand.NewSource(seed)),
	}

	// Right wall, bottom to top.
	t.Border = []Vec2{
		NewVec2(0.74, 0.25),
		NewVec2(0.995, 0.4),
		NewVec2(0.995, 1.4),
	}

	// Top arc from the right wall to the left wall.
	arcRadius := 0.5
	arcCenter := NewVec2(0.5, 1.375)
	arcSegments := 11
	arcStep := math.Pi / float64(arcSegments)
	for i := 0; i <= arcSegments; i++ {
		angle := float64(i) * arcStep
		t.Border = append(t.Border, NewVec2(
			arcCenter.X+arcRadius*math.Cos(angle),
			arcCenter.Y+arcRadius*math.Sin(angle),
		))
	}

	// Left wall down to the drain floor.
	t.Border = append(t.Border, NewVec2(0, 0.4))
	t.Border = append(t.Border, NewVec2(0.26, 0.25))
	t.GutterIndex = len(t.Border)
	t.Border = append(t.Border, NewVec2(0.26, 0.0)) // gutter floor
	t.Border = append(t.Border, NewVec2(0.74, 0.0)) // gutter floor

	t.Obstacles = []*Obstacle{
		NewObstacle(0.04, NewVec2(0.10, 1.68), 0.8, ColorWhite),
		NewObstacle(0.08, NewVec2(0.5, 1.45), 1.5, ColorRed),
		NewObstacle(0.08, NewVec2(0.74, 1.2), 1.5, ColorRed),
		NewObstacle(0.08, NewVec2(0.26, 1.2), 1.5, ColorRed),
		NewObstacle(0.08, NewVec2(0.5, 0.95), 1.5, ColorRed),
		NewObstacle(0.04, NewVec2(0.13, 0.8), 1.3, ColorYellow),
		NewObstacle(0.04, NewVec2(0.87, 0.8), 1.3, ColorYellow),
		NewObstacle(0.04, NewVec2(0.15, 0.6), 1.2, ColorGreen),
		NewObstacle(0.04, NewVec2(0.85, 0.6), 1.2, ColorGreen),
	}

	t.Flippers = []*Flipper{
		NewFlipper(FlipperRadius, NewVec2(0.26, 0.22), FlipperLength,
			-FlipperRestAngle, FlipperMaxRotation, FlipperAngularVelocity, ColorWhite),
		NewFlipper(FlipperRadius, NewVec2(0.74, 0.22), FlipperLength,
			math.Pi+FlipperRestAngle, -FlipperMaxRotation, FlipperAngularVelocity, ColorWhite),
	}

	t.Reset()
	return t, nil
}

// Reset starts a fresh game: full lives, zero score, and a serve countdown.
func (t *Table) Reset() {
	t.GameOver = false
	t.Score = 0
	t.BallsRemaining = BallsPerGame
	t.Balls = nil
	t.Events = nil
	t.beginServe()
}

// beginServe clears the multiball counter and arms the serve countdown.
func (t *Table) beginServe() {
	t.Multiball = 0
	t.serveTicks = ServeCountdownSeconds * t.FPS
}

// ServeCountdownSecondsLeft returns the whole seconds left before the next
// serve, zero while a ball is in play.
func (t *Table) ServeCountdownSecondsLeft() int {
	if t.serveTicks <= 0 {
		return 0
	}
	return (t.serveTicks + t.FPS - 1) / t.FPS
}

// Serving reports whether the table is waiting out a serve countdown.
func (t *Table) Serving() bool {
	return t.serveTicks > 0
}

// AddBall serves a ball up the plunger lane with a randomized launch speed.
func (t *Table) AddBall() {
	vel := NewVec2(0, BallLaunchSlow+t.rng.Float64()*(BallLaunchFast-BallLaunchSlow))
	pos := NewVec2(0.95, 0.5)
	t.Balls = append(t.Balls, NewBall(BallRadius, BallMass, pos, vel, BallRestitution, ColorWhite))
}

// HandleButton sets the pressed flag of the matching flipper. Unknown
// buttons are ignored.
func (t *Table) HandleButton(which Button, pressed bool) {
	switch which {
	case ButtonLeft:
		t.Flippers[0].Pressed = pressed
	case ButtonRight:
		t.Flippers[1].Pressed = pressed
	}
}

// Simulate advances the table one tick. The resolution order is fixed and
// sequential: flipper kinematics, then per ball (ascending index) integrate,
// ball-ball against later balls, obstacles in list order, flippers in list
// order, border last. Each handler mutates position and velocity in place
// before the next pair is examined.
func (t *Table) Simulate() {
	t.Events = t.Events[:0]

	for _, f := range t.Flippers {
		f.Simulate(t.Dt)
	}

	if t.GameOver {
		return
	}

	if t.serveTicks > 0 {
		t.serveTicks--
		if t.serveTicks == 0 {
			t.AddBall()
		}
		return
	}

	for i := 0; i < len(t.Balls); i++ {
		ball := t.Balls[i]
		ball.Simulate(t.Dt, t.Gravity)

		for j := i + 1; j < len(t.Balls); j++ {
			if HandleBallBallCollision(ball, t.Balls[j]) {
				t.Events = append(t.Events, CollisionEvent{Type: "ball", Speed: ball.Vel.Length()})
			}
		}

		for _, o := range t.Obstacles {
			if HandleBallObstacleCollision(ball, o) {
				t.onBumperHit(o)
			}
		}

		for _, f := range t.Flippers {
			if HandleBallFlipperCollision(ball, f) {
				t.Events = append(t.Events, CollisionEvent{Type: "flipper", Speed: ball.Vel.Length()})
			}
		}

		if wall, hit := HandleBallBorderCollision(ball, t.Border); hit {
			if wall == t.GutterIndex {
				t.Events = append(t.Events, CollisionEvent{Type: "drain", Speed: ball.Vel.Length()})
				if t.drainBall(i) {
					i--
				}
			} else {
				t.Events = append(t.Events, CollisionEvent{Type: "wall", Speed: ball.Vel.Length()})
			}
		}
	}
}

// onBumperHit scores a bumper contact. While exactly one ball is live the
// hit also advances the multiball counter; at the threshold the counter
// resets and an extra ball enters play immediately.
func (t *Table) onBumperHit(o *Obstacle) {
	t.Score++
	t.Events = append(t.Events, CollisionEvent{Type: "bumper", Speed: o.PushVel})

	if len(t.Balls) == 1 {
		t.Multiball++
		if t.Multiball == MultiballScore {
			t.Multiball = 0
			t.AddBall()
		}
	}
}

// drainBall handles the ball at index i leaving play through the gutter.
// Losing the last live ball costs a life; with lives left the table re-arms
// the serve countdown, otherwise the game is over. Reports whether the ball
// was removed from the list.
func (t *Table) drainBall(i int) bool {
	live := len(t.Balls)
	if live == 1 {
		t.BallsRemaining--
	}

	if t.BallsRemaining > 0 {
		t.Balls = append(t.Balls[:i], t.Balls[i+1:]...)
		if live == 1 {
			t.beginServe()
		}
		return true
	}

	t.GameOver = true
	return false
}
