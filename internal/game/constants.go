package game

import "math"

// Physics and table constants for the standard pinball machine.
// The playfield is 1.0 units wide and MaxHeight units tall with the origin at
// the bottom-left; gravity points in negative y.

const (
	DefaultFPS = 60

	// MaxHeight is the playfield height in table units.
	MaxHeight = 1.88

	// Gravity is the y acceleration applied to every ball each tick.
	Gravity = -0.8

	BallRadius      = 0.03
	BallRestitution = 0.2

	// Launch speed range for a freshly served ball (units/second, straight up
	// the plunger lane).
	BallLaunchSlow = 2.0
	BallLaunchFast = 3.0

	FlipperRadius          = 0.035
	FlipperLength          = 0.185
	FlipperRestAngle       = 0.5
	FlipperMaxRotation     = 1.0
	FlipperAngularVelocity = 12.0

	// MultiballScore is the number of bumper hits (while exactly one ball is
	// live) that triggers an extra ball.
	MultiballScore = 30

	// BallsPerGame is the number of lives per game.
	BallsPerGame = 3

	// ServeCountdownSeconds is the pause between losing a ball and serving
	// the next one.
	ServeCountdownSeconds = 3

	// GameOverFlourishSeconds is how long the game-over banner is animated
	// before the session finishes.
	GameOverFlourishSeconds = 3

	// Screen geometry for the draw-op stream. The client rasterizes these
	// coordinates directly.
	ScreenWidth  = 160
	ScreenHeight = 320

	// Fixed glyph cell for HUD text.
	FontWidth  = 8
	FontHeight = 8
)

// BallMass follows the original machine: mass proportional to disc area.
var BallMass = math.Pi * BallRadius * BallRadius

// Scale factors from table units to screen pixels.
const (
	ScaleX = float64(ScreenWidth)
	ScaleY = float64(ScreenHeight) / MaxHeight
)

// ScaleRadius is the pixel scale used for body radii.
var ScaleRadius = math.Min(ScaleX, ScaleY)
