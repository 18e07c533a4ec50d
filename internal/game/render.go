package game

import "fmt"

// Draw-op kinds understood by the client rasterizer.
const (
	OpFillCircle = "fill_circle"
	OpCircle     = "circle"
	OpLine       = "line"
	OpPolygon    = "polygon"
	OpFillRect   = "fill_rect"
	OpText       = "text"
)

// DrawOp is one abstract draw call in screen pixels. The server never
// rasterizes; it streams these and the client draws them in order.
type DrawOp struct {
	Op     string   `json:"op"`
	X      int      `json:"x,omitempty"`
	Y      int      `json:"y,omitempty"`
	X2     int      `json:"x2,omitempty"`
	Y2     int      `json:"y2,omitempty"`
	R      int      `json:"r,omitempty"`
	W      int      `json:"w,omitempty"`
	H      int      `json:"h,omitempty"`
	Points [][2]int `json:"points,omitempty"`
	Text   string   `json:"text,omitempty"`
	Color  Color    `json:"color"`
}

// Frame is the per-tick output of a session step: the draw list plus the HUD
// scalars and the collision events resolved during the tick.
type Frame struct {
	Tick           uint64           `json:"tick"`
	Ops            []DrawOp         `json:"ops"`
	Score          int              `json:"score"`
	BallsRemaining int              `json:"balls_remaining"`
	MultiballIn    int              `json:"multiball_in"`
	Countdown      int              `json:"countdown"`
	GameOver       bool             `json:"game_over"`
	Events         []CollisionEvent `json:"events,omitempty"`
}

func scaleX(pos Vec2) int {
	return int(pos.X * ScaleX)
}

func scaleY(pos Vec2) int {
	return int(float64(ScreenHeight) - pos.Y*ScaleY)
}

// BuildFrame renders the table into a frame. tick drives the game-over
// banner animation.
func BuildFrame(t *Table, tick uint64) *Frame {
	f := &Frame{
		Tick:           tick,
		Score:          t.Score,
		BallsRemaining: t.BallsRemaining,
		MultiballIn:    MultiballScore - t.Multiball,
		Countdown:      t.ServeCountdownSecondsLeft(),
		GameOver:       t.GameOver,
		Events:         t.Events,
	}

	f.Ops = appendBorder(f.Ops, t)
	f.Ops = appendObstacles(f.Ops, t)
	f.Ops = appendFlippers(f.Ops, t)
	f.Ops = appendBalls(f.Ops, t)
	f.Ops = appendHUD(f.Ops, t, tick)
	return f
}

func appendBorder(ops []DrawOp, t *Table) []DrawOp {
	points := make([][2]int, len(t.Border))
	for i, p := range t.Border {
		points[i] = [2]int{scaleX(p), scaleY(p)}
	}
	return append(ops, DrawOp{Op: OpPolygon, Points: points, Color: ColorWhite})
}

func appendObstacles(ops []DrawOp, t *Table) []DrawOp {
	for _, o := range t.Obstacles {
		ops = append(ops, DrawOp{
			Op: OpFillCircle, X: scaleX(o.Pos), Y: scaleY(o.Pos), R: o.DrawSize, Color: o.Color,
		})
	}
	return ops
}

func appendFlippers(ops []DrawOp, t *Table) []DrawOp {
	for _, fl := range t.Flippers {
		// Erase the previous pose only when the flipper actually moved.
		if fl.CurrentAngularVelocity != 0 {
			ops = appendFlipperPose(ops, fl, fl.PrevRotation, Background)
		}
		ops = appendFlipperPose(ops, fl, fl.Rotation, fl.Color)
	}
	return ops
}

// appendFlipperPose draws one flipper pose: pivot cap, shaft, tip cap.
func appendFlipperPose(ops []DrawOp, f *Flipper, rotation float64, color Color) []DrawOp {
	tip := f.Tip(rotation)
	ops = append(ops, DrawOp{
		Op: OpFillCircle, X: scaleX(f.Pos), Y: scaleY(f.Pos), R: f.DrawSize, Color: color,
	})
	ops = append(ops, DrawOp{
		Op: OpLine, X: scaleX(f.Pos), Y: scaleY(f.Pos), X2: scaleX(tip), Y2: scaleY(tip), Color: color,
	})
	ops = append(ops, DrawOp{
		Op: OpFillCircle, X: scaleX(tip), Y: scaleY(tip), R: f.DrawSize, Color: color,
	})
	return ops
}

func appendBalls(ops []DrawOp, t *Table) []DrawOp {
	for _, b := range t.Balls {
		// Erase at the pre-step position with this ball's own size, then draw.
		ops = append(ops, DrawOp{
			Op: OpFillCircle, X: scaleX(b.LastPos), Y: scaleY(b.LastPos), R: b.DrawSize, Color: Background,
		})
		ops = append(ops, DrawOp{
			Op: OpFillCircle, X: scaleX(b.Pos), Y: scaleY(b.Pos), R: b.DrawSize, Color: b.Color,
		})
	}
	return ops
}

func appendHUD(ops []DrawOp, t *Table, tick uint64) []DrawOp {
	ops = appendTextRight(ops, fmt.Sprintf("M %2d", MultiballScore-t.Multiball), 0.25, ColorWhite)
	ops = appendTextRight(ops, fmt.Sprintf("%04d", t.Score), 0.08, ColorWhite)
	ops = appendTextAt(ops, fmt.Sprintf("B %d", t.BallsRemaining), 0.0, 0.08, ColorWhite)

	if secs := t.ServeCountdownSecondsLeft(); secs > 0 {
		ops = appendTextCentered(ops, fmt.Sprintf("%d", secs), 1.2, ColorWhite)
	}

	if t.GameOver {
		c := ColorAtStep(tick)
		ops = appendTextCentered(ops, "GAME", 1.25, c)
		ops = appendTextCentered(ops, "OVER", 1.15, c)
	}
	return ops
}

// Text helpers place 8x8 glyph-cell text in screen pixels, erasing the cell
// background first so HUD updates overwrite cleanly.

func appendText(ops []DrawOp, text string, x, y int, color Color) []DrawOp {
	width := FontWidth * len(text)
	ops = append(ops, DrawOp{Op: OpFillRect, X: x, Y: y, W: width, H: FontHeight, Color: Background})
	return append(ops, DrawOp{Op: OpText, X: x, Y: y, Text: text, Color: color})
}

func appendTextCentered(ops []DrawOp, text string, y float64, color Color) []DrawOp {
	width := FontWidth * len(text)
	x := ScreenWidth/2 - width/2
	ys := int(float64(ScreenHeight)-y*ScaleY) - FontHeight/2
	return appendText(ops, text, x, ys, color)
}

func appendTextAt(ops []DrawOp, text string, x, y float64, color Color) []DrawOp {
	xs := int(x * ScaleX)
	ys := int(float64(ScreenHeight)-y*ScaleY) - FontHeight/2
	return appendText(ops, text, xs, ys, color)
}

func appendTextRight(ops []DrawOp, text string, y float64, color Color) []DrawOp {
	xs := ScreenWidth - FontWidth*len(text)
	ys := int(float64(ScreenHeight)-y*ScaleY) - FontHeight/2
	return appendText(ops, text, xs, ys, color)
}
