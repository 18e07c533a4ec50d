package game

import (
	"testing"
)

func TestColor565Packing(t *testing.T) {
	if got := Color565(0, 0, 0); got != 0 {
		t.Errorf("black: got %04x", got)
	}
	if got := Color565(255, 255, 255); got != 0xFFFF {
		t.Errorf("white: got %04x", got)
	}
	if got := Color565(255, 0, 0); got != 0xF800 {
		t.Errorf("red: got %04x", got)
	}
	if got := Color565(0, 255, 0); got != 0x07E0 {
		t.Errorf("green: got %04x", got)
	}
	if got := Color565(0, 0, 255); got != 0x001F {
		t.Errorf("blue: got %04x", got)
	}
}

func TestColorWheelEndpoints(t *testing.T) {
	if got := ColorWheel(0); got != ColorRed {
		t.Errorf("wheel start: got %04x want %04x", got, ColorRed)
	}
	// The wheel repeats every 255 steps.
	if ColorWheel(300) != ColorWheel(300%255) {
		t.Error("wheel should wrap at 255")
	}
	if ColorWheel(-1) != ColorWheel(254) {
		t.Error("negative positions should wrap")
	}
}

func TestColorAtStepCycles(t *testing.T) {
	if ColorAtStep(0) != ColorAtStep(255) {
		t.Error("step color should repeat with period 255")
	}
	if ColorAtStep(1) == ColorAtStep(2) {
		t.Error("consecutive steps should differ")
	}
}

func TestScreenProjectionFlipsY(t *testing.T) {
	// Table origin is bottom-left; screen origin is top-left.
	if got := scaleY(NewVec2(0, 0)); got != ScreenHeight {
		t.Errorf("bottom of table: got %d want %d", got, ScreenHeight)
	}
	if got := scaleY(NewVec2(0, MaxHeight)); got != 0 {
		t.Errorf("top of table: got %d want 0", got)
	}
	if got := scaleX(NewVec2(1.0, 0)); got != ScreenWidth {
		t.Errorf("right edge: got %d want %d", got, ScreenWidth)
	}
}

func countOps(ops []DrawOp, kind string) int {
	n := 0
	for _, op := range ops {
		if op.Op == kind {
			n++
		}
	}
	return n
}

func TestBuildFrameFreshTable(t *testing.T) {
	table := newTestTable(t)
	frame := BuildFrame(table, 1)

	if frame.Tick != 1 {
		t.Errorf("tick: got %d", frame.Tick)
	}
	if frame.MultiballIn != MultiballScore {
		t.Errorf("multiball countdown: got %d want %d", frame.MultiballIn, MultiballScore)
	}
	if frame.Countdown != ServeCountdownSeconds {
		t.Errorf("serve countdown: got %d want %d", frame.Countdown, ServeCountdownSeconds)
	}
	if frame.GameOver {
		t.Error("fresh table is not game over")
	}

	if n := countOps(frame.Ops, OpPolygon); n != 1 {
		t.Errorf("border polygons: got %d want 1", n)
	}
	if len(frame.Ops[0].Points) != len(table.Border) {
		t.Errorf("border points: got %d want %d", len(frame.Ops[0].Points), len(table.Border))
	}

	// 9 bumpers + 2 flipper poses at 2 caps each = 13 filled circles, no balls yet.
	if n := countOps(frame.Ops, OpFillCircle); n != 13 {
		t.Errorf("filled circles: got %d want 13", n)
	}
}

func TestBuildFrameDrawsBallsWithErase(t *testing.T) {
	table := newTestTable(t)
	runUntilServed(t, table)
	table.Simulate()

	frame := BuildFrame(table, 2)

	var ballOps []DrawOp
	for _, op := range frame.Ops {
		if op.Op == OpFillCircle && op.R == table.Balls[0].DrawSize {
			ballOps = append(ballOps, op)
		}
	}
	if len(ballOps) != 2 {
		t.Fatalf("ball should be erased then drawn, got %d ops", len(ballOps))
	}
	if ballOps[0].Color != Background {
		t.Error("first ball op should erase to the background color")
	}
	if ballOps[1].Color != table.Balls[0].Color {
		t.Error("second ball op should draw the ball color")
	}
}

func TestBuildFrameMovingFlipperErasesPreviousPose(t *testing.T) {
	table := newTestTable(t)
	table.HandleButton(ButtonLeft, true)
	table.Simulate()

	frame := BuildFrame(table, 1)

	// Moving flipper: erase pose (3 ops) + draw pose (3 ops). Static right
	// flipper draws 3 ops. Plus 9 bumpers.
	erased := 0
	for _, op := range frame.Ops {
		if op.Op == OpLine && op.Color == Background {
			erased++
		}
	}
	if erased != 1 {
		t.Errorf("moving flipper should erase exactly one previous shaft, got %d", erased)
	}
}

func TestBuildFrameGameOverBanner(t *testing.T) {
	table := newTestTable(t)
	table.GameOver = true

	frame := BuildFrame(table, 10)

	var banner []DrawOp
	for _, op := range frame.Ops {
		if op.Op == OpText && (op.Text == "GAME" || op.Text == "OVER") {
			banner = append(banner, op)
		}
	}
	if len(banner) != 2 {
		t.Fatalf("game-over banner text ops: got %d want 2", len(banner))
	}
	want := ColorAtStep(10)
	if banner[0].Color != want || banner[1].Color != want {
		t.Error("banner should use the tick-cycled color")
	}

	other := BuildFrame(table, 11)
	for _, op := range other.Ops {
		if op.Op == OpText && op.Text == "GAME" && op.Color == want {
			t.Error("banner color should change between ticks")
		}
	}
}
