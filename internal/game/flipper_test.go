package game

import (
	"math"
	"testing"
)

func newLeftFlipper() *Flipper {
	return NewFlipper(FlipperRadius, NewVec2(0.26, 0.22), FlipperLength,
		-FlipperRestAngle, FlipperMaxRotation, FlipperAngularVelocity, ColorWhite)
}

func newRightFlipper() *Flipper {
	return NewFlipper(FlipperRadius, NewVec2(0.74, 0.22), FlipperLength,
		math.Pi+FlipperRestAngle, -FlipperMaxRotation, FlipperAngularVelocity, ColorWhite)
}

func TestFlipperRampClampsAtMaxRotation(t *testing.T) {
	f := newLeftFlipper()
	f.Pressed = true
	dt := 1.0 / DefaultFPS

	for i := 0; i < 20; i++ {
		f.Simulate(dt)
		if f.Rotation > f.MaxRotation {
			t.Fatalf("rotation exceeded max at tick %d: %f", i, f.Rotation)
		}
	}
	if f.Rotation != f.MaxRotation {
		t.Errorf("held flipper should rest at max rotation, got %f", f.Rotation)
	}
}

func TestFlipperAngularVelocityZeroWhenHeld(t *testing.T) {
	f := newLeftFlipper()
	f.Pressed = true
	dt := 1.0 / DefaultFPS

	for i := 0; i < 20; i++ {
		f.Simulate(dt)
	}
	// Fully extended and still pressed: no rotation this tick.
	if f.CurrentAngularVelocity != 0 {
		t.Errorf("held flipper should report zero angular velocity, got %f", f.CurrentAngularVelocity)
	}
}

func TestFlipperAngularVelocityWhileSwinging(t *testing.T) {
	f := newLeftFlipper()
	f.Pressed = true
	dt := 1.0 / DefaultFPS

	f.Simulate(dt)
	if !almostEqual(f.CurrentAngularVelocity, FlipperAngularVelocity) {
		t.Errorf("swinging flipper angular velocity: got %f want %f",
			f.CurrentAngularVelocity, FlipperAngularVelocity)
	}
}

func TestFlipperReleaseReturnsToRest(t *testing.T) {
	f := newLeftFlipper()
	f.Pressed = true
	dt := 1.0 / DefaultFPS
	for i := 0; i < 20; i++ {
		f.Simulate(dt)
	}

	f.Pressed = false
	for i := 0; i < 20; i++ {
		f.Simulate(dt)
	}
	if f.Rotation != 0 {
		t.Errorf("released flipper should return to rest, rotation=%f", f.Rotation)
	}
	if f.CurrentAngularVelocity != 0 {
		t.Errorf("resting flipper should report zero angular velocity, got %f", f.CurrentAngularVelocity)
	}
}

func TestRightFlipperIsMirrored(t *testing.T) {
	left := newLeftFlipper()
	right := newRightFlipper()

	if left.Sign != 1 || right.Sign != -1 {
		t.Fatalf("flipper signs: left=%f right=%f", left.Sign, right.Sign)
	}

	dt := 1.0 / DefaultFPS
	left.Pressed = true
	right.Pressed = true
	left.Simulate(dt)
	right.Simulate(dt)

	// Mirrored: same rotation magnitude, opposite angular velocity sign.
	if !almostEqual(left.Rotation, right.Rotation) {
		t.Errorf("rotations diverge: left=%f right=%f", left.Rotation, right.Rotation)
	}
	if !almostEqual(left.CurrentAngularVelocity, -right.CurrentAngularVelocity) {
		t.Errorf("angular velocities not mirrored: left=%f right=%f",
			left.CurrentAngularVelocity, right.CurrentAngularVelocity)
	}

	// Both tips swing upward from rest.
	if !(left.CurrentTip().Y > left.Tip(0).Y) {
		t.Error("left tip should rise when pressed")
	}
	if !(right.CurrentTip().Y > right.Tip(0).Y) {
		t.Error("right tip should rise when pressed")
	}
}

func TestFlipperTipAtRest(t *testing.T) {
	f := newLeftFlipper()
	want := f.Pos.PlusScaled(FromAngle(-FlipperRestAngle), FlipperLength)
	if got := f.CurrentTip(); !vecAlmostEqual(got, want) {
		t.Errorf("rest tip: got %+v want %+v", got, want)
	}
}

func TestFlipperSelect(t *testing.T) {
	f := newLeftFlipper()
	if !f.Select(f.Pos.Plus(NewVec2(0.1, 0))) {
		t.Error("point within reach should select")
	}
	if f.Select(f.Pos.Plus(NewVec2(0.5, 0))) {
		t.Error("point out of reach should not select")
	}
}
