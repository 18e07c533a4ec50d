package game

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func vecAlmostEqual(a, b Vec2) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y)
}

func TestVectorArithmetic(t *testing.T) {
	a := NewVec2(1, 2)
	b := NewVec2(3, -4)

	if got := a.Plus(b); !vecAlmostEqual(got, NewVec2(4, -2)) {
		t.Errorf("Plus: got %+v", got)
	}
	if got := a.Minus(b); !vecAlmostEqual(got, NewVec2(-2, 6)) {
		t.Errorf("Minus: got %+v", got)
	}
	if got := a.PlusScaled(b, 2); !vecAlmostEqual(got, NewVec2(7, -6)) {
		t.Errorf("PlusScaled: got %+v", got)
	}
	if got := a.Dot(b); !almostEqual(got, -5) {
		t.Errorf("Dot: got %f", got)
	}
	if got := b.Length(); !almostEqual(got, 5) {
		t.Errorf("Length: got %f", got)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	if got := (Vec2{}).Normalize(); !got.IsZero() {
		t.Errorf("Normalize of zero vector should stay zero, got %+v", got)
	}
}

func TestPerpIsOrthogonal(t *testing.T) {
	v := NewVec2(3, 7)
	if got := v.Dot(v.Perp()); !almostEqual(got, 0) {
		t.Errorf("Perp not orthogonal: dot=%f", got)
	}
	// Counter-clockwise: x axis rotates onto y axis.
	if got := NewVec2(1, 0).Perp(); !vecAlmostEqual(got, NewVec2(0, 1)) {
		t.Errorf("Perp of x axis: got %+v", got)
	}
}

func TestFromAngle(t *testing.T) {
	if got := FromAngle(0); !vecAlmostEqual(got, NewVec2(1, 0)) {
		t.Errorf("FromAngle(0): got %+v", got)
	}
	if got := FromAngle(math.Pi / 2); !vecAlmostEqual(got, NewVec2(0, 1)) {
		t.Errorf("FromAngle(pi/2): got %+v", got)
	}
}

func TestClosestPointOnSegmentInterior(t *testing.T) {
	a := NewVec2(0, 0)
	b := NewVec2(1, 0)
	got := ClosestPointOnSegment(NewVec2(0.5, 1), a, b)
	if !vecAlmostEqual(got, NewVec2(0.5, 0)) {
		t.Errorf("interior projection: got %+v", got)
	}
}

func TestClosestPointOnSegmentClampsToEndpoints(t *testing.T) {
	a := NewVec2(0, 0)
	b := NewVec2(1, 0)

	if got := ClosestPointOnSegment(NewVec2(2, 1), a, b); !vecAlmostEqual(got, b) {
		t.Errorf("beyond b: got %+v", got)
	}
	if got := ClosestPointOnSegment(NewVec2(-1, 1), a, b); !vecAlmostEqual(got, a) {
		t.Errorf("before a: got %+v", got)
	}
}

func TestClosestPointOnDegenerateSegment(t *testing.T) {
	a := NewVec2(0.3, 0.7)
	got := ClosestPointOnSegment(NewVec2(5, 5), a, a)
	if !vecAlmostEqual(got, a) {
		t.Errorf("degenerate segment should return endpoint, got %+v", got)
	}
}
