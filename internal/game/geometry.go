package game

// ClosestPointOnSegment returns the point on segment ab nearest to p.
// A degenerate segment (a == b) yields a. Flipper and border collision both
// reduce to this single projection.
func ClosestPointOnSegment(p, a, b Vec2) Vec2 {
	ab := b.Minus(a)
	denom := ab.Dot(ab)
	if denom == 0 {
		return a
	}
	t := (p.Dot(ab) - a.Dot(ab)) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.PlusScaled(ab, t)
}
