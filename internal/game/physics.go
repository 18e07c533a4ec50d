package game

import "math"

// CollisionEvent records a resolved contact for scoring and client-side
// sound/effect playback.
type CollisionEvent struct {
	Type  string  `json:"type"` // "ball", "bumper", "flipper", "wall", "drain"
	Speed float64 `json:"speed"`
}

// All four handlers share one shape: compute the separation axis and
// distance, early-out if the pair is not overlapping (or the axis is
// degenerate), push apart along the axis, then resolve the axis component of
// velocity. Tangential components are never touched. Degenerate geometry is
// a guarded skip, not an error: resolution is total over reachable states.

// HandleBallBallCollision resolves an overlap between two balls with a
// 1-D elastic-with-restitution response along the contact axis, using the
// smaller of the two restitutions. Each ball is pushed out by half the
// overlap. Reports whether contact was resolved.
func HandleBallBallCollision(b1, b2 *Ball) bool {
	restitution := math.Min(b1.Restitution, b2.Restitution)
	dir := b2.Pos.Minus(b1.Pos)
	d := dir.Length()
	if d == 0.0 || d >= b1.Radius+b2.Radius {
		return false
	}

	dir = dir.Times(1.0 / d)

	corr := (b1.Radius + b2.Radius - d) / 2.0
	b1.Pos = b1.Pos.PlusScaled(dir, -corr)
	b2.Pos = b2.Pos.PlusScaled(dir, corr)

	v1 := b1.Vel.Dot(dir)
	v2 := b2.Vel.Dot(dir)

	m1 := b1.Mass
	m2 := b2.Mass

	newV1 := (m1*v1 + m2*v2 - m2*(v1-v2)*restitution) / (m1 + m2)
	newV2 := (m1*v1 + m2*v2 - m1*(v2-v1)*restitution) / (m1 + m2)

	b1.Vel = b1.Vel.PlusScaled(dir, newV1-v1)
	b2.Vel = b2.Vel.PlusScaled(dir, newV2-v2)
	return true
}

// HandleBallObstacleCollision resolves a ball against a static bumper. The
// ball is pushed fully out of the overlap and its normal velocity is set
// directly to the bumper's push velocity — a scripted kick, not a bounce.
// Scoring is the table's business; the handler only reports the hit.
func HandleBallObstacleCollision(b *Ball, o *Obstacle) bool {
	dir := b.Pos.Minus(o.Pos)
	d := dir.Length()
	if d == 0.0 || d >= b.Radius+o.Radius {
		return false
	}

	dir = dir.Times(1.0 / d)

	corr := b.Radius + o.Radius - d
	b.Pos = b.Pos.PlusScaled(dir, corr)

	v := b.Vel.Dot(dir)
	b.Vel = b.Vel.PlusScaled(dir, o.PushVel-v)
	return true
}

// HandleBallFlipperCollision resolves a ball against a flipper capsule. The
// contact point is the closest point on the pivot-to-tip segment; the ball's
// normal velocity is set to the normal component of the flipper surface
// velocity at the contact point (linear velocity of a point on a rotating
// rigid body), so a resting flipper simply stops the normal motion and a
// moving one launches the ball.
func HandleBallFlipperCollision(b *Ball, f *Flipper) bool {
	closest := ClosestPointOnSegment(b.Pos, f.Pos, f.CurrentTip())
	dir := b.Pos.Minus(closest)
	d := dir.Length()
	if d == 0.0 || d >= b.Radius+f.Radius {
		return false
	}

	dir = dir.Times(1.0 / d)

	corr := b.Radius + f.Radius - d
	b.Pos = b.Pos.PlusScaled(dir, corr)

	// Surface point on the flipper edge, relative to the pivot.
	radius := closest.PlusScaled(dir, f.Radius).Minus(f.Pos)
	surfaceVel := radius.Perp().Times(f.CurrentAngularVelocity)
	v := b.Vel.Dot(dir)
	vnew := surfaceVel.Dot(dir)
	b.Vel = b.Vel.PlusScaled(dir, vnew-v)
	return true
}

// HandleBallBorderCollision resolves a ball against the closed border
// polygon and returns the index of the nearest edge plus whether a
// correction was applied. The caller compares the index against the gutter
// segment to detect a drain.
//
// The nearest edge's outward perpendicular is kept as the contact normal.
// If the ball center sits exactly on the closest point (on a vertex), the
// stored normal substitutes as the push direction. The sign of
// direction·normal distinguishes a ball on the outward side (push out by the
// radius deficit) from one that has crossed through the wall (push back by
// radius plus penetration). The normal velocity resolves to
// |v|·restitution — a pure bounce.
func HandleBallBorderCollision(b *Ball, border []Vec2) (int, bool) {
	var closest, ab, normal Vec2
	wall := 0
	minDist := 0.0

	for i, a := range border {
		next := border[(i+1)%len(border)]
		c := ClosestPointOnSegment(b.Pos, a, next)
		dist := b.Pos.Minus(c).Length()
		if i == 0 || dist < minDist {
			wall = i
			minDist = dist
			closest = c
			ab = next.Minus(a)
			normal = ab.Perp()
		}
	}

	dir := b.Pos.Minus(closest)
	dist := dir.Length()
	if dist == 0.0 {
		dir = normal
		dist = normal.Length()
	}

	dir = dir.Times(1.0 / dist)

	if dir.Dot(normal) >= 0.0 {
		if dist > b.Radius {
			return wall, false
		}
		b.Pos = b.Pos.PlusScaled(dir, b.Radius-dist)
	} else {
		b.Pos = b.Pos.PlusScaled(dir, -(dist + b.Radius))
	}

	v := b.Vel.Dot(dir)
	vnew := math.Abs(v) * b.Restitution
	b.Vel = b.Vel.PlusScaled(dir, vnew-v)
	return wall, true
}
