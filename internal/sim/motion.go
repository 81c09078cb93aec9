package sim

import (
	"math"

	"github.com/armada-sim/simcore/pkg/core"
)

// CollisionFunc reports whether a candidate vehicle state overlaps something.
// It must not mutate the candidate or the state it closes over.
type CollisionFunc func(candidate *Vehicle) bool

// Move advances the vehicle by one tick of its intent.
//
// The candidate position is checked against the map bounds and collides (which
// may be nil). A rejected move returns false and leaves the vehicle untouched,
// cooldown included. An accepted or idle move ticks the attack cooldown down.
// Rotation follows a single chord per tick, never the true arc.
func (v *Vehicle) Move(w World, collides CollisionFunc) bool {
	var (
		delta core.Point
		next  = v.Intent
		done  bool
	)

	switch in := v.Intent.(type) {
	case Translate:
		vec := in.Target.Sub(v.Position)
		speed := v.ActualSpeed(w)
		if vec.Length() <= speed {
			done = true
			delta = vec
		} else {
			delta = vec.Normalized().Scale(speed)
		}

	case Rotate:
		dist := v.Position.DistanceTo(in.Pivot)
		if dist <= w.Rules.Eps {
			return false
		}
		angle := angularSpeed(v.ActualSpeed(w), dist, in.MaxAngularSpeed)
		if angle >= math.Abs(in.Angle) {
			done = true
			angle = in.Angle
		} else {
			if in.Angle < 0 {
				angle = -angle
			}
			in.Angle -= angle
			next = in
		}
		delta = v.Position.RotateCounterClockwise(angle, in.Pivot).Sub(v.Position)

	default:
		v.tickCooldown()
		return true
	}

	candidate := v.Clone()
	candidate.Position = v.Position.Add(delta)
	candidate.Intent = next

	if !w.Rules.InBounds(candidate.Position, v.Radius) {
		return false
	}
	if collides != nil && collides(candidate) {
		return false
	}

	v.Position = candidate.Position
	v.Intent = next
	if done {
		v.Intent = nil
	}
	v.tickCooldown()
	return true
}

func (v *Vehicle) tickCooldown() {
	if v.Cooldown > 0 {
		v.Cooldown--
	}
}

// Overlaps reports whether two vehicles' circles intersect, with eps tolerance.
func Overlaps(a, b *Vehicle, eps float64) bool {
	r := a.Radius + b.Radius
	return a.Position.DistanceTo2(b.Position) < r*r-eps
}
