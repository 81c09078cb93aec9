package sim

import (
	"math"

	"github.com/armada-sim/simcore/internal/rules"
	"github.com/armada-sim/simcore/pkg/core"
)

// CanAttack reports whether the attack cooldown has run out.
func (v *Vehicle) CanAttack() bool {
	return v.Cooldown == 0
}

// AttackDamage is the damage v would deal to target right now, ignoring cooldown.
func (v *Vehicle) AttackDamage(r *rules.Rules, target *Vehicle) int {
	return v.AttackDamageWithin(r, target, 0)
}

// AttackDamageWithin is AttackDamage with the attack range extended by
// extraRadius. It returns 0 outside range and never more than the
// target's durability.
func (v *Vehicle) AttackDamageWithin(r *rules.Rules, target *Vehicle, extraRadius float64) int {
	reach := r.AttackRange[v.Kind][target.Kind] + extraRadius
	if v.Position.DistanceTo2(target.Position)-r.Eps > reach*reach {
		return 0
	}
	return clampDamage(r.AttackDamage[v.Kind][target.Kind], target.Durability)
}

// Attack hits target if the cooldown allows and returns the damage dealt.
// Any attempt made off cooldown restarts it, even when the target is out of range.
func (v *Vehicle) Attack(r *rules.Rules, target *Vehicle) int {
	if !v.CanAttack() {
		return 0
	}
	damage := v.AttackDamage(r, target)
	target.Durability -= damage
	v.Cooldown = r.AttackCooldownTicks
	return damage
}

// NuclearDamage is the damage a strike centred at center would deal to v.
// It falls off linearly from the centre to zero at the strike radius.
func (v *Vehicle) NuclearDamage(r *rules.Rules, center core.Point) int {
	radius := r.NuclearStrikeRadius
	d2 := v.Position.DistanceTo2(center)
	if d2 >= radius*radius {
		return 0
	}
	damage := int((radius - math.Sqrt(d2)) * r.NuclearStrikeMaxDamage)
	return clampDamage(damage, v.Durability)
}

// TakeNuclearStrike applies NuclearDamage and returns it.
func (v *Vehicle) TakeNuclearStrike(r *rules.Rules, center core.Point) int {
	damage := v.NuclearDamage(r, center)
	v.Durability -= damage
	return damage
}

func clampDamage(damage, durability int) int {
	if durability < 0 {
		return 0
	}
	if damage >= durability {
		return durability
	}
	if damage < 0 {
		return 0
	}
	return damage
}
