package sim

import (
	"github.com/armada-sim/simcore/internal/rules"
	"github.com/armada-sim/simcore/pkg/core"
)

// Repair adds one point to the repair pool. A full pool rolls over into one
// point of durability. It reports whether durability went up and does nothing
// on a vehicle already at full durability.
func (v *Vehicle) Repair(r *rules.Rules) bool {
	if v.Durability >= r.MaxDurability(v.Kind) {
		return false
	}
	v.RepairPool++
	if v.RepairPool >= r.RepairPoints {
		v.Durability++
		v.RepairPool = 0
		return true
	}
	return false
}

// FullDurability is durability including the fractional repair pool.
func (v *Vehicle) FullDurability(r *rules.Rules) float64 {
	return float64(v.Durability) + float64(v.RepairPool)/float64(r.RepairPoints)
}

// RepairedBy reports whether arrv is a live friendly repair vehicle, other than
// v itself, within repair range of v.
func (v *Vehicle) RepairedBy(r *rules.Rules, arrv *Vehicle) bool {
	if arrv.Kind != core.Arrv || arrv.ID == v.ID || arrv.IsMy != v.IsMy || !arrv.IsAlive() {
		return false
	}
	return v.Position.DistanceTo2(arrv.Position) <= r.RepairRange*r.RepairRange+r.Eps
}
