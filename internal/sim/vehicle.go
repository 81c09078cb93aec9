// Package sim is the per-tick kinematics and combat core. It moves vehicles,
// resolves attacks and repairs against a read-only World, and never decides
// what a vehicle should do; that is left to the caller.
package sim

import (
	"fmt"

	"github.com/armada-sim/simcore/pkg/core"
)

// Vehicle is a circular unit as the simulation sees it during one tick.
type Vehicle struct {
	ID       int64
	IsMy     bool
	Kind     core.VehicleKind
	Position core.Point
	Radius   float64

	Durability int
	RepairPool int

	MaxSpeed    float64
	VisionRange float64

	Cooldown int
	Groups   GroupSet
	Selected bool

	Intent Intent
}

// FromSnapshot builds a vehicle from the engine's view of it. The snapshot
// carries no intent, so the result is idle.
func FromSnapshot(s core.VehicleSnapshot) (*Vehicle, error) {
	if !s.Kind.Valid() {
		return nil, fmt.Errorf("vehicle %d: kind %d: %w", s.ID, int(s.Kind), core.ErrUnknownKind)
	}
	groups, err := GroupSetOf(s.Groups...)
	if err != nil {
		return nil, fmt.Errorf("vehicle %d: %w", s.ID, err)
	}
	durability := s.Durability
	if durability < 0 {
		durability = 0
	}
	cooldown := s.RemainingAttackCooldownTicks
	if cooldown < 0 {
		cooldown = 0
	}
	return &Vehicle{
		ID:          s.ID,
		IsMy:        s.IsMy,
		Kind:        s.Kind,
		Position:    s.Position,
		Radius:      s.Radius,
		Durability:  durability,
		MaxSpeed:    s.MaxSpeed,
		VisionRange: s.VisionRange,
		Cooldown:    cooldown,
		Groups:      groups,
		Selected:    s.Selected,
	}, nil
}

// Snapshot reports the vehicle the way the engine would.
func (v *Vehicle) Snapshot() core.VehicleSnapshot {
	return core.VehicleSnapshot{
		ID:                           v.ID,
		IsMy:                         v.IsMy,
		Kind:                         v.Kind,
		Position:                     v.Position,
		Radius:                       v.Radius,
		Durability:                   v.Durability,
		MaxSpeed:                     v.MaxSpeed,
		VisionRange:                  v.VisionRange,
		RemainingAttackCooldownTicks: v.Cooldown,
		Groups:                       v.Groups.IDs(),
		Selected:                     v.Selected,
	}
}

// Clone returns an independent copy.
func (v *Vehicle) Clone() *Vehicle {
	c := *v
	return &c
}

// InheritIntent carries over what the engine snapshot does not report:
// the pending intent and the repair pool of the previous tick's hypothesis.
func (v *Vehicle) InheritIntent(prev *Vehicle) {
	if prev == nil || prev.ID != v.ID {
		return
	}
	v.Intent = prev.Intent
	v.RepairPool = prev.RepairPool
}

// IsAerial reports whether the vehicle flies (fighter or helicopter).
func (v *Vehicle) IsAerial() bool {
	return v.Kind.IsAerial()
}

// IsAlive reports whether durability is above zero.
func (v *Vehicle) IsAlive() bool {
	return v.Durability > 0
}

// HasGroup reports whether the vehicle belongs to group id.
func (v *Vehicle) HasGroup(id int) bool {
	return v.Groups.Has(id)
}

// AddGroup puts the vehicle in group id.
func (v *Vehicle) AddGroup(id int) error {
	return v.Groups.Add(id)
}

// RemoveGroup takes the vehicle out of group id, leaving its other groups alone.
func (v *Vehicle) RemoveGroup(id int) error {
	return v.Groups.Remove(id)
}

// Selection picks vehicles by kind or by group. Nil fields do not match.
type Selection struct {
	Kind  *core.VehicleKind
	Group *int
}

// Matches reports whether the vehicle is picked by s.
func (v *Vehicle) Matches(s Selection) bool {
	if s.Kind != nil && *s.Kind == v.Kind {
		return true
	}
	return s.Group != nil && v.Groups.Has(*s.Group)
}
