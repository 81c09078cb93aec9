package sim

import (
	"errors"

	"github.com/armada-sim/simcore/internal/rules"
	"github.com/armada-sim/simcore/pkg/core"
)

// ErrDegeneratePivot is returned when a rotation pivot sits on the vehicle's center.
var ErrDegeneratePivot = errors.New("rotation pivot coincides with vehicle")

// Intent is the pending movement goal of a vehicle. A nil Intent means idle.
// Implementations are Translate and Rotate; both are plain values so that
// cloning a vehicle never shares intent state.
type Intent interface {
	isIntent()
}

// Translate moves the vehicle in a straight line to Target.
// MaxSpeed caps the per-tick distance; 0 means no cap.
type Translate struct {
	Target   core.Point
	MaxSpeed float64
}

// Rotate turns the vehicle about Pivot by the signed remaining Angle (radians,
// positive is counter-clockwise). MaxSpeed caps linear speed and MaxAngularSpeed
// caps radians per tick; 0 means no cap.
type Rotate struct {
	Pivot           core.Point
	Angle           float64
	MaxSpeed        float64
	MaxAngularSpeed float64
}

func (Translate) isIntent() {}
func (Rotate) isIntent()    {}

// MoveTo replaces the current intent with a translation to target.
func (v *Vehicle) MoveTo(target core.Point, maxSpeed float64) {
	v.Intent = Translate{Target: target, MaxSpeed: maxSpeed}
}

// RotateAround replaces the current intent with a rotation about pivot.
// A pivot within eps of the vehicle is refused and the intent is left unchanged.
func (v *Vehicle) RotateAround(r *rules.Rules, pivot core.Point, angle, maxSpeed, maxAngularSpeed float64) error {
	if v.Position.DistanceTo(pivot) <= r.Eps {
		return ErrDegeneratePivot
	}
	v.Intent = Rotate{Pivot: pivot, Angle: angle, MaxSpeed: maxSpeed, MaxAngularSpeed: maxAngularSpeed}
	return nil
}

// ClearIntent drops any pending movement.
func (v *Vehicle) ClearIntent() {
	v.Intent = nil
}

// IsMoving reports whether the vehicle has a pending intent.
func (v *Vehicle) IsMoving() bool {
	return v.Intent != nil
}

// speedCap returns the linear speed cap of the current intent, 0 when there is none.
func (v *Vehicle) speedCap() float64 {
	switch in := v.Intent.(type) {
	case Translate:
		return in.MaxSpeed
	case Rotate:
		return in.MaxSpeed
	}
	return 0
}
