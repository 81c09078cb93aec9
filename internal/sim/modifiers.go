package sim

import "github.com/armada-sim/simcore/pkg/core"

// speedFactor is the environment multiplier on linear speed at the vehicle's position.
// Aerial kinds are slowed by weather, ground kinds by terrain.
func (v *Vehicle) speedFactor(w World) float64 {
	r := w.Rules
	if v.IsAerial() {
		switch w.weather(v.Position) {
		case core.Cloud:
			return r.CloudWeatherSpeedFactor
		case core.Rain:
			return r.RainWeatherSpeedFactor
		}
		return 1
	}
	switch w.terrain(v.Position) {
	case core.Swamp:
		return r.SwampTerrainSpeedFactor
	case core.Forest:
		return r.ForestTerrainSpeedFactor
	}
	return 1
}

// visionFactor mirrors speedFactor, except swamp does not limit vision.
func (v *Vehicle) visionFactor(w World) float64 {
	r := w.Rules
	if v.IsAerial() {
		switch w.weather(v.Position) {
		case core.Cloud:
			return r.CloudWeatherVisionFactor
		case core.Rain:
			return r.RainWeatherVisionFactor
		}
		return 1
	}
	if w.terrain(v.Position) == core.Forest {
		return r.ForestTerrainVisionFactor
	}
	return 1
}

// ActualSpeed is the distance the vehicle may cover this tick. The intent's
// speed cap only ever lowers it.
func (v *Vehicle) ActualSpeed(w World) float64 {
	speed := v.MaxSpeed * v.speedFactor(w)
	if c := v.speedCap(); c > 0 && c < speed {
		speed = c
	}
	return speed
}

// ActualAngularSpeed is the angle in radians the vehicle may turn this tick
// about its rotation pivot. It is 0 when the vehicle is not rotating or sits
// on its pivot.
func (v *Vehicle) ActualAngularSpeed(w World) float64 {
	in, ok := v.Intent.(Rotate)
	if !ok {
		return 0
	}
	dist := v.Position.DistanceTo(in.Pivot)
	if dist <= w.Rules.Eps {
		return 0
	}
	return angularSpeed(v.ActualSpeed(w), dist, in.MaxAngularSpeed)
}

func angularSpeed(speed, pivotDist, limit float64) float64 {
	angle := speed / pivotDist
	if limit > 0 && limit < angle {
		angle = limit
	}
	return angle
}

// ActualVisionRange is the base vision range under the local environment.
func (v *Vehicle) ActualVisionRange(w World) float64 {
	return v.VisionRange * v.visionFactor(w)
}
