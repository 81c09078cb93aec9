// Package rules holds the read-only game constants the simulation core is parameterized by.
package rules

import (
	"errors"
	"fmt"

	"github.com/armada-sim/simcore/internal/config"
	"github.com/armada-sim/simcore/pkg/core"
)

// ErrInvalidRules is returned when a rules configuration cannot drive a simulation.
var ErrInvalidRules = errors.New("invalid rules")

// KindStats are the base stats of one vehicle kind.
type KindStats struct {
	MaxDurability     int
	Speed             float64
	VisionRange       float64
	GroundAttackRange float64
	AerialAttackRange float64
	GroundDamage      int
	AerialDamage      int
	GroundDefence     int
	AerialDefence     int
}

// Rules is shared by every resolver call and never mutated after New.
type Rules struct {
	MapSize             float64
	Eps                 float64
	VehicleRadius       float64
	AttackCooldownTicks int
	RepairPoints        int
	RepairRange         float64

	NuclearStrikeRadius    float64
	NuclearStrikeMaxDamage float64
	NuclearStrikeDelay     int

	SwampTerrainSpeedFactor   float64
	ForestTerrainSpeedFactor  float64
	ForestTerrainVisionFactor float64
	CloudWeatherSpeedFactor   float64
	CloudWeatherVisionFactor  float64
	RainWeatherSpeedFactor    float64
	RainWeatherVisionFactor   float64

	Stats [core.VehicleKindCount]KindStats

	// indexed [attacker][target]
	AttackRange  [core.VehicleKindCount][core.VehicleKindCount]float64
	AttackDamage [core.VehicleKindCount][core.VehicleKindCount]int
}

// New validates cfg and derives the kind-pair tables from the per-kind stats.
func New(cfg config.RulesConfig) (*Rules, error) {
	r := &Rules{
		MapSize:                   cfg.MapSize,
		Eps:                       cfg.Eps,
		VehicleRadius:             cfg.VehicleRadius,
		AttackCooldownTicks:       cfg.AttackCooldownTicks,
		RepairPoints:              cfg.RepairPoints,
		RepairRange:               cfg.RepairRange,
		NuclearStrikeRadius:       cfg.NuclearStrikeRadius,
		NuclearStrikeMaxDamage:    cfg.NuclearStrikeMaxDamage,
		NuclearStrikeDelay:        cfg.NuclearStrikeDelay,
		SwampTerrainSpeedFactor:   cfg.SwampTerrainSpeedFactor,
		ForestTerrainSpeedFactor:  cfg.ForestTerrainSpeedFactor,
		ForestTerrainVisionFactor: cfg.ForestTerrainVisionFactor,
		CloudWeatherSpeedFactor:   cfg.CloudWeatherSpeedFactor,
		CloudWeatherVisionFactor:  cfg.CloudWeatherVisionFactor,
		RainWeatherSpeedFactor:    cfg.RainWeatherSpeedFactor,
		RainWeatherVisionFactor:   cfg.RainWeatherVisionFactor,
	}

	if r.MapSize <= 0 {
		return nil, fmt.Errorf("map size %v: %w", r.MapSize, ErrInvalidRules)
	}
	if r.Eps < 0 {
		return nil, fmt.Errorf("eps %v: %w", r.Eps, ErrInvalidRules)
	}
	if r.VehicleRadius <= 0 || 2*r.VehicleRadius > r.MapSize {
		return nil, fmt.Errorf("vehicle radius %v: %w", r.VehicleRadius, ErrInvalidRules)
	}
	if r.RepairPoints <= 0 {
		return nil, fmt.Errorf("repair points %d: %w", r.RepairPoints, ErrInvalidRules)
	}
	if r.AttackCooldownTicks < 0 || r.NuclearStrikeDelay < 0 {
		return nil, fmt.Errorf("negative tick constant: %w", ErrInvalidRules)
	}

	for _, kind := range core.VehicleKinds {
		s, ok := cfg.Vehicles[kind.String()]
		if !ok {
			return nil, fmt.Errorf("no stats for %s: %w", kind, ErrInvalidRules)
		}
		if s.MaxDurability <= 0 {
			return nil, fmt.Errorf("%s max durability %d: %w", kind, s.MaxDurability, ErrInvalidRules)
		}
		if s.Speed < 0 || s.VisionRange < 0 {
			return nil, fmt.Errorf("%s negative speed or vision: %w", kind, ErrInvalidRules)
		}
		r.Stats[kind] = KindStats(s)
	}

	r.buildTables()
	return r, nil
}

// Default returns the reference engine rules. It panics only if the built-in
// defaults are themselves invalid.
func Default() *Rules {
	r, err := New(config.DefaultRulesConfig())
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Rules) buildTables() {
	for _, a := range core.VehicleKinds {
		as := r.Stats[a]
		for _, t := range core.VehicleKinds {
			ts := r.Stats[t]

			var dmg int
			if t.IsAerial() {
				r.AttackRange[a][t] = as.AerialAttackRange
				dmg = as.AerialDamage
			} else {
				r.AttackRange[a][t] = as.GroundAttackRange
				dmg = as.GroundDamage
			}

			// the target defends against the attacker's layer
			if a.IsAerial() {
				dmg -= ts.AerialDefence
			} else {
				dmg -= ts.GroundDefence
			}
			if dmg < 0 {
				dmg = 0
			}
			r.AttackDamage[a][t] = dmg
		}
	}
}

// MaxDurability returns the durability cap of kind.
func (r *Rules) MaxDurability(kind core.VehicleKind) int {
	return r.Stats[kind].MaxDurability
}

// InBounds reports whether a circle of the given radius centred at p lies on the map,
// with eps tolerance on every edge.
func (r *Rules) InBounds(p core.Point, radius float64) bool {
	lo := radius - r.Eps
	hi := r.MapSize - radius + r.Eps
	return p.X >= lo && p.Y >= lo && p.X <= hi && p.Y <= hi
}
