package rules

import (
	"testing"

	"github.com/armada-sim/simcore/internal/config"
	"github.com/armada-sim/simcore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_KindPairTables(t *testing.T) {
	r := Default()

	tests := []struct {
		attacker, target core.VehicleKind
		rng              float64
		damage           int
	}{
		{core.Tank, core.Tank, 20, 20},
		{core.Tank, core.Helicopter, 18, 20},
		{core.Helicopter, core.Tank, 20, 40},
		{core.Helicopter, core.Helicopter, 18, 40},
		{core.Fighter, core.Helicopter, 20, 60},
		{core.Fighter, core.Tank, 0, 0},
		{core.Ifv, core.Fighter, 20, 10},
		{core.Ifv, core.Arrv, 18, 40},
		{core.Arrv, core.Tank, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.attacker.String()+"_vs_"+tt.target.String(), func(t *testing.T) {
			assert.Equal(t, tt.rng, r.AttackRange[tt.attacker][tt.target])
			assert.Equal(t, tt.damage, r.AttackDamage[tt.attacker][tt.target])
		})
	}
}

func TestDefault_Scalars(t *testing.T) {
	r := Default()
	assert.Equal(t, 1024.0, r.MapSize)
	assert.Equal(t, 2.0, r.VehicleRadius)
	assert.Equal(t, 60, r.AttackCooldownTicks)
	assert.Equal(t, 20, r.RepairPoints)
	assert.Equal(t, 100, r.MaxDurability(core.Ifv))
	assert.InDelta(t, 99.0, r.NuclearStrikeRadius*r.NuclearStrikeMaxDamage, 1e-9)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.RulesConfig)
	}{
		{"zero map", func(c *config.RulesConfig) { c.MapSize = 0 }},
		{"negative eps", func(c *config.RulesConfig) { c.Eps = -1 }},
		{"radius wider than map", func(c *config.RulesConfig) { c.VehicleRadius = 600 }},
		{"no repair points", func(c *config.RulesConfig) { c.RepairPoints = 0 }},
		{"negative cooldown", func(c *config.RulesConfig) { c.AttackCooldownTicks = -1 }},
		{"missing kind", func(c *config.RulesConfig) { delete(c.Vehicles, "tank") }},
		{"zero durability", func(c *config.RulesConfig) {
			s := c.Vehicles["arrv"]
			s.MaxDurability = 0
			c.Vehicles["arrv"] = s
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultRulesConfig()
			tt.mutate(&cfg)
			r, err := New(cfg)
			require.ErrorIs(t, err, ErrInvalidRules)
			assert.Nil(t, r)
		})
	}
}

func TestNew_DefenceFloorsAtZero(t *testing.T) {
	cfg := config.DefaultRulesConfig()
	s := cfg.Vehicles["tank"]
	s.GroundDefence = 500
	cfg.Vehicles["tank"] = s

	r, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, r.AttackDamage[core.Tank][core.Tank])
	assert.Equal(t, 0, r.AttackDamage[core.Ifv][core.Tank])
}

func TestInBounds(t *testing.T) {
	cfg := config.DefaultRulesConfig()
	cfg.MapSize = 100
	r, err := New(cfg)
	require.NoError(t, err)

	assert.True(t, r.InBounds(core.Point{X: 1, Y: 1}, 1))
	assert.True(t, r.InBounds(core.Point{X: 99, Y: 99}, 1))
	assert.True(t, r.InBounds(core.Point{X: 1 - r.Eps/2, Y: 50}, 1))
	assert.False(t, r.InBounds(core.Point{X: 0, Y: 50}, 1))
	assert.False(t, r.InBounds(core.Point{X: 50, Y: 99.5}, 1))
}
