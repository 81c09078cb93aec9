package sim

import (
	"testing"

	"github.com/armada-sim/simcore/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestRepair_RollsOverAfterRepairPoints(t *testing.T) {
	r := testRules(t, nil)
	v := newVehicle(1, core.Tank, 50, 50)
	v.Durability = 50

	for i := 1; i < r.RepairPoints; i++ {
		assert.False(t, v.Repair(r))
		assert.Equal(t, 50, v.Durability)
		assert.Equal(t, i, v.RepairPool)
	}
	assert.True(t, v.Repair(r))
	assert.Equal(t, 51, v.Durability)
	assert.Equal(t, 0, v.RepairPool)
}

func TestRepair_NoopAtFullDurability(t *testing.T) {
	r := testRules(t, nil)
	v := newVehicle(1, core.Tank, 50, 50)

	assert.False(t, v.Repair(r))
	assert.Equal(t, 100, v.Durability)
	assert.Equal(t, 0, v.RepairPool)
}

func TestFullDurability(t *testing.T) {
	r := testRules(t, nil)
	v := newVehicle(1, core.Ifv, 50, 50)
	v.Durability = 50
	v.RepairPool = 5

	assert.Equal(t, 50.25, v.FullDurability(r))
}

func TestRepairedBy(t *testing.T) {
	r := testRules(t, nil)
	tank := newVehicle(1, core.Tank, 50, 50)

	near := newVehicle(2, core.Arrv, 58, 50)
	assert.True(t, tank.RepairedBy(r, near))

	assert.True(t, tank.RepairedBy(r, newVehicle(3, core.Arrv, 60, 50)), "edge of repair range")
	assert.False(t, tank.RepairedBy(r, newVehicle(4, core.Arrv, 61, 50)))
	assert.False(t, tank.RepairedBy(r, newVehicle(5, core.Ifv, 55, 50)))

	enemy := newVehicle(6, core.Arrv, 55, 50)
	enemy.IsMy = false
	assert.False(t, tank.RepairedBy(r, enemy))

	dead := newVehicle(7, core.Arrv, 55, 50)
	dead.Durability = 0
	assert.False(t, tank.RepairedBy(r, dead))

	arrv := newVehicle(8, core.Arrv, 50, 50)
	assert.False(t, arrv.RepairedBy(r, arrv))
}
