package sim

import (
	"testing"

	"github.com/armada-sim/simcore/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestActualSpeed_Environment(t *testing.T) {
	r := testRules(t, nil)

	tests := []struct {
		name string
		kind core.VehicleKind
		env  Uniform
		want float64
	}{
		{"tank plain", core.Tank, Uniform{core.Plain, core.Clear}, 0.3},
		{"tank swamp", core.Tank, Uniform{core.Swamp, core.Clear}, 0.3 * 0.6},
		{"tank forest", core.Tank, Uniform{core.Forest, core.Rain}, 0.3 * 0.8},
		{"fighter cloud", core.Fighter, Uniform{core.Swamp, core.Cloud}, 1.2 * 0.8},
		{"fighter rain", core.Fighter, Uniform{core.Plain, core.Rain}, 1.2 * 0.6},
		{"helicopter swamp clear", core.Helicopter, Uniform{core.Swamp, core.Clear}, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newVehicle(1, tt.kind, 50, 50)
			assert.InDelta(t, tt.want, v.ActualSpeed(World{Rules: r, Env: tt.env}), 1e-12)
		})
	}
}

func TestActualSpeed_CapOnlyLowers(t *testing.T) {
	r := testRules(t, nil)
	w := World{Rules: r}
	v := newVehicle(1, core.Fighter, 50, 50)

	v.MoveTo(core.Point{X: 90, Y: 50}, 0.5)
	assert.Equal(t, 0.5, v.ActualSpeed(w))

	v.MoveTo(core.Point{X: 90, Y: 50}, 5)
	assert.Equal(t, 1.2, v.ActualSpeed(w))

	v.MoveTo(core.Point{X: 90, Y: 50}, 0)
	assert.Equal(t, 1.2, v.ActualSpeed(w))
}

func TestActualAngularSpeed(t *testing.T) {
	r := testRules(t, nil)
	w := World{Rules: r}
	v := newVehicle(1, core.Helicopter, 50, 50)
	assert.Equal(t, 0.0, v.ActualAngularSpeed(w))

	v.Intent = Rotate{Pivot: core.Point{X: 59, Y: 50}, Angle: 1}
	assert.InDelta(t, 0.1, v.ActualAngularSpeed(w), 1e-12)

	v.Intent = Rotate{Pivot: core.Point{X: 59, Y: 50}, Angle: 1, MaxAngularSpeed: 0.05}
	assert.Equal(t, 0.05, v.ActualAngularSpeed(w))

	v.Intent = Rotate{Pivot: core.Point{X: 59, Y: 50}, Angle: 1, MaxAngularSpeed: 0.5}
	assert.InDelta(t, 0.1, v.ActualAngularSpeed(w), 1e-12)

	v.Intent = Rotate{Pivot: core.Point{X: 59, Y: 50}, Angle: 1, MaxSpeed: 0.45}
	assert.InDelta(t, 0.05, v.ActualAngularSpeed(w), 1e-12)

	v.Intent = Rotate{Pivot: v.Position, Angle: 1}
	assert.Equal(t, 0.0, v.ActualAngularSpeed(w))
}

func TestActualVisionRange(t *testing.T) {
	r := testRules(t, nil)

	tank := newVehicle(1, core.Tank, 50, 50)
	assert.Equal(t, 80.0, tank.ActualVisionRange(World{Rules: r, Env: Uniform{core.Swamp, core.Rain}}))
	assert.InDelta(t, 64.0, tank.ActualVisionRange(World{Rules: r, Env: Uniform{core.Forest, core.Clear}}), 1e-12)

	heli := newVehicle(2, core.Helicopter, 50, 50)
	assert.InDelta(t, 80.0, heli.ActualVisionRange(World{Rules: r, Env: Uniform{core.Forest, core.Cloud}}), 1e-12)
	assert.InDelta(t, 60.0, heli.ActualVisionRange(World{Rules: r, Env: Uniform{core.Plain, core.Rain}}), 1e-12)
	assert.Equal(t, 100.0, heli.ActualVisionRange(World{Rules: r}))
}

func TestActualSpeed_FollowsPosition(t *testing.T) {
	r := testRules(t, nil)
	env, err := NewGridEnvironment(50, [][]core.TerrainType{{core.Plain, core.Swamp}}, nil)
	if !assert.NoError(t, err) {
		return
	}
	w := World{Rules: r, Env: env}

	v := newVehicle(1, core.Ifv, 25, 25)
	assert.InDelta(t, 0.4, v.ActualSpeed(w), 1e-12)
	v.Position.X = 75
	assert.InDelta(t, 0.24, v.ActualSpeed(w), 1e-12)
}
