package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armada-sim/simcore/internal/rules"
	"github.com/armada-sim/simcore/internal/sim"
	"github.com/armada-sim/simcore/pkg/core"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

const skirmish = `{
	"name": "skirmish",
	"ticks": 120,
	"origin": {"lon": 13.4, "lat": 52.5},
	"environment": {
		"cellSize": 512,
		"terrain": [["plain", "forest"], ["swamp", "plain"]],
		"weather": [["clear", "rain"], ["cloud", "clear"]]
	},
	"vehicles": [
		{"id": 3, "mine": false, "kind": "tank", "x": 200, "y": 100},
		{"id": 1, "mine": true, "kind": "ifv", "x": 100, "y": 100, "groups": [1, 4], "selected": true},
		{"id": 2, "mine": true, "kind": "arrv", "x": 100, "y": 110, "durability": 40, "cooldown": 5}
	],
	"orders": [
		{"tick": 10, "type": "nuclear", "x": 200, "y": 100},
		{"tick": 0, "type": "move", "ids": [1], "x": 180, "y": 100, "maxSpeed": 0.2},
		{"tick": 0, "type": "rotate", "group": 4, "x": 100, "y": 120, "angle": 1.5},
		{"tick": 5, "type": "assign", "kind": "arrv", "group": 7},
		{"tick": 6, "type": "stop"}
	]
}`

func TestOpen_Skirmish(t *testing.T) {
	s, err := Open(writeScenario(t, skirmish), rules.Default())
	require.NoError(t, err)

	assert.Equal(t, "skirmish", s.Name)
	assert.Equal(t, uint(120), s.Ticks)
	require.NotNil(t, s.Origin)
	assert.InDelta(t, 52.5, s.Origin.Lat, 1e-9)
	assert.NotEmpty(t, s.Path)

	require.Len(t, s.Vehicles, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{s.Vehicles[0].ID, s.Vehicles[1].ID, s.Vehicles[2].ID})

	ifv := s.Vehicles[0]
	assert.True(t, ifv.IsMy)
	assert.Equal(t, core.Ifv, ifv.Kind)
	assert.Equal(t, 100, ifv.Durability)
	assert.Equal(t, []int{1, 4}, ifv.Groups.IDs())
	assert.True(t, ifv.Selected)
	assert.InDelta(t, 0.4, ifv.MaxSpeed, 1e-9)
	assert.InDelta(t, 2.0, ifv.Radius, 1e-9)

	arrv := s.Vehicles[1]
	assert.Equal(t, 40, arrv.Durability)
	assert.Equal(t, 5, arrv.Cooldown)

	require.Len(t, s.Orders, 5)
	ticks := make([]uint, len(s.Orders))
	for i, o := range s.Orders {
		ticks[i] = o.Tick
	}
	assert.Equal(t, []uint{0, 0, 5, 6, 10}, ticks)
	assert.Equal(t, OrderMove, s.Orders[0].Type)
	assert.Equal(t, OrderRotate, s.Orders[1].Type)

	assert.Equal(t, core.Forest, s.Environment.Terrain(600, 10))
	assert.Equal(t, core.Cloud, s.Environment.Weather(10, 600))
}

func TestOrder_Picks(t *testing.T) {
	s, err := Open(writeScenario(t, skirmish), rules.Default())
	require.NoError(t, err)
	ifv, arrv, tank := s.Vehicles[0], s.Vehicles[1], s.Vehicles[2]

	move := s.Orders[0]
	assert.True(t, move.Picks(ifv))
	assert.False(t, move.Picks(tank))

	rotate := s.Orders[1]
	require.NotNil(t, rotate.Selection.Group)
	assert.True(t, rotate.Picks(ifv))
	assert.False(t, rotate.Picks(arrv))

	assign := s.Orders[2]
	assert.Equal(t, 7, assign.Group)
	assert.Nil(t, assign.Selection.Group, "assign group is the target, not a selector")
	assert.True(t, assign.Picks(arrv))
	assert.False(t, assign.Picks(ifv))

	stop := s.Orders[3]
	assert.False(t, stop.Explicit())
	assert.True(t, stop.Picks(ifv), "selected vehicle")
	assert.False(t, stop.Picks(tank))
}

func TestOpen_UniformEnvironmentByDefault(t *testing.T) {
	s, err := Open(writeScenario(t, `{
		"name": "bare", "ticks": 1,
		"vehicles": [{"id": 1, "mine": true, "kind": "fighter", "x": 50, "y": 50}]
	}`), rules.Default())
	require.NoError(t, err)

	assert.Equal(t, sim.Uniform{}, s.Environment)
	assert.Nil(t, s.Origin)
	assert.Empty(t, s.Orders)
}

func TestOpen_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no name", `{"ticks": 1, "vehicles": [{"id": 1, "kind": "tank", "x": 10, "y": 10}]}`},
		{"no ticks", `{"name": "x", "vehicles": [{"id": 1, "kind": "tank", "x": 10, "y": 10}]}`},
		{"no vehicles", `{"name": "x", "ticks": 5}`},
		{"zero id", `{"name": "x", "ticks": 5, "vehicles": [{"id": 0, "kind": "tank", "x": 10, "y": 10}]}`},
		{"duplicate id", `{"name": "x", "ticks": 5, "vehicles": [
			{"id": 1, "kind": "tank", "x": 10, "y": 10}, {"id": 1, "kind": "ifv", "x": 20, "y": 10}]}`},
		{"overlap", `{"name": "x", "ticks": 5, "vehicles": [
			{"id": 1, "kind": "tank", "x": 10, "y": 10}, {"id": 2, "kind": "ifv", "x": 13, "y": 10}]}`},
		{"unknown kind", `{"name": "x", "ticks": 5, "vehicles": [{"id": 1, "kind": "submarine", "x": 10, "y": 10}]}`},
		{"off map", `{"name": "x", "ticks": 5, "vehicles": [{"id": 1, "kind": "tank", "x": 1, "y": 10}]}`},
		{"over durability", `{"name": "x", "ticks": 5, "vehicles": [{"id": 1, "kind": "tank", "x": 10, "y": 10, "durability": 101}]}`},
		{"bad group", `{"name": "x", "ticks": 5, "vehicles": [{"id": 1, "kind": "tank", "x": 10, "y": 10, "groups": [32]}]}`},
		{"bad terrain", `{"name": "x", "ticks": 5, "environment": {"terrain": [["lava"]]},
			"vehicles": [{"id": 1, "kind": "tank", "x": 10, "y": 10}]}`},
		{"ragged terrain", `{"name": "x", "ticks": 5, "environment": {"terrain": [["plain", "plain"], ["plain"]]},
			"vehicles": [{"id": 1, "kind": "tank", "x": 10, "y": 10}]}`},
		{"bad origin", `{"name": "x", "ticks": 5, "origin": {"lon": 0, "lat": 89},
			"vehicles": [{"id": 1, "kind": "tank", "x": 10, "y": 10}]}`},
		{"unknown order", `{"name": "x", "ticks": 5, "vehicles": [{"id": 1, "kind": "tank", "x": 10, "y": 10}],
			"orders": [{"tick": 0, "type": "teleport"}]}`},
		{"order after end", `{"name": "x", "ticks": 5, "vehicles": [{"id": 1, "kind": "tank", "x": 10, "y": 10}],
			"orders": [{"tick": 5, "type": "stop"}]}`},
		{"order unknown id", `{"name": "x", "ticks": 5, "vehicles": [{"id": 1, "kind": "tank", "x": 10, "y": 10}],
			"orders": [{"tick": 0, "type": "stop", "ids": [9]}]}`},
		{"assign without group", `{"name": "x", "ticks": 5, "vehicles": [{"id": 1, "kind": "tank", "x": 10, "y": 10}],
			"orders": [{"tick": 0, "type": "assign", "ids": [1]}]}`},
		{"rotate zero angle", `{"name": "x", "ticks": 5, "vehicles": [{"id": 1, "kind": "tank", "x": 10, "y": 10}],
			"orders": [{"tick": 0, "type": "rotate", "ids": [1], "x": 20, "y": 20}]}`},
		{"nuclear off map", `{"name": "x", "ticks": 5, "vehicles": [{"id": 1, "kind": "tank", "x": 10, "y": 10}],
			"orders": [{"tick": 0, "type": "nuclear", "x": -5, "y": 20}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(writeScenario(t, tt.body), rules.Default())
			assert.ErrorIs(t, err, ErrInvalidScenario)
		})
	}
}

func TestOpen_GroupErrorKeepsSentinel(t *testing.T) {
	_, err := Open(writeScenario(t, `{"name": "x", "ticks": 5,
		"vehicles": [{"id": 1, "kind": "tank", "x": 10, "y": 10}],
		"orders": [{"tick": 0, "type": "move", "group": 40, "x": 20, "y": 20}]}`), rules.Default())
	assert.ErrorIs(t, err, ErrInvalidScenario)
	assert.ErrorIs(t, err, sim.ErrGroupOutOfRange)
}

func TestOpen_AerialAboveGroundIsNotOverlap(t *testing.T) {
	s, err := Open(writeScenario(t, `{"name": "x", "ticks": 5, "vehicles": [
		{"id": 1, "kind": "tank", "x": 10, "y": 10}, {"id": 2, "kind": "helicopter", "x": 10, "y": 10}]}`), rules.Default())
	require.NoError(t, err)
	assert.Len(t, s.Vehicles, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
