package convert

import (
	"testing"
	"time"

	"github.com/armada-sim/simcore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// Round-trip: Core → GORM → Core
func TestRunRoundTrip(t *testing.T) {
	r := core.Run{
		ID:           4,
		Name:         "skirmish",
		ScenarioPath: "scenarios/skirmish.json",
		StartTime:    now,
		Ticks:        600,
		MapSize:      1024,
		Tag:          "ci",
		Rules:        map[string]any{"mapSize": 1024.0},
		Origin:       &core.LonLat{Lon: 30.3, Lat: 59.9},
	}

	m := CoreToRun(r)
	assert.Equal(t, uint(4), m.ID)
	assert.True(t, m.OriginLon.Valid)
	assert.JSONEq(t, `{"mapSize":1024}`, string(m.Rules))

	assert.Equal(t, r, RunToCore(m))
}

func TestCoreToRun_NoOriginNoRules(t *testing.T) {
	m := CoreToRun(core.Run{Name: "bare"})
	assert.False(t, m.OriginLon.Valid)
	assert.False(t, m.OriginLat.Valid)
	assert.Equal(t, datatypes.JSON("{}"), m.Rules)

	back := RunToCore(m)
	assert.Nil(t, back.Origin)
	assert.Empty(t, back.Rules)
}

func TestVehicleRoundTrip(t *testing.T) {
	v := core.Vehicle{ID: 17, RunID: 2, JoinTime: now, JoinTick: 0, Kind: core.Helicopter, IsMy: true, Radius: 2}

	m := CoreToVehicle(v)
	assert.Equal(t, int64(17), m.ObjectID)
	assert.Equal(t, "helicopter", m.Kind)

	assert.Equal(t, v, VehicleToCore(m))
}

func TestVehicleStateRoundTrip(t *testing.T) {
	s := core.VehicleState{
		VehicleID:    3,
		RunID:        1,
		Time:         now,
		Tick:         42,
		Position:     core.Point{X: 120.5, Y: 80.25},
		Durability:   85,
		RepairPool:   7,
		Cooldown:     12,
		Groups:       []int{1, 5},
		Moving:       true,
		ActualSpeed:  0.5,
		ActualVision: 60,
	}

	m := CoreToVehicleState(s)
	assert.JSONEq(t, `[1,5]`, string(m.Groups))
	coords, ok := m.Position.Coordinates()
	require.True(t, ok)
	assert.Equal(t, 120.5, coords.X)

	assert.Equal(t, s, VehicleStateToCore(m))
}

func TestCoreToVehicleState_NoGroups(t *testing.T) {
	m := CoreToVehicleState(core.VehicleState{VehicleID: 1})
	assert.Equal(t, datatypes.JSON("[]"), m.Groups)
	assert.Empty(t, VehicleStateToCore(m).Groups)
}

func TestAttackEventRoundTrip(t *testing.T) {
	e := core.AttackEvent{RunID: 1, Time: now, Tick: 9, AttackerID: 1, TargetID: 2, Damage: 20, Distance: 15}
	assert.Equal(t, e, AttackEventToCore(CoreToAttackEvent(e)))
}

func TestNuclearStrikeEventRoundTrip(t *testing.T) {
	e := core.NuclearStrikeEvent{
		RunID:       1,
		Time:        now,
		Tick:        30,
		OrderedTick: 0,
		Center:      core.Point{X: 500, Y: 500},
		Radius:      50,
		Hits:        []core.NuclearHit{{VehicleID: 4, Damage: 99}, {VehicleID: 9, Damage: 49}},
	}

	m := CoreToNuclearStrikeEvent(e)
	assert.Equal(t, 148, m.TotalDamage)

	assert.Equal(t, e, NuclearStrikeEventToCore(m))
}

func TestCoreToNuclearStrikeEvent_NoHits(t *testing.T) {
	m := CoreToNuclearStrikeEvent(core.NuclearStrikeEvent{Radius: 50})
	assert.Equal(t, datatypes.JSON("[]"), m.Hits)
	assert.Zero(t, m.TotalDamage)
}

func TestKillEvent_Killer(t *testing.T) {
	killer := int64(8)
	e := core.KillEvent{RunID: 1, Time: now, Tick: 11, VictimID: 3, KillerID: &killer, Position: core.Point{X: 1, Y: 2}, EventText: "attack"}

	m := CoreToKillEvent(e)
	assert.True(t, m.KillerObjectID.Valid)
	assert.Equal(t, int64(8), m.KillerObjectID.Int64)

	assert.Equal(t, e, KillEventToCore(m))
}

func TestKillEvent_NuclearHasNoKiller(t *testing.T) {
	m := CoreToKillEvent(core.KillEvent{VictimID: 3, EventText: "nuclear"})
	assert.False(t, m.KillerObjectID.Valid)
	assert.Nil(t, KillEventToCore(m).KillerID)
}
