// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"database/sql"
	"encoding/json"

	"github.com/armada-sim/simcore/internal/geo"
	"github.com/armada-sim/simcore/internal/model"
	"github.com/armada-sim/simcore/pkg/core"
	"gorm.io/datatypes"
)

// groupsToJSON converts group ids to datatypes.JSON for DB storage.
func groupsToJSON(groups []int) datatypes.JSON {
	if len(groups) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(groups)
	return datatypes.JSON(data)
}

func toJSON(v any, empty string) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return datatypes.JSON(empty)
	}
	return datatypes.JSON(data)
}

// CoreToRun converts a core.Run to a GORM model.Run.
func CoreToRun(r core.Run) model.Run {
	m := model.Run{
		Name:         r.Name,
		ScenarioPath: r.ScenarioPath,
		StartTime:    r.StartTime,
		Ticks:        r.Ticks,
		MapSize:      r.MapSize,
		Tag:          r.Tag,
		Rules:        toJSON(r.Rules, "{}"),
	}
	m.ID = r.ID
	if r.Origin != nil {
		m.OriginLon = sql.NullFloat64{Float64: r.Origin.Lon, Valid: true}
		m.OriginLat = sql.NullFloat64{Float64: r.Origin.Lat, Valid: true}
	}
	return m
}

// CoreToVehicle converts a core.Vehicle to a GORM model.Vehicle.
// core.Vehicle.ID maps to GORM Vehicle.ObjectID.
func CoreToVehicle(v core.Vehicle) model.Vehicle {
	return model.Vehicle{
		RunID:    v.RunID,
		ObjectID: v.ID,
		JoinTime: v.JoinTime,
		JoinTick: v.JoinTick,
		Kind:     v.Kind.String(),
		IsMy:     v.IsMy,
		Radius:   v.Radius,
	}
}

// CoreToVehicleState converts a core.VehicleState to a GORM model.VehicleState.
func CoreToVehicleState(s core.VehicleState) model.VehicleState {
	return model.VehicleState{
		Time:            s.Time,
		RunID:           s.RunID,
		Tick:            s.Tick,
		VehicleObjectID: s.VehicleID,
		Position:        geo.PointFromCore(s.Position),
		Durability:      s.Durability,
		RepairPool:      s.RepairPool,
		Cooldown:        s.Cooldown,
		Groups:          groupsToJSON(s.Groups),
		Moving:          s.Moving,
		Rotating:        s.Rotating,
		ActualSpeed:     float32(s.ActualSpeed),
		ActualVision:    float32(s.ActualVision),
		MoveRejected:    s.MoveRejected,
	}
}

// CoreToAttackEvent converts a core.AttackEvent to a GORM model.AttackEvent.
func CoreToAttackEvent(e core.AttackEvent) model.AttackEvent {
	return model.AttackEvent{
		Time:             e.Time,
		RunID:            e.RunID,
		Tick:             e.Tick,
		AttackerObjectID: e.AttackerID,
		TargetObjectID:   e.TargetID,
		Damage:           e.Damage,
		Distance:         float32(e.Distance),
	}
}

// CoreToNuclearStrikeEvent converts a core.NuclearStrikeEvent to a GORM model.NuclearStrikeEvent.
func CoreToNuclearStrikeEvent(e core.NuclearStrikeEvent) model.NuclearStrikeEvent {
	return model.NuclearStrikeEvent{
		Time:        e.Time,
		RunID:       e.RunID,
		Tick:        e.Tick,
		OrderedTick: e.OrderedTick,
		Center:      geo.PointFromCore(e.Center),
		Radius:      e.Radius,
		Hits:        toJSON(e.Hits, "[]"),
		TotalDamage: e.TotalDamage(),
	}
}

// CoreToKillEvent converts a core.KillEvent to a GORM model.KillEvent.
func CoreToKillEvent(e core.KillEvent) model.KillEvent {
	m := model.KillEvent{
		Time:           e.Time,
		RunID:          e.RunID,
		Tick:           e.Tick,
		VictimObjectID: e.VictimID,
		Position:       geo.PointFromCore(e.Position),
		EventText:      e.EventText,
	}
	if e.KillerID != nil {
		m.KillerObjectID = sql.NullInt64{Int64: *e.KillerID, Valid: true}
	}
	return m
}
