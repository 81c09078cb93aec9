package convert

import (
	"encoding/json"

	"github.com/armada-sim/simcore/internal/geo"
	"github.com/armada-sim/simcore/internal/model"
	"github.com/armada-sim/simcore/pkg/core"
)

// RunToCore converts a GORM model.Run to a core.Run.
func RunToCore(m model.Run) core.Run {
	r := core.Run{
		ID:           m.ID,
		Name:         m.Name,
		ScenarioPath: m.ScenarioPath,
		StartTime:    m.StartTime,
		Ticks:        m.Ticks,
		MapSize:      m.MapSize,
		Tag:          m.Tag,
	}
	if len(m.Rules) > 0 {
		_ = json.Unmarshal(m.Rules, &r.Rules)
	}
	if m.OriginLon.Valid && m.OriginLat.Valid {
		r.Origin = &core.LonLat{Lon: m.OriginLon.Float64, Lat: m.OriginLat.Float64}
	}
	return r
}

// VehicleToCore converts a GORM model.Vehicle to a core.Vehicle.
// An unknown kind name decodes to the zero kind.
func VehicleToCore(m model.Vehicle) core.Vehicle {
	kind, _ := core.ParseVehicleKind(m.Kind)
	return core.Vehicle{
		ID:       m.ObjectID,
		RunID:    m.RunID,
		JoinTime: m.JoinTime,
		JoinTick: m.JoinTick,
		Kind:     kind,
		IsMy:     m.IsMy,
		Radius:   m.Radius,
	}
}

// VehicleStateToCore converts a GORM model.VehicleState to a core.VehicleState.
func VehicleStateToCore(m model.VehicleState) core.VehicleState {
	var groups []int
	if len(m.Groups) > 0 {
		_ = json.Unmarshal(m.Groups, &groups)
	}
	return core.VehicleState{
		VehicleID:    m.VehicleObjectID,
		RunID:        m.RunID,
		Time:         m.Time,
		Tick:         m.Tick,
		Position:     geo.PointToCore(m.Position),
		Durability:   m.Durability,
		RepairPool:   m.RepairPool,
		Cooldown:     m.Cooldown,
		Groups:       groups,
		Moving:       m.Moving,
		Rotating:     m.Rotating,
		ActualSpeed:  float64(m.ActualSpeed),
		ActualVision: float64(m.ActualVision),
		MoveRejected: m.MoveRejected,
	}
}

// AttackEventToCore converts a GORM model.AttackEvent to a core.AttackEvent.
func AttackEventToCore(m model.AttackEvent) core.AttackEvent {
	return core.AttackEvent{
		RunID:      m.RunID,
		Time:       m.Time,
		Tick:       m.Tick,
		AttackerID: m.AttackerObjectID,
		TargetID:   m.TargetObjectID,
		Damage:     m.Damage,
		Distance:   float64(m.Distance),
	}
}

// NuclearStrikeEventToCore converts a GORM model.NuclearStrikeEvent to a core.NuclearStrikeEvent.
func NuclearStrikeEventToCore(m model.NuclearStrikeEvent) core.NuclearStrikeEvent {
	e := core.NuclearStrikeEvent{
		RunID:       m.RunID,
		Time:        m.Time,
		Tick:        m.Tick,
		OrderedTick: m.OrderedTick,
		Center:      geo.PointToCore(m.Center),
		Radius:      m.Radius,
	}
	if len(m.Hits) > 0 {
		_ = json.Unmarshal(m.Hits, &e.Hits)
	}
	return e
}

// KillEventToCore converts a GORM model.KillEvent to a core.KillEvent.
func KillEventToCore(m model.KillEvent) core.KillEvent {
	e := core.KillEvent{
		RunID:     m.RunID,
		Time:      m.Time,
		Tick:      m.Tick,
		VictimID:  m.VictimObjectID,
		Position:  geo.PointToCore(m.Position),
		EventText: m.EventText,
	}
	if m.KillerObjectID.Valid {
		killer := m.KillerObjectID.Int64
		e.KillerID = &killer
	}
	return e
}
