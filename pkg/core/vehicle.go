// pkg/core/vehicle.go
package core

import "time"

// VehicleSnapshot is the engine's authoritative view of a vehicle at the start of a tick.
// It does not report movement intent; that lives only in the agent's own hypothesis.
type VehicleSnapshot struct {
	ID                           int64       `json:"id"`
	IsMy                         bool        `json:"isMy"`
	Kind                         VehicleKind `json:"kind"`
	Position                     Point       `json:"position"`
	Radius                       float64     `json:"radius"`
	Durability                   int         `json:"durability"`
	MaxSpeed                     float64     `json:"maxSpeed"`
	VisionRange                  float64     `json:"visionRange"`
	RemainingAttackCooldownTicks int         `json:"remainingAttackCooldownTicks"`
	Groups                       []int       `json:"groups"`
	Selected                     bool        `json:"selected"`
}

// Vehicle is the registration record of a vehicle taking part in a run.
type Vehicle struct {
	ID       int64       `json:"id"`
	RunID    uint        `json:"runId"`
	JoinTime time.Time   `json:"joinTime"`
	JoinTick uint        `json:"joinTick"`
	Kind     VehicleKind `json:"kind"`
	IsMy     bool        `json:"isMy"`
	Radius   float64     `json:"radius"`
}

// VehicleState is a vehicle's recorded state at the end of a tick.
type VehicleState struct {
	VehicleID    int64     `json:"vehicleId"`
	RunID        uint      `json:"runId"`
	Time         time.Time `json:"time"`
	Tick         uint      `json:"tick"`
	Position     Point     `json:"position"`
	Durability   int       `json:"durability"`
	RepairPool   int       `json:"repairPool"`
	Cooldown     int       `json:"cooldown"`
	Groups       []int     `json:"groups"`
	Moving       bool      `json:"moving"`
	Rotating     bool      `json:"rotating"`
	ActualSpeed  float64   `json:"actualSpeed"`
	ActualVision float64   `json:"actualVision"`
	MoveRejected bool      `json:"moveRejected"`
}
