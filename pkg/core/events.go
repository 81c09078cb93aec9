// pkg/core/events.go
package core

import "time"

// AttackEvent records one directed attack.
type AttackEvent struct {
	RunID      uint      `json:"runId"`
	Time       time.Time `json:"time"`
	Tick       uint      `json:"tick"`
	AttackerID int64     `json:"attackerId"`
	TargetID   int64     `json:"targetId"`
	Damage     int       `json:"damage"`
	Distance   float64   `json:"distance"`
}

// NuclearStrikeEvent records a detonated area strike and everything it hit.
type NuclearStrikeEvent struct {
	RunID       uint         `json:"runId"`
	Time        time.Time    `json:"time"`
	Tick        uint         `json:"tick"`
	OrderedTick uint         `json:"orderedTick"`
	Center      Point        `json:"center"`
	Radius      float64      `json:"radius"`
	Hits        []NuclearHit `json:"hits"`
}

// NuclearHit is the damage a single vehicle took from a strike.
type NuclearHit struct {
	VehicleID int64 `json:"vehicleId"`
	Damage    int   `json:"damage"`
}

// TotalDamage sums the damage over all hits.
func (e NuclearStrikeEvent) TotalDamage() int {
	total := 0
	for _, h := range e.Hits {
		total += h.Damage
	}
	return total
}

// KillEvent records a vehicle whose durability reached zero.
// KillerID is nil when the vehicle died to a nuclear strike.
type KillEvent struct {
	RunID     uint      `json:"runId"`
	Time      time.Time `json:"time"`
	Tick      uint      `json:"tick"`
	VictimID  int64     `json:"victimId"`
	KillerID  *int64    `json:"killerId,omitempty"`
	Position  Point     `json:"position"`
	EventText string    `json:"eventText"`
}

// TickStats summarizes one simulated tick.
type TickStats struct {
	RunID         uint          `json:"runId"`
	RunName       string        `json:"runName"`
	Tick          uint          `json:"tick"`
	Time          time.Time     `json:"time"`
	MovesAccepted int           `json:"movesAccepted"`
	MovesRejected int           `json:"movesRejected"`
	Attacks       int           `json:"attacks"`
	Damage        int           `json:"damage"`
	Repaired      int           `json:"repaired"`
	AliveMine     int           `json:"aliveMine"`
	AliveEnemy    int           `json:"aliveEnemy"`
	Duration      time.Duration `json:"duration"`
}
