// pkg/core/run.go
package core

import "time"

// Run is one execution of a scenario through the simulator.
type Run struct {
	ID           uint           `json:"id"`
	Name         string         `json:"name"`
	ScenarioPath string         `json:"scenarioPath"`
	StartTime    time.Time      `json:"startTime"`
	Ticks        uint           `json:"ticks"`
	MapSize      float64        `json:"mapSize"`
	Tag          string         `json:"tag"`
	Rules        map[string]any `json:"rules,omitempty"`
	Origin       *LonLat        `json:"origin,omitempty"`
}

// RunSummary is reported when a run ends.
type RunSummary struct {
	RunID         uint   `json:"runId"`
	EndTick       uint   `json:"endTick"`
	MovesAccepted int    `json:"movesAccepted"`
	MovesRejected int    `json:"movesRejected"`
	Attacks       int    `json:"attacks"`
	Damage        int    `json:"damage"`
	Kills         int    `json:"kills"`
	AliveMine     int    `json:"aliveMine"`
	AliveEnemy    int    `json:"aliveEnemy"`
	Winner        string `json:"winner"`
}

// LonLat is a WGS84 coordinate in degrees.
type LonLat struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// UploadMetadata describes an exported run file sent to the archive server.
type UploadMetadata struct {
	RunName  string
	Scenario string
	Ticks    uint
	EndTick  uint
	Winner   string
	Tag      string
}
