package storage

import "github.com/armada-sim/simcore/pkg/core"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Run management (StartRun assigns run.ID when the backend owns ids)
	StartRun(run *core.Run) error
	EndRun(summary *core.RunSummary) error

	// Vehicle registration
	AddVehicle(v *core.Vehicle) error

	// State recording
	RecordVehicleState(s *core.VehicleState) error

	// Event recording
	RecordAttackEvent(e *core.AttackEvent) error
	RecordNuclearEvent(e *core.NuclearStrikeEvent) error
	RecordKillEvent(e *core.KillEvent) error
}

// Exporter is an optional interface for storage backends that write a
// file when a run ends.
type Exporter interface {
	ExportedFilePath() string
}
