// Package memory keeps a whole run in memory and exports it as JSON when the run ends.
package memory

import (
	"sync"

	"github.com/armada-sim/simcore/internal/config"
	"github.com/armada-sim/simcore/pkg/core"
)

// VehicleRecord groups a vehicle with all its recorded states
type VehicleRecord struct {
	Vehicle core.Vehicle
	States  []core.VehicleState
}

// Backend stores run data in memory and exports to JSON
type Backend struct {
	cfg     config.MemoryConfig
	run     *core.Run
	summary *core.RunSummary

	vehicles map[int64]*VehicleRecord // keyed by vehicle id

	attackEvents  []core.AttackEvent
	nuclearEvents []core.NuclearStrikeEvent
	killEvents    []core.KillEvent

	runCounter     uint
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:      cfg,
		vehicles: make(map[int64]*VehicleRecord),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartRun begins recording a new run and assigns it an id.
func (b *Backend) StartRun(run *core.Run) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.runCounter++
	run.ID = b.runCounter
	b.run = run
	b.summary = nil

	b.vehicles = make(map[int64]*VehicleRecord)
	b.attackEvents = nil
	b.nuclearEvents = nil
	b.killEvents = nil

	return nil
}

// EndRun finalizes and exports the run data
func (b *Backend) EndRun(summary *core.RunSummary) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.run == nil {
		return nil
	}
	b.summary = summary
	return b.exportJSON()
}

// ExportedFilePath returns the path of the last export, empty before the first run ends.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

// AddVehicle registers a new vehicle
func (b *Backend) AddVehicle(v *core.Vehicle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.vehicles[v.ID] = &VehicleRecord{
		Vehicle: *v,
		States:  make([]core.VehicleState, 0),
	}
	return nil
}

// GetVehicle looks up a registered vehicle by id
func (b *Backend) GetVehicle(id int64) (*core.Vehicle, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if record, ok := b.vehicles[id]; ok {
		return &record.Vehicle, true
	}
	return nil, false
}

// States returns a copy of the recorded states of one vehicle
func (b *Backend) States(id int64) []core.VehicleState {
	b.mu.RLock()
	defer b.mu.RUnlock()

	record, ok := b.vehicles[id]
	if !ok {
		return nil
	}
	out := make([]core.VehicleState, len(record.States))
	copy(out, record.States)
	return out
}

// RecordVehicleState records a vehicle state update. States of unregistered
// vehicles are ignored.
func (b *Backend) RecordVehicleState(s *core.VehicleState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if record, ok := b.vehicles[s.VehicleID]; ok {
		record.States = append(record.States, *s)
	}
	return nil
}

// RecordAttackEvent records an attack
func (b *Backend) RecordAttackEvent(e *core.AttackEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attackEvents = append(b.attackEvents, *e)
	return nil
}

// RecordNuclearEvent records a detonated strike
func (b *Backend) RecordNuclearEvent(e *core.NuclearStrikeEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nuclearEvents = append(b.nuclearEvents, *e)
	return nil
}

// RecordKillEvent records a kill event
func (b *Backend) RecordKillEvent(e *core.KillEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.killEvents = append(b.killEvents, *e)
	return nil
}

// Counts reports how many events of each kind are held.
func (b *Backend) Counts() (vehicles, attacks, nuclear, kills int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.vehicles), len(b.attackEvents), len(b.nuclearEvents), len(b.killEvents)
}

// Kills returns a copy of the recorded kill events.
func (b *Backend) Kills() []core.KillEvent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.KillEvent(nil), b.killEvents...)
}

// NuclearStrikes returns a copy of the recorded strikes.
func (b *Backend) NuclearStrikes() []core.NuclearStrikeEvent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.NuclearStrikeEvent(nil), b.nuclearEvents...)
}
