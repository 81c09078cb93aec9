package worker

import (
	"fmt"

	"github.com/armada-sim/simcore/internal/dispatcher"
	"github.com/armada-sim/simcore/pkg/core"
)

// Commands the runner dispatches.
const (
	CmdNewVehicle    = ":NEW:VEHICLE:"
	CmdVehicleState  = ":NEW:VEHICLE:STATE:"
	CmdAttack        = ":ATTACK:"
	CmdNuclearStrike = ":NUCLEAR:"
	CmdKill          = ":KILL:"
)

// RegisterHandlers registers all event handlers with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	// Vehicle registration - sync (need to cache before states arrive)
	d.Register(CmdNewVehicle, m.handleNewVehicle, dispatcher.Logged())

	// High-volume state updates - buffered
	d.Register(CmdVehicleState, m.handleVehicleState, dispatcher.Buffered(10000), dispatcher.Logged())

	// Combat events - buffered
	d.Register(CmdAttack, m.handleAttackEvent, dispatcher.Buffered(5000), dispatcher.Logged())
	d.Register(CmdNuclearStrike, m.handleNuclearEvent, dispatcher.Buffered(100), dispatcher.Logged())
	d.Register(CmdKill, m.handleKillEvent, dispatcher.Buffered(2000), dispatcher.Logged())
}

func (m *Manager) hasBackend() bool {
	return m.backend != nil
}

func (m *Manager) log(data, level string) {
	if m.deps.LogManager != nil {
		m.deps.LogManager.WriteLog("worker", data, level)
	}
}

func (m *Manager) record(err error, what string) error {
	if err != nil {
		m.failures.Inc()
		return fmt.Errorf("failed to record %s: %w", what, err)
	}
	return nil
}

func (m *Manager) handleNewVehicle(e dispatcher.Event) (any, error) {
	v, ok := e.Payload.(*core.Vehicle)
	if !ok {
		return nil, fmt.Errorf("%s: %w (%T)", e.Command, ErrUnexpectedPayload, e.Payload)
	}

	// Always cache for state handler lookups
	m.deps.VehicleCache.AddVehicle(*v)

	if !m.hasBackend() {
		return nil, nil
	}
	return nil, m.record(m.backend.AddVehicle(v), "vehicle")
}

func (m *Manager) handleVehicleState(e dispatcher.Event) (any, error) {
	s, ok := e.Payload.(*core.VehicleState)
	if !ok {
		return nil, fmt.Errorf("%s: %w (%T)", e.Command, ErrUnexpectedPayload, e.Payload)
	}

	if _, ok := m.deps.VehicleCache.GetVehicle(s.VehicleID); !ok {
		return nil, ErrTooEarlyForStateAssociation
	}

	if !m.hasBackend() {
		return nil, nil
	}
	if err := m.record(m.backend.RecordVehicleState(s), "vehicle state"); err != nil {
		return nil, err
	}
	m.states.Inc()
	return nil, nil
}

func (m *Manager) handleAttackEvent(e dispatcher.Event) (any, error) {
	a, ok := e.Payload.(*core.AttackEvent)
	if !ok {
		return nil, fmt.Errorf("%s: %w (%T)", e.Command, ErrUnexpectedPayload, e.Payload)
	}

	if _, ok := m.deps.VehicleCache.GetVehicle(a.AttackerID); !ok {
		return nil, ErrTooEarlyForStateAssociation
	}

	if !m.hasBackend() {
		return nil, nil
	}
	if err := m.record(m.backend.RecordAttackEvent(a), "attack event"); err != nil {
		return nil, err
	}
	m.attacks.Inc()
	return nil, nil
}

func (m *Manager) handleNuclearEvent(e dispatcher.Event) (any, error) {
	n, ok := e.Payload.(*core.NuclearStrikeEvent)
	if !ok {
		return nil, fmt.Errorf("%s: %w (%T)", e.Command, ErrUnexpectedPayload, e.Payload)
	}

	if !m.hasBackend() {
		return nil, nil
	}
	if err := m.record(m.backend.RecordNuclearEvent(n), "nuclear strike"); err != nil {
		return nil, err
	}
	m.nuclear.Inc()
	return nil, nil
}

func (m *Manager) handleKillEvent(e dispatcher.Event) (any, error) {
	k, ok := e.Payload.(*core.KillEvent)
	if !ok {
		return nil, fmt.Errorf("%s: %w (%T)", e.Command, ErrUnexpectedPayload, e.Payload)
	}

	if !m.deps.VehicleCache.MarkDead(k.VictimID, k.Tick) {
		return nil, ErrTooEarlyForStateAssociation
	}
	m.log(fmt.Sprintf("vehicle %d destroyed at tick %d: %s", k.VictimID, k.Tick, k.EventText), "info")

	if !m.hasBackend() {
		return nil, nil
	}
	if err := m.record(m.backend.RecordKillEvent(k), "kill event"); err != nil {
		return nil, err
	}
	m.kills.Inc()
	return nil, nil
}
