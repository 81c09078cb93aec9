package worker

import (
	"errors"
	"fmt"
	"time"

	"github.com/armada-sim/simcore/internal/cache"
	"github.com/armada-sim/simcore/internal/logging"
	"github.com/armada-sim/simcore/internal/storage"
)

// ErrTooEarlyForStateAssociation is returned when state data arrives before the vehicle is registered
var ErrTooEarlyForStateAssociation = fmt.Errorf("too early for state association")

// ErrUnexpectedPayload is returned when an event carries the wrong payload type for its command.
var ErrUnexpectedPayload = errors.New("unexpected event payload")

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	VehicleCache *cache.VehicleCache
	LogManager   *logging.SlogManager
}

// Manager hands simulation events to the storage backend.
type Manager struct {
	deps    Dependencies
	backend storage.Backend

	states   cache.SafeCounter
	attacks  cache.SafeCounter
	nuclear  cache.SafeCounter
	kills    cache.SafeCounter
	failures cache.SafeCounter
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	if deps.VehicleCache == nil {
		deps.VehicleCache = cache.NewVehicleCache()
	}
	return &Manager{
		deps:    deps,
		backend: backend,
	}
}

// Stats are the number of records handed to the backend so far.
type Stats struct {
	States   int
	Attacks  int
	Nuclear  int
	Kills    int
	Failures int
}

// Stats returns the records written since the manager was created.
func (m *Manager) Stats() Stats {
	return Stats{
		States:   m.states.Value(),
		Attacks:  m.attacks.Value(),
		Nuclear:  m.nuclear.Value(),
		Kills:    m.kills.Value(),
		Failures: m.failures.Value(),
	}
}

// DBWriteDurationProvider is an optional interface that backends can implement
// to expose their last DB write duration for monitoring.
type DBWriteDurationProvider interface {
	GetLastDBWriteDuration() time.Duration
}

// GetLastDBWriteDuration returns the duration of the last DB write cycle.
// Returns 0 if the backend doesn't support this metric.
func (m *Manager) GetLastDBWriteDuration() time.Duration {
	if p, ok := m.backend.(DBWriteDurationProvider); ok {
		return p.GetLastDBWriteDuration()
	}
	return 0
}
