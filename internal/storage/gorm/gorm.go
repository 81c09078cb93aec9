// Package gormstorage implements the storage.Backend interface using GORM
// with internal queues and a background DB writer goroutine.
package gormstorage

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/armada-sim/simcore/internal/database"
	"github.com/armada-sim/simcore/internal/logging"
	"github.com/armada-sim/simcore/internal/model"
	"github.com/armada-sim/simcore/internal/model/convert"
	"github.com/armada-sim/simcore/internal/queue"
	"github.com/armada-sim/simcore/pkg/core"

	"gorm.io/gorm"
)

// DefaultFlushInterval is used when Dependencies.FlushInterval is zero.
const DefaultFlushInterval = 2 * time.Second

// ErrNoRun is returned when a run is ended before one was started.
var ErrNoRun = errors.New("no run started")

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB            *gorm.DB // nil: connect to postgres using the db.* settings
	LogManager    *logging.SlogManager
	FlushInterval time.Duration
}

// queues holds all the write queues for batch DB insertion.
type queues struct {
	Vehicles       *queue.Queue[model.Vehicle]
	VehicleStates  *queue.Queue[model.VehicleState]
	AttackEvents   *queue.Queue[model.AttackEvent]
	NuclearStrikes *queue.Queue[model.NuclearStrikeEvent]
	KillEvents     *queue.Queue[model.KillEvent]
}

func newQueues() *queues {
	return &queues{
		Vehicles:       queue.New[model.Vehicle](),
		VehicleStates:  queue.New[model.VehicleState](),
		AttackEvents:   queue.New[model.AttackEvent](),
		NuclearStrikes: queue.New[model.NuclearStrikeEvent](),
		KillEvents:     queue.New[model.KillEvent](),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps      Dependencies
	queues    *queues
	runID     atomic.Uint64
	stopChan  chan struct{}
	wg        sync.WaitGroup
	writeMu   sync.Mutex
	lastWrite atomic.Int64 // nanoseconds
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = DefaultFlushInterval
	}
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	return &Backend{
		deps:   deps,
		queues: newQueues(),
	}
}

// Init runs schema migration and starts the DB writer goroutine.
// If no DB was injected via Dependencies, it creates its own postgres connection.
func (b *Backend) Init() error {
	b.stopChan = make(chan struct{})

	if b.deps.DB == nil {
		db, err := database.GetPostgresDBStandalone()
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		b.deps.DB = db
	}

	b.deps.LogManager.WriteLog("setupDB", "Migrating schema", "INFO")
	if err := database.Migrate(b.deps.DB); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.deps.LogManager.WriteLog("setupDB", "Database setup complete", "INFO")

	b.startDBWriter()
	return nil
}

// DB exposes the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Close stops the DB writer goroutine after a final flush.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
		b.wg.Wait()
		b.stopChan = nil
	}
	return nil
}

// StartRun inserts the run synchronously so its id can be stamped on queued rows.
func (b *Backend) StartRun(run *core.Run) error {
	if b.deps.DB == nil {
		return nil
	}

	gormRun := convert.CoreToRun(*run)
	gormRun.ID = 0
	if err := b.deps.DB.Create(&gormRun).Error; err != nil {
		return fmt.Errorf("failed to insert new run: %w", err)
	}

	run.ID = gormRun.ID
	b.runID.Store(uint64(gormRun.ID))
	return nil
}

// SetRunID sets the current run id for the DB writer.
func (b *Backend) SetRunID(id uint) {
	b.runID.Store(uint64(id))
}

// RunID returns the id rows are currently stamped with.
func (b *Backend) RunID() uint {
	return uint(b.runID.Load())
}

// EndRun flushes every queue and stores the outcome on the run row.
func (b *Backend) EndRun(summary *core.RunSummary) error {
	runID := b.RunID()
	if runID == 0 {
		return ErrNoRun
	}

	b.flush()

	if b.deps.DB == nil || summary == nil {
		return nil
	}
	err := b.deps.DB.Model(&model.Run{}).Where("id = ?", runID).Updates(map[string]any{
		"end_tick": summary.EndTick,
		"winner":   summary.Winner,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update run %d: %w", runID, err)
	}
	return nil
}

// AddVehicle converts a core vehicle to GORM and pushes to the write queue.
func (b *Backend) AddVehicle(v *core.Vehicle) error {
	b.queues.Vehicles.Push(convert.CoreToVehicle(*v))
	return nil
}

// RecordVehicleState converts and queues a vehicle state.
func (b *Backend) RecordVehicleState(s *core.VehicleState) error {
	b.queues.VehicleStates.Push(convert.CoreToVehicleState(*s))
	return nil
}

// RecordAttackEvent converts and queues an attack.
func (b *Backend) RecordAttackEvent(e *core.AttackEvent) error {
	b.queues.AttackEvents.Push(convert.CoreToAttackEvent(*e))
	return nil
}

// RecordNuclearEvent converts and queues a nuclear strike.
func (b *Backend) RecordNuclearEvent(e *core.NuclearStrikeEvent) error {
	b.queues.NuclearStrikes.Push(convert.CoreToNuclearStrikeEvent(*e))
	return nil
}

// RecordKillEvent converts and queues a kill event.
func (b *Backend) RecordKillEvent(e *core.KillEvent) error {
	b.queues.KillEvents.Push(convert.CoreToKillEvent(*e))
	return nil
}

// GetLastDBWriteDuration returns the duration of the last write cycle.
func (b *Backend) GetLastDBWriteDuration() time.Duration {
	return time.Duration(b.lastWrite.Load())
}

// Pending is the number of rows waiting to be written.
func (b *Backend) Pending() int {
	return b.queues.Vehicles.Len() + b.queues.VehicleStates.Len() + b.queues.AttackEvents.Len() +
		b.queues.NuclearStrikes.Len() + b.queues.KillEvents.Len()
}

// writeBatchSize bounds the rows inserted per transaction.
const writeBatchSize = 10000

// writeQueue writes the queued items to the database, one transaction per batch.
// A failed batch is put back at the front of the queue for the next cycle.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log func(string, string, string), prepare func([]T)) {
	for !q.Empty() {
		items := q.Drain(writeBatchSize)
		if prepare != nil {
			prepare(items)
		}

		tx := db.Begin()
		if err := tx.Create(&items).Error; err != nil {
			log(":DB:WRITER:", fmt.Sprintf("Error creating %s: %v", name, err), "ERROR")
			tx.Rollback()
			q.Requeue(items...)
			return
		}
		tx.Commit()
	}
}

// stamp sets the run id on every row through the given accessor.
func stamp[T any](runID uint, field func(*T) *uint) func([]T) {
	return func(items []T) {
		for i := range items {
			*field(&items[i]) = runID
		}
	}
}

// flush drains every queue once. Vehicles are written before their states.
func (b *Backend) flush() {
	if b.deps.DB == nil || b.RunID() == 0 {
		return
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	start := time.Now()
	db := b.deps.DB
	log := b.deps.LogManager.WriteLog
	runID := b.RunID()

	writeQueue(db, b.queues.Vehicles, "vehicles", log,
		stamp(runID, func(v *model.Vehicle) *uint { return &v.RunID }))
	writeQueue(db, b.queues.VehicleStates, "vehicle states", log,
		stamp(runID, func(s *model.VehicleState) *uint { return &s.RunID }))
	writeQueue(db, b.queues.AttackEvents, "attack events", log,
		stamp(runID, func(e *model.AttackEvent) *uint { return &e.RunID }))
	writeQueue(db, b.queues.NuclearStrikes, "nuclear strikes", log,
		stamp(runID, func(e *model.NuclearStrikeEvent) *uint { return &e.RunID }))
	writeQueue(db, b.queues.KillEvents, "kill events", log,
		stamp(runID, func(e *model.KillEvent) *uint { return &e.RunID }))

	b.lastWrite.Store(int64(time.Since(start)))
}

// startDBWriter starts the background goroutine that periodically drains queues into the DB.
func (b *Backend) startDBWriter() {
	stop := b.stopChan
	b.wg.Add(1)

	go func() {
		defer b.wg.Done()
		ticker := time.NewTicker(b.deps.FlushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				b.flush()
				return
			case <-ticker.C:
				b.flush()
			}
		}
	}()
}
