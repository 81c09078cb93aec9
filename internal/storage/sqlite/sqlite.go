// Package sqlitestorage implements the storage.Backend interface using an in-memory
// SQLite database with periodic disk dumps via VACUUM INTO.
// It wraps the GORM backend via composition; the SQLite-specific concerns are
// creating the in-memory DB and the periodic and final disk dump.
package sqlitestorage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/armada-sim/simcore/internal/database"
	"github.com/armada-sim/simcore/internal/logging"
	gormstorage "github.com/armada-sim/simcore/internal/storage/gorm"
	"github.com/armada-sim/simcore/pkg/core"

	"gorm.io/gorm"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	DumpInterval  time.Duration
	DumpDir       string // Directory for VACUUM INTO dumps, one file per run
	FlushInterval time.Duration
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db       *gorm.DB
	cfg      Config
	log      *logging.SlogManager
	stopChan chan struct{}
	wg       sync.WaitGroup

	mu       sync.Mutex
	dumpPath string
}

// New creates a new SQLite storage backend. A nil db opens the shared in-memory database.
func New(cfg Config, db *gorm.DB, logManager *logging.SlogManager) (*Backend, error) {
	if db == nil {
		var err error
		db, err = database.GetSqliteDBStandalone("")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
		}
	}
	if logManager == nil {
		logManager = logging.NewSlogManager()
	}

	gormBackend := gormstorage.New(gormstorage.Dependencies{
		DB:            db,
		LogManager:    logManager,
		FlushInterval: cfg.FlushInterval,
	})

	return &Backend{
		Backend:  gormBackend,
		db:       db,
		cfg:      cfg,
		log:      logManager,
		stopChan: make(chan struct{}),
	}, nil
}

// Init initializes the embedded GORM backend and starts the dump goroutine.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.cfg.DumpDir != "" && b.cfg.DumpInterval > 0 {
		b.wg.Add(1)
		go b.dumpLoop()
	}

	return nil
}

// Close stops the dump goroutine and closes the embedded GORM backend.
func (b *Backend) Close() error {
	select {
	case <-b.stopChan:
	default:
		close(b.stopChan)
	}
	b.wg.Wait()
	return b.Backend.Close()
}

// StartRun inserts the run and picks the dump file for it.
func (b *Backend) StartRun(run *core.Run) error {
	if err := b.Backend.StartRun(run); err != nil {
		return err
	}
	if b.cfg.DumpDir == "" {
		return nil
	}

	name := strings.NewReplacer(" ", "_", ":", "_", "/", "_").Replace(run.Name)
	if name == "" {
		name = "run"
	}
	b.mu.Lock()
	b.dumpPath = filepath.Join(b.cfg.DumpDir, fmt.Sprintf("%s_%d.db", name, run.ID))
	b.mu.Unlock()
	return nil
}

// EndRun flushes queued rows and writes a final dump.
func (b *Backend) EndRun(summary *core.RunSummary) error {
	if err := b.Backend.EndRun(summary); err != nil {
		return err
	}
	if b.DumpPath() == "" {
		return nil
	}
	return b.dump()
}

// DumpPath is the file the current run is dumped to.
func (b *Backend) DumpPath() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dumpPath
}

// ExportedFilePath returns the dump of the last run.
func (b *Backend) ExportedFilePath() string {
	return b.DumpPath()
}

func (b *Backend) dump() error {
	path := b.DumpPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}
	start := time.Now()
	if err := database.DumpMemoryDBToDisk(b.db, path); err != nil {
		return err
	}
	b.log.WriteLog("sqlite:dump", fmt.Sprintf("Dumped to %s in %s", path, time.Since(start)), "DEBUG")
	return nil
}

// dumpLoop periodically dumps the in-memory SQLite database to disk via VACUUM INTO.
// VACUUM INTO creates a point-in-time snapshot, so no pause mechanism is needed.
func (b *Backend) dumpLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if b.DumpPath() == "" {
				continue
			}
			if err := b.dump(); err != nil {
				b.log.WriteLog("sqlite:dumpLoop", fmt.Sprintf("Error dumping to disk: %v", err), "ERROR")
			}
		}
	}
}
