// Package monitor writes a periodic status file while a run is simulated.
package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/armada-sim/simcore/internal/logging"
	"github.com/armada-sim/simcore/internal/run"
	"github.com/armada-sim/simcore/internal/worker"
)

// DefaultInterval is used when Dependencies.Interval is not positive.
const DefaultInterval = time.Second

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	LogManager    *logging.SlogManager
	RunContext    *run.Context
	WorkerManager *worker.Manager
	StatusPath    string
	Interval      time.Duration
}

// Status is one snapshot of run progress.
type Status struct {
	Time                time.Time    `json:"time"`
	Run                 string       `json:"run"`
	RunID               uint         `json:"runId"`
	Tick                uint         `json:"tick"`
	Ticks               uint         `json:"ticks"`
	Progress            float64      `json:"progress"`
	Recorded            worker.Stats `json:"recorded"`
	LastWriteDurationMs float64      `json:"lastWriteDurationMs"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus returns the current status. ok is false while no run is loaded.
func (s *Service) GetStatus() (status Status, ok bool) {
	if !s.deps.RunContext.Loaded() {
		return Status{}, false
	}
	r := s.deps.RunContext.GetRun()
	tick := s.deps.RunContext.Tick()

	status = Status{
		Time:  time.Now().UTC(),
		Run:   r.Name,
		RunID: r.ID,
		Tick:  tick,
		Ticks: r.Ticks,
	}
	if r.Ticks > 0 {
		status.Progress = float64(tick) / float64(r.Ticks)
	}
	if s.deps.WorkerManager != nil {
		status.Recorded = s.deps.WorkerManager.Stats()
		status.LastWriteDurationMs = float64(s.deps.WorkerManager.GetLastDBWriteDuration().Microseconds()) / 1000
	}
	return status, true
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}

	var statusFile *os.File
	if s.deps.StatusPath != "" {
		f, err := os.Create(s.deps.StatusPath)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("error creating status file: %w", err)
		}
		statusFile = f
	}

	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.loop(statusFile, s.stopChan, s.done)
	return nil
}

func (s *Service) loop(statusFile *os.File, stop, done chan struct{}) {
	defer func() {
		s.write(statusFile)
		if statusFile != nil {
			statusFile.Close()
		}
		close(done)
	}()

	logger := s.deps.LogManager.Logger()
	logger.Debug("Starting status monitor goroutine", "interval", s.deps.Interval, "path", s.deps.StatusPath)

	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.write(statusFile)
		}
	}
}

func (s *Service) write(statusFile *os.File) {
	status, ok := s.GetStatus()
	if !ok {
		return
	}
	s.deps.LogManager.Logger().Debug("Run status",
		"tick", status.Tick,
		"progress", status.Progress,
		"states", status.Recorded.States,
		"failures", status.Recorded.Failures)

	if statusFile == nil {
		return
	}
	b, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return
	}
	if err := statusFile.Truncate(0); err != nil {
		s.deps.LogManager.Logger().Error("Error truncating status file", "error", err)
		return
	}
	_, _ = statusFile.Seek(0, 0)
	_, _ = statusFile.Write(append(b, '\n'))
}

// Stop stops the status monitor and waits for the final status write.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}
