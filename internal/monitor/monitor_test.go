package monitor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/armada-sim/simcore/internal/config"
	"github.com/armada-sim/simcore/internal/run"
	"github.com/armada-sim/simcore/internal/storage/memory"
	"github.com/armada-sim/simcore/internal/worker"
	"github.com/armada-sim/simcore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatus_NoRun(t *testing.T) {
	s := NewService(Dependencies{RunContext: run.NewContext()})
	_, ok := s.GetStatus()
	assert.False(t, ok)
	assert.Equal(t, DefaultInterval, s.deps.Interval)
}

func TestGetStatus_Progress(t *testing.T) {
	rc := run.NewContext()
	rc.SetRun(&core.Run{ID: 4, Name: "skirmish", Ticks: 200})
	rc.SetTick(50)

	wm := worker.NewManager(worker.Dependencies{}, memory.New(config.MemoryConfig{}))
	s := NewService(Dependencies{RunContext: rc, WorkerManager: wm})

	st, ok := s.GetStatus()
	require.True(t, ok)
	assert.Equal(t, "skirmish", st.Run)
	assert.Equal(t, uint(4), st.RunID)
	assert.Equal(t, uint(50), st.Tick)
	assert.InDelta(t, 0.25, st.Progress, 1e-9)
	assert.Equal(t, worker.Stats{}, st.Recorded)
}

func TestStartStop_WritesStatusFile(t *testing.T) {
	rc := run.NewContext()
	rc.SetRun(&core.Run{ID: 1, Name: "duel", Ticks: 10})
	rc.SetTick(10)

	path := filepath.Join(t.TempDir(), "status.json")
	s := NewService(Dependencies{RunContext: rc, StatusPath: path, Interval: 5 * time.Millisecond})
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	require.NoError(t, s.Start(), "second start is a no-op")

	s.Stop()
	s.Stop()
	assert.False(t, s.IsRunning())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var st Status
	require.NoError(t, json.Unmarshal(b, &st))
	assert.Equal(t, "duel", st.Run)
	assert.Equal(t, uint(10), st.Tick)
	assert.InDelta(t, 1.0, st.Progress, 1e-9)
}

func TestStart_BadPath(t *testing.T) {
	s := NewService(Dependencies{RunContext: run.NewContext(), StatusPath: filepath.Join(t.TempDir(), "missing", "status.json")})
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}
