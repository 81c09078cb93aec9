package sqlitestorage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/armada-sim/simcore/internal/database"
	"github.com/armada-sim/simcore/internal/model"
	"github.com/armada-sim/simcore/internal/storage"
	gormstorage "github.com/armada-sim/simcore/internal/storage/gorm"
	"github.com/armada-sim/simcore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ storage.Backend  = (*Backend)(nil)
	_ storage.Exporter = (*Backend)(nil)
)

func newTestBackend(t *testing.T, cfg Config) *Backend {
	t.Helper()
	db, err := database.GetSqliteDBStandalone(filepath.Join(t.TempDir(), "live.db"))
	require.NoError(t, err)

	b, err := New(cfg, db, nil)
	require.NoError(t, err)
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestEndRun_DumpsToDisk(t *testing.T) {
	dumpDir := t.TempDir()
	b := newTestBackend(t, Config{DumpDir: dumpDir, FlushInterval: time.Hour})

	run := &core.Run{Name: "night raid", StartTime: time.Now()}
	require.NoError(t, b.StartRun(run))
	assert.Equal(t, filepath.Join(dumpDir, "night_raid_1.db"), b.DumpPath())

	require.NoError(t, b.AddVehicle(&core.Vehicle{ID: 3, Kind: core.Fighter, JoinTime: time.Now()}))
	require.NoError(t, b.RecordAttackEvent(&core.AttackEvent{AttackerID: 3, TargetID: 4, Damage: 30}))
	require.NoError(t, b.EndRun(&core.RunSummary{EndTick: 10}))

	require.FileExists(t, b.ExportedFilePath())

	dumped, err := database.GetSqliteDBStandalone(b.ExportedFilePath())
	require.NoError(t, err)
	var attacks []model.AttackEvent
	require.NoError(t, dumped.Find(&attacks).Error)
	require.Len(t, attacks, 1)
	assert.Equal(t, 30, attacks[0].Damage)
	assert.Equal(t, run.ID, attacks[0].RunID)
}

func TestDump_ListAndReplay(t *testing.T) {
	b := newTestBackend(t, Config{DumpDir: t.TempDir(), FlushInterval: time.Hour})

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := &core.Run{Name: "dawn patrol", Ticks: 20, StartTime: start}
	require.NoError(t, b.StartRun(run))
	require.NoError(t, b.AddVehicle(&core.Vehicle{ID: 1, Kind: core.Tank, IsMy: true, JoinTime: start}))
	require.NoError(t, b.RecordVehicleState(&core.VehicleState{VehicleID: 1, Tick: 0, Time: start, Position: core.Point{X: 5, Y: 5}, Durability: 100}))
	require.NoError(t, b.EndRun(&core.RunSummary{EndTick: 19, Winner: "mine"}))

	dumped, err := database.GetSqliteDBStandalone(b.ExportedFilePath())
	require.NoError(t, err)
	runs, err := gormstorage.ListRuns(dumped)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "dawn patrol", runs[0].Name)
	assert.True(t, start.Equal(runs[0].StartTime), "start time survives the dump")

	live, err := database.GetSqliteDBStandalone(filepath.Join(t.TempDir(), "import.db"))
	require.NoError(t, err)
	dst := gormstorage.New(gormstorage.Dependencies{DB: live, FlushInterval: time.Hour})
	require.NoError(t, dst.Init())
	t.Cleanup(func() { _ = dst.Close() })

	summary, err := gormstorage.Replay(dumped, runs[0].ID, dst)
	require.NoError(t, err)
	assert.Equal(t, uint(19), summary.EndTick)
	assert.Equal(t, 1, summary.AliveMine)

	imported, err := gormstorage.ListRuns(live)
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "dawn patrol", imported[0].Name)

	var states []model.VehicleState
	require.NoError(t, live.Find(&states).Error)
	require.Len(t, states, 1)
	assert.True(t, start.Equal(states[0].Time))
}

func TestEndRun_NoDumpDir(t *testing.T) {
	b := newTestBackend(t, Config{FlushInterval: time.Hour})
	require.NoError(t, b.StartRun(&core.Run{Name: "x"}))
	require.NoError(t, b.EndRun(&core.RunSummary{}))
	assert.Empty(t, b.ExportedFilePath())
}

func TestDumpLoop_WritesPeriodically(t *testing.T) {
	dumpDir := t.TempDir()
	b := newTestBackend(t, Config{DumpDir: dumpDir, DumpInterval: 20 * time.Millisecond, FlushInterval: time.Hour})
	require.NoError(t, b.StartRun(&core.Run{Name: "loop"}))

	assert.Eventually(t, func() bool {
		matches, _ := filepath.Glob(filepath.Join(dumpDir, "*.db"))
		return len(matches) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClose_Twice(t *testing.T) {
	db, err := database.GetSqliteDBStandalone(filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	b, err := New(Config{}, db, nil)
	require.NoError(t, err)
	require.NoError(t, b.Init())

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
}
