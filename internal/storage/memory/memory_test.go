package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/armada-sim/simcore/internal/config"
	"github.com/armada-sim/simcore/internal/storage"
	"github.com/armada-sim/simcore/pkg/core"
)

// Verify Backend implements storage.Backend interface
var _ storage.Backend = (*Backend)(nil)

// Verify Backend implements storage.Exporter interface
var _ storage.Exporter = (*Backend)(nil)

func TestNew(t *testing.T) {
	cfg := config.MemoryConfig{
		OutputDir:      "/tmp/test",
		CompressOutput: true,
	}
	b := New(cfg)

	if b == nil {
		t.Fatal("New returned nil")
	}
	if b.cfg.OutputDir != "/tmp/test" {
		t.Errorf("expected OutputDir=/tmp/test, got %s", b.cfg.OutputDir)
	}
	if b.vehicles == nil {
		t.Error("vehicles map not initialized")
	}
	if err := b.Init(); err != nil {
		t.Errorf("Init failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestStartRun_AssignsIDsAndResets(t *testing.T) {
	b := New(config.MemoryConfig{})

	first := &core.Run{Name: "first"}
	if err := b.StartRun(first); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	_ = b.AddVehicle(&core.Vehicle{ID: 1})
	_ = b.RecordAttackEvent(&core.AttackEvent{AttackerID: 1, TargetID: 2})

	second := &core.Run{Name: "second"}
	_ = b.StartRun(second)

	if first.ID != 1 || second.ID != 2 {
		t.Errorf("expected run ids 1 and 2, got %d and %d", first.ID, second.ID)
	}
	vehicles, attacks, nuclear, kills := b.Counts()
	if vehicles+attacks+nuclear+kills != 0 {
		t.Errorf("expected empty collections after StartRun, got %d/%d/%d/%d", vehicles, attacks, nuclear, kills)
	}
}

func TestAddVehicleAndStates(t *testing.T) {
	b := New(config.MemoryConfig{})
	_ = b.StartRun(&core.Run{Name: "r"})

	_ = b.AddVehicle(&core.Vehicle{ID: 7, Kind: core.Tank, IsMy: true})

	v, ok := b.GetVehicle(7)
	if !ok {
		t.Fatal("vehicle 7 not found")
	}
	if v.Kind != core.Tank {
		t.Errorf("expected tank, got %s", v.Kind)
	}
	if _, ok := b.GetVehicle(8); ok {
		t.Error("vehicle 8 should not exist")
	}

	_ = b.RecordVehicleState(&core.VehicleState{VehicleID: 7, Tick: 1})
	_ = b.RecordVehicleState(&core.VehicleState{VehicleID: 7, Tick: 2})
	_ = b.RecordVehicleState(&core.VehicleState{VehicleID: 99, Tick: 2})

	states := b.States(7)
	if len(states) != 2 {
		t.Fatalf("expected 2 states, got %d", len(states))
	}
	if states[1].Tick != 2 {
		t.Errorf("expected tick 2, got %d", states[1].Tick)
	}
	if b.States(99) != nil {
		t.Error("states for unregistered vehicle should be dropped")
	}
}

func TestRecordEvents(t *testing.T) {
	b := New(config.MemoryConfig{})
	_ = b.StartRun(&core.Run{})

	_ = b.RecordAttackEvent(&core.AttackEvent{Damage: 20})
	_ = b.RecordNuclearEvent(&core.NuclearStrikeEvent{Radius: 50})
	_ = b.RecordKillEvent(&core.KillEvent{VictimID: 3})
	_ = b.RecordKillEvent(&core.KillEvent{VictimID: 4})

	_, attacks, nuclear, kills := b.Counts()
	if attacks != 1 || nuclear != 1 || kills != 2 {
		t.Errorf("expected 1/1/2 events, got %d/%d/%d", attacks, nuclear, kills)
	}
}

func TestEndRun_WithoutStartIsNoop(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})
	if err := b.EndRun(&core.RunSummary{}); err != nil {
		t.Errorf("EndRun failed: %v", err)
	}
	if b.ExportedFilePath() != "" {
		t.Error("nothing should be exported without a run")
	}
}

func TestConcurrentRecording(t *testing.T) {
	b := New(config.MemoryConfig{})
	_ = b.StartRun(&core.Run{StartTime: time.Now()})
	_ = b.AddVehicle(&core.Vehicle{ID: 1})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(tick uint) {
			defer wg.Done()
			_ = b.RecordVehicleState(&core.VehicleState{VehicleID: 1, Tick: tick})
		}(uint(i))
		go func() {
			defer wg.Done()
			_ = b.RecordAttackEvent(&core.AttackEvent{})
		}()
	}
	wg.Wait()

	if got := len(b.States(1)); got != 50 {
		t.Errorf("expected 50 states, got %d", got)
	}
	if _, attacks, _, _ := b.Counts(); attacks != 50 {
		t.Errorf("expected 50 attacks, got %d", attacks)
	}
}
