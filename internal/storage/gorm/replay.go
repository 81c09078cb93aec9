package gormstorage

import (
	"fmt"

	"github.com/armada-sim/simcore/internal/model"
	"github.com/armada-sim/simcore/internal/model/convert"
	"github.com/armada-sim/simcore/internal/storage"
	"github.com/armada-sim/simcore/pkg/core"

	"gorm.io/gorm"
)

const replayBatchSize = 5000

// ListRuns returns the runs stored in db, oldest first.
func ListRuns(db *gorm.DB) ([]core.Run, error) {
	var rows []model.Run
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	runs := make([]core.Run, len(rows))
	for i, r := range rows {
		runs[i] = convert.RunToCore(r)
	}
	return runs, nil
}

// Replay reads one recorded run from db and feeds it, in tick order, into dst
// as if it were being simulated again. dst assigns its own run id. Move
// acceptance is not stored, so the returned summary only counts rejected moves.
func Replay(db *gorm.DB, runID uint, dst storage.Backend) (*core.RunSummary, error) {
	var row model.Run
	if err := db.First(&row, runID).Error; err != nil {
		return nil, fmt.Errorf("run %d: %w", runID, err)
	}
	run := convert.RunToCore(row)
	run.ID = 0
	if err := dst.StartRun(&run); err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}
	summary := &core.RunSummary{RunID: run.ID, EndTick: row.EndTick, Winner: row.Winner}

	var vehicles []model.Vehicle
	if err := db.Where("run_id = ?", runID).Order("object_id").Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("failed to read vehicles: %w", err)
	}
	alive := make(map[int64]bool, len(vehicles))
	for _, m := range vehicles {
		v := convert.VehicleToCore(m)
		v.RunID = run.ID
		if err := dst.AddVehicle(&v); err != nil {
			return nil, fmt.Errorf("vehicle %d: %w", v.ID, err)
		}
		alive[v.ID] = v.IsMy
	}

	var states []model.VehicleState
	err := db.Where("run_id = ?", runID).Order("tick, vehicle_object_id").
		FindInBatches(&states, replayBatchSize, func(tx *gorm.DB, batch int) error {
			for _, m := range states {
				s := convert.VehicleStateToCore(m)
				s.RunID = run.ID
				if s.MoveRejected {
					summary.MovesRejected++
				}
				if err := dst.RecordVehicleState(&s); err != nil {
					return err
				}
			}
			return nil
		}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to replay states: %w", err)
	}

	var attacks []model.AttackEvent
	if err := db.Where("run_id = ?", runID).Order("tick, id").Find(&attacks).Error; err != nil {
		return nil, fmt.Errorf("failed to read attacks: %w", err)
	}
	for _, m := range attacks {
		e := convert.AttackEventToCore(m)
		e.RunID = run.ID
		if err := dst.RecordAttackEvent(&e); err != nil {
			return nil, fmt.Errorf("attack at tick %d: %w", e.Tick, err)
		}
		summary.Attacks++
		summary.Damage += e.Damage
	}

	var strikes []model.NuclearStrikeEvent
	if err := db.Where("run_id = ?", runID).Order("tick, id").Find(&strikes).Error; err != nil {
		return nil, fmt.Errorf("failed to read nuclear strikes: %w", err)
	}
	for _, m := range strikes {
		e := convert.NuclearStrikeEventToCore(m)
		e.RunID = run.ID
		if err := dst.RecordNuclearEvent(&e); err != nil {
			return nil, fmt.Errorf("strike at tick %d: %w", e.Tick, err)
		}
		summary.Damage += e.TotalDamage()
	}

	var kills []model.KillEvent
	if err := db.Where("run_id = ?", runID).Order("tick, id").Find(&kills).Error; err != nil {
		return nil, fmt.Errorf("failed to read kills: %w", err)
	}
	for _, m := range kills {
		e := convert.KillEventToCore(m)
		e.RunID = run.ID
		if err := dst.RecordKillEvent(&e); err != nil {
			return nil, fmt.Errorf("kill at tick %d: %w", e.Tick, err)
		}
		summary.Kills++
		delete(alive, e.VictimID)
	}

	for _, mine := range alive {
		if mine {
			summary.AliveMine++
		} else {
			summary.AliveEnemy++
		}
	}

	if err := dst.EndRun(summary); err != nil {
		return nil, fmt.Errorf("failed to end run: %w", err)
	}
	return summary, nil
}
