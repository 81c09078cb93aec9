package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/armada-sim/simcore/internal/geo"
	"github.com/armada-sim/simcore/pkg/core"
)

// ExportVersion is bumped whenever the export layout changes.
const ExportVersion = 1

// RunExport is the root JSON structure
type RunExport struct {
	Version        int                       `json:"version"`
	Name           string                    `json:"name"`
	ScenarioPath   string                    `json:"scenarioPath"`
	StartTime      string                    `json:"startTime"`
	Tag            string                    `json:"tag"`
	MapSize        float64                   `json:"mapSize"`
	Ticks          uint                      `json:"ticks"`
	EndTick        uint                      `json:"endTick"`
	Origin         *core.LonLat              `json:"origin,omitempty"`
	Rules          map[string]any            `json:"rules,omitempty"`
	Summary        *core.RunSummary          `json:"summary,omitempty"`
	Vehicles       []VehicleJSON             `json:"vehicles"`
	Attacks        []core.AttackEvent        `json:"attacks"`
	NuclearStrikes []core.NuclearStrikeEvent `json:"nuclearStrikes"`
	Kills          []core.KillEvent          `json:"kills"`
}

// VehicleJSON is one vehicle with its compact state rows.
// Each state row is [tick, x, y, durability, repairPool, cooldown, moving, rotating, moveRejected].
type VehicleJSON struct {
	ID          int64        `json:"id"`
	Kind        string       `json:"kind"`
	IsMy        int          `json:"isMy"`
	Radius      float64      `json:"radius"`
	JoinTick    uint         `json:"joinTick"`
	Trail       string       `json:"trail,omitempty"` // WKT LINESTRING of distinct positions
	TrailLength float64      `json:"trailLength"`
	LonLat      [][2]float64 `json:"lonLat,omitempty"`
	States      [][]any      `json:"states"`
}

// exportJSON writes the run data to a (optionally gzipped) JSON file
func (b *Backend) exportJSON() error {
	export := b.buildExport()

	name := strings.ReplaceAll(b.run.Name, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	if name == "" {
		name = "run"
	}
	timestamp := b.run.StartTime.Format("20060102_150405")

	filename := fmt.Sprintf("%s_%s.json", name, timestamp)
	if b.cfg.CompressOutput {
		filename += ".gz"
	}

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)
	if err := writeExport(outputPath, export, b.cfg.CompressOutput); err != nil {
		return err
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport() RunExport {
	export := RunExport{
		Version:        ExportVersion,
		Name:           b.run.Name,
		ScenarioPath:   b.run.ScenarioPath,
		StartTime:      b.run.StartTime.UTC().Format(time.RFC3339),
		Tag:            b.run.Tag,
		MapSize:        b.run.MapSize,
		Ticks:          b.run.Ticks,
		Origin:         b.run.Origin,
		Rules:          b.run.Rules,
		Summary:        b.summary,
		Vehicles:       make([]VehicleJSON, 0, len(b.vehicles)),
		Attacks:        nonNil(b.attackEvents),
		NuclearStrikes: nonNil(b.nuclearEvents),
		Kills:          nonNil(b.killEvents),
	}

	var endTick uint
	ids := make([]int64, 0, len(b.vehicles))
	for id := range b.vehicles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		record := b.vehicles[id]
		entity := VehicleJSON{
			ID:       record.Vehicle.ID,
			Kind:     record.Vehicle.Kind.String(),
			IsMy:     boolToInt(record.Vehicle.IsMy),
			Radius:   record.Vehicle.Radius,
			JoinTick: record.Vehicle.JoinTick,
			States:   make([][]any, 0, len(record.States)),
		}

		positions := make([]core.Point, 0, len(record.States))
		for _, s := range record.States {
			entity.States = append(entity.States, []any{
				s.Tick,
				s.Position.X,
				s.Position.Y,
				s.Durability,
				s.RepairPool,
				s.Cooldown,
				boolToInt(s.Moving),
				boolToInt(s.Rotating),
				boolToInt(s.MoveRejected),
			})
			positions = append(positions, s.Position)
			if s.Tick > endTick {
				endTick = s.Tick
			}
		}

		if trail, err := geo.Trail(positions); err == nil {
			entity.Trail = trail.AsText()
			entity.TrailLength = trail.Length()
		}
		if b.run.Origin != nil {
			for _, p := range positions {
				ll := geo.ToLonLat(*b.run.Origin, p)
				entity.LonLat = append(entity.LonLat, [2]float64{ll.Lon, ll.Lat})
			}
		}

		export.Vehicles = append(export.Vehicles, entity)
	}

	export.EndTick = endTick
	if b.summary != nil && b.summary.EndTick > endTick {
		export.EndTick = b.summary.EndTick
	}

	return export
}

func writeExport(path string, data RunExport, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if !compress {
		return json.NewEncoder(f).Encode(data)
	}

	gzWriter := gzip.NewWriter(f)
	if err := json.NewEncoder(gzWriter).Encode(data); err != nil {
		gzWriter.Close()
		return err
	}
	return gzWriter.Close()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return make([]T, 0)
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
