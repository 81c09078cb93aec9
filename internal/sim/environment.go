package sim

import (
	"fmt"
	"math"

	"github.com/armada-sim/simcore/internal/rules"
	"github.com/armada-sim/simcore/pkg/core"
)

// Environment answers terrain and weather lookups at a map position.
type Environment interface {
	Terrain(x, y float64) core.TerrainType
	Weather(x, y float64) core.WeatherType
}

// World is the read-only context every resolver call runs against.
// A nil Env behaves as plain terrain under clear weather everywhere.
type World struct {
	Rules *rules.Rules
	Env   Environment
}

func (w World) terrain(p core.Point) core.TerrainType {
	if w.Env == nil {
		return core.Plain
	}
	return w.Env.Terrain(p.X, p.Y)
}

func (w World) weather(p core.Point) core.WeatherType {
	if w.Env == nil {
		return core.Clear
	}
	return w.Env.Weather(p.X, p.Y)
}

// Uniform is an environment with the same terrain and weather everywhere.
type Uniform struct {
	TerrainType core.TerrainType
	WeatherType core.WeatherType
}

func (u Uniform) Terrain(x, y float64) core.TerrainType { return u.TerrainType }
func (u Uniform) Weather(x, y float64) core.WeatherType { return u.WeatherType }

// GridEnvironment stores terrain and weather per square cell. Rows are indexed by y.
// Positions outside the grid are clamped to the nearest edge cell.
type GridEnvironment struct {
	cellSize float64
	terrain  [][]core.TerrainType
	weather  [][]core.WeatherType
}

// NewGridEnvironment checks that both grids are non-empty and rectangular.
// The weather grid may be nil, meaning clear everywhere.
func NewGridEnvironment(cellSize float64, terrain [][]core.TerrainType, weather [][]core.WeatherType) (*GridEnvironment, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %v", cellSize)
	}
	if err := checkGrid(len(terrain), func(i int) int { return len(terrain[i]) }); err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}
	if weather != nil {
		if err := checkGrid(len(weather), func(i int) int { return len(weather[i]) }); err != nil {
			return nil, fmt.Errorf("weather: %w", err)
		}
	}
	return &GridEnvironment{cellSize: cellSize, terrain: terrain, weather: weather}, nil
}

func checkGrid(rows int, width func(int) int) error {
	if rows == 0 || width(0) == 0 {
		return fmt.Errorf("empty grid")
	}
	for i := 1; i < rows; i++ {
		if width(i) != width(0) {
			return fmt.Errorf("row %d has %d cells, want %d", i, width(i), width(0))
		}
	}
	return nil
}

func (g *GridEnvironment) cell(v float64, n int) int {
	i := int(math.Floor(v / g.cellSize))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Terrain returns the terrain of the cell holding (x, y); points off the grid use the nearest edge cell.
func (g *GridEnvironment) Terrain(x, y float64) core.TerrainType {
	row := g.terrain[g.cell(y, len(g.terrain))]
	return row[g.cell(x, len(row))]
}

// Weather returns the weather of the cell holding (x, y), clear when no weather grid was given.
func (g *GridEnvironment) Weather(x, y float64) core.WeatherType {
	if g.weather == nil {
		return core.Clear
	}
	row := g.weather[g.cell(y, len(g.weather))]
	return row[g.cell(x, len(row))]
}
