// Package scenario loads the JSON description of a run: the map environment,
// the starting vehicles and the orders issued during the run.
package scenario

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/armada-sim/simcore/pkg/core"
)

// ErrInvalidScenario wraps every validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// File is the scenario as written on disk.
type File struct {
	Name        string          `json:"name" mapstructure:"name" jsonschema:"minLength=1,description=Run name"`
	Ticks       uint            `json:"ticks" mapstructure:"ticks" jsonschema:"minimum=1,description=Number of ticks to simulate"`
	Origin      *core.LonLat    `json:"origin,omitempty" mapstructure:"origin" jsonschema:"description=WGS84 position of map point (0 0)"`
	Environment EnvironmentFile `json:"environment,omitempty" mapstructure:"environment"`
	Vehicles    []VehicleFile   `json:"vehicles" mapstructure:"vehicles"`
	Orders      []OrderFile     `json:"orders,omitempty" mapstructure:"orders"`
}

// EnvironmentFile holds the terrain and weather grids. Rows are indexed by y cell.
type EnvironmentFile struct {
	CellSize float64    `json:"cellSize,omitempty" mapstructure:"cellSize" jsonschema:"minimum=0,description=Side of one grid cell; defaults to 32"`
	Terrain  [][]string `json:"terrain,omitempty" mapstructure:"terrain" jsonschema:"description=plain swamp or forest per cell"`
	Weather  [][]string `json:"weather,omitempty" mapstructure:"weather" jsonschema:"description=clear cloud or rain per cell"`
}

// VehicleFile is one starting vehicle. A missing durability means full health.
type VehicleFile struct {
	ID         int64   `json:"id" mapstructure:"id" jsonschema:"minimum=1"`
	Mine       bool    `json:"mine,omitempty" mapstructure:"mine"`
	Kind       string  `json:"kind" mapstructure:"kind" jsonschema:"enum=arrv,enum=fighter,enum=helicopter,enum=ifv,enum=tank"`
	X          float64 `json:"x" mapstructure:"x"`
	Y          float64 `json:"y" mapstructure:"y"`
	Durability *int    `json:"durability,omitempty" mapstructure:"durability" jsonschema:"minimum=1"`
	Cooldown   int     `json:"cooldown,omitempty" mapstructure:"cooldown" jsonschema:"minimum=0"`
	Groups     []int   `json:"groups,omitempty" mapstructure:"groups"`
	Selected   bool    `json:"selected,omitempty" mapstructure:"selected"`
}

// OrderFile is one order issued at the start of a tick.
type OrderFile struct {
	Tick            uint    `json:"tick" mapstructure:"tick"`
	Type            string  `json:"type" mapstructure:"type" jsonschema:"enum=move,enum=rotate,enum=stop,enum=select,enum=assign,enum=dismiss,enum=nuclear"`
	IDs             []int64 `json:"ids,omitempty" mapstructure:"ids"`
	Kind            string  `json:"kind,omitempty" mapstructure:"kind"`
	Group           *int    `json:"group,omitempty" mapstructure:"group" jsonschema:"minimum=0,maximum=31"`
	X               float64 `json:"x,omitempty" mapstructure:"x"`
	Y               float64 `json:"y,omitempty" mapstructure:"y"`
	Angle           float64 `json:"angle,omitempty" mapstructure:"angle" jsonschema:"description=Radians; positive is counter-clockwise"`
	MaxSpeed        float64 `json:"maxSpeed,omitempty" mapstructure:"maxSpeed" jsonschema:"minimum=0"`
	MaxAngularSpeed float64 `json:"maxAngularSpeed,omitempty" mapstructure:"maxAngularSpeed" jsonschema:"minimum=0"`
}

// Load reads a scenario file. It uses its own viper instance so the global
// configuration is left alone.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading scenario file: %w", err)
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decoding scenario %s: %w", path, err)
	}
	return &f, nil
}
