// pkg/core/types.go
package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when a vehicle kind, terrain or weather name cannot be parsed.
var ErrUnknownKind = errors.New("unknown kind")

// VehicleKind is the category of a vehicle. Base stats are fixed per kind.
type VehicleKind int

const (
	Arrv VehicleKind = iota
	Fighter
	Helicopter
	Ifv
	Tank
)

// VehicleKindCount is the number of vehicle kinds; kind-pair tables are this size squared.
const VehicleKindCount = 5

// VehicleKinds lists every kind in table order.
var VehicleKinds = [VehicleKindCount]VehicleKind{Arrv, Fighter, Helicopter, Ifv, Tank}

var vehicleKindNames = [VehicleKindCount]string{"arrv", "fighter", "helicopter", "ifv", "tank"}

func (k VehicleKind) String() string {
	if k < 0 || int(k) >= VehicleKindCount {
		return fmt.Sprintf("VehicleKind(%d)", int(k))
	}
	return vehicleKindNames[k]
}

// IsAerial reports whether the kind flies. Aerial kinds are affected by weather,
// ground kinds by terrain.
func (k VehicleKind) IsAerial() bool {
	return k == Fighter || k == Helicopter
}

// Valid reports whether k is one of the known kinds.
func (k VehicleKind) Valid() bool {
	return k >= 0 && int(k) < VehicleKindCount
}

// ParseVehicleKind converts a case-insensitive kind name.
func ParseVehicleKind(s string) (VehicleKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range vehicleKindNames {
		if n == name {
			return VehicleKind(i), nil
		}
	}
	return 0, fmt.Errorf("vehicle kind %q: %w", s, ErrUnknownKind)
}

// TerrainType is the ground cover of a map cell.
type TerrainType int

const (
	Plain TerrainType = iota
	Swamp
	Forest
)

func (t TerrainType) String() string {
	switch t {
	case Plain:
		return "plain"
	case Swamp:
		return "swamp"
	case Forest:
		return "forest"
	default:
		return fmt.Sprintf("TerrainType(%d)", int(t))
	}
}

// ParseTerrainType converts a case-insensitive terrain name. Empty means plain.
func ParseTerrainType(s string) (TerrainType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain":
		return Plain, nil
	case "swamp":
		return Swamp, nil
	case "forest":
		return Forest, nil
	}
	return Plain, fmt.Errorf("terrain %q: %w", s, ErrUnknownKind)
}

// WeatherType is the weather over a map cell.
type WeatherType int

const (
	Clear WeatherType = iota
	Cloud
	Rain
)

func (w WeatherType) String() string {
	switch w {
	case Clear:
		return "clear"
	case Cloud:
		return "cloud"
	case Rain:
		return "rain"
	default:
		return fmt.Sprintf("WeatherType(%d)", int(w))
	}
}

// ParseWeatherType converts a case-insensitive weather name. Empty means clear.
func ParseWeatherType(s string) (WeatherType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clear":
		return Clear, nil
	case "cloud":
		return Cloud, nil
	case "rain":
		return Rain, nil
	}
	return Clear, fmt.Errorf("weather %q: %w", s, ErrUnknownKind)
}
