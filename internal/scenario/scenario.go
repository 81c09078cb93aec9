package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/armada-sim/simcore/internal/rules"
	"github.com/armada-sim/simcore/internal/sim"
	"github.com/armada-sim/simcore/pkg/core"
)

// OrderType is what an order tells the selected vehicles to do.
type OrderType string

const (
	OrderMove    OrderType = "move"
	OrderRotate  OrderType = "rotate"
	OrderStop    OrderType = "stop"
	OrderSelect  OrderType = "select"
	OrderAssign  OrderType = "assign"
	OrderDismiss OrderType = "dismiss"
	OrderNuclear OrderType = "nuclear"
)

func (t OrderType) valid() bool {
	switch t {
	case OrderMove, OrderRotate, OrderStop, OrderSelect, OrderAssign, OrderDismiss, OrderNuclear:
		return true
	}
	return false
}

// Order is a validated order.
//
// Vehicles are picked by IDs, then by Selection. An order naming neither
// applies to the currently selected vehicles. For assign and dismiss Group is
// the group being changed and never part of the selection.
type Order struct {
	Tick            uint
	Type            OrderType
	IDs             []int64
	Selection       sim.Selection
	Group           int
	Point           core.Point
	Angle           float64
	MaxSpeed        float64
	MaxAngularSpeed float64
}

// Explicit reports whether the order names its vehicles itself.
func (o Order) Explicit() bool {
	return len(o.IDs) > 0 || o.Selection.Kind != nil || o.Selection.Group != nil
}

// Picks reports whether the order applies to v.
func (o Order) Picks(v *sim.Vehicle) bool {
	if !o.Explicit() {
		return v.Selected
	}
	for _, id := range o.IDs {
		if id == v.ID {
			return true
		}
	}
	return v.Matches(o.Selection)
}

// Scenario is a validated scenario ready to run.
type Scenario struct {
	Name        string
	Path        string
	Ticks       uint
	Origin      *core.LonLat
	Environment sim.Environment
	// ascending id
	Vehicles []*sim.Vehicle
	// ascending tick, file order within a tick
	Orders []Order
}

// Open loads and validates the scenario at path.
func Open(path string, r *rules.Rules) (*Scenario, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	s, err := f.Build(r)
	if err != nil {
		return nil, err
	}
	s.Path = path
	return s, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidScenario)
}

// Build validates the file against r and creates the starting vehicles.
func (f *File) Build(r *rules.Rules) (*Scenario, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, invalid("missing name")
	}
	if f.Ticks == 0 {
		return nil, invalid("ticks must be positive")
	}
	if f.Origin != nil && (f.Origin.Lat < -85 || f.Origin.Lat > 85 || f.Origin.Lon < -180 || f.Origin.Lon > 180) {
		return nil, invalid("origin %v,%v out of range", f.Origin.Lon, f.Origin.Lat)
	}

	env, err := f.Environment.build()
	if err != nil {
		return nil, err
	}

	s := &Scenario{
		Name:        f.Name,
		Ticks:       f.Ticks,
		Origin:      f.Origin,
		Environment: env,
	}

	known := make(map[int64]bool, len(f.Vehicles))
	for i, vf := range f.Vehicles {
		v, err := vf.build(r)
		if err != nil {
			return nil, fmt.Errorf("vehicle #%d: %w", i, err)
		}
		if known[v.ID] {
			return nil, invalid("duplicate vehicle id %d", v.ID)
		}
		known[v.ID] = true
		s.Vehicles = append(s.Vehicles, v)
	}
	if len(s.Vehicles) == 0 {
		return nil, invalid("no vehicles")
	}
	sort.Slice(s.Vehicles, func(i, j int) bool { return s.Vehicles[i].ID < s.Vehicles[j].ID })
	for i, a := range s.Vehicles {
		for _, b := range s.Vehicles[i+1:] {
			if a.IsAerial() == b.IsAerial() && sim.Overlaps(a, b, r.Eps) {
				return nil, invalid("vehicles %d and %d overlap", a.ID, b.ID)
			}
		}
	}

	for i, of := range f.Orders {
		o, err := of.build(r, known, f.Ticks)
		if err != nil {
			return nil, fmt.Errorf("order #%d: %w", i, err)
		}
		s.Orders = append(s.Orders, o)
	}
	sort.SliceStable(s.Orders, func(i, j int) bool { return s.Orders[i].Tick < s.Orders[j].Tick })

	return s, nil
}

func (e EnvironmentFile) build() (sim.Environment, error) {
	if len(e.Terrain) == 0 && len(e.Weather) == 0 {
		return sim.Uniform{}, nil
	}

	terrain := make([][]core.TerrainType, len(e.Terrain))
	for y, row := range e.Terrain {
		terrain[y] = make([]core.TerrainType, len(row))
		for x, name := range row {
			t, err := core.ParseTerrainType(name)
			if err != nil {
				return nil, invalid("terrain cell %d,%d: %v", x, y, err)
			}
			terrain[y][x] = t
		}
	}
	if len(terrain) == 0 {
		terrain = [][]core.TerrainType{{core.Plain}}
	}

	var weather [][]core.WeatherType
	if len(e.Weather) > 0 {
		weather = make([][]core.WeatherType, len(e.Weather))
		for y, row := range e.Weather {
			weather[y] = make([]core.WeatherType, len(row))
			for x, name := range row {
				w, err := core.ParseWeatherType(name)
				if err != nil {
					return nil, invalid("weather cell %d,%d: %v", x, y, err)
				}
				weather[y][x] = w
			}
		}
	}

	cellSize := e.CellSize
	if cellSize == 0 {
		cellSize = 32
	}
	env, err := sim.NewGridEnvironment(cellSize, terrain, weather)
	if err != nil {
		return nil, invalid("environment: %v", err)
	}
	return env, nil
}

func (vf VehicleFile) build(r *rules.Rules) (*sim.Vehicle, error) {
	if vf.ID <= 0 {
		return nil, invalid("id must be positive, got %d", vf.ID)
	}
	kind, err := core.ParseVehicleKind(vf.Kind)
	if err != nil {
		return nil, invalid("vehicle %d: %v", vf.ID, err)
	}
	stats := r.Stats[kind]

	durability := stats.MaxDurability
	if vf.Durability != nil {
		durability = *vf.Durability
	}
	if durability <= 0 || durability > stats.MaxDurability {
		return nil, invalid("vehicle %d: durability %d outside 1..%d", vf.ID, durability, stats.MaxDurability)
	}
	if vf.Cooldown < 0 {
		return nil, invalid("vehicle %d: negative cooldown", vf.ID)
	}

	pos := core.Point{X: vf.X, Y: vf.Y}
	if !r.InBounds(pos, r.VehicleRadius) {
		return nil, invalid("vehicle %d: position %v,%v off the map", vf.ID, vf.X, vf.Y)
	}

	v, err := sim.FromSnapshot(core.VehicleSnapshot{
		ID:                           vf.ID,
		IsMy:                         vf.Mine,
		Kind:                         kind,
		Position:                     pos,
		Radius:                       r.VehicleRadius,
		Durability:                   durability,
		MaxSpeed:                     stats.Speed,
		VisionRange:                  stats.VisionRange,
		RemainingAttackCooldownTicks: vf.Cooldown,
		Groups:                       vf.Groups,
		Selected:                     vf.Selected,
	})
	if err != nil {
		return nil, invalid("%v", err)
	}
	return v, nil
}

func (of OrderFile) build(r *rules.Rules, known map[int64]bool, ticks uint) (Order, error) {
	o := Order{
		Tick:            of.Tick,
		Type:            OrderType(strings.ToLower(strings.TrimSpace(of.Type))),
		IDs:             of.IDs,
		Point:           core.Point{X: of.X, Y: of.Y},
		Angle:           of.Angle,
		MaxSpeed:        of.MaxSpeed,
		MaxAngularSpeed: of.MaxAngularSpeed,
	}
	if !o.Type.valid() {
		return Order{}, invalid("unknown order type %q", of.Type)
	}
	if o.Tick >= ticks {
		return Order{}, invalid("%s order at tick %d, run has %d ticks", o.Type, o.Tick, ticks)
	}
	if o.MaxSpeed < 0 || o.MaxAngularSpeed < 0 {
		return Order{}, invalid("%s order: negative speed cap", o.Type)
	}
	for _, id := range o.IDs {
		if !known[id] {
			return Order{}, invalid("%s order names unknown vehicle %d", o.Type, id)
		}
	}

	if of.Kind != "" {
		kind, err := core.ParseVehicleKind(of.Kind)
		if err != nil {
			return Order{}, invalid("%s order: %v", o.Type, err)
		}
		o.Selection.Kind = &kind
	}

	if of.Group != nil {
		g := *of.Group
		if g < 0 || g >= sim.MaxGroups {
			return Order{}, fmt.Errorf("%s order: group %d: %w: %w", o.Type, g, sim.ErrGroupOutOfRange, ErrInvalidScenario)
		}
		switch o.Type {
		case OrderAssign, OrderDismiss:
			o.Group = g
		default:
			o.Selection.Group = &g
		}
	}

	switch o.Type {
	case OrderAssign, OrderDismiss:
		if of.Group == nil {
			return Order{}, invalid("%s order without group", o.Type)
		}
	case OrderMove:
		if !r.InBounds(o.Point, 0) {
			return Order{}, invalid("move target %v,%v off the map", of.X, of.Y)
		}
	case OrderRotate:
		if o.Angle == 0 {
			return Order{}, invalid("rotate order with zero angle")
		}
	case OrderNuclear:
		if !r.InBounds(o.Point, 0) {
			return Order{}, invalid("nuclear strike at %v,%v off the map", of.X, of.Y)
		}
	}
	return o, nil
}
