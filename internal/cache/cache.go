package cache

import (
	"sync"

	"github.com/armada-sim/simcore/pkg/core"
)

// VehicleCache keeps the static vehicle rows of the current run so state and
// event handlers can resolve ids without a database read.
type VehicleCache struct {
	m        sync.Mutex
	Vehicles map[int64]core.Vehicle
	dead     map[int64]uint
}

func NewVehicleCache() *VehicleCache {
	return &VehicleCache{
		m:        sync.Mutex{},
		Vehicles: make(map[int64]core.Vehicle),
		dead:     make(map[int64]uint),
	}
}

func (c *VehicleCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.Vehicles = make(map[int64]core.Vehicle)
	c.dead = make(map[int64]uint)
}

func (c *VehicleCache) Lock() {
	c.m.Lock()
}

func (c *VehicleCache) Unlock() {
	c.m.Unlock()
}

func (c *VehicleCache) GetVehicle(id int64) (core.Vehicle, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if v, ok := c.Vehicles[id]; ok {
		return v, true
	}
	return core.Vehicle{}, false
}

func (c *VehicleCache) AddVehicle(v core.Vehicle) {
	c.m.Lock()
	defer c.m.Unlock()
	c.Vehicles[v.ID] = v
}

// MarkDead records the tick a vehicle was destroyed. Unknown ids are ignored.
func (c *VehicleCache) MarkDead(id int64, tick uint) bool {
	c.m.Lock()
	defer c.m.Unlock()
	if _, ok := c.Vehicles[id]; !ok {
		return false
	}
	if _, already := c.dead[id]; !already {
		c.dead[id] = tick
	}
	return true
}

// DeathTick returns the tick a vehicle was destroyed on.
func (c *VehicleCache) DeathTick(id int64) (uint, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	t, ok := c.dead[id]
	return t, ok
}

// Alive counts vehicles not marked dead, split by ownership.
func (c *VehicleCache) Alive() (mine, enemy int) {
	c.m.Lock()
	defer c.m.Unlock()
	for id, v := range c.Vehicles {
		if _, dead := c.dead[id]; dead {
			continue
		}
		if v.IsMy {
			mine++
		} else {
			enemy++
		}
	}
	return mine, enemy
}

func (c *VehicleCache) Len() int {
	c.m.Lock()
	defer c.m.Unlock()
	return len(c.Vehicles)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}

func (c *SafeCounter) Add(n int) {
	c.mu.Lock()
	c.v += n
	c.mu.Unlock()
}
