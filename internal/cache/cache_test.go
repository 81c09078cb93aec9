package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armada-sim/simcore/pkg/core"
)

func TestVehicleCache_New(t *testing.T) {
	cache := NewVehicleCache()

	require.NotNil(t, cache)
	assert.NotNil(t, cache.Vehicles)
	assert.Equal(t, 0, cache.Len())
}

func TestVehicleCache_AddAndGet(t *testing.T) {
	cache := NewVehicleCache()

	cache.AddVehicle(core.Vehicle{ID: 42, Kind: core.Tank, IsMy: true, Radius: 2})

	got, ok := cache.GetVehicle(42)
	require.True(t, ok, "expected to find vehicle with ID 42")
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, core.Tank, got.Kind)
	assert.True(t, got.IsMy)
}

func TestVehicleCache_GetVehicle_NotFound(t *testing.T) {
	cache := NewVehicleCache()

	_, ok := cache.GetVehicle(999)
	assert.False(t, ok, "expected not to find vehicle with ID 999")
}

func TestVehicleCache_Reset(t *testing.T) {
	cache := NewVehicleCache()

	cache.AddVehicle(core.Vehicle{ID: 1})
	cache.AddVehicle(core.Vehicle{ID: 2})
	cache.MarkDead(1, 10)
	assert.Equal(t, 2, cache.Len())

	cache.Reset()

	assert.Equal(t, 0, cache.Len())
	_, dead := cache.DeathTick(1)
	assert.False(t, dead)

	cache.AddVehicle(core.Vehicle{ID: 3})
	_, ok := cache.GetVehicle(3)
	assert.True(t, ok, "expected to find vehicle added after reset")
}

func TestVehicleCache_MarkDead(t *testing.T) {
	cache := NewVehicleCache()
	cache.AddVehicle(core.Vehicle{ID: 1, IsMy: true})
	cache.AddVehicle(core.Vehicle{ID: 2, IsMy: true})
	cache.AddVehicle(core.Vehicle{ID: 3, IsMy: false})

	mine, enemy := cache.Alive()
	assert.Equal(t, 2, mine)
	assert.Equal(t, 1, enemy)

	assert.True(t, cache.MarkDead(2, 15))
	assert.True(t, cache.MarkDead(2, 20), "second mark keeps the first tick")
	assert.False(t, cache.MarkDead(99, 1))

	tick, ok := cache.DeathTick(2)
	require.True(t, ok)
	assert.Equal(t, uint(15), tick)

	mine, enemy = cache.Alive()
	assert.Equal(t, 1, mine)
	assert.Equal(t, 1, enemy)
}

func TestVehicleCache_LockUnlock(t *testing.T) {
	cache := NewVehicleCache()

	cache.Lock()
	cache.Vehicles[1] = core.Vehicle{ID: 1, Kind: core.Arrv}
	cache.Unlock()

	got, ok := cache.GetVehicle(1)
	require.True(t, ok, "expected to find vehicle added while holding lock")
	assert.Equal(t, core.Arrv, got.Kind)
}

func TestVehicleCache_Concurrent(t *testing.T) {
	cache := NewVehicleCache()
	var wg sync.WaitGroup

	for i := int64(0); i < 100; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			cache.AddVehicle(core.Vehicle{ID: id})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, cache.Len())

	for i := int64(0); i < 100; i++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			cache.GetVehicle(id)
		}(i)
		go func(id int64) {
			defer wg.Done()
			cache.MarkDead(id, uint(id))
		}(i)
	}
	wg.Wait()

	mine, enemy := cache.Alive()
	assert.Equal(t, 0, mine+enemy)
}

// SafeCounter tests

func TestSafeCounter_InitialValue(t *testing.T) {
	c := &SafeCounter{}
	assert.Equal(t, int(0), c.Value())
}

func TestSafeCounter_Set(t *testing.T) {
	c := &SafeCounter{}

	c.Set(42)
	assert.Equal(t, int(42), c.Value())

	c.Set(0)
	assert.Equal(t, int(0), c.Value())
}

func TestSafeCounter_IncAdd(t *testing.T) {
	c := &SafeCounter{}

	c.Inc()
	c.Add(4)
	assert.Equal(t, int(5), c.Value())
}

func TestSafeCounter_Concurrent(t *testing.T) {
	c := &SafeCounter{}
	var wg sync.WaitGroup

	for i := 0; i < 1000; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Inc()
		}()
	}
	wg.Wait()

	assert.Equal(t, int(1000), c.Value())
}
