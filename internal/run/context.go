// Package run tracks the scenario run currently being simulated.
package run

import (
	"sync"

	"github.com/armada-sim/simcore/pkg/core"
)

// Context holds the active run and the tick being simulated. The runner
// writes it; loggers and storage workers read it from other goroutines.
type Context struct {
	mu   sync.RWMutex
	run  *core.Run
	tick uint
}

// NewContext creates a Context with no run loaded.
func NewContext() *Context {
	return &Context{run: &core.Run{Name: "No run loaded"}}
}

// GetRun returns the current run.
func (c *Context) GetRun() *core.Run {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.run
}

// SetRun makes r the current run and rewinds the tick counter.
func (c *Context) SetRun(r *core.Run) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.run = r
	c.tick = 0
}

// Tick returns the tick being simulated.
func (c *Context) Tick() uint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tick
}

// SetTick records the tick being simulated.
func (c *Context) SetTick(tick uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick = tick
}

// Loaded reports whether a real run has been set.
func (c *Context) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.run != nil && c.run.ID != 0
}

// Current returns the run name and tick for log stamping. The name is empty
// while no run is loaded.
func (c *Context) Current() (string, uint) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.run == nil || c.run.ID == 0 {
		return "", c.tick
	}
	return c.run.Name, c.tick
}
