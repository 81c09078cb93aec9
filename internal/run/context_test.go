package run

import (
	"sync"
	"testing"

	"github.com/armada-sim/simcore/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestContext_Defaults(t *testing.T) {
	ctx := NewContext()

	assert.Equal(t, "No run loaded", ctx.GetRun().Name)
	assert.False(t, ctx.Loaded())
	name, tick := ctx.Current()
	assert.Empty(t, name)
	assert.Equal(t, uint(0), tick)
}

func TestContext_SetRunResetsTick(t *testing.T) {
	ctx := NewContext()
	ctx.SetTick(9)

	ctx.SetRun(&core.Run{ID: 3, Name: "duel"})
	assert.True(t, ctx.Loaded())
	assert.Equal(t, uint(0), ctx.Tick())

	ctx.SetTick(17)
	name, tick := ctx.Current()
	assert.Equal(t, "duel", name)
	assert.Equal(t, uint(17), tick)
}

func TestContext_ThreadSafe(t *testing.T) {
	ctx := NewContext()
	ctx.SetRun(&core.Run{ID: 1, Name: "race"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			ctx.SetTick(uint(i))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = ctx.Current()
			_ = ctx.GetRun()
		}()
	}
	wg.Wait()
	assert.Less(t, ctx.Tick(), uint(8))
}
