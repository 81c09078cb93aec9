// Package runner drives a scenario tick by tick. It stands in for the game
// engine: it applies the scenario's orders, moves vehicles, resolves the
// engine's automatic attacks, strikes and repairs, and publishes every
// resulting record through the dispatcher.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/armada-sim/simcore/internal/dispatcher"
	"github.com/armada-sim/simcore/internal/rules"
	"github.com/armada-sim/simcore/internal/run"
	"github.com/armada-sim/simcore/internal/scenario"
	"github.com/armada-sim/simcore/internal/sim"
	"github.com/armada-sim/simcore/internal/storage"
	"github.com/armada-sim/simcore/internal/worker"
	"github.com/armada-sim/simcore/pkg/core"
)

// DefaultTickDuration is the simulated time between two ticks.
const DefaultTickDuration = time.Second / 60

// Winner values reported in the run summary.
const (
	WinnerMine  = "mine"
	WinnerEnemy = "enemy"
	WinnerDraw  = "draw"
)

// TickSink receives one summary per simulated tick.
type TickSink interface {
	WriteTick(stats core.TickStats) error
}

// Options tune a run. Zero values fall back to defaults.
type Options struct {
	StateInterval int
	Tag           string
	TickDuration  time.Duration
	RulesSnapshot map[string]any

	Logger     *slog.Logger
	Meter      metric.Meter
	Ticks      TickSink
	RunContext *run.Context
	Clock      func() time.Time
}

type pendingStrike struct {
	ordered  uint
	detonate uint
	center   core.Point
}

// Runner simulates one scenario. It is single-use.
type Runner struct {
	rules   *rules.Rules
	world   sim.World
	sc      *scenario.Scenario
	d       *dispatcher.Dispatcher
	backend storage.Backend
	opts    Options
	log     *slog.Logger

	run      *core.Run
	vehicles []*sim.Vehicle
	orders   []scenario.Order
	strikes  []pendingStrike
	summary  core.RunSummary
	dropped  int

	moves        metric.Int64Counter
	damage       metric.Int64Counter
	kills        metric.Int64Counter
	tickDuration metric.Float64Histogram
}

// New prepares a run of sc. The dispatcher must already have the worker
// handlers registered; the runner closes it when the run ends.
func New(r *rules.Rules, sc *scenario.Scenario, d *dispatcher.Dispatcher, backend storage.Backend, opts Options) (*Runner, error) {
	if opts.StateInterval < 1 {
		opts.StateInterval = 1
	}
	if opts.TickDuration <= 0 {
		opts.TickDuration = DefaultTickDuration
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Meter == nil {
		opts.Meter = meter()
	}
	if opts.RunContext == nil {
		opts.RunContext = run.NewContext()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	rn := &Runner{
		rules:   r,
		world:   sim.World{Rules: r, Env: sc.Environment},
		sc:      sc,
		d:       d,
		backend: backend,
		opts:    opts,
		log:     opts.Logger.With("component", "runner"),
		orders:  sc.Orders,
	}
	for _, v := range sc.Vehicles {
		rn.vehicles = append(rn.vehicles, v.Clone())
	}

	var err error
	rn.moves, err = opts.Meter.Int64Counter(
		"runner.moves",
		metric.WithDescription("Vehicle moves attempted, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating moves counter: %w", err)
	}
	rn.damage, err = opts.Meter.Int64Counter(
		"runner.damage",
		metric.WithDescription("Durability removed by attacks and strikes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating damage counter: %w", err)
	}
	rn.kills, err = opts.Meter.Int64Counter(
		"runner.kills",
		metric.WithDescription("Vehicles destroyed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating kills counter: %w", err)
	}
	rn.tickDuration, err = opts.Meter.Float64Histogram(
		"runner.tick.duration",
		metric.WithDescription("Wall time spent simulating one tick"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick duration histogram: %w", err)
	}

	return rn, nil
}

// Run simulates every tick and ends the run on the backend. When ctx is
// cancelled the run is still ended and the context error returned with the
// partial summary.
func (r *Runner) Run(ctx context.Context) (*core.RunSummary, error) {
	r.run = &core.Run{
		Name:         r.sc.Name,
		ScenarioPath: r.sc.Path,
		StartTime:    r.opts.Clock().UTC(),
		Ticks:        r.sc.Ticks,
		MapSize:      r.rules.MapSize,
		Tag:          r.opts.Tag,
		Rules:        r.opts.RulesSnapshot,
		Origin:       r.sc.Origin,
	}
	if err := r.backend.StartRun(r.run); err != nil {
		r.d.Close()
		return nil, fmt.Errorf("starting run: %w", err)
	}
	r.opts.RunContext.SetRun(r.run)
	r.summary.RunID = r.run.ID
	r.log.Info("Run started", "run", r.run.Name, "id", r.run.ID, "ticks", r.run.Ticks, "vehicles", len(r.vehicles))

	for _, v := range r.vehicles {
		_, err := r.d.Dispatch(dispatcher.Event{
			Command: worker.CmdNewVehicle,
			Payload: &core.Vehicle{
				ID:       v.ID,
				RunID:    r.run.ID,
				JoinTime: r.run.StartTime,
				Kind:     v.Kind,
				IsMy:     v.IsMy,
				Radius:   v.Radius,
			},
			Timestamp: r.run.StartTime,
		})
		if err != nil {
			r.d.Close()
			return nil, fmt.Errorf("registering vehicle %d: %w", v.ID, err)
		}
	}

	bothSides := r.aliveMine() > 0 && r.aliveEnemy() > 0

	var runErr error
	for tick := uint(0); tick < r.sc.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		stats := r.step(tick)
		r.summary.EndTick = tick
		if bothSides && (stats.AliveMine == 0 || stats.AliveEnemy == 0) {
			r.log.Info("One side eliminated", "tick", tick, "aliveMine", stats.AliveMine, "aliveEnemy", stats.AliveEnemy)
			if tick%uint(r.opts.StateInterval) != 0 && tick != r.sc.Ticks-1 {
				r.emitStates(tick, nil)
			}
			break
		}
	}

	// drain buffered events before the backend closes the run
	r.d.Close()

	r.summary.AliveMine = r.aliveMine()
	r.summary.AliveEnemy = r.aliveEnemy()
	r.summary.Winner = r.winner()

	if err := r.backend.EndRun(&r.summary); err != nil {
		return &r.summary, fmt.Errorf("ending run: %w", err)
	}
	r.log.Info("Run ended",
		"endTick", r.summary.EndTick,
		"winner", r.summary.Winner,
		"kills", r.summary.Kills,
		"damage", r.summary.Damage,
		"dropped", r.dropped,
	)
	return &r.summary, runErr
}

// Vehicles returns the vehicles still alive, ascending by id.
func (r *Runner) Vehicles() []*sim.Vehicle {
	return r.vehicles
}

// Dropped is the number of records the dispatcher refused.
func (r *Runner) Dropped() int {
	return r.dropped
}

func (r *Runner) simTime(tick uint) time.Time {
	return r.run.StartTime.Add(time.Duration(tick) * r.opts.TickDuration)
}

func (r *Runner) emit(command string, tick uint, payload any) {
	_, err := r.d.Dispatch(dispatcher.Event{
		Command:   command,
		Tick:      tick,
		Payload:   payload,
		Timestamp: r.simTime(tick),
	})
	if err != nil {
		r.dropped++
		r.log.Warn("Record not dispatched", "command", command, "tick", tick, "error", err)
	}
}

func (r *Runner) aliveMine() int {
	n := 0
	for _, v := range r.vehicles {
		if v.IsMy && v.IsAlive() {
			n++
		}
	}
	return n
}

func (r *Runner) aliveEnemy() int {
	n := 0
	for _, v := range r.vehicles {
		if !v.IsMy && v.IsAlive() {
			n++
		}
	}
	return n
}

// winner compares the sides by surviving durability, repair pools included.
func (r *Runner) winner() string {
	var mine, enemy float64
	for _, v := range r.vehicles {
		if !v.IsAlive() {
			continue
		}
		if v.IsMy {
			mine += v.FullDurability(r.rules)
		} else {
			enemy += v.FullDurability(r.rules)
		}
	}
	switch {
	case mine > enemy:
		return WinnerMine
	case enemy > mine:
		return WinnerEnemy
	}
	return WinnerDraw
}
