package runner

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/armada-sim/simcore/internal/scenario"
	"github.com/armada-sim/simcore/internal/sim"
	"github.com/armada-sim/simcore/internal/worker"
	"github.com/armada-sim/simcore/pkg/core"
)

var (
	acceptedAttr = metric.WithAttributes(attribute.Bool("accepted", true))
	rejectedAttr = metric.WithAttributes(attribute.Bool("accepted", false))
)

// step simulates one tick: orders, movement, attacks, strikes, repairs,
// removal of the dead, then state and tick records.
func (r *Runner) step(tick uint) core.TickStats {
	start := time.Now()
	ctx := context.Background()
	r.opts.RunContext.SetTick(tick)

	stats := core.TickStats{
		RunID:   r.run.ID,
		RunName: r.run.Name,
		Tick:    tick,
		Time:    r.simTime(tick),
	}

	r.applyOrders(tick)
	rejected := r.moveAll(&stats)
	killers := make(map[int64]int64)
	r.attackAll(tick, &stats, killers)
	r.detonate(tick, &stats)
	r.repairAll(&stats)
	r.removeDead(tick, killers)

	if tick%uint(r.opts.StateInterval) == 0 || tick == r.sc.Ticks-1 {
		r.emitStates(tick, rejected)
	}

	stats.AliveMine = r.aliveMine()
	stats.AliveEnemy = r.aliveEnemy()
	stats.Duration = time.Since(start)

	r.summary.MovesAccepted += stats.MovesAccepted
	r.summary.MovesRejected += stats.MovesRejected
	r.summary.Attacks += stats.Attacks
	r.summary.Damage += stats.Damage

	r.moves.Add(ctx, int64(stats.MovesAccepted), acceptedAttr)
	r.moves.Add(ctx, int64(stats.MovesRejected), rejectedAttr)
	r.damage.Add(ctx, int64(stats.Damage))
	r.tickDuration.Record(ctx, float64(stats.Duration.Microseconds())/1000)

	if r.opts.Ticks != nil {
		if err := r.opts.Ticks.WriteTick(stats); err != nil {
			r.log.Warn("Tick stats not written", "tick", tick, "error", err)
		}
	}
	return stats
}

func (r *Runner) applyOrders(tick uint) {
	for len(r.orders) > 0 && r.orders[0].Tick <= tick {
		o := r.orders[0]
		r.orders = r.orders[1:]
		r.apply(o)
	}
}

func (r *Runner) apply(o scenario.Order) {
	if o.Type == scenario.OrderNuclear {
		r.strikes = append(r.strikes, pendingStrike{
			ordered:  o.Tick,
			detonate: o.Tick + uint(r.rules.NuclearStrikeDelay),
			center:   o.Point,
		})
		r.log.Debug("Nuclear strike ordered", "x", o.Point.X, "y", o.Point.Y, "detonate", o.Tick+uint(r.rules.NuclearStrikeDelay))
		return
	}

	if o.Type == scenario.OrderSelect {
		for _, v := range r.vehicles {
			v.Selected = o.Explicit() && o.Picks(v)
		}
		return
	}

	picked := 0
	for _, v := range r.vehicles {
		if !v.IsAlive() || !o.Picks(v) {
			continue
		}
		if err := r.applyTo(o, v); err != nil {
			r.log.Warn("Order refused", "type", o.Type, "vehicle", v.ID, "error", err)
			continue
		}
		picked++
	}
	r.log.Debug("Order applied", "type", o.Type, "tick", o.Tick, "vehicles", picked)
}

func (r *Runner) applyTo(o scenario.Order, v *sim.Vehicle) error {
	switch o.Type {
	case scenario.OrderMove:
		v.MoveTo(o.Point, o.MaxSpeed)
	case scenario.OrderRotate:
		return v.RotateAround(r.rules, o.Point, o.Angle, o.MaxSpeed, o.MaxAngularSpeed)
	case scenario.OrderStop:
		v.ClearIntent()
	case scenario.OrderAssign:
		return v.AddGroup(o.Group)
	case scenario.OrderDismiss:
		return v.RemoveGroup(o.Group)
	default:
		return fmt.Errorf("order type %q not applicable to a vehicle", o.Type)
	}
	return nil
}

// collides checks a candidate against every other live vehicle on the same layer.
func (r *Runner) collides(candidate *sim.Vehicle) bool {
	for _, o := range r.vehicles {
		if o.ID == candidate.ID || !o.IsAlive() || o.IsAerial() != candidate.IsAerial() {
			continue
		}
		if sim.Overlaps(candidate, o, r.rules.Eps) {
			return true
		}
	}
	return false
}

// moveAll moves every live vehicle in ascending id order and returns the
// ids whose move was rejected.
func (r *Runner) moveAll(stats *core.TickStats) map[int64]bool {
	rejected := make(map[int64]bool)
	for _, v := range r.vehicles {
		if !v.IsAlive() {
			continue
		}
		moving := v.IsMoving()
		ok := v.Move(r.world, r.collides)
		if !moving {
			continue
		}
		if ok {
			stats.MovesAccepted++
		} else {
			stats.MovesRejected++
			rejected[v.ID] = true
		}
	}
	return rejected
}

// target picks the enemy a would hurt most, the lowest id on ties.
func (r *Runner) target(a *sim.Vehicle) *sim.Vehicle {
	var (
		best       *sim.Vehicle
		bestDamage int
	)
	for _, t := range r.vehicles {
		if t.IsMy == a.IsMy || !t.IsAlive() {
			continue
		}
		if d := a.AttackDamage(r.rules, t); d > bestDamage {
			best, bestDamage = t, d
		}
	}
	return best
}

func (r *Runner) attackAll(tick uint, stats *core.TickStats, killers map[int64]int64) {
	for _, a := range r.vehicles {
		if !a.IsAlive() || !a.CanAttack() {
			continue
		}
		t := r.target(a)
		if t == nil {
			continue
		}
		distance := a.Position.DistanceTo(t.Position)
		damage := a.Attack(r.rules, t)
		stats.Attacks++
		stats.Damage += damage
		if !t.IsAlive() {
			if _, seen := killers[t.ID]; !seen {
				killers[t.ID] = a.ID
			}
		}
		r.emit(worker.CmdAttack, tick, &core.AttackEvent{
			RunID:      r.run.ID,
			Time:       r.simTime(tick),
			Tick:       tick,
			AttackerID: a.ID,
			TargetID:   t.ID,
			Damage:     damage,
			Distance:   distance,
		})
	}
}

func (r *Runner) detonate(tick uint, stats *core.TickStats) {
	remaining := r.strikes[:0]
	for _, s := range r.strikes {
		if s.detonate > tick {
			remaining = append(remaining, s)
			continue
		}
		ev := &core.NuclearStrikeEvent{
			RunID:       r.run.ID,
			Time:        r.simTime(tick),
			Tick:        tick,
			OrderedTick: s.ordered,
			Center:      s.center,
			Radius:      r.rules.NuclearStrikeRadius,
			Hits:        []core.NuclearHit{},
		}
		for _, v := range r.vehicles {
			if !v.IsAlive() {
				continue
			}
			if damage := v.TakeNuclearStrike(r.rules, s.center); damage > 0 {
				ev.Hits = append(ev.Hits, core.NuclearHit{VehicleID: v.ID, Damage: damage})
			}
		}
		stats.Damage += ev.TotalDamage()
		r.log.Info("Nuclear strike detonated", "x", s.center.X, "y", s.center.Y, "hits", len(ev.Hits), "damage", ev.TotalDamage())
		r.emit(worker.CmdNuclearStrike, tick, ev)
	}
	r.strikes = remaining
}

func (r *Runner) repairAll(stats *core.TickStats) {
	for _, v := range r.vehicles {
		if !v.IsAlive() || v.Durability >= r.rules.MaxDurability(v.Kind) {
			continue
		}
		for _, arrv := range r.vehicles {
			if !v.RepairedBy(r.rules, arrv) {
				continue
			}
			if v.Repair(r.rules) {
				stats.Repaired++
			}
			break
		}
	}
}

func (r *Runner) removeDead(tick uint, killers map[int64]int64) {
	alive := r.vehicles[:0]
	for _, v := range r.vehicles {
		if v.IsAlive() {
			alive = append(alive, v)
			continue
		}
		ev := &core.KillEvent{
			RunID:     r.run.ID,
			Time:      r.simTime(tick),
			Tick:      tick,
			VictimID:  v.ID,
			Position:  v.Position,
			EventText: "destroyed by nuclear strike",
		}
		if killer, ok := killers[v.ID]; ok {
			ev.KillerID = &killer
			ev.EventText = fmt.Sprintf("destroyed by vehicle %d", killer)
		}
		r.summary.Kills++
		r.kills.Add(context.Background(), 1)
		r.emit(worker.CmdKill, tick, ev)
	}
	r.vehicles = alive
}

// emitStates records every live vehicle. rejected may be nil.
func (r *Runner) emitStates(tick uint, rejected map[int64]bool) {
	for _, v := range r.vehicles {
		_, rotating := v.Intent.(sim.Rotate)
		r.emit(worker.CmdVehicleState, tick, &core.VehicleState{
			VehicleID:    v.ID,
			RunID:        r.run.ID,
			Time:         r.simTime(tick),
			Tick:         tick,
			Position:     v.Position,
			Durability:   v.Durability,
			RepairPool:   v.RepairPool,
			Cooldown:     v.Cooldown,
			Groups:       v.Groups.IDs(),
			Moving:       v.IsMoving(),
			Rotating:     rotating,
			ActualSpeed:  v.ActualSpeed(r.world),
			ActualVision: v.ActualVisionRange(r.world),
			MoveRejected: rejected[v.ID],
		})
	}
}
