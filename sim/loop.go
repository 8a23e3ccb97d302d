package sim

import (
	"context"
	"math"
	"time"

	"github.com/anggasct/fluo"
	"github.com/sirupsen/logrus"

	"github.com/intersection-sim/intersection-sim/sim/trace"
)

// Lifecycle states and the events that move between them.
const (
	stateRunning = "running"
	statePaused  = "paused"
	stateStopped = "stopped"

	eventPauseToggle = "pause_toggle"
	eventTerminate   = "terminate"
)

// positionSlack absorbs float64 rounding when checking ordering and gap
// invariants after a tick.
const positionSlack = 1e-9

// SimulationLoop owns the clock and drives every subsystem with a fixed
// timestep. Vehicles are kept in front-to-back order: index 0 is closest to
// departing, the last element is the most recent spawn. All methods must be
// called from the goroutine running the loop; concurrent callers talk to it
// through the InputQueue.
type SimulationLoop struct {
	cfg       Config
	clock     float64
	light     *TrafficLightController
	spawner   *SpawnScheduler
	vehicles  []*VehicleAgent
	lifecycle fluo.Machine
	inputs    *InputQueue
	metrics   *Metrics
	renderer  Renderer
	tracer    *trace.SimulationTrace
}

// NewSimulationLoop validates cfg and assembles a loop at clock zero.
func NewSimulationLoop(cfg Config) (*SimulationLoop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	light, err := NewTrafficLightController(cfg.Light)
	if err != nil {
		return nil, err
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Loop.Seed))

	lifecycle := fluo.NewMachine().
		State(stateRunning).Initial().
		To(statePaused).On(eventPauseToggle).
		To(stateStopped).On(eventTerminate).
		State(statePaused).
		To(stateRunning).On(eventPauseToggle).
		To(stateStopped).On(eventTerminate).
		State(stateStopped).Final().
		Build().
		CreateInstance()
	if err := lifecycle.Start(); err != nil {
		return nil, invariantf("loop.lifecycle", "start: %v", err)
	}

	loop := &SimulationLoop{
		cfg:       cfg,
		light:     light,
		spawner:   NewSpawnScheduler(cfg, rng),
		lifecycle: lifecycle,
		inputs:    NewInputQueue(),
		metrics:   &Metrics{},
	}
	light.OnTransition(func(from, to Phase) {
		logrus.Debugf("[t=%8.3f] Light %s -> %s", loop.clock, from, to)
		if loop.tracer != nil {
			loop.tracer.RecordPhase(trace.PhaseRecord{Clock: loop.clock, From: from.String(), To: to.String()})
		}
	})
	return loop, nil
}

// SetRenderer installs the frame sink. Must be called before Run.
func (l *SimulationLoop) SetRenderer(r Renderer) { l.renderer = r }

// SetTracer installs the event trace. Must be called before Run.
func (l *SimulationLoop) SetTracer(t *trace.SimulationTrace) { l.tracer = t }

func (l *SimulationLoop) Inputs() *InputQueue { return l.inputs }
func (l *SimulationLoop) Metrics() *Metrics   { return l.metrics }
func (l *SimulationLoop) Clock() float64      { return l.clock }

func (l *SimulationLoop) Paused() bool  { return l.lifecycle.CurrentState() == statePaused }
func (l *SimulationLoop) Stopped() bool { return l.lifecycle.CurrentState() == stateStopped }

// TogglePause flips between running and paused. A no-op after termination:
// the stopped state has no outgoing transitions, so the event is rejected
// there and swallowed here.
func (l *SimulationLoop) TogglePause() {
	if res := l.lifecycle.HandleEvent(eventPauseToggle, nil); res.Success() {
		logrus.Infof("[t=%8.3f] Simulation %s", l.clock, l.lifecycle.CurrentState())
	}
}

// Terminate moves the loop to its final state from either running or paused.
func (l *SimulationLoop) Terminate() {
	if res := l.lifecycle.HandleEvent(eventTerminate, nil); res.Success() {
		logrus.Infof("[t=%8.3f] Simulation stopped", l.clock)
	}
}

func (l *SimulationLoop) applyInputs() {
	for _, ev := range l.inputs.Drain() {
		switch ev.Kind {
		case InputPauseToggle:
			l.TogglePause()
		case InputQuit:
			l.Terminate()
		}
	}
}

// Tick advances the simulation by one fixed step. Queued inputs are applied
// first, then, unless paused or stopped, the light, the spawner, and every
// vehicle in front-to-back order. The renderer sees a frame either way, so a
// paused simulation still repaints.
func (l *SimulationLoop) Tick() error {
	l.applyInputs()

	if l.lifecycle.CurrentState() == stateRunning {
		if err := l.advance(l.cfg.Loop.Step); err != nil {
			return err
		}
	}
	if l.renderer != nil {
		l.renderer.RenderFrame(l.Snapshot())
	}
	return nil
}

func (l *SimulationLoop) advance(dt float64) error {
	l.clock += dt
	l.metrics.RecordPhase(l.light.Phase(), dt)

	if err := l.light.Update(dt); err != nil {
		return err
	}

	var tail *VehicleAgent
	if n := len(l.vehicles); n > 0 {
		tail = l.vehicles[n-1]
	}
	if v, suppressed := l.spawner.MaybeSpawn(dt, tail, l.clock); v != nil || suppressed {
		if suppressed {
			l.metrics.Suppressed++
			logrus.Debugf("[t=%8.3f] Spawn suppressed, origin blocked", l.clock)
			if l.tracer != nil {
				l.tracer.RecordSpawn(trace.SpawnRecord{Clock: l.clock, Suppressed: true})
			}
		} else {
			l.vehicles = append(l.vehicles, v)
			l.metrics.Spawned++
			logrus.Debugf("[t=%8.3f] Spawned %s %d at speed %.1f", l.clock, v.Kind.Name, v.ID, v.Speed)
			if l.tracer != nil {
				l.tracer.RecordSpawn(trace.SpawnRecord{VehicleID: v.ID, Clock: l.clock, Kind: v.Kind.Name})
			}
		}
	}

	phase := l.light.Phase()
	var lead *VehicleAgent
	for _, v := range l.vehicles {
		if err := v.Update(dt, phase, lead); err != nil {
			return err
		}
		if v.State == VehicleDeparted {
			l.metrics.RecordDeparture(v, l.clock)
			logrus.Debugf("[t=%8.3f] Departed %s %d after %.1fs", l.clock, v.Kind.Name, v.ID, l.clock-v.SpawnedAt)
			if l.tracer != nil {
				l.tracer.RecordDeparture(trace.DepartureRecord{
					VehicleID:  v.ID,
					Clock:      l.clock,
					Kind:       v.Kind.Name,
					TravelTime: l.clock - v.SpawnedAt,
					WaitTime:   v.Waited,
				})
			}
			continue
		}
		lead = v
	}
	l.removeDeparted()
	return l.checkInvariants()
}

func (l *SimulationLoop) removeDeparted() {
	kept := l.vehicles[:0]
	for _, v := range l.vehicles {
		if v.State != VehicleDeparted {
			kept = append(kept, v)
		}
	}
	for i := len(kept); i < len(l.vehicles); i++ {
		l.vehicles[i] = nil
	}
	l.vehicles = kept
}

// checkInvariants verifies front-to-back ordering and minimum following gaps
// after every tick. Violations are bugs in the update logic, not user error.
func (l *SimulationLoop) checkInvariants() error {
	for i := 1; i < len(l.vehicles); i++ {
		lead, follower := l.vehicles[i-1], l.vehicles[i]
		if follower.Position > lead.Position+positionSlack {
			return invariantf("loop.order", "vehicle %d at %.4f ahead of lead %d at %.4f",
				follower.ID, follower.Position, lead.ID, lead.Position)
		}
		gap := lead.Position - lead.Kind.Length - follower.Position
		if gap < l.cfg.Lane.MinGap-positionSlack {
			return invariantf("loop.gap", "gap %.4f between %d and %d below minimum %.4f",
				gap, lead.ID, follower.ID, l.cfg.Lane.MinGap)
		}
	}
	return nil
}

// Snapshot copies the observable state into a Snapshot. The vehicle
// slice is freshly allocated, so holders never alias loop internals.
func (l *SimulationLoop) Snapshot() Snapshot {
	views := make([]VehicleView, 0, len(l.vehicles))
	for _, v := range l.vehicles {
		views = append(views, VehicleView{
			ID:       v.ID,
			Kind:     v.Kind.Name,
			Position: v.Position,
			Speed:    v.Speed,
			State:    v.State.String(),
		})
	}
	return Snapshot{
		Clock:    l.clock,
		Phase:    l.light.Phase().String(),
		Paused:   l.Paused(),
		Vehicles: views,
	}
}

// Run ticks until the horizon is reached, Terminate is requested, or ctx is
// cancelled. With Realtime set, ticks are paced by a wall-clock ticker at the
// simulated step; otherwise the loop spins as fast as it can. A horizon of
// zero (or realtime mode) means run until told to stop.
func (l *SimulationLoop) Run(ctx context.Context) error {
	horizon := l.cfg.Loop.Horizon
	if l.cfg.Loop.Realtime || horizon <= 0 {
		horizon = math.Inf(1)
	}
	logrus.Infof("Starting simulation: step=%.4fs horizon=%.1fs seed=%d realtime=%v",
		l.cfg.Loop.Step, l.cfg.Loop.Horizon, l.cfg.Loop.Seed, l.cfg.Loop.Realtime)

	var ticker *time.Ticker
	if l.cfg.Loop.Realtime {
		ticker = time.NewTicker(time.Duration(l.cfg.Loop.Step * float64(time.Second)))
		defer ticker.Stop()
	}

	for !l.Stopped() && l.clock < horizon {
		if ticker != nil {
			select {
			case <-ctx.Done():
				l.Terminate()
				continue
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			l.Terminate()
			continue
		}
		if err := l.Tick(); err != nil {
			return err
		}
	}
	logrus.Infof("Simulation ended at t=%.3fs: %d spawned, %d departed, %d in lane",
		l.clock, l.metrics.Spawned, l.metrics.Departed, len(l.vehicles))
	return nil
}
