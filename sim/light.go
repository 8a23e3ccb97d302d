package sim

import (
	"github.com/anggasct/fluo"
)

// Phase is one of the three traffic light states.
type Phase int

const (
	PhaseGreen Phase = iota
	PhaseYellow
	PhaseRed
)

func (p Phase) String() string {
	switch p {
	case PhaseGreen:
		return "green"
	case PhaseYellow:
		return "yellow"
	case PhaseRed:
		return "red"
	default:
		return "unknown"
	}
}

// phaseFromState maps a fluo state id back to a Phase.
func phaseFromState(id string) (Phase, bool) {
	switch id {
	case "green":
		return PhaseGreen, true
	case "yellow":
		return PhaseYellow, true
	case "red":
		return PhaseRed, true
	}
	return 0, false
}

// ParsePhase maps a phase name ("green", "yellow", "red") to its Phase value.
func ParsePhase(name string) (Phase, bool) {
	return phaseFromState(name)
}

// eventTimerExpired drives the light around its cycle. One event per expired
// phase duration, fired from Update.
const eventTimerExpired = "timer_expired"

// PhaseListener is notified synchronously after every phase transition.
type PhaseListener func(from, to Phase)

// TrafficLightController owns the light's phase and timing. The phase cycle
// GREEN → YELLOW → RED → GREEN lives in a fluo state machine; the controller
// adds the fixed-timestep timing around it: Update(dt) accumulates elapsed
// time and fires one timer_expired event per expired duration, carrying the
// overshoot into the next phase so no simulated time is lost or
// double-counted across a boundary.
type TrafficLightController struct {
	durations [3]float64 // seconds per phase, indexed by Phase
	elapsed   float64    // time spent in the current phase
	machine   fluo.Machine
	listeners []PhaseListener
}

// lightObserver adapts fluo transition notifications to PhaseListeners.
type lightObserver struct {
	fluo.BaseObserver
	ctrl *TrafficLightController
}

func (o *lightObserver) OnTransition(from, to string, _ fluo.Event, _ fluo.Context) {
	f, okFrom := phaseFromState(from)
	t, okTo := phaseFromState(to)
	if !okFrom || !okTo {
		return
	}
	for _, l := range o.ctrl.listeners {
		l(f, t)
	}
}

// NewTrafficLightController builds the phase machine and enters the
// configured start phase with a fresh timer. Timings must already be
// validated; a machine that fails to start is a ConfigurationError.
func NewTrafficLightController(t LightTimings) (*TrafficLightController, error) {
	b := fluo.NewMachine()
	b.State(PhaseGreen.String()).Initial().To(PhaseYellow.String()).On(eventTimerExpired)
	b.State(PhaseYellow.String()).To(PhaseRed.String()).On(eventTimerExpired)
	b.State(PhaseRed.String()).To(PhaseGreen.String()).On(eventTimerExpired)

	m := b.Build().CreateInstance()
	if err := m.Start(); err != nil {
		return nil, newConfigError("light", "phase machine failed to start: %v", err)
	}
	if t.Start != PhaseGreen {
		if err := m.SetState(t.Start.String()); err != nil {
			return nil, newConfigError("light.start", "cannot enter phase %s: %v", t.Start, err)
		}
	}

	c := &TrafficLightController{
		durations: [3]float64{t.Green, t.Yellow, t.Red},
		machine:   m,
	}
	// Observer attached after the start phase is set so listeners only ever
	// see timer-driven transitions.
	m.AddObserver(&lightObserver{ctrl: c})
	return c, nil
}

// Phase returns the current phase, read-only.
func (c *TrafficLightController) Phase() Phase {
	p, ok := phaseFromState(c.machine.CurrentState())
	if !ok {
		// The machine only ever holds the three phase states.
		panic(invariantf("light.phase", "machine in unknown state %q", c.machine.CurrentState()))
	}
	return p
}

// PhaseElapsed returns the time spent in the current phase so far.
func (c *TrafficLightController) PhaseElapsed() float64 {
	return c.elapsed
}

// OnTransition registers a listener invoked after every phase change.
func (c *TrafficLightController) OnTransition(l PhaseListener) {
	c.listeners = append(c.listeners, l)
}

// Update advances the phase timer by dt seconds, cycling through as many
// phases as dt covers. The overshoot past each boundary is subtracted before
// the transition so the next phase starts with exactly the leftover time on
// its clock.
func (c *TrafficLightController) Update(dt float64) error {
	if dt < 0 {
		return invariantf("light.update", "negative dt %v", dt)
	}
	c.elapsed += dt
	for c.elapsed >= c.durations[c.Phase()] {
		c.elapsed -= c.durations[c.Phase()]
		if res := c.machine.HandleEvent(eventTimerExpired, nil); !res.Success() {
			return invariantf("light.update", "phase transition rejected from %s: %s",
				c.machine.CurrentState(), res.RejectionReason)
		}
	}
	return nil
}
