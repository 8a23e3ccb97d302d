package sim

import "math"

// VehicleState is the stop/go state of one vehicle.
type VehicleState int

const (
	VehicleMoving VehicleState = iota
	VehicleBraking
	VehicleStopped
	VehicleDeparted
)

func (s VehicleState) String() string {
	switch s {
	case VehicleMoving:
		return "moving"
	case VehicleBraking:
		return "braking"
	case VehicleStopped:
		return "stopped"
	case VehicleDeparted:
		return "departed"
	default:
		return "unknown"
	}
}

// VehicleKind is a tagged variant describing a class of vehicle. Per-kind
// parameters replace any need for a type hierarchy: behavior differences are
// data, not code.
type VehicleKind struct {
	Name        string  `yaml:"name"`
	Length      float64 `yaml:"length"`       // bumper-to-bumper length, metres
	SpeedFactor float64 `yaml:"speed_factor"` // fraction of the global max speed, (0, 1]
	Weight      float64 `yaml:"weight"`       // relative spawn probability, > 0
}

// DefaultKinds returns the built-in kind table.
func DefaultKinds() []VehicleKind {
	return []VehicleKind{
		{Name: "car", Length: 4.5, SpeedFactor: 1.0, Weight: 0.7},
		{Name: "van", Length: 5.5, SpeedFactor: 0.9, Weight: 0.2},
		{Name: "bus", Length: 11.0, SpeedFactor: 0.8, Weight: 0.1},
	}
}

// VehicleAgent owns one vehicle's kinematic and stop/go state. Position is
// the front bumper's distance from the spawn origin; the body occupies
// [Position−Kind.Length, Position]. Agents are mutated only by their own
// Update, called once per tick by the loop in front-to-back order.
type VehicleAgent struct {
	ID       uint64
	Kind     VehicleKind
	Position float64
	Speed    float64
	State    VehicleState

	motion   MotionModel
	lane     LaneConfig
	topSpeed float64 // Kind.SpeedFactor · configured max speed

	SpawnedAt float64 // simulated clock at spawn, for travel time accounting
	Waited    float64 // cumulative seconds spent stopped
}

// newVehicleAgent is called by the SpawnScheduler only.
func newVehicleAgent(id uint64, kind VehicleKind, cfg Config, now float64) *VehicleAgent {
	topSpeed := cfg.Kinematics.MaxSpeed * kind.SpeedFactor
	return &VehicleAgent{
		ID:        id,
		Kind:      kind,
		Position:  0,
		Speed:     math.Min(cfg.Spawn.InitialSpeed, topSpeed),
		State:     VehicleMoving,
		motion:    ConstantAcceleration{Accel: cfg.Kinematics.Accel, Decel: cfg.Kinematics.Decel},
		lane:      cfg.Lane,
		topSpeed:  topSpeed,
		SpawnedAt: now,
	}
}

// boundByLight reports whether the light still constrains this vehicle.
// A front bumper at or beyond the stop line is past it and always continues;
// the check uses the start-of-tick position, never a mid-tick one.
func (v *VehicleAgent) boundByLight(phase Phase) bool {
	return phase != PhaseGreen && v.Position < v.lane.StopLine
}

// constraintDistance returns how much clear road the vehicle has before it
// must be standing still: the distance to its stop-line halt point while the
// light binds it, the distance to the minimum following gap behind its lead
// vehicle, whichever is nearer. +Inf when unconstrained.
func (v *VehicleAgent) constraintDistance(phase Phase, lead *VehicleAgent) float64 {
	constraint := math.Inf(1)
	if v.boundByLight(phase) {
		constraint = (v.lane.StopLine - v.lane.StopBuffer) - v.Position
	}
	if lead != nil && lead.State != VehicleDeparted {
		if gap := (lead.Position - lead.Kind.Length - v.lane.MinGap) - v.Position; gap < constraint {
			constraint = gap
		}
	}
	return constraint
}

// Update advances the vehicle by one tick. The speed and state are decided
// from the start-of-tick constraint first; the position integrates afterward,
// which is what prevents overshoot past a just-computed stop point. The lead
// pointer, if any, has already completed its own update this tick, so its
// position is final.
func (v *VehicleAgent) Update(dt float64, phase Phase, lead *VehicleAgent) error {
	if dt < 0 {
		return invariantf("vehicle.update", "negative dt %v for vehicle %d", dt, v.ID)
	}
	if v.State == VehicleDeparted {
		return nil
	}

	constraint := v.constraintDistance(phase, lead)

	var moved float64
	switch {
	case constraint <= 0:
		// Already at the stop point: hold.
		v.State = VehicleStopped
		v.Speed = 0
		v.Waited += dt
		return nil
	case constraint <= v.motion.BrakingDistance(v.Speed)+v.Speed*dt:
		// One tick of lookahead on top of the braking distance, so braking
		// always begins before the stop point is inside it.
		v.State = VehicleBraking
		moved, v.Speed = v.motion.DecelerateStep(v.Speed, 0, dt)
	default:
		v.State = VehicleMoving
		moved, v.Speed = v.motion.AccelerateStep(v.Speed, v.topSpeed, dt)
	}

	pos := v.Position + moved

	// Clamps guarantee the hard invariants even when the policy above
	// decided late: never cross the halt point on a non-green light, never
	// close under the minimum following gap.
	if v.boundByLight(phase) {
		if halt := v.lane.StopLine - v.lane.StopBuffer; pos >= halt {
			pos = halt
			v.Speed = 0
			v.State = VehicleStopped
		}
	}
	if lead != nil && lead.State != VehicleDeparted {
		if limit := lead.Position - lead.Kind.Length - v.lane.MinGap; pos >= limit {
			pos = math.Max(limit, v.Position)
			v.Speed = 0
			v.State = VehicleStopped
		}
	}
	if pos < v.Position {
		return invariantf("vehicle.position", "vehicle %d would reverse from %v to %v", v.ID, v.Position, pos)
	}
	v.Position = pos

	if v.State == VehicleStopped {
		v.Waited += dt
	}
	if v.Position > v.lane.Length {
		v.State = VehicleDeparted
	}
	return nil
}
