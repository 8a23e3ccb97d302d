package sim

import "math"

// MotionModel is the physics contract behind vehicle stop/go decisions.
// Distances are in metres, velocities in m/s, time in seconds. The exact
// braking kinematics are a tunable policy: the loop only relies on the
// contract, never on a particular deceleration curve.
type MotionModel interface {
	// BrakingDistance returns the minimum distance needed to stop from velocity v.
	BrakingDistance(v float64) float64

	// AccelerateStep advances toward targetV over dt seconds. If targetV is
	// reached mid-step the vehicle cruises at targetV for the remainder.
	// Returns (distance travelled, new velocity).
	AccelerateStep(v, targetV, dt float64) (dist, newV float64)

	// DecelerateStep brakes toward targetV (≥ 0) over dt seconds, cruising at
	// targetV if it is reached mid-step. Returns (distance travelled, new velocity).
	DecelerateStep(v, targetV, dt float64) (dist, newV float64)
}

// ConstantAcceleration implements MotionModel with fixed traction and
// braking rates. The default and only built-in model.
type ConstantAcceleration struct {
	Accel float64 // traction acceleration, m/s²
	Decel float64 // service braking deceleration, m/s² (positive)
}

func (c ConstantAcceleration) BrakingDistance(v float64) float64 {
	if c.Decel <= 0 {
		return math.Inf(1)
	}
	return (v * v) / (2 * c.Decel)
}

func (c ConstantAcceleration) AccelerateStep(v, targetV, dt float64) (float64, float64) {
	if c.Accel <= 0 || v >= targetV {
		return v * dt, v
	}
	tToTarget := (targetV - v) / c.Accel
	if tToTarget <= dt {
		// Reaches targetV mid-step: accelerate, then cruise for the remainder.
		s1 := v*tToTarget + 0.5*c.Accel*tToTarget*tToTarget
		s2 := targetV * (dt - tToTarget)
		return s1 + s2, targetV
	}
	newV := v + c.Accel*dt
	return v*dt + 0.5*c.Accel*dt*dt, newV
}

func (c ConstantAcceleration) DecelerateStep(v, targetV, dt float64) (float64, float64) {
	if c.Decel <= 0 || v <= targetV {
		return v * dt, v
	}
	tToTarget := (v - targetV) / c.Decel
	if tToTarget <= dt {
		// Reaches targetV mid-step: brake, then cruise for the remainder.
		s1 := v*tToTarget - 0.5*c.Decel*tToTarget*tToTarget
		s2 := targetV * (dt - tToTarget)
		return math.Max(0, s1) + s2, targetV
	}
	newV := v - c.Decel*dt
	return math.Max(0, v*dt-0.5*c.Decel*dt*dt), newV
}
