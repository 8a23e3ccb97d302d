package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantAcceleration_BrakingDistance(t *testing.T) {
	m := ConstantAcceleration{Accel: 2.5, Decel: 4.5}

	// v^2 / (2a): from 9 m/s with 4.5 m/s^2 braking, exactly 9 m
	assert.InDelta(t, 9.0, m.BrakingDistance(9), 1e-9)
	assert.Equal(t, 0.0, m.BrakingDistance(0))
}

func TestConstantAcceleration_AccelerateStep_BelowTarget(t *testing.T) {
	m := ConstantAcceleration{Accel: 2.0, Decel: 4.5}

	// From 5 m/s toward 14 m/s over 1s: v grows to 7, distance 5 + 1 = 6
	dist, newV := m.AccelerateStep(5, 14, 1.0)
	assert.InDelta(t, 7.0, newV, 1e-9)
	assert.InDelta(t, 6.0, dist, 1e-9)
}

func TestConstantAcceleration_AccelerateStep_ReachesTargetMidStep(t *testing.T) {
	m := ConstantAcceleration{Accel: 2.0, Decel: 4.5}

	// From 13 m/s toward 14 m/s: target reached after 0.5s, cruise after.
	// s = 13*0.5 + 0.25 + 14*0.5 = 13.75
	dist, newV := m.AccelerateStep(13, 14, 1.0)
	assert.InDelta(t, 14.0, newV, 1e-9)
	assert.InDelta(t, 13.75, dist, 1e-9)
}

func TestConstantAcceleration_AccelerateStep_AtTargetCruises(t *testing.T) {
	m := ConstantAcceleration{Accel: 2.0, Decel: 4.5}

	dist, newV := m.AccelerateStep(14, 14, 0.5)
	assert.Equal(t, 14.0, newV)
	assert.InDelta(t, 7.0, dist, 1e-9)
}

func TestConstantAcceleration_DecelerateStep_TowardZero(t *testing.T) {
	m := ConstantAcceleration{Accel: 2.0, Decel: 4.0}

	// From 10 m/s over 1s: v drops to 6, distance 10 - 2 = 8
	dist, newV := m.DecelerateStep(10, 0, 1.0)
	assert.InDelta(t, 6.0, newV, 1e-9)
	assert.InDelta(t, 8.0, dist, 1e-9)
}

func TestConstantAcceleration_DecelerateStep_StopsMidStep(t *testing.T) {
	m := ConstantAcceleration{Accel: 2.0, Decel: 4.0}

	// From 2 m/s: stops after 0.5s having travelled 0.5 m, then holds.
	dist, newV := m.DecelerateStep(2, 0, 1.0)
	assert.Equal(t, 0.0, newV)
	assert.InDelta(t, 0.5, dist, 1e-9)
}

func TestConstantAcceleration_DecelerateStep_NeverNegativeDistance(t *testing.T) {
	m := ConstantAcceleration{Accel: 2.0, Decel: 100.0}

	dist, newV := m.DecelerateStep(1, 0, 1.0)
	assert.Equal(t, 0.0, newV)
	assert.GreaterOrEqual(t, dist, 0.0)
}
