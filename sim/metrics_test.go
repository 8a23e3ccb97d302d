package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordDeparture_Accumulates(t *testing.T) {
	// GIVEN two vehicles with known wait and travel times
	m := &Metrics{}
	cfg := DefaultConfig()

	a := newVehicleAgent(1, DefaultKinds()[0], cfg, 10)
	a.Waited = 3
	b := newVehicleAgent(2, DefaultKinds()[0], cfg, 20)
	b.Waited = 5

	// WHEN both depart
	m.RecordDeparture(a, 30) // travelled 20s
	m.RecordDeparture(b, 50) // travelled 30s

	// THEN the aggregates reflect both
	assert.Equal(t, 2, m.Departed)
	assert.InDelta(t, 8.0, m.TotalWait, 1e-9)
	assert.InDelta(t, 50.0, m.TravelTimeSum, 1e-9)
}

func TestMetrics_RecordPhase_ChargesCorrectBucket(t *testing.T) {
	m := &Metrics{}

	m.RecordPhase(PhaseGreen, 6)
	m.RecordPhase(PhaseYellow, 2)
	m.RecordPhase(PhaseGreen, 1.5)

	assert.InDelta(t, 7.5, m.PhaseTime[PhaseGreen], 1e-9)
	assert.InDelta(t, 2.0, m.PhaseTime[PhaseYellow], 1e-9)
	assert.Equal(t, 0.0, m.PhaseTime[PhaseRed])
}
