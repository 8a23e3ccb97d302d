// Tracks simulation-wide traffic metrics such as:

package sim

import "fmt"

// Metrics aggregates statistics about the simulation
// for final reporting. Useful for evaluating signal timing
// and debugging behavior over time.
type Metrics struct {
	Spawned    int // Number of vehicles that entered the lane
	Suppressed int // Spawn trials dropped because the origin was blocked
	Departed   int // Number of vehicles that left the far end

	TotalWait     float64 // Sum of per-vehicle stopped time (seconds)
	TravelTimeSum float64 // Sum of spawn-to-departure times (seconds)

	PhaseTime [3]float64 // Simulated seconds spent in each light phase
}

// RecordPhase charges dt seconds against the given phase.
func (m *Metrics) RecordPhase(p Phase, dt float64) {
	m.PhaseTime[p] += dt
}

// RecordDeparture accounts for one vehicle leaving the lane.
func (m *Metrics) RecordDeparture(v *VehicleAgent, now float64) {
	m.Departed++
	m.TotalWait += v.Waited
	m.TravelTimeSum += now - v.SpawnedAt
}

// Print displays aggregated metrics at the end of the simulation.
// Includes throughput, average travel and wait times, and phase totals.
func (m *Metrics) Print(elapsed float64) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Vehicles Spawned     : %d\n", m.Spawned)
	fmt.Printf("Spawns Suppressed    : %d\n", m.Suppressed)
	fmt.Printf("Vehicles Departed    : %d\n", m.Departed)
	if m.Departed > 0 {
		fmt.Printf("Average Travel Time  : %.2f s\n", m.TravelTimeSum/float64(m.Departed))
		fmt.Printf("Average Wait Time    : %.2f s\n", m.TotalWait/float64(m.Departed))
	}
	if elapsed > 0 {
		fmt.Printf("Throughput           : %.3f vehicles/s\n", float64(m.Departed)/elapsed)
	}
	fmt.Printf("Green/Yellow/Red     : %.1f / %.1f / %.1f s\n",
		m.PhaseTime[PhaseGreen], m.PhaseTime[PhaseYellow], m.PhaseTime[PhaseRed])
}
