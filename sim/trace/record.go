// Package trace provides event-trace recording for signal timing analysis.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// PhaseRecord captures a single traffic light phase change.
type PhaseRecord struct {
	Clock float64
	From  string
	To    string
}

// SpawnRecord captures one vehicle entering the lane, or a suppressed spawn
// attempt when the origin was blocked.
type SpawnRecord struct {
	VehicleID  uint64
	Clock      float64
	Kind       string
	Suppressed bool
}

// DepartureRecord captures one vehicle leaving the far end of the lane.
type DepartureRecord struct {
	VehicleID  uint64
	Clock      float64
	Kind       string
	TravelTime float64 // spawn-to-departure, seconds
	WaitTime   float64 // cumulative stopped time, seconds
}
