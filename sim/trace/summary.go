package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	PhaseChanges     int
	SpawnCount       int
	SuppressedCount  int
	DepartureCount   int
	MeanTravelTime   float64
	MaxWaitTime      float64
	KindDistribution map[string]int // vehicle kind → count of spawns
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		KindDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.PhaseChanges = len(st.Phases)
	for _, s := range st.Spawns {
		if s.Suppressed {
			summary.SuppressedCount++
			continue
		}
		summary.SpawnCount++
		summary.KindDistribution[s.Kind]++
	}

	if len(st.Departures) > 0 {
		totalTravel := 0.0
		for _, d := range st.Departures {
			totalTravel += d.TravelTime
			if d.WaitTime > summary.MaxWaitTime {
				summary.MaxWaitTime = d.WaitTime
			}
		}
		summary.DepartureCount = len(st.Departures)
		summary.MeanTravelTime = totalTravel / float64(len(st.Departures))
	}

	return summary
}
