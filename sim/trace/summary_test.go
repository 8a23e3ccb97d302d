package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.PhaseChanges != 0 {
		t.Errorf("expected 0 phase changes, got %d", summary.PhaseChanges)
	}
	if summary.SpawnCount != 0 || summary.SuppressedCount != 0 {
		t.Error("expected 0 spawned and suppressed")
	}
	if summary.DepartureCount != 0 {
		t.Errorf("expected 0 departures, got %d", summary.DepartureCount)
	}
	if summary.MeanTravelTime != 0 || summary.MaxWaitTime != 0 {
		t.Error("expected 0 time statistics")
	}
	if len(summary.KindDistribution) != 0 {
		t.Error("expected empty kind distribution")
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	// WHEN a nil trace is summarized
	summary := Summarize(nil)

	// THEN the summary is usable and zero-valued
	if summary.SpawnCount != 0 || summary.KindDistribution == nil {
		t.Error("expected zero-value summary with non-nil distribution")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with mixed spawn and departure records
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})
	st.RecordSpawn(SpawnRecord{VehicleID: 1, Kind: "car"})
	st.RecordSpawn(SpawnRecord{Kind: "car", Suppressed: true})
	st.RecordSpawn(SpawnRecord{VehicleID: 2, Kind: "bus"})
	st.RecordDeparture(DepartureRecord{VehicleID: 1, Kind: "car", TravelTime: 12.0, WaitTime: 3.0})
	st.RecordDeparture(DepartureRecord{VehicleID: 2, Kind: "bus", TravelTime: 18.0, WaitTime: 7.5})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts match
	if summary.SpawnCount != 2 {
		t.Errorf("expected 2 spawns, got %d", summary.SpawnCount)
	}
	if summary.SuppressedCount != 1 {
		t.Errorf("expected 1 suppressed, got %d", summary.SuppressedCount)
	}
	if summary.DepartureCount != 2 {
		t.Errorf("expected 2 departures, got %d", summary.DepartureCount)
	}
}

func TestSummarize_TimeStatistics_CorrectMeanAndMax(t *testing.T) {
	// GIVEN departure records with known times
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})
	st.RecordDeparture(DepartureRecord{VehicleID: 1, TravelTime: 10.0, WaitTime: 1.0})
	st.RecordDeparture(DepartureRecord{VehicleID: 2, TravelTime: 20.0, WaitTime: 5.0})
	st.RecordDeparture(DepartureRecord{VehicleID: 3, TravelTime: 12.0, WaitTime: 2.0})

	// WHEN summarized
	summary := Summarize(st)

	// THEN mean travel time = (10 + 20 + 12) / 3 = 14
	expectedMean := (10.0 + 20.0 + 12.0) / 3.0
	if summary.MeanTravelTime < expectedMean-0.001 || summary.MeanTravelTime > expectedMean+0.001 {
		t.Errorf("expected mean travel time ~%.4f, got %.4f", expectedMean, summary.MeanTravelTime)
	}

	// THEN max wait time = 5
	if summary.MaxWaitTime != 5.0 {
		t.Errorf("expected max wait 5.0, got %.4f", summary.MaxWaitTime)
	}
}

func TestSummarize_KindDistribution_CountsPerKind(t *testing.T) {
	// GIVEN spawns of the same kind multiple times
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})
	st.RecordSpawn(SpawnRecord{VehicleID: 1, Kind: "car"})
	st.RecordSpawn(SpawnRecord{VehicleID: 2, Kind: "car"})
	st.RecordSpawn(SpawnRecord{VehicleID: 3, Kind: "van"})

	// WHEN summarized
	summary := Summarize(st)

	// THEN kind distribution reflects counts
	if summary.KindDistribution["car"] != 2 {
		t.Errorf("expected car count 2, got %d", summary.KindDistribution["car"])
	}
	if summary.KindDistribution["van"] != 1 {
		t.Errorf("expected van count 1, got %d", summary.KindDistribution["van"])
	}
}
