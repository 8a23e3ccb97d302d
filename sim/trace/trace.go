package trace

import "github.com/google/uuid"

// TraceLevel controls the verbosity of event tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures all phase changes, spawns, and departures.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects event records during one simulation run.
type SimulationTrace struct {
	RunID      string
	Config     TraceConfig
	Phases     []PhaseRecord
	Spawns     []SpawnRecord
	Departures []DepartureRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording, stamped
// with a fresh run ID.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		RunID:      uuid.NewString(),
		Config:     config,
		Phases:     make([]PhaseRecord, 0),
		Spawns:     make([]SpawnRecord, 0),
		Departures: make([]DepartureRecord, 0),
	}
}

// RecordPhase appends a phase change record.
func (st *SimulationTrace) RecordPhase(record PhaseRecord) {
	st.Phases = append(st.Phases, record)
}

// RecordSpawn appends a spawn (or suppressed spawn) record.
func (st *SimulationTrace) RecordSpawn(record SpawnRecord) {
	st.Spawns = append(st.Spawns, record)
}

// RecordDeparture appends a departure record.
func (st *SimulationTrace) RecordDeparture(record DepartureRecord) {
	st.Departures = append(st.Departures, record)
}
