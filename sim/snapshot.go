package sim

// VehicleView is the read-only projection of one vehicle in a snapshot.
type VehicleView struct {
	ID       uint64  `json:"id"`
	Kind     string  `json:"kind"`
	Position float64 `json:"position"`
	Speed    float64 `json:"speed"`
	State    string  `json:"state"`
}

// Snapshot is the full observable state of the simulation after one tick.
// It is a value copy: renderers may hold it across ticks without racing the
// loop.
type Snapshot struct {
	Clock    float64       `json:"clock"`
	Phase    string        `json:"phase"`
	Paused   bool          `json:"paused"`
	Vehicles []VehicleView `json:"vehicles"`
}

// Renderer receives a snapshot after every tick, including ticks spent
// paused. Implementations must not block the loop for long; drop frames
// instead.
type Renderer interface {
	RenderFrame(s Snapshot)
}
