package sim

// LightTimings groups the traffic light phase durations, in simulated seconds.
// All three durations must be > 0.
type LightTimings struct {
	Green  float64 // duration of the GREEN phase (s)
	Yellow float64 // duration of the YELLOW phase (s)
	Red    float64 // duration of the RED phase (s)
	Start  Phase   // phase the light begins in
}

// Kinematics groups the vehicle motion parameters shared by all kinds.
type Kinematics struct {
	MaxSpeed float64 // free-flow speed cap, m/s (scaled per kind)
	Accel    float64 // traction acceleration, m/s²
	Decel    float64 // service braking deceleration, m/s² (positive)
}

// SpawnConfig groups the stochastic arrival parameters.
type SpawnConfig struct {
	Rate         float64       // expected arrivals per simulated second (≥ 0)
	InitialSpeed float64       // speed a vehicle enters the lane with, m/s
	Kinds        []VehicleKind // weighted kind table; empty means DefaultKinds()
}

// LaneConfig groups the geometry of the single approach lane, in metres.
// Positions grow from the spawn origin (0) toward the lane end.
type LaneConfig struct {
	Length     float64 // visible lane length; vehicles beyond it depart
	StopLine   float64 // position of the stop line, must be < Length
	MinGap     float64 // minimum bumper-to-bumper gap between queued vehicles
	StopBuffer float64 // how far before the stop line a vehicle aims to halt
}

// LoopConfig groups the fixed-timestep driver parameters.
type LoopConfig struct {
	Step     float64 // simulated seconds per tick (dt), must be > 0
	Horizon  float64 // simulated seconds to run before terminating; 0 = unbounded
	Realtime bool    // pace ticks against the wall clock at Step intervals
	Seed     int64   // master seed for the partitioned RNG
}

// Config is the complete immutable configuration of a simulation run.
// It is validated once at startup; the loop never mutates it.
type Config struct {
	Light      LightTimings
	Kinematics Kinematics
	Spawn      SpawnConfig
	Lane       LaneConfig
	Loop       LoopConfig
}

// DefaultConfig returns the configuration the CLI flags default to:
// a 6s/2s/6s light cycle on a 120 m single-lane approach.
func DefaultConfig() Config {
	return Config{
		Light:      LightTimings{Green: 6, Yellow: 2, Red: 6, Start: PhaseGreen},
		Kinematics: Kinematics{MaxSpeed: 14, Accel: 2.5, Decel: 4.5},
		Spawn:      SpawnConfig{Rate: 0.3, InitialSpeed: 8, Kinds: DefaultKinds()},
		Lane:       LaneConfig{Length: 120, StopLine: 80, MinGap: 2, StopBuffer: 0.5},
		Loop:       LoopConfig{Step: 1.0 / 60.0, Horizon: 120, Seed: 42},
	}
}

// Validate checks every configuration invariant and returns the first
// ConfigurationError found. A Config that validates cleanly can be relied on
// by the core without further defensive checks.
func (c Config) Validate() error {
	if c.Light.Green <= 0 || c.Light.Yellow <= 0 || c.Light.Red <= 0 {
		return newConfigError("light", "all phase durations must be > 0, got green=%v yellow=%v red=%v",
			c.Light.Green, c.Light.Yellow, c.Light.Red)
	}
	if c.Light.Start < PhaseGreen || c.Light.Start > PhaseRed {
		return newConfigError("light.start", "unknown phase %d", c.Light.Start)
	}
	if c.Kinematics.MaxSpeed <= 0 {
		return newConfigError("kinematics.max_speed", "must be > 0, got %v", c.Kinematics.MaxSpeed)
	}
	if c.Kinematics.Accel <= 0 || c.Kinematics.Decel <= 0 {
		return newConfigError("kinematics", "accel and decel must be > 0, got accel=%v decel=%v",
			c.Kinematics.Accel, c.Kinematics.Decel)
	}
	if c.Spawn.Rate < 0 {
		return newConfigError("spawn.rate", "must be ≥ 0, got %v", c.Spawn.Rate)
	}
	if c.Spawn.InitialSpeed <= 0 || c.Spawn.InitialSpeed > c.Kinematics.MaxSpeed {
		return newConfigError("spawn.initial_speed", "must be in (0, max_speed], got %v with max_speed=%v",
			c.Spawn.InitialSpeed, c.Kinematics.MaxSpeed)
	}
	for i, k := range c.Spawn.Kinds {
		if k.Name == "" {
			return newConfigError("spawn.kinds", "kind %d has no name", i)
		}
		if k.Length <= 0 {
			return newConfigError("spawn.kinds", "kind %q length must be > 0, got %v", k.Name, k.Length)
		}
		if k.SpeedFactor <= 0 || k.SpeedFactor > 1 {
			return newConfigError("spawn.kinds", "kind %q speed_factor must be in (0, 1], got %v", k.Name, k.SpeedFactor)
		}
		if k.Weight <= 0 {
			return newConfigError("spawn.kinds", "kind %q weight must be > 0, got %v", k.Name, k.Weight)
		}
	}
	if c.Lane.Length <= 0 {
		return newConfigError("lane.length", "must be > 0, got %v", c.Lane.Length)
	}
	if c.Lane.StopLine <= 0 || c.Lane.StopLine >= c.Lane.Length {
		return newConfigError("lane.stop_line", "must be in (0, lane length), got %v with length=%v",
			c.Lane.StopLine, c.Lane.Length)
	}
	if c.Lane.MinGap <= 0 {
		return newConfigError("lane.min_gap", "must be > 0, got %v", c.Lane.MinGap)
	}
	if c.Lane.StopBuffer <= 0 || c.Lane.StopBuffer >= c.Lane.StopLine {
		return newConfigError("lane.stop_buffer", "must be in (0, stop line), got %v", c.Lane.StopBuffer)
	}
	if c.Loop.Step <= 0 {
		return newConfigError("loop.step", "must be > 0, got %v", c.Loop.Step)
	}
	if c.Loop.Horizon < 0 {
		return newConfigError("loop.horizon", "must be ≥ 0, got %v", c.Loop.Horizon)
	}
	// Bernoulli arrivals are only a valid approximation of the arrival rate
	// while Rate·Step stays a probability. Surfaced here, never at runtime.
	if p := c.Spawn.Rate * c.Loop.Step; p > 1 {
		return newConfigError("spawn.rate", "rate·step = %v exceeds 1; lower the rate or shrink the timestep", p)
	}
	return nil
}

// kinds returns the configured kind table, falling back to DefaultKinds.
func (c Config) kinds() []VehicleKind {
	if len(c.Spawn.Kinds) == 0 {
		return DefaultKinds()
	}
	return c.Spawn.Kinds
}
