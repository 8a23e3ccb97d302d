package sim

import "math/rand"

// SpawnScheduler injects vehicles at the lane origin. Each tick is an
// independent Bernoulli trial with probability rate·dt; Validate has already
// bounded that product to one, so the rate is honored exactly in expectation.
type SpawnScheduler struct {
	cfg    Config
	trial  *rand.Rand
	kinds  *rand.Rand
	nextID uint64

	totalWeight float64
}

func NewSpawnScheduler(cfg Config, rng *PartitionedRNG) *SpawnScheduler {
	var total float64
	for _, k := range cfg.kinds() {
		total += k.Weight
	}
	return &SpawnScheduler{
		cfg:         cfg,
		trial:       rng.ForSubsystem(SubsystemSpawner),
		kinds:       rng.ForSubsystem(SubsystemKinds),
		nextID:      1,
		totalWeight: total,
	}
}

// sampleKind draws a kind proportionally to its weight. Weights need not sum
// to one; they are normalized here.
func (s *SpawnScheduler) sampleKind() VehicleKind {
	kinds := s.cfg.kinds()
	r := s.kinds.Float64() * s.totalWeight
	for _, k := range kinds {
		if r < k.Weight {
			return k
		}
		r -= k.Weight
	}
	return kinds[len(kinds)-1]
}

// MaybeSpawn runs one spawn trial and returns the new vehicle, or nil when
// the trial fails or the origin is blocked. tail is the last vehicle still in
// the lane, nil when the lane is empty. A spawn is suppressed, not deferred:
// the trial is consumed either way, so suppression under congestion lowers
// the effective arrival rate rather than building an imaginary queue.
func (s *SpawnScheduler) MaybeSpawn(dt float64, tail *VehicleAgent, now float64) (*VehicleAgent, bool) {
	if s.trial.Float64() >= s.cfg.Spawn.Rate*dt {
		return nil, false
	}
	kind := s.sampleKind()
	if tail != nil && tail.State != VehicleDeparted {
		// The new body would occupy [−kind.Length, 0]; require the full
		// following gap behind the tail's rear bumper at the origin.
		if tail.Position-tail.Kind.Length-s.cfg.Lane.MinGap < 0 {
			return nil, true
		}
	}
	v := newVehicleAgent(s.nextID, kind, s.cfg, now)
	s.nextID++
	return v, false
}
