package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSpawner(t *testing.T, cfg Config) *SpawnScheduler {
	t.Helper()
	require.NoError(t, cfg.Validate())
	return NewSpawnScheduler(cfg, NewPartitionedRNG(NewSimulationKey(cfg.Loop.Seed)))
}

func TestSpawner_ZeroRateNeverSpawns(t *testing.T) {
	// GIVEN a spawner with arrivals disabled
	cfg := DefaultConfig()
	cfg.Spawn.Rate = 0
	s := newTestSpawner(t, cfg)

	// WHEN an hour of trials passes
	for i := 0; i < 60*3600; i++ {
		v, suppressed := s.MaybeSpawn(testDt, nil, 0)
		// THEN nothing ever spawns
		require.Nil(t, v)
		require.False(t, suppressed)
	}
}

func TestSpawner_SpawnsAtRoughlyConfiguredRate(t *testing.T) {
	// GIVEN the default 0.3 vehicles/s rate on an always-empty lane
	cfg := DefaultConfig()
	s := newTestSpawner(t, cfg)

	// WHEN 1000 simulated seconds of trials pass
	spawned := 0
	for i := 0; i < 60*1000; i++ {
		if v, _ := s.MaybeSpawn(testDt, nil, 0); v != nil {
			spawned++
		}
	}

	// THEN the count is near the 300 expected arrivals
	assert.InDelta(t, 300, spawned, 60)
}

func TestSpawner_IDsAreMonotonicFromOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Spawn.Rate = 10 // rate*dt ~ 0.17, spawn often
	s := newTestSpawner(t, cfg)

	var last uint64
	for i := 0; i < 60*100 && last < 20; i++ {
		if v, _ := s.MaybeSpawn(testDt, nil, 0); v != nil {
			require.Equal(t, last+1, v.ID)
			last = v.ID
		}
	}
	require.GreaterOrEqual(t, last, uint64(20), "expected at least 20 spawns")
}

func TestSpawner_SuppressedWhenOriginBlocked(t *testing.T) {
	// GIVEN a tail vehicle sitting right at the origin
	cfg := DefaultConfig()
	cfg.Spawn.Rate = 10
	s := newTestSpawner(t, cfg)

	tail := newVehicleAgent(99, DefaultKinds()[0], cfg, 0)
	tail.Position = tail.Kind.Length // rear bumper exactly at the origin

	// WHEN many trials run against the blocked origin
	sawSuppression := false
	for i := 0; i < 60*100; i++ {
		v, suppressed := s.MaybeSpawn(testDt, tail, 0)
		// THEN no vehicle ever materializes on top of the tail
		require.Nil(t, v)
		if suppressed {
			sawSuppression = true
		}
	}
	assert.True(t, sawSuppression, "expected at least one suppressed trial")
}

func TestSpawner_SpawnsOnceTailClearsOrigin(t *testing.T) {
	// GIVEN a tail far enough downstream to leave room at the origin
	cfg := DefaultConfig()
	cfg.Spawn.Rate = 10
	s := newTestSpawner(t, cfg)

	tail := newVehicleAgent(99, DefaultKinds()[0], cfg, 0)
	tail.Position = tail.Kind.Length + cfg.Lane.MinGap + 1

	spawned := false
	for i := 0; i < 60*100 && !spawned; i++ {
		if v, _ := s.MaybeSpawn(testDt, tail, 0); v != nil {
			spawned = true
		}
	}
	assert.True(t, spawned)
}

func TestSpawner_DeterministicAcrossRuns(t *testing.T) {
	// GIVEN two spawners built from the same seed
	cfg := DefaultConfig()
	cfg.Spawn.Rate = 5
	a := newTestSpawner(t, cfg)
	b := newTestSpawner(t, cfg)

	// THEN they produce identical spawn sequences
	for i := 0; i < 60*60; i++ {
		va, sa := a.MaybeSpawn(testDt, nil, 0)
		vb, sb := b.MaybeSpawn(testDt, nil, 0)
		require.Equal(t, sa, sb)
		if va == nil {
			require.Nil(t, vb)
			continue
		}
		require.NotNil(t, vb)
		require.Equal(t, va.ID, vb.ID)
		require.Equal(t, va.Kind.Name, vb.Kind.Name)
		require.Equal(t, va.Speed, vb.Speed)
	}
}

func TestSpawner_SamplesAllConfiguredKinds(t *testing.T) {
	// GIVEN the default weighted kind table and a high rate
	cfg := DefaultConfig()
	cfg.Spawn.Rate = 10
	s := newTestSpawner(t, cfg)

	// WHEN enough vehicles spawn
	counts := map[string]int{}
	for i := 0; i < 60*600; i++ {
		if v, _ := s.MaybeSpawn(testDt, nil, 0); v != nil {
			counts[v.Kind.Name]++
		}
	}

	// THEN every kind appears, with cars dominating per the weights
	require.Greater(t, counts["car"], 0)
	require.Greater(t, counts["van"], 0)
	require.Greater(t, counts["bus"], 0)
	assert.Greater(t, counts["car"], counts["van"])
	assert.Greater(t, counts["van"], counts["bus"])
}
