package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenarioSpec is an optional YAML overlay on the default configuration.
// Every field is a pointer (or slice) so that absent keys leave the default
// untouched; durations are plain float64 seconds.
// Loaded from YAML via LoadScenario(path).
type ScenarioSpec struct {
	Name string `yaml:"name,omitempty"`

	Light struct {
		Green  *float64 `yaml:"green,omitempty"`
		Yellow *float64 `yaml:"yellow,omitempty"`
		Red    *float64 `yaml:"red,omitempty"`
		Start  *string  `yaml:"start,omitempty"`
	} `yaml:"light,omitempty"`

	Kinematics struct {
		MaxSpeed *float64 `yaml:"max_speed,omitempty"`
		Accel    *float64 `yaml:"accel,omitempty"`
		Decel    *float64 `yaml:"decel,omitempty"`
	} `yaml:"kinematics,omitempty"`

	Spawn struct {
		Rate         *float64      `yaml:"rate,omitempty"`
		InitialSpeed *float64      `yaml:"initial_speed,omitempty"`
		Kinds        []VehicleKind `yaml:"kinds,omitempty"`
	} `yaml:"spawn,omitempty"`

	Lane struct {
		Length     *float64 `yaml:"length,omitempty"`
		StopLine   *float64 `yaml:"stop_line,omitempty"`
		MinGap     *float64 `yaml:"min_gap,omitempty"`
		StopBuffer *float64 `yaml:"stop_buffer,omitempty"`
	} `yaml:"lane,omitempty"`

	Loop struct {
		Step    *float64 `yaml:"step,omitempty"`
		Horizon *float64 `yaml:"horizon,omitempty"`
		Seed    *int64   `yaml:"seed,omitempty"`
	} `yaml:"loop,omitempty"`
}

// LoadScenario reads and parses a scenario file. Unknown keys are errors, so
// a typoed override fails loudly instead of silently keeping the default.
func LoadScenario(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var spec ScenarioSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &spec, nil
}

func setF(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

// Apply overlays the scenario onto cfg and returns the result. The caller
// still runs Validate afterward; Apply only rejects values it cannot even
// represent, like an unknown start phase.
func (s *ScenarioSpec) Apply(cfg Config) (Config, error) {
	setF(&cfg.Light.Green, s.Light.Green)
	setF(&cfg.Light.Yellow, s.Light.Yellow)
	setF(&cfg.Light.Red, s.Light.Red)
	if s.Light.Start != nil {
		p, ok := phaseFromState(*s.Light.Start)
		if !ok {
			return cfg, newConfigError("light.start", "unknown phase %q; valid: green, yellow, red", *s.Light.Start)
		}
		cfg.Light.Start = p
	}

	setF(&cfg.Kinematics.MaxSpeed, s.Kinematics.MaxSpeed)
	setF(&cfg.Kinematics.Accel, s.Kinematics.Accel)
	setF(&cfg.Kinematics.Decel, s.Kinematics.Decel)

	setF(&cfg.Spawn.Rate, s.Spawn.Rate)
	setF(&cfg.Spawn.InitialSpeed, s.Spawn.InitialSpeed)
	if len(s.Spawn.Kinds) > 0 {
		cfg.Spawn.Kinds = s.Spawn.Kinds
	}

	setF(&cfg.Lane.Length, s.Lane.Length)
	setF(&cfg.Lane.StopLine, s.Lane.StopLine)
	setF(&cfg.Lane.MinGap, s.Lane.MinGap)
	setF(&cfg.Lane.StopBuffer, s.Lane.StopBuffer)

	setF(&cfg.Loop.Step, s.Loop.Step)
	setF(&cfg.Loop.Horizon, s.Loop.Horizon)
	if s.Loop.Seed != nil {
		cfg.Loop.Seed = *s.Loop.Seed
	}
	return cfg, nil
}
