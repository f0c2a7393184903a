package optimize

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds optimizer settings, loadable from YAML. Unmarshal into
// DefaultConfig() so that omitted fields keep their defaults.
type Config struct {
	Parallelism     int             `yaml:"parallelism"`      // strategies per batch
	Seed            int64           `yaml:"seed"`             // master seed for strategy RNGs
	Strategies      []string        `yaml:"strategies"`       // run order; ties favour earlier entries
	IncludeBaseline bool            `yaml:"include_baseline"` // score the current layout as candidate zero
	MaxRowAttempts  int             `yaml:"max_row_attempts"` // per-building cap for row-walking strategies
	Genetic         GeneticConfig   `yaml:"genetic"`
	Annealing       AnnealingConfig `yaml:"annealing"`
}

// GeneticConfig tunes the genetic algorithm strategy.
type GeneticConfig struct {
	Generations  int     `yaml:"generations"`
	Population   int     `yaml:"population"`
	MutationRate float64 `yaml:"mutation_rate"` // per-building probability
	MaxShift     int     `yaml:"max_shift"`     // mutation moves by up to ±MaxShift tiles per axis
}

// AnnealingConfig tunes the simulated annealing strategy.
type AnnealingConfig struct {
	Iterations         int     `yaml:"iterations"`
	InitialTemperature float64 `yaml:"initial_temperature"`
	CoolingRate        float64 `yaml:"cooling_rate"` // multiplied into the temperature every iteration
	MaxShift           int     `yaml:"max_shift"`
}

// DefaultConfig returns the stock optimizer settings.
func DefaultConfig() Config {
	return Config{
		Parallelism:     4,
		Seed:            42,
		Strategies:      append([]string(nil), DefaultStrategies...),
		IncludeBaseline: true,
		MaxRowAttempts:  200,
		Genetic: GeneticConfig{
			Generations:  50,
			Population:   20,
			MutationRate: 0.3,
			MaxShift:     3,
		},
		Annealing: AnnealingConfig{
			Iterations:         1000,
			InitialTemperature: 1000,
			CoolingRate:        0.995,
			MaxShift:           3,
		},
	}
}

// LoadConfig reads a YAML optimizer bundle on top of DefaultConfig.
// Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading optimizer config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing optimizer config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks strategy names and parameter ranges.
func (c Config) Validate() error {
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism)
	}
	if len(c.Strategies) == 0 {
		return fmt.Errorf("at least one strategy is required")
	}
	seen := make(map[string]bool, len(c.Strategies))
	for _, name := range c.Strategies {
		if !ValidStrategies[name] {
			return fmt.Errorf("unknown strategy %q", name)
		}
		if seen[name] {
			return fmt.Errorf("strategy %q listed twice", name)
		}
		seen[name] = true
	}
	if c.MaxRowAttempts < 1 {
		return fmt.Errorf("max_row_attempts must be at least 1, got %d", c.MaxRowAttempts)
	}
	if c.Genetic.Generations < 0 {
		return fmt.Errorf("genetic.generations must be non-negative, got %d", c.Genetic.Generations)
	}
	if c.Genetic.Population < 2 {
		return fmt.Errorf("genetic.population must be at least 2, got %d", c.Genetic.Population)
	}
	if c.Genetic.MutationRate < 0 || c.Genetic.MutationRate > 1 {
		return fmt.Errorf("genetic.mutation_rate must be in [0,1], got %f", c.Genetic.MutationRate)
	}
	if c.Genetic.MaxShift < 0 {
		return fmt.Errorf("genetic.max_shift must be non-negative, got %d", c.Genetic.MaxShift)
	}
	if c.Annealing.Iterations < 0 {
		return fmt.Errorf("annealing.iterations must be non-negative, got %d", c.Annealing.Iterations)
	}
	if c.Annealing.InitialTemperature <= 0 {
		return fmt.Errorf("annealing.initial_temperature must be positive, got %f", c.Annealing.InitialTemperature)
	}
	if c.Annealing.CoolingRate <= 0 || c.Annealing.CoolingRate > 1 {
		return fmt.Errorf("annealing.cooling_rate must be in (0,1], got %f", c.Annealing.CoolingRate)
	}
	if c.Annealing.MaxShift < 0 {
		return fmt.Errorf("annealing.max_shift must be non-negative, got %d", c.Annealing.MaxShift)
	}
	return nil
}
