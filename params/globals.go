package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var ErrConfig = errors.New("invalid config")

// Mode selects which generator fills the missing entries.
type Mode string

const (
	ModeSingle    Mode = "single"    // one generator per round
	ModeSelective Mode = "selective" // mean of NumGenerators generators per round
	ModeBoth      Mode = "both"      // run single, then selective, on the same data
)

// Aggregation selects how the discriminator loss combines its two log terms.
type Aggregation string

const (
	// -mean(log(d_real+eps)) - mean(log(1-d_fake+eps))
	AggSplit Aggregation = "split"
	// -mean(concat(log(d_real+eps), log(1-d_fake+eps)))
	AggConcat Aggregation = "concat"
)

type TrainingConfig struct {
	// Data shape
	BatchSize   int     `json:"batch_size"`
	SeqLen      int     `json:"seq_len"`
	InputDim    int     `json:"input_dim"`
	MissingRate float64 `json:"missing_rate"` // P(mask == 0)
	NoiseStd    float64 `json:"noise_std"`    // additive noise on the synthetic sine

	// Generator / discriminator widths
	HiddenDim     int `json:"hidden_dim"`     // feed-forward width H
	NumLayers     int `json:"num_layers"`     // transformer blocks per generator
	NumGenerators int `json:"num_generators"` // K for the selective generator
	DiscHidden    int `json:"disc_hidden"`    // discriminator hidden width

	// Loop
	Epochs      int         `json:"epochs"`
	Mode        Mode        `json:"mode"`
	Aggregation Aggregation `json:"aggregation"`
	Workers     int         `json:"workers"` // concurrent generator branches, 0 = NumGenerators
	Seed        uint64      `json:"seed"`    // 0 = seed from the clock
	Normalize   bool        `json:"normalize"`

	// Output
	LogPath  string `json:"log_path"`  // CSV loss log, "" disables
	PlotPath string `json:"plot_path"` // .png/.svg/.pdf loss curves, "" disables
	LogLevel string `json:"log_level"`
	Debug    bool   `json:"debug"` // attention row-sum checks
}

// Reasonable defaults for small experiments
var Config = TrainingConfig{
	BatchSize:   32,
	SeqLen:      24,
	InputDim:    4,
	MissingRate: 0.2,
	NoiseStd:    0.1,

	HiddenDim:     64,
	NumLayers:     2,
	NumGenerators: 3,
	DiscHidden:    128,

	Epochs:      10,
	Mode:        ModeBoth,
	Aggregation: AggSplit,
	Workers:     0,
	Seed:        0,
	Normalize:   true,

	LogPath:  "training_log.csv",
	PlotPath: "losses.png",
	LogLevel: "info",
}

// Default returns a copy of Config.
func Default() TrainingConfig {
	return Config
}

// Validate checks every field a run depends on.
func (c *TrainingConfig) Validate() error {
	switch {
	case c.BatchSize <= 0:
		return fmt.Errorf("%w: batch_size must be positive, got %d", ErrConfig, c.BatchSize)
	case c.SeqLen <= 0:
		return fmt.Errorf("%w: seq_len must be positive, got %d", ErrConfig, c.SeqLen)
	case c.InputDim <= 0:
		return fmt.Errorf("%w: input_dim must be positive, got %d", ErrConfig, c.InputDim)
	case c.HiddenDim <= 0:
		return fmt.Errorf("%w: hidden_dim must be positive, got %d", ErrConfig, c.HiddenDim)
	case c.NumLayers < 1:
		return fmt.Errorf("%w: num_layers must be >= 1, got %d", ErrConfig, c.NumLayers)
	case c.NumGenerators < 1:
		return fmt.Errorf("%w: num_generators must be >= 1, got %d", ErrConfig, c.NumGenerators)
	case c.DiscHidden <= 0:
		return fmt.Errorf("%w: disc_hidden must be positive, got %d", ErrConfig, c.DiscHidden)
	case c.Epochs < 0:
		return fmt.Errorf("%w: epochs must be >= 0, got %d", ErrConfig, c.Epochs)
	case c.MissingRate < 0 || c.MissingRate >= 1:
		return fmt.Errorf("%w: missing_rate must be in [0,1), got %g", ErrConfig, c.MissingRate)
	case c.NoiseStd < 0:
		return fmt.Errorf("%w: noise_std must be >= 0, got %g", ErrConfig, c.NoiseStd)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrConfig, c.Workers)
	}
	switch c.Mode {
	case ModeSingle, ModeSelective, ModeBoth:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrConfig, c.Mode)
	}
	switch c.Aggregation {
	case AggSplit, AggConcat:
	default:
		return fmt.Errorf("%w: unknown aggregation %q", ErrConfig, c.Aggregation)
	}
	return nil
}

// Modes expands ModeBoth into the two runs it stands for.
func (c *TrainingConfig) Modes() []Mode {
	if c.Mode == ModeBoth {
		return []Mode{ModeSingle, ModeSelective}
	}
	return []Mode{c.Mode}
}

// LoadConfig reads a JSON file over the defaults and validates the result.
// Fields missing from the file keep their default values.
func LoadConfig(filename string) (TrainingConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
