package params

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}
	if cfg.HiddenDim != 64 || cfg.NumLayers != 2 || cfg.NumGenerators != 3 ||
		cfg.Epochs != 10 || cfg.MissingRate != 0.2 {
		t.Fatalf("defaults drifted: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *TrainingConfig)
	}{
		{"zero batch", func(c *TrainingConfig) { c.BatchSize = 0 }},
		{"zero seq", func(c *TrainingConfig) { c.SeqLen = 0 }},
		{"zero dim", func(c *TrainingConfig) { c.InputDim = 0 }},
		{"zero hidden", func(c *TrainingConfig) { c.HiddenDim = 0 }},
		{"no layers", func(c *TrainingConfig) { c.NumLayers = 0 }},
		{"no generators", func(c *TrainingConfig) { c.NumGenerators = 0 }},
		{"negative epochs", func(c *TrainingConfig) { c.Epochs = -1 }},
		{"missing rate 1", func(c *TrainingConfig) { c.MissingRate = 1 }},
		{"bad mode", func(c *TrainingConfig) { c.Mode = "ensemble" }},
		{"bad aggregation", func(c *TrainingConfig) { c.Aggregation = "max" }},
		{"negative workers", func(c *TrainingConfig) { c.Workers = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrConfig) {
				t.Fatalf("Validate() = %v, want ErrConfig", err)
			}
		})
	}

	zero := Default()
	zero.Epochs = 0
	if err := zero.Validate(); err != nil {
		t.Fatalf("epochs=0 should be allowed: %v", err)
	}
}

func TestModes(t *testing.T) {
	cfg := Default()
	if got := cfg.Modes(); len(got) != 2 || got[0] != ModeSingle || got[1] != ModeSelective {
		t.Fatalf("both expands to %v", got)
	}
	cfg.Mode = ModeSelective
	if got := cfg.Modes(); len(got) != 1 || got[0] != ModeSelective {
		t.Fatalf("selective expands to %v", got)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.json")
	if err := os.WriteFile(path, []byte(`{"batch_size": 2, "seq_len": 4, "input_dim": 1, "mode": "selective"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BatchSize != 2 || cfg.SeqLen != 4 || cfg.InputDim != 1 || cfg.Mode != ModeSelective {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.HiddenDim != 64 {
		t.Fatalf("unset field lost its default: hidden_dim=%d", cfg.HiddenDim)
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"num_layers": 0}`), 0o644)
	if _, err := LoadConfig(bad); !errors.Is(err, ErrConfig) {
		t.Fatalf("invalid file accepted, err = %v", err)
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("missing file accepted")
	}
}
