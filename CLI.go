package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/manningwu07/GAIN/params"
)

// parseFlags layers the command line over the defaults, or over -config when
// given. Only flags that were actually passed override the file.
func parseFlags(args []string) (params.TrainingConfig, error) {
	def := params.Default()
	fs := flag.NewFlagSet("gain", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		configPath  = fs.String("config", "", "JSON config file (flags override it)")
		batch       = fs.Int("batch", def.BatchSize, "sequences per batch")
		seqLen      = fs.Int("seq", def.SeqLen, "steps per sequence")
		inputDim    = fs.Int("dim", def.InputDim, "features per step")
		missing     = fs.Float64("missing", def.MissingRate, "probability an entry is masked out")
		noise       = fs.Float64("noise", def.NoiseStd, "stddev of noise added to the synthetic sine")
		hidden      = fs.Int("hidden", def.HiddenDim, "feed-forward width")
		layers      = fs.Int("layers", def.NumLayers, "transformer blocks per generator")
		generators  = fs.Int("generators", def.NumGenerators, "generators averaged in selective mode")
		discHidden  = fs.Int("disc-hidden", def.DiscHidden, "discriminator hidden width")
		epochs      = fs.Int("epochs", def.Epochs, "rounds per run")
		mode        = fs.String("mode", string(def.Mode), "single, selective or both")
		aggregation = fs.String("agg", string(def.Aggregation), "discriminator loss aggregation: split or concat")
		workers     = fs.Int("workers", def.Workers, "concurrent generator branches (0 = one per generator)")
		seed        = fs.Uint64("seed", def.Seed, "random seed (0 = from clock)")
		normalize   = fs.Bool("normalize", def.Normalize, "min-max normalise the batch before imputing")
		logPath     = fs.String("log", def.LogPath, "CSV loss log path (empty disables)")
		plotPath    = fs.String("plot", def.PlotPath, "loss plot path (empty disables)")
		level       = fs.String("level", def.LogLevel, "log level")
		debug       = fs.Bool("debug", def.Debug, "log attention row-sum checks")
	)
	if err := fs.Parse(args); err != nil {
		return def, err
	}

	cfg := def
	if *configPath != "" {
		var err error
		if cfg, err = params.LoadConfig(*configPath); err != nil {
			return cfg, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "batch":
			cfg.BatchSize = *batch
		case "seq":
			cfg.SeqLen = *seqLen
		case "dim":
			cfg.InputDim = *inputDim
		case "missing":
			cfg.MissingRate = *missing
		case "noise":
			cfg.NoiseStd = *noise
		case "hidden":
			cfg.HiddenDim = *hidden
		case "layers":
			cfg.NumLayers = *layers
		case "generators":
			cfg.NumGenerators = *generators
		case "disc-hidden":
			cfg.DiscHidden = *discHidden
		case "epochs":
			cfg.Epochs = *epochs
		case "mode":
			cfg.Mode = params.Mode(*mode)
		case "agg":
			cfg.Aggregation = params.Aggregation(*aggregation)
		case "workers":
			cfg.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		case "normalize":
			cfg.Normalize = *normalize
		case "log":
			cfg.LogPath = *logPath
		case "plot":
			cfg.PlotPath = *plotPath
		case "level":
			cfg.LogLevel = *level
		case "debug":
			cfg.Debug = *debug
		}
	})

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
