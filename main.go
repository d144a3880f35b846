package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/manningwu07/GAIN/IO"
	"github.com/manningwu07/GAIN/gan"
	"github.com/manningwu07/GAIN/params"
	"github.com/manningwu07/GAIN/tensor"
	"github.com/manningwu07/GAIN/utils"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		utils.Log.WithError(err).Fatal("bad log level")
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UTC().UnixNano())
	}

	hists, err := run(cfg)
	if err != nil {
		utils.Log.WithError(err).Fatal("Run failed")
	}

	if cfg.Epochs == 0 {
		return
	}
	if cfg.PlotPath == "" {
		for _, h := range hists {
			IO.ASCIIPlot(os.Stdout, string(h.Mode)+" d_loss", h.DLoss)
			IO.ASCIIPlot(os.Stdout, string(h.Mode)+" g_loss", h.GLoss)
		}
		return
	}
	if err := IO.PlotLosses(cfg.PlotPath, hists...); err != nil {
		utils.Log.WithError(err).Error("Error plotting losses")
	} else {
		utils.Log.WithField("path", cfg.PlotPath).Info("Saved loss plot")
	}
}

// run synthesises one batch and imputes it once per configured mode. Every
// mode sees the same data and gets its own random stream.
func run(cfg params.TrainingConfig) ([]*gan.History, error) {
	t1 := time.Now()
	root := utils.NewStream(cfg.Seed)

	x, m, err := IO.SyntheticBatch(cfg, root)
	if err != nil {
		return nil, err
	}
	utils.Log.WithFields(logrus.Fields{
		"seed":     cfg.Seed,
		"shape":    x.String(),
		"observed": tensor.Observed(m),
		"total":    m.Len(),
	}).Info("Synthesised batch")

	input := x
	var scaler *IO.MinMaxScaler
	if cfg.Normalize {
		if input, scaler, err = IO.FitTransform(x); err != nil {
			return nil, err
		}
	}

	var lossLog *IO.LossLog
	if cfg.LogPath != "" {
		if lossLog, err = IO.CreateLossLog(cfg.LogPath); err != nil {
			return nil, err
		}
		defer lossLog.Close()
	}

	modes := cfg.Modes()
	streams := utils.SplitStreams(root, len(modes))
	hists := make([]*gan.History, 0, len(modes))

	for i, mode := range modes {
		trainer, err := gan.NewTrainer(cfg, mode)
		if err != nil {
			return nil, err
		}
		if lossLog != nil {
			mode := mode
			trainer.OnRound = func(r gan.Round) {
				if err := lossLog.Append(mode, r); err != nil {
					utils.Log.WithError(err).Error("Error writing loss log")
				}
			}
		}

		hist, err := trainer.Run(input, m, streams[i])
		if err != nil {
			return nil, fmt.Errorf("%s run: %w", mode, err)
		}
		hists = append(hists, hist)

		dMean, dStd, gMean, gStd := hist.Summary()
		fields := logrus.Fields{
			"mode":   mode,
			"d_mean": dMean,
			"d_std":  dStd,
			"g_mean": gMean,
			"g_std":  gStd,
			"rmse":   hist.RMSE,
		}
		if scaler != nil && hist.Imputed != nil {
			restored, err := scaler.Inverse(hist.Imputed)
			if err != nil {
				return nil, err
			}
			fields["rmse_original_scale"] = gan.ImputationRMSE(x, restored, m)
		}
		utils.Log.WithFields(fields).Info("Loss summary")
	}

	utils.Log.WithField("elapsed", time.Since(t1)).Info("Done")
	return hists, nil
}
