package gan

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/manningwu07/GAIN/params"
	"github.com/manningwu07/GAIN/tensor"
	"github.com/manningwu07/GAIN/utils"
)

// ErrNonFinite is returned when a round produces a NaN or infinite loss.
var ErrNonFinite = errors.New("gan: non-finite loss")

// Round is what one generate -> impute -> score -> loss iteration records.
type Round struct {
	Epoch     int // 1-based
	DLoss     float64
	GLoss     float64
	RealScore float64 // mean discriminator score on x
	FakeScore float64 // mean discriminator score on the imputed batch
	Elapsed   time.Duration
}

// History holds one run. DLoss and GLoss always have equal length.
type History struct {
	Mode    params.Mode
	DLoss   []float64
	GLoss   []float64
	Imputed *tensor.Batch // imputed batch of the last round, nil if epochs == 0
	RMSE    float64       // missing-position RMSE of Imputed
}

func (h *History) Len() int { return len(h.DLoss) }

// Summary returns mean and standard deviation of both loss sequences.
func (h *History) Summary() (dMean, dStd, gMean, gStd float64) {
	if h.Len() == 0 {
		return 0, 0, 0, 0
	}
	dMean, dStd = stat.MeanStdDev(h.DLoss, nil)
	gMean, gStd = stat.MeanStdDev(h.GLoss, nil)
	if h.Len() == 1 {
		dStd, gStd = 0, 0
	}
	return dMean, dStd, gMean, gStd
}

// Trainer runs the fixed-horizon adversarial imputation loop. Nothing is
// learned between rounds: every generator and discriminator call draws new
// weights, so the loss sequences record spread, not convergence.
type Trainer struct {
	Mode        params.Mode
	Epochs      int
	Aggregation params.Aggregation
	Gen         Filler
	Disc        Discriminator

	// OnRound, if set, is called after every round.
	OnRound func(Round)
	Log     *logrus.Entry
}

// NewTrainer wires the generator selected by mode with the widths in cfg.
// mode must be ModeSingle or ModeSelective.
func NewTrainer(cfg params.TrainingConfig, mode params.Mode) (*Trainer, error) {
	var (
		gen Filler
		err error
	)
	switch mode {
	case params.ModeSingle:
		var g *Generator
		g, err = NewGenerator(cfg.HiddenDim, cfg.NumLayers)
		if g != nil {
			g.SetDebug(cfg.Debug)
		}
		gen = g
	case params.ModeSelective:
		var s *SelectiveGenerator
		s, err = NewSelectiveGenerator(cfg.HiddenDim, cfg.NumLayers, cfg.NumGenerators, cfg.Workers)
		if s != nil {
			s.Gen.SetDebug(cfg.Debug)
		}
		gen = s
	default:
		return nil, fmt.Errorf("%w: trainer mode %q", params.ErrConfig, mode)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Epochs < 0 {
		return nil, fmt.Errorf("%w: epochs must be >= 0, got %d", params.ErrConfig, cfg.Epochs)
	}
	agg := cfg.Aggregation
	if agg == "" {
		agg = params.AggSplit
	}
	return &Trainer{
		Mode:        mode,
		Epochs:      cfg.Epochs,
		Aggregation: agg,
		Gen:         gen,
		Disc:        Discriminator{Hidden: cfg.DiscHidden},
		Log:         utils.Log.WithField("mode", mode),
	}, nil
}

// Run executes exactly t.Epochs rounds on (x, m). rng is the only source of
// randomness; the same stream state reproduces the same history.
func (t *Trainer) Run(x, m *tensor.Batch, rng *rand.Rand) (*History, error) {
	if err := tensor.CheckMask(x, m); err != nil {
		return nil, err
	}
	log := t.Log
	if log == nil {
		log = utils.Log.WithField("mode", t.Mode)
	}

	hist := &History{
		Mode:  t.Mode,
		DLoss: make([]float64, 0, t.Epochs),
		GLoss: make([]float64, 0, t.Epochs),
	}
	start := time.Now()

	for e := 0; e < t.Epochs; e++ {
		epochTime := time.Now()

		g, err := t.Gen.Generate(x, m, rng)
		if err != nil {
			return hist, fmt.Errorf("round %d: generate: %w", e+1, err)
		}
		imputed, err := tensor.Impute(x, m, g)
		if err != nil {
			return hist, fmt.Errorf("round %d: impute: %w", e+1, err)
		}

		dReal := t.Disc.Score(x, rng)
		dFake := t.Disc.Score(imputed, rng)

		dLoss := DiscriminatorLoss(dReal, dFake, t.Aggregation)
		gLoss := GeneratorLoss(x, imputed)
		if math.IsNaN(dLoss) || math.IsInf(dLoss, 0) || math.IsNaN(gLoss) || math.IsInf(gLoss, 0) {
			return hist, fmt.Errorf("%w at round %d: d_loss=%v g_loss=%v", ErrNonFinite, e+1, dLoss, gLoss)
		}

		hist.DLoss = append(hist.DLoss, dLoss)
		hist.GLoss = append(hist.GLoss, gLoss)
		hist.Imputed = imputed

		r := Round{
			Epoch:     e + 1,
			DLoss:     dLoss,
			GLoss:     gLoss,
			RealScore: stat.Mean(dReal, nil),
			FakeScore: stat.Mean(dFake, nil),
			Elapsed:   time.Since(epochTime),
		}
		log.WithFields(logrus.Fields{
			"epoch":      r.Epoch,
			"d_loss":     r.DLoss,
			"g_loss":     r.GLoss,
			"real_score": r.RealScore,
			"fake_score": r.FakeScore,
			"duration":   r.Elapsed,
		}).Info("Round completed")
		if t.OnRound != nil {
			t.OnRound(r)
		}
	}

	if hist.Imputed != nil {
		hist.RMSE = ImputationRMSE(x, hist.Imputed, m)
	}
	log.WithFields(logrus.Fields{
		"epochs":   t.Epochs,
		"rmse":     hist.RMSE,
		"duration": time.Since(start),
	}).Info("Run completed")
	return hist, nil
}
