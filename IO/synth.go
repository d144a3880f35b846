package IO

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/manningwu07/GAIN/params"
	"github.com/manningwu07/GAIN/tensor"
)

// SyntheticBatch builds the sinusoidal training batch and its mask.
//
//	x[b,t,d] = sin(2π·(d+1)·t/T + φ[b,d]) + N(0, NoiseStd²)
//	m[b,t,d] ~ Bernoulli(1 - MissingRate)
//
// φ is drawn uniformly from [0, 2π) per sequence and feature.
func SyntheticBatch(cfg params.TrainingConfig, rng *rand.Rand) (x, m *tensor.Batch, err error) {
	B, T, D := cfg.BatchSize, cfg.SeqLen, cfg.InputDim
	if x, err = tensor.New(B, T, D); err != nil {
		return nil, nil, err
	}
	if m, err = tensor.New(B, T, D); err != nil {
		return nil, nil, err
	}
	if cfg.MissingRate < 0 || cfg.MissingRate >= 1 {
		return nil, nil, fmt.Errorf("%w: missing rate %g", params.ErrConfig, cfg.MissingRate)
	}

	phase := distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: rng}
	noise := distuv.Normal{Mu: 0, Sigma: cfg.NoiseStd, Src: rng}
	keep := distuv.Bernoulli{P: 1 - cfg.MissingRate, Src: rng}

	for b := 0; b < B; b++ {
		for d := 0; d < D; d++ {
			phi := phase.Rand()
			freq := float64(d + 1)
			for t := 0; t < T; t++ {
				v := math.Sin(2*math.Pi*freq*float64(t)/float64(T) + phi)
				if cfg.NoiseStd > 0 {
					v += noise.Rand()
				}
				x.Set(b, t, d, v)
			}
		}
	}
	for i := range m.Raw() {
		m.Raw()[i] = keep.Rand()
	}
	return x, m, nil
}

// MaskFromPattern builds a (B,T,d) mask from a B x T pattern of 0/1 values,
// repeating each value across the d features.
func MaskFromPattern(pattern [][]float64, d int) (*tensor.Batch, error) {
	if len(pattern) == 0 || len(pattern[0]) == 0 {
		return nil, fmt.Errorf("%w: empty mask pattern", tensor.ErrShape)
	}
	B, T := len(pattern), len(pattern[0])
	m, err := tensor.New(B, T, d)
	if err != nil {
		return nil, err
	}
	for b, row := range pattern {
		if len(row) != T {
			return nil, fmt.Errorf("%w: pattern row %d has %d steps, want %d", tensor.ErrShape, b, len(row), T)
		}
		for t, v := range row {
			if v != 0 && v != 1 {
				return nil, fmt.Errorf("%w: pattern value %g at (%d,%d) is not binary", tensor.ErrShape, v, b, t)
			}
			for k := 0; k < d; k++ {
				m.Set(b, t, k, v)
			}
		}
	}
	return m, nil
}
