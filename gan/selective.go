package gan

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/manningwu07/GAIN/tensor"
	"github.com/manningwu07/GAIN/utils"
)

// SelectiveGenerator averages K independent Generator runs elementwise.
// Each run gets its own child stream split from the caller's stream before
// any run starts, so the result depends only on the parent stream state and
// not on goroutine scheduling.
type SelectiveGenerator struct {
	Gen     *Generator
	K       int
	Workers int // concurrent branches; <= 0 means K
}

func NewSelectiveGenerator(hidden, layers, k, workers int) (*SelectiveGenerator, error) {
	if k < 1 {
		return nil, fmt.Errorf("gan: selective generator needs k >= 1, got %d", k)
	}
	g, err := NewGenerator(hidden, layers)
	if err != nil {
		return nil, err
	}
	return &SelectiveGenerator{Gen: g, K: k, Workers: workers}, nil
}

func (s *SelectiveGenerator) Generate(x, m *tensor.Batch, rng *rand.Rand) (*tensor.Batch, error) {
	if err := tensor.CheckMask(x, m); err != nil {
		return nil, err
	}
	streams := utils.SplitStreams(rng, s.K)
	outs := make([]*tensor.Batch, s.K)
	errs := make([]error, s.K)

	workers := s.Workers
	if workers <= 0 || workers > s.K {
		workers = s.K
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	wg.Add(s.K)
	for k := 0; k < s.K; k++ {
		kk := k
		sem <- struct{}{}
		go func() {
			defer func() { <-sem; wg.Done() }()
			outs[kk], errs[kk] = s.Gen.Generate(x, m, streams[kk])
		}()
	}
	wg.Wait()

	for k, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("generator %d: %w", k, err)
		}
	}

	// reduce in branch order
	mean, err := tensor.New(x.B, x.T, x.D)
	if err != nil {
		return nil, err
	}
	acc := mean.Raw()
	for _, o := range outs {
		floats.Add(acc, o.Raw())
	}
	floats.Scale(1.0/float64(s.K), acc)
	return mean, nil
}
