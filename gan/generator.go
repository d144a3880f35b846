package gan

import (
	"math/rand/v2"

	"github.com/manningwu07/GAIN/tensor"
	"github.com/manningwu07/GAIN/transformer"
	"github.com/manningwu07/GAIN/utils"
)

// Filler produces a full (B,T,D) candidate for x given its mask. Only the
// entries where m == 0 end up in the imputed batch.
type Filler interface {
	Generate(x, m *tensor.Batch, rng *rand.Rand) (*tensor.Batch, error)
}

// Generator seeds missing entries with N(0,1) noise and runs the result
// through a transformer stack. Observed entries enter unchanged but may be
// altered by the stack.
type Generator struct {
	net *transformer.Transformer
}

func NewGenerator(hidden, layers int) (*Generator, error) {
	net, err := transformer.CreateTransformer(hidden, layers)
	if err != nil {
		return nil, err
	}
	return &Generator{net: net}, nil
}

func (g *Generator) Layers() int { return len(g.net.Blocks) }

// SetDebug turns on attention row-sum logging in every block.
func (g *Generator) SetDebug(on bool) { g.net.SetDebug(on) }

func (g *Generator) Generate(x, m *tensor.Batch, rng *rand.Rand) (*tensor.Batch, error) {
	if err := tensor.CheckMask(x, m); err != nil {
		return nil, err
	}
	noise, err := tensor.FromSlice(x.B, x.T, x.D, utils.NormalArray(rng, x.Len()))
	if err != nil {
		return nil, err
	}
	start, err := tensor.Blend(x, noise, m)
	if err != nil {
		return nil, err
	}
	return g.net.Forward(start, rng), nil
}
