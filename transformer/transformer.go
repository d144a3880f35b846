package transformer

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/manningwu07/GAIN/tensor"
	"github.com/manningwu07/GAIN/utils"
)

var ErrLayers = errors.New("transformer: invalid layer configuration")

type Transformer struct {
	Blocks []TransformerBlock
}

// TransformerBlock is attention then feed-forward, each wrapped in a
// residual sum. There is no layer normalisation between them.
type TransformerBlock struct {
	Attn Attention
	Mlp  MLP
}

// Initalization

// CreateTransformer builds a stack of layers blocks with MLP width hidden.
// Blocks hold only shapes; weights are drawn inside each Forward call.
func CreateTransformer(hidden, layers int) (*Transformer, error) {
	if hidden < 1 {
		return nil, fmt.Errorf("%w: hidden width %d", ErrLayers, hidden)
	}
	if layers < 1 {
		return nil, fmt.Errorf("%w: %d layers", ErrLayers, layers)
	}
	t := &Transformer{Blocks: make([]TransformerBlock, layers)}
	for i := range t.Blocks {
		t.Blocks[i] = TransformerBlock{Mlp: MLP{Hiddens: hidden}}
	}
	return t, nil
}

// Block forward with residuals.
func (b *TransformerBlock) Forward(X *tensor.Batch, rng *rand.Rand) *tensor.Batch {
	// norm1: residual sum only
	attnOut := b.Attn.Forward(X)
	h1 := tensor.FromRows(utils.Add(X.Rows(), attnOut.Rows()), X.B, X.T)

	// norm2: residual sum only
	mlpOut := b.Mlp.Forward(h1, rng)
	return tensor.FromRows(utils.Add(h1.Rows(), mlpOut.Rows()), X.B, X.T)
}

// Forward applies every block in order.
func (t *Transformer) Forward(X *tensor.Batch, rng *rand.Rand) *tensor.Batch {
	Y := X
	for i := range t.Blocks {
		Y = t.Blocks[i].Forward(Y, rng)
	}
	return Y
}

// SetDebug toggles attention debug logging on every block.
func (t *Transformer) SetDebug(on bool) {
	for i := range t.Blocks {
		t.Blocks[i].Attn.Debug = on
	}
}
