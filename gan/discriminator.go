package gan

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/manningwu07/GAIN/tensor"
	"github.com/manningwu07/GAIN/utils"
)

// DefaultDiscHidden is the discriminator's hidden width.
const DefaultDiscHidden = 128

// Discriminator scores each sequence of a batch with a probability of being
// real: sigmoid(relu(flat·W1)·W2), W1 (T*D x Hidden), W2 (Hidden x 1), both
// drawn on every call.
type Discriminator struct {
	Hidden int
}

func (d Discriminator) Score(x *tensor.Batch, rng *rand.Rand) []float64 {
	hidden := d.Hidden
	if hidden <= 0 {
		hidden = DefaultDiscHidden
	}
	flat := x.Flat() // (B x T*D)
	_, in := flat.Dims()

	hiddenWeights := mat.NewDense(in, hidden, utils.RandomArray(rng, in*hidden, float64(in)))
	outputWeights := mat.NewDense(hidden, 1, utils.RandomArray(rng, hidden, float64(hidden)))

	h := utils.ToDense(utils.Dot(flat, hiddenWeights))
	h.Apply(utils.ReluApply, h)
	logits := utils.ToDense(utils.Dot(h, outputWeights))
	logits.Apply(utils.SigmoidApply, logits)

	return mat.Col(nil, 0, logits)
}
