package transformer

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/manningwu07/GAIN/tensor"
	"github.com/manningwu07/GAIN/utils"
)

// MLP is the two-layer random-projection feed-forward stage:
// relu(X·W1)·W2 with W1 (D x H) and W2 (H x D) drawn fresh on every call.
// It carries no residual or normalisation.
type MLP struct {
	Hiddens int
}

func (mlp MLP) Forward(x *tensor.Batch, rng *rand.Rand) *tensor.Batch {
	X := x.Rows()
	_, d := X.Dims()
	h := mlp.Hiddens

	hiddenWeights := mat.NewDense(d, h, utils.RandomArray(rng, d*h, float64(d)))
	outputWeights := mat.NewDense(h, d, utils.RandomArray(rng, h*d, float64(h)))

	hiddenLin := utils.ToDense(utils.Dot(X, hiddenWeights)) // (B*T x H)
	hiddenLin.Apply(utils.ReluApply, hiddenLin)
	final := utils.Dot(hiddenLin, outputWeights) // (B*T x D)
	return tensor.FromRows(final, x.B, x.T)
}
