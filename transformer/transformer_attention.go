package transformer

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/manningwu07/GAIN/tensor"
	"github.com/manningwu07/GAIN/utils"
)

// Attention is parameter-free scaled dot-product self-attention. Batch and
// time are flattened into one axis before scoring, so every one of the B*T
// rows attends to every other row, including rows of other sequences.
type Attention struct {
	Debug bool // log row-sum min/max of the weight matrix
}

// Weights returns the (B*T x B*T) row-stochastic matrix
// softmax(X Xᵀ / sqrt(D)).
func (attn Attention) Weights(x *tensor.Batch) *mat.Dense {
	X := x.Rows()
	n, d := X.Dims()
	rescale := 1.0 / math.Sqrt(float64(d))

	scores := mat.NewDense(n, n, nil)
	scores.Mul(X, X.T())
	scores.Scale(rescale, scores)

	A := utils.RowSoftmaxInPlace(scores, scores)
	if attn.Debug {
		rs := utils.RowSums(A)
		mn, mx := rs[0], rs[0]
		for _, v := range rs {
			mn = math.Min(mn, v)
			mx = math.Max(mx, v)
		}
		utils.Debugf("Attn: A row-sum min/max = %.4f/%.4f (rows=%d)", mn, mx, len(rs))
	}
	return A
}

// Forward returns A·X reshaped to x's (B,T,D).
func (attn Attention) Forward(x *tensor.Batch) *tensor.Batch {
	A := attn.Weights(x)
	var out mat.Dense
	out.Mul(A, x.Rows())
	return tensor.FromRows(&out, x.B, x.T)
}
