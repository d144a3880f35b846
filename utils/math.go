package utils

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Matrix functions used by every stage.

// r = rows of matrix
// c = columns of matrix
// o = output
// m = matrix input number 1
// n = matrix input number 2

func Dot(m, n mat.Matrix) mat.Matrix {
	r, _ := m.Dims()
	_, c := n.Dims()
	o := mat.NewDense(r, c, nil)
	o.Product(m, n)
	return o
}

func Add(m, n mat.Matrix) mat.Matrix {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.Add(m, n)
	return o
}

// RowSums returns per-row sums for a mat.Dense.
func RowSums(m *mat.Dense) []float64 {
	r, _ := m.Dims()
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		out[i] = mat.Sum(m.RowView(i))
	}
	return out
}

// -------- Activations --------
// Shape-compatible with mat.Dense.Apply (i,j,v) -> value.

func ReluApply(_, _ int, x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// SigmoidApply is the logistic function, split by sign so exp never
// overflows.
func SigmoidApply(_, _ int, x float64) float64 {
	if x >= 0 {
		return 1.0 / (1.0 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1.0 + e)
}

// ---------- Softmax ----------

// RowSoftmaxInPlace writes softmax(m) into dst row by row. Each row has
// its maximum subtracted before exponentiating.
func RowSoftmaxInPlace(dst *mat.Dense, m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	if dr, dc := dst.Dims(); dr != r || dc != c {
		panic("RowSoftmaxInPlace: dst shape mismatch")
	}
	for i := 0; i < r; i++ {
		mx := m.At(i, 0)
		for j := 1; j < c; j++ {
			if v := m.At(i, j); v > mx {
				mx = v
			}
		}
		sum := 0.0
		for j := 0; j < c; j++ {
			e := math.Exp(m.At(i, j) - mx)
			dst.Set(i, j, e)
			sum += e
		}
		inv := 1.0 / sum
		for j := 0; j < c; j++ {
			dst.Set(i, j, dst.At(i, j)*inv)
		}
	}
	return dst
}

// RowSoftmax applies softmax independently to each row across columns.
// Used by attention (row sums should be 1).
func RowSoftmax(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	return RowSoftmaxInPlace(mat.NewDense(r, c, nil), m)
}
