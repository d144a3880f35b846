package gan

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/manningwu07/GAIN/params"
	"github.com/manningwu07/GAIN/tensor"
	"github.com/manningwu07/GAIN/utils"
)

// Epsilon keeps every log argument strictly positive.
const Epsilon = 1e-8

// DiscriminatorLoss is the binary cross-entropy of dReal against 1 and dFake
// against 0.
//
//	split:  -mean(log(real+eps)) - mean(log(1-fake+eps))
//	concat: -mean(log(real+eps) ++ log(1-fake+eps))
//
// With equal batch sizes concat is half of split.
func DiscriminatorLoss(dReal, dFake []float64, agg params.Aggregation) float64 {
	lr := make([]float64, len(dReal))
	for i, p := range dReal {
		lr[i] = math.Log(p + Epsilon)
	}
	lf := make([]float64, len(dFake))
	for i, p := range dFake {
		lf[i] = math.Log(1 - p + Epsilon)
	}
	if agg == params.AggConcat {
		return -stat.Mean(append(lr, lf...), nil)
	}
	return -stat.Mean(lr, nil) - stat.Mean(lf, nil)
}

// GeneratorLoss is the MSE between x and imputed over every position.
// Observed positions contribute exactly zero when imputed came from Impute.
func GeneratorLoss(x, imputed *tensor.Batch) float64 {
	return utils.MeanSquaredError(x.Raw(), imputed.Raw())
}

// ImputationRMSE is the root mean squared error over missing positions only.
// It returns 0 when nothing is missing.
func ImputationRMSE(x, imputed, m *tensor.Batch) float64 {
	xs, is, ms := x.Raw(), imputed.Raw(), m.Raw()
	sum, n := 0.0, 0
	for i := range xs {
		if ms[i] == 0 {
			d := xs[i] - is[i]
			sum += d * d
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}
