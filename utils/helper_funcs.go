package utils

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// NewStream returns a PCG stream. seed == 0 is a valid seed, callers that
// want wall-clock seeding pick the seed themselves.
func NewStream(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SplitStreams draws k child streams from parent, in order. Children are
// fully determined by the parent's state and share nothing with it or with
// each other afterwards, so they can be handed to separate goroutines.
func SplitStreams(parent *rand.Rand, k int) []*rand.Rand {
	out := make([]*rand.Rand, k)
	for i := range out {
		out[i] = rand.New(rand.NewPCG(parent.Uint64(), parent.Uint64()))
	}
	return out
}

// NormalArray returns size samples from N(0, 1).
func NormalArray(rng *rand.Rand, size int) []float64 {
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	out := make([]float64, size)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// RandomArray returns size samples from U(-1/sqrt(v), 1/sqrt(v)).
func RandomArray(rng *rand.Rand, size int, v float64) []float64 {
	dist := distuv.Uniform{
		Min: -1.0 / math.Sqrt(v+1e-12),
		Max: 1.0 / math.Sqrt(v+1e-12),
		Src: rng,
	}
	out := make([]float64, size)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

func ToDense(m mat.Matrix) *mat.Dense {
	if d, ok := m.(*mat.Dense); ok {
		return d
	}
	return mat.DenseCopyOf(m)
}

// MeanSquaredError over every element of a and b.
func MeanSquaredError(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("MeanSquaredError: length mismatch")
	}
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	return floats.Dot(diff, diff) / float64(len(diff))
}

// AllFinite reports whether no element is NaN or ±Inf.
func AllFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
