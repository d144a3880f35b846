package IO

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/manningwu07/GAIN/tensor"
)

// ScalerEps guards the denominator of constant features.
const ScalerEps = 1e-8

// MinMaxScaler maps each feature to [0,1] using the min and max of that
// feature over every (b, t) row it was fitted on.
type MinMaxScaler struct {
	Min, Max []float64
}

func FitMinMax(x *tensor.Batch) *MinMaxScaler {
	rows := x.Rows()
	s := &MinMaxScaler{Min: make([]float64, x.D), Max: make([]float64, x.D)}
	col := make([]float64, x.B*x.T)
	for d := 0; d < x.D; d++ {
		mat.Col(col, d, rows)
		s.Min[d] = floats.Min(col)
		s.Max[d] = floats.Max(col)
	}
	return s
}

func (s *MinMaxScaler) check(x *tensor.Batch) error {
	if x.D != len(s.Min) {
		return fmt.Errorf("%w: scaler fitted on %d features, batch has %d", tensor.ErrShape, len(s.Min), x.D)
	}
	return nil
}

// Transform returns (x - min) / (max - min + eps) per feature.
func (s *MinMaxScaler) Transform(x *tensor.Batch) (*tensor.Batch, error) {
	if err := s.check(x); err != nil {
		return nil, err
	}
	out := x.Clone()
	raw := out.Raw()
	for i := range raw {
		d := i % x.D
		raw[i] = (raw[i] - s.Min[d]) / (s.Max[d] - s.Min[d] + ScalerEps)
	}
	return out, nil
}

// Inverse undoes Transform with the same fitted parameters.
func (s *MinMaxScaler) Inverse(x *tensor.Batch) (*tensor.Batch, error) {
	if err := s.check(x); err != nil {
		return nil, err
	}
	out := x.Clone()
	raw := out.Raw()
	for i := range raw {
		d := i % x.D
		raw[i] = raw[i]*(s.Max[d]-s.Min[d]+ScalerEps) + s.Min[d]
	}
	return out, nil
}

func FitTransform(x *tensor.Batch) (*tensor.Batch, *MinMaxScaler, error) {
	s := FitMinMax(x)
	out, err := s.Transform(x)
	return out, s, err
}
