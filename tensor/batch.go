package tensor

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrShape is returned (wrapped) whenever two batches that must agree do not.
var ErrShape = errors.New("tensor: shape mismatch")

// Batch is a (B, T, D) block of sequences stored row-major in a single
// (B*T x D) gonum matrix. Row b*T+t holds the D features of step t of
// sequence b.
type Batch struct {
	B, T, D int
	data    *mat.Dense
}

// New allocates a zeroed (b, t, d) batch.
func New(b, t, d int) (*Batch, error) {
	if b <= 0 || t <= 0 || d <= 0 {
		return nil, fmt.Errorf("%w: non-positive dims (%d,%d,%d)", ErrShape, b, t, d)
	}
	return &Batch{B: b, T: t, D: d, data: mat.NewDense(b*t, d, nil)}, nil
}

// FromSlice wraps vals (length b*t*d, row-major) without copying.
func FromSlice(b, t, d int, vals []float64) (*Batch, error) {
	if b <= 0 || t <= 0 || d <= 0 {
		return nil, fmt.Errorf("%w: non-positive dims (%d,%d,%d)", ErrShape, b, t, d)
	}
	if len(vals) != b*t*d {
		return nil, fmt.Errorf("%w: got %d values for (%d,%d,%d)", ErrShape, len(vals), b, t, d)
	}
	return &Batch{B: b, T: t, D: d, data: mat.NewDense(b*t, d, vals)}, nil
}

// FromRows reshapes a (b*t x d) matrix into a batch. The matrix is copied
// only when it is not already a compact *mat.Dense.
func FromRows(rows mat.Matrix, b, t int) *Batch {
	r, d := rows.Dims()
	if r != b*t {
		panic(fmt.Sprintf("tensor.FromRows: %d rows cannot hold (%d,%d)", r, b, t))
	}
	dense, ok := rows.(*mat.Dense)
	if !ok || dense.RawMatrix().Stride != d {
		dense = mat.DenseCopyOf(rows)
	}
	return &Batch{B: b, T: t, D: d, data: dense}
}

func (x *Batch) Dims() (b, t, d int) { return x.B, x.T, x.D }

func (x *Batch) Len() int { return x.B * x.T * x.D }

func (x *Batch) At(b, t, d int) float64 { return x.data.At(b*x.T+t, d) }

func (x *Batch) Set(b, t, d int, v float64) { x.data.Set(b*x.T+t, d, v) }

// Rows is the (B*T x D) view used by attention and the feed-forward stage.
// It shares memory with x.
func (x *Batch) Rows() *mat.Dense { return x.data }

// Flat is the (B x T*D) view used by the discriminator. It shares memory
// with x.
func (x *Batch) Flat() *mat.Dense {
	return mat.NewDense(x.B, x.T*x.D, x.Raw())
}

// Raw exposes the backing slice in row-major (b, t, d) order.
func (x *Batch) Raw() []float64 { return x.data.RawMatrix().Data }

// Sequence returns the (T x D) block of sequence b, sharing memory.
func (x *Batch) Sequence(b int) *mat.Dense {
	return x.data.Slice(b*x.T, (b+1)*x.T, 0, x.D).(*mat.Dense)
}

func (x *Batch) Clone() *Batch {
	return &Batch{B: x.B, T: x.T, D: x.D, data: mat.DenseCopyOf(x.data)}
}

func (x *Batch) SameShape(y *Batch) bool {
	return x.B == y.B && x.T == y.T && x.D == y.D
}

// MustMatch returns a wrapped ErrShape describing the mismatch, or nil.
func (x *Batch) MustMatch(y *Batch) error {
	if x == nil || y == nil {
		return fmt.Errorf("%w: nil batch", ErrShape)
	}
	if !x.SameShape(y) {
		return fmt.Errorf("%w: (%d,%d,%d) vs (%d,%d,%d)", ErrShape, x.B, x.T, x.D, y.B, y.T, y.D)
	}
	return nil
}

func (x *Batch) String() string {
	return fmt.Sprintf("Batch(%d,%d,%d)", x.B, x.T, x.D)
}
