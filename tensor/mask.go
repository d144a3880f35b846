package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// CheckMask reports whether m has x's shape and only holds 0 or 1.
func CheckMask(x, m *Batch) error {
	if err := x.MustMatch(m); err != nil {
		return err
	}
	for i, v := range m.Raw() {
		if v != 0 && v != 1 {
			return fmt.Errorf("%w: mask value %g at flat index %d is not binary", ErrShape, v, i)
		}
	}
	return nil
}

// Blend returns keep⊙m + fill⊙(1-m). With a binary mask every observed
// entry is copied from keep bit-for-bit.
func Blend(keep, fill, m *Batch) (*Batch, error) {
	if err := keep.MustMatch(fill); err != nil {
		return nil, err
	}
	if err := keep.MustMatch(m); err != nil {
		return nil, err
	}
	out := keep.Clone()
	o, f, mk := out.Raw(), fill.Raw(), m.Raw()
	for i := range o {
		switch mk[i] {
		case 1:
			// observed: left untouched
		case 0:
			o[i] = f[i]
		default:
			o[i] = o[i]*mk[i] + f[i]*(1-mk[i])
		}
	}
	return out, nil
}

// Impute assembles the imputed batch x⊙m + g⊙(1-m).
func Impute(x, m, g *Batch) (*Batch, error) {
	return Blend(x, g, m)
}

// Observed counts the ones in a mask.
func Observed(m *Batch) int {
	return int(floats.Sum(m.Raw()))
}
