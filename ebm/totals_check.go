package ebm

import (
	"fmt"
	"math"

	"gorgonia.org/tensor"
)

//Debug verification of the in-place prefix-sum build. The histogram is copied
//before the build, rebuilt as prefix sums in an independent dense tensor with
//the same pass and accumulation order, and compared cell by cell. Identical
//ordering makes the float results bit-identical, so the comparison is exact.

func verifyTensorTotals(shape tensorShape, preBuild, built []byte) error {
	channels := 1 + shape.vecLen
	if shape.class {
		channels += shape.vecLen
	}
	totalBins := shape.totalBins()

	ref := tensor.New(tensor.WithShape(totalBins, channels), tensor.Of(tensor.Float64))
	for idx := 0; idx < totalBins; idx++ {
		cell := viewBin(preBuild, shape.binBytes, idx, shape.class, shape.vecLen)
		HandleError(ref.SetAt(float64(cell.count()), idx, 0))
		for v := 0; v < shape.vecLen; v++ {
			HandleError(ref.SetAt(cell.grad(v), idx, 1+v))
			if shape.class {
				HandleError(ref.SetAt(cell.denom(v), idx, 1+shape.vecLen+v))
			}
		}
	}

	for d := range shape.bins {
		stride := shape.strides[d]
		bins := shape.bins[d]
		block := stride * bins
		for base := 0; base < totalBins; base += block {
			for lo := 0; lo < stride; lo++ {
				for i := 1; i < bins; i++ {
					idx := base + lo + i*stride
					prev := idx - stride
					for ch := 0; ch < channels; ch++ {
						a, err := ref.At(idx, ch)
						HandleError(err)
						b, err := ref.At(prev, ch)
						HandleError(err)
						HandleError(ref.SetAt(a.(float64)+b.(float64), idx, ch))
					}
				}
			}
		}
	}

	for idx := 0; idx < totalBins; idx++ {
		cell := viewBin(built, shape.binBytes, idx, shape.class, shape.vecLen)
		want, err := ref.At(idx, 0)
		HandleError(err)
		if float64(cell.count()) != want.(float64) {
			return fmt.Errorf("totals validation: count mismatch at bin %d: %d != %v", idx, cell.count(), want)
		}
		for ch := 1; ch < channels; ch++ {
			want, err := ref.At(idx, ch)
			HandleError(err)
			var got float64
			if ch <= shape.vecLen {
				got = cell.grad(ch - 1)
			} else {
				got = cell.denom(ch - 1 - shape.vecLen)
			}
			if math.Float64bits(got) != math.Float64bits(want.(float64)) {
				return fmt.Errorf("totals validation: channel %d mismatch at bin %d: %v != %v", ch, idx, got, want)
			}
		}
	}
	return nil
}
