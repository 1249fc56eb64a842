package ebm

import (
	"math"
	"testing"
)

func TestMseResidual(t *testing.T) {
	obj := MseObjective{}
	if got := obj.Residual(3.5, 1.25); got != 2.25 {
		t.Errorf("mse residual = %v, want 2.25", got)
	}
}

func TestLogisticResidual(t *testing.T) {
	obj := LogisticObjective{}
	if got := obj.Residual(0, 0); got != 0.5 {
		t.Errorf("residual at zero logit, target 0 = %v, want 0.5", got)
	}
	if got := obj.Residual(1, 0); got != -0.5 {
		t.Errorf("residual at zero logit, target 1 = %v, want -0.5", got)
	}
	// strongly confident correct prediction leaves almost no residual
	if got := obj.Residual(1, 20); 1e-8 < math.Abs(got) {
		t.Errorf("residual at logit 20, target 1 = %v", got)
	}
}

func TestSoftmaxResiduals(t *testing.T) {
	obj := SoftmaxObjective{Classes: 3}
	out := make([]float64, 3)
	obj.Residuals(1, []float64{0, 0, 0}, out)

	third := 1.0 / 3.0
	if math.Abs(out[0]-third) > 1e-12 || math.Abs(out[2]-third) > 1e-12 {
		t.Errorf("off-target residuals %v, want 1/3", out)
	}
	if math.Abs(out[1]-(third-1)) > 1e-12 {
		t.Errorf("target residual %v, want %v", out[1], third-1)
	}

	// residual vector sums to zero for any scores
	obj.Residuals(0, []float64{2.5, -1, 0.25}, out)
	sum := out[0] + out[1] + out[2]
	if math.Abs(sum) > 1e-12 {
		t.Errorf("residuals sum to %v, want 0", sum)
	}
}

func TestSoftmaxResidualsShiftInvariant(t *testing.T) {
	obj := SoftmaxObjective{Classes: 3}
	a := make([]float64, 3)
	b := make([]float64, 3)
	obj.Residuals(2, []float64{1, 2, 3}, a)
	obj.Residuals(2, []float64{701, 702, 703}, b)
	for v := range a {
		if math.Abs(a[v]-b[v]) > 1e-12 {
			t.Errorf("channel %d: %v != %v under score shift", v, a[v], b[v])
		}
	}
}

func TestNewtonDenominator(t *testing.T) {
	if got := newtonDenominator(0.5); got != 0.25 {
		t.Errorf("denominator of 0.5 = %v, want 0.25", got)
	}
	if got := newtonDenominator(-0.5); got != 0.25 {
		t.Errorf("denominator of -0.5 = %v, want 0.25", got)
	}
	if got := newtonDenominator(0); got != 0 {
		t.Errorf("denominator of 0 = %v, want 0", got)
	}
}
