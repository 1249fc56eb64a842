package ebm

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func twoBinFeatures(n int) []FeatureAtom {
	features := make([]FeatureAtom, n)
	for i := range features {
		features[i] = FeatureAtom{BinCount: 2, Kind: FeatureOrdinal}
	}
	return features
}

func TestRegressionDatasetResiduals(t *testing.T) {
	ds, err := NewRegressionDataset(
		twoBinFeatures(2),
		[]int{0, 0, 1, 1},
		[]float64{3, -2},
		[]float64{1, 1},
	)
	if err != nil {
		t.Fatal(err)
	}
	if ds.residuals[0] != 2 || ds.residuals[1] != -3 {
		t.Errorf("residuals = %v, want [2 -3]", ds.residuals)
	}
}

func TestBinaryDatasetResiduals(t *testing.T) {
	ds, err := NewClassificationDataset(
		2,
		twoBinFeatures(1),
		[]int{0, 1},
		[]int{0, 1},
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	if ds.residuals[0] != 0.5 || ds.residuals[1] != -0.5 {
		t.Errorf("residuals = %v, want [0.5 -0.5]", ds.residuals)
	}
}

func TestMulticlassDatasetResiduals(t *testing.T) {
	ds, err := NewClassificationDataset(
		3,
		twoBinFeatures(1),
		[]int{0},
		[]int{2},
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	third := 1.0 / 3.0
	if math.Abs(ds.residuals[0]-third) > 1e-12 ||
		math.Abs(ds.residuals[1]-third) > 1e-12 ||
		math.Abs(ds.residuals[2]-(third-1)) > 1e-12 {
		t.Errorf("residuals = %v", ds.residuals)
	}
}

func TestDatasetColumnAccess(t *testing.T) {
	features := []FeatureAtom{
		{BinCount: 3, Kind: FeatureOrdinal},
		{BinCount: 5, Kind: FeatureNominal},
	}
	binned := []int{
		0, 4,
		2, 1,
		1, 3,
	}
	ds, err := NewRegressionDataset(features, binned, []float64{0, 0, 0}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		for q := 0; q < 2; q++ {
			if got := ds.binCoordinate(i, q); got != binned[i*2+q] {
				t.Errorf("coordinate (%d, %d) = %d, want %d", i, q, got, binned[i*2+q])
			}
		}
	}
}

func TestDatasetValidation(t *testing.T) {
	features := twoBinFeatures(1)

	_, err := NewRegressionDataset(features, []int{2}, []float64{0}, nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("out-of-range bin index accepted: %v", err)
	}

	_, err = NewRegressionDataset(features, []int{0, 1}, []float64{0}, nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("wrong binned matrix size accepted: %v", err)
	}

	_, err = NewClassificationDataset(3, features, []int{0}, []int{3}, nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("target class out of range accepted: %v", err)
	}

	_, err = NewRegressionDataset(features, []int{0}, []float64{0}, []float64{1, 2})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("wrong prior score length accepted: %v", err)
	}

	_, err = NewRegressionDataset(
		[]FeatureAtom{{BinCount: 0, Kind: FeatureOrdinal}},
		[]int{0}, []float64{0}, nil,
	)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("0-bin feature with samples accepted: %v", err)
	}
}

func TestDatasetFromDense(t *testing.T) {
	binned := mat.NewDense(4, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
	})
	targets := mat.NewDense(4, 1, []float64{1, -1, -1, 1})

	ds, err := NewRegressionDatasetFromDense(twoBinFeatures(2), binned, targets, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Samples() != 4 || ds.FeatureCount() != 2 {
		t.Fatalf("dataset shape %d x %d", ds.Samples(), ds.FeatureCount())
	}
	if ds.binCoordinate(1, 1) != 1 || ds.binCoordinate(2, 0) != 1 {
		t.Error("dense coordinates did not survive the conversion")
	}

	fractional := mat.NewDense(1, 2, []float64{0.5, 0})
	_, err = NewRegressionDatasetFromDense(twoBinFeatures(2), fractional, mat.NewDense(1, 1, nil), nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("fractional bin value accepted: %v", err)
	}
}
