package ebm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

//ClassCountRegression marks a regression target in the class-count slot.
//0 and 1 are accepted as degenerate class counts (a single possible outcome
//needs no model); any group scored against them comes back zero.
const ClassCountRegression = -1

//vectorLength is the per-sample residual width: regression and binary
//classification use one channel, K-class classification uses K.
func vectorLength(classCount int) int {
	if classCount <= 2 {
		return 1
	}
	return classCount
}

func isClassification(classCount int) bool {
	return 0 <= classCount
}

//InteractionDataset is the immutable, column-major view of binned sample
//data the scoring calls share. Bin coordinates live in bit-packed columns,
//one per feature; residual gradients are precomputed per sample and held
//read-only. Safe for concurrent readers.
type InteractionDataset struct {
	classCount int
	vecLen     int
	features   []FeatureAtom
	columns    []packedColumn
	samples    int
	residuals  []float64
}

//NewRegressionDataset builds a dataset for a real-valued target. binned is
//row-major [sample][feature]; priorScores has one entry per sample and may be
//nil for an all-zero prior.
func NewRegressionDataset(features []FeatureAtom, binned []int, targets []float64, priorScores []float64) (*InteractionDataset, error) {
	ds, err := newDataset(ClassCountRegression, features, binned, len(targets), priorScores)
	if err != nil {
		return nil, err
	}
	obj := MseObjective{}
	for i, t := range targets {
		ds.residuals[i] = obj.Residual(t, ds.priorScore(priorScores, i, 0))
	}
	return ds, nil
}

//NewClassificationDataset builds a dataset for an integer class target.
//classCount 0 and 1 are accepted as degenerate; classCount >= 2 requires
//every target in [0, classCount).
func NewClassificationDataset(classCount int, features []FeatureAtom, binned []int, targets []int, priorScores []float64) (*InteractionDataset, error) {
	if classCount < 0 {
		return nil, fmt.Errorf("%w: class count cannot be negative", ErrInvalidArgument)
	}
	ds, err := newDataset(classCount, features, binned, len(targets), priorScores)
	if err != nil {
		return nil, err
	}
	if classCount <= 1 {
		// one possible outcome: residuals are identically zero and every
		// interaction score over this dataset is zero
		return ds, nil
	}
	for _, t := range targets {
		if t < 0 || classCount <= t {
			return nil, fmt.Errorf("%w: target class %d outside [0, %d)", ErrInvalidArgument, t, classCount)
		}
	}
	if classCount == 2 {
		obj := LogisticObjective{}
		for i, t := range targets {
			ds.residuals[i] = obj.Residual(float64(t), ds.priorScore(priorScores, i, 0))
		}
		return ds, nil
	}
	obj := SoftmaxObjective{Classes: classCount}
	scores := make([]float64, classCount)
	for i, t := range targets {
		for v := range scores {
			scores[v] = ds.priorScore(priorScores, i, v)
		}
		obj.Residuals(t, scores, ds.residuals[i*ds.vecLen:(i+1)*ds.vecLen])
	}
	return ds, nil
}

//NewRegressionDatasetFromDense is the matrix-shaped constructor used by the
//npy ingestion path: binned is N x F with integral entries, targets and
//priorScores are N x 1 columns (priorScores may be nil).
func NewRegressionDatasetFromDense(features []FeatureAtom, binned, targets, priorScores *mat.Dense) (*InteractionDataset, error) {
	binnedFlat, n, err := flattenBinned(features, binned)
	if err != nil {
		return nil, err
	}
	targetsFlat, err := columnValues(targets, n, "targets")
	if err != nil {
		return nil, err
	}
	var scoresFlat []float64
	if priorScores != nil {
		if scoresFlat, err = columnValues(priorScores, n, "prior scores"); err != nil {
			return nil, err
		}
	}
	return NewRegressionDataset(features, binnedFlat, targetsFlat, scoresFlat)
}

//NewClassificationDatasetFromDense mirrors NewRegressionDatasetFromDense for
//classification; priorScores is N x V or nil.
func NewClassificationDatasetFromDense(classCount int, features []FeatureAtom, binned, targets, priorScores *mat.Dense) (*InteractionDataset, error) {
	binnedFlat, n, err := flattenBinned(features, binned)
	if err != nil {
		return nil, err
	}
	targetsFloat, err := columnValues(targets, n, "targets")
	if err != nil {
		return nil, err
	}
	targetsFlat := make([]int, n)
	for i, t := range targetsFloat {
		targetsFlat[i] = int(t)
		if float64(targetsFlat[i]) != t {
			return nil, fmt.Errorf("%w: target %v is not an integral class index", ErrInvalidArgument, t)
		}
	}
	var scoresFlat []float64
	if priorScores != nil {
		rows, cols := priorScores.Dims()
		if rows != n || cols != vectorLength(classCount) {
			return nil, fmt.Errorf("%w: prior scores must be %d x %d", ErrInvalidArgument, n, vectorLength(classCount))
		}
		scoresFlat = make([]float64, 0, rows*cols)
		for i := 0; i < rows; i++ {
			scoresFlat = append(scoresFlat, priorScores.RawRowView(i)...)
		}
	}
	return NewClassificationDataset(classCount, features, binnedFlat, targetsFlat, scoresFlat)
}

func newDataset(classCount int, features []FeatureAtom, binned []int, samples int, priorScores []float64) (*InteractionDataset, error) {
	for _, f := range features {
		if err := f.validate(); err != nil {
			return nil, err
		}
		if f.BinCount == 0 && 0 < samples {
			return nil, fmt.Errorf("%w: feature with 0 bins cannot describe %d samples", ErrInvalidArgument, samples)
		}
	}
	if len(binned) != samples*len(features) {
		return nil, fmt.Errorf("%w: binned matrix has %d entries, want %d", ErrInvalidArgument, len(binned), samples*len(features))
	}
	vecLen := vectorLength(classCount)
	if priorScores != nil && len(priorScores) != samples*vecLen {
		return nil, fmt.Errorf("%w: prior scores have %d entries, want %d", ErrInvalidArgument, len(priorScores), samples*vecLen)
	}
	ds := &InteractionDataset{
		classCount: classCount,
		vecLen:     vecLen,
		features:   append([]FeatureAtom(nil), features...),
		samples:    samples,
		residuals:  make([]float64, samples*vecLen),
	}
	column := make([]int, samples)
	for q, f := range features {
		for i := 0; i < samples; i++ {
			v := binned[i*len(features)+q]
			if v < 0 || f.BinCount <= v {
				return nil, fmt.Errorf("%w: bin index %d outside [0, %d) for feature %d", ErrInvalidArgument, v, f.BinCount, q)
			}
			column[i] = v
		}
		ds.columns = append(ds.columns, newPackedColumn(column, f.BinCount))
	}
	return ds, nil
}

func (ds *InteractionDataset) priorScore(priorScores []float64, sample, v int) float64 {
	if priorScores == nil {
		return 0
	}
	return priorScores[sample*ds.vecLen+v]
}

//Samples returns the number of rows in the dataset.
func (ds *InteractionDataset) Samples() int {
	return ds.samples
}

//FeatureCount returns the number of binned feature columns.
func (ds *InteractionDataset) FeatureCount() int {
	return len(ds.features)
}

//ClassCount returns ClassCountRegression or the classification class count.
func (ds *InteractionDataset) ClassCount() int {
	return ds.classCount
}

//Feature returns the descriptor of column q.
func (ds *InteractionDataset) Feature(q int) FeatureAtom {
	return ds.features[q]
}

//binCoordinate reads sample i's bin index on feature column q.
func (ds *InteractionDataset) binCoordinate(i, q int) int {
	return ds.columns[q].get(i)
}

func flattenBinned(features []FeatureAtom, binned *mat.Dense) ([]int, int, error) {
	if binned == nil {
		return nil, 0, fmt.Errorf("%w: binned matrix cannot be nil", ErrInvalidArgument)
	}
	rows, cols := binned.Dims()
	if cols != len(features) {
		return nil, 0, fmt.Errorf("%w: binned matrix has %d columns, want %d features", ErrInvalidArgument, cols, len(features))
	}
	flat := make([]int, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for q := 0; q < cols; q++ {
			x := binned.At(i, q)
			v := int(x)
			if float64(v) != x {
				return nil, 0, fmt.Errorf("%w: bin value %v at (%d, %d) is not integral", ErrInvalidArgument, x, i, q)
			}
			flat = append(flat, v)
		}
	}
	return flat, rows, nil
}

func columnValues(m *mat.Dense, n int, what string) ([]float64, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: %s cannot be nil", ErrInvalidArgument, what)
	}
	rows, cols := m.Dims()
	if rows != n || cols != 1 {
		return nil, fmt.Errorf("%w: %s must be %d x 1", ErrInvalidArgument, what, n)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = m.At(i, 0)
	}
	return out, nil
}
