package ebm

//The histogram pass scans every sample once and folds its residual gradient
//into the tensor bin addressed by the sample's bin coordinates on the group's
//axes. The inner loop length is the class vector length, so the dispatcher
//routes the two single-channel shapes (regression and binary classification)
//to bodies with the channel loop removed.

//kMaxSpecializedClasses is the dispatch boundary inherited from the C
//ancestor's template unrolling. Go has no compile-time class counts, so the
//3..kMaxSpecializedClasses band shares the dynamic body below; the observable
//scores are identical either way.
const kMaxSpecializedClasses = 8

type tensorShape struct {
	axes     []int // feature column index per axis
	bins     []int // bin count per axis
	strides  []int // linear stride per axis, axis 0 fastest
	binBytes int
	vecLen   int
	class    bool
}

func newTensorShape(ds *InteractionDataset, featureIndexes []int) tensorShape {
	shape := tensorShape{
		axes:    append([]int(nil), featureIndexes...),
		vecLen:  ds.vecLen,
		class:   isClassification(ds.classCount),
		strides: make([]int, len(featureIndexes)),
	}
	stride := 1
	for d, q := range featureIndexes {
		shape.bins = append(shape.bins, ds.features[q].BinCount)
		shape.strides[d] = stride
		stride *= ds.features[q].BinCount
	}
	shape.binBytes, _ = binByteSize(shape.class, shape.vecLen)
	return shape
}

func (s tensorShape) totalBins() int {
	total := 1
	for _, b := range s.bins {
		total *= b
	}
	return total
}

//binSamples dispatches to the specialized accumulation body for the runtime
//class count. The switch is exhaustive: every class count lands somewhere.
func binSamples(ds *InteractionDataset, shape tensorShape, tensor []byte) {
	switch {
	case ds.classCount == ClassCountRegression:
		binSamplesRegression(ds, shape, tensor)
	case ds.classCount == 2:
		binSamplesBinary(ds, shape, tensor)
	default:
		// 3..kMaxSpecializedClasses and above share the dynamic body
		binSamplesMulticlass(ds, shape, tensor)
	}
}

func (s tensorShape) sampleBinIndex(ds *InteractionDataset, i int) int {
	idx := 0
	for d, q := range s.axes {
		idx += ds.binCoordinate(i, q) * s.strides[d]
	}
	return idx
}

func binSamplesRegression(ds *InteractionDataset, shape tensorShape, tensor []byte) {
	for i := 0; i < ds.samples; i++ {
		bin := viewBin(tensor, shape.binBytes, shape.sampleBinIndex(ds, i), false, 1)
		bin.addCount(1)
		bin.addGrad(0, ds.residuals[i])
	}
}

func binSamplesBinary(ds *InteractionDataset, shape tensorShape, tensor []byte) {
	for i := 0; i < ds.samples; i++ {
		bin := viewBin(tensor, shape.binBytes, shape.sampleBinIndex(ds, i), true, 1)
		r := ds.residuals[i]
		bin.addCount(1)
		bin.addGrad(0, r)
		bin.addDenom(0, newtonDenominator(r))
	}
}

func binSamplesMulticlass(ds *InteractionDataset, shape tensorShape, tensor []byte) {
	vecLen := shape.vecLen
	for i := 0; i < ds.samples; i++ {
		bin := viewBin(tensor, shape.binBytes, shape.sampleBinIndex(ds, i), true, vecLen)
		bin.addCount(1)
		row := ds.residuals[i*vecLen : (i+1)*vecLen]
		for v, r := range row {
			bin.addGrad(v, r)
			bin.addDenom(v, newtonDenominator(r))
		}
	}
}
