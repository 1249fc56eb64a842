package ebm

import (
	"fmt"
	"log"
)

//InteractionContext binds a dataset to a private scratch arena. A context is
//single-threaded: concurrent scorings need one context each (NewContext is
//cheap and contexts share the immutable dataset). There is no state between
//calls beyond the retained arena capacity.
type InteractionContext struct {
	ds    *InteractionDataset
	arena *ScratchArena
}

//NewContext creates a scoring context over the dataset.
func (ds *InteractionDataset) NewContext() *InteractionContext {
	return &InteractionContext{ds: ds, arena: NewScratchArena()}
}

//CalculateInteractionScore scores the joint signal of a feature group beyond
//its marginals. Only pairs are swept today; any other dimensionality comes
//back as score 0 with no error, as do degenerate groups, empty datasets and
//degenerate targets, so callers can sweep candidate groups without
//special-casing. Hard failures (bad indexes, sizing overflow, allocation)
//return a non-nil error and score 0.
func (c *InteractionContext) CalculateInteractionScore(featureIndexes []int, minSamplesPerLeaf int) (float64, error) {
	if len(featureIndexes) == 0 {
		log.Print("interaction score requested for an empty feature group")
		return 0, nil
	}
	if MaxDims < len(featureIndexes) {
		return 0, fmt.Errorf("%w: feature group has %d features, max is %d", ErrInvalidArgument, len(featureIndexes), MaxDims)
	}
	if c.ds.samples == 0 {
		// zero samples give no basis to claim an interaction
		return 0, nil
	}
	minChild := uint64(1)
	if 1 <= minSamplesPerLeaf {
		minChild = uint64(minSamplesPerLeaf)
	} else {
		log.Print("minimum samples per leaf cannot be below 1, adjusting to 1")
	}
	for _, q := range featureIndexes {
		if q < 0 || c.ds.FeatureCount() <= q {
			return 0, fmt.Errorf("%w: feature index %d outside [0, %d)", ErrInvalidArgument, q, c.ds.FeatureCount())
		}
		if c.ds.features[q].BinCount <= 1 {
			// a single-bin axis always has the same value and carries no signal
			return 0, nil
		}
	}
	if c.ds.classCount == 0 || c.ds.classCount == 1 {
		// one possible outcome is predicted perfectly without interactions
		return 0, nil
	}
	if len(featureIndexes) != 2 {
		// only pair sweeps are implemented; skip silently so group sweeps
		// stay simple for the caller
		log.Printf("interaction scoring supports pairs only, skipping a %d-feature group", len(featureIndexes))
		return 0, nil
	}
	return c.scorePair(featureIndexes, minChild)
}

func (c *InteractionContext) scorePair(featureIndexes []int, minChild uint64) (float64, error) {
	shape := newTensorShape(c.ds, featureIndexes)

	mainBins := 1
	for _, b := range shape.bins {
		if isMultiplyError(mainBins, b) {
			return 0, fmt.Errorf("%w: tensor bin count overflows", ErrAllocationImpossible)
		}
		mainBins *= b
	}
	if isAddError(mainBins, auxBinCount) {
		return 0, fmt.Errorf("%w: tensor bin count overflows with auxiliary bins", ErrAllocationImpossible)
	}
	totalBins := mainBins + auxBinCount

	binBytes, ok := binByteSize(shape.class, shape.vecLen)
	if !ok {
		return 0, fmt.Errorf("%w: bin byte size overflows", ErrAllocationImpossible)
	}
	if isMultiplyError(totalBins, binBytes) {
		return 0, fmt.Errorf("%w: tensor byte size overflows", ErrAllocationImpossible)
	}
	tensorBytes := mainBins * binBytes

	// the auxiliary region is written before it is read, so only the main
	// tensor region needs zeroing
	buf, err := c.arena.Grab(totalBins*binBytes, tensorBytes)
	if err != nil {
		return 0, err
	}
	tensor := buf[:tensorBytes]
	aux := buf[tensorBytes:]

	binSamples(c.ds, shape, tensor)

	var preBuild []byte
	if totalsValidation {
		preBuild = append([]byte(nil), tensor...)
	}

	buildTensorTotals(shape, tensor)

	if totalsValidation {
		if err := verifyTensorTotals(shape, preBuild, tensor); err != nil {
			return 0, err
		}
	}

	best := sweepPairCuts(shape, tensor, aux, minChild)
	return postFilterScore(best), nil
}

//totalsValidation turns on the second-pass prefix-sum verification. It is a
//debugging aid: every scoring call pays a full reference rebuild of the
//totals tensor while enabled.
var totalsValidation bool

//SetTotalsValidation toggles the debug verification of the in-place totals
//build against an independently built reference tensor.
func SetTotalsValidation(enabled bool) {
	totalsValidation = enabled
}
