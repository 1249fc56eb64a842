package ebm

import (
	"fmt"
	"math/bits"
)

//FeatureKind tells how the bins of a feature are ordered. Ordinal bins carry
//a natural order from the cut points that produced them, nominal bins do not.
//The binning layer upstream decides; the histogram engine treats both the same.
type FeatureKind int

const (
	FeatureOrdinal FeatureKind = 0
	FeatureNominal FeatureKind = 1
)

//MaxDims is the largest tensor dimensionality the engine supports. With at
//least two bins per axis, a tensor of MaxDims dimensions already has 2^MaxDims
//cells, which exhausts addressable memory, so one word bit is kept in reserve.
const MaxDims = bits.UintSize - 1

//FeatureAtom describes one already-binned feature. It owns no sample data.
//HasMissing is accepted and carried but not consumed yet; the binning layer
//does not emit a dedicated missing bin today.
type FeatureAtom struct {
	BinCount   int
	Kind       FeatureKind
	HasMissing bool
}

func (f FeatureAtom) validate() error {
	if f.BinCount < 0 {
		return fmt.Errorf("%w: feature bin count cannot be negative", ErrInvalidArgument)
	}
	if f.Kind != FeatureOrdinal && f.Kind != FeatureNominal {
		return fmt.Errorf("%w: feature kind must be ordinal or nominal", ErrInvalidArgument)
	}
	return nil
}

//FeatureGroup is an ordered tuple of features defining the axes of a
//histogram tensor. The first entry is the fastest-moving axis: the linear
//index of bin coordinates (i0,...,iD-1) is sum(i_j * prod(bins before j)).
type FeatureGroup struct {
	Features []FeatureAtom

	// bit-pack descriptor for the whole group, used when a caller stores
	// combined group coordinates in one storage word
	BitsPerIndex int
	ItemsPerWord int
}

//NewFeatureGroup validates the axes and derives the group's bit-pack
//descriptor. Every axis needs at least two bins; callers filter degenerate
//features before building tensors.
func NewFeatureGroup(features []FeatureAtom) (*FeatureGroup, error) {
	if len(features) < 1 || MaxDims < len(features) {
		return nil, fmt.Errorf("%w: feature group must have between 1 and %d features", ErrInvalidArgument, MaxDims)
	}
	totalBins := 1
	for _, f := range features {
		if err := f.validate(); err != nil {
			return nil, err
		}
		if f.BinCount < 2 {
			return nil, fmt.Errorf("%w: feature group entries need at least 2 bins", ErrInvalidArgument)
		}
		if isMultiplyError(totalBins, f.BinCount) {
			// the group can still describe axes whose product overflows; the
			// descriptor just saturates and the tensor sizing step rejects it
			totalBins = 0
			break
		}
		totalBins *= f.BinCount
	}
	group := &FeatureGroup{Features: features}
	if 0 < totalBins {
		group.BitsPerIndex = bitsRequired(uint64(totalBins - 1))
		if 0 < group.BitsPerIndex {
			group.ItemsPerWord = storageWordBits / group.BitsPerIndex
		}
	}
	return group, nil
}

//Dimensions returns the number of tensor axes.
func (g *FeatureGroup) Dimensions() int {
	return len(g.Features)
}

//TensorBinCount returns the total number of cells in the group's tensor, or
//an error when the product overflows.
func (g *FeatureGroup) TensorBinCount() (int, error) {
	total := 1
	for _, f := range g.Features {
		if isMultiplyError(total, f.BinCount) {
			return 0, fmt.Errorf("%w: tensor bin count overflows", ErrAllocationImpossible)
		}
		total *= f.BinCount
	}
	return total, nil
}
