package ebm

import (
	"errors"
	"testing"
)

func TestNewFeatureGroup(t *testing.T) {
	group, err := NewFeatureGroup([]FeatureAtom{
		{BinCount: 16, Kind: FeatureOrdinal},
		{BinCount: 16, Kind: FeatureOrdinal},
	})
	if err != nil {
		t.Fatal(err)
	}
	if group.Dimensions() != 2 {
		t.Errorf("dimensions = %d, want 2", group.Dimensions())
	}
	total, err := group.TensorBinCount()
	if err != nil || total != 256 {
		t.Errorf("tensor bin count = %d, %v; want 256", total, err)
	}
	// 256 cells need 8 bits per combined index, 8 indexes per word
	if group.BitsPerIndex != 8 || group.ItemsPerWord != 8 {
		t.Errorf("pack descriptor %d bits x %d items", group.BitsPerIndex, group.ItemsPerWord)
	}
}

func TestNewFeatureGroupRejectsDegenerate(t *testing.T) {
	_, err := NewFeatureGroup([]FeatureAtom{{BinCount: 1, Kind: FeatureOrdinal}})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("1-bin axis accepted: %v", err)
	}
	_, err = NewFeatureGroup(nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty group accepted: %v", err)
	}
	_, err = NewFeatureGroup([]FeatureAtom{{BinCount: 4, Kind: FeatureKind(7)}})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unknown feature kind accepted: %v", err)
	}
}

func TestFeatureGroupOverflowSaturates(t *testing.T) {
	group, err := NewFeatureGroup([]FeatureAtom{
		{BinCount: 1 << 40, Kind: FeatureOrdinal},
		{BinCount: 1 << 40, Kind: FeatureOrdinal},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := group.TensorBinCount(); !errors.Is(err, ErrAllocationImpossible) {
		t.Errorf("overflowing tensor bin count accepted: %v", err)
	}
}

func TestBinByteSize(t *testing.T) {
	size, ok := binByteSize(false, 1)
	if !ok || size != 16 {
		t.Errorf("regression bin = %d bytes, want 16", size)
	}
	size, ok = binByteSize(true, 1)
	if !ok || size != 24 {
		t.Errorf("binary bin = %d bytes, want 24", size)
	}
	size, ok = binByteSize(true, 3)
	if !ok || size != 56 {
		t.Errorf("3-class bin = %d bytes, want 56", size)
	}
	if _, ok = binByteSize(true, 1<<62); ok {
		t.Error("overflowing vector length accepted")
	}
}
