package ebm

import (
	"encoding/binary"
	"math"
)

//GradientPair accumulates one class channel of a bin: the residual-gradient
//sum and, for classification, the Newton denominator sum. Regression bins
//carry no denominator at all; the bin layout drops the field entirely.
type GradientPair struct {
	SumGradient    float64
	SumDenominator float64
}

//A bin is one histogram cell: a sample count followed by one GradientPair per
//class channel, laid out as a single contiguous little-endian byte span inside
//the scratch arena. binView is a non-owning window over that span; it keeps
//the cache-locality of the C ancestor's flexible-array bucket without pointer
//arithmetic.
//
//Layout: u64 sample count, then per channel a float64 gradient sum and, for
//classification only, a float64 denominator sum.

const (
	binCountBytes       = 8
	gradBytes           = 8
	denomBytes          = 8
	binHeaderOffsetGrad = binCountBytes
)

//binByteSize returns the per-bin span width for the given shape, or ok=false
//when the multiplication overflows.
func binByteSize(classification bool, vecLen int) (int, bool) {
	perChannel := gradBytes
	if classification {
		perChannel += denomBytes
	}
	if isMultiplyError(vecLen, perChannel) {
		return 0, false
	}
	channels := vecLen * perChannel
	if isAddError(binCountBytes, channels) {
		return 0, false
	}
	return binCountBytes + channels, true
}

type binView struct {
	bytes          []byte
	classification bool
	vecLen         int
}

//viewBin returns the bin window at linear index within buf.
func viewBin(buf []byte, binBytes, index int, classification bool, vecLen int) binView {
	off := index * binBytes
	return binView{bytes: buf[off : off+binBytes], classification: classification, vecLen: vecLen}
}

func (b binView) channelStride() int {
	if b.classification {
		return gradBytes + denomBytes
	}
	return gradBytes
}

func (b binView) count() uint64 {
	return binary.LittleEndian.Uint64(b.bytes)
}

func (b binView) setCount(n uint64) {
	binary.LittleEndian.PutUint64(b.bytes, n)
}

func (b binView) addCount(delta uint64) {
	b.setCount(b.count() + delta)
}

func (b binView) gradOffset(v int) int {
	return binHeaderOffsetGrad + v*b.channelStride()
}

func (b binView) grad(v int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b.bytes[b.gradOffset(v):]))
}

func (b binView) setGrad(v int, x float64) {
	binary.LittleEndian.PutUint64(b.bytes[b.gradOffset(v):], math.Float64bits(x))
}

func (b binView) addGrad(v int, x float64) {
	b.setGrad(v, b.grad(v)+x)
}

func (b binView) denom(v int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b.bytes[b.gradOffset(v)+gradBytes:]))
}

func (b binView) setDenom(v int, x float64) {
	binary.LittleEndian.PutUint64(b.bytes[b.gradOffset(v)+gradBytes:], math.Float64bits(x))
}

func (b binView) addDenom(v int, x float64) {
	b.setDenom(v, b.denom(v)+x)
}

//pair reads one class channel out as a GradientPair.
func (b binView) pair(v int) GradientPair {
	p := GradientPair{SumGradient: b.grad(v)}
	if b.classification {
		p.SumDenominator = b.denom(v)
	}
	return p
}

func (b binView) zero() {
	for i := range b.bytes {
		b.bytes[i] = 0
	}
}
