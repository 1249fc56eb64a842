package ebm

import "math"

//The pair sweep enumerates every orthogonal cut of the 2-D bin grid. For a
//candidate cut (c1, c2) the four quadrant totals are four box queries against
//the prefix-sum tensor, written into the auxiliary bin region appended after
//the main tensor. A quadrant below the minimum child weight rejects the cut;
//the quadrant order low/low, low/high, high/low, high/high front-loads the
//cheapest rejects.

const (
	auxBinCount = 4

	quadLowLow   = 0
	quadLowHigh  = 1
	quadHighLow  = 2
	quadHighHigh = 3

	maskLowLow   = 0x0
	maskLowHigh  = 0x2
	maskHighLow  = 0x1
	maskHighHigh = 0x3
)

//sweepPairCuts returns the best splitting score over all cuts, never below
//zero. A NaN produced by a quadrant's gain is deliberately kept: the
//comparison below updates best whenever the candidate fails `<= best`, which
//a NaN always does, so numeric breakdown propagates to the caller's
//post-filter instead of being silently dropped.
func sweepPairCuts(shape tensorShape, tensor, aux []byte, minChild uint64) float64 {
	quads := [auxBinCount]binView{}
	for q := range quads {
		quads[q] = viewBin(aux, shape.binBytes, q, shape.class, shape.vecLen)
	}

	scoreCut := scoreQuadrantsDynamic
	if shape.vecLen == 1 {
		scoreCut = scoreQuadrantsSingle
	}

	bestScore := 0.0
	low := make([]int, 2)
	for cut1 := 0; cut1 < shape.bins[0]-1; cut1++ {
		low[0] = cut1
		for cut2 := 0; cut2 < shape.bins[1]-1; cut2++ {
			low[1] = cut2

			tensorTotalsSum(shape, tensor, low, maskLowLow, quads[quadLowLow])
			if quads[quadLowLow].count() < minChild {
				continue
			}
			tensorTotalsSum(shape, tensor, low, maskLowHigh, quads[quadLowHigh])
			if quads[quadLowHigh].count() < minChild {
				continue
			}
			tensorTotalsSum(shape, tensor, low, maskHighLow, quads[quadHighLow])
			if quads[quadHighLow].count() < minChild {
				continue
			}
			tensorTotalsSum(shape, tensor, low, maskHighHigh, quads[quadHighHigh])
			if quads[quadHighHigh].count() < minChild {
				continue
			}

			score := scoreCut(shape, quads)

			// NaN-propagating best: do not rewrite as score > bestScore
			if !(score <= bestScore) {
				bestScore = score
			}
		}
	}
	return bestScore
}

//splitGain is the per-quadrant, per-channel objective: squared gradient sum
//over sample count. 0/0 never happens on the sweep path because every
//quadrant passed the minimum child weight, which is at least one.
func splitGain(sumGradient, count float64) float64 {
	return sumGradient * sumGradient / count
}

//The scorers add the four quadrant gains as (low/low + high/high) +
//(low/high + high/low). Swapping the pair's axes only exchanges the two mixed
//quadrants, and that inner sum is commutative, so the score does not depend
//on axis order whenever the quadrant statistics themselves are exact.
func scoreQuadrantsSingle(shape tensorShape, quads [auxBinCount]binView) float64 {
	gain := func(q binView) float64 { return splitGain(q.grad(0), float64(q.count())) }
	return (gain(quads[quadLowLow]) + gain(quads[quadHighHigh])) +
		(gain(quads[quadLowHigh]) + gain(quads[quadHighLow]))
}

func scoreQuadrantsDynamic(shape tensorShape, quads [auxBinCount]binView) float64 {
	score := 0.0
	counts := [auxBinCount]float64{}
	for i, q := range quads {
		counts[i] = float64(q.count())
	}
	gain := func(q, v int) float64 { return splitGain(quads[q].grad(v), counts[q]) }
	for v := 0; v < shape.vecLen; v++ {
		score += (gain(quadLowLow, v) + gain(quadHighHigh, v)) +
			(gain(quadLowHigh, v) + gain(quadHighLow, v))
	}
	return score
}

//postFilterScore coerces numeric breakdown to zero: a NaN or an overflowed
//score cannot be used to rank interactions.
func postFilterScore(score float64) float64 {
	if math.IsNaN(score) || math.MaxFloat64 <= score {
		return 0
	}
	return score
}
