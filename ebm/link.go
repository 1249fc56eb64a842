package ebm

import "math"

//Objectives own the link-function math that turns targets and prior predictor
//scores into per-sample residual gradients. The engine computes residuals once
//at dataset construction and never revisits targets afterwards.

//MseObjective is the regression link: identity, residual = target - score.
type MseObjective struct{}

func (MseObjective) Residual(target, score float64) float64 {
	return target - score
}

//LogisticObjective is the binary single-logit link: residual is the predicted
//probability minus the 0/1 target.
type LogisticObjective struct{}

func (LogisticObjective) Residual(target float64, score float64) float64 {
	return sigmoid(score) - target
}

//SoftmaxObjective is the K-class link (K >= 3): residual vector is
//softmax(scores) minus the one-hot target.
type SoftmaxObjective struct {
	Classes int
}

//Residuals writes the per-class residual vector for one sample into out,
//which must have length Classes. The softmax is computed with the usual
//max-shift so that large logits do not overflow the exponentials.
func (o SoftmaxObjective) Residuals(target int, scores, out []float64) {
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if maxScore < s {
			maxScore = s
		}
	}
	sum := 0.0
	for v, s := range scores {
		e := math.Exp(s - maxScore)
		out[v] = e
		sum += e
	}
	for v := range out {
		out[v] /= sum
		if v == target {
			out[v] -= 1
		}
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

//newtonDenominator is the per-channel Hessian contribution recovered from a
//classification residual: |r| * (1 - |r|).
func newtonDenominator(residual float64) float64 {
	abs := math.Abs(residual)
	return abs * (1 - abs)
}
