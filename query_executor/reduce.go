package executor

import (
	"math"

	"ApproxDB/clt"
	"ApproxDB/types"
)

// reduce scales a sample into the final estimate. The scale is the inverse
// of the realized sampling fraction, total/|S|: at a full draw this equals
// 100/percent, and it stays unbiased when early termination leaves the
// sample short. Predicates apply inside the reduction, before scaling.
func reduce(q *types.Query, samples []types.Record, total int, confidence float64) Result {
	drawn := len(samples)
	scale := float64(total) / float64(drawn)

	var (
		n     int
		sum   float64
		sumSq float64
	)
	for i := range samples {
		a := samples[i].Amount
		if q.Where != nil && !q.Where.Match(a) {
			continue
		}
		n++
		sum += a
		sumSq += a * a
	}

	res := Result{SamplesUsed: drawn, Status: types.StatusStable}
	switch q.Agg {
	case types.AggSum:
		value := sum * scale
		res.CI = intervalFor(value, n, sum, sumSq, scale, confidence)
	case types.AggCount:
		value := float64(n) * scale
		res.CI = degenerate(value)
	case types.AggAvg:
		if n == 0 {
			res.CI = degenerate(0)
			res.Status = types.StatusInsufficientData
			break
		}
		value := sum / float64(n)
		res.CI = intervalFor(value, n, sum, sumSq, 1.0, confidence)
	}
	return res
}

// intervalFor computes the margin from the sample variance
// (sum_sq - sum^2/n) / (n-1) and widens the estimate by z*se*scale. With
// fewer than two observations the interval collapses to the point.
func intervalFor(value float64, n int, sum, sumSq, scale, confidence float64) types.ConfidenceInterval {
	if n < 2 {
		return degenerate(value)
	}
	variance := (sumSq - sum*sum/float64(n)) / float64(n-1)
	if variance < 0 {
		variance = 0
	}
	se := math.Sqrt(variance / float64(n))
	margin := clt.ZScore(confidence) * se * scale
	return types.ConfidenceInterval{Value: value, Lower: value - margin, Upper: value + margin}
}

func degenerate(value float64) types.ConfidenceInterval {
	return types.ConfidenceInterval{Value: value, Lower: value, Upper: value}
}
