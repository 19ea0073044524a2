package scheduler

import (
	"math"
	"strings"

	"ApproxDB/types"
)

// BenchmarkResults compares the exact and approximate paths back-to-back.
type BenchmarkResults struct {
	ExactValue        float64
	ApproximateValue  float64
	ExactTimeMs       float64
	ApproximateTimeMs float64
	Speedup           float64
	ErrorPercentage   float64
	ThreadsUsed       int
	SamplePercentage  float64
}

// BenchmarkQuery runs kind (SUM, AVG or COUNT; anything else defaults to
// SUM) both ways and reports values, timings, speedup and relative error.
func (s *Scheduler) BenchmarkQuery(kind string, samplePercent float64, numThreads int) BenchmarkResults {
	results := BenchmarkResults{
		SamplePercentage: samplePercent,
		ThreadsUsed:      numThreads,
	}

	var exact, approx types.ValidationResult
	switch strings.ToUpper(kind) {
	case "AVG":
		exact = s.ExecuteExactAvg()
		approx = s.ExecuteAvgQuery("", samplePercent, numThreads)
	case "COUNT":
		exact = s.ExecuteExactCount()
		approx = s.ExecuteCountQuery("", samplePercent, numThreads)
	default:
		exact = s.ExecuteExactSum()
		approx = s.ExecuteSumQuery("", samplePercent, numThreads)
	}

	results.ExactValue = exact.Value
	results.ApproximateValue = approx.Value
	results.ExactTimeMs = float64(exact.ComputationTime.Nanoseconds()) / 1e6
	results.ApproximateTimeMs = float64(approx.ComputationTime.Nanoseconds()) / 1e6
	if results.ApproximateTimeMs > 0 {
		results.Speedup = results.ExactTimeMs / results.ApproximateTimeMs
	}
	if exact.Value != 0 {
		results.ErrorPercentage = math.Abs(exact.Value-approx.Value) / math.Abs(exact.Value) * 100.0
	}
	return results
}
