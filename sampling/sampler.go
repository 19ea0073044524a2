// Package sampling holds the flat sampling strategies. Every sampler
// consumes the in-order leaf sequence and returns a subsequence sized
// ~ floor(N * percent / 100). Rates at or above 100 return the full
// sequence; rates at or below 0 return nothing. No sampler ever returns
// more than its target, and every randomized sampler is deterministic for
// a given seed.
package sampling

import "ApproxDB/types"

// Options carries the tuning knobs shared by the strategies. The planner
// replaces an all-zero Options with DefaultOptions; individual zero fields
// are not filled in.
type Options struct {
	BlockSize    int
	PageSize     int
	StrataCount  int
	StepFactor   int
	MinBlockSize int
	MaxBlockSize int
	Seed         int64
}

// DefaultOptions mirrors the engine-wide defaults.
func DefaultOptions() Options {
	return Options{
		BlockSize:    1000,
		PageSize:     4096,
		StrataCount:  4,
		StepFactor:   2,
		MinBlockSize: 500,
		MaxBlockSize: 2000,
		Seed:         42,
	}
}

func targetCount(n int, percent float64) int {
	return int(float64(n) * percent / 100.0)
}

func copyAll(records []types.Record) []types.Record {
	out := make([]types.Record, len(records))
	copy(out, records)
	return out
}
