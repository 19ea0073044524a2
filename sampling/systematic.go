package sampling

import (
	"math/rand"

	"ApproxDB/types"
)

// Systematic picks every step-th record, step = max(1, N/target), starting
// at a seeded random offset inside [0, step). Deterministic modulo the seed.
func Systematic(records []types.Record, percent float64, seed int64) []types.Record {
	n := len(records)
	if n == 0 || percent <= 0 {
		return nil
	}
	if percent >= 100 {
		return copyAll(records)
	}
	target := targetCount(n, percent)
	if target == 0 {
		return nil
	}

	step := n / target
	if step < 1 {
		step = 1
	}
	rng := rand.New(rand.NewSource(seed))
	start := rng.Intn(step)

	out := make([]types.Record, 0, target)
	for i := start; i < n && len(out) < target; i += step {
		out = append(out, records[i])
	}
	return out
}

// Fast is the coarse-grained variant: the systematic step multiplied by
// stepFactor, so it deliberately lands under the target.
func Fast(records []types.Record, percent float64, stepFactor int) []types.Record {
	n := len(records)
	if n == 0 || percent <= 0 {
		return nil
	}
	if percent >= 100 {
		return copyAll(records)
	}
	target := targetCount(n, percent)
	if target == 0 {
		return nil
	}
	if stepFactor < 2 {
		stepFactor = 2
	}

	step := n / target
	if step < 1 {
		step = 1
	}
	step *= stepFactor

	out := make([]types.Record, 0, target)
	for i := 0; i < n && len(out) < target; i += step {
		out = append(out, records[i])
	}
	return out
}

// Dual splits the target a third/two-thirds between a fast scan with a
// tripled step and a slow scan offset by half the fast step, exploring both
// extremes of the step grid.
func Dual(records []types.Record, percent float64) []types.Record {
	n := len(records)
	if n == 0 || percent <= 0 {
		return nil
	}
	if percent >= 100 {
		return copyAll(records)
	}
	target := targetCount(n, percent)
	if target == 0 {
		return nil
	}

	fastTarget := target / 3
	slowTarget := target - fastTarget
	out := make([]types.Record, 0, target)

	fastStep := 1
	if fastTarget > 0 {
		fastStep = n / fastTarget
		if fastStep < 1 {
			fastStep = 1
		}
		fastStep *= 3
		for i := 0; i < n && len(out) < fastTarget; i += fastStep {
			out = append(out, records[i])
		}
	}

	slowStep := n / slowTarget
	if slowStep < 1 {
		slowStep = 1
	}
	for i := fastStep / 2; i < n && len(out) < target; i += slowStep {
		out = append(out, records[i])
	}
	return out
}
