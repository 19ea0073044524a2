package sampling

import (
	"math/rand"
	"sort"

	"ApproxDB/types"
)

// Random draws target distinct indices uniformly and emits their records in
// increasing index order. Identical input and seed produce an identical
// sample.
func Random(records []types.Record, percent float64, seed int64) []types.Record {
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

	rng := rand.New(rand.NewSource(seed))
	picked := make(map[int]struct{}, target)
	for len(picked) < target {
		picked[rng.Intn(n)] = struct{}{}
	}

	indices := make([]int, 0, target)
	for i := range picked {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	out := make([]types.Record, 0, target)
	for _, i := range indices {
		out = append(out, records[i])
	}
	return out
}
