package clt

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"

	"ApproxDB/types"
)

// DirectSum is the hot path: the same partitioned stride traversal as
// Sample, but no sample vector is materialized. Each worker keeps a local
// sum and count, then folds both into shared accumulators — compare-and-swap
// on the float bits for the sum, fetch-add for the count. The caller applies
// scaling.
func DirectSum(records []types.Record, cfg Config) (sum float64, count int64) {
	cfg = cfg.withDefaults()
	n := len(records)
	if n == 0 || cfg.SamplePercent <= 0 {
		return 0, 0
	}

	percent := cfg.SamplePercent
	if percent > 100 {
		percent = 100
	}
	perWorkerPercent := percent / float64(cfg.NumThreads)
	ranges := partition(n, cfg.NumThreads)

	var (
		sumBits    atomic.Uint64
		totalCount atomic.Int64
		wg         sync.WaitGroup
	)

	for t, r := range ranges {
		wg.Add(1)
		go func(t int, r workerRange) {
			defer wg.Done()

			size := r.end - r.start
			target := int(float64(size) * perWorkerPercent / 100.0)
			if target == 0 {
				return
			}
			stride := size / target
			if stride < 1 {
				stride = 1
			}

			rng := rand.New(rand.NewSource(cfg.Seed + int64(t)))
			start := randomStart(rng, r)

			localSum := 0.0
			localCount := int64(0)
			for i := start; i < r.end && localCount < int64(target); i += stride {
				if cfg.Stop != nil && cfg.Stop.Load() {
					break
				}
				localSum += records[i].Amount
				localCount++
			}

			for {
				old := sumBits.Load()
				next := math.Float64bits(math.Float64frombits(old) + localSum)
				if sumBits.CompareAndSwap(old, next) {
					break
				}
			}
			totalCount.Add(localCount)
		}(t, r)
	}
	wg.Wait()

	count = totalCount.Load()
	if count == 0 {
		return 0, 0
	}
	return math.Float64frombits(sumBits.Load()), count
}
