// Package clt runs parallel sampling workers over the materialized leaf
// sequence and stops early once the sample's margin of error under the
// Central Limit Theorem drops below a threshold.
package clt

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"

	"ApproxDB/types"

	"go.uber.org/zap"
)

// Config tunes one controller run. Zero tuning values fall back to the
// engine defaults; a zero SamplePercent is not defaulted and yields an empty
// INSUFFICIENT_DATA result.
type Config struct {
	SamplePercent   float64
	NumThreads      int
	ConfidenceLevel float64
	CheckInterval   int
	MaxErrorPercent float64
	Seed            int64

	// Validate adds a slow stride-1 worker that cross-checks the running
	// mean and may also raise the stop flag.
	Validate bool

	// Stop, when set, lets the caller abort the run; workers poll it at
	// every emission.
	Stop *atomic.Bool

	Logger *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.NumThreads < 1 {
		c.NumThreads = 4
	}
	if c.ConfidenceLevel == 0 {
		c.ConfidenceLevel = 0.95
	}
	if c.CheckInterval < 1 {
		c.CheckInterval = 10
	}
	if c.MaxErrorPercent == 0 {
		c.MaxErrorPercent = 2.0
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// minSamplesForCheck is the floor below which the CLT criterion is not
// trusted; minSamplesForStop gates the actual early exit.
const (
	minSamplesForCheck = 30
	minSamplesForStop  = 50
)

// Result is the merged outcome of one controller run. Samples is an
// unordered multiset; callers must not assume global id order.
type Result struct {
	Samples     []types.Record
	Status      types.ApproximationStatus
	SamplesUsed int
	// ErrorMargin is the last observed relative margin of error, percent.
	ErrorMargin float64
}

// workerRange is one contiguous partition of the record address space.
type workerRange struct{ start, end int }

// partition cuts n into count near-equal contiguous ranges; the last range
// absorbs the remainder.
func partition(n, count int) []workerRange {
	ranges := make([]workerRange, 0, count)
	size := n / count
	for t := 0; t < count; t++ {
		start := t * size
		end := start + size
		if t == count-1 {
			end = n
		}
		ranges = append(ranges, workerRange{start, end})
	}
	return ranges
}

// randomStart picks the stride start inside a bounded prefix of the range:
// uniform in [start, start+min(len/10, 100)).
func randomStart(rng *rand.Rand, r workerRange) int {
	bound := (r.end - r.start) / 10
	if bound > 100 {
		bound = 100
	}
	if bound < 1 {
		return r.start
	}
	return r.start + rng.Intn(bound)
}

// Sample partitions records across cfg.NumThreads workers, each stride
// sampling its own range at percent/NumThreads with a random start, and
// terminates early when any materializing worker's CLT margin falls under
// cfg.MaxErrorPercent. If early termination leaves fewer than a quarter of
// the global target, a final systematic pass tops the sample up.
func Sample(records []types.Record, cfg Config) Result {
	cfg = cfg.withDefaults()
	n := len(records)
	if n == 0 || cfg.SamplePercent <= 0 {
		return Result{Status: types.StatusInsufficientData}
	}
	if cfg.SamplePercent >= 100 {
		out := make([]types.Record, n)
		copy(out, records)
		return Result{Samples: out, Status: types.StatusStable, SamplesUsed: n}
	}

	globalTarget := int(float64(n) * cfg.SamplePercent / 100.0)
	if globalTarget == 0 {
		return Result{Status: types.StatusInsufficientData}
	}

	stop := cfg.Stop
	if stop == nil {
		stop = &atomic.Bool{}
	}
	var (
		globalMeanBits atomic.Uint64
		globalCount    atomic.Int64
		lastMargin     atomic.Uint64
	)
	lastMargin.Store(math.Float64bits(math.Inf(1)))

	z := ZScore(cfg.ConfidenceLevel)
	perWorkerPercent := cfg.SamplePercent / float64(cfg.NumThreads)
	ranges := partition(n, cfg.NumThreads)

	var (
		mu      sync.Mutex
		merged  []types.Record
		wg      sync.WaitGroup
	)

	for t, r := range ranges {
		wg.Add(1)
		go func(t int, r workerRange) {
			defer wg.Done()
			local := sampleRange(records, r, perWorkerPercent, cfg, int64(t), z, stop,
				&globalMeanBits, &globalCount, &lastMargin)
			mu.Lock()
			merged = append(merged, local...)
			mu.Unlock()
		}(t, r)
	}

	if cfg.Validate {
		wg.Add(1)
		go func() {
			defer wg.Done()
			validateRange(records, ranges[0], cfg, z, globalTarget, stop, &globalMeanBits, &globalCount)
		}()
	}

	wg.Wait()

	status := types.StatusStable
	if len(merged) < globalTarget/4 {
		// Stopped too early; top up with a systematic pass.
		additional := globalTarget / 4
		if additional < 1 {
			additional = 1
		}
		step := n / additional
		if step < 1 {
			step = 1
		}
		for i := 0; i < n && len(merged) < globalTarget; i += step {
			merged = append(merged, records[i])
		}
	}
	if len(merged) == 0 {
		merged = fallbackSystematic(records, globalTarget)
		status = types.StatusInsufficientData
	}
	if len(merged) > globalTarget {
		merged = merged[:globalTarget]
	}

	cfg.Logger.Debug("clt sample complete",
		zap.Int("samples", len(merged)),
		zap.Int("target", globalTarget),
		zap.Bool("early_stop", stop.Load()),
	)
	return Result{
		Samples:     merged,
		Status:      status,
		SamplesUsed: len(merged),
		ErrorMargin: math.Float64frombits(lastMargin.Load()),
	}
}

// sampleRange is the per-worker loop: stride sampling with a random start,
// CLT convergence checks every CheckInterval emissions.
func sampleRange(records []types.Record, r workerRange, percent float64, cfg Config,
	worker int64, z float64, stop *atomic.Bool,
	globalMeanBits *atomic.Uint64, globalCount *atomic.Int64, lastMargin *atomic.Uint64) []types.Record {

	size := r.end - r.start
	target := int(float64(size) * percent / 100.0)
	if target == 0 {
		return nil
	}
	stride := size / target
	if stride < 1 {
		stride = 1
	}

	rng := rand.New(rand.NewSource(cfg.Seed + worker))
	start := randomStart(rng, r)

	local := make([]types.Record, 0, target)
	var stats runningStats
	reported := 0
	for i := start; i < r.end && len(local) < target; i += stride {
		if stop.Load() {
			break
		}
		local = append(local, records[i])
		stats.add(records[i].Amount)

		if len(local)%cfg.CheckInterval == 0 && stats.n >= minSamplesForCheck {
			globalMeanBits.Store(math.Float64bits(stats.mean))
			globalCount.Add(int64(stats.n - reported))
			reported = stats.n

			margin := stats.marginPercent(z)
			lastMargin.Store(math.Float64bits(margin))
			if margin <= cfg.MaxErrorPercent && stats.n >= minSamplesForStop {
				stop.Store(true)
				break
			}
		}
	}
	return local
}

// validateRange walks its range at stride 1 and, at twice the usual
// frequency, checks agreement with the running mean most recently published
// by a sampling worker (one worker's mean, not a mean pooled across
// workers). It raises the stop flag only once the count reported by all
// workers together has reached half the global target.
func validateRange(records []types.Record, r workerRange, cfg Config, z float64,
	globalTarget int, stop *atomic.Bool,
	globalMeanBits *atomic.Uint64, globalCount *atomic.Int64) {

	interval := cfg.CheckInterval / 2
	if interval < 1 {
		interval = 1
	}

	var stats runningStats
	for i := r.start; i < r.end; i++ {
		if stop.Load() {
			return
		}
		stats.add(records[i].Amount)

		if stats.n%interval == 0 && stats.n >= minSamplesForCheck/2 {
			globalMean := math.Float64frombits(globalMeanBits.Load())
			if globalMean == 0 {
				continue
			}
			diff := math.Abs(stats.mean-globalMean) / math.Abs(globalMean)
			if diff <= cfg.MaxErrorPercent/100.0 && globalCount.Load() >= int64(globalTarget)/2 {
				stop.Store(true)
				return
			}
		}
	}
}

// fallbackSystematic is the single-threaded recovery path used when the
// merged sample comes back empty.
func fallbackSystematic(records []types.Record, target int) []types.Record {
	n := len(records)
	if n == 0 || target == 0 {
		return nil
	}
	step := n / target
	if step < 1 {
		step = 1
	}
	out := make([]types.Record, 0, target)
	for i := 0; i < n && len(out) < target; i += step {
		out = append(out, records[i])
	}
	return out
}
