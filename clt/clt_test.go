package clt

import (
	"math"
	"math/rand"
	"sync/atomic"
	"testing"

	"ApproxDB/types"
)

// uniformRecords draws amounts uniformly in [0, 100). Periodic amounts
// would alias against the stride grid and say nothing about the estimator.
func uniformRecords(n int) []types.Record {
	rng := rand.New(rand.NewSource(1))
	records := make([]types.Record, n)
	for i := range records {
		records[i] = types.Record{
			ID:     int64(i + 1),
			Amount: rng.Float64() * 100,
			Region: int32(i % 4),
		}
	}
	return records
}

func TestPartition(t *testing.T) {
	ranges := partition(1003, 4)
	if len(ranges) != 4 {
		t.Fatalf("got %d ranges", len(ranges))
	}
	covered := 0
	for i, r := range ranges {
		if i > 0 && r.start != ranges[i-1].end {
			t.Errorf("range %d does not start where %d ends", i, i-1)
		}
		covered += r.end - r.start
	}
	if covered != 1003 {
		t.Errorf("ranges cover %d of 1003", covered)
	}
	if ranges[3].end != 1003 {
		t.Errorf("last range must absorb the remainder, ends at %d", ranges[3].end)
	}
}

func TestRunningStats(t *testing.T) {
	var s runningStats
	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.add(x)
	}
	if math.Abs(s.mean-5.0) > 1e-9 {
		t.Errorf("mean = %f, want 5", s.mean)
	}
	// Unbiased variance of the classic sequence is 32/7.
	if math.Abs(s.variance()-32.0/7.0) > 1e-9 {
		t.Errorf("variance = %f, want %f", s.variance(), 32.0/7.0)
	}
}

func TestZScore(t *testing.T) {
	cases := []struct {
		conf float64
		want float64
	}{
		{0.99, 2.576},
		{0.95, 1.96},
		{0.90, 1.645},
		{0.50, 1.645},
	}
	for _, c := range cases {
		if got := ZScore(c.conf); got != c.want {
			t.Errorf("ZScore(%v) = %v, want %v", c.conf, got, c.want)
		}
	}
}

func TestSampleProducesEstimate(t *testing.T) {
	records := uniformRecords(400000)
	exact := 0.0
	for i := range records {
		exact += records[i].Amount
	}

	res := Sample(records, Config{
		SamplePercent: 10,
		NumThreads:    4,
		Seed:          42,
	})
	if res.Status != types.StatusStable {
		t.Fatalf("status = %v", res.Status)
	}
	if len(res.Samples) == 0 {
		t.Fatal("empty sample")
	}
	target := 40000
	if len(res.Samples) > target {
		t.Fatalf("sample size %d exceeds target %d", len(res.Samples), target)
	}

	sum := 0.0
	for i := range res.Samples {
		sum += res.Samples[i].Amount
	}
	estimate := sum * float64(len(records)) / float64(len(res.Samples))
	if relErr := math.Abs(estimate-exact) / exact; relErr > 0.05 {
		t.Errorf("relative error %f too large (estimate %f, exact %f)", relErr, estimate, exact)
	}
}

func TestSampleWithValidator(t *testing.T) {
	records := uniformRecords(200000)
	res := Sample(records, Config{
		SamplePercent: 10,
		NumThreads:    4,
		Validate:      true,
		Seed:          7,
	})
	if res.Status != types.StatusStable {
		t.Fatalf("status = %v", res.Status)
	}
	if len(res.Samples) == 0 {
		t.Fatal("validator run produced no samples")
	}
}

func TestSampleEmptyAndEdges(t *testing.T) {
	if res := Sample(nil, Config{SamplePercent: 10}); res.Status != types.StatusInsufficientData {
		t.Errorf("empty input status = %v", res.Status)
	}
	records := uniformRecords(1000)
	if res := Sample(records, Config{SamplePercent: 0}); res.Status != types.StatusInsufficientData {
		t.Errorf("zero percent status = %v", res.Status)
	}
	res := Sample(records, Config{SamplePercent: 100})
	if len(res.Samples) != 1000 {
		t.Errorf("full rate returned %d samples", len(res.Samples))
	}
}

func TestSampleHonorsCallerStop(t *testing.T) {
	records := uniformRecords(100000)
	var stop atomic.Bool
	stop.Store(true)

	res := Sample(records, Config{SamplePercent: 10, NumThreads: 4, Stop: &stop})
	// With the flag pre-set every worker exits immediately; the controller
	// must still return a usable (topped-up) result.
	if len(res.Samples) == 0 {
		t.Fatal("cancelled run returned nothing at all")
	}
	if len(res.Samples) > 10000 {
		t.Fatalf("cancelled run returned %d samples", len(res.Samples))
	}
}

func TestDirectSum(t *testing.T) {
	records := uniformRecords(400000)
	exact := 0.0
	for i := range records {
		exact += records[i].Amount
	}

	sum, count := DirectSum(records, Config{SamplePercent: 10, NumThreads: 4, Seed: 42})
	if count == 0 {
		t.Fatal("direct sum sampled nothing")
	}
	estimate := sum * float64(len(records)) / float64(count)
	if relErr := math.Abs(estimate-exact) / exact; relErr > 0.05 {
		t.Errorf("relative error %f (estimate %f, exact %f)", relErr, estimate, exact)
	}
}

func TestDirectSumEmpty(t *testing.T) {
	if sum, count := DirectSum(nil, Config{SamplePercent: 10}); sum != 0 || count != 0 {
		t.Errorf("empty input gave sum=%f count=%d", sum, count)
	}
}

func TestSignalSample(t *testing.T) {
	records := uniformRecords(100000)

	res := SignalSample(records, 10, 10)
	if len(res.Samples) == 0 {
		t.Fatal("signal sample returned nothing")
	}
	if len(res.Samples) > 10000 {
		t.Fatalf("signal sample size %d over target", len(res.Samples))
	}
	if res.Status != types.StatusStable && res.Status != types.StatusDrifting {
		t.Errorf("unexpected status %v", res.Status)
	}
}

func TestSignalSampleEmpty(t *testing.T) {
	if res := SignalSample(nil, 10, 10); res.Status != types.StatusInsufficientData {
		t.Errorf("empty input status = %v", res.Status)
	}
}
