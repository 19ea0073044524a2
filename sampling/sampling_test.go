package sampling

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"ApproxDB/types"
)

func makeRecords(n int) []types.Record {
	records := make([]types.Record, n)
	for i := range records {
		records[i] = types.Record{
			ID:        int64(i + 1),
			Amount:    float64((i % 100) + 1),
			Region:    int32(i % 4),
			ProductID: int32(i % 10),
		}
	}
	return records
}

func TestSizeBounds(t *testing.T) {
	records := makeRecords(50000)

	cases := []struct {
		name string
		run  func(percent float64) []types.Record
	}{
		{"systematic", func(p float64) []types.Record { return Systematic(records, p, 42) }},
		{"fast", func(p float64) []types.Record { return Fast(records, p, 2) }},
		{"dual", func(p float64) []types.Record { return Dual(records, p) }},
		{"random", func(p float64) []types.Record { return Random(records, p, 42) }},
		{"stride", func(p float64) []types.Record { return Stride(records, p, 0) }},
		{"randomStartStride", func(p float64) []types.Record { return RandomStartStride(records, p, 0, 42) }},
		{"adaptive", func(p float64) []types.Record { return AdaptiveBlock(records, p, 500, 2000) }},
		{"block", func(p float64) []types.Record {
			s, err := Block(records, p, 1000)
			if err != nil {
				t.Fatalf("block: %v", err)
			}
			return s
		}},
		{"page", func(p float64) []types.Record {
			s, err := Page(records, p, 4096)
			if err != nil {
				t.Fatalf("page: %v", err)
			}
			return s
		}},
		{"stratified", func(p float64) []types.Record {
			s, err := StratifiedBlock(records, p, 1000, 4)
			if err != nil {
				t.Fatalf("stratified: %v", err)
			}
			return s
		}},
		{"parallelBlock", func(p float64) []types.Record {
			s, err := ParallelBlock(records, p, 1000, 4)
			if err != nil {
				t.Fatalf("parallel block: %v", err)
			}
			return s
		}},
	}

	for _, tc := range cases {
		for _, percent := range []float64{1, 5, 10, 25} {
			bound := int(math.Ceil(float64(len(records))*percent/100.0)) + 1
			s := tc.run(percent)
			if len(s) == 0 {
				t.Errorf("%s at %v%%: empty sample", tc.name, percent)
			}
			if len(s) > bound {
				t.Errorf("%s at %v%%: size %d exceeds bound %d", tc.name, percent, len(s), bound)
			}
		}
	}
}

func TestFullRateReturnsEverything(t *testing.T) {
	records := makeRecords(10000)

	full := [][]types.Record{
		Systematic(records, 100, 1),
		Random(records, 150, 1),
		Stride(records, 100, 0),
		AdaptiveBlock(records, 100, 500, 2000),
	}
	for i, s := range full {
		if len(s) != len(records) {
			t.Fatalf("case %d: full rate returned %d of %d", i, len(s), len(records))
		}
		for j := range s {
			if s[j] != records[j] {
				t.Fatalf("case %d: record %d differs", i, j)
			}
		}
	}
}

func TestEdgeRates(t *testing.T) {
	records := makeRecords(1000)

	if s := Systematic(records, 0, 1); len(s) != 0 {
		t.Errorf("zero percent returned %d", len(s))
	}
	if s := Systematic(records, -5, 1); len(s) != 0 {
		t.Errorf("negative percent returned %d", len(s))
	}
	if s := Systematic(nil, 10, 1); len(s) != 0 {
		t.Errorf("empty input returned %d", len(s))
	}
	// Target rounds to zero.
	if s := Stride(makeRecords(5), 1, 0); len(s) != 0 {
		t.Errorf("sub-record target returned %d", len(s))
	}
}

func TestRandomIsDeterministic(t *testing.T) {
	records := makeRecords(20000)

	a := Random(records, 10, 1234)
	b := Random(records, 10, 1234)
	if len(a) != len(b) {
		t.Fatalf("sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("samples diverge at %d", i)
		}
	}

	c := Random(records, 10, 99)
	same := len(a) == len(c)
	if same {
		identical := true
		for i := range a {
			if a[i] != c[i] {
				identical = false
				break
			}
		}
		if identical {
			t.Error("different seeds produced identical samples")
		}
	}
}

func TestRandomEmitsInIndexOrder(t *testing.T) {
	records := makeRecords(5000)
	s := Random(records, 10, 7)
	for i := 1; i < len(s); i++ {
		if s[i].ID <= s[i-1].ID {
			t.Fatalf("sample out of index order at %d", i)
		}
	}
}

func TestBlockRejectsZeroBlockSize(t *testing.T) {
	records := makeRecords(100)

	if _, err := Block(records, 10, 0); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("Block: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := Page(records, 10, 0); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("Page: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := StratifiedBlock(records, 10, -1, 4); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("StratifiedBlock: expected ErrInvalidArgument, got %v", err)
	}
}

func TestAdaptiveBlockZeroVariance(t *testing.T) {
	records := make([]types.Record, 10000)
	for i := range records {
		records[i] = types.Record{ID: int64(i + 1), Amount: 42}
	}

	s := AdaptiveBlock(records, 10, 500, 2000)
	if len(s) == 0 {
		t.Fatal("zero-variance input produced no sample")
	}
	target := 1000
	if len(s) > target+1 {
		t.Fatalf("zero-variance sample size %d over target %d", len(s), target)
	}
}

func TestStrideEstimateAccuracy(t *testing.T) {
	// Uniform amounts in [0, 1000]; the scaled stride-sample SUM must land
	// within 2% of the exact sum for the vast majority of seeds.
	n := 200000
	rng := rand.New(rand.NewSource(1))
	records := make([]types.Record, n)
	exact := 0.0
	for i := range records {
		a := rng.Float64() * 1000
		records[i] = types.Record{ID: int64(i + 1), Amount: a}
		exact += a
	}

	misses := 0
	seeds := 40
	for seed := 0; seed < seeds; seed++ {
		s := RandomStartStride(records, 10, 0, int64(seed))
		sum := 0.0
		for i := range s {
			sum += s[i].Amount
		}
		estimate := sum * float64(n) / float64(len(s))
		if relErr := math.Abs(estimate-exact) / exact; relErr > 0.02 {
			misses++
		}
	}
	if misses > seeds/20 {
		t.Errorf("stride estimate missed 2%% band %d/%d times", misses, seeds)
	}
}
