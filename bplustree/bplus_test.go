package bplus

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"ApproxDB/types"
)

func buildTree(t *testing.T, n int) *BPlusTree {
	t.Helper()
	tree := New(nil)
	records := make([]types.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, types.Record{
			ID:        int64(i + 1),
			Amount:    float64((i % 100) + 1),
			Region:    int32(i % 4),
			ProductID: int32(i % 10),
			Timestamp: int64(1700000000 + i),
		})
	}
	tree.InsertBatch(records)
	return tree
}

func TestInsertKeepsLeafOrder(t *testing.T) {
	tree := New(nil)

	// Insert out of order to force the lower-bound path.
	ids := []int64{50, 10, 90, 30, 70, 20, 80, 40, 60, 100}
	for _, id := range ids {
		tree.Insert(types.Record{ID: id, Amount: float64(id)})
	}

	records := tree.CollectLeafRecords()
	if len(records) != len(ids) {
		t.Fatalf("expected %d records, got %d", len(ids), len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].ID <= records[i-1].ID {
			t.Fatalf("leaf order broken at %d: %d after %d", i, records[i].ID, records[i-1].ID)
		}
	}
}

func TestInsertManySplitsAndHeight(t *testing.T) {
	tree := buildTree(t, 100000)

	if got := tree.TotalRecords(); got != 100000 {
		t.Fatalf("total records = %d, want 100000", got)
	}
	if h := tree.TreeHeight(); h < 2 {
		t.Errorf("expected tree to grow beyond a single leaf, height = %d", h)
	}

	records := tree.CollectLeafRecords()
	if len(records) != 100000 {
		t.Fatalf("leaf chain returned %d records, want 100000", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].ID <= records[i-1].ID {
			t.Fatalf("leaf chain out of order at index %d", i)
		}
	}
}

func TestRandomInsertOrder(t *testing.T) {
	tree := New(nil)
	rng := rand.New(rand.NewSource(7))

	n := 20000
	perm := rng.Perm(n)
	for _, p := range perm {
		tree.Insert(types.Record{ID: int64(p + 1), Amount: float64(p)})
	}

	records := tree.CollectLeafRecords()
	if len(records) != n {
		t.Fatalf("got %d records, want %d", len(records), n)
	}
	for i := range records {
		if records[i].ID != int64(i+1) {
			t.Fatalf("position %d holds id %d", i, records[i].ID)
		}
	}
}

func TestSearchRange(t *testing.T) {
	tree := buildTree(t, 10000)

	got := tree.SearchRange(100, 199)
	if len(got) != 100 {
		t.Fatalf("range [100,199] returned %d records, want 100", len(got))
	}
	if got[0].ID != 100 || got[len(got)-1].ID != 199 {
		t.Errorf("range bounds wrong: first %d last %d", got[0].ID, got[len(got)-1].ID)
	}

	if got := tree.SearchRange(20000, 30000); len(got) != 0 {
		t.Errorf("out-of-range search returned %d records", len(got))
	}
}

func TestSubtreeCounts(t *testing.T) {
	tree := buildTree(t, 50000)

	tree.UpdateSubtreeCounts()
	if got := tree.RootSubtreeCount(); got != 50000 {
		t.Fatalf("root subtree count = %d, want 50000", got)
	}

	tree.Insert(types.Record{ID: 50001, Amount: 1})
	tree.UpdateSubtreeCounts()
	if got := tree.RootSubtreeCount(); got != 50001 {
		t.Fatalf("root subtree count after insert = %d, want 50001", got)
	}
}

func TestExactAggregates(t *testing.T) {
	tree := buildTree(t, 10000)

	// amount = (i % 100) + 1 over 10000 records: 100 full cycles of 1..100.
	wantSum := 100.0 * (100.0 * 101.0 / 2.0)
	if got := tree.SumAmount(); got != wantSum {
		t.Errorf("SumAmount = %f, want %f", got, wantSum)
	}
	if got := tree.AvgAmount(); got != wantSum/10000.0 {
		t.Errorf("AvgAmount = %f, want %f", got, wantSum/10000.0)
	}
	if got := tree.CountRecords(); got != 10000 {
		t.Errorf("CountRecords = %d, want 10000", got)
	}

	// amounts > 50: values 51..100, 100 cycles, sum(51..100) = 3775.
	wantWhere := 100.0 * 3775.0
	if got := tree.SumAmountWhere(50.5, 1e18); got != wantWhere {
		t.Errorf("SumAmountWhere = %f, want %f", got, wantWhere)
	}
	if got := tree.CountWhere(50.5, 1e18); got != 5000 {
		t.Errorf("CountWhere = %d, want 5000", got)
	}
}

func TestMaterializeInvalidation(t *testing.T) {
	tree := buildTree(t, 1000)

	first := tree.Materialize()
	if len(first) != 1000 {
		t.Fatalf("materialized %d records, want 1000", len(first))
	}

	v := tree.Version()
	tree.Insert(types.Record{ID: 5000, Amount: 1})
	if tree.Version() == v {
		t.Fatal("version did not bump on insert")
	}

	second := tree.Materialize()
	if len(second) != 1001 {
		t.Fatalf("materialized %d records after insert, want 1001", len(second))
	}
	// The first snapshot must be untouched.
	if len(first) != 1000 {
		t.Fatalf("published snapshot mutated, len = %d", len(first))
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.aqe")

	tree := buildTree(t, 1000)
	if err := tree.SaveToFile(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := New(nil)
	if err := loaded.LoadFromFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := loaded.TotalRecords(); got != 1000 {
		t.Fatalf("loaded %d records, want 1000", got)
	}

	want := tree.CollectLeafRecords()
	got := loaded.CollectLeafRecords()
	if len(want) != len(got) {
		t.Fatalf("record count mismatch: %d vs %d", len(want), len(got))
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("record %d differs after round trip: %+v vs %+v", i, want[i], got[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	tree := New(nil)
	if err := tree.LoadFromFile(filepath.Join(os.TempDir(), "does-not-exist.aqe")); err == nil {
		t.Fatal("expected error loading a missing snapshot")
	}
}

func TestCloseFlushesSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "close.aqe")

	tree := New(nil)
	tree.Create(path)
	tree.Insert(types.Record{ID: 1, Amount: 10})
	tree.Insert(types.Record{ID: 2, Amount: 20})
	if err := tree.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	loaded := New(nil)
	if err := loaded.Open(path); err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := loaded.TotalRecords(); got != 2 {
		t.Fatalf("reopened tree has %d records, want 2", got)
	}
}

func TestProportionalSamples(t *testing.T) {
	tree := buildTree(t, 20000)

	for _, percent := range []float64{1, 5, 10} {
		target := int(20000 * percent / 100)

		s := tree.IndexProportionalSample(percent)
		if len(s) == 0 || len(s) > target+1 {
			t.Errorf("IndexProportionalSample(%v) size %d, target %d", percent, len(s), target)
		}

		b := tree.BalancedTreeSample(percent)
		if len(b) == 0 || len(b) > target+1 {
			t.Errorf("BalancedTreeSample(%v) size %d, target %d", percent, len(b), target)
		}
	}

	if s := tree.IndexProportionalSample(100); len(s) != 20000 {
		t.Errorf("full-rate sample returned %d records", len(s))
	}
	if s := tree.IndexProportionalSample(0); len(s) != 0 {
		t.Errorf("zero-rate sample returned %d records", len(s))
	}
}

func TestNodeSkipSample(t *testing.T) {
	tree := buildTree(t, 20000)

	s := tree.NodeSkipSample(10, 2)
	target := 2000
	if len(s) == 0 || len(s) > target {
		t.Errorf("NodeSkipSample size %d, target %d", len(s), target)
	}

	if s := tree.NodeSkipSample(0, 2); len(s) != 0 {
		t.Errorf("zero-rate node skip returned %d records", len(s))
	}
}

func TestEmptyTree(t *testing.T) {
	tree := New(nil)

	if got := tree.CollectLeafRecords(); len(got) != 0 {
		t.Errorf("empty tree returned %d records", len(got))
	}
	if got := tree.SumAmount(); got != 0 {
		t.Errorf("empty SumAmount = %f", got)
	}
	if got := tree.AvgAmount(); got != 0 {
		t.Errorf("empty AvgAmount = %f", got)
	}
	if s := tree.IndexProportionalSample(10); len(s) != 0 {
		t.Errorf("empty tree sample returned %d records", len(s))
	}
}
