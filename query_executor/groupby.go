package executor

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"ApproxDB/sampling"
	"ApproxDB/types"
)

// RunGroupBy evaluates the aggregate once per distinct group key. The key
// scan is exact so no group can be missed; only the per-group aggregate is
// approximated. The key set is partitioned across NumThreads workers and
// merged under a single mutex.
func (pl *Planner) RunGroupBy(q *types.Query, opts Options) (types.GroupResultWithCI, error) {
	opts = opts.withDefaults()
	if err := validate(q, opts); err != nil {
		return nil, err
	}

	keyOf, err := groupKeyFunc(q.GroupBy)
	if err != nil {
		return nil, err
	}

	records := pl.tree.Materialize()
	final := types.GroupResultWithCI{}
	if len(records) == 0 {
		return final, nil
	}

	// Exact scan: bucket every row under its key. WHERE applies inside the
	// per-group reduction, so a fully filtered group still reports zero.
	groups := map[int32][]types.Record{}
	for i := range records {
		k := keyOf(&records[i])
		groups[k] = append(groups[k], records[i])
	}
	keys := make([]int32, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	chunk := (len(keys) + opts.NumThreads - 1) / opts.NumThreads
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for t := 0; t < opts.NumThreads; t++ {
		start := t * chunk
		end := start + chunk
		if end > len(keys) {
			end = len(keys)
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(keys []int32, worker int) {
			defer wg.Done()
			for _, k := range keys {
				rows := groups[k]
				ci := pl.groupAggregate(q, rows, opts, int64(worker))
				mu.Lock()
				final[strconv.FormatInt(int64(k), 10)] = ci
				mu.Unlock()
			}
		}(keys[start:end], t)
	}
	wg.Wait()
	return final, nil
}

// groupAggregate runs one group's aggregate: exact when the rate is zero,
// otherwise sampled at the query's rate inside the group's rows.
func (pl *Planner) groupAggregate(q *types.Query, rows []types.Record, opts Options, worker int64) types.ConfidenceInterval {
	if opts.SamplePercent == 0 {
		res := reduce(q, rows, len(rows), opts.ConfidenceLevel)
		return degenerate(res.CI.Value)
	}

	samples := sampling.Systematic(rows, opts.SamplePercent, opts.Seed+worker)
	if len(samples) == 0 {
		// Group smaller than one sampling step; fall back to exact.
		res := reduce(q, rows, len(rows), opts.ConfidenceLevel)
		return degenerate(res.CI.Value)
	}
	return reduce(q, samples, len(rows), opts.ConfidenceLevel).CI
}

func groupKeyFunc(column string) (func(*types.Record) int32, error) {
	switch strings.ToLower(column) {
	case "region":
		return func(r *types.Record) int32 { return r.Region }, nil
	case "product_id":
		return func(r *types.Record) int32 { return r.ProductID }, nil
	default:
		return nil, fmt.Errorf("%w: cannot group by %q", types.ErrInvalidArgument, column)
	}
}
