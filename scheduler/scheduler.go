// Package scheduler is the stable outward API of the engine: database
// lifecycle, inserts, approximate and exact query execution, and the
// benchmark path. Query methods never return an error across the boundary;
// the ValidationResult status encodes the failure class.
package scheduler

import (
	"fmt"
	"time"

	bplus "ApproxDB/bplustree"
	"ApproxDB/config"
	"ApproxDB/metrics"
	executor "ApproxDB/query_executor"
	"ApproxDB/query_parser/parser"
	"ApproxDB/types"

	"go.uber.org/zap"
)

type Scheduler struct {
	tree    *bplus.BPlusTree
	planner *executor.Planner
	cache   *resultCache
	cfg     config.EngineConfig
	logger  *zap.Logger
}

// New builds a scheduler owning exactly one tree.
func New(cfg *config.Config, logger *zap.Logger) (*Scheduler, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := newResultCache()
	if err != nil {
		return nil, fmt.Errorf("scheduler: result cache: %w", err)
	}
	tree := bplus.New(logger)
	return &Scheduler{
		tree:    tree,
		planner: executor.New(tree, logger),
		cache:   cache,
		cfg:     cfg.Engine,
		logger:  logger,
	}, nil
}

// CreateDatabase resets the store and pins path as the snapshot flushed on
// close.
func (s *Scheduler) CreateDatabase(path string) {
	s.tree.Create(path)
}

// OpenDatabase rebuilds the store from a snapshot.
func (s *Scheduler) OpenDatabase(path string) error {
	if err := s.tree.Open(path); err != nil {
		return err
	}
	metrics.RecordsTotal.Set(float64(s.tree.TotalRecords()))
	return nil
}

// CloseDatabase flushes the snapshot (if a path was set) and releases the
// result cache.
func (s *Scheduler) CloseDatabase() error {
	err := s.tree.Close()
	s.cache.close()
	return err
}

func (s *Scheduler) InsertRecord(id int64, amount float64, region, productID int32, timestamp int64) {
	s.tree.Insert(types.Record{
		ID:        id,
		Amount:    amount,
		Region:    region,
		ProductID: productID,
		Timestamp: timestamp,
	})
	metrics.RecordsTotal.Set(float64(s.tree.TotalRecords()))
}

func (s *Scheduler) InsertBatch(records []types.Record) {
	s.tree.InsertBatch(records)
	metrics.RecordsTotal.Set(float64(s.tree.TotalRecords()))
}

func (s *Scheduler) ExecuteSumQuery(query string, samplePercent float64, numThreads int) types.ValidationResult {
	return s.execute(types.AggSum, query, samplePercent, numThreads, "")
}

func (s *Scheduler) ExecuteAvgQuery(query string, samplePercent float64, numThreads int) types.ValidationResult {
	return s.execute(types.AggAvg, query, samplePercent, numThreads, "")
}

func (s *Scheduler) ExecuteCountQuery(query string, samplePercent float64, numThreads int) types.ValidationResult {
	return s.execute(types.AggCount, query, samplePercent, numThreads, "")
}

// ExecuteSumWhereQuery approximates SUM over the inclusive amount range.
func (s *Scheduler) ExecuteSumWhereQuery(lo, hi, samplePercent float64, numThreads int) types.ValidationResult {
	q := &types.Query{
		Agg:    types.AggSum,
		Column: "amount",
		Table:  "t",
		Where:  &types.AmountBounds{Lo: lo, Hi: hi},
	}
	return s.run(q, samplePercent, numThreads, "")
}

// ExecuteQuery parses sql and routes by its aggregate. Parse failures are
// genuine caller errors and are returned as such.
func (s *Scheduler) ExecuteQuery(sql string, samplePercent float64, numThreads int) (types.ValidationResult, error) {
	q, err := parser.Parse(sql)
	if err != nil {
		return types.ValidationResult{Status: types.StatusError}, err
	}
	if q.GroupBy != "" {
		return types.ValidationResult{Status: types.StatusError},
			fmt.Errorf("%w: grouped queries go through ExecuteGroupByQuery", types.ErrInvalidArgument)
	}
	return s.run(q, samplePercent, numThreads, ""), nil
}

// ExecuteGroupByQuery runs one estimate per distinct group key.
func (s *Scheduler) ExecuteGroupByQuery(sql string, samplePercent float64, numThreads int) (types.GroupResultWithCI, error) {
	q, err := parser.Parse(sql)
	if err != nil {
		return nil, err
	}
	if q.GroupBy == "" {
		return nil, fmt.Errorf("%w: no GROUP BY column found", types.ErrInvalidArgument)
	}
	return s.planner.RunGroupBy(q, s.options(samplePercent, numThreads, ""))
}

// execute parses the query text for a WHERE clause the engine understands,
// forcing the aggregate of the calling method the way the original bindings
// do, then runs the planner.
func (s *Scheduler) execute(agg types.AggKind, query string, samplePercent float64, numThreads int, strategy executor.Strategy) types.ValidationResult {
	q := &types.Query{Agg: agg, Column: "amount", Table: "t"}
	if agg == types.AggCount {
		q.Column = "*"
	}
	if parsed, err := parser.Parse(query); err == nil {
		q.Table = parsed.Table
		q.Where = parsed.Where
		q.RawWhere = parsed.RawWhere
		if agg == types.AggCount && parsed.Column != "" {
			q.Column = parsed.Column
		}
	}
	return s.run(q, samplePercent, numThreads, strategy)
}

func (s *Scheduler) options(samplePercent float64, numThreads int, strategy executor.Strategy) executor.Options {
	if numThreads < 1 {
		numThreads = s.cfg.NumThreads
	}
	return executor.Options{
		SamplePercent:   samplePercent,
		NumThreads:      numThreads,
		ConfidenceLevel: s.cfg.ConfidenceLevel,
		CheckInterval:   s.cfg.CheckInterval,
		MaxErrorPercent: s.cfg.MaxErrorPercent,
		Seed:            s.cfg.Seed,
		Strategy:        strategy,
	}
}

func (s *Scheduler) run(q *types.Query, samplePercent float64, numThreads int, strategy executor.Strategy) types.ValidationResult {
	start := time.Now()
	mode := "approximate"
	if samplePercent == 0 {
		mode = "exact"
	}

	res, err := s.planner.Run(q, s.options(samplePercent, numThreads, strategy))
	elapsed := time.Since(start)

	metrics.QueriesTotal.WithLabelValues(string(q.Agg), mode).Inc()
	metrics.QueryDuration.WithLabelValues(string(q.Agg), mode).Observe(elapsed.Seconds())

	if err != nil {
		s.logger.Error("query failed",
			zap.String("agg", string(q.Agg)),
			zap.Error(err),
		)
		return types.ValidationResult{
			Status:          types.StatusError,
			ErrorMargin:     100.0,
			ComputationTime: elapsed,
		}
	}

	// The facade reports the nominal sample size, the way the original
	// bindings did; the planner's realized count feeds the histogram.
	nominal := int(float64(s.tree.TotalRecords()) * samplePercent / 100.0)
	if samplePercent == 0 {
		nominal = int(s.tree.TotalRecords())
	}
	metrics.SamplesUsed.Observe(float64(res.SamplesUsed))

	return types.ValidationResult{
		Value:           res.CI.Value,
		Status:          res.Status,
		ConfidenceLevel: confidenceLevel(float64(nominal)),
		ErrorMargin:     (res.CI.Upper - res.CI.Lower) / 2,
		SamplesUsed:     nominal,
		ComputationTime: elapsed,
	}
}

// Exact queries for benchmarking. Values are served from the result cache
// when the tree has not changed since they were computed.

func (s *Scheduler) ExecuteExactSum() types.ValidationResult {
	return s.exact(types.AggSum, "", func() float64 { return s.tree.SumAmount() })
}

func (s *Scheduler) ExecuteExactAvg() types.ValidationResult {
	return s.exact(types.AggAvg, "", func() float64 { return s.tree.AvgAmount() })
}

func (s *Scheduler) ExecuteExactCount() types.ValidationResult {
	return s.exact(types.AggCount, "", func() float64 { return float64(s.tree.CountRecords()) })
}

// ExecuteExactSumWhere is the exact reference for ranged sums.
func (s *Scheduler) ExecuteExactSumWhere(lo, hi float64) types.ValidationResult {
	detail := fmt.Sprintf(":%g:%g", lo, hi)
	return s.exact(types.AggSum, detail, func() float64 { return s.tree.SumAmountWhere(lo, hi) })
}

func (s *Scheduler) exact(agg types.AggKind, detail string, compute func() float64) types.ValidationResult {
	start := time.Now()
	key := fmt.Sprintf("exact:%s%s:v%d", agg, detail, s.tree.Version())

	value, hit := s.cache.get(key)
	if !hit {
		value = compute()
		s.cache.set(key, value)
	}

	elapsed := time.Since(start)
	metrics.QueriesTotal.WithLabelValues(string(agg), "exact").Inc()
	metrics.QueryDuration.WithLabelValues(string(agg), "exact").Observe(elapsed.Seconds())

	return types.ValidationResult{
		Value:           value,
		Status:          types.StatusStable,
		ConfidenceLevel: 1.0,
		ErrorMargin:     0.0,
		SamplesUsed:     int(s.tree.TotalRecords()),
		ComputationTime: elapsed,
	}
}

func (s *Scheduler) GetTotalRecords() uint64 { return s.tree.TotalRecords() }
func (s *Scheduler) GetTreeHeight() uint64   { return s.tree.TreeHeight() }

func (s *Scheduler) GetDatabaseSizeMB() float64 {
	return s.tree.SizeMB()
}

// confidenceLevel is a monotone step function of sample size.
func confidenceLevel(sampleSize float64) float64 {
	switch {
	case sampleSize >= 1000:
		return 0.95
	case sampleSize >= 500:
		return 0.90
	case sampleSize >= 100:
		return 0.85
	case sampleSize >= 50:
		return 0.80
	default:
		return 0.70
	}
}
