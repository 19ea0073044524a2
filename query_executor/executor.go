// Package executor plans aggregate queries: it routes between the exact
// tree path and the sampling strategies, then scales partial results into
// final estimates with optional confidence intervals.
package executor

import (
	"fmt"
	"strings"

	bplus "ApproxDB/bplustree"
	"ApproxDB/clt"
	"ApproxDB/sampling"
	"ApproxDB/types"

	"go.uber.org/zap"
)

// Strategy names a sampling strategy from the library. The zero value
// dispatches to the CLT controller (multithreaded stride).
type Strategy string

const (
	StrategyCLT               Strategy = "clt"
	StrategySystematic        Strategy = "systematic"
	StrategyFast              Strategy = "fast"
	StrategyDual              Strategy = "dual"
	StrategyRandom            Strategy = "random"
	StrategyBlock             Strategy = "block"
	StrategyPage              Strategy = "page"
	StrategyParallelBlock     Strategy = "parallel-block"
	StrategyStratifiedBlock   Strategy = "stratified-block"
	StrategyAdaptiveBlock     Strategy = "adaptive-block"
	StrategyIndexProportional Strategy = "index-proportional"
	StrategyBalancedTree      Strategy = "balanced-tree"
	StrategyNodeSkip          Strategy = "node-skip"
	StrategyStride            Strategy = "stride"
	StrategyRandomStartStride Strategy = "random-start-stride"
	StrategySignal            Strategy = "signal"
	StrategyDirect            Strategy = "direct-aggregated-stride"
)

// Options tunes a single planner run.
type Options struct {
	SamplePercent   float64
	NumThreads      int
	ConfidenceLevel float64
	CheckInterval   int
	MaxErrorPercent float64
	Seed            int64
	Strategy        Strategy
	Sampling        sampling.Options
}

func (o Options) withDefaults() Options {
	if o.NumThreads < 1 {
		o.NumThreads = 4
	}
	if o.ConfidenceLevel == 0 {
		o.ConfidenceLevel = 0.95
	}
	if o.CheckInterval == 0 {
		o.CheckInterval = 10
	}
	if o.MaxErrorPercent == 0 {
		o.MaxErrorPercent = 2.0
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	if o.Strategy == "" {
		o.Strategy = StrategyCLT
	}
	if o.Sampling == (sampling.Options{}) {
		o.Sampling = sampling.DefaultOptions()
	}
	return o
}

// Result is one planned execution: the estimate with its interval, how many
// samples backed it and the status the controller reported.
type Result struct {
	CI          types.ConfidenceInterval
	SamplesUsed int
	Status      types.ApproximationStatus
}

type Planner struct {
	tree   *bplus.BPlusTree
	logger *zap.Logger
}

func New(tree *bplus.BPlusTree, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{tree: tree, logger: logger}
}

// Run executes one non-grouped query. SamplePercent of zero selects the
// exact path; anything else samples and scales.
func (pl *Planner) Run(q *types.Query, opts Options) (Result, error) {
	opts = opts.withDefaults()
	if err := validate(q, opts); err != nil {
		return Result{Status: types.StatusError}, err
	}

	if opts.SamplePercent == 0 {
		return pl.runExact(q), nil
	}

	total := int(pl.tree.TotalRecords())
	if total == 0 {
		return Result{Status: types.StatusInsufficientData}, nil
	}

	if opts.Strategy == StrategyDirect {
		return pl.runDirect(q, opts)
	}

	samples, status, err := pl.drawSample(opts)
	if err != nil {
		return Result{Status: types.StatusError}, err
	}
	if len(samples) == 0 {
		return Result{Status: types.StatusInsufficientData}, nil
	}

	res := reduce(q, samples, total, opts.ConfidenceLevel)
	if status != types.StatusStable {
		res.Status = status
	}
	return res, nil
}

func validate(q *types.Query, opts Options) error {
	switch q.Agg {
	case types.AggSum, types.AggAvg:
		if !strings.EqualFold(q.Column, "amount") {
			return fmt.Errorf("%w: %s over column %q (only amount carries values)",
				types.ErrInvalidArgument, q.Agg, q.Column)
		}
	case types.AggCount:
		if q.Column == "" {
			return fmt.Errorf("%w: empty COUNT column", types.ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("%w: unsupported aggregate %q", types.ErrInvalidArgument, q.Agg)
	}
	if opts.SamplePercent < 0 || opts.SamplePercent > 100 {
		return fmt.Errorf("%w: sample percent %v out of range", types.ErrInvalidArgument, opts.SamplePercent)
	}
	if opts.Strategy == StrategyDirect && q.Agg != types.AggSum {
		return fmt.Errorf("%w: direct aggregation only supports SUM", types.ErrInvalidArgument)
	}
	return nil
}

// runExact walks every record. The interval is degenerate by definition.
func (pl *Planner) runExact(q *types.Query) Result {
	total := int(pl.tree.TotalRecords())
	var value float64

	switch q.Agg {
	case types.AggSum:
		if q.Where != nil {
			value = pl.tree.SumAmountWhere(q.Where.Lo, q.Where.Hi)
		} else {
			value = pl.tree.SumAmount()
		}
	case types.AggCount:
		if q.Where != nil {
			value = float64(pl.tree.CountWhere(q.Where.Lo, q.Where.Hi))
		} else {
			value = float64(pl.tree.CountRecords())
		}
	case types.AggAvg:
		if q.Where != nil {
			count := pl.tree.CountWhere(q.Where.Lo, q.Where.Hi)
			if count > 0 {
				value = pl.tree.SumAmountWhere(q.Where.Lo, q.Where.Hi) / float64(count)
			}
		} else {
			value = pl.tree.AvgAmount()
		}
	}

	return Result{
		CI:          types.ConfidenceInterval{Value: value, Lower: value, Upper: value},
		SamplesUsed: total,
		Status:      types.StatusStable,
	}
}

// runDirect is the hot path: sum during traversal, no sample vector.
func (pl *Planner) runDirect(q *types.Query, opts Options) (Result, error) {
	if q.Where != nil {
		return Result{Status: types.StatusError},
			fmt.Errorf("%w: direct aggregation does not evaluate predicates", types.ErrInvalidArgument)
	}
	records := pl.tree.Materialize()
	sum, count := clt.DirectSum(records, clt.Config{
		SamplePercent: opts.SamplePercent,
		NumThreads:    opts.NumThreads,
		Seed:          opts.Seed,
		Logger:        pl.logger,
	})
	if count == 0 {
		return Result{Status: types.StatusInsufficientData}, nil
	}
	value := sum * float64(len(records)) / float64(count)
	return Result{
		CI:          types.ConfidenceInterval{Value: value, Lower: value, Upper: value},
		SamplesUsed: int(count),
		Status:      types.StatusStable,
	}, nil
}

// drawSample materializes the leaf sequence and runs the selected strategy.
func (pl *Planner) drawSample(opts Options) ([]types.Record, types.ApproximationStatus, error) {
	records := pl.tree.Materialize()
	p := opts.SamplePercent

	switch opts.Strategy {
	case StrategyCLT:
		res := clt.Sample(records, clt.Config{
			SamplePercent:   p,
			NumThreads:      opts.NumThreads,
			ConfidenceLevel: opts.ConfidenceLevel,
			CheckInterval:   opts.CheckInterval,
			MaxErrorPercent: opts.MaxErrorPercent,
			Seed:            opts.Seed,
			Logger:          pl.logger,
		})
		return res.Samples, res.Status, nil
	case StrategySignal:
		res := clt.SignalSample(records, p, opts.CheckInterval)
		return res.Samples, res.Status, nil
	case StrategySystematic:
		return sampling.Systematic(records, p, opts.Seed), types.StatusStable, nil
	case StrategyFast:
		return sampling.Fast(records, p, opts.Sampling.StepFactor), types.StatusStable, nil
	case StrategyDual:
		return sampling.Dual(records, p), types.StatusStable, nil
	case StrategyRandom:
		return sampling.Random(records, p, opts.Seed), types.StatusStable, nil
	case StrategyStride:
		return sampling.Stride(records, p, 0), types.StatusStable, nil
	case StrategyRandomStartStride:
		return sampling.RandomStartStride(records, p, 0, opts.Seed), types.StatusStable, nil
	case StrategyBlock:
		s, err := sampling.Block(records, p, opts.Sampling.BlockSize)
		return s, types.StatusStable, err
	case StrategyPage:
		s, err := sampling.Page(records, p, opts.Sampling.PageSize)
		return s, types.StatusStable, err
	case StrategyParallelBlock:
		s, err := sampling.ParallelBlock(records, p, opts.Sampling.BlockSize, opts.NumThreads)
		return s, types.StatusStable, err
	case StrategyStratifiedBlock:
		s, err := sampling.StratifiedBlock(records, p, opts.Sampling.BlockSize, opts.Sampling.StrataCount)
		return s, types.StatusStable, err
	case StrategyAdaptiveBlock:
		s := sampling.AdaptiveBlock(records, p, opts.Sampling.MinBlockSize, opts.Sampling.MaxBlockSize)
		return s, types.StatusStable, nil
	case StrategyIndexProportional:
		return pl.tree.IndexProportionalSample(p), types.StatusStable, nil
	case StrategyBalancedTree:
		return pl.tree.BalancedTreeSample(p), types.StatusStable, nil
	case StrategyNodeSkip:
		return pl.tree.NodeSkipSample(p, 2), types.StatusStable, nil
	default:
		return nil, types.StatusError,
			fmt.Errorf("%w: unknown strategy %q", types.ErrInvalidArgument, opts.Strategy)
	}
}
