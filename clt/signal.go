package clt

import (
	"sync/atomic"
	"time"

	"ApproxDB/types"
)

// Reference bounds on the coordination step. They are fixed: SignalSample
// takes no Config and reads no caller stop flag. Callers needing different
// budgets run Sample under their own timer and use Config.Stop.
const (
	fastWait = 500 * time.Millisecond
	slowWait = 100 * time.Millisecond
)

// SignalSample coordinates one fast and one slow worker through a single
// atomic stop flag instead of sleep polling, and bounds the wait on each.
// The fast worker strides at roughly double the sampling rate's step; the
// slow worker walks at stride 1 as a validator, capped at a quarter of the
// target. On timeout the flag is raised and whatever was collected is
// returned, with Status reporting DRIFTING (fast path timed out) or
// INSUFFICIENT_DATA (not enough samples survived).
func SignalSample(records []types.Record, percent float64, checkInterval int) Result {
	n := len(records)
	if n == 0 || percent <= 0 {
		return Result{Status: types.StatusInsufficientData}
	}
	if checkInterval < 1 {
		checkInterval = 10
	}

	target := int(float64(n) * percent / 100.0)
	if target == 0 {
		return Result{Status: types.StatusInsufficientData}
	}

	var (
		stop  atomic.Bool
		total atomic.Int64
	)

	fastCh := make(chan []types.Record, 1)
	go func() {
		step := 2 * n / target
		if step < 2 {
			step = 2
		}
		local := make([]types.Record, 0, target)
		for i := 0; i < n && len(local) < target; i += step {
			if stop.Load() {
				break
			}
			local = append(local, records[i])
			total.Add(1)

			if len(local)%checkInterval == 0 && total.Load() >= int64(target)/2 {
				stop.Store(true)
				break
			}
		}
		fastCh <- local
	}()

	slowCh := make(chan []types.Record, 1)
	go func() {
		local := make([]types.Record, 0, target/4+1)
		for i := 0; i < n && len(local) < target/4; i++ {
			if stop.Load() {
				break
			}
			local = append(local, records[i])
		}
		slowCh <- local
	}()

	status := types.StatusStable
	var fastSamples, slowSamples []types.Record

	select {
	case fastSamples = <-fastCh:
	case <-time.After(fastWait):
		stop.Store(true)
		status = types.StatusDrifting
		select {
		case fastSamples = <-fastCh:
		case <-time.After(slowWait):
		}
	}

	select {
	case slowSamples = <-slowCh:
	case <-time.After(slowWait):
		stop.Store(true)
	}

	merged := make([]types.Record, 0, len(fastSamples)+len(slowSamples))
	merged = append(merged, fastSamples...)
	merged = append(merged, slowSamples...)
	if len(merged) > target {
		merged = merged[:target]
	}
	if len(merged) < target/4 && status == types.StatusStable {
		status = types.StatusInsufficientData
	}

	return Result{Samples: merged, Status: status, SamplesUsed: len(merged)}
}
