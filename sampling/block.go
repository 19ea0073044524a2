package sampling

import (
	"fmt"
	"sync"

	"ApproxDB/types"
)

// Block selects every interval-th block of blockSize records and emits all
// records in the chosen blocks. blockSize must be positive.
func Block(records []types.Record, percent float64, blockSize int) ([]types.Record, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: block size %d", types.ErrInvalidArgument, blockSize)
	}
	n := len(records)
	if n == 0 || percent <= 0 {
		return nil, nil
	}
	if percent >= 100 {
		return copyAll(records), nil
	}
	target := targetCount(n, percent)
	if target == 0 {
		return nil, nil
	}

	totalBlocks := (n + blockSize - 1) / blockSize
	blocksToSample := int(float64(totalBlocks)*percent/100.0 + 0.999999)
	if blocksToSample < 1 {
		blocksToSample = 1
	}
	interval := totalBlocks / blocksToSample
	if interval < 1 {
		interval = 1
	}

	out := make([]types.Record, 0, target)
	for b := 0; b < totalBlocks && len(out) < target; b += interval {
		start := b * blockSize
		end := start + blockSize
		if end > n {
			end = n
		}
		for i := start; i < end && len(out) < target; i++ {
			out = append(out, records[i])
		}
	}
	return out, nil
}

// Page is Block with the block size derived from page bytes over the record
// size.
func Page(records []types.Record, percent float64, pageSize int) ([]types.Record, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: page size %d", types.ErrInvalidArgument, pageSize)
	}
	perPage := pageSize / types.RecordSize
	if perPage < 1 {
		perPage = 1
	}
	return Block(records, percent, perPage)
}

// ParallelBlock divides the chosen blocks among numThreads workers and
// merges their output after all complete.
func ParallelBlock(records []types.Record, percent float64, blockSize, numThreads int) ([]types.Record, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: block size %d", types.ErrInvalidArgument, blockSize)
	}
	n := len(records)
	if n == 0 || percent <= 0 {
		return nil, nil
	}
	if percent >= 100 {
		return copyAll(records), nil
	}
	target := targetCount(n, percent)
	if target == 0 {
		return nil, nil
	}
	if numThreads < 1 {
		numThreads = 1
	}

	totalBlocks := (n + blockSize - 1) / blockSize
	blocksToSample := int(float64(totalBlocks) * percent / 100.0)
	if blocksToSample < 1 {
		blocksToSample = 1
	}
	interval := totalBlocks / blocksToSample
	if interval < 1 {
		interval = 1
	}
	perThread := blocksToSample / numThreads
	if perThread < 1 {
		perThread = 1
	}
	threadTarget := target / numThreads
	if threadTarget < 1 {
		threadTarget = 1
	}

	results := make([][]types.Record, numThreads)
	var wg sync.WaitGroup
	for t := 0; t < numThreads; t++ {
		wg.Add(1)
		go func(t int) {
			defer wg.Done()
			local := make([]types.Record, 0, threadTarget)
			startBlock := t * perThread
			endBlock := startBlock + perThread
			if endBlock > blocksToSample {
				endBlock = blocksToSample
			}
			for b := startBlock; b < endBlock && len(local) < threadTarget; b++ {
				start := b * interval * blockSize
				if start >= n {
					break
				}
				end := start + blockSize
				if end > n {
					end = n
				}
				for i := start; i < end && len(local) < threadTarget; i++ {
					local = append(local, records[i])
				}
			}
			results[t] = local
		}(t)
	}
	wg.Wait()

	out := make([]types.Record, 0, target)
	for _, local := range results {
		out = append(out, local...)
	}
	if len(out) > target {
		out = out[:target]
	}
	return out, nil
}
