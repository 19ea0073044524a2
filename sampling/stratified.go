package sampling

import (
	"fmt"
	"sort"

	"ApproxDB/types"
)

// StratifiedBlock stably sorts a copy of the sequence by amount, slices it
// into strataCount equal strata and block-samples inside each one. Cuts
// variance under heavy-tailed amounts.
func StratifiedBlock(records []types.Record, percent float64, blockSize, strataCount int) ([]types.Record, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: block size %d", types.ErrInvalidArgument, blockSize)
	}
	if strataCount < 1 {
		strataCount = 1
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

	sorted := copyAll(records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Amount < sorted[j].Amount })

	stratumSize := n / strataCount
	perStratum := target / strataCount
	if perStratum < 1 {
		perStratum = 1
	}

	out := make([]types.Record, 0, target)
	for s := 0; s < strataCount && len(out) < target; s++ {
		start := s * stratumSize
		end := start + stratumSize
		if s == strataCount-1 {
			end = n
		}
		stratum := sorted[start:end]

		blocks := (len(stratum) + blockSize - 1) / blockSize
		toSample := int(float64(blocks) * percent / 100.0)
		if toSample < 1 {
			toSample = 1
		}
		interval := blocks / toSample
		if interval < 1 {
			interval = 1
		}

		taken := 0
		for b := 0; b < blocks && taken < perStratum && len(out) < target; b += interval {
			bs := b * blockSize
			be := bs + blockSize
			if be > len(stratum) {
				be = len(stratum)
			}
			for i := bs; i < be && taken < perStratum && len(out) < target; i++ {
				out = append(out, stratum[i])
				taken++
			}
		}
	}
	return out, nil
}
