package sampling

import "ApproxDB/types"

const adaptiveZones = 10

// AdaptiveBlock partitions the sequence into ten equal zones, measures the
// amount variance of each, and block-samples every zone with a block size
// interpolated between minBlock (highest variance) and maxBlock (lowest).
// When every zone has zero variance there is nothing to normalize by, so
// all zones fall back to the midpoint block size.
func AdaptiveBlock(records []types.Record, percent float64, minBlock, maxBlock int) []types.Record {
	n := len(records)
	if n == 0 || percent <= 0 {
		return nil
	}
	if percent >= 100 {
		return copyAll(records)
	}
	target := targetCount(n, percent)
	if target == 0 {
		return nil
	}
	if minBlock < 1 {
		minBlock = 1
	}
	if maxBlock < minBlock {
		maxBlock = minBlock
	}

	zoneSize := n / adaptiveZones
	if zoneSize < 1 {
		zoneSize = 1
	}

	variances := make([]float64, 0, adaptiveZones)
	maxVar := 0.0
	for z := 0; z < adaptiveZones; z++ {
		start := z * zoneSize
		if start >= n {
			break
		}
		end := start + zoneSize
		if end > n {
			end = n
		}
		sum, sumSq := 0.0, 0.0
		count := float64(end - start)
		for i := start; i < end; i++ {
			a := records[i].Amount
			sum += a
			sumSq += a * a
		}
		mean := sum / count
		v := sumSq/count - mean*mean
		if v < 0 {
			v = 0
		}
		variances = append(variances, v)
		if v > maxVar {
			maxVar = v
		}
	}

	out := make([]types.Record, 0, target)
	for z := 0; z < len(variances) && len(out) < target; z++ {
		start := z * zoneSize
		end := start + zoneSize
		if z == len(variances)-1 {
			end = n
		}

		var zoneBlock int
		if maxVar == 0 {
			zoneBlock = (minBlock + maxBlock) / 2
		} else {
			ratio := variances[z] / maxVar
			zoneBlock = minBlock + int(float64(maxBlock-minBlock)*(1.0-ratio))
		}
		if zoneBlock < 1 {
			zoneBlock = 1
		}

		for i := start; i < end && len(out) < target; i += zoneBlock {
			blockEnd := i + zoneBlock
			if blockEnd > end {
				blockEnd = end
			}
			take := int(float64(blockEnd-i) * percent / 100.0)
			if take < 1 {
				take = 1
			}
			for j := 0; j < take && i+j < blockEnd && len(out) < target; j++ {
				out = append(out, records[i+j])
			}
		}
	}
	return out
}
