package sampling

import (
	"math/rand"

	"ApproxDB/types"
)

// recordStride converts an optional byte stride to a record stride; with no
// byte stride it derives one from the target. Always at least 1.
func recordStride(n, target int, strideBytes int) int {
	var stride int
	if strideBytes > 0 {
		stride = strideBytes / types.RecordSize
	} else {
		stride = n / target
	}
	if stride < 1 {
		stride = 1
	}
	return stride
}

// Stride is the cache-friendly linear scan: emit records at fixed index
// intervals starting from 0. strideBytes, when non-zero, is converted to a
// record stride via the record size.
func Stride(records []types.Record, percent float64, strideBytes int) []types.Record {
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

	stride := recordStride(n, target, strideBytes)
	out := make([]types.Record, 0, target)
	for i := 0; i < n && len(out) < target; i += stride {
		out = append(out, records[i])
	}
	return out
}

// RandomStartStride strides from a seeded random offset inside [0, stride),
// which keeps the first moment unbiased without changing the variance of
// the aggregate.
func RandomStartStride(records []types.Record, percent float64, strideBytes int, seed int64) []types.Record {
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

	stride := recordStride(n, target, strideBytes)
	rng := rand.New(rand.NewSource(seed))
	start := rng.Intn(stride)

	out := make([]types.Record, 0, target)
	for i := start; i < n && len(out) < target; i += stride {
		out = append(out, records[i])
	}
	return out
}
