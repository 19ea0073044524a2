package bplus

import (
	"math"

	"ApproxDB/types"
)

// Tree-structure sampling. These strategies walk the tree itself instead of
// the flat leaf sequence, distributing the sample budget by subtree record
// counts. Preferred when the tree is unbalanced.

// IndexProportionalSample refreshes subtree counts, then draws from each
// subtree in proportion to its share of the parent's count, striding evenly
// inside each leaf. Proportional shares round to nearest.
func (t *BPlusTree) IndexProportionalSample(percent float64) []types.Record {
	return t.proportionalSample(percent, func(x float64) uint64 {
		return uint64(math.Round(x))
	})
}

// BalancedTreeSample distributes the budget exactly like
// IndexProportionalSample but rounds shares via floor.
func (t *BPlusTree) BalancedTreeSample(percent float64) []types.Record {
	return t.proportionalSample(percent, func(x float64) uint64 {
		return uint64(x)
	})
}

func (t *BPlusTree) proportionalSample(percent float64, round func(float64) uint64) []types.Record {
	if percent <= 0 {
		return nil
	}
	if percent >= 100 {
		return t.CollectLeafRecords()
	}

	t.UpdateSubtreeCounts()
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := t.root.subtreeCount
	target := int(float64(total) * percent / 100.0)
	if target == 0 {
		return nil
	}

	out := make([]types.Record, 0, target)
	var walk func(n *Node, quota uint64)
	walk = func(n *Node, quota uint64) {
		if quota == 0 || len(out) >= target {
			return
		}
		if n.isLeaf() {
			take := int(quota)
			if take > len(n.records) {
				take = len(n.records)
			}
			if take == 0 {
				return
			}
			step := float64(len(n.records)) / float64(take)
			for i := 0; i < take && len(out) < target; i++ {
				out = append(out, n.records[int(float64(i)*step)])
			}
			return
		}
		for _, c := range n.children {
			if c.subtreeCount == 0 {
				continue
			}
			share := round(float64(quota) * float64(c.subtreeCount) / float64(n.subtreeCount))
			walk(c, share)
			if len(out) >= target {
				return
			}
		}
	}
	walk(t.root, uint64(target))
	return out
}

// NodeSkipSample takes every skipFactor-th leaf whole, capped at the target.
// Fast when the requested rate is close to 1/skipFactor.
func (t *BPlusTree) NodeSkipSample(percent float64, skipFactor int) []types.Record {
	if percent <= 0 {
		return nil
	}
	if percent >= 100 {
		return t.CollectLeafRecords()
	}
	if skipFactor < 1 {
		skipFactor = 1
	}

	t.UpdateSubtreeCounts()
	t.mu.RLock()
	defer t.mu.RUnlock()

	target := int(float64(t.root.subtreeCount) * percent / 100.0)
	if target == 0 {
		return nil
	}

	out := make([]types.Record, 0, target)
	leafIndex := 0
	for leaf := t.leftmostLeaf(); leaf != nil && len(out) < target; leaf = leaf.next {
		leafIndex++
		if leafIndex%skipFactor != 0 {
			continue
		}
		take := target - len(out)
		if take > len(leaf.records) {
			take = len(leaf.records)
		}
		out = append(out, leaf.records[:take]...)
	}
	return out
}
