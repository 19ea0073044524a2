package bplus

import (
	"sort"

	"ApproxDB/types"
)

// SearchRange returns all records with startID <= id <= endID in id order,
// walking the leaf chain from the first candidate leaf.
func (t *BPlusTree) SearchRange(startID, endID int64) []types.Record {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []types.Record
	leaf := t.findLeaf(startID)
	i := sort.Search(len(leaf.keys), func(j int) bool { return leaf.keys[j] >= startID })

	for leaf != nil {
		for ; i < len(leaf.keys); i++ {
			if leaf.keys[i] > endID {
				return out
			}
			out = append(out, leaf.records[i])
		}
		leaf = leaf.next
		i = 0
	}
	return out
}
