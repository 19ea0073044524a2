package bplus

import (
	"fmt"
	"sort"

	"ApproxDB/types"
)

// Insert adds one record, keyed by its id. Duplicate ids are allowed and
// land adjacent to each other in the leaf order.
func (t *BPlusTree) Insert(rec types.Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.insertLocked(rec)
}

// InsertBatch sorts records by id and inserts them sequentially. Observed
// state is identical to calling Insert for each record in sorted order.
func (t *BPlusTree) InsertBatch(records []types.Record) {
	sorted := make([]types.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, rec := range sorted {
		t.insertLocked(rec)
	}
}

func (t *BPlusTree) insertLocked(rec types.Record) {
	if t.insertInto(t.root, rec) {
		sep, sibling := t.root.split()
		newRoot := newNode(NodeInternal)
		newRoot.keys = append(newRoot.keys, sep)
		newRoot.children = append(newRoot.children, t.root, sibling)
		t.root = newRoot
		t.height++
	}
	t.totalRecords++
	t.cachedValid = false
	t.version++
}

// insertInto descends to the leaf for rec.id, inserts it in key order and
// splits full children on the way back up. Returns true when node itself
// reached MaxKeys and must be split by its parent (or by the root handler).
func (t *BPlusTree) insertInto(node *Node, rec types.Record) bool {
	if node.isLeaf() {
		i := sort.Search(len(node.keys), func(j int) bool { return node.keys[j] >= rec.ID })
		node.keys = append(node.keys, 0)
		copy(node.keys[i+1:], node.keys[i:])
		node.keys[i] = rec.ID
		node.records = append(node.records, types.Record{})
		copy(node.records[i+1:], node.records[i:])
		node.records[i] = rec
		return len(node.keys) >= MaxKeys
	}

	i := sort.Search(len(node.keys), func(j int) bool { return node.keys[j] > rec.ID })
	if t.insertInto(node.children[i], rec) {
		sep, sibling := node.children[i].split()
		node.keys = append(node.keys, 0)
		copy(node.keys[i+1:], node.keys[i:])
		node.keys[i] = sep
		node.children = append(node.children, nil)
		copy(node.children[i+2:], node.children[i+1:])
		node.children[i+1] = sibling
		if len(node.keys) > MaxKeys {
			panic(fmt.Sprintf("bplus: internal node overflow: %d keys", len(node.keys)))
		}
		return len(node.keys) >= MaxKeys
	}
	return false
}
