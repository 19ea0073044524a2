package bplus

// UpdateSubtreeCounts refreshes subtreeCount bottom-up over the whole tree.
// Counts may lag during bulk insertion; every sampler that reads them calls
// this first.
func (t *BPlusTree) UpdateSubtreeCounts() {
	t.mu.Lock()
	defer t.mu.Unlock()
	updateCounts(t.root)
}

func updateCounts(n *Node) uint64 {
	if n.isLeaf() {
		n.subtreeCount = uint64(len(n.keys))
		return n.subtreeCount
	}
	n.subtreeCount = 0
	for _, c := range n.children {
		n.subtreeCount += updateCounts(c)
	}
	return n.subtreeCount
}

// RootSubtreeCount returns the root's refreshed record count.
func (t *BPlusTree) RootSubtreeCount() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root.subtreeCount
}
