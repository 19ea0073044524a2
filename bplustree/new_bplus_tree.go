package bplus

import (
	"go.uber.org/zap"
)

// New returns an empty tree whose root is a leaf.
func New(logger *zap.Logger) *BPlusTree {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BPlusTree{
		root:   newNode(NodeLeaf),
		height: 1,
		logger: logger,
	}
}

// Create resets the tree to empty and remembers path as the snapshot target
// flushed on Close.
func (t *BPlusTree) Create(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.dbPath = path
	t.root = newNode(NodeLeaf)
	t.totalRecords = 0
	t.height = 1
	t.cached = nil
	t.cachedValid = false
	t.version++
	t.logger.Info("created database", zap.String("path", path))
}

// Open rebuilds the tree from a snapshot file.
func (t *BPlusTree) Open(path string) error {
	if err := t.LoadFromFile(path); err != nil {
		return err
	}
	t.mu.Lock()
	t.dbPath = path
	t.mu.Unlock()
	return nil
}

// Close flushes the tree to its snapshot path, if one was set.
func (t *BPlusTree) Close() error {
	t.mu.RLock()
	path := t.dbPath
	t.mu.RUnlock()
	if path == "" {
		return nil
	}
	return t.SaveToFile(path)
}
