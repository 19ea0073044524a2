// Structure of the B+ tree record store
/*
Tree
 ├── Internal Node (separator keys + child pointers)
 │      └── Child Internal Nodes ...
 │             └── Leaf Nodes (keys + records + next pointer)

- keys: sorted ascending by record id
- internal nodes: children length == len(keys)+1
- leaf nodes: records length == len(keys), aligned 1:1
- leaf nodes linked with `next` for fast in-order scans
- every node carries the record count of its subtree (refreshed explicitly)
*/
package bplus

import (
	"sync"

	"ApproxDB/types"

	"go.uber.org/zap"
)

type NodeType int

const (
	NodeInternal NodeType = iota
	NodeLeaf
)

// MaxKeys is the tree order. A node reaching MaxKeys keys is split.
const MaxKeys = 255

type Node struct {
	nodeType NodeType
	keys     []int64
	records  []types.Record // leaf nodes only
	children []*Node        // internal nodes only
	next     *Node          // leaf chain; forward link, never an owner

	subtreeCount uint64 // records below this node, valid after UpdateSubtreeCounts
}

func (n *Node) isLeaf() bool { return n.nodeType == NodeLeaf }

type BPlusTree struct {
	root         *Node
	totalRecords uint64
	height       uint64
	dbPath       string // snapshot target written on Close

	// version bumps on every mutation; readers key caches off it
	version uint64

	// cached is the in-order materialization of the leaf chain, rebuilt
	// lazily and invalidated on insert. Read-only once published.
	cached      []types.Record
	cachedValid bool

	logger *zap.Logger
	mu     sync.RWMutex
}
