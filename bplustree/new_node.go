package bplus

import "ApproxDB/types"

// newNode creates a node of the given type and returns its pointer

func newNode(nodeType NodeType) *Node {
	n := &Node{
		nodeType: nodeType,
		keys:     make([]int64, 0, MaxKeys+1),
	}
	if nodeType == NodeInternal {
		n.children = make([]*Node, 0, MaxKeys+2)
	} else {
		n.records = make([]types.Record, 0, MaxKeys+1)
	}
	return n
}
