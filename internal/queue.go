package internal

// NodeQueue holds the nodes that staged a value during the current dispatch.
type NodeQueue struct {
	nodes []*Node
}

func NewNodeQueue() *NodeQueue {
	return &NodeQueue{
		nodes: make([]*Node, 0),
	}
}

func (q *NodeQueue) Enqueue(node *Node) {
	q.nodes = append(q.nodes, node)
}

func (q *NodeQueue) Len() int {
	return len(q.nodes)
}

// Commit applies every staged value
func (q *NodeQueue) Commit() {
	for _, node := range q.nodes {
		node.Commit()
	}

	q.nodes = q.nodes[:0]
}

// Rollback drops every staged value
func (q *NodeQueue) Rollback() {
	for _, node := range q.nodes {
		node.Discard()
	}

	q.nodes = q.nodes[:0]
}
