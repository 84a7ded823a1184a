package internal

// dependencyKind tells whether a dependency is an action type or a node.
type dependencyKind int

const (
	kindAction dependencyKind = iota
	kindNode
)

// Dependency is either an action type or an upstream node.
// Action dependencies only contribute root types, node dependencies
// also become inputs of the dependent node.
type Dependency struct {
	kind dependencyKind

	actionType string
	node       *Node
}

func ActionDependency(actionType string) Dependency {
	return Dependency{kind: kindAction, actionType: actionType}
}

func NodeDependency(node *Node) Dependency {
	return Dependency{kind: kindNode, node: node}
}
