package dependent

import (
	"fmt"
	"slices"

	"github.com/AnatoleLucet/dependent/internal"
)

type Node[T any] struct {
	node *internal.Node
}

func (n *Node[T]) ID() ID { return n.node.ID() }

// Value returns the node's current value.
// The value is shared with dependents and must not be mutated.
func (n *Node[T]) Value() T {
	return as[T](n.node.Value())
}

// Previous returns the value the node had before its last recomputation.
// ok is false until the node has been recomputed at least once.
func (n *Node[T]) Previous() (value T, ok bool) {
	v, ok := n.node.Previous()
	return as[T](v), ok
}

// RootActionTypes returns every action type that can trigger this node,
// directly or through its dependencies.
func (n *Node[T]) RootActionTypes() []string {
	return n.node.RootTypes()
}

// Select reads the node's value from a composite state.
// Returns the zero value if the node has no name or the state lacks it.
func (n *Node[T]) Select(state State) T {
	name, ok := n.node.Name()
	if !ok {
		var zero T
		return zero
	}

	return as[T](state[name])
}

// In reads the node's value from the inputs of a dependent node.
// Panics if the node is not a dependency of the node being computed.
func (n *Node[T]) In(in Inputs) T {
	i := slices.Index(in.ids, n.ID())
	if i < 0 {
		panic(fmt.Sprintf("dependent: node %d is not an input", n.ID()))
	}

	return as[T](in.values[i])
}

func (n *Node[T]) dependency() internal.Dependency {
	if n == nil {
		return internal.NodeDependency(nil)
	}
	return internal.NodeDependency(n.node)
}

func (n *Node[T]) handle() *internal.Node {
	if n == nil {
		return nil
	}
	return n.node
}

// Inputs holds the values of a node's dependencies, in declared order.
type Inputs struct {
	ids    []ID
	values []any
}

func (in Inputs) Len() int { return len(in.values) }

// Input reads the i-th input of a node.
func Input[T any](in Inputs, i int) T {
	return as[T](in.values[i])
}
