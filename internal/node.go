package internal

import (
	"fmt"
	"slices"
)

// ID identifies a node within its container, in registration order.
type ID int

// ReduceFunc computes a node's next value from its current value,
// the dispatched action and the values of its node dependencies.
type ReduceFunc func(prev any, action Action, inputs []any) (any, error)

type Node struct {
	id        ID
	container *Container

	// node dependencies, in declared order without duplicates
	deps []*Node

	// action types that can reach this node, in discovery order
	rootTypes []string

	reduce ReduceFunc

	value       any
	previous    any
	hasPrevious bool
	pending     *any // nil if nothing staged in the current dispatch
}

func newNode(c *Container, id ID, deps []Dependency, reduce ReduceFunc, initial any) (*Node, error) {
	if reduce == nil {
		return nil, fmt.Errorf("%w: reduce function is required", ErrInvalidNode)
	}

	n := &Node{
		id:        id,
		container: c,
		reduce:    reduce,
		value:     initial,
	}

	for i, dep := range deps {
		switch dep.kind {
		case kindAction:
			if dep.actionType == "" {
				return nil, fmt.Errorf("%w: dependency %d has an empty action type", ErrInvalidDependency, i)
			}
			n.addRootType(dep.actionType)
		case kindNode:
			if dep.node == nil {
				return nil, fmt.Errorf("%w: dependency %d is a nil node", ErrInvalidDependency, i)
			}
			if dep.node.container != c {
				return nil, fmt.Errorf("%w: dependency %d belongs to another container", ErrInvalidDependency, i)
			}
			for _, t := range dep.node.rootTypes {
				n.addRootType(t)
			}
			if !slices.Contains(n.deps, dep.node) {
				n.deps = append(n.deps, dep.node)
			}
		default:
			return nil, fmt.Errorf("%w: dependency %d has unknown kind %d", ErrInvalidDependency, i, dep.kind)
		}
	}

	return n, nil
}

func (n *Node) addRootType(t string) {
	if !slices.Contains(n.rootTypes, t) {
		n.rootTypes = append(n.rootTypes, t)
	}
}

func (n *Node) ID() ID { return n.id }

// RootTypes returns a copy of the action types that can trigger this node.
func (n *Node) RootTypes() []string { return slices.Clone(n.rootTypes) }

// DepIDs returns the ids of the node dependencies, in input order.
func (n *Node) DepIDs() []ID {
	ids := make([]ID, len(n.deps))
	for i, dep := range n.deps {
		ids[i] = dep.id
	}
	return ids
}

// Name returns the name the node was given at Combine, if any.
func (n *Node) Name() (string, bool) {
	name, ok := n.container.names[n.id]
	return name, ok
}

// Value returns the staged value during a dispatch, the committed one otherwise.
func (n *Node) Value() any {
	if n.pending != nil {
		return *n.pending
	}

	return n.value
}

func (n *Node) Previous() (any, bool) {
	return n.previous, n.hasPrevious
}

// run recomputes the node and stages the result. Nothing is staged on error.
func (n *Node) run(action Action, q *NodeQueue) error {
	inputs := make([]any, len(n.deps))
	for i, dep := range n.deps {
		inputs[i] = dep.Value()
	}

	next, err := n.reduce(n.value, action, inputs)
	if err != nil {
		return err
	}

	n.pending = &next
	q.Enqueue(n)
	return nil
}

// Commit applies the staged value to the node
func (n *Node) Commit() {
	if n.pending != nil {
		n.previous = n.value
		n.hasPrevious = true
		n.value = *n.pending
		n.pending = nil
	}
}

// Discard drops the staged value, if any
func (n *Node) Discard() {
	n.pending = nil
}
