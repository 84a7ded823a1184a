package internal

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

type Container struct {
	logger *slog.Logger

	// every registered node, indexed by id
	nodes []*Node

	// nodes triggered by each action type, in registration order.
	// a node only depends on nodes registered before it, so each bucket is topologically sorted
	byType map[string][]*Node

	// set once by Combine
	names    map[ID]string
	initial  State
	combined bool

	queue *NodeQueue
	guard *dispatchGuard
}

func NewContainer(logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.Default()
	}

	return &Container{
		logger: logger,
		nodes:  make([]*Node, 0),
		byType: make(map[string][]*Node),
		queue:  NewNodeQueue(),
		guard:  &dispatchGuard{},
	}
}

// NewNode registers a node and indexes it under each of its root types.
func (c *Container) NewNode(deps []Dependency, reduce ReduceFunc, initial any) (*Node, error) {
	n, err := newNode(c, ID(len(c.nodes)), deps, reduce, initial)
	if err != nil {
		return nil, err
	}

	c.nodes = append(c.nodes, n)
	for _, t := range n.rootTypes {
		c.byType[t] = append(c.byType[t], n)
	}

	c.logger.Debug("registered node", "id", n.id, "root_types", n.rootTypes, "inputs", len(n.deps))

	return n, nil
}

// Nodes returns the nodes triggered by the given action type, in execution order.
func (c *Container) Nodes(actionType string) []*Node {
	return slices.Clone(c.byType[actionType])
}

// Combine seals the container and returns its transition function.
// Any call after a successful one fails with ErrAlreadyCombined.
// A shape rejected by validation never seals the container, since no
// name mapping was established, so a corrected shape can still be combined.
func (c *Container) Combine(shape map[string]*Node) (func(State, Action) (State, error), error) {
	if c.combined {
		return nil, ErrAlreadyCombined
	}

	names := make(map[ID]string, len(shape))
	for _, name := range slices.Sorted(maps.Keys(shape)) {
		n := shape[name]
		switch {
		case name == "":
			return nil, fmt.Errorf("%w: empty name", ErrInvalidShape)
		case n == nil:
			return nil, fmt.Errorf("%w: %q is a nil node", ErrInvalidShape, name)
		case n.container != c:
			return nil, fmt.Errorf("%w: %q belongs to another container", ErrInvalidShape, name)
		}
		if other, dup := names[n.id]; dup {
			return nil, fmt.Errorf("%w: node %d is named both %q and %q", ErrInvalidShape, n.id, other, name)
		}
		names[n.id] = name
	}

	initial := make(State, len(names))
	for _, n := range c.nodes {
		if name, ok := names[n.id]; ok {
			initial[name] = n.Value()
		}
	}

	c.names = names
	c.initial = initial
	c.combined = true

	c.logger.Debug("combined container", "names", len(names), "nodes", len(c.nodes), "action_types", len(c.byType))

	return c.dispatch, nil
}

// dispatch runs every node triggered by the action and commits their values
// only once the whole bucket succeeded. On error the input state is returned.
func (c *Container) dispatch(state State, action Action) (State, error) {
	if err := c.guard.enter(); err != nil {
		return state, err
	}
	defer c.guard.exit()

	if state == nil {
		state = c.initial
	}

	bucket, ok := c.byType[action.Type]
	if !ok {
		return state, nil
	}

	// a panicking reduce function must not leave values staged
	defer func() {
		if c.queue.Len() > 0 {
			c.queue.Rollback()
		}
	}()

	next := state
	for _, n := range bucket {
		if err := n.run(action, c.queue); err != nil {
			c.queue.Rollback()

			name := c.names[n.id]
			c.logger.Debug("node computation failed",
				"id", n.id, "name", name, "action_type", action.Type, "error", err)

			return state, &ComputeError{NodeID: n.id, Name: name, ActionType: action.Type, Err: err}
		}

		if name, ok := c.names[n.id]; ok {
			next = maps.Clone(next)
			next[name] = n.Value()
		}
	}

	c.queue.Commit()

	return next, nil
}
