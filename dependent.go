// Package dependent computes derived state incrementally from dispatched actions.
//
// A Container holds nodes ("dependent reducers"). Each node declares the actions
// and the other nodes it depends on, and recomputes its value whenever an action
// that can reach it is dispatched. Combine flattens the nodes into a single
// Reducer usable by any (state, action) -> state store.
package dependent

import (
	"fmt"
	"log/slog"

	"github.com/AnatoleLucet/dependent/internal"
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

type (
	// Action is a dispatched occurrence with a type and a payload.
	Action = internal.Action

	// State maps the names given to Combine to node values.
	// It must be treated as read-only.
	State = internal.State

	// ID identifies a node within its container.
	ID = internal.ID

	// ComputeError reports a failing node during a dispatch.
	ComputeError = internal.ComputeError
)

var (
	ErrAlreadyCombined    = internal.ErrAlreadyCombined
	ErrInvalidShape       = internal.ErrInvalidShape
	ErrInvalidNode        = internal.ErrInvalidNode
	ErrInvalidDependency  = internal.ErrInvalidDependency
	ErrConcurrentDispatch = internal.ErrConcurrentDispatch
	ErrReentrantDispatch  = internal.ErrReentrantDispatch
)

// Reducer is the transition function produced by Combine.
// On error it returns the state it was given, unchanged.
type Reducer func(state State, action Action) (State, error)

// ReducerFunc computes a node's next value.
// prev is the node's current value, in holds the values of its node dependencies.
type ReducerFunc[T any] func(prev T, action Action, in Inputs) (T, error)

// Pure adapts a reduce function that cannot fail.
func Pure[T any](fn func(prev T, action Action, in Inputs) T) ReducerFunc[T] {
	return func(prev T, action Action, in Inputs) (T, error) {
		return fn(prev, action, in), nil
	}
}

type containerConfig struct {
	logger *slog.Logger
}

type Option func(*containerConfig)

// WithLogger sets the logger used for registration and dispatch diagnostics.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *containerConfig) { c.logger = logger }
}

type Container struct {
	container *internal.Container
}

// NewContainer creates an empty container.
func NewContainer(opts ...Option) *Container {
	cfg := containerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Container{
		internal.NewContainer(cfg.logger),
	}
}

type nodeConfig[T any] struct {
	initial T
}

type NodeOption[T any] func(*nodeConfig[T])

// WithInitial sets the value of the node before any action reached it.
// Without it the node starts at the zero value of T.
func WithInitial[T any](v T) NodeOption[T] {
	return func(c *nodeConfig[T]) { c.initial = v }
}

// NewNode registers a node in the container.
// Node dependencies must have been registered in the same container,
// which makes dependency cycles impossible to build.
func NewNode[T any](c *Container, deps []Dependency, fn ReducerFunc[T], opts ...NodeOption[T]) (*Node[T], error) {
	if c == nil {
		return nil, fmt.Errorf("%w: container is required", ErrInvalidNode)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: reduce function is required", ErrInvalidNode)
	}

	cfg := nodeConfig[T]{}
	for _, opt := range opts {
		opt(&cfg)
	}

	internalDeps := make([]internal.Dependency, len(deps))
	for i, dep := range deps {
		if dep == nil {
			return nil, fmt.Errorf("%w: dependency %d is nil", ErrInvalidDependency, i)
		}
		internalDeps[i] = dep.dependency()
	}

	// filled once the node knows its inputs
	var ids []ID

	node, err := c.container.NewNode(internalDeps, func(prev any, action Action, values []any) (any, error) {
		return fn(as[T](prev), action, Inputs{ids: ids, values: values})
	}, cfg.initial)
	if err != nil {
		return nil, err
	}
	ids = node.DepIDs()

	return &Node[T]{node}, nil
}

// MustNode is like NewNode but panics on error.
func MustNode[T any](c *Container, deps []Dependency, fn ReducerFunc[T], opts ...NodeOption[T]) *Node[T] {
	n, err := NewNode(c, deps, fn, opts...)
	if err != nil {
		panic(fmt.Sprintf("dependent: %v", err))
	}
	return n
}

// Handle is a node that can be placed in a Shape.
type Handle interface {
	handle() *internal.Node
}

// Shape names the nodes exposed in the composite state.
type Shape map[string]Handle

// Combine seals the container and returns its Reducer.
// It can only succeed once per container: every call after a successful one
// fails with ErrAlreadyCombined, whatever the shape. A shape rejected with
// ErrInvalidShape does not seal the container, so it can be retried.
//
// Dispatching with a nil state starts from a snapshot of the named nodes' values
// taken at Combine. Node values are committed only when every node triggered by
// the action succeeded, so a failing dispatch leaves all nodes as they were.
func (c *Container) Combine(shape Shape) (Reducer, error) {
	nodes := make(map[string]*internal.Node, len(shape))
	for name, h := range shape {
		if h == nil {
			nodes[name] = nil
			continue
		}
		nodes[name] = h.handle()
	}

	reduce, err := c.container.Combine(nodes)
	if err != nil {
		return nil, err
	}

	return Reducer(reduce), nil
}
