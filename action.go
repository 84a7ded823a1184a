package dependent

import "github.com/AnatoleLucet/dependent/internal"

// Dependency is something a node can depend on: an action type or another node.
type Dependency interface {
	dependency() internal.Dependency
}

// Descriptor is anything naming an action type.
type Descriptor interface {
	Type() string
}

type actionDependency string

func (a actionDependency) dependency() internal.Dependency {
	return internal.ActionDependency(string(a))
}

// On depends on a raw action type.
func On(actionType string) Dependency {
	return actionDependency(actionType)
}

// OnAction depends on the action type named by a descriptor.
func OnAction(d Descriptor) Dependency {
	if d == nil {
		return actionDependency("")
	}
	return actionDependency(d.Type())
}

// ActionCreator builds and matches actions of one type with a payload of type P.
type ActionCreator[P any] struct {
	typ string
}

func NewActionCreator[P any](actionType string) ActionCreator[P] {
	return ActionCreator[P]{typ: actionType}
}

func (a ActionCreator[P]) Type() string { return a.typ }

// New builds an action carrying the payload.
func (a ActionCreator[P]) New(payload P) Action {
	return Action{Type: a.typ, Payload: payload}
}

// Match reports whether the action was built by this creator, and returns its payload.
func (a ActionCreator[P]) Match(action Action) (P, bool) {
	var zero P
	if action.Type != a.typ {
		return zero, false
	}
	if action.Payload == nil {
		return zero, true
	}

	p, ok := action.Payload.(P)
	return p, ok
}

func (a ActionCreator[P]) dependency() internal.Dependency {
	return internal.ActionDependency(a.typ)
}
