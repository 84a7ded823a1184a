package internal

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyCombined    = errors.New("container already combined")
	ErrInvalidShape       = errors.New("invalid state shape")
	ErrInvalidNode        = errors.New("invalid node")
	ErrInvalidDependency  = errors.New("invalid dependency")
	ErrConcurrentDispatch = errors.New("concurrent dispatch")
	ErrReentrantDispatch  = errors.New("reentrant dispatch")
)

// ComputeError is returned by a dispatch when a node's reduce function fails.
type ComputeError struct {
	NodeID     ID
	Name       string // empty for nodes outside the state shape
	ActionType string
	Err        error
}

func (e *ComputeError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("node %d on %s: %v", e.NodeID, e.ActionType, e.Err)
	}
	return fmt.Sprintf("node %d (%s) on %s: %v", e.NodeID, e.Name, e.ActionType, e.Err)
}

func (e *ComputeError) Unwrap() error { return e.Err }
