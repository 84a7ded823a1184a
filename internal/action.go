package internal

// Action is a dispatched occurrence: a type and an opaque payload.
type Action struct {
	Type    string
	Payload any
}

// State is the composite value produced by a combined container, keyed by the
// names given to Combine. A State is never mutated once it has been returned.
type State map[string]any
