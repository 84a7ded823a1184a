package internal

import "sync/atomic"

// dispatchGuard rejects overlapping dispatches on the same container.
// Node values are mutated without locks, so the host has to serialize dispatch.
type dispatchGuard struct {
	// goroutine currently dispatching, 0 when idle
	owner atomic.Int64
}

func (g *dispatchGuard) enter() error {
	gid := GoroutineID()

	if g.owner.CompareAndSwap(0, gid) {
		return nil
	}

	if g.owner.Load() == gid {
		return ErrReentrantDispatch
	}

	return ErrConcurrentDispatch
}

func (g *dispatchGuard) exit() {
	g.owner.Store(0)
}
