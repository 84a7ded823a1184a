// Package store hosts a dependent.Reducer behind a subscribe/dispatch API.
//
// The store serializes dispatch, so a single container is never reduced
// concurrently, and notifies subscribers whenever the state changes.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AnatoleLucet/dependent"
	"github.com/AnatoleLucet/dependent/internal"
)

const tracerName = "github.com/AnatoleLucet/dependent/store"

// InitType is the type of the action dispatched by New to build the initial state.
const InitType = "@@store/INIT"

var InitAction = dependent.Action{Type: InitType}

type subscriber struct {
	id int
	fn func(dependent.State)
}

type Store struct {
	mu sync.Mutex

	// goroutine holding mu inside the reducer, 0 when idle
	reducing atomic.Int64

	reducer dependent.Reducer
	state   dependent.State

	subs    []subscriber
	nextSub int

	tracer trace.Tracer
	logger *slog.Logger
}

type Option func(*Store)

// WithInitialState seeds the state given to the reducer with the init action.
func WithInitialState(state dependent.State) Option {
	return func(s *Store) { s.state = state }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Store) { s.tracer = tracer }
}

// WithLogger overrides slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a store and dispatches InitAction to build its initial state.
func New(reducer dependent.Reducer, opts ...Option) (*Store, error) {
	if reducer == nil {
		return nil, errors.New("reducer is required")
	}

	s := &Store{
		reducer: reducer,
		tracer:  otel.Tracer(tracerName),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := reducer(s.state, InitAction)
	if err != nil {
		return nil, fmt.Errorf("init state: %w", err)
	}
	s.state = state

	return s, nil
}

// State returns the current state. It must not be mutated.
// Called from a reduce function, it returns the state being reduced.
func (s *Store) State() dependent.State {
	if s.reducing.Load() == internal.GoroutineID() {
		return s.state
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Dispatch reduces the action into the current state.
// Subscribers are called after the state is updated, outside the lock.
// On error the state is left untouched and no subscriber is called.
// Dispatching from a reduce function fails with dependent.ErrReentrantDispatch.
func (s *Store) Dispatch(ctx context.Context, action dependent.Action) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := s.tracer.Start(ctx, "store.Dispatch",
		trace.WithAttributes(attribute.String("action.type", action.Type)),
	)
	defer span.End()

	state, changed, subs, err := s.reduce(action)
	span.SetAttributes(attribute.Bool("state.changed", changed))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.DebugContext(ctx, "dispatch failed", "action_type", action.Type, "error", err)
		return fmt.Errorf("dispatch %s: %w", action.Type, err)
	}

	if changed {
		for _, sub := range subs {
			s.notify(ctx, sub, state)
		}
	}

	return nil
}

func (s *Store) reduce(action dependent.Action) (dependent.State, bool, []subscriber, error) {
	gid := internal.GoroutineID()
	if s.reducing.Load() == gid {
		return s.state, false, nil, dependent.ErrReentrantDispatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reducing.Store(gid)
	defer s.reducing.Store(0)

	next, err := s.reducer(s.state, action)
	if err != nil {
		return s.state, false, nil, err
	}

	changed := !sameState(s.state, next)
	s.state = next

	return next, changed, slices.Clone(s.subs), nil
}

func (s *Store) notify(ctx context.Context, sub subscriber, state dependent.State) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "subscriber panicked", "subscriber", sub.id, "panic", r)
		}
	}()

	sub.fn(state)
}

// Subscribe registers fn to be called with every new state.
// The returned function removes the subscription, it is safe to call more than once.
func (s *Store) Subscribe(fn func(dependent.State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
	}
}

// states are copied on write, so identity tells whether anything changed
func sameState(a, b dependent.State) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
