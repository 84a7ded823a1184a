// Package calculator wires a small dependent graph over arithmetic actions.
//
// Sum follows PLUS and MINUS, Product follows MULTIPLY, and Total accumulates
// the value of Sum on PLUS/MINUS and the value of Product on MULTIPLY.
package calculator

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/AnatoleLucet/dependent"
)

var (
	Plus     = dependent.NewActionCreator[int]("PLUS")
	Minus    = dependent.NewActionCreator[int]("MINUS")
	Multiply = dependent.NewActionCreator[int]("MULTIPLY")
)

// State keys
const (
	KeySum     = "sum"
	KeyProduct = "product"
	KeyTotal   = "total"
)

var (
	ErrInvalidOp     = errors.New("invalid op")
	ErrLimitExceeded = errors.New("total limit exceeded")
)

type Calculator struct {
	Sum     *dependent.Node[int]
	Product *dependent.Node[int]
	Total   *dependent.Node[int]

	Reducer dependent.Reducer
}

type config struct {
	limit  int
	logger *slog.Logger
}

type Option func(*config)

// WithLimit makes Total fail once its previous value exceeds limit.
// A limit <= 0 disables the check.
func WithLimit(limit int) Option {
	return func(c *config) { c.limit = limit }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func New(opts ...Option) (*Calculator, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := dependent.NewContainer(dependent.WithLogger(cfg.logger))

	sum, err := dependent.NewNode(c, []dependent.Dependency{Plus, Minus}, dependent.Pure(func(prev int, action dependent.Action, in dependent.Inputs) int {
		if n, ok := Plus.Match(action); ok {
			return prev + n
		}
		if n, ok := Minus.Match(action); ok {
			return prev - n
		}
		return prev
	}), dependent.WithInitial(0))
	if err != nil {
		return nil, fmt.Errorf("sum: %w", err)
	}

	product, err := dependent.NewNode(c, []dependent.Dependency{Multiply}, dependent.Pure(func(prev int, action dependent.Action, in dependent.Inputs) int {
		n, _ := Multiply.Match(action)
		return prev * n
	}), dependent.WithInitial(1))
	if err != nil {
		return nil, fmt.Errorf("product: %w", err)
	}

	total, err := dependent.NewNode(c, []dependent.Dependency{sum, product}, func(prev int, action dependent.Action, in dependent.Inputs) (int, error) {
		if cfg.limit > 0 && prev > cfg.limit {
			return prev, fmt.Errorf("%w: %d > %d", ErrLimitExceeded, prev, cfg.limit)
		}

		switch action.Type {
		case Plus.Type(), Minus.Type():
			return prev + sum.In(in), nil
		case Multiply.Type():
			return prev + product.In(in), nil
		}
		return prev, nil
	}, dependent.WithInitial(0))
	if err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}

	reducer, err := c.Combine(dependent.Shape{
		KeySum:     sum,
		KeyProduct: product,
		KeyTotal:   total,
	})
	if err != nil {
		return nil, fmt.Errorf("combine: %w", err)
	}

	return &Calculator{
		Sum:     sum,
		Product: product,
		Total:   total,
		Reducer: reducer,
	}, nil
}

// Parse turns an op such as "+5", "-1" or "*100" into an action.
func Parse(op string) (dependent.Action, error) {
	op = strings.TrimSpace(op)
	if len(op) < 2 {
		return dependent.Action{}, fmt.Errorf("%w: %q", ErrInvalidOp, op)
	}

	n, err := strconv.Atoi(strings.TrimSpace(op[1:]))
	if err != nil {
		return dependent.Action{}, fmt.Errorf("%w: %q: %w", ErrInvalidOp, op, err)
	}

	switch op[0] {
	case '+':
		return Plus.New(n), nil
	case '-':
		return Minus.New(n), nil
	case '*':
		return Multiply.New(n), nil
	}

	return dependent.Action{}, fmt.Errorf("%w: %q: unknown operator %q", ErrInvalidOp, op, op[0])
}
