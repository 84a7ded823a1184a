package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(prev any, action Action, inputs []any) (any, error) { return prev, nil }

func TestNode(t *testing.T) {
	t.Run("collects root types in discovery order", func(t *testing.T) {
		c := NewContainer(nil)

		a, err := c.NewNode([]Dependency{ActionDependency("PLUS"), ActionDependency("MINUS")}, identity, 0)
		require.NoError(t, err)
		b, err := c.NewNode([]Dependency{ActionDependency("MULTIPLY"), ActionDependency("PLUS")}, identity, 1)
		require.NoError(t, err)
		d, err := c.NewNode([]Dependency{NodeDependency(b), ActionDependency("RESET"), NodeDependency(a)}, identity, 0)
		require.NoError(t, err)

		assert.Equal(t, []string{"PLUS", "MINUS"}, a.RootTypes())
		assert.Equal(t, []string{"MULTIPLY", "PLUS"}, b.RootTypes())
		assert.Equal(t, []string{"MULTIPLY", "PLUS", "RESET", "MINUS"}, d.RootTypes())
	})

	t.Run("keeps only node dependencies as inputs without duplicates", func(t *testing.T) {
		c := NewContainer(nil)

		a, _ := c.NewNode([]Dependency{ActionDependency("A")}, identity, 0)
		b, _ := c.NewNode([]Dependency{ActionDependency("B")}, identity, 0)
		d, err := c.NewNode([]Dependency{
			NodeDependency(b),
			ActionDependency("C"),
			NodeDependency(a),
			NodeDependency(b),
		}, identity, 0)
		require.NoError(t, err)

		assert.Equal(t, []ID{b.ID(), a.ID()}, d.DepIDs())
	})

	t.Run("root types are a copy", func(t *testing.T) {
		c := NewContainer(nil)
		a, _ := c.NewNode([]Dependency{ActionDependency("A")}, identity, 0)

		types := a.RootTypes()
		types[0] = "mutated"

		assert.Equal(t, []string{"A"}, a.RootTypes())
	})

	t.Run("rejects invalid dependencies", func(t *testing.T) {
		c := NewContainer(nil)
		other := NewContainer(nil)
		foreign, _ := other.NewNode([]Dependency{ActionDependency("A")}, identity, 0)

		_, err := c.NewNode([]Dependency{ActionDependency("")}, identity, 0)
		assert.ErrorIs(t, err, ErrInvalidDependency)

		_, err = c.NewNode([]Dependency{NodeDependency(nil)}, identity, 0)
		assert.ErrorIs(t, err, ErrInvalidDependency)

		_, err = c.NewNode([]Dependency{NodeDependency(foreign)}, identity, 0)
		assert.ErrorIs(t, err, ErrInvalidDependency)

		_, err = c.NewNode([]Dependency{{}}, identity, 0)
		assert.ErrorIs(t, err, ErrInvalidDependency)

		_, err = c.NewNode([]Dependency{{kind: dependencyKind(99), actionType: "A"}}, identity, 0)
		assert.ErrorIs(t, err, ErrInvalidDependency)

		_, err = c.NewNode([]Dependency{ActionDependency("A")}, nil, 0)
		assert.ErrorIs(t, err, ErrInvalidNode)

		assert.Empty(t, c.Nodes("A"))
	})

	t.Run("stages values until commit", func(t *testing.T) {
		c := NewContainer(nil)
		q := NewNodeQueue()

		n, _ := c.NewNode([]Dependency{ActionDependency("INC")}, func(prev any, action Action, inputs []any) (any, error) {
			return prev.(int) + 1, nil
		}, 0)

		require.NoError(t, n.run(Action{Type: "INC"}, q))
		assert.Equal(t, 1, n.Value())
		_, ok := n.Previous()
		assert.False(t, ok)

		q.Commit()
		assert.Equal(t, 1, n.Value())
		prev, ok := n.Previous()
		assert.True(t, ok)
		assert.Equal(t, 0, prev)
		assert.Equal(t, 0, q.Len())
	})

	t.Run("rollback restores the committed value", func(t *testing.T) {
		c := NewContainer(nil)
		q := NewNodeQueue()

		n, _ := c.NewNode([]Dependency{ActionDependency("INC")}, func(prev any, action Action, inputs []any) (any, error) {
			return prev.(int) + 1, nil
		}, 0)

		require.NoError(t, n.run(Action{Type: "INC"}, q))
		q.Rollback()

		assert.Equal(t, 0, n.Value())
		_, ok := n.Previous()
		assert.False(t, ok)
	})

	t.Run("failing reduce leaves the node untouched", func(t *testing.T) {
		c := NewContainer(nil)
		q := NewNodeQueue()
		boom := errors.New("boom")

		n, _ := c.NewNode([]Dependency{ActionDependency("INC")}, func(prev any, action Action, inputs []any) (any, error) {
			return nil, boom
		}, 42)

		assert.ErrorIs(t, n.run(Action{Type: "INC"}, q), boom)
		assert.Equal(t, 42, n.Value())
		assert.Equal(t, 0, q.Len())
	})

	t.Run("reads inputs in declared order", func(t *testing.T) {
		c := NewContainer(nil)
		q := NewNodeQueue()

		a, _ := c.NewNode([]Dependency{ActionDependency("X")}, identity, "a")
		b, _ := c.NewNode([]Dependency{ActionDependency("X")}, identity, "b")

		var got []any
		n, _ := c.NewNode([]Dependency{NodeDependency(b), NodeDependency(a)}, func(prev any, action Action, inputs []any) (any, error) {
			got = inputs
			return prev, nil
		}, nil)

		require.NoError(t, n.run(Action{Type: "X", Payload: 1}, q))
		assert.Equal(t, []any{"b", "a"}, got)
	})
}
