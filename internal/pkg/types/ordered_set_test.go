package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedSet(t *testing.T) {
	t.Run("keeps first insertion order", func(t *testing.T) {
		set := NewOrderedSet("b", "a", "c")
		set.Add("a", "d")

		assert.Equal(t, []string{"b", "a", "c", "d"}, set.ToSlice())
		assert.Equal(t, 4, set.Len())
	})

	t.Run("contains", func(t *testing.T) {
		set := NewOrderedSet(1, 2)

		assert.True(t, set.Contains(1))
		assert.False(t, set.Contains(3))
	})

	t.Run("to slice returns a copy", func(t *testing.T) {
		set := NewOrderedSet("a", "b")

		out := set.ToSlice()
		out[0] = "mutated"

		assert.Equal(t, []string{"a", "b"}, set.ToSlice())
	})

	t.Run("empty set", func(t *testing.T) {
		set := NewOrderedSet[string]()

		assert.Zero(t, set.Len())
		assert.Empty(t, set.ToSlice())
	})
}
