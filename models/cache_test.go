package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheEvictsOldest(t *testing.T) {
	c := NewCache[int, string](5)
	for i := range 7 {
		c.Set(i, string(rune('a'+i)))
	}

	assert.Equal(t, 5, c.Len())
	_, ok := c.Get(0)
	assert.False(t, ok)
	_, ok = c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, []string{"c", "d", "e", "f", "g"}, c.Values())
}

func TestCacheReplaceKeepsPosition(t *testing.T) {
	c := NewCache[string, int](0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3)

	assert.Equal(t, []int{3, 2}, c.Values())
}

func TestCachePop(t *testing.T) {
	c := NewCache[string, int](5)
	c.Set("a", 1)
	c.Set("b", 2)

	v, err := c.Pop()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = c.Pop()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = c.Pop()
	assert.ErrorIs(t, err, ErrCacheEmpty)
}

func TestCacheDelete(t *testing.T) {
	c := NewCache[string, int](5)
	c.Set("a", 1)
	c.Set("b", 2)

	v, ok := c.Delete("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = c.Delete("a")
	assert.False(t, ok)
	assert.Equal(t, []int{2}, c.Values())
}
