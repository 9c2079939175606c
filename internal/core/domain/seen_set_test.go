package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeenSet_AddAndContains(t *testing.T) {
	set := NewSeenSet()

	assert.False(t, set.Contains("123"))

	set.Add("123")
	assert.True(t, set.Contains("123"))
	assert.Equal(t, 1, set.Len())

	// повторное добавление не меняет размер
	set.Add("123")
	assert.Equal(t, 1, set.Len())
}

func TestSeenSet_TrimsWhitespace(t *testing.T) {
	set := NewSeenSet()
	set.Add("  42  ")

	assert.True(t, set.Contains("42"))
	assert.True(t, set.Contains(" 42 "))
}

func TestSeenSet_IgnoresEmptyIDs(t *testing.T) {
	set := NewSeenSet("", "   ")
	assert.Equal(t, 0, set.Len())

	set.Add("")
	assert.Equal(t, 0, set.Len())
}

func TestSeenSet_Normalized(t *testing.T) {
	set := NewSeenSet("b", "a", "c", "a")

	ids := set.Normalized()
	require.Len(t, ids, 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
