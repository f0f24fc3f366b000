package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapList(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		raw := []byte(`[{"id":1,"name":"CSE"},{"id":2,"name":"ECE"}]`)

		branches, err := UnwrapList[Branch](raw)
		require.NoError(t, err)
		require.Len(t, branches, 2)
		assert.Equal(t, "CSE", branches[0].Name)
	})

	t.Run("paginated envelope", func(t *testing.T) {
		raw := []byte(`{"count":42,"next":"http://x/api/posts/?page=2","previous":null,"results":[{"id":9,"topic":"graphs"}]}`)

		posts, err := UnwrapList[Post](raw)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, int64(9), posts[0].ID)
	})

	t.Run("empty array", func(t *testing.T) {
		posts, err := UnwrapList[Post]([]byte(`[]`))
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("neither shape errors", func(t *testing.T) {
		_, err := UnwrapList[Post]([]byte(`{"detail":"not found"}`))
		assert.Error(t, err)
	})
}
