package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestPageParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := newListContext(t, "/api/posts/")
		page, size := pageParams(c)
		assert.Equal(t, 1, page)
		assert.Equal(t, defaultPageSize, size)
	})

	t.Run("explicit values", func(t *testing.T) {
		c := newListContext(t, "/api/posts/?page=3&page_size=50")
		page, size := pageParams(c)
		assert.Equal(t, 3, page)
		assert.Equal(t, 50, size)
	})

	t.Run("clamped", func(t *testing.T) {
		c := newListContext(t, "/api/posts/?page=-2&page_size=9999")
		page, size := pageParams(c)
		assert.Equal(t, 1, page)
		assert.Equal(t, maxPageSize, size)
	})
}

func TestPaginate(t *testing.T) {
	t.Run("middle page has both links", func(t *testing.T) {
		c := newListContext(t, "/api/posts/?page=2&page_size=10&subject=5")
		env := paginate(c, []int{1}, 35, 2, 10)

		assert.Equal(t, 35, env.Count)
		require.NotNil(t, env.Next)
		assert.Contains(t, *env.Next, "page=3")
		assert.Contains(t, *env.Next, "subject=5")
		require.NotNil(t, env.Previous)
		assert.NotContains(t, *env.Previous, "page=", "first page link drops the page param")
	})

	t.Run("single page has no links", func(t *testing.T) {
		c := newListContext(t, "/api/posts/")
		env := paginate(c, []int{1, 2}, 2, 1, 20)

		assert.Nil(t, env.Next)
		assert.Nil(t, env.Previous)
	})

	t.Run("last page has only previous", func(t *testing.T) {
		c := newListContext(t, "/api/posts/?page=4&page_size=10")
		env := paginate(c, []int{1}, 35, 4, 10)

		assert.Nil(t, env.Next)
		require.NotNil(t, env.Previous)
		assert.Contains(t, *env.Previous, "page=3")
	})
}
