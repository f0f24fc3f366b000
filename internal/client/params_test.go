package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanParams(t *testing.T) {
	t.Run("drops absent-value sentinels", func(t *testing.T) {
		values := cleanParams(map[string]any{
			"a": nil,
			"b": "",
			"c": "None",
			"d": "null",
			"e": "keep",
		})

		assert.Equal(t, "keep", values.Get("e"))
		for _, key := range []string{"a", "b", "c", "d"} {
			_, present := values[key]
			assert.False(t, present, "key %q should be dropped", key)
		}
	})

	t.Run("numeric zero survives", func(t *testing.T) {
		values := cleanParams(map[string]any{
			"page":  0,
			"score": 0.0,
			"id":    int64(0),
		})

		assert.Equal(t, "0", values.Get("page"))
		assert.Equal(t, "0", values.Get("score"))
		assert.Equal(t, "0", values.Get("id"))
	})

	t.Run("false survives", func(t *testing.T) {
		values := cleanParams(map[string]any{"is_common": false})
		assert.Equal(t, "false", values.Get("is_common"))
	})

	t.Run("formats typed values", func(t *testing.T) {
		values := cleanParams(map[string]any{
			"subject":   int64(5),
			"page_size": 4,
			"search":    "arrays",
			"active":    true,
			"ratio":     2.5,
		})

		assert.Equal(t, "5", values.Get("subject"))
		assert.Equal(t, "4", values.Get("page_size"))
		assert.Equal(t, "arrays", values.Get("search"))
		assert.Equal(t, "true", values.Get("active"))
		assert.Equal(t, "2.5", values.Get("ratio"))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := map[string]any{"a": "", "b": "x"}
		cleanParams(in)

		assert.Len(t, in, 2)
		assert.Equal(t, "", in["a"])
	})

	t.Run("idempotent over own output", func(t *testing.T) {
		first := cleanParams(map[string]any{
			"user": "",
			"page": 0,
			"q":    "dp",
		})

		again := map[string]any{}
		for key := range first {
			again[key] = first.Get(key)
		}
		second := cleanParams(again)

		assert.Equal(t, first, second)
	})
}
