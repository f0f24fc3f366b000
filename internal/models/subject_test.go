package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferBranchSubjects(t *testing.T) {
	t.Run("branch subject shadows same-named common", func(t *testing.T) {
		in := []Subject{
			{ID: 1, Name: "Aptitude", IsCommon: true},
			{ID: 2, Name: "DBMS", Branch: "CSE"},
			{ID: 3, Name: "aptitude", Branch: "CSE"},
		}

		out := PreferBranchSubjects(in)
		require.Len(t, out, 2)
		assert.Equal(t, int64(2), out[0].ID)
		assert.Equal(t, int64(3), out[1].ID)
	})

	t.Run("unshadowed commons survive in order", func(t *testing.T) {
		in := []Subject{
			{ID: 1, Name: "Coding", IsCommon: true},
			{ID: 2, Name: "Networks", Branch: "CSE"},
			{ID: 3, Name: "Aptitude", IsCommon: true},
		}

		out := PreferBranchSubjects(in)
		require.Len(t, out, 3)
		assert.Equal(t, []int64{1, 2, 3}, []int64{out[0].ID, out[1].ID, out[2].ID})
	})
}

func TestSubjectPersisted(t *testing.T) {
	assert.True(t, Subject{ID: 4}.Persisted())
	assert.False(t, Subject{}.Persisted())
	assert.False(t, NewTemporarySubject("OS", "CSE").Persisted())
}
