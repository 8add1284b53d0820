package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"name":        "x",
		"description": "y",
		"foo":         "z",
	}

	err := Filter(values, TaskCreateFields)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidField)
	assert.Contains(t, err.Error(), "foo")
}

func TestFilterStripsBlankValues(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"name":        "x",
		"description": "",
		"status":      nil,
	}

	err := Filter(values, TaskCreateFields)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"name": "x"}, values)
}

func TestFilterAcceptsAllowedKeys(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"name":      "Fix bug",
		"status":    "pending",
		"createdAt": "2024-01-05",
		"assignees": "b9a2fd4e-5c1f-4c8a-9d70-1f3e7bb0f111",
	}

	err := Filter(values, TaskFilterFields)
	require.NoError(t, err)
	assert.Len(t, values, 4)
}

func TestFilterEmptyInput(t *testing.T) {
	t.Parallel()

	values := map[string]any{}
	require.NoError(t, Filter(values, UserCreateFields))
	assert.Empty(t, values)
}

func TestAllowListContains(t *testing.T) {
	t.Parallel()

	assert.True(t, TaskStatusFields.Contains("status"))
	assert.False(t, TaskStatusFields.Contains("name"))
	assert.False(t, AllowList{}.Contains("anything"))
}

func TestIsBlank(t *testing.T) {
	t.Parallel()

	assert.True(t, isBlank(nil))
	assert.True(t, isBlank(""))
	assert.True(t, isBlank(false))
	assert.True(t, isBlank(float64(0)))
	assert.False(t, isBlank("x"))
	assert.False(t, isBlank(true))
	assert.False(t, isBlank(float64(1)))
	assert.False(t, isBlank([]any{}))
}
