package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub.ru/gamification/internal/common"
)

func TestLookupAction(t *testing.T) {
	a, ok := LookupAction(ActionCommentMarkedSolution)
	require.True(t, ok)
	assert.Equal(t, 15, a.Points)

	a, ok = LookupAction(ActionContentReported)
	require.True(t, ok)
	assert.Equal(t, -10, a.Points)

	_, ok = LookupAction("no_such_action")
	assert.False(t, ok)
}

func TestResolveActionFromTable(t *testing.T) {
	points, action, err := ResolveAction(ActionPost100Likes, nil)
	require.NoError(t, err)
	assert.Equal(t, 50, points)
	assert.Equal(t, ActionPost100Likes, action)
}

// Кастомная дельта имеет приоритет над таблицей.
func TestResolveActionCustomOverride(t *testing.T) {
	custom := 42
	points, action, err := ResolveAction(ActionPost10Likes, &custom)
	require.NoError(t, err)
	assert.Equal(t, 42, points)
	assert.Equal(t, ActionPost10Likes, action)

	// Без ключа действие записывается как "custom"
	points, action, err = ResolveAction("", &custom)
	require.NoError(t, err)
	assert.Equal(t, 42, points)
	assert.Equal(t, ActionCustom, action)
}

func TestResolveActionUnknown(t *testing.T) {
	_, _, err := ResolveAction("no_such_action", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnknownAction)
}

func TestActionsTableHasNoDuplicates(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range Actions {
		assert.False(t, seen[a.Key], "дубликат ключа %s", a.Key)
		seen[a.Key] = true
	}
}
