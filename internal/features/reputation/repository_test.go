package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub.ru/gamification/internal/features/notifications"
)

func TestApplyPointsClampsAtZero(t *testing.T) {
	cases := []struct {
		name   string
		before int
		points int
		want   int
	}{
		{"начисление", 45, 5, 50},
		{"списание в пределах остатка", 45, -10, 35},
		{"списание больше остатка обнуляет", 5, -10, 0},
		{"списание с нуля оставляет ноль", 0, -2, 0},
		{"большое списание", 45, -100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, applyPoints(tc.before, tc.points))
		})
	}
}

// Начисление 45→50 остаётся в пределах уровня, следующая единица
// переводит на новый уровень.
func TestApplyPointsLevelBoundary(t *testing.T) {
	after := applyPoints(45, 5)
	require.Equal(t, 50, after)
	assert.Equal(t, "Newbie", LevelFor(after).Name)
	assert.Equal(t, LevelFor(45).Name, LevelFor(after).Name, "уровень не меняется")

	after = applyPoints(after, 1)
	require.Equal(t, 51, after)
	assert.Equal(t, "Learner", LevelFor(after).Name)
}

func TestLevelChangeNotificationDirection(t *testing.T) {
	up := levelChangeNotification(7, LevelFor(50), LevelFor(51), 51)
	assert.Equal(t, notifications.TypeLevelUp, up.Type)
	assert.Equal(t, int64(7), up.UserID)
	assert.Contains(t, up.Title, "Learner")
	require.NotNil(t, up.RelatedID)
	assert.Equal(t, int64(7), *up.RelatedID)

	down := levelChangeNotification(7, LevelFor(51), LevelFor(50), 50)
	assert.Equal(t, notifications.TypeLevelDown, down.Type)
	assert.Contains(t, down.Title, "Newbie")
}
