package reputation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelsCoverRangeWithoutGaps(t *testing.T) {
	require.NotEmpty(t, Levels)
	assert.Equal(t, 0, Levels[0].Min, "таблица должна начинаться с нуля")
	for i := 1; i < len(Levels); i++ {
		assert.Equal(t, Levels[i-1].Max+1, Levels[i].Min,
			"между %s и %s не должно быть дыры", Levels[i-1].Name, Levels[i].Name)
	}
	assert.Equal(t, math.MaxInt, Levels[len(Levels)-1].Max)
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		points int
		want   string
	}{
		{0, "Newbie"},
		{50, "Newbie"},
		{51, "Learner"},
		{200, "Learner"},
		{201, "Contributor"},
		{500, "Contributor"},
		{501, "Expert"},
		{1000, "Expert"},
		{1001, "Master"},
		{999999, "Master"},
		{-5, "Newbie"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, LevelFor(c.points).Name, "points=%d", c.points)
	}
}

// Начисление поверх 45 очков: +5 оставляет на границе Newbie,
// следующий +1 переводит в Learner.
func TestLevelBoundaryScenario(t *testing.T) {
	assert.Equal(t, "Newbie", LevelFor(45+5).Name)
	assert.Equal(t, "Learner", LevelFor(50+1).Name)
}

func TestNextLevel(t *testing.T) {
	next, ok := NextLevel(45)
	require.True(t, ok)
	assert.Equal(t, "Learner", next.Name)

	_, ok = NextLevel(5000)
	assert.False(t, ok, "у высшего уровня нет следующего")
}

func TestProgressToNext(t *testing.T) {
	p := ProgressToNext(0)
	require.NotNil(t, p)
	assert.Equal(t, "Learner", p.Next.Name)
	assert.Equal(t, 51, p.PointsNeeded)
	assert.Equal(t, 0.0, p.Percentage)

	p = ProgressToNext(100)
	require.NotNil(t, p)
	assert.Equal(t, "Contributor", p.Next.Name)
	assert.Equal(t, 101, p.PointsNeeded)
	// (100-51)/(201-51) = 32.7%
	assert.InDelta(t, 32.7, p.Percentage, 0.01)

	assert.Nil(t, ProgressToNext(2000), "на высшем уровне прогресса нет")
}

func TestLevelForMonotonic(t *testing.T) {
	prev := -1
	for points := 0; points <= 1100; points++ {
		cur := LevelFor(points).Min
		assert.GreaterOrEqual(t, cur, prev, "уровень не должен падать с ростом очков")
		prev = cur
	}
}
