package badges

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriteriaCounters(t *testing.T) {
	stats := UserStats{
		TotalPosts:       50,
		TotalHelpful:     49,
		SolutionsCount:   10,
		LoginStreak:      7,
		ConnectionsCount: 9,
		ThreadsCreated:   5,
		ThreadsLarge:     0,
		Reputation:       999,
	}
	ec := EvalContext{Stats: stats}

	cases := []struct {
		name string
		c    Criteria
		want bool
	}{
		{"посты на пороге", Criteria{KindPostsCount, 50}, true},
		{"helpful на единицу ниже порога", Criteria{KindHelpfulCount, 50}, false},
		{"решения ровно на пороге", Criteria{KindSolutionsCount, 10}, true},
		{"стрик на пороге", Criteria{KindLoginStreak, 7}, true},
		{"стрик выше порога не достигнут", Criteria{KindLoginStreak, 30}, false},
		{"связи ниже порога", Criteria{KindConnectionsCount, 10}, false},
		{"треды на пороге", Criteria{KindThreadsCreated, 5}, true},
		{"лидер треда без крупных тредов", Criteria{KindThreadLeader, 1}, false},
		{"репутация ниже порога", Criteria{KindReputation, 1000}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.c.Met(ec)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestCriteriaThreadLeader(t *testing.T) {
	ec := EvalContext{Stats: UserStats{ThreadsLarge: 1}}
	met, err := Criteria{KindThreadLeader, 1}.Met(ec)
	require.NoError(t, err)
	assert.True(t, met)

	met, err = Criteria{KindThreadsLarge, 10}.Met(ec)
	require.NoError(t, err)
	assert.False(t, met)
}

func TestCriteriaEarlyAdopter(t *testing.T) {
	launch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cutoff := launch.AddDate(0, 0, 30)
	c := Criteria{KindEarlyAdopter, 1}

	met, err := c.Met(EvalContext{
		Stats:              UserStats{JoinedAt: launch.AddDate(0, 0, 10)},
		EarlyAdopterCutoff: cutoff,
	})
	require.NoError(t, err)
	assert.True(t, met)

	// Регистрация ровно в день отсечки ещё считается ранней
	met, err = c.Met(EvalContext{
		Stats:              UserStats{JoinedAt: cutoff},
		EarlyAdopterCutoff: cutoff,
	})
	require.NoError(t, err)
	assert.True(t, met)

	met, err = c.Met(EvalContext{
		Stats:              UserStats{JoinedAt: cutoff.Add(time.Second)},
		EarlyAdopterCutoff: cutoff,
	})
	require.NoError(t, err)
	assert.False(t, met)

	// Без отсечки (пустая база) критерий не выполняется
	met, err = c.Met(EvalContext{Stats: UserStats{JoinedAt: launch}})
	require.NoError(t, err)
	assert.False(t, met)
}

func TestCriteriaDepartmentRank(t *testing.T) {
	c := Criteria{KindDepartmentRank, 3}

	met, err := c.Met(EvalContext{DepartmentRank: 3})
	require.NoError(t, err)
	assert.True(t, met)

	met, err = c.Met(EvalContext{DepartmentRank: 4})
	require.NoError(t, err)
	assert.False(t, met)

	// Нулевой ранг означает отсутствие департамента
	met, err = c.Met(EvalContext{DepartmentRank: 0})
	require.NoError(t, err)
	assert.False(t, met)
}

func TestCriteriaUnknownKind(t *testing.T) {
	_, err := Criteria{Kind: "nonsense"}.Met(EvalContext{})
	assert.Error(t, err)
}

// Каждый критерий каталога должен быть известного вида.
func TestCatalogCriteriaValid(t *testing.T) {
	for _, b := range Catalog {
		_, err := b.Criteria.Met(EvalContext{})
		assert.NoError(t, err, "бейдж %q", b.Name)
	}
}
