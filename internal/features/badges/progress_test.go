package badges

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressForCountable(t *testing.T) {
	stats := UserStats{TotalPosts: 25}
	p := ProgressFor(Criteria{KindPostsCount, 50}, stats)

	assert.Equal(t, 25, p.Current)
	assert.Equal(t, 50, p.Required)
	assert.Equal(t, 50.0, p.Percentage)
	assert.Equal(t, 25, p.Remaining)
	assert.Equal(t, "posts", p.Type)
}

func TestProgressCappedAtHundred(t *testing.T) {
	stats := UserStats{Reputation: 1500}
	p := ProgressFor(Criteria{KindReputation, 1000}, stats)

	assert.Equal(t, 100.0, p.Percentage)
	assert.Equal(t, 0, p.Remaining)
}

func TestProgressRounding(t *testing.T) {
	stats := UserStats{ConnectionsCount: 1}
	p := ProgressFor(Criteria{KindConnectionsCount, 3}, stats)

	// 1/3 = 33.3%
	assert.Equal(t, 33.3, p.Percentage)
	assert.Equal(t, 2, p.Remaining)
}

// Особые критерии не имеют измеримого прогресса.
func TestProgressSpecialKinds(t *testing.T) {
	stats := UserStats{ThreadsLarge: 5}
	for _, kind := range []CriterionKind{
		KindThreadLeader, KindThreadsLarge, KindEarlyAdopter, KindDepartmentRank,
	} {
		p := ProgressFor(Criteria{Kind: kind, Threshold: 10}, stats)
		assert.Equal(t, 0.0, p.Percentage, "kind=%s", kind)
		assert.Equal(t, "special", p.Type, "kind=%s", kind)
		assert.Equal(t, "Complete special requirements", p.Message, "kind=%s", kind)
	}
}
