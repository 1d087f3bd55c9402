package users

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestNextStreak_FirstLogin(t *testing.T) {
	upd := NextStreak(0, 0, nil, ts(2025, time.March, 10, 12))

	assert.True(t, upd.Changed)
	assert.Equal(t, 1, upd.Streak)
	assert.Equal(t, 1, upd.Longest)
}

func TestNextStreak_SameDayIsNoop(t *testing.T) {
	last := ts(2025, time.March, 10, 9)
	upd := NextStreak(4, 6, &last, ts(2025, time.March, 10, 23))

	assert.False(t, upd.Changed)
	assert.Equal(t, 4, upd.Streak)
	assert.Equal(t, 6, upd.Longest)
}

func TestNextStreak_ConsecutiveDay(t *testing.T) {
	// Календарные дни, не интервалы: 23:59 → 00:01 — соседние дни
	last := ts(2025, time.March, 10, 23)
	upd := NextStreak(4, 6, &last, ts(2025, time.March, 11, 0))

	assert.True(t, upd.Changed)
	assert.Equal(t, 5, upd.Streak)
	assert.Equal(t, 6, upd.Longest)
}

func TestNextStreak_UpdatesLongest(t *testing.T) {
	last := ts(2025, time.March, 10, 12)
	upd := NextStreak(6, 6, &last, ts(2025, time.March, 11, 12))

	assert.Equal(t, 7, upd.Streak)
	assert.Equal(t, 7, upd.Longest)
}

func TestNextStreak_GapResetsToOne(t *testing.T) {
	last := ts(2025, time.March, 10, 12)
	upd := NextStreak(30, 30, &last, ts(2025, time.March, 13, 12))

	assert.True(t, upd.Changed)
	assert.Equal(t, 1, upd.Streak)
	assert.Equal(t, 30, upd.Longest)
}

func TestIsStreakStale(t *testing.T) {
	now := ts(2025, time.March, 12, 3)

	yesterday := ts(2025, time.March, 11, 22)
	assert.False(t, IsStreakStale(5, &yesterday, now), "вчерашний вход ещё не протух")

	twoDaysAgo := ts(2025, time.March, 10, 22)
	assert.True(t, IsStreakStale(5, &twoDaysAgo, now))

	assert.False(t, IsStreakStale(0, &twoDaysAgo, now), "нулевой стрик сбрасывать нечего")
	assert.True(t, IsStreakStale(3, nil, now))
}
