package leaderboard

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub.ru/gamification/internal/common"
)

func TestValidPeriod(t *testing.T) {
	assert.True(t, ValidPeriod(PeriodAllTime))
	assert.True(t, ValidPeriod(PeriodMonth))
	assert.True(t, ValidPeriod(PeriodWeek))
	assert.False(t, ValidPeriod("year"))
	assert.False(t, ValidPeriod(""))
}

func TestPeriodCutoff(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cutoff, ok := periodCutoff(PeriodWeek, now)
	require.True(t, ok)
	assert.Equal(t, now.AddDate(0, 0, -7), cutoff)

	cutoff, ok = periodCutoff(PeriodMonth, now)
	require.True(t, ok)
	assert.Equal(t, now.AddDate(0, 0, -30), cutoff)

	_, ok = periodCutoff(PeriodAllTime, now)
	assert.False(t, ok, "all_time не фильтруется по дате")
}

func TestMarkViewer(t *testing.T) {
	entries := []*Entry{
		{Rank: 1, UserID: 10},
		{Rank: 2, UserID: 20},
		{Rank: 3, UserID: 30},
	}

	assert.True(t, markViewer(entries, 20))
	assert.True(t, entries[1].IsYou)
	assert.False(t, entries[0].IsYou)

	assert.False(t, markViewer(entries, 99), "смотрящий вне топа")
}

// Запрос ранга для незнакомого user_id не возвращает строку — наружу
// должен уйти ErrUserNotFound, а не выдуманный ранг.
func TestRankErrorUnknownUser(t *testing.T) {
	err := rankError(pgx.ErrNoRows, "ошибка подсчёта глобального ранга")
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	wrapped := rankError(errors.New("connection reset"), "ошибка подсчёта глобального ранга")
	assert.NotErrorIs(t, wrapped, common.ErrUserNotFound)
	assert.Contains(t, wrapped.Error(), "ошибка подсчёта глобального ранга")
}

func TestClampLimit(t *testing.T) {
	svc := NewService(nil, nil, Options{DefaultLimit: 50, MaxLimit: 100}, logrus.New())

	assert.Equal(t, 50, svc.clampLimit(0))
	assert.Equal(t, 50, svc.clampLimit(-1))
	assert.Equal(t, 25, svc.clampLimit(25))
	assert.Equal(t, 100, svc.clampLimit(500))
}
