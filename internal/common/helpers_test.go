package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, 8, 28, 0, 1, 0, 0, time.UTC)
	evening := time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(evening, nextDay))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC)
	b := time.Date(2026, 8, 29, 0, 1, 0, 0, time.UTC)

	// Две минуты через полночь — один календарный день
	assert.Equal(t, 1, DaysBetween(a, b))
	assert.Equal(t, -1, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

// Переход на летнее время делает сутки 23-часовыми; соседние календарные
// дни всё равно должны считаться одним днём, иначе стрик оборвётся.
func TestDaysBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 8 марта 2026 — перевод часов вперёд в США
	before := time.Date(2026, 3, 7, 12, 0, 0, 0, loc)
	after := time.Date(2026, 3, 8, 12, 0, 0, 0, loc)

	assert.Equal(t, 1, DaysBetween(before, after))
	assert.False(t, SameDay(before, after))

	// Осенний перевод назад (25-часовые сутки) — симметрично
	fallBefore := time.Date(2026, 10, 31, 12, 0, 0, 0, loc)
	fallAfter := time.Date(2026, 11, 1, 12, 0, 0, 0, loc)
	assert.Equal(t, 1, DaysBetween(fallBefore, fallAfter))
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 50, 45)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 45, p.Total)
	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, 20, p.Offset())
}

func TestNewPaginationClamps(t *testing.T) {
	p := NewPagination(0, 500, 50, 100)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 50, p.PerPage, "perPage зажимается максимумом")
	assert.Equal(t, 2, p.Pages)

	p = NewPagination(1, -3, 50, 0)
	assert.Equal(t, 1, p.PerPage)
	assert.Equal(t, 0, p.Pages)
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercent(-5))
	assert.Equal(t, 42.5, ClampPercent(42.5))
	assert.Equal(t, 100.0, ClampPercent(150))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 33.3, Round1(100.0/3))
	assert.Equal(t, 66.7, Round1(200.0/3))
	assert.Equal(t, 50.0, Round1(50))
}
