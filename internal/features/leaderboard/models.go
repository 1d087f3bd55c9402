// Package leaderboard реализует рейтинги репутации: глобальный и по
// департаментам, с кешем в Redis поверх отсортированного множества.
// models.go описывает структуры выдачи.
package leaderboard

import "studyhub.ru/gamification/internal/features/reputation"

// Периоды рейтинга. Недельный и месячный фильтруют по последнему входу.
const (
	PeriodAllTime = "all_time"
	PeriodMonth   = "month"
	PeriodWeek    = "week"
)

// ValidPeriod проверяет, что период известен.
func ValidPeriod(p string) bool {
	return p == PeriodAllTime || p == PeriodMonth || p == PeriodWeek
}

// Entry — одна строка рейтинга.
type Entry struct {
	Rank         int              `json:"rank"`
	UserID       int64            `json:"user_id"`
	Username     string           `json:"username"`
	Name         string           `json:"name"`
	Department   string           `json:"department,omitempty"`
	Reputation   int              `json:"reputation"`
	Level        reputation.Level `json:"level"`
	TotalPosts   int              `json:"total_posts"`
	TotalHelpful int              `json:"total_helpful"`
	IsYou        bool             `json:"is_you"`
}

// Board — рейтинг с позицией смотрящего.
type Board struct {
	Entries    []*Entry `json:"leaderboard"`
	Period     string   `json:"period,omitempty"`
	Department string   `json:"department,omitempty"`
	// YourRank — позиция смотрящего, если он не попал в выдачу.
	YourRank   *int `json:"your_rank,omitempty"`
	TotalUsers int  `json:"total_users"`
}
