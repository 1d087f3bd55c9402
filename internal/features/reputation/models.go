// Package reputation реализует систему репутации StudyHub.
// models.go описывает структуры для хранения истории начислений.
package reputation

import "time"

// HistoryEntry — неизменяемая запись об изменении репутации.
// Записи только добавляются; обновлений и удалений нет, поэтому
// сумма points_change (с учётом зажима на нуле) всегда воспроизводит
// текущую репутацию пользователя.
type HistoryEntry struct {
	ID     int64  `db:"id" json:"id"`
	UserID int64  `db:"user_id" json:"user_id"`
	Action string `db:"action" json:"action"` // Ключ действия или "custom"

	// Подписанная дельта и снимки баланса до/после применения
	PointsChange     int `db:"points_change" json:"points_change"`
	ReputationBefore int `db:"reputation_before" json:"reputation_before"`
	ReputationAfter  int `db:"reputation_after" json:"reputation_after"`

	// Связанная сущность платформы: "post", "comment", "thread" (опционально)
	RelatedType *string `db:"related_type" json:"related_type"`
	RelatedID   *int64  `db:"related_id" json:"related_id"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Summary — агрегат по истории пользователя.
type Summary struct {
	TotalGained int `json:"total_gained"`
	TotalLost   int `json:"total_lost"`
	NetChange   int `json:"net_change"`
	Current     int `json:"current_reputation"`
}

// AwardParams — подготовленные сервисом параметры начисления.
// Points уже разрешены (таблица действий или кастомное значение).
type AwardParams struct {
	UserID      int64
	Action      string
	Points      int
	RelatedType *string
	RelatedID   *int64
}
