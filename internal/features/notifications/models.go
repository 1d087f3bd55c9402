// Package notifications хранит записи внутриплатформенных уведомлений.
// models.go описывает структуру строки уведомления.
//
// Этот сервис ТОЛЬКО создаёт записи (повышение уровня, получение бейджа)
// и отдаёт их на чтение; доставкой занимается отдельная подсистема платформы.
package notifications

import "time"

// Типы уведомлений, которые порождает геймификация.
const (
	TypeLevelUp     = "reputation_level_up"
	TypeLevelDown   = "reputation_level_down"
	TypeBadgeEarned = "badge_earned"
)

// Notification — одна запись уведомления.
type Notification struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Body        string    `db:"body" json:"body"`
	Type        string    `db:"notification_type" json:"type"`
	RelatedType *string   `db:"related_type" json:"related_type"`
	RelatedID   *int64    `db:"related_id" json:"related_id"`
	IsRead      bool      `db:"is_read" json:"is_read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
