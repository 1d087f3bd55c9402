// Package notifications — repository.go выполняет операции с таблицей notifications.
package notifications

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository предоставляет методы для работы с таблицей notifications.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий уведомлений.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const insertQuery = `
	INSERT INTO notifications (user_id, title, body, notification_type, related_type, related_id)
	VALUES ($1, $2, $3, $4, $5, $6)
`

// InsertTx добавляет уведомление внутри ЧУЖОЙ транзакции.
// Так запись уровня/бейджа и её уведомление коммитятся или откатываются
// вместе — частичное применение невозможно.
func (r *Repository) InsertTx(ctx context.Context, tx pgx.Tx, n *Notification) error {
	_, err := tx.Exec(ctx, insertQuery,
		n.UserID, n.Title, n.Body, n.Type, n.RelatedType, n.RelatedID,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи уведомления: %w", err)
	}
	return nil
}

// ListByUser возвращает последние уведомления пользователя.
func (r *Repository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Notification, error) {
	query := `
		SELECT id, user_id, title, body, notification_type, related_type, related_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки уведомлений: %w", err)
	}
	defer rows.Close()

	var result []*Notification
	for rows.Next() {
		var n Notification
		err := rows.Scan(
			&n.ID, &n.UserID, &n.Title, &n.Body, &n.Type,
			&n.RelatedType, &n.RelatedID, &n.IsRead, &n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования уведомления: %w", err)
		}
		result = append(result, &n)
	}
	return result, rows.Err()
}

// CountByUser возвращает общее число уведомлений пользователя.
func (r *Repository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID,
	).Scan(&count)
	return count, err
}

// UnreadCount возвращает число непрочитанных уведомлений.
func (r *Repository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID,
	).Scan(&count)
	return count, err
}

// MarkRead помечает уведомление прочитанным.
// Чужие уведомления не трогаем: фильтр по user_id обязателен.
func (r *Repository) MarkRead(ctx context.Context, userID, notificationID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("ошибка отметки уведомления: %w", err)
	}
	return nil
}

// MarkAllRead помечает все уведомления пользователя прочитанными.
func (r *Repository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	if err != nil {
		return fmt.Errorf("ошибка отметки уведомлений: %w", err)
	}
	return nil
}
