// Package reputation — repository.go выполняет операции с таблицами
// users.reputation и reputation_history.
// Начисление выполняется в одной транзакции БД: обновление баланса,
// запись истории и уведомление о смене уровня применяются атомарно.
package reputation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub.ru/gamification/internal/common"
	"studyhub.ru/gamification/internal/features/notifications"
)

// Repository работает с репутацией и её историей.
type Repository struct {
	db        *pgxpool.Pool
	notifRepo *notifications.Repository
}

// NewRepository создаёт репозиторий репутации.
func NewRepository(db *pgxpool.Pool, notifRepo *notifications.Repository) *Repository {
	return &Repository{db: db, notifRepo: notifRepo}
}

// Award атомарно применяет дельту очков к пользователю.
//
// Внутри одной транзакции:
//  1. Блокируем строку пользователя (FOR UPDATE) — параллельные начисления
//     одному пользователю сериализуются, потерянных обновлений нет
//  2. Считаем новый баланс, зажимая его на нуле
//  3. Пересчитываем кешированное имя уровня из нового баланса
//  4. Добавляем неизменяемую запись истории со снимком до/после
//  5. Если имя уровня сменилось — пишем уведомление в ТОЙ ЖЕ транзакции
//
// Либо применяется всё, либо ничего.
func (r *Repository) Award(ctx context.Context, p AwardParams) (*HistoryEntry, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Шаг 1: блокируем строку и читаем текущий баланс
	var before int
	err = tx.QueryRow(ctx, `
		SELECT reputation FROM users WHERE user_id = $1 FOR UPDATE
	`, p.UserID).Scan(&before)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения репутации: %w", err)
	}

	// Шаг 2-3: новый баланс (не ниже нуля) и производный уровень
	after := applyPoints(before, p.Points)
	oldLevel := LevelFor(before)
	newLevel := LevelFor(after)

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET reputation = $2, reputation_level = $3, updated_at = NOW()
		WHERE user_id = $1
	`, p.UserID, after, newLevel.Name)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления репутации: %w", err)
	}

	// Шаг 4: запись истории
	entry := HistoryEntry{
		UserID:           p.UserID,
		Action:           p.Action,
		PointsChange:     p.Points,
		RelatedType:      p.RelatedType,
		RelatedID:        p.RelatedID,
		ReputationBefore: before,
		ReputationAfter:  after,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO reputation_history
			(user_id, action, points_change, related_type, related_id,
			 reputation_before, reputation_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, entry.UserID, entry.Action, entry.PointsChange, entry.RelatedType,
		entry.RelatedID, entry.ReputationBefore, entry.ReputationAfter,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи истории: %w", err)
	}

	// Шаг 5: уведомление о смене уровня (вверх и вниз — симметрично)
	if oldLevel.Name != newLevel.Name {
		n := levelChangeNotification(p.UserID, oldLevel, newLevel, after)
		if err := r.notifRepo.InsertTx(ctx, tx, n); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка коммита начисления: %w", err)
	}
	return &entry, nil
}

// applyPoints считает новый баланс после дельты.
// Репутация не уходит ниже нуля: списание больше остатка обнуляет баланс,
// а запись истории при этом хранит фактическую дельту.
func applyPoints(before, points int) int {
	after := before + points
	if after < 0 {
		after = 0
	}
	return after
}

// levelChangeNotification строит уведомление о переходе между уровнями.
func levelChangeNotification(userID int64, oldLevel, newLevel Level, points int) *notifications.Notification {
	relatedType := "user"
	n := &notifications.Notification{
		UserID:      userID,
		RelatedType: &relatedType,
		RelatedID:   &userID,
	}
	if newLevel.Min > oldLevel.Min {
		n.Type = notifications.TypeLevelUp
		n.Title = fmt.Sprintf("Level Up! You're now a %s!", newLevel.Name)
		n.Body = fmt.Sprintf("You've reached %d reputation points %s", points, newLevel.Icon)
	} else {
		n.Type = notifications.TypeLevelDown
		n.Title = fmt.Sprintf("Level changed: you're back to %s", newLevel.Name)
		n.Body = fmt.Sprintf("Your reputation dropped to %d points %s", points, newLevel.Icon)
	}
	return n
}

const historyColumns = `
	id, user_id, action, points_change, related_type, related_id,
	reputation_before, reputation_after, created_at
`

func scanHistory(rows pgx.Rows) (*HistoryEntry, error) {
	var e HistoryEntry
	err := rows.Scan(
		&e.ID, &e.UserID, &e.Action, &e.PointsChange, &e.RelatedType,
		&e.RelatedID, &e.ReputationBefore, &e.ReputationAfter, &e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования истории: %w", err)
	}
	return &e, nil
}

// ListHistory возвращает страницу истории пользователя, новые записи первыми.
// actionFilter — необязательный фильтр по ключу действия.
func (r *Repository) ListHistory(ctx context.Context, userID int64, actionFilter string, limit, offset int) ([]*HistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM reputation_history WHERE user_id = $1`
	args := []any{userID}
	if actionFilter != "" {
		query += ` AND action = $2`
		args = append(args, actionFilter)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки истории: %w", err)
	}
	defer rows.Close()

	var result []*HistoryEntry
	for rows.Next() {
		e, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// CountHistory возвращает число записей истории пользователя (с фильтром).
func (r *Repository) CountHistory(ctx context.Context, userID int64, actionFilter string) (int, error) {
	query := `SELECT COUNT(*) FROM reputation_history WHERE user_id = $1`
	args := []any{userID}
	if actionFilter != "" {
		query += ` AND action = $2`
		args = append(args, actionFilter)
	}
	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

// RecentChanges возвращает последние N изменений.
func (r *Repository) RecentChanges(ctx context.Context, userID int64, limit int) ([]*HistoryEntry, error) {
	return r.ListHistory(ctx, userID, "", limit, 0)
}

// HistorySummary считает суммарно заработанные и потерянные очки.
func (r *Repository) HistorySummary(ctx context.Context, userID int64) (gained, lost int, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(points_change) FILTER (WHERE points_change > 0), 0),
			COALESCE(ABS(SUM(points_change) FILTER (WHERE points_change < 0)), 0)
		FROM reputation_history
		WHERE user_id = $1
	`, userID).Scan(&gained, &lost)
	if err != nil {
		return 0, 0, fmt.Errorf("ошибка агрегации истории: %w", err)
	}
	return gained, lost, nil
}
