// Package users — repository.go выполняет операции с таблицей users.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub.ru/gamification/internal/common"
)

// Repository предоставляет методы для работы с таблицей users.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий пользователей.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const userColumns = `
	id, user_id, username, name, department, status,
	reputation, reputation_level,
	total_posts, total_helpful, solutions_count, connections_count,
	threads_created, threads_large,
	login_streak, longest_streak, last_login,
	joined_at, created_at, updated_at
`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.UserID, &u.Username, &u.Name, &u.Department, &u.Status,
		&u.Reputation, &u.ReputationLevel,
		&u.TotalPosts, &u.TotalHelpful, &u.SolutionsCount, &u.ConnectionsCount,
		&u.ThreadsCreated, &u.ThreadsLarge,
		&u.LoginStreak, &u.LongestStreak, &u.LastLogin,
		&u.JoinedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create зеркалирует нового пользователя платформы.
// Повторная регистрация — no-op (ON CONFLICT DO NOTHING).
func (r *Repository) Create(ctx context.Context, p RegisterParams) error {
	joined := p.JoinedAt
	if joined.IsZero() {
		joined = time.Now().UTC()
	}
	query := `
		INSERT INTO users (user_id, username, name, department, status, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, p.UserID, p.Username, p.Name, p.Department, StatusApproved, joined)
	if err != nil {
		return fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return nil
}

// GetByUserID возвращает пользователя по его платформенному ID.
// Если не найден — common.ErrUserNotFound.
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка получения пользователя (user_id=%d): %w", userID, err)
	}
	return u, nil
}

// Exists проверяет, зеркалирован ли пользователь.
func (r *Repository) Exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`, userID,
	).Scan(&exists)
	return exists, err
}

// IncrementCounter атомарно увеличивает счётчик активности одним UPDATE,
// без чтения-модификации-записи: параллельные события не теряют инкременты.
func (r *Repository) IncrementCounter(ctx context.Context, userID int64, c Counter, delta int) error {
	var column string
	switch c {
	case CounterPosts:
		column = "total_posts"
	case CounterHelpful:
		column = "total_helpful"
	case CounterSolutions:
		column = "solutions_count"
	case CounterConnections:
		column = "connections_count"
	case CounterThreadsCreated:
		column = "threads_created"
	case CounterThreadsLarge:
		column = "threads_large"
	default:
		return fmt.Errorf("неизвестный счётчик: %d", c)
	}

	query := `
		UPDATE users
		SET ` + column + ` = ` + column + ` + $2, updated_at = NOW()
		WHERE user_id = $1
	`
	tag, err := r.db.Exec(ctx, query, userID, delta)
	if err != nil {
		return fmt.Errorf("ошибка обновления счётчика %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

// UpdateStreak записывает новый стрик входов.
func (r *Repository) UpdateStreak(ctx context.Context, userID int64, streak, longest int, loginAt time.Time) error {
	query := `
		UPDATE users
		SET login_streak = $2, longest_streak = $3, last_login = $4, updated_at = NOW()
		WHERE user_id = $1
	`
	tag, err := r.db.Exec(ctx, query, userID, streak, longest, loginAt)
	if err != nil {
		return fmt.Errorf("ошибка обновления стрика: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

// TouchLastLogin обновляет только время последнего входа.
// Вызывается при повторном входе в тот же день, когда стрик не меняется.
func (r *Repository) TouchLastLogin(ctx context.Context, userID int64, loginAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET last_login = $2, updated_at = NOW() WHERE user_id = $1
	`, userID, loginAt)
	if err != nil {
		return fmt.Errorf("ошибка обновления времени входа: %w", err)
	}
	return nil
}

// GetStreakHolders возвращает пользователей с положительным стриком.
// Используется ночным заданием сброса.
func (r *Repository) GetStreakHolders(ctx context.Context) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login_streak > 0`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки стриков: %w", err)
	}
	defer rows.Close()

	var result []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// ResetStreak обнуляет стрик пользователя (ночное задание).
func (r *Repository) ResetStreak(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET login_streak = 0, updated_at = NOW() WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("ошибка сброса стрика: %w", err)
	}
	return nil
}

// GetApprovedIDs возвращает платформенные ID всех одобренных пользователей.
// Нужно ночному обходу ранговых бейджей.
func (r *Repository) GetApprovedIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id FROM users WHERE status = $1`, StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки пользователей: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
