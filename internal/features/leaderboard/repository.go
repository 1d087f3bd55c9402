// Package leaderboard — repository.go выполняет SQL-запросы рейтинга.
// БД — источник истины; кеш в Redis лишь ускоряет чтение.
package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub.ru/gamification/internal/common"
	"studyhub.ru/gamification/internal/features/reputation"
)

// Repository выполняет запросы рейтинга к PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий рейтинга.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const entryColumns = `
	user_id, username, name, COALESCE(department, ''),
	reputation, total_posts, total_helpful
`

// periodCutoff возвращает дату отсечки по последнему входу.
// Для all_time отсечки нет.
func periodCutoff(period string, now time.Time) (time.Time, bool) {
	switch period {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, 0, -30), true
	}
	return time.Time{}, false
}

func scanEntries(rows pgx.Rows, startRank int) ([]*Entry, error) {
	var result []*Entry
	rank := startRank
	for rows.Next() {
		var e Entry
		err := rows.Scan(
			&e.UserID, &e.Username, &e.Name, &e.Department,
			&e.Reputation, &e.TotalPosts, &e.TotalHelpful,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки рейтинга: %w", err)
		}
		e.Rank = rank
		e.Level = reputation.LevelFor(e.Reputation)
		rank++
		result = append(result, &e)
	}
	return result, rows.Err()
}

// TopGlobal возвращает первые limit строк глобального рейтинга.
// При равной репутации раньше идёт более ранний пользователь —
// порядок стабилен между запросами.
func (r *Repository) TopGlobal(ctx context.Context, period string, limit int, now time.Time) ([]*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM users WHERE status = 'approved'`
	args := []any{}
	if cutoff, ok := periodCutoff(period, now); ok {
		args = append(args, cutoff)
		query += fmt.Sprintf(` AND last_login >= $%d`, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY reputation DESC, id ASC LIMIT $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки рейтинга: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows, 1)
}

// TopDepartment возвращает первые limit строк рейтинга департамента.
func (r *Repository) TopDepartment(ctx context.Context, department string, limit int) ([]*Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+entryColumns+`
		FROM users
		WHERE status = 'approved' AND department = $1
		ORDER BY reputation DESC, id ASC
		LIMIT $2
	`, department, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки рейтинга департамента: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows, 1)
}

// rankError переводит ошибку чтения ранга: отсутствие строки пользователя
// становится ErrUserNotFound, остальное оборачивается с контекстом.
func rankError(err error, msg string) error {
	if err == pgx.ErrNoRows {
		return common.ErrUserNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// GlobalRank — позиция пользователя в глобальном рейтинге:
// единица плюс число одобренных со строго большей репутацией.
// Запрос отталкивается от строки самого пользователя: для незнакомого
// user_id строки нет, и наружу уходит ErrUserNotFound, а не ранг 1.
func (r *Repository) GlobalRank(ctx context.Context, userID int64) (int, error) {
	var rank int
	err := r.db.QueryRow(ctx, `
		SELECT 1 + (
			SELECT COUNT(*) FROM users
			WHERE status = 'approved' AND reputation > me.reputation
		)
		FROM users me WHERE me.user_id = $1
	`, userID).Scan(&rank)
	if err != nil {
		return 0, rankError(err, "ошибка подсчёта глобального ранга")
	}
	return rank, nil
}

// DepartmentRank — позиция пользователя в рейтинге департамента.
func (r *Repository) DepartmentRank(ctx context.Context, userID int64, department string) (int, error) {
	var rank int
	err := r.db.QueryRow(ctx, `
		SELECT 1 + (
			SELECT COUNT(*) FROM users
			WHERE status = 'approved' AND department = $2
			AND reputation > me.reputation
		)
		FROM users me WHERE me.user_id = $1
	`, userID, department).Scan(&rank)
	if err != nil {
		return 0, rankError(err, "ошибка подсчёта ранга департамента")
	}
	return rank, nil
}

// CountApproved считает одобренных пользователей (всего или в департаменте).
func (r *Repository) CountApproved(ctx context.Context, department string) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE status = 'approved'`
	args := []any{}
	if department != "" {
		args = append(args, department)
		query += ` AND department = $1`
	}
	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

// UserDepartment возвращает департамент пользователя (пустая строка — нет).
func (r *Repository) UserDepartment(ctx context.Context, userID int64) (string, error) {
	var dept string
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(department, '') FROM users WHERE user_id = $1`, userID,
	).Scan(&dept)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("ошибка чтения департамента: %w", err)
	}
	return dept, nil
}

// AllApproved возвращает всех одобренных пользователей для пересборки кеша.
func (r *Repository) AllApproved(ctx context.Context) ([]*Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+entryColumns+`
		FROM users
		WHERE status = 'approved'
		ORDER BY reputation DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка полной выборки рейтинга: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows, 1)
}
