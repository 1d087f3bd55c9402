// Package badges — repository.go выполняет операции с таблицами
// badges и user_badges.
package badges

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub.ru/gamification/internal/common"
	"studyhub.ru/gamification/internal/features/notifications"
)

// Store описывает операции хранилища бейджей. Сервис работает через
// интерфейс, чтобы проверку критериев можно было тестировать без БД.
type Store interface {
	ListActive(ctx context.Context, category, rarity string) ([]*Badge, error)
	GetByID(ctx context.Context, id int64) (*Badge, error)
	EarnedAt(ctx context.Context, userID int64) (map[int64]time.Time, error)
	Award(ctx context.Context, userID int64, badge *Badge) (bool, error)
	ListUserBadges(ctx context.Context, userID int64) ([]*UserBadge, error)
	CountFeatured(ctx context.Context, userID int64) (int, error)
	SetFeatured(ctx context.Context, userID, badgeID int64, featured bool) (bool, error)
	RecentEarners(ctx context.Context, badgeID int64, limit int) ([]*Earner, error)
}

// StatsProvider отдаёт данные для проверки критериев.
type StatsProvider interface {
	// Stats возвращает снимок счётчиков пользователя.
	Stats(ctx context.Context, userID int64) (*UserStats, error)
	// EarlyAdopterCutoff — дата первого пользователя плюс окно ранней
	// регистрации. Нулевое время, если пользователей ещё нет.
	EarlyAdopterCutoff(ctx context.Context, window time.Duration) (time.Time, error)
	// DepartmentRank — место пользователя среди одобренных пользователей
	// его департамента. Ноль, если департамент пуст.
	DepartmentRank(ctx context.Context, userID int64) (int, error)
}

// Repository — реализация Store и StatsProvider поверх PostgreSQL.
type Repository struct {
	db        *pgxpool.Pool
	notifRepo *notifications.Repository
}

// NewRepository создаёт репозиторий бейджей.
func NewRepository(db *pgxpool.Pool, notifRepo *notifications.Repository) *Repository {
	return &Repository{db: db, notifRepo: notifRepo}
}

const badgeColumns = `
	id, name, description, icon, category, rarity, color,
	criteria_kind, criteria_threshold, awarded_count, is_active, created_at
`

func scanBadge(row pgx.Row) (*Badge, error) {
	var b Badge
	err := row.Scan(
		&b.ID, &b.Name, &b.Description, &b.Icon, &b.Category, &b.Rarity,
		&b.Color, &b.Criteria.Kind, &b.Criteria.Threshold,
		&b.AwardedCount, &b.IsActive, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Seed заливает каталог в БД. Существующие бейджи (по имени) не трогаются,
// поэтому повторный запуск безопасен.
func (r *Repository) Seed(ctx context.Context, catalog []Badge) error {
	for _, b := range catalog {
		_, err := r.db.Exec(ctx, `
			INSERT INTO badges (name, description, icon, category, rarity, color, criteria_kind, criteria_threshold)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (name) DO NOTHING
		`, b.Name, b.Description, b.Icon, b.Category, b.Rarity, b.Color,
			b.Criteria.Kind, b.Criteria.Threshold)
		if err != nil {
			return fmt.Errorf("ошибка заливки бейджа %q: %w", b.Name, err)
		}
	}
	return nil
}

// ListActive возвращает активные бейджи с необязательными фильтрами.
// Сортировка: от редких к обычным, внутри — по популярности.
func (r *Repository) ListActive(ctx context.Context, category, rarity string) ([]*Badge, error) {
	query := `SELECT ` + badgeColumns + ` FROM badges WHERE is_active = TRUE`
	args := []any{}
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if rarity != "" {
		args = append(args, rarity)
		query += fmt.Sprintf(` AND rarity = $%d`, len(args))
	}
	query += `
		ORDER BY
			CASE rarity
				WHEN 'legendary' THEN 0
				WHEN 'epic' THEN 1
				WHEN 'rare' THEN 2
				ELSE 3
			END,
			awarded_count DESC
	`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки бейджей: %w", err)
	}
	defer rows.Close()

	var result []*Badge
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования бейджа: %w", err)
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// GetByID возвращает бейдж по идентификатору.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Badge, error) {
	row := r.db.QueryRow(ctx, `SELECT `+badgeColumns+` FROM badges WHERE id = $1`, id)
	b, err := scanBadge(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrBadgeNotFound
		}
		return nil, fmt.Errorf("ошибка чтения бейджа: %w", err)
	}
	return b, nil
}

// EarnedAt возвращает даты получения всех бейджей пользователя.
func (r *Repository) EarnedAt(ctx context.Context, userID int64) (map[int64]time.Time, error) {
	rows, err := r.db.Query(ctx,
		`SELECT badge_id, earned_at FROM user_badges WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки бейджей пользователя: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]time.Time)
	for rows.Next() {
		var badgeID int64
		var earnedAt time.Time
		if err := rows.Scan(&badgeID, &earnedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования: %w", err)
		}
		result[badgeID] = earnedAt
	}
	return result, rows.Err()
}

// Award выдаёт бейдж. Возвращает false, если бейдж уже есть.
// Выдача, инкремент счётчика и уведомление — одна транзакция.
func (r *Repository) Award(ctx context.Context, userID int64, badge *Badge) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Уникальный индекс (user_id, badge_id) делает повтор no-op'ом
	tag, err := tx.Exec(ctx, `
		INSERT INTO user_badges (user_id, badge_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, badge_id) DO NOTHING
	`, userID, badge.ID)
	if err != nil {
		return false, fmt.Errorf("ошибка выдачи бейджа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE badges SET awarded_count = awarded_count + 1 WHERE id = $1`, badge.ID)
	if err != nil {
		return false, fmt.Errorf("ошибка обновления счётчика выдач: %w", err)
	}

	relatedType := "badge"
	err = r.notifRepo.InsertTx(ctx, tx, &notifications.Notification{
		UserID:      userID,
		Type:        notifications.TypeBadgeEarned,
		Title:       fmt.Sprintf("Badge Earned: %s!", badge.Name),
		Body:        fmt.Sprintf("%s %s", badge.Icon, badge.Description),
		RelatedType: &relatedType,
		RelatedID:   &badge.ID,
	})
	if err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("ошибка коммита выдачи: %w", err)
	}
	return true, nil
}

// ListUserBadges возвращает бейджи пользователя, новые первыми.
func (r *Repository) ListUserBadges(ctx context.Context, userID int64) ([]*UserBadge, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.id, b.name, b.description, b.icon, b.category, b.rarity, b.color,
			b.criteria_kind, b.criteria_threshold, b.awarded_count, b.is_active, b.created_at,
			ub.earned_at, ub.is_featured
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.earned_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки бейджей пользователя: %w", err)
	}
	defer rows.Close()

	var result []*UserBadge
	for rows.Next() {
		var b Badge
		var ub UserBadge
		err := rows.Scan(
			&b.ID, &b.Name, &b.Description, &b.Icon, &b.Category, &b.Rarity,
			&b.Color, &b.Criteria.Kind, &b.Criteria.Threshold,
			&b.AwardedCount, &b.IsActive, &b.CreatedAt,
			&ub.EarnedAt, &ub.IsFeatured,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования: %w", err)
		}
		ub.Badge = &b
		result = append(result, &ub)
	}
	return result, rows.Err()
}

// CountFeatured считает закреплённые бейджи пользователя.
func (r *Repository) CountFeatured(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_badges WHERE user_id = $1 AND is_featured = TRUE`,
		userID,
	).Scan(&count)
	return count, err
}

// SetFeatured закрепляет или открепляет бейдж на профиле.
// Возвращает false, если бейдж пользователю не принадлежит.
func (r *Repository) SetFeatured(ctx context.Context, userID, badgeID int64, featured bool) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_badges SET is_featured = $3
		WHERE user_id = $1 AND badge_id = $2
	`, userID, badgeID, featured)
	if err != nil {
		return false, fmt.Errorf("ошибка закрепления бейджа: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RecentEarners возвращает последних обладателей бейджа.
func (r *Repository) RecentEarners(ctx context.Context, badgeID int64, limit int) ([]*Earner, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.user_id, u.username, u.name, ub.earned_at
		FROM user_badges ub
		JOIN users u ON u.user_id = ub.user_id
		WHERE ub.badge_id = $1
		ORDER BY ub.earned_at DESC
		LIMIT $2
	`, badgeID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки обладателей: %w", err)
	}
	defer rows.Close()

	var result []*Earner
	for rows.Next() {
		var e Earner
		if err := rows.Scan(&e.UserID, &e.Username, &e.Name, &e.EarnedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования: %w", err)
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}

// Stats возвращает снимок счётчиков пользователя для проверки критериев.
func (r *Repository) Stats(ctx context.Context, userID int64) (*UserStats, error) {
	var s UserStats
	err := r.db.QueryRow(ctx, `
		SELECT total_posts, total_helpful, solutions_count, login_streak,
			connections_count, threads_created, threads_large,
			reputation, COALESCE(department, ''), joined_at
		FROM users WHERE user_id = $1
	`, userID).Scan(
		&s.TotalPosts, &s.TotalHelpful, &s.SolutionsCount, &s.LoginStreak,
		&s.ConnectionsCount, &s.ThreadsCreated, &s.ThreadsLarge,
		&s.Reputation, &s.Department, &s.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения счётчиков: %w", err)
	}
	return &s, nil
}

// EarlyAdopterCutoff считает дату отсечки ранней регистрации:
// дата самого первого пользователя плюс окно.
func (r *Repository) EarlyAdopterCutoff(ctx context.Context, window time.Duration) (time.Time, error) {
	var first *time.Time
	err := r.db.QueryRow(ctx, `SELECT MIN(joined_at) FROM users`).Scan(&first)
	if err != nil {
		return time.Time{}, fmt.Errorf("ошибка чтения даты запуска: %w", err)
	}
	if first == nil {
		return time.Time{}, nil
	}
	return first.Add(window), nil
}

// DepartmentRank считает место пользователя в рейтинге своего департамента:
// единица плюс число одобренных пользователей департамента со строго
// большей репутацией.
func (r *Repository) DepartmentRank(ctx context.Context, userID int64) (int, error) {
	var rank *int
	err := r.db.QueryRow(ctx, `
		SELECT 1 + COUNT(other.id)
		FROM users me
		LEFT JOIN users other
			ON other.department = me.department
			AND other.status = 'approved'
			AND other.reputation > me.reputation
		WHERE me.user_id = $1 AND me.department IS NOT NULL AND me.department <> ''
		GROUP BY me.id
	`, userID).Scan(&rank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Нет департамента — ранга нет
			return 0, nil
		}
		return 0, fmt.Errorf("ошибка подсчёта ранга: %w", err)
	}
	if rank == nil {
		return 0, nil
	}
	return *rank, nil
}
