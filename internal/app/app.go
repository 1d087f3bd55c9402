// Package app инициализирует все компоненты сервиса геймификации.
// app.go — точка сборки: создаёт пулы БД и Redis, репозитории, сервисы,
// обработчики и собирает HTTP-сервер с планировщиком.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"studyhub.ru/gamification/internal/config"
	"studyhub.ru/gamification/internal/db/postgres"
	"studyhub.ru/gamification/internal/db/redis"
	"studyhub.ru/gamification/internal/features/badges"
	"studyhub.ru/gamification/internal/features/leaderboard"
	"studyhub.ru/gamification/internal/features/notifications"
	"studyhub.ru/gamification/internal/features/reputation"
	"studyhub.ru/gamification/internal/features/users"
	"studyhub.ru/gamification/internal/jobs"
	"studyhub.ru/gamification/internal/server"
)

// App содержит все компоненты сервиса.
type App struct {
	HTTPServer *http.Server
	Scheduler  *jobs.Scheduler
	DB         *pgxpool.Pool
	Redis      *goredis.Client
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	// === 1. Часовой пояс ===
	loc, err := time.LoadLocation(cfg.AppTimezone)
	if err != nil {
		return nil, fmt.Errorf("неизвестный часовой пояс %q: %w", cfg.AppTimezone, err)
	}

	// === 2. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 3. Redis (кеш рейтинга, опционально) ===
	var rdb *goredis.Client
	var lbCache *leaderboard.Cache
	if cfg.FeatureLeaderboardCacheEnabled {
		rdb, err = redis.NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
		}
		lbCache = leaderboard.NewCache(rdb, cfg.LeaderboardCacheTTL)
	} else {
		log.Info("Кеш рейтинга выключен, все чтения идут в БД")
	}

	// === 4. Репозитории ===
	notifRepo := notifications.NewRepository(pool)
	userRepo := users.NewRepository(pool)
	reputationRepo := reputation.NewRepository(pool, notifRepo)
	badgeRepo := badges.NewRepository(pool, notifRepo)
	leaderboardRepo := leaderboard.NewRepository(pool)

	// Каталог бейджей заливается при каждом старте; повтор безопасен
	if err := badgeRepo.Seed(ctx, badges.Catalog); err != nil {
		return nil, fmt.Errorf("ошибка заливки каталога бейджей: %w", err)
	}

	// === 5. Сервисы ===
	notifService := notifications.NewService(notifRepo)
	userService := users.NewService(userRepo, loc)
	leaderboardService := leaderboard.NewService(leaderboardRepo, lbCache, leaderboard.Options{
		DefaultLimit: cfg.LeaderboardDefaultLimit,
		MaxLimit:     cfg.LeaderboardMaxLimit,
		CacheEnabled: cfg.FeatureLeaderboardCacheEnabled,
	}, logger)
	reputationService := reputation.NewService(
		reputationRepo, userRepo, leaderboardService.GlobalRank, logger)
	badgeService := badges.NewService(badgeRepo, badgeRepo, badges.Options{
		EarlyAdopterWindow: time.Duration(cfg.BadgeEarlyAdopterDays) * 24 * time.Hour,
		MaxFeatured:        cfg.BadgeMaxFeatured,
		Enabled:            cfg.FeatureBadgesEnabled,
	}, logger)

	// === 6. Обработчики и HTTP-сервер ===
	dispatcher := server.NewEventDispatcher(
		userService, reputationService, badgeService, leaderboardService, logger)

	httpServer := server.New(cfg, server.Handlers{
		Reputation:    reputation.NewHandler(reputationService, logger),
		Badges:        badges.NewHandler(badgeService, logger),
		Leaderboard:   leaderboard.NewHandler(leaderboardService, logger),
		Notifications: notifications.NewHandler(notifService, logger),
		Events:        dispatcher,
	}, logger)

	// === 7. Планировщик задач ===
	scheduler := jobs.NewScheduler(loc, userService, badgeService, leaderboardService, logger)

	return &App{
		HTTPServer: httpServer,
		Scheduler:  scheduler,
		DB:         pool,
		Redis:      rdb,
	}, nil
}

// Close освобождает соединения приложения.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	a.DB.Close()
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationTable(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Users},
		{2, migration002ReputationHistory},
		{3, migration003Badges},
		{4, migration004Notifications},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL,
    username VARCHAR(255) DEFAULT '',
    name VARCHAR(255) NOT NULL DEFAULT '',
    department VARCHAR(255) NOT NULL DEFAULT '',
    status VARCHAR(32) NOT NULL DEFAULT 'approved',
    reputation INTEGER NOT NULL DEFAULT 0,
    reputation_level VARCHAR(32) NOT NULL DEFAULT 'Newbie',
    total_posts INTEGER NOT NULL DEFAULT 0,
    total_helpful INTEGER NOT NULL DEFAULT 0,
    solutions_count INTEGER NOT NULL DEFAULT 0,
    connections_count INTEGER NOT NULL DEFAULT 0,
    threads_created INTEGER NOT NULL DEFAULT 0,
    threads_large INTEGER NOT NULL DEFAULT 0,
    login_streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    last_login TIMESTAMP,
    joined_at TIMESTAMP NOT NULL DEFAULT NOW(),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_user_id ON users(user_id);
CREATE INDEX IF NOT EXISTS idx_users_reputation ON users(status, reputation DESC);
CREATE INDEX IF NOT EXISTS idx_users_department ON users(department);
CREATE INDEX IF NOT EXISTS idx_users_last_login ON users(last_login);
`

var migration002ReputationHistory = `
CREATE TABLE IF NOT EXISTS reputation_history (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    action VARCHAR(64) NOT NULL,
    points_change INTEGER NOT NULL,
    related_type VARCHAR(32),
    related_id BIGINT,
    reputation_before INTEGER NOT NULL,
    reputation_after INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_reputation_history_user ON reputation_history(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_reputation_history_action ON reputation_history(action);
`

var migration003Badges = `
CREATE TABLE IF NOT EXISTS badges (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) UNIQUE NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    icon VARCHAR(16) NOT NULL DEFAULT '',
    category VARCHAR(32) NOT NULL,
    rarity VARCHAR(32) NOT NULL,
    color VARCHAR(16) NOT NULL DEFAULT '',
    criteria_kind VARCHAR(32) NOT NULL,
    criteria_threshold INTEGER NOT NULL DEFAULT 1,
    awarded_count INTEGER NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS user_badges (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    badge_id BIGINT NOT NULL REFERENCES badges(id),
    earned_at TIMESTAMP NOT NULL DEFAULT NOW(),
    is_featured BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE(user_id, badge_id)
);
CREATE INDEX IF NOT EXISTS idx_user_badges_user ON user_badges(user_id);
CREATE INDEX IF NOT EXISTS idx_user_badges_badge ON user_badges(badge_id, earned_at DESC);
`

var migration004Notifications = `
CREATE TABLE IF NOT EXISTS notifications (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    title VARCHAR(255) NOT NULL DEFAULT '',
    body TEXT NOT NULL DEFAULT '',
    notification_type VARCHAR(64) NOT NULL,
    related_type VARCHAR(32),
    related_id BIGINT,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(user_id) WHERE is_read = FALSE;
`
