// Package config загружает конфигурацию сервиса из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- HTTP ---
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`
	// Таймауты сервера, чтобы зависший клиент не держал соединение вечно
	HTTPReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	HTTPWriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"studyhub"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"studyhub_gamification"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Redis (кеш лидерборда) ---
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"redis:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Internal API ---
	// bcrypt-хеш токена для служебных эндпоинтов (/api/reputation/award и т.п.).
	// Храним хеш, а не сам токен, чтобы секрет не лежал в окружении открытым текстом.
	InternalTokenHash string `envconfig:"INTERNAL_TOKEN_HASH" required:"true"`

	// --- Leaderboard ---
	LeaderboardDefaultLimit int           `envconfig:"LEADERBOARD_DEFAULT_LIMIT" default:"50"`
	LeaderboardMaxLimit     int           `envconfig:"LEADERBOARD_MAX_LIMIT" default:"100"`
	LeaderboardCacheTTL     time.Duration `envconfig:"LEADERBOARD_CACHE_TTL" default:"10m"`

	// --- Badges ---
	// Окно "раннего участника": сколько дней после запуска платформы
	// регистрация считается ранней.
	BadgeEarlyAdopterDays int `envconfig:"BADGE_EARLY_ADOPTER_DAYS" default:"30"`
	// Максимум закреплённых бейджей в профиле.
	BadgeMaxFeatured int `envconfig:"BADGE_MAX_FEATURED" default:"3"`

	// --- Feature Flags ---
	FeatureBadgesEnabled           bool `envconfig:"FEATURE_BADGES_ENABLED" default:"true"`
	FeatureLeaderboardCacheEnabled bool `envconfig:"FEATURE_LEADERBOARD_CACHE_ENABLED" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("некорректный HTTP_PORT: %d", c.HTTPPort)
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.LeaderboardDefaultLimit <= 0 || c.LeaderboardMaxLimit < c.LeaderboardDefaultLimit {
		return fmt.Errorf("некорректные лимиты лидерборда")
	}
	if c.BadgeMaxFeatured <= 0 {
		return fmt.Errorf("BADGE_MAX_FEATURED должен быть > 0")
	}
	if c.BadgeEarlyAdopterDays <= 0 {
		return fmt.Errorf("BADGE_EARLY_ADOPTER_DAYS должен быть > 0")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
