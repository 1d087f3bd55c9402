// Package redis управляет подключением к Redis.
// Redis используется только как кеш лидерборда (sorted set по репутации);
// источником истины всегда остаётся PostgreSQL.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"studyhub.ru/gamification/internal/config"
)

// NewClient создаёт клиент Redis и проверяет соединение.
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis недоступен: %w", err)
	}

	log.Info("Подключение к Redis установлено")
	return client, nil
}
