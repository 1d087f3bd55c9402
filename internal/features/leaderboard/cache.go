// Package leaderboard — cache.go кеширует рейтинг в Redis.
//
// Устройство:
//   - отсортированное множество "lb:rep:global" хранит user_id -> репутация
//   - по департаментам — "lb:rep:dept:<департамент>"
//   - хеш "lb:info" хранит user_id -> JSON строки рейтинга
//
// Позиция читается за O(log N), топ — за O(log N + M). Кеш обслуживает
// только период all_time; недельный и месячный срезы всегда идут в БД.
package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyGlobal     = "lb:rep:global"
	keyDeptPrefix = "lb:rep:dept:"
	keyInfo       = "lb:info"
)

// ErrCacheMiss — в кеше нет запрошенных данных; нужен поход в БД.
var ErrCacheMiss = errors.New("рейтинг отсутствует в кеше")

// Cache — кеш рейтинга поверх Redis.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache создаёт кеш рейтинга.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func deptKey(department string) string {
	return keyDeptPrefix + department
}

// Rebuild полностью перезаливает кеш из выборки БД.
// Старые ключи удаляются и наполняются заново в одном TxPipeline.
func (c *Cache) Rebuild(ctx context.Context, entries []*Entry) error {
	pipe := c.rdb.TxPipeline()

	// Собираем ключи департаментов для удаления вместе с глобальным
	deptMembers := make(map[string][]redis.Z)
	globalMembers := make([]redis.Z, 0, len(entries))
	info := make(map[string]any, len(entries))

	for _, e := range entries {
		member := strconv.FormatInt(e.UserID, 10)
		z := redis.Z{Score: float64(e.Reputation), Member: member}
		globalMembers = append(globalMembers, z)
		if e.Department != "" {
			deptMembers[e.Department] = append(deptMembers[e.Department], z)
		}
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("ошибка сериализации строки рейтинга: %w", err)
		}
		info[member] = data
	}

	delKeys := []string{keyGlobal, keyInfo}
	for dept := range deptMembers {
		delKeys = append(delKeys, deptKey(dept))
	}
	pipe.Del(ctx, delKeys...)

	if len(globalMembers) > 0 {
		pipe.ZAdd(ctx, keyGlobal, globalMembers...)
		pipe.Expire(ctx, keyGlobal, c.ttl)
	}
	for dept, members := range deptMembers {
		pipe.ZAdd(ctx, deptKey(dept), members...)
		pipe.Expire(ctx, deptKey(dept), c.ttl)
	}
	if len(info) > 0 {
		pipe.HSet(ctx, keyInfo, info)
		pipe.Expire(ctx, keyInfo, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("ошибка пересборки кеша рейтинга: %w", err)
	}
	return nil
}

// UpdateUser обновляет одну строку кеша после изменения репутации.
// Если кеш пуст (протух или ещё не собран), ничего не делаем:
// его наполнит ближайшая пересборка.
func (c *Cache) UpdateUser(ctx context.Context, e *Entry) error {
	exists, err := c.rdb.Exists(ctx, keyGlobal).Result()
	if err != nil {
		return fmt.Errorf("ошибка проверки кеша: %w", err)
	}
	if exists == 0 {
		return nil
	}

	member := strconv.FormatInt(e.UserID, 10)
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("ошибка сериализации строки рейтинга: %w", err)
	}

	pipe := c.rdb.Pipeline()
	z := redis.Z{Score: float64(e.Reputation), Member: member}
	pipe.ZAdd(ctx, keyGlobal, z)
	if e.Department != "" {
		pipe.ZAdd(ctx, deptKey(e.Department), z)
	}
	pipe.HSet(ctx, keyInfo, member, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("ошибка обновления кеша рейтинга: %w", err)
	}
	return nil
}

// Invalidate сбрасывает глобальный ключ; протухшие департаменты
// исчезнут сами по TTL.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, keyGlobal, keyInfo).Err()
}

// topFromKey читает топ из отсортированного множества и хеша деталей.
func (c *Cache) topFromKey(ctx context.Context, key string, limit int) ([]*Entry, error) {
	ids, err := c.rdb.ZRevRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения кеша рейтинга: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrCacheMiss
	}

	raw, err := c.rdb.HMGet(ctx, keyInfo, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения деталей рейтинга: %w", err)
	}

	result := make([]*Entry, 0, len(ids))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			// Деталь потерялась — кеш рассинхронизирован
			return nil, ErrCacheMiss
		}
		var e Entry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			return nil, fmt.Errorf("ошибка десериализации строки рейтинга: %w", err)
		}
		e.Rank = i + 1
		result = append(result, &e)
	}
	return result, nil
}

// TopGlobal читает глобальный топ из кеша.
func (c *Cache) TopGlobal(ctx context.Context, limit int) ([]*Entry, error) {
	return c.topFromKey(ctx, keyGlobal, limit)
}

// TopDepartment читает топ департамента из кеша.
func (c *Cache) TopDepartment(ctx context.Context, department string, limit int) ([]*Entry, error) {
	return c.topFromKey(ctx, deptKey(department), limit)
}

// GlobalRank читает позицию пользователя из кеша.
// Позиция — единица плюс число пользователей со строго большей
// репутацией: при равенстве очков ранги совпадают, как и в БД.
func (c *Cache) GlobalRank(ctx context.Context, userID int64) (int, error) {
	score, err := c.rdb.ZScore(ctx, keyGlobal, strconv.FormatInt(userID, 10)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("ошибка чтения ранга из кеша: %w", err)
	}
	higher, err := c.rdb.ZCount(ctx, keyGlobal,
		"("+strconv.FormatFloat(score, 'f', -1, 64), "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта ранга в кеше: %w", err)
	}
	return int(higher) + 1, nil
}
