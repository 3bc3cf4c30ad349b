package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLocked возвращается, если блокировку держит другой процесс.
var ErrLocked = errors.New("lock is held")

// Снимает блокировку, только если она всё ещё принадлежит владельцу токена.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Acquire берёт блокировку key на время ttl. Возвращает функцию освобождения.
// Истёкшая блокировка освобождается сама, поэтому упавший процесс не держит её вечно.
func (c *Cache) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	const op = "cache.Acquire"

	token := uuid.NewString()
	ok, err := c.Db.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", op, key, ErrLocked)
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, c.Db, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("cache.Release: %w", err)
		}
		return nil
	}
	return release, nil
}
