package redislock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eksporyuk/payment-core-service/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "payment:provision:"

// Script releases the lock only when the stored token matches, so an
// expired holder cannot free a lock someone else re-acquired.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisProvisionLocker struct {
	client *redis.Client
}

func NewRedisProvisionLocker(client *redis.Client) *RedisProvisionLocker {
	return &RedisProvisionLocker{client: client}
}

func (l *RedisProvisionLocker) Acquire(ctx context.Context, transactionID string, ttl time.Duration) (func(), error) {
	key := keyPrefix + transactionID
	token := uuid.New().String()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquiring provision lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrProvisionLocked
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			slog.Warn("failed to release provision lock", "key", key, "error", err.Error())
		}
	}
	return release, nil
}
