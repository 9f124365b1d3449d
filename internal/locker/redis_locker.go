package locker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "shop:settle-lock:"
	lockExpiry     = 30 * time.Second
	retryInterval  = 50 * time.Millisecond
)

// Unlock only when the stored token still belongs to this holder.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0`

// RedisLocker serializes settlement across service instances with
// SET NX PX plus a token-checked release. The expiry is a crash backstop,
// not a lease renewal scheme.
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker wraps a connected client.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire polls SET NX until it wins or the wait budget runs out.
func (l *RedisLocker) Acquire(ctx context.Context, key string, wait time.Duration) (func(), error) {
	lockKey := redisKeyPrefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(wait)

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, lockExpiry).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = l.client.Eval(releaseCtx, releaseScript, []string{lockKey}, token).Err()
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrLockBusy
		}
		select {
		case <-time.After(retryInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
