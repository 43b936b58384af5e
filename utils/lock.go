package utils

import (
	"context"
	"fmt"
	"time"

	"funnelapi/config"
	"funnelapi/errs"

	"github.com/go-redis/redis/v8"
)

// Locker serializes work on a key across processes.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// NoopLocker is used when no Redis is configured.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker holds a SET NX lock with a TTL; the lock only releases if it is still ours.
type RedisLocker struct {
	client        *redis.Client
	ttl           time.Duration
	retryInterval time.Duration
	maxWait       time.Duration
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{
		client:        client,
		ttl:           10 * time.Second,
		retryInterval: 25 * time.Millisecond,
		maxWait:       5 * time.Second,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := "lock:" + key
	token := NewID()
	deadline := time.Now().Add(l.maxWait)

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil {
			return nil, errs.Storage("acquire lock", err)
		}
		if ok {
			return func() {
				if err := releaseScript.Run(context.Background(), l.client, []string{lockKey}, token).Err(); err != nil {
					LogError("lock_release", err, map[string]interface{}{"key": lockKey})
				}
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("lock %s held too long: %w", key, errs.ErrConflict)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
