package locker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockHeld = errors.New("lock already held")

// unlockLua deletes the key only when it still holds the caller's token,
// so an expired holder can't release a lock taken over by another instance.
const unlockLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`

// RedisLocker is a gocron.Locker that lets only one instance run a job at a time.
type RedisLocker struct {
	redis    *redis.Client
	ttl      time.Duration
	unlockSc *redis.Script
}

func NewRedisLocker(redisClient *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		redis:    redisClient,
		ttl:      ttl,
		unlockSc: redis.NewScript(unlockLua),
	}
}

func lockKey(key string) string {
	return "lock:job:" + key
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (gocron.Lock, error) {
	token := uuid.NewString()
	lk := lockKey(key)

	ok, err := l.redis.SetNX(ctx, lk, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	return &redisLock{locker: l, key: lk, token: token}, nil
}

type redisLock struct {
	locker *RedisLocker
	key    string
	token  string
}

func (l *redisLock) Unlock(ctx context.Context) error {
	// the job context may already be cancelled on shutdown
	unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := l.locker.unlockSc.Run(unlockCtx, l.locker.redis, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("redis: release lock %s: %w", l.key, err)
	}
	return nil
}

var _ gocron.Locker = (*RedisLocker)(nil)
