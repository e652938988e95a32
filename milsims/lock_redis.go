package milsims

import (
	"context"
	"encoding/json"
	"time"

	lock "github.com/bsm/redis-lock"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

const redisKeyPrefix = "bf2-milsims:"

// RedisLocker keeps locks and last runs in Redis
type RedisLocker struct {
	redis *redis.Client
	now   func() time.Time
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{
		redis: client,
		now:   time.Now,
	}
}

func lockKey(key string) string {
	return redisKeyPrefix + key + ":run-lock"
}

func lastRunKey(key string) string {
	return redisKeyPrefix + key + ":run-last"
}

func (l *RedisLocker) TryAcquire(ctx context.Context, key string, minInterval time.Duration) (bool, error) {
	locker := lock.New(
		l.redis,
		lockKey(key),
		&lock.Options{
			LockTimeout: 1 * time.Minute,
			RetryCount:  0, // do not retry
		},
	)

	locked, err := locker.LockWithContext(ctx)
	if err != nil {
		return false, errors.Wrap(err, "error acquiring lock")
	}
	if !locked {
		return false, nil
	}
	defer locker.Unlock() // nolint: errcheck

	lastRun, err := l.LastRun(ctx, key)
	if err != nil {
		return false, errors.Wrap(err, "error finding out if run should happen")
	}
	now := l.now()
	if lastRun != nil && now.Sub(*lastRun) < minInterval {
		return false, nil
	}

	raw, err := json.Marshal(now.UTC())
	if err != nil {
		return false, err
	}

	err = l.redis.Set(lastRunKey(key), raw, 0).Err()
	if err != nil {
		return false, errors.Wrap(err, "error setting last run time")
	}

	return true, nil
}

func (l *RedisLocker) LastRun(ctx context.Context, key string) (*time.Time, error) {
	raw, err := l.redis.Get(lastRunKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var lastRun time.Time
	err = json.Unmarshal(raw, &lastRun)
	if err != nil {
		return nil, err
	}

	return &lastRun, nil
}
