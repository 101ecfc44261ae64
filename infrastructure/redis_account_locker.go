package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	defaultLockTTL       = 10 * time.Second
	defaultRetryInterval = 25 * time.Millisecond
	lockKeyPrefix        = "economy:lock"
)

// Only the holder's token may delete a lock, so an expired lock re-taken by
// another instance is never released by the previous owner.
var releaseLockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// RedisLockerConfig holds connection and timing settings for the Redis locker
type RedisLockerConfig struct {
	Addr          string
	Password      string
	DB            int
	TTL           time.Duration // Upper bound on how long a crashed holder blocks an account
	RetryInterval time.Duration
}

// RedisAccountLocker serializes operations on an account across bot instances
type RedisAccountLocker struct {
	client        *redis.Client
	ttl           time.Duration
	retryInterval time.Duration
}

// NewRedisAccountLocker connects to Redis and verifies the connection
func NewRedisAccountLocker(ctx context.Context, cfg RedisLockerConfig) (*RedisAccountLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	retry := cfg.RetryInterval
	if retry <= 0 {
		retry = defaultRetryInterval
	}

	log.WithField("addr", cfg.Addr).Info("Connected to Redis for account locks")
	return &RedisAccountLocker{client: client, ttl: ttl, retryInterval: retry}, nil
}

func redisLockKey(guildID, userID int64) string {
	return fmt.Sprintf("%s:%d:%d", lockKeyPrefix, guildID, userID)
}

type heldRedisLock struct {
	key   string
	token string
}

// Lock acquires every listed account of the guild in ascending user id order
func (l *RedisAccountLocker) Lock(ctx context.Context, guildID int64, userIDs ...int64) (func(), error) {
	ids := sortedUnique(userIDs)
	held := make([]heldRedisLock, 0, len(ids))

	for _, id := range ids {
		lock := heldRedisLock{key: redisLockKey(guildID, id), token: uuid.NewString()}
		if err := l.acquire(ctx, lock); err != nil {
			l.releaseAll(held)
			return nil, err
		}
		held = append(held, lock)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		l.releaseAll(held)
	}, nil
}

func (l *RedisAccountLocker) acquire(ctx context.Context, lock heldRedisLock) error {
	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, lock.key, lock.token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire lock %s: %w", lock.key, err)
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for lock %s: %w", lock.key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *RedisAccountLocker) releaseAll(held []heldRedisLock) {
	// Release must happen even when the caller's context already expired
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for i := len(held) - 1; i >= 0; i-- {
		if err := releaseLockScript.Run(ctx, l.client, []string{held[i].key}, held[i].token).Err(); err != nil {
			log.WithError(err).WithField("key", held[i].key).Warn("Failed to release account lock, it will expire")
		}
	}
}

// Close closes the Redis client
func (l *RedisAccountLocker) Close() error {
	return l.client.Close()
}
