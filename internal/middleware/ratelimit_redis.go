package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisRateKeyPrefix = "ratelimit:"

// redisRateStore keeps fixed-window counters in Redis so several server processes share limits.
type redisRateStore struct {
	client redis.Cmdable
}

// NewRedisRateStore returns a RateStore backed by the given Redis client.
func NewRedisRateStore(client redis.Cmdable) RateStore {
	return &redisRateStore{client: client}
}

func (s *redisRateStore) Increment(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	if window <= 0 {
		window = defaultRateWindow
	}
	key = redisRateKeyPrefix + key

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("ratelimit: incr %s: %w", key, err)
	}
	if count == 1 {
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("ratelimit: expire %s: %w", key, err)
		}
		return 1, window, nil
	}

	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("ratelimit: ttl %s: %w", key, err)
	}
	// A counter without expiry would block the key forever.
	if ttl < 0 {
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("ratelimit: expire %s: %w", key, err)
		}
		ttl = window
	}

	return int(count), ttl, nil
}

// Ping reports whether Redis is reachable.
func (s *redisRateStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// OpenRedis connects to Redis and verifies the connection with a ping.
func OpenRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ratelimit: redis ping: %w", err)
	}

	return client, nil
}
