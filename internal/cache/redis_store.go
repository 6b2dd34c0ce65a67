package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisStore is the externalized cache backend, selectable by config when
// cached state should survive restarts or be shared across instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logrus.Info("Successfully connected to Redis")

	return &RedisStore{client: client, prefix: "stockpulse:"}, nil
}

// NewRedisStoreFromClient wraps an existing client. Used by tests.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "stockpulse:"}
}

// Get returns the value for key if present and fresh. Redis errors are
// logged and reported as misses so a flaky cache never fails a request.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	data, err := s.client.Get(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key}).Warnf("Redis get failed: %v", err)
		return "", false
	}
	return data, true
}

// Set overwrites key with value under the given TTL.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		logrus.WithFields(logrus.Fields{"key": key}).Warnf("Redis set failed: %v", err)
	}
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// HealthCheck pings Redis.
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
