package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"publisher-backoffice/pkg/cache"
	"publisher-backoffice/pkg/logger"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisCache implements cache.Cache on top of go-redis.
type RedisCache struct {
	Client *redis.Client
	prefix string
}

var _ cache.Cache = (*RedisCache)(nil)

func NewRedisCache(cfg RedisConfig) *RedisCache {
	return &RedisCache{
		Client: redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     10,
			MinIdleConns: 2,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
		prefix: cfg.Prefix,
	}
}

func (r *RedisCache) Connect(ctx context.Context) error {
	logger.Info("connecting to redis", map[string]interface{}{"addr": r.Client.Options().Addr})

	if err := r.Ping(ctx); err != nil {
		return err
	}

	logger.Info("redis connected", nil)
	return nil
}

// Set stores value as JSON under the prefixed key.
func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis encode %s: %w", key, err)
	}

	if err := r.Client.Set(ctx, r.key(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.Client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", key, err)
	}
	return n > 0, nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// key prepends the configured prefix to k.
func (r *RedisCache) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}
