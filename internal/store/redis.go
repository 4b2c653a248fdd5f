package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces progress keys in a shared Redis.
const DefaultRedisPrefix = "learncricket:progress:"

// RedisProgressRepo keeps one JSON progress document per session key in
// Redis. Only the latest progress is kept.
type RedisProgressRepo struct {
	client *redis.Client
	prefix string
}

// NewRedisProgressRepo wraps an existing client.
func NewRedisProgressRepo(client *redis.Client, prefix string) *RedisProgressRepo {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisProgressRepo{client: client, prefix: prefix}
}

// OpenRedis parses a redis:// URL and verifies the server is reachable.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *RedisProgressRepo) redisKey(key string) string {
	return r.prefix + key
}

func (r *RedisProgressRepo) Load(ctx context.Context, key string) (*ProgressData, error) {
	raw, err := r.client.Get(ctx, r.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress %q: %w", key, err)
	}

	var data ProgressData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal progress %q: %w", key, err)
	}
	return &data, nil
}

func (r *RedisProgressRepo) Save(ctx context.Context, key string, data *ProgressData) error {
	if data == nil {
		return fmt.Errorf("save progress %q: nil data", key)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := r.client.Set(ctx, r.redisKey(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("set progress %q: %w", key, err)
	}
	return nil
}

func (r *RedisProgressRepo) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("delete progress %q: %w", key, err)
	}
	return nil
}
