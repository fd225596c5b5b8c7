package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Cache on a redis server shared by every API node.
type Redis struct {
	client redis.Cmdable
	log    *slog.Logger
	prefix string
}

// NewRedis wraps client. Every key is stored under prefix.
func NewRedis(client redis.Cmdable, log *slog.Logger, prefix string) *Redis {
	return &Redis{client: client, log: log, prefix: prefix}
}

// Dial connects to addr and pings it.
func Dial(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (r *Redis) key(k string) string { return r.prefix + k }

func (r *Redis) Get(ctx context.Context, key string, dst any) error {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		r.log.Error("failed to get from cache", slog.String("key", key), slog.String("error", err.Error()))
		return err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		r.log.Error("failed to unmarshal cached value", slog.String("key", key), slog.String("error", err.Error()))
		return err
	}

	return nil
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		r.log.Error("failed to set cache", slog.String("key", key), slog.String("error", err.Error()))
		return err
	}

	return nil
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = r.key(k)
	}

	if err := r.client.Del(ctx, prefixed...).Err(); err != nil {
		r.log.Error("failed to invalidate cache", slog.Any("keys", keys), slog.String("error", err.Error()))
		return err
	}

	return nil
}
