package infra

import (
	"context"

	"github.com/redis/go-redis/v9"

	"khatapos/internal/store"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// RedisKV persists each collection blob as a plain Redis string value.
type RedisKV struct {
	rdb *redis.Client
}

func NewRedisKV(rdb *redis.Client) *RedisKV { return &RedisKV{rdb: rdb} }

func (k *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := k.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, store.ErrKeyNotFound
	}
	return raw, err
}

func (k *RedisKV) Put(ctx context.Context, key string, value []byte) error {
	return k.rdb.Set(ctx, key, value, 0).Err()
}
