package calllog

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each log under a single string key. SET replaces the value atomically.
type RedisBackend struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisBackend(rdb *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{rdb: rdb, prefix: prefix}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if b.rdb == nil {
		return nil, errors.New("calllog: redis client is nil")
	}
	v, err := b.rdb.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return v, err
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	if b.rdb == nil {
		return errors.New("calllog: redis client is nil")
	}
	return b.rdb.Set(ctx, b.prefix+key, value, 0).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if b.rdb == nil {
		return errors.New("calllog: redis client is nil")
	}
	return b.rdb.Del(ctx, b.prefix+key).Err()
}
