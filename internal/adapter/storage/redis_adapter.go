package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const collectionKeyPrefix = "delivery:"

// RedisAdapter keeps each collection as one JSON string under delivery:<collection>.
type RedisAdapter struct {
	*collections
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client, logger zerolog.Logger) *RedisAdapter {
	a := &RedisAdapter{client: client}
	a.collections = &collections{
		blobs:  a,
		logger: logger.With().Str("component", "redis_store").Logger(),
	}
	return a
}

func (r *RedisAdapter) read(ctx context.Context, name string) ([]byte, error) {
	data, err := r.client.Get(ctx, collectionKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *RedisAdapter) write(ctx context.Context, name string, data []byte) error {
	return r.client.Set(ctx, collectionKeyPrefix+name, data, 0).Err()
}
