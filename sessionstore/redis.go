// Package sessionstore provides SessionStore implementations for ephemeral
// token storage.
package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anverma/filecab"
)

// Config holds the connection settings for the key-value store.
type Config struct {
	Addr     string `mapstructure:"addr" validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

// Redis stores sessions in Redis, relying on its native key expiry for TTL
// semantics. This is the production backend.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis and verifies connectivity.
func NewRedis(ctx context.Context, cfg Config) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{client: client}, nil
}

func (s *Redis) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w: %w", filecab.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("get session: %w", filecab.ErrNotFound)
		}
		return "", fmt.Errorf("get session: %w: %w", filecab.ErrStoreUnavailable, err)
	}
	return val, nil
}

func (s *Redis) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete session: %w: %w", filecab.ErrStoreUnavailable, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Redis) Close() error {
	return s.client.Close()
}
