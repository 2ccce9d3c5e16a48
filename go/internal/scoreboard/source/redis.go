package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisConfig holds connection settings for RedisSource
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisSource reads the match document from a Redis string key
type RedisSource struct {
	client *redis.Client
	key    string
}

// NewRedisSource connects to Redis and verifies the connection
func NewRedisSource(ctx context.Context, cfg RedisConfig) (*RedisSource, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	log.Info().
		Str("addr", cfg.Addr).
		Str("key", cfg.Key).
		Msg("connected to redis")

	return NewRedisSourceFromClient(client, cfg.Key), nil
}

// NewRedisSourceFromClient wraps an existing client
func NewRedisSourceFromClient(client *redis.Client, key string) *RedisSource {
	return &RedisSource{
		client: client,
		key:    key,
	}
}

// Read implements Source
func (s *RedisSource) Read(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return data, nil
}

// Name implements Source
func (s *RedisSource) Name() string {
	return "redis:" + s.key
}

// Write stores value under the key with no expiry. Used by the seed tool.
func (s *RedisSource) Write(ctx context.Context, value []byte) error {
	return s.client.Set(ctx, s.key, value, 0).Err()
}

// Close implements Closer
func (s *RedisSource) Close() error {
	return s.client.Close()
}
