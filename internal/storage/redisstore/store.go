package redisstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"feedsink/internal/domain"
)

// Store writes documents to a Redis server.
type Store struct {
	client *redis.Client
}

// Options builds client options from either a redis:// URL or a bare host:port.
func Options(address string) (*redis.Options, error) {
	if strings.HasPrefix(address, "redis://") || strings.HasPrefix(address, "rediss://") {
		opts, err := redis.ParseURL(address)
		if err != nil {
			return nil, fmt.Errorf("parse redis address: %w", err)
		}
		return opts, nil
	}
	if address == "" {
		return nil, fmt.Errorf("empty redis address")
	}
	return &redis.Options{Addr: address}, nil
}

// New connects to address and checks the connection with PING.
func New(ctx context.Context, address string) (*Store, error) {
	opts, err := Options(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: connect to redis: %w", domain.ErrConnection, err)
	}

	return &Store{client: client}, nil
}

// Set stores value under key with no expiry, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("set key %s: %w", key, err)
	}
	return nil
}

// Get returns the raw value at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("get key %s: %w", key, err)
	}
	return val, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
