package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the subset of redis.UniversalClient used by Storage.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Storage keeps each queue under a single Redis string key.
type Storage struct {
	db     Client
	prefix string
	ttl    time.Duration
}

// StorageOption configures Storage.
type StorageOption func(*Storage)

// WithKeyPrefix sets the prefix prepended to queue names.
func WithKeyPrefix(prefix string) StorageOption {
	return func(s *Storage) {
		s.prefix = prefix
	}
}

// WithTTL expires stored queues after ttl. Zero means no expiration.
func WithTTL(ttl time.Duration) StorageOption {
	return func(s *Storage) {
		s.ttl = max(ttl, 0)
	}
}

// WithConfig applies KeyPrefix and TTL from cfg.
func WithConfig(cfg Config) StorageOption {
	return func(s *Storage) {
		WithKeyPrefix(cfg.KeyPrefix)(s)
		WithTTL(cfg.TTL)(s)
	}
}

// NewStorage creates a Redis-backed queue storage.
func NewStorage(client Client, opts ...StorageOption) *Storage {
	s := &Storage{
		db:     client,
		prefix: "offlineq:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns nil for missing keys (redis.Nil becomes nil).
func (s *Storage) Load(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, ErrEmptyQueueName
	}
	val, err := s.db.Get(ctx, s.prefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *Storage) Save(ctx context.Context, name string, blob []byte) error {
	if name == "" {
		return ErrEmptyQueueName
	}
	return s.db.Set(ctx, s.prefix+name, blob, s.ttl).Err()
}
