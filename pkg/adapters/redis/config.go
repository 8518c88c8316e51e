package redis

import (
	"context"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "probe:"

// ConfigStore implements ports.ConfigStore on a Redis hash, so that several
// probe processes can share one configuration.
type ConfigStore struct {
	client *backend.Client
	prefix string
}

// Option configures the Redis adapters.
type Option func(*options)

type options struct {
	prefix string
}

// WithPrefix sets the key prefix (default "probe:").
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

func apply(opts []Option) options {
	o := options{prefix: defaultPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewClient opens a client for the given address.
func NewClient(address, password string, db int) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

// NewConfigStore creates a config store from an existing client.
func NewConfigStore(client *backend.Client, opts ...Option) *ConfigStore {
	o := apply(opts)
	return &ConfigStore{client: client, prefix: o.prefix}
}

func (s *ConfigStore) key() string {
	return s.prefix + "config"
}

// Load reads the whole hash.
func (s *ConfigStore) Load(ctx context.Context) (map[string]string, error) {
	cfg, err := s.client.HGetAll(ctx, s.key()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load config from redis: %w", err)
	}
	return cfg, nil
}

// Set stores value under key.
func (s *ConfigStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.HSet(ctx, s.key(), key, value).Err(); err != nil {
		return fmt.Errorf("failed to set config key %s: %w", key, err)
	}
	return nil
}

// SetAll stores every pair in one round trip.
func (s *ConfigStore) SetAll(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	for k, v := range values {
		pipe.HSet(ctx, s.key(), k, v)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *ConfigStore) Delete(ctx context.Context, key string) error {
	if err := s.client.HDel(ctx, s.key(), key).Err(); err != nil {
		return fmt.Errorf("failed to delete config key %s: %w", key, err)
	}
	return nil
}
