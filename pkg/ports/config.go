package ports

import "context"

// ConfigSource supplies configuration values.
type ConfigSource interface {
	// Load returns a snapshot of every key. The returned map belongs to the caller.
	Load(ctx context.Context) (map[string]string, error)
}

// ConfigStore is a writable ConfigSource.
type ConfigStore interface {
	ConfigSource

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
