package cache

import (
	"context"
	"time"
)

// NullCache never stores anything. Used for --no-cache and in tests.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
