package cache

import (
	"context"
	"time"
)

// NullCache discards everything. It backs the "none" cache backend and
// stands in for a real cache when a configured backend is unreachable, so
// exports always work, just without reuse.
type NullCache struct{}

// NewNullCache creates a cache that never stores anything.
func NewNullCache() Cache { return &NullCache{} }

// Get always misses.
func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the artifact.
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (c *NullCache) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
