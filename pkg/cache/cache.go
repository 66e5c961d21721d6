// Package cache provides caching for formdeck's expensive artifacts.
//
// Rendering a document to HTML or SVG and serializing documents for the API
// are pure functions of their inputs, so both are cached behind a shared
// [Cache] interface. Backends:
//   - [FileCache]: on-disk cache for CLI usage
//   - [MemoryCache]: process-local cache for the embedded server
//   - [RedisCache]: shared cache for multi-instance deployments
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer] so every call site agrees on the schema, and
// can be namespaced per tenant with [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is the interface all cache backends implement. Get reports a miss
// with hit=false and a nil error; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ExportKeyOpts are the inputs that change an exported artifact beyond the
// document itself.
type ExportKeyOpts struct {
	Format string // "html", "svg", "dot"
	Theme  string
}

// PreviewKeyOpts are the inputs that change a rendered preview beyond the
// document itself.
type PreviewKeyOpts struct {
	Width  int
	Height int
}

// Keyer builds cache keys. docHash is the content hash of the serialized
// document ([Hash] of its canonical JSON), so edits invalidate naturally.
type Keyer interface {
	// DocumentKey is the key for a serialized document looked up by ID.
	DocumentKey(id string) string

	// ExportKey is the key for an exported artifact.
	ExportKey(docHash string, opts ExportKeyOpts) string

	// PreviewKey is the key for a rendered preview image.
	PreviewKey(docHash string, opts PreviewKeyOpts) string
}

// DefaultKeyer is the standard key schema.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DocumentKey generates a key for document lookups.
func (k *DefaultKeyer) DocumentKey(id string) string {
	return "doc:" + id
}

// ExportKey generates a key for exported artifacts.
func (k *DefaultKeyer) ExportKey(docHash string, opts ExportKeyOpts) string {
	return hashKey("export", docHash, opts)
}

// PreviewKey generates a key for rendered previews.
func (k *DefaultKeyer) PreviewKey(docHash string, opts PreviewKeyOpts) string {
	return hashKey("preview", docHash, opts)
}
