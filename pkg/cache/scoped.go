package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// A hosted deployment gives each workspace its own namespace so one
// tenant's documents never collide with another's.
//
// Example usage:
//
//	// Workspace-specific keys
//	wsKeyer := NewScopedKeyer(NewDefaultKeyer(), "ws:abc123:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DocumentKey generates a prefixed key for document lookups.
func (k *ScopedKeyer) DocumentKey(id string) string {
	return k.prefix + k.inner.DocumentKey(id)
}

// ExportKey generates a prefixed key for exported artifacts.
func (k *ScopedKeyer) ExportKey(docHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(docHash, opts)
}

// PreviewKey generates a prefixed key for rendered previews.
func (k *ScopedKeyer) PreviewKey(docHash string, opts PreviewKeyOpts) string {
	return k.prefix + k.inner.PreviewKey(docHash, opts)
}
