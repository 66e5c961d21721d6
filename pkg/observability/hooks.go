// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about editor gestures, store operations, and cache usage.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Editor().OnDragStart(ctx, nodeID)
//	// ... gesture runs ...
//	observability.Editor().OnDrop(ctx, nodeID, targetID, ok, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from drag-and-drop editing sessions.
type EditorHooks interface {
	// Gesture events
	OnDragStart(ctx context.Context, nodeID string)
	OnDrop(ctx context.Context, nodeID, targetID string, ok bool, duration time.Duration)
	OnDragCancel(ctx context.Context, nodeID string)

	// Mutation events
	OnMutation(ctx context.Context, op string, nodeCount int)

	// History events
	OnUndo(ctx context.Context, label string)
	OnRedo(ctx context.Context, label string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from document store operations.
type StoreHooks interface {
	// OnLoad records a document load.
	OnLoad(ctx context.Context, id string, duration time.Duration, err error)

	// OnSave records a document save.
	OnSave(ctx context.Context, id string, nodeCount int, duration time.Duration, err error)

	// OnDelete records a document deletion.
	OnDelete(ctx context.Context, id string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnDragStart(context.Context, string)                         {}
func (NoopEditorHooks) OnDrop(context.Context, string, string, bool, time.Duration) {}
func (NoopEditorHooks) OnDragCancel(context.Context, string)                        {}
func (NoopEditorHooks) OnMutation(context.Context, string, int)                     {}
func (NoopEditorHooks) OnUndo(context.Context, string)                              {}
func (NoopEditorHooks) OnRedo(context.Context, string)                              {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, time.Duration, error)      {}
func (NoopStoreHooks) OnSave(context.Context, string, int, time.Duration, error) {}
func (NoopStoreHooks) OnDelete(context.Context, string, error)                   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks EditorHooks = NoopEditorHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetEditorHooks registers custom editor hooks.
// This should be called once at application startup before any editing.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
	storeHooks = NoopStoreHooks{}
	cacheHooks = NoopCacheHooks{}
}
