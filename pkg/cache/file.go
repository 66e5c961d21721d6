package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileCache persists artifacts on disk so rendered exports survive across
// CLI invocations. Entries are sharded into subdirectories by key hash and
// written atomically, since artifacts (SVG renders in particular) can be
// large enough for a torn write to matter.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-backed cache rooted at dir, creating the
// directory if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// artifactEntry is the on-disk envelope around a cached artifact.
type artifactEntry struct {
	Artifact  []byte    `json:"artifact"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Get retrieves an artifact, lazily evicting expired or unreadable entries.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	path := c.entryPath(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry artifactEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Artifact, true, nil
}

// Set stores an artifact. A ttl of zero means the entry never expires;
// content-hash keys make stale entries unreachable anyway.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := artifactEntry{Artifact: data, StoredAt: time.Now()}
	if ttl > 0 {
		entry.ExpiresAt = entry.StoredAt.Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// Write-and-rename keeps readers from ever seeing a partial entry.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes an artifact. Missing entries are not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.entryPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file cache.
func (c *FileCache) Close() error { return nil }

// entryPath maps a key to its on-disk location. The first two hash chars
// shard entries so one directory never holds the whole cache.
func (c *FileCache) entryPath(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
