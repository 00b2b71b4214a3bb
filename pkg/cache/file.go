package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	dataExt = ".bin"
	metaExt = ".meta"
)

// FileCache stores artifacts as raw files under a directory.
//
// Each entry is a data file holding the artifact bytes and a small JSON
// sidecar with its size, checksum and expiry. The sidecar is written last,
// so an entry only becomes visible once its data is complete. Entries that
// are expired or fail the checksum are removed on read and reported as
// misses.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache in the given directory.
// The directory will be created if it doesn't exist.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

type entryMeta struct {
	Size      int       `json:"size"`
	SHA256    string    `json:"sha256"`
	ExpiresAt time.Time `json:"expires_at"` // zero never expires
}

// Get retrieves an artifact from the cache.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	base := c.path(key)

	raw, err := os.ReadFile(base + metaExt)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var meta entryMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		c.drop(ctx, key)
		return nil, false, nil
	}
	if !meta.ExpiresAt.IsZero() && time.Now().After(meta.ExpiresAt) {
		c.drop(ctx, key)
		return nil, false, nil
	}

	data, err := os.ReadFile(base + dataExt)
	if err != nil || len(data) != meta.Size || Hash(data) != meta.SHA256 {
		c.drop(ctx, key)
		return nil, false, nil
	}
	return data, true, nil
}

// Set stores an artifact. A ttl of zero never expires.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	meta := entryMeta{Size: len(data), SHA256: Hash(data)}
	if ttl > 0 {
		meta.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	base := c.path(key)
	if err := os.MkdirAll(filepath.Dir(base), 0755); err != nil {
		return err
	}
	if err := writeAtomic(base+dataExt, data); err != nil {
		return err
	}
	return writeAtomic(base+metaExt, raw)
}

// Delete removes an artifact. Deleting a missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	base := c.path(key)
	for _, p := range []string{base + metaExt, base + dataExt} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Dir returns the cache root directory.
func (c *FileCache) Dir() string {
	return c.dir
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// path maps a key to its entry path without extension, fanned out into
// 256 subdirectories by the first byte of the key hash.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:])
}

// drop deletes an unusable entry. Failures are ignored; the entry is
// overwritten by the next Set anyway.
func (c *FileCache) drop(ctx context.Context, key string) {
	_ = c.Delete(ctx, key)
}

// writeAtomic writes data to a temp file next to path and renames it into
// place, so concurrent runs never observe a partial file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var _ Cache = (*FileCache)(nil)
