// Package cache stores raw upstream responses on disk, one file per
// request fingerprint. Entry age comes from file modification time.
package cache

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/ports"
)

// FileCache is a bounded file-per-entry response cache. It is strictly an
// optimization: reads degrade to misses and writes are best-effort, so no
// cache failure ever surfaces to the caller.
type FileCache struct {
	dir        string
	maxEntries int
	log        ports.Logger
	mu         sync.Mutex
}

// New returns a cache rooted at dir, holding at most maxEntries files.
func New(dir string, maxEntries int, log ports.Logger) *FileCache {
	if maxEntries <= 0 {
		maxEntries = domain.MaxCacheEntries
	}
	return &FileCache{dir: dir, maxEntries: maxEntries, log: log}
}

// Read returns the cached payload for digest if a fresh entry exists.
// Absent, stale, and unreadable entries all report a miss. Stale entries
// are left on disk; only the size cap deletes them.
func (c *FileCache) Read(digest string, ttl time.Duration) ([]byte, bool) {
	if digest == "" || ttl <= 0 {
		return nil, false
	}
	path := c.pathFor(digest)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > ttl {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Write stores the payload under digest and evicts the oldest entries
// beyond the cap. Failures are logged at most.
func (c *FileCache) Write(digest string, payload []byte) {
	if digest == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(c.dir, domain.DirectoryPermissions); err != nil {
		c.warn("create cache dir", err)
		return
	}
	if err := os.WriteFile(c.pathFor(digest), payload, domain.CacheFilePermissions); err != nil {
		c.warn("write cache entry", err)
		return
	}
	c.evict()
}

// Entries lists cache entries newest-first (best-effort).
func (c *FileCache) Entries() ([]domain.CacheEntryInfo, error) {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []domain.CacheEntryInfo
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		entries = append(entries, domain.CacheEntryInfo{
			Digest:    strings.TrimSuffix(f.Name(), ".json"),
			Size:      info.Size(),
			WrittenAt: info.ModTime(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].WrittenAt.After(entries[j].WrittenAt) })
	return entries, nil
}

// Clear removes the whole cache directory.
func (c *FileCache) Clear() error {
	return os.RemoveAll(c.dir)
}

// Dir exposes the cache directory path.
func (c *FileCache) Dir() string {
	return c.dir
}

func (c *FileCache) pathFor(digest string) string {
	return filepath.Join(c.dir, digest+".json")
}

// evict deletes the oldest-by-write-time entries beyond the cap.
func (c *FileCache) evict() {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}
	type fileInfo struct {
		name string
		mod  time.Time
	}
	var infos []fileInfo
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		infos = append(infos, fileInfo{name: f.Name(), mod: info.ModTime()})
	}
	if len(infos) <= c.maxEntries {
		return
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].mod.Before(infos[j].mod) })
	for _, old := range infos[:len(infos)-c.maxEntries] {
		if err := os.Remove(filepath.Join(c.dir, old.name)); err != nil {
			c.warn("evict cache entry", err)
		}
	}
}

func (c *FileCache) warn(msg string, err error) {
	if c.log != nil {
		c.log.Warn(msg+" failed", map[string]interface{}{"error": err.Error()})
	}
}

var _ ports.CacheStore = (*FileCache)(nil)
