package location

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/fansense/fansense-cli/internal/model"
)

// Storage is the durable backend behind a Cache. Load returns the full
// mapping; Save overwrites it.
type Storage interface {
	Load() (map[string]model.GeocodeResult, error)
	Save(entries map[string]model.GeocodeResult) error
}

// FileStorage persists the cache as a single flat JSON object on disk.
type FileStorage struct {
	path string
}

// NewFileStorage creates a FileStorage at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads the mapping from disk. A missing file yields an empty mapping.
func (f *FileStorage) Load() (map[string]model.GeocodeResult, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]model.GeocodeResult{}, nil
		}
		return nil, eris.Wrapf(err, "location: read cache file %s", f.path)
	}

	entries := map[string]model.GeocodeResult{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, eris.Wrapf(err, "location: parse cache file %s", f.path)
	}
	return entries, nil
}

// Save writes the full mapping to disk, replacing prior contents. The write
// goes through a temp file and rename so a crash mid-flush cannot corrupt the
// previous snapshot.
func (f *FileStorage) Save(entries map[string]model.GeocodeResult) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return eris.Wrap(err, "location: marshal cache")
	}

	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return eris.Wrapf(err, "location: create cache dir for %s", f.path)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrapf(err, "location: write cache file %s", tmp)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return eris.Wrapf(err, "location: rename cache file %s", f.path)
	}
	return nil
}

// MemStorage is an in-memory Storage, used in tests and for cache-less runs.
type MemStorage struct {
	mu      sync.Mutex
	entries map[string]model.GeocodeResult
	Saves   int // number of Save calls, readable by tests
	FailIO  bool
}

// Load returns a copy of the stored mapping.
func (m *MemStorage) Load() (map[string]model.GeocodeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIO {
		return nil, eris.New("location: memory storage load failure")
	}
	out := make(map[string]model.GeocodeResult, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out, nil
}

// Save replaces the stored mapping with a copy of entries.
func (m *MemStorage) Save(entries map[string]model.GeocodeResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIO {
		return eris.New("location: memory storage save failure")
	}
	m.Saves++
	m.entries = make(map[string]model.GeocodeResult, len(entries))
	for k, v := range entries {
		m.entries[k] = v
	}
	return nil
}

// Cache is the in-memory location cache backed by a Storage. Keys are raw
// location strings, including synthetic variants such as "in X". Entries are
// never invalidated; manual seeding is the only overwrite path. Loss of
// unflushed entries on crash is accepted.
type Cache struct {
	mu      sync.Mutex
	entries map[string]model.GeocodeResult
	storage Storage
}

// NewCache loads a Cache from storage. Missing or corrupt storage yields an
// empty cache with a warning, never an error.
func NewCache(storage Storage) *Cache {
	entries, err := storage.Load()
	if err != nil {
		zap.L().Warn("location: cache load failed, starting empty", zap.Error(err))
		entries = map[string]model.GeocodeResult{}
	}
	return &Cache{entries: entries, storage: storage}
}

// Get looks up a result by exact key match.
func (c *Cache) Get(key string) (model.GeocodeResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.entries[key]
	return result, ok
}

// Put upserts a result under key, fully replacing any prior value.
func (c *Cache) Put(key string, result model.GeocodeResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Flush writes the full mapping to storage. Failure is logged and reported
// but non-fatal: the in-memory cache stays usable.
func (c *Cache) Flush() error {
	c.mu.Lock()
	snapshot := make(map[string]model.GeocodeResult, len(c.entries))
	for k, v := range c.entries {
		snapshot[k] = v
	}
	c.mu.Unlock()

	if err := c.storage.Save(snapshot); err != nil {
		zap.L().Warn("location: cache flush failed", zap.Error(err), zap.Int("entries", len(snapshot)))
		return err
	}
	return nil
}
