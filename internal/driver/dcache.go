package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"ppfront/internal/preproc"
	"ppfront/internal/source"
)

// Current schema version - increment when Payload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит отрендеренный вывод единиц трансляции на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Dependency is one file read while processing a unit.
type Dependency struct {
	Path string
	Hash Digest
}

// Payload is what the cache stores per unit.
type Payload struct {
	// Schema version for safe invalidation when format changes
	Schema   uint16
	Path     string
	Output   string
	Messages []string
	Status   uint8
	// Deps containing the main file first, then every included file.
	Deps []Dependency
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "units", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// после Rename файла уже нет
		_ = os.Remove(tmp)
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	// #nosec G304 -- путь строится из хеша
	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// key = H(schema || options || path || content).
func (c *DiskCache) key(path string, content []byte, opts *Options) Digest {
	if c == nil {
		return Digest{}
	}
	schema := hashString(fmt.Sprintf("schema=%d", diskCacheSchemaVersion))
	return combineDigest(schema, opts.fingerprint(), hashString(path), hashString(string(content)))
}

// lookup возвращает результат из кеша, если все зависимости не изменились.
func (c *DiskCache) lookup(key Digest, opts *Options) (*Result, bool) {
	if c == nil {
		return nil, false
	}
	var payload Payload
	ok, err := c.Get(key, &payload)
	if err != nil || !ok || payload.Schema != diskCacheSchemaVersion {
		return nil, false
	}
	cs, err := opts.charset()
	if err != nil {
		return nil, false
	}
	fs := source.NewFileSet()
	fs.SetCharset(cs)
	for _, dep := range payload.Deps {
		id, err := fs.Load(dep.Path)
		if err != nil || Digest(fs.Get(id).Hash) != dep.Hash {
			return nil, false
		}
	}
	return &Result{
		Path:     payload.Path,
		Cached:   true,
		Output:   payload.Output,
		Messages: payload.Messages,
		Status:   preproc.Status(payload.Status),
	}, true
}

// store кладёт результат в кеш. Отменённые и фатальные единицы не кешируются.
func (c *DiskCache) store(key Digest, res *Result) error {
	if c == nil || res.Status == preproc.StatusFatal {
		return nil
	}
	payload := &Payload{
		Schema:   diskCacheSchemaVersion,
		Path:     res.Path,
		Output:   res.Text(),
		Messages: res.Lines(),
		Status:   uint8(res.Status),
	}
	for _, f := range res.FileSet.Files() {
		if f.Flags&source.FileVirtual != 0 {
			continue
		}
		payload.Deps = append(payload.Deps, Dependency{Path: f.Path, Hash: Digest(f.Hash)})
	}
	return c.Put(key, payload)
}
