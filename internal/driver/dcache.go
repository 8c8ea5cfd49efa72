package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"errgen/internal/project"
	"errgen/internal/version"
)

// Current schema version - increment when CacheEntry format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит сгенерированный код по хешу дескриптора и настроек.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CacheEntry is the stored result of one diagnostic-free generation.
type CacheEntry struct {
	Schema uint16
	Path   string   // descriptor path, for inspection only
	Enums  []string // enumerations in the descriptor
	Code   []byte   // formatted generated source
}

// DefaultCacheDir returns $XDG_CACHE_HOME/errgen or ~/.cache/errgen.
func DefaultCacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "errgen"), nil
}

// OpenDiskCache opens the cache at dir, or at DefaultCacheDir when dir is empty.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultCacheDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := key.String()
	// первые два символа - подкаталог, чтобы не копить тысячи файлов в одном
	return filepath.Join(c.dir, "gen", hexKey[:2], hexKey+".mp")
}

// CacheKey derives the entry key from descriptor content, the generator
// build and every option that changes generated output.
func CacheKey(content project.Digest, opts Options) project.Digest {
	opts = opts.withDefaults()
	return project.Combine(
		content[:],
		[]byte(version.Fingerprint()),
		[]byte(opts.Runtime),
		[]byte(opts.BuildTag),
		[]byte(opts.Policy.String()),
		[]byte(strings.Join(opts.Types, ",")),
	)
}

// Put serializes entry and atomically replaces the file for key.
func (c *DiskCache) Put(key project.Digest, entry *CacheEntry) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	stored := *entry
	stored.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(&stored); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	committed = true
	return nil
}

// Get reads the entry for key. A missing file or an entry of another schema
// is a miss.
func (c *DiskCache) Get(key project.Digest, out *CacheEntry) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var entry CacheEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	if entry.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	*out = entry
	return true, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
