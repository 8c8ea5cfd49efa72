package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"errgen/internal/fmtstr"
	"errgen/internal/project"
)

func TestDiskCachePutGet(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := project.Sum([]byte("descriptor"))

	var out CacheEntry
	if hit, err := cache.Get(key, &out); hit || err != nil {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}
	in := &CacheEntry{Path: "errors.go", Enums: []string{"CacheError"}, Code: []byte("package cache\n")}
	if err := cache.Put(key, in); err != nil {
		t.Fatal(err)
	}
	hit, err := cache.Get(key, &out)
	if !hit || err != nil {
		t.Fatalf("hit=%v err=%v", hit, err)
	}
	if out.Path != in.Path || string(out.Code) != string(in.Code) || len(out.Enums) != 1 || out.Schema != diskCacheSchemaVersion {
		t.Fatalf("got %+v", out)
	}

	entries, err := os.ReadDir(filepath.Dir(cache.pathFor(key)))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestDiskCacheSchemaMismatchIsMiss(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := project.Sum([]byte("old"))
	p := cache.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	data, err := msgpack.Marshal(&CacheEntry{Schema: diskCacheSchemaVersion + 1, Code: []byte("x")})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	var out CacheEntry
	if hit, err := cache.Get(key, &out); hit || err != nil {
		t.Fatalf("hit=%v err=%v", hit, err)
	}

	if err := os.WriteFile(p, []byte{0xc1}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Get(key, &out); err == nil {
		t.Fatal("corrupt entry must report an error")
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	cache, err := OpenDiskCache(filepath.Join(t.TempDir(), "c"))
	if err != nil {
		t.Fatal(err)
	}
	key := project.Sum([]byte("a"))
	if err := cache.Put(key, &CacheEntry{Code: []byte("x")}); err != nil {
		t.Fatal(err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	var out CacheEntry
	if hit, _ := cache.Get(key, &out); hit {
		t.Fatal("entry survived DropAll")
	}
	if err := cache.Put(key, &CacheEntry{Code: []byte("y")}); err != nil {
		t.Fatalf("cache unusable after DropAll: %v", err)
	}
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	var out CacheEntry
	if hit, err := cache.Get(project.Digest{}, &out); hit || err != nil {
		t.Fatal("nil cache must miss")
	}
	if err := cache.Put(project.Digest{}, &out); err != nil {
		t.Fatal(err)
	}
}

func TestCacheKeyCoversOptions(t *testing.T) {
	content := project.Sum([]byte("descriptor"))
	base := CacheKey(content, Options{})
	if base != CacheKey(content, Options{Runtime: "errgen/errkit"}) {
		t.Fatal("defaults must not change the key")
	}
	for name, opts := range map[string]Options{
		"policy":  {Policy: fmtstr.PolicyLenient},
		"runtime": {Runtime: "example.com/rt"},
		"tag":     {BuildTag: "gen"},
		"types":   {Types: []string{"CacheError"}},
	} {
		if CacheKey(content, opts) == base {
			t.Errorf("%s must change the key", name)
		}
	}
	if CacheKey(content, Options{MaxDiagnostics: 3, Jobs: 9}) != base {
		t.Fatal("run settings must not change the key")
	}
}
